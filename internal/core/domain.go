package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultCategory is assigned to expenses submitted without a category.
const DefaultCategory = "other"

type (
	Money struct {
		Cents int64
	}

	// Expense is a single logged spend belonging to exactly one user.
	Expense struct {
		ID         int64
		UserID     int64
		Name       string
		Amount     Money
		Category   string
		OccurredAt time.Time
		CreatedAt  time.Time
	}

	// User carries account identity plus the financial facts the
	// aggregator works from. The password credential lives in storage,
	// not here.
	User struct {
		ID            int64
		Username      string
		Email         string
		MonthlyIncome Money
		SavingsGoal   Money
		GeminiAPIKey  string
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty expense name")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Name)) == 0 {
		return ErrEmptyName
	}
	if len(e.Name) > 200 {
		return errors.New("expense name too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// Normalize fills defaults for optional expense fields: a blank category
// becomes DefaultCategory and a zero occurrence time becomes now.
func (e *Expense) Normalize(now time.Time) {
	if strings.TrimSpace(e.Category) == "" {
		e.Category = DefaultCategory
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
}
