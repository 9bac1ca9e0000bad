package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finbuddy/internal/core"
	"finbuddy/internal/storage"
)

func TestCreateExpenseValidatesAndDefaults(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo, "")
	svc := NewExpenseService(repo, nil)

	// No category and no date: defaults apply before persisting.
	created, err := svc.CreateExpense(context.Background(), core.Expense{
		UserID: userID,
		Name:   "bus ticket",
		Amount: core.Money{Cents: 250},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected a persisted id")
	}
	if created.Category != core.DefaultCategory {
		t.Fatalf("category = %q, want default %q", created.Category, core.DefaultCategory)
	}
	if created.OccurredAt.IsZero() {
		t.Fatalf("occurrence time was not defaulted")
	}

	expenses, err := svc.ListCurrentMonth(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var found bool
	for _, e := range expenses {
		if e.ID == created.ID {
			found = true
			if e.Category != core.DefaultCategory {
				t.Fatalf("category = %q, want default %q", e.Category, core.DefaultCategory)
			}
		}
	}
	if !found {
		t.Fatalf("created expense not listed for the current month")
	}
}

func TestCreateExpenseReturnsPersistedRow(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo, "")
	svc := NewExpenseService(repo, nil)

	created, err := svc.CreateExpense(context.Background(), core.Expense{
		UserID: userID,
		Name:   "coffee",
		Amount: core.Money{Cents: 450},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	expenses, err := svc.ListCurrentMonth(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var stored core.Expense
	for _, e := range expenses {
		if e.ID == created.ID {
			stored = e
		}
	}
	if stored.ID == 0 {
		t.Fatalf("created expense not found in listing")
	}
	// The returned expense must carry exactly the persisted occurrence
	// time, not a second defaulting pass.
	if !stored.OccurredAt.Equal(created.OccurredAt) {
		t.Fatalf("returned occurrence %v differs from stored %v", created.OccurredAt, stored.OccurredAt)
	}
	if stored.Category != created.Category {
		t.Fatalf("returned category %q differs from stored %q", created.Category, stored.Category)
	}
}

func TestCreateExpenseRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo, "")
	svc := NewExpenseService(repo, nil)

	_, err := svc.CreateExpense(context.Background(), core.Expense{
		UserID: userID,
		Name:   "",
		Amount: core.Money{Cents: 100},
	})
	if !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}

	_, err = svc.CreateExpense(context.Background(), core.Expense{
		UserID: userID,
		Name:   "freebie",
		Amount: core.Money{Cents: 0},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo, "")
	svc := NewExpenseService(repo, nil)

	created, err := svc.CreateExpense(context.Background(), core.Expense{
		UserID: userID,
		Name:   "lunch",
		Amount: core.Money{Cents: 1200},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteExpense(context.Background(), created.ID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteExpense(context.Background(), created.ID, userID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestStatisticsAggregates(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo, "") // income 50000, goal 20000, one 10000 food expense
	svc := NewExpenseService(repo, nil)

	_, err := svc.CreateExpense(context.Background(), core.Expense{
		UserID:     userID,
		Name:       "rent",
		Amount:     core.Money{Cents: 1500000},
		Category:   "housing",
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s, err := svc.Statistics(context.Background(), userID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if s.TotalExpenses.Cents != 2500000 {
		t.Fatalf("total = %d, want 2500000", s.TotalExpenses.Cents)
	}
	if s.SavedAmount.Cents != 2500000 {
		t.Fatalf("saved = %d, want 2500000", s.SavedAmount.Cents)
	}
	if s.GoalPercentage != 100 {
		t.Fatalf("pct = %v, want 100", s.GoalPercentage)
	}
	if s.CategoryTotals["housing"].Cents != 1500000 {
		t.Fatalf("housing = %d, want 1500000", s.CategoryTotals["housing"].Cents)
	}
	if s.CategoryTotals["food"].Cents != 1000000 {
		t.Fatalf("food = %d, want 1000000", s.CategoryTotals["food"].Cents)
	}
}
