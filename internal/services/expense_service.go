package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finbuddy/internal/amqp"
	"finbuddy/internal/core"
	"finbuddy/internal/storage"
)

// ExpenseService wraps the ledger store with validation, defaulting and
// best-effort event publishing.
type ExpenseService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

// NewExpenseService creates the service. amqpClient may be nil, in which
// case event publishing is skipped.
func NewExpenseService(storage *storage.Repository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateExpense validates and persists an expense, then publishes a
// created event. Publishing failures are logged, never surfaced: the
// expense is already saved. The returned expense carries the assigned id
// and the normalized fields exactly as persisted.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.Normalize(time.Now().UTC())
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.publishEvent(ctx, amqp.KindExpenseCreated, id, e.UserID)
	return e, nil
}

// DeleteExpense removes the user's expense and publishes a deleted event.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID int64) error {
	if err := s.storage.DeleteExpense(ctx, id, userID); err != nil {
		return err
	}

	s.publishEvent(ctx, amqp.KindExpenseDeleted, id, userID)
	return nil
}

// ListCurrentMonth returns the user's expenses dated within the current
// UTC calendar month, most recent first.
func (s *ExpenseService) ListCurrentMonth(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.storage.ListExpensesSince(ctx, userID, core.MonthStart(time.Now()))
}

// Statistics aggregates the user's facts and in-month expenses into a
// snapshot.
func (s *ExpenseService) Statistics(ctx context.Context, userID int64) (core.Snapshot, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load user: %w", err)
	}

	expenses, err := s.ListCurrentMonth(ctx, userID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load expenses: %w", err)
	}

	return core.ComputeSnapshot(user.MonthlyIncome, user.SavingsGoal, expenses), nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, kind string, expenseID, userID int64) {
	if s.amqpClient == nil {
		return
	}
	ev := amqp.NewExpenseEvent(kind, expenseID, userID)
	if err := s.amqpClient.PublishExpenseEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"error", err,
			"event_kind", kind,
			"expense_id", expenseID,
			"user_id", userID)
	}
}

// Close closes the storage and AMQP connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
