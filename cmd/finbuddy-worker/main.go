// finbuddy-worker consumes expense events and logs a fresh monthly
// snapshot digest for the affected user. It is a read-only consumer: the
// ledger itself is only ever written by the API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finbuddy/internal/amqp"
	"finbuddy/internal/config"
	"finbuddy/internal/core"
	applog "finbuddy/internal/log"
	"finbuddy/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting finbuddy-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	handler := func(ctx context.Context, ev *amqp.ExpenseEvent) error {
		user, err := repo.GetUser(ctx, ev.UserID)
		if err != nil {
			return err
		}
		expenses, err := repo.ListExpensesSince(ctx, ev.UserID, core.MonthStart(time.Now()))
		if err != nil {
			return err
		}
		snapshot := core.ComputeSnapshot(user.MonthlyIncome, user.SavingsGoal, expenses)

		logger.InfoContext(ctx, "Monthly snapshot refreshed",
			"event_id", ev.EventID,
			"event_kind", ev.Kind,
			"user_id", ev.UserID,
			"total_expenses_cents", snapshot.TotalExpenses.Cents,
			"saved_cents", snapshot.SavedAmount.Cents,
			"goal_percentage", snapshot.GoalPercentage)
		return nil
	}

	if err := amqpClient.ConsumeExpenseEvents(ctx, handler); err != nil && err != context.Canceled {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
