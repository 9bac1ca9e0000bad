package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finbuddy/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned
	// by the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// Repository is the ledger store: users, expenses and sessions in a
// single SQLite file.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writes serialized and keeps in-memory
	// databases on the connection that ran the migrations.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new user and returns its id. The email must be
// unique; a duplicate returns ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, u core.User, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, monthly_income_cents, savings_goal_cents, gemini_api_key)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, passwordHash, u.MonthlyIncome.Cents, u.SavingsGoal.Cents, u.GeminiAPIKey)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "email", u.Email)
	return id, nil
}

// GetUser returns the user's profile and financial facts.
func (r *Repository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, monthly_income_cents, savings_goal_cents, gemini_api_key, created_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user plus their password hash for login.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, string, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, monthly_income_cents, savings_goal_cents, gemini_api_key, created_at, password_hash
		 FROM users WHERE email = ?`, email)

	var (
		u            core.User
		income       int64
		goal         int64
		passwordHash string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &income, &goal, &u.GeminiAPIKey, &u.CreatedAt, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, "", ErrNotFound
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	u.MonthlyIncome = core.Money{Cents: income}
	u.SavingsGoal = core.Money{Cents: goal}
	return u, passwordHash, nil
}

// UpdateUserSettings replaces the user's income, savings goal and Gemini
// API credential.
func (r *Repository) UpdateUserSettings(ctx context.Context, id int64, income, goal core.Money, geminiAPIKey string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET monthly_income_cents = ?, savings_goal_cents = ?, gemini_api_key = ? WHERE id = ?`,
		income.Cents, goal.Cents, geminiAPIKey, id)
	if err != nil {
		return fmt.Errorf("update user settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user settings rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "User settings updated",
		"user_id", id,
		"income_cents", income.Cents,
		"goal_cents", goal.Cents)
	return nil
}

// CreateExpense inserts an expense and returns its id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, name, amount_cents, category, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Name, e.Amount.Cents, e.Category, e.OccurredAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", id,
		"user_id", e.UserID,
		"expense_name", e.Name,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return id, nil
}

// ListExpensesSince returns the user's expenses with occurred_at >= since,
// most recent first.
func (r *Repository) ListExpensesSince(ctx context.Context, userID int64, since time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, category, occurred_at, created_at
		 FROM expenses
		 WHERE user_id = ? AND occurred_at >= ?
		 ORDER BY occurred_at DESC, id DESC`,
		userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e     core.Expense
			cents int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &cents, &e.Category, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes a single expense, but only when it belongs to the
// given user. Deleting someone else's expense (or a missing id) returns
// ErrNotFound.
func (r *Repository) DeleteExpense(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

// CreateSession stores an issued session token.
func (r *Repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession resolves a token to its user id. Expired or unknown tokens
// return ErrNotFound.
func (r *Repository) GetSession(ctx context.Context, token string) (int64, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE token = ? AND expires_at > ?`,
		token, time.Now().UTC())

	var userID int64
	err := row.Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get session: %w", err)
	}
	return userID, nil
}

// DeleteSession removes a session token (logout).
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (core.User, error) {
	var (
		u      core.User
		income int64
		goal   int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &income, &goal, &u.GeminiAPIKey, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	u.MonthlyIncome = core.Money{Cents: income}
	u.SavingsGoal = core.Money{Cents: goal}
	return u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
