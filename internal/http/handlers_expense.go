package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finbuddy/internal/core"
	"finbuddy/internal/storage"
)

type createExpenseRequest struct {
	Name       string      `json:"name"`
	Amount     json.Number `json:"amount"`
	Category   string      `json:"category"`
	OccurredAt string      `json:"occurred_at"`
}

type expenseResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:         e.ID,
		Name:       e.Name,
		Amount:     e.Amount.Amount(),
		Category:   e.Category,
		OccurredAt: e.OccurredAt,
	}
}

// handleExpenses serves GET (list current month) and POST (create) on
// /api/expenses.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListCurrentMonth(r.Context(), userIDFrom(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err, "user_id", userIDFrom(r))
		writeError(w, http.StatusInternalServerError, "could not load expenses")
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := parseAmount(req.Amount, false)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	}

	exp := core.Expense{
		UserID:   userIDFrom(r),
		Name:     sanitizeInput(req.Name),
		Amount:   core.Money{Cents: cents},
		Category: sanitizeInput(req.Category),
	}
	if req.OccurredAt != "" {
		occurred, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "occurred_at must be RFC 3339")
			return
		}
		exp.OccurredAt = occurred
	}

	stored, err := s.expenses.CreateExpense(r.Context(), exp)
	if err != nil {
		if errors.Is(err, core.ErrEmptyName) || errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create expense",
			"error", err,
			"user_id", exp.UserID,
			"expense_name", exp.Name,
			"amount_cents", exp.Amount.Cents)
		writeError(w, http.StatusInternalServerError, "could not save expense")
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(stored))
}

// handleDeleteExpense serves DELETE /api/expenses/{id}.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), id, userIDFrom(r)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "expense_id", id)
		writeError(w, http.StatusInternalServerError, "could not delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
