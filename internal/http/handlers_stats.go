package http

import (
	"log/slog"
	"net/http"

	"finbuddy/internal/core"
)

type statisticsResponse struct {
	MonthlyIncome  float64            `json:"monthly_income"`
	SavingsGoal    float64            `json:"savings_goal"`
	TotalExpenses  float64            `json:"total_expenses"`
	SavedAmount    float64            `json:"saved_amount"`
	GoalPercentage float64            `json:"goal_percentage"`
	CategoryTotals map[string]float64 `json:"category_totals"`
}

func toStatisticsResponse(s core.Snapshot) statisticsResponse {
	totals := make(map[string]float64, len(s.CategoryTotals))
	for cat, m := range s.CategoryTotals {
		totals[cat] = m.Amount()
	}
	return statisticsResponse{
		MonthlyIncome:  s.MonthlyIncome.Amount(),
		SavingsGoal:    s.SavingsGoal.Amount(),
		TotalExpenses:  s.TotalExpenses.Amount(),
		SavedAmount:    s.SavedAmount.Amount(),
		GoalPercentage: s.GoalPercentage,
		CategoryTotals: totals,
	}
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot, err := s.expenses.Statistics(r.Context(), userIDFrom(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to compute statistics", "error", err, "user_id", userIDFrom(r))
		writeError(w, http.StatusInternalServerError, "could not compute statistics")
		return
	}

	writeJSON(w, http.StatusOK, toStatisticsResponse(snapshot))
}
