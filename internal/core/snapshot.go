package core

import "time"

// Snapshot is the derived, non-persisted aggregate of a user's monthly
// financial facts.
type Snapshot struct {
	MonthlyIncome  Money
	SavingsGoal    Money
	TotalExpenses  Money
	SavedAmount    Money
	GoalPercentage float64
	CategoryTotals map[string]Money
}

// ComputeSnapshot aggregates the given in-month expenses into a Snapshot.
//
// It is a pure function: the expense slice is never mutated and identical
// inputs always produce identical snapshots. Negative income or goal values
// are treated as zero. SavedAmount is clamped at zero and GoalPercentage at
// [0,100]; a goal of zero (or less) is defined as 0%, never a division error.
func ComputeSnapshot(income, goal Money, expenses []Expense) Snapshot {
	if income.Cents < 0 {
		income.Cents = 0
	}
	if goal.Cents < 0 {
		goal.Cents = 0
	}

	var total int64
	byCategory := make(map[string]Money, len(expenses))
	for _, e := range expenses {
		total += e.Amount.Cents
		byCategory[e.Category] = Money{Cents: byCategory[e.Category].Cents + e.Amount.Cents}
	}

	saved := income.Cents - total
	if saved < 0 {
		saved = 0
	}

	var pct float64
	if goal.Cents > 0 {
		pct = float64(saved) / float64(goal.Cents) * 100
		if pct > 100 {
			pct = 100
		}
	}

	return Snapshot{
		MonthlyIncome:  income,
		SavingsGoal:    goal,
		TotalExpenses:  Money{Cents: total},
		SavedAmount:    Money{Cents: saved},
		GoalPercentage: pct,
		CategoryTotals: byCategory,
	}
}

// SavingsRate returns the saved share of income as a percentage, 0 when
// income is zero.
func (s Snapshot) SavingsRate() float64 {
	if s.MonthlyIncome.Cents <= 0 {
		return 0
	}
	return float64(s.SavedAmount.Cents) / float64(s.MonthlyIncome.Cents) * 100
}

// MonthStart returns the first instant of now's calendar month in UTC.
// UTC is the reference zone for the monthly window so aggregation is
// reproducible regardless of server locale.
func MonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
