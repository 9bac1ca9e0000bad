// Package chat bridges the advice fallback with the external Gemini call.
package chat

import (
	"fmt"
	"strings"

	"finbuddy/internal/core"
)

// maxRecentExpenses caps how many expenses are listed in the prompt.
const maxRecentExpenses = 5

// BuildContext renders the monthly facts into the fixed-format block that
// prefixes every prompt sent to the model. The recent list is expected in
// most-recent-first order and is capped at five entries.
func BuildContext(s core.Snapshot, recent []core.Expense) string {
	var b strings.Builder
	b.WriteString("Financial context:\n")
	fmt.Fprintf(&b, "Monthly income: %s\n", s.MonthlyIncome.Format())
	fmt.Fprintf(&b, "Savings goal: %s\n", s.SavingsGoal.Format())
	fmt.Fprintf(&b, "Expenses this month: %s\n", s.TotalExpenses.Format())
	fmt.Fprintf(&b, "Amount saved: %s\n", s.SavedAmount.Format())
	fmt.Fprintf(&b, "Savings rate: %.1f%%\n", s.SavingsRate())
	if len(recent) > 0 {
		if len(recent) > maxRecentExpenses {
			recent = recent[:maxRecentExpenses]
		}
		b.WriteString("Recent expenses:\n")
		for _, e := range recent {
			fmt.Fprintf(&b, "%s: %s (%s)\n", e.Name, e.Amount.Format(), e.Category)
		}
	}
	return b.String()
}

// BuildPrompt combines the context block with the user's question and the
// standing instructions for the model.
func BuildPrompt(contextBlock, question string) string {
	return "You are a personal finance assistant. Use the financial context below " +
		"to answer the user's question with short, concrete advice.\n\n" +
		contextBlock + "\nUser question: " + question
}
