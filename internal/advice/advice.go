// Package advice produces deterministic, rule-based financial guidance.
//
// It is the fallback responder behind the chat endpoint: when the external
// model cannot answer, the user's question is matched against an ordered
// keyword table and rendered into a plain-text template using the monthly
// facts. Identical inputs always yield byte-identical output, which the
// tests rely on.
package advice

import (
	"fmt"
	"strings"

	"finbuddy/internal/core"
)

// Facts are the snapshot-equivalent numbers the templates interpolate.
type Facts struct {
	MonthlyIncome core.Money
	SavingsGoal   core.Money
	TotalExpenses core.Money
	SavedAmount   core.Money
}

// FactsFrom extracts the template facts from a computed snapshot.
func FactsFrom(s core.Snapshot) Facts {
	return Facts{
		MonthlyIncome: s.MonthlyIncome,
		SavingsGoal:   s.SavingsGoal,
		TotalExpenses: s.TotalExpenses,
		SavedAmount:   s.SavedAmount,
	}
}

type rule struct {
	keywords []string
	render   func(question string, f Facts, expenses []core.Expense) string
}

// rules are evaluated in order; the first keyword match wins, so a question
// containing both "save" and "budget" gets the savings template.
var rules = []rule{
	{keywords: []string{"save", "saving"}, render: renderSavings},
	{keywords: []string{"budget", "spend"}, render: renderBudget},
	{keywords: []string{"invest", "grow"}, render: renderInvestment},
	{keywords: []string{"debt", "loan"}, render: renderDebt},
}

// Answer matches the question case-insensitively against the keyword rules
// and renders the winning template. Questions matching no rule get the
// generic template, which echoes the question back.
func Answer(question string, f Facts, expenses []core.Expense) string {
	q := strings.ToLower(question)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.render(question, f, expenses)
			}
		}
	}
	return renderGeneric(question, f, expenses)
}

func renderSavings(_ string, f Facts, _ []core.Expense) string {
	target := core.Money{Cents: f.MonthlyIncome.Cents / 5}
	return fmt.Sprintf(
		"With a monthly income of %s you have saved %s so far this month, against a goal of %s. "+
			"A good rule of thumb is to put aside 20%% of your income, which for you is %s per month. "+
			"Moving that amount right after payday makes it much easier to stick to.",
		f.MonthlyIncome.Format(), f.SavedAmount.Format(), f.SavingsGoal.Format(), target.Format())
}

func renderBudget(_ string, _ Facts, expenses []core.Expense) string {
	// Category order follows first appearance in the expense list.
	var order []string
	totals := make(map[string]int64)
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount.Cents
	}

	var b strings.Builder
	b.WriteString("Here is where your money went this month:\n")
	if len(order) == 0 {
		b.WriteString("- no expenses recorded yet\n")
	}
	for _, cat := range order {
		fmt.Fprintf(&b, "- %s: %s\n", cat, core.Money{Cents: totals[cat]}.Format())
	}
	b.WriteString("A practical split is the 50/30/20 rule: 50% of income on needs, 30% on wants and 20% into savings.")
	return b.String()
}

func renderInvestment(_ string, f Facts, _ []core.Expense) string {
	emergency := core.Money{Cents: f.TotalExpenses.Cents * 4}
	monthly := f.MonthlyIncome.Cents / 10
	if monthly > 500000 {
		monthly = 500000
	}
	return fmt.Sprintf(
		"Before investing, build an emergency fund covering about four months of expenses, %s in your case. "+
			"After that, a monthly contribution of %s into a diversified fund is a sensible start. "+
			"Fixed deposits remain a safe option for money you may need in the short term.",
		emergency.Format(), core.Money{Cents: monthly}.Format())
}

func renderDebt(_ string, _ Facts, _ []core.Expense) string {
	return "Pay down the highest-interest debt first while keeping up minimums on the rest. " +
		"If you carry several loans, consolidating them at a lower rate can simplify repayment. " +
		"As a guideline, keep your total EMIs under 40% of your monthly income."
}

func renderGeneric(question string, f Facts, _ []core.Expense) string {
	return fmt.Sprintf(
		"You asked: %q. This month your income is %s, you have spent %s and saved %s towards your goal of %s. "+
			"I can go deeper on savings, budgeting or investments, just ask.",
		question, f.MonthlyIncome.Format(), f.TotalExpenses.Format(),
		f.SavedAmount.Format(), f.SavingsGoal.Format())
}
