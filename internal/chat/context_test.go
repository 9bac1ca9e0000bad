package chat

import (
	"strings"
	"testing"

	"finbuddy/internal/core"
)

func money(cents int64) core.Money { return core.Money{Cents: cents} }

func TestBuildContextFormat(t *testing.T) {
	snapshot := core.ComputeSnapshot(money(5000000), money(2000000), []core.Expense{
		{Name: "groceries", Amount: money(1000000), Category: "food"},
	})
	recent := []core.Expense{
		{Name: "groceries", Amount: money(1000000), Category: "food"},
	}

	got := BuildContext(snapshot, recent)
	want := "Financial context:\n" +
		"Monthly income: 50000\n" +
		"Savings goal: 20000\n" +
		"Expenses this month: 10000\n" +
		"Amount saved: 40000\n" +
		"Savings rate: 80.0%\n" +
		"Recent expenses:\n" +
		"groceries: 10000 (food)\n"
	if got != want {
		t.Fatalf("context block mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildContextCapsRecentExpenses(t *testing.T) {
	var recent []core.Expense
	for i := 0; i < 8; i++ {
		recent = append(recent, core.Expense{
			Name:     "item" + string(rune('a'+i)),
			Amount:   money(100),
			Category: "misc",
		})
	}
	snapshot := core.ComputeSnapshot(money(100000), money(0), recent)

	got := BuildContext(snapshot, recent)
	if n := strings.Count(got, "(misc)"); n != 5 {
		t.Fatalf("expected 5 listed expenses, got %d:\n%s", n, got)
	}
	// The input slice itself must stay untouched.
	if len(recent) != 8 {
		t.Fatalf("recent slice was truncated to %d", len(recent))
	}
}

func TestBuildContextNoExpenses(t *testing.T) {
	snapshot := core.ComputeSnapshot(money(0), money(0), nil)
	got := BuildContext(snapshot, nil)
	if strings.Contains(got, "Recent expenses") {
		t.Fatalf("empty list should omit the expenses section:\n%s", got)
	}
	if !strings.Contains(got, "Savings rate: 0.0%") {
		t.Fatalf("zero income should give 0.0%% rate:\n%s", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Financial context:\n", "how do I save?")
	if !strings.Contains(prompt, "Financial context:") {
		t.Fatalf("prompt missing context block: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "User question: how do I save?") {
		t.Fatalf("prompt missing question: %q", prompt)
	}
}

func TestNewGeminiDefaults(t *testing.T) {
	g := NewGemini("", 0)
	if g.model != DefaultModel {
		t.Fatalf("model = %q, want %q", g.model, DefaultModel)
	}
	if g.timeout != defaultTimeout {
		t.Fatalf("timeout = %v, want %v", g.timeout, defaultTimeout)
	}
}
