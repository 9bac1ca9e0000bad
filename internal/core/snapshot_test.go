package core

import (
	"reflect"
	"testing"
	"time"
)

func expense(name string, cents int64, category string) Expense {
	return Expense{Name: name, Amount: Money{Cents: cents}, Category: category}
}

func TestComputeSnapshotBasics(t *testing.T) {
	// income 50000, goal 20000, one food expense of 10000: saving 40000
	// overshoots the goal, so the percentage caps at 100.
	s := ComputeSnapshot(Money{Cents: 5000000}, Money{Cents: 2000000}, []Expense{
		expense("groceries", 1000000, "food"),
	})

	if s.TotalExpenses.Cents != 1000000 {
		t.Fatalf("total = %d, want 1000000", s.TotalExpenses.Cents)
	}
	if s.SavedAmount.Cents != 4000000 {
		t.Fatalf("saved = %d, want 4000000", s.SavedAmount.Cents)
	}
	if s.GoalPercentage != 100 {
		t.Fatalf("goal percentage = %v, want 100 (capped)", s.GoalPercentage)
	}
	if got := s.CategoryTotals["food"].Cents; got != 1000000 {
		t.Fatalf("food total = %d, want 1000000", got)
	}
	if len(s.CategoryTotals) != 1 {
		t.Fatalf("category totals should contain exactly the present categories, got %v", s.CategoryTotals)
	}
}

func TestComputeSnapshotEmpty(t *testing.T) {
	s := ComputeSnapshot(Money{}, Money{}, nil)
	if s.TotalExpenses.Cents != 0 || s.SavedAmount.Cents != 0 || s.GoalPercentage != 0 {
		t.Fatalf("zero inputs should yield zero snapshot, got %+v", s)
	}

	// With income but no expenses the whole income counts as saved.
	s = ComputeSnapshot(Money{Cents: 1000}, Money{Cents: 500}, []Expense{})
	if s.SavedAmount.Cents != 1000 {
		t.Fatalf("saved = %d, want 1000", s.SavedAmount.Cents)
	}
	if s.GoalPercentage != 100 {
		t.Fatalf("goal percentage = %v, want 100", s.GoalPercentage)
	}
}

func TestComputeSnapshotClamping(t *testing.T) {
	cases := []struct {
		name      string
		income    int64
		goal      int64
		expenses  []Expense
		wantSaved int64
		wantPct   float64
	}{
		{"overspent clamps saved at zero", 1000, 500, []Expense{expense("a", 2000, "x")}, 0, 0},
		{"zero goal is zero percent", 1000, 0, nil, 1000, 0},
		{"negative goal is zero percent", 1000, -500, nil, 1000, 0},
		{"negative income treated as zero", -1000, 500, nil, 0, 0},
		{"halfway to goal", 1000, 1000, []Expense{expense("a", 500, "x")}, 500, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeSnapshot(Money{Cents: tc.income}, Money{Cents: tc.goal}, tc.expenses)
			if s.SavedAmount.Cents != tc.wantSaved {
				t.Fatalf("saved = %d, want %d", s.SavedAmount.Cents, tc.wantSaved)
			}
			if s.GoalPercentage != tc.wantPct {
				t.Fatalf("pct = %v, want %v", s.GoalPercentage, tc.wantPct)
			}
			if s.GoalPercentage < 0 || s.GoalPercentage > 100 {
				t.Fatalf("pct out of [0,100]: %v", s.GoalPercentage)
			}
		})
	}
}

func TestComputeSnapshotPure(t *testing.T) {
	expenses := []Expense{
		expense("rent", 50000, "housing"),
		expense("food", 20000, "food"),
	}
	before := make([]Expense, len(expenses))
	copy(before, expenses)

	first := ComputeSnapshot(Money{Cents: 100000}, Money{Cents: 50000}, expenses)
	second := ComputeSnapshot(Money{Cents: 100000}, Money{Cents: 50000}, expenses)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different snapshots:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(expenses, before) {
		t.Fatalf("input slice was mutated: %+v", expenses)
	}
}

func TestSavingsRate(t *testing.T) {
	s := ComputeSnapshot(Money{Cents: 100000}, Money{Cents: 1}, []Expense{expense("a", 20000, "x")})
	if got := s.SavingsRate(); got != 80 {
		t.Fatalf("savings rate = %v, want 80", got)
	}
	zero := ComputeSnapshot(Money{}, Money{}, nil)
	if got := zero.SavingsRate(); got != 0 {
		t.Fatalf("savings rate with zero income = %v, want 0", got)
	}
}

func TestMonthStart(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, 3, 1, 2, 30, 0, 0, loc) // still February in UTC
	got := MonthStart(now)
	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("MonthStart = %v, want %v", got, want)
	}
}
