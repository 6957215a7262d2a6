package ledger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tirelire/internal/core"
)

func TestMonthlyCheckerIsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name string
		day  int
		now  time.Time
		want bool
	}{
		{"before target day", 15, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), false},
		{"on target day", 15, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"after target day (catch-up)", 15, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), true},
		{"day 31 clamped in february", 31, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), true},
		{"day 31 not yet in february", 31, time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := core.RecurringTransaction{Frequency: core.Monthly, Day: tt.day}
			if got := checker.IsDue(def, tt.now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyCheckerIsDue(t *testing.T) {
	checker := WeeklyChecker{}
	// 2025-06-16 is a Monday (weekday 1).
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	def := core.RecurringTransaction{Frequency: core.Weekly, Day: 1}
	if !checker.IsDue(def, monday) {
		t.Errorf("expected due on matching weekday")
	}
	def.Day = 2
	if checker.IsDue(def, monday) {
		t.Errorf("expected not due on a different weekday")
	}
}

func TestRecurringAdd(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)

	def, err := rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, true)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if def.LastProcessed != nil {
		t.Errorf("LastProcessed should start unset")
	}

	if _, err := rec.Add("x", "nope", core.Money{Cents: 100}, core.Monthly, 1, true); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("unknown category error = %v, want ErrUnknownCategory", err)
	}
	if _, err := rec.Add("x", "food", core.Money{Cents: 100}, "yearly", 1, true); !errors.Is(err, core.ErrInvalidFrequency) {
		t.Errorf("bad frequency error = %v, want ErrInvalidFrequency", err)
	}
}

func TestProcessMaterializesDueDefinitions(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)
	rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, true)

	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	result := rec.Process(now)
	if result.Count() != 1 {
		t.Fatalf("Count = %d, want 1", result.Count())
	}

	doc := store.Snapshot()
	if got := doc.Categories["food"].Spent.Cents; got != 80000 {
		t.Errorf("spent = %d, want 80000", got)
	}
	tx := doc.Transactions[0]
	if !strings.HasSuffix(tx.Description, " (récurrent)") {
		t.Errorf("description = %q, want recurring suffix", tx.Description)
	}
	def := doc.RecurringTransactions[0]
	if def.LastProcessed == nil || !def.LastProcessed.Equal(now) {
		t.Errorf("LastProcessed = %v, want %v", def.LastProcessed, now)
	}
}

func TestProcessIdempotentPerMonth(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)
	rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, true)

	first := rec.Process(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	if first.Count() != 1 {
		t.Fatalf("first run Count = %d, want 1", first.Count())
	}

	// Same month, later day: guard must hold.
	second := rec.Process(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	if second.Count() != 0 {
		t.Fatalf("second run Count = %d, want 0", second.Count())
	}

	// Next month fires again.
	third := rec.Process(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	if third.Count() != 1 {
		t.Fatalf("third run Count = %d, want 1", third.Count())
	}
}

func TestProcessSkipsInactive(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)
	rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, false)

	result := rec.Process(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	if result.Count() != 0 {
		t.Fatalf("Count = %d, want 0 for inactive definition", result.Count())
	}
}

func TestProcessReportsOrphans(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)
	cats := NewCategories(store)
	def, _ := rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, true)

	if err := cats.Delete("food"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	result := rec.Process(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	if result.Count() != 0 {
		t.Fatalf("Count = %d, want 0", result.Count())
	}
	if len(result.Orphaned) != 1 || result.Orphaned[0] != def.ID {
		t.Fatalf("Orphaned = %v, want [%s]", result.Orphaned, def.ID)
	}

	// LastProcessed stays unset so a later run can pick it up.
	doc := store.Snapshot()
	if doc.RecurringTransactions[0].LastProcessed != nil {
		t.Errorf("LastProcessed set for orphaned definition")
	}
}

func TestToggleRecurring(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)
	def, _ := rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, true)

	updated, err := rec.Toggle(def.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if updated.Active {
		t.Errorf("Active = true after toggle, want false")
	}

	if _, err := rec.Toggle("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Toggle(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRecurring(t *testing.T) {
	store := newTestStore()
	rec := NewRecurring(store)
	def, _ := rec.Add("Loyer", "food", core.Money{Cents: 80000}, core.Monthly, 1, true)

	if err := rec.Delete(def.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := len(rec.List()); got != 0 {
		t.Errorf("List = %d entries, want 0", got)
	}
	if err := rec.Delete(def.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
