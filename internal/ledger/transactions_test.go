package ledger

import (
	"errors"
	"testing"

	"tirelire/internal/core"
)

func newTestStore() *Store {
	doc := core.NewDocument("2025-06")
	doc.Categories["food"] = &core.Category{Name: "Alimentation", Budget: core.Money{Cents: 30000}}
	doc.Categories["transport"] = &core.Category{Name: "Transport", Budget: core.Money{Cents: 10000}}
	return NewStore(doc)
}

func TestAddExpense(t *testing.T) {
	store := newTestStore()
	txs := NewTransactions(store)

	tx, err := txs.AddExpense("food", core.Money{Cents: 2550}, "courses")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if tx.ID == "" {
		t.Errorf("expected generated id")
	}

	doc := store.Snapshot()
	if got := doc.Categories["food"].Spent.Cents; got != 2550 {
		t.Errorf("spent = %d, want 2550", got)
	}
	if len(doc.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(doc.Transactions))
	}
}

func TestAddExpenseValidation(t *testing.T) {
	txs := NewTransactions(newTestStore())

	tests := []struct {
		name     string
		category string
		amount   int64
		wantErr  error
	}{
		{"unknown category", "nope", 100, core.ErrUnknownCategory},
		{"empty category", "  ", 100, core.ErrEmptyCategory},
		{"zero amount", "food", 0, core.ErrInvalidAmount},
		{"negative amount", "food", -5, core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := txs.AddExpense(tt.category, core.Money{Cents: tt.amount}, "x")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddExpense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEditTransactionAppliesDelta(t *testing.T) {
	store := newTestStore()
	txs := NewTransactions(store)

	tx, err := txs.AddExpense("food", core.Money{Cents: 5000}, "courses")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	// Same category, higher amount: spent moves by the delta only.
	oldCat, newCat, err := txs.EditTransaction(tx.ID, "food", core.Money{Cents: 8000}, "courses xl")
	if err != nil {
		t.Fatalf("EditTransaction: %v", err)
	}
	if oldCat != "food" || newCat != "food" {
		t.Errorf("categories = %q/%q, want food/food", oldCat, newCat)
	}
	doc := store.Snapshot()
	if got := doc.Categories["food"].Spent.Cents; got != 8000 {
		t.Errorf("spent = %d, want 8000", got)
	}

	// Move to another category: old side reversed, new side applied.
	if _, _, err := txs.EditTransaction(tx.ID, "transport", core.Money{Cents: 1200}, "navigo"); err != nil {
		t.Fatalf("EditTransaction: %v", err)
	}
	doc = store.Snapshot()
	if got := doc.Categories["food"].Spent.Cents; got != 0 {
		t.Errorf("food spent = %d, want 0", got)
	}
	if got := doc.Categories["transport"].Spent.Cents; got != 1200 {
		t.Errorf("transport spent = %d, want 1200", got)
	}
}

func TestEditTransactionNotFound(t *testing.T) {
	txs := NewTransactions(newTestStore())
	_, _, err := txs.EditTransaction("missing", "food", core.Money{Cents: 100}, "x")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteTransactionReversesDelta(t *testing.T) {
	store := newTestStore()
	txs := NewTransactions(store)

	tx, _ := txs.AddExpense("food", core.Money{Cents: 4200}, "resto")
	if err := txs.DeleteTransaction(tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}

	doc := store.Snapshot()
	if got := doc.Categories["food"].Spent.Cents; got != 0 {
		t.Errorf("spent = %d, want 0", got)
	}
	if len(doc.Transactions) != 0 {
		t.Errorf("transactions = %d, want 0", len(doc.Transactions))
	}

	if err := txs.DeleteTransaction(tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestFilter(t *testing.T) {
	store := newTestStore()
	txs := NewTransactions(store)
	txs.AddExpense("food", core.Money{Cents: 2500}, "marché")
	txs.AddExpense("transport", core.Money{Cents: 7510}, "essence")

	tests := []struct {
		name     string
		category string
		term     string
		want     int
	}{
		{"no restriction", "all", "", 2},
		{"empty category means all", "", "", 2},
		{"by category", "food", "", 1},
		{"by description", "all", "MARCHÉ", 1},
		{"by amount text", "all", "75.10", 1},
		{"by category display name", "all", "transport", 1},
		{"no match", "all", "zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := txs.Filter(tt.category, tt.term)
			if len(got) != tt.want {
				t.Errorf("Filter(%q, %q) = %d results, want %d", tt.category, tt.term, len(got), tt.want)
			}
		})
	}
}

func TestRecentAndTop(t *testing.T) {
	store := newTestStore()
	txs := NewTransactions(store)
	txs.AddExpense("food", core.Money{Cents: 100}, "a")
	txs.AddExpense("food", core.Money{Cents: 300}, "b")
	txs.AddExpense("food", core.Money{Cents: 200}, "c")
	txs.AddExpense("food", core.Money{Cents: 400}, "d")

	recent := txs.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("Recent = %d results, want 3", len(recent))
	}
	if recent[0].Description != "d" || recent[2].Description != "b" {
		t.Errorf("Recent order = %q..%q, want d..b", recent[0].Description, recent[2].Description)
	}

	top := txs.Top(2)
	if len(top) != 2 {
		t.Fatalf("Top = %d results, want 2", len(top))
	}
	if top[0].Amount.Cents != 400 || top[1].Amount.Cents != 300 {
		t.Errorf("Top amounts = %d,%d, want 400,300", top[0].Amount.Cents, top[1].Amount.Cents)
	}

	// Top must not reorder the stored sequence.
	doc := store.Snapshot()
	if doc.Transactions[0].Description != "a" {
		t.Errorf("stored order changed, first = %q", doc.Transactions[0].Description)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore()
	txs := NewTransactions(store)
	txs.AddExpense("food", core.Money{Cents: 15000}, "courses")

	stats, err := txs.CategoryStats("food")
	if err != nil {
		t.Fatalf("CategoryStats: %v", err)
	}
	if stats.Remaining.Cents != 15000 {
		t.Errorf("remaining = %d, want 15000", stats.Remaining.Cents)
	}
	if stats.Percentage != 50 {
		t.Errorf("percentage = %v, want 50", stats.Percentage)
	}

	if _, err := txs.CategoryStats("nope"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown category error = %v, want ErrNotFound", err)
	}

	global := txs.GlobalStats()
	if global.Budget.Cents != 40000 {
		t.Errorf("global budget = %d, want 40000", global.Budget.Cents)
	}
	if global.Spent.Cents != 15000 {
		t.Errorf("global spent = %d, want 15000", global.Spent.Cents)
	}
}

func TestStatsZeroBudget(t *testing.T) {
	doc := core.NewDocument("2025-06")
	doc.Categories["misc"] = &core.Category{Name: "Divers"}
	txs := NewTransactions(NewStore(doc))

	stats, err := txs.CategoryStats("misc")
	if err != nil {
		t.Fatalf("CategoryStats: %v", err)
	}
	if stats.Percentage != 0 {
		t.Errorf("percentage = %v, want 0 for zero budget", stats.Percentage)
	}
}
