package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tirelire/internal/core"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepositoryInitializesDefaultDocument(t *testing.T) {
	repo := newSQLiteRepo(t)

	doc, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.CurrentMonth == "" {
		t.Errorf("default document has empty currentMonth")
	}

	// A second load reads the persisted settings row.
	again, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again.CurrentMonth != doc.CurrentMonth {
		t.Errorf("currentMonth = %q, want %q", again.CurrentMonth, doc.CurrentMonth)
	}
}

func TestSQLiteRepositoryRoundtrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	lastProcessed := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	doc := core.NewDocument("2025-06")
	doc.Salary = core.Money{Cents: 250000}
	doc.Categories["food"] = &core.Category{Name: "Alimentation", Budget: core.Money{Cents: 30000}, Spent: core.Money{Cents: 500}, Color: "#fff"}
	doc.Transactions = []*core.Transaction{
		{ID: "t1", Category: "food", Amount: core.Money{Cents: 300}, Description: "a", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "t2", Category: "food", Amount: core.Money{Cents: 200}, Description: "b", Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}
	doc.RecurringTransactions = []*core.RecurringTransaction{
		{ID: "r1", Name: "Loyer", Category: "food", Amount: core.Money{Cents: 80000}, Frequency: core.Monthly, Day: 1, Active: true, LastProcessed: &lastProcessed},
		{ID: "r2", Name: "Abonnement", Category: "food", Amount: core.Money{Cents: 999}, Frequency: core.Weekly, Day: 3, Active: false},
	}
	doc.SavingsGoals = []*core.SavingsGoal{
		{ID: "g1", Name: "Vacances", Target: core.Money{Cents: 100000}, Current: core.Money{Cents: 1000},
			Deadline: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Salary.Cents != 250000 || loaded.CurrentMonth != "2025-06" {
		t.Errorf("settings = %d/%q", loaded.Salary.Cents, loaded.CurrentMonth)
	}
	if cat := loaded.Categories["food"]; cat == nil || cat.Spent.Cents != 500 {
		t.Errorf("category = %+v", cat)
	}

	// Insertion order must survive the roundtrip.
	if len(loaded.Transactions) != 2 || loaded.Transactions[0].ID != "t1" || loaded.Transactions[1].ID != "t2" {
		t.Errorf("transactions = %+v", loaded.Transactions)
	}

	if len(loaded.RecurringTransactions) != 2 {
		t.Fatalf("recurring = %d, want 2", len(loaded.RecurringTransactions))
	}
	r1 := loaded.RecurringTransactions[0]
	if r1.LastProcessed == nil || !r1.LastProcessed.Equal(lastProcessed) {
		t.Errorf("r1.LastProcessed = %v, want %v", r1.LastProcessed, lastProcessed)
	}
	if loaded.RecurringTransactions[1].LastProcessed != nil {
		t.Errorf("r2.LastProcessed = %v, want nil", loaded.RecurringTransactions[1].LastProcessed)
	}

	if len(loaded.SavingsGoals) != 1 || loaded.SavingsGoals[0].Target.Cents != 100000 {
		t.Errorf("goals = %+v", loaded.SavingsGoals)
	}
}

func TestSQLiteRepositorySaveReplacesDocument(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := core.NewDocument("2025-06")
	first.Categories["food"] = &core.Category{Name: "Alimentation"}
	first.Transactions = []*core.Transaction{{ID: "t1", Category: "food", Amount: core.Money{Cents: 1}, Date: time.Now()}}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := core.NewDocument("2025-07")
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Categories) != 0 || len(loaded.Transactions) != 0 {
		t.Errorf("old rows survived the replace: %+v", loaded)
	}
	if loaded.CurrentMonth != "2025-07" {
		t.Errorf("currentMonth = %q, want 2025-07", loaded.CurrentMonth)
	}
}
