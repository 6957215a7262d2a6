package ledger

import (
	"errors"
	"testing"

	"tirelire/internal/core"
)

func TestCategoriesAdd(t *testing.T) {
	store := newTestStore()
	cats := NewCategories(store)

	cat, err := cats.Add("leisure", "Loisirs", core.Money{Cents: 5000}, "#00ff00")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if cat.Spent.Cents != 0 {
		t.Errorf("new category spent = %d, want 0", cat.Spent.Cents)
	}

	if _, err := cats.Add("leisure", "Loisirs", core.Money{Cents: 5000}, ""); !errors.Is(err, core.ErrValidation) {
		t.Errorf("duplicate key error = %v, want ErrValidation", err)
	}
	if _, err := cats.Add("", "x", core.Money{}, ""); !errors.Is(err, core.ErrEmptyCategory) {
		t.Errorf("empty key error = %v, want ErrEmptyCategory", err)
	}
	if _, err := cats.Add("k", " ", core.Money{}, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("empty name error = %v, want ErrEmptyName", err)
	}
}

func TestCategoriesUpdate(t *testing.T) {
	store := newTestStore()
	cats := NewCategories(store)
	txs := NewTransactions(store)

	txs.AddExpense("food", core.Money{Cents: 1200}, "courses")

	updated, err := cats.Update("food", "Nourriture", core.Money{Cents: 40000}, "#abc")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Nourriture" || updated.Budget.Cents != 40000 {
		t.Errorf("updated = %+v", updated)
	}
	// Spent is bookkeeping-owned and must survive the update untouched.
	if updated.Spent.Cents != 1200 {
		t.Errorf("spent = %d after update, want 1200", updated.Spent.Cents)
	}

	if _, err := cats.Update("nope", "x", core.Money{}, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown key error = %v, want ErrNotFound", err)
	}
}

func TestCategoriesDeleteLeavesDanglingTransactions(t *testing.T) {
	store := newTestStore()
	cats := NewCategories(store)
	txs := NewTransactions(store)

	txs.AddExpense("food", core.Money{Cents: 1200}, "courses")
	if err := cats.Delete("food"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	doc := store.Snapshot()
	if len(doc.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1 (dangling reference kept)", len(doc.Transactions))
	}

	// Deleting the dangling transaction afterwards must not panic.
	if err := txs.DeleteTransaction(doc.Transactions[0].ID); err != nil {
		t.Fatalf("DeleteTransaction after category removal: %v", err)
	}
}

func TestSetSalary(t *testing.T) {
	store := newTestStore()
	cats := NewCategories(store)

	if err := cats.SetSalary(core.Money{Cents: 0}); err != nil {
		t.Errorf("zero salary should be legal: %v", err)
	}
	if err := cats.SetSalary(core.Money{Cents: -1}); !errors.Is(err, core.ErrNegativeAmount) {
		t.Errorf("negative salary error = %v, want ErrNegativeAmount", err)
	}
	if err := cats.SetSalary(core.Money{Cents: 250000}); err != nil {
		t.Fatalf("SetSalary: %v", err)
	}
	if got := store.Snapshot().Salary.Cents; got != 250000 {
		t.Errorf("salary = %d, want 250000", got)
	}
}
