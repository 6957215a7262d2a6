package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tirelire/internal/core"
)

// dateLayout is the display format transactions are searched by.
const dateLayout = "02/01/2006"

// Stats is the derived view over a budget envelope. Remaining may be
// negative, signaling overspend. Percentage is 0 when the budget is 0.
type Stats struct {
	Budget     core.Money `json:"budget"`
	Spent      core.Money `json:"spent"`
	Remaining  core.Money `json:"remaining"`
	Percentage float64    `json:"percentage"`
}

// Transactions provides bookkeeping over regular transactions. Every
// mutation applies the exact category delta, never a silent recompute.
type Transactions struct {
	store *Store
}

func NewTransactions(store *Store) *Transactions {
	return &Transactions{store: store}
}

// AddExpense appends a new transaction and increments the category's spent
// total by the same amount.
func (t *Transactions) AddExpense(category string, amount core.Money, description string) (core.Transaction, error) {
	var created core.Transaction
	err := t.store.update(func(doc *core.Document) error {
		if strings.TrimSpace(category) == "" {
			return core.ErrEmptyCategory
		}
		cat, ok := doc.Categories[category]
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
		}
		if err := amount.Validate(); err != nil {
			return err
		}
		tx := &core.Transaction{
			ID:          uuid.NewString(),
			Category:    category,
			Amount:      amount,
			Description: strings.TrimSpace(description),
			Date:        time.Now(),
		}
		doc.Transactions = append(doc.Transactions, tx)
		cat.Spent.Cents += amount.Cents
		created = *tx
		return nil
	})
	return created, err
}

// EditTransaction mutates a transaction in place: the old amount is
// reversed from the old category and the new amount applied to the new
// one. Returns the old and new category keys for caller-side refresh.
func (t *Transactions) EditTransaction(id, newCategory string, newAmount core.Money, newDescription string) (oldCategory, updatedCategory string, err error) {
	err = t.store.update(func(doc *core.Document) error {
		tx := findTransaction(doc, id)
		if tx == nil {
			return fmt.Errorf("transaction %q: %w", id, core.ErrNotFound)
		}
		if strings.TrimSpace(newCategory) == "" {
			return core.ErrEmptyCategory
		}
		newCat, ok := doc.Categories[newCategory]
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownCategory, newCategory)
		}
		if err := newAmount.Validate(); err != nil {
			return err
		}

		// The old category may have been deleted since the transaction was
		// created; a dangling reference is tolerated.
		if oldCat, ok := doc.Categories[tx.Category]; ok {
			oldCat.Spent.Cents -= tx.Amount.Cents
		}
		newCat.Spent.Cents += newAmount.Cents

		oldCategory = tx.Category
		updatedCategory = newCategory
		tx.Category = newCategory
		tx.Amount = newAmount
		tx.Description = strings.TrimSpace(newDescription)
		return nil
	})
	return oldCategory, updatedCategory, err
}

// DeleteTransaction removes the transaction and reverses its amount from
// its category.
func (t *Transactions) DeleteTransaction(id string) error {
	return t.store.update(func(doc *core.Document) error {
		for i, tx := range doc.Transactions {
			if tx.ID != id {
				continue
			}
			if cat, ok := doc.Categories[tx.Category]; ok {
				cat.Spent.Cents -= tx.Amount.Cents
			}
			doc.Transactions = append(doc.Transactions[:i], doc.Transactions[i+1:]...)
			return nil
		}
		return fmt.Errorf("transaction %q: %w", id, core.ErrNotFound)
	})
}

// Filter returns the transactions matching the category filter ("all" means
// no restriction) and a case-insensitive substring search across the
// description, the amount as text, the category display name and the
// formatted date. A blank search term matches everything.
func (t *Transactions) Filter(categoryFilter, searchTerm string) []core.Transaction {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	var out []core.Transaction
	_ = t.store.view(func(doc *core.Document) error {
		for _, tx := range doc.Transactions {
			if categoryFilter != "" && categoryFilter != "all" && tx.Category != categoryFilter {
				continue
			}
			if term != "" && !matchesTerm(doc, tx, term) {
				continue
			}
			out = append(out, *tx)
		}
		return nil
	})
	return out
}

func matchesTerm(doc *core.Document, tx *core.Transaction, term string) bool {
	if strings.Contains(strings.ToLower(tx.Description), term) {
		return true
	}
	if strings.Contains(tx.Amount.DecimalString(), term) {
		return true
	}
	if cat, ok := doc.Categories[tx.Category]; ok {
		if strings.Contains(strings.ToLower(cat.Name), term) {
			return true
		}
	}
	return strings.Contains(tx.Date.Format(dateLayout), term)
}

// Recent returns the last limit transactions by insertion order, most
// recent first.
func (t *Transactions) Recent(limit int) []core.Transaction {
	if limit <= 0 {
		limit = 3
	}
	var out []core.Transaction
	_ = t.store.view(func(doc *core.Document) error {
		n := len(doc.Transactions)
		if limit > n {
			limit = n
		}
		out = make([]core.Transaction, 0, limit)
		for i := n - 1; i >= n-limit; i-- {
			out = append(out, *doc.Transactions[i])
		}
		return nil
	})
	return out
}

// Top returns the limit largest transactions by amount, descending, with a
// stable order for ties. The underlying sequence is never reordered.
func (t *Transactions) Top(limit int) []core.Transaction {
	if limit <= 0 {
		limit = 5
	}
	var out []core.Transaction
	_ = t.store.view(func(doc *core.Document) error {
		out = make([]core.Transaction, len(doc.Transactions))
		for i, tx := range doc.Transactions {
			out[i] = *tx
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// CategoryStats returns the derived stats for one category.
func (t *Transactions) CategoryStats(key string) (Stats, error) {
	var stats Stats
	err := t.store.view(func(doc *core.Document) error {
		cat, ok := doc.Categories[key]
		if !ok {
			return fmt.Errorf("category %q: %w", key, core.ErrNotFound)
		}
		stats = newStats(cat.Budget, cat.Spent)
		return nil
	})
	return stats, err
}

// GlobalStats aggregates budget and spend across all categories.
func (t *Transactions) GlobalStats() Stats {
	var budget, spent int64
	_ = t.store.view(func(doc *core.Document) error {
		for _, cat := range doc.Categories {
			budget += cat.Budget.Cents
			spent += cat.Spent.Cents
		}
		return nil
	})
	return newStats(core.Money{Cents: budget}, core.Money{Cents: spent})
}

func newStats(budget, spent core.Money) Stats {
	s := Stats{
		Budget:    budget,
		Spent:     spent,
		Remaining: core.Money{Cents: budget.Cents - spent.Cents},
	}
	if budget.Cents > 0 {
		s.Percentage = float64(spent.Cents) / float64(budget.Cents) * 100
	}
	return s
}

func findTransaction(doc *core.Document, id string) *core.Transaction {
	for _, tx := range doc.Transactions {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}
