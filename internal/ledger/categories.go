package ledger

import (
	"fmt"
	"strings"

	"tirelire/internal/core"
)

// Categories manages the document's budget envelopes and the salary field.
type Categories struct {
	store *Store
}

func NewCategories(store *Store) *Categories {
	return &Categories{store: store}
}

// SetSalary sets the monthly income. Zero is legal.
func (c *Categories) SetSalary(salary core.Money) error {
	return c.store.update(func(doc *core.Document) error {
		if salary.Cents < 0 {
			return core.ErrNegativeAmount
		}
		doc.Salary = salary
		return nil
	})
}

// Add creates a new envelope under the given key with zero spend.
func (c *Categories) Add(key, name string, budget core.Money, color string) (core.Category, error) {
	var created core.Category
	err := c.store.update(func(doc *core.Document) error {
		key = strings.TrimSpace(key)
		if key == "" {
			return core.ErrEmptyCategory
		}
		if strings.TrimSpace(name) == "" {
			return core.ErrEmptyName
		}
		if budget.Cents < 0 {
			return core.ErrNegativeAmount
		}
		if _, exists := doc.Categories[key]; exists {
			return fmt.Errorf("%w: category %q already exists", core.ErrValidation, key)
		}
		doc.Categories[key] = &core.Category{
			Name:   strings.TrimSpace(name),
			Budget: budget,
			Color:  color,
		}
		created = *doc.Categories[key]
		return nil
	})
	return created, err
}

// Update changes an envelope's display name, budget or color. Spent is
// never written here; only transaction bookkeeping touches it.
func (c *Categories) Update(key, name string, budget core.Money, color string) (core.Category, error) {
	var updated core.Category
	err := c.store.update(func(doc *core.Document) error {
		cat, ok := doc.Categories[key]
		if !ok {
			return fmt.Errorf("category %q: %w", key, core.ErrNotFound)
		}
		if strings.TrimSpace(name) == "" {
			return core.ErrEmptyName
		}
		if budget.Cents < 0 {
			return core.ErrNegativeAmount
		}
		cat.Name = strings.TrimSpace(name)
		cat.Budget = budget
		cat.Color = color
		updated = *cat
		return nil
	})
	return updated, err
}

// Delete removes an envelope. Transactions that referenced it keep their
// key as a dangling reference, which stats lookups tolerate.
func (c *Categories) Delete(key string) error {
	return c.store.update(func(doc *core.Document) error {
		if _, ok := doc.Categories[key]; !ok {
			return fmt.Errorf("category %q: %w", key, core.ErrNotFound)
		}
		delete(doc.Categories, key)
		return nil
	})
}
