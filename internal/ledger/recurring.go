package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tirelire/internal/core"
)

// recurringSuffix marks transactions materialized from a recurring
// definition.
const recurringSuffix = " (récurrent)"

// DuenessChecker decides whether a recurring definition should fire on a
// given day. The once-per-month guard is applied by the engine before the
// checker runs, so implementations only look at the calendar.
type DuenessChecker interface {
	IsDue(def core.RecurringTransaction, now time.Time) bool
}

// MonthlyChecker fires on the first check on or after the configured
// day-of-month (catch-up policy), clamping the target to the last day of
// short months.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(def core.RecurringTransaction, now time.Time) bool {
	target := def.Day
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	if target > lastDay {
		target = lastDay
	}
	return now.Day() >= target
}

// WeeklyChecker fires only when today's day-of-week exactly equals the
// configured day (Sunday=0).
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(def core.RecurringTransaction, now time.Time) bool {
	return int(now.Weekday()) == def.Day
}

var duenessCheckers = map[core.Frequency]DuenessChecker{
	core.Monthly: MonthlyChecker{},
	core.Weekly:  WeeklyChecker{},
}

// ProcessResult reports one materialization run. Orphaned lists the ids of
// active definitions skipped because their category no longer exists; they
// keep their LastProcessed untouched so a later run can pick them up once
// the category is restored.
type ProcessResult struct {
	Created  []core.Transaction
	Orphaned []string
}

// Count returns the number of materialized transactions.
func (r ProcessResult) Count() int { return len(r.Created) }

// Recurring manages recurring transaction definitions and their
// materialization into concrete transactions.
type Recurring struct {
	store *Store
}

func NewRecurring(store *Store) *Recurring {
	return &Recurring{store: store}
}

// Add creates a new definition. LastProcessed starts unset.
func (r *Recurring) Add(name, category string, amount core.Money, frequency core.Frequency, day int, active bool) (core.RecurringTransaction, error) {
	var created core.RecurringTransaction
	err := r.store.update(func(doc *core.Document) error {
		def := &core.RecurringTransaction{
			ID:        uuid.NewString(),
			Name:      name,
			Category:  category,
			Amount:    amount,
			Frequency: frequency,
			Day:       day,
			Active:    active,
		}
		if err := def.Validate(); err != nil {
			return err
		}
		if _, ok := doc.Categories[category]; !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
		}
		doc.RecurringTransactions = append(doc.RecurringTransactions, def)
		created = *def
		return nil
	})
	return created, err
}

func (r *Recurring) Delete(id string) error {
	return r.store.update(func(doc *core.Document) error {
		for i, def := range doc.RecurringTransactions {
			if def.ID == id {
				doc.RecurringTransactions = append(doc.RecurringTransactions[:i], doc.RecurringTransactions[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("recurring transaction %q: %w", id, core.ErrNotFound)
	})
}

// Toggle flips a definition's active flag and returns the updated state.
func (r *Recurring) Toggle(id string) (core.RecurringTransaction, error) {
	var updated core.RecurringTransaction
	err := r.store.update(func(doc *core.Document) error {
		for _, def := range doc.RecurringTransactions {
			if def.ID == id {
				def.Active = !def.Active
				updated = *def
				return nil
			}
		}
		return fmt.Errorf("recurring transaction %q: %w", id, core.ErrNotFound)
	})
	return updated, err
}

// List returns a copy of all definitions in insertion order.
func (r *Recurring) List() []core.RecurringTransaction {
	var out []core.RecurringTransaction
	_ = r.store.view(func(doc *core.Document) error {
		out = make([]core.RecurringTransaction, len(doc.RecurringTransactions))
		for i, def := range doc.RecurringTransactions {
			out[i] = *def
		}
		return nil
	})
	return out
}

// Process materializes every active, due definition into a concrete
// transaction, applying the category delta and stamping LastProcessed.
// A definition already processed within the current month token is skipped,
// which makes the run idempotent per month for both frequencies.
func (r *Recurring) Process(now time.Time) ProcessResult {
	var result ProcessResult
	_ = r.store.update(func(doc *core.Document) error {
		month := core.MonthToken(now)
		for _, def := range doc.RecurringTransactions {
			if !def.Active {
				continue
			}
			if def.LastProcessed != nil && core.MonthToken(*def.LastProcessed) == month {
				continue
			}
			checker, ok := duenessCheckers[def.Frequency]
			if !ok || !checker.IsDue(*def, now) {
				continue
			}
			cat, ok := doc.Categories[def.Category]
			if !ok {
				result.Orphaned = append(result.Orphaned, def.ID)
				continue
			}
			tx := &core.Transaction{
				ID:          uuid.NewString(),
				Category:    def.Category,
				Amount:      def.Amount,
				Description: def.Name + recurringSuffix,
				Date:        now,
			}
			doc.Transactions = append(doc.Transactions, tx)
			cat.Spent.Cents += def.Amount.Cents
			processed := now
			def.LastProcessed = &processed
			result.Created = append(result.Created, *tx)
		}
		return nil
	})
	return result
}
