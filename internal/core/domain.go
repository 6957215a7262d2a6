package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
)

type (
	// Frequency is the repetition schedule of a recurring transaction.
	Frequency string

	// Category is a monthly spending envelope, keyed by a stable string key
	// in Document.Categories.
	Category struct {
		Name   string `json:"name"`
		Budget Money  `json:"budget"`
		Spent  Money  `json:"spent"`
		Color  string `json:"color,omitempty"`
	}

	// Transaction is a single expense booked against a category. The
	// category field is a weak reference: the category may be deleted later
	// and lookups must tolerate the dangling key.
	Transaction struct {
		ID          string    `json:"id"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}

	// RecurringTransaction is a template that the recurring engine turns
	// into concrete transactions once per month. LastProcessed is set only
	// by the engine.
	RecurringTransaction struct {
		ID            string     `json:"id"`
		Name          string     `json:"name"`
		Category      string     `json:"category"`
		Amount        Money      `json:"amount"`
		Frequency     Frequency  `json:"frequency"`
		Day           int        `json:"day"`
		Active        bool       `json:"active"`
		LastProcessed *time.Time `json:"lastProcessed"`
	}

	// SavingsGoal tracks progress toward a target amount. Completed is
	// monotonic: once true it is never reset by contribution or edit
	// operations.
	SavingsGoal struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Target    Money     `json:"target"`
		Current   Money     `json:"current"`
		Deadline  time.Time `json:"deadline"`
		CreatedAt time.Time `json:"createdAt"`
		Completed bool      `json:"completed"`
	}

	// Document is the whole persisted state, one per installation. It is
	// loaded in full, mutated in memory, and written back in full.
	Document struct {
		Salary                Money                   `json:"salary"`
		CurrentMonth          string                  `json:"currentMonth"`
		Categories            map[string]*Category    `json:"categories"`
		Transactions          []*Transaction          `json:"transactions"`
		RecurringTransactions []*RecurringTransaction `json:"recurringTransactions"`
		SavingsGoals          []*SavingsGoal          `json:"savingsGoals"`
	}
)

// ErrValidation is the base for input validation failures; every validation
// sentinel below wraps it so callers can match the whole family with
// errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	ErrNegativeAmount   = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: empty name", ErrValidation)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category key", ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrInvalidFrequency = fmt.Errorf("%w: invalid frequency", ErrValidation)
	ErrInvalidDay       = fmt.Errorf("%w: invalid day", ErrValidation)
	ErrInvalidDeadline  = fmt.Errorf("%w: missing deadline", ErrValidation)

	ErrNotFound = errors.New("not found")
)

// MonthToken formats a time as the document's YYYY-MM month marker.
func MonthToken(t time.Time) string {
	return t.Format("2006-01")
}

// NewDocument returns an empty document for the given month token.
func NewDocument(currentMonth string) *Document {
	return &Document{
		CurrentMonth:          currentMonth,
		Categories:            map[string]*Category{},
		Transactions:          []*Transaction{},
		RecurringTransactions: []*RecurringTransaction{},
		SavingsGoals:          []*SavingsGoal{},
	}
}

// Normalize replaces nil collections with empty ones so a document decoded
// from a sparse snapshot behaves like a fresh one.
func (d *Document) Normalize() {
	if d.Categories == nil {
		d.Categories = map[string]*Category{}
	}
	if d.Transactions == nil {
		d.Transactions = []*Transaction{}
	}
	if d.RecurringTransactions == nil {
		d.RecurringTransactions = []*RecurringTransaction{}
	}
	if d.SavingsGoals == nil {
		d.SavingsGoals = []*SavingsGoal{}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Salary:                d.Salary,
		CurrentMonth:          d.CurrentMonth,
		Categories:            make(map[string]*Category, len(d.Categories)),
		Transactions:          make([]*Transaction, len(d.Transactions)),
		RecurringTransactions: make([]*RecurringTransaction, len(d.RecurringTransactions)),
		SavingsGoals:          make([]*SavingsGoal, len(d.SavingsGoals)),
	}
	for k, c := range d.Categories {
		cc := *c
		out.Categories[k] = &cc
	}
	for i, t := range d.Transactions {
		tt := *t
		out.Transactions[i] = &tt
	}
	for i, r := range d.RecurringTransactions {
		rr := *r
		if r.LastProcessed != nil {
			lp := *r.LastProcessed
			rr.LastProcessed = &lp
		}
		out.RecurringTransactions[i] = &rr
	}
	for i, g := range d.SavingsGoals {
		gg := *g
		out.SavingsGoals[i] = &gg
	}
	return out
}

func (f Frequency) IsValid() bool {
	switch f {
	case Monthly, Weekly:
		return true
	default:
		return false
	}
}

// Validate checks the template's schedule fields: day-of-month 1..31 for
// monthly, day-of-week 0..6 (Sunday=0) for weekly.
func (r RecurringTransaction) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	switch r.Frequency {
	case Monthly:
		if r.Day < 1 || r.Day > 31 {
			return fmt.Errorf("%w: day-of-month %d", ErrInvalidDay, r.Day)
		}
	case Weekly:
		if r.Day < 0 || r.Day > 6 {
			return fmt.Errorf("%w: day-of-week %d", ErrInvalidDay, r.Day)
		}
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrNegativeAmount
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	return nil
}
