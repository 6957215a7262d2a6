// Package services orchestrates the ledger core, the persistence gateway
// and the event pipeline. Every mutation runs in-memory first, is saved
// through the gateway, then published; a failed save surfaces to the
// caller while the in-memory state keeps the mutation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tirelire/internal/amqp"
	"tirelire/internal/backend"
	"tirelire/internal/core"
	"tirelire/internal/ledger"
)

type LedgerService struct {
	gateway backend.Gateway
	store   *ledger.Store
	events  *amqp.Client

	transactions *ledger.Transactions
	categories   *ledger.Categories
	recurring    *ledger.Recurring
	savings      *ledger.Savings
}

// NewLedgerService loads the document through the gateway and wires the
// ledger components around it. events may be nil, which disables
// publishing.
func NewLedgerService(ctx context.Context, gateway backend.Gateway, events *amqp.Client) (*LedgerService, error) {
	doc, err := gateway.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	store := ledger.NewStore(doc)
	return &LedgerService{
		gateway:      gateway,
		store:        store,
		events:       events,
		transactions: ledger.NewTransactions(store),
		categories:   ledger.NewCategories(store),
		recurring:    ledger.NewRecurring(store),
		savings:      ledger.NewSavings(store),
	}, nil
}

// Document reloads the document from the gateway, swaps it into the store
// and returns a snapshot. External edits to the snapshot file are picked
// up this way.
func (s *LedgerService) Document(ctx context.Context) (*core.Document, error) {
	doc, err := s.gateway.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	s.store.Replace(doc)
	return s.store.Snapshot(), nil
}

// Snapshot returns the current in-memory document without touching the
// gateway.
func (s *LedgerService) Snapshot() *core.Document {
	return s.store.Snapshot()
}

// ReplaceDocument swaps in a complete document and persists it.
func (s *LedgerService) ReplaceDocument(ctx context.Context, doc *core.Document) error {
	s.store.Replace(doc)
	return s.persist(ctx)
}

func (s *LedgerService) persist(ctx context.Context) error {
	if err := s.gateway.Save(ctx, s.store.Snapshot()); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"kind", event.Kind, "error", err)
	}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, category string, amount core.Money, description string) (core.Transaction, error) {
	tx, err := s.transactions.AddExpense(category, amount, description)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.persist(ctx); err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventTransactionCreated, tx.ID))
	return tx, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id, category string, amount core.Money, description string) error {
	if _, _, err := s.transactions.EditTransaction(id, category, amount, description); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventTransactionUpdated, id))
	return nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.transactions.DeleteTransaction(id); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventTransactionDeleted, id))
	return nil
}

func (s *LedgerService) FilterTransactions(categoryFilter, searchTerm string) []core.Transaction {
	return s.transactions.Filter(categoryFilter, searchTerm)
}

func (s *LedgerService) RecentTransactions(limit int) []core.Transaction {
	return s.transactions.Recent(limit)
}

func (s *LedgerService) TopTransactions(limit int) []core.Transaction {
	return s.transactions.Top(limit)
}

func (s *LedgerService) CategoryStats(key string) (ledger.Stats, error) {
	return s.transactions.CategoryStats(key)
}

func (s *LedgerService) GlobalStats() ledger.Stats {
	return s.transactions.GlobalStats()
}

func (s *LedgerService) SetSalary(ctx context.Context, salary core.Money) error {
	if err := s.categories.SetSalary(salary); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *LedgerService) AddCategory(ctx context.Context, key, name string, budget core.Money, color string) (core.Category, error) {
	cat, err := s.categories.Add(key, name, budget, color)
	if err != nil {
		return core.Category{}, err
	}
	if err := s.persist(ctx); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

func (s *LedgerService) UpdateCategory(ctx context.Context, key, name string, budget core.Money, color string) (core.Category, error) {
	cat, err := s.categories.Update(key, name, budget, color)
	if err != nil {
		return core.Category{}, err
	}
	if err := s.persist(ctx); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

func (s *LedgerService) DeleteCategory(ctx context.Context, key string) error {
	if err := s.categories.Delete(key); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *LedgerService) AddRecurring(ctx context.Context, name, category string, amount core.Money, frequency core.Frequency, day int, active bool) (core.RecurringTransaction, error) {
	def, err := s.recurring.Add(name, category, amount, frequency, day, active)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	if err := s.persist(ctx); err != nil {
		return core.RecurringTransaction{}, err
	}
	return def, nil
}

func (s *LedgerService) DeleteRecurring(ctx context.Context, id string) error {
	if err := s.recurring.Delete(id); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *LedgerService) ToggleRecurring(ctx context.Context, id string) (core.RecurringTransaction, error) {
	def, err := s.recurring.Toggle(id)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	if err := s.persist(ctx); err != nil {
		return core.RecurringTransaction{}, err
	}
	return def, nil
}

func (s *LedgerService) ListRecurring() []core.RecurringTransaction {
	return s.recurring.List()
}

// ProcessRecurring materializes all due recurring definitions. The
// document is saved only when the run changed something; orphaned
// definitions are logged and left for a later run.
func (s *LedgerService) ProcessRecurring(ctx context.Context, now time.Time) (ledger.ProcessResult, error) {
	result := s.recurring.Process(now)
	for _, id := range result.Orphaned {
		slog.WarnContext(ctx, "Skipped recurring transaction with missing category", "recurring_id", id)
	}
	if result.Count() == 0 {
		return result, nil
	}
	if err := s.persist(ctx); err != nil {
		return result, err
	}
	for _, tx := range result.Created {
		s.publish(ctx, amqp.NewTransactionEvent(amqp.EventRecurringMaterialized, tx.ID))
	}
	slog.InfoContext(ctx, "Materialized recurring transactions", "count", result.Count())
	return result, nil
}

func (s *LedgerService) AddGoal(ctx context.Context, name string, target core.Money, deadline time.Time, current core.Money) (core.SavingsGoal, error) {
	goal, err := s.savings.AddGoal(name, target, deadline, current)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	if err := s.persist(ctx); err != nil {
		return core.SavingsGoal{}, err
	}
	return goal, nil
}

// ContributeToGoal adds to a goal's balance and publishes a completion
// event when the contribution crosses the target.
func (s *LedgerService) ContributeToGoal(ctx context.Context, id string, amount core.Money) (core.SavingsGoal, bool, error) {
	goal, justCompleted, err := s.savings.AddToGoal(id, amount)
	if err != nil {
		return core.SavingsGoal{}, false, err
	}
	if err := s.persist(ctx); err != nil {
		return core.SavingsGoal{}, false, err
	}
	if justCompleted {
		s.publish(ctx, amqp.NewGoalCompletedEvent(goal.ID))
	}
	return goal, justCompleted, nil
}

func (s *LedgerService) EditGoal(ctx context.Context, id string, newCurrent core.Money) (core.SavingsGoal, bool, error) {
	goal, justCompleted, err := s.savings.EditGoal(id, newCurrent)
	if err != nil {
		return core.SavingsGoal{}, false, err
	}
	if err := s.persist(ctx); err != nil {
		return core.SavingsGoal{}, false, err
	}
	if justCompleted {
		s.publish(ctx, amqp.NewGoalCompletedEvent(goal.ID))
	}
	return goal, justCompleted, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.savings.DeleteGoal(id); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *LedgerService) GoalProgress(id string, now time.Time) (ledger.GoalProgress, error) {
	return s.savings.Progress(id, now)
}

func (s *LedgerService) ListGoals() []core.SavingsGoal {
	return s.savings.List()
}
