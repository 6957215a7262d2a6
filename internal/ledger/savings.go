package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"tirelire/internal/core"
)

// GoalProgress is the derived view over one savings goal. DaysLeft is a
// ceiling of whole days until the deadline and goes negative once the
// deadline has passed.
type GoalProgress struct {
	Progress    float64    `json:"progress"`
	IsCompleted bool       `json:"isCompleted"`
	DaysLeft    int        `json:"daysLeft"`
	Remaining   core.Money `json:"remaining"`
}

// Savings manages savings goals and their contributions. Goal completion is
// monotonic: add and edit operations flip Completed to true when the
// balance reaches the target and never flip it back.
type Savings struct {
	store *Store
}

func NewSavings(store *Store) *Savings {
	return &Savings{store: store}
}

func (s *Savings) AddGoal(name string, target core.Money, deadline time.Time, current core.Money) (core.SavingsGoal, error) {
	var created core.SavingsGoal
	err := s.store.update(func(doc *core.Document) error {
		goal := &core.SavingsGoal{
			ID:        uuid.NewString(),
			Name:      name,
			Target:    target,
			Current:   current,
			Deadline:  deadline,
			CreatedAt: time.Now(),
		}
		if err := goal.Validate(); err != nil {
			return err
		}
		doc.SavingsGoals = append(doc.SavingsGoals, goal)
		created = *goal
		return nil
	})
	return created, err
}

// AddToGoal adds a positive amount to the goal's balance. justCompleted is
// true only on the false→true completion transition.
func (s *Savings) AddToGoal(id string, amount core.Money) (goal core.SavingsGoal, justCompleted bool, err error) {
	err = s.store.update(func(doc *core.Document) error {
		if err := amount.Validate(); err != nil {
			return err
		}
		g := findGoal(doc, id)
		if g == nil {
			return fmt.Errorf("savings goal %q: %w", id, core.ErrNotFound)
		}
		g.Current.Cents += amount.Cents
		justCompleted = completeIfReached(g)
		goal = *g
		return nil
	})
	return goal, justCompleted, err
}

// EditGoal sets the goal's balance absolutely (not additively) to
// newCurrent, which must be non-negative. Completion semantics match
// AddToGoal.
func (s *Savings) EditGoal(id string, newCurrent core.Money) (goal core.SavingsGoal, justCompleted bool, err error) {
	err = s.store.update(func(doc *core.Document) error {
		if newCurrent.Cents < 0 {
			return core.ErrNegativeAmount
		}
		g := findGoal(doc, id)
		if g == nil {
			return fmt.Errorf("savings goal %q: %w", id, core.ErrNotFound)
		}
		g.Current = newCurrent
		justCompleted = completeIfReached(g)
		goal = *g
		return nil
	})
	return goal, justCompleted, err
}

func (s *Savings) DeleteGoal(id string) error {
	return s.store.update(func(doc *core.Document) error {
		for i, g := range doc.SavingsGoals {
			if g.ID == id {
				doc.SavingsGoals = append(doc.SavingsGoals[:i], doc.SavingsGoals[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("savings goal %q: %w", id, core.ErrNotFound)
	})
}

// Progress returns the derived progress view for one goal at the given
// reference time.
func (s *Savings) Progress(id string, now time.Time) (GoalProgress, error) {
	var out GoalProgress
	err := s.store.view(func(doc *core.Document) error {
		g := findGoal(doc, id)
		if g == nil {
			return fmt.Errorf("savings goal %q: %w", id, core.ErrNotFound)
		}
		if g.Target.Cents > 0 {
			out.Progress = float64(g.Current.Cents) / float64(g.Target.Cents) * 100
		}
		out.IsCompleted = out.Progress >= 100
		out.DaysLeft = int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
		out.Remaining = core.Money{Cents: g.Target.Cents - g.Current.Cents}
		return nil
	})
	return out, err
}

// List returns a copy of all goals in insertion order.
func (s *Savings) List() []core.SavingsGoal {
	var out []core.SavingsGoal
	_ = s.store.view(func(doc *core.Document) error {
		out = make([]core.SavingsGoal, len(doc.SavingsGoals))
		for i, g := range doc.SavingsGoals {
			out[i] = *g
		}
		return nil
	})
	return out
}

func completeIfReached(g *core.SavingsGoal) bool {
	if !g.Completed && g.Current.Cents >= g.Target.Cents {
		g.Completed = true
		return true
	}
	return false
}

func findGoal(doc *core.Document, id string) *core.SavingsGoal {
	for _, g := range doc.SavingsGoals {
		if g.ID == id {
			return g
		}
	}
	return nil
}
