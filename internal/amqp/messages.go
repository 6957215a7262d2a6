package amqp

import (
	"encoding/json"
	"time"
)

// EventKind identifies a ledger mutation carried by a LedgerEvent.
type EventKind string

const (
	EventTransactionCreated    EventKind = "transaction_created"
	EventTransactionUpdated    EventKind = "transaction_updated"
	EventTransactionDeleted    EventKind = "transaction_deleted"
	EventRecurringMaterialized EventKind = "recurring_materialized"
	EventGoalCompleted         EventKind = "goal_completed"
)

// LedgerEvent is a lightweight message describing one ledger mutation.
// Consumers fetch the referenced entity from the gateway themselves.
type LedgerEvent struct {
	Kind          EventKind `json:"kind"`
	TransactionID string    `json:"transactionId,omitempty"`
	GoalID        string    `json:"goalId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewTransactionEvent creates an event referencing a transaction.
func NewTransactionEvent(kind EventKind, transactionID string) *LedgerEvent {
	return &LedgerEvent{
		Kind:          kind,
		TransactionID: transactionID,
		OccurredAt:    time.Now(),
	}
}

// NewGoalCompletedEvent creates an event marking a goal completion.
func NewGoalCompletedEvent(goalID string) *LedgerEvent {
	return &LedgerEvent{
		Kind:       EventGoalCompleted,
		GoalID:     goalID,
		OccurredAt: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
