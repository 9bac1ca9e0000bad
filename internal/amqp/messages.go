package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event kinds carried by ExpenseEvent.
const (
	KindExpenseCreated = "expense_created"
	KindExpenseDeleted = "expense_deleted"
)

// ExpenseEvent is a lightweight notification published when an expense is
// created or deleted. Consumers fetch whatever state they need from the
// database; the event only identifies what changed and for whom.
type ExpenseEvent struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	ExpenseID int64     `json:"expense_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event with a fresh uuid and timestamp.
func NewExpenseEvent(kind string, expenseID, userID int64) *ExpenseEvent {
	return &ExpenseEvent{
		EventID:   uuid.NewString(),
		Kind:      kind,
		ExpenseID: expenseID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON creates an event from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
