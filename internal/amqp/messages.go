package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"expenses/internal/core"
)

// ExpenseRecordedMessage announces a record that has already been persisted
type ExpenseRecordedMessage struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseRecordedMessage creates a message with a fresh ID
func NewExpenseRecordedMessage(e core.Expense) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		ID:          uuid.NewString(),
		Date:        e.Date,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		Timestamp:   time.Now(),
	}
}

// Expense returns the record carried by the message
func (m *ExpenseRecordedMessage) Expense() core.Expense {
	return core.Expense{
		Date:        m.Date,
		Amount:      m.Amount,
		Description: m.Description,
		Category:    m.Category,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseRecordedMessageFromJSON creates a message from JSON bytes
func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
