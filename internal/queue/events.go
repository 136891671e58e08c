package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TopicCustomerUpdated = "customer.updated"
	TopicCustomerDeleted = "customer.deleted"
)

// CustomerEvent announces a completed change to a customer record.
type CustomerEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	CustomerID int       `json:"customer_id"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewCustomerEvent(eventType string, customerID int, email string) CustomerEvent {
	return CustomerEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		CustomerID: customerID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeEvent accepts an in-process CustomerEvent or a JSON body from the broker.
func DecodeEvent(payload any) (CustomerEvent, error) {
	switch p := payload.(type) {
	case CustomerEvent:
		return p, nil
	case *CustomerEvent:
		if p == nil {
			return CustomerEvent{}, fmt.Errorf("nil customer event")
		}
		return *p, nil
	case []byte:
		var ev CustomerEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return CustomerEvent{}, fmt.Errorf("decode customer event: %w", err)
		}
		return ev, nil
	default:
		return CustomerEvent{}, fmt.Errorf("unexpected payload type %T", payload)
	}
}

// AuditHandler logs every customer event it receives. Undecodable payloads
// are logged and acknowledged so they are not retried.
func AuditHandler(log *zap.Logger) func(payload any) error {
	return func(payload any) error {
		ev, err := DecodeEvent(payload)
		if err != nil {
			log.Warn("dropping invalid customer event", zap.Error(err))
			return nil
		}
		log.Info("customer event",
			zap.String("event_id", ev.EventID),
			zap.String("event_type", ev.EventType),
			zap.Int("customer_id", ev.CustomerID),
			zap.Time("occurred_at", ev.OccurredAt),
		)
		return nil
	}
}
