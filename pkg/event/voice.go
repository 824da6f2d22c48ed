package event

import "time"

const (
	VoiceOrdersTopic         = "voice.orders"
	EventVoiceOrderConfirmed = "voice.order.confirmed"

	CartsTopic          = "carts"
	EventCartReconciled = "cart.reconciled"
)

type VoiceOrderConfirmedEvent struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	SessionID    string    `json:"session_id"`
	CustomerID   string    `json:"customer_id,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	ItemCount    int       `json:"item_count"`
	DroppedCount int       `json:"dropped_count"`
	DeliveryTime string    `json:"delivery_time,omitempty"`
}

// CartReconciledEvent reports the outcome of repopulating a cart from a
// confirmed voice order. Outcome is one of "complete", "partial", "failed".
type CartReconciledEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	SessionID  string    `json:"session_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Added      int       `json:"added"`
	Failed     int       `json:"failed"`
	Outcome    string    `json:"outcome"`
}
