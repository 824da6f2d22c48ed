package event

import "time"

const (
	OrderRevisionsTopic = "orders.revisions"
	EventOrderRevised   = "order.revised"
	EventOrderCancelled = "order.cancelled"
)

// OrderRevisedEvent announces that an order reached a new server-confirmed
// version. Consumers use the version to decide when a refetch is safe.
type OrderRevisedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    int64     `json:"order_id"`
	Version    int64     `json:"version"`
	CustomerID string    `json:"customer_id,omitempty"`
	FinalPrice int64     `json:"final_price,omitempty"`
	PriceDiff  int64     `json:"price_diff,omitempty"`
	ItemCount  int       `json:"item_count,omitempty"`
}
