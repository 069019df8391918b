package order

import "time"

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderPaid      = "OrderPaid"
	EventOrderCancelled = "OrderCancelled"
)

// Event is the envelope published to the order event stream. Downstream
// consumers (notification, analytics) live outside this service.
type Event struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   EventPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type EventPayload struct {
	OrderID   string             `json:"order_id"`
	OrderCode string             `json:"order_code"`
	UserID    string             `json:"user_id"`
	Total     int64              `json:"total"`
	Items     []EventItemPayload `json:"items"`
}

type EventItemPayload struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id"`
	Quantity  int     `json:"quantity"`
}
