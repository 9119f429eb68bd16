package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "OrderPlaced"
	TopicOrderPlaced = "order.placed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	BookID         string `json:"book_id"`
	Qty            int    `json:"qty"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

type OrderPlacedPayload struct {
	OrderID    string       `json:"order_id"`
	UserID     string       `json:"user_id"`
	Items      []PlacedItem `json:"items"`
	TotalCents int          `json:"total_cents"`
}

// Partition key = order_id so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
