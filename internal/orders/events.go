package orders

import (
	"encoding/json"
	"time"
)

const EventOrderPlaced = "OrderPlaced"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type ItemLine struct {
	ProductID  int64 `json:"product_id"`
	Qty        int   `json:"qty"`
	PriceCents int   `json:"price_cents"`
}

type OrderPlacedPayload struct {
	OrderID    int64      `json:"order_id"`
	UserID     int64      `json:"user_id"`
	Status     string     `json:"status"`
	TotalCents int        `json:"total_cents"`
	Items      []ItemLine `json:"items"`
}
