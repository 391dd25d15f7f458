package kafka

import "time"

const TopicOrderPlaced = `pos-service.order-placed`

// OrderPlacedEvent is published once per order line after a successful
// checkout, keyed by order id.
type OrderPlacedEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
