package orders

import (
	"errors"
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var (
	// ErrValidation marks a malformed checkout input: empty line list,
	// non-positive quantity, or negative price. Rejected before any
	// persistence call is made.
	ErrValidation = errors.New("validation failed")

	ErrNotFound = errors.New("order not found")
)

// Order is the persisted result of a checkout. Immutable after creation
// except for the status transition a compensation applies.
type Order struct {
	ID          string    `json:"id"`
	TotalAmount int64     `json:"total_amount"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Line is one checkout input line, derived from a cart entry. Price is the
// unit price captured at add-to-cart time, in minor currency units.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// OrderLine is a persisted line item. ItemName is populated on reads that
// join the catalog.
type OrderLine struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	ItemName string `json:"item_name,omitempty"`
}

// OrderWithLines is the read-side shape: the order, its owner, and its lines.
type OrderWithLines struct {
	Order
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Lines    []OrderLine `json:"lines"`
}

// DashboardStats aggregates the numbers shown on the admin dashboard.
type DashboardStats struct {
	TodaySales      int64            `json:"today_sales"`
	TotalOrders     int              `json:"total_orders"`
	TotalItems      int              `json:"total_items"`
	LowStockItems   int              `json:"low_stock_items"`
	RecentOrders    []OrderWithLines `json:"recent_orders"`
	TopSellingItems []TopSellingItem `json:"top_selling_items"`
}

type TopSellingItem struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}
