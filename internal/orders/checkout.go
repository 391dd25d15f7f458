package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// OrderStore is the storage collaborator the checkout workflow writes
// through. The Conf in this package implements it against Postgres; tests
// use in-memory fakes.
type OrderStore interface {
	CreateOrder(ctx context.Context, order Order) error
	CreateOrderLines(ctx context.Context, orderID string, lines []Line) error
	DeleteOrderLines(ctx context.Context, orderID string) error
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
}

// StockStore performs the per-line atomic stock decrement. items.Conf
// implements it; the decrement rejects rather than clamps when stock would
// go negative.
type StockStore interface {
	AtomicDecrementStock(ctx context.Context, itemID string, quantity int) error
	RestoreStock(ctx context.Context, itemID string, quantity int) error
}

// Checkout turns a cart snapshot into a persisted order plus adjusted
// inventory. The three persistence steps run as a saga: a failure in any
// step compensates everything already done, so no order row survives
// without its lines and no decrement survives a failed checkout.
type Checkout struct {
	store   OrderStore
	stock   StockStore
	journal Journal
}

// NewCheckout wires the workflow. journal may be nil.
func NewCheckout(store OrderStore, stock StockStore, journal Journal) (*Checkout, error) {
	if store == nil {
		return nil, fmt.Errorf("order store is nil")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock store is nil")
	}
	return &Checkout{store: store, stock: stock, journal: journal}, nil
}

// PlaceOrder validates the lines, computes the total from the same line data
// it persists, and runs the saga. The caller resolves the principal; userID
// is its id. On success the returned order has status COMPLETED and a total
// equal to the sum of price*quantity over the input lines by construction.
func (c *Checkout) PlaceOrder(ctx context.Context, userID string, lines []Line) (Order, error) {
	if userID == "" {
		return Order{}, fmt.Errorf("%w: missing user id", ErrValidation)
	}
	if len(lines) == 0 {
		return Order{}, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for _, line := range lines {
		if line.ItemID == "" {
			return Order{}, fmt.Errorf("%w: line is missing an item id", ErrValidation)
		}
		if line.Quantity < 1 {
			return Order{}, fmt.Errorf("%w: quantity must be >= 1 for item %s", ErrValidation, line.ItemID)
		}
		if line.Price < 0 {
			return Order{}, fmt.Errorf("%w: price must be >= 0 for item %s", ErrValidation, line.ItemID)
		}
	}

	var total int64
	for _, line := range lines {
		total += line.Price * int64(line.Quantity)
	}

	now := time.Now().UTC()
	order := Order{
		ID:          uuid.NewString(),
		TotalAmount: total,
		Status:      StatusCompleted,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	steps := []Step{
		newCreateOrderStep(c.store, order),
		newCreateOrderLinesStep(c.store, order.ID, lines),
		newDecrementStockStep(c.stock, lines),
	}

	saga := NewOrchestrator(order.ID, steps, c.journal)
	if err := saga.Start(ctx); err != nil {
		return Order{}, err
	}
	return order, nil
}

// --- createOrderStep ---

type createOrderStep struct {
	store OrderStore
	order Order
}

func newCreateOrderStep(store OrderStore, order Order) *createOrderStep {
	return &createOrderStep{store: store, order: order}
}

func (s *createOrderStep) Name() string { return "Create_Order_Step" }

func (s *createOrderStep) Execute(ctx context.Context) error {
	if err := s.store.CreateOrder(ctx, s.order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *createOrderStep) Compensate(ctx context.Context) error {
	return s.store.UpdateOrderStatus(ctx, s.order.ID, StatusCancelled)
}

// --- createOrderLinesStep ---

type createOrderLinesStep struct {
	store   OrderStore
	orderID string
	lines   []Line
}

func newCreateOrderLinesStep(store OrderStore, orderID string, lines []Line) *createOrderLinesStep {
	return &createOrderLinesStep{store: store, orderID: orderID, lines: lines}
}

func (s *createOrderLinesStep) Name() string { return "Create_Order_Lines_Step" }

func (s *createOrderLinesStep) Execute(ctx context.Context) error {
	if err := s.store.CreateOrderLines(ctx, s.orderID, s.lines); err != nil {
		return fmt.Errorf("failed to create order lines: %w", err)
	}
	return nil
}

func (s *createOrderLinesStep) Compensate(ctx context.Context) error {
	return s.store.DeleteOrderLines(ctx, s.orderID)
}

// --- decrementStockStep ---

type decrementStockStep struct {
	stock StockStore
	lines []Line

	// applied tracks lines whose decrement succeeded, so a mid-step failure
	// restores exactly those before the orchestrator unwinds earlier steps.
	applied []Line
}

func newDecrementStockStep(stock StockStore, lines []Line) *decrementStockStep {
	return &decrementStockStep{stock: stock, lines: lines}
}

func (s *decrementStockStep) Name() string { return "Decrement_Stock_Step" }

func (s *decrementStockStep) Execute(ctx context.Context) error {
	for _, line := range s.lines {
		if err := s.stock.AtomicDecrementStock(ctx, line.ItemID, line.Quantity); err != nil {
			s.restore(ctx)
			return fmt.Errorf("failed to decrement stock for item %s: %w", line.ItemID, err)
		}
		s.applied = append(s.applied, line)
	}
	return nil
}

func (s *decrementStockStep) Compensate(ctx context.Context) error {
	s.restore(ctx)
	return nil
}

func (s *decrementStockStep) restore(ctx context.Context) {
	for i := len(s.applied) - 1; i >= 0; i-- {
		line := s.applied[i]
		if err := s.stock.RestoreStock(ctx, line.ItemID, line.Quantity); err != nil {
			slog.Error("CRITICAL: failed to restore stock during compensation",
				slog.String("ItemID", line.ItemID), slog.Int("Quantity", line.Quantity),
				slog.String("ERROR", err.Error()))
		}
	}
	s.applied = nil
}
