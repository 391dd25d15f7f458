package orders

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"pos-service/internal/items"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderStore records writes in memory.
type fakeOrderStore struct {
	mu      sync.Mutex
	orders  map[string]Order
	lines   map[string][]Line
	failOn  string // method name that should return an error
	deleted []string
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: map[string]Order{},
		lines:  map[string][]Line{},
	}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "CreateOrder" {
		return fmt.Errorf("create order boom")
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) CreateOrderLines(_ context.Context, orderID string, lines []Line) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "CreateOrderLines" {
		return fmt.Errorf("create order lines boom")
	}
	f.lines[orderID] = lines
	return nil
}

func (f *fakeOrderStore) DeleteOrderLines(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, orderID)
	f.deleted = append(f.deleted, orderID)
	return nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	f.orders[orderID] = order
	return nil
}

// fakeStockStore enforces the same guard as the real decrement: the update
// rejects rather than letting stock go negative.
type fakeStockStore struct {
	mu    sync.Mutex
	stock map[string]int
}

func newFakeStockStore(stock map[string]int) *fakeStockStore {
	return &fakeStockStore{stock: stock}
}

func (f *fakeStockStore) AtomicDecrementStock(_ context.Context, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stock[itemID] < quantity {
		return fmt.Errorf("item %s: %w", itemID, items.ErrInsufficientStock)
	}
	f.stock[itemID] -= quantity
	return nil
}

func (f *fakeStockStore) RestoreStock(_ context.Context, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[itemID] += quantity
	return nil
}

func (f *fakeStockStore) level(itemID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[itemID]
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

func (f *fakeJournal) Append(_ context.Context, entry JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournal) statuses() []JournalStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]JournalStatus, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Status)
	}
	return out
}

func TestPlaceOrderSuccess(t *testing.T) {
	store := newFakeOrderStore()
	stock := newFakeStockStore(map[string]int{"item-1": 10, "item-2": 5})
	journal := &fakeJournal{}
	checkout, err := NewCheckout(store, stock, journal)
	require.NoError(t, err)

	lines := []Line{
		{ItemID: "item-1", Quantity: 2, Price: 1000},
		{ItemID: "item-2", Quantity: 1, Price: 550},
	}
	order, err := checkout.PlaceOrder(context.Background(), "user-1", lines)
	require.NoError(t, err)

	assert.Equal(t, int64(2550), order.TotalAmount)
	assert.Equal(t, StatusCompleted, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	assert.NotEmpty(t, order.ID)

	persisted, ok := store.orders[order.ID]
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, persisted.Status)
	assert.Equal(t, lines, store.lines[order.ID])

	assert.Equal(t, 8, stock.level("item-1"))
	assert.Equal(t, 4, stock.level("item-2"))

	assert.Equal(t, []JournalStatus{
		JournalStarted, JournalStepDone, JournalStepDone, JournalStepDone, JournalCompleted,
	}, journal.statuses())
}

func TestPlaceOrderRejectsInvalidInput(t *testing.T) {
	store := newFakeOrderStore()
	stock := newFakeStockStore(map[string]int{"item-1": 10})
	checkout, err := NewCheckout(store, stock, nil)
	require.NoError(t, err)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		lines  []Line
	}{
		{"empty cart", "user-1", nil},
		{"missing user id", "", []Line{{ItemID: "item-1", Quantity: 1, Price: 100}}},
		{"missing item id", "user-1", []Line{{ItemID: "", Quantity: 1, Price: 100}}},
		{"zero quantity", "user-1", []Line{{ItemID: "item-1", Quantity: 0, Price: 100}}},
		{"negative price", "user-1", []Line{{ItemID: "item-1", Quantity: 1, Price: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := checkout.PlaceOrder(ctx, tc.userID, tc.lines)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	// Validation failures never touch storage.
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, stock.level("item-1"))
}

func TestPlaceOrderInsufficientStockCompensates(t *testing.T) {
	store := newFakeOrderStore()
	stock := newFakeStockStore(map[string]int{"item-1": 10, "item-2": 0})
	journal := &fakeJournal{}
	checkout, err := NewCheckout(store, stock, journal)
	require.NoError(t, err)

	lines := []Line{
		{ItemID: "item-1", Quantity: 2, Price: 1000},
		{ItemID: "item-2", Quantity: 1, Price: 550},
	}
	_, err = checkout.PlaceOrder(context.Background(), "user-1", lines)
	require.ErrorIs(t, err, items.ErrInsufficientStock)

	// The first line's decrement is rolled back.
	assert.Equal(t, 10, stock.level("item-1"))
	assert.Equal(t, 0, stock.level("item-2"))

	// Lines are deleted and the order is cancelled, never left half-done.
	require.Len(t, store.orders, 1)
	for _, order := range store.orders {
		assert.Equal(t, StatusCancelled, order.Status)
	}
	assert.Empty(t, store.lines)
	assert.Len(t, store.deleted, 1)

	statuses := journal.statuses()
	assert.Contains(t, statuses, JournalCompensating)
	assert.Equal(t, JournalFailed, statuses[len(statuses)-1])
}

func TestPlaceOrderLineCreationFailureCancelsOrder(t *testing.T) {
	store := newFakeOrderStore()
	store.failOn = "CreateOrderLines"
	stock := newFakeStockStore(map[string]int{"item-1": 10})
	checkout, err := NewCheckout(store, stock, nil)
	require.NoError(t, err)

	_, err = checkout.PlaceOrder(context.Background(), "user-1",
		[]Line{{ItemID: "item-1", Quantity: 1, Price: 100}})
	require.Error(t, err)

	// Stock was never touched and the created order is cancelled.
	assert.Equal(t, 10, stock.level("item-1"))
	require.Len(t, store.orders, 1)
	for _, order := range store.orders {
		assert.Equal(t, StatusCancelled, order.Status)
	}
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	store := newFakeOrderStore()
	stock := newFakeStockStore(map[string]int{"item-1": 1})
	checkout, err := NewCheckout(store, stock, nil)
	require.NoError(t, err)

	const shoppers = 8
	errs := make([]error, shoppers)
	var wg sync.WaitGroup
	for i := 0; i < shoppers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = checkout.PlaceOrder(context.Background(), fmt.Sprintf("user-%d", i),
				[]Line{{ItemID: "item-1", Quantity: 1, Price: 100}})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, items.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, stock.level("item-1"))
}
