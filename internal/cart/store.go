package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

const slotOperation = "cart"

// Slot is the durable key-value slot holding a shopper's serialized cart.
// The Redis store in internal/stores/redis satisfies it.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	GenerateKey(operation, key string) string
}

// Store loads and saves carts, one slot per shopper. It is an explicitly
// owned dependency injected into the handlers, not a process-wide singleton.
type Store struct {
	slot Slot
}

func NewStore(slot Slot) (*Store, error) {
	if slot == nil {
		return nil, fmt.Errorf("slot is nil")
	}
	return &Store{slot: slot}, nil
}

// Load reads the shopper's cart from its slot. A missing or empty slot
// yields an empty cart.
func (s *Store) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.slot.Get(ctx, s.slot.GenerateKey(slotOperation, userID))
	if err != nil {
		return nil, fmt.Errorf("loading cart for user %s: %w", userID, err)
	}
	if raw == "" {
		return New(), nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decoding cart for user %s: %w", userID, err)
	}
	return FromEntries(entries), nil
}

// Save writes the cart back to the shopper's slot. Called after every
// mutation so the selection survives process restarts.
func (s *Store) Save(ctx context.Context, userID string, c *Cart) error {
	raw, err := json.Marshal(c.Entries())
	if err != nil {
		return fmt.Errorf("encoding cart for user %s: %w", userID, err)
	}
	if err := s.slot.Set(ctx, s.slot.GenerateKey(slotOperation, userID), string(raw)); err != nil {
		return fmt.Errorf("saving cart for user %s: %w", userID, err)
	}
	return nil
}

// Clear deletes the shopper's slot. Called only after checkout succeeds.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.slot.Del(ctx, s.slot.GenerateKey(slotOperation, userID)); err != nil {
		return fmt.Errorf("clearing cart for user %s: %w", userID, err)
	}
	return nil
}
