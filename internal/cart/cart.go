// Package cart holds the shopper's working selection before checkout.
//
// Cart is a pure state container: every operation maps current state to next
// state with no I/O and no partial application. Durability is layered on top
// by Store, which writes the serialized entries to a per-shopper slot after
// every mutation.
package cart

// Cart is an ordered collection of entries, keyed by item id.
type Cart struct {
	entries []Entry
}

func New() *Cart {
	return &Cart{}
}

// FromEntries rebuilds a cart from persisted entries. Entries with a
// non-positive quantity are dropped; they are not a valid persisted state.
func FromEntries(entries []Entry) *Cart {
	c := New()
	for _, e := range entries {
		if e.Quantity >= 1 {
			c.entries = append(c.entries, e)
		}
	}
	return c
}

// AddItem increments the quantity of an existing entry for the item, or
// appends a new entry. Non-positive quantities are ignored.
func (c *Cart) AddItem(item ItemSnapshot, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.entries {
		if c.entries[i].Item.ID == item.ID {
			c.entries[i].Quantity += quantity
			return
		}
	}
	c.entries = append(c.entries, Entry{Item: item, Quantity: quantity})
}

// RemoveItem drops the entry for the item. No-op if absent.
func (c *Cart) RemoveItem(itemID string) {
	for i := range c.entries {
		if c.entries[i].Item.ID == itemID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the entry's quantity. A quantity <= 0 removes the
// entry. No-op if the item is not in the cart.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return
	}
	for i := range c.entries {
		if c.entries[i].Item.ID == itemID {
			c.entries[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.entries = nil
}

// TotalAmount is the sum of price * quantity over all entries, computed on
// demand from the prices captured at add time.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, e := range c.entries {
		total += e.Item.Price * int64(e.Quantity)
	}
	return total
}

// TotalItems is the sum of quantities, used for badge display.
func (c *Cart) TotalItems() int {
	var total int
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

// Entries returns a copy of the current entries in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
