package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	coffee = ItemSnapshot{ID: "item-1", Name: "Coffee", Price: 1000}
	muffin = ItemSnapshot{ID: "item-2", Name: "Muffin", Price: 550}
)

func TestCartTotals(t *testing.T) {
	c := New()
	assert.Equal(t, int64(0), c.TotalAmount())
	assert.Equal(t, 0, c.TotalItems())

	c.AddItem(coffee, 2)
	c.AddItem(muffin, 1)

	assert.Equal(t, int64(2550), c.TotalAmount())
	assert.Equal(t, 3, c.TotalItems())
}

func TestAddItemIsAdditiveForSameItem(t *testing.T) {
	c := New()
	c.AddItem(coffee, 1)
	c.AddItem(coffee, 2)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)
	assert.Equal(t, coffee, entries[0].Item)
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.AddItem(coffee, 0)
	c.AddItem(coffee, -3)

	assert.Empty(t, c.Entries())
}

func TestUpdateQuantityReplaces(t *testing.T) {
	c := New()
	c.AddItem(coffee, 5)

	c.UpdateQuantity(coffee.ID, 2)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity)
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	c := New()
	c.AddItem(coffee, 2)
	c.AddItem(muffin, 1)

	c.UpdateQuantity(coffee.ID, 0)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, muffin.ID, entries[0].Item.ID)

	// Same outcome as an explicit remove.
	c.UpdateQuantity(muffin.ID, -1)
	assert.Empty(t, c.Entries())
}

func TestUpdateQuantityOnAbsentItemIsNoop(t *testing.T) {
	c := New()
	c.AddItem(coffee, 1)

	c.UpdateQuantity("no-such-item", 5)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(coffee, 2)
	c.AddItem(muffin, 1)

	c.RemoveItem(coffee.ID)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, muffin.ID, entries[0].Item.ID)

	c.RemoveItem("no-such-item")
	assert.Len(t, c.Entries(), 1)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(coffee, 2)

	c.Clear()

	assert.Empty(t, c.Entries())
	assert.Equal(t, int64(0), c.TotalAmount())
}

func TestFromEntriesDropsInvalidQuantities(t *testing.T) {
	c := FromEntries([]Entry{
		{Item: coffee, Quantity: 2},
		{Item: muffin, Quantity: 0},
	})

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, coffee.ID, entries[0].Item.ID)
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := New()
	c.AddItem(coffee, 1)

	entries := c.Entries()
	entries[0].Quantity = 99

	assert.Equal(t, 1, c.Entries()[0].Quantity)
}
