package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlot is an in-memory stand-in for the Redis slot.
type fakeSlot struct {
	data map[string]string
}

func newFakeSlot() *fakeSlot {
	return &fakeSlot{data: map[string]string{}}
}

func (f *fakeSlot) Get(_ context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeSlot) Set(_ context.Context, key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeSlot) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeSlot) GenerateKey(operation, key string) string {
	return fmt.Sprintf("test:%s:%s", operation, key)
}

func TestStoreRequiresSlot(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestStoreLoadEmptySlot(t *testing.T) {
	store, err := NewStore(newFakeSlot())
	require.NoError(t, err)

	c, err := store.Load(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Entries())
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewStore(newFakeSlot())
	require.NoError(t, err)
	ctx := context.Background()

	c := New()
	c.AddItem(coffee, 2)
	c.AddItem(muffin, 1)
	require.NoError(t, store.Save(ctx, "user-1", c))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, c.Entries(), loaded.Entries())
	assert.Equal(t, int64(2550), loaded.TotalAmount())
}

func TestStoreCartsAreIsolatedPerUser(t *testing.T) {
	store, err := NewStore(newFakeSlot())
	require.NoError(t, err)
	ctx := context.Background()

	c1 := New()
	c1.AddItem(coffee, 1)
	require.NoError(t, store.Save(ctx, "user-1", c1))

	c2, err := store.Load(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, c2.Entries())
}

func TestStoreClear(t *testing.T) {
	store, err := NewStore(newFakeSlot())
	require.NoError(t, err)
	ctx := context.Background()

	c := New()
	c.AddItem(coffee, 1)
	require.NoError(t, store.Save(ctx, "user-1", c))
	require.NoError(t, store.Clear(ctx, "user-1"))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries())
}

func TestStoreLoadDropsCorruptQuantities(t *testing.T) {
	slot := newFakeSlot()
	store, err := NewStore(slot)
	require.NoError(t, err)
	ctx := context.Background()

	slot.data[slot.GenerateKey("cart", "user-1")] = `[{"item":{"id":"item-1","name":"Coffee","price":1000},"quantity":0}]`

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries())
}
