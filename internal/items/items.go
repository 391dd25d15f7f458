package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("item not found")

	// ErrInsufficientStock is returned by AtomicDecrementStock when the
	// decrement would drive stock negative. Checkout surfaces it to the
	// caller instead of clamping.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func (c *Conf) ListItems(ctx context.Context, f Filter) ([]Item, error) {
	query := `
		SELECT id, name, price, stock, COALESCE(image_url, ''), category_id, created_at, updated_at
		FROM items
		WHERE ($1 = '' OR category_id::text = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name
	`
	rows, err := c.db.QueryContext(ctx, query, f.CategoryID, f.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.ImageURL,
			&it.CategoryID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func (c *Conf) GetItemByID(ctx context.Context, id string) (Item, error) {
	query := `
		SELECT id, name, price, stock, COALESCE(image_url, ''), category_id, created_at, updated_at
		FROM items
		WHERE id = $1
	`
	var it Item
	err := c.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.Price, &it.Stock,
		&it.ImageURL, &it.CategoryID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("failed to query item: %w", err)
	}
	return it, nil
}

func (c *Conf) InsertItem(ctx context.Context, ni NewItem) (Item, error) {
	query := `
		INSERT INTO items (id, name, price, stock, image_url, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, price, stock, COALESCE(image_url, ''), category_id, created_at, updated_at
	`
	var it Item
	err := c.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		ni.Name,
		ni.Price,
		ni.Stock,
		sql.NullString{String: ni.ImageURL, Valid: ni.ImageURL != ""},
		ni.CategoryID,
	).Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.ImageURL, &it.CategoryID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return Item{}, fmt.Errorf("failed to insert item: %w", err)
	}
	return it, nil
}

func (c *Conf) UpdateItem(ctx context.Context, id string, ni NewItem) (Item, error) {
	query := `
		UPDATE items
		SET name = $2, price = $3, stock = $4, image_url = $5, category_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, price, stock, COALESCE(image_url, ''), category_id, created_at, updated_at
	`
	var it Item
	err := c.db.QueryRowContext(ctx, query,
		id,
		ni.Name,
		ni.Price,
		ni.Stock,
		sql.NullString{String: ni.ImageURL, Valid: ni.ImageURL != ""},
		ni.CategoryID,
	).Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.ImageURL, &it.CategoryID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("failed to update item: %w", err)
	}
	return it, nil
}

func (c *Conf) DeleteItem(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AtomicDecrementStock subtracts quantity from the item's stock in a single
// guarded UPDATE. The stock >= quantity predicate makes the read-modify-write
// one server-side step, so concurrent checkouts contending on the same item
// can never drive stock negative.
func (c *Conf) AtomicDecrementStock(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", quantity)
	}

	query := `
		UPDATE items
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`
	res, err := c.db.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for item %s: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", itemID, ErrInsufficientStock)
	}
	return nil
}

// RestoreStock adds quantity back to the item's stock. Used by checkout
// compensation when a later step fails after decrements were applied.
func (c *Conf) RestoreStock(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", quantity)
	}

	query := `
		UPDATE items
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := c.db.ExecContext(ctx, query, itemID, quantity); err != nil {
		return fmt.Errorf("failed to restore stock for item %s: %w", itemID, err)
	}
	return nil
}
