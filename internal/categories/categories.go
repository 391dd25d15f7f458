package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("category not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func (c *Conf) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM categories
		ORDER BY name
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (c *Conf) InsertCategory(ctx context.Context, nc NewCategory) (Category, error) {
	query := `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, COALESCE(description, ''), created_at, updated_at
	`
	var cat Category
	err := c.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		nc.Name,
		sql.NullString{String: nc.Description, Valid: nc.Description != ""},
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return cat, nil
}

func (c *Conf) UpdateCategory(ctx context.Context, id string, nc NewCategory) (Category, error) {
	query := `
		UPDATE categories
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, COALESCE(description, ''), created_at, updated_at
	`
	var cat Category
	err := c.db.QueryRowContext(ctx, query,
		id,
		nc.Name,
		sql.NullString{String: nc.Description, Valid: nc.Description != ""},
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return cat, nil
}

// DeleteCategory removes the category. The foreign key on items owns the
// deletion policy; a referenced category fails with a constraint error.
func (c *Conf) DeleteCategory(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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
