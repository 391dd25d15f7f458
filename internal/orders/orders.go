package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

// Conf implements both sides the checkout workflow needs.
var (
	_ OrderStore = (*Conf)(nil)
	_ Journal    = (*Conf)(nil)
)

func (c *Conf) CreateOrder(ctx context.Context, order Order) error {
	query := `
		INSERT INTO orders (id, total_amount, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := c.db.ExecContext(ctx, query,
		order.ID, order.TotalAmount, order.Status, order.UserID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (c *Conf) CreateOrderLines(ctx context.Context, orderID string, lines []Line) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO order_lines (id, order_id, item_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, line := range lines {
			_, err := tx.ExecContext(ctx, query,
				uuid.NewString(), orderID, line.ItemID, line.Quantity, line.Price)
			if err != nil {
				return fmt.Errorf("failed to insert order line for item %s: %w", line.ItemID, err)
			}
		}
		return nil
	})
}

func (c *Conf) DeleteOrderLines(ctx context.Context, orderID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}
	return nil
}

func (c *Conf) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
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

// Append writes one checkout journal row.
func (c *Conf) Append(ctx context.Context, entry JournalEntry) error {
	query := `
		INSERT INTO checkout_journal (saga_id, status, current_step, error_msg, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := c.db.ExecContext(ctx, query,
		entry.SagaID, string(entry.Status), entry.CurrentStep, entry.ErrorMsg, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// ListOrders returns orders newest first. When admin is false only the
// caller's own orders are returned.
func (c *Conf) ListOrders(ctx context.Context, userID string, admin bool) ([]OrderWithLines, error) {
	query := `
		SELECT o.id, o.total_amount, o.status, o.user_id, o.created_at, o.updated_at,
		       u.username, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE ($1 OR o.user_id::text = $2)
		ORDER BY o.created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, admin, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var list []OrderWithLines
	for rows.Next() {
		var o OrderWithLines
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.Status, &o.UserID, &o.CreatedAt, &o.UpdatedAt,
			&o.Username, &o.Email); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range list {
		lines, err := c.orderLines(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Lines = lines
	}
	return list, nil
}

// GetOrderByID returns one order with its lines. Non-admin callers can only
// see their own orders; anything else is ErrNotFound, not a permission hint.
func (c *Conf) GetOrderByID(ctx context.Context, orderID, userID string, admin bool) (OrderWithLines, error) {
	query := `
		SELECT o.id, o.total_amount, o.status, o.user_id, o.created_at, o.updated_at,
		       u.username, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1 AND ($2 OR o.user_id::text = $3)
	`
	var o OrderWithLines
	err := c.db.QueryRowContext(ctx, query, orderID, admin, userID).Scan(
		&o.ID, &o.TotalAmount, &o.Status, &o.UserID, &o.CreatedAt, &o.UpdatedAt, &o.Username, &o.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderWithLines{}, ErrNotFound
		}
		return OrderWithLines{}, fmt.Errorf("failed to query order: %w", err)
	}

	lines, err := c.orderLines(ctx, o.ID)
	if err != nil {
		return OrderWithLines{}, err
	}
	o.Lines = lines
	return o, nil
}

func (c *Conf) orderLines(ctx context.Context, orderID string) ([]OrderLine, error) {
	query := `
		SELECT ol.id, ol.order_id, ol.item_id, ol.quantity, ol.price, i.name
		FROM order_lines ol
		JOIN items i ON i.id = ol.item_id
		WHERE ol.order_id = $1
		ORDER BY ol.id
	`
	rows, err := c.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity, &l.Price, &l.ItemName); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}
	return lines, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return fmt.Errorf("failed to execute withTx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
