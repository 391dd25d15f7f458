package orders

import (
	"context"
	"fmt"
)

// lowStockThreshold mirrors the dashboard's "running low" cutoff.
const lowStockThreshold = 10

// Stats runs the dashboard aggregation: today's completed sales, order and
// item counts, low-stock count, the five most recent orders, and the five
// top-selling items by summed line quantity.
func (c *Conf) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats

	err := c.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1 AND created_at >= date_trunc('day', NOW())
	`, StatusCompleted).Scan(&stats.TodaySales)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to query today's sales: %w", err)
	}

	err = c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count orders: %w", err)
	}

	err = c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&stats.TotalItems)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count items: %w", err)
	}

	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE stock < $1`, lowStockThreshold).Scan(&stats.LowStockItems)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count low stock items: %w", err)
	}

	recent, err := c.recentOrders(ctx, 5)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.RecentOrders = recent

	top, err := c.topSellingItems(ctx, 5)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.TopSellingItems = top

	return stats, nil
}

func (c *Conf) recentOrders(ctx context.Context, limit int) ([]OrderWithLines, error) {
	query := `
		SELECT o.id, o.total_amount, o.status, o.user_id, o.created_at, o.updated_at,
		       u.username, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	var list []OrderWithLines
	for rows.Next() {
		var o OrderWithLines
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.Status, &o.UserID, &o.CreatedAt, &o.UpdatedAt,
			&o.Username, &o.Email); err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent orders: %w", err)
	}
	return list, nil
}

func (c *Conf) topSellingItems(ctx context.Context, limit int) ([]TopSellingItem, error) {
	query := `
		SELECT ol.item_id, i.name, SUM(ol.quantity) AS total_sold
		FROM order_lines ol
		JOIN items i ON i.id = ol.item_id
		GROUP BY ol.item_id, i.name
		ORDER BY total_sold DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top selling items: %w", err)
	}
	defer rows.Close()

	var list []TopSellingItem
	for rows.Next() {
		var t TopSellingItem
		if err := rows.Scan(&t.ItemID, &t.Name, &t.TotalSold); err != nil {
			return nil, fmt.Errorf("failed to scan top selling item: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top selling items: %w", err)
	}
	return list, nil
}
