package store

import (
	"context"

	"sweetiegarden/internal/models"
)

// Dashboard periods
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// DashboardStats aggregates the admin dashboard numbers for a period.
// Revenue excludes cancelled orders.
type DashboardStats struct {
	TotalRevenue   int64            `json:"total_revenue"`
	TotalOrders    int              `json:"total_orders"`
	OrdersByStatus map[string]int   `json:"orders_by_status"`
	TopProducts    []TopProduct     `json:"top_products"`
	LowStock       []models.Product `json:"low_stock_products"`
}

// TopProduct is a best-seller row for the dashboard.
type TopProduct struct {
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	UnitsSold   int    `db:"units_sold" json:"units_sold"`
	Revenue     int64  `db:"revenue" json:"revenue"`
}

func periodClause(period string) string {
	switch period {
	case PeriodToday:
		return "o.created_at::date = CURRENT_DATE"
	case PeriodWeek:
		return "date_trunc('week', o.created_at) = date_trunc('week', NOW())"
	case PeriodMonth:
		return "date_trunc('month', o.created_at) = date_trunc('month', NOW())"
	case PeriodYear:
		return "date_trunc('year', o.created_at) = date_trunc('year', NOW())"
	default:
		return "TRUE"
	}
}

// GetDashboardStats gathers revenue, order counts, best sellers and
// low-stock products for the admin dashboard.
func (s *Store) GetDashboardStats(ctx context.Context, period string) (*DashboardStats, error) {
	clause := periodClause(period)
	stats := &DashboardStats{OrdersByStatus: map[string]int{}}

	err := s.db.GetContext(ctx, &stats.TotalRevenue, `
		SELECT COALESCE(SUM(o.total), 0)
		FROM orders o
		WHERE o.status != 'cancelled' AND `+clause)
	if err != nil {
		return nil, err
	}

	err = s.db.GetContext(ctx, &stats.TotalOrders,
		"SELECT COUNT(*) FROM orders o WHERE "+clause)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryxContext(ctx,
		"SELECT o.status, COUNT(*) FROM orders o WHERE "+clause+" GROUP BY o.status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &stats.TopProducts, `
		SELECT oi.product_id, oi.product_name,
		       SUM(oi.quantity)::int AS units_sold,
		       SUM(oi.subtotal) AS revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status != 'cancelled' AND `+clause+`
		GROUP BY oi.product_id, oi.product_name
		ORDER BY units_sold DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &stats.LowStock, `
		SELECT * FROM products
		WHERE status = 'active' AND stock < 5
		ORDER BY stock ASC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
