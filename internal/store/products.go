package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sweetiegarden/internal/models"
)

// ProductFilter narrows and orders a product listing. With no Status and
// AllStatuses false only active products are returned, which is what the
// customer-facing catalog sees.
type ProductFilter struct {
	CategorySlug string
	Search       string
	Status       string
	AllStatuses  bool
	MinPrice     *int64
	MaxPrice     *int64
	Sort         string
	Page         int
	Limit        int
}

// Product sort orders
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPopular   = "popular"
)

// ListProducts returns one page of the catalog and the total match count.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int, error) {
	where := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case f.Status != "":
		where = append(where, "p.status = "+arg(f.Status))
	case !f.AllStatuses:
		where = append(where, "p.status = "+arg(models.ProductStatusActive))
	}

	if f.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(f.CategorySlug))
	}
	if f.MinPrice != nil {
		where = append(where, "COALESCE(p.sale_price, p.price) >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "COALESCE(p.sale_price, p.price) <= "+arg(*f.MaxPrice))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, fmt.Sprintf(
			"(p.name ILIKE %s OR p.description ILIKE %s OR p.short_description ILIKE %s)",
			arg(pattern), arg(pattern), arg(pattern)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var orderBy string
	switch f.Sort {
	case SortPriceAsc:
		orderBy = "COALESCE(p.sale_price, p.price) ASC"
	case SortPriceDesc:
		orderBy = "COALESCE(p.sale_price, p.price) DESC"
	case SortPopular:
		orderBy = "p.sales_count DESC, p.views DESC"
	default:
		orderBy = "p.created_at DESC"
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		%s`, whereClause)

	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.*
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		whereClause, orderBy, arg(f.Limit), arg((f.Page-1)*f.Limit))

	var products []models.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug retrieves a product by slug
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE slug = $1", slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementProductViews bumps the view counter for a product detail hit.
func (s *Store) IncrementProductViews(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE products SET views = views + 1 WHERE id = $1", id)
	return err
}

// ListCategories returns all active categories.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories WHERE status = 'active' ORDER BY name")
	return categories, err
}
