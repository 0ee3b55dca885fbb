package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sweetiegarden/internal/models"

	"github.com/jmoiron/sqlx"
)

// CartLines loads the owner's cart joined with live product data,
// active products only, most recently added first. Prices and stock are
// as of read time, not add-to-cart time.
func (s *Store) CartLines(ctx context.Context, identity models.Identity) ([]models.CartLine, error) {
	return cartLines(ctx, s.db, identity)
}

func cartLines(ctx context.Context, q sqlx.QueryerContext, identity models.Identity) ([]models.CartLine, error) {
	query := `
		SELECT ci.id, ci.product_id, ci.quantity,
		       p.name, p.slug, p.price, p.sale_price, p.stock, p.image
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE %s AND p.status = 'active'
		ORDER BY ci.created_at DESC`

	var lines []models.CartLine
	var err error
	if identity.IsUser() {
		err = sqlx.SelectContext(ctx, q, &lines, fmt.Sprintf(query, "ci.user_id = $1"), identity.UserID)
	} else {
		err = sqlx.SelectContext(ctx, q, &lines,
			fmt.Sprintf(query, "ci.session_token = $1 AND ci.user_id IS NULL"), identity.GuestToken)
	}
	return lines, err
}

// AddToCart adds quantity of a product to the owner's cart, folding into
// an existing line when present. Stock is checked against the resulting
// quantity.
func (s *Store) AddToCart(ctx context.Context, identity models.Identity, productID int64, quantity int) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var product models.Product
	err = tx.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 AND status = 'active'", productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}

	var existing models.CartItem
	if identity.IsUser() {
		err = tx.GetContext(ctx, &existing,
			"SELECT * FROM cart_items WHERE user_id = $1 AND product_id = $2",
			identity.UserID, productID)
	} else {
		err = tx.GetContext(ctx, &existing,
			"SELECT * FROM cart_items WHERE session_token = $1 AND user_id IS NULL AND product_id = $2",
			identity.GuestToken, productID)
	}

	newQuantity := quantity
	switch {
	case err == nil:
		newQuantity += existing.Quantity
		if product.Stock < newQuantity {
			return 0, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE cart_items SET quantity = $1 WHERE id = $2", newQuantity, existing.ID); err != nil {
			return 0, err
		}

	case errors.Is(err, sql.ErrNoRows):
		if product.Stock < quantity {
			return 0, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		var userID *int64
		var token *string
		if identity.IsUser() {
			userID = &identity.UserID
		} else {
			token = &identity.GuestToken
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO cart_items (user_id, session_token, product_id, quantity) VALUES ($1, $2, $3, $4)",
			userID, token, productID, quantity); err != nil {
			return 0, err
		}

	default:
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newQuantity, nil
}

// UpdateCartItem sets the quantity of one of the owner's cart lines.
func (s *Store) UpdateCartItem(ctx context.Context, identity models.Identity, itemID int64, quantity int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var item models.CartItem
	if identity.IsUser() {
		err = tx.GetContext(ctx, &item,
			"SELECT * FROM cart_items WHERE id = $1 AND user_id = $2", itemID, identity.UserID)
	} else {
		err = tx.GetContext(ctx, &item,
			"SELECT * FROM cart_items WHERE id = $1 AND session_token = $2 AND user_id IS NULL",
			itemID, identity.GuestToken)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartItemNotFound
	}
	if err != nil {
		return err
	}

	var stock int
	var name string
	if err := tx.QueryRowxContext(ctx,
		"SELECT stock, name FROM products WHERE id = $1", item.ProductID).Scan(&stock, &name); err != nil {
		return err
	}
	if stock < quantity {
		return &InsufficientStockError{ProductName: name, Available: stock}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE id = $2", quantity, item.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveCartItem deletes one of the owner's cart lines.
func (s *Store) RemoveCartItem(ctx context.Context, identity models.Identity, itemID int64) error {
	var res sql.Result
	var err error
	if identity.IsUser() {
		res, err = s.db.ExecContext(ctx,
			"DELETE FROM cart_items WHERE id = $1 AND user_id = $2", itemID, identity.UserID)
	} else {
		res, err = s.db.ExecContext(ctx,
			"DELETE FROM cart_items WHERE id = $1 AND session_token = $2 AND user_id IS NULL",
			itemID, identity.GuestToken)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// MergeGuestCart moves a guest cart onto a user account at login. Lines
// for products the user already carries are folded together.
func (s *Store) MergeGuestCart(ctx context.Context, guestToken string, userID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Fold duplicated products into the user's existing lines
	_, err = tx.ExecContext(ctx, `
		UPDATE cart_items u
		SET quantity = u.quantity + g.quantity
		FROM cart_items g
		WHERE u.user_id = $1
		  AND g.session_token = $2 AND g.user_id IS NULL
		  AND g.product_id = u.product_id`, userID, guestToken)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items g
		WHERE g.session_token = $1 AND g.user_id IS NULL
		  AND EXISTS (
		      SELECT 1 FROM cart_items u
		      WHERE u.user_id = $2 AND u.product_id = g.product_id
		  )`, guestToken, userID)
	if err != nil {
		return err
	}

	// Remaining guest lines become the user's
	_, err = tx.ExecContext(ctx, `
		UPDATE cart_items
		SET user_id = $1, session_token = NULL
		WHERE session_token = $2 AND user_id IS NULL`, userID, guestToken)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func clearCart(ctx context.Context, tx *sqlx.Tx, identity models.Identity) error {
	var err error
	if identity.IsUser() {
		_, err = tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", identity.UserID)
	} else {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM cart_items WHERE session_token = $1 AND user_id IS NULL", identity.GuestToken)
	}
	return err
}
