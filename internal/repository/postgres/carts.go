package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/domain"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

type cartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB, logger *zap.Logger) *cartRepository {
	return &cartRepository{
		db:     db,
		logger: logger,
	}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := r.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ci.product_id, p.name, p.specs, p.unit, ci.price, p.base_price, p.premium_price,
		       p.pro_price, ci.quantity, p.image_url, ci.added_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at
	`

	rows, err := r.db.QueryContext(ctx, query, cart.ID)
	if err != nil {
		r.logger.Error("Failed to query cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.Specs,
			&item.Unit,
			&item.Price,
			&item.OriginalPrice,
			&item.PremiumPrice,
			&item.SubscriptionPrice,
			&item.Quantity,
			&item.ImageURL,
			&item.AddedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan cart item", zap.Error(err))
			continue
		}
		cart.Items = append(cart.Items, item)
	}

	return cart, rows.Err()
}

func (r *cartRepository) SetItem(ctx context.Context, userID uuid.UUID, item domain.CartItem) error {
	cart, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, price, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, price = EXCLUDED.price
	`

	addedAt := item.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, query, cart.ID, item.ProductID, item.Quantity, item.Price, addedAt)
	if err != nil {
		r.logger.Error("Failed to set cart item", zap.Error(err))
		return err
	}

	return r.touch(ctx, cart.ID)
}

func (r *cartRepository) UpdateItemPrice(ctx context.Context, userID, productID uuid.UUID, price int64) error {
	query := `
		UPDATE cart_items SET price = $3
		FROM carts
		WHERE cart_items.cart_id = carts.id AND carts.user_id = $1 AND cart_items.product_id = $2
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, price); err != nil {
		r.logger.Error("Failed to update cart item price", zap.Error(err))
		return err
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		USING carts
		WHERE cart_items.cart_id = carts.id AND carts.user_id = $1 AND cart_items.product_id = $2
	`

	// removing an absent line is a no-op
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		r.logger.Error("Failed to remove cart item", zap.Error(err))
		return err
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		USING carts
		WHERE cart_items.cart_id = carts.id AND carts.user_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		r.logger.Error("Failed to clear cart", zap.Error(err))
		return err
	}
	return nil
}

// ensureCart returns the user's cart row, creating it on first use
func (r *cartRepository) ensureCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err == nil {
		return &cart, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error("Failed to get cart", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	cart = domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insert := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt); err != nil {
		r.logger.Error("Failed to create cart", zap.Error(err))
		return nil, err
	}

	// re-read in case a concurrent request created the row first
	err = r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &perrors.ErrNotFound{Resource: "cart", ID: userID.String()}
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = $2 WHERE id = $1`, cartID, time.Now())
	if err != nil {
		r.logger.Warn("Failed to touch cart", zap.Error(err))
	}
	return nil
}
