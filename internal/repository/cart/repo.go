// Package cart implements the user-keyed cart-line store over the
// relational database. Every mutation runs in a single transaction.
package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/happycart/happycart/internal/domain"
)

// Repository persists cart lines in the cart_items table.
type Repository struct {
	db *gorm.DB
}

// New creates a cart repository.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add upserts a cart line: existing lines get their quantity increased.
// Returns domain.ErrProductNotFound when the product id is not in the catalog.
func (r *Repository) Add(ctx context.Context, userID, productID string, quantity int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("products").Where("product_id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}

		var line cartRow
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = cartRow{UserID: userID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find cart line: %w", err)
		default:
			if err := tx.Model(&line).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return fmt.Errorf("update cart line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// RemoveOne decreases a line's quantity by one, deleting it at zero.
// Returns domain.ErrNotInCart when no line exists.
func (r *Repository) RemoveOne(ctx context.Context, userID, productID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line cartRow
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotInCart
			}
			return fmt.Errorf("find cart line: %w", err)
		}

		if line.Quantity > 1 {
			if err := tx.Model(&line).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return fmt.Errorf("decrement cart line: %w", err)
			}
			return nil
		}
		if err := tx.Delete(&line).Error; err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotInCart) {
			return err
		}
		return fmt.Errorf("remove one from cart: %w", err)
	}
	return nil
}

// RemoveAll deletes a product's cart line entirely.
// Returns domain.ErrNotInCart when no line exists.
func (r *Repository) RemoveAll(ctx context.Context, userID, productID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&cartRow{})
		if res.Error != nil {
			return fmt.Errorf("delete cart line: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotInCart
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotInCart) {
			return err
		}
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// Clear removes every cart line of the user.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&cartRow{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// View returns the full current cart joined with product details,
// in insertion order.
func (r *Repository) View(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var rows []cartViewRow
	err := r.db.WithContext(ctx).
		Table("cart_items c").
		Select("c.product_id, p.title, p.description, p.price, p.image_url, c.quantity").
		Joins("JOIN products p ON c.product_id = p.product_id").
		Where("c.user_id = ?", userID).
		Order("c.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("view cart: %w", err)
	}

	items := make([]domain.CartItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}
