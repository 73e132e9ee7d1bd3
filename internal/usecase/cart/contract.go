package cart

import (
	"context"

	"github.com/happycart/happycart/internal/domain"
)

// Repository persists cart lines for a user.
type Repository interface {
	Add(ctx context.Context, userID, productID string, quantity int) error
	RemoveOne(ctx context.Context, userID, productID string) error
	RemoveAll(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	View(ctx context.Context, userID string) ([]domain.CartItem, error)
}
