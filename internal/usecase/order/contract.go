package order

import (
	"context"

	"github.com/happycart/happycart/internal/domain"
)

// Repository reads orders and applies guarded status transitions.
type Repository interface {
	Get(ctx context.Context, id string) (domain.Order, error)
	Transition(ctx context.Context, id string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus) (domain.Order, bool, error)
}
