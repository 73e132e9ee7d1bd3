// Package order persists orders and their three-state lifecycle in the
// relational store. Status transitions are guarded inside one transaction,
// serializing concurrent updates per order id.
package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/happycart/happycart/internal/domain"
)

// Repository reads and transitions orders rows.
type Repository struct {
	db *gorm.DB
}

// New creates an order repository.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the order with the given id.
// Returns domain.ErrOrderNotFound for an unknown id.
func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return row.toDomain()
}

// Transition moves the order to the target status if its current status is
// in allowedFrom, all inside one transaction. It returns the resulting
// order and whether the transition was applied; an order whose status does
// not permit the transition is returned unchanged with applied=false.
func (r *Repository) Transition(
	ctx context.Context, id string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus,
) (domain.Order, bool, error) {
	var result domain.Order
	var applied bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from := make([]string, len(allowedFrom))
		for i, s := range allowedFrom {
			from[i] = string(s)
		}

		res := tx.Model(&orderRow{}).
			Where("order_id = ? AND status IN ?", id, from).
			Update("status", string(to))
		if res.Error != nil {
			return fmt.Errorf("update status: %w", res.Error)
		}
		applied = res.RowsAffected > 0

		var row orderRow
		if err := tx.Where("order_id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("reload order: %w", err)
		}
		var convErr error
		result, convErr = row.toDomain()
		return convErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, false, err
		}
		return domain.Order{}, false, fmt.Errorf("transition order: %w", err)
	}
	return result, applied, nil
}
