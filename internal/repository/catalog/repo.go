// Package catalog loads the product catalog from the relational store into
// an immutable in-memory snapshot.
package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/happycart/happycart/internal/domain"
)

// Repository reads the products table.
type Repository struct {
	db *gorm.DB
}

// New creates a catalog repository.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadSnapshot reads every product row into a snapshot. Called once at
// startup; a failure here is fatal for the process.
func (r *Repository) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toDomain()
	}
	return domain.NewSnapshot(products), nil
}
