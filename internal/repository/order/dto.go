package order

import (
	"encoding/json"
	"fmt"

	"github.com/happycart/happycart/internal/domain"
)

// orderRow is the gorm representation of one orders row. Items are stored
// as a JSON array of item names.
type orderRow struct {
	OrderID   string `gorm:"column:order_id;primaryKey"`
	Status    string `gorm:"column:status"`
	ETA       string `gorm:"column:eta"`
	ItemsJSON string `gorm:"column:items"`
}

// TableName maps orderRow to the orders table.
func (orderRow) TableName() string { return "orders" }

func (r orderRow) toDomain() (domain.Order, error) {
	var items []string
	if r.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(r.ItemsJSON), &items); err != nil {
			return domain.Order{}, fmt.Errorf("parse order items: %w", err)
		}
	}
	return domain.Order{
		ID:     r.OrderID,
		Status: domain.OrderStatus(r.Status),
		ETA:    r.ETA,
		Items:  items,
	}, nil
}
