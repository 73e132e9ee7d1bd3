package cart

import "github.com/happycart/happycart/internal/domain"

// cartRow is the gorm representation of one cart_items row.
type cartRow struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string `gorm:"column:user_id;index"`
	ProductID string `gorm:"column:product_id"`
	Quantity  int    `gorm:"column:quantity"`
}

// TableName maps cartRow to the cart_items table.
func (cartRow) TableName() string { return "cart_items" }

// cartViewRow is the join of a cart line with its product details.
type cartViewRow struct {
	ProductID   string  `gorm:"column:product_id"`
	Title       string  `gorm:"column:title"`
	Description string  `gorm:"column:description"`
	Price       float64 `gorm:"column:price"`
	ImageURL    string  `gorm:"column:image_url"`
	Quantity    int     `gorm:"column:quantity"`
}

func (r cartViewRow) toDomain() domain.CartItem {
	return domain.CartItem{
		ProductID:   r.ProductID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Quantity:    r.Quantity,
		ItemTotal:   r.Price * float64(r.Quantity),
	}
}
