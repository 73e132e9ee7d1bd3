package catalog

import "github.com/happycart/happycart/internal/domain"

// placeholderImage stands in for products without an image reference.
const placeholderImage = "https://via.placeholder.com/200"

// productRow is the gorm representation of one products row.
type productRow struct {
	ProductID   string  `gorm:"column:product_id;primaryKey"`
	Title       string  `gorm:"column:title"`
	Description string  `gorm:"column:description"`
	Price       float64 `gorm:"column:price"`
	Category    string  `gorm:"column:category"`
	ImageURL    string  `gorm:"column:image_url"`
}

// TableName maps productRow to the products table.
func (productRow) TableName() string { return "products" }

func (r productRow) toDomain() domain.Product {
	image := r.ImageURL
	if image == "" {
		image = placeholderImage
	}
	return domain.Product{
		ID:          r.ProductID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    image,
	}
}
