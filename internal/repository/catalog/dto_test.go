package catalog

import "testing"

func TestProductRow_ToDomain(t *testing.T) {
	row := productRow{
		ProductID:   "P001",
		Title:       "Classic White Sneakers",
		Description: "Comfortable footwear",
		Price:       2499,
		Category:    "shoes",
		ImageURL:    "https://cdn.example.com/p001.jpg",
	}

	p := row.toDomain()
	if p.ID != "P001" || p.Category != "shoes" || p.Price != 2499 {
		t.Errorf("unexpected product: %+v", p)
	}
	if p.ImageURL != row.ImageURL {
		t.Errorf("image url lost: %q", p.ImageURL)
	}
}

func TestProductRow_ToDomainDefaultsImage(t *testing.T) {
	p := productRow{ProductID: "P002"}.toDomain()
	if p.ImageURL != placeholderImage {
		t.Errorf("expected placeholder image, got %q", p.ImageURL)
	}
}
