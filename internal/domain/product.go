// Package domain holds the entities and contracts shared between layers.
package domain

// KeyPrefix namespaces all cache keys written by this service.
const KeyPrefix = "happycart:"

// Product is a single catalog entry. Immutable after the snapshot load.
type Product struct {
	ID          string  `json:"productID"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// Snapshot is the in-memory catalog, keyed by product id. It is loaded once
// at startup and never mutated afterwards, so concurrent reads are safe.
type Snapshot struct {
	products map[string]Product
	ids      []string
}

// NewSnapshot builds a snapshot from a list of products.
func NewSnapshot(products []Product) *Snapshot {
	m := make(map[string]Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := m[p.ID]; !ok {
			ids = append(ids, p.ID)
		}
		m[p.ID] = p
	}
	return &Snapshot{products: m, ids: ids}
}

// Get returns the product with the given id.
func (s *Snapshot) Get(id string) (Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Len returns the number of catalog entries.
func (s *Snapshot) Len() int { return len(s.ids) }

// IDs returns product ids in load order.
func (s *Snapshot) IDs() []string { return s.ids }
