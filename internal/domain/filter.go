package domain

// PriceRelationKind is the kind of price constraint extracted from a query.
type PriceRelationKind string

const (
	// PriceAtMost keeps products priced at or below a threshold.
	PriceAtMost PriceRelationKind = "at-most"
	// PriceAtLeast keeps products priced at or above a threshold.
	PriceAtLeast PriceRelationKind = "at-least"
	// PriceMinimize asks for the cheapest products (no threshold).
	PriceMinimize PriceRelationKind = "minimize"
	// PriceMaximize asks for the most expensive products (no threshold).
	PriceMaximize PriceRelationKind = "maximize"
)

// PriceRelation is an optional price constraint. Threshold is meaningful
// only for the at-most and at-least kinds.
type PriceRelation struct {
	Kind      PriceRelationKind
	Threshold float64
}

// Superlative reports whether the relation replaces similarity ranking
// with a direct price sort.
func (r PriceRelation) Superlative() bool {
	return r.Kind == PriceMinimize || r.Kind == PriceMaximize
}

// Filter is the structured predicate extracted from one query.
// Zero-valued fields are inactive. Built fresh per query, never persisted.
type Filter struct {
	Category string
	Color    string
	Gender   string
	Price    *PriceRelation
}
