package domain

import "errors"

var (
	// ErrProductNotFound signals a product id missing from the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound signals an order id with no matching row.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotInCart signals a cart operation on a product that has no cart line.
	ErrNotInCart = errors.New("product not in cart")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
