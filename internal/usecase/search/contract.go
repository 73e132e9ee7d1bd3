package search

import (
	"context"

	"github.com/happycart/happycart/internal/domain"
)

// Embedder produces a query embedding for similarity ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
