package support

import (
	"context"

	"github.com/happycart/happycart/internal/domain"
)

// Embedder produces a query embedding for FAQ matching.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
