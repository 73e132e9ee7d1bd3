// Package support answers customer questions by nearest-neighbor lookup
// over an embedded FAQ corpus.
package support

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
	"github.com/happycart/happycart/internal/vector"
)

// distanceThreshold rejects matches too far from any FAQ question.
const distanceThreshold = 1.5

// Service resolves support queries against the FAQ index.
type Service struct {
	byID     map[string]domain.FAQ
	index    *vector.Flat
	mapping  *vector.Mapping
	embedder Embedder
	logger   *zap.Logger
}

// New creates a support service over an embedded FAQ corpus.
func New(
	faqs []domain.FAQ,
	index *vector.Flat,
	mapping *vector.Mapping,
	embedder Embedder,
	logger *zap.Logger,
) *Service {
	byID := make(map[string]domain.FAQ, len(faqs))
	for _, f := range faqs {
		byID[f.ID] = f
	}
	return &Service{
		byID:     byID,
		index:    index,
		mapping:  mapping,
		embedder: embedder,
		logger:   logger,
	}
}

// Answer returns the single closest FAQ entry. ok is false when nothing
// in the corpus is close enough to trust.
func (s *Service) Answer(ctx context.Context, query string) (domain.FAQ, bool, error) {
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return domain.FAQ{}, false, fmt.Errorf("embed query: %w", err)
	}

	positions, distances, err := s.index.Search(emb.Embedding, 1)
	if err != nil {
		return domain.FAQ{}, false, fmt.Errorf("faq search: %w", err)
	}
	if len(positions) == 0 {
		return domain.FAQ{}, false, nil
	}
	if distances[0] > distanceThreshold {
		return domain.FAQ{}, false, nil
	}

	id, err := s.mapping.IDAt(positions[0])
	if err != nil {
		return domain.FAQ{}, false, fmt.Errorf("faq mapping: %w", err)
	}
	faq, ok := s.byID[id]
	if !ok {
		s.logger.Warn("faq id in mapping but not in corpus", zap.String("faq_id", id))
		return domain.FAQ{}, false, nil
	}
	return faq, true, nil
}
