// Package search implements hybrid product lookup: a structured filter
// over the catalog snapshot narrows the candidates, then an ephemeral
// subset of the flat index reranks them by similarity to the query.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
	"github.com/happycart/happycart/internal/metrics"
	"github.com/happycart/happycart/internal/vector"
)

// superlativeLimit caps "cheapest"/"most expensive" answers.
const superlativeLimit = 3

// Service runs product search over an immutable catalog snapshot.
type Service struct {
	snapshot *domain.Snapshot
	index    *vector.Flat
	mapping  *vector.Mapping
	embedder Embedder
	topK     int
	logger   *zap.Logger
}

// New creates a product search service. topK is the default result size
// used when the caller passes a non-positive value.
func New(
	snapshot *domain.Snapshot,
	index *vector.Flat,
	mapping *vector.Mapping,
	embedder Embedder,
	topK int,
	logger *zap.Logger,
) *Service {
	return &Service{
		snapshot: snapshot,
		index:    index,
		mapping:  mapping,
		embedder: embedder,
		topK:     topK,
		logger:   logger,
	}
}

// Search returns up to topK products for the query, nearest first.
// An empty result is a valid answer, not an error.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domain.Product, error) {
	if topK <= 0 {
		topK = s.topK
	}

	f := extractFilter(query)
	filtered := s.applyFilter(f)
	if len(filtered) == 0 {
		return nil, nil
	}

	if f.Price != nil && f.Price.Superlative() {
		return s.byPrice(filtered, f.Price.Kind == domain.PriceMaximize), nil
	}

	return s.rerank(ctx, query, filtered, topK)
}

// applyFilter keeps catalog ids matching every active attribute, in
// snapshot load order.
func (s *Service) applyFilter(f domain.Filter) []string {
	var out []string
	for _, id := range s.snapshot.IDs() {
		p, _ := s.snapshot.Get(id)
		if f.Category != "" && strings.ToLower(p.Category) != f.Category {
			continue
		}
		if f.Gender != "" {
			// A product with no recognizable gender always passes:
			// rejecting it would hide most of the catalog.
			inferred := detectGender(strings.ToLower(p.Title + " " + p.Description))
			if inferred != "" && inferred != f.Gender && inferred != "unisex" {
				continue
			}
		}
		if f.Color != "" {
			text := strings.ToLower(p.Title + " " + p.Description)
			if !hasWord(text, f.Color) {
				continue
			}
		}
		if f.Price != nil {
			if f.Price.Kind == domain.PriceAtMost && p.Price > f.Price.Threshold {
				continue
			}
			if f.Price.Kind == domain.PriceAtLeast && p.Price < f.Price.Threshold {
				continue
			}
		}
		out = append(out, id)
	}
	return out
}

// byPrice answers superlative queries with a direct price sort, skipping
// the similarity step entirely.
func (s *Service) byPrice(ids []string, descending bool) []domain.Product {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(a, b int) bool {
		pa, _ := s.snapshot.Get(sorted[a])
		pb, _ := s.snapshot.Get(sorted[b])
		if descending {
			return pa.Price > pb.Price
		}
		return pa.Price < pb.Price
	})

	if len(sorted) > superlativeLimit {
		sorted = sorted[:superlativeLimit]
	}

	out := make([]domain.Product, 0, len(sorted))
	for _, id := range sorted {
		p, _ := s.snapshot.Get(id)
		out = append(out, p)
	}
	return out
}

// rerank builds a private flat index over the surviving products'
// vectors and orders them by distance to the embedded query.
func (s *Service) rerank(ctx context.Context, query string, ids []string, topK int) ([]domain.Product, error) {
	subset, err := vector.NewFlat(s.index.Dimension())
	if err != nil {
		return nil, fmt.Errorf("build subset index: %w", err)
	}

	subsetIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		pos, ok := s.mapping.PositionOf(id)
		if !ok {
			metrics.SearchStaleMappingTotal.Inc()
			s.logger.Warn("product id missing from index mapping", zap.String("product_id", id))
			continue
		}
		vec, err := s.index.Reconstruct(pos)
		if err != nil {
			metrics.SearchStaleMappingTotal.Inc()
			s.logger.Warn("mapped position missing from index",
				zap.String("product_id", id), zap.Int("position", pos))
			continue
		}
		if err := subset.Add(vec); err != nil {
			return nil, fmt.Errorf("add vector to subset index: %w", err)
		}
		subsetIDs = append(subsetIDs, id)
	}

	if len(subsetIDs) == 0 {
		return nil, nil
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	k := min(topK, len(subsetIDs))
	positions, _, err := subset.Search(emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("subset search: %w", err)
	}

	out := make([]domain.Product, 0, len(positions))
	for _, pos := range positions {
		p, ok := s.snapshot.Get(subsetIDs[pos])
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
