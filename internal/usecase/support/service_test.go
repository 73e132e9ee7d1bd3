package support

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
	"github.com/happycart/happycart/internal/vector"
)

type fakeEmbedder struct {
	vecs map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	v, ok := f.vecs[text]
	if !ok {
		return domain.EmbeddingResult{}, fmt.Errorf("no canned vector for %q", text)
	}
	return domain.EmbeddingResult{Embedding: v}, nil
}

var fixtureFAQs = []domain.FAQ{
	{ID: "F1", Question: "What is your return policy?", Answer: "Returns accepted within 30 days."},
	{ID: "F2", Question: "How long does shipping take?", Answer: "Shipping takes 3 to 5 business days."},
}

func newService(t *testing.T, emb Embedder) *Service {
	t.Helper()

	idx, err := vector.NewFlat(2)
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}
	// F1 at [0,0], F2 at [10,0].
	if err := idx.Add([]float32{0, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add([]float32{10, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	return New(fixtureFAQs, idx, vector.NewMapping([]string{"F1", "F2"}), emb, zap.NewNop())
}

func TestAnswer_NearestFAQ(t *testing.T) {
	svc := newService(t, &fakeEmbedder{vecs: map[string][]float32{
		"can I return my order": {0.5, 0},
		"shipping time":         {9.5, 0},
	}})
	ctx := context.Background()

	faq, ok, err := svc.Answer(ctx, "can I return my order")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !ok || faq.ID != "F1" {
		t.Fatalf("got (%v, %v), want F1", faq.ID, ok)
	}

	faq, ok, err = svc.Answer(ctx, "shipping time")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !ok || faq.ID != "F2" {
		t.Fatalf("got (%v, %v), want F2", faq.ID, ok)
	}
}

// A nearest neighbor farther than the distance threshold is no match.
func TestAnswer_ThresholdRejectsFarMatch(t *testing.T) {
	svc := newService(t, &fakeEmbedder{vecs: map[string][]float32{
		"tell me a joke": {5, 5},
	}})

	_, ok, err := svc.Answer(context.Background(), "tell me a joke")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ok {
		t.Fatal("expected no match beyond the distance threshold")
	}
}

// A close neighbor right at the boundary still matches.
func TestAnswer_ThresholdBoundary(t *testing.T) {
	svc := newService(t, &fakeEmbedder{vecs: map[string][]float32{
		"returns": {1.2, 0},
	}})

	// Squared L2 distance to F1 is 1.44, inside the 1.5 cutoff.
	faq, ok, err := svc.Answer(context.Background(), "returns")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !ok || faq.ID != "F1" {
		t.Fatalf("got (%v, %v), want F1", faq.ID, ok)
	}
}

func TestAnswer_EmbedderFailure(t *testing.T) {
	svc := newService(t, &fakeEmbedder{})

	if _, _, err := svc.Answer(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when embedding fails")
	}
}
