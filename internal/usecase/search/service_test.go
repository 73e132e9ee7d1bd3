package search

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
	"github.com/happycart/happycart/internal/vector"
)

// fakeEmbedder returns canned vectors per query text and fails on
// anything it was not prepared for.
type fakeEmbedder struct {
	vecs  map[string][]float32
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.calls++
	v, ok := f.vecs[text]
	if !ok {
		return domain.EmbeddingResult{}, fmt.Errorf("no canned vector for %q", text)
	}
	return domain.EmbeddingResult{Embedding: v, TotalTokens: 1}, nil
}

var fixtureProducts = []domain.Product{
	{ID: "P1", Title: "Red Running Sneakers", Description: "lightweight shoes for men", Price: 2200, Category: "Shoes"},
	{ID: "P2", Title: "Blue Sneakers", Description: "women's casual shoes", Price: 1800, Category: "Shoes"},
	{ID: "P3", Title: "Classic White Sneakers", Description: "unisex everyday shoes", Price: 1500, Category: "Shoes"},
	{ID: "P4", Title: "Slim Fit Jeans", Description: "blue denim for men", Price: 2800, Category: "Jeans"},
	{ID: "P5", Title: "Ripped Jeans", Description: "black denim", Price: 1200, Category: "Jeans"},
	{ID: "P6", Title: "Designer Jeans", Description: "premium women's denim", Price: 3500, Category: "Jeans"},
	{ID: "P7", Title: "Green Tshirt", Description: "cotton tee", Price: 800, Category: "Shirts"},
	{ID: "P8", Title: "Black Sunglasses", Description: "uv protection shades", Price: 999, Category: "Sunglasses"},
	{ID: "P9", Title: "Leather Hiking Boots", Description: "rugged trail shoes", Price: 9000, Category: "Shoes"},
}

// Each product embeds to [i, 0, 0, 0] so distances are easy to reason about.
func fixtureVec(i int) []float32 {
	return []float32{float32(i), 0, 0, 0}
}

func newFixture(t *testing.T, emb Embedder) (*Service, *vector.Flat) {
	t.Helper()

	ids := make([]string, len(fixtureProducts))
	idx, err := vector.NewFlat(4)
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}
	for i, p := range fixtureProducts {
		ids[i] = p.ID
		if err := idx.Add(fixtureVec(i + 1)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	snap := domain.NewSnapshot(fixtureProducts)
	svc := New(snap, idx, vector.NewMapping(ids), emb, 5, zap.NewNop())
	return svc, idx
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestSearch_FilterThenRerank(t *testing.T) {
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"jeans under 3000": {4.4, 0, 0, 0},
	}}
	svc, _ := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "jeans under 3000", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Only P4 (2800) and P5 (1200) survive the filter; the query vector
	// sits closer to P4.
	want := []string{"P4", "P5"}
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
	for _, p := range got {
		if p.Price > 3000 {
			t.Errorf("product %s priced %v leaked past the under-3000 filter", p.ID, p.Price)
		}
	}
}

// Each extra active predicate can only shrink the surviving set, never
// grow it.
func TestApplyFilter_NarrowsMonotonically(t *testing.T) {
	svc, _ := newFixture(t, &fakeEmbedder{})

	steps := []struct {
		name   string
		filter domain.Filter
	}{
		{"none", domain.Filter{}},
		{"category", domain.Filter{Category: "jeans"}},
		{"category+price", domain.Filter{
			Category: "jeans",
			Price:    &domain.PriceRelation{Kind: domain.PriceAtMost, Threshold: 3000},
		}},
		{"category+price+gender", domain.Filter{
			Category: "jeans",
			Price:    &domain.PriceRelation{Kind: domain.PriceAtMost, Threshold: 3000},
			Gender:   "men",
		}},
	}

	prev := svc.applyFilter(steps[0].filter)
	if len(prev) != len(fixtureProducts) {
		t.Fatalf("empty filter kept %d of %d products", len(prev), len(fixtureProducts))
	}
	for _, step := range steps[1:] {
		got := svc.applyFilter(step.filter)
		if len(got) > len(prev) {
			t.Fatalf("filter %q grew the set: %d -> %d", step.name, len(prev), len(got))
		}
		kept := map[string]bool{}
		for _, id := range prev {
			kept[id] = true
		}
		for _, id := range got {
			if !kept[id] {
				t.Errorf("filter %q admitted %s, absent from the wider set", step.name, id)
			}
		}
		prev = got
	}
}

func TestSearch_SuperlativeSkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{}
	svc, _ := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "cheapest shoes", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Four shoes in the fixture; the cheapest three win and P9 (9000)
	// falls off the end.
	wantPrices := []float64{1500, 1800, 2200}
	if len(got) != len(wantPrices) {
		t.Fatalf("got %d products, want %d", len(got), len(wantPrices))
	}
	for i, p := range got {
		if p.Price != wantPrices[i] {
			t.Errorf("result[%d].Price = %v, want %v", i, p.Price, wantPrices[i])
		}
	}
	if emb.calls != 0 {
		t.Errorf("embedder called %d times for a superlative query", emb.calls)
	}
}

func TestSearch_MostExpensiveCapsAtThree(t *testing.T) {
	emb := &fakeEmbedder{}
	svc, _ := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "most expensive", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d products, want 3", len(got))
	}
	wantPrices := []float64{9000, 3500, 2800}
	for i, p := range got {
		if p.Price != wantPrices[i] {
			t.Errorf("result[%d].Price = %v, want %v", i, p.Price, wantPrices[i])
		}
	}
}

// With no extractable attributes, searching the whole catalog through
// the service must match searching the full index directly.
func TestSearch_UnfilteredMatchesFullIndex(t *testing.T) {
	queryVec := []float32{3.2, 0, 0, 0}
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"anything good": queryVec,
	}}
	svc, idx := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "anything good", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	positions, _, err := idx.Search(queryVec, 5)
	if err != nil {
		t.Fatalf("index Search: %v", err)
	}
	if len(got) != len(positions) {
		t.Fatalf("got %d products, want %d", len(got), len(positions))
	}
	for i, pos := range positions {
		if want := fixtureProducts[pos].ID; got[i].ID != want {
			t.Errorf("result[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestSearch_GenderUnknownAlwaysPasses(t *testing.T) {
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"jeans for men": {4, 0, 0, 0},
	}}
	svc, _ := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "jeans for men", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	seen := map[string]bool{}
	for _, p := range got {
		seen[p.ID] = true
	}
	if !seen["P4"] {
		t.Error("men's jeans P4 missing from results")
	}
	if !seen["P5"] {
		t.Error("P5 has no gender wording and must not be filtered out")
	}
	if seen["P6"] {
		t.Error("women's jeans P6 must be filtered out")
	}
}

func TestSearch_ColorRequiresWholeWord(t *testing.T) {
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"blue sneakers for women": {2, 0, 0, 0},
	}}
	svc, _ := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "blue sneakers for women", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "P2" {
		t.Fatalf("got %v, want [P2]", ids(got))
	}
}

func TestSearch_NoMatchesIsEmptyNotError(t *testing.T) {
	emb := &fakeEmbedder{}
	svc, _ := newFixture(t, emb)

	got, err := svc.Search(context.Background(), "purple joggers", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", ids(got))
	}
	if emb.calls != 0 {
		t.Errorf("embedder called %d times for an empty candidate set", emb.calls)
	}
}

// Ids absent from the mapping are skipped, not fatal.
func TestSearch_StaleMappingSkipsProduct(t *testing.T) {
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"jeans under 3000": {4.4, 0, 0, 0},
	}}

	// Mapping and index without P5.
	idx, err := vector.NewFlat(4)
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}
	var mapped []string
	for i, p := range fixtureProducts {
		if p.ID == "P5" {
			continue
		}
		mapped = append(mapped, p.ID)
		if err := idx.Add(fixtureVec(i + 1)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	svc := New(domain.NewSnapshot(fixtureProducts), idx, vector.NewMapping(mapped), emb, 5, zap.NewNop())

	got, err := svc.Search(context.Background(), "jeans under 3000", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "P4" {
		t.Fatalf("got %v, want [P4]", ids(got))
	}
}
