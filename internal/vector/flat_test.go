package vector

import (
	"os"
	"path/filepath"
	"testing"
)

func mustFlat(t *testing.T, dim int, vecs ...[]float32) *Flat {
	t.Helper()
	f, err := NewFlat(dim)
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}
	for _, v := range vecs {
		if err := f.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return f
}

func TestFlat_SearchOrdersByDistance(t *testing.T) {
	f := mustFlat(t, 2,
		[]float32{0, 0},
		[]float32{1, 0},
		[]float32{5, 5},
		[]float32{0.5, 0},
	)

	positions, distances, err := f.Search([]float32{0.4, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []int{3, 0, 1}
	if len(positions) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(positions))
	}
	for i, p := range want {
		if positions[i] != p {
			t.Errorf("position[%d] = %d, want %d", i, positions[i], p)
		}
	}
	for i := 1; i < len(distances); i++ {
		if distances[i] < distances[i-1] {
			t.Errorf("distances not ascending: %v", distances)
		}
	}
}

func TestFlat_SearchClampsK(t *testing.T) {
	f := mustFlat(t, 2, []float32{0, 0}, []float32{1, 1})

	positions, _, err := f.Search([]float32{0, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(positions) != 2 {
		t.Errorf("expected k clamped to 2, got %d", len(positions))
	}
}

func TestFlat_Reconstruct(t *testing.T) {
	f := mustFlat(t, 3, []float32{1, 2, 3}, []float32{4, 5, 6})

	vec, err := f.Reconstruct(1)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	want := []float32{4, 5, 6}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %f, want %f", i, vec[i], want[i])
		}
	}

	// Mutating the copy must not touch the index.
	vec[0] = 99
	again, _ := f.Reconstruct(1)
	if again[0] != 4 {
		t.Errorf("Reconstruct returned a shared slice")
	}

	if _, err := f.Reconstruct(2); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestFlat_AddDimensionMismatch(t *testing.T) {
	f := mustFlat(t, 2)
	if err := f.Add([]float32{1, 2, 3}); err == nil {
		t.Error("expected dimension mismatch error")
	}
	if _, _, err := f.Search([]float32{1}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestFlat_SaveLoadRoundTrip(t *testing.T) {
	f := mustFlat(t, 2, []float32{0.25, -1}, []float32{3, 4.5})
	path := filepath.Join(t.TempDir(), "index.bin")

	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Dimension() != 2 || loaded.Len() != 2 {
		t.Fatalf("loaded dim=%d len=%d, want 2/2", loaded.Dimension(), loaded.Len())
	}
	vec, err := loaded.Reconstruct(1)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if vec[0] != 3 || vec[1] != 4.5 {
		t.Errorf("round-trip vector = %v, want [3 4.5]", vec)
	}
}

func TestLoad_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(path, []byte("not an index"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected header error")
	}
}

func TestMapping_Positions(t *testing.T) {
	m := NewMapping([]string{"P001", "P002", "F001"})

	if pos, ok := m.PositionOf("P002"); !ok || pos != 1 {
		t.Errorf("PositionOf(P002) = %d,%v, want 1,true", pos, ok)
	}
	if _, ok := m.PositionOf("P999"); ok {
		t.Error("expected missing id to be unmapped")
	}
	id, err := m.IDAt(2)
	if err != nil || id != "F001" {
		t.Errorf("IDAt(2) = %q,%v, want F001", id, err)
	}
	if _, err := m.IDAt(3); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestLoadMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := os.WriteFile(path, []byte(`["P001","P002"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadMapping(path)
	if err != nil {
		t.Fatalf("LoadMapping: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if _, err := LoadMapping(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
