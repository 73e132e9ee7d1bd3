// Package vector provides an exact flat L2 similarity index with
// reconstruction by position, plus the position-aligned id mapping that
// translates index positions to catalog ids.
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// errDimMismatch signals a vector whose length differs from the index dimension.
var errDimMismatch = errors.New("vector dimension mismatch")

// Flat is an exact nearest-neighbor index over fixed-dimension float32
// vectors, compared by squared L2 distance. It is read-only after load;
// per-query subset indexes are built as fresh private values.
type Flat struct {
	dim  int
	data []float32
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.data) / f.dim }

// Add appends a vector to the index.
func (f *Flat) Add(vec []float32) error {
	if len(vec) != f.dim {
		return fmt.Errorf("%w: expected %d, got %d", errDimMismatch, f.dim, len(vec))
	}
	f.data = append(f.data, vec...)
	return nil
}

// Reconstruct returns a copy of the vector stored at the given position.
func (f *Flat) Reconstruct(pos int) ([]float32, error) {
	if pos < 0 || pos >= f.Len() {
		return nil, fmt.Errorf("position %d out of range [0, %d)", pos, f.Len())
	}
	vec := make([]float32, f.dim)
	copy(vec, f.data[pos*f.dim:(pos+1)*f.dim])
	return vec, nil
}

// Search returns the positions of the k nearest vectors to the query in
// ascending distance order, with their squared L2 distances. k is clamped
// to the index size.
func (f *Flat) Search(query []float32, k int) ([]int, []float32, error) {
	if len(query) != f.dim {
		return nil, nil, fmt.Errorf("%w: expected %d, got %d", errDimMismatch, f.dim, len(query))
	}
	n := f.Len()
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil, nil
	}

	type hit struct {
		pos  int
		dist float32
	}
	hits := make([]hit, n)
	for i := 0; i < n; i++ {
		row := f.data[i*f.dim : (i+1)*f.dim]
		var d float32
		for j, q := range query {
			diff := row[j] - q
			d += diff * diff
		}
		hits[i] = hit{pos: i, dist: d}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

	positions := make([]int, k)
	distances := make([]float32, k)
	for i := 0; i < k; i++ {
		positions[i] = hits[i].pos
		distances[i] = hits[i].dist
	}
	return positions, distances, nil
}

const fileMagic = "HCFI"

// Load reads an index written by Save.
func Load(path string) (*Flat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}
	if len(data) < 12 || string(data[:4]) != fileMagic {
		return nil, fmt.Errorf("index file %s: bad header", path)
	}
	dim := int(binary.LittleEndian.Uint32(data[4:8]))
	count := int(binary.LittleEndian.Uint32(data[8:12]))
	if dim <= 0 {
		return nil, fmt.Errorf("index file %s: invalid dimension %d", path, dim)
	}
	body := data[12:]
	if len(body) != dim*count*4 {
		return nil, fmt.Errorf("index file %s: expected %d vector bytes, got %d", path, dim*count*4, len(body))
	}
	vecs := make([]float32, dim*count)
	for i := range vecs {
		vecs[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	return &Flat{dim: dim, data: vecs}, nil
}

// Save writes the index to a file readable by Load.
func (f *Flat) Save(path string) error {
	buf := make([]byte, 12+len(f.data)*4)
	copy(buf, fileMagic)
	binary.LittleEndian.PutUint32(buf[4:], uint32(f.dim))
	binary.LittleEndian.PutUint32(buf[8:], uint32(f.Len()))
	for i, v := range f.data {
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(v))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	return nil
}
