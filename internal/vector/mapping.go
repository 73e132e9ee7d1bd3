package vector

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mapping is the position-aligned sequence translating index positions to
// external ids. Position i corresponds exactly to vector i in the index;
// the file must never be reordered independently of the index.
type Mapping struct {
	ids       []string
	positions map[string]int
}

// NewMapping builds a mapping from an ordered id list.
func NewMapping(ids []string) *Mapping {
	positions := make(map[string]int, len(ids))
	for i, id := range ids {
		// First occurrence wins.
		if _, ok := positions[id]; !ok {
			positions[id] = i
		}
	}
	return &Mapping{ids: ids, positions: positions}
}

// LoadMapping reads a JSON array of ids.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read id mapping: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse id mapping: %w", err)
	}
	return NewMapping(ids), nil
}

// Len returns the number of mapped positions.
func (m *Mapping) Len() int { return len(m.ids) }

// PositionOf returns the index position of the given id.
func (m *Mapping) PositionOf(id string) (int, bool) {
	pos, ok := m.positions[id]
	return pos, ok
}

// IDAt returns the id stored at the given position.
func (m *Mapping) IDAt(pos int) (string, error) {
	if pos < 0 || pos >= len(m.ids) {
		return "", fmt.Errorf("mapping position %d out of range [0, %d)", pos, len(m.ids))
	}
	return m.ids[pos], nil
}
