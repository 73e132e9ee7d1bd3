// Package faq loads the static FAQ/policy corpus consumed by the support
// workflow.
package faq

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/happycart/happycart/internal/domain"
)

// Load reads a CSV corpus with question and answer columns (an optional id
// column overrides the row-number id). Column names are matched
// case-insensitively.
func Load(path string) ([]domain.FAQ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open faq corpus: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read faq corpus: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("faq corpus %s: no data rows", path)
	}

	idCol, questionCol, answerCol := -1, -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			idCol = i
		case "question":
			questionCol = i
		case "answer":
			answerCol = i
		}
	}
	if questionCol < 0 || answerCol < 0 {
		return nil, fmt.Errorf("faq corpus %s: question and answer columns are required", path)
	}

	faqs := make([]domain.FAQ, 0, len(records)-1)
	for i, rec := range records[1:] {
		if questionCol >= len(rec) || answerCol >= len(rec) {
			continue
		}
		id := strconv.Itoa(i + 1)
		if idCol >= 0 && idCol < len(rec) && rec[idCol] != "" {
			id = rec[idCol]
		}
		faqs = append(faqs, domain.FAQ{
			ID:       id,
			Question: strings.TrimSpace(rec[questionCol]),
			Answer:   strings.TrimSpace(rec[answerCol]),
		})
	}
	return faqs, nil
}
