package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/happycart/happycart/internal/domain"
)

// Vocabulary for structured attribute extraction. All matching is
// whole-word and case-insensitive; tables hold lowercase keywords.
var (
	categorySynonyms = []struct {
		category string
		words    []string
	}{
		{"shoes", []string{"shoes", "sneakers", "joggers", "sandals"}},
		{"shirts", []string{"shirts", "t-shirts", "tees", "tshirt"}},
		{"jeans", []string{"jeans", "pants", "trousers"}},
		{"sunglasses", []string{"glasses", "sunglasses", "shades"}},
	}

	colorKeywords = []string{
		"black", "white", "red", "blue", "green", "yellow",
		"pink", "grey", "gray", "orange", "purple", "brown",
	}

	genderKeywords = []struct {
		gender string
		words  []string
	}{
		{"men", []string{"men", "men's", "male", "boy", "boys", "man"}},
		{"women", []string{"women", "women's", "female", "girl", "girls", "woman"}},
		{"unisex", []string{"unisex"}},
	}

	minimizeWords = []string{"cheapest", "lowest", "least"}
	maximizeWords = []string{"highest", "most expensive", "costliest", "priciest"}
)

var (
	atMostPattern  = regexp.MustCompile(`(under|below|less than)\s*(\d+)`)
	atLeastPattern = regexp.MustCompile(`(above|over|more than)\s*(\d+)`)

	wordPatterns = map[string]*regexp.Regexp{}
)

func init() {
	add := func(words []string) {
		for _, w := range words {
			wordPatterns[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
		}
	}
	for _, c := range categorySynonyms {
		add(c.words)
	}
	add(colorKeywords)
	for _, g := range genderKeywords {
		add(g.words)
	}
	add(minimizeWords)
	add(maximizeWords)
}

// hasWord reports whether lowercase text contains keyword as a whole word.
func hasWord(text, keyword string) bool {
	return wordPatterns[keyword].MatchString(text)
}

// extractFilter builds the structured predicate for one query.
func extractFilter(query string) domain.Filter {
	q := strings.ToLower(query)
	return domain.Filter{
		Category: detectCategory(q),
		Color:    detectColor(q),
		Gender:   detectGender(q),
		Price:    detectPrice(q),
	}
}

func detectCategory(q string) string {
	for _, c := range categorySynonyms {
		for _, w := range c.words {
			if hasWord(q, w) {
				return c.category
			}
		}
	}
	return ""
}

func detectColor(q string) string {
	for _, c := range colorKeywords {
		if hasWord(q, c) {
			return c
		}
	}
	return ""
}

// detectGender works over any lowercase text: the user's query or a
// product's title and description.
func detectGender(text string) string {
	for _, g := range genderKeywords {
		for _, w := range g.words {
			if hasWord(text, w) {
				return g.gender
			}
		}
	}
	return ""
}

func detectPrice(q string) *domain.PriceRelation {
	if m := atMostPattern.FindStringSubmatch(q); m != nil {
		v, _ := strconv.ParseFloat(m[2], 64)
		return &domain.PriceRelation{Kind: domain.PriceAtMost, Threshold: v}
	}
	if m := atLeastPattern.FindStringSubmatch(q); m != nil {
		v, _ := strconv.ParseFloat(m[2], 64)
		return &domain.PriceRelation{Kind: domain.PriceAtLeast, Threshold: v}
	}
	for _, w := range minimizeWords {
		if hasWord(q, w) {
			return &domain.PriceRelation{Kind: domain.PriceMinimize}
		}
	}
	for _, w := range maximizeWords {
		if hasWord(q, w) {
			return &domain.PriceRelation{Kind: domain.PriceMaximize}
		}
	}
	return nil
}
