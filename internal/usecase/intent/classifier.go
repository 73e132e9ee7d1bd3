// Package intent routes free-text shopping queries to a workflow.
package intent

import (
	"regexp"
	"strings"

	"github.com/happycart/happycart/internal/domain"
)

var orderIDPattern = regexp.MustCompile(`(?i)\bord\d+\b`)

// rule pairs a predicate over the lowercased query with the intent it yields.
type rule struct {
	match func(q string) bool
	label domain.Intent
}

var productWords = []string{
	"buy", "find", "show", "price",
	"sneakers", "shoes", "shirt", "jeans", "sunglasses", "tshirt",
}

var orderWords = []string{"track", "cancel", "order", "deliver", "return"}

// rules is an ordered decision list; the first matching rule wins.
// Matching is plain substring containment, the way users actually type.
var rules = []rule{
	{
		match: func(q string) bool {
			return (strings.Contains(q, "add") && strings.Contains(q, "cart")) ||
				(strings.Contains(q, "remove") && strings.Contains(q, "cart")) ||
				strings.Contains(q, "view cart") ||
				strings.Contains(q, "clear cart")
		},
		label: domain.IntentCart,
	},
	{
		// Order verbs without an order id fall through to support: the
		// order workflow has nothing to act on, support can still answer
		// "how do I track my order" style questions.
		match: func(q string) bool {
			return containsAny(q, orderWords) && orderIDPattern.MatchString(q)
		},
		label: domain.IntentOrder,
	},
	{
		match: func(q string) bool {
			return containsAny(q, orderWords)
		},
		label: domain.IntentSupport,
	},
	{
		match: func(q string) bool {
			return containsAny(q, productWords)
		},
		label: domain.IntentProduct,
	},
}

// Classifier assigns a single intent to a query.
type Classifier struct{}

// NewClassifier creates a query intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the intent of query. Every query gets exactly one
// intent; anything unrecognized is support.
func (c *Classifier) Classify(query string) domain.Intent {
	q := strings.ToLower(query)
	for _, r := range rules {
		if r.match(q) {
			return r.label
		}
	}
	return domain.IntentSupport
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
