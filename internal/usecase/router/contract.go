package router

import (
	"context"

	"github.com/happycart/happycart/internal/domain"
)

// Classifier resolves a query to exactly one intent.
type Classifier interface {
	Classify(query string) domain.Intent
}

// CartHandler runs the cart workflow.
type CartHandler interface {
	Process(ctx context.Context, userID, query string) (domain.CartState, error)
}

// OrderHandler runs the order workflow.
type OrderHandler interface {
	Process(ctx context.Context, query string) (domain.OrderRecord, error)
}

// ProductSearcher runs hybrid product search. topK <= 0 means the
// configured default.
type ProductSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.Product, error)
}

// SupportHandler answers a support question from the FAQ corpus.
type SupportHandler interface {
	Answer(ctx context.Context, query string) (domain.FAQ, bool, error)
}

// Responder optionally rewrites a reply message in a conversational tone.
type Responder interface {
	Rephrase(ctx context.Context, query, message string) (string, error)
}
