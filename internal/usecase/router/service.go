// Package router dispatches a chat query to exactly one workflow and
// folds the raw result into the uniform response envelope.
package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
	"github.com/happycart/happycart/internal/metrics"
)

const (
	fallbackOrder = "Sorry, we couldn't find any details for your order. " +
		"Please make sure you've entered the correct order number."
	fallbackSupport = "Sorry, we couldn't find any information for your request. " +
		"Please provide more details so we can assist you better."
)

// Service ties the intent classifier to the four workflow handlers.
// The responder is optional; a nil responder means raw messages go out
// as-is.
type Service struct {
	classifier Classifier
	cart       CartHandler
	order      OrderHandler
	product    ProductSearcher
	support    SupportHandler
	responder  Responder
	logger     *zap.Logger
}

// New creates a dispatcher. responder may be nil.
func New(
	classifier Classifier,
	cart CartHandler,
	order OrderHandler,
	product ProductSearcher,
	support SupportHandler,
	responder Responder,
	logger *zap.Logger,
) *Service {
	return &Service{
		classifier: classifier,
		cart:       cart,
		order:      order,
		product:    product,
		support:    support,
		responder:  responder,
		logger:     logger,
	}
}

// Dispatch classifies the query, invokes the single matching workflow and
// returns the normalized envelope. Each query is handled exactly once;
// there are no retries and no second dispatch.
func (s *Service) Dispatch(ctx context.Context, userID, query string) (domain.Envelope, error) {
	intent := s.classifier.Classify(query)
	metrics.ChatRequestsTotal.WithLabelValues(string(intent)).Inc()

	env := domain.NewEnvelope(intent)

	switch intent {
	case domain.IntentCart:
		state, err := s.cart.Process(ctx, userID, query)
		if err != nil {
			return env, err
		}
		env.Message = state.Message
		if state.Items != nil {
			env.Cart = state.Items
		}
		env.Total = state.Total
		env.Count = state.Count

	case domain.IntentOrder:
		rec, err := s.order.Process(ctx, query)
		if err != nil {
			return env, err
		}
		msg := rec.Message
		if msg == "" {
			msg = fallbackOrder
		}
		env.Message = s.rephrase(ctx, query, msg)

	case domain.IntentProduct:
		products, err := s.product.Search(ctx, query, 0)
		if err != nil {
			return env, err
		}
		if len(products) == 0 {
			env.Message = fmt.Sprintf(
				"Sorry, we couldn't find any products matching your request: %q. "+
					"Please try a different search or adjust your filters.", query)
			break
		}
		env.Products = products
		env.Message = s.rephrase(ctx, query, describeProducts(products))

	default:
		faq, ok, err := s.support.Answer(ctx, query)
		if err != nil {
			return env, err
		}
		if !ok {
			env.Message = fallbackSupport
			break
		}
		env.Message = s.rephrase(ctx, query, faq.Answer)
	}

	return env, nil
}

// rephrase runs the message through the responder when one is wired,
// keeping the original text on any failure.
func (s *Service) rephrase(ctx context.Context, query, message string) string {
	if s.responder == nil || message == "" {
		return message
	}
	out, err := s.responder.Rephrase(ctx, query, message)
	if err != nil {
		s.logger.Warn("responder failed, using raw message", zap.Error(err))
		return message
	}
	return out
}

func describeProducts(products []domain.Product) string {
	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = p.Title
	}
	return "Here are some products you might like: " + strings.Join(titles, ", ") + "."
}
