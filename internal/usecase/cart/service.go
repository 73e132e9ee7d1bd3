// Package cart turns free-text cart requests into repository operations
// and always answers with the full current cart.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
)

// Service executes cart workflows for one query at a time.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a cart service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Process parses the query, applies the cart action and returns the
// resulting cart. Domain conditions (unknown product, empty cart) come
// back as messages; only infrastructure failures return an error.
func (s *Service) Process(ctx context.Context, userID, query string) (domain.CartState, error) {
	q := strings.ToLower(query)
	productID := extractProductID(query)

	switch {
	case strings.Contains(q, "add") && productID != "":
		return s.add(ctx, userID, productID)
	case strings.Contains(q, "remove one") && productID != "":
		return s.removeOne(ctx, userID, productID)
	case strings.Contains(q, "remove") && productID != "":
		return s.removeAll(ctx, userID, productID)
	case strings.Contains(q, "view"):
		return s.view(ctx, userID)
	case strings.Contains(q, "clear"):
		if err := s.repo.Clear(ctx, userID); err != nil {
			return domain.CartState{}, fmt.Errorf("clear cart: %w", err)
		}
		return emptyCart("Cart cleared."), nil
	default:
		return emptyCart("Could not understand cart action. Try \"add productid P001 to cart\"."), nil
	}
}

func (s *Service) add(ctx context.Context, userID, productID string) (domain.CartState, error) {
	if err := s.repo.Add(ctx, userID, productID, 1); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return emptyCart(fmt.Sprintf("Product %s not found.", productID)), nil
		}
		return domain.CartState{}, fmt.Errorf("add to cart: %w", err)
	}

	state, err := s.currentCart(ctx, userID)
	if err != nil {
		return domain.CartState{}, err
	}

	title := productID
	for _, it := range state.Items {
		if it.ProductID == productID {
			title = it.Title
			break
		}
	}
	state.Message = fmt.Sprintf("%s added to cart (Qty: 1).", title)
	return state, nil
}

func (s *Service) removeOne(ctx context.Context, userID, productID string) (domain.CartState, error) {
	if err := s.repo.RemoveOne(ctx, userID, productID); err != nil {
		if errors.Is(err, domain.ErrNotInCart) {
			return s.withMessage(ctx, userID, fmt.Sprintf("Product %s is not in your cart.", productID))
		}
		return domain.CartState{}, fmt.Errorf("remove one from cart: %w", err)
	}
	return s.withMessage(ctx, userID, fmt.Sprintf("Removed one unit of product %s.", productID))
}

func (s *Service) removeAll(ctx context.Context, userID, productID string) (domain.CartState, error) {
	if err := s.repo.RemoveAll(ctx, userID, productID); err != nil {
		if errors.Is(err, domain.ErrNotInCart) {
			return s.withMessage(ctx, userID, fmt.Sprintf("Product %s is not in your cart.", productID))
		}
		return domain.CartState{}, fmt.Errorf("remove from cart: %w", err)
	}
	return s.withMessage(ctx, userID, fmt.Sprintf("Product %s removed from cart.", productID))
}

func (s *Service) view(ctx context.Context, userID string) (domain.CartState, error) {
	state, err := s.currentCart(ctx, userID)
	if err != nil {
		return domain.CartState{}, err
	}
	if len(state.Items) == 0 {
		state.Message = "Your cart is empty."
	} else {
		state.Message = "Here is your cart."
	}
	return state, nil
}

func (s *Service) withMessage(ctx context.Context, userID, message string) (domain.CartState, error) {
	state, err := s.currentCart(ctx, userID)
	if err != nil {
		return domain.CartState{}, err
	}
	state.Message = message
	return state, nil
}

// currentCart loads the cart and computes total and item count.
func (s *Service) currentCart(ctx context.Context, userID string) (domain.CartState, error) {
	items, err := s.repo.View(ctx, userID)
	if err != nil {
		return domain.CartState{}, fmt.Errorf("view cart: %w", err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	state := domain.CartState{Items: items}
	for _, it := range items {
		state.Total += it.ItemTotal
		state.Count += it.Quantity
	}
	return state, nil
}

func emptyCart(message string) domain.CartState {
	return domain.CartState{Message: message, Items: []domain.CartItem{}}
}

// extractProductID returns the token following "productid", preserving
// its case. Ids like "P011" are case-sensitive keys.
func extractProductID(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		if strings.EqualFold(w, "productid") && i+1 < len(words) {
			return words[i+1]
		}
	}
	return ""
}
