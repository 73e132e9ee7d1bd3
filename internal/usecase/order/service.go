// Package order answers tracking, cancellation and delivery-confirmation
// queries against the orders store.
package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
)

var orderIDPattern = regexp.MustCompile(`(?i)\bord\d+\b`)

var (
	cancelWords  = []string{"cancel", "stop", "don't ship", "abort"}
	confirmWords = []string{"deliver", "received", "mark as delivered", "got it"}
)

// Service executes order workflows.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates an order service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Process resolves the order id and action from the query and applies it.
// A missing or unknown id yields a message record; only infrastructure
// failures return an error.
func (s *Service) Process(ctx context.Context, query string) (domain.OrderRecord, error) {
	id := extractOrderID(query)
	if id == "" {
		return domain.OrderRecord{
			Action:  domain.ActionUnknown,
			Message: "Please provide your Order ID (e.g., ORD123).",
		}, nil
	}

	action := detectAction(query)

	switch action {
	case domain.ActionCancel:
		return s.cancel(ctx, id)
	case domain.ActionConfirm:
		return s.confirm(ctx, id)
	default:
		return s.track(ctx, id)
	}
}

func (s *Service) track(ctx context.Context, id string) (domain.OrderRecord, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return s.lookupFailure(domain.ActionTrack, id, err)
	}
	return domain.OrderRecord{
		Action:  domain.ActionTrack,
		OrderID: o.ID,
		Status:  o.Status,
		ETA:     o.ETA,
		Items:   o.Items,
		Message: fmt.Sprintf("Order %s is %s. ETA: %s.", o.ID, o.Status, o.ETA),
	}, nil
}

func (s *Service) cancel(ctx context.Context, id string) (domain.OrderRecord, error) {
	o, applied, err := s.repo.Transition(ctx, id, domain.OrderCanceled,
		domain.OrderProcessing, domain.OrderShipped)
	if err != nil {
		return s.lookupFailure(domain.ActionCancel, id, err)
	}
	if !applied {
		return domain.OrderRecord{
			Action:  domain.ActionCancel,
			OrderID: o.ID,
			Status:  o.Status,
			Message: fmt.Sprintf("Order %s cannot be canceled as it is already %s.", o.ID, o.Status),
		}, nil
	}
	return domain.OrderRecord{
		Action:  domain.ActionCancel,
		OrderID: o.ID,
		Status:  o.Status,
		Message: fmt.Sprintf("Order %s has been canceled.", o.ID),
	}, nil
}

func (s *Service) confirm(ctx context.Context, id string) (domain.OrderRecord, error) {
	o, _, err := s.repo.Transition(ctx, id, domain.OrderDelivered,
		domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered, domain.OrderCanceled)
	if err != nil {
		return s.lookupFailure(domain.ActionConfirm, id, err)
	}
	return domain.OrderRecord{
		Action:  domain.ActionConfirm,
		OrderID: o.ID,
		Status:  o.Status,
		Message: fmt.Sprintf("Order %s has been marked as delivered.", o.ID),
	}, nil
}

// lookupFailure folds an unknown order id into a message record.
func (s *Service) lookupFailure(action domain.OrderAction, id string, err error) (domain.OrderRecord, error) {
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.OrderRecord{
			Action:  action,
			OrderID: id,
			Message: fmt.Sprintf("No order found with ID %s.", id),
		}, nil
	}
	return domain.OrderRecord{}, fmt.Errorf("order %s: %w", id, err)
}

// extractOrderID returns the uppercased order id in the query, or "".
func extractOrderID(query string) string {
	m := orderIDPattern.FindString(query)
	if m == "" {
		return ""
	}
	return strings.ToUpper(m)
}

func detectAction(query string) domain.OrderAction {
	q := strings.ToLower(query)
	for _, w := range cancelWords {
		if strings.Contains(q, w) {
			return domain.ActionCancel
		}
	}
	for _, w := range confirmWords {
		if strings.Contains(q, w) {
			return domain.ActionConfirm
		}
	}
	return domain.ActionTrack
}
