// Package reporting feeds the shipment, payment, and admin dashboards from
// the backend listing endpoints.
package reporting

import (
	"context"

	"cargoflow/backend"
)

// Directory abstracts the backend listing calls the dashboards consume.
type Directory interface {
	ListShipments(ctx context.Context, token string) ([]backend.Shipment, error)
	ListPayments(ctx context.Context, token string) ([]backend.Payment, error)
	ListUsers(ctx context.Context, token string) ([]backend.AccountSummary, error)
}

// Service exposes dashboard-level reporting operations.
type Service struct {
	dir Directory
}

// NewService builds a Service over the given directory.
func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

// Shipments returns up to limit shipment rows, optionally filtered by status.
func (s *Service) Shipments(ctx context.Context, token, status string, limit int) ([]backend.Shipment, error) {
	shipments, err := s.dir.ListShipments(ctx, token)
	if err != nil {
		return nil, err
	}

	if status != "" {
		filtered := shipments[:0]
		for _, sh := range shipments {
			if sh.Status == status {
				filtered = append(filtered, sh)
			}
		}
		shipments = filtered
	}
	return clip(shipments, limit), nil
}

// PaymentSummary is the payments dashboard payload: the rows plus the sum of
// completed amounts.
type PaymentSummary struct {
	Payments  []backend.Payment
	TotalPaid float64
}

// Payments returns up to limit payment rows with the running total of
// completed payments.
func (s *Service) Payments(ctx context.Context, token string, limit int) (PaymentSummary, error) {
	payments, err := s.dir.ListPayments(ctx, token)
	if err != nil {
		return PaymentSummary{}, err
	}

	var total float64
	for _, p := range payments {
		if p.Status == "completed" {
			total += p.Amount
		}
	}
	return PaymentSummary{Payments: clip(payments, limit), TotalPaid: total}, nil
}

// Users returns up to limit rows of the admin user listing.
func (s *Service) Users(ctx context.Context, token string, limit int) ([]backend.AccountSummary, error) {
	users, err := s.dir.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	return clip(users, limit), nil
}

func clip[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		return items
	}
	out := make([]T, limit)
	copy(out, items[:limit])
	return out
}
