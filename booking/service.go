// Package booking validates the booking form and submits it to the backend
// with a client-generated tracking identifier.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"cargoflow/backend"
	"cargoflow/forms"
	"cargoflow/logger"
)

// Submitter is the backend call this service depends on.
type Submitter interface {
	SubmitBooking(ctx context.Context, token string, req backend.BookingRequest) (backend.BookingReceipt, error)
}

// Service turns a validated form into a booking submission.
type Service struct {
	api      Submitter
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

// NewService builds a booking service over the backend client.
func NewService(api Submitter, log *logger.Logger) *Service {
	return &Service{
		api:      api,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Submit validates the form, attaches a fresh tracking id, and sends the
// booking. Validation failures return forms.Errors and never reach the
// network.
func (s *Service) Submit(ctx context.Context, token string, form Form) (backend.BookingReceipt, error) {
	if err := s.validate.Struct(form); err != nil {
		if fieldErrs := forms.Describe(err); fieldErrs != nil {
			return backend.BookingReceipt{}, fieldErrs
		}
		return backend.BookingReceipt{}, fmt.Errorf("booking: validate form: %w", err)
	}

	req := backend.BookingRequest{
		TrackingID:      NewTrackingID(s.now()),
		ShipmentType:    form.ShipmentType,
		SenderName:      form.SenderName,
		SenderPhone:     form.SenderPhone,
		RecipientName:   form.RecipientName,
		RecipientPhone:  form.RecipientPhone,
		PickupAddress:   form.PickupAddress,
		DeliveryAddress: form.DeliveryAddress,
		ItemDescription: form.ItemDescription,
		Quantity:        form.Quantity,
		WeightKg:        form.WeightKg,
	}

	receipt, err := s.api.SubmitBooking(ctx, token, req)
	if err != nil {
		return backend.BookingReceipt{}, err
	}

	s.log.Info("booking submitted", "trackingId", receipt.TrackingID)
	return receipt, nil
}
