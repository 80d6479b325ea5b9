// Package quote implements the three-step quote wizard: pick a shipment
// type, enter shipment parameters, and read the derived price breakdown.
package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"cargoflow/forms"
)

var (
	// ErrTypeRequired signals step 1 was submitted without a selection.
	ErrTypeRequired = errors.New("quote: select a shipment type")
	// ErrTypeDisabled signals a shipment type with no rate table entry.
	ErrTypeDisabled = errors.New("quote: shipment type not yet available")
	// ErrWrongStep signals a transition the current step does not offer.
	ErrWrongStep = errors.New("quote: not available at this step")
	// ErrCalculationPending signals a resubmit while a lookup is still
	// outstanding; the triggering control should have been disabled.
	ErrCalculationPending = errors.New("quote: calculation already in progress")
	// ErrDistanceUnavailable is the single user-facing failure for any
	// distance lookup problem. The wizard stays on step 2; resubmitting
	// is the only retry.
	ErrDistanceUnavailable = errors.New("quote: could not calculate distance")
)

// DistanceLookup resolves an ordered origin/destination pair to kilometers.
type DistanceLookup interface {
	Between(ctx context.Context, origin, destination string) (float64, error)
}

// Wizard holds one quote session. It only moves forward when the current
// step's guard passes, and it serialises its own outstanding lookup.
type Wizard struct {
	lookup   DistanceLookup
	rates    map[ShipmentType]Rate
	validate *validator.Validate

	mu     sync.Mutex
	step   Step
	req    Request
	result *Result
	busy   bool
	// gen changes on reset so a lookup resolving afterwards cannot write
	// a result into the fresh session.
	gen int
}

// NewWizard starts a wizard at step 1 with the given rate table.
func NewWizard(lookup DistanceLookup, rates map[ShipmentType]Rate) *Wizard {
	return &Wizard{
		lookup:   lookup,
		rates:    rates,
		validate: validator.New(),
		step:     StepType,
		req:      Request{Details: Details{Quantity: 1}},
	}
}

// Step returns the current wizard position.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Request returns a copy of the accumulated state.
func (w *Wizard) Request() Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.req
}

// Result returns the computed breakdown, nil before step 3.
func (w *Wizard) Result() *Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return nil
	}
	r := *w.result
	return &r
}

// SelectType records the shipment type and advances to step 2. Without a
// valid selection the wizard stays put.
func (w *Wizard) SelectType(t ShipmentType) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepType {
		return ErrWrongStep
	}
	if t == "" {
		return ErrTypeRequired
	}
	if _, ok := w.rates[t]; !ok {
		return fmt.Errorf("%w: %q", ErrTypeDisabled, t)
	}

	w.req.ShipmentType = t
	w.step = StepDetails
	return nil
}

// Back returns from step 2 to step 1, keeping entered values.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepDetails {
		return ErrWrongStep
	}
	w.step = StepType
	return nil
}

// Reset clears the session from any step and discards any result.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.step = StepType
	w.req = Request{Details: Details{Quantity: 1}}
	w.result = nil
	w.gen++
}

// SubmitDetails validates step 2, resolves the distance, and computes the
// breakdown. On a validation failure it returns forms.Errors with one message
// per invalid field; on a lookup failure it returns ErrDistanceUnavailable.
// The step advances to StepResult only when the calculation succeeds.
func (w *Wizard) SubmitDetails(ctx context.Context, d Details) (*Result, error) {
	w.mu.Lock()
	if w.step != StepDetails {
		w.mu.Unlock()
		return nil, ErrWrongStep
	}
	if w.busy {
		w.mu.Unlock()
		return nil, ErrCalculationPending
	}

	if err := w.validate.Struct(d); err != nil {
		w.mu.Unlock()
		if fieldErrs := forms.Describe(err); fieldErrs != nil {
			return nil, fieldErrs
		}
		return nil, fmt.Errorf("quote: validate details: %w", err)
	}

	rate, ok := w.rates[w.req.ShipmentType]
	if !ok {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrTypeDisabled, w.req.ShipmentType)
	}

	w.req.Details = d
	w.busy = true
	gen := w.gen
	w.mu.Unlock()

	km, err := w.lookup.Between(ctx, d.Origin, d.Destination)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false

	if w.gen != gen {
		// The session was reset while the lookup was in flight; its
		// outcome belongs to a discarded quote.
		return nil, ErrWrongStep
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}

	result := price(rate, km, d)
	w.result = &result
	w.step = StepResult

	r := result
	return &r, nil
}
