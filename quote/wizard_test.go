package quote

import (
	"context"
	"errors"
	"testing"

	"cargoflow/forms"
)

type fakeLookup struct {
	km      float64
	err     error
	calls   int
	entered chan struct{}
	gate    chan struct{}
}

func (f *fakeLookup) Between(_ context.Context, _, _ string) (float64, error) {
	f.calls++
	if f.entered != nil {
		close(f.entered)
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.km, nil
}

func validDetails() Details {
	return Details{Origin: "Lagos", Destination: "Abuja", Quantity: 3, WeightKg: 10}
}

func startedWizard(t *testing.T, lookup DistanceLookup) *Wizard {
	t.Helper()
	w := NewWizard(lookup, DefaultRates())
	if err := w.SelectType(TypeInterstate); err != nil {
		t.Fatalf("select type: %v", err)
	}
	return w
}

func TestSelectType_Guards(t *testing.T) {
	w := NewWizard(&fakeLookup{}, DefaultRates())

	if err := w.SelectType(""); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("expected ErrTypeRequired, got %v", err)
	}
	if err := w.SelectType(ShipmentType("international")); !errors.Is(err, ErrTypeDisabled) {
		t.Fatalf("expected ErrTypeDisabled, got %v", err)
	}
	if w.Step() != StepType {
		t.Fatalf("wizard must stay on step 1, got %s", w.Step())
	}

	if err := w.SelectType(TypeInterstate); err != nil {
		t.Fatalf("select interstate: %v", err)
	}
	if w.Step() != StepDetails {
		t.Fatalf("expected step 2, got %s", w.Step())
	}
}

func TestSubmitDetails_PricingDeterminism(t *testing.T) {
	w := startedWizard(t, &fakeLookup{km: 120})

	result, err := w.SubmitDetails(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("submit details: %v", err)
	}

	// 5000 + 120*2 + 10*100 + 3*150
	if result.Total != 6690.00 {
		t.Fatalf("expected total 6690.00, got %v", result.Total)
	}
	if result.DistanceCost != 240 || result.WeightCost != 1000 || result.ItemCost != 450 {
		t.Fatalf("unexpected breakdown: %+v", result)
	}
	if result.ETA != "3-5 business days" {
		t.Fatalf("unexpected eta %q", result.ETA)
	}
	if w.Step() != StepResult {
		t.Fatalf("expected step 3, got %s", w.Step())
	}
}

func TestSubmitDetails_RoundsToTwoDecimals(t *testing.T) {
	w := startedWizard(t, &fakeLookup{km: 0.333})

	result, err := w.SubmitDetails(context.Background(), Details{
		Origin: "Ikeja", Destination: "Yaba", Quantity: 1, WeightKg: 0.333,
	})
	if err != nil {
		t.Fatalf("submit details: %v", err)
	}
	// 5000 + 0.666 + 33.3 + 150 = 5183.966
	if result.Total != 5183.97 {
		t.Fatalf("expected total 5183.97, got %v", result.Total)
	}
}

func TestSubmitDetails_ValidationBlocksAdvance(t *testing.T) {
	lookup := &fakeLookup{km: 120}
	w := startedWizard(t, lookup)

	d := validDetails()
	d.Origin = ""
	d.Quantity = 0

	_, err := w.SubmitDetails(context.Background(), d)
	var fieldErrs forms.Errors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected per-field errors, got %v", err)
	}
	if fieldErrs["Origin"] == "" {
		t.Fatalf("expected a message for the origin field, got %v", fieldErrs)
	}
	if fieldErrs["Quantity"] == "" {
		t.Fatalf("expected a message for the quantity field, got %v", fieldErrs)
	}

	if w.Step() != StepDetails {
		t.Fatalf("wizard must stay on step 2, got %s", w.Step())
	}
	if lookup.calls != 0 {
		t.Fatal("validation failures must never reach the network layer")
	}
}

func TestSubmitDetails_LookupFailureBlocksAdvance(t *testing.T) {
	w := startedWizard(t, &fakeLookup{err: errors.New("element status NOT_FOUND")})

	_, err := w.SubmitDetails(context.Background(), validDetails())
	if !errors.Is(err, ErrDistanceUnavailable) {
		t.Fatalf("expected ErrDistanceUnavailable, got %v", err)
	}
	if w.Step() != StepDetails {
		t.Fatalf("wizard must stay on step 2 after a failed lookup, got %s", w.Step())
	}
	if w.Result() != nil {
		t.Fatal("no partial result may be produced on failure")
	}
}

func TestSubmitDetails_RetryAfterFailure(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("timeout")}
	w := startedWizard(t, lookup)

	if _, err := w.SubmitDetails(context.Background(), validDetails()); err == nil {
		t.Fatal("expected first submit to fail")
	}

	lookup.err = nil
	lookup.km = 50
	result, err := w.SubmitDetails(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if result.DistanceKm != 50 {
		t.Fatalf("expected 50 km, got %v", result.DistanceKm)
	}
}

func TestBackAndReset(t *testing.T) {
	w := startedWizard(t, &fakeLookup{km: 10})

	if err := w.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if w.Step() != StepType {
		t.Fatalf("expected step 1 after back, got %s", w.Step())
	}
	if w.Request().ShipmentType != TypeInterstate {
		t.Fatal("back must keep the entered values")
	}

	if err := w.SelectType(TypeInterstate); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if _, err := w.SubmitDetails(context.Background(), validDetails()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	w.Reset()
	if w.Step() != StepType {
		t.Fatalf("expected step 1 after reset, got %s", w.Step())
	}
	if w.Result() != nil {
		t.Fatal("reset must discard the result")
	}
	if got := w.Request(); got.ShipmentType != "" || got.Details.Quantity != 1 {
		t.Fatalf("reset must restore defaults, got %+v", got)
	}
}

func TestSubmitDetails_ResetDuringLookupDiscardsResult(t *testing.T) {
	lookup := &fakeLookup{km: 120, entered: make(chan struct{}), gate: make(chan struct{})}
	w := startedWizard(t, lookup)

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := w.SubmitDetails(context.Background(), validDetails())
		done <- outcome{r, err}
	}()

	// Wait until the lookup is outstanding, then reset the session.
	<-lookup.entered
	w.Reset()
	close(lookup.gate)

	out := <-done
	if out.err == nil {
		t.Fatal("a lookup finishing after reset must not produce a result")
	}
	if w.Step() != StepType || w.Result() != nil {
		t.Fatalf("reset state must stand: step=%s result=%v", w.Step(), w.Result())
	}
}

func TestSubmitDetails_WrongStep(t *testing.T) {
	w := NewWizard(&fakeLookup{}, DefaultRates())

	if _, err := w.SubmitDetails(context.Background(), validDetails()); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep before a type is chosen, got %v", err)
	}
}
