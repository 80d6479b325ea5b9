package quote

// ShipmentType selects the rate table entry and ETA text for a quote.
type ShipmentType string

const (
	// TypeInterstate is the only shipment type currently offered.
	TypeInterstate ShipmentType = "interstate"
)

// Step is the wizard position. Steps are strictly sequential; the only
// backward transitions are StepDetails -> StepType and reset.
type Step int

const (
	StepType Step = iota + 1
	StepDetails
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepType:
		return "type"
	case StepDetails:
		return "details"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// Details are the step-2 shipment parameters. Step 2 cannot be left forward
// until all of them validate.
type Details struct {
	Origin      string  `json:"originLocation" validate:"required"`
	Destination string  `json:"destinationLocation" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	WeightKg    float64 `json:"weightKg" validate:"gte=0"`
}

// Request is the accumulated wizard state for one quote session.
type Request struct {
	ShipmentType ShipmentType `json:"shipmentType"`
	Details      Details      `json:"details"`
}

// Rate holds the four pricing coefficients and the ETA text for a shipment
// type. Amounts are in the local currency.
type Rate struct {
	Base    float64
	PerKm   float64
	PerKg   float64
	PerItem float64
	ETA     string
}

// Result is the derived price breakdown. Immutable once computed; discarded
// on reset.
type Result struct {
	DistanceKm   float64 `json:"distanceKm"`
	Base         float64 `json:"base"`
	DistanceCost float64 `json:"distanceCost"`
	WeightCost   float64 `json:"weightCost"`
	ItemCost     float64 `json:"itemCost"`
	Total        float64 `json:"total"`
	ETA          string  `json:"eta"`
}

// DefaultRates is the live rate table.
func DefaultRates() map[ShipmentType]Rate {
	return map[ShipmentType]Rate{
		TypeInterstate: {
			Base:    5000,
			PerKm:   2,
			PerKg:   100,
			PerItem: 150,
			ETA:     "3-5 business days",
		},
	}
}
