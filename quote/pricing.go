package quote

import "math"

// price derives the breakdown from the rate coefficients. Pure arithmetic;
// the distance has already been resolved by the caller.
func price(rate Rate, distanceKm float64, d Details) Result {
	distanceCost := distanceKm * rate.PerKm
	weightCost := d.WeightKg * rate.PerKg
	itemCost := float64(d.Quantity) * rate.PerItem

	return Result{
		DistanceKm:   distanceKm,
		Base:         round2(rate.Base),
		DistanceCost: round2(distanceCost),
		WeightCost:   round2(weightCost),
		ItemCost:     round2(itemCost),
		Total:        round2(rate.Base + distanceCost + weightCost + itemCost),
		ETA:          rate.ETA,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
