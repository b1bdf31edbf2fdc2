package weather

import (
	"math"

	"github.com/rickgao/totals-data/internal/model"
)

// WeightedMean returns sum(v*w)/sum(w) over non-nil values. Nil values are
// dropped from both sums. Returns nil when the total weight is zero.
func WeightedMean(values []*float64, weights []float64) *float64 {
	var sum, total float64
	for i, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		sum += *v * w
		total += w
	}
	if total == 0 {
		return nil
	}
	mean := sum / total
	return &mean
}

// CircularMean returns the weighted mean direction in degrees, in [0,360).
// Returns nil when no value is usable or the resultant vector has no length.
func CircularMean(degrees []*float64, weights []float64) *float64 {
	var sinSum, cosSum, total float64
	for i, d := range degrees {
		if d == nil || math.IsNaN(*d) {
			continue
		}
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		rad := *d * math.Pi / 180
		sinSum += w * math.Sin(rad)
		cosSum += w * math.Cos(rad)
		total += w
	}
	if total == 0 {
		return nil
	}

	s, c := sinSum/total, cosSum/total
	if math.Hypot(s, c) < 1e-9 {
		return nil
	}

	deg := normalizeDegrees(math.Atan2(s, c) * 180 / math.Pi)
	return &deg
}

// ClassifyWind labels a wind direction relative to the venue bearing.
//
//	diff = (direction - bearing) mod 360
//	Headwind   diff <= 45 or diff >= 315
//	Tailwind   135 <= diff <= 225
//	Crosswind  otherwise
func ClassifyWind(direction, bearing float64) model.WindClass {
	diff := normalizeDegrees(direction - bearing)
	switch {
	case diff <= 45 || diff >= 315:
		return model.Headwind
	case diff >= 135 && diff <= 225:
		return model.Tailwind
	default:
		return model.Crosswind
	}
}

// WindVector is the signed wind speed along the venue bearing.
func WindVector(speed, direction, bearing float64) float64 {
	diff := normalizeDegrees(direction - bearing)
	return speed * math.Cos(diff*math.Pi/180)
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
