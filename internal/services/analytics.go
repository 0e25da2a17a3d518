package services

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	TrendBullish  = "bullish"
	TrendBearish  = "bearish"
	TrendSideways = "sideways"
	TrendNoData   = "sin datos"

	trendThresholdPct = 1.5
)

// Mean returns false for an empty sample.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// PopulationStdDev divides by n. A single sample has zero deviation.
func PopulationStdDev(values []float64) (float64, bool) {
	mean, ok := Mean(values)
	if !ok {
		return 0, false
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values))), true
}

// MinMax returns false for an empty sample.
func MinMax(values []float64) (float64, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}

// PercentChange is undefined when first is zero.
func PercentChange(first, last float64) (float64, bool) {
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// ClassifyTrend maps a variation percentage to a trend label.
func ClassifyTrend(variationPct *float64) string {
	switch {
	case variationPct == nil:
		return TrendNoData
	case *variationPct > trendThresholdPct:
		return TrendBullish
	case *variationPct < -trendThresholdPct:
		return TrendBearish
	default:
		return TrendSideways
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func decimalFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func nullDecimalPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	return floatPtr(decimalFloat(d.Decimal))
}

func nullDecimalOrZero(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return decimalFloat(d.Decimal)
}

func optionalStat(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return floatPtr(v)
}
