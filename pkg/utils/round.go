package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v to the given number of decimal places.
// The shortest decimal representation of v is rounded, so values like
// 1.00005 round up even if their binary value is slightly below.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FloorMod returns the floored modulo (result has the sign of m).
func FloorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}
