// Package sparkit tolerance-based verification for floating-point comparisons
package sparkit

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if Inf values should be considered equal
	CheckInf bool
}

// DefaultTolerance returns default tolerance configuration
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-12,
		RelTol:   1e-10,
		CheckNaN: true,
		CheckInf: true,
	}
}

// RelaxedTolerance returns relaxed tolerance for accumulated operations
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-9,
		RelTol:   1e-7,
		CheckNaN: true,
		CheckInf: true,
	}
}

// NearEqual checks if two float64 values are equal within tolerance
func (tc ToleranceConfig) NearEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return tc.CheckNaN && math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return tc.CheckInf && a == b
	}

	diff := math.Abs(a - b)
	if diff <= tc.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= larger*tc.RelTol
}

// SlicesNearEqual checks two slices element-wise within tolerance and
// reports the first mismatch.
func (tc ToleranceConfig) SlicesNearEqual(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !tc.NearEqual(a[i], b[i]) {
			return fmt.Errorf("mismatch at index %d: %v vs %v", i, a[i], b[i])
		}
	}
	return nil
}
