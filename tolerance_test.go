package sparkit

import (
	"math"
	"testing"
)

func TestNearEqual(t *testing.T) {
	tol := DefaultTolerance()

	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"exact", 1.5, 1.5, true},
		{"within abs", 1e-13, -1e-13, true},
		{"within rel", 1e6, 1e6 * (1 + 1e-11), true},
		{"outside rel", 1.0, 1.0001, false},
		{"both NaN", math.NaN(), math.NaN(), true},
		{"NaN vs value", math.NaN(), 1.0, false},
		{"same Inf", math.Inf(1), math.Inf(1), true},
		{"opposite Inf", math.Inf(1), math.Inf(-1), false},
		{"Inf vs value", math.Inf(1), 1e300, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tol.NearEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("NearEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSlicesNearEqual(t *testing.T) {
	tol := DefaultTolerance()

	if err := tol.SlicesNearEqual([]float64{1, 2}, []float64{1, 2}); err != nil {
		t.Errorf("equal slices: %v", err)
	}
	if err := tol.SlicesNearEqual([]float64{1}, []float64{1, 2}); err == nil {
		t.Errorf("length mismatch not reported")
	}
	if err := tol.SlicesNearEqual([]float64{1, 2}, []float64{1, 3}); err == nil {
		t.Errorf("value mismatch not reported")
	}
}

func TestWorkView(t *testing.T) {
	v := NewWorkView(3, 5, -1)
	if v.Rows() != 3 || v.Cols() != 5 {
		t.Fatalf("dims = %dx%d, want 3x5", v.Rows(), v.Cols())
	}
	for i := 0; i < 3; i++ {
		for _, slot := range v.Row(i) {
			if slot != -1 {
				t.Fatalf("sentinel not applied")
			}
		}
	}

	// Rows alias the backing store and stay disjoint.
	v.Row(1)[2] = 42
	if v.Row(1)[2] != 42 {
		t.Errorf("write through Row not visible")
	}
	if v.Row(0)[2] != -1 || v.Row(2)[2] != -1 {
		t.Errorf("rows are not disjoint")
	}

	v.Fill(-1)
	if v.Row(1)[2] != -1 {
		t.Errorf("Fill did not reset")
	}
}
