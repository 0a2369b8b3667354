package sparkit

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/blas/blas64"
)

func randomVector(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = 2*rng.Float64() - 1
	}
	return x
}

func asBlasVector(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Data: x, Inc: 1}
}

func TestDotMatchesReference(t *testing.T) {
	tol := RelaxedTolerance()
	for _, n := range []int{1, 17, 255, 256, 10000} {
		x := randomVector(n, 1)
		y := randomVector(n, 2)
		got := Dot(x, y)
		want := blas64.Dot(asBlasVector(x), asBlasVector(y))
		if !tol.NearEqual(got, want) {
			t.Errorf("n=%d: Dot = %v, reference %v", n, got, want)
		}
	}
}

func TestNrm2MatchesReference(t *testing.T) {
	tol := RelaxedTolerance()
	for _, n := range []int{1, 100, 10000} {
		x := randomVector(n, 3)
		got := Nrm2(x)
		want := blas64.Nrm2(asBlasVector(x))
		if !tol.NearEqual(got, want) {
			t.Errorf("n=%d: Nrm2 = %v, reference %v", n, got, want)
		}
	}
}

func TestAsumMatchesReference(t *testing.T) {
	tol := RelaxedTolerance()
	x := randomVector(5000, 4)
	got := Asum(x)
	want := blas64.Asum(asBlasVector(x))
	if !tol.NearEqual(got, want) {
		t.Errorf("Asum = %v, reference %v", got, want)
	}
}

func TestIamax(t *testing.T) {
	x := randomVector(5000, 5)
	x[1234] = 7 // dominates the [-1,1) noise
	if got := Iamax(x); got != 1234 {
		t.Errorf("Iamax = %d, want 1234", got)
	}

	// Ties break toward the lowest index.
	y := []float64{1, -3, 3, 0}
	if got := Iamax(y); got != 1 {
		t.Errorf("Iamax tie = %d, want 1", got)
	}

	if got := Iamax(nil); got != -1 {
		t.Errorf("Iamax(nil) = %d, want -1", got)
	}

	z := []float64{0.5, math.NaN(), 2}
	if got := Iamax(z); got != 2 {
		t.Errorf("Iamax with NaN = %d, want 2", got)
	}

	// Every element ignored leaves no candidate.
	allNaN := []float64{math.NaN(), math.NaN()}
	if got := Iamax(allNaN); got != -1 {
		t.Errorf("Iamax(all NaN) = %d, want -1", got)
	}
}

func TestSum(t *testing.T) {
	x := make([]float64, 1000)
	for i := range x {
		x[i] = 1
	}
	if got := Sum(x); got != 1000 {
		t.Errorf("Sum = %v, want 1000", got)
	}
}

func TestAxpy(t *testing.T) {
	tol := DefaultTolerance()
	x := randomVector(3000, 6)
	y := randomVector(3000, 7)
	want := make([]float64, len(y))
	for i := range y {
		want[i] = y[i] + 2.5*x[i]
	}
	Axpy(2.5, x, y)
	if err := tol.SlicesNearEqual(y, want); err != nil {
		t.Errorf("Axpy: %v", err)
	}

	// alpha == 0 must leave y untouched.
	before := append([]float64(nil), y...)
	Axpy(0, x, y)
	if err := tol.SlicesNearEqual(y, before); err != nil {
		t.Errorf("Axpy(0): %v", err)
	}
}

func TestScal(t *testing.T) {
	x := randomVector(3000, 8)
	want := make([]float64, len(x))
	for i := range x {
		want[i] = -0.5 * x[i]
	}
	Scal(-0.5, x)
	if err := DefaultTolerance().SlicesNearEqual(x, want); err != nil {
		t.Errorf("Scal: %v", err)
	}
}

func TestLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Dot with mismatched lengths did not panic")
		}
	}()
	Dot(make([]float64, 3), make([]float64, 4))
}
