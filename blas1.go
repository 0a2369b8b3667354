package sparkit

import (
	"math"
)

// BLAS level-1 kernels over float64 slices. Reductions dispatch through
// ParallelReduce above the serial cutoff; updates go through ParallelFor.
// Vector arguments of mismatched length panic, matching BLAS reference
// implementations.

// Dot computes the inner product x'*y.
func Dot(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("sparkit: vector length mismatch")
	}
	return ParallelReduce(len(x), 0,
		func(i int) float64 { return x[i] * y[i] },
		func(a, b float64) float64 { return a + b })
}

// Sum computes the sum of the elements of x.
func Sum(x []float64) float64 {
	return ParallelReduce(len(x), 0,
		func(i int) float64 { return x[i] },
		func(a, b float64) float64 { return a + b })
}

// Asum computes the sum of absolute values of x.
func Asum(x []float64) float64 {
	return ParallelReduce(len(x), 0,
		func(i int) float64 { return math.Abs(x[i]) },
		func(a, b float64) float64 { return a + b })
}

// Nrm2 computes the Euclidean norm of x.
func Nrm2(x []float64) float64 {
	return math.Sqrt(ParallelReduce(len(x), 0,
		func(i int) float64 { return x[i] * x[i] },
		func(a, b float64) float64 { return a + b }))
}

// Iamax returns the index of the element of x with the largest absolute
// value, breaking ties toward the lowest index. NaN elements are ignored;
// it returns -1 for an empty or all-NaN vector.
func Iamax(x []float64) int {
	// Index reductions stay serial: the lowest-index tie-break is cheaper to
	// keep correct than a joined partial-index reduction is to run.
	best := -1
	bestAbs := math.Inf(-1)
	for i, v := range x {
		a := math.Abs(v)
		if a > bestAbs {
			best = i
			bestAbs = a
		}
	}
	return best
}

// Axpy computes y += alpha*x.
func Axpy(alpha float64, x, y []float64) {
	if len(x) != len(y) {
		panic("sparkit: vector length mismatch")
	}
	if alpha == 0 {
		return
	}
	ParallelFor(NewRangePolicy(0, len(x)), func(i int) {
		y[i] += alpha * x[i]
	})
}

// Scal computes x *= alpha.
func Scal(alpha float64, x []float64) {
	ParallelFor(NewRangePolicy(0, len(x)), func(i int) {
		x[i] *= alpha
	})
}
