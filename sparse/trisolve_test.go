package sparse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparsego/sparkit"
)

func lowerFromDense(t *testing.T, n int, dense []float64) *CSR {
	t.Helper()
	rowPtr := make([]int, n+1)
	var cols []int
	var vals []float64
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if dense[i*n+j] != 0 {
				cols = append(cols, j)
				vals = append(vals, dense[i*n+j])
			}
		}
		rowPtr[i+1] = len(cols)
	}
	m, err := New(n, n, rowPtr, cols, vals)
	require.NoError(t, err)
	return m
}

func TestLowerTriSolve(t *testing.T) {
	// 3x3 lower system solved by hand.
	l := lowerFromDense(t, 3, []float64{
		2, 0, 0,
		1, 4, 0,
		3, 2, 5,
	})
	b := []float64{4, 10, 31}
	x := make([]float64, 3)
	require.NoError(t, LowerTriSolve(l, b, x, false))

	want := []float64{2, 2, 4.2}
	require.NoError(t, sparkit.DefaultTolerance().SlicesNearEqual(x, want))
}

func TestLowerTriSolveUnitDiag(t *testing.T) {
	// Unit solves ignore the stored diagonal entirely.
	l := lowerFromDense(t, 2, []float64{
		7, 0,
		3, 9,
	})
	b := []float64{1, 5}
	x := make([]float64, 2)
	require.NoError(t, LowerTriSolve(l, b, x, true))
	require.NoError(t, sparkit.DefaultTolerance().SlicesNearEqual(x, []float64{1, 2}))
}

func TestUpperTriSolve(t *testing.T) {
	n := 3
	rowPtr := []int{0, 3, 5, 6}
	cols := []int{0, 1, 2, 1, 2, 2}
	vals := []float64{2, 1, 1, 3, 1, 4}
	u, err := New(n, n, rowPtr, cols, vals)
	require.NoError(t, err)

	// Built from x = (1, 2, 3): b = U*x.
	x := make([]float64, n)
	b := []float64{7, 9, 12}
	require.NoError(t, UpperTriSolve(u, b, x))
	require.NoError(t, sparkit.DefaultTolerance().SlicesNearEqual(x, []float64{1, 2, 3}))
}

func TestTriSolveRoundTripAgainstSpMV(t *testing.T) {
	// Solve then multiply back: L*x == b and U*x == b.
	a := GenDiagonallyDominant(120, 6, 3, 7)
	n := a.NumRows
	_, l, u := factorize(t, a, 1, LevelSchedRangePolicy)

	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i%11) - 5
	}

	x := make([]float64, n)
	y := make([]float64, n)
	tol := sparkit.RelaxedTolerance()

	require.NoError(t, LowerTriSolve(l, b, x, true))
	require.NoError(t, SpMV(1, l, x, 0, y))
	require.NoError(t, tol.SlicesNearEqual(y, b), "L*solve(L,b) != b")

	require.NoError(t, UpperTriSolve(u, b, x))
	require.NoError(t, SpMV(1, u, x, 0, y))
	require.NoError(t, tol.SlicesNearEqual(y, b), "U*solve(U,b) != b")
}

func TestTriLevelsBidiagonalIsSequential(t *testing.T) {
	a := GenLowerBidiagonal(25)
	rows, ptr, nlev := triLevels(a, true)
	require.Equal(t, 25, nlev)
	for lv := 0; lv < nlev; lv++ {
		require.Equal(t, int32(1), ptr[lv+1]-ptr[lv])
		assert.Equal(t, int32(lv), rows[ptr[lv]])
	}
}

func TestUpperTriSolveZeroDiagPropagates(t *testing.T) {
	u, err := New(2, 2, []int{0, 2, 3}, []int{0, 1, 1}, []float64{1, 1, 0})
	require.NoError(t, err)
	x := make([]float64, 2)
	require.NoError(t, UpperTriSolve(u, []float64{1, 1}, x))
	assert.True(t, math.IsInf(x[1], 0) || math.IsNaN(x[1]),
		"zero diagonal must surface as Inf/NaN, got %v", x[1])
}

func TestTriSolveArgChecks(t *testing.T) {
	l := GenDiagonal(4, false)
	err := LowerTriSolve(l, make([]float64, 3), make([]float64, 4), false)
	require.Error(t, err)
	assert.True(t, sparkit.IsInvalidArgError(err))
}
