package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/sparsego/sparkit"
)

func TestSpMVMatchesDenseReference(t *testing.T) {
	a := GenDiagonallyDominant(130, 9, 4, 3)
	n := a.NumRows

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i%13) - 6
	}
	y := make([]float64, n)
	require.NoError(t, SpMV(1, a, x, 0, y))

	var want mat.VecDense
	want.MulVec(mat.NewDense(n, n, a.Dense()), mat.NewVecDense(n, x))

	tol := sparkit.RelaxedTolerance()
	for i := 0; i < n; i++ {
		require.True(t, tol.NearEqual(y[i], want.AtVec(i)),
			"row %d: %v vs %v", i, y[i], want.AtVec(i))
	}
}

func TestSpMVAlphaBeta(t *testing.T) {
	a := GenDiagonal(5, false) // diag(1..5)
	x := []float64{1, 1, 1, 1, 1}
	y := []float64{10, 10, 10, 10, 10}

	require.NoError(t, SpMV(2, a, x, 3, y))
	want := []float64{32, 34, 36, 38, 40}
	require.NoError(t, sparkit.DefaultTolerance().SlicesNearEqual(y, want))
}

func TestSpMVBetaZeroOverwrites(t *testing.T) {
	a := GenDiagonal(3, false)
	x := []float64{1, 2, 3}
	y := []float64{999, 999, 999}
	require.NoError(t, SpMV(1, a, x, 0, y))
	require.NoError(t, sparkit.DefaultTolerance().SlicesNearEqual(y, []float64{1, 4, 9}))
}

func TestSpMVShapeChecks(t *testing.T) {
	a := GenDiagonal(4, false)
	err := SpMV(1, a, make([]float64, 3), 0, make([]float64, 4))
	require.Error(t, err)
	assert.True(t, sparkit.IsInvalidArgError(err))

	err = SpMV(1, a, make([]float64, 4), 0, make([]float64, 5))
	require.Error(t, err)
	assert.True(t, sparkit.IsInvalidArgError(err))
}
