package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparsego/sparkit"
)

func TestNewValidation(t *testing.T) {
	// A valid 2x3 matrix.
	m, err := New(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, m.NNZ())

	cases := []struct {
		name   string
		rowPtr []int
		colInd []int
		values []float64
	}{
		{"short row pointer", []int{0, 2}, []int{0, 2}, []float64{1, 2}},
		{"nonzero start", []int{1, 2, 3}, []int{0, 2}, []float64{1, 2}},
		{"non-monotone", []int{0, 2, 1}, []int{0, 2}, []float64{1, 2}},
		{"nnz mismatch", []int{0, 2, 3}, []int{0, 2}, []float64{1, 2}},
		{"column out of range", []int{0, 2, 3}, []int{0, 3, 1}, []float64{1, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(2, 3, tc.rowPtr, tc.colInd, tc.values)
			require.Error(t, err)
			assert.True(t, sparkit.IsInvalidArgError(err))
		})
	}
}

func TestAtAndRow(t *testing.T) {
	m, err := New(2, 2, []int{0, 1, 3}, []int{1, 0, 1}, []float64{5, 6, 7})
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.At(0, 0))
	assert.Equal(t, 5.0, m.At(0, 1))
	assert.Equal(t, 6.0, m.At(1, 0))

	cols, vals := m.Row(1)
	assert.Equal(t, []int{0, 1}, cols)
	assert.Equal(t, []float64{6, 7}, vals)
}

func TestCloneIsDeep(t *testing.T) {
	m := GenDiagonal(4, false)
	c := m.Clone()
	c.Values[0] = 42
	assert.Equal(t, 1.0, m.Values[0], "clone must not alias the original")
}

func TestDense(t *testing.T) {
	m, err := New(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 4, 0}, m.Dense())
}
