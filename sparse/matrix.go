package sparse

import (
	"fmt"

	"github.com/sparsego/sparkit"
)

// CSR is a square or rectangular sparse matrix in compressed-row form.
// RowPtr has NumRows+1 entries; the column indices and values of row i live
// at positions [RowPtr[i], RowPtr[i+1]). Kernels in this package consume a
// CSR without taking ownership; column indices within a row are expected in
// ascending order.
type CSR struct {
	NumRows int
	NumCols int
	RowPtr  []int
	ColInd  []int
	Values  []float64
}

// New validates the given compressed-row structure and wraps it in a CSR.
// The slices are aliased, not copied.
func New(numRows, numCols int, rowPtr, colInd []int, values []float64) (*CSR, error) {
	const op = "sparse.New"
	if numRows < 0 || numCols < 0 {
		return nil, sparkit.NewInvalidArgError(op, "negative dimension")
	}
	if len(rowPtr) != numRows+1 {
		return nil, sparkit.NewInvalidArgError(op,
			fmt.Sprintf("row pointer length %d, want %d", len(rowPtr), numRows+1))
	}
	if rowPtr[0] != 0 {
		return nil, sparkit.NewInvalidArgError(op, "row pointer must start at 0")
	}
	for i := 0; i < numRows; i++ {
		if rowPtr[i+1] < rowPtr[i] {
			return nil, sparkit.NewInvalidArgError(op,
				fmt.Sprintf("row pointer not monotone at row %d", i))
		}
	}
	nnz := rowPtr[numRows]
	if len(colInd) != nnz || len(values) != nnz {
		return nil, sparkit.NewInvalidArgError(op,
			fmt.Sprintf("nnz mismatch: row pointer says %d, have %d indices and %d values",
				nnz, len(colInd), len(values)))
	}
	for _, c := range colInd {
		if c < 0 || c >= numCols {
			return nil, sparkit.NewInvalidArgError(op,
				fmt.Sprintf("column index %d out of range [0,%d)", c, numCols))
		}
	}
	return &CSR{
		NumRows: numRows,
		NumCols: numCols,
		RowPtr:  rowPtr,
		ColInd:  colInd,
		Values:  values,
	}, nil
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int {
	return m.RowPtr[m.NumRows]
}

// At returns the entry at (i, j), zero when (i, j) is not stored.
func (m *CSR) At(i, j int) float64 {
	for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
		if m.ColInd[p] == j {
			return m.Values[p]
		}
	}
	return 0
}

// Row returns the column indices and values of row i, aliasing the backing
// store.
func (m *CSR) Row(i int) (cols []int, vals []float64) {
	return m.ColInd[m.RowPtr[i]:m.RowPtr[i+1]], m.Values[m.RowPtr[i]:m.RowPtr[i+1]]
}

// Clone returns a deep copy.
func (m *CSR) Clone() *CSR {
	c := &CSR{
		NumRows: m.NumRows,
		NumCols: m.NumCols,
		RowPtr:  make([]int, len(m.RowPtr)),
		ColInd:  make([]int, len(m.ColInd)),
		Values:  make([]float64, len(m.Values)),
	}
	copy(c.RowPtr, m.RowPtr)
	copy(c.ColInd, m.ColInd)
	copy(c.Values, m.Values)
	return c
}

// Dense expands the matrix into a row-major dense slice, mostly useful for
// small matrices in tests and debugging.
func (m *CSR) Dense() []float64 {
	d := make([]float64, m.NumRows*m.NumCols)
	for i := 0; i < m.NumRows; i++ {
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			d[i*m.NumCols+m.ColInd[p]] = m.Values[p]
		}
	}
	return d
}
