package sparse

import (
	"fmt"

	"github.com/sparsego/sparkit"
)

// SpMV computes y = alpha*A*x + beta*y with one work unit per matrix row.
// Rows carry no mutual dependency, so the launch is a flat range-parallel
// dispatch.
func SpMV(alpha float64, a *CSR, x []float64, beta float64, y []float64) error {
	const op = "sparse.SpMV"
	if len(x) != a.NumCols {
		return sparkit.NewInvalidArgError(op,
			fmt.Sprintf("x length %d, want %d", len(x), a.NumCols))
	}
	if len(y) != a.NumRows {
		return sparkit.NewInvalidArgError(op,
			fmt.Sprintf("y length %d, want %d", len(y), a.NumRows))
	}

	sparkit.ParallelFor(sparkit.NewRangePolicy(0, a.NumRows), func(i int) {
		sum := 0.0
		for p := a.RowPtr[i]; p < a.RowPtr[i+1]; p++ {
			sum += a.Values[p] * x[a.ColInd[p]]
		}
		if beta == 0 {
			y[i] = alpha * sum
		} else {
			y[i] = alpha*sum + beta*y[i]
		}
	})
	return nil
}
