package sparse

import (
	"fmt"

	"github.com/sparsego/sparkit"
)

// Level-scheduled sparse triangular solves. The schedule here is the
// pattern-only analogue of the ILU(k) one: a row's level is one past the
// deepest row it reads, no fill enters the picture because a solve creates
// none.

// LowerTriSolve solves L*x = b by forward substitution, rows within a
// dependency level in parallel. When unitDiag is set the diagonal is taken
// as one whether or not it is stored.
func LowerTriSolve(l *CSR, b, x []float64, unitDiag bool) error {
	const op = "sparse.LowerTriSolve"
	if err := checkTriArgs(op, l, b, x); err != nil {
		return err
	}
	rows, ptr, nlev := triLevels(l, true)
	for lev := 0; lev < nlev; lev++ {
		sparkit.ParallelFor(sparkit.NewRangePolicy(int(ptr[lev]), int(ptr[lev+1])), func(p int) {
			i := int(rows[p])
			sum := 0.0
			diag := 0.0
			for q := l.RowPtr[i]; q < l.RowPtr[i+1]; q++ {
				c := l.ColInd[q]
				switch {
				case c < i:
					sum += l.Values[q] * x[c]
				case c == i:
					diag = l.Values[q]
				}
			}
			if unitDiag {
				x[i] = b[i] - sum
			} else {
				x[i] = (b[i] - sum) / diag
			}
		})
	}
	return nil
}

// UpperTriSolve solves U*x = b by backward substitution, rows within a
// dependency level in parallel. A zero diagonal is not guarded; it shows up
// as Inf/NaN in x.
func UpperTriSolve(u *CSR, b, x []float64) error {
	const op = "sparse.UpperTriSolve"
	if err := checkTriArgs(op, u, b, x); err != nil {
		return err
	}
	rows, ptr, nlev := triLevels(u, false)
	for lev := 0; lev < nlev; lev++ {
		sparkit.ParallelFor(sparkit.NewRangePolicy(int(ptr[lev]), int(ptr[lev+1])), func(p int) {
			i := int(rows[p])
			sum := 0.0
			diag := 0.0
			for q := u.RowPtr[i]; q < u.RowPtr[i+1]; q++ {
				c := u.ColInd[q]
				switch {
				case c > i:
					sum += u.Values[q] * x[c]
				case c == i:
					diag = u.Values[q]
				}
			}
			x[i] = (b[i] - sum) / diag
		})
	}
	return nil
}

// ApplyILU applies the ILU preconditioner given factors from the numeric
// phase: it solves L*y = b then U*x = y. scratch must hold NumRows
// elements; pass nil to allocate.
func ApplyILU(l, u *CSR, b, x, scratch []float64) error {
	if scratch == nil {
		scratch = make([]float64, l.NumRows)
	}
	if err := LowerTriSolve(l, b, scratch, true); err != nil {
		return err
	}
	return UpperTriSolve(u, scratch, x)
}

func checkTriArgs(op string, m *CSR, b, x []float64) error {
	if m.NumRows != m.NumCols {
		return sparkit.NewInvalidArgError(op, "matrix must be square")
	}
	if len(b) != m.NumRows || len(x) != m.NumRows {
		return sparkit.NewInvalidArgError(op,
			fmt.Sprintf("vector lengths %d/%d, want %d", len(b), len(x), m.NumRows))
	}
	return nil
}

// triLevels computes the dependency levels of a triangular matrix and the
// rows grouped by level. For the lower triangle rows are walked forward and
// depend on smaller indices; for the upper triangle, backward on larger.
func triLevels(m *CSR, lower bool) (rows, ptr []int32, nlev int) {
	n := m.NumRows
	level := make([]int32, n)
	maxLevel := int32(-1)

	assign := func(i int) {
		lv := int32(0)
		for q := m.RowPtr[i]; q < m.RowPtr[i+1]; q++ {
			c := m.ColInd[q]
			if (lower && c < i) || (!lower && c > i) {
				if dep := level[c] + 1; dep > lv {
					lv = dep
				}
			}
		}
		level[i] = lv
		if lv > maxLevel {
			maxLevel = lv
		}
	}
	if lower {
		for i := 0; i < n; i++ {
			assign(i)
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			assign(i)
		}
	}

	nlev = int(maxLevel) + 1
	ptr = make([]int32, nlev+1)
	for _, lv := range level {
		ptr[lv+1]++
	}
	for lv := 0; lv < nlev; lv++ {
		ptr[lv+1] += ptr[lv]
	}
	rows = make([]int32, n)
	next := make([]int32, nlev)
	copy(next, ptr[:nlev])
	for i, lv := range level {
		rows[next[lv]] = int32(i)
		next[lv]++
	}
	return rows, ptr, nlev
}
