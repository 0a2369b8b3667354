package sparse

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/sparsego/sparkit"
)

// Matrix-market I/O and random matrix generation. These exist to feed the
// kernels; they are deliberately limited to the coordinate format the tests
// and examples need.

// ReadMatrixMarket parses a matrix in MatrixMarket coordinate format.
// Real, integer, and pattern fields are supported (pattern entries get
// value 1); symmetric matrices are expanded to general storage. Array
// format is not supported.
func ReadMatrixMarket(r io.Reader) (*CSR, error) {
	const op = "sparse.ReadMatrixMarket"
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	if !sc.Scan() {
		return nil, sparkit.NewIOError(op, "missing header", sc.Err())
	}
	header := strings.Fields(strings.ToLower(sc.Text()))
	if len(header) < 5 || header[0] != "%%matrixmarket" || header[1] != "matrix" {
		return nil, sparkit.NewIOError(op, "malformed MatrixMarket header", nil)
	}
	format, field, symmetry := header[2], header[3], header[4]
	if format != "coordinate" {
		return nil, sparkit.NewIOError(op, fmt.Sprintf("unsupported format %q", format), nil)
	}
	switch field {
	case "real", "integer", "pattern":
	default:
		return nil, sparkit.NewIOError(op, fmt.Sprintf("unsupported field %q", field), nil)
	}
	symmetric := false
	switch symmetry {
	case "general":
	case "symmetric":
		symmetric = true
	default:
		return nil, sparkit.NewIOError(op, fmt.Sprintf("unsupported symmetry %q", symmetry), nil)
	}

	// Size line, after any comment lines.
	var nrows, ncols, nnz int
	for {
		if !sc.Scan() {
			return nil, sparkit.NewIOError(op, "missing size line", sc.Err())
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if _, err := fmt.Sscan(line, &nrows, &ncols, &nnz); err != nil {
			return nil, sparkit.NewIOError(op, "malformed size line", err)
		}
		break
	}

	type entry struct {
		row, col int
		val      float64
	}
	// nnz counts file lines; symmetric expansion can append two entries per
	// line, so track the lines read separately.
	entries := make([]entry, 0, nnz)
	for read := 0; read < nnz; {
		if !sc.Scan() {
			return nil, sparkit.NewIOError(op,
				fmt.Sprintf("expected %d entries, got %d", nnz, read), sc.Err())
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		read++
		f := strings.Fields(line)
		if len(f) < 2 {
			return nil, sparkit.NewIOError(op, "malformed entry line", nil)
		}
		row, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, sparkit.NewIOError(op, "malformed row index", err)
		}
		col, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, sparkit.NewIOError(op, "malformed column index", err)
		}
		val := 1.0
		if field != "pattern" {
			if len(f) < 3 {
				return nil, sparkit.NewIOError(op, "entry missing value", nil)
			}
			val, err = strconv.ParseFloat(f[2], 64)
			if err != nil {
				return nil, sparkit.NewIOError(op, "malformed value", err)
			}
		}
		// MatrixMarket indices are 1-based.
		row, col = row-1, col-1
		if row < 0 || row >= nrows || col < 0 || col >= ncols {
			return nil, sparkit.NewIOError(op,
				fmt.Sprintf("entry (%d,%d) out of range", row+1, col+1), nil)
		}
		entries = append(entries, entry{row, col, val})
		if symmetric && row != col {
			entries = append(entries, entry{col, row, val})
		}
	}

	rowPtr := make([]int, nrows+1)
	for _, e := range entries {
		rowPtr[e.row+1]++
	}
	for i := 0; i < nrows; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	colInd := make([]int, len(entries))
	values := make([]float64, len(entries))
	next := make([]int, nrows)
	copy(next, rowPtr[:nrows])
	for _, e := range entries {
		colInd[next[e.row]] = e.col
		values[next[e.row]] = e.val
		next[e.row]++
	}
	for i := 0; i < nrows; i++ {
		lo, hi := rowPtr[i], rowPtr[i+1]
		sort.Sort(&rowSorter{colInd[lo:hi], values[lo:hi]})
	}

	return New(nrows, ncols, rowPtr, colInd, values)
}

// WriteMatrixMarket writes a in MatrixMarket coordinate real general
// format.
func WriteMatrixMarket(w io.Writer, a *CSR) error {
	const op = "sparse.WriteMatrixMarket"
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate real general\n%d %d %d\n",
		a.NumRows, a.NumCols, a.NNZ()); err != nil {
		return sparkit.NewIOError(op, "write failed", err)
	}
	for i := 0; i < a.NumRows; i++ {
		for p := a.RowPtr[i]; p < a.RowPtr[i+1]; p++ {
			if _, err := fmt.Fprintf(bw, "%d %d %.17g\n", i+1, a.ColInd[p]+1, a.Values[p]); err != nil {
				return sparkit.NewIOError(op, "write failed", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return sparkit.NewIOError(op, "write failed", err)
	}
	return nil
}

type rowSorter struct {
	cols []int
	vals []float64
}

func (s *rowSorter) Len() int           { return len(s.cols) }
func (s *rowSorter) Less(i, j int) bool { return s.cols[i] < s.cols[j] }
func (s *rowSorter) Swap(i, j int) {
	s.cols[i], s.cols[j] = s.cols[j], s.cols[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}

// GenDiagonal builds the n×n diagonal matrix with entries i+1, or their
// reciprocals when invert is set.
func GenDiagonal(n int, invert bool) *CSR {
	rowPtr := make([]int, n+1)
	colInd := make([]int, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		rowPtr[i+1] = i + 1
		colInd[i] = i
		if invert {
			values[i] = 1.0 / float64(i+1)
		} else {
			values[i] = float64(i + 1)
		}
	}
	return &CSR{NumRows: n, NumCols: n, RowPtr: rowPtr, ColInd: colInd, Values: values}
}

// GenLowerBidiagonal builds an n×n matrix with ones on the diagonal and -1
// on the first subdiagonal, the worst case for level scheduling: every row
// depends on the previous one.
func GenLowerBidiagonal(n int) *CSR {
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, 2*n)
	values := make([]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			colInd = append(colInd, i-1)
			values = append(values, -1)
		}
		colInd = append(colInd, i)
		values = append(values, 1)
		rowPtr[i+1] = len(colInd)
	}
	return &CSR{NumRows: n, NumCols: n, RowPtr: rowPtr, ColInd: colInd, Values: values}
}

// GenDiagonallyDominant builds a random n×n banded matrix whose diagonal
// strictly dominates each row, deterministic per seed. Off-diagonal columns
// fall within bandwidth of the diagonal, and the per-row count varies by up
// to rowSizeVariance around bandwidth.
func GenDiagonallyDominant(n, bandwidth, rowSizeVariance int, seed int64) *CSR {
	rng := rand.New(rand.NewSource(seed))
	rowPtr := make([]int, n+1)
	var colInd []int
	var values []float64

	for i := 0; i < n; i++ {
		lo := i - bandwidth
		if lo < 0 {
			lo = 0
		}
		hi := i + bandwidth
		if hi > n-1 {
			hi = n - 1
		}
		window := hi - lo // off-diagonal candidates

		want := bandwidth
		if rowSizeVariance > 0 {
			want += rng.Intn(2*rowSizeVariance+1) - rowSizeVariance
		}
		if want > window {
			want = window
		}
		if want < 0 {
			want = 0
		}

		cols := map[int]float64{}
		for len(cols) < want {
			c := lo + rng.Intn(hi-lo+1)
			if c == i {
				continue
			}
			if _, ok := cols[c]; !ok {
				cols[c] = 2*rng.Float64() - 1
			}
		}

		sorted := make([]int, 0, len(cols)+1)
		for c := range cols {
			sorted = append(sorted, c)
		}
		sorted = append(sorted, i)
		sort.Ints(sorted)

		// Summed in column order so the diagonal is reproducible per seed.
		var offSum float64
		for _, c := range sorted {
			if c == i {
				continue
			}
			if v := cols[c]; v < 0 {
				offSum -= v
			} else {
				offSum += v
			}
		}
		diag := 10*offSum + 1

		for _, c := range sorted {
			colInd = append(colInd, c)
			if c == i {
				values = append(values, diag)
			} else {
				values = append(values, cols[c])
			}
		}
		rowPtr[i+1] = len(colInd)
	}
	return &CSR{NumRows: n, NumCols: n, RowPtr: rowPtr, ColInd: colInd, Values: values}
}
