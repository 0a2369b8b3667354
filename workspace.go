package sparkit

// WorkView is a dense two-dimensional scratch view backed by one contiguous
// slice. Kernels use one row per concurrent work unit, typically as a map
// from column index to a position in some sparse structure, with -1 marking
// an unused slot.
type WorkView struct {
	data []int32
	rows int
	cols int
}

// NewWorkView allocates a rows×cols view with every slot set to sentinel.
func NewWorkView(rows, cols int, sentinel int32) *WorkView {
	v := &WorkView{
		data: make([]int32, rows*cols),
		rows: rows,
		cols: cols,
	}
	if sentinel != 0 {
		v.Fill(sentinel)
	}
	return v
}

// Rows returns the number of rows in the view.
func (v *WorkView) Rows() int { return v.rows }

// Cols returns the number of columns in the view.
func (v *WorkView) Cols() int { return v.cols }

// Row returns row i as a slice aliasing the backing store.
func (v *WorkView) Row(i int) []int32 {
	return v.data[i*v.cols : (i+1)*v.cols]
}

// Fill sets every slot in the view to val.
func (v *WorkView) Fill(val int32) {
	for i := range v.data {
		v.data[i] = val
	}
}
