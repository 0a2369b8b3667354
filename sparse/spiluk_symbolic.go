package sparse

import (
	"fmt"
	"sort"

	"github.com/sparsego/sparkit"
)

// EstimateFactorNNZ returns a generous preallocation size for one triangular
// factor of an ILU(k) factorization of a. The symbolic phase reports a
// sizing error if the actual fill outgrows the estimate.
func EstimateFactorNNZ(a *CSR, fillLevel int) int {
	return 4*a.NNZ()*(fillLevel+1) + a.NumRows
}

// Symbolic computes the fill pattern of the ILU(k) factors of a and the
// level schedule that the numeric phase follows. Only the sparsity
// structure of a is read; its values are ignored.
//
// Rows are walked in increasing index order. For each row the original
// nonzero pattern is seeded into a dense accumulator, then the U-patterns
// of the row's lower-triangular predecessors are merged in, tracking a fill
// level per candidate entry and discarding candidates past fillLevel. The
// row's scheduling level is one past the maximum level of its structural
// predecessors, fill included; rows with no predecessors land in level 0.
//
// On return l holds the unit-lower pattern (diagonal stored last in each
// row) and u the upper pattern (diagonal stored first), both with column
// indices ascending and values zeroed; the handle holds the level arrays,
// the per-level chunking, and the scratch workspace for the numeric phase.
// l and u must be preallocated to the handle's nnz capacities (see
// Handle.AllocFactors); outgrowing them is a fatal sizing error, it means
// the dry-run estimate and the algorithm disagree.
func Symbolic(h *Handle, fillLevel int, a, l, u *CSR) error {
	const op = "sparse.Symbolic"
	if fillLevel < 0 {
		return sparkit.NewInvalidArgError(op, "fill level must be non-negative")
	}
	if a.NumRows != a.NumCols {
		return sparkit.NewInvalidArgError(op, "matrix must be square")
	}
	n := h.NumRows()
	if a.NumRows != n {
		return sparkit.NewInvalidArgError(op,
			fmt.Sprintf("matrix has %d rows, handle expects %d", a.NumRows, n))
	}
	if len(l.RowPtr) != n+1 || len(u.RowPtr) != n+1 {
		return sparkit.NewInvalidArgError(op, "factor row pointers not sized to handle")
	}
	h.ensureLevelArrays()
	h.symbolicComplete = false

	capL := len(l.ColInd)
	capU := len(u.ColInd)
	uLev := make([]int32, capU) // fill level of each stored U entry

	// Dense accumulator: iw[c] is the position of column c in the current
	// row's working pattern, lower positions as-is, upper positions offset
	// by n. Slots are restored to -1 after every row; a stale slot would
	// leak one row's pattern into the next.
	h.allocWorkspace(1, n)
	iw := h.workspace.Row(0)

	// Per-row working pattern, reused across rows.
	var (
		lowCol  []int32 // columns < i
		lowLev  []int32
		lowDone []bool
		upCol   []int32 // columns >= i, diagonal first
		upLev   []int32
	)

	cntL, cntU := 0, 0
	l.RowPtr[0], u.RowPtr[0] = 0, 0
	maxLevel := int32(-1)

	for i := 0; i < n; i++ {
		lowCol, lowLev, lowDone = lowCol[:0], lowLev[:0], lowDone[:0]
		upCol, upLev = upCol[:0], upLev[:0]

		// The diagonal is always retained, even when a has no entry there.
		iw[i] = int32(n)
		upCol = append(upCol, int32(i))
		upLev = append(upLev, 0)

		for p := a.RowPtr[i]; p < a.RowPtr[i+1]; p++ {
			c := a.ColInd[p]
			if iw[c] != -1 {
				continue
			}
			if c < i {
				iw[c] = int32(len(lowCol))
				lowCol = append(lowCol, int32(c))
				lowLev = append(lowLev, 0)
				lowDone = append(lowDone, false)
			} else {
				iw[c] = int32(n + len(upCol))
				upCol = append(upCol, int32(c))
				upLev = append(upLev, 0)
			}
		}

		// Merge predecessor U-rows in ascending column order. Fill produced
		// by row j lands at columns beyond j, so entries already merged are
		// never revisited with a lower level.
		for {
			sel := -1
			for idx := range lowCol {
				if !lowDone[idx] && (sel < 0 || lowCol[idx] < lowCol[sel]) {
					sel = idx
				}
			}
			if sel < 0 {
				break
			}
			lowDone[sel] = true
			j := int(lowCol[sel])
			levIJ := lowLev[sel]

			for q := u.RowPtr[j] + 1; q < u.RowPtr[j+1]; q++ {
				c := u.ColInd[q]
				lev := levIJ + uLev[q] + 1
				if int(lev) > fillLevel {
					continue
				}
				switch pos := iw[c]; {
				case pos == -1:
					if c < i {
						iw[c] = int32(len(lowCol))
						lowCol = append(lowCol, int32(c))
						lowLev = append(lowLev, lev)
						lowDone = append(lowDone, false)
					} else {
						iw[c] = int32(n + len(upCol))
						upCol = append(upCol, int32(c))
						upLev = append(upLev, lev)
					}
				case pos >= int32(n):
					if lev < upLev[pos-int32(n)] {
						upLev[pos-int32(n)] = lev
					}
				default:
					if lev < lowLev[pos] {
						lowLev[pos] = lev
					}
				}
			}
		}

		// Scheduling level: one past the deepest structural predecessor.
		rowLevel := int32(0)
		for _, j := range lowCol {
			if lv := h.levelOfRow[j] + 1; lv > rowLevel {
				rowLevel = lv
			}
		}
		h.levelOfRow[i] = rowLevel
		if rowLevel > maxLevel {
			maxLevel = rowLevel
		}

		// Required correctness invariant: hand the accumulator back clean.
		for _, c := range lowCol {
			iw[c] = -1
		}
		for _, c := range upCol {
			iw[c] = -1
		}

		if cntL+len(lowCol)+1 > capL {
			return sparkit.NewSizingError(op,
				fmt.Sprintf("L fill exceeds capacity %d at row %d", capL, i))
		}
		if cntU+len(upCol) > capU {
			return sparkit.NewSizingError(op,
				fmt.Sprintf("U fill exceeds capacity %d at row %d", capU, i))
		}

		// L row: ascending lower columns, unit diagonal last.
		row := l.ColInd[cntL : cntL+len(lowCol)]
		for idx, c := range lowCol {
			row[idx] = int(c)
		}
		sort.Ints(row)
		l.ColInd[cntL+len(lowCol)] = i
		cntL += len(lowCol) + 1
		l.RowPtr[i+1] = cntL

		// U row: diagonal first, then ascending upper columns with their
		// fill levels kept for later merges.
		sortColsWithLevels(upCol[1:], upLev[1:])
		for idx, c := range upCol {
			u.ColInd[cntU+idx] = int(c)
			uLev[cntU+idx] = upLev[idx]
		}
		cntU += len(upCol)
		u.RowPtr[i+1] = cntU
	}

	nlevels := int(maxLevel) + 1
	h.setNumLevels(nlevels)
	buildLevelLists(h, nlevels)
	deriveChunks(h, nlevels)

	l.ColInd = l.ColInd[:cntL]
	l.Values = l.Values[:cntL]
	u.ColInd = u.ColInd[:cntU]
	u.Values = u.Values[:cntU]
	h.SetNNZL(cntL)
	h.SetNNZU(cntU)

	// Numeric scratch: one accumulator row per concurrently-factored matrix
	// row. The range policy factors a whole level at once; the team policy
	// bounds concurrency to one chunk. The schedule and scratch are shaped by
	// the algorithm in force right now, so pin it for the numeric phase;
	// switching afterwards has no effect until the next symbolic run.
	h.schedAlg = h.Algorithm()
	switch h.schedAlg {
	case LevelSchedTeamPolicy1:
		h.allocWorkspace(h.maxRowsPerChunk, n)
	default:
		h.allocWorkspace(h.maxRowsPerLevel, n)
	}

	h.markSymbolicComplete()
	return nil
}

// buildLevelLists fills levelPtr/levelRows from levelOfRow. Rows keep their
// natural order within a level, which makes the schedule deterministic.
func buildLevelLists(h *Handle, nlevels int) {
	for lv := 0; lv <= nlevels; lv++ {
		h.levelPtr[lv] = 0
	}
	for _, lv := range h.levelOfRow {
		h.levelPtr[lv+1]++
	}
	h.maxRowsPerLevel = 0
	for lv := 0; lv < nlevels; lv++ {
		if sz := int(h.levelPtr[lv+1]); sz > h.maxRowsPerLevel {
			h.maxRowsPerLevel = sz
		}
		h.levelPtr[lv+1] += h.levelPtr[lv]
	}
	next := make([]int32, nlevels)
	copy(next, h.levelPtr[:nlevels])
	for i, lv := range h.levelOfRow {
		h.levelRows[next[lv]] = int32(i)
		next[lv]++
	}
}

// deriveChunks derives the team-policy chunking from the target chunk size.
// Every level stays a distinct scheduling unit no matter how few rows it
// holds; merging neighbors would break the dependency order.
func deriveChunks(h *Handle, nlevels int) {
	h.chunksPerLevel = make([]int32, nlevels)
	h.rowsPerChunk = make([]int32, nlevels)
	h.maxRowsPerChunk = 0
	for lv := 0; lv < nlevels; lv++ {
		size := int(h.levelPtr[lv+1] - h.levelPtr[lv])
		rpc := h.chunkSize
		if rpc > size {
			rpc = size
		}
		nchunks := 0
		if rpc > 0 {
			nchunks = (size + rpc - 1) / rpc
		}
		h.chunksPerLevel[lv] = int32(nchunks)
		h.rowsPerChunk[lv] = int32(rpc)
		if rpc > h.maxRowsPerChunk {
			h.maxRowsPerChunk = rpc
		}
	}
}

// sortColsWithLevels sorts cols ascending, carrying levs along. Rows are
// short; insertion sort beats anything fancier here.
func sortColsWithLevels(cols, levs []int32) {
	for i := 1; i < len(cols); i++ {
		c, lv := cols[i], levs[i]
		j := i - 1
		for j >= 0 && cols[j] > c {
			cols[j+1] = cols[j]
			levs[j+1] = levs[j]
			j--
		}
		cols[j+1] = c
		levs[j+1] = lv
	}
}
