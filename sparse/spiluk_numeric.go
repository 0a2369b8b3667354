package sparse

import (
	"fmt"

	"github.com/sparsego/sparkit"
)

// Numeric computes the ILU(k) factor values for a using the level schedule
// and fill pattern produced by Symbolic on the same handle. l and u must be
// the factors Symbolic populated; their patterns are left untouched and
// their values overwritten in place.
//
// Levels run strictly in order with a full join between them; rows within a
// level carry no mutual dependency and factor concurrently, flat under the
// range policy, chunk by chunk under the team policy. There is no pivoting:
// a zero or tiny diagonal propagates NaN/Inf into the factors rather than
// failing here, checking the output is the caller's contract.
func Numeric(h *Handle, a, l, u *CSR) error {
	const op = "sparse.Numeric"
	if !h.SymbolicComplete() {
		return sparkit.NewOrderingError(op, "symbolic phase has not completed")
	}
	n := h.NumRows()
	if a.NumRows != n || a.NumCols != n {
		return sparkit.NewInvalidArgError(op,
			fmt.Sprintf("matrix is %dx%d, handle expects %dx%d", a.NumRows, a.NumCols, n, n))
	}
	if l.NNZ() != h.NNZL() || u.NNZ() != h.NNZU() {
		return sparkit.NewInvalidArgError(op, "factors do not match the symbolic pattern")
	}

	iw := h.Workspace()
	levelRows := h.LevelRows()
	levelPtr := h.LevelPtr()

	for lev := 0; lev < h.NumLevels(); lev++ {
		start := int(levelPtr[lev])
		end := int(levelPtr[lev+1])

		switch h.schedAlg {
		case LevelSchedTeamPolicy1:
			nchunks := int(h.ChunksPerLevel()[lev])
			rpc := int(h.RowsPerChunk()[lev])
			for c := 0; c < nchunks; c++ {
				chunkStart := start + c*rpc
				chunkEnd := chunkStart + rpc
				if chunkEnd > end {
					chunkEnd = end
				}
				tp := sparkit.TeamPolicy{
					LeagueSize:   chunkEnd - chunkStart,
					TeamSize:     h.TeamSize(),
					VectorLength: h.VectorLength(),
				}
				sparkit.ParallelForTeams(tp, func(tm sparkit.TeamMember) {
					row := int(levelRows[chunkStart+tm.LeagueRank])
					factorRow(row, iw.Row(tm.LeagueRank), a, l, u)
				})
			}
		default: // LevelSchedRangePolicy
			sparkit.ParallelFor(sparkit.NewRangePolicy(start, end), func(p int) {
				row := int(levelRows[p])
				factorRow(row, iw.Row(p-start), a, l, u)
			})
		}
		// The ParallelFor join is the barrier: level lev is fully factored
		// before any row of level lev+1 starts reading it.
	}
	return nil
}

// factorRow performs the sparse Gaussian-elimination update for one row,
// confined to the pattern established symbolically. iw is this row's
// private accumulator slice; it arrives all -1 and must be handed back the
// same way.
func factorRow(i int, iw []int32, a, l, u *CSR) {
	lbeg, lend := l.RowPtr[i], l.RowPtr[i+1] // diagonal last
	ubeg, uend := u.RowPtr[i], u.RowPtr[i+1] // diagonal first

	// Scatter the pattern, then load this row of a over it. Entries of the
	// pattern absent from a start at zero.
	for p := lbeg; p < lend-1; p++ {
		l.Values[p] = 0
		iw[l.ColInd[p]] = int32(p)
	}
	for p := ubeg; p < uend; p++ {
		u.Values[p] = 0
		iw[u.ColInd[p]] = int32(p)
	}
	for p := a.RowPtr[i]; p < a.RowPtr[i+1]; p++ {
		c := a.ColInd[p]
		pos := iw[c]
		if pos < 0 {
			continue
		}
		if c < i {
			l.Values[pos] = a.Values[p]
		} else {
			u.Values[pos] = a.Values[p]
		}
	}

	// Eliminate against previously-factored rows in ascending column order.
	// Updates outside the symbolic pattern are dropped, that is the
	// "incomplete" in ILU.
	for p := lbeg; p < lend-1; p++ {
		j := l.ColInd[p]
		fact := l.Values[p] / u.Values[u.RowPtr[j]]
		l.Values[p] = fact
		for q := u.RowPtr[j] + 1; q < u.RowPtr[j+1]; q++ {
			c := u.ColInd[q]
			pos := iw[c]
			if pos < 0 {
				continue
			}
			lxu := -fact * u.Values[q]
			if c < i {
				l.Values[pos] += lxu
			} else {
				u.Values[pos] += lxu
			}
		}
	}

	l.Values[lend-1] = 1 // unit diagonal

	for p := lbeg; p < lend-1; p++ {
		iw[l.ColInd[p]] = -1
	}
	for p := ubeg; p < uend; p++ {
		iw[u.ColInd[p]] = -1
	}
}
