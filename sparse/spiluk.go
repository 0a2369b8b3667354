package sparse

import (
	"fmt"

	"github.com/sparsego/sparkit"
)

// Algorithm selects the scheduling strategy used by the numeric phase of
// the ILU(k) factorization.
type Algorithm int

const (
	// LevelSchedRangePolicy runs each level as a flat range-parallel loop,
	// one work unit per row.
	LevelSchedRangePolicy Algorithm = iota
	// LevelSchedTeamPolicy1 groups each level's rows into chunks; chunks run
	// one after another, rows within a chunk fan out as a team. The chunking
	// bounds the scratch footprint and amortizes launch overhead on levels
	// with few rows.
	LevelSchedTeamPolicy1
)

// String returns the textual selector name for the algorithm.
func (a Algorithm) String() string {
	switch a {
	case LevelSchedRangePolicy:
		return "range-policy"
	case LevelSchedTeamPolicy1:
		return "team-policy-1"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm converts a textual selector into an Algorithm. "default"
// is an alias for the range policy. Unrecognized names fail with an invalid
// argument error.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "default", "range-policy":
		return LevelSchedRangePolicy, nil
	case "team-policy-1":
		return LevelSchedTeamPolicy1, nil
	default:
		return 0, sparkit.NewInvalidArgError("sparse.ParseAlgorithm",
			fmt.Sprintf("invalid algorithm name %q", name))
	}
}

// DefaultChunkSize is the target number of rows per chunk for the team
// policy when the handle does not configure one.
const DefaultChunkSize = 512

// Handle owns the state of one ILU(k) factorization problem: the level
// schedule produced by the symbolic phase, per-level chunking parameters,
// fill counts, and the scratch workspace shared by the phases.
//
// The level arrays are written once by Symbolic and are read-only
// afterwards, so repeated Numeric calls against one symbolic structure are
// fine; Reset must not race an in-flight factorization (the handle carries
// no locking).
type Handle struct {
	alg Algorithm

	nrows   int
	nlevels int
	nnzL    int // capacity before Symbolic, exact count after
	nnzU    int

	levelOfRow []int32 // level id of each row
	levelRows  []int32 // rows grouped by level, in level order
	levelPtr   []int32 // offsets into levelRows, one per level plus end

	chunksPerLevel []int32 // team policy: chunks at each level
	rowsPerChunk   []int32 // team policy: rows per chunk at each level

	maxRowsPerLevel int
	maxRowsPerChunk int

	workspace *sparkit.WorkView // column -> sparse position map, sentinel -1
	schedAlg  Algorithm         // algorithm the schedule and workspace were built for

	symbolicComplete bool

	teamSize     int
	vectorLength int
	chunkSize    int
}

// NewHandle creates a handle for an nrows-row problem with the given factor
// capacities. No level data is allocated until the symbolic phase runs (or
// Reset is called).
func NewHandle(alg Algorithm, nrows, nnzL, nnzU int) *Handle {
	return &Handle{
		alg:          alg,
		nrows:        nrows,
		nnzL:         nnzL,
		nnzU:         nnzU,
		teamSize:     -1,
		vectorLength: -1,
		chunkSize:    DefaultChunkSize,
	}
}

// NewHandleFromName is NewHandle taking the textual algorithm selector.
func NewHandleFromName(name string, nrows, nnzL, nnzU int) (*Handle, error) {
	alg, err := ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return NewHandle(alg, nrows, nnzL, nnzU), nil
}

// Reset re-initializes all derived state for a new sparsity pattern. It
// must be called whenever the structure of the input matrix changes; the
// next factorization then has to start over with Symbolic.
func (h *Handle) Reset(nrows, nnzL, nnzU int) {
	h.nrows = nrows
	h.nlevels = 0
	h.nnzL = nnzL
	h.nnzU = nnzU
	h.maxRowsPerLevel = 0
	h.maxRowsPerChunk = 0
	h.levelOfRow = make([]int32, nrows)
	h.levelRows = make([]int32, nrows)
	h.levelPtr = make([]int32, nrows+1)
	h.chunksPerLevel = nil
	h.rowsPerChunk = nil
	h.workspace = nil
	h.symbolicComplete = false
}

// ensureLevelArrays allocates the level arrays when the handle was freshly
// constructed and never Reset.
func (h *Handle) ensureLevelArrays() {
	if len(h.levelOfRow) != h.nrows {
		h.levelOfRow = make([]int32, h.nrows)
		h.levelRows = make([]int32, h.nrows)
		h.levelPtr = make([]int32, h.nrows+1)
	}
}

// Algorithm returns the configured scheduling strategy.
func (h *Handle) Algorithm() Algorithm { return h.alg }

// SetAlgorithm switches the scheduling strategy. The symbolic phase pins
// the strategy it ran under for the numeric phase, so a switch made after
// Symbolic only takes effect at the next symbolic run.
func (h *Handle) SetAlgorithm(alg Algorithm) { h.alg = alg }

// NumRows returns the problem size.
func (h *Handle) NumRows() int { return h.nrows }

// NumLevels returns the number of scheduling levels found by Symbolic.
func (h *Handle) NumLevels() int { return h.nlevels }

func (h *Handle) setNumLevels(n int) { h.nlevels = n }

// NNZL returns the L-factor entry count: the preallocation capacity before
// the symbolic phase, the exact fill count after it.
func (h *Handle) NNZL() int { return h.nnzL }

// SetNNZL overrides the L-factor entry count.
func (h *Handle) SetNNZL(n int) { h.nnzL = n }

// NNZU returns the U-factor entry count, with the same before/after
// semantics as NNZL.
func (h *Handle) NNZU() int { return h.nnzU }

// SetNNZU overrides the U-factor entry count.
func (h *Handle) SetNNZU(n int) { h.nnzU = n }

// LevelOfRow returns the level id assigned to each row. Meaningful only
// after the symbolic phase completed.
func (h *Handle) LevelOfRow() []int32 { return h.levelOfRow }

// LevelRows returns the rows in level order; the segment for level l is
// LevelRows()[LevelPtr()[l]:LevelPtr()[l+1]].
func (h *Handle) LevelRows() []int32 { return h.levelRows }

// LevelPtr returns the per-level offsets into LevelRows. Only the first
// NumLevels()+1 entries are meaningful.
func (h *Handle) LevelPtr() []int32 { return h.levelPtr }

// ChunksPerLevel returns the team-policy chunk count at each level.
func (h *Handle) ChunksPerLevel() []int32 { return h.chunksPerLevel }

// RowsPerChunk returns the team-policy rows per chunk at each level.
func (h *Handle) RowsPerChunk() []int32 { return h.rowsPerChunk }

// MaxRowsPerLevel returns the largest level size.
func (h *Handle) MaxRowsPerLevel() int { return h.maxRowsPerLevel }

// MaxRowsPerChunk returns the largest chunk size across levels.
func (h *Handle) MaxRowsPerChunk() int { return h.maxRowsPerChunk }

// Workspace returns the handle's scratch view.
func (h *Handle) Workspace() *sparkit.WorkView { return h.workspace }

// SymbolicComplete reports whether the symbolic phase has populated the
// level schedule. The numeric phase refuses to run until it has.
func (h *Handle) SymbolicComplete() bool { return h.symbolicComplete }

func (h *Handle) markSymbolicComplete() { h.symbolicComplete = true }

// TeamSize returns the team-policy team size hint (-1 selects a heuristic).
func (h *Handle) TeamSize() int { return h.teamSize }

// SetTeamSize sets the team-policy team size hint.
func (h *Handle) SetTeamSize(ts int) { h.teamSize = ts }

// VectorLength returns the team-policy vector length hint (-1 selects a
// heuristic).
func (h *Handle) VectorLength() int { return h.vectorLength }

// SetVectorLength sets the team-policy vector length hint.
func (h *Handle) SetVectorLength(vl int) { h.vectorLength = vl }

// ChunkSize returns the target rows per chunk used when deriving the
// per-level chunking.
func (h *Handle) ChunkSize() int { return h.chunkSize }

// SetChunkSize sets the target rows per chunk. Values below 1 restore the
// default. Takes effect at the next symbolic phase.
func (h *Handle) SetChunkSize(n int) {
	if n < 1 {
		n = DefaultChunkSize
	}
	h.chunkSize = n
}

// AllocFactors allocates L and U factor skeletons sized to the handle's
// current nnz capacities, for the symbolic phase to populate.
func (h *Handle) AllocFactors() (l, u *CSR) {
	return newFactor(h.nrows, h.nnzL), newFactor(h.nrows, h.nnzU)
}

func newFactor(n, nnzCap int) *CSR {
	return &CSR{
		NumRows: n,
		NumCols: n,
		RowPtr:  make([]int, n+1),
		ColInd:  make([]int, nnzCap),
		Values:  make([]float64, nnzCap),
	}
}

// allocWorkspace sizes the scratch view for the numeric phase: one row per
// concurrently-factored matrix row, every slot at the -1 sentinel.
func (h *Handle) allocWorkspace(rows, cols int) {
	h.workspace = sparkit.NewWorkView(rows, cols, -1)
}
