package sparkit

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Below this many work items a parallel launch costs more than it saves.
const serialCutoff = 256

var maxWorkers int32

func init() {
	atomic.StoreInt32(&maxWorkers, int32(runtime.NumCPU()))
}

// dispatchPool is the shared pool behind every parallel launch, sized to the
// machine once; Parallelism() shapes a launch by capping how many tasks it
// submits. Launch bodies must not dispatch parallel work themselves, the
// outer launch may be holding every worker.
var dispatchPool = NewWorkerPool(0)

// Parallelism returns the current worker cap for parallel dispatch.
func Parallelism() int {
	return int(atomic.LoadInt32(&maxWorkers))
}

// SetParallelism sets the worker cap for parallel dispatch. Values below 1
// restore the default (the number of logical CPUs).
func SetParallelism(n int) {
	if n < 1 {
		n = runtime.NumCPU()
	}
	atomic.StoreInt32(&maxWorkers, int32(n))
}

// RangePolicy describes a flat half-open index range [Begin, End) with one
// unit of work per index. Work is dynamically partitioned across workers.
type RangePolicy struct {
	Begin, End int
}

// NewRangePolicy returns a range policy over [begin, end).
func NewRangePolicy(begin, end int) RangePolicy {
	return RangePolicy{Begin: begin, End: end}
}

// Len returns the number of work items in the range.
func (p RangePolicy) Len() int {
	if p.End <= p.Begin {
		return 0
	}
	return p.End - p.Begin
}

// TeamPolicy describes a league of teams. Each team owns a contiguous chunk
// of work and a private scratch slot identified by its league rank. TeamSize
// and VectorLength are tuning hints; -1 selects a heuristic at dispatch.
type TeamPolicy struct {
	LeagueSize   int
	TeamSize     int
	VectorLength int
}

// NewTeamPolicy returns a team policy with heuristic team size and vector
// length.
func NewTeamPolicy(leagueSize int) TeamPolicy {
	return TeamPolicy{LeagueSize: leagueSize, TeamSize: -1, VectorLength: -1}
}

// TeamMember identifies one team within a league during execution.
type TeamMember struct {
	LeagueRank   int
	LeagueSize   int
	TeamSize     int
	VectorLength int
}

// ParallelFor executes body for every index in the policy's range and
// returns only after all work has completed. The return doubles as the
// synchronization barrier between dependent phases: no index of a later
// ParallelFor starts before every index of this one has finished.
func ParallelFor(p RangePolicy, body func(i int)) {
	n := p.Len()
	if n == 0 {
		return
	}

	workers := Parallelism()
	if workers > n {
		workers = n
	}
	if workers <= 1 || n < serialCutoff {
		for i := p.Begin; i < p.End; i++ {
			body(i)
		}
		return
	}

	// Each worker takes a contiguous slice of the range to maximize cache
	// reuse, same partitioning as block scheduling on a grid.
	itemsPerWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := p.Begin + w*itemsPerWorker
		end := start + itemsPerWorker
		if end > p.End {
			end = p.End
		}
		dispatchPool.Submit(func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				body(i)
			}
		})
	}
	wg.Wait()
}

// ParallelForTeams executes body once per team in the league, fanning the
// teams out across the worker pool, and joins before returning. Teams are
// independent; rows or elements within a team's chunk are the body's own
// business (typically processed sequentially against the team's scratch).
func ParallelForTeams(p TeamPolicy, body func(tm TeamMember)) {
	if p.LeagueSize <= 0 {
		return
	}

	teamSize := p.TeamSize
	if teamSize < 0 {
		teamSize = defaultTeamSize()
	}
	vecLen := p.VectorLength
	if vecLen < 0 {
		vecLen = DefaultVectorWidth()
	}

	workers := Parallelism()
	if workers > p.LeagueSize {
		workers = p.LeagueSize
	}

	if workers <= 1 {
		for rank := 0; rank < p.LeagueSize; rank++ {
			body(TeamMember{
				LeagueRank:   rank,
				LeagueSize:   p.LeagueSize,
				TeamSize:     teamSize,
				VectorLength: vecLen,
			})
		}
		return
	}

	var next int32 = -1
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		dispatchPool.Submit(func() {
			defer wg.Done()
			for {
				rank := int(atomic.AddInt32(&next, 1))
				if rank >= p.LeagueSize {
					return
				}
				body(TeamMember{
					LeagueRank:   rank,
					LeagueSize:   p.LeagueSize,
					TeamSize:     teamSize,
					VectorLength: vecLen,
				})
			}
		})
	}
	wg.Wait()
}

// ParallelReduce folds body(i) over [0, n) using join, seeded with init on
// every partial. join must be associative; partials are combined in worker
// order, so results are deterministic for a fixed parallelism level.
func ParallelReduce(n int, init float64, body func(i int) float64, join func(a, b float64) float64) float64 {
	if n <= 0 {
		return init
	}

	workers := Parallelism()
	if workers > n {
		workers = n
	}
	if workers <= 1 || n < serialCutoff {
		acc := init
		for i := 0; i < n; i++ {
			acc = join(acc, body(i))
		}
		return acc
	}

	itemsPerWorker := (n + workers - 1) / workers
	partials := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * itemsPerWorker
		end := start + itemsPerWorker
		if end > n {
			end = n
		}
		dispatchPool.Submit(func() {
			defer wg.Done()
			acc := init
			for i := start; i < end; i++ {
				acc = join(acc, body(i))
			}
			partials[w] = acc
		})
	}
	wg.Wait()

	acc := init
	for _, p := range partials {
		acc = join(acc, p)
	}
	return acc
}

// WorkerPool manages a pool of worker goroutines for repeated task
// submission without per-launch goroutine churn.
type WorkerPool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		task()
	}
}

// Submit adds a task to the pool
func (wp *WorkerPool) Submit(task func()) {
	wp.tasks <- task
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	close(wp.tasks)
	wp.wg.Wait()
}

// defaultTeamSize picks a team size when the policy leaves it unset.
func defaultTeamSize() int {
	return Parallelism()
}
