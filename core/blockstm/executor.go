// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package blockstm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/log"
)

// ExecTask is a single transaction's speculative execution unit. A task may
// be handed to Execute more than once, at increasing incarnation numbers,
// each time a prior attempt aborted on a detected dependency.
type ExecTask interface {
	// Execute runs the task against mvh at the given incarnation. It must
	// return ErrExecAbortError if a read observed an estimated (not yet
	// settled) write from a lower transaction.
	Execute(mvh *MVHashMap, incarnation int) error

	// MVWriteList and MVFullWriteList both return the write-set of the
	// most recent Execute call; MVFullWriteList additionally includes
	// writes that did not change value versus the prior incarnation.
	MVWriteList() []WriteDescriptor
	MVFullWriteList() []WriteDescriptor

	// MVReadList returns the read-set of the most recent Execute call.
	MVReadList() []ReadDescriptor

	// Settle is called once a task's result is finalized and will not be
	// re-executed again, so it may release any resources it held.
	Settle()

	Sender() common.Address
	Hash() common.Hash

	// Dependencies lists the transaction indices this task is statically
	// known to depend on (e.g. same sender, prior nonce) before any
	// execution has been attempted.
	Dependencies() []int
}

// ErrExecAbortError is returned by ExecTask.Execute when a read depended on
// an estimated write. DepIdx, if >= 0, names the transaction the caller
// should wait to complete before retrying; -1 means no specific dependency
// could be identified.
type ErrExecAbortError struct {
	DepIdx      int
	OriginError error
}

func (e ErrExecAbortError) Error() string {
	if e.OriginError != nil {
		return fmt.Sprintf("execution aborted, depends on tx %d: %v", e.DepIdx, e.OriginError)
	}
	return fmt.Sprintf("execution aborted, depends on tx %d", e.DepIdx)
}

func (e ErrExecAbortError) Unwrap() error { return e.OriginError }

// PropertyCheck is invoked by the scheduler after every task transition,
// primarily so tests can assert scheduling invariants hold throughout a
// run rather than only at the end.
type PropertyCheck func(pe *ParallelExecutor) error

// ExecutionStat is a coarse summary of one parallel execution run.
type ExecutionStat struct {
	TxCount    int
	AbortCount int
}

// DependencyReport renders the dependency metadata collected by a
// metadata-collecting run into human-readable lines.
type DependencyReport struct {
	AllDeps map[int]map[int]bool
}

func (d *DependencyReport) Report(stats ExecutionStat, out func(string)) {
	out(fmt.Sprintf("executed %d txs with %d aborts", stats.TxCount, stats.AbortCount))

	txs := make([]int, 0, len(d.AllDeps))
	for tx := range d.AllDeps {
		txs = append(txs, tx)
	}
	sort.Ints(txs)

	for _, tx := range txs {
		deps := make([]int, 0, len(d.AllDeps[tx]))
		for dep := range d.AllDeps[tx] {
			deps = append(deps, dep)
		}
		sort.Ints(deps)
		out(fmt.Sprintf("tx %d depends on %v", tx, deps))
	}
}

// ParallelExecutionResult is returned by ExecuteParallel/executeParallelWithCheck.
type ParallelExecutionResult struct {
	Deps    *DependencyReport
	Stats   *ExecutionStat
	AllDeps map[int]map[int]bool
}

// ParallelExecutor drives the speculative execution of a block's
// transactions over a shared MVHashMap, scheduling tasks across a worker
// pool and re-executing them as dependencies are discovered.
type ParallelExecutor struct {
	tasks []ExecTask

	execTasks    *statusManager
	mvh          *MVHashMap
	incarnations []int
	// waiting[i] is the set of transaction indices i is known to be
	// blocked on; i re-enters the pending pool once this set empties.
	waiting []map[int]struct{}

	collectMetadata bool
	allDeps         map[int]map[int]bool

	aborts int
}

func newParallelExecutor(tasks []ExecTask, collectMetadata bool) *ParallelExecutor {
	n := len(tasks)
	pe := &ParallelExecutor{
		tasks:           tasks,
		execTasks:       makeStatusManager(n),
		mvh:             MakeMVHashMap(),
		incarnations:    make([]int, n),
		waiting:         make([]map[int]struct{}, n),
		collectMetadata: collectMetadata,
		allDeps:         make(map[int]map[int]bool),
	}

	for i, t := range tasks {
		w := make(map[int]struct{})
		for _, dep := range t.Dependencies() {
			if dep >= 0 && dep != i {
				w[dep] = struct{}{}
			}
		}

		pe.waiting[i] = w
		if len(w) > 0 {
			pe.block(i)
		}
	}

	return pe
}

func (pe *ParallelExecutor) block(tx int) {
	pe.execTasks.pending = removeFromList(pe.execTasks.pending, tx)
	pe.execTasks.setBlocked(tx)
}

func (pe *ParallelExecutor) unblock(tx int) {
	pe.execTasks.clearBlocked(tx)
	pe.execTasks.pending = insertInList(pe.execTasks.pending, tx)
}

// onComplete releases every task that was only waiting on tx.
func (pe *ParallelExecutor) onComplete(tx int) {
	for j, w := range pe.waiting {
		if _, ok := w[tx]; ok {
			delete(w, tx)
			if len(w) == 0 && pe.execTasks.isBlocked(j) {
				pe.unblock(j)
			}
		}
	}
}

type taskResult struct {
	txIdx       int
	incarnation int
	err         error
}

// settle installs a successful execution's writes and marks it complete.
func (pe *ParallelExecutor) settle(res taskResult) {
	tx := res.txIdx
	task := pe.tasks[tx]

	pe.mvh.FlushMVWriteSet(task.MVFullWriteList())

	if pe.collectMetadata {
		deps := make(map[int]bool)
		for _, r := range task.MVReadList() {
			if r.V.TxnIndex >= 0 && r.V.TxnIndex != tx {
				deps[r.V.TxnIndex] = true
			}
		}
		if len(deps) > 0 {
			pe.allDeps[tx] = deps
		}
	}

	task.Settle()
	pe.execTasks.markComplete(tx)
	pe.onComplete(tx)
}

// handleAbort moves an aborted task back to pending, or blocks it on the
// dependency it discovered, whichever is appropriate.
func (pe *ParallelExecutor) handleAbort(res taskResult, abort ErrExecAbortError) {
	tx := res.txIdx
	pe.aborts++
	pe.incarnations[tx]++

	pe.execTasks.inProgress = removeFromList(pe.execTasks.inProgress, tx)

	dep := abort.DepIdx
	if dep >= 0 && dep != tx && !pe.execTasks.checkComplete(dep) {
		pe.waiting[tx][dep] = struct{}{}
		pe.block(tx)
		return
	}

	pe.execTasks.pending = insertInList(pe.execTasks.pending, tx)
}

// executeParallelWithCheck runs tasks to completion over numProcs workers,
// calling validation (if non-nil) after every task transition. A nil
// interruptCtx is treated as context.Background.
func executeParallelWithCheck(tasks []ExecTask, profile bool, validation PropertyCheck, collectMetadata bool, numProcs int, interruptCtx context.Context) (ParallelExecutionResult, error) {
	_ = profile

	if interruptCtx == nil {
		interruptCtx = context.Background()
	}

	n := len(tasks)
	if n == 0 {
		return ParallelExecutionResult{AllDeps: map[int]map[int]bool{}}, nil
	}

	pe := newParallelExecutor(tasks, collectMetadata)

	if numProcs < 1 {
		numProcs = 1
	}

	type job struct {
		txIdx       int
		incarnation int
	}

	jobs := make(chan job, n)
	results := make(chan taskResult, n)

	var wg sync.WaitGroup
	for w := 0; w < numProcs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				err := tasks[j.txIdx].Execute(pe.mvh, j.incarnation)
				select {
				case results <- taskResult{txIdx: j.txIdx, incarnation: j.incarnation, err: err}:
				case <-interruptCtx.Done():
					return
				}
			}
		}()
	}

	inFlight := 0
	done := 0
	var runErr error

dispatch:
	for {
		if err := interruptCtx.Err(); err != nil {
			runErr = err
			break dispatch
		}
		if done == n {
			break dispatch
		}

		for {
			tx := pe.execTasks.takeNextPending()
			if tx == -1 {
				break
			}

			inFlight++
			select {
			case jobs <- job{txIdx: tx, incarnation: pe.incarnations[tx]}:
			case <-interruptCtx.Done():
				runErr = interruptCtx.Err()
				break dispatch
			}
		}

		if inFlight == 0 {
			// Nothing running and nothing runnable: every remaining
			// transaction is blocked on a dependency that will never
			// complete (a cycle). Bail out instead of spinning forever.
			runErr = errors.New("blockstm: scheduling deadlock, remaining transactions form a dependency cycle")
			break dispatch
		}

		select {
		case res := <-results:
			inFlight--

			var abort ErrExecAbortError
			if res.err == nil {
				pe.settle(res)
				done++
			} else if errors.As(res.err, &abort) {
				log.Debug("blockstm: task aborted", "tx", res.txIdx, "incarnation", res.incarnation, "dep", abort.DepIdx)
				pe.handleAbort(res, abort)
			} else {
				runErr = res.err
				break dispatch
			}

			if validation != nil {
				if err := validation(pe); err != nil {
					runErr = err
					break dispatch
				}
			}
		case <-interruptCtx.Done():
			runErr = interruptCtx.Err()
			break dispatch
		}
	}

	close(jobs)
	wg.Wait()

	result := ParallelExecutionResult{
		Stats:   &ExecutionStat{TxCount: n, AbortCount: pe.aborts},
		AllDeps: pe.allDeps,
	}
	if collectMetadata {
		result.Deps = &DependencyReport{AllDeps: pe.allDeps}
	}

	return result, runErr
}

// ExecuteParallel runs tasks to completion with no validation hook, the
// entry point used outside of tests.
func ExecuteParallel(tasks []ExecTask, profile bool, collectMetadata bool, numProcs int, interruptCtx context.Context) (ParallelExecutionResult, error) {
	return executeParallelWithCheck(tasks, profile, nil, collectMetadata, numProcs, interruptCtx)
}
