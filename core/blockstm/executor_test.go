package blockstm

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/category-labs/monad-sub002/common"
)

// testExecTask is a synthetic transaction: it reads and writes a nonce slot
// for its sender, plus a handful of storage slots chosen by a path
// generator, so that concurrent execution produces detectable conflicts.
type testExecTask struct {
	txIdx           int
	sender          common.Address
	nonce           int
	reads           []Key
	writes          []Key
	readMap         map[Key]ReadDescriptor
	writeMapVersion Version

	dependencies []int
}

func (t *testExecTask) Execute(mvh *MVHashMap, incarnation int) error {
	version := Version{TxnIndex: t.txIdx, Incarnation: incarnation}
	t.readMap = make(map[Key]ReadDescriptor, len(t.reads))

	deps := -1

	nonceKey := NewSubpathKey(t.sender, 2)

	result := mvh.Read(nonceKey, t.txIdx)
	if result.Status() == MVReadResultDone {
		if got, _ := result.Value().(int); got != t.nonce {
			return ErrExecAbortError{DepIdx: result.DepIdx()}
		}
	}
	if result.Status() == MVReadResultDependency {
		deps = result.DepIdx()
	}

	for _, k := range t.reads {
		r := mvh.Read(k, t.txIdx)
		if r.Status() == MVReadResultDependency && r.DepIdx() > deps {
			deps = r.DepIdx()
		}
		t.readMap[k] = ReadDescriptor{Path: k, V: Version{TxnIndex: r.DepIdx(), Incarnation: r.Incarnation()}}
	}

	if deps != -1 {
		return ErrExecAbortError{DepIdx: deps, OriginError: fmt.Errorf("observed estimated write")}
	}

	t.writeMapVersion = version
	return nil
}

func (t *testExecTask) MVWriteList() []WriteDescriptor     { return t.fullWrites() }
func (t *testExecTask) MVFullWriteList() []WriteDescriptor { return t.fullWrites() }

func (t *testExecTask) fullWrites() []WriteDescriptor {
	out := make([]WriteDescriptor, 0, len(t.writes)+1)
	out = append(out, WriteDescriptor{Path: NewSubpathKey(t.sender, 2), V: t.writeMapVersion, Val: t.nonce + 1})
	for _, k := range t.writes {
		out = append(out, WriteDescriptor{Path: k, V: t.writeMapVersion, Val: t.txIdx})
	}
	return out
}

func (t *testExecTask) MVReadList() []ReadDescriptor {
	out := make([]ReadDescriptor, 0, len(t.readMap))
	for _, r := range t.readMap {
		out = append(out, r)
	}
	return out
}

func (t *testExecTask) Settle()                     {}
func (t *testExecTask) Sender() common.Address       { return t.sender }
func (t *testExecTask) Hash() common.Hash            { return common.BytesToHash([]byte(fmt.Sprintf("%d", t.txIdx))) }
func (t *testExecTask) Dependencies() []int          { return t.dependencies }

// buildTasks returns numTx tasks drawn from numSenders distinct senders,
// each touching numShared keys from a shared pool so that conflicts occur,
// plus its own private key.
func buildTasks(numTx, numSenders, numShared int) []ExecTask {
	senders := make([]common.Address, numSenders)
	for i := range senders {
		senders[i] = common.BigToAddress(big.NewInt(int64(i)))
	}
	shared := make([]Key, numShared)
	for i := range shared {
		shared[i] = NewStateKey(senders[0], common.BigToHash(big.NewInt(int64(i))))
	}

	nonces := make(map[common.Address]int)
	tasks := make([]ExecTask, 0, numTx)
	for i := 0; i < numTx; i++ {
		s := senders[i%numSenders]
		n := nonces[s]
		nonces[s] = n + 1

		reads := append([]Key{}, shared...)
		writes := []Key{shared[i%numShared]}

		tasks = append(tasks, &testExecTask{
			txIdx:        i,
			sender:       s,
			nonce:        n,
			reads:        reads,
			writes:       writes,
			dependencies: []int{},
		})
	}
	return tasks
}

func checkNoStatusOverlap(pe *ParallelExecutor) error {
	seen := make(map[int]string)
	for _, tx := range pe.execTasks.complete {
		seen[tx] = "complete"
	}
	for _, tx := range pe.execTasks.inProgress {
		if v, ok := seen[tx]; ok {
			return fmt.Errorf("tx %d is in both %s and inProgress", tx, v)
		}
		seen[tx] = "inProgress"
	}
	for _, tx := range pe.execTasks.pending {
		if v, ok := seen[tx]; ok {
			return fmt.Errorf("tx %d is in both %s and pending", tx, v)
		}
		seen[tx] = "pending"
	}
	return nil
}

func checkNoDroppedTx(pe *ParallelExecutor) error {
	for i := 0; i < len(pe.tasks); i++ {
		if !pe.execTasks.checkComplete(i) && !pe.execTasks.checkInProgress(i) && !pe.execTasks.checkPending(i) {
			if !pe.execTasks.isBlocked(i) {
				return fmt.Errorf("tx %d is not in any status and is not blocked", i)
			}
		}
	}
	return nil
}

func composeChecks(checks ...PropertyCheck) PropertyCheck {
	return func(pe *ParallelExecutor) error {
		for _, c := range checks {
			if err := c(pe); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestParallelExecutionMatchesInvariants(t *testing.T) {
	t.Parallel()

	checks := composeChecks(checkNoStatusOverlap, checkNoDroppedTx)

	for _, tc := range []struct {
		numTx, numSenders, numShared int
	}{
		{numTx: 20, numSenders: 4, numShared: 3},
		{numTx: 100, numSenders: 10, numShared: 5},
		{numTx: 300, numSenders: 20, numShared: 8},
	} {
		tasks := buildTasks(tc.numTx, tc.numSenders, tc.numShared)

		result, err := executeParallelWithCheck(tasks, false, checks, true, 8, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.numTx, result.Stats.TxCount)
	}
}

func TestParallelExecutionCollectsDependencyMetadata(t *testing.T) {
	t.Parallel()

	tasks := buildTasks(50, 5, 4)

	result, err := ExecuteParallel(tasks, false, true, 8, nil)
	require.NoError(t, err)
	require.NotNil(t, result.AllDeps)

	// Every transaction after the first sharing a key with an earlier one
	// should have recorded at least one dependency.
	found := false
	for _, deps := range result.AllDeps {
		if len(deps) > 0 {
			found = true
			break
		}
	}
	assert.True(t, found, "expected at least one recorded read dependency")
}

func TestParallelExecutionEmptyBlock(t *testing.T) {
	t.Parallel()

	result, err := ExecuteParallel(nil, false, false, 4, nil)
	require.NoError(t, err)
	assert.Empty(t, result.AllDeps)
}

func TestBreakFromCircularDependency(t *testing.T) {
	t.Parallel()

	n := 5
	tasks := make([]ExecTask, n)
	for i := range tasks {
		tasks[i] = &testExecTask{txIdx: i, dependencies: []int{(i + n - 1) % n}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		_, err := ExecuteParallel(tasks, false, true, 8, ctx)
		assert.Error(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ExecuteParallel did not return promptly on a cancelled context with a circular dependency")
	}
}

func TestBreakFromPartialCircularDependency(t *testing.T) {
	t.Parallel()

	tasks := make([]ExecTask, 5)
	for i := range tasks {
		if i < 3 {
			tasks[i] = &testExecTask{txIdx: i, dependencies: []int{(i + 2) % 3}}
		} else {
			tasks[i] = &testExecTask{txIdx: i, dependencies: []int{}}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		_, err := ExecuteParallel(tasks, false, true, 8, ctx)
		assert.Error(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ExecuteParallel did not return promptly on a cancelled context with a partial dependency cycle")
	}
}

func TestStatusManagerRevertOnAbort(t *testing.T) {
	t.Parallel()

	rand.Seed(1)

	// Two tasks from the same sender with consecutive nonces, sharing a
	// nonce slot. Whether the second aborts and retries depends on worker
	// scheduling; either way both must settle with no status overlap.
	sender := common.BigToAddress(big.NewInt(1))
	tasks := []ExecTask{
		&testExecTask{txIdx: 0, sender: sender, nonce: 0, dependencies: []int{}},
		&testExecTask{txIdx: 1, sender: sender, nonce: 1, dependencies: []int{}},
	}

	result, err := executeParallelWithCheck(tasks, false, checkNoStatusOverlap, false, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.TxCount)
}
