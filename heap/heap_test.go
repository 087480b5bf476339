package heap_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openxfs/xfsmgr/heap"
	"github.com/openxfs/xfsmgr/wfs"
)

func TestAllocateFreeReturnsCounterToZero(t *testing.T) {
	h := heap.New(0, nil)

	buf, err := h.Allocate(4096, 0)
	require.NoError(t, err)
	require.Equal(t, int64(4096), h.OutstandingBytes())

	require.NoError(t, h.Free(buf))
	require.Equal(t, int64(0), h.OutstandingBytes())
}

func TestParentChildLifecycle(t *testing.T) {
	h := heap.New(0, nil)

	parent, err := h.Allocate(100, 0)
	require.NoError(t, err)
	childA, err := h.AllocateMore(parent, 50)
	require.NoError(t, err)
	childB, err := h.AllocateMore(parent, 25)
	require.NoError(t, err)
	require.Equal(t, int64(175), h.OutstandingBytes())

	// Children are never freed individually.
	require.ErrorIs(t, h.Free(childA), wfs.ErrInvalidBuffer)
	require.ErrorIs(t, h.Free(childB), wfs.ErrInvalidBuffer)
	require.Equal(t, int64(175), h.OutstandingBytes())

	// Freeing the parent releases the whole family.
	require.NoError(t, h.Free(parent))
	require.Equal(t, int64(0), h.OutstandingBytes())
}

func TestChildIsNotAValidParent(t *testing.T) {
	h := heap.New(0, nil)

	parent, err := h.Allocate(10, 0)
	require.NoError(t, err)
	child, err := h.AllocateMore(parent, 10)
	require.NoError(t, err)

	_, err = h.AllocateMore(child, 10)
	require.ErrorIs(t, err, wfs.ErrInvalidBuffer)
	require.Equal(t, int64(20), h.OutstandingBytes())
}

func TestDoubleFreeFails(t *testing.T) {
	h := heap.New(0, nil)

	buf, err := h.Allocate(64, 0)
	require.NoError(t, err)
	require.NoError(t, h.Free(buf))
	require.ErrorIs(t, h.Free(buf), wfs.ErrInvalidBuffer)
	require.Equal(t, int64(0), h.OutstandingBytes())
}

func TestNilBufferFails(t *testing.T) {
	h := heap.New(0, nil)

	require.ErrorIs(t, h.Free(nil), wfs.ErrInvalidPointer)
	_, err := h.AllocateMore(nil, 10)
	require.ErrorIs(t, err, wfs.ErrInvalidPointer)
}

func TestQuotaExceededLeavesCounterUnchanged(t *testing.T) {
	h := heap.New(1000, nil)

	buf, err := h.Allocate(900, 0)
	require.NoError(t, err)

	_, err = h.Allocate(200, 0)
	require.ErrorIs(t, err, wfs.ErrOutOfMemory)
	require.Equal(t, int64(900), h.OutstandingBytes())

	_, err = h.AllocateMore(buf, 200)
	require.ErrorIs(t, err, wfs.ErrOutOfMemory)
	require.Equal(t, int64(900), h.OutstandingBytes())

	// Exactly up to the quota still succeeds.
	_, err = h.AllocateMore(buf, 100)
	require.NoError(t, err)
	require.Equal(t, int64(1000), h.OutstandingBytes())
}

func TestZeroInitContents(t *testing.T) {
	h := heap.New(0, nil)

	buf, err := h.Allocate(256, heap.ZeroInit)
	require.NoError(t, err)
	for _, b := range buf.Bytes() {
		require.Zero(t, b)
	}

	child, err := h.AllocateMore(buf, 128)
	require.NoError(t, err)
	require.Len(t, child.Bytes(), 128)
	for _, b := range child.Bytes() {
		require.Zero(t, b)
	}
}

func TestConcurrentAllocateFree(t *testing.T) {
	h := heap.New(0, nil)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				buf, err := h.Allocate(512, 0)
				require.NoError(t, err)
				child, err := h.AllocateMore(buf, 64)
				require.NoError(t, err)
				require.Len(t, child.Bytes(), 64)
				require.NoError(t, h.Free(buf))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(0), h.OutstandingBytes())
	stats := h.Statistics()
	require.Zero(t, stats.AllocationCount)
	require.Zero(t, stats.ChildCount)
}

func TestStatistics(t *testing.T) {
	h := heap.New(2048, nil)

	buf, err := h.Allocate(100, 0)
	require.NoError(t, err)
	_, err = h.AllocateMore(buf, 28)
	require.NoError(t, err)

	stats := h.Statistics()
	require.Equal(t, 1, stats.AllocationCount)
	require.Equal(t, 1, stats.ChildCount)
	require.Equal(t, int64(128), stats.OutstandingBytes)
	require.Equal(t, int64(2048), stats.Quota)

	statsString := h.BuildStatsString()
	require.True(t, strings.Contains(statsString, `"OutstandingBytes":128`))
	require.True(t, strings.Contains(statsString, `"Quota":2048`))
}

func TestReset(t *testing.T) {
	h := heap.New(0, nil)

	buf, err := h.Allocate(100, 0)
	require.NoError(t, err)
	_, err = h.AllocateMore(buf, 50)
	require.NoError(t, err)

	h.Reset()
	require.Equal(t, int64(0), h.OutstandingBytes())
	require.ErrorIs(t, h.Free(buf), wfs.ErrInvalidBuffer)
}
