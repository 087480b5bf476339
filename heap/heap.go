// Package heap implements the shared buffer heap completion payloads
// are carried in. Buffers form a two-level hierarchy: a root buffer
// owns any number of child buffers allocated against it, and freeing
// the root releases the whole family. All sizes are charged against a
// single process-wide quota.
package heap

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/wfs"
)

// DefaultQuota is the byte limit used when no explicit quota is given.
const DefaultQuota = 1 << 30

// Flags modify allocation behavior and are inherited by children.
type Flags uint32

const (
	// ZeroInit guarantees the returned memory reads as zeroes.
	ZeroInit Flags = 1 << 0
	// Share marks the buffer as visible to other processes. Carried
	// for provider compatibility; in-process it has no extra effect.
	Share Flags = 1 << 1
)

// Buffer is an opaque handle to heap memory. The backing bytes are
// reached through Bytes; the handle itself is what Free and
// AllocateMore key on.
type Buffer struct {
	id   uint64
	data []byte
}

// Bytes returns the backing memory. The slice stays valid until the
// owning root buffer is freed.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Size() int {
	return len(b.data)
}

type allocation struct {
	root     *Buffer
	flags    Flags
	children []*Buffer
}

func (a *allocation) totalSize() int64 {
	total := int64(a.root.Size())
	for _, child := range a.children {
		total += int64(child.Size())
	}
	return total
}

// Heap tracks root allocations and enforces the quota. Quota
// reservation is lock-free so concurrent allocators only contend when
// they touch the allocation table itself.
type Heap struct {
	logger *slog.Logger
	quota  int64

	outstandingBytes int64

	mu         sync.Mutex
	roots      *swiss.Map[uint64, *allocation]
	childCount int
	nextID     uint64
}

func New(quota int64, logger *slog.Logger) *Heap {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Heap{
		logger: logger,
		quota:  quota,
		roots:  swiss.NewMap[uint64, *allocation](61),
	}
}

func (h *Heap) reserve(size int64) error {
	for {
		currentVal := atomic.LoadInt64(&h.outstandingBytes)
		targetVal := currentVal + size

		if targetVal > h.quota {
			return errors.Wrapf(wfs.ErrOutOfMemory, "allocating %d bytes would exceed the %d byte quota", size, h.quota)
		}

		if atomic.CompareAndSwapInt64(&h.outstandingBytes, currentVal, targetVal) {
			return nil
		}
	}
}

func (h *Heap) release(size int64) {
	atomic.AddInt64(&h.outstandingBytes, -size)
}

// Allocate creates a new root buffer of size bytes.
func (h *Heap) Allocate(size int, flags Flags) (*Buffer, error) {
	if size < 0 {
		return nil, errors.Wrapf(wfs.ErrInvalidData, "negative allocation size %d", size)
	}
	if err := h.reserve(int64(size)); err != nil {
		return nil, err
	}

	// make() zeroes unconditionally, which satisfies ZeroInit; the
	// flag is still recorded so children inherit it.
	buf := &Buffer{data: make([]byte, size)}

	h.mu.Lock()
	h.nextID++
	buf.id = h.nextID
	h.roots.Put(buf.id, &allocation{root: buf, flags: flags})
	h.mu.Unlock()

	h.logger.Debug("Heap::Allocate", slog.Int("Size", size), slog.Uint64("Buffer", buf.id))
	return buf, nil
}

// AllocateMore creates a child buffer owned by root. Only a live root
// buffer may be the parent; passing a child fails with the
// invalid-buffer code.
func (h *Heap) AllocateMore(root *Buffer, size int) (*Buffer, error) {
	if root == nil {
		return nil, errors.Wrap(wfs.ErrInvalidPointer, "nil parent buffer")
	}
	if size < 0 {
		return nil, errors.Wrapf(wfs.ErrInvalidData, "negative allocation size %d", size)
	}
	if err := h.reserve(int64(size)); err != nil {
		return nil, err
	}

	h.mu.Lock()
	alloc, ok := h.roots.Get(root.id)
	if !ok || alloc.root != root {
		h.mu.Unlock()
		h.release(int64(size))
		return nil, errors.Wrap(wfs.ErrInvalidBuffer, "parent is not a live root buffer")
	}
	child := &Buffer{id: root.id, data: make([]byte, size)}
	alloc.children = append(alloc.children, child)
	h.childCount++
	childTotal := len(alloc.children)
	h.mu.Unlock()

	h.logger.Debug("Heap::AllocateMore", slog.Int("Size", size), slog.Uint64("Buffer", root.id), slog.Int("Children", childTotal))
	return child, nil
}

// Free releases a root buffer and every child allocated against it.
// Children cannot be freed individually; the root is the unit of
// release.
func (h *Heap) Free(buf *Buffer) error {
	if buf == nil {
		return errors.Wrap(wfs.ErrInvalidPointer, "nil buffer")
	}

	h.mu.Lock()
	alloc, ok := h.roots.Get(buf.id)
	if !ok || alloc.root != buf {
		h.mu.Unlock()
		return errors.Wrap(wfs.ErrInvalidBuffer, "buffer is not a live root buffer")
	}
	h.roots.Delete(buf.id)
	h.childCount -= len(alloc.children)
	h.mu.Unlock()

	h.release(alloc.totalSize())
	h.logger.Debug("Heap::Free", slog.Uint64("Buffer", buf.id), slog.Int("Children", len(alloc.children)))
	return nil
}

// OutstandingBytes reports the bytes currently charged to the quota.
func (h *Heap) OutstandingBytes() int64 {
	return atomic.LoadInt64(&h.outstandingBytes)
}

// Reset drops every allocation and returns the quota counter to zero.
func (h *Heap) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.roots = swiss.NewMap[uint64, *allocation](61)
	h.childCount = 0
	atomic.StoreInt64(&h.outstandingBytes, 0)
}

func (h *Heap) Statistics() wfs.HeapStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()

	return wfs.HeapStatistics{
		AllocationCount:  int(h.roots.Count()),
		ChildCount:       h.childCount,
		OutstandingBytes: atomic.LoadInt64(&h.outstandingBytes),
		Quota:            h.quota,
	}
}

// PrintStats writes a JSON snapshot of the heap into an open object.
func (h *Heap) PrintStats(json *jwriter.ObjectState) {
	stats := h.Statistics()

	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("ChildCount").Int(stats.ChildCount)
	json.Name("OutstandingBytes").Int(int(stats.OutstandingBytes))
	json.Name("Quota").Int(int(stats.Quota))
}

// BuildStatsString renders the heap snapshot as a JSON document.
func (h *Heap) BuildStatsString() string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	h.PrintStats(&obj)
	obj.End()
	return string(writer.Bytes())
}
