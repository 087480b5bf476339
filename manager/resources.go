package manager

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openxfs/xfsmgr/heap"
	"github.com/openxfs/xfsmgr/wfs"
)

// AllocateBuffer allocates a root buffer from the shared heap.
func (m *Manager) AllocateBuffer(size int, flags heap.Flags) (*heap.Buffer, error) {
	if err := m.ensureStarted(); err != nil {
		return nil, err
	}
	return m.heap.Allocate(size, flags)
}

// AllocateMore allocates a child buffer owned by an existing root.
func (m *Manager) AllocateMore(root *heap.Buffer, size int) (*heap.Buffer, error) {
	if err := m.ensureStarted(); err != nil {
		return nil, err
	}
	return m.heap.AllocateMore(root, size)
}

// FreeBuffer releases a root buffer and its children.
func (m *Manager) FreeBuffer(buf *heap.Buffer) error {
	if err := m.ensureStarted(); err != nil {
		return err
	}
	return m.heap.Free(buf)
}

// FreeResult releases the heap buffer a completion result carries, if
// any.
func (m *Manager) FreeResult(result *wfs.Result) error {
	if err := m.ensureStarted(); err != nil {
		return err
	}
	if result == nil {
		return errors.Wrap(wfs.ErrInvalidPointer, "nil result")
	}
	if buf, ok := result.Data.(*heap.Buffer); ok && buf != nil {
		return m.heap.Free(buf)
	}
	return nil
}

// SetTimer schedules a one-shot timer delivering to sink.
func (m *Manager) SetTimer(sink wfs.EventSink, context any, interval time.Duration) (wfs.TimerID, error) {
	if err := m.ensureStarted(); err != nil {
		return 0, err
	}
	return m.timers.SetTimer(sink, context, interval)
}

// KillTimer cancels a live timer.
func (m *Manager) KillTimer(id wfs.TimerID) error {
	if err := m.ensureStarted(); err != nil {
		return err
	}
	return m.timers.KillTimer(id)
}
