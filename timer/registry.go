// Package timer implements the one-shot timer registry. Timer ids are
// slot indexes claimed by compare-and-swap, so concurrent SetTimer,
// KillTimer and expiry never hand the same id to two owners.
package timer

import (
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/wfs"
)

// SlotCount bounds the number of concurrently live timers.
const SlotCount = 65535

type pending struct {
	sink    wfs.EventSink
	context any
	timer   atomic.Pointer[time.Timer]
}

// Registry owns the timer slot table. The zero value is not usable;
// call New.
type Registry struct {
	logger *slog.Logger
	slots  []atomic.Pointer[pending]
	active atomic.Int32
}

func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		slots:  make([]atomic.Pointer[pending], SlotCount),
	}
}

// SetTimer schedules a one-shot timer. When the interval elapses the
// registry posts a TimerEvent carrying the id and context to sink and
// retires the id in the same step, so expiry and KillTimer can never
// both claim the same timer.
func (r *Registry) SetTimer(sink wfs.EventSink, context any, interval time.Duration) (wfs.TimerID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil event sink")
	}
	if interval <= 0 {
		return 0, errors.Wrapf(wfs.ErrInvalidData, "non-positive timer interval %s", interval)
	}

	p := &pending{sink: sink, context: context}
	for slot := range r.slots {
		if !r.slots[slot].CompareAndSwap(nil, p) {
			continue
		}

		id := wfs.TimerID(slot + 1)
		r.active.Add(1)
		// A kill racing this store finds a nil timer and relies on the
		// expiry CAS failing instead; see fire.
		p.timer.Store(time.AfterFunc(interval, func() {
			r.fire(id, p)
		}))
		r.logger.Debug("Registry::SetTimer", slog.Int("Timer", int(id)), slog.Duration("Interval", interval))
		return id, nil
	}

	return 0, errors.Wrap(wfs.ErrNoTimer, "all timer slots are in use")
}

// fire retires the slot and posts exactly once. The CAS on the exact
// pending pointer makes a stale callback for a reused slot a no-op.
func (r *Registry) fire(id wfs.TimerID, p *pending) {
	slot := int(id) - 1
	if !r.slots[slot].CompareAndSwap(p, nil) {
		return
	}
	r.active.Add(-1)

	err := p.sink.Post(wfs.Event{
		Kind:    wfs.TimerEvent,
		TimerID: id,
		Context: p.context,
	})
	if err != nil {
		r.logger.Error("timer event dropped", slog.Int("Timer", int(id)), slog.Any("error", err))
	}
}

// KillTimer cancels a live timer. An id that never existed, already
// fired or was already killed fails with the invalid-timer code.
func (r *Registry) KillTimer(id wfs.TimerID) error {
	if id == 0 || int(id) > SlotCount {
		return errors.Wrapf(wfs.ErrInvalidTimer, "timer id %d out of range", id)
	}

	p := r.slots[int(id)-1].Swap(nil)
	if p == nil {
		return errors.Wrapf(wfs.ErrInvalidTimer, "timer %d is not live", id)
	}
	r.active.Add(-1)

	if t := p.timer.Load(); t != nil {
		t.Stop()
	}
	r.logger.Debug("Registry::KillTimer", slog.Int("Timer", int(id)))
	return nil
}

// Reset kills every live timer.
func (r *Registry) Reset() {
	for slot := range r.slots {
		p := r.slots[slot].Swap(nil)
		if p == nil {
			continue
		}
		r.active.Add(-1)
		if t := p.timer.Load(); t != nil {
			t.Stop()
		}
	}
}

// ActiveCount reports the number of live timers.
func (r *Registry) ActiveCount() int {
	return int(r.active.Load())
}
