package manager

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/internal/goid"
	"github.com/openxfs/xfsmgr/wfs"
)

const (
	// blockingQueueDepth sizes the private completion queue of one
	// blocking call. One completion is expected; the headroom absorbs
	// stray events a provider posts to the wrong sink.
	blockingQueueDepth = 16

	blockingPollInterval = 500 * time.Microsecond
)

type blockedCall struct {
	canceled atomic.Bool
}

func (m *Manager) enterBlocking(gid uint64) (*blockedCall, error) {
	m.blockedMu.Lock()
	defer m.blockedMu.Unlock()

	if _, exists := m.blocked[gid]; exists {
		return nil, errors.Wrapf(wfs.ErrOpInProgress, "goroutine %d already has a blocking call in progress", gid)
	}
	call := &blockedCall{}
	m.blocked[gid] = call
	return call, nil
}

func (m *Manager) exitBlocking(gid uint64) {
	m.blockedMu.Lock()
	defer m.blockedMu.Unlock()
	delete(m.blocked, gid)
}

func (m *Manager) currentHook() wfs.BlockingHook {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	return m.hook
}

// callBlocking runs one synchronous operation: register the calling
// goroutine as blocked, start the async form against a private queue,
// then spin on the hook until the matching completion or a cancel
// arrives.
func (m *Manager) callBlocking(expect wfs.EventKind, start func(sink wfs.EventSink) (wfs.RequestID, error)) (*wfs.Result, error) {
	gid := goid.ID()
	call, err := m.enterBlocking(gid)
	if err != nil {
		return nil, err
	}
	defer m.exitBlocking(gid)

	queue := wfs.NewQueue(blockingQueueDepth)
	defer queue.Close()

	reqID, err := start(queue)
	if err != nil {
		return nil, err
	}

	for {
		if ev, ok := queue.TryReceive(); ok {
			if ev.Kind != expect || ev.Result == nil || ev.Result.RequestID != reqID {
				m.logger.Warn("discarding stray event during blocking call",
					slog.String("Kind", ev.Kind.String()), slog.Int("Expected", int(reqID)))
				continue
			}
			if ev.Result.Code != wfs.Success {
				return ev.Result, ev.Result.Code
			}
			return ev.Result, nil
		}
		if call.canceled.Load() {
			return nil, errors.Wrapf(wfs.ErrCanceled, "blocking call on goroutine %d canceled", gid)
		}

		if hook := m.currentHook(); hook != nil {
			if hook() {
				continue
			}
		} else {
			runtime.Gosched()
		}
		time.Sleep(blockingPollInterval)
	}
}

// Open opens a session and waits for the provider's completion. A
// completion reporting failure tears the session back down.
func (m *Manager) Open(req OpenRequest) (*OpenInfo, error) {
	var info *OpenInfo
	_, err := m.callBlocking(wfs.OpenComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		req.Sink = sink
		accepted, startErr := m.AsyncOpen(req)
		if startErr != nil {
			return 0, startErr
		}
		info = accepted
		return accepted.RequestID, nil
	})
	if err != nil {
		if info != nil {
			if s := m.removeSession(info.Service); s != nil {
				m.releaseModule(s)
			}
		}
		return nil, err
	}
	return info, nil
}

// Close closes a session and waits for the completion.
func (m *Manager) Close(svc wfs.Service) (*wfs.Result, error) {
	return m.callBlocking(wfs.CloseComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncClose(svc, sink)
	})
}

// Lock acquires exclusive use of a service and waits for the
// completion.
func (m *Manager) Lock(svc wfs.Service, timeout time.Duration) (*wfs.Result, error) {
	return m.callBlocking(wfs.LockComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncLock(svc, timeout, sink)
	})
}

// Unlock releases exclusive use and waits for the completion.
func (m *Manager) Unlock(svc wfs.Service) (*wfs.Result, error) {
	return m.callBlocking(wfs.UnlockComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncUnlock(svc, sink)
	})
}

// Register subscribes to unsolicited events and waits for the
// completion.
func (m *Manager) Register(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink) (*wfs.Result, error) {
	return m.callBlocking(wfs.RegisterComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncRegister(svc, classes, eventSink, sink)
	})
}

// Deregister removes an event subscription and waits for the
// completion.
func (m *Manager) Deregister(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink) (*wfs.Result, error) {
	return m.callBlocking(wfs.DeregisterComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncDeregister(svc, classes, eventSink, sink)
	})
}

// GetInfo queries service information and waits for the result.
func (m *Manager) GetInfo(svc wfs.Service, category uint32, query any, timeout time.Duration) (*wfs.Result, error) {
	return m.callBlocking(wfs.GetInfoComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncGetInfo(svc, category, query, timeout, sink)
	})
}

// Execute runs a command and waits for the result.
func (m *Manager) Execute(svc wfs.Service, command uint32, data any, timeout time.Duration) (*wfs.Result, error) {
	return m.callBlocking(wfs.ExecuteComplete, func(sink wfs.EventSink) (wfs.RequestID, error) {
		return m.AsyncExecute(svc, command, data, timeout, sink)
	})
}

// CancelBlockingCall aborts the blocking call running on the given
// goroutine. Zero targets the calling goroutine, which lets a
// blocking hook cancel its own call.
func (m *Manager) CancelBlockingCall(gid uint64) error {
	if err := m.ensureStarted(); err != nil {
		return err
	}
	if gid == 0 {
		gid = goid.ID()
	}

	m.blockedMu.Lock()
	defer m.blockedMu.Unlock()

	call, ok := m.blocked[gid]
	if !ok {
		return errors.Wrapf(wfs.ErrNoBlockingCall, "goroutine %d has no blocking call in progress", gid)
	}
	call.canceled.Store(true)
	return nil
}

// IsBlocking reports whether the calling goroutine has a blocking
// call in progress. Only a blocking hook can observe true for its own
// goroutine.
func (m *Manager) IsBlocking() bool {
	gid := goid.ID()

	m.blockedMu.Lock()
	defer m.blockedMu.Unlock()

	_, ok := m.blocked[gid]
	return ok
}

// SetBlockingHook installs hook for all blocking calls and returns
// the previously installed hook, nil if the default was in effect.
func (m *Manager) SetBlockingHook(hook wfs.BlockingHook) (wfs.BlockingHook, error) {
	if err := m.ensureStarted(); err != nil {
		return nil, err
	}
	if hook == nil {
		return nil, errors.Wrap(wfs.ErrInvalidPointer, "nil blocking hook")
	}

	m.hookMu.Lock()
	defer m.hookMu.Unlock()

	previous := m.hook
	m.hook = hook
	return previous, nil
}

// UnhookBlockingHook restores the default hook.
func (m *Manager) UnhookBlockingHook() error {
	if err := m.ensureStarted(); err != nil {
		return err
	}

	m.hookMu.Lock()
	defer m.hookMu.Unlock()

	m.hook = nil
	return nil
}
