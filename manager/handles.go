package manager

import (
	"github.com/cockroachdb/errors"

	"github.com/openxfs/xfsmgr/wfs"
)

// CreateAppHandle claims the lowest free application handle.
func (m *Manager) CreateAppHandle() (wfs.App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return 0, wfs.ErrNotStarted
	}
	for i := range m.apps {
		if !m.apps[i] {
			m.apps[i] = true
			m.appCount++
			return wfs.App(i + 1), nil
		}
	}
	return 0, errors.Wrap(wfs.ErrInternal, "application handle table is full")
}

// DestroyAppHandle releases a claimed application handle.
func (m *Manager) DestroyAppHandle(app wfs.App) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return wfs.ErrNotStarted
	}
	if app == 0 || int(app) > MaxAppHandles || !m.apps[app-1] {
		return errors.Wrapf(wfs.ErrInvalidAppHandle, "handle %d is not claimed", app)
	}
	m.apps[app-1] = false
	m.appCount--
	return nil
}

func (m *Manager) validAppLocked(app wfs.App) bool {
	if app == 0 {
		// No-owner sessions are allowed.
		return true
	}
	return int(app) <= MaxAppHandles && m.apps[app-1]
}
