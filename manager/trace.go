package manager

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/wfs"
)

const validTraceLevels = wfs.TraceAPI | wfs.TraceAllAPI | wfs.TracePrintf | wfs.TraceNotify

// SetTraceLevel stores the session's trace level and forwards it to
// the provider.
func (m *Manager) SetTraceLevel(svc wfs.Service, level wfs.TraceLevel) error {
	if level&^validTraceLevels != 0 {
		return errors.Wrapf(wfs.ErrInvalidTraceLevel, "unknown trace bits in %#x", uint32(level))
	}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return wfs.ErrNotStarted
	}
	s, err := m.lookupLocked(svc)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	s.traceLevel = level
	provider := s.provider
	m.mu.Unlock()

	return provider.SetTraceLevel(svc, level)
}

// GetTraceLevel reports the session's current trace level.
func (m *Manager) GetTraceLevel(svc wfs.Service) (wfs.TraceLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return 0, wfs.ErrNotStarted
	}
	s, err := m.lookupLocked(svc)
	if err != nil {
		return 0, err
	}
	return s.traceLevel, nil
}

// OutputTraceData writes application trace text to the manager's log.
func (m *Manager) OutputTraceData(data string) error {
	if err := m.ensureStarted(); err != nil {
		return err
	}
	m.logger.Debug("XFS TRACE", slog.String("Data", data))
	return nil
}
