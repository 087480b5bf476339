package manager

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/spi"
	"github.com/openxfs/xfsmgr/wfs"
)

// session is one open service connection. The handle is the slot
// index plus one, so handle zero stays invalid.
type session struct {
	handle      wfs.Service
	logicalName string
	app         wfs.App
	token       wfs.ProviderToken
	module      spi.Module
	provider    spi.Provider
	traceLevel  wfs.TraceLevel

	// nextReq is bumped under the manager lock before every dispatch,
	// so the first request of a session is id 1. It wraps naturally
	// after 2^32-1 requests.
	nextReq wfs.RequestID
}

// publishSessionLocked installs s in the lowest free slot and assigns
// its handle and provider token. Caller holds m.mu.
func (m *Manager) publishSessionLocked(s *session) error {
	for i := range m.sessions {
		if m.sessions[i] == nil {
			s.handle = wfs.Service(i + 1)
			m.nextToken++
			s.token = m.nextToken
			m.sessions[i] = s
			m.sessionCount++
			m.tokens[s.token] = s.handle
			return nil
		}
	}
	return errors.Wrap(wfs.ErrInternal, "session table is full")
}

func (m *Manager) lookupLocked(svc wfs.Service) (*session, error) {
	if svc == 0 || int(svc) > MaxSessions || m.sessions[svc-1] == nil {
		return nil, errors.Wrapf(wfs.ErrInvalidService, "no session with handle %d", svc)
	}
	return m.sessions[svc-1], nil
}

// resolve looks a session up and issues the next request id for it.
func (m *Manager) resolve(svc wfs.Service) (spi.Provider, wfs.RequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, 0, wfs.ErrNotStarted
	}
	s, err := m.lookupLocked(svc)
	if err != nil {
		return nil, 0, err
	}
	s.nextReq++
	return s.provider, s.nextReq, nil
}

// removeSession frees the slot and forgets the provider token. It is
// idempotent: a handle already removed returns nil.
func (m *Manager) removeSession(svc wfs.Service) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc == 0 || int(svc) > MaxSessions || m.sessions[svc-1] == nil {
		return nil
	}
	s := m.sessions[svc-1]
	m.sessions[svc-1] = nil
	m.sessionCount--
	delete(m.tokens, s.token)
	return s
}

// releaseModule asks the provider whether unload is ok, then drops the
// module reference. Failures are logged, not propagated: by this point
// the session slot is already gone.
func (m *Manager) releaseModule(s *session) {
	if err := s.provider.UnloadService(); err != nil {
		m.logger.Error("provider refused unload", slog.Int("Service", int(s.handle)), slog.Any("error", err))
	}
	if err := s.module.Release(); err != nil {
		m.logger.Error("releasing provider module failed", slog.Int("Service", int(s.handle)), slog.Any("error", err))
	}
}
