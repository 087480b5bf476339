package manager

import (
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/conf"
	"github.com/openxfs/xfsmgr/spi"
	"github.com/openxfs/xfsmgr/wfs"
)

const (
	logicalServicesPath  = `LOGICAL_SERVICES`
	serviceProvidersPath = `SERVICE_PROVIDERS`
	providerValueName    = "provider"
	moduleValueName      = "dllname"
)

// OpenRequest describes a session open. Sink is required for
// AsyncOpen and ignored by the synchronous Open, which supplies its
// own completion endpoint.
type OpenRequest struct {
	LogicalName string
	App         wfs.App
	AppID       string
	TraceLevel  wfs.TraceLevel
	Timeout     time.Duration

	// RequiredVersions is the service-class span the application
	// needs, forwarded to the provider for negotiation.
	RequiredVersions wfs.VersionRange

	Sink wfs.EventSink
}

// OpenInfo reports an accepted open: the issued handles plus the
// provider's version negotiation results.
type OpenInfo struct {
	Service   wfs.Service
	RequestID wfs.RequestID

	SrvcVersion wfs.VersionInfo
	SPIVersion  wfs.VersionInfo
}

// lookupModulePath resolves a logical service name to a provider
// module path through the two-stage configuration lookup. Any failure
// along the way means the service is not provisioned.
func (m *Manager) lookupModulePath(logicalName string) (string, error) {
	if m.store == nil {
		return "", errors.Wrap(wfs.ErrInvalidServProv, "no configuration store")
	}
	providerKey, err := conf.LookupValue(m.store, conf.UserRoot, logicalServicesPath+`\`+logicalName, providerValueName)
	if err != nil {
		return "", errors.Wrapf(wfs.ErrInvalidServProv, "logical service %q has no provider: %v", logicalName, err)
	}
	modulePath, err := conf.LookupValue(m.store, conf.MachineRoot, serviceProvidersPath+`\`+providerKey, moduleValueName)
	if err != nil {
		return "", errors.Wrapf(wfs.ErrInvalidServProv, "provider %q has no module path: %v", providerKey, err)
	}
	return modulePath, nil
}

// AsyncOpen provisions a session and hands it to the provider. The
// session is published before the provider sees the request, so the
// provider token is usable immediately; if the provider rejects the
// open the slot is taken back.
func (m *Manager) AsyncOpen(req OpenRequest) (*OpenInfo, error) {
	if err := m.ensureStarted(); err != nil {
		return nil, err
	}
	if req.LogicalName == "" {
		return nil, errors.Wrap(wfs.ErrInvalidPointer, "empty logical service name")
	}
	if req.Sink == nil {
		return nil, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}

	modulePath, err := m.lookupModulePath(req.LogicalName)
	if err != nil {
		return nil, err
	}
	if m.loader == nil {
		return nil, errors.Wrap(wfs.ErrInternal, "no module loader")
	}
	module, err := m.loader.Load(modulePath)
	if err != nil {
		return nil, errors.Wrapf(wfs.ErrInternal, "loading provider module %q: %v", modulePath, err)
	}

	s := &session{
		logicalName: req.LogicalName,
		app:         req.App,
		module:      module,
		provider:    module.Provider(),
		traceLevel:  req.TraceLevel,
	}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		m.releaseLoadedModule(module)
		return nil, wfs.ErrNotStarted
	}
	if !m.validAppLocked(req.App) {
		m.mu.Unlock()
		m.releaseLoadedModule(module)
		return nil, errors.Wrapf(wfs.ErrInvalidAppHandle, "handle %d is not claimed", req.App)
	}
	if err := m.publishSessionLocked(s); err != nil {
		m.mu.Unlock()
		m.releaseLoadedModule(module)
		return nil, err
	}
	s.nextReq++
	reqID := s.nextReq
	m.mu.Unlock()

	info := &OpenInfo{Service: s.handle, RequestID: reqID}
	err = s.provider.Open(&spi.OpenRequest{
		Service:      s.handle,
		LogicalName:  req.LogicalName,
		App:          req.App,
		AppID:        req.AppID,
		TraceLevel:   req.TraceLevel,
		Timeout:      req.Timeout,
		RequestID:    reqID,
		Provider:     s.token,
		SPIVersions:  spiVersions,
		SrvcVersions: req.RequiredVersions,
		SPIVersion:   &info.SPIVersion,
		SrvcVersion:  &info.SrvcVersion,
		Sink:         req.Sink,
	})
	if err != nil {
		if removed := m.removeSession(s.handle); removed != nil {
			m.releaseLoadedModule(module)
		}
		return nil, err
	}

	m.logger.Debug("Manager::AsyncOpen",
		slog.String("LogicalName", req.LogicalName),
		slog.Int("Service", int(s.handle)),
		slog.Int("RequestID", int(reqID)))
	return info, nil
}

// releaseLoadedModule drops a module that never reached, or no longer
// holds, a session slot.
func (m *Manager) releaseLoadedModule(module spi.Module) {
	if err := module.Release(); err != nil {
		m.logger.Error("releasing provider module failed", slog.Any("error", err))
	}
}

// AsyncClose forwards the close and frees the session slot exactly
// once, whether or not the provider accepts.
func (m *Manager) AsyncClose(svc wfs.Service, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}

	closeErr := provider.Close(svc, reqID, sink)

	if s := m.removeSession(svc); s != nil {
		m.releaseModule(s)
	}
	m.logger.Debug("Manager::AsyncClose", slog.Int("Service", int(svc)), slog.Int("RequestID", int(reqID)))
	return reqID, closeErr
}

// AsyncLock forwards an exclusive-use request.
func (m *Manager) AsyncLock(svc wfs.Service, timeout time.Duration, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}
	return reqID, provider.Lock(svc, timeout, reqID, sink)
}

// AsyncUnlock forwards a lock release.
func (m *Manager) AsyncUnlock(svc wfs.Service, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}
	return reqID, provider.Unlock(svc, reqID, sink)
}

// AsyncRegister subscribes eventSink to the given unsolicited event
// classes.
func (m *Manager) AsyncRegister(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	if eventSink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidRegEndpoint, "nil event sink")
	}
	if classes == 0 {
		return 0, errors.Wrap(wfs.ErrInvalidEventClass, "empty event class mask")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}
	return reqID, provider.Register(svc, classes, eventSink, reqID, sink)
}

// AsyncDeregister removes a subscription. A nil eventSink drops every
// subscriber of the given classes.
func (m *Manager) AsyncDeregister(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}
	return reqID, provider.Deregister(svc, classes, eventSink, reqID, sink)
}

// AsyncGetInfo forwards an information query.
func (m *Manager) AsyncGetInfo(svc wfs.Service, category uint32, query any, timeout time.Duration, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}
	return reqID, provider.GetInfo(svc, category, query, timeout, reqID, sink)
}

// AsyncExecute forwards a command.
func (m *Manager) AsyncExecute(svc wfs.Service, command uint32, data any, timeout time.Duration, sink wfs.EventSink) (wfs.RequestID, error) {
	if sink == nil {
		return 0, errors.Wrap(wfs.ErrInvalidEndpoint, "nil completion sink")
	}
	provider, reqID, err := m.resolve(svc)
	if err != nil {
		return 0, err
	}
	return reqID, provider.Execute(svc, command, data, timeout, reqID, sink)
}

// CancelAsyncRequest asks the provider to cancel a pending request.
// No new request id is issued for the cancel itself.
func (m *Manager) CancelAsyncRequest(svc wfs.Service, reqID wfs.RequestID) error {
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
	provider := s.provider
	m.mu.Unlock()

	if reqID == 0 {
		return errors.Wrap(wfs.ErrInvalidReqID, "request id zero")
	}
	return provider.CancelAsyncRequest(svc, reqID)
}

// ReleaseProvider is the provider-side teardown path: a provider
// returns the token it was handed at open time and the owning session
// is released.
func (m *Manager) ReleaseProvider(token wfs.ProviderToken) error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return wfs.ErrNotStarted
	}
	svc, ok := m.tokens[token]
	m.mu.Unlock()

	if !ok {
		return errors.Wrapf(wfs.ErrInvalidProvider, "unknown provider token %d", token)
	}
	if s := m.removeSession(svc); s != nil {
		m.releaseModule(s)
	}
	m.logger.Debug("Manager::ReleaseProvider", slog.Int("Service", int(svc)))
	return nil
}
