// Package manager implements the session middleware that brokers
// application requests to dynamically loaded service provider modules.
// It owns the handle tables, the shared buffer heap, the timer
// registry and the bridge that turns provider completions back into
// synchronous call results.
package manager

import (
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/openxfs/xfsmgr/conf"
	"github.com/openxfs/xfsmgr/heap"
	"github.com/openxfs/xfsmgr/spi"
	"github.com/openxfs/xfsmgr/timer"
	"github.com/openxfs/xfsmgr/wfs"
)

const (
	// MaxAppHandles bounds the application handle table.
	MaxAppHandles = 8192
	// MaxSessions bounds the session table.
	MaxSessions = 8192
)

var (
	lowestAPIVersion  = wfs.NewVersion(2, 0)
	highestAPIVersion = wfs.NewVersion(3, 30)

	// spiVersions is the SPI span offered to providers at open time.
	spiVersions = wfs.NewVersionRange(wfs.NewVersion(3, 0), wfs.NewVersion(3, 30))
)

// Options configures a Manager. Store and Loader are required for
// opening sessions; a Manager without them can still start up and
// serve buffers and timers.
type Options struct {
	Store  conf.Store
	Loader spi.Loader
	Logger *slog.Logger

	// HeapQuota overrides the default buffer quota when positive.
	HeapQuota int64
}

// Manager is the facade every client call goes through. All methods
// are safe for concurrent use.
type Manager struct {
	logger *slog.Logger
	store  conf.Store
	loader spi.Loader
	heap   *heap.Heap
	timers *timer.Registry

	mu           sync.Mutex
	started      bool
	apps         []bool
	appCount     int
	sessions     []*session
	sessionCount int
	tokens       map[wfs.ProviderToken]wfs.Service
	nextToken    wfs.ProviderToken

	hookMu sync.Mutex
	hook   wfs.BlockingHook

	blockedMu sync.Mutex
	blocked   map[uint64]*blockedCall
}

func New(options Options) *Manager {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:   logger,
		store:    options.Store,
		loader:   options.Loader,
		heap:     heap.New(options.HeapQuota, logger),
		timers:   timer.New(logger),
		apps:     make([]bool, MaxAppHandles),
		sessions: make([]*session, MaxSessions),
		tokens:   map[wfs.ProviderToken]wfs.Service{},
		blocked:  map[uint64]*blockedCall{},
	}
}

// StartUp negotiates an API version and arms the manager. The version
// info is filled in whenever negotiation itself succeeds, including
// the already-started case.
func (m *Manager) StartUp(required wfs.VersionRange) (wfs.VersionInfo, error) {
	if !required.Valid() {
		return wfs.VersionInfo{}, errors.Wrapf(wfs.ErrInternal, "inverted version range %s", required)
	}
	if highestAPIVersion.Less(required.Start) {
		return wfs.VersionInfo{}, errors.Wrapf(wfs.ErrAPIVerTooHigh, "requested range %s starts above %s", required, highestAPIVersion)
	}
	if required.End.Less(lowestAPIVersion) {
		return wfs.VersionInfo{}, errors.Wrapf(wfs.ErrAPIVerTooLow, "requested range %s ends below %s", required, lowestAPIVersion)
	}

	negotiated := required.End
	if highestAPIVersion.Less(negotiated) {
		negotiated = highestAPIVersion
	}
	info := wfs.VersionInfo{
		Version:      negotiated,
		LowVersion:   lowestAPIVersion,
		HighVersion:  highestAPIVersion,
		Description:  "openxfs session manager",
		SystemStatus: "operational",
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return info, wfs.ErrAlreadyStarted
	}
	m.started = true

	m.logger.Debug("Manager::StartUp", slog.String("Requested", required.String()), slog.String("Version", negotiated.String()))
	return info, nil
}

// CleanUp releases every session, resets the handle tables, drops all
// buffers and timers and disarms the manager.
func (m *Manager) CleanUp() error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return wfs.ErrNotStarted
	}

	live := make([]*session, 0, m.sessionCount)
	for i, s := range m.sessions {
		if s != nil {
			live = append(live, s)
			m.sessions[i] = nil
		}
	}
	m.sessionCount = 0
	for i := range m.apps {
		m.apps[i] = false
	}
	m.appCount = 0
	m.tokens = map[wfs.ProviderToken]wfs.Service{}
	m.started = false
	m.mu.Unlock()

	for _, s := range live {
		m.releaseModule(s)
	}
	m.timers.Reset()
	m.heap.Reset()

	m.logger.Debug("Manager::CleanUp", slog.Int("Sessions", len(live)))
	return nil
}

// Started reports whether the manager is between StartUp and CleanUp.
func (m *Manager) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *Manager) ensureStarted() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return wfs.ErrNotStarted
	}
	return nil
}
