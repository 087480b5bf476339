package manager_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openxfs/xfsmgr/conf"
	"github.com/openxfs/xfsmgr/manager"
	"github.com/openxfs/xfsmgr/spi"
	"github.com/openxfs/xfsmgr/spi/spitest"
	"github.com/openxfs/xfsmgr/wfs"
)

const modulePath = "some.dll"

var apiRange = wfs.NewVersionRange(wfs.NewVersion(2, 0), wfs.NewVersion(3, 30))

type env struct {
	m        *manager.Manager
	store    *conf.MapStore
	registry *spi.Registry
	fake     *spitest.FakeProvider
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := conf.NewMapStore()
	store.SetValue(conf.UserRoot, `LOGICAL_SERVICES\cwd`, "provider", "serviceprovider")
	store.SetValue(conf.MachineRoot, `SERVICE_PROVIDERS\serviceprovider`, "dllname", modulePath)

	registry := spi.NewRegistry()
	fake := spitest.NewFakeProvider()
	registry.Register(modulePath, func() spi.Provider { return fake })

	return &env{
		m:        manager.New(manager.Options{Store: store, Loader: registry}),
		store:    store,
		registry: registry,
		fake:     fake,
	}
}

func startedEnv(t *testing.T) *env {
	t.Helper()

	e := newEnv(t)
	_, err := e.m.StartUp(apiRange)
	require.NoError(t, err)
	return e
}

func (e *env) open(t *testing.T) wfs.Service {
	t.Helper()

	info, err := e.m.Open(manager.OpenRequest{LogicalName: "cwd", RequiredVersions: apiRange})
	require.NoError(t, err)
	return info.Service
}

func TestStartUpNegotiatesRequestedEnd(t *testing.T) {
	m := manager.New(manager.Options{})

	info, err := m.StartUp(wfs.NewVersionRange(wfs.NewVersion(2, 0), wfs.NewVersion(3, 10)))
	require.NoError(t, err)
	require.Equal(t, wfs.NewVersion(3, 10), info.Version)
	require.Equal(t, wfs.NewVersion(2, 0), info.LowVersion)
	require.Equal(t, wfs.NewVersion(3, 30), info.HighVersion)
	require.NotEmpty(t, info.Description)
}

func TestStartUpClampsToSupportedHigh(t *testing.T) {
	m := manager.New(manager.Options{})

	info, err := m.StartUp(wfs.NewVersionRange(wfs.NewVersion(2, 0), wfs.NewVersion(9, 99)))
	require.NoError(t, err)
	require.Equal(t, wfs.NewVersion(3, 30), info.Version)
}

func TestStartUpRejectsBadRanges(t *testing.T) {
	m := manager.New(manager.Options{})

	_, err := m.StartUp(wfs.NewVersionRange(wfs.NewVersion(3, 10), wfs.NewVersion(3, 0)))
	require.ErrorIs(t, err, wfs.ErrInternal)

	_, err = m.StartUp(wfs.NewVersionRange(wfs.NewVersion(3, 31), wfs.NewVersion(4, 0)))
	require.ErrorIs(t, err, wfs.ErrAPIVerTooHigh)

	_, err = m.StartUp(wfs.NewVersionRange(wfs.NewVersion(1, 0), wfs.NewVersion(1, 99)))
	require.ErrorIs(t, err, wfs.ErrAPIVerTooLow)

	require.False(t, m.Started())
}

func TestStartUpTwiceStillReportsVersion(t *testing.T) {
	m := manager.New(manager.Options{})

	_, err := m.StartUp(apiRange)
	require.NoError(t, err)

	info, err := m.StartUp(apiRange)
	require.ErrorIs(t, err, wfs.ErrAlreadyStarted)
	require.Equal(t, wfs.NewVersion(3, 30), info.Version)
	require.True(t, m.Started())
}

func TestCleanUpRequiresStartUp(t *testing.T) {
	m := manager.New(manager.Options{})

	require.ErrorIs(t, m.CleanUp(), wfs.ErrNotStarted)

	_, err := m.StartUp(apiRange)
	require.NoError(t, err)
	require.NoError(t, m.CleanUp())
	require.ErrorIs(t, m.CleanUp(), wfs.ErrNotStarted)
}

func TestEntryPointsRequireStartUp(t *testing.T) {
	e := newEnv(t)
	q := wfs.NewQueue(4)

	_, err := e.m.CreateAppHandle()
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.DestroyAppHandle(1), wfs.ErrNotStarted)

	_, err = e.m.AsyncOpen(manager.OpenRequest{LogicalName: "cwd", Sink: q})
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	_, err = e.m.AsyncExecute(1, 1, nil, 0, q)
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	_, err = e.m.Execute(1, 1, nil, 0)
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.CancelAsyncRequest(1, 1), wfs.ErrNotStarted)

	_, err = e.m.AllocateBuffer(16, 0)
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.FreeBuffer(nil), wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.FreeResult(nil), wfs.ErrNotStarted)

	_, err = e.m.SetTimer(q, nil, time.Second)
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.KillTimer(1), wfs.ErrNotStarted)

	_, err = e.m.SetBlockingHook(func() bool { return false })
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.UnhookBlockingHook(), wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.CancelBlockingCall(0), wfs.ErrNotStarted)

	require.ErrorIs(t, e.m.OutputTraceData("x"), wfs.ErrNotStarted)
	_, err = e.m.GetTraceLevel(1)
	require.ErrorIs(t, err, wfs.ErrNotStarted)
	require.ErrorIs(t, e.m.SetTraceLevel(1, wfs.TraceAPI), wfs.ErrNotStarted)
}

func TestAppHandleLifecycle(t *testing.T) {
	e := startedEnv(t)

	first, err := e.m.CreateAppHandle()
	require.NoError(t, err)
	require.Equal(t, wfs.App(1), first)

	second, err := e.m.CreateAppHandle()
	require.NoError(t, err)
	require.Equal(t, wfs.App(2), second)

	require.NoError(t, e.m.DestroyAppHandle(first))

	// Lowest free slot is reused.
	third, err := e.m.CreateAppHandle()
	require.NoError(t, err)
	require.Equal(t, wfs.App(1), third)
}

func TestDestroyAppHandleValidation(t *testing.T) {
	e := startedEnv(t)

	require.ErrorIs(t, e.m.DestroyAppHandle(0), wfs.ErrInvalidAppHandle)
	require.ErrorIs(t, e.m.DestroyAppHandle(5), wfs.ErrInvalidAppHandle)

	app, err := e.m.CreateAppHandle()
	require.NoError(t, err)
	require.NoError(t, e.m.DestroyAppHandle(app))
	require.ErrorIs(t, e.m.DestroyAppHandle(app), wfs.ErrInvalidAppHandle)
}

func TestCleanUpReleasesEverything(t *testing.T) {
	e := startedEnv(t)
	e.open(t)

	_, err := e.m.CreateAppHandle()
	require.NoError(t, err)
	_, err = e.m.AllocateBuffer(128, 0)
	require.NoError(t, err)
	q := wfs.NewQueue(4)
	_, err = e.m.SetTimer(q, nil, time.Hour)
	require.NoError(t, err)

	require.NoError(t, e.m.CleanUp())

	require.Equal(t, 1, e.registry.ReleaseCount(modulePath))
	calls := e.fake.Calls()
	require.Equal(t, "UnloadService", calls[len(calls)-1].Op)

	_, err = e.m.StartUp(apiRange)
	require.NoError(t, err)
	stats := e.m.Statistics()
	require.Zero(t, stats.Sessions)
	require.Zero(t, stats.AppHandles)
	require.Zero(t, stats.ActiveTimers)
	require.Zero(t, stats.Heap.OutstandingBytes)
}

func TestStatistics(t *testing.T) {
	e := startedEnv(t)
	e.open(t)

	_, err := e.m.CreateAppHandle()
	require.NoError(t, err)
	_, err = e.m.AllocateBuffer(64, 0)
	require.NoError(t, err)
	q := wfs.NewQueue(4)
	_, err = e.m.SetTimer(q, nil, time.Hour)
	require.NoError(t, err)

	stats := e.m.Statistics()
	require.Equal(t, 1, stats.Sessions)
	require.Equal(t, 1, stats.AppHandles)
	require.Equal(t, 1, stats.ActiveTimers)
	require.Zero(t, stats.BlockedThreads)
	require.Equal(t, int64(64), stats.Heap.OutstandingBytes)

	statsString := e.m.BuildStatsString()
	require.Contains(t, statsString, `"Sessions":1`)
	require.Contains(t, statsString, `"OutstandingBytes":64`)
}
