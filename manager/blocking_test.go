package manager_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openxfs/xfsmgr/internal/goid"
	"github.com/openxfs/xfsmgr/wfs"
)

func TestExecuteWaitsForDelayedCompletion(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	e.fake.SetDelay(10 * time.Millisecond)
	e.fake.SetCompletionData("cash dispensed")

	result, err := e.m.Execute(svc, 302, "dispense", time.Second)
	require.NoError(t, err)
	require.Equal(t, wfs.Success, result.Code)
	require.Equal(t, wfs.RequestID(2), result.RequestID)
	require.Equal(t, uint32(302), result.Command)
	require.Equal(t, "cash dispensed", result.Data)
}

func TestExecuteReturnsProviderFailureCode(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	e.fake.SetCompletionCode(wfs.ErrHardwareError)

	result, err := e.m.Execute(svc, 302, nil, time.Second)
	require.ErrorIs(t, err, wfs.ErrHardwareError)
	require.NotNil(t, result)
	require.Equal(t, wfs.ErrHardwareError, result.Code)
}

func TestSyncCallsCoverAllOperations(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	q := wfs.NewQueue(4)

	result, err := e.m.Lock(svc, time.Second)
	require.NoError(t, err)
	require.Equal(t, wfs.RequestID(2), result.RequestID)

	result, err = e.m.Unlock(svc)
	require.NoError(t, err)
	require.Equal(t, wfs.RequestID(3), result.RequestID)

	result, err = e.m.Register(svc, wfs.ServiceEvents, q)
	require.NoError(t, err)
	require.Equal(t, wfs.RequestID(4), result.RequestID)

	result, err = e.m.GetInfo(svc, 401, nil, time.Second)
	require.NoError(t, err)
	require.Equal(t, wfs.RequestID(5), result.RequestID)

	result, err = e.m.Deregister(svc, wfs.ServiceEvents, q)
	require.NoError(t, err)
	require.Equal(t, wfs.RequestID(6), result.RequestID)

	result, err = e.m.Close(svc)
	require.NoError(t, err)
	require.Equal(t, wfs.RequestID(7), result.RequestID)
}

func TestNestedBlockingCallFromHookFails(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	e.fake.SetDelay(20 * time.Millisecond)

	var once sync.Once
	var nestedErr error
	_, err := e.m.SetBlockingHook(func() bool {
		once.Do(func() {
			_, nestedErr = e.m.Execute(svc, 2, nil, 0)
		})
		return false
	})
	require.NoError(t, err)

	_, err = e.m.Execute(svc, 1, nil, 0)
	require.NoError(t, err)
	require.ErrorIs(t, nestedErr, wfs.ErrOpInProgress)
}

func TestCancelBlockingCallFromAnotherGoroutine(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	e.fake.SuppressCompletion("Execute")

	gid := goid.ID()
	cancelErr := make(chan error, 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancelErr <- e.m.CancelBlockingCall(gid)
	}()

	result, err := e.m.Execute(svc, 1, nil, 0)
	require.ErrorIs(t, err, wfs.ErrCanceled)
	require.Nil(t, result)
	require.NoError(t, <-cancelErr)
}

func TestHookCancelsItsOwnCall(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	e.fake.SuppressCompletion("Execute")

	sawBlocking := false
	_, err := e.m.SetBlockingHook(func() bool {
		sawBlocking = e.m.IsBlocking()
		_ = e.m.CancelBlockingCall(0)
		return false
	})
	require.NoError(t, err)

	_, err = e.m.Execute(svc, 1, nil, 0)
	require.ErrorIs(t, err, wfs.ErrCanceled)
	require.True(t, sawBlocking)
	require.False(t, e.m.IsBlocking())
}

func TestCancelBlockingCallWithoutOneFails(t *testing.T) {
	e := startedEnv(t)

	require.ErrorIs(t, e.m.CancelBlockingCall(0), wfs.ErrNoBlockingCall)
	require.ErrorIs(t, e.m.CancelBlockingCall(123456), wfs.ErrNoBlockingCall)
}

func TestSetBlockingHookReturnsPrevious(t *testing.T) {
	e := startedEnv(t)

	firstRan := false
	first := func() bool { firstRan = true; return false }

	previous, err := e.m.SetBlockingHook(first)
	require.NoError(t, err)
	require.Nil(t, previous)

	previous, err = e.m.SetBlockingHook(func() bool { return false })
	require.NoError(t, err)
	require.NotNil(t, previous)
	previous()
	require.True(t, firstRan)

	_, err = e.m.SetBlockingHook(nil)
	require.ErrorIs(t, err, wfs.ErrInvalidPointer)

	require.NoError(t, e.m.UnhookBlockingHook())
	previous, err = e.m.SetBlockingHook(first)
	require.NoError(t, err)
	require.Nil(t, previous)
}

func TestBlockingCallsOnSeparateGoroutinesDoNotCollide(t *testing.T) {
	e := startedEnv(t)
	svc := e.open(t)
	e.fake.SetDelay(5 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.m.Execute(svc, 1, nil, 0)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Zero(t, e.m.Statistics().BlockedThreads)
}
