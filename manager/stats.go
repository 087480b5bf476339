package manager

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/openxfs/xfsmgr/wfs"
)

// Statistics snapshots the manager's tables and resource counters.
func (m *Manager) Statistics() wfs.ManagerStatistics {
	m.mu.Lock()
	sessions := m.sessionCount
	appHandles := m.appCount
	m.mu.Unlock()

	m.blockedMu.Lock()
	blockedThreads := len(m.blocked)
	m.blockedMu.Unlock()

	return wfs.ManagerStatistics{
		Sessions:       sessions,
		AppHandles:     appHandles,
		ActiveTimers:   m.timers.ActiveCount(),
		BlockedThreads: blockedThreads,
		Heap:           m.heap.Statistics(),
	}
}

// BuildStatsString renders the snapshot as a JSON document.
func (m *Manager) BuildStatsString() string {
	stats := m.Statistics()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	obj.Name("Sessions").Int(stats.Sessions)
	obj.Name("AppHandles").Int(stats.AppHandles)
	obj.Name("ActiveTimers").Int(stats.ActiveTimers)
	obj.Name("BlockedThreads").Int(stats.BlockedThreads)

	heapObj := obj.Name("Heap").Object()
	m.heap.PrintStats(&heapObj)
	heapObj.End()

	obj.End()
	return string(writer.Bytes())
}
