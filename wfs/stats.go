package wfs

// HeapStatistics is a point-in-time snapshot of the buffer heap.
type HeapStatistics struct {
	// AllocationCount counts live root buffers.
	AllocationCount int
	// ChildCount counts live child buffers across all roots.
	ChildCount int
	// OutstandingBytes is the total reserved against the quota.
	OutstandingBytes int64
	Quota            int64
}

// ManagerStatistics is a point-in-time snapshot of manager state.
type ManagerStatistics struct {
	Sessions       int
	AppHandles     int
	ActiveTimers   int
	BlockedThreads int
	Heap           HeapStatistics
}
