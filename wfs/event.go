package wfs

import "time"

// Service is a session handle issued by the manager. Zero is never a
// valid handle.
type Service uint16

// App is an application handle issued by the manager. Zero means "no
// application", which sessions accept as a default owner.
type App uint16

// RequestID identifies one dispatched operation within its session.
type RequestID uint32

// TimerID identifies a live timer. Zero is never a valid id.
type TimerID uint16

// ProviderToken is the opaque manager context handed to a provider at
// open time. The provider returns it verbatim when it asks the manager
// to release it.
type ProviderToken uint64

// TraceLevel is a bitmask of trace categories.
type TraceLevel uint32

const (
	TraceAPI    TraceLevel = 1 << 0
	TraceAllAPI TraceLevel = 1 << 1
	TracePrintf TraceLevel = 1 << 2
	TraceNotify TraceLevel = 1 << 3
)

// EventClass is a bitmask of unsolicited event classes a client can
// register for.
type EventClass uint32

const (
	ServiceEvents EventClass = 1 << 0
	UserEvents    EventClass = 1 << 1
	SystemEvents  EventClass = 1 << 2
	ExecuteEvents EventClass = 1 << 3
)

// EventKind discriminates the messages a sink can receive: one
// completion kind per asynchronous operation, the four unsolicited
// event classes, and timer expiry.
type EventKind int

const (
	OpenComplete EventKind = iota + 1
	CloseComplete
	LockComplete
	UnlockComplete
	RegisterComplete
	DeregisterComplete
	GetInfoComplete
	ExecuteComplete

	ExecuteEvent
	ServiceEvent
	UserEvent
	SystemEvent

	TimerEvent
)

var eventKindNames = map[EventKind]string{
	OpenComplete:       "OpenComplete",
	CloseComplete:      "CloseComplete",
	LockComplete:       "LockComplete",
	UnlockComplete:     "UnlockComplete",
	RegisterComplete:   "RegisterComplete",
	DeregisterComplete: "DeregisterComplete",
	GetInfoComplete:    "GetInfoComplete",
	ExecuteComplete:    "ExecuteComplete",
	ExecuteEvent:       "ExecuteEvent",
	ServiceEvent:       "ServiceEvent",
	UserEvent:          "UserEvent",
	SystemEvent:        "SystemEvent",
	TimerEvent:         "TimerEvent",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Completion reports whether the kind is an operation completion as
// opposed to an unsolicited or timer event.
func (k EventKind) Completion() bool {
	return k >= OpenComplete && k <= ExecuteComplete
}

// Result is the payload of a completion or unsolicited event: which
// request it answers, the session it belongs to, the provider's result
// code and the operation output. Data may hold a heap buffer; release
// it through the manager when done.
type Result struct {
	RequestID RequestID
	Service   Service
	Timestamp time.Time
	Code      Code

	// Command carries the command code of an execute completion or the
	// event id of an unsolicited event.
	Command uint32
	Data    any
}

// Event is one message delivered to an EventSink.
type Event struct {
	Kind    EventKind
	Service Service

	// TimerID and Context are set for TimerEvent only.
	TimerID TimerID
	Context any

	// Result is set for completions and unsolicited events.
	Result *Result
}

// EventSink receives completion and event messages. Post must not
// block: providers call it from their own goroutines and the timer
// registry calls it from timer callbacks.
type EventSink interface {
	Post(ev Event) error
}

// BlockingHook is a cooperative yield installed around synchronous
// calls. It is invoked repeatedly while a blocking call waits; the
// return value reports whether the hook did useful work, letting the
// caller skip its idle backoff.
type BlockingHook func() bool
