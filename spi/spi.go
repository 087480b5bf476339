// Package spi defines the contract between the manager and service
// provider modules. A provider accepts requests synchronously and
// delivers every outcome asynchronously by posting a completion event
// to the sink supplied with the request.
package spi

import (
	"time"

	"github.com/openxfs/xfsmgr/wfs"
)

// OpenRequest carries everything a provider needs to establish a
// session. The manager has already published the session handle when
// Open is called, so the provider may use its token immediately.
type OpenRequest struct {
	Service     wfs.Service
	LogicalName string

	App        wfs.App
	AppID      string
	TraceLevel wfs.TraceLevel
	Timeout    time.Duration
	RequestID  wfs.RequestID

	// Provider is the opaque token identifying this session to the
	// manager; the provider returns it through the manager's
	// ReleaseProvider when it wants the session torn down.
	Provider wfs.ProviderToken

	// SPIVersions is the SPI span the manager supports; SrvcVersions
	// is the service-class span the application requires.
	SPIVersions  wfs.VersionRange
	SrvcVersions wfs.VersionRange

	// SPIVersion and SrvcVersion are filled in by the provider with
	// its negotiation results before Open returns.
	SPIVersion  *wfs.VersionInfo
	SrvcVersion *wfs.VersionInfo

	// Sink receives the open completion and all later unsolicited
	// events for the session.
	Sink wfs.EventSink
}

// Provider is the capability surface of one loaded service provider.
//
// Every request-carrying method returns only the acceptance result;
// the operation outcome arrives later as a completion event posted to
// the supplied sink with the given request id.
type Provider interface {
	Open(req *OpenRequest) error
	Close(svc wfs.Service, reqID wfs.RequestID, sink wfs.EventSink) error

	Lock(svc wfs.Service, timeout time.Duration, reqID wfs.RequestID, sink wfs.EventSink) error
	Unlock(svc wfs.Service, reqID wfs.RequestID, sink wfs.EventSink) error

	Register(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink, reqID wfs.RequestID, sink wfs.EventSink) error
	Deregister(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink, reqID wfs.RequestID, sink wfs.EventSink) error

	GetInfo(svc wfs.Service, category uint32, query any, timeout time.Duration, reqID wfs.RequestID, sink wfs.EventSink) error
	Execute(svc wfs.Service, command uint32, data any, timeout time.Duration, reqID wfs.RequestID, sink wfs.EventSink) error

	CancelAsyncRequest(svc wfs.Service, reqID wfs.RequestID) error
	SetTraceLevel(svc wfs.Service, level wfs.TraceLevel) error

	// UnloadService asks whether the provider is ready to be released.
	UnloadService() error
}

// Module is one loaded provider module.
type Module interface {
	Provider() Provider
	// Release drops the module reference. After Release the Provider
	// must not be called again.
	Release() error
}

// Loader resolves a configured module path into a loaded module.
type Loader interface {
	Load(path string) (Module, error)
}
