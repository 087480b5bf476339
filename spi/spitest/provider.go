// Package spitest provides a scripted in-memory provider for tests
// that need real completion traffic: it accepts requests and posts the
// matching completion event, inline or after a configurable delay.
package spitest

import (
	"sync"
	"time"

	"github.com/openxfs/xfsmgr/spi"
	"github.com/openxfs/xfsmgr/wfs"
)

// Call records one accepted request.
type Call struct {
	Op        string
	Service   wfs.Service
	RequestID wfs.RequestID
	Command   uint32
	Category  uint32
	Classes   wfs.EventClass
	Level     wfs.TraceLevel
	Timeout   time.Duration
}

type pendingOp struct {
	kind    wfs.EventKind
	service wfs.Service
	sink    wfs.EventSink
	command uint32
}

// FakeProvider is a Provider whose behavior is scripted per operation
// name ("Open", "Execute", ...). By default every request is accepted
// and completes successfully.
type FakeProvider struct {
	mu           sync.Mutex
	calls        []Call
	acceptErr    map[string]error
	suppressed   map[string]bool
	pending      map[wfs.RequestID]pendingOp
	completeCode wfs.Code
	completeData any
	delay        time.Duration
	unloadErr    error
	lastOpen     *spi.OpenRequest

	// SPIVersion and SrvcVersion are reported from Open when the
	// request carries out-pointers.
	SPIVersion  wfs.VersionInfo
	SrvcVersion wfs.VersionInfo
}

var _ spi.Provider = &FakeProvider{}

func NewFakeProvider() *FakeProvider {
	version := wfs.NewVersion(3, 0)
	info := wfs.VersionInfo{
		Version:     version,
		LowVersion:  version,
		HighVersion: wfs.NewVersion(3, 30),
		Description: "fake provider",
	}
	return &FakeProvider{
		acceptErr:   map[string]error{},
		suppressed:  map[string]bool{},
		pending:     map[wfs.RequestID]pendingOp{},
		SPIVersion:  info,
		SrvcVersion: info,
	}
}

// FailAccept makes the named operation fail synchronously with err.
func (p *FakeProvider) FailAccept(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acceptErr[op] = err
}

// SuppressCompletion accepts the named operation but holds its
// completion until CancelAsyncRequest targets it.
func (p *FakeProvider) SuppressCompletion(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suppressed[op] = true
}

// SetCompletionCode sets the result code of future completions.
func (p *FakeProvider) SetCompletionCode(code wfs.Code) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completeCode = code
}

// SetCompletionData sets the payload of future completions.
func (p *FakeProvider) SetCompletionData(data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completeData = data
}

// SetDelay posts future completions from a background goroutine after
// d instead of inline.
func (p *FakeProvider) SetDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delay = d
}

// SetUnloadError makes UnloadService fail with err.
func (p *FakeProvider) SetUnloadError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unloadErr = err
}

// Calls returns a copy of every accepted request in order.
func (p *FakeProvider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// LastOpen returns the most recent open request, nil if none.
func (p *FakeProvider) LastOpen() *spi.OpenRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastOpen
}

func (p *FakeProvider) accept(call Call, kind wfs.EventKind, sink wfs.EventSink) error {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	if err := p.acceptErr[call.Op]; err != nil {
		p.mu.Unlock()
		return err
	}
	if p.suppressed[call.Op] {
		p.pending[call.RequestID] = pendingOp{
			kind:    kind,
			service: call.Service,
			sink:    sink,
			command: call.Command,
		}
		p.mu.Unlock()
		return nil
	}
	code := p.completeCode
	data := p.completeData
	delay := p.delay
	p.mu.Unlock()

	post := func() {
		_ = sink.Post(wfs.Event{
			Kind:    kind,
			Service: call.Service,
			Result: &wfs.Result{
				RequestID: call.RequestID,
				Service:   call.Service,
				Timestamp: time.Now(),
				Code:      code,
				Command:   call.Command,
				Data:      data,
			},
		})
	}
	if delay > 0 {
		time.AfterFunc(delay, post)
	} else {
		post()
	}
	return nil
}

func (p *FakeProvider) Open(req *spi.OpenRequest) error {
	p.mu.Lock()
	p.lastOpen = req
	spiVersion := p.SPIVersion
	srvcVersion := p.SrvcVersion
	p.mu.Unlock()

	if req.SPIVersion != nil {
		*req.SPIVersion = spiVersion
	}
	if req.SrvcVersion != nil {
		*req.SrvcVersion = srvcVersion
	}
	return p.accept(Call{
		Op:        "Open",
		Service:   req.Service,
		RequestID: req.RequestID,
		Level:     req.TraceLevel,
		Timeout:   req.Timeout,
	}, wfs.OpenComplete, req.Sink)
}

func (p *FakeProvider) Close(svc wfs.Service, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "Close", Service: svc, RequestID: reqID}, wfs.CloseComplete, sink)
}

func (p *FakeProvider) Lock(svc wfs.Service, timeout time.Duration, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "Lock", Service: svc, RequestID: reqID, Timeout: timeout}, wfs.LockComplete, sink)
}

func (p *FakeProvider) Unlock(svc wfs.Service, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "Unlock", Service: svc, RequestID: reqID}, wfs.UnlockComplete, sink)
}

func (p *FakeProvider) Register(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "Register", Service: svc, RequestID: reqID, Classes: classes}, wfs.RegisterComplete, sink)
}

func (p *FakeProvider) Deregister(svc wfs.Service, classes wfs.EventClass, eventSink wfs.EventSink, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "Deregister", Service: svc, RequestID: reqID, Classes: classes}, wfs.DeregisterComplete, sink)
}

func (p *FakeProvider) GetInfo(svc wfs.Service, category uint32, query any, timeout time.Duration, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "GetInfo", Service: svc, RequestID: reqID, Category: category, Timeout: timeout}, wfs.GetInfoComplete, sink)
}

func (p *FakeProvider) Execute(svc wfs.Service, command uint32, data any, timeout time.Duration, reqID wfs.RequestID, sink wfs.EventSink) error {
	return p.accept(Call{Op: "Execute", Service: svc, RequestID: reqID, Command: command, Timeout: timeout}, wfs.ExecuteComplete, sink)
}

// CancelAsyncRequest completes a held request with the canceled code.
func (p *FakeProvider) CancelAsyncRequest(svc wfs.Service, reqID wfs.RequestID) error {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Op: "CancelAsyncRequest", Service: svc, RequestID: reqID})
	if err := p.acceptErr["CancelAsyncRequest"]; err != nil {
		p.mu.Unlock()
		return err
	}
	held, ok := p.pending[reqID]
	if ok {
		delete(p.pending, reqID)
	}
	p.mu.Unlock()

	if !ok {
		return wfs.ErrInvalidReqID
	}
	return held.sink.Post(wfs.Event{
		Kind:    held.kind,
		Service: held.service,
		Result: &wfs.Result{
			RequestID: reqID,
			Service:   held.service,
			Timestamp: time.Now(),
			Code:      wfs.ErrCanceled,
			Command:   held.command,
		},
	})
}

func (p *FakeProvider) SetTraceLevel(svc wfs.Service, level wfs.TraceLevel) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Op: "SetTraceLevel", Service: svc, Level: level})
	return p.acceptErr["SetTraceLevel"]
}

func (p *FakeProvider) UnloadService() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Op: "UnloadService"})
	return p.unloadErr
}
