package wfs

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code is a manager result code. The zero value means success; every
// other value is an error and Code implements the error interface so
// codes can travel through normal Go error returns and be matched with
// errors.Is even after wrapping.
type Code int32

const (
	Success Code = 0

	ErrAlreadyStarted     Code = -1
	ErrAPIVerTooHigh      Code = -2
	ErrAPIVerTooLow       Code = -3
	ErrCanceled           Code = -4
	ErrCfgInvalidKey      Code = -5
	ErrCfgInvalidName     Code = -6
	ErrCfgInvalidSubkey   Code = -7
	ErrCfgInvalidValue    Code = -8
	ErrCfgKeyNotEmpty     Code = -9
	ErrCfgNameTooLong     Code = -10
	ErrCfgNoMoreItems     Code = -11
	ErrCfgValueTooLong    Code = -12
	ErrDevNotReady        Code = -13
	ErrHardwareError      Code = -14
	ErrInternal           Code = -15
	ErrInvalidAddress     Code = -16
	ErrInvalidAppHandle   Code = -17
	ErrInvalidBuffer      Code = -18
	ErrInvalidCategory    Code = -19
	ErrInvalidCommand     Code = -20
	ErrInvalidEventClass  Code = -21
	ErrInvalidService     Code = -22
	ErrInvalidProvider    Code = -23
	ErrInvalidEndpoint    Code = -24
	ErrInvalidRegEndpoint Code = -25
	ErrInvalidPointer     Code = -26
	ErrInvalidReqID       Code = -27
	ErrInvalidResult      Code = -28
	ErrInvalidServProv    Code = -29
	ErrInvalidTimer       Code = -30
	ErrInvalidTraceLevel  Code = -31
	ErrLocked             Code = -32
	ErrNoBlockingCall     Code = -33
	ErrNoServProv         Code = -34
	ErrNoSuchThread       Code = -35
	ErrNoTimer            Code = -36
	ErrNotLocked          Code = -37
	ErrNotOKToUnload      Code = -38
	ErrNotStarted         Code = -39
	ErrNotRegistered      Code = -40
	ErrOpInProgress       Code = -41
	ErrOutOfMemory        Code = -42
	ErrServiceNotFound    Code = -43
	ErrSPIVerTooHigh      Code = -44
	ErrSPIVerTooLow       Code = -45
	ErrSrvcVerTooHigh     Code = -46
	ErrSrvcVerTooLow      Code = -47
	ErrTimeout            Code = -48
	ErrUnsuppCategory     Code = -49
	ErrUnsuppCommand      Code = -50
	ErrVersionInSrvc      Code = -51
	ErrInvalidData        Code = -52
)

var codeNames = map[Code]string{
	Success:               "success",
	ErrAlreadyStarted:     "already started",
	ErrAPIVerTooHigh:      "api version too high",
	ErrAPIVerTooLow:       "api version too low",
	ErrCanceled:           "canceled",
	ErrCfgInvalidKey:      "invalid config key",
	ErrCfgInvalidName:     "invalid config value name",
	ErrCfgInvalidSubkey:   "invalid config subkey",
	ErrCfgInvalidValue:    "invalid config value",
	ErrCfgKeyNotEmpty:     "config key not empty",
	ErrCfgNameTooLong:     "config name too long",
	ErrCfgNoMoreItems:     "no more config items",
	ErrCfgValueTooLong:    "config value too long",
	ErrDevNotReady:        "device not ready",
	ErrHardwareError:      "hardware error",
	ErrInternal:           "internal error",
	ErrInvalidAddress:     "invalid address",
	ErrInvalidAppHandle:   "invalid application handle",
	ErrInvalidBuffer:      "invalid buffer",
	ErrInvalidCategory:    "invalid information category",
	ErrInvalidCommand:     "invalid command",
	ErrInvalidEventClass:  "invalid event class",
	ErrInvalidService:     "invalid service handle",
	ErrInvalidProvider:    "invalid provider handle",
	ErrInvalidEndpoint:    "invalid completion endpoint",
	ErrInvalidRegEndpoint: "invalid event endpoint",
	ErrInvalidPointer:     "invalid pointer",
	ErrInvalidReqID:       "invalid request id",
	ErrInvalidResult:      "invalid result",
	ErrInvalidServProv:    "invalid service provider",
	ErrInvalidTimer:       "invalid timer",
	ErrInvalidTraceLevel:  "invalid trace level",
	ErrLocked:             "service locked",
	ErrNoBlockingCall:     "no blocking call in progress",
	ErrNoServProv:         "service provider unavailable",
	ErrNoSuchThread:       "no such thread",
	ErrNoTimer:            "no timer available",
	ErrNotLocked:          "service not locked",
	ErrNotOKToUnload:      "not ok to unload",
	ErrNotStarted:         "not started",
	ErrNotRegistered:      "not registered",
	ErrOpInProgress:       "operation in progress",
	ErrOutOfMemory:        "out of memory",
	ErrServiceNotFound:    "service not found",
	ErrSPIVerTooHigh:      "spi version too high",
	ErrSPIVerTooLow:       "spi version too low",
	ErrSrvcVerTooHigh:     "service version too high",
	ErrSrvcVerTooLow:      "service version too low",
	ErrTimeout:            "timeout",
	ErrUnsuppCategory:     "unsupported information category",
	ErrUnsuppCommand:      "unsupported command",
	ErrVersionInSrvc:      "version error in service",
	ErrInvalidData:        "invalid data",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown result code %d", int32(c))
}

func (c Code) Error() string {
	return "wfs: " + c.String()
}

// Err converts a code into an error return: Success becomes nil,
// everything else is the code itself.
func (c Code) Err() error {
	if c == Success {
		return nil
	}
	return c
}

// CodeOf extracts the result code carried by err. A nil error maps to
// Success; an error with no Code anywhere in its chain maps to
// ErrInternal.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return ErrInternal
}
