// Package goid identifies the calling goroutine. The blocking-call
// bookkeeping needs a stable per-goroutine key and the runtime does
// not expose one, so the id is parsed out of the stack header.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// ID returns the runtime id of the calling goroutine.
func ID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// Header shape: "goroutine 123 [running]:"
	header := bytes.TrimPrefix(buf[:n], prefix)
	end := bytes.IndexByte(header, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(header[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
