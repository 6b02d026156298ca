package builder

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the calling goroutine's numeric ID from its own stack trace
// header ("goroutine 123 [running]:..."). This is the standard trick Go programs use
// for goroutine-local storage in the absence of language support for it; no such
// library appears anywhere in the retrieved example pack, so this is implemented
// directly against the standard library (see DESIGN.md).
//
// It backs the scope stack's "task-local" semantics (spec.md §4.2, §9 "Thread-local
// scope stack"): each goroutine gets its own stack of open builders, so independent
// goroutines can build unrelated SynthDefs concurrently without interfering with one
// another, and a builder opened on one goroutine cannot be silently captured by UGen
// construction happening on another.
func goroutineID() int64 {
	buf := make([]byte, 64)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	idx := bytes.IndexByte(buf, ' ')
	if idx < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(buf[:idx]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
