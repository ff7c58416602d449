package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to LogHandler with verbose=false.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler and returns the previous one.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := DefaultHandler
	DefaultHandler = h
	return prev
}

func currentHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// deliver stamps a report that has no time yet and passes it to the global
// handler.
func deliver(stamp *time.Time, handle func(ErrorHandler)) {
	if stamp.IsZero() {
		*stamp = time.Now()
	}
	if h := currentHandler(); h != nil {
		handle(h)
	}
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *HostError) {
	if err == nil {
		return
	}
	deliver(&err.Timestamp, func(h ErrorHandler) { h.HandleError(err) })
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	deliver(&err.Timestamp, func(h ErrorHandler) { h.HandlePanic(err) })
}

// ReportBuildError sends a build error to the global handler.
func ReportBuildError(err *BuildError) {
	if err == nil {
		return
	}
	deliver(&err.Timestamp, func(h ErrorHandler) { h.HandleBuildError(err) })
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
		})
	}
}

// CaptureStack returns the call stack of its caller's caller, one
// "function\n\tfile:line" pair per frame.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			return sb.String()
		}
	}
}

// Collector is an ErrorHandler that keeps every report until drained. The
// widget tester installs one per tester so each frame can return what went
// wrong during it.
type Collector struct {
	mu   sync.Mutex
	errs []error
}

// HandleError records a HostError.
func (c *Collector) HandleError(err *HostError) { c.add(err) }

// HandlePanic records a PanicError.
func (c *Collector) HandlePanic(err *PanicError) { c.add(err) }

// HandleBuildError records a BuildError.
func (c *Collector) HandleBuildError(err *BuildError) { c.add(err) }

func (c *Collector) add(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Len returns the number of reports recorded since the last Drain.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

// Drain returns the recorded reports joined into one error, or nil, and
// forgets them.
func (c *Collector) Drain() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	errs := c.errs
	c.errs = nil
	c.mu.Unlock()
	return stderrors.Join(errs...)
}
