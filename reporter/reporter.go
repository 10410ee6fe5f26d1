// Package reporter holds the process-wide failure reporter used by repeated.
//
// Every failure raised through a repeated.R, or through Errorf in this
// package, is handed to the current reporter Func. The default reporter,
// Forward, passes the failure to the failing test unchanged. Other packages
// may decorate the reporter with Wrap; repeated does so exactly once per
// process to swallow failures from suppressed attempts.
package reporter

import (
	"fmt"
	"sync"
)

// TestingT is the part of testing.TB a failure can be forwarded to.
type TestingT interface {
	Errorf(format string, args ...any)
}

// Kind classifies a Failure.
type Kind int

const (
	// KindError is a failure carrying a message.
	KindError Kind = iota
	// KindFail is a failure without a message.
	KindFail
	// KindPanic is a panic recovered from a protected attempt.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindFail:
		return "fail"
	case KindPanic:
		return "panic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Failure is a single failure signalled by a worker.
type Failure struct {
	// Worker is the name of the failing worker, empty when it has none.
	Worker string
	// T receives the failure when it is forwarded.
	T       TestingT
	Kind    Kind
	Message string
	// Value is the recovered panic value for KindPanic.
	Value any
}

// Func handles a Failure.
type Func func(f *Failure)

var (
	mu      sync.RWMutex
	current Func = Forward
)

// Current returns the process reporter.
func Current() Func {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Report hands f to the process reporter.
func Report(f *Failure) {
	Current()(f)
}

// Wrap replaces the process reporter with wrap(previous). The swap is
// atomic with respect to concurrent Wrap and Current calls.
func Wrap(wrap func(next Func) Func) {
	mu.Lock()
	defer mu.Unlock()
	current = wrap(current)
}

// Forward passes f to f.T without altering the payload.
func Forward(f *Failure) {
	if f == nil || f.T == nil {
		return
	}
	if h, ok := f.T.(interface{ Helper() }); ok {
		h.Helper()
	}
	switch f.Kind {
	case KindFail:
		if fl, ok := f.T.(interface{ Fail() }); ok {
			fl.Fail()
			return
		}
		f.T.Errorf("%s", f.Message)
	case KindPanic:
		f.T.Errorf("%v", f.Value)
	default:
		f.T.Errorf("%s", f.Message)
	}
}

// Errorf reports a formatted failure for t through the process reporter.
// Assertion helpers that call it directly on the outer test are swallowed
// like R's own failures while t is inside a suppressed attempt.
func Errorf(t TestingT, format string, args ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	name, _ := WorkerName(t)
	Report(&Failure{
		Worker:  name,
		T:       t,
		Kind:    KindError,
		Message: fmt.Sprintf(format, args...),
	})
}

// WorkerName returns the identity of the worker behind t. Only values with
// a non-empty Name method have one.
func WorkerName(t any) (string, bool) {
	n, ok := t.(interface{ Name() string })
	if !ok {
		return "", false
	}
	name := n.Name()
	return name, name != ""
}
