package repeated

import (
	"fmt"
	"sync/atomic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/repeated/reporter"
)

// TestingT is the subset of testing.TB the harness needs. *testing.T,
// *testing.B and *R all satisfy it. Without a non-empty Name method the
// caller has no worker identity and only the final attempt is run.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

var (
	_ assert.TestingT  = (*R)(nil)
	_ require.TestingT = (*R)(nil)
	_ TestingT         = (*R)(nil)
)

// R is passed to the predicate on every attempt. Failures recorded on it go
// through the process reporter, which swallows them on every attempt but
// the last.
type R struct {
	t       TestingT
	attempt int
	final   bool
	failed  atomic.Bool
}

// abort unwinds a suppressed attempt after FailNow.
type abort struct{}

func newR(t TestingT, attempt int, final bool) *R {
	return &R{t: t, attempt: attempt, final: final}
}

// Attempt returns the 1-based number of the current attempt.
func (r *R) Attempt() int {
	return r.attempt
}

// Name returns the name of the test the harness runs on.
func (r *R) Name() string {
	name, _ := reporter.WorkerName(r.t)
	return name
}

// Helper marks the calling function as a test helper.
func (r *R) Helper() {
	if h, ok := r.t.(interface{ Helper() }); ok {
		h.Helper()
	}
}

// Errorf records a failure.
func (r *R) Errorf(format string, args ...any) {
	r.Helper()
	r.report(reporter.KindError, fmt.Sprintf(format, args...), nil)
}

// Error records a failure.
func (r *R) Error(args ...any) {
	r.Helper()
	msg := fmt.Sprintln(args...)
	r.report(reporter.KindError, msg[:len(msg)-1], nil)
}

// Fail records a failure without a message.
func (r *R) Fail() {
	r.Helper()
	r.report(reporter.KindFail, "", nil)
}

// FailNow marks the attempt failed and stops it. On the final attempt it
// calls FailNow on the underlying test.
func (r *R) FailNow() {
	r.Helper()
	r.failed.Store(true)
	if r.final {
		r.t.FailNow()
		return
	}
	panic(abort{})
}

// Fatalf is Errorf followed by FailNow.
func (r *R) Fatalf(format string, args ...any) {
	r.Helper()
	r.Errorf(format, args...)
	r.FailNow()
}

// Fatal is Error followed by FailNow.
func (r *R) Fatal(args ...any) {
	r.Helper()
	r.Error(args...)
	r.FailNow()
}

// Failed reports whether the current attempt has failed.
func (r *R) Failed() bool {
	return r.failed.Load()
}

// Log passes args to the underlying test's Log when it has one.
func (r *R) Log(args ...any) {
	r.Helper()
	if l, ok := r.t.(interface{ Log(...any) }); ok {
		l.Log(args...)
	}
}

// Logf passes its arguments to the underlying test's Logf when it has one.
func (r *R) Logf(format string, args ...any) {
	r.Helper()
	if l, ok := r.t.(interface{ Logf(string, ...any) }); ok {
		l.Logf(format, args...)
	}
}

func (r *R) report(kind reporter.Kind, msg string, value any) {
	r.failed.Store(true)
	name, _ := reporter.WorkerName(r.t)
	reporter.Report(&reporter.Failure{
		Worker:  name,
		T:       r.t,
		Kind:    kind,
		Message: msg,
		Value:   value,
	})
}
