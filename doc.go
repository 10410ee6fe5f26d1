// Package repeated retries blocks of test assertions until they pass.
//
// Tests that observe asynchronous side effects (a file appearing, a counter
// bumped by another goroutine, a message arriving on a channel) can wrap
// their assertions in a predicate. The predicate is run up to N times with
// a fixed delay in between. Failures on every attempt but the last are
// swallowed; a failure on the last attempt is reported exactly as if the
// assertions had been made on the test directly.
//
// # Quick Start
//
//	func TestFileAppears(t *testing.T) {
//	    go writeFileSoon("out.txt")
//
//	    repeated.That(t, 10, 50*time.Millisecond, func(r *repeated.R) {
//	        require.FileExists(r, "out.txt")
//	    })
//	}
//
// R satisfies testify's assert.TestingT and require.TestingT, so existing
// assertions work unchanged inside a predicate. Use Value when the
// predicate produces something the test needs afterwards:
//
//	body := repeated.Value(t, 10, 50*time.Millisecond, func(r *repeated.R) []byte {
//	    b, err := os.ReadFile("out.txt")
//	    require.NoError(r, err)
//	    require.NotEmpty(r, b)
//	    return b
//	})
//
// # Catch Hooks
//
// WithCatch runs a hook once, part way through, to nudge the system under
// test. The hook takes the place of the attempt at index catchAfter; the
// usual delay still follows it:
//
//	repeated.WithCatch(t, 10, 50*time.Millisecond, 5, func() {
//	    service.Poke()
//	}, func(r *repeated.R) {
//	    assert.True(r, service.Ready())
//	})
//
// When the hook runs, a line of the form
//
//	TestName: executing repeated-assert catch block
//
// is written to standard output (see WithOutput). Suppression is lifted
// while the hook runs: a failure in the hook is reported on t and ends the
// retry.
//
// # Policies
//
// A Policy bundles repetitions, delay and any other options for reuse
// across a suite:
//
//	var eventually = repeated.New(
//	    repeated.WithRepetitions(20),
//	    repeated.WithDelay(25*time.Millisecond),
//	)
//
//	eventually.That(t, func(r *repeated.R) {
//	    assert.Equal(r, 3, counter.Load())
//	})
//
// Default returns DefaultRepetitions attempts DefaultDelay apart; Never
// makes a single attempt.
//
// # Hooks
//
// OnRetry, OnSuccess and OnExhausted observe the attempt loop:
//
//	repeated.That(t, 5, time.Second, fn,
//	    repeated.OnRetry(func(attempt int, delay time.Duration) {
//	        t.Logf("attempt %d failed, retrying in %s", attempt, delay)
//	    }),
//	)
//
// # Suppression
//
// Failures are routed through the process-wide reporter in package
// reporter. On first use the package wraps that reporter, once, with an
// interceptor that drops failures from tests currently inside a suppressed
// attempt. Tests are told apart by their Name, so parallel tests and
// subtests never silence each other. A TestingT without a name gets no
// suppression at all: only the final attempt runs.
//
// Assertions made on the outer t inside a predicate are not intercepted;
// always assert on the R. Custom assertion helpers can call
// reporter.Errorf to take part in suppression.
//
// # Cancellation
//
// WithContext makes the delays cooperative. Once the context is done the
// remaining suppressed attempts are skipped and the final attempt runs
// immediately.
//
// # Environment
//
//	REPEATED_DELAY_SCALE=2     doubles every delay, e.g. on slow CI runners
//	REPEATED_LOG_LEVEL=debug   logs attempts to stderr
//
// # Testing
//
// Inject a fake clock to avoid real sleeps:
//
//	type fakeClock struct{ sleeps []time.Duration }
//
//	func (c *fakeClock) Now() time.Time { return time.Time{} }
//	func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
//	    c.sleeps = append(c.sleeps, d)
//	    return ctx.Err()
//	}
//
//	repeated.That(t, 5, time.Second, fn, repeated.WithClock(&fakeClock{}))
package repeated
