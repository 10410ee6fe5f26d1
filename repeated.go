package repeated

import (
	"fmt"
	"time"

	"github.com/bjaus/repeated/internal/suppress"
	"github.com/bjaus/repeated/reporter"
)

// That runs fn up to repetitions times, sleeping delay after each failed
// attempt, until an attempt passes. Failures on every attempt but the last
// are swallowed; the last attempt reports to t exactly as if fn had been
// called once with t.
func That(t TestingT, repetitions int, delay time.Duration, fn func(r *R), opts ...Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	run(t, noValue(fn), callConfig(repetitions, delay, opts))
}

// Value is That for predicates that produce a value. It returns the value
// of the first passing attempt, or of the final attempt.
func Value[T any](t TestingT, repetitions int, delay time.Duration, fn func(r *R) T, opts ...Option) T {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return run(t, fn, callConfig(repetitions, delay, opts))
}

// WithCatch is That with a catch hook run once, in place of the attempt
// with zero-based index catchAfter, if no attempt passed before it.
func WithCatch(t TestingT, repetitions int, delay time.Duration, catchAfter int, catch func(), fn func(r *R), opts ...Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	That(t, repetitions, delay, fn, withCatch(opts, catchAfter, catch)...)
}

// ValueWithCatch is Value with a catch hook. See WithCatch.
func ValueWithCatch[T any](t TestingT, repetitions int, delay time.Duration, catchAfter int, catch func(), fn func(r *R) T, opts ...Option) T {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return Value(t, repetitions, delay, fn, withCatch(opts, catchAfter, catch)...)
}

func withCatch(opts []Option, after int, hook func()) []Option {
	return append(opts[:len(opts):len(opts)], Catch(after, hook))
}

// callConfig builds the configuration of a call whose repetitions and delay
// are given as arguments.
func callConfig(repetitions int, delay time.Duration, opts []Option) *config {
	cfg := newConfig(opts)
	cfg.repetitions = repetitions
	cfg.delay = delay
	return cfg
}

func noValue(fn func(r *R)) func(r *R) struct{} {
	return func(r *R) struct{} {
		fn(r)
		return struct{}{}
	}
}

func run[T any](t TestingT, fn func(r *R) T, cfg *config) T {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	install()

	if err := cfg.validate(); err != nil {
		t.Errorf("%s", err)
		t.FailNow()
		var zero T
		return zero
	}

	repetitions := cfg.repetitions
	name, named := reporter.WorkerName(t)
	log := cfg.logger.With().
		Str("worker", name).
		Int("repetitions", repetitions).
		Logger()

	// Without a name there is no way to tell this worker's failures apart
	// from anyone else's, so nothing may be swallowed.
	if !named {
		log.Debug().Msg("no worker name, running the final attempt only")
		return final(t, 1, fn, cfg)
	}

	delay := cfg.env.Scale(cfg.delay)
	start := cfg.clock.Now()
	log.Debug().Dur("delay", delay).Msg("starting")

	guard := suppressed.Acquire(name)
	defer guard.Release()

	tried := 0
	last := repetitions - 1
	for i := 0; i < last; i++ {
		if cfg.catch != nil && i == cfg.catch.after {
			if !runCatch(t, cfg, guard, name, log) {
				var zero T
				return zero
			}
		} else if v, ok := attempt(t, guard, i+1, fn); ok {
			log.Debug().
				Int("attempt", i+1).
				Dur("elapsed", cfg.clock.Now().Sub(start)).
				Msg("attempt passed")
			if cfg.onSuccess != nil {
				cfg.onSuccess(i + 1)
			}
			return v
		} else {
			tried++
			log.Debug().Int("attempt", i+1).Dur("delay", delay).Msg("attempt failed")
			if cfg.onRetry != nil {
				cfg.onRetry(i+1, delay)
			}
		}

		if err := cfg.clock.Sleep(cfg.ctx, delay); err != nil {
			log.Debug().Err(err).Int("attempt", i+1).Msg("context done, skipping to the final attempt")
			break
		}
	}

	guard.Release()
	log.Debug().
		Int("attempt", repetitions).
		Dur("elapsed", cfg.clock.Now().Sub(start)).
		Msg("final attempt armed")
	if cfg.onExhausted != nil && repetitions > 1 {
		cfg.onExhausted(tried)
	}
	return final(t, repetitions, fn, cfg)
}

// final runs the authoritative attempt with nothing recovered or swallowed.
func final[T any](t TestingT, n int, fn func(r *R) T, cfg *config) T {
	r := newR(t, n, true)
	v := fn(r)
	if cfg.onSuccess != nil && !r.Failed() {
		cfg.onSuccess(n)
	}
	return v
}

// attempt runs one suppressed attempt. It fails if fn recorded a failure on
// r, if the interceptor swallowed a failure for the worker meanwhile, or if
// fn panicked.
func attempt[T any](t TestingT, guard *suppress.Guard, n int, fn func(r *R) T) (v T, ok bool) {
	r := newR(t, n, false)
	before := guard.Swallowed()
	defer func() {
		if p := recover(); p != nil {
			if _, aborted := p.(abort); !aborted {
				r.report(reporter.KindPanic, fmt.Sprint(p), p)
			}
			var zero T
			v, ok = zero, false
		}
	}()
	v = fn(r)
	return v, !r.Failed() && guard.Swallowed() == before
}
