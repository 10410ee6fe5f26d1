package repeated

import "time"

// OnRetryFunc is called after a failed, suppressed attempt, before the delay.
type OnRetryFunc func(attempt int, delay time.Duration)

// OnSuccessFunc is called with the number of the attempt that passed.
type OnSuccessFunc func(attempt int)

// OnExhaustedFunc is called when the final attempt is armed, with the number
// of suppressed attempts that failed before it.
type OnExhaustedFunc func(failed int)

// Default values.
const (
	DefaultRepetitions = 10
	DefaultDelay       = 100 * time.Millisecond
)

// Policy is a reusable set of options with a fixed number of repetitions
// and delay. Safe for concurrent use.
type Policy struct {
	opts []Option
}

// New creates a Policy with the given options. Without WithRepetitions and
// WithDelay it uses DefaultRepetitions and DefaultDelay.
func New(opts ...Option) *Policy {
	return &Policy{opts: opts[:len(opts):len(opts)]}
}

// Never returns a policy that makes a single, authoritative attempt.
func Never() *Policy {
	return New(WithRepetitions(1))
}

// Default returns a policy with DefaultRepetitions and DefaultDelay.
func Default() *Policy {
	return New(WithRepetitions(DefaultRepetitions), WithDelay(DefaultDelay))
}

// That is the package-level That with this policy's configuration. opts
// are applied after the policy's own.
func (p *Policy) That(t TestingT, fn func(r *R), opts ...Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	run(t, noValue(fn), p.config(opts))
}

// WithCatch is That with a catch hook. See the package-level WithCatch.
func (p *Policy) WithCatch(t TestingT, catchAfter int, catch func(), fn func(r *R), opts ...Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	p.That(t, fn, withCatch(opts, catchAfter, catch)...)
}

// Validate checks the policy, with opts applied, without running anything.
func (p *Policy) Validate(opts ...Option) error {
	return p.config(opts).validate()
}

func (p *Policy) config(opts []Option) *config {
	all := make([]Option, 0, len(p.opts)+len(opts))
	all = append(all, p.opts...)
	return newConfig(append(all, opts...))
}

// PolicyValue is Value with p's configuration.
func PolicyValue[T any](p *Policy, t TestingT, fn func(r *R) T, opts ...Option) T {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return run(t, fn, p.config(opts))
}
