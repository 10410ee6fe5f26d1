package repeated

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// config holds the per-call configuration.
type config struct {
	repetitions int
	delay       time.Duration
	ctx         context.Context
	clock       Clock
	out         io.Writer
	logger      zerolog.Logger
	env         Env
	catch       *catchPhase
	onRetry     OnRetryFunc
	onSuccess   OnSuccessFunc
	onExhausted OnExhaustedFunc
}

// catchPhase is the hook run once in place of attempt after.
type catchPhase struct {
	after int
	hook  func()
}

// Option configures a single call.
type Option func(*config)

func newConfig(opts []Option) *config {
	env, logger := processEnv()
	cfg := &config{
		repetitions: DefaultRepetitions,
		delay:       DefaultDelay,
		ctx:         context.Background(),
		clock:       realClock{},
		out:         os.Stdout,
		logger:      logger,
		env:         env,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRepetitions sets how many attempts a Policy makes. Calls that take
// the repetitions as an argument ignore it.
func WithRepetitions(n int) Option {
	return func(c *config) {
		c.repetitions = n
	}
}

// WithDelay sets the pause a Policy takes after each failed attempt. Calls
// that take the delay as an argument ignore it.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithClock sets the clock used for sleeping between attempts. Useful for
// testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithContext makes the sleeps between attempts cooperative. Once ctx is
// done the remaining suppressed attempts are skipped and the final,
// authoritative attempt runs straight away.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithOutput sets where the catch announcement is written. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithLogger sets the logger for the harness's own debug events. Failure
// messages are never logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDelayScale multiplies the delay between attempts, overriding
// REPEATED_DELAY_SCALE. Non-positive factors are ignored.
func WithDelayScale(factor float64) Option {
	return func(c *config) {
		if factor > 0 {
			c.env.DelayScale = factor
		}
	}
}

// Catch runs hook once, in place of the attempt with zero-based index
// after, provided no earlier attempt succeeded. The delay still follows the
// hook. after must be lower than the number of repetitions; a hook
// scheduled for the final attempt never runs.
func Catch(after int, hook func()) Option {
	return func(c *config) {
		c.catch = &catchPhase{after: after, hook: hook}
	}
}

// OnRetry sets a callback invoked after each failed, suppressed attempt,
// before the delay.
func OnRetry(fn OnRetryFunc) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}

// OnSuccess sets a callback invoked when an attempt passes.
func OnSuccess(fn OnSuccessFunc) Option {
	return func(c *config) {
		c.onSuccess = fn
	}
}

// OnExhausted sets a callback invoked when suppression is lifted and the
// final attempt is about to run.
func OnExhausted(fn OnExhaustedFunc) Option {
	return func(c *config) {
		c.onExhausted = fn
	}
}
