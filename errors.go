package repeated

import (
	"time"

	"github.com/pkg/errors"
)

// Errors reported on the test when a call is misconfigured. The failure
// message wraps one of them; match with errors.Is when inspecting
// Validate's result.
var (
	ErrInvalidRepetitions = errors.New("repeated: repetitions must be at least 1")
	ErrInvalidDelay       = errors.New("repeated: delay must not be negative")
	ErrInvalidCatch       = errors.New("repeated: catch must run before the final attempt")
	ErrInvalidDelayScale  = errors.New("repeated: delay scale must be positive")
)

// Validate checks the arguments of a call without running it.
func Validate(repetitions int, delay time.Duration, opts ...Option) error {
	return callConfig(repetitions, delay, opts).validate()
}

func (c *config) validate() error {
	repetitions, delay := c.repetitions, c.delay
	if repetitions < 1 {
		return errors.Wrapf(ErrInvalidRepetitions, "got %d", repetitions)
	}
	if delay < 0 {
		return errors.Wrapf(ErrInvalidDelay, "got %s", delay)
	}
	if c.catch != nil && (c.catch.after < 0 || c.catch.after >= repetitions) {
		return errors.Wrapf(ErrInvalidCatch, "catch after %d of %d repetitions", c.catch.after, repetitions)
	}
	if c.catch != nil && c.catch.hook == nil {
		return errors.Wrap(ErrInvalidCatch, "nil catch hook")
	}
	return nil
}
