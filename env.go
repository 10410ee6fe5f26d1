package repeated

import (
	"math"
	"os"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix of the environment variables read by the package.
const EnvPrefix = "REPEATED"

// Env holds process defaults read from the environment.
//
//	REPEATED_DELAY_SCALE  multiplies every delay (default 1)
//	REPEATED_LOG_LEVEL    zerolog level of the harness log (default disabled)
type Env struct {
	DelayScale float64 `envconfig:"DELAY_SCALE" default:"1"`
	LogLevel   string  `envconfig:"LOG_LEVEL" default:"disabled"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, errors.Wrap(err, "parse environment")
	}
	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Validate checks that the values are usable.
func (e Env) Validate() error {
	if e.DelayScale <= 0 {
		return errors.Wrapf(ErrInvalidDelayScale, "%s_DELAY_SCALE=%v", EnvPrefix, e.DelayScale)
	}
	if _, err := zerolog.ParseLevel(e.LogLevel); err != nil {
		return errors.Wrapf(err, "%s_LOG_LEVEL", EnvPrefix)
	}
	return nil
}

// Scale applies DelayScale to d. The result saturates at the longest
// representable duration.
func (e Env) Scale(d time.Duration) time.Duration {
	if e.DelayScale == 1 || e.DelayScale <= 0 {
		return d
	}
	scaled := float64(d) * e.DelayScale
	if scaled >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(scaled)
}

// Logger builds the harness logger for LogLevel.
func (e Env) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(e.LogLevel)
	if err != nil || level == zerolog.Disabled {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		Level(level).
		With().
		Timestamp().
		Str("component", "repeated").
		Logger()
}

var (
	envOnce    sync.Once
	defaultEnv = Env{DelayScale: 1, LogLevel: "disabled"}
	envLogger  = zerolog.Nop()
)

// processEnv loads the environment once per process. An invalid
// environment is reported on stderr and the defaults are kept.
func processEnv() (Env, zerolog.Logger) {
	envOnce.Do(func() {
		env, err := ParseEnv()
		if err != nil {
			warn := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			warn.Warn().Err(err).Msg("ignoring invalid repeated environment")
			return
		}
		defaultEnv = env
		envLogger = env.Logger()
	})
	return defaultEnv, envLogger
}
