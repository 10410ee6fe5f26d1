package reporter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/repeated/reporter"
)

type recordingT struct {
	name   string
	errors []string
	fails  int
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) Fail()        { r.fails++ }
func (r *recordingT) Name() string { return r.name }

type errorfOnly struct {
	errors []string
}

func (e *errorfOnly) Errorf(format string, args ...any) {
	e.errors = append(e.errors, fmt.Sprintf(format, args...))
}

func TestForward(t *testing.T) {
	t.Run("error message is passed through unchanged", func(t *testing.T) {
		rt := &recordingT{}
		reporter.Forward(&reporter.Failure{T: rt, Kind: reporter.KindError, Message: "100% wrong %d"})

		require.Len(t, rt.errors, 1)
		assert.Equal(t, "100% wrong %d", rt.errors[0])
	})

	t.Run("fail uses Fail when available", func(t *testing.T) {
		rt := &recordingT{}
		reporter.Forward(&reporter.Failure{T: rt, Kind: reporter.KindFail})

		assert.Equal(t, 1, rt.fails)
		assert.Empty(t, rt.errors)
	})

	t.Run("fail falls back to Errorf", func(t *testing.T) {
		et := &errorfOnly{}
		reporter.Forward(&reporter.Failure{T: et, Kind: reporter.KindFail, Message: ""})

		assert.Len(t, et.errors, 1)
	})

	t.Run("panic value is reported unchanged", func(t *testing.T) {
		rt := &recordingT{}
		reporter.Forward(&reporter.Failure{T: rt, Kind: reporter.KindPanic, Message: "boom", Value: "boom"})
		reporter.Forward(&reporter.Failure{T: rt, Kind: reporter.KindPanic, Value: 42})

		require.Len(t, rt.errors, 2)
		assert.Equal(t, "boom", rt.errors[0])
		assert.Equal(t, "42", rt.errors[1])
	})

	t.Run("nil target is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			reporter.Forward(&reporter.Failure{Kind: reporter.KindError})
			reporter.Forward(nil)
		})
	})
}

func TestWorkerName(t *testing.T) {
	name, ok := reporter.WorkerName(&recordingT{name: "TestX/sub"})
	assert.True(t, ok)
	assert.Equal(t, "TestX/sub", name)

	_, ok = reporter.WorkerName(&recordingT{})
	assert.False(t, ok, "empty name is no identity")

	_, ok = reporter.WorkerName(&errorfOnly{})
	assert.False(t, ok)

	_, ok = reporter.WorkerName(nil)
	assert.False(t, ok)

	name, ok = reporter.WorkerName(t)
	assert.True(t, ok)
	assert.Equal(t, t.Name(), name)
}

func TestErrorf(t *testing.T) {
	rt := &recordingT{name: "worker"}

	var seen []*reporter.Failure
	reporter.Wrap(func(next reporter.Func) reporter.Func {
		return func(f *reporter.Failure) {
			if f.Worker == "worker" {
				seen = append(seen, f)
			}
			next(f)
		}
	})

	reporter.Errorf(rt, "got %d, want %d", 1, 2)

	require.Len(t, seen, 1)
	assert.Equal(t, "worker", seen[0].Worker)
	assert.Equal(t, reporter.KindError, seen[0].Kind)
	assert.Equal(t, "got 1, want 2", seen[0].Message)
	assert.Equal(t, []string{"got 1, want 2"}, rt.errors)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "error", reporter.KindError.String())
	assert.Equal(t, "fail", reporter.KindFail.String())
	assert.Equal(t, "panic", reporter.KindPanic.String())
	assert.Equal(t, "Kind(9)", reporter.Kind(9).String())
}
