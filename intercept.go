package repeated

import (
	"sync"

	"github.com/bjaus/repeated/internal/suppress"
	"github.com/bjaus/repeated/reporter"
)

var (
	installOnce sync.Once
	suppressed  = suppress.NewSet()
)

// install wraps the process reporter with the interceptor. Only the first
// call has any effect.
func install() {
	installOnce.Do(func() {
		reporter.Wrap(intercept)
	})
}

// intercept drops failures from workers that are inside a suppressed
// attempt and forwards everything else to next.
func intercept(next reporter.Func) reporter.Func {
	return func(f *reporter.Failure) {
		if f != nil && f.Worker != "" && swallow(f.Worker) {
			return
		}
		next(f)
	}
}

// swallow asks the suppression set about id. If that panics the failure is
// forwarded.
func swallow(id string) (dropped bool) {
	defer func() {
		if recover() != nil {
			dropped = false
		}
	}()
	return suppressed.Swallow(id)
}
