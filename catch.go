package repeated

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bjaus/repeated/internal/suppress"
)

// runCatch announces the catch phase and runs the hook with the worker's
// suppression lifted, so failures the hook reports reach t. It returns
// false when the hook failed; t has then been told to stop and the retry
// must not continue. Panics in the hook are not recovered.
func runCatch(t TestingT, cfg *config, guard *suppress.Guard, name string, log zerolog.Logger) bool {
	fmt.Fprintf(cfg.out, "%s: executing repeated-assert catch block\n", name)
	log.Debug().Int("attempt", cfg.catch.after+1).Msg("running catch hook")

	escaped := guard.Escaped()
	wasFailed := failed(t)
	func() {
		resume := guard.Suspend()
		defer resume()
		cfg.catch.hook()
	}()

	if guard.Escaped() == escaped && (wasFailed || !failed(t)) {
		return true
	}
	log.Debug().Int("attempt", cfg.catch.after+1).Msg("catch hook failed, aborting")
	t.FailNow()
	return false
}

// failed reports whether t has recorded a failure, if t can tell.
func failed(t TestingT) bool {
	f, ok := t.(interface{ Failed() bool })
	return ok && f.Failed()
}
