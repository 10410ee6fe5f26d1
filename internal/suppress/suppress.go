// Package suppress tracks the workers whose failures are currently swallowed.
package suppress

import "sync"

// Set is a process-wide set of worker names. A name is a member while at
// least one Guard acquired for it is live; guards for the same name stack.
// Safe for concurrent use.
type Set struct {
	mu     sync.Mutex
	guards map[string][]*Guard
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{guards: make(map[string][]*Guard)}
}

// Guard is a scoped membership of one worker in a Set.
type Guard struct {
	set       *Set
	id        string
	swallowed int
	escaped   int
	released  bool
	suspended bool
}

// Acquire inserts id into s and returns the guard that removes it again.
func (s *Set) Acquire(id string) *Guard {
	g := &Guard{set: s, id: id}
	s.mu.Lock()
	s.guards[id] = append(s.guards[id], g)
	s.mu.Unlock()
	return g
}

// Release removes the guard's membership. Releasing twice is a no-op.
func (g *Guard) Release() {
	s := g.set
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.released {
		return
	}
	g.released = true

	stack := s.guards[g.id]
	for i, other := range stack {
		if other == g {
			stack = append(stack[:i], stack[i+1:]...)
			break
		}
	}
	if len(stack) == 0 {
		delete(s.guards, g.id)
		return
	}
	s.guards[g.id] = stack
}

// ID returns the worker name the guard was acquired for.
func (g *Guard) ID() string {
	return g.id
}

// Swallowed returns how many failures were dropped on behalf of g.
func (g *Guard) Swallowed() int {
	g.set.mu.Lock()
	defer g.set.mu.Unlock()
	return g.swallowed
}

// Escaped returns how many failures for g's worker went past g while it was
// suspended.
func (g *Guard) Escaped() int {
	g.set.mu.Lock()
	defer g.set.mu.Unlock()
	return g.escaped
}

// Suspend stops g from swallowing until resume is called. Failures that
// arrive meanwhile fall through to the next live guard for the same worker,
// or are not swallowed at all. Calling resume more than once is a no-op.
func (g *Guard) Suspend() (resume func()) {
	s := g.set
	s.mu.Lock()
	g.suspended = true
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			g.suspended = false
			s.mu.Unlock()
		})
	}
}

// Contains reports whether failures from id are suppressed.
func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.guards[id] {
		if !g.suspended {
			return true
		}
	}
	return false
}

// Swallow reports whether a failure from id should be dropped and, if so,
// charges it to the innermost live guard for id. Suspended guards above it
// record the failure as escaped.
func (s *Set) Swallow(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := s.guards[id]
	for i := len(stack) - 1; i >= 0; i-- {
		g := stack[i]
		if g.suspended {
			g.escaped++
			continue
		}
		g.swallowed++
		return true
	}
	return false
}

// Len returns the number of suppressed worker names.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guards)
}
