// Package flight provides an in-flight operation registry. Concurrent
// callers requesting the same operation key share one execution: the
// first caller runs the function, later callers block on the same
// result handle. Registration happens under the lock before the
// function starts, so a duplicate caller can never slip in between
// check and dispatch.
package flight

import "sync"

type call struct {
	done chan struct{}
	val  any
	err  error
}

// Group deduplicates concurrent executions by key. The zero value is
// ready to use.
type Group struct {
	mu    sync.Mutex
	calls map[string]*call
}

// Do executes fn for key, or joins an execution already in flight for
// the same key and returns its result. The key is released once the
// execution completes, so a later call runs fn again.
func (g *Group) Do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.val, c.err
}

// InFlight reports whether an execution is currently registered for
// key.
func (g *Group) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[key]
	return ok
}
