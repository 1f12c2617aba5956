package query

import "sync"

// call is one in-flight load shared by every waiter for the same key.
type call struct {
	done chan struct{}
	data []byte
	err  error
}

// inflight deduplicates identical concurrent reads: the first caller
// for a key performs the load, later callers for the same key block on
// the same result. Entries live only for the duration of the load.
type inflight struct {
	mu    sync.Mutex
	calls map[string]*call
}

func newInflight() *inflight {
	return &inflight{
		calls: make(map[string]*call),
	}
}

// do runs fn once per key among concurrent callers and hands every
// caller the same payload or error.
func (g *inflight) do(key string, fn func() ([]byte, error)) ([]byte, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.data, c.err
	}

	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.data, c.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.data, c.err
}
