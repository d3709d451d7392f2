package resilience

import "sync"

// SingleFlight collapses concurrent calls that share a key into one
// execution. Collection loads and upstream fetches use it so a burst of
// identical reads costs a single round trip.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	done  chan struct{}
	value any
	err   error
}

// Do runs fn once per key at a time. Late arrivals block until the leading
// call finishes and receive its result; shared reports whether the result
// came from another caller's execution.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (value any, err error, shared bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flight)
	}
	if f, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.value, f.err, true
	}

	f := &flight{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	f.value, f.err = fn()
	close(f.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return f.value, f.err, false
}
