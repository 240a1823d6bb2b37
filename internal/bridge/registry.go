package bridge

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Conn is one attached viewer connection.
type Conn interface {
	ID() string
	// TrySend queues msg without blocking. An error means the connection is
	// closed or too slow to keep up and must be evicted.
	TrySend(msg []byte) error
	Close()
}

// Registry tracks the connected viewers. Add/Remove may race with a running
// Broadcast; Broadcast iterates a snapshot taken under the lock, so each
// mutation is atomic with respect to the pass.
type Registry struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: map[string]Conn{}}
}

func (r *Registry) Add(c Conn) {
	r.mu.Lock()
	r.conns[c.ID()] = c
	n := len(r.conns)
	r.mu.Unlock()
	metricViewersActive.Set(int64(n))
}

// Remove detaches c if still present and reports whether it was.
func (r *Registry) Remove(c Conn) bool {
	r.mu.Lock()
	_, ok := r.conns[c.ID()]
	if ok {
		delete(r.conns, c.ID())
	}
	n := len(r.conns)
	r.mu.Unlock()
	metricViewersActive.Set(int64(n))
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Broadcast attempts delivery to every viewer independently. Failing
// connections are evicted and closed in the same pass; the rest still get
// the message. Returns the number of successful deliveries.
func (r *Registry) Broadcast(msg []byte) int {
	r.mu.Lock()
	snapshot := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		snapshot = append(snapshot, c)
	}
	r.mu.Unlock()

	delivered := 0
	for _, c := range snapshot {
		if err := c.TrySend(msg); err != nil {
			log.Warn().Str("viewer", c.ID()).Err(err).Msg("viewer send failed, evicting")
			metricBroadcastEvictions.Add(1)
			r.Remove(c)
			c.Close()
			continue
		}
		delivered++
	}
	metricBroadcastSent.Add(int64(delivered))
	return delivered
}

// SendTo delivers to a single viewer, evicting it on failure.
func (r *Registry) SendTo(c Conn, msg []byte) bool {
	if err := c.TrySend(msg); err != nil {
		log.Warn().Str("viewer", c.ID()).Err(err).Msg("viewer send failed, evicting")
		metricBroadcastEvictions.Add(1)
		r.Remove(c)
		c.Close()
		return false
	}
	return true
}

// CloseAll evicts and closes every viewer; used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.conns = map[string]Conn{}
	r.mu.Unlock()
	metricViewersActive.Set(0)

	for _, c := range conns {
		c.Close()
	}
}
