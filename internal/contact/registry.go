package contact

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry owns one Lifecycle per visitor session. Idle sessions expire after ttl and
// the least recently used are dropped beyond capacity. A lifecycle that is evicted while
// submitting is parked until it resolves so the session cannot start a second send.
type Registry struct {
	newLifecycle func(sessionID string) *Lifecycle

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Lifecycle]

	parkedMu sync.Mutex
	parked   map[string]*Lifecycle
}

func NewRegistry(capacity int, ttl time.Duration, newLifecycle func(sessionID string) *Lifecycle) *Registry {
	if capacity <= 0 {
		capacity = 1
	}
	r := &Registry{
		newLifecycle: newLifecycle,
		parked:       make(map[string]*Lifecycle),
	}
	r.sessions = expirable.NewLRU[string, *Lifecycle](capacity, r.onEvict, ttl)
	return r
}

// onEvict runs under the LRU's lock and must not call back into sessions.
func (r *Registry) onEvict(sessionID string, lc *Lifecycle) {
	if lc.Status() != StatusSubmitting {
		return
	}
	r.parkedMu.Lock()
	r.parked[sessionID] = lc
	r.parkedMu.Unlock()
}

// Get returns the session's lifecycle without creating one.
func (r *Registry) Get(sessionID string) (*Lifecycle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lc, ok := r.sessions.Get(sessionID); ok {
		return lc, true
	}
	lc, ok := r.unpark(sessionID)
	if ok {
		r.sessions.Add(sessionID, lc)
	}
	return lc, ok
}

// GetOrCreate returns the session's lifecycle, creating it on first use, and refreshes its expiry.
func (r *Registry) GetOrCreate(sessionID string) *Lifecycle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(sessionID)
}

// Submit starts a submission on the session's lifecycle. Lookup and Submit share the
// registry lock, so capacity eviction only ever sees the lifecycle once it is submitting
// and parks it.
func (r *Registry) Submit(sessionID string, fields Fields) (*Lifecycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lc := r.getOrCreateLocked(sessionID)
	return lc, lc.Submit(fields)
}

func (r *Registry) getOrCreateLocked(sessionID string) *Lifecycle {
	lc, ok := r.sessions.Get(sessionID)
	if !ok {
		lc, ok = r.unpark(sessionID)
	}
	if !ok {
		lc = r.newLifecycle(sessionID)
	}
	r.sessions.Add(sessionID, lc)
	return lc
}

func (r *Registry) unpark(sessionID string) (*Lifecycle, bool) {
	r.parkedMu.Lock()
	defer r.parkedMu.Unlock()
	for id, lc := range r.parked {
		if id != sessionID && lc.Status() != StatusSubmitting {
			delete(r.parked, id)
		}
	}
	lc, ok := r.parked[sessionID]
	if ok {
		delete(r.parked, sessionID)
	}
	return lc, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}
