package orchestrator

import "sync"

// Registry tracks which page loads already carry the weather options panel.
// Keys are page load IDs, so separate loads of one address never collide.
type Registry struct {
	mu     sync.Mutex
	active map[uint64]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[uint64]struct{})}
}

// Acquire claims id and reports whether it was free.
func (r *Registry) Acquire(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[id]; ok {
		return false
	}
	r.active[id] = struct{}{}
	return true
}

// Release frees id.
func (r *Registry) Release(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}

// Len reports the number of claimed page loads.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
