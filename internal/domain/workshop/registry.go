package workshop

import (
	"sort"
	"sync"
)

// Registry holds the workshops known to a process, keyed by id
type Registry struct {
	mu        sync.RWMutex
	workshops map[string]*Workshop
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{workshops: make(map[string]*Workshop)}
}

// Register adds or replaces a workshop
func (r *Registry) Register(w *Workshop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workshops[w.ID()] = w
}

// Unregister removes a workshop; unknown ids are ignored
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workshops, id)
}

// Get returns the workshop with the given id
func (r *Registry) Get(id string) (*Workshop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workshops[id]
	if !ok {
		return nil, &ErrWorkshopNotFound{WorkshopID: id}
	}
	return w, nil
}

// All returns every workshop ordered by id
func (r *Registry) All() []*Workshop {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Workshop, 0, len(r.workshops))
	for _, w := range r.workshops {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	return all
}

// Len returns the number of registered workshops
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workshops)
}
