// Package notify holds the change-listener registry shared by the catalog
// and order services.
package notify

import (
	"sort"
	"sync"
)

// Registry keeps callbacks keyed by a monotonically increasing handle, so
// notification order is subscription order.
type Registry struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]func()
}

func NewRegistry() *Registry {
	return &Registry{listeners: make(map[uint64]func())}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (r *Registry) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	r.next++
	handle := r.next
	r.listeners[handle] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, handle)
			r.mu.Unlock()
		})
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Notify calls every listener synchronously, outside the registry lock so a
// listener may subscribe or unsubscribe. A panicking listener stops the loop.
func (r *Registry) Notify() {
	r.mu.Lock()
	handles := make([]uint64, 0, len(r.listeners))
	for handle := range r.listeners {
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	fns := make([]func(), 0, len(handles))
	for _, handle := range handles {
		fns = append(fns, r.listeners[handle])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
