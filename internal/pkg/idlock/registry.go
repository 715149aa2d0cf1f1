// Package idlock provides non-blocking per-identifier mutual exclusion.
// The lifecycle engine uses it to serialize state-changing operations on a
// single order while letting operations on different orders run in parallel.
package idlock

import (
	"errors"
	"sync"
)

// ErrLocked is returned by TryAcquire when the identifier is already held
// by another operation.
var ErrLocked = errors.New("identifier is locked by another operation")

// Registry is a lock table keyed by identifier. Entries exist only while an
// identifier is held; releasing reclaims the entry, so the table stays
// proportional to the number of in-flight operations.
//
// Acquisition is non-blocking: contention is reported immediately via
// ErrLocked instead of queueing, because the caller must decide whether to
// reject the operation rather than merge or delay it.
//
// Example:
//
//	locks := idlock.NewRegistry()
//	release, err := locks.TryAcquire(orderID.String())
//	if err != nil {
//	    return ErrOrderBusy
//	}
//	defer release()
type Registry struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{held: make(map[string]struct{})}
}

// TryAcquire attempts to take the lock for id without blocking.
// On success it returns a release function that must be called exactly once;
// calling it more than once is a no-op. On contention it returns ErrLocked.
func (r *Registry) TryAcquire(id string) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.held[id]; ok {
		return nil, ErrLocked
	}
	r.held[id] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.held, id)
			r.mu.Unlock()
		})
	}
	return release, nil
}

// IsHeld reports whether id is currently locked. Intended for components that
// must skip busy identifiers, such as the retention sweeper.
func (r *Registry) IsHeld(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.held[id]
	return ok
}
