// Package host owns the lifetime of bit array instances on behalf of an
// embedding host. The engine itself has no destroy operation; arrays live
// exactly as long as some holder retains a handle, and the registry is the
// one place that counts those holders.
package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AbdulRehman197/flower-bloom-filter/internal/bitarray"
)

// ErrUnknownHandle reports a handle that was never issued or whose last
// reference has already been released.
var ErrUnknownHandle = errors.New("unknown handle")

// Handle identifies a bit array held by a Registry.
type Handle uint64

// Registry maps handles to bit arrays with explicit reference counts.
// Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]*entry
}

type entry struct {
	arr  bitarray.BitArray
	refs int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		next:    1,
		entries: make(map[Handle]*entry),
	}
}

// Create allocates a new bit array of at least numBits bits and returns a
// handle with reference count 1.
func (r *Registry) Create(numBits uint64) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.next
	r.next++
	r.entries[h] = &entry{arr: bitarray.New(numBits), refs: 1}
	return h
}

// Adopt registers an existing bit array (e.g. one loaded from a snapshot)
// with reference count 1.
func (r *Registry) Adopt(arr bitarray.BitArray) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.next
	r.next++
	r.entries[h] = &entry{arr: arr, refs: 1}
	return h
}

// Get resolves a handle to its bit array.
func (r *Registry) Get(h Handle) (bitarray.BitArray, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return e.arr, nil
}

// Retain adds a reference to the handle.
func (r *Registry) Retain(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	e.refs++
	return nil
}

// Release drops a reference. When the count reaches zero the entry is
// removed; the array itself is reclaimed once no caller holds it. A
// released handle never comes back: later calls see ErrUnknownHandle.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	e.refs--
	if e.refs == 0 {
		delete(r.entries, h)
	}
	return nil
}

// Refs returns the current reference count of a handle.
func (r *Registry) Refs(h Handle) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return e.refs, nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
