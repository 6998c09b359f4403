// Package history implements a bounded back and forward navigation history
// of addresses.
package history

import (
	"errors"
	"sync"

	"github.com/retroenv/retrodoc/internal/address"
)

// DefaultCapacity is the amount of entries kept if no capacity is configured.
const DefaultCapacity = 100

// ErrBoundary indicates that there is no entry in the requested direction.
var ErrBoundary = errors.New("no history entry in this direction")

// History is a browser style address history: inserting an address after
// going back discards all forward entries. It is safe for concurrent use.
type History struct {
	mu       sync.Mutex
	entries  address.List
	current  int // index of the current entry, -1 if empty
	capacity int
}

// New returns a new empty history that keeps at most capacity entries.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		current:  -1,
		capacity: capacity,
	}
}

// Insert appends the address after the current entry. It does nothing if
// the address equals the current entry.
func (h *History) Insert(addr address.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current >= 0 && h.entries[h.current] == addr {
		return
	}

	h.entries = append(h.entries[:h.current+1], addr)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
	h.current = len(h.entries) - 1
}

// Back moves to the previous entry and returns it.
func (h *History) Back() (address.Address, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current <= 0 {
		return address.Address{}, ErrBoundary
	}
	h.current--
	return h.entries[h.current], nil
}

// Forward moves to the next entry and returns it.
func (h *History) Forward() (address.Address, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current+1 >= len(h.entries) {
		return address.Address{}, ErrBoundary
	}
	h.current++
	return h.entries[h.current], nil
}

// Current returns the current entry.
func (h *History) Current() (address.Address, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current < 0 {
		return address.Address{}, false
	}
	return h.entries[h.current], true
}

// Len returns the amount of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
