// Package notify delivers change events of a document to subscribers.
package notify

import (
	"slices"
	"sync"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/label"
)

// Mask selects the events that a subscriber receives.
type Mask uint8

// event masks.
const (
	Quit Mask = 1 << iota
	DocumentUpdated
	MemoryAreaUpdated
	AddressUpdated
	LabelUpdated
	TaskUpdated

	All = Quit | DocumentUpdated | MemoryAreaUpdated | AddressUpdated | LabelUpdated | TaskUpdated
)

// TaskStatus is the progress of a long running task.
type TaskStatus uint8

// task states.
const (
	TaskStarted TaskStatus = iota
	TaskFinished
	TaskFailed
)

var taskStatusNames = map[TaskStatus]string{
	TaskStarted:  "started",
	TaskFinished: "finished",
	TaskFailed:   "failed",
}

func (s TaskStatus) String() string {
	return taskStatusNames[s]
}

// Subscriber receives the events that it subscribed to. Handlers are called
// on the goroutine of the mutating caller and must not modify the document
// synchronously.
type Subscriber interface {
	OnQuit()
	OnDocumentUpdated()
	OnMemoryAreaUpdated(area *address.MemoryArea, removed bool)
	OnAddressUpdated(addresses address.List)
	OnLabelUpdated(addr address.Address, lbl label.Label, removed bool)
	OnTaskUpdated(task string, status TaskStatus)
}

// Nop implements all Subscriber methods as no-ops, it can be embedded by
// subscribers that only handle a few events.
type Nop struct{}

func (Nop) OnQuit()                                                 {}
func (Nop) OnDocumentUpdated()                                      {}
func (Nop) OnMemoryAreaUpdated(_ *address.MemoryArea, _ bool)       {}
func (Nop) OnAddressUpdated(_ address.List)                         {}
func (Nop) OnLabelUpdated(_ address.Address, _ label.Label, _ bool) {}
func (Nop) OnTaskUpdated(_ string, _ TaskStatus)                    {}

type listener struct {
	mask       Mask
	subscriber Subscriber
}

// Bus fans out events to all subscribers in registration order. No lock is
// held while subscribers are called.
type Bus struct {
	mu        sync.Mutex
	listeners []*listener
}

// Handle is the registration of a single subscriber.
type Handle struct {
	bus      *Bus
	listener *listener
}

// New returns a new bus without subscribers.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers the subscriber for all events selected by the mask.
// The same subscriber can be registered multiple times, every registration
// receives the events.
func (b *Bus) Subscribe(mask Mask, subscriber Subscriber) *Handle {
	l := &listener{
		mask:       mask,
		subscriber: subscriber,
	}

	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()

	return &Handle{
		bus:      b,
		listener: l,
	}
}

// Close detaches the subscriber of this registration. Calling Close
// multiple times is a no-op.
func (h *Handle) Close() {
	b := h.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = slices.DeleteFunc(b.listeners, func(l *listener) bool {
		return l == h.listener
	})
}

// DisconnectAll detaches all subscribers.
func (b *Bus) DisconnectAll() {
	b.mu.Lock()
	b.listeners = nil
	b.mu.Unlock()
}

// Len returns the amount of registrations.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// subscribers returns a snapshot of the subscribers for the event.
func (b *Bus) subscribers(event Mask) []Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	var subscribers []Subscriber
	for _, l := range b.listeners {
		if l.mask&event != 0 {
			subscribers = append(subscribers, l.subscriber)
		}
	}
	return subscribers
}

// Quit notifies that the document is closed.
func (b *Bus) Quit() {
	for _, s := range b.subscribers(Quit) {
		s.OnQuit()
	}
}

// DocumentUpdated notifies that the document content changed.
func (b *Bus) DocumentUpdated() {
	for _, s := range b.subscribers(DocumentUpdated) {
		s.OnDocumentUpdated()
	}
}

// MemoryAreaUpdated notifies that a memory area was added or removed.
func (b *Bus) MemoryAreaUpdated(area *address.MemoryArea, removed bool) {
	for _, s := range b.subscribers(MemoryAreaUpdated) {
		s.OnMemoryAreaUpdated(area, removed)
	}
}

// AddressUpdated notifies that the cells at the addresses changed.
func (b *Bus) AddressUpdated(addresses address.List) {
	for _, s := range b.subscribers(AddressUpdated) {
		s.OnAddressUpdated(addresses)
	}
}

// LabelUpdated notifies that a label was added or removed.
func (b *Bus) LabelUpdated(addr address.Address, lbl label.Label, removed bool) {
	for _, s := range b.subscribers(LabelUpdated) {
		s.OnLabelUpdated(addr, lbl, removed)
	}
}

// TaskUpdated notifies about the progress of a task.
func (b *Bus) TaskUpdated(task string, status TaskStatus) {
	for _, s := range b.subscribers(TaskUpdated) {
		s.OnTaskUpdated(task, status)
	}
}
