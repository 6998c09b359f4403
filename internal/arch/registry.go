package arch

import (
	"fmt"
	"slices"
	"sync"

	"github.com/retroenv/retrodoc/internal/tag"
)

// Registry resolves architecture tags to decoders.
type Registry struct {
	mu    sync.RWMutex
	archs map[tag.Tag]Architecture
}

// NewRegistry returns a registry containing the passed architectures.
func NewRegistry(archs ...Architecture) (*Registry, error) {
	r := &Registry{
		archs: make(map[tag.Tag]Architecture, len(archs)),
	}
	for _, ar := range archs {
		if err := r.Register(ar); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an architecture, tags have to be unique.
func (r *Registry) Register(ar Architecture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := ar.Tag()
	if t == tag.Unknown {
		return fmt.Errorf("architecture '%s' has no tag", ar.Name())
	}
	if existing, ok := r.archs[t]; ok {
		return fmt.Errorf("tag '%s' of architecture '%s' is already used by '%s'", t, ar.Name(), existing.Name())
	}
	r.archs[t] = ar
	return nil
}

// Architecture returns the architecture registered for the tag.
func (r *Registry) Architecture(t tag.Tag) (Architecture, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ar, ok := r.archs[t]
	return ar, ok
}

// ByName returns the architecture with the given name.
func (r *Registry) ByName(name string) (Architecture, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ar := range r.archs {
		if ar.Name() == name {
			return ar, true
		}
	}
	return nil, false
}

// Tags returns all registered tags in ascending order.
func (r *Registry) Tags() []tag.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]tag.Tag, 0, len(r.archs))
	for t := range r.archs {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}
