// Package propframe implements hierarchical default-value resolution
// for component properties. Named lazy providers live in frames;
// frames nest into parent chains; a resolver merges explicit values
// with the nearest matching providers walked up the chain. Explicit
// values always win, and a property nobody supplies surfaces as an
// observable unresolved condition rather than a silent default.
package propframe

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Frame is a scope-bound mapping from property name to lazy value
// provider, optionally nested under a parent frame. Frames are
// immutable after construction: the provider map is copied by
// NewFrame and the parent pointer never changes, so chains form a
// tree (children reference parents, never the reverse) and a cycle
// cannot be built through the public API.
//
// A frame is created when a scope is entered and must not be retained
// past that scope's exit. Parents may outlive children created as
// temporary overrides.
type Frame struct {
	id        string
	providers ProviderMap
	parent    *Frame
}

// NewFrame constructs a frame holding the given providers with an
// optional parent. The provider map is copied; no uniqueness
// validation is performed beyond map semantics.
func NewFrame(providers ProviderMap, parent *Frame) *Frame {
	copied := make(ProviderMap, len(providers))
	for name, provider := range providers {
		copied[name] = provider
	}

	return &Frame{
		id:        generateID(),
		providers: copied,
		parent:    parent,
	}
}

// generateID generates a unique identifier using UUIDv7, which embeds
// timestamp information for time-ordered uniqueness.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails for any reason
		id = uuid.New()
	}
	return id.String()
}

// ID returns the frame's unique identifier. The identifier exists for
// diagnostics and event correlation only; resolution never consults
// it, so frames with identical providers behave identically.
func (f *Frame) ID() string {
	return f.id
}

// Parent returns the parent frame, or nil for a root frame.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// Resolve returns the provider for name from this frame if present,
// otherwise from the nearest ancestor that defines it. The provider
// is returned uninvoked; invocation is the resolver's job. Returns
// ErrProviderNotFound when no frame in the chain defines the name.
func (f *Frame) Resolve(name string) (Provider, error) {
	for frame := f; frame != nil; frame = frame.parent {
		if provider, ok := frame.providers[name]; ok {
			return provider, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
}

// Has reports whether any frame in the chain defines name.
func (f *Frame) Has(name string) bool {
	_, err := f.Resolve(name)
	return err == nil
}

// Names returns the property names defined by this frame alone,
// sorted, excluding ancestors.
func (f *Frame) Names() []string {
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChainNames returns the merged view of the whole chain: every
// property name resolvable from this frame, sorted.
func (f *Frame) ChainNames() []string {
	seen := make(map[string]bool)
	for frame := f; frame != nil; frame = frame.parent {
		for name := range frame.providers {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of frames in the chain, this frame
// included.
func (f *Frame) Depth() int {
	depth := 0
	for frame := f; frame != nil; frame = frame.parent {
		depth++
	}
	return depth
}
