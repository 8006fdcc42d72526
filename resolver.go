package propframe

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ExplicitValues maps property names to concrete values supplied
// directly at the point of consumption. An ExplicitValues set is
// unrelated to any frame and its lifetime is bound to a single
// resolution call.
type ExplicitValues map[string]any

// ResolutionSource identifies where a resolved property value came from.
type ResolutionSource string

const (
	// SourceExplicit means the value was supplied directly by the caller.
	SourceExplicit ResolutionSource = "explicit"

	// SourceFrame means the value came from the nearest frame provider.
	SourceFrame ResolutionSource = "frame"

	// SourceUnresolved means no explicit value was supplied and no
	// frame in the chain defines the name. This is an observable
	// condition distinct from a resolved nil value.
	SourceUnresolved ResolutionSource = "unresolved"
)

// ResolvedProperty is the outcome of resolving a single property name.
type ResolvedProperty struct {
	// Name is the property name
	Name string

	// Value is the resolved value; meaningless when Source is
	// SourceUnresolved
	Value any

	// Source identifies where the value came from
	Source ResolutionSource
}

// Resolved reports whether the property actually resolved to a value.
// A resolved nil is still resolved; only SourceUnresolved is not.
func (p ResolvedProperty) Resolved() bool {
	return p.Source != SourceUnresolved
}

// ResolvedProperties is the output of one resolution call, covering
// exactly the expected names that were requested.
type ResolvedProperties map[string]ResolvedProperty

// Value returns the resolved value for name. The second return is
// false when the name was not requested or did not resolve.
func (rp ResolvedProperties) Value(name string) (any, bool) {
	prop, ok := rp[name]
	if !ok || !prop.Resolved() {
		return nil, false
	}
	return prop.Value, true
}

// Unresolved returns the sorted names that failed to resolve.
func (rp ResolvedProperties) Unresolved() []string {
	var names []string
	for name, prop := range rp {
		if !prop.Resolved() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Err returns an error naming every unresolved property, or nil when
// all requested names resolved. Callers decide whether an unresolved
// property is fatal; the resolver never defaults it away.
func (rp ResolvedProperties) Err() error {
	unresolved := rp.Unresolved()
	if len(unresolved) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPropertyUnresolved, strings.Join(unresolved, ", "))
}

// Resolver merges an ExplicitValues set with a frame chain into
// ResolvedProperties for a fixed set of expected property names.
// Resolution is a pure, re-entrant computation: no caching across
// calls, no engine state, no side effects beyond whatever the invoked
// providers themselves perform.
type Resolver struct {
	logger  Logger
	subject Subject
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger attaches a structured logger used for debug output on
// unresolved properties.
func WithLogger(logger Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithSubject attaches an event subject; the resolver emits a
// CloudEvent per resolution and an additional event when any
// requested name fails to resolve.
func WithSubject(subject Subject) ResolverOption {
	return func(r *Resolver) {
		r.subject = subject
	}
}

// NewResolver creates a resolver. Both logger and subject are
// optional; a zero-option resolver is a pure function.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve computes final values for each expected name. For each
// name: an explicit value wins regardless of frame contents; absent
// that, the nearest frame provider is invoked; absent both, the
// property is marked unresolved. The result covers exactly the
// expected names. A nil frame behaves as an empty chain.
func (r *Resolver) Resolve(expected []string, explicit ExplicitValues, frame *Frame) ResolvedProperties {
	resolved := make(ResolvedProperties, len(expected))
	for _, name := range expected {
		resolved[name] = resolveOne(name, explicit, frame)
	}

	unresolved := resolved.Unresolved()
	if len(unresolved) > 0 {
		if r.logger != nil {
			r.logger.Debug("Properties unresolved", "names", unresolved, "frame", frameID(frame))
		}
		r.emit(EventTypePropertiesUnresolved, map[string]any{
			"names": unresolved,
		}, frame)
	}

	r.emit(EventTypePropertiesResolved, map[string]any{
		"expected":   expected,
		"unresolved": len(unresolved),
	}, frame)

	return resolved
}

func resolveOne(name string, explicit ExplicitValues, frame *Frame) ResolvedProperty {
	if value, ok := explicit[name]; ok {
		return ResolvedProperty{Name: name, Value: value, Source: SourceExplicit}
	}

	if frame != nil {
		if provider, err := frame.Resolve(name); err == nil {
			return ResolvedProperty{Name: name, Value: provider(), Source: SourceFrame}
		}
	}

	return ResolvedProperty{Name: name, Source: SourceUnresolved}
}

// emit sends a CloudEvent to the attached subject, if any. Resolution
// is synchronous by contract, so emission uses a background context
// and failures are logged rather than surfaced.
func (r *Resolver) emit(eventType string, data map[string]any, frame *Frame) {
	if r.subject == nil {
		return
	}

	var metadata map[string]any
	if frame != nil {
		metadata = map[string]any{"frameid": frame.ID()}
	}
	event := NewCloudEvent(eventType, "resolver", data, metadata)

	if err := r.subject.NotifyObservers(context.Background(), event); err != nil && r.logger != nil {
		r.logger.Debug("Failed to emit event", "eventType", eventType, "error", err)
	}
}

func frameID(frame *Frame) string {
	if frame == nil {
		return ""
	}
	return frame.ID()
}
