package propframe

import (
	"context"
)

// ScopeStack tracks the ambient frame for one logical consumer as
// nesting boundaries open and close. Entering a scope pushes a child
// of the current frame; exiting pops it, destroying the frame for the
// purposes of this stack (callers must not retain it).
//
// A ScopeStack belongs to a single logical consumer. Resolution is a
// single-threaded, synchronous pass by contract, so the stack is not
// internally locked; hosts embedding it in a multi-threaded program
// are responsible for serializing frame mutations relative to reads.
type ScopeStack struct {
	root    *Frame
	frames  []*Frame
	logger  Logger
	subject Subject
}

// ScopeOption configures a ScopeStack.
type ScopeOption func(*ScopeStack)

// WithScopeLogger attaches a structured logger for scope transitions.
func WithScopeLogger(logger Logger) ScopeOption {
	return func(s *ScopeStack) {
		s.logger = logger
	}
}

// WithScopeSubject attaches an event subject; the stack emits a
// CloudEvent whenever a frame is created or derived.
func WithScopeSubject(subject Subject) ScopeOption {
	return func(s *ScopeStack) {
		s.subject = subject
	}
}

// NewScopeStack creates a stack rooted at the given frame. The root
// may be nil, in which case the outermost scope has no defaults and
// the first Enter creates a root frame.
func NewScopeStack(root *Frame, opts ...ScopeOption) *ScopeStack {
	s := &ScopeStack{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the ambient frame: the innermost entered frame, or
// the root when no scope is open. May be nil for a rootless stack.
func (s *ScopeStack) Current() *Frame {
	if len(s.frames) == 0 {
		return s.root
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of open scopes, the root excluded.
func (s *ScopeStack) Depth() int {
	return len(s.frames)
}

// Enter opens a scope with an authored frame holding the given
// providers, parented on the current ambient frame, and returns it.
func (s *ScopeStack) Enter(providers ProviderMap) *Frame {
	frame := NewFrame(providers, s.Current())
	s.push(frame, EventTypeFrameCreated)
	return frame
}

// EnterOverride opens a scope with a frame derived from explicit
// override values, making them visible to nested consumers as their
// new defaults.
func (s *ScopeStack) EnterOverride(overrides ExplicitValues) *Frame {
	frame := DeriveFrame(overrides, s.Current())
	s.push(frame, EventTypeFrameDerived)
	return frame
}

// Exit closes the innermost scope. Returns ErrScopeExhausted when no
// scope is open; the root frame cannot be exited.
func (s *ScopeStack) Exit() error {
	if len(s.frames) == 0 {
		return ErrScopeExhausted
	}

	frame := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	if s.logger != nil {
		s.logger.Debug("Scope exited", "frame", frame.ID(), "depth", len(s.frames))
	}
	return nil
}

func (s *ScopeStack) push(frame *Frame, eventType string) {
	s.frames = append(s.frames, frame)

	if s.logger != nil {
		s.logger.Debug("Scope entered", "frame", frame.ID(), "depth", len(s.frames), "names", frame.Names())
	}

	if s.subject != nil {
		event := NewCloudEvent(eventType, "scope", map[string]any{
			"names": frame.Names(),
			"depth": len(s.frames),
		}, map[string]any{
			"frameid": frame.ID(),
		})
		if err := s.subject.NotifyObservers(context.Background(), event); err != nil && s.logger != nil {
			s.logger.Debug("Failed to emit event", "eventType", eventType, "error", err)
		}
	}
}
