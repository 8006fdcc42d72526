package propframe

// CloudEvent type constants emitted by the library. Following the
// CloudEvents specification, these use reverse domain notation.
const (
	// Frame lifecycle events
	EventTypeFrameCreated = "com.propframe.frame.created"
	EventTypeFrameDerived = "com.propframe.frame.derived"

	// Resolution events
	EventTypePropertiesResolved   = "com.propframe.properties.resolved"
	EventTypePropertiesUnresolved = "com.propframe.properties.unresolved"

	// Watcher events
	EventTypeFramesReloaded = "com.propframe.frames.reloaded"
)
