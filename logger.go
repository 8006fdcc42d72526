package propframe

// Logger is the structured logging interface the library emits
// through. Everything it logs uses key-value pairs:
//
//	logger.Debug("Scope entered", "frame", id, "depth", 2)
//
// which makes any slog/logrus/zap-style logger a one-method-per-level
// adapter away. The library never constructs a logger itself; hosts
// pass one where they want output and nil where they don't.
type Logger interface {
	// Info logs an informational message with optional key-value pairs.
	Info(msg string, args ...any)

	// Error logs an error message with optional key-value pairs.
	Error(msg string, args ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, args ...any)

	// Debug logs a debug message with optional key-value pairs.
	// Resolution-path diagnostics (unresolved names, scope
	// transitions) land here.
	Debug(msg string, args ...any)
}
