package propframe

// Provider is a zero-argument function that produces a property value
// on demand. Invocation is deferred until resolution time, so a
// provider may close over mutable external state; two resolutions can
// legitimately observe different values from the same provider.
type Provider func() any

// ProviderMap maps property names to lazy providers. Names are unique
// within a single frame; assigning the same name twice follows map
// semantics (last write wins).
type ProviderMap map[string]Provider

// StaticProvider wraps a concrete value in a Provider that always
// returns it.
func StaticProvider(value any) Provider {
	return func() any { return value }
}
