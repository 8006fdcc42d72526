package propframe

// DeriveFrame builds a new child frame that exposes explicit override
// values to nested consumers as if they were frame-provided defaults.
// Each overridden name gets a provider returning the captured value,
// with the given parent as the rest of the chain.
//
// The derived frame is an ordinary Frame: nested resolutions cannot
// distinguish it from an authored one, and a further override two
// levels down derives another frame for its own children in the same
// way.
func DeriveFrame(overrides ExplicitValues, parent *Frame) *Frame {
	providers := make(ProviderMap, len(overrides))
	for name, value := range overrides {
		providers[name] = StaticProvider(value)
	}
	return NewFrame(providers, parent)
}
