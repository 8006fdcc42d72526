package propframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindProps struct {
	Color   string  `prop:"color"`
	Size    int     `prop:"size"`
	Ratio   float64 `prop:"ratio"`
	Visible bool    `prop:"visible"`
}

func TestBindAssignsResolvedValues(t *testing.T) {
	resolved := ResolvedProperties{
		"color":   {Name: "color", Value: "red", Source: SourceFrame},
		"size":    {Name: "size", Value: 12, Source: SourceExplicit},
		"ratio":   {Name: "ratio", Value: 1.5, Source: SourceFrame},
		"visible": {Name: "visible", Value: true, Source: SourceFrame},
	}

	var props bindProps
	require.NoError(t, Bind(resolved, &props))

	assert.Equal(t, "red", props.Color)
	assert.Equal(t, 12, props.Size)
	assert.Equal(t, 1.5, props.Ratio)
	assert.True(t, props.Visible)
}

func TestBindCoercesStrings(t *testing.T) {
	// Frame documents and front matter often carry stringly-typed
	// values; they are coerced into the field type.
	resolved := ResolvedProperties{
		"size":    {Name: "size", Value: "12", Source: SourceFrame},
		"visible": {Name: "visible", Value: "true", Source: SourceFrame},
	}

	var props bindProps
	require.NoError(t, Bind(resolved, &props))

	assert.Equal(t, 12, props.Size)
	assert.True(t, props.Visible)
}

func TestBindConvertsCompatibleNumbers(t *testing.T) {
	// YAML/JSON decoding yields float64 or int depending on format
	resolved := ResolvedProperties{
		"ratio": {Name: "ratio", Value: 2, Source: SourceFrame},
		"size":  {Name: "size", Value: float64(8), Source: SourceFrame},
	}

	var props bindProps
	require.NoError(t, Bind(resolved, &props))

	assert.Equal(t, 2.0, props.Ratio)
	assert.Equal(t, 8, props.Size)
}

func TestBindLeavesUnresolvedFieldsUntouched(t *testing.T) {
	resolved := ResolvedProperties{
		"color": {Name: "color", Source: SourceUnresolved},
	}

	props := bindProps{Color: "preset"}
	require.NoError(t, Bind(resolved, &props))

	assert.Equal(t, "preset", props.Color)
}

func TestBindIncompatibleType(t *testing.T) {
	resolved := ResolvedProperties{
		"size": {Name: "size", Value: []string{"not", "an", "int"}, Source: SourceFrame},
	}

	var props bindProps
	err := Bind(resolved, &props)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatiblePropertyType)
}

func TestBindRejectsNonStructPointer(t *testing.T) {
	assert.ErrorIs(t, Bind(ResolvedProperties{}, bindProps{}), ErrTargetNotStructPointer)
	assert.ErrorIs(t, Bind(ResolvedProperties{}, nil), ErrTargetNotStructPointer)
}

func TestBindNilValueZeroesField(t *testing.T) {
	resolved := ResolvedProperties{
		"color": {Name: "color", Value: nil, Source: SourceExplicit},
	}

	props := bindProps{Color: "preset"}
	require.NoError(t, Bind(resolved, &props))
	assert.Empty(t, props.Color)
}

func TestResolveInto(t *testing.T) {
	frame := NewFrame(ProviderMap{
		"color": StaticProvider("red"),
		"size":  StaticProvider(12),
	}, nil)
	resolver := NewResolver()

	var props bindProps
	err := resolver.ResolveInto(&props, ExplicitValues{"color": "green", "visible": true}, frame)
	require.NoError(t, err)

	assert.Equal(t, "green", props.Color, "explicit wins over the frame default")
	assert.Equal(t, 12, props.Size)
	assert.True(t, props.Visible)
	assert.Zero(t, props.Ratio, "optional unresolved property stays at its zero value")
}

type strictProps struct {
	Color string `prop:"color" required:"true"`
}

func TestResolveIntoRequiredUnresolved(t *testing.T) {
	resolver := NewResolver()

	var props strictProps
	err := resolver.ResolveInto(&props, ExplicitValues{}, nil)
	assert.ErrorIs(t, err, ErrRequiredPropertyUnresolved)
}
