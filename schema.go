package propframe

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	// Struct tag keys
	tagProp     = "prop"
	tagRequired = "required"
	tagDesc     = "desc" // Used for generating property documentation
)

// PropertySpec describes one expected property of a consumer.
type PropertySpec struct {
	// Name is the property name
	Name string

	// Required marks properties whose unresolved state is a wiring
	// error rather than an acceptable absence
	Required bool

	// Description is free-form documentation from the desc tag
	Description string
}

// PropertySchema is the statically known set of property names a
// consumer expects, derived from its declared struct type rather than
// assembled at runtime.
type PropertySchema struct {
	specs []PropertySpec
}

// SchemaFromStruct builds a schema from the fields of a struct.
// The property name comes from the `prop` tag, falling back to the
// lower-cased field name; `prop:"-"` excludes a field. `required:"true"`
// marks the property required and `desc` documents it.
//
// Example:
//
//	type ButtonProps struct {
//	    Color string `prop:"color" required:"true" desc:"Fill color"`
//	    Label string `prop:"label"`
//	}
func SchemaFromStruct(target any) (*PropertySchema, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, ErrTargetNotStructPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, ErrTargetNotStructPointer
	}

	t := v.Type()
	schema := &PropertySchema{}
	for i := 0; i < t.NumField(); i++ {
		fieldType := t.Field(i)
		if !v.Field(i).CanSet() {
			continue
		}

		name := propertyName(&fieldType)
		if name == "" {
			continue
		}

		schema.specs = append(schema.specs, PropertySpec{
			Name:        name,
			Required:    isPropertyRequired(&fieldType),
			Description: fieldType.Tag.Get(tagDesc),
		})
	}

	return schema, nil
}

// propertyName returns the property name for a struct field, or ""
// when the field does not participate in the schema.
func propertyName(field *reflect.StructField) string {
	tag, exists := field.Tag.Lookup(tagProp)
	if !exists {
		return strings.ToLower(field.Name)
	}
	if tag == "-" {
		return ""
	}
	return tag
}

// isPropertyRequired checks if a field has the required:"true" tag
func isPropertyRequired(field *reflect.StructField) bool {
	required, exists := field.Tag.Lookup(tagRequired)
	return exists && required == "true"
}

// Names returns the expected property names in field declaration order.
func (s *PropertySchema) Names() []string {
	names := make([]string, 0, len(s.specs))
	for _, spec := range s.specs {
		names = append(names, spec.Name)
	}
	return names
}

// Specs returns the property specs in field declaration order.
func (s *PropertySchema) Specs() []PropertySpec {
	specs := make([]PropertySpec, len(s.specs))
	copy(specs, s.specs)
	return specs
}

// Validate verifies that every required property actually resolved.
// Optional properties may remain unresolved; required ones may not.
func (s *PropertySchema) Validate(resolved ResolvedProperties) error {
	var missing []string
	for _, spec := range s.specs {
		if !spec.Required {
			continue
		}
		prop, ok := resolved[spec.Name]
		if !ok || !prop.Resolved() {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredPropertyUnresolved, strings.Join(missing, ", "))
	}
	return nil
}
