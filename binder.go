package propframe

import (
	"fmt"
	"reflect"

	"github.com/golobby/cast"
)

// Bind copies resolved property values into the fields of a struct,
// matching fields to properties by the same naming rules as
// SchemaFromStruct. Unresolved properties leave their fields
// untouched, so zero values and pre-set values survive. String
// values are coerced into non-string field types; other values must
// be assignable or convertible to the field type.
func Bind(resolved ResolvedProperties, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrTargetNotStructPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrTargetNotStructPointer
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}

		name := propertyName(&fieldType)
		if name == "" {
			continue
		}

		prop, ok := resolved[name]
		if !ok || !prop.Resolved() {
			continue
		}

		if err := setFieldValue(field, prop.Value); err != nil {
			return fmt.Errorf("cannot bind property %q to field %s: %w", name, fieldType.Name, err)
		}
	}

	return nil
}

// setFieldValue converts and sets a single field value
func setFieldValue(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if str, ok := value.(string); ok && field.Kind() != reflect.String {
		converted, err := cast.FromType(str, field.Type())
		if err != nil {
			return fmt.Errorf("cannot convert value to type %v: %w", field.Type(), err)
		}
		field.Set(reflect.ValueOf(converted))
		return nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case rv.Type().ConvertibleTo(field.Type()):
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("%w: %s into %s", ErrIncompatiblePropertyType, rv.Type(), field.Type())
	}

	return nil
}

// ResolveInto resolves directly into a consumer's property struct:
// the expected names come from the struct's schema, required
// properties are validated, and resolved values are bound onto the
// struct fields.
func (r *Resolver) ResolveInto(target any, explicit ExplicitValues, frame *Frame) error {
	schema, err := SchemaFromStruct(target)
	if err != nil {
		return err
	}

	resolved := r.Resolve(schema.Names(), explicit, frame)
	if err := schema.Validate(resolved); err != nil {
		return err
	}

	return Bind(resolved, target)
}
