package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/catalog"
)

// FieldType is the declared type of an attribute row. It decides how the
// row's text is coerced on submit.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypePrice   FieldType = "price"
	TypeBoolean FieldType = "boolean"
)

// Types lists the field types in the order the form cycles through them.
var Types = []FieldType{TypeText, TypeNumber, TypePrice, TypeBoolean}

// Next returns the type after t in Types, wrapping around.
func (t FieldType) Next() FieldType {
	for i, candidate := range Types {
		if candidate == t {
			return Types[(i+1)%len(Types)]
		}
	}
	return TypeText
}

// ParseType accepts a type name in any case.
func ParseType(s string) (FieldType, error) {
	name := FieldType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Types {
		if t == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown field type %q (want text, number, price or boolean)", s)
}

// DetectType guesses a row type from an existing value:
//
//	number value             -> number
//	boolean value            -> boolean
//	string containing "$"    -> price
//	anything else            -> text
//
// It is a heuristic for pre-filling the edit form, nothing more.
func DetectType(v api.Value) FieldType {
	switch v.Kind() {
	case api.ValueNumber:
		return TypeNumber
	case api.ValueBool:
		return TypeBoolean
	case api.ValueString:
		if s, _ := v.Str(); strings.Contains(s, "$") {
			return TypePrice
		}
	}
	return TypeText
}

// Field is one key/type/value row of the form.
type Field struct {
	Key   string
	Type  FieldType
	Value string
}

// FieldsFromObject pre-fills rows from an existing object's data.
func FieldsFromObject(obj api.Object) []Field {
	fields := make([]Field, 0, len(obj.Data))
	for _, attr := range obj.Data {
		fields = append(fields, Field{
			Key:   attr.Key,
			Type:  DetectType(attr.Value),
			Value: attr.Value.String(),
		})
	}
	return fields
}

// Coerce converts the row's text according to its type. Numbers and
// prices that do not parse keep the raw text.
func (f Field) Coerce() api.Value {
	switch f.Type {
	case TypeNumber, TypePrice:
		n := catalog.ParseFloat(f.Value)
		if math.IsNaN(n) {
			return api.String(f.Value)
		}
		return api.Number(n)
	case TypeBoolean:
		return api.Bool(strings.EqualFold(f.Value, "true"))
	default:
		return api.String(f.Value)
	}
}

// InferType picks a type for a value typed without one on the command
// line: true/false are booleans, plain numbers are numbers, anything with
// "$" is a price.
func InferType(value string) FieldType {
	trimmed := strings.TrimSpace(value)
	switch {
	case strings.EqualFold(trimmed, "true"), strings.EqualFold(trimmed, "false"):
		return TypeBoolean
	case strings.Contains(trimmed, "$"):
		return TypePrice
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return TypeNumber
	}
	return TypeText
}

// ParseFieldSpec parses "key=value" or "key:type=value". Without a type,
// InferType decides.
func ParseFieldSpec(spec string) (Field, error) {
	left, value, ok := strings.Cut(spec, "=")
	if !ok {
		return Field{}, fmt.Errorf("attribute %q: want key=value or key:type=value", spec)
	}
	key := left
	fieldType := FieldType("")
	if i := strings.LastIndex(left, ":"); i >= 0 {
		if t, err := ParseType(left[i+1:]); err == nil {
			key = left[:i]
			fieldType = t
		}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Field{}, fmt.Errorf("attribute %q: key is empty", spec)
	}
	if fieldType == "" {
		fieldType = InferType(value)
	}
	return Field{Key: key, Type: fieldType, Value: value}, nil
}
