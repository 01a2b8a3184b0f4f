package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueBool
	ValueString
	// ValueRaw holds nested JSON (objects or arrays) verbatim.
	ValueRaw
)

// String returns the kind name used in logs and CLI output.
func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueString:
		return "string"
	case ValueRaw:
		return "raw"
	default:
		return "null"
	}
}

// Value is a scalar attribute value: null, number, boolean or string.
// Nested JSON is tolerated on decode and carried as ValueRaw.
type Value struct {
	kind ValueKind
	num  float64
	b    bool
	str  string
	raw  json.RawMessage
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number wraps a float.
func Number(f float64) Value { return Value{kind: ValueNumber, num: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: ValueBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: ValueString, str: s} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	return v.num, true
}

// Boolean returns the boolean payload.
func (v Value) Boolean() (bool, bool) {
	if v.kind != ValueBool {
		return false, false
	}
	return v.b, true
}

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != ValueString {
		return "", false
	}
	return v.str, true
}

// Truthy follows JavaScript truthiness, which the API's consumers rely on
// for "value or fallback" lookups.
func (v Value) Truthy() bool {
	switch v.kind {
	case ValueNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case ValueBool:
		return v.b
	case ValueString:
		return v.str != ""
	case ValueRaw:
		return true
	default:
		return false
	}
}

// String renders the value the way it is shown in forms: numbers in their
// shortest form, booleans as true/false, null as the empty string.
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueString:
		return v.str
	case ValueRaw:
		return string(v.raw)
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("value %v is not representable in JSON", v.num)
		}
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.b)
	case ValueString:
		return encodeJSON(v.str)
	case ValueRaw:
		return append([]byte(nil), v.raw...), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty attribute value")
	}
	switch trimmed[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
	case '{', '[':
		*v = Value{kind: ValueRaw, raw: append(json.RawMessage(nil), trimmed...)}
	default:
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("parse number %q: %w", trimmed, err)
		}
		*v = Number(f)
	}
	return nil
}

// Attribute is one key/value pair of an object's free-form data.
type Attribute struct {
	Key   string
	Value Value
}

// Attributes is an object's data mapping. Order follows the JSON document
// it was decoded from, so cards and forms list keys the way the server
// returned them. A nil Attributes encodes as JSON null.
type Attributes []Attribute

// Get returns the value stored under key (exact match).
func (a Attributes) Get(key string) (Value, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return Value{}, false
}

// Set returns a with key bound to v, replacing an existing entry in place.
func (a Attributes) Set(key string, v Value) Attributes {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = v
			return a
		}
	}
	return append(a, Attribute{Key: key, Value: v})
}

// Keys lists the keys in order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, attr := range a {
		keys = append(keys, attr.Key)
	}
	return keys
}

// Clone returns an independent copy; nil stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	dup := make(Attributes, len(a))
	copy(dup, a)
	for i := range dup {
		if dup[i].Value.raw != nil {
			dup[i].Value.raw = append(json.RawMessage(nil), dup[i].Value.raw...)
		}
	}
	return dup
}

// MarshalJSON implements json.Marshaler.
func (a Attributes) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(attr.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := attr.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. JSON null, and any data that
// is not an object (a string, number or array), yields nil so one odd
// record does not fail a whole list.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("unexpected token %v in data", tok)
	}

	out := Attributes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in data", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("data %q: %w", key, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("data %q: %w", key, err)
		}
		out = out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// Serialize returns the compact JSON form used for text search, or the
// empty string for nil data.
func (a Attributes) Serialize() string {
	if a == nil {
		return ""
	}
	b, err := a.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}
