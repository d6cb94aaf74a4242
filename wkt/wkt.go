// Package wkt holds the Go struct definitions for the protobuf well-known
// types that canonjson gives a non-default JSON mapping: Timestamp,
// Duration, FieldMask, Struct, ListValue, Value, and NullValue. Their shape
// follows the convention generated Go protobuf code uses for every other
// message: nullable message pointers, repeated fields as slices, and oneofs
// as a private marker interface implemented by one wrapper struct per
// variant.
package wkt

// Timestamp is a point in time, represented as seconds and nanoseconds
// relative to the Unix epoch (UTC).
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Duration is a signed span of time, represented as seconds and nanoseconds.
// Per the data model invariant, Seconds and Nanos must agree in sign (zero
// is allowed on either).
type Duration struct {
	Seconds int64
	Nanos   int32
}

// FieldMask is a set of symbolic field paths.
type FieldMask struct {
	Paths []string
}

// Struct is a dynamically-shaped object: a map of string to Value.
type Struct struct {
	Fields map[string]*Value
}

// ListValue is a dynamically-shaped array of Value.
type ListValue struct {
	Values []*Value
}

// NullValue is the single-member enum whose sole value renders as JSON null.
type NullValue int32

// NullValueNullValue is the only NullValue constant (its number is 0, same
// as any proto3 enum's default).
const NullValueNullValue NullValue = 0

// Value is a dynamically-typed JSON-like value: exactly one of its variants
// is set, expressed the way generated Go code expresses a oneof — an
// interface field holding one of the Value_* wrapper types below.
type Value struct {
	Kind isValueKind
}

// isValueKind is the marker interface implemented by each Value oneof
// variant's wrapper struct.
type isValueKind interface {
	isValueKind()
}

// Value_NullValue is the Value variant holding the JSON null literal.
type Value_NullValue struct {
	NullValue NullValue
}

func (*Value_NullValue) isValueKind() {}

// Value_NumberValue is the Value variant holding a JSON number. It must be
// finite to be serialized.
type Value_NumberValue struct {
	NumberValue float64
}

func (*Value_NumberValue) isValueKind() {}

// Value_StringValue is the Value variant holding a JSON string.
type Value_StringValue struct {
	StringValue string
}

func (*Value_StringValue) isValueKind() {}

// Value_BoolValue is the Value variant holding a JSON boolean.
type Value_BoolValue struct {
	BoolValue bool
}

func (*Value_BoolValue) isValueKind() {}

// Value_StructValue is the Value variant holding a nested Struct (JSON
// object).
type Value_StructValue struct {
	StructValue *Struct
}

func (*Value_StructValue) isValueKind() {}

// Value_ListValue is the Value variant holding a nested ListValue (JSON
// array).
type Value_ListValue struct {
	ListValue *ListValue
}

func (*Value_ListValue) isValueKind() {}

// GetNullValue reports whether v holds the null variant.
func (v *Value) GetNullValue() (NullValue, bool) {
	if x, ok := v.Kind.(*Value_NullValue); ok {
		return x.NullValue, true
	}
	return 0, false
}

// GetNumberValue reports whether v holds the number variant.
func (v *Value) GetNumberValue() (float64, bool) {
	if x, ok := v.Kind.(*Value_NumberValue); ok {
		return x.NumberValue, true
	}
	return 0, false
}

// GetStringValue reports whether v holds the string variant.
func (v *Value) GetStringValue() (string, bool) {
	if x, ok := v.Kind.(*Value_StringValue); ok {
		return x.StringValue, true
	}
	return "", false
}

// GetBoolValue reports whether v holds the bool variant.
func (v *Value) GetBoolValue() (bool, bool) {
	if x, ok := v.Kind.(*Value_BoolValue); ok {
		return x.BoolValue, true
	}
	return false, false
}

// GetStructValue reports whether v holds the struct variant.
func (v *Value) GetStructValue() (*Struct, bool) {
	if x, ok := v.Kind.(*Value_StructValue); ok {
		return x.StructValue, true
	}
	return nil, false
}

// GetListValue reports whether v holds the list variant.
func (v *Value) GetListValue() (*ListValue, bool) {
	if x, ok := v.Kind.(*Value_ListValue); ok {
		return x.ListValue, true
	}
	return nil, false
}
