// Package descriptor is the consumer-side data model of the code-generator
// contract: an ordered table of field descriptors per message, carrying
// enough shape information (kind, cardinality, enum/message type, oneof
// membership) for canonjson to dispatch generically instead of by
// per-message generated code.
//
// Message- and enum-type references are held as thunks (func() *X) rather
// than direct pointers so that package-level descriptor literals for
// mutually recursive types (Struct, Value, ListValue) can be declared
// without an initialization-order cycle.
package descriptor

import "reflect"

// Kind identifies a field's underlying scalar, enum, or message type.
type Kind int

const (
	KindBool Kind = iota
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindEnum
	KindMessage
)

// Cardinality identifies how many values of Kind a field holds.
type Cardinality int

const (
	// Singular is a plain scalar/enum/message field.
	Singular Cardinality = iota
	// Optional is a nullable scalar or enum field.
	Optional
	// Repeated is an ordered sequence of Kind.
	Repeated
	// Map is a key-kind to Kind container.
	Map
)

// MessageDescriptor describes one message type: its fields in declaration
// order and its oneof groups.
type MessageDescriptor struct {
	Name   string
	Fields []*FieldDescriptor
	Oneofs []*OneofDescriptor
}

// FieldByName returns the field whose JSON name or protobuf name matches
// name, per §4.4's "accept either name" deserialize rule.
func (m *MessageDescriptor) FieldByName(name string) *FieldDescriptor {
	for _, f := range m.Fields {
		if f.JSONName == name || f.ProtoName == name {
			return f
		}
	}
	return nil
}

// OneofMemberByName returns the oneof group and member whose JSON name or
// protobuf name matches name.
func (m *MessageDescriptor) OneofMemberByName(name string) (*OneofDescriptor, *OneofMember) {
	for _, o := range m.Oneofs {
		for _, mem := range o.Members {
			if mem.JSONName == name || mem.ProtoName == name {
				return o, mem
			}
		}
	}
	return nil, nil
}

// FieldDescriptor is one message field: its two names, its shape, and (for
// enum/message fields) a thunk resolving to the referenced type descriptor.
type FieldDescriptor struct {
	ProtoName   string
	JSONName    string
	GoName      string // struct field name, read/written via reflect
	Kind        Kind
	Cardinality Cardinality

	// EnumType is set iff Kind == KindEnum.
	EnumType func() *EnumDescriptor
	// MessageType is set iff Kind == KindMessage.
	MessageType func() *MessageDescriptor

	// MapKeyKind is set iff Cardinality == Map. Per §3 it is restricted to
	// {string, bool, int32, int64, uint32, uint64}.
	MapKeyKind Kind

	// OneofName, if non-empty, names the oneof group this field belongs to.
	// canonjson does not read it: it walks oneof members only through
	// MessageDescriptor.Oneofs, and walks every entry of Fields directly.
	OneofName string
}

// OneofDescriptor describes one oneof group.
type OneofDescriptor struct {
	Name    string
	GoName  string // interface-typed field on the message struct
	Members []*OneofMember
}

// OneofMember describes one variant of a oneof group: its names, the
// concrete Go wrapper type that implements the oneof's marker interface when
// this variant is active, and the shape of the payload it carries.
type OneofMember struct {
	ProtoName string
	JSONName  string

	// WrapperType is the Go struct type (e.g. Choice_Name) that implements
	// the oneof's marker interface when this member is active.
	WrapperType reflect.Type
	// WrapperField is the name of the field inside WrapperType holding the
	// payload value.
	WrapperField string

	Kind        Kind
	EnumType    func() *EnumDescriptor
	MessageType func() *MessageDescriptor
}

// EnumDescriptor describes one enum type: its known values, keyed both ways.
type EnumDescriptor struct {
	Name string
	// IsNullValue marks google.protobuf.NullValue, the sole enum whose value
	// renders as JSON null rather than as a name or number (a singular field
	// holding it is still elided as a default value).
	IsNullValue bool
	Values      []EnumValueDescriptor
}

// EnumValueDescriptor is one named enum constant.
type EnumValueDescriptor struct {
	Name   string
	Number int32
}

// FromInt looks up a value by its numeric tag. ok is false for unknown
// (open-enum) numbers, which the caller must still accept and round-trip as
// a bare number rather than reject.
func (e *EnumDescriptor) FromInt(n int32) (EnumValueDescriptor, bool) {
	for _, v := range e.Values {
		if v.Number == n {
			return v, true
		}
	}
	return EnumValueDescriptor{}, false
}

// FromName looks up a value by its symbolic name.
func (e *EnumDescriptor) FromName(name string) (EnumValueDescriptor, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return EnumValueDescriptor{}, false
}

// AsName returns the symbolic name for a known numeric tag.
func (e *EnumDescriptor) AsName(n int32) (string, bool) {
	v, ok := e.FromInt(n)
	if !ok {
		return "", false
	}
	return v.Name, true
}
