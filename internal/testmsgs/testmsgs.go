// Package testmsgs holds small, purpose-built message types that exercise
// canonjson end to end: fixtures that exist only to drive the codec, not a
// real protocol.
package testmsgs

import (
	"reflect"

	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/wkt"
)

// --- Scalars (§8 scenario 1) ---

// Scalars exercises every scalar kind's canonical JSON form in one message.
type Scalars struct {
	Int32Field  int32
	Int64Field  int64
	Uint32Field uint32
	Uint64Field uint64
	FloatField  float32
	DoubleField float64
	BoolField   bool
	StringField string
	BytesField  []byte
}

func (*Scalars) Descriptor() *descriptor.MessageDescriptor { return scalarsDescriptor }

var scalarsDescriptor = &descriptor.MessageDescriptor{
	Name: "Scalars",
	Fields: []*descriptor.FieldDescriptor{
		{ProtoName: "int32_field", JSONName: "int32Field", GoName: "Int32Field", Kind: descriptor.KindInt32},
		{ProtoName: "int64_field", JSONName: "int64Field", GoName: "Int64Field", Kind: descriptor.KindInt64},
		{ProtoName: "uint32_field", JSONName: "uint32Field", GoName: "Uint32Field", Kind: descriptor.KindUint32},
		{ProtoName: "uint64_field", JSONName: "uint64Field", GoName: "Uint64Field", Kind: descriptor.KindUint64},
		{ProtoName: "float_field", JSONName: "floatField", GoName: "FloatField", Kind: descriptor.KindFloat},
		{ProtoName: "double_field", JSONName: "doubleField", GoName: "DoubleField", Kind: descriptor.KindDouble},
		{ProtoName: "bool_field", JSONName: "boolField", GoName: "BoolField", Kind: descriptor.KindBool},
		{ProtoName: "string_field", JSONName: "stringField", GoName: "StringField", Kind: descriptor.KindString},
		{ProtoName: "bytes_field", JSONName: "bytesField", GoName: "BytesField", Kind: descriptor.KindBytes},
	},
}

// --- Repeats (§8 scenario 2) ---

// Repeats exercises repeated scalar, message, and empty-elision behavior.
type Repeats struct {
	Items    []int32
	Tags     []string
	Children []*Scalars
}

func (*Repeats) Descriptor() *descriptor.MessageDescriptor { return repeatsDescriptor }

var repeatsDescriptor = &descriptor.MessageDescriptor{
	Name: "Repeats",
	Fields: []*descriptor.FieldDescriptor{
		{ProtoName: "items", JSONName: "items", GoName: "Items", Kind: descriptor.KindInt32, Cardinality: descriptor.Repeated},
		{ProtoName: "tags", JSONName: "tags", GoName: "Tags", Kind: descriptor.KindString, Cardinality: descriptor.Repeated},
		{
			ProtoName: "children", JSONName: "children", GoName: "Children",
			Kind: descriptor.KindMessage, Cardinality: descriptor.Repeated,
			MessageType: func() *descriptor.MessageDescriptor { return scalarsDescriptor },
		},
	},
}

// --- Maps ---

// Maps exercises string-keyed and integer-keyed map fields.
type Maps struct {
	Labels map[string]int32
	ByCode map[int32]string
}

func (*Maps) Descriptor() *descriptor.MessageDescriptor { return mapsDescriptor }

var mapsDescriptor = &descriptor.MessageDescriptor{
	Name: "Maps",
	Fields: []*descriptor.FieldDescriptor{
		{
			ProtoName: "labels", JSONName: "labels", GoName: "Labels",
			Kind: descriptor.KindInt32, Cardinality: descriptor.Map, MapKeyKind: descriptor.KindString,
		},
		{
			ProtoName: "by_code", JSONName: "byCode", GoName: "ByCode",
			Kind: descriptor.KindString, Cardinality: descriptor.Map, MapKeyKind: descriptor.KindInt32,
		},
	},
}

// --- Status (open enum) ---

// Status is an open three-member enum: unknown numeric tags must still
// round-trip as bare numbers on decode/encode.
type Status int32

const (
	Status_STATUS_UNKNOWN Status = 0
	Status_STATUS_ACTIVE  Status = 1
	Status_STATUS_DONE    Status = 2
)

var statusDescriptor = &descriptor.EnumDescriptor{
	Name: "Status",
	Values: []descriptor.EnumValueDescriptor{
		{Name: "STATUS_UNKNOWN", Number: 0},
		{Name: "STATUS_ACTIVE", Number: 1},
		{Name: "STATUS_DONE", Number: 2},
	},
}

// StatusHolder exercises singular, optional, and repeated enum fields.
type StatusHolder struct {
	Status        Status
	OptionalState *Status
	History       []Status
}

func (*StatusHolder) Descriptor() *descriptor.MessageDescriptor { return statusHolderDescriptor }

var statusHolderDescriptor = &descriptor.MessageDescriptor{
	Name: "StatusHolder",
	Fields: []*descriptor.FieldDescriptor{
		{
			ProtoName: "status", JSONName: "status", GoName: "Status",
			Kind: descriptor.KindEnum, EnumType: func() *descriptor.EnumDescriptor { return statusDescriptor },
		},
		{
			ProtoName: "optional_state", JSONName: "optionalState", GoName: "OptionalState",
			Kind: descriptor.KindEnum, Cardinality: descriptor.Optional,
			EnumType: func() *descriptor.EnumDescriptor { return statusDescriptor },
		},
		{
			ProtoName: "history", JSONName: "history", GoName: "History",
			Kind: descriptor.KindEnum, Cardinality: descriptor.Repeated,
			EnumType: func() *descriptor.EnumDescriptor { return statusDescriptor },
		},
	},
}

// --- Choice (§8 scenario 5: oneof uniqueness) ---

// ChoiceMessage has a two-member oneof, "choice", matching the literal
// scenario of a string "name" variant and an int32 "value" variant.
type ChoiceMessage struct {
	Choice isChoiceMessage_Choice
}

func (*ChoiceMessage) Descriptor() *descriptor.MessageDescriptor { return choiceMessageDescriptor }

type isChoiceMessage_Choice interface {
	isChoiceMessage_Choice()
}

// ChoiceMessage_Name is the "name" variant of ChoiceMessage's oneof.
type ChoiceMessage_Name struct {
	Name string
}

func (*ChoiceMessage_Name) isChoiceMessage_Choice() {}

// ChoiceMessage_Value is the "value" variant of ChoiceMessage's oneof.
type ChoiceMessage_Value struct {
	Value int32
}

func (*ChoiceMessage_Value) isChoiceMessage_Choice() {}

var choiceMessageDescriptor = &descriptor.MessageDescriptor{
	Name: "ChoiceMessage",
	Oneofs: []*descriptor.OneofDescriptor{
		{
			Name:   "choice",
			GoName: "Choice",
			Members: []*descriptor.OneofMember{
				{
					ProtoName: "name", JSONName: "name",
					WrapperType: reflect.TypeOf(&ChoiceMessage_Name{}), WrapperField: "Name",
					Kind: descriptor.KindString,
				},
				{
					ProtoName: "value", JSONName: "value",
					WrapperType: reflect.TypeOf(&ChoiceMessage_Value{}), WrapperField: "Value",
					Kind: descriptor.KindInt32,
				},
			},
		},
	},
}

// --- Container (nested message + optional scalar) ---

// Container exercises a singular nested message field and an optional
// scalar field side by side.
type Container struct {
	Nested       *Scalars
	OptionalName *string
}

func (*Container) Descriptor() *descriptor.MessageDescriptor { return containerDescriptor }

var containerDescriptor = &descriptor.MessageDescriptor{
	Name: "Container",
	Fields: []*descriptor.FieldDescriptor{
		{
			ProtoName: "nested", JSONName: "nested", GoName: "Nested",
			Kind: descriptor.KindMessage,
			MessageType: func() *descriptor.MessageDescriptor { return scalarsDescriptor },
		},
		{
			ProtoName: "optional_name", JSONName: "optionalName", GoName: "OptionalName",
			Kind: descriptor.KindString, Cardinality: descriptor.Optional,
		},
	},
}

// --- WellKnowns (every well-known type in one message) ---

// WellKnowns embeds every well-known type canonjson specializes, so a
// single round-trip test exercises all of their codecs at once.
type WellKnowns struct {
	CreatedAt  *wkt.Timestamp
	Ttl        *wkt.Duration
	UpdateMask *wkt.FieldMask
	Data       *wkt.Struct
	Items      *wkt.ListValue
	Anything   *wkt.Value
}

func (*WellKnowns) Descriptor() *descriptor.MessageDescriptor { return wellKnownsDescriptor }

// noMessageType is used for well-known-type fields: the codec recognizes
// them by Go type identity before ever consulting MessageType (see
// canonjson/adapters.go's decodeFieldInto and marshalMessageValue), so this
// thunk is never actually called.
func noMessageType() *descriptor.MessageDescriptor { return nil }

var wellKnownsDescriptor = &descriptor.MessageDescriptor{
	Name: "WellKnowns",
	Fields: []*descriptor.FieldDescriptor{
		{ProtoName: "created_at", JSONName: "createdAt", GoName: "CreatedAt", Kind: descriptor.KindMessage, MessageType: noMessageType},
		{ProtoName: "ttl", JSONName: "ttl", GoName: "Ttl", Kind: descriptor.KindMessage, MessageType: noMessageType},
		{ProtoName: "update_mask", JSONName: "updateMask", GoName: "UpdateMask", Kind: descriptor.KindMessage, MessageType: noMessageType},
		{ProtoName: "data", JSONName: "data", GoName: "Data", Kind: descriptor.KindMessage, MessageType: noMessageType},
		{ProtoName: "items", JSONName: "items", GoName: "Items", Kind: descriptor.KindMessage, MessageType: noMessageType},
		{ProtoName: "anything", JSONName: "anything", GoName: "Anything", Kind: descriptor.KindMessage, MessageType: noMessageType},
	},
}
