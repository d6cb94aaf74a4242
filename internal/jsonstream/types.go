// Package jsonstream is a small tokenizing JSON reader/writer. It knows
// nothing about protobuf; it is the substrate the canonjson package drives
// to produce and consume the canonical JSON mapping.
package jsonstream

// Type identifies the kind of JSON token or construct a Value represents, or
// that an Encoder method writes out.
type Type uint

const (
	_ Type = (1 << iota) / 2
	EOF
	Null
	Bool
	Number
	String
	StartObject
	EndObject
	Name
	StartArray
	EndArray

	// comma is only used internally while parsing between values.
	comma
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "eof"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case StartObject:
		return "{"
	case EndObject:
		return "}"
	case Name:
		return "name"
	case StartArray:
		return "["
	case EndArray:
		return "]"
	}
	return "<invalid>"
}
