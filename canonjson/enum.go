package canonjson

import (
	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/internal/cerrors"
	"github.com/canonproto/canonjson/internal/jsonstream"
	"github.com/canonproto/canonjson/internal/numconv"
)

// marshalEnum writes n's symbolic name if it names a known value, or the
// raw integer otherwise (open-enum semantics, §4.3). google.protobuf.NullValue
// is the sole exception: its zero value renders as JSON null.
func marshalEnum(enc *jsonstream.Encoder, ed *descriptor.EnumDescriptor, n int32) {
	if ed.IsNullValue {
		enc.WriteNull()
		return
	}
	if name, ok := ed.AsName(n); ok {
		enc.WriteString(name)
		return
	}
	enc.WriteInt(int64(n))
}

// unmarshalEnum accepts a symbolic name, an integer, or an integer-valued
// string, and returns the resulting int32 tag. Unknown numbers round-trip
// when given as a JSON number; an integer-valued string is accepted only for
// a known value, and unknown names are a hard error. NullValue additionally accepts null and
// the literal name "NULL_VALUE".
func unmarshalEnum(val jsonstream.Value, ed *descriptor.EnumDescriptor) (int32, error) {
	if ed.IsNullValue {
		switch val.Type() {
		case jsonstream.Null:
			return 0, nil
		case jsonstream.Number:
			n, err := val.Int(32)
			if err != nil {
				return 0, cerrors.New("invalid NullValue: %v", err)
			}
			if n != 0 {
				return 0, cerrors.New("NullValue has no variant numbered %d", n)
			}
			return 0, nil
		case jsonstream.String:
			if val.String() != "NULL_VALUE" {
				return 0, cerrors.New("NullValue has no variant named %q", val.String())
			}
			return 0, nil
		}
		return 0, cerrors.New("expected null, 0, or \"NULL_VALUE\", got %v", val.Type())
	}

	switch val.Type() {
	case jsonstream.String:
		name := val.String()
		if v, ok := ed.FromName(name); ok {
			return v.Number, nil
		}
		if n, err := numconv.Int32FromString(name); err == nil {
			if _, ok := ed.FromInt(n); ok {
				return n, nil
			}
		}
		return 0, cerrors.New("%s has no value named %q", ed.Name, name)

	case jsonstream.Number:
		n, err := val.Int(32)
		if err != nil {
			return 0, cerrors.New("invalid %s value: %v", ed.Name, err)
		}
		return int32(n), nil

	default:
		return 0, cerrors.New("expected enum name or number, got %v", val.Type())
	}
}
