// Package canonjson implements the canonical protobuf JSON mapping as a
// bidirectional codec over generated-style Go message types: structs whose
// fields follow the standard protobuf code-generation conventions (nullable
// pointers for optional/message fields, slices for repeated fields, maps for
// map fields, a marker-interface field per oneof) and that expose their
// field layout through a descriptor.MessageDescriptor.
package canonjson

import (
	"reflect"

	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/internal/cerrors"
	"github.com/canonproto/canonjson/internal/jsonstream"
)

// Message is implemented by every generated-style message type this codec
// can marshal or unmarshal. Descriptor returns the static field table the
// codec dispatches against; it never varies across calls or instances of
// the same Go type.
type Message interface {
	Descriptor() *descriptor.MessageDescriptor
}

// MarshalOptions is a configurable JSON marshaler, mirroring the shape of
// this ecosystem's usual jsonpb-style options type.
type MarshalOptions struct {
	// Indent, if non-empty, causes entries of an object or array to be
	// preceded by the indent and followed by a newline. It may only be
	// composed of space or tab characters.
	Indent string
}

// Marshal writes m in canonical JSON form using default options.
func Marshal(m Message) ([]byte, error) {
	return MarshalOptions{}.Marshal(m)
}

// Marshal writes m in canonical JSON form.
func (o MarshalOptions) Marshal(m Message) ([]byte, error) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, cerrors.New("cannot marshal a nil message")
	}
	enc, err := jsonstream.NewEncoder(o.Indent)
	if err != nil {
		return nil, err
	}
	if err := marshalMessage(enc, rv.Elem(), m.Descriptor()); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// UnmarshalOptions is a configurable JSON unmarshaler. It currently has no
// options of its own; it exists for symmetry with MarshalOptions and as the
// place future knobs (e.g. strict unknown-field rejection) would go.
type UnmarshalOptions struct{}

// Unmarshal parses data as canonical JSON into m using default options.
func Unmarshal(data []byte, m Message) error {
	return UnmarshalOptions{}.Unmarshal(data, m)
}

// Unmarshal parses data as canonical JSON into m.
func (o UnmarshalOptions) Unmarshal(data []byte, m Message) error {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return cerrors.New("cannot unmarshal into a nil message")
	}
	dec := jsonstream.NewDecoder(data)
	tok, err := dec.ReadNext()
	if err != nil {
		return err
	}
	if tok.Type() != jsonstream.StartObject {
		return cerrors.New("expected a JSON object, got %v", tok.Type())
	}
	if err := readMessageBody(dec, rv.Elem(), m.Descriptor()); err != nil {
		return err
	}
	trailing, err := dec.ReadNext()
	if err != nil {
		return err
	}
	if trailing.Type() != jsonstream.EOF {
		return cerrors.New("unexpected trailing data after message")
	}
	return nil
}

// marshalMessage writes rv (the addressable struct value of a message) as a
// JSON object, walking its descriptor's fields and oneofs (§4.4).
func marshalMessage(enc *jsonstream.Encoder, rv reflect.Value, md *descriptor.MessageDescriptor) error {
	enc.StartObject()
	for _, f := range md.Fields {
		if err := marshalField(enc, rv, f); err != nil {
			return err
		}
	}
	for _, o := range md.Oneofs {
		if err := marshalOneofGroup(enc, rv, o); err != nil {
			return err
		}
	}
	enc.EndObject()
	return nil
}

// marshalField writes one regular (non-oneof) field, applying the
// default-elision rule for its shape.
func marshalField(enc *jsonstream.Encoder, rv reflect.Value, f *descriptor.FieldDescriptor) error {
	fv := rv.FieldByName(f.GoName)

	switch f.Cardinality {
	case descriptor.Optional:
		if fv.IsNil() {
			return nil
		}
		enc.WriteName(f.JSONName)
		return marshalElemValue(enc, f.Kind, f.EnumType, f.MessageType, fv.Elem())

	case descriptor.Repeated:
		if fv.Len() == 0 {
			return nil
		}
		enc.WriteName(f.JSONName)
		enc.StartArray()
		for i := 0; i < fv.Len(); i++ {
			if err := marshalElemValue(enc, f.Kind, f.EnumType, f.MessageType, fv.Index(i)); err != nil {
				return err
			}
		}
		enc.EndArray()
		return nil

	case descriptor.Map:
		if fv.Len() == 0 {
			return nil
		}
		enc.WriteName(f.JSONName)
		return marshalMapValue(enc, fv, f)

	default: // Singular
		switch f.Kind {
		case descriptor.KindMessage:
			if fv.IsNil() {
				return nil
			}
			enc.WriteName(f.JSONName)
			return marshalMessageValue(enc, fv)

		case descriptor.KindEnum:
			n := int32(fv.Int())
			if n == 0 {
				return nil
			}
			enc.WriteName(f.JSONName)
			marshalEnum(enc, f.EnumType(), n)
			return nil

		default:
			if isZeroScalar(fv, f.Kind) {
				return nil
			}
			enc.WriteName(f.JSONName)
			return marshalScalar(enc, f.Kind, fv)
		}
	}
}

// marshalOneofGroup writes the active member of a oneof group, or nothing
// if the group is unset.
func marshalOneofGroup(enc *jsonstream.Encoder, rv reflect.Value, o *descriptor.OneofDescriptor) error {
	ifv := rv.FieldByName(o.GoName)
	if ifv.IsNil() {
		return nil
	}
	ptrVal := ifv.Elem()
	for _, mem := range o.Members {
		if ptrVal.Type() != mem.WrapperType {
			continue
		}
		payload := ptrVal.Elem().FieldByName(mem.WrapperField)
		enc.WriteName(mem.JSONName)
		return marshalElemValue(enc, mem.Kind, mem.EnumType, mem.MessageType, payload)
	}
	return cerrors.New("oneof %q: active variant has unrecognized type %s", o.Name, ptrVal.Type())
}

// readMessageBody fills rv field by field from dec, assuming the opening
// StartObject token has already been consumed by the caller. It implements
// the deserialize half of §4.4: field defaults are whatever rv already held
// (the caller is expected to pass a zero-valued struct), unknown keys are
// ignored, and name matching accepts either the JSON or protobuf name.
func readMessageBody(dec *jsonstream.Decoder, rv reflect.Value, md *descriptor.MessageDescriptor) error {
	for {
		tok, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if tok.Type() == jsonstream.EndObject {
			return nil
		}
		name, err := tok.Name()
		if err != nil {
			return err
		}

		if od, mem := md.OneofMemberByName(name); od != nil {
			if err := decodeOneofMember(dec, rv, od, mem); err != nil {
				return err
			}
			continue
		}
		if f := md.FieldByName(name); f != nil {
			if err := decodeRegularField(dec, rv, f); err != nil {
				return err
			}
			continue
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
}

// decodeRegularField reads and assigns the value for a non-oneof field.
func decodeRegularField(dec *jsonstream.Decoder, rv reflect.Value, f *descriptor.FieldDescriptor) error {
	fv := rv.FieldByName(f.GoName)

	switch f.Cardinality {
	case descriptor.Repeated:
		tok, err := dec.ReadNext()
		if err != nil {
			return err
		}
		return decodeRepeated(dec, tok, f, fv)

	case descriptor.Map:
		tok, err := dec.ReadNext()
		if err != nil {
			return err
		}
		return decodeMap(dec, tok, f, fv)

	case descriptor.Optional:
		tok, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if tok.Type() == jsonstream.Null {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		newVal := reflect.New(fv.Type().Elem())
		if f.Kind == descriptor.KindEnum {
			n, err := unmarshalEnum(tok, f.EnumType())
			if err != nil {
				return err
			}
			newVal.Elem().SetInt(int64(n))
		} else if err := unmarshalScalar(tok, f.Kind, newVal.Elem()); err != nil {
			return err
		}
		fv.Set(newVal)
		return nil

	default: // Singular
		tok, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if tok.Type() == jsonstream.Null && !isMeaningfulNull(f.Kind, f.EnumType, fv.Type()) {
			return nil
		}
		return decodeFieldInto(dec, tok, f.Kind, f.EnumType, f.MessageType, fv)
	}
}

// decodeOneofMember reads the value for one JSON key that names a oneof
// member, enforcing the oneof-uniqueness invariant (§3, §4.4, §8 property 7).
func decodeOneofMember(dec *jsonstream.Decoder, rv reflect.Value, od *descriptor.OneofDescriptor, mem *descriptor.OneofMember) error {
	tok, err := dec.ReadNext()
	if err != nil {
		return err
	}

	wrapperPtr := reflect.New(mem.WrapperType.Elem())
	payloadField := wrapperPtr.Elem().FieldByName(mem.WrapperField)

	if tok.Type() == jsonstream.Null && !isMeaningfulNull(mem.Kind, mem.EnumType, payloadField.Type()) {
		// Tolerated: the key is present but contributes nothing.
		return nil
	}

	ifv := rv.FieldByName(od.GoName)
	if !ifv.IsNil() {
		return cerrors.New("multiple fields of oneof %q are set", od.Name)
	}

	if err := decodeFieldInto(dec, tok, mem.Kind, mem.EnumType, mem.MessageType, payloadField); err != nil {
		return err
	}
	ifv.Set(wrapperPtr)
	return nil
}

// skipValue consumes and discards one full JSON value, including nested
// objects/arrays, for an unrecognized key.
func skipValue(dec *jsonstream.Decoder) error {
	tok, err := dec.ReadNext()
	if err != nil {
		return err
	}
	return skipValueGivenToken(dec, tok)
}

func skipValueGivenToken(dec *jsonstream.Decoder, tok jsonstream.Value) error {
	switch tok.Type() {
	case jsonstream.StartObject:
		for {
			t2, err := dec.ReadNext()
			if err != nil {
				return err
			}
			if t2.Type() == jsonstream.EndObject {
				return nil
			}
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	case jsonstream.StartArray:
		for {
			t2, err := dec.ReadNext()
			if err != nil {
				return err
			}
			if t2.Type() == jsonstream.EndArray {
				return nil
			}
			if err := skipValueGivenToken(dec, t2); err != nil {
				return err
			}
		}
	default:
		return nil
	}
}
