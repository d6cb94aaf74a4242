package canonjson

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/internal/cerrors"
	"github.com/canonproto/canonjson/internal/jsonstream"
	"github.com/canonproto/canonjson/internal/numconv"
	"github.com/canonproto/canonjson/wkt"
)

// valueGoType is the Go pointer type of wkt.Value, the one message type for
// which a JSON null is a meaningful value rather than field absence.
var valueGoType = reflect.TypeOf((*wkt.Value)(nil))

// isMeaningfulNull reports whether a JSON null decoded for a field/member of
// the given shape carries information (and so must be decoded) rather than
// simply meaning "absent" (§6: "null means field absent everywhere except as
// a value of NullValue or within a Value").
func isMeaningfulNull(kind descriptor.Kind, enumType func() *descriptor.EnumDescriptor, goType reflect.Type) bool {
	switch kind {
	case descriptor.KindEnum:
		ed := enumType()
		return ed != nil && ed.IsNullValue
	case descriptor.KindMessage:
		return goType == valueGoType
	default:
		return false
	}
}

// isZeroScalar reports whether rv holds the default value for a scalar kind,
// the condition under which §4.4 elides a singular field from its output.
func isZeroScalar(rv reflect.Value, kind descriptor.Kind) bool {
	switch kind {
	case descriptor.KindBool:
		return !rv.Bool()
	case descriptor.KindInt32, descriptor.KindInt64:
		return rv.Int() == 0
	case descriptor.KindUint32, descriptor.KindUint64:
		return rv.Uint() == 0
	case descriptor.KindFloat, descriptor.KindDouble:
		return rv.Float() == 0
	case descriptor.KindString:
		return rv.Len() == 0
	case descriptor.KindBytes:
		return rv.Len() == 0
	default:
		return false
	}
}

// marshalElemValue writes a single value of the given shape: a repeated
// element, a map value, an unwrapped optional, or an active oneof payload.
func marshalElemValue(enc *jsonstream.Encoder, kind descriptor.Kind, enumType func() *descriptor.EnumDescriptor, messageType func() *descriptor.MessageDescriptor, v reflect.Value) error {
	switch kind {
	case descriptor.KindMessage:
		if v.IsNil() {
			enc.WriteNull()
			return nil
		}
		return marshalMessageValue(enc, v)
	case descriptor.KindEnum:
		marshalEnum(enc, enumType(), int32(v.Int()))
		return nil
	default:
		return marshalScalar(enc, kind, v)
	}
}

// marshalMessageValue writes ptr (a non-nil *T message value), dispatching
// to the well-known-type codecs first and falling back to the generic
// reflective walk for everything else.
func marshalMessageValue(enc *jsonstream.Encoder, ptr reflect.Value) error {
	iface := ptr.Interface()
	if handled, err := marshalWellKnown(enc, iface); handled {
		return err
	}
	m, ok := iface.(Message)
	if !ok {
		return cerrors.New("%T does not implement canonjson.Message", iface)
	}
	return marshalMessage(enc, ptr.Elem(), m.Descriptor())
}

// mapEntry pairs a map key's reflect.Value with its canonical JSON-object
// key string, so entries can be sorted once and then written in order.
type mapEntry struct {
	key reflect.Value
	str string
}

// marshalMapValue writes fv (a non-empty map field) as a JSON object with
// deterministically ordered keys (§4.3).
func marshalMapValue(enc *jsonstream.Encoder, fv reflect.Value, f *descriptor.FieldDescriptor) error {
	keys := fv.MapKeys()
	entries := make([]mapEntry, len(keys))
	for i, k := range keys {
		entries[i] = mapEntry{key: k, str: mapKeyString(k, f.MapKeyKind)}
	}
	sort.Slice(entries, func(i, j int) bool {
		return mapKeyLess(entries[i], entries[j], f.MapKeyKind)
	})

	enc.StartObject()
	for _, e := range entries {
		enc.WriteName(e.str)
		if err := marshalElemValue(enc, f.Kind, f.EnumType, f.MessageType, fv.MapIndex(e.key)); err != nil {
			return err
		}
	}
	enc.EndObject()
	return nil
}

func mapKeyString(k reflect.Value, kind descriptor.Kind) string {
	switch kind {
	case descriptor.KindBool:
		if k.Bool() {
			return "true"
		}
		return "false"
	case descriptor.KindInt32, descriptor.KindInt64:
		return strconv.FormatInt(k.Int(), 10)
	case descriptor.KindUint32, descriptor.KindUint64:
		return strconv.FormatUint(k.Uint(), 10)
	default: // KindString
		return k.String()
	}
}

func mapKeyLess(a, b mapEntry, kind descriptor.Kind) bool {
	switch kind {
	case descriptor.KindInt32, descriptor.KindInt64:
		return a.key.Int() < b.key.Int()
	case descriptor.KindUint32, descriptor.KindUint64:
		return a.key.Uint() < b.key.Uint()
	default: // KindString, KindBool
		return a.str < b.str
	}
}

// decodeFieldInto reads the value already headed by tok into dest, for a
// single value of the given shape: a regular singular field, a repeated
// element, a map value, an unwrapped optional, or a oneof payload. tok is
// assumed to not be a "meaningful absent" null; callers filter that case
// themselves since the rule differs across message/enum/scalar and across
// contexts (field vs. oneof member).
func decodeFieldInto(dec *jsonstream.Decoder, tok jsonstream.Value, kind descriptor.Kind, enumType func() *descriptor.EnumDescriptor, messageType func() *descriptor.MessageDescriptor, dest reflect.Value) error {
	switch kind {
	case descriptor.KindMessage:
		newPtr := reflect.New(dest.Type().Elem())
		if handled, err := unmarshalWellKnownToken(dec, tok, newPtr.Interface()); handled {
			if err != nil {
				return err
			}
			dest.Set(newPtr)
			return nil
		}
		if tok.Type() != jsonstream.StartObject {
			return cerrors.New("expected a JSON object, got %v", tok.Type())
		}
		m, ok := newPtr.Interface().(Message)
		if !ok {
			return cerrors.New("%s does not implement canonjson.Message", dest.Type().Elem())
		}
		if err := readMessageBody(dec, newPtr.Elem(), m.Descriptor()); err != nil {
			return err
		}
		dest.Set(newPtr)
		return nil

	case descriptor.KindEnum:
		n, err := unmarshalEnum(tok, enumType())
		if err != nil {
			return err
		}
		dest.SetInt(int64(n))
		return nil

	default:
		return unmarshalScalar(tok, kind, dest)
	}
}

// decodeRepeated reads a JSON array (or null, tolerated as empty) into fv.
func decodeRepeated(dec *jsonstream.Decoder, tok jsonstream.Value, f *descriptor.FieldDescriptor, fv reflect.Value) error {
	if tok.Type() == jsonstream.Null {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	if tok.Type() != jsonstream.StartArray {
		return cerrors.New("expected a JSON array for field %q, got %v", f.JSONName, tok.Type())
	}

	elemType := fv.Type().Elem()
	result := reflect.MakeSlice(fv.Type(), 0, 0)
	for {
		t2, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if t2.Type() == jsonstream.EndArray {
			break
		}
		elemPtr := reflect.New(elemType)
		if err := decodeFieldInto(dec, t2, f.Kind, f.EnumType, f.MessageType, elemPtr.Elem()); err != nil {
			return err
		}
		result = reflect.Append(result, elemPtr.Elem())
	}
	fv.Set(result)
	return nil
}

// decodeMap reads a JSON object (or null, tolerated as empty) into fv.
func decodeMap(dec *jsonstream.Decoder, tok jsonstream.Value, f *descriptor.FieldDescriptor, fv reflect.Value) error {
	if tok.Type() == jsonstream.Null {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	if tok.Type() != jsonstream.StartObject {
		return cerrors.New("expected a JSON object for map field %q, got %v", f.JSONName, tok.Type())
	}

	keyType := fv.Type().Key()
	valType := fv.Type().Elem()
	result := reflect.MakeMap(fv.Type())
	for {
		t2, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if t2.Type() == jsonstream.EndObject {
			break
		}
		keyStr, err := t2.Name()
		if err != nil {
			return err
		}
		keyVal, err := parseMapKey(keyStr, f.MapKeyKind, keyType)
		if err != nil {
			return err
		}
		t3, err := dec.ReadNext()
		if err != nil {
			return err
		}
		valPtr := reflect.New(valType)
		if err := decodeFieldInto(dec, t3, f.Kind, f.EnumType, f.MessageType, valPtr.Elem()); err != nil {
			return err
		}
		result.SetMapIndex(keyVal, valPtr.Elem())
	}
	fv.Set(result)
	return nil
}

// parseMapKey converts a JSON object key string into the map's native key
// type, per the key encodings listed in §3.
func parseMapKey(s string, kind descriptor.Kind, keyType reflect.Type) (reflect.Value, error) {
	switch kind {
	case descriptor.KindString:
		return reflect.ValueOf(s).Convert(keyType), nil
	case descriptor.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, cerrors.New("invalid bool map key %q", s)
		}
		return reflect.ValueOf(b).Convert(keyType), nil
	case descriptor.KindInt32:
		n, err := numconv.Int32FromString(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(keyType), nil
	case descriptor.KindInt64:
		n, err := numconv.Int64FromString(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(keyType), nil
	case descriptor.KindUint32:
		n, err := numconv.Uint32FromString(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(keyType), nil
	case descriptor.KindUint64:
		n, err := numconv.Uint64FromString(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(keyType), nil
	default:
		return reflect.Value{}, cerrors.New("unsupported map key kind %v", kind)
	}
}
