package canonjson

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/canonproto/canonjson/internal/cerrors"
	"github.com/canonproto/canonjson/internal/jsonstream"
	"github.com/canonproto/canonjson/internal/numconv"
	"github.com/canonproto/canonjson/wkt"
)

// Well-known-type range limits (§3): years 0001-9999 UTC for Timestamp,
// and the +/-10000-year span for Duration that protobuf has always used.
const (
	minTimestampSeconds = -62135596800
	maxTimestampSeconds = 253402300799
	maxDurationSeconds  = 315576000000
	minDurationSeconds  = -315576000000
)

// marshalWellKnown writes iface's canonical JSON form if it names one of the
// well-known types this codec specializes, per §4.2 and §9's "dispatch these
// by type identity before falling through to the generic message encoder".
// handled is false for any other message type.
func marshalWellKnown(enc *jsonstream.Encoder, iface interface{}) (handled bool, err error) {
	switch v := iface.(type) {
	case *wkt.Timestamp:
		return true, marshalTimestamp(enc, v)
	case *wkt.Duration:
		return true, marshalDuration(enc, v)
	case *wkt.FieldMask:
		return true, marshalFieldMask(enc, v)
	case *wkt.Struct:
		return true, marshalStruct(enc, v)
	case *wkt.ListValue:
		return true, marshalListValue(enc, v)
	case *wkt.Value:
		return true, marshalValue(enc, v)
	default:
		return false, nil
	}
}

// unmarshalWellKnownToken reads the well-known-type value already headed by
// tok into dst (a pointer to one of the well-known Go types), if dst's
// concrete type is one of them.
func unmarshalWellKnownToken(dec *jsonstream.Decoder, tok jsonstream.Value, dst interface{}) (handled bool, err error) {
	switch v := dst.(type) {
	case *wkt.Timestamp:
		return true, unmarshalTimestamp(tok, v)
	case *wkt.Duration:
		return true, unmarshalDuration(tok, v)
	case *wkt.FieldMask:
		return true, unmarshalFieldMask(tok, v)
	case *wkt.Struct:
		return true, unmarshalStruct(dec, tok, v)
	case *wkt.ListValue:
		return true, unmarshalListValue(dec, tok, v)
	case *wkt.Value:
		return true, unmarshalValue(dec, tok, v)
	default:
		return false, nil
	}
}

// --- Timestamp ---

func marshalTimestamp(enc *jsonstream.Encoder, t *wkt.Timestamp) error {
	if t.Seconds < minTimestampSeconds || t.Seconds > maxTimestampSeconds {
		return cerrors.New("timestamp seconds %d is outside the year 0001-9999 range", t.Seconds)
	}
	if t.Nanos < 0 || t.Nanos >= 1e9 {
		return cerrors.New("timestamp nanos %d is out of range", t.Nanos)
	}
	y, mo, d, hh, mm, ss := civilFromUnix(t.Seconds)
	var b strings.Builder
	b.WriteString(pad4(y))
	b.WriteByte('-')
	b.WriteString(pad2(mo))
	b.WriteByte('-')
	b.WriteString(pad2(d))
	b.WriteByte('T')
	b.WriteString(pad2(hh))
	b.WriteByte(':')
	b.WriteString(pad2(mm))
	b.WriteByte(':')
	b.WriteString(pad2(ss))
	writeFractionalSuffix(&b, t.Nanos)
	b.WriteByte('Z')
	enc.WriteString(b.String())
	return nil
}

func unmarshalTimestamp(tok jsonstream.Value, t *wkt.Timestamp) error {
	if tok.Type() != jsonstream.String {
		return cerrors.New("expected a JSON string for Timestamp, got %v", tok.Type())
	}
	s := tok.String()
	if !strings.HasSuffix(s, "Z") {
		return cerrors.New("timestamp %q must end in an uppercase Z", s)
	}
	body := s[:len(s)-1]
	datePart, timePart, ok := splitOnce(body, 'T')
	if !ok {
		return cerrors.New("timestamp %q must separate date and time with an uppercase T", s)
	}
	y, mo, d, err := parseDate(datePart)
	if err != nil {
		return err
	}
	hh, mm, ss, nanos, err := parseTimeOfDay(timePart)
	if err != nil {
		return err
	}
	secs, err := unixFromCivil(y, mo, d, hh, mm, ss)
	if err != nil {
		return err
	}
	if secs < minTimestampSeconds || secs > maxTimestampSeconds {
		return cerrors.New("timestamp %q is outside the year 0001-9999 range", s)
	}
	t.Seconds = secs
	t.Nanos = nanos
	return nil
}

// --- Duration ---

func marshalDuration(enc *jsonstream.Encoder, d *wkt.Duration) error {
	if d.Seconds < minDurationSeconds || d.Seconds > maxDurationSeconds {
		return cerrors.New("duration seconds %d is out of range", d.Seconds)
	}
	if d.Nanos <= -1e9 || d.Nanos >= 1e9 {
		return cerrors.New("duration nanos %d is out of range", d.Nanos)
	}
	if (d.Seconds > 0 && d.Nanos < 0) || (d.Seconds < 0 && d.Nanos > 0) {
		return cerrors.New("duration seconds %d and nanos %d must agree in sign", d.Seconds, d.Nanos)
	}
	neg := d.Seconds < 0 || d.Nanos < 0
	secs := d.Seconds
	nanos := d.Nanos
	if secs < 0 {
		secs = -secs
	}
	if nanos < 0 {
		nanos = -nanos
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(secs, 10))
	writeFractionalSuffix(&b, nanos)
	b.WriteByte('s')
	enc.WriteString(b.String())
	return nil
}

func unmarshalDuration(tok jsonstream.Value, d *wkt.Duration) error {
	if tok.Type() != jsonstream.String {
		return cerrors.New("expected a JSON string for Duration, got %v", tok.Type())
	}
	s := tok.String()
	if !strings.HasSuffix(s, "s") {
		return cerrors.New("duration %q must end in \"s\"", s)
	}
	body := s[:len(s)-1]
	neg := strings.HasPrefix(body, "-")
	if neg {
		body = body[1:]
	}
	intPart, fracPart, hasFrac := splitOnce(body, '.')
	if intPart == "" {
		return cerrors.New("duration %q has no integer seconds part", s)
	}
	secs, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return cerrors.New("duration %q has an invalid seconds part", s)
	}
	var nanos int32
	if hasFrac {
		if fracPart == "" || len(fracPart) > 9 {
			return cerrors.New("duration %q has an invalid fractional part", s)
		}
		for _, c := range fracPart {
			if c < '0' || c > '9' {
				return cerrors.New("duration %q has a non-digit fractional part", s)
			}
		}
		digits := fracPart + strings.Repeat("0", 9-len(fracPart))
		n, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return cerrors.New("duration %q has an invalid fractional part", s)
		}
		nanos = int32(n)
	}
	if secs < 0 || nanos < 0 {
		return cerrors.New("duration %q has a malformed sign", s)
	}
	if secs > maxDurationSeconds {
		return cerrors.New("duration %q is out of range", s)
	}
	if neg {
		secs = -secs
		nanos = -nanos
	}
	d.Seconds = secs
	d.Nanos = nanos
	return nil
}

// --- FieldMask ---

func marshalFieldMask(enc *jsonstream.Encoder, fm *wkt.FieldMask) error {
	parts := make([]string, len(fm.Paths))
	for i, path := range fm.Paths {
		segs := strings.Split(path, ".")
		camelSegs := make([]string, len(segs))
		for j, seg := range segs {
			camel := snakeToLowerCamel(seg)
			if lowerCamelToSnake(camel) != seg {
				return cerrors.New("field mask segment %q does not round-trip through lowerCamelCase", seg)
			}
			camelSegs[j] = camel
		}
		parts[i] = strings.Join(camelSegs, ".")
	}
	enc.WriteString(strings.Join(parts, ","))
	return nil
}

func unmarshalFieldMask(tok jsonstream.Value, fm *wkt.FieldMask) error {
	if tok.Type() != jsonstream.String {
		return cerrors.New("expected a JSON string for FieldMask, got %v", tok.Type())
	}
	s := tok.String()
	if s == "" {
		fm.Paths = nil
		return nil
	}
	rawPaths := strings.Split(s, ",")
	paths := make([]string, len(rawPaths))
	for i, rawPath := range rawPaths {
		if rawPath == "" {
			return cerrors.New("field mask %q has an empty path", s)
		}
		segs := strings.Split(rawPath, ".")
		snakeSegs := make([]string, len(segs))
		for j, seg := range segs {
			if seg == "" {
				return cerrors.New("field mask %q has an empty path segment", s)
			}
			if strings.ContainsRune(seg, '_') {
				return cerrors.New("field mask segment %q must not contain an underscore", seg)
			}
			snakeSegs[j] = lowerCamelToSnake(seg)
		}
		paths[i] = strings.Join(snakeSegs, ".")
	}
	fm.Paths = paths
	return nil
}

// --- Struct / ListValue / Value ---

func marshalStruct(enc *jsonstream.Encoder, s *wkt.Struct) error {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	enc.StartObject()
	for _, k := range keys {
		enc.WriteName(k)
		if err := marshalValue(enc, s.Fields[k]); err != nil {
			return err
		}
	}
	enc.EndObject()
	return nil
}

func unmarshalStruct(dec *jsonstream.Decoder, tok jsonstream.Value, s *wkt.Struct) error {
	if tok.Type() != jsonstream.StartObject {
		return cerrors.New("expected a JSON object for Struct, got %v", tok.Type())
	}
	fields := make(map[string]*wkt.Value)
	for {
		t2, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if t2.Type() == jsonstream.EndObject {
			break
		}
		name, err := t2.Name()
		if err != nil {
			return err
		}
		t3, err := dec.ReadNext()
		if err != nil {
			return err
		}
		v := &wkt.Value{}
		if err := unmarshalValue(dec, t3, v); err != nil {
			return err
		}
		fields[name] = v
	}
	s.Fields = fields
	return nil
}

func marshalListValue(enc *jsonstream.Encoder, lv *wkt.ListValue) error {
	enc.StartArray()
	for _, v := range lv.Values {
		if err := marshalValue(enc, v); err != nil {
			return err
		}
	}
	enc.EndArray()
	return nil
}

func unmarshalListValue(dec *jsonstream.Decoder, tok jsonstream.Value, lv *wkt.ListValue) error {
	if tok.Type() != jsonstream.StartArray {
		return cerrors.New("expected a JSON array for ListValue, got %v", tok.Type())
	}
	var values []*wkt.Value
	for {
		t2, err := dec.ReadNext()
		if err != nil {
			return err
		}
		if t2.Type() == jsonstream.EndArray {
			break
		}
		v := &wkt.Value{}
		if err := unmarshalValue(dec, t2, v); err != nil {
			return err
		}
		values = append(values, v)
	}
	lv.Values = values
	return nil
}

func marshalValue(enc *jsonstream.Encoder, v *wkt.Value) error {
	switch k := v.Kind.(type) {
	case *wkt.Value_NullValue:
		enc.WriteNull()
		return nil
	case *wkt.Value_NumberValue:
		if math.IsNaN(k.NumberValue) || math.IsInf(k.NumberValue, 0) {
			return cerrors.New("Value.number_value must be finite")
		}
		enc.WriteFloat(k.NumberValue, 64)
		return nil
	case *wkt.Value_StringValue:
		enc.WriteString(k.StringValue)
		return nil
	case *wkt.Value_BoolValue:
		enc.WriteBool(k.BoolValue)
		return nil
	case *wkt.Value_StructValue:
		return marshalStruct(enc, k.StructValue)
	case *wkt.Value_ListValue:
		return marshalListValue(enc, k.ListValue)
	default:
		return cerrors.New("Value has no variant set")
	}
}

// numberValueFloat converts a Number token into Value.NumberValue's f64,
// applying the safe-integer check (§4.2) when the token is an integer
// literal, exactly as int64Tolerant/uint64Tolerant do for a normal int64/
// uint64 field: an out-of-range integer errors instead of silently losing
// precision when narrowed to float64. A token already written with a
// fractional part or exponent has no integer form to check against and is
// just parsed as a float.
func numberValueFloat(tok jsonstream.Value) (float64, error) {
	if !looksIntegral(tok.Raw()) {
		return tok.Float(64)
	}
	if n, err := tok.Int(64); err == nil {
		if n < numconv.MinSafeInt64 || n > numconv.MaxSafeInt64 {
			return 0, cerrors.New("integer %d is outside the safe range for a JSON number", n)
		}
		return float64(n), nil
	}
	if u, err := tok.Uint(64); err == nil {
		if u > numconv.MaxSafeUint64 {
			return 0, cerrors.New("integer %d is outside the safe range for a JSON number", u)
		}
		return float64(u), nil
	}
	return 0, cerrors.New("invalid integer %s", tok.Raw())
}

// looksIntegral reports whether a Number token's verbatim text has an
// integer literal's shape (no fractional part or exponent).
func looksIntegral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}

func unmarshalValue(dec *jsonstream.Decoder, tok jsonstream.Value, v *wkt.Value) error {
	switch tok.Type() {
	case jsonstream.Null:
		v.Kind = &wkt.Value_NullValue{NullValue: wkt.NullValueNullValue}
	case jsonstream.Bool:
		b, err := tok.Bool()
		if err != nil {
			return err
		}
		v.Kind = &wkt.Value_BoolValue{BoolValue: b}
	case jsonstream.Number:
		f, err := numberValueFloat(tok)
		if err != nil {
			return cerrors.New("invalid Value number: %v", err)
		}
		v.Kind = &wkt.Value_NumberValue{NumberValue: f}
	case jsonstream.String:
		v.Kind = &wkt.Value_StringValue{StringValue: tok.String()}
	case jsonstream.StartObject:
		inner := &wkt.Struct{}
		if err := unmarshalStruct(dec, tok, inner); err != nil {
			return err
		}
		v.Kind = &wkt.Value_StructValue{StructValue: inner}
	case jsonstream.StartArray:
		inner := &wkt.ListValue{}
		if err := unmarshalListValue(dec, tok, inner); err != nil {
			return err
		}
		v.Kind = &wkt.Value_ListValue{ListValue: inner}
	default:
		return cerrors.New("unexpected JSON token %v for Value", tok.Type())
	}
	return nil
}
