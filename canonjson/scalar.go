package canonjson

import (
	"encoding/base64"
	"reflect"

	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/internal/cerrors"
	"github.com/canonproto/canonjson/internal/jsonstream"
	"github.com/canonproto/canonjson/internal/numconv"
)

// marshalScalar writes rv (holding a value of the given scalar kind) to enc
// using the canonical JSON form for that kind (§4.2).
func marshalScalar(enc *jsonstream.Encoder, kind descriptor.Kind, rv reflect.Value) error {
	switch kind {
	case descriptor.KindBool:
		enc.WriteBool(rv.Bool())
	case descriptor.KindInt32:
		enc.WriteInt(rv.Int())
	case descriptor.KindUint32:
		enc.WriteUint(rv.Uint())
	case descriptor.KindInt64:
		// 64-bit integers are written out as a JSON string.
		enc.WriteString(formatInt64(rv.Int()))
	case descriptor.KindUint64:
		enc.WriteString(formatUint64(rv.Uint()))
	case descriptor.KindFloat:
		enc.WriteFloat(rv.Float(), 32)
	case descriptor.KindDouble:
		enc.WriteFloat(rv.Float(), 64)
	case descriptor.KindString:
		enc.WriteString(rv.String())
	case descriptor.KindBytes:
		enc.WriteString(base64.StdEncoding.EncodeToString(rv.Bytes()))
	default:
		return cerrors.New("scalar kind %v has no scalar encoding", kind)
	}
	return nil
}

// unmarshalScalar reads val (tolerating every input shape the canonical
// mapping allows for the given kind) and stores the result into rv.
func unmarshalScalar(val jsonstream.Value, kind descriptor.Kind, rv reflect.Value) error {
	switch kind {
	case descriptor.KindBool:
		b, err := val.Bool()
		if err != nil {
			return cerrors.New("invalid bool: %v", err)
		}
		rv.SetBool(b)

	case descriptor.KindInt32:
		n, err := int32Tolerant(val)
		if err != nil {
			return err
		}
		rv.SetInt(int64(n))

	case descriptor.KindUint32:
		n, err := uint32Tolerant(val)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(n))

	case descriptor.KindInt64:
		n, err := int64Tolerant(val)
		if err != nil {
			return err
		}
		rv.SetInt(n)

	case descriptor.KindUint64:
		n, err := uint64Tolerant(val)
		if err != nil {
			return err
		}
		rv.SetUint(n)

	case descriptor.KindFloat:
		f, err := floatTolerant(val, 32)
		if err != nil {
			return err
		}
		narrowed, err := numconv.Float32FromFloat64(f)
		if err != nil {
			return err
		}
		rv.SetFloat(float64(narrowed))

	case descriptor.KindDouble:
		f, err := floatTolerant(val, 64)
		if err != nil {
			return err
		}
		rv.SetFloat(f)

	case descriptor.KindString:
		if val.Type() != jsonstream.String {
			return cerrors.New("expected JSON string, got %v", val.Type())
		}
		rv.SetString(val.String())

	case descriptor.KindBytes:
		if val.Type() != jsonstream.String {
			return cerrors.New("expected base64 JSON string, got %v", val.Type())
		}
		b, err := decodeBytes(val.String())
		if err != nil {
			return err
		}
		rv.SetBytes(b)

	default:
		return cerrors.New("scalar kind %v has no scalar decoding", kind)
	}
	return nil
}

// decodeBytes decodes standard-alphabet, padded base64 (the canonical
// encoding), tolerating URL-safe and unpadded variants some producers emit.
func decodeBytes(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return nil, cerrors.New("invalid base64 string %q", s)
}

func int32Tolerant(val jsonstream.Value) (int32, error) {
	switch val.Type() {
	case jsonstream.Number:
		n, err := val.Int(32)
		if err != nil {
			return 0, cerrors.New("invalid int32: %v", err)
		}
		return int32(n), nil
	case jsonstream.String:
		n, err := numconv.Int32FromString(val.String())
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, cerrors.New("expected number or numeric string, got %v", val.Type())
}

func uint32Tolerant(val jsonstream.Value) (uint32, error) {
	switch val.Type() {
	case jsonstream.Number:
		n, err := val.Uint(32)
		if err != nil {
			return 0, cerrors.New("invalid uint32: %v", err)
		}
		return uint32(n), nil
	case jsonstream.String:
		n, err := numconv.Uint32FromString(val.String())
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, cerrors.New("expected number or numeric string, got %v", val.Type())
}

// int64Tolerant parses an int64, enforcing the exact-round-trip-safe range
// when the JSON token is a bare number (§8 scenario: 2^53+1 must be quoted).
func int64Tolerant(val jsonstream.Value) (int64, error) {
	switch val.Type() {
	case jsonstream.Number:
		n, err := val.Int(64)
		if err != nil {
			return 0, cerrors.New("invalid int64: %v", err)
		}
		if n < numconv.MinSafeInt64 || n > numconv.MaxSafeInt64 {
			return 0, cerrors.New("int64 value %d as a bare JSON number is outside the safe range; quote it", n)
		}
		return n, nil
	case jsonstream.String:
		return numconv.Int64FromString(val.String())
	}
	return 0, cerrors.New("expected string or number, got %v", val.Type())
}

func uint64Tolerant(val jsonstream.Value) (uint64, error) {
	switch val.Type() {
	case jsonstream.Number:
		n, err := val.Uint(64)
		if err != nil {
			return 0, cerrors.New("invalid uint64: %v", err)
		}
		if n > numconv.MaxSafeUint64 {
			return 0, cerrors.New("uint64 value %d as a bare JSON number is outside the safe range; quote it", n)
		}
		return n, nil
	case jsonstream.String:
		return numconv.Uint64FromString(val.String())
	}
	return 0, cerrors.New("expected string or number, got %v", val.Type())
}

func floatTolerant(val jsonstream.Value, bitSize int) (float64, error) {
	switch val.Type() {
	case jsonstream.Number:
		return val.Float(bitSize)
	case jsonstream.String:
		return numconv.Float64FromString(val.String())
	}
	return 0, cerrors.New("expected number or string, got %v", val.Type())
}
