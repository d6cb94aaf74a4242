// Package numconv implements the exact-round-trip numeric conversions the
// canonical JSON mapping requires between JSON's number/string tokens and
// protobuf's scalar integer and floating-point domains.
package numconv

import (
	"math"
	"strconv"
	"strings"

	"github.com/canonproto/canonjson/internal/cerrors"
)

// Exact safe-round-trip boundaries for converting between IEEE-754 float64
// and integers without silently losing precision.
const (
	MinSafeInt64  = -(int64(1) << 53)
	MaxSafeInt64  = int64(1) << 53
	MaxSafeUint64 = uint64(1) << 54 // one power beyond the signed bound, per spec

	maxSafeIntF32 = int64(1) << 24
)

// IsIntegral reports whether f is finite and has no fractional part.
func IsIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// Int32FromFloat64 converts f to an int32, failing unless f is integral and
// within int32 range.
func Int32FromFloat64(f float64) (int32, error) {
	if !IsIntegral(f) {
		return 0, cerrors.New("%v is not an integral value", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, cerrors.New("%v out of range for int32", f)
	}
	return int32(f), nil
}

// Uint32FromFloat64 converts f to a uint32, failing unless f is integral and
// within uint32 range.
func Uint32FromFloat64(f float64) (uint32, error) {
	if !IsIntegral(f) {
		return 0, cerrors.New("%v is not an integral value", f)
	}
	if f < 0 || f > math.MaxUint32 {
		return 0, cerrors.New("%v out of range for uint32", f)
	}
	return uint32(f), nil
}

// Int64FromFloat64 converts f to an int64, failing unless f is integral and
// within the exact-round-trip-safe signed range.
func Int64FromFloat64(f float64) (int64, error) {
	if !IsIntegral(f) {
		return 0, cerrors.New("%v is not an integral value", f)
	}
	if f < float64(MinSafeInt64) || f > float64(MaxSafeInt64) {
		return 0, cerrors.New("%v out of safe range for int64", f)
	}
	return int64(f), nil
}

// Uint64FromFloat64 converts f to a uint64, failing unless f is integral and
// within the exact-round-trip-safe unsigned range.
func Uint64FromFloat64(f float64) (uint64, error) {
	if !IsIntegral(f) {
		return 0, cerrors.New("%v is not an integral value", f)
	}
	if f < 0 || f > float64(MaxSafeUint64) {
		return 0, cerrors.New("%v out of safe range for uint64", f)
	}
	return uint64(f), nil
}

// Float64FromInt64Exact converts i to a float64, failing if the conversion
// would not be exact (i.e. i falls outside the safe signed range).
func Float64FromInt64Exact(i int64) (float64, error) {
	if i < MinSafeInt64 || i > MaxSafeInt64 {
		return 0, cerrors.New("%d out of safe range for exact float64 conversion", i)
	}
	return float64(i), nil
}

// Float64FromUint64Exact converts u to a float64, failing if the conversion
// would not be exact (i.e. u falls outside the safe unsigned range).
func Float64FromUint64Exact(u uint64) (float64, error) {
	if u > MaxSafeUint64 {
		return 0, cerrors.New("%d out of safe range for exact float64 conversion", u)
	}
	return float64(u), nil
}

// Float32FromInt64Exact converts i to a float32, failing if the conversion
// would not be exact.
func Float32FromInt64Exact(i int64) (float32, error) {
	if i < -maxSafeIntF32 || i > maxSafeIntF32 {
		return 0, cerrors.New("%d out of safe range for exact float32 conversion", i)
	}
	return float32(i), nil
}

// Float32FromUint64Exact converts u to a float32, failing if the conversion
// would not be exact.
func Float32FromUint64Exact(u uint64) (float32, error) {
	if u > uint64(maxSafeIntF32) {
		return 0, cerrors.New("%d out of safe range for exact float32 conversion", u)
	}
	return float32(u), nil
}

// Float32FromFloat64 narrows f to float32, passing non-finite values through
// unchanged and failing only on magnitude overflow (precision loss for
// finite values is expected and allowed).
func Float32FromFloat64(f float64) (float32, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return float32(f), nil
	}
	narrowed := float32(f)
	if math.IsInf(float64(narrowed), 0) {
		return 0, cerrors.New("%v overflows float32", f)
	}
	return narrowed, nil
}

// Int32FromString parses s as an int32: first as a base-10 integer literal,
// then, on failure, as a float with an integral value (tolerating inputs
// like "1e6" or "4.2e1").
func Int32FromString(s string) (int32, error) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cerrors.New("%q is not a valid int32", s)
	}
	return Int32FromFloat64(f)
}

// Uint32FromString parses s as a uint32, with the same native-then-float
// fallback as Int32FromString.
func Uint32FromString(s string) (uint32, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cerrors.New("%q is not a valid uint32", s)
	}
	return Uint32FromFloat64(f)
}

// Int64FromString parses s as an int64, with the same native-then-float
// fallback, the float fallback bounded by the safe-round-trip range.
func Int64FromString(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cerrors.New("%q is not a valid int64", s)
	}
	return Int64FromFloat64(f)
}

// Uint64FromString parses s as a uint64, with the same native-then-float
// fallback, the float fallback bounded by the safe-round-trip range.
func Uint64FromString(s string) (uint64, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cerrors.New("%q is not a valid uint64", s)
	}
	return Uint64FromFloat64(f)
}

// Float64FromString parses s as a float64, accepting the literal strings
// "NaN", "Infinity", and "-Infinity" in addition to ordinary decimal forms.
func Float64FromString(s string) (float64, error) {
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(+1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, cerrors.New("%q is not a valid float", s)
	}
	return f, nil
}
