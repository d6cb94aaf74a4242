package jsonstream

import (
	"bytes"
	"math"
	"strconv"
)

// appendFloat formats n at the given bit size and appends it to out. Non-finite
// values use the canonical protobuf JSON literal strings rather than a bare
// number, since the JSON grammar itself has no way to spell them.
func appendFloat(out []byte, n float64, bitSize int) []byte {
	switch {
	case math.IsNaN(n):
		return append(out, `"NaN"`...)
	case math.IsInf(n, +1):
		return append(out, `"Infinity"`...)
	case math.IsInf(n, -1):
		return append(out, `"-Infinity"`...)
	}

	fmt := byte('f')
	if abs := math.Abs(n); abs != 0 {
		if bitSize == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bitSize == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			fmt = 'e'
		}
	}
	out = strconv.AppendFloat(out, n, fmt, -1, bitSize)
	if fmt == 'e' {
		// Canonicalize "e-05" -> "e-5" (encoding/json does the same trim).
		n := len(out)
		if n >= 4 && out[n-4] == 'e' && out[n-3] == '-' && out[n-2] == '0' {
			out[n-2] = out[n-1]
			out = out[:n-1]
		}
	}
	return out
}

// numberParts is a decomposed JSON number, split the way it needs to be to
// decide whether it denotes an integer without first rendering it through a
// float64 (which would lose precision for large magnitudes).
type numberParts struct {
	neg  bool
	intp []byte
	frac []byte
	exp  []byte
}

// parseNumber reads a JSON number token from the front of input, per RFC 7159
// §6, returning the decomposed parts and the number of bytes consumed.
func parseNumber(input []byte) (*numberParts, int) {
	var n int
	var neg bool
	var intp []byte
	var frac []byte
	var exp []byte

	s := input
	if len(s) == 0 {
		return nil, 0
	}

	if s[0] == '-' {
		neg = true
		s = s[1:]
		n++
		if len(s) == 0 {
			return nil, 0
		}
	}

	switch {
	case s[0] == '0':
		s = s[1:]
		n++
	case '1' <= s[0] && s[0] <= '9':
		intp = append(intp, s[0])
		s = s[1:]
		n++
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			intp = append(intp, s[0])
			s = s[1:]
			n++
		}
	default:
		return nil, 0
	}

	if len(s) >= 2 && s[0] == '.' && '0' <= s[1] && s[1] <= '9' {
		frac = append(frac, s[1])
		s = s[2:]
		n += 2
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			frac = append(frac, s[0])
			s = s[1:]
			n++
		}
	}

	if len(s) >= 2 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		n++
		if s[0] == '+' || s[0] == '-' {
			exp = append(exp, s[0])
			s = s[1:]
			n++
			if len(s) == 0 {
				return nil, 0
			}
		}
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			exp = append(exp, s[0])
			s = s[1:]
			n++
		}
	}

	if n < len(input) && isNotDelim(input[n]) {
		return nil, 0
	}

	return &numberParts{
		neg:  neg,
		intp: intp,
		frac: bytes.TrimRight(frac, "0"),
		exp:  exp,
	}, n
}

// normalizeToIntString renders n as a base-10 integer string with no
// exponent, returning false if n has a genuinely fractional value (this is
// the "is this JSON number an integer" test used to accept forms like
// "4.2e1" for an int32 field).
func normalizeToIntString(n *numberParts) (string, bool) {
	num := n.intp
	intpSize := len(num)
	fracSize := len(n.frac)

	if intpSize == 0 && fracSize == 0 {
		return "0", true
	}

	var exp int
	if len(n.exp) > 0 {
		i, err := strconv.ParseInt(string(n.exp), 10, 32)
		if err != nil {
			return "", false
		}
		exp = int(i)
	}

	if exp >= 0 {
		if fracSize > exp {
			return "", false
		}
		num = append(num, n.frac...)
		for i := 0; i < exp-fracSize; i++ {
			num = append(num, '0')
		}
	} else {
		if fracSize > 0 {
			return "", false
		}
		index := intpSize + exp
		if index < 0 {
			return "", false
		}
		for i := index; i < intpSize; i++ {
			if num[i] != '0' {
				return "", false
			}
		}
		num = num[:index]
	}

	if n.neg {
		return "-" + string(num), true
	}
	return string(num), true
}
