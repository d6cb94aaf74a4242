package jsonstream

import (
	"strconv"
	"strings"

	"github.com/canonproto/canonjson/internal/cerrors"
)

// Encoder writes out JSON constructs and values. The caller is responsible
// for producing a valid sequence of calls (e.g. StartObject before WriteName).
type Encoder struct {
	indent   string
	lastType Type
	indents  []byte
	out      []byte
}

// NewEncoder returns an Encoder. If indent is non-empty, every entry of an
// array or object is preceded by the indent string and trailed by a newline.
func NewEncoder(indent string) (*Encoder, error) {
	e := &Encoder{}
	if len(indent) > 0 {
		if strings.Trim(indent, " \t") != "" {
			return nil, cerrors.New("indent may only be composed of space or tab characters")
		}
		e.indent = indent
	}
	return e, nil
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte {
	return e.out
}

// WriteNull writes the null value.
func (e *Encoder) WriteNull() {
	e.prepareNext(Null)
	e.out = append(e.out, "null"...)
}

// WriteBool writes a boolean value.
func (e *Encoder) WriteBool(b bool) {
	e.prepareNext(Bool)
	if b {
		e.out = append(e.out, "true"...)
	} else {
		e.out = append(e.out, "false"...)
	}
}

// WriteString writes s as a JSON string value.
func (e *Encoder) WriteString(s string) {
	e.prepareNext(String)
	e.out = appendString(e.out, s)
}

// WriteFloat writes n, at the given bit size, as a JSON number (or, for
// non-finite values, the canonical literal string).
func (e *Encoder) WriteFloat(n float64, bitSize int) {
	e.prepareNext(Number)
	e.out = appendFloat(e.out, n, bitSize)
}

// WriteInt writes a signed integer as a JSON number.
func (e *Encoder) WriteInt(n int64) {
	e.prepareNext(Number)
	e.out = append(e.out, strconv.FormatInt(n, 10)...)
}

// WriteUint writes an unsigned integer as a JSON number.
func (e *Encoder) WriteUint(n uint64) {
	e.prepareNext(Number)
	e.out = append(e.out, strconv.FormatUint(n, 10)...)
}

// StartObject writes '{'.
func (e *Encoder) StartObject() {
	e.prepareNext(StartObject)
	e.out = append(e.out, '{')
}

// EndObject writes '}'.
func (e *Encoder) EndObject() {
	e.prepareNext(EndObject)
	e.out = append(e.out, '}')
}

// WriteName writes s as a JSON string and the following name separator ':'.
func (e *Encoder) WriteName(s string) {
	e.prepareNext(Name)
	e.out = appendString(e.out, s)
	e.out = append(e.out, ':')
}

// StartArray writes '['.
func (e *Encoder) StartArray() {
	e.prepareNext(StartArray)
	e.out = append(e.out, '[')
}

// EndArray writes ']'.
func (e *Encoder) EndArray() {
	e.prepareNext(EndArray)
	e.out = append(e.out, ']')
}

// prepareNext inserts the comma/indentation needed before the next token,
// based on the previously written token and the indent option.
func (e *Encoder) prepareNext(next Type) {
	defer func() {
		e.lastType = next
	}()

	if len(e.indent) == 0 {
		if e.lastType&(Null|Bool|Number|String|EndObject|EndArray) != 0 &&
			next&(Name|Null|Bool|Number|String|StartObject|StartArray) != 0 {
			e.out = append(e.out, ',')
		}
		return
	}

	switch {
	case e.lastType&(StartObject|StartArray) != 0:
		if next&(EndObject|EndArray) == 0 {
			e.indents = append(e.indents, e.indent...)
			e.out = append(e.out, '\n')
			e.out = append(e.out, e.indents...)
		}

	case e.lastType&(Null|Bool|Number|String|EndObject|EndArray) != 0:
		switch {
		case next&(Name|Null|Bool|Number|String|StartObject|StartArray) != 0:
			e.out = append(e.out, ',', '\n')
		case next&(EndObject|EndArray) != 0:
			e.indents = e.indents[:len(e.indents)-len(e.indent)]
			e.out = append(e.out, '\n')
		}
		e.out = append(e.out, e.indents...)

	case e.lastType&Name != 0:
		e.out = append(e.out, ' ')
	}
}
