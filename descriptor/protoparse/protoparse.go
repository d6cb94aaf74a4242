// Package protoparse builds descriptor.MessageDescriptor and
// descriptor.EnumDescriptor values by reading `.proto` source text, giving
// the code-generator contract (§6) a real, if partial, implementation: it
// extracts field/enum shape from the schema, the half of "generate a table
// of field descriptors" that does not require a Go compiler pass.
//
// What it cannot do is invent the Go types a oneof's wrapper structs need:
// descriptor.OneofMember.WrapperType is a reflect.Type of a compiled struct,
// and no struct exists for a message this package has only just read out of
// text. Descriptors produced here carry ProtoName/JSONName/Kind/Cardinality
// for every field, and fully resolved OneofDescriptor/OneofMember entries
// minus WrapperType/WrapperField, which a caller pairs in by hand against
// its own generated or hand-written message types (exactly the step real
// protoc-gen-go plugins perform and this package does not attempt).
package protoparse

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	"github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/internal/cerrors"
)

const jsonNameOption = "json_name"

// Result is the parsed descriptor set for one `.proto` file: every message
// and enum it declares (including nested ones), keyed by its unqualified
// declared name for lookup by callers pairing descriptors against their own
// Go types.
type Result struct {
	Messages map[string]*descriptor.MessageDescriptor
	Enums    map[string]*descriptor.EnumDescriptor
}

// Parse reads a `.proto` file from r and resolves it into a Result.
func Parse(r io.Reader) (*Result, error) {
	proto, err := protoparser.Parse(r)
	if err != nil {
		return nil, cerrors.New("parsing proto source: %v", err)
	}

	b := &builder{
		messages: map[string]*descriptor.MessageDescriptor{},
		enums:    map[string]*descriptor.EnumDescriptor{},
	}
	for _, v := range proto.ProtoBody {
		switch n := v.(type) {
		case *parser.Message:
			b.registerMessage(n)
		case *parser.Enum:
			b.registerEnum(n)
		}
	}
	for _, v := range proto.ProtoBody {
		switch n := v.(type) {
		case *parser.Message:
			if err := b.buildMessage(n); err != nil {
				return nil, err
			}
		case *parser.Enum:
			if err := b.buildEnum(n); err != nil {
				return nil, err
			}
		}
	}
	return &Result{Messages: b.messages, Enums: b.enums}, nil
}

// ParseString is a convenience wrapper around Parse for in-memory schemas,
// used by this package's tests.
func ParseString(src string) (*Result, error) {
	return Parse(bytes.NewBufferString(src))
}

// builder accumulates descriptors across the two passes Parse performs:
// first registering every message/enum name (so forward references resolve)
// and then filling in each one's fields.
type builder struct {
	messages map[string]*descriptor.MessageDescriptor
	enums    map[string]*descriptor.EnumDescriptor
}

func (b *builder) registerMessage(m *parser.Message) {
	b.messages[m.MessageName] = &descriptor.MessageDescriptor{Name: m.MessageName}
	for _, v := range m.MessageBody {
		switch n := v.(type) {
		case *parser.Message:
			b.registerMessage(n)
		case *parser.Enum:
			b.registerEnum(n)
		}
	}
}

func (b *builder) registerEnum(e *parser.Enum) {
	b.enums[e.EnumName] = &descriptor.EnumDescriptor{Name: e.EnumName}
}

func (b *builder) buildMessage(m *parser.Message) error {
	md := b.messages[m.MessageName]
	for _, v := range m.MessageBody {
		switch n := v.(type) {
		case *parser.Field:
			fd, err := b.buildField(n)
			if err != nil {
				return err
			}
			md.Fields = append(md.Fields, fd)
		case *parser.MapField:
			fd, err := b.buildMapField(n)
			if err != nil {
				return err
			}
			md.Fields = append(md.Fields, fd)
		case *parser.Oneof:
			od, err := b.buildOneof(n)
			if err != nil {
				return err
			}
			md.Oneofs = append(md.Oneofs, od)
		case *parser.Message:
			if err := b.buildMessage(n); err != nil {
				return err
			}
		case *parser.Enum:
			if err := b.buildEnum(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) buildEnum(e *parser.Enum) error {
	ed := b.enums[e.EnumName]
	ed.IsNullValue = e.EnumName == "NullValue"
	for _, v := range e.EnumBody {
		if f, ok := v.(*parser.EnumField); ok {
			n, err := strconv.Atoi(f.Number)
			if err != nil {
				return cerrors.New("enum %s value %s: invalid number %q", e.EnumName, f.Ident, f.Number)
			}
			ed.Values = append(ed.Values, descriptor.EnumValueDescriptor{Name: f.Ident, Number: int32(n)})
		}
	}
	return nil
}

func (b *builder) buildField(f *parser.Field) (*descriptor.FieldDescriptor, error) {
	fd := &descriptor.FieldDescriptor{
		ProtoName: f.FieldName,
		JSONName:  jsonNameFor(f.FieldName, f.FieldOptions),
		GoName:    goNameFor(f.FieldName),
	}
	if f.IsRepeated {
		fd.Cardinality = descriptor.Repeated
	}
	b.resolveType(fd, f.Type)
	return fd, nil
}

func (b *builder) buildMapField(f *parser.MapField) (*descriptor.FieldDescriptor, error) {
	fd := &descriptor.FieldDescriptor{
		ProtoName:   f.MapName,
		JSONName:    jsonNameFor(f.MapName, f.FieldOptions),
		GoName:      goNameFor(f.MapName),
		Cardinality: descriptor.Map,
	}
	keyKind, err := scalarKind(f.KeyType)
	if err != nil {
		return nil, cerrors.New("map field %s: invalid key type %q", f.MapName, f.KeyType)
	}
	fd.MapKeyKind = keyKind
	b.resolveType(fd, f.Type)
	return fd, nil
}

func (b *builder) buildOneof(o *parser.Oneof) (*descriptor.OneofDescriptor, error) {
	od := &descriptor.OneofDescriptor{
		Name:   o.OneofName,
		GoName: goNameFor(o.OneofName),
	}
	for _, f := range o.OneofFields {
		mem := &descriptor.OneofMember{
			ProtoName: f.FieldName,
			JSONName:  jsonNameFor(f.FieldName, f.FieldOptions),
		}
		tmp := &descriptor.FieldDescriptor{}
		b.resolveType(tmp, f.Type)
		mem.Kind = tmp.Kind
		mem.EnumType = tmp.EnumType
		mem.MessageType = tmp.MessageType
		od.Members = append(od.Members, mem)
	}
	return od, nil
}

// resolveType fills in fd.Kind and, for enum/message fields, a thunk that
// looks the referenced descriptor up by name at call time — not at parse
// time, since a forward reference's builder entry may still be empty.
func (b *builder) resolveType(fd *descriptor.FieldDescriptor, protoType string) {
	if kind, err := scalarKind(protoType); err == nil {
		fd.Kind = kind
		return
	}
	name := strings.TrimPrefix(protoType, ".")
	if _, ok := b.enums[name]; ok {
		fd.Kind = descriptor.KindEnum
		fd.EnumType = func() *descriptor.EnumDescriptor { return b.enums[name] }
		return
	}
	fd.Kind = descriptor.KindMessage
	fd.MessageType = func() *descriptor.MessageDescriptor { return b.messages[name] }
}

func scalarKind(protoType string) (descriptor.Kind, error) {
	switch protoType {
	case "bool":
		return descriptor.KindBool, nil
	case "int32", "sint32", "sfixed32":
		return descriptor.KindInt32, nil
	case "uint32", "fixed32":
		return descriptor.KindUint32, nil
	case "int64", "sint64", "sfixed64":
		return descriptor.KindInt64, nil
	case "uint64", "fixed64":
		return descriptor.KindUint64, nil
	case "float":
		return descriptor.KindFloat, nil
	case "double":
		return descriptor.KindDouble, nil
	case "string":
		return descriptor.KindString, nil
	case "bytes":
		return descriptor.KindBytes, nil
	default:
		return 0, cerrors.New("not a scalar type: %s", protoType)
	}
}

// jsonNameFor honors an explicit json_name field option, falling back to
// the default lowerCamelCase conversion of the protobuf field name.
func jsonNameFor(protoName string, opts []*parser.FieldOption) string {
	for _, opt := range opts {
		if strings.Trim(opt.OptionName, `"`) == jsonNameOption {
			return strings.Trim(opt.Constant, `"`)
		}
	}
	return snakeToLowerCamelProto(protoName)
}

// goNameFor applies the same PascalCase convention protoc-gen-go uses for
// generated struct field names.
func goNameFor(protoName string) string {
	parts := strings.Split(protoName, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func snakeToLowerCamelProto(s string) string {
	out := make([]byte, 0, len(s))
	upperNext := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		out = append(out, c)
	}
	return string(out)
}
