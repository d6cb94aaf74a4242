package protoparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonproto/canonjson/descriptor"
	"github.com/canonproto/canonjson/descriptor/protoparse"
)

const sample = `
syntax = "proto3";

message Widget {
  int32 count = 1;
  string label = 2 [json_name = "displayLabel"];
  Color color = 3;
  repeated string tags = 4;
  map<string, int32> scores = 5;

  oneof payload {
    string text = 6;
    int32 number = 7;
  }
}

enum Color {
  COLOR_UNKNOWN = 0;
  COLOR_RED = 1;
  COLOR_BLUE = 2;
}
`

func TestParseResolvesFieldsEnumsAndOneofs(t *testing.T) {
	res, err := protoparse.ParseString(sample)
	require.NoError(t, err)

	widget, ok := res.Messages["Widget"]
	require.True(t, ok)
	require.Len(t, widget.Fields, 5)

	byProto := map[string]*descriptor.FieldDescriptor{}
	for _, f := range widget.Fields {
		byProto[f.ProtoName] = f
	}

	count := byProto["count"]
	require.NotNil(t, count)
	assert.Equal(t, "count", count.JSONName)
	assert.Equal(t, descriptor.KindInt32, count.Kind)
	assert.Equal(t, descriptor.Singular, count.Cardinality)

	label := byProto["label"]
	require.NotNil(t, label)
	assert.Equal(t, "displayLabel", label.JSONName, "explicit json_name option should override the default conversion")

	color := byProto["color"]
	require.NotNil(t, color)
	assert.Equal(t, descriptor.KindEnum, color.Kind)
	require.NotNil(t, color.EnumType)
	ed := color.EnumType()
	require.NotNil(t, ed, "forward reference to an enum declared later in the file must still resolve")
	assert.Equal(t, "Color", ed.Name)
	assert.Len(t, ed.Values, 3)

	tags := byProto["tags"]
	require.NotNil(t, tags)
	assert.Equal(t, descriptor.Repeated, tags.Cardinality)
	assert.Equal(t, descriptor.KindString, tags.Kind)

	scores := byProto["scores"]
	require.NotNil(t, scores)
	assert.Equal(t, descriptor.Map, scores.Cardinality)
	assert.Equal(t, descriptor.KindString, scores.MapKeyKind)
	assert.Equal(t, descriptor.KindInt32, scores.Kind)

	require.Len(t, widget.Oneofs, 1)
	payload := widget.Oneofs[0]
	assert.Equal(t, "payload", payload.Name)
	require.Len(t, payload.Members, 2)
	assert.Equal(t, "text", payload.Members[0].ProtoName)
	assert.Equal(t, descriptor.KindString, payload.Members[0].Kind)
	assert.Equal(t, "number", payload.Members[1].ProtoName)
	assert.Equal(t, descriptor.KindInt32, payload.Members[1].Kind)

	colorEnum, ok := res.Enums["Color"]
	require.True(t, ok)
	assert.Equal(t, "COLOR_RED", colorEnum.Values[1].Name)
	assert.EqualValues(t, 1, colorEnum.Values[1].Number)
}

func TestParseRejectsMalformedSource(t *testing.T) {
	_, err := protoparse.ParseString("this is not a proto file {{{")
	assert.Error(t, err)
}

func TestParseResolvesNestedMessageReference(t *testing.T) {
	const src = `
syntax = "proto3";

message Outer {
  Inner inner = 1;
}

message Inner {
  int32 value = 1;
}
`
	res, err := protoparse.ParseString(src)
	require.NoError(t, err)

	outer, ok := res.Messages["Outer"]
	require.True(t, ok)
	require.Len(t, outer.Fields, 1)
	innerField := outer.Fields[0]
	assert.Equal(t, descriptor.KindMessage, innerField.Kind)
	require.NotNil(t, innerField.MessageType)
	md := innerField.MessageType()
	require.NotNil(t, md)
	assert.Equal(t, "Inner", md.Name)
}
