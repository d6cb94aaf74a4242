package canonjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wI2L/jsondiff"

	"github.com/canonproto/canonjson"
	"github.com/canonproto/canonjson/internal/testmsgs"
	"github.com/canonproto/canonjson/wkt"
)

func assertSameJSON(t *testing.T, want, got []byte) {
	t.Helper()
	patch, err := jsondiff.CompareJSON(want, got)
	require.NoError(t, err)
	assert.Empty(t, patch, "JSON differs: want %s, got %s", want, got)
}

// §8 concrete scenario 1.
func TestScalarsRoundTrip(t *testing.T) {
	m := &testmsgs.Scalars{
		Int32Field: 7,
		Int64Field: 42,
		BoolField:  true,
		BytesField: []byte{0x00, 0x01, 0xFF},
	}
	out, err := canonjson.Marshal(m)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"int32Field":7,"int64Field":"42","boolField":true,"bytesField":"AAH/"}`), out)

	var got testmsgs.Scalars
	require.NoError(t, canonjson.Unmarshal(out, &got))
	assert.Equal(t, *m, got)
}

// §8 concrete scenario 2.
func TestRepeatedElisionAndRoundTrip(t *testing.T) {
	empty := &testmsgs.Repeats{}
	out, err := canonjson.Marshal(empty)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{}`), out)

	m := &testmsgs.Repeats{Items: []int32{1, 2, 3}}
	out, err = canonjson.Marshal(m)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"items":[1,2,3]}`), out)

	var got testmsgs.Repeats
	require.NoError(t, canonjson.Unmarshal(out, &got))
	assert.Equal(t, m.Items, got.Items)
}

// §8 concrete scenario 3.
func TestTimestampRoundTrip(t *testing.T) {
	m := &testmsgs.WellKnowns{CreatedAt: &wkt.Timestamp{Seconds: 1640995200, Nanos: 123000000}}
	out, err := canonjson.Marshal(m)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"createdAt":"2022-01-01T00:00:00.123Z"}`), out)

	var got testmsgs.WellKnowns
	require.NoError(t, canonjson.Unmarshal(out, &got))
	require.NotNil(t, got.CreatedAt)
	assert.Equal(t, *m.CreatedAt, *got.CreatedAt)
}

func TestTimestampBoundsAndCase(t *testing.T) {
	min := &testmsgs.WellKnowns{CreatedAt: &wkt.Timestamp{Seconds: -62135596800}}
	out, err := canonjson.Marshal(min)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"createdAt":"0001-01-01T00:00:00Z"}`), out)

	max := &testmsgs.WellKnowns{CreatedAt: &wkt.Timestamp{Seconds: 253402300799, Nanos: 999999999}}
	out, err = canonjson.Marshal(max)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"createdAt":"9999-12-31T23:59:59.999999999Z"}`), out)

	var rejectLower testmsgs.WellKnowns
	err = canonjson.Unmarshal([]byte(`{"createdAt":"2022-01-01t00:00:00Z"}`), &rejectLower)
	assert.Error(t, err)

	var rejectZ testmsgs.WellKnowns
	err = canonjson.Unmarshal([]byte(`{"createdAt":"2022-01-01T00:00:00z"}`), &rejectZ)
	assert.Error(t, err)
}

// §8 concrete scenario 4.
func TestDurationRoundTrip(t *testing.T) {
	m := &testmsgs.WellKnowns{Ttl: &wkt.Duration{Seconds: -1, Nanos: -500000000}}
	out, err := canonjson.Marshal(m)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"ttl":"-1.500s"}`), out)

	var got testmsgs.WellKnowns
	require.NoError(t, canonjson.Unmarshal([]byte(`{"ttl":"-1.5s"}`), &got))
	require.NotNil(t, got.Ttl)
	assert.Equal(t, *m.Ttl, *got.Ttl)
}

func TestDurationRejectsBadInput(t *testing.T) {
	var got testmsgs.WellKnowns
	assert.Error(t, canonjson.Unmarshal([]byte(`{"ttl":"1.5"}`), &got))       // missing "s" suffix
	assert.Error(t, canonjson.Unmarshal([]byte(`{"ttl":"1.s"}`), &got))      // empty fraction
}

// §8 concrete scenario 5.
func TestOneofUniqueness(t *testing.T) {
	m := &testmsgs.ChoiceMessage{Choice: &testmsgs.ChoiceMessage_Name{Name: "hi"}}
	out, err := canonjson.Marshal(m)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"name":"hi"}`), out)

	var got testmsgs.ChoiceMessage
	require.NoError(t, canonjson.Unmarshal(out, &got))
	assert.Equal(t, "hi", got.Choice.(*testmsgs.ChoiceMessage_Name).Name)

	var bad testmsgs.ChoiceMessage
	err = canonjson.Unmarshal([]byte(`{"name":"hi","value":7}`), &bad)
	assert.Error(t, err)
}

// §8 concrete scenario 6.
func TestStructRoundTrip(t *testing.T) {
	in := []byte(`{"data":{"a":1,"b":[null,"x"]}}`)
	var got testmsgs.WellKnowns
	require.NoError(t, canonjson.Unmarshal(in, &got))
	require.NotNil(t, got.Data)

	a, ok := got.Data.Fields["a"].GetNumberValue()
	require.True(t, ok)
	assert.Equal(t, 1.0, a)

	b, ok := got.Data.Fields["b"].GetListValue()
	require.True(t, ok)
	require.Len(t, b.Values, 2)
	_, isNull := b.Values[0].GetNullValue()
	assert.True(t, isNull)
	s, ok := b.Values[1].GetStringValue()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	out, err := canonjson.Marshal(&got)
	require.NoError(t, err)
	assertSameJSON(t, in, out)
}

func TestStructRejectsOutOfRangeInteger(t *testing.T) {
	var got testmsgs.WellKnowns
	err := canonjson.Unmarshal([]byte(`{"data":{"a":9007199254740993}}`), &got)
	assert.Error(t, err)

	var ok testmsgs.WellKnowns
	require.NoError(t, canonjson.Unmarshal([]byte(`{"data":{"a":9007199254740992}}`), &ok))
	a, found := ok.Data.Fields["a"].GetNumberValue()
	require.True(t, found)
	assert.Equal(t, float64(1<<53), a)

	var frac testmsgs.WellKnowns
	require.NoError(t, canonjson.Unmarshal([]byte(`{"data":{"a":1.5}}`), &frac))
	f, found := frac.Data.Fields["a"].GetNumberValue()
	require.True(t, found)
	assert.Equal(t, 1.5, f)
}

func TestEnumOpenSemantics(t *testing.T) {
	m := &testmsgs.StatusHolder{Status: testmsgs.Status_STATUS_ACTIVE}
	out, err := canonjson.Marshal(m)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"status":"STATUS_ACTIVE"}`), out)

	unknown := &testmsgs.StatusHolder{Status: 99}
	out, err = canonjson.Marshal(unknown)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"status":99}`), out)

	var got testmsgs.StatusHolder
	require.NoError(t, canonjson.Unmarshal(out, &got))
	assert.Equal(t, testmsgs.Status(99), got.Status)

	var bad testmsgs.StatusHolder
	err = canonjson.Unmarshal([]byte(`{"status":"NOT_A_STATUS"}`), &bad)
	assert.Error(t, err)
}

func TestMapOrderingAndRoundTrip(t *testing.T) {
	m := &testmsgs.Maps{Labels: map[string]int32{"z": 1, "a": 2}}
	out, err := canonjson.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"labels":{"a":2,"z":1}}`, string(out))

	var got testmsgs.Maps
	require.NoError(t, canonjson.Unmarshal(out, &got))
	assert.Equal(t, m.Labels, got.Labels)
}

func TestInt64SafeBoundary(t *testing.T) {
	var a testmsgs.Scalars
	require.NoError(t, canonjson.Unmarshal([]byte(`{"int64Field":"9007199254740992"}`), &a))
	assert.EqualValues(t, 1<<53, a.Int64Field)

	var b testmsgs.Scalars
	require.NoError(t, canonjson.Unmarshal([]byte(`{"int64Field":"9007199254740993"}`), &b))
	assert.EqualValues(t, (1<<53)+1, b.Int64Field)

	var c testmsgs.Scalars
	err := canonjson.Unmarshal([]byte(`{"int64Field":9007199254740993}`), &c)
	assert.Error(t, err)
}

func TestFloat32NarrowingBoundary(t *testing.T) {
	var a testmsgs.Scalars
	require.NoError(t, canonjson.Unmarshal([]byte(`{"floatField":3.4028235e38}`), &a))

	var b testmsgs.Scalars
	err := canonjson.Unmarshal([]byte(`{"floatField":3.5e38}`), &b)
	assert.Error(t, err)
}

func TestFieldMaskEncodeRejectsNonRoundTrippingSegment(t *testing.T) {
	m := &testmsgs.WellKnowns{UpdateMask: &wkt.FieldMask{Paths: []string{"fooBar_baz"}}}
	_, err := canonjson.Marshal(m)
	assert.Error(t, err)

	ok := &testmsgs.WellKnowns{UpdateMask: &wkt.FieldMask{Paths: []string{"foo_bar"}}}
	out, err := canonjson.Marshal(ok)
	require.NoError(t, err)
	assertSameJSON(t, []byte(`{"updateMask":"fooBar"}`), out)
}

func TestUnknownFieldsAreIgnored(t *testing.T) {
	var got testmsgs.Scalars
	err := canonjson.Unmarshal([]byte(`{"int32Field":1,"somethingElse":{"nested":[1,2,3]}}`), &got)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Int32Field)
}

func TestNameToleranceAcceptsProtoName(t *testing.T) {
	var got testmsgs.Scalars
	require.NoError(t, canonjson.Unmarshal([]byte(`{"int32_field":5}`), &got))
	assert.EqualValues(t, 5, got.Int32Field)
}
