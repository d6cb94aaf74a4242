package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"

	"github.com/canonproto/canonjson"
	"github.com/canonproto/canonjson/internal/testmsgs"
	"github.com/canonproto/canonjson/wkt"
)

func selftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "run the built-in literal scenarios without a driving process",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range selftestCases {
				out, err := canonjson.Marshal(c.msg)
				if err != nil {
					return fmt.Errorf("%s: marshal: %w", c.name, err)
				}
				patch, err := jsondiff.CompareJSON([]byte(c.want), out)
				if err != nil {
					return fmt.Errorf("%s: comparing output: %w", c.name, err)
				}
				if len(patch) != 0 {
					return fmt.Errorf("%s: output %s does not match %s", c.name, out, c.want)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", c.name)
			}
			return nil
		},
	}
}

type selftestCase struct {
	name string
	msg  canonjson.Message
	want string
}

// selftestCases are the six literal scenarios, run here as a standalone
// sanity check independent of the package's own *_test.go suite.
var selftestCases = []selftestCase{
	{
		name: "scalars",
		msg: &testmsgs.Scalars{
			Int32Field: 7,
			Int64Field: 42,
			BoolField:  true,
			BytesField: []byte{0x00, 0x01, 0xFF},
		},
		want: `{"int32Field":7,"int64Field":"42","boolField":true,"bytesField":"AAH/"}`,
	},
	{
		name: "repeated",
		msg:  &testmsgs.Repeats{Items: []int32{1, 2, 3}},
		want: `{"items":[1,2,3]}`,
	},
	{
		name: "timestamp",
		msg:  &testmsgs.WellKnowns{CreatedAt: &wkt.Timestamp{Seconds: 1640995200, Nanos: 123000000}},
		want: `{"createdAt":"2022-01-01T00:00:00.123Z"}`,
	},
	{
		name: "duration",
		msg:  &testmsgs.WellKnowns{Ttl: &wkt.Duration{Seconds: -1, Nanos: -500000000}},
		want: `{"ttl":"-1.500s"}`,
	},
	{
		name: "oneof",
		msg:  &testmsgs.ChoiceMessage{Choice: &testmsgs.ChoiceMessage_Name{Name: "hi"}},
		want: `{"name":"hi"}`,
	},
	{
		name: "struct",
		msg: &testmsgs.WellKnowns{Data: &wkt.Struct{Fields: map[string]*wkt.Value{
			"a": {Kind: &wkt.Value_NumberValue{NumberValue: 1}},
			"b": {Kind: &wkt.Value_ListValue{ListValue: &wkt.ListValue{Values: []*wkt.Value{
				{Kind: &wkt.Value_NullValue{}},
				{Kind: &wkt.Value_StringValue{StringValue: "x"}},
			}}}},
		}}},
		want: `{"data":{"a":1,"b":[null,"x"]}}`,
	},
}
