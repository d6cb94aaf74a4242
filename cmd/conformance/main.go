// Command conformance implements a length-prefixed JSON conformance
// subprocess protocol: it reads little-endian uint32-size-prefixed JSON
// requests from stdin and writes size-prefixed JSON responses to stdout,
// one per request, until stdin is exhausted.
//
// It is a deliberately simplified stand-in for a real wire-format
// conformance harness: there is no ConformanceRequest/ConformanceResponse
// protobuf message and no binary wire codec here, only the canonical JSON
// mapping this repository implements. A request names which built-in
// message shape to decode into and supplies the JSON text; the response
// carries either the re-encoded canonical JSON or an error message.
package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/canonproto/canonjson"
	"github.com/canonproto/canonjson/internal/testmsgs"
)

func main() {
	root := &cobra.Command{
		Use:   "conformance",
		Short: "canonical JSON conformance subprocess",
	}
	root.AddCommand(runCmd(), selftestCmd())
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "serve the length-prefixed JSON conformance protocol over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(os.Stdin, os.Stdout)
		},
	}
}

// request names the fixture message shape to decode into; response carries
// either the round-tripped canonical JSON or an error message, never both.
type request struct {
	MessageType string          `json:"messageType"`
	JSON        json.RawMessage `json:"json"`
}

type response struct {
	JSON  string `json:"json,omitempty"`
	Error string `json:"error,omitempty"`
}

func serve(r io.Reader, w io.Writer) error {
	var sizeBuf [4]byte
	inbuf := make([]byte, 0, 4096)
	for {
		if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("conformance: read request size: %w", err)
		}
		size := binary.LittleEndian.Uint32(sizeBuf[:])
		if int(size) > cap(inbuf) {
			inbuf = make([]byte, size)
		}
		inbuf = inbuf[:size]
		if _, err := io.ReadFull(r, inbuf); err != nil {
			return fmt.Errorf("conformance: read request body: %w", err)
		}

		var req request
		var res response
		if err := json.Unmarshal(inbuf, &req); err != nil {
			res = response{Error: fmt.Sprintf("invalid request envelope: %v", err)}
		} else {
			res = handle(req)
		}

		out, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("conformance: marshal response: %w", err)
		}
		binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(out)))
		if _, err := w.Write(sizeBuf[:]); err != nil {
			return fmt.Errorf("conformance: write response size: %w", err)
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("conformance: write response body: %w", err)
		}
	}
}

func handle(req request) response {
	msg, err := newFixture(req.MessageType)
	if err != nil {
		return response{Error: err.Error()}
	}
	if err := canonjson.Unmarshal(req.JSON, msg); err != nil {
		return response{Error: err.Error()}
	}
	out, err := canonjson.Marshal(msg)
	if err != nil {
		return response{Error: err.Error()}
	}
	return response{JSON: string(out)}
}

// newFixture maps a message type name onto one of internal/testmsgs's
// fixture types, playing the role ConformanceRequest.message_type would
// play in a real wire-codec harness.
func newFixture(messageType string) (canonjson.Message, error) {
	switch messageType {
	case "Scalars":
		return &testmsgs.Scalars{}, nil
	case "Repeats":
		return &testmsgs.Repeats{}, nil
	case "Maps":
		return &testmsgs.Maps{}, nil
	case "StatusHolder":
		return &testmsgs.StatusHolder{}, nil
	case "ChoiceMessage":
		return &testmsgs.ChoiceMessage{}, nil
	case "Container":
		return &testmsgs.Container{}, nil
	case "WellKnowns":
		return &testmsgs.WellKnowns{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", messageType)
	}
}
