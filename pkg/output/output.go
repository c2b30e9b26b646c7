package output

import (
	"fmt"
	"strings"
)

const (
	callMarker    = "Call: "
	thoughtMarker = "Thought: "
)

// Output is a parsed NexusRavenV2 completion.
type Output struct {
	// Call is the raw call section, whitespace-trimmed. Use ParseCalls to
	// decompose it into call expressions.
	Call string `json:"call"`

	// Thought is the model's reasoning trace, possibly spanning multiple
	// paragraphs.
	Thought string `json:"thought"`
}

// String implements fmt.Stringer.
func (o *Output) String() string {
	return fmt.Sprintf("Output(call='%s', thought='%s')", o.Call, o.Thought)
}

// Calls parses the call section into call expressions.
func (o *Output) Calls() ([]*CallExpr, error) {
	return ParseCalls(o.Call)
}

// Parse splits a raw model completion into its call and thought sections.
//
// The call section starts at the "Call: " marker and runs until the
// "Thought: " marker; the thought section runs from there to the end of the
// completion. Both sections may span multiple lines. Text before the first
// marker is ignored.
//
// Parse returns a *ParseError wrapping ErrNoCall when the completion has no
// "Call: " marker or the call section is empty.
func Parse(raw string) (*Output, error) {
	var (
		call      strings.Builder
		thought   strings.Builder
		sawCall   bool
		inThought bool
	)

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, thoughtMarker):
			if inThought {
				thought.WriteString("\n")
				thought.WriteString(line)
				continue
			}
			inThought = true
			thought.WriteString(strings.TrimPrefix(line, thoughtMarker))

		case inThought:
			thought.WriteString("\n")
			thought.WriteString(line)

		case strings.HasPrefix(line, callMarker):
			// A repeated marker concatenates directly, without a separator.
			sawCall = true
			call.WriteString(strings.TrimPrefix(line, callMarker))

		case sawCall:
			call.WriteString("\n")
			call.WriteString(line)
		}
	}

	if !sawCall {
		return nil, newParseError(ErrNoCall, raw, "completion has no call section")
	}

	trimmed := strings.TrimSpace(call.String())
	if trimmed == "" {
		return nil, newParseError(ErrNoCall, raw, "completion call section is empty")
	}

	return &Output{
		Call:    trimmed,
		Thought: thought.String(),
	}, nil
}
