package output_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusflow/ravenutils/pkg/output"
)

func TestParseSingleCallAndThought(t *testing.T) {
	raw := "Call: add(a=1, b=1) \nThought: The function call `add(a=1, b=1)` answers the question."

	out, err := output.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "add(a=1, b=1)", out.Call)
	assert.Equal(t, "The function call `add(a=1, b=1)` answers the question.", out.Thought)
}

func TestParseMultilineThought(t *testing.T) {
	raw := "Call: add(a=1, b=1)\n" +
		"Thought: The call answers the question.\n" +
		"\n" +
		"The `add` function takes two integers and returns their sum.\n" +
		"\n" +
		"Therefore the result is 2."

	out, err := output.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "add(a=1, b=1)", out.Call)
	assert.Equal(t,
		"The call answers the question.\n\nThe `add` function takes two integers and returns their sum.\n\nTherefore the result is 2.",
		out.Thought)
}

func TestParseMultilineCall(t *testing.T) {
	raw := "Call: outer(\n    inner(a=1),\n    b=2)\nThought: nested."

	out, err := output.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "outer(\n    inner(a=1),\n    b=2)", out.Call)
}

func TestParseRepeatedCallMarkers(t *testing.T) {
	raw := "Call: add(a=1,\nCall: b=2)\nThought: split across two markers."

	out, err := output.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "add(a=1,b=2)", out.Call)
}

func TestParsePreambleIsIgnored(t *testing.T) {
	raw := "Some chatter before the answer.\nCall: f(a=1)\nThought: done."

	out, err := output.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "f(a=1)", out.Call)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no markers", raw: "Invalid output"},
		{name: "empty call section", raw: "Call:  \nThought: b"},
		{name: "empty input", raw: ""},
		{
			name: "prose without markers",
			raw: "A few years ago, a friend was struggling to get his order fulfillment\n" +
				"system to work the way he wanted it to. Here are some reasons why your\n" +
				"order fulfillment needs an outsourcing partner.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := output.Parse(tt.raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, output.ErrNoCall)

			var parseErr *output.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}

func TestOutputString(t *testing.T) {
	out := &output.Output{
		Call:    "add(1, 1)",
		Thought: `The function call answers the question "What is 1 plus 1?".`,
	}
	assert.Equal(t,
		`Output(call='add(1, 1)', thought='The function call answers the question "What is 1 plus 1?".')`,
		out.String())
}

func TestOutputCalls(t *testing.T) {
	out := &output.Output{Call: "add(a=1, b=2); mul(a=3, b=4)"}

	calls, err := out.Calls()
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "add", calls[0].Name)
	assert.Equal(t, "mul", calls[1].Name)
}
