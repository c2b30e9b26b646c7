// Package output parses NexusRavenV2 completions.
//
// The model answers with a call section and a reasoning trace:
//
//	Call: get_weather(city='Seattle')
//	Thought: The function call get_weather(city='Seattle') answers the
//	question because ...
//
// Parse splits a raw completion into its Call and Thought parts. ParseCalls
// goes further and parses the call section itself: one or more Python-style
// call expressions (separated by ';' when the model emits parallel calls),
// with string, numeric, boolean, None, list, and dict literals, and nested
// calls as argument values.
//
// Failures are reported as *ParseError values wrapping the ErrNoCall or
// ErrMalformedCall sentinels, so callers can branch with errors.Is.
package output
