// Package prompt renders NexusRavenV2 function-calling prompts.
//
// A Template combines a set of function definitions into the prompt format
// NexusRavenV2 was trained on: one rendered block per function, a
// "User Query:" line, and the "<human_end>" turn marker.
//
//	tmpl := prompt.New([]*funcs.Function{addFn, subFn})
//	input := tmpl.Render("What is 1 plus 1?")
//
// Format substitutes the query without the turn marker; Render appends it
// and produces the string to send to the model verbatim.
package prompt
