package prompt

import (
	"strings"

	"github.com/nexusflow/ravenutils/pkg/funcs"
)

const (
	// defaultQueryLabel precedes the user query in the rendered prompt.
	defaultQueryLabel = "User Query"

	// defaultHumanEnd is the turn marker NexusRavenV2 expects after the
	// user query.
	defaultHumanEnd = "<human_end>"

	// queryPlaceholder marks the query position in the unformatted template.
	queryPlaceholder = "{user_query}"
)

// Template renders a function-calling prompt for a fixed set of functions.
// Functions appear in the order they were given; rendering is deterministic.
type Template struct {
	functions  []*funcs.Function
	queryLabel string
	humanEnd   string
}

// Option configures a Template.
type Option func(*Template)

// WithQueryLabel overrides the "User Query" label.
func WithQueryLabel(label string) Option {
	return func(t *Template) {
		t.queryLabel = label
	}
}

// WithHumanEndMarker overrides the "<human_end>" turn marker appended by
// Render. An empty marker disables it.
func WithHumanEndMarker(marker string) Option {
	return func(t *Template) {
		t.humanEnd = marker
	}
}

// New creates a template over the given function definitions.
func New(functions []*funcs.Function, opts ...Option) *Template {
	t := &Template{
		functions:  functions,
		queryLabel: defaultQueryLabel,
		humanEnd:   defaultHumanEnd,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromRegistry creates a template over all functions in the registry, in
// registration order.
func FromRegistry(registry *funcs.Registry, opts ...Option) *Template {
	return New(registry.List(), opts...)
}

// Functions returns the template's function definitions.
func (t *Template) Functions() []*funcs.Function {
	return t.functions
}

// String returns the unformatted template with a {user_query} placeholder.
func (t *Template) String() string {
	return t.build(queryPlaceholder)
}

// Format substitutes the user query into the template.
func (t *Template) Format(userQuery string) string {
	return t.build(userQuery)
}

// build assembles the function blocks and the query line.
func (t *Template) build(query string) string {
	blocks := make([]string, len(t.functions))
	for i, fn := range t.functions {
		blocks[i] = fn.Render()
	}
	return strings.Join(blocks, "\n") + "\n" + t.queryLabel + ": " + query
}

// Render produces the final model input: the formatted prompt followed by
// the turn marker.
func (t *Template) Render(userQuery string) string {
	return t.Format(userQuery) + t.humanEnd
}
