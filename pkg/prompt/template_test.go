package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusflow/ravenutils/pkg/funcs"
	"github.com/nexusflow/ravenutils/pkg/prompt"
)

func fooFunction() *funcs.Function {
	return &funcs.Function{
		Name:        "foo",
		Description: "The foo function.",
		Arguments: []*funcs.Argument{
			{Name: "a", Type: funcs.TypeInt, Description: "The first argument."},
		},
		ReturnType:        funcs.TypeString,
		ReturnDescription: "The return value.",
	}
}

func TestTemplateString(t *testing.T) {
	tmpl := prompt.New([]*funcs.Function{fooFunction()})

	expected := "Function:\n" +
		"def foo(a: int) -> str:\n" +
		"    \"\"\"\n" +
		"    The foo function.\n" +
		"\n" +
		"    Args:\n" +
		"        a (int): The first argument.\n" +
		"\n" +
		"    Returns:\n" +
		"        str: The return value.\n" +
		"    \"\"\"\n" +
		"\n" +
		"User Query: {user_query}"

	assert.Equal(t, expected, tmpl.String())
}

func TestTemplateFormat(t *testing.T) {
	tmpl := prompt.New([]*funcs.Function{fooFunction()})

	formatted := tmpl.Format("pass foo a string 'bar'")
	assert.True(t, strings.HasSuffix(formatted, "User Query: pass foo a string 'bar'"))
	assert.NotContains(t, formatted, "{user_query}")
	assert.NotContains(t, formatted, "<human_end>")
}

func TestTemplateRenderAppendsTurnMarker(t *testing.T) {
	tmpl := prompt.New([]*funcs.Function{fooFunction()})

	rendered := tmpl.Render("what is foo?")
	assert.True(t, strings.HasSuffix(rendered, "User Query: what is foo?<human_end>"))
}

func TestTemplateMultipleFunctionsInOrder(t *testing.T) {
	second := fooFunction()
	second.Name = "bar"

	tmpl := prompt.New([]*funcs.Function{fooFunction(), second})
	rendered := tmpl.String()

	fooIdx := strings.Index(rendered, "def foo(")
	barIdx := strings.Index(rendered, "def bar(")
	require.GreaterOrEqual(t, fooIdx, 0)
	require.GreaterOrEqual(t, barIdx, 0)
	assert.Less(t, fooIdx, barIdx)

	// Blocks are separated by a blank line.
	assert.Contains(t, rendered, "\"\"\"\n\nFunction:\n")
}

func TestTemplateOptions(t *testing.T) {
	tmpl := prompt.New(
		[]*funcs.Function{fooFunction()},
		prompt.WithQueryLabel("Question"),
		prompt.WithHumanEndMarker(""),
	)

	rendered := tmpl.Render("why?")
	assert.True(t, strings.HasSuffix(rendered, "Question: why?"))
	assert.NotContains(t, rendered, "<human_end>")
}

func TestTemplateFromRegistry(t *testing.T) {
	registry := funcs.NewRegistry()
	require.NoError(t, registry.Register(fooFunction()))

	second := fooFunction()
	second.Name = "bar"
	require.NoError(t, registry.Register(second))

	tmpl := prompt.FromRegistry(registry)
	require.Len(t, tmpl.Functions(), 2)
	assert.Equal(t, "foo", tmpl.Functions()[0].Name)
	assert.Equal(t, "bar", tmpl.Functions()[1].Name)
}
