package funcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusflow/ravenutils/pkg/funcs"
)

func TestArgumentRendering(t *testing.T) {
	tests := []struct {
		name      string
		argument  *funcs.Argument
		doc       string
		signature string
	}{
		{
			name:      "name only",
			argument:  &funcs.Argument{Name: "a"},
			doc:       "a",
			signature: "a",
		},
		{
			name:      "type only",
			argument:  &funcs.Argument{Name: "a", Type: funcs.TypeInt},
			doc:       "a (int)",
			signature: "a: int",
		},
		{
			name:      "description only",
			argument:  &funcs.Argument{Name: "a", Description: "the description"},
			doc:       "a: the description",
			signature: "a",
		},
		{
			name:      "default only",
			argument:  &funcs.Argument{Name: "a", Default: 1},
			doc:       "a (:obj:`Any`, optional)",
			signature: "a = 1",
		},
		{
			name:      "type and description",
			argument:  &funcs.Argument{Name: "a", Type: funcs.TypeInt, Description: "the description"},
			doc:       "a (int): the description",
			signature: "a: int",
		},
		{
			name:      "type and default",
			argument:  &funcs.Argument{Name: "a", Type: funcs.TypeInt, Default: 1},
			doc:       "a (:obj:`int`, optional)",
			signature: "a: int = 1",
		},
		{
			name:      "type description and default",
			argument:  &funcs.Argument{Name: "a", Type: funcs.TypeInt, Description: "the description", Default: 1},
			doc:       "a (:obj:`int`, optional): the description",
			signature: "a: int = 1",
		},
		{
			name:      "string default is quoted",
			argument:  &funcs.Argument{Name: "unit", Type: funcs.TypeString, Default: "celsius"},
			doc:       "unit (:obj:`str`, optional)",
			signature: "unit: str = 'celsius'",
		},
		{
			name:      "bool default renders python style",
			argument:  &funcs.Argument{Name: "strict", Type: funcs.TypeBool, Default: true},
			doc:       "strict (:obj:`bool`, optional)",
			signature: "strict: bool = True",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.doc, tt.argument.Doc())
			assert.Equal(t, tt.signature, tt.argument.Signature())
		})
	}
}

func TestArgumentRequired(t *testing.T) {
	assert.True(t, (&funcs.Argument{Name: "a"}).Required())
	assert.False(t, (&funcs.Argument{Name: "a", Default: 0}).Required())
}

func TestFunctionRenderNoDescriptions(t *testing.T) {
	fn := &funcs.Function{
		Name:        "name",
		Description: "the description",
		Arguments:   []*funcs.Argument{{Name: "a"}},
		ReturnType:  funcs.TypeInt,
	}

	expected := "Function:\n" +
		"def name(a) -> int:\n" +
		"    \"\"\"\n" +
		"    the description\n" +
		"\n" +
		"    Args:\n" +
		"        a: (no description provided)\n" +
		"\n" +
		"    Returns:\n" +
		"        int: (no description provided)\n" +
		"    \"\"\"\n"

	assert.Equal(t, expected, fn.Render())
}

func TestFunctionRenderFull(t *testing.T) {
	fn := &funcs.Function{
		Name:        "foo",
		Description: "The foo function.",
		Arguments: []*funcs.Argument{
			{Name: "a", Type: funcs.TypeInt, Description: "The first argument."},
			{Name: "b", Type: funcs.TypeInt, Description: "The second argument.", Default: 1},
		},
		ReturnType:        funcs.TypeString,
		ReturnDescription: "The return value.",
	}

	expected := "Function:\n" +
		"def foo(a: int, b: int = 1) -> str:\n" +
		"    \"\"\"\n" +
		"    The foo function.\n" +
		"\n" +
		"    Args:\n" +
		"        a (int): The first argument.\n" +
		"        b (:obj:`int`, optional): The second argument.\n" +
		"\n" +
		"    Returns:\n" +
		"        str: The return value.\n" +
		"    \"\"\"\n"

	assert.Equal(t, expected, fn.Render())
}

func TestFunctionRenderNoArguments(t *testing.T) {
	fn := &funcs.Function{
		Name:        "now",
		Description: "Return the current time.",
		ReturnType:  funcs.TypeString,
	}

	rendered := fn.Render()
	assert.Contains(t, rendered, "def now() -> str:")
	assert.NotContains(t, rendered, "Args:")
}

func TestFunctionRenderUntypedReturn(t *testing.T) {
	fn := &funcs.Function{
		Name:        "echo",
		Description: "Echo the input.",
	}
	assert.Contains(t, fn.Render(), "def echo() -> Any:")
}

func TestFunctionValidate(t *testing.T) {
	tests := []struct {
		name    string
		fn      *funcs.Function
		wantErr string
	}{
		{
			name:    "missing name",
			fn:      &funcs.Function{Description: "d"},
			wantErr: "function definition invalid",
		},
		{
			name:    "missing description",
			fn:      &funcs.Function{Name: "f"},
			wantErr: "function definition invalid",
		},
		{
			name: "duplicate argument",
			fn: &funcs.Function{
				Name:        "f",
				Description: "d",
				Arguments:   []*funcs.Argument{{Name: "a"}, {Name: "a"}},
			},
			wantErr: `duplicate argument "a"`,
		},
		{
			name: "required after optional",
			fn: &funcs.Function{
				Name:        "f",
				Description: "d",
				Arguments:   []*funcs.Argument{{Name: "a", Default: 1}, {Name: "b"}},
			},
			wantErr: `required argument "b" follows an optional argument`,
		},
		{
			name: "unknown argument type",
			fn: &funcs.Function{
				Name:        "f",
				Description: "d",
				Arguments:   []*funcs.Argument{{Name: "a", Type: "tuple"}},
			},
			wantErr: `unknown type "tuple"`,
		},
		{
			name: "unknown return type",
			fn: &funcs.Function{
				Name:        "f",
				Description: "d",
				ReturnType:  "set",
			},
			wantErr: `unknown return type "set"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid", func(t *testing.T) {
		fn := &funcs.Function{
			Name:        "f",
			Description: "d",
			Arguments:   []*funcs.Argument{{Name: "a", Type: funcs.TypeInt}, {Name: "b", Default: 1}},
			ReturnType:  funcs.TypeInt,
		}
		assert.NoError(t, fn.Validate())
	})
}

func TestFunctionClone(t *testing.T) {
	fn := &funcs.Function{
		Name:        "f",
		Description: "d",
		Arguments:   []*funcs.Argument{{Name: "a", Type: funcs.TypeInt}},
		ReturnType:  funcs.TypeInt,
	}

	clone := fn.Clone()
	require.NotSame(t, fn, clone)
	require.NotSame(t, fn.Arguments[0], clone.Arguments[0])

	clone.Arguments[0].Name = "changed"
	assert.Equal(t, "a", fn.Arguments[0].Name)
}

func TestFunctionArgumentLookup(t *testing.T) {
	fn := &funcs.Function{
		Name:        "f",
		Description: "d",
		Arguments:   []*funcs.Argument{{Name: "a"}, {Name: "b"}},
	}

	require.NotNil(t, fn.Argument("b"))
	assert.Equal(t, "b", fn.Argument("b").Name)
	assert.Nil(t, fn.Argument("missing"))
}
