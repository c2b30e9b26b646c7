package funcs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ArgType identifies the Python-level type of an argument or return value
// as it appears in the rendered prompt.
type ArgType string

const (
	// TypeString is a Python str.
	TypeString ArgType = "str"

	// TypeInt is a Python int.
	TypeInt ArgType = "int"

	// TypeFloat is a Python float.
	TypeFloat ArgType = "float"

	// TypeBool is a Python bool.
	TypeBool ArgType = "bool"

	// TypeList is a Python list.
	TypeList ArgType = "list"

	// TypeDict is a Python dict.
	TypeDict ArgType = "dict"
)

// anyTypeName is rendered when no type is declared, mirroring typing.Any.
const anyTypeName = "Any"

// noDescription is the docstring fallback for undescribed arguments and
// return values.
const noDescription = "(no description provided)"

// Valid reports whether t is a known argument type. The zero value is
// valid and renders as "Any".
func (t ArgType) Valid() bool {
	switch t {
	case "", TypeString, TypeInt, TypeFloat, TypeBool, TypeList, TypeDict:
		return true
	}
	return false
}

// name returns the rendered type name, substituting "Any" for the zero value.
func (t ArgType) name() string {
	if t == "" {
		return anyTypeName
	}
	return string(t)
}

// validate is the shared struct validator for definition types.
var validate = validator.New()

// HandlerFunc is the Go implementation behind a function definition.
// Arguments arrive bound by name, with declared defaults already applied.
// Handlers are optional: definitions used only for prompt rendering may
// leave Handler nil.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Argument describes a single parameter of a callable function.
// Only Name is required; Type, Description, and Default are all optional
// and each changes how the argument renders in signatures and docstrings.
type Argument struct {
	// Name is the parameter name.
	Name string `json:"name" validate:"required"`

	// Type is the declared Python type. Empty renders as "Any".
	Type ArgType `json:"type,omitempty"`

	// Description documents the parameter in the docstring.
	Description string `json:"description,omitempty"`

	// Default makes the parameter optional. A nil Default means required.
	Default any `json:"default,omitempty"`
}

// Signature returns the parameter as it appears in the def line,
// e.g. "a", "a: int", "a = 1", or "a: int = 1".
func (a *Argument) Signature() string {
	var b strings.Builder
	b.WriteString(a.Name)
	if a.Type != "" {
		b.WriteString(": ")
		b.WriteString(string(a.Type))
	}
	if a.Default != nil {
		b.WriteString(" = ")
		b.WriteString(formatPyLiteral(a.Default))
	}
	return b.String()
}

// Doc returns the docstring form of the argument. Optional arguments render
// in Sphinx style, e.g. "a (:obj:`int`, optional): the description".
func (a *Argument) Doc() string {
	var b strings.Builder
	b.WriteString(a.Name)
	switch {
	case a.Default != nil:
		fmt.Fprintf(&b, " (:obj:`%s`, optional)", a.typeName())
	case a.Type != "":
		fmt.Fprintf(&b, " (%s)", a.Type)
	}
	if a.Description != "" {
		b.WriteString(": ")
		b.WriteString(a.Description)
	}
	return b.String()
}

// docLine is Doc with the docstring fallback for undescribed arguments.
func (a *Argument) docLine() string {
	if a.Description != "" {
		return a.Doc()
	}
	return a.Doc() + ": " + noDescription
}

// Required reports whether the argument must be supplied by the caller.
func (a *Argument) Required() bool {
	return a.Default == nil
}

func (a *Argument) typeName() string {
	return a.Type.name()
}

// Validate checks that the argument definition is well formed.
func (a *Argument) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("argument definition invalid: %w", err)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("argument %q: unknown type %q", a.Name, a.Type)
	}
	return nil
}

// Clone returns a copy of the argument.
func (a *Argument) Clone() *Argument {
	clone := *a
	return &clone
}

// Function describes a callable function exposed to the model.
type Function struct {
	// Name is the function name as the model will call it.
	Name string `json:"name" validate:"required"`

	// Description documents what the function does.
	Description string `json:"description" validate:"required"`

	// Arguments are the function parameters, in declaration order.
	Arguments []*Argument `json:"arguments,omitempty"`

	// ReturnType is the declared Python return type. Empty renders as "Any".
	ReturnType ArgType `json:"return_type,omitempty"`

	// ReturnDescription documents the return value.
	ReturnDescription string `json:"return_description,omitempty"`

	// Handler implements the function. Used by the execution engine;
	// ignored during prompt rendering.
	Handler HandlerFunc `json:"-"`
}

// Signature returns the def line, e.g. "def add(a: int, b: int = 1) -> int:".
func (f *Function) Signature() string {
	params := make([]string, len(f.Arguments))
	for i, arg := range f.Arguments {
		params[i] = arg.Signature()
	}
	return fmt.Sprintf("def %s(%s) -> %s:", f.Name, strings.Join(params, ", "), f.ReturnType.name())
}

// Render returns the full prompt block for the function: the "Function:"
// header, the def line, and a Python docstring with Args and Returns
// sections. Undescribed arguments and return values fall back to
// "(no description provided)".
func (f *Function) Render() string {
	var b strings.Builder
	b.WriteString("Function:\n")
	b.WriteString(f.Signature())
	b.WriteString("\n    \"\"\"\n    ")
	b.WriteString(f.Description)
	b.WriteString("\n")
	if len(f.Arguments) > 0 {
		b.WriteString("\n    Args:\n")
		for _, arg := range f.Arguments {
			b.WriteString("        ")
			b.WriteString(arg.docLine())
			b.WriteString("\n")
		}
	}
	retDesc := f.ReturnDescription
	if retDesc == "" {
		retDesc = noDescription
	}
	b.WriteString("\n    Returns:\n        ")
	b.WriteString(f.ReturnType.name())
	b.WriteString(": ")
	b.WriteString(retDesc)
	b.WriteString("\n    \"\"\"\n")
	return b.String()
}

// Argument returns the declared argument with the given name, or nil.
func (f *Function) Argument(name string) *Argument {
	for _, arg := range f.Arguments {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// Validate checks that the function definition is well formed: name and
// description present, argument names unique, types known, and no required
// argument following an optional one (Python rejects such signatures).
func (f *Function) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("function definition invalid: %w", err)
	}
	if !f.ReturnType.Valid() {
		return fmt.Errorf("function %q: unknown return type %q", f.Name, f.ReturnType)
	}

	seen := make(map[string]bool, len(f.Arguments))
	sawOptional := false
	for _, arg := range f.Arguments {
		if err := arg.Validate(); err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
		if seen[arg.Name] {
			return fmt.Errorf("function %q: duplicate argument %q", f.Name, arg.Name)
		}
		seen[arg.Name] = true

		if arg.Required() && sawOptional {
			return fmt.Errorf("function %q: required argument %q follows an optional argument", f.Name, arg.Name)
		}
		if !arg.Required() {
			sawOptional = true
		}
	}

	return nil
}

// Clone returns a deep copy of the function definition.
func (f *Function) Clone() *Function {
	clone := &Function{
		Name:              f.Name,
		Description:       f.Description,
		ReturnType:        f.ReturnType,
		ReturnDescription: f.ReturnDescription,
		Handler:           f.Handler,
	}
	if f.Arguments != nil {
		clone.Arguments = make([]*Argument, len(f.Arguments))
		for i, arg := range f.Arguments {
			clone.Arguments[i] = arg.Clone()
		}
	}
	return clone
}

// formatPyLiteral renders a Go value as the Python literal used for default
// values in signatures.
func formatPyLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", `\'`) + "'"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case nil:
		return "None"
	default:
		return fmt.Sprintf("%v", val)
	}
}
