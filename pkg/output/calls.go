package output

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValueKind identifies the concrete type of a parsed argument value.
type ValueKind int

const (
	// KindString is a quoted string literal.
	KindString ValueKind = iota

	// KindInt is an integer literal.
	KindInt

	// KindFloat is a floating-point literal.
	KindFloat

	// KindBool is a True/False literal.
	KindBool

	// KindNone is the None literal.
	KindNone

	// KindList is a list literal.
	KindList

	// KindDict is a dict literal.
	KindDict

	// KindCall is a nested call expression used as a value.
	KindCall
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNone:
		return "none"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindCall:
		return "call"
	}
	return "unknown"
}

// Value is a parsed Python literal appearing as an argument value.
// Exactly one of the payload fields is meaningful, selected by Kind.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []Value
	Dict  []DictEntry
	Call  *CallExpr
}

// DictEntry is a single key/value pair of a dict literal, in source order.
type DictEntry struct {
	Key   Value
	Value Value
}

// Kwarg is a keyword argument of a call expression.
type Kwarg struct {
	Name  string
	Value Value
}

// CallExpr is a parsed call expression such as get_weather(city='Seattle').
type CallExpr struct {
	// Name is the called function's name, possibly dotted.
	Name string

	// Args are the positional arguments in order.
	Args []Value

	// Kwargs are the keyword arguments in source order.
	Kwargs []Kwarg
}

// String renders the call expression back to Python-style source.
func (c *CallExpr) String() string {
	parts := make([]string, 0, len(c.Args)+len(c.Kwargs))
	for _, arg := range c.Args {
		parts = append(parts, arg.String())
	}
	for _, kw := range c.Kwargs {
		parts = append(parts, kw.Name+"="+kw.Value.String())
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// String renders the value back to Python-style source.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return "'" + strings.ReplaceAll(v.Str, "'", `\'`) + "'"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindNone:
		return "None"
	case KindList:
		items := make([]string, len(v.List))
		for i, item := range v.List {
			items[i] = item.String()
		}
		return "[" + strings.Join(items, ", ") + "]"
	case KindDict:
		entries := make([]string, len(v.Dict))
		for i, e := range v.Dict {
			entries[i] = e.Key.String() + ": " + e.Value.String()
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case KindCall:
		return v.Call.String()
	}
	return "<invalid>"
}

// Interface converts the value to a plain Go value: string, int64, float64,
// bool, nil, []any, or map[string]any. Nested calls have no plain
// representation; they must be evaluated first (the exec package does this).
func (v Value) Interface() (any, error) {
	switch v.Kind {
	case KindString:
		return v.Str, nil
	case KindInt:
		return v.Int, nil
	case KindFloat:
		return v.Float, nil
	case KindBool:
		return v.Bool, nil
	case KindNone:
		return nil, nil
	case KindList:
		list := make([]any, len(v.List))
		for i, item := range v.List {
			converted, err := item.Interface()
			if err != nil {
				return nil, err
			}
			list[i] = converted
		}
		return list, nil
	case KindDict:
		dict := make(map[string]any, len(v.Dict))
		for _, e := range v.Dict {
			if e.Key.Kind != KindString {
				return nil, fmt.Errorf("dict key %s is not a string", e.Key)
			}
			converted, err := e.Value.Interface()
			if err != nil {
				return nil, err
			}
			dict[e.Key.Str] = converted
		}
		return dict, nil
	case KindCall:
		return nil, fmt.Errorf("nested call %s must be evaluated before conversion", v.Call)
	}
	return nil, fmt.Errorf("invalid value kind %d", v.Kind)
}

// ParseCall parses exactly one call expression.
func ParseCall(src string) (*CallExpr, error) {
	calls, err := ParseCalls(src)
	if err != nil {
		return nil, err
	}
	if len(calls) != 1 {
		return nil, newParseError(ErrMalformedCall, src,
			fmt.Sprintf("expected a single call expression, got %d", len(calls)))
	}
	return calls[0], nil
}

// ParseCalls parses one or more call expressions separated by semicolons,
// the form NexusRavenV2 uses for parallel calls.
func ParseCalls(src string) ([]*CallExpr, error) {
	p := &callParser{input: src}

	var calls []*CallExpr
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)

		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() != ';' {
			return nil, p.errorf("unexpected character %q after call expression", p.peek())
		}
		p.pos++
	}

	if len(calls) == 0 {
		return nil, p.errorf("empty call expression")
	}
	return calls, nil
}

// callParser is a recursive-descent parser over a call section.
type callParser struct {
	input string
	pos   int
}

func (p *callParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *callParser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

func (p *callParser) next() rune {
	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
	return r
}

func (p *callParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func (p *callParser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Reason: fmt.Sprintf(format, args...),
		Raw:    p.input,
		Pos:    p.pos,
		Err:    ErrMalformedCall,
	}
}

// parseCall parses ident '(' arguments ')'.
func (p *callParser) parseCall() (*CallExpr, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.eof() || p.peek() != '(' {
		return nil, p.errorf("expected '(' after function name %q", name)
	}
	p.pos++

	call := &CallExpr{Name: name}

	p.skipSpace()
	if !p.eof() && p.peek() == ')' {
		p.pos++
		return call, nil
	}

	for {
		p.skipSpace()
		if err := p.parseArgument(call); err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated call to %q", name)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return call, nil
		default:
			return nil, p.errorf("expected ',' or ')' in call to %q, got %q", name, p.peek())
		}
	}
}

// parseArgument parses a positional or keyword argument into the call.
// Keyword arguments may not precede positional ones.
func (p *callParser) parseArgument(call *CallExpr) error {
	// Keyword argument: ident '=' value, where '=' is not '=='.
	if start := p.pos; isIdentStart(p.peek()) {
		name, err := p.parseIdent()
		if err == nil {
			p.skipSpace()
			if !p.eof() && p.peek() == '=' && !strings.HasPrefix(p.input[p.pos:], "==") {
				p.pos++
				p.skipSpace()
				value, err := p.parseValue()
				if err != nil {
					return err
				}
				call.Kwargs = append(call.Kwargs, Kwarg{Name: name, Value: value})
				return nil
			}
		}
		// Not a keyword argument; reparse as a value.
		p.pos = start
	}

	value, err := p.parseValue()
	if err != nil {
		return err
	}
	if len(call.Kwargs) > 0 {
		return p.errorf("positional argument follows keyword argument in call to %q", call.Name)
	}
	call.Args = append(call.Args, value)
	return nil
}

// parseValue parses a literal, a nested call, or one of the bare keywords
// True, False, and None.
func (p *callParser) parseValue() (Value, error) {
	if p.eof() {
		return Value{}, p.errorf("unexpected end of call expression")
	}

	switch r := p.peek(); {
	case r == '\'' || r == '"':
		return p.parseString()
	case r == '[':
		return p.parseList()
	case r == '{':
		return p.parseDict()
	case r == '-' || r == '+' || unicode.IsDigit(r):
		return p.parseNumber()
	case isIdentStart(r):
		return p.parseKeywordOrCall()
	default:
		return Value{}, p.errorf("unexpected character %q", r)
	}
}

// parseKeywordOrCall handles True/False/None and nested call expressions.
func (p *callParser) parseKeywordOrCall() (Value, error) {
	start := p.pos
	name, err := p.parseIdent()
	if err != nil {
		return Value{}, err
	}

	switch name {
	case "True":
		return Value{Kind: KindBool, Bool: true}, nil
	case "False":
		return Value{Kind: KindBool, Bool: false}, nil
	case "None":
		return Value{Kind: KindNone}, nil
	}

	p.skipSpace()
	if !p.eof() && p.peek() == '(' {
		p.pos = start
		call, err := p.parseCall()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindCall, Call: call}, nil
	}

	p.pos = start
	return Value{}, p.errorf("bare identifier %q is not a valid argument value", name)
}

// parseIdent parses a possibly dotted identifier.
func (p *callParser) parseIdent() (string, error) {
	if p.eof() || !isIdentStart(p.peek()) {
		return "", p.errorf("expected identifier")
	}
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if isIdentStart(r) || unicode.IsDigit(r) || r == '.' {
			p.next()
			continue
		}
		break
	}
	return p.input[start:p.pos], nil
}

// parseString parses a single- or double-quoted string with backslash
// escapes.
func (p *callParser) parseString() (Value, error) {
	quote := p.next()
	var b strings.Builder
	for {
		if p.eof() {
			return Value{}, p.errorf("unterminated string literal")
		}
		r := p.next()
		if r == quote {
			return Value{Kind: KindString, Str: b.String()}, nil
		}
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if p.eof() {
			return Value{}, p.errorf("unterminated escape sequence")
		}
		switch esc := p.next(); esc {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		case '\\', '\'', '"':
			b.WriteRune(esc)
		default:
			// Unknown escape: keep it verbatim, as Python does.
			b.WriteRune('\\')
			b.WriteRune(esc)
		}
	}
}

// parseNumber parses an integer or float literal.
func (p *callParser) parseNumber() (Value, error) {
	start := p.pos
	if r := p.peek(); r == '-' || r == '+' {
		p.next()
	}
	isFloat := false
	for !p.eof() {
		r := p.peek()
		switch {
		case unicode.IsDigit(r) || r == '_':
			p.next()
		case r == '.' || r == 'e' || r == 'E':
			isFloat = true
			p.next()
			if !p.eof() && (p.peek() == '-' || p.peek() == '+') {
				p.next()
			}
		default:
			goto done
		}
	}
done:
	text := strings.ReplaceAll(p.input[start:p.pos], "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, p.errorf("invalid float literal %q", text)
		}
		return Value{Kind: KindFloat, Float: f}, nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, p.errorf("invalid integer literal %q", text)
	}
	return Value{Kind: KindInt, Int: i}, nil
}

// parseList parses a list literal.
func (p *callParser) parseList() (Value, error) {
	p.pos++ // consume '['
	list := Value{Kind: KindList}

	p.skipSpace()
	if !p.eof() && p.peek() == ']' {
		p.pos++
		return list, nil
	}

	for {
		p.skipSpace()
		item, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		list.List = append(list.List, item)

		p.skipSpace()
		if p.eof() {
			return Value{}, p.errorf("unterminated list literal")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return list, nil
		default:
			return Value{}, p.errorf("expected ',' or ']' in list literal, got %q", p.peek())
		}
	}
}

// parseDict parses a dict literal.
func (p *callParser) parseDict() (Value, error) {
	p.pos++ // consume '{'
	dict := Value{Kind: KindDict}

	p.skipSpace()
	if !p.eof() && p.peek() == '}' {
		p.pos++
		return dict, nil
	}

	for {
		p.skipSpace()
		key, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}

		p.skipSpace()
		if p.eof() || p.peek() != ':' {
			return Value{}, p.errorf("expected ':' in dict literal")
		}
		p.pos++

		p.skipSpace()
		value, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		dict.Dict = append(dict.Dict, DictEntry{Key: key, Value: value})

		p.skipSpace()
		if p.eof() {
			return Value{}, p.errorf("unterminated dict literal")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return dict, nil
		default:
			return Value{}, p.errorf("expected ',' or '}' in dict literal, got %q", p.peek())
		}
	}
}

// isIdentStart reports whether r can start an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
