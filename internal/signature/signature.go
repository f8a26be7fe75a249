// Package signature implements the Signature Decoder (C2, spec.md §4.2):
// parsing JVM field/method descriptors and the richer generic-signature
// grammar into structured model.TypeRef values.
package signature

import (
	"fmt"

	"github.com/apisurface/apisurface/internal/model"
)

// MalformedSignature is returned when the input does not match the
// descriptor or signature grammar (spec.md §4.2). Callers treat this as a
// per-element warning and skip the offending field/method.
type MalformedSignature struct {
	Input string
	Pos   int
	Msg   string
}

func (e *MalformedSignature) Error() string {
	return fmt.Sprintf("malformed signature %q at %d: %s", e.Input, e.Pos, e.Msg)
}

var baseTypes = map[byte]string{
	'B': "byte", 'C': "char", 'D': "double", 'F': "float",
	'I': "int", 'J': "long", 'S': "short", 'Z': "boolean",
}

type parser struct {
	s   string
	pos int
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *parser) next() (byte, bool) {
	c, ok := p.peek()
	if ok {
		p.pos++
	}
	return c, ok
}

func (p *parser) fail(msg string) error {
	return &MalformedSignature{Input: p.s, Pos: p.pos, Msg: msg}
}

// DecodeFieldDescriptor parses a raw field descriptor (e.g. "Ljava/lang/String;",
// "I", "[[Lcom/example/User;") with no generic information.
func DecodeFieldDescriptor(desc string) (model.TypeRef, error) {
	p := &parser{s: desc}
	t, err := p.fieldType()
	if err != nil {
		return model.TypeRef{}, err
	}
	if p.pos != len(p.s) {
		return model.TypeRef{}, p.fail("trailing characters after field descriptor")
	}
	return t, nil
}

// DecodeMethodDescriptor parses a raw method descriptor, e.g.
// "(ILjava/lang/String;)Ljava/lang/Object;".
func DecodeMethodDescriptor(desc string) (params []model.TypeRef, ret model.TypeRef, err error) {
	p := &parser{s: desc}
	c, ok := p.next()
	if !ok || c != '(' {
		return nil, model.TypeRef{}, p.fail("expected '(' at start of method descriptor")
	}
	for {
		c, ok := p.peek()
		if !ok {
			return nil, model.TypeRef{}, p.fail("unterminated parameter list")
		}
		if c == ')' {
			p.pos++
			break
		}
		t, err := p.fieldType()
		if err != nil {
			return nil, model.TypeRef{}, err
		}
		params = append(params, t)
	}
	if c, ok := p.peek(); ok && c == 'V' {
		p.pos++
		return params, model.Void, nil
	}
	ret, err = p.fieldType()
	if err != nil {
		return nil, model.TypeRef{}, err
	}
	return params, ret, nil
}

func (p *parser) fieldType() (model.TypeRef, error) {
	c, ok := p.next()
	if !ok {
		return model.TypeRef{}, p.fail("expected a type")
	}
	switch {
	case c == 'L':
		return p.classTypeDescriptor()
	case c == '[':
		inner, err := p.fieldType()
		if err != nil {
			return model.TypeRef{}, err
		}
		return model.TypeRef{Name: "[" + inner.Name, Args: inner.Args}, nil
	default:
		if name, ok := baseTypes[c]; ok {
			return model.TypeRef{Name: name}, nil
		}
		return model.TypeRef{}, p.fail(fmt.Sprintf("unrecognized type tag %q", c))
	}
}

// classTypeDescriptor reads an internal class name up to ';' (no generics —
// plain descriptor form) and returns its canonical dotted name.
func (p *parser) classTypeDescriptor() (model.TypeRef, error) {
	start := p.pos
	for {
		c, ok := p.next()
		if !ok {
			return model.TypeRef{}, p.fail("unterminated class type (missing ';')")
		}
		if c == ';' {
			internal := p.s[start : p.pos-1]
			return model.TypeRef{Name: dottedName(internal)}, nil
		}
	}
}

func dottedName(internal string) string {
	out := make([]byte, len(internal))
	for i := 0; i < len(internal); i++ {
		if internal[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = internal[i]
		}
	}
	return string(out)
}
