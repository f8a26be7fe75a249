package signature

import (
	"github.com/apisurface/apisurface/internal/model"
)

// DecodeFieldSignature parses a generic field Signature attribute value
// (e.g. "Ljava/util/List<Ljava/lang/String;>;"), resolving the declared
// type arguments. Falls back to DecodeFieldDescriptor-shaped errors when the
// grammar is violated.
func DecodeFieldSignature(sig string) (model.TypeRef, error) {
	p := &parser{s: sig}
	t, err := p.fieldTypeSignature()
	if err != nil {
		return model.TypeRef{}, err
	}
	if p.pos != len(p.s) {
		return model.TypeRef{}, p.fail("trailing characters after field signature")
	}
	return t, nil
}

// DecodeMethodSignature parses a generic method Signature attribute value,
// e.g. "<T:Ljava/lang/Object;>(Ljava/util/List<TT;>;)TT;".
func DecodeMethodSignature(sig string) (params []model.TypeRef, ret model.TypeRef, err error) {
	p := &parser{s: sig}
	if c, ok := p.peek(); ok && c == '<' {
		if err := p.skipTypeParams(); err != nil {
			return nil, model.TypeRef{}, err
		}
	}
	c, ok := p.next()
	if !ok || c != '(' {
		return nil, model.TypeRef{}, p.fail("expected '(' at start of method signature")
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
		t, err := p.typeSignature()
		if err != nil {
			return nil, model.TypeRef{}, err
		}
		params = append(params, t)
	}
	if c, ok := p.peek(); ok && c == 'V' {
		p.pos++
		return params, model.Void, nil
	}
	ret, err = p.typeSignature()
	if err != nil {
		return nil, model.TypeRef{}, err
	}
	// ThrowsSignature* is not relevant to this analyzer and is discarded.
	return params, ret, nil
}

func (p *parser) typeSignature() (model.TypeRef, error) {
	c, ok := p.peek()
	if !ok {
		return model.TypeRef{}, p.fail("expected a type signature")
	}
	if name, ok := baseTypes[c]; ok {
		p.pos++
		return model.TypeRef{Name: name}, nil
	}
	return p.fieldTypeSignature()
}

func (p *parser) fieldTypeSignature() (model.TypeRef, error) {
	c, ok := p.next()
	if !ok {
		return model.TypeRef{}, p.fail("expected a field type signature")
	}
	switch c {
	case 'L':
		return p.classTypeSignature()
	case '[':
		inner, err := p.typeSignature()
		if err != nil {
			return model.TypeRef{}, err
		}
		return model.TypeRef{Name: "[" + inner.Name, Args: inner.Args}, nil
	case 'T':
		id := p.identifier()
		c, ok := p.next()
		if !ok || c != ';' {
			return model.TypeRef{}, p.fail("unterminated type variable (missing ';')")
		}
		// Type variables cannot be resolved without walking bounds, which is
		// out of scope; preserve the declared name so callers can see a
		// type parameter was used rather than silently reporting Object.
		return model.TypeRef{Name: "T:" + id}, nil
	default:
		return model.TypeRef{}, p.fail("expected 'L', '[' or 'T'")
	}
}

// classTypeSignature reads PackageSpecifier* SimpleClassTypeSignature
// ClassTypeSignatureSuffix* ';', accumulating type arguments from the last
// (innermost) simple class type signature segment, and joining any inner
// class suffixes with '$' to match this analyzer's canonical naming.
func (p *parser) classTypeSignature() (model.TypeRef, error) {
	name, args, err := p.simpleClassTypeSignature()
	if err != nil {
		return model.TypeRef{}, err
	}
	full := name
	for {
		c, ok := p.peek()
		if !ok {
			return model.TypeRef{}, p.fail("unterminated class type signature (missing ';')")
		}
		if c == ';' {
			p.pos++
			return model.TypeRef{Name: dottedName(full), Args: args}, nil
		}
		if c != '.' {
			return model.TypeRef{}, p.fail("expected '.' or ';' in class type signature")
		}
		p.pos++
		inner, innerArgs, err := p.simpleClassTypeSignature()
		if err != nil {
			return model.TypeRef{}, err
		}
		full = full + "$" + inner
		args = innerArgs
	}
}

func (p *parser) simpleClassTypeSignature() (name string, args []model.TypeRef, err error) {
	start := p.pos
	for {
		c, ok := p.peek()
		if !ok {
			return "", nil, p.fail("unterminated simple class type signature")
		}
		if c == ';' || c == '<' || c == '.' {
			break
		}
		p.pos++
	}
	name = p.s[start:p.pos]
	if c, ok := p.peek(); ok && c == '<' {
		args, err = p.typeArguments()
		if err != nil {
			return "", nil, err
		}
	}
	return name, args, nil
}

func (p *parser) typeArguments() ([]model.TypeRef, error) {
	p.pos++ // consume '<'
	var args []model.TypeRef
	for {
		c, ok := p.peek()
		if !ok {
			return nil, p.fail("unterminated type arguments (missing '>')")
		}
		if c == '>' {
			p.pos++
			return args, nil
		}
		if c == '*' {
			p.pos++
			args = append(args, model.Object)
			continue
		}
		if c == '+' || c == '-' {
			p.pos++
		}
		t, err := p.fieldTypeSignature()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
}

func (p *parser) identifier() string {
	start := p.pos
	for {
		c, ok := p.peek()
		if !ok || c == ';' || c == '.' || c == '<' || c == '/' || c == ':' {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos]
}

// skipTypeParams discards a class or method's TypeParams clause
// ("<T:Ljava/lang/Object;U:...>"): this analyzer resolves type arguments at
// use sites, not declaration-site bounds.
func (p *parser) skipTypeParams() error {
	depth := 0
	for {
		c, ok := p.next()
		if !ok {
			return p.fail("unterminated type parameters (missing '>')")
		}
		switch c {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}
