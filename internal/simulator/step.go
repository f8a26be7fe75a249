package simulator

import "github.com/apisurface/apisurface/internal/model"

// step applies one instruction's effect to f, per spec.md §4.5. Tags not
// given bespoke handling fall through to the generic (pops, pushes) rule:
// pop that many values, push that many fresh empty elements.
func (s *Simulator) step(f *frame, instr model.Instruction) {
	switch instr.Tag {
	case model.OpPush:
		f.push(model.Element{Type: instr.ConstType, Values: model.Single(instr.Constant)})

	case model.OpLoad:
		if e, ok := f.locals[instr.Slot]; ok {
			f.push(e)
		} else {
			f.push(model.Empty(instr.DeclaredType))
		}

	case model.OpStore:
		e := f.pop()
		if e.Kind == model.KindMethodHandle {
			f.locals[instr.Slot] = e
			return
		}
		refined := e
		refined.Type = moreSpecific(instr.DeclaredType, e.Type)
		if existing, ok := f.locals[instr.Slot]; ok {
			f.locals[instr.Slot] = model.Merge(existing, refined, s.lattice)
		} else {
			f.locals[instr.Slot] = refined
		}

	case model.OpGetField:
		f.pop() // receiver
		f.push(model.Empty(instr.FieldType))

	case model.OpGetStatic:
		if instr.HasStaticValue {
			f.push(model.Element{Type: instr.FieldType, Values: model.Single(instr.StaticValue)})
		} else {
			f.push(model.Empty(instr.FieldType))
		}

	case model.OpNew:
		f.push(model.Empty(instr.NewType))

	case model.OpDup:
		top := f.pop()
		f.push(top)
		f.push(top)

	case model.OpInvoke:
		args := f.popN(len(instr.Method.Params))
		var receiver model.Element
		if !instr.Method.IsStatic {
			receiver = f.pop()
		}
		if s.pool == nil {
			return
		}
		value, hasValue := s.pool.Lookup(instr.Method, receiver, args)
		if hasValue {
			f.push(value)
		}

	case model.OpInvokeDynamic:
		args := f.popN(len(instr.Dynamic.Params))
		if !instr.Dynamic.IsStatic {
			f.pop() // synthetic captured receiver
		}
		f.push(model.Element{
			Kind: model.KindMethodHandle,
			Type: model.TypeRef{Name: "java.lang.invoke.MethodHandle"},
			Handle: &model.MethodHandleValue{
				Bootstrap: instr.Bootstrap,
				Target:    instr.Dynamic,
				Bound:     args,
			},
		})

	case model.OpReturn:
		if instr.Pops == 0 {
			f.clear()
			return
		}
		if len(f.stack) == 0 {
			// spec.md §4.5 tie-break (a): empty stack at RETURN, no merge.
			f.clear()
			return
		}
		top := f.pop()
		s.mergeReturn(f, top)
		f.clear()

	case model.OpThrow:
		if len(f.stack) > 0 && model.IsResponseType(f.stack[len(f.stack)-1].Type) {
			top := f.pop()
			s.mergeReturn(f, top)
		}
		f.clear()

	default: // SIZE_CHANGE, OTHER, and any decode-degraded instruction
		f.popN(instr.Pops)
		for i := 0; i < instr.Pushes; i++ {
			f.push(model.Element{})
		}
	}
}

func (s *Simulator) mergeReturn(f *frame, e model.Element) {
	if !f.hasReturn {
		f.returnValue = e
		f.hasReturn = true
		return
	}
	f.returnValue = model.Merge(f.returnValue, e, s.lattice)
}

// moreSpecific picks between a local slot's declared type and the type of
// the value just stored into it, preferring the observed value's type
// unless it carries no information (spec.md §4.5 STORE).
func moreSpecific(declared, observed model.TypeRef) model.TypeRef {
	if observed.IsZero() {
		return declared
	}
	if declared.IsZero() {
		return observed
	}
	if observed.Equal(model.Object) && !declared.IsZero() {
		return declared
	}
	return observed
}
