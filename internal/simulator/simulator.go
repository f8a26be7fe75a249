// Package simulator implements the Method Simulator (C5, spec.md §4.5): the
// abstract interpreter that walks a normalized instruction stream over a
// symbolic operand stack and locals table, recovering the method's merged
// return element.
package simulator

import (
	"github.com/apisurface/apisurface/internal/bytecode"
	"github.com/apisurface/apisurface/internal/classfile"
	"github.com/apisurface/apisurface/internal/methodpool"
	"github.com/apisurface/apisurface/internal/model"
	"github.com/apisurface/apisurface/internal/signature"
)

// WarnFunc reports a non-fatal condition encountered during simulation
// (spec.md §7: DecodeError/SimulationBudgetExceeded are logged, not fatal).
type WarnFunc func(kind, message string)

// Simulator runs one method's instruction stream per call. It holds no
// state between Simulate invocations and is not safe for concurrent use by
// multiple goroutines simultaneously — each worker owns its own instance
// (spec.md §5) — but a single instance may recurse into itself while
// resolving callee summaries, since Go goroutine stacks make that safe.
type Simulator struct {
	resolver *classfile.Resolver
	pool     *methodpool.Pool
	lattice  model.Lattice
	warn     WarnFunc
}

// New builds a Simulator. lattice may be nil, in which case ObjectLattice is
// used. warn may be nil to discard diagnostics.
func New(resolver *classfile.Resolver, pool *methodpool.Pool, lattice model.Lattice, warn WarnFunc) *Simulator {
	if lattice == nil {
		lattice = model.ObjectLattice{}
	}
	if warn == nil {
		warn = func(string, string) {}
	}
	return &Simulator{resolver: resolver, pool: pool, lattice: lattice, warn: warn}
}

// frame is the per-invocation mutable state of spec.md §4.5: an operand
// stack, a locals table, and the accumulating return element.
type frame struct {
	stack       []model.Element
	locals      map[int]model.Element
	returnValue model.Element
	hasReturn   bool
}

func (f *frame) push(e model.Element) { f.stack = append(f.stack, e) }

func (f *frame) pop() model.Element {
	if len(f.stack) == 0 {
		return model.Element{}
	}
	e := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return e
}

func (f *frame) popN(n int) []model.Element {
	out := make([]model.Element, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = f.pop()
	}
	return out
}

func (f *frame) clear() { f.stack = f.stack[:0] }

// Simulate runs the abstract interpreter over instrs, the already-decoded
// instruction stream for id's body. hasValue reports whether any value was
// ever returned (false for a void method that never executes RETURN with a
// value, per spec.md §4.5's "A void RETURN contributes nothing").
func (s *Simulator) Simulate(id model.MethodIdentifier, instrs []model.Instruction) (model.Element, bool) {
	f := &frame{locals: map[int]model.Element{}}
	slot := 0
	if !id.IsStatic {
		f.locals[0] = model.Empty(model.TypeRef{Name: id.Owner})
		slot = 1
	}
	for _, p := range id.Params {
		f.locals[slot] = model.Empty(p)
		slot++
		if p.Name == "long" || p.Name == "double" {
			slot++ // category-2 locals occupy two slots
		}
	}
	for _, instr := range instrs {
		s.step(f, instr)
	}
	if f.hasReturn && preferDeclaredReturn(f.returnValue.Type, id.Return) {
		// spec.md §4.5: when the type lattice cannot pin down anything more
		// specific than the Object fallback, prefer the declared return type.
		f.returnValue.Type = id.Return
	}
	return f.returnValue, f.hasReturn
}

// preferDeclaredReturn reports whether the enclosing method's declared
// return type (spec.md §4.5) carries more information than what the
// simulator actually observed: either the observed type collapsed all the
// way to the Object fallback, or the observed type is the same erased
// collection shape the declared type has but without the declared type's
// generic element argument (the "delegate to a service/DAO and return its
// result" idiom — the callee's own return type was itself erased during
// simulation, e.g. to plain java.util.List, while the caller's Signature
// attribute still names List<User>).
func preferDeclaredReturn(observed, declared model.TypeRef) bool {
	if declared.IsZero() || declared.Equal(model.Object) {
		return false
	}
	if observed.Equal(model.Object) {
		return true
	}
	if model.IsCollection(declared) && len(declared.Args) > 0 &&
		model.IsCollection(observed) && len(observed.Args) == 0 {
		return true
	}
	return false
}

// Interpret implements methodpool.Interpreter: synthesize a generic,
// call-site-independent summary for id by resolving its declaring class,
// decoding its Code, and simulating it from declared-parameter-type-only
// locals (spec.md §4.4's "interpreted summary synthesized on demand by
// recursively simulating the callee").
func (s *Simulator) Interpret(id model.MethodIdentifier) (model.Element, bool) {
	if s.resolver == nil {
		return s.unresolved(id)
	}
	rec := s.resolver.Get(id.Owner)
	if rec == nil || rec.Synthetic || rec.Class == nil {
		return s.unresolved(id)
	}
	mi := findMethod(rec.Class, id)
	if mi == nil || mi.Code == nil {
		return s.unresolved(id)
	}
	instrs, degraded := bytecode.Decode(mi.Code.Bytes, rec.Class.ConstantPool)
	for range degraded {
		s.warn("DecodeError", "instruction degraded to OTHER while interpreting "+id.Key())
	}
	calleeID := id
	calleeID.IsStatic = mi.IsStatic()
	// findMethod matched mi against id's erased (call-site) descriptor; now
	// that the match is settled, re-decode mi's own Signature attribute (if
	// any) so a recursively-interpreted callee keeps its generic return type
	// instead of the call site's erased one — without this, a method like
	// `List<User> findAll()` whose body merely delegates further would lose
	// its element type on every recursive hop.
	if params, ret, err := signature.DecodeMethod(mi.Descriptor, mi.Signature); err == nil {
		calleeID.Return = ret
		if len(params) == len(calleeID.Params) {
			calleeID.Params = params
		}
	}
	return s.Simulate(calleeID, instrs)
}

func (s *Simulator) unresolved(id model.MethodIdentifier) (model.Element, bool) {
	// spec.md §4.5(b): "if an invoked method is not resolvable, the
	// simulator pushes an empty Element of the declared return type; if
	// void, nothing is pushed."
	if id.Return.Equal(model.Void) {
		return model.Element{}, false
	}
	return model.Empty(id.Return), true
}

// findMethod locates the MethodInfo on cf matching id by name and by
// structural equality of its decoded parameter/return types — descriptors
// are re-decoded per candidate rather than compared as raw strings so that
// a Signature-bearing override (generics) still matches a raw-descriptor id.
func findMethod(cf *classfile.ClassFile, id model.MethodIdentifier) *classfile.MethodInfo {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name != id.Name {
			continue
		}
		params, ret, err := signature.DecodeMethod(m.Descriptor, "")
		if err != nil {
			continue
		}
		if len(params) != len(id.Params) {
			continue
		}
		match := ret.Equal(id.Return)
		for i := range params {
			if !params[i].Equal(id.Params[i]) {
				match = false
				break
			}
		}
		if match {
			return m
		}
	}
	return nil
}
