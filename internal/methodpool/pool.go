// Package methodpool implements the Method Pool (C4, spec.md §4.4): a
// process-wide registry mapping a MethodIdentifier to either a hand-written
// summary for a well-known API or a lazily-synthesized interpreted summary
// produced by recursively simulating the callee.
package methodpool

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/apisurface/apisurface/internal/model"
)

// Interpreter recursively simulates a callee from its own bytecode when
// neither a hand-written nor a cached interpreted summary exists yet.
// Implemented by the Method Simulator (C5); injected after construction to
// break the C4/C5 import cycle the spec's control-flow diagram implies.
type Interpreter interface {
	Interpret(id model.MethodIdentifier) (value model.Element, hasValue bool)
}

type cached struct {
	value    model.Element
	hasValue bool
}

// Pool is the C4 registry. The zero value is not usable; construct with New.
type Pool struct {
	builtins map[string]builtin
	group    singleflight.Group

	mu         sync.Mutex // guards cache and inProgress
	cache      map[string]cached
	inProgress map[string]bool

	interp Interpreter
}

// New returns a Pool with the standard hand-written summaries registered.
// Call SetInterpreter before any Lookup that might need to synthesize an
// interpreted summary.
func New() *Pool {
	return &Pool{
		builtins:   builtinTable(),
		cache:      map[string]cached{},
		inProgress: map[string]bool{},
	}
}

// SetInterpreter wires the recursive-simulation collaborator. Safe to call
// once before concurrent use begins.
func (p *Pool) SetInterpreter(i Interpreter) {
	p.interp = i
}

// Lookup resolves id's effect for one call site: receiver is the zero
// Element for static calls; args are in declared parameter order (already
// popped and reordered by the caller). It first tries a hand-written
// summary — most of them (the Response-builder family, string
// concatenation) are matched by method name and arity regardless of the
// receiver's concrete runtime class (spec.md §4.4's "well-known APIs" are
// recognized structurally, not by owner); the collection factory/copy-
// constructor summaries additionally key on id.Owner, since "asList"/"of"
// are common names that only mean something on java.util.Arrays/List/Set —
// then falls back to a cached or freshly synthesized interpreted summary.
func (p *Pool) Lookup(id model.MethodIdentifier, receiver model.Element, args []model.Element) (model.Element, bool) {
	if h, ok := p.builtins[builtinKey(id.Owner, id.Name, len(args))]; ok {
		return h(receiver, args)
	}
	return p.interpreted(id)
}

func (p *Pool) interpreted(id model.MethodIdentifier) (model.Element, bool) {
	key := id.Key()

	p.mu.Lock()
	if c, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return c.value, c.hasValue
	}
	if p.inProgress[key] {
		p.mu.Unlock()
		// Cycle detected via the in-progress marker (spec.md §4.4, §5):
		// return a conservative empty element without recursing further.
		if id.Return.Equal(model.Void) {
			return model.Element{}, false
		}
		return model.Empty(id.Return), true
	}
	p.mu.Unlock()

	result, err, _ := p.group.Do(key, func() (any, error) {
		p.mu.Lock()
		p.inProgress[key] = true
		p.mu.Unlock()

		var value model.Element
		var hasValue bool
		if p.interp != nil {
			value, hasValue = p.interp.Interpret(id)
		}

		p.mu.Lock()
		delete(p.inProgress, key)
		p.cache[key] = cached{value: value, hasValue: hasValue}
		p.mu.Unlock()
		return cached{value: value, hasValue: hasValue}, nil
	})
	if err != nil {
		// builtinTable/Interpret never return an error; singleflight's
		// signature requires one regardless.
		return model.Element{}, false
	}
	c := result.(cached)
	return c.value, c.hasValue
}
