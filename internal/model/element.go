package model

import "sort"

// ValueCap bounds the number of distinct concrete values an Element tracks
// (spec.md §4.5(d)). A slot written in a loop would otherwise accumulate an
// unbounded number of constants; once the cap is exceeded the set collapses
// to "unknown values, type only" while the type is preserved.
const ValueCap = 32

// ValueSet is the concrete-constant-value component of an Element. A nil
// Values slice with Overflowed false means "no concrete values observed yet"
// (e.g. a GET_FIELD result); Overflowed true means the cap was exceeded.
type ValueSet struct {
	Values     []any
	Overflowed bool
}

// Single builds a ValueSet holding exactly one constant.
func Single(v any) ValueSet {
	return ValueSet{Values: []any{v}}
}

// Single returns the value set's sole concrete value, or nil if it holds
// zero or more than one value (including the overflowed case).
func (vs ValueSet) Single() any {
	if vs.Overflowed || len(vs.Values) != 1 {
		return nil
	}
	return vs.Values[0]
}

func (vs ValueSet) contains(v any) bool {
	for _, existing := range vs.Values {
		if existing == v {
			return true
		}
	}
	return false
}

// UnionValues merges two concrete-value sets, capping at ValueCap and collapsing to
// an empty, overflowed set once the cap is crossed (spec.md §4.5(d), §8.2).
func UnionValues(a, b ValueSet) ValueSet {
	if a.Overflowed || b.Overflowed {
		return ValueSet{Overflowed: true}
	}
	out := ValueSet{Values: append([]any{}, a.Values...)}
	for _, v := range b.Values {
		if !out.contains(v) {
			out.Values = append(out.Values, v)
		}
	}
	if len(out.Values) > ValueCap {
		return ValueSet{Overflowed: true}
	}
	return out
}

// ResponseType is the well-known HTTP-response builder/response type
// referenced by spec.md §4.5's THROW rule ("if the top-of-stack type is the
// well-known HTTP-response type"): the JAX-RS `Response`/`ResponseBuilder`
// family. Both the builder and the built response are treated as this one
// type for simulation purposes — only its HttpResponse aggregate matters.
var ResponseType = TypeRef{Name: "javax.ws.rs.core.Response"}

// IsResponseType reports whether t is the well-known HTTP-response type or
// one of its builder variants recognized by the method pool's built-in
// summaries.
func IsResponseType(t TypeRef) bool {
	switch t.Name {
	case "javax.ws.rs.core.Response", "javax.ws.rs.core.Response$ResponseBuilder":
		return true
	default:
		return false
	}
}

// HttpResponse is the aggregated response-builder state recovered by the
// simulator for a single Element: the set of status codes it might carry,
// the header names it declares, and its body type.
type HttpResponse struct {
	StatusCodes map[int]bool
	Headers     map[string]bool
	BodyType    TypeRef
	HasBody     bool
}

// NewHttpResponse returns an empty aggregate ready for merging into.
func NewHttpResponse() *HttpResponse {
	return &HttpResponse{StatusCodes: map[int]bool{}, Headers: map[string]bool{}}
}

// SortedStatusCodes returns the status codes in ascending order, for stable
// rendering.
func (h *HttpResponse) SortedStatusCodes() []int {
	if h == nil {
		return nil
	}
	codes := make([]int, 0, len(h.StatusCodes))
	for c := range h.StatusCodes {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// SortedHeaders returns the declared header names in lexical order.
func (h *HttpResponse) SortedHeaders() []string {
	if h == nil {
		return nil
	}
	names := make([]string, 0, len(h.Headers))
	for n := range h.Headers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MergeResponses unions two HttpResponse aggregates: status codes become a
// set, headers union, and body types join via the supplied lattice
// (spec.md §4.5 return-merge semantics). Either argument may be nil.
func MergeResponses(a, b *HttpResponse, lattice Lattice) *HttpResponse {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return cloneResponse(b)
	case b == nil:
		return cloneResponse(a)
	}
	out := NewHttpResponse()
	for c := range a.StatusCodes {
		out.StatusCodes[c] = true
	}
	for c := range b.StatusCodes {
		out.StatusCodes[c] = true
	}
	for h := range a.Headers {
		out.Headers[h] = true
	}
	for h := range b.Headers {
		out.Headers[h] = true
	}
	switch {
	case a.HasBody && b.HasBody:
		out.BodyType = lattice.LeastUpperBound(a.BodyType, b.BodyType)
		out.HasBody = true
	case a.HasBody:
		out.BodyType = a.BodyType
		out.HasBody = true
	case b.HasBody:
		out.BodyType = b.BodyType
		out.HasBody = true
	}
	return out
}

func cloneResponse(h *HttpResponse) *HttpResponse {
	if h == nil {
		return nil
	}
	out := NewHttpResponse()
	for c := range h.StatusCodes {
		out.StatusCodes[c] = true
	}
	for n := range h.Headers {
		out.Headers[n] = true
	}
	out.BodyType = h.BodyType
	out.HasBody = h.HasBody
	return out
}

// ElementKind distinguishes a plain abstract value from a MethodHandle
// element. spec.md §9 models this as a sum (tagged variants), not a class
// hierarchy; a single Element struct with a Kind discriminant is the Go
// rendering of that sum.
type ElementKind int

const (
	// KindPlain is an ordinary abstract value.
	KindPlain ElementKind = iota
	// KindMethodHandle is a deferred-call value captured by INVOKE_DYNAMIC.
	KindMethodHandle
)

// MethodHandleValue is the payload of a KindMethodHandle Element: the
// deferred call's identifier and the arguments already bound to it.
// Invoking it later produces the same result as invoking the target method
// directly with Bound followed by the caller's own arguments.
type MethodHandleValue struct {
	Bootstrap string
	Target    MethodIdentifier
	Bound     []Element
}

// Element is the unit of abstract value the simulator operates on: a type,
// an optional set of concrete constants, and — for recognized HTTP-response
// builders — an aggregated HttpResponse. The invariant from spec.md §3 (an
// element's type is always the least-upper-bound of its observed concrete
// values and anything merged into it) is maintained by always routing
// mutation through Merge.
type Element struct {
	Kind     ElementKind
	Type     TypeRef
	Values   ValueSet
	Response *HttpResponse
	Handle   *MethodHandleValue
}

// Empty returns a fresh Element of the given type with no observed values.
func Empty(t TypeRef) Element {
	return Element{Type: t}
}

// FromConstant returns an Element pushed by PUSH(c): its type is the
// constant's runtime type and its concrete-value set is exactly {c}.
func FromConstant(t TypeRef, c any) Element {
	return Element{Type: t, Values: Single(c)}
}

// Merge combines two Elements along a joined control-flow edge or during a
// STORE/RETURN step. It is commutative, associative and idempotent
// (spec.md §8.1): concrete-value sets union, HttpResponse aggregates union,
// and the type becomes the most specific common supertype known to lattice.
// A MethodHandle element is never merged with another value — STORE copies
// it instead (spec.md §4.5 STORE) — but Merge still degrades gracefully if
// callers route a handle through it: merged with an empty plain Element the
// handle is returned unchanged; merged with anything else the result is a
// plain Element and the handle is dropped.
func Merge(a, b Element, lattice Lattice) Element {
	if a.Kind == KindMethodHandle && b.Kind != KindMethodHandle && b.Type.IsZero() && b.Response == nil && len(b.Values.Values) == 0 {
		return a
	}
	if b.Kind == KindMethodHandle && a.Kind != KindMethodHandle && a.Type.IsZero() && a.Response == nil && len(a.Values.Values) == 0 {
		return b
	}
	out := Element{
		Type:     lattice.LeastUpperBound(a.Type, b.Type),
		Values:   UnionValues(a.Values, b.Values),
		Response: MergeResponses(a.Response, b.Response, lattice),
	}
	// merging a null and a non-null concrete set yields the non-null set
	if isNullOnly(a) && !isNullOnly(b) {
		out.Values = b.Values
	} else if isNullOnly(b) && !isNullOnly(a) {
		out.Values = a.Values
	}
	return out
}

func isNullOnly(e Element) bool {
	if len(e.Values.Values) != 1 {
		return false
	}
	return e.Values.Values[0] == nil
}
