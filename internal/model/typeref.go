// Package model holds the data shapes shared by every stage of the analysis
// pipeline: type references, the abstract Element the simulator operates on,
// the normalized instruction set, and the Resources/Schema trees consumed by
// the renderers.
package model

import "strings"

// TypeRef is a canonical class or primitive name optionally carrying type
// arguments, e.g. "java.util.List" with Args=["com.example.User"] for
// List<User>. Parametric information is preserved exactly as declared;
// erasure is never applied.
type TypeRef struct {
	Name string
	Args []TypeRef
}

// Object is the fallback supertype used when the lattice cannot determine a
// more specific common ancestor.
var Object = TypeRef{Name: "java.lang.Object"}

// Void represents the absence of a value (a method with no return type).
var Void = TypeRef{Name: "void"}

func (t TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// IsZero reports whether this TypeRef was never assigned a name.
func (t TypeRef) IsZero() bool {
	return t.Name == ""
}

// Equal is structural equality, recursive on type arguments.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// collectionNames are the canonical JAX-RS/JDK container types recognized by
// isCollection. Arrays (encoded here with a leading "[") are collections too.
var collectionNames = map[string]bool{
	"java.util.List":          true,
	"java.util.ArrayList":     true,
	"java.util.LinkedList":    true,
	"java.util.Set":           true,
	"java.util.HashSet":       true,
	"java.util.LinkedHashSet": true,
	"java.util.TreeSet":       true,
	"java.util.SortedSet":     true,
	"java.util.Collection":    true,
	"java.util.Queue":         true,
	"java.util.Deque":         true,
	"java.lang.Iterable":      true,
}

// IsCollection recognizes the standard collection-like containers named in
// spec.md's type-reference predicate.
func IsCollection(t TypeRef) bool {
	if strings.HasPrefix(t.Name, "[") {
		return true
	}
	return collectionNames[t.Name]
}

// ElementOf yields the first type argument of a collection type reference,
// falling back to Object when no argument was recorded (raw-typed
// collections erased at the bytecode level).
func ElementOf(t TypeRef) TypeRef {
	if strings.HasPrefix(t.Name, "[") {
		return TypeRef{Name: strings.TrimPrefix(t.Name, "[")}
	}
	if len(t.Args) == 0 {
		return Object
	}
	return t.Args[0]
}

// IsPlatform reports whether the type lives in the java.* namespace or is a
// JVM primitive, the boundary spec.md §4.7 uses to decide primitive-schema
// emission.
func IsPlatform(t TypeRef) bool {
	return strings.HasPrefix(t.Name, "java.") || IsPrimitive(t.Name)
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// IsPrimitive reports whether name is a JVM primitive type keyword.
func IsPrimitive(name string) bool {
	return primitiveNames[name]
}

// Lattice resolves the least-upper-bound of two type references. Simulator
// and introspector callers supply an implementation backed by the class
// resolver; model itself stays dependency-free.
type Lattice interface {
	LeastUpperBound(a, b TypeRef) TypeRef
}

// ObjectLattice is the trivial fallback lattice: a zero TypeRef joined with
// any type yields that type, and otherwise anything joined with anything
// else (other than itself) is java.lang.Object, exactly the
// fallback spec.md §3 describes for when "the type lattice cannot be
// queried."
type ObjectLattice struct{}

// LeastUpperBound implements Lattice.
func (ObjectLattice) LeastUpperBound(a, b TypeRef) TypeRef {
	if a.Equal(b) {
		return a
	}
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	return Object
}
