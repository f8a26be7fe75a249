package model

import "strings"

// MethodIdentifier names a method: owning class, name, ordered parameter
// types, return type, and whether it is static. Equality is structural
// (spec.md §3); Key renders owner, name and parameter types (not the return
// type or static flag) as a map key so it can back the Method Pool (C4)
// without a custom comparable-struct requirement once type arguments are
// involved.
type MethodIdentifier struct {
	Owner      string
	Name       string
	Params     []TypeRef
	Return     TypeRef
	IsStatic   bool
	IsAbstract bool
}

// Key renders the identifier as a stable string suitable for use as a map
// key or log line.
func (m MethodIdentifier) Key() string {
	var sb strings.Builder
	sb.WriteString(m.Owner)
	sb.WriteByte('#')
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equal is structural equality over all fields except IsAbstract.
func (m MethodIdentifier) Equal(o MethodIdentifier) bool {
	if m.Owner != o.Owner || m.Name != o.Name || m.IsStatic != o.IsStatic || len(m.Params) != len(o.Params) {
		return false
	}
	if !m.Return.Equal(o.Return) {
		return false
	}
	for i := range m.Params {
		if !m.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}
