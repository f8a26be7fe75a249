package extractor

import "github.com/apisurface/apisurface/internal/classfile"

// methodEntry pairs a resolved MethodInfo with the fqcn of the class that
// actually declares it — the resource root for a non-overridden method, or
// one of its ancestors when inherited.
type methodEntry struct {
	owner string
	info  classfile.MethodInfo
}

// collectMethods walks root's superclass chain, returning every public
// method reachable from it with subclass declarations taking precedence
// over an ancestor's method of the same signature (spec.md §4.6: "including
// those inherited when the subclass does not redeclare"). The walk stops at
// java.lang.Object, an unresolvable ancestor, or a cycle.
func (e *Extractor) collectMethods(root *classfile.ClassFile) []methodEntry {
	var out []methodEntry
	seen := map[string]bool{}
	visitedClasses := map[string]bool{}

	cf := root
	owner := root.ThisName
	for cf != nil && !visitedClasses[owner] {
		visitedClasses[owner] = true
		for _, m := range cf.Methods {
			if !m.IsPublic() {
				continue
			}
			sig := m.Name + m.Descriptor
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out = append(out, methodEntry{owner: owner, info: m})
		}
		if cf.SuperName == "" || cf.SuperName == "java.lang.Object" {
			break
		}
		rec := e.resolver.Get(cf.SuperName)
		if rec == nil || rec.Synthetic || rec.Class == nil {
			break
		}
		cf = rec.Class
		owner = cf.ThisName
	}
	return out
}
