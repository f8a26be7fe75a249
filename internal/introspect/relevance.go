package introspect

import (
	"regexp"
	"strings"

	"github.com/apisurface/apisurface/internal/classfile"
)

// accessMode reads the class's XmlAccessorType annotation, defaulting to
// PUBLIC_MEMBER when absent (spec.md §4.7).
func accessMode(cf *classfile.ClassFile) string {
	for _, a := range cf.Annotations {
		if a.SimpleName() != "XmlAccessorType" {
			continue
		}
		if v, ok := a.Values["value"]; ok && v.Kind == classfile.EVEnum {
			return v.EnumConst
		}
	}
	return "PUBLIC_MEMBER"
}

func hasAnnotation(anns []classfile.Annotation, simpleName string) bool {
	for _, a := range anns {
		if a.SimpleName() == simpleName {
			return true
		}
	}
	return false
}

// fieldRelevant implements spec.md §4.7's field relevance rule.
func fieldRelevant(f classfile.FieldInfo, mode string) bool {
	if hasAnnotation(f.Annotations, "XmlElement") {
		return true
	}
	if hasAnnotation(f.Annotations, "XmlTransient") {
		return false
	}
	switch mode {
	case "FIELD":
		return !f.IsStatic() && !f.IsTransient()
	case "PUBLIC_MEMBER":
		return f.IsPublic() && !f.IsStatic()
	default:
		return false
	}
}

var (
	getterPattern = regexp.MustCompile(`^get[A-Z]`)
	isGetPattern  = regexp.MustCompile(`^is[A-Z]`)
)

// getterBlacklist excludes methods that match the getter shape but carry no
// domain meaning.
var getterBlacklist = map[string]bool{"getClass": true}

// isGetter reports whether m has the shape of a JavaBean getter: a
// non-static get-prefixed method with a non-void return, or an is-prefixed
// method with a boolean return (spec.md §4.7).
func isGetter(m classfile.MethodInfo, ret string) bool {
	if m.IsStatic() || getterBlacklist[m.Name] {
		return false
	}
	if getterPattern.MatchString(m.Name) {
		return ret != "void"
	}
	if isGetPattern.MatchString(m.Name) {
		return ret == "boolean"
	}
	return false
}

// getterRelevant implements spec.md §4.7's getter relevance rule. It decodes
// just enough of the descriptor to classify the return type without paying
// for a full signature decode on every method.
func getterRelevant(m classfile.MethodInfo, mode string) bool {
	ret := rawReturnKind(m.Descriptor)
	if !isGetter(m, ret) {
		return false
	}
	if hasAnnotation(m.Annotations, "XmlElement") {
		return true
	}
	if hasAnnotation(m.Annotations, "XmlTransient") {
		return false
	}
	switch mode {
	case "PROPERTY":
		return true
	case "PUBLIC_MEMBER":
		return m.IsPublic()
	default:
		return false
	}
}

// rawReturnKind classifies a method descriptor's return type as "void",
// "boolean", or "other" directly from the raw descriptor string, ahead of
// the full generic-signature decode objectSchema performs for relevant
// getters only.
func rawReturnKind(descriptor string) string {
	idx := strings.LastIndex(descriptor, ")")
	if idx < 0 || idx+1 >= len(descriptor) {
		return "other"
	}
	switch descriptor[idx+1] {
	case 'V':
		return "void"
	case 'Z':
		return "boolean"
	default:
		return "other"
	}
}

// propertyName normalizes a getter method name to its bean property name:
// drop the get/is prefix and lowercase the first remaining character
// (spec.md §4.7).
func propertyName(methodName string) string {
	var rest string
	switch {
	case strings.HasPrefix(methodName, "get"):
		rest = methodName[3:]
	case strings.HasPrefix(methodName, "is"):
		rest = methodName[2:]
	default:
		return methodName
	}
	if rest == "" {
		return rest
	}
	return strings.ToLower(rest[:1]) + rest[1:]
}
