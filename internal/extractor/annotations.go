package extractor

import "github.com/apisurface/apisurface/internal/classfile"
import "github.com/apisurface/apisurface/internal/model"

// httpVerbs is the table-driven dispatch spec.md §9 calls for: an annotation
// simple name -> HTTP verb, replacing the source's reflective annotation
// lookup.
var httpVerbs = map[string]string{
	"GET": "GET", "POST": "POST", "PUT": "PUT", "DELETE": "DELETE",
	"HEAD": "HEAD", "OPTIONS": "OPTIONS", "PATCH": "PATCH",
}

// paramBindingOrder is the fixed precedence spec.md §4.6 defines: "the first
// binding annotation in the set ... selects its kind."
var paramBindingOrder = []struct {
	annotation string
	kind       model.ParamKind
}{
	{"PathParam", model.ParamPath},
	{"QueryParam", model.ParamQuery},
	{"HeaderParam", model.ParamHeader},
	{"FormParam", model.ParamForm},
	{"CookieParam", model.ParamCookie},
	{"MatrixParam", model.ParamMatrix},
}

func findAnnotation(anns []classfile.Annotation, simpleName string) (classfile.Annotation, bool) {
	for _, a := range anns {
		if a.SimpleName() == simpleName {
			return a, true
		}
	}
	return classfile.Annotation{}, false
}

func annotationValue(a classfile.Annotation) string {
	if v, ok := a.Values["value"]; ok {
		if strs := v.Strings(); len(strs) > 0 {
			return strs[0]
		}
	}
	return ""
}

func mediaTypes(a classfile.Annotation) []string {
	v, ok := a.Values["value"]
	if !ok {
		return nil
	}
	return v.Strings()
}

func verbFor(anns []classfile.Annotation) (string, bool) {
	for _, a := range anns {
		if verb, ok := httpVerbs[a.SimpleName()]; ok {
			return verb, true
		}
	}
	return "", false
}
