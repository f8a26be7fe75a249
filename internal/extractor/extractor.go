// Package extractor implements the Annotation / Resource Extractor (C6,
// spec.md §4.6): it walks every project class, finds resource roots and
// their annotated methods, and for each one recovers the HTTP verb, URI
// template, parameter bindings, media types, and (via the simulator) the
// response status codes and body types.
package extractor

import (
	"strings"

	"github.com/apisurface/apisurface/internal/bytecode"
	"github.com/apisurface/apisurface/internal/classfile"
	"github.com/apisurface/apisurface/internal/model"
	"github.com/apisurface/apisurface/internal/signature"
	"github.com/google/uuid"
)

// Simulator is the subset of *simulator.Simulator the extractor depends on.
// Declared locally to avoid importing the simulator package's concrete type
// where only this one method is needed.
type Simulator interface {
	Simulate(id model.MethodIdentifier, instrs []model.Instruction) (model.Element, bool)
}

// WarnFunc reports a non-fatal condition encountered while extracting one
// resource class or method (spec.md §7).
type WarnFunc func(kind, message string)

// Extractor is the C6 entry point.
type Extractor struct {
	resolver  *classfile.Resolver
	simulator Simulator
	warn      WarnFunc
}

// New builds an Extractor. warn may be nil to discard diagnostics.
func New(resolver *classfile.Resolver, sim Simulator, warn WarnFunc) *Extractor {
	if warn == nil {
		warn = func(string, string) {}
	}
	return &Extractor{resolver: resolver, simulator: sim, warn: warn}
}

// Extract scans every project class and returns one *model.Resources per
// resource root found, in the order their classes were discovered.
func (e *Extractor) Extract() []*model.Resources {
	var out []*model.Resources
	for _, fqcn := range e.resolver.ProjectClasses() {
		rec := e.resolver.Get(fqcn)
		if rec == nil || rec.Synthetic || rec.Class == nil {
			continue
		}
		pathAnn, ok := findAnnotation(rec.Class.Annotations, "Path")
		if !ok {
			continue
		}
		out = append(out, e.extractResource(rec.Class, annotationValue(pathAnn)))
	}
	return out
}

func (e *Extractor) extractResource(cf *classfile.ClassFile, basePath string) *model.Resources {
	res := model.NewResources(basePath)
	classConsumes := annotationMediaTypes(cf.Annotations, "Consumes")
	classProduces := annotationMediaTypes(cf.Annotations, "Produces")

	for _, entry := range e.collectMethods(cf) {
		verb, ok := verbFor(entry.info.Annotations)
		if !ok {
			continue
		}
		subPath, rm, ok := e.extractMethod(cf, entry, verb, classConsumes, classProduces)
		if !ok {
			continue
		}
		res.Add(subPath, rm)
	}
	return res
}

func (e *Extractor) extractMethod(root *classfile.ClassFile, entry methodEntry, verb string, classConsumes, classProduces []string) (string, model.ResourceMethod, bool) {
	mi := entry.info

	methodPath := ""
	if a, ok := findAnnotation(mi.Annotations, "Path"); ok {
		methodPath = annotationValue(a)
	}

	consumes := classConsumes
	if a, ok := findAnnotation(mi.Annotations, "Consumes"); ok {
		consumes = mediaTypes(a)
	}
	produces := classProduces
	if a, ok := findAnnotation(mi.Annotations, "Produces"); ok {
		produces = mediaTypes(a)
	}

	params, ret, err := signature.DecodeMethod(mi.Descriptor, mi.Signature)
	if err != nil {
		e.warn("DecodeError", "skipping "+entry.owner+"#"+mi.Name+": "+err.Error())
		return "", model.ResourceMethod{}, false
	}

	var bound []model.Param
	var requestBody *model.TypeRef
	for i, pt := range params {
		var anns []classfile.Annotation
		if i < len(mi.ParameterAnnotations) {
			anns = mi.ParameterAnnotations[i]
		}
		if kind, name, ok := paramBinding(anns); ok {
			bound = append(bound, model.Param{Kind: kind, Name: name, Type: pt})
			continue
		}
		if model.IsPrimitive(pt.Name) {
			continue
		}
		t := pt
		requestBody = &t
	}

	id := model.MethodIdentifier{
		Owner: entry.owner, Name: mi.Name, Params: params, Return: ret,
		IsStatic: mi.IsStatic(),
	}
	responses := e.simulateResponses(e.ownerClass(entry, root), id, mi)

	rm := model.ResourceMethod{
		Verb:        verb,
		Path:        joinPath(methodPath),
		OperationID: operationID(id),
		Consumes:    consumes,
		Produces:    produces,
		Params:      bound,
		RequestBody: requestBody,
		Responses:   responses,
	}
	return rm.Path, rm, true
}

// ownerClass resolves the ClassFile actually declaring entry's method body
// (root when the method was declared directly on the resource class, the
// resolved superclass otherwise), since the Code attribute's constant pool
// must come from the class that owns the bytecode.
func (e *Extractor) ownerClass(entry methodEntry, root *classfile.ClassFile) *classfile.ClassFile {
	if entry.owner == root.ThisName {
		return root
	}
	rec := e.resolver.Get(entry.owner)
	if rec == nil || rec.Class == nil {
		return root
	}
	return rec.Class
}

func (e *Extractor) simulateResponses(owner *classfile.ClassFile, id model.MethodIdentifier, mi classfile.MethodInfo) map[int]model.Response {
	responses := map[int]model.Response{}
	var value model.Element
	var hasValue bool
	if mi.Code != nil && e.simulator != nil {
		instrs, degraded := bytecode.Decode(mi.Code.Bytes, owner.ConstantPool)
		for range degraded {
			e.warn("DecodeError", "instruction degraded while decoding "+id.Key())
		}
		value, hasValue = e.simulator.Simulate(id, instrs)
	}
	if hasValue && value.Response != nil && len(value.Response.StatusCodes) > 0 {
		for _, code := range value.Response.SortedStatusCodes() {
			resp := model.Response{Headers: value.Response.SortedHeaders()}
			if value.Response.HasBody {
				bt := value.Response.BodyType
				resp.BodyType = &bt
			}
			responses[code] = resp
		}
		return responses
	}
	// spec.md §4.6: "Default status when none observed: 200 (204 for void
	// return). The returned body type, when present, is the element's type
	// or Object if unknown."
	if id.Return.Equal(model.Void) {
		responses[204] = model.Response{}
		return responses
	}
	bt := value.Type
	if bt.IsZero() {
		bt = model.Object
	}
	responses[200] = model.Response{BodyType: &bt}
	return responses
}

func annotationMediaTypes(anns []classfile.Annotation, name string) []string {
	if a, ok := findAnnotation(anns, name); ok {
		return mediaTypes(a)
	}
	return nil
}

func paramBinding(anns []classfile.Annotation) (model.ParamKind, string, bool) {
	for _, b := range paramBindingOrder {
		if a, ok := findAnnotation(anns, b.annotation); ok {
			return b.kind, annotationValue(a), true
		}
	}
	return "", "", false
}

// joinPath concatenates URI template fragments, trimming and collapsing
// slashes so that e.g. joinPath("users/", "/{id}") yields "users/{id}"
// (spec.md §4.6: "duplicate slashes collapsed").
func joinPath(parts ...string) string {
	var segs []string
	for _, p := range parts {
		for _, seg := range strings.Split(p, "/") {
			if seg != "" {
				segs = append(segs, seg)
			}
		}
	}
	return strings.Join(segs, "/")
}

// operationID deterministically names a resource method from its owning
// class, method name and descriptor shape, so repeated runs over the same
// input produce byte-identical output (spec.md §8, testable property 4's
// determinism requirement extended to operation identity).
func operationID(id model.MethodIdentifier) string {
	return uuid.NewSHA1(operationNamespace, []byte(id.Key())).String()
}

// operationNamespace is a fixed, arbitrary namespace UUID used only to seed
// uuid.NewSHA1's deterministic name-based generation.
var operationNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
