package model

import "sort"

// ParamKind is the binding kind selected for a resource method parameter
// (spec.md §4.6): the first annotation present in the set {PathParam,
// QueryParam, HeaderParam, FormParam, CookieParam, MatrixParam} wins.
// Unannotated non-primitive parameters get no Param entry; the extractor
// records them as ResourceMethod.RequestBody, and never assigns ParamBody.
type ParamKind string

const (
	ParamPath   ParamKind = "path"
	ParamQuery  ParamKind = "query"
	ParamHeader ParamKind = "header"
	ParamForm   ParamKind = "form"
	ParamCookie ParamKind = "cookie"
	ParamMatrix ParamKind = "matrix"
	ParamBody   ParamKind = "body"
)

// Param is one resource-method parameter and its recovered binding.
type Param struct {
	Kind ParamKind
	Name string
	Type TypeRef
}

// Response is a single status-code entry of a ResourceMethod: the headers
// declared for it and an optional body type.
type Response struct {
	Headers  []string
	BodyType *TypeRef
}

// ResourceMethod is everything recovered for one annotated method: verb,
// sub-path, media types, parameter bindings, optional request body, and the
// status-code → Response map (spec.md §3).
type ResourceMethod struct {
	Verb        string
	Path        string
	OperationID string
	Consumes    []string
	Produces    []string
	Params      []Param
	RequestBody *TypeRef
	Responses   map[int]Response
}

// SortedStatusCodes returns the method's response status codes in ascending
// order, for stable rendering.
func (m ResourceMethod) SortedStatusCodes() []int {
	codes := make([]int, 0, len(m.Responses))
	for c := range m.Responses {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// ParamsOfKind returns the parameters bound to the given kind, preserving
// declaration order.
func (m ResourceMethod) ParamsOfKind(kind ParamKind) []Param {
	var out []Param
	for _, p := range m.Params {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Resources is one resource class's group: its base path plus a mapping
// from sub-path to the ordered set of methods declared there (spec.md §3).
// Sub-path ordering is not guaranteed by the map; SortedPaths must be used
// for rendering.
type Resources struct {
	BasePath string
	Paths    map[string][]ResourceMethod
}

// NewResources creates an empty Resources for the given base path.
func NewResources(basePath string) *Resources {
	return &Resources{BasePath: basePath, Paths: map[string][]ResourceMethod{}}
}

// Add appends a method under the given sub-path.
func (r *Resources) Add(subPath string, m ResourceMethod) {
	r.Paths[subPath] = append(r.Paths[subPath], m)
}

// SortedPaths returns the sub-paths in lexical order, each with its methods
// sorted by HTTP verb, satisfying spec.md §3's "sorting by sub-path is
// required for stable output" and §4.8's "sorted lexically by path and by
// HTTP verb."
func (r *Resources) SortedPaths() []string {
	paths := make([]string, 0, len(r.Paths))
	for p := range r.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		methods := r.Paths[p]
		sort.Slice(methods, func(i, j int) bool { return methods[i].Verb < methods[j].Verb })
		r.Paths[p] = methods
	}
	return paths
}

// Document is the top-level assembled model: every resource class
// discovered in one analysis pass, sorted by base path for stable output.
type Document struct {
	ProjectName    string
	ProjectVersion string
	Domain         string
	Resources      []*Resources
}

// SortedResources returns the Resources entries ordered by base path.
func (d *Document) SortedResources() []*Resources {
	sort.Slice(d.Resources, func(i, j int) bool { return d.Resources[i].BasePath < d.Resources[j].BasePath })
	return d.Resources
}
