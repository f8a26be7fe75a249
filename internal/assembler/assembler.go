// Package assembler implements the REST Model Assembler (C8, spec.md §4.8):
// it combines the extractor's resource/method discovery with the type
// introspector's structural schemas into one analysis Document, caching each
// distinct body type's schema so it is only walked once per run.
package assembler

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/apisurface/apisurface/internal/model"
)

// Introspector is the subset of *introspect.Introspector the assembler
// depends on. Declared locally so this package does not import introspect's
// concrete type, mirroring the dependency-inversion pattern already used
// between methodpool/simulator and extractor/simulator.
type Introspector interface {
	Introspect(t model.TypeRef) model.Schema
}

// DocumentMeta carries the document-level fields spec.md §3 puts on
// Document but which no component before the assembler has a source for
// (they come from the invoking CLI's config, not from any class file).
type DocumentMeta struct {
	ProjectName    string
	ProjectVersion string
	Domain         string
}

// Assembler is the C8 entry point.
type Assembler struct {
	introspector Introspector
	registry     *model.TypeRegistry
}

// New builds an Assembler. registry accumulates the introspected schema for
// every distinct body type seen across however many Assemble calls share it;
// pass a fresh *model.TypeRegistry per analysis run.
func New(introspector Introspector, registry *model.TypeRegistry) *Assembler {
	return &Assembler{introspector: introspector, registry: registry}
}

// Assemble combines groups (one *model.Resources per resource root, as
// produced by the extractor) into a sorted Document, and introspects every
// distinct request/response body type referenced across them — each type is
// walked at most once, regardless of how many methods return it (spec.md
// §4.8: "request/response body types are introspected once and cached").
func (a *Assembler) Assemble(groups []*model.Resources, meta DocumentMeta) *model.Document {
	doc := &model.Document{
		ProjectName:    meta.ProjectName,
		ProjectVersion: meta.ProjectVersion,
		Domain:         meta.Domain,
		Resources:      groups,
	}

	a.introspectBodyTypes(collectBodyTypes(groups))

	for _, res := range doc.Resources {
		res.SortedPaths()
	}
	doc.SortedResources()
	return doc
}

// Schema returns the cached schema for t, introspecting it first if this is
// the first time it has been seen. Exposed for renderers that need a
// schema outside the set collectBodyTypes already walked (e.g. a type named
// directly by an Open Question resolution or a future non-body use).
func (a *Assembler) Schema(t model.TypeRef) model.Schema {
	if s, ok := a.registry.Get(t.String()); ok {
		return s
	}
	s := a.introspector.Introspect(t)
	a.registry.Register(t.String(), s)
	return s
}

// introspectBodyTypes walks each of types concurrently, bounded to
// runtime.NumCPU() in flight at once, following build.go's
// `sem := make(chan struct{}, runtime.NumCPU())` worker-pool shape.
func (a *Assembler) introspectBodyTypes(types []model.TypeRef) {
	sem := make(chan struct{}, runtime.NumCPU())
	var g errgroup.Group
	for _, t := range types {
		t := t
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			a.Schema(t)
			return nil
		})
	}
	_ = g.Wait() // Schema never errors; Wait only serializes completion
}

// collectBodyTypes gathers every distinct request/response body TypeRef
// referenced across groups, deduplicated by canonical string form (so
// List<User> and List<Order> are introspected separately but repeats of the
// same parametric type are not).
func collectBodyTypes(groups []*model.Resources) []model.TypeRef {
	seen := map[string]bool{}
	var out []model.TypeRef
	add := func(t *model.TypeRef) {
		if t == nil {
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, *t)
	}
	for _, res := range groups {
		for _, methods := range res.Paths {
			for _, m := range methods {
				add(m.RequestBody)
				for code := range m.Responses {
					resp := m.Responses[code]
					add(resp.BodyType)
				}
			}
		}
	}
	return out
}
