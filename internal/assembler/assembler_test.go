package assembler_test

import (
	"sync"
	"testing"

	"github.com/apisurface/apisurface/internal/assembler"
	"github.com/apisurface/apisurface/internal/model"
)

// countingIntrospector records how many times each type name was
// introspected, so tests can assert the cache actually dedupes.
type countingIntrospector struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingIntrospector() *countingIntrospector {
	return &countingIntrospector{calls: map[string]int{}}
}

func (c *countingIntrospector) Introspect(t model.TypeRef) model.Schema {
	c.mu.Lock()
	c.calls[t.String()]++
	c.mu.Unlock()
	return model.ObjectSchema(t.Name, nil)
}

func (c *countingIntrospector) callsFor(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func TestAssembleSortsResources(t *testing.T) {
	zzz := model.NewResources("zzz")
	zzz.Add("", model.ResourceMethod{Verb: "GET"})
	aaa := model.NewResources("aaa")
	aaa.Add("", model.ResourceMethod{Verb: "GET"})

	intr := newCountingIntrospector()
	asm := assembler.New(intr, model.NewTypeRegistry())
	doc := asm.Assemble([]*model.Resources{zzz, aaa}, assembler.DocumentMeta{ProjectName: "svc"})

	got := doc.SortedResources()
	if len(got) != 2 || got[0].BasePath != "aaa" || got[1].BasePath != "zzz" {
		t.Fatalf("resources not sorted by base path: %+v", got)
	}
	if doc.ProjectName != "svc" {
		t.Fatalf("project name = %q", doc.ProjectName)
	}
}

func TestAssembleSortsMethodsWithinPath(t *testing.T) {
	res := model.NewResources("users")
	res.Paths[""] = []model.ResourceMethod{{Verb: "POST"}, {Verb: "DELETE"}, {Verb: "GET"}}

	asm := assembler.New(newCountingIntrospector(), model.NewTypeRegistry())
	doc := asm.Assemble([]*model.Resources{res}, assembler.DocumentMeta{})

	methods := doc.Resources[0].Paths[""]
	if len(methods) != 3 || methods[0].Verb != "DELETE" || methods[1].Verb != "GET" || methods[2].Verb != "POST" {
		t.Fatalf("methods not sorted by verb: %+v", methods)
	}
}

// TestAssembleCachesBodyTypes checks that a body type referenced by several
// methods is introspected exactly once (spec.md §4.8: "introspected once and
// cached"), and that request and response bodies are both collected.
func TestAssembleCachesBodyTypes(t *testing.T) {
	user := model.TypeRef{Name: "com.example.User"}
	order := model.TypeRef{Name: "com.example.Order"}

	res := model.NewResources("users")
	res.Add("", model.ResourceMethod{
		Verb:        "POST",
		RequestBody: &user,
		Responses:   map[int]model.Response{201: {BodyType: &user}},
	})
	res.Add("{id}", model.ResourceMethod{
		Verb:      "GET",
		Responses: map[int]model.Response{200: {BodyType: &user}, 404: {BodyType: &order}},
	})

	intr := newCountingIntrospector()
	asm := assembler.New(intr, model.NewTypeRegistry())
	asm.Assemble([]*model.Resources{res}, assembler.DocumentMeta{})

	if got := intr.callsFor(user.String()); got != 1 {
		t.Fatalf("User introspected %d times, want 1", got)
	}
	if got := intr.callsFor(order.String()); got != 1 {
		t.Fatalf("Order introspected %d times, want 1", got)
	}
}

// TestAssembleSchemaLazyLookup checks the post-assembly Schema accessor
// serves cached results without re-introspecting.
func TestAssembleSchemaLazyLookup(t *testing.T) {
	user := model.TypeRef{Name: "com.example.User"}
	res := model.NewResources("users")
	res.Add("", model.ResourceMethod{Verb: "GET", Responses: map[int]model.Response{200: {BodyType: &user}}})

	intr := newCountingIntrospector()
	asm := assembler.New(intr, model.NewTypeRegistry())
	asm.Assemble([]*model.Resources{res}, assembler.DocumentMeta{})

	s := asm.Schema(user)
	if s.Kind != model.SchemaObject {
		t.Fatalf("schema = %+v", s)
	}
	if got := intr.callsFor(user.String()); got != 1 {
		t.Fatalf("Schema lookup re-introspected: %d calls, want 1", got)
	}
}
