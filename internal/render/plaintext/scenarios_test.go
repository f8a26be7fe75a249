package plaintext_test

import (
	"strings"
	"testing"

	"github.com/apisurface/apisurface/internal/model"
	"github.com/apisurface/apisurface/internal/render/plaintext"
)

// These mirror the same spec.md §8 scenarios covered at the swagger
// renderer's scenarios_test.go, checked here against the plaintext listing
// instead of an OpenAPI document.

// S2: explicit status, request and response body lines both present.
func TestScenarioExplicitStatus(t *testing.T) {
	user := model.TypeRef{Name: "com.example.User"}
	registry := model.NewTypeRegistry()
	registry.Register(user.String(), model.ObjectSchema("com.example.User", []model.SchemaProperty{
		{Name: "id", Schema: model.IntegerSchema()},
	}))

	res := model.NewResources("users")
	res.Add("", model.ResourceMethod{
		Verb:        "POST",
		RequestBody: &user,
		Responses:   map[int]model.Response{201: {BodyType: &user}},
	})
	doc := &model.Document{Resources: []*model.Resources{res}}

	out := plaintext.Render(doc, registry, plaintext.Config{})
	if !strings.Contains(out, "POST /users") {
		t.Fatalf("missing operation line, got:\n%s", out)
	}
	if !strings.Contains(out, "request body: {id: integer}") {
		t.Fatalf("missing request body line, got:\n%s", out)
	}
	if !strings.Contains(out, "201: {id: integer}") {
		t.Fatalf("missing 201 response line, got:\n%s", out)
	}
	if strings.Contains(out, "  200") {
		t.Fatalf("did not expect a default 200 line alongside an explicit 201, got:\n%s", out)
	}
}

// S3: conditional status, one response with a body and one without.
func TestScenarioConditionalStatus(t *testing.T) {
	user := model.TypeRef{Name: "com.example.User"}
	registry := model.NewTypeRegistry()
	registry.Register(user.String(), model.ObjectSchema("com.example.User", nil))

	res := model.NewResources("users")
	res.Add("{id}", model.ResourceMethod{
		Verb: "GET",
		Responses: map[int]model.Response{
			200: {BodyType: &user},
			404: {},
		},
	})
	doc := &model.Document{Resources: []*model.Resources{res}}

	out := plaintext.Render(doc, registry, plaintext.Config{})
	if !strings.Contains(out, "200: {}") {
		t.Fatalf("missing 200 body line, got:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	found404 := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "404" {
			found404 = true
		}
	}
	if !found404 {
		t.Fatalf("expected a bare 404 line with no body, got:\n%s", out)
	}
}

// S6: an unresolved body type renders as an empty object rather than
// failing the whole render.
func TestScenarioUnknownClassRendersEmptyObject(t *testing.T) {
	missing := model.TypeRef{Name: "com.example.Ghost"}
	registry := model.NewTypeRegistry()

	res := model.NewResources("ghosts")
	res.Add("", model.ResourceMethod{
		Verb:      "GET",
		Responses: map[int]model.Response{200: {BodyType: &missing}},
	})
	doc := &model.Document{Resources: []*model.Resources{res}}

	out := plaintext.Render(doc, registry, plaintext.Config{})
	if !strings.Contains(out, "GET /ghosts") {
		t.Fatalf("expected GET /ghosts to render despite the unresolved body type, got:\n%s", out)
	}
	if !strings.Contains(out, "200: {}") {
		t.Fatalf("expected an empty object body for the unresolved type, got:\n%s", out)
	}
}
