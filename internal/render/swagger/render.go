package swagger

import (
	"strconv"
	"strings"

	"github.com/apisurface/apisurface/internal/model"
)

// Config carries the document-level fields a renderer needs beyond what
// model.Document already has (spec.md says nothing about servers/contact
// info, since no component upstream of rendering has a source for them —
// they come from the invoking CLI's config, same as assembler.DocumentMeta).
type Config struct {
	Description string
	Servers     []Server
}

// Render converts an assembled model.Document into an OpenAPI 3.0 Document,
// looking up each referenced body type's schema in registry (populated by
// the assembler during Assemble). Grounded on the teacher's
// Generator.Generate / buildOperation (openapi/generator.go): one Document
// built top-down from the already-analyzed model, one Operation per
// resource-method, one Schema conversion per body type.
func Render(doc *model.Document, registry *model.TypeRegistry, cfg Config) *Document {
	out := &Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       doc.ProjectName,
			Description: cfg.Description,
			Version:     doc.ProjectVersion,
		},
		Servers: cfg.Servers,
		Paths:   map[string]*PathItem{},
	}

	for _, res := range doc.SortedResources() {
		for _, subPath := range res.SortedPaths() {
			path := joinPath(res.BasePath, subPath)
			item := out.Paths[path]
			if item == nil {
				item = &PathItem{}
				out.Paths[path] = item
			}
			for _, m := range res.Paths[subPath] {
				op := buildOperation(m, registry)
				assignOperation(item, m.Verb, op)
			}
		}
	}
	return out
}

func assignOperation(item *PathItem, verb string, op *Operation) {
	switch verb {
	case "GET":
		item.Get = op
	case "POST":
		item.Post = op
	case "PUT":
		item.Put = op
	case "DELETE":
		item.Delete = op
	case "PATCH":
		item.Patch = op
	case "HEAD":
		item.Head = op
	case "OPTIONS":
		item.Options = op
	}
}

// paramLocations maps the bindings OpenAPI's Parameter.In enum can express
// directly. ParamForm and ParamMatrix have no standard OpenAPI 3.0 parameter
// location (form params belong in a request body, matrix params in a path
// segment's own syntax) and are intentionally left out of the rendered
// parameter list; they remain visible in the underlying model for any
// caller needing them (spec.md names no OpenAPI-specific handling for
// either, so the plaintext backend is where they surface in full).
var paramLocations = map[model.ParamKind]string{
	model.ParamPath:   "path",
	model.ParamQuery:  "query",
	model.ParamHeader: "header",
	model.ParamCookie: "cookie",
}

func buildOperation(m model.ResourceMethod, registry *model.TypeRegistry) *Operation {
	op := &Operation{
		OperationID: m.OperationID,
		Responses:   Responses{},
	}

	for _, p := range m.Params {
		in, ok := paramLocations[p.Kind]
		if !ok {
			continue
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:     p.Name,
			In:       in,
			Required: in == "path",
			Schema:   schemaFor(p.Type, registry),
		})
	}

	if m.RequestBody != nil {
		contentType := "application/json"
		if len(m.Consumes) > 0 {
			contentType = m.Consumes[0]
		}
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				contentType: {Schema: schemaFor(*m.RequestBody, registry)},
			},
		}
	}

	contentType := "application/json"
	if len(m.Produces) > 0 {
		contentType = m.Produces[0]
	}
	for _, code := range m.SortedStatusCodes() {
		resp := m.Responses[code]
		r := &Response{Description: statusDescription(code)}
		if len(resp.Headers) > 0 {
			r.Headers = map[string]*Header{}
			for _, h := range resp.Headers {
				r.Headers[h] = &Header{Schema: &Schema{Type: "string"}}
			}
		}
		if resp.BodyType != nil {
			r.Content = map[string]MediaType{contentType: {Schema: schemaFor(*resp.BodyType, registry)}}
		}
		op.Responses[statusCodeString(code)] = r
	}

	return op
}

func schemaFor(t model.TypeRef, registry *model.TypeRegistry) *Schema {
	s, ok := registry.Get(t.String())
	if !ok {
		s = model.EmptyObjectSchema()
	}
	return convertSchema(s)
}

// convertSchema converts model's introspected Schema tree into the JSON
// Schema subset this document type expresses. Since the introspector
// already inlines every object (spec.md §4.7 has no named-component
// concept), this is a direct structural mapping with no $ref step.
func convertSchema(s model.Schema) *Schema {
	switch s.Kind {
	case model.SchemaString:
		return &Schema{Type: "string"}
	case model.SchemaInteger:
		return &Schema{Type: "integer"}
	case model.SchemaNumber:
		return &Schema{Type: "number"}
	case model.SchemaBoolean:
		return &Schema{Type: "boolean"}
	case model.SchemaDate:
		return &Schema{Type: "string", Format: "date-time"}
	case model.SchemaArray:
		var items *Schema
		if s.Items != nil {
			items = convertSchema(*s.Items)
		}
		return &Schema{Type: "array", Items: items}
	default:
		props := map[string]*Schema{}
		for _, p := range s.Properties {
			props[p.Name] = convertSchema(p.Schema)
		}
		return &Schema{Type: "object", Properties: props}
	}
}

// joinPath concatenates a resource's base path and sub-path, collapsing
// duplicate slashes the same way the extractor does for method paths
// (spec.md §4.6).
func joinPath(base, sub string) string {
	var segs []string
	for _, part := range []string{base, sub} {
		for _, seg := range strings.Split(part, "/") {
			if seg != "" {
				segs = append(segs, seg)
			}
		}
	}
	return "/" + strings.Join(segs, "/")
}

// statusCodeString renders a status code as its OpenAPI Responses key.
func statusCodeString(code int) string {
	if code == 0 {
		return "200"
	}
	return strconv.Itoa(code)
}

// statusDescription returns a human-readable description for a status code,
// grounded on the teacher's statusDescription table (openapi/generator.go).
func statusDescription(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 409:
		return "Conflict"
	case 500:
		return "Internal Server Error"
	default:
		return "OK"
	}
}
