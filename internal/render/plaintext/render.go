// Package plaintext renders an assembled model.Document as a human-readable
// text listing, for the "PLAINTEXT" backend named in spec.md §6.
//
// Grounded on diagnostic.Collector.FormatAll's shape: build the whole
// document with one strings.Builder, one line (or line group) per unit,
// rather than templating or a separate per-section buffer.
package plaintext

import (
	"fmt"
	"strings"

	"github.com/apisurface/apisurface/internal/model"
)

// Config carries the document-level fields spec.md's Config doesn't track
// (same rationale as render/swagger.Config).
type Config struct {
	Description string
}

// Render converts an assembled model.Document into a plaintext listing.
func Render(doc *model.Document, registry *model.TypeRegistry, cfg Config) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", doc.ProjectName, doc.ProjectVersion)
	if doc.Domain != "" {
		fmt.Fprintf(&sb, "domain: %s\n", doc.Domain)
	}
	if cfg.Description != "" {
		fmt.Fprintf(&sb, "%s\n", cfg.Description)
	}
	sb.WriteString("\n")

	if len(doc.Resources) == 0 {
		sb.WriteString("(no resources discovered)\n")
		return sb.String()
	}

	for _, res := range doc.SortedResources() {
		for _, subPath := range res.SortedPaths() {
			path := joinPath(res.BasePath, subPath)
			for _, m := range res.Paths[subPath] {
				writeMethod(&sb, path, m, registry)
			}
		}
	}

	return sb.String()
}

func writeMethod(sb *strings.Builder, path string, m model.ResourceMethod, registry *model.TypeRegistry) {
	fmt.Fprintf(sb, "%s %s\n", m.Verb, path)

	for _, kind := range []model.ParamKind{model.ParamPath, model.ParamQuery, model.ParamHeader, model.ParamCookie, model.ParamForm, model.ParamMatrix} {
		for _, p := range m.ParamsOfKind(kind) {
			fmt.Fprintf(sb, "  %s param: %s (%s)\n", kind, p.Name, p.Type.String())
		}
	}

	if m.RequestBody != nil {
		fmt.Fprintf(sb, "  request body: %s\n", describeSchema(*m.RequestBody, registry))
	}
	if len(m.Consumes) > 0 {
		fmt.Fprintf(sb, "  consumes: %s\n", strings.Join(m.Consumes, ", "))
	}
	if len(m.Produces) > 0 {
		fmt.Fprintf(sb, "  produces: %s\n", strings.Join(m.Produces, ", "))
	}

	for _, code := range m.SortedStatusCodes() {
		resp := m.Responses[code]
		line := fmt.Sprintf("  %d", code)
		if resp.BodyType != nil {
			line += ": " + describeSchema(*resp.BodyType, registry)
		}
		if len(resp.Headers) > 0 {
			line += fmt.Sprintf(" [headers: %s]", strings.Join(resp.Headers, ", "))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// describeSchema renders a body type's schema as a single-line structural
// summary, expanding object properties inline (the introspector never
// produces named components to reference instead, spec.md §4.7).
func describeSchema(t model.TypeRef, registry *model.TypeRegistry) string {
	s, ok := registry.Get(t.String())
	if !ok {
		s = model.EmptyObjectSchema()
	}
	return schemaString(s)
}

func schemaString(s model.Schema) string {
	switch s.Kind {
	case model.SchemaString:
		return "string"
	case model.SchemaInteger:
		return "integer"
	case model.SchemaNumber:
		return "number"
	case model.SchemaBoolean:
		return "boolean"
	case model.SchemaDate:
		return "date"
	case model.SchemaArray:
		if s.Items != nil {
			return schemaString(*s.Items) + "[]"
		}
		return "[]"
	default:
		if len(s.Properties) == 0 {
			return "{}"
		}
		parts := make([]string, len(s.Properties))
		for i, p := range s.Properties {
			parts[i] = p.Name + ": " + schemaString(p.Schema)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
}

// joinPath mirrors render/swagger's joinPath: concatenate a resource's base
// path and sub-path, collapsing duplicate slashes.
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
