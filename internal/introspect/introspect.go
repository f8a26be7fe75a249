// Package introspect implements the Type Introspector (C7, spec.md §4.7):
// given a type reference it produces the structural Schema tree a message
// body backend renders, recognizing collections, platform types, enums, and
// plain objects whose relevant fields and getters it walks recursively.
package introspect

import (
	"github.com/apisurface/apisurface/internal/classfile"
	"github.com/apisurface/apisurface/internal/model"
	"github.com/apisurface/apisurface/internal/signature"
)

// Introspector is the C7 entry point.
type Introspector struct {
	resolver *classfile.Resolver
}

// New builds an Introspector reading class records through resolver.
func New(resolver *classfile.Resolver) *Introspector {
	return &Introspector{resolver: resolver}
}

// Introspect computes the Schema for t, starting a fresh recursive path for
// cycle detection (spec.md §4.7, "Cycle handling").
func (in *Introspector) Introspect(t model.TypeRef) model.Schema {
	return in.walk(t, map[string]bool{})
}

// walk implements the dispatch-by-kind table of spec.md §4.7: collection,
// platform primitive, enum, then object.
func (in *Introspector) walk(t model.TypeRef, visiting map[string]bool) model.Schema {
	if model.IsCollection(t) {
		return model.ArraySchema(in.walk(model.ElementOf(t), visiting))
	}
	if model.IsPlatform(t) {
		return platformSchema(t)
	}

	rec := in.resolver.Get(t.Name)
	if rec == nil || rec.Synthetic || rec.Class == nil {
		// spec.md §4.1 scenario S6: an unresolvable class falls back to an
		// empty object rather than failing the whole run.
		return model.EmptyObjectSchema()
	}
	if rec.Class.IsEnum() {
		return model.StringSchema()
	}
	if visiting[t.Name] {
		return model.SentinelSchema(t.Name)
	}

	visiting[t.Name] = true
	defer delete(visiting, t.Name)
	return in.objectSchema(t.Name, rec.Class, visiting)
}

// objectSchema enumerates rec's relevant fields and getters (rules in
// relevance.go) and recursively introspects each property's declared type.
func (in *Introspector) objectSchema(typeName string, cf *classfile.ClassFile, visiting map[string]bool) model.Schema {
	mode := accessMode(cf)

	var props []model.SchemaProperty
	for _, f := range cf.Fields {
		if !fieldRelevant(f, mode) {
			continue
		}
		ft, err := signature.DecodeField(f.Descriptor, f.Signature)
		if err != nil {
			continue
		}
		props = append(props, model.SchemaProperty{Name: f.Name, Schema: in.walk(ft, visiting)})
	}
	for _, m := range cf.Methods {
		if !getterRelevant(m, mode) {
			continue
		}
		_, ret, err := signature.DecodeMethod(m.Descriptor, m.Signature)
		if err != nil {
			continue
		}
		props = append(props, model.SchemaProperty{Name: propertyName(m.Name), Schema: in.walk(ret, visiting)})
	}

	return model.ObjectSchema(typeName, props)
}

// platformSchema maps a java.* (or JVM primitive) type reference to its
// primitive Schema per spec.md §4.7's mapping table.
func platformSchema(t model.TypeRef) model.Schema {
	switch t.Name {
	case "java.lang.String", "java.util.UUID":
		return model.StringSchema()
	case "java.util.Date":
		return model.DateSchema()
	case "java.lang.Integer", "int", "java.lang.Long", "long", "java.math.BigInteger":
		return model.IntegerSchema()
	case "java.lang.Double", "double", "java.math.BigDecimal", "float", "java.lang.Float":
		return model.NumberSchema()
	case "java.lang.Boolean", "boolean":
		return model.BooleanSchema()
	case "void":
		return model.EmptyObjectSchema()
	}
	if isJavaTimeType(t.Name) {
		return model.DateSchema()
	}
	// Any other java.* type (InputStream, Object, ...) with no narrower
	// mapping falls back to an opaque object, matching the table's
	// "anything else -> recursively introspected object" entry applied to a
	// platform type that has no fields worth walking.
	return model.EmptyObjectSchema()
}

func isJavaTimeType(name string) bool {
	const prefix = "java.time."
	return len(name) > len(prefix) && name[:len(prefix)] == prefix
}
