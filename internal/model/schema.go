package model

// SchemaKind tags the variants of the Schema tree (spec.md §3): primitive
// leaves, arrays, and objects.
type SchemaKind int

const (
	SchemaString SchemaKind = iota
	SchemaInteger
	SchemaNumber
	SchemaBoolean
	SchemaDate
	SchemaArray
	SchemaObject
)

func (k SchemaKind) String() string {
	switch k {
	case SchemaString:
		return "string"
	case SchemaInteger:
		return "integer"
	case SchemaNumber:
		return "number"
	case SchemaBoolean:
		return "boolean"
	case SchemaDate:
		return "date"
	case SchemaArray:
		return "array"
	default:
		return "object"
	}
}

// SchemaProperty is one entry of an object schema's ordered property list.
type SchemaProperty struct {
	Name   string
	Schema Schema
}

// Schema is the structural description of a message body: primitive leaves,
// arrays (one Items schema), or objects (an ordered property list). The
// ordering on Properties is declaration order — fields first, then getters,
// matching spec.md §4.7(4) — and must be preserved for introspector
// determinism (spec.md §8.4).
type Schema struct {
	Kind       SchemaKind
	Items      *Schema
	Properties []SchemaProperty
	// Sentinel marks a cycle placeholder emitted in place of looping back
	// into a type already on the current recursive path (spec.md §4.7,
	// "Cycle handling").
	Sentinel bool
	// TypeName records the originating type reference's canonical name, for
	// $ref emission by backends that want named schemas.
	TypeName string
}

// StringSchema builds a primitive string schema.
func StringSchema() Schema { return Schema{Kind: SchemaString} }

// IntegerSchema builds a primitive integer schema.
func IntegerSchema() Schema { return Schema{Kind: SchemaInteger} }

// NumberSchema builds a primitive number schema.
func NumberSchema() Schema { return Schema{Kind: SchemaNumber} }

// BooleanSchema builds a primitive boolean schema.
func BooleanSchema() Schema { return Schema{Kind: SchemaBoolean} }

// DateSchema builds a primitive date schema.
func DateSchema() Schema { return Schema{Kind: SchemaDate} }

// ArraySchema wraps an element schema into an array schema.
func ArraySchema(items Schema) Schema {
	return Schema{Kind: SchemaArray, Items: &items}
}

// ObjectSchema builds an object schema from an ordered property list.
func ObjectSchema(typeName string, props []SchemaProperty) Schema {
	return Schema{Kind: SchemaObject, TypeName: typeName, Properties: props}
}

// EmptyObjectSchema is the fallback used for unresolvable classes (spec.md
// §4.1, scenario S6). Cycle back-references use SentinelSchema instead.
func EmptyObjectSchema() Schema {
	return Schema{Kind: SchemaObject}
}

// SentinelSchema marks a cycle back-reference.
func SentinelSchema(typeName string) Schema {
	return Schema{Kind: SchemaObject, Sentinel: true, TypeName: typeName}
}
