package introspect_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/apisurface/apisurface/internal/classfile"
	"github.com/apisurface/apisurface/internal/introspect"
	"github.com/apisurface/apisurface/internal/model"
)

func TestIntrospectPlatformTypes(t *testing.T) {
	in := introspect.New(newResolver(t, t.TempDir()))

	cases := []struct {
		name string
		kind model.SchemaKind
	}{
		{"java.lang.String", model.SchemaString},
		{"java.util.UUID", model.SchemaString},
		{"int", model.SchemaInteger},
		{"java.lang.Long", model.SchemaInteger},
		{"double", model.SchemaNumber},
		{"boolean", model.SchemaBoolean},
		{"java.util.Date", model.SchemaDate},
		{"java.time.Instant", model.SchemaDate},
	}
	for _, c := range cases {
		got := in.Introspect(model.TypeRef{Name: c.name})
		if got.Kind != c.kind {
			t.Errorf("%s: kind = %v, want %v", c.name, got.Kind, c.kind)
		}
	}
}

func TestIntrospectCollection(t *testing.T) {
	in := introspect.New(newResolver(t, t.TempDir()))
	t1 := model.TypeRef{Name: "java.util.List", Args: []model.TypeRef{{Name: "java.lang.String"}}}
	got := in.Introspect(t1)
	if got.Kind != model.SchemaArray {
		t.Fatalf("kind = %v", got.Kind)
	}
	if got.Items == nil || got.Items.Kind != model.SchemaString {
		t.Fatalf("items = %+v", got.Items)
	}
}

func TestIntrospectEnum(t *testing.T) {
	dir := t.TempDir()
	cp := newCPBuilder()
	writeClass(t, dir, cp, classSpec{
		thisName: "com/example/Color", superName: "java/lang/Enum", accessFlags: classfile.AccPublic | classfile.AccEnum,
	})

	in := introspect.New(newResolver(t, dir))
	got := in.Introspect(model.TypeRef{Name: "com.example.Color"})
	if got.Kind != model.SchemaString {
		t.Fatalf("expected an enum to introspect as string, got %+v", got)
	}
}

func TestIntrospectUnresolvableClass(t *testing.T) {
	in := introspect.New(newResolver(t, t.TempDir()))
	got := in.Introspect(model.TypeRef{Name: "com.example.Missing"})
	if got.Kind != model.SchemaObject || len(got.Properties) != 0 {
		t.Fatalf("expected an empty object fallback, got %+v", got)
	}
}

// TestIntrospectObjectFieldsAndGetters exercises the default PUBLIC_MEMBER
// access mode: a public non-static field is relevant, an XmlTransient field
// is excluded regardless of visibility, and public is-/get- methods are
// relevant getters with normalized property names (spec.md §4.7).
func TestIntrospectObjectFieldsAndGetters(t *testing.T) {
	dir := t.TempDir()
	cp := newCPBuilder()
	writeClass(t, dir, cp, classSpec{
		thisName: "com/example/User", superName: "java/lang/Object", accessFlags: classfile.AccPublic,
		fields: []fieldSpec{
			{name: "name", descriptor: "Ljava/lang/String;", accessFlags: classfile.AccPublic},
			{
				name: "secret", descriptor: "Ljava/lang/String;", accessFlags: classfile.AccPublic,
				annotations: []annotationSpec{{typeDescriptor: "Ljavax/xml/bind/annotation/XmlTransient;"}},
			},
			{name: "internal", descriptor: "I", accessFlags: 0}, // private, not relevant
		},
		methods: []methodSpec{
			{name: "getAge", descriptor: "()I", accessFlags: classfile.AccPublic},
			{name: "isActive", descriptor: "()Z", accessFlags: classfile.AccPublic},
			{name: "getClass", descriptor: "()Ljava/lang/Class;", accessFlags: classfile.AccPublic}, // blacklisted
		},
	})

	in := introspect.New(newResolver(t, dir))
	got := in.Introspect(model.TypeRef{Name: "com.example.User"})
	if got.Kind != model.SchemaObject {
		t.Fatalf("kind = %v", got.Kind)
	}
	var names []string
	for _, p := range got.Properties {
		names = append(names, p.Name)
	}
	want := []string{"name", "age", "active"}
	if len(names) != len(want) {
		t.Fatalf("properties = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("properties = %v, want %v", names, want)
		}
	}
}

// TestIntrospectCycle checks that a self-referencing object graph emits a
// sentinel rather than recursing forever (spec.md §4.7, "Cycle handling").
func TestIntrospectCycle(t *testing.T) {
	dir := t.TempDir()
	cpA := newCPBuilder()
	writeClass(t, dir, cpA, classSpec{
		thisName: "com/example/Node", superName: "java/lang/Object", accessFlags: classfile.AccPublic,
		fields: []fieldSpec{
			{name: "next", descriptor: "Lcom/example/Node;", accessFlags: classfile.AccPublic},
		},
	})

	in := introspect.New(newResolver(t, dir))
	got := in.Introspect(model.TypeRef{Name: "com.example.Node"})
	if got.Kind != model.SchemaObject || len(got.Properties) != 1 {
		t.Fatalf("root schema = %+v", got)
	}
	nextSchema := got.Properties[0].Schema
	if !nextSchema.Sentinel {
		t.Fatalf("expected a sentinel for the cyclic property, got %+v", nextSchema)
	}
	if nextSchema.TypeName != "com.example.Node" {
		t.Fatalf("sentinel type name = %q", nextSchema.TypeName)
	}
}

// TestIntrospectFieldAccessMode checks the FIELD access mode (driven by a
// class-level XmlAccessorType annotation): private, non-transient fields
// become relevant regardless of visibility, a transient field is skipped,
// and an explicit XmlElement annotation forces relevance even on a getter
// that PROPERTY mode would otherwise need (spec.md §4.7).
func TestIntrospectFieldAccessMode(t *testing.T) {
	dir := t.TempDir()
	cp := newCPBuilder()
	writeClass(t, dir, cp, classSpec{
		thisName: "com/example/Account", superName: "java/lang/Object", accessFlags: classfile.AccPublic,
		annotations: []annotationSpec{
			{typeDescriptor: "Ljavax/xml/bind/annotation/XmlAccessorType;", enumValue: "FIELD"},
		},
		fields: []fieldSpec{
			{name: "balance", descriptor: "D", accessFlags: 0},
			{name: "cache", descriptor: "Ljava/lang/String;", accessFlags: classfile.AccTransient},
		},
		methods: []methodSpec{
			// not a field, but annotated XmlElement: relevant even though
			// FIELD mode alone would not make a getter relevant.
			{
				name: "getLabel", descriptor: "()Ljava/lang/String;", accessFlags: classfile.AccPublic,
				annotations: []annotationSpec{{typeDescriptor: "Ljavax/xml/bind/annotation/XmlElement;"}},
			},
		},
	})

	in := introspect.New(newResolver(t, dir))
	got := in.Introspect(model.TypeRef{Name: "com.example.Account"})
	var names []string
	for _, p := range got.Properties {
		names = append(names, p.Name)
	}
	want := []string{"balance", "label"}
	if len(names) != len(want) {
		t.Fatalf("properties = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("properties = %v, want %v", names, want)
		}
	}
}

func newResolver(t *testing.T, dir string) *classfile.Resolver {
	t.Helper()
	r, err := classfile.Open([]string{dir}, nil)
	if err != nil {
		t.Fatalf("opening resolver: %v", err)
	}
	return r
}

// --- minimal hand-rolled class file builder, extended with field support ---

type annotationSpec struct {
	typeDescriptor string
	value          string // single "value" element, string-typed; empty means no element unless enumValue is set
	enumValue      string // when set, encodes "value" as an enum constant instead of a string
}

type fieldSpec struct {
	name, descriptor string
	accessFlags      uint16
	annotations      []annotationSpec
}

type methodSpec struct {
	name, descriptor string
	accessFlags      uint16
	annotations      []annotationSpec
}

type classSpec struct {
	thisName, superName string
	accessFlags          uint16
	annotations          []annotationSpec
	fields               []fieldSpec
	methods              []methodSpec
}

type cpBuilder struct {
	entries [][]byte
	cache   map[string]uint16
}

func newCPBuilder() *cpBuilder { return &cpBuilder{cache: map[string]uint16{}} }

func (b *cpBuilder) add(raw []byte) uint16 {
	b.entries = append(b.entries, raw)
	return uint16(len(b.entries))
}

func (b *cpBuilder) utf8(s string) uint16 {
	if idx, ok := b.cache["utf8:"+s]; ok {
		return idx
	}
	var buf bytes.Buffer
	buf.WriteByte(1)
	binary.Write(&buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
	idx := b.add(buf.Bytes())
	b.cache["utf8:"+s] = idx
	return idx
}

func (b *cpBuilder) class(internalName string) uint16 {
	if idx, ok := b.cache["class:"+internalName]; ok {
		return idx
	}
	nameIdx := b.utf8(internalName)
	var buf bytes.Buffer
	buf.WriteByte(7)
	binary.Write(&buf, binary.BigEndian, nameIdx)
	idx := b.add(buf.Bytes())
	b.cache["class:"+internalName] = idx
	return idx
}

func (b *cpBuilder) bytes() []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint16(len(b.entries)+1))
	for _, e := range b.entries {
		out.Write(e)
	}
	return out.Bytes()
}

func encodeAnnotations(cp *cpBuilder, anns []annotationSpec) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint16(len(anns)))
	for _, a := range anns {
		typeIdx := cp.utf8(a.typeDescriptor)
		binary.Write(&buf, binary.BigEndian, typeIdx)
		switch {
		case a.enumValue != "":
			binary.Write(&buf, binary.BigEndian, uint16(1))
			binary.Write(&buf, binary.BigEndian, cp.utf8("value"))
			buf.WriteByte('e')
			binary.Write(&buf, binary.BigEndian, cp.utf8("Lplaceholder;"))
			binary.Write(&buf, binary.BigEndian, cp.utf8(a.enumValue))
		case a.value != "":
			binary.Write(&buf, binary.BigEndian, uint16(1))
			binary.Write(&buf, binary.BigEndian, cp.utf8("value"))
			buf.WriteByte('s')
			binary.Write(&buf, binary.BigEndian, cp.utf8(a.value))
		default:
			binary.Write(&buf, binary.BigEndian, uint16(0))
		}
	}
	return buf.Bytes()
}

func attribute(cp *cpBuilder, name string, data []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, cp.utf8(name))
	binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func encodeField(cp *cpBuilder, f fieldSpec) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, f.accessFlags)
	binary.Write(&buf, binary.BigEndian, cp.utf8(f.name))
	binary.Write(&buf, binary.BigEndian, cp.utf8(f.descriptor))

	var attrs [][]byte
	if len(f.annotations) > 0 {
		attrs = append(attrs, attribute(cp, "RuntimeVisibleAnnotations", encodeAnnotations(cp, f.annotations)))
	}
	binary.Write(&buf, binary.BigEndian, uint16(len(attrs)))
	for _, a := range attrs {
		buf.Write(a)
	}
	return buf.Bytes()
}

func encodeMethod(cp *cpBuilder, m methodSpec) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, m.accessFlags)
	binary.Write(&buf, binary.BigEndian, cp.utf8(m.name))
	binary.Write(&buf, binary.BigEndian, cp.utf8(m.descriptor))

	var attrs [][]byte
	if len(m.annotations) > 0 {
		attrs = append(attrs, attribute(cp, "RuntimeVisibleAnnotations", encodeAnnotations(cp, m.annotations)))
	}
	binary.Write(&buf, binary.BigEndian, uint16(len(attrs)))
	for _, a := range attrs {
		buf.Write(a)
	}
	return buf.Bytes()
}

func writeClass(t *testing.T, dir string, cp *cpBuilder, spec classSpec) {
	t.Helper()
	thisIdx := cp.class(spec.thisName)
	superIdx := cp.class(spec.superName)

	var fieldBufs [][]byte
	for _, f := range spec.fields {
		fieldBufs = append(fieldBufs, encodeField(cp, f))
	}
	var methodBufs [][]byte
	for _, m := range spec.methods {
		methodBufs = append(methodBufs, encodeMethod(cp, m))
	}
	var classAttrs [][]byte
	if len(spec.annotations) > 0 {
		classAttrs = append(classAttrs, attribute(cp, "RuntimeVisibleAnnotations", encodeAnnotations(cp, spec.annotations)))
	}

	accessFlags := spec.accessFlags
	if accessFlags == 0 {
		accessFlags = classfile.AccPublic
	}

	var body bytes.Buffer
	binary.Write(&body, binary.BigEndian, accessFlags)
	binary.Write(&body, binary.BigEndian, thisIdx)
	binary.Write(&body, binary.BigEndian, superIdx)
	binary.Write(&body, binary.BigEndian, uint16(0)) // interfaces_count
	binary.Write(&body, binary.BigEndian, uint16(len(fieldBufs)))
	for _, fb := range fieldBufs {
		body.Write(fb)
	}
	binary.Write(&body, binary.BigEndian, uint16(len(methodBufs)))
	for _, mb := range methodBufs {
		body.Write(mb)
	}
	binary.Write(&body, binary.BigEndian, uint16(len(classAttrs)))
	for _, a := range classAttrs {
		body.Write(a)
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(&out, binary.BigEndian, uint16(0))  // minor
	binary.Write(&out, binary.BigEndian, uint16(52)) // major
	out.Write(cp.bytes())
	out.Write(body.Bytes())

	path := filepath.Join(dir, filepath.FromSlash(spec.thisName)+".class")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("making class dir: %v", err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("writing class file: %v", err)
	}
}
