package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

const magic = 0xCAFEBABE

// Access flag bits relevant to this analyzer (JVM spec §4.1, §4.5, §4.6).
const (
	AccPublic     = 0x0001
	AccStatic     = 0x0008
	AccFinal      = 0x0010
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccSynthetic  = 0x1000
	AccTransient  = 0x0080 // field-only
	AccEnum       = 0x4000
)

// FieldInfo is one declared field.
type FieldInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Signature   string // from the Signature attribute, "" if absent
	Annotations []Annotation
}

// IsStatic reports whether the field is static.
func (f FieldInfo) IsStatic() bool { return f.AccessFlags&AccStatic != 0 }

// IsTransient reports whether the field is transient.
func (f FieldInfo) IsTransient() bool { return f.AccessFlags&AccTransient != 0 }

// IsPublic reports whether the field is public.
func (f FieldInfo) IsPublic() bool { return f.AccessFlags&AccPublic != 0 }

// MethodInfo is one declared method, with its Code attribute decoded
// separately (C3 consumes Code.Bytes lazily).
type MethodInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Signature   string
	Annotations []Annotation
	// ParameterAnnotations[i] holds the annotations on the i-th formal
	// parameter (RuntimeVisibleParameterAnnotations), used by the
	// extractor (C6) to find @PathParam/@QueryParam/... bindings.
	ParameterAnnotations [][]Annotation
	Code                 *Code
}

// IsStatic reports whether the method is static.
func (m MethodInfo) IsStatic() bool { return m.AccessFlags&AccStatic != 0 }

// IsPublic reports whether the method is public.
func (m MethodInfo) IsPublic() bool { return m.AccessFlags&AccPublic != 0 }

// IsAbstract reports whether the method has no body.
func (m MethodInfo) IsAbstract() bool { return m.AccessFlags&AccAbstract != 0 }

// Code is the decoded Code attribute: raw bytecode plus the frame sizes C5
// needs to size its operand stack and locals table.
type Code struct {
	MaxStack  uint16
	MaxLocals uint16
	Bytes     []byte
}

// Annotation is one parsed runtime-visible annotation: its type descriptor
// (e.g. "Ljavax/ws/rs/Path;") and its element-value pairs.
type Annotation struct {
	TypeDescriptor string
	Values         map[string]ElementValue
}

// SimpleName returns the annotation's unqualified class name, e.g. "Path"
// for "Ljavax/ws/rs/Path;".
func (a Annotation) SimpleName() string {
	name := strings.TrimPrefix(a.TypeDescriptor, "L")
	name = strings.TrimSuffix(name, ";")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// ElementValueKind tags the variant of an annotation element value.
type ElementValueKind int

const (
	EVConst ElementValueKind = iota
	EVEnum
	EVClass
	EVAnnotation
	EVArray
)

// ElementValue is one annotation element's value (JVM spec §4.7.16.1).
type ElementValue struct {
	Kind       ElementValueKind
	Const      any // string, int64, float64, bool depending on the const tag
	EnumType   string
	EnumConst  string
	ClassInfo  string
	Annotation *Annotation
	Array      []ElementValue
}

// Strings flattens an element value into a []string, handling both a single
// string value and an array of strings — the two shapes JAX-RS annotation
// arguments like @Consumes / @Consumes({...}) take.
func (v ElementValue) Strings() []string {
	switch v.Kind {
	case EVConst:
		if s, ok := v.Const.(string); ok {
			return []string{s}
		}
	case EVArray:
		var out []string
		for _, e := range v.Array {
			out = append(out, e.Strings()...)
		}
		return out
	}
	return nil
}

// ClassFile is a fully parsed .class record: the pieces the analyzer needs
// (name, super, interfaces, fields, methods, class-level annotations) —
// line numbers and exception tables are intentionally not retained, per
// spec.md §4.3's "jumps, exception tables, and line numbers are
// intentionally flattened away."
type ClassFile struct {
	MajorVersion uint16
	AccessFlags  uint16
	ThisName     string // internal name, e.g. "com/example/UserResource"
	SuperName    string
	Interfaces   []string
	Fields       []FieldInfo
	Methods      []MethodInfo
	Signature    string
	Annotations  []Annotation

	// ConstantPool is retained on the parsed record so later stages (the
	// instruction decoder, C3) can resolve constant-pool-indexed operands in
	// a method's Code without reparsing the class.
	ConstantPool ConstantPool
}

// IsInterface reports whether this class record is an interface.
func (c *ClassFile) IsInterface() bool { return c.AccessFlags&AccInterface != 0 }

// IsEnum reports whether this class record is an enum.
func (c *ClassFile) IsEnum() bool { return c.AccessFlags&AccEnum != 0 }

// CanonicalName converts the JVM internal name (slash-separated, possibly
// with a trailing array/primitive prefix) to the dotted canonical form this
// analyzer's TypeRef uses, e.g. "com/example/UserResource" ->
// "com.example.UserResource".
func CanonicalName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// Parse reads one .class record from r.
func Parse(r io.Reader) (*ClassFile, error) {
	var m uint32
	if err := binary.Read(r, binary.BigEndian, &m); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("not a class file: bad magic %08x", m)
	}
	var minor, major uint16
	if err := binary.Read(r, binary.BigEndian, &minor); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &major); err != nil {
		return nil, err
	}
	cp, err := readConstantPool(r)
	if err != nil {
		return nil, fmt.Errorf("parsing constant pool: %w", err)
	}

	var accessFlags, thisClass, superClass uint16
	if err := binary.Read(r, binary.BigEndian, &accessFlags); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &thisClass); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &superClass); err != nil {
		return nil, err
	}

	var interfaceCount uint16
	if err := binary.Read(r, binary.BigEndian, &interfaceCount); err != nil {
		return nil, err
	}
	interfaces := make([]string, interfaceCount)
	for i := range interfaces {
		var idx uint16
		if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
			return nil, err
		}
		interfaces[i] = CanonicalName(cp.ClassName(idx))
	}

	cf := &ClassFile{
		MajorVersion: major,
		AccessFlags:  accessFlags,
		ThisName:     CanonicalName(cp.ClassName(thisClass)),
		SuperName:    CanonicalName(cp.ClassName(superClass)),
		Interfaces:   interfaces,
		ConstantPool: cp,
	}

	fields, err := readFieldsOrMethods(r, cp, true)
	if err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}
	cf.Fields = fields.fields

	methods, err := readFieldsOrMethods(r, cp, false)
	if err != nil {
		return nil, fmt.Errorf("parsing methods: %w", err)
	}
	cf.Methods = methods.methods

	classAttrs, err := readAttributes(r, cp)
	if err != nil {
		return nil, fmt.Errorf("parsing class attributes: %w", err)
	}
	for _, a := range classAttrs {
		switch a.name {
		case "Signature":
			cf.Signature = readSignatureAttr(a.data, cp)
		case "RuntimeVisibleAnnotations":
			cf.Annotations, _ = parseAnnotations(a.data, cp)
		}
	}
	return cf, nil
}

type rawAttribute struct {
	name string
	data []byte
}

func readAttributes(r io.Reader, cp ConstantPool) ([]rawAttribute, error) {
	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	out := make([]rawAttribute, 0, count)
	for i := uint16(0); i < count; i++ {
		var nameIdx uint16
		if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
			return nil, err
		}
		var length uint32
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, err
		}
		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
		out = append(out, rawAttribute{name: cp.Utf8(nameIdx), data: data})
	}
	return out, nil
}

func readSignatureAttr(data []byte, cp ConstantPool) string {
	if len(data) < 2 {
		return ""
	}
	idx := binary.BigEndian.Uint16(data)
	return cp.Utf8(idx)
}

type fieldsOrMethods struct {
	fields  []FieldInfo
	methods []MethodInfo
}

func readFieldsOrMethods(r io.Reader, cp ConstantPool, isField bool) (fieldsOrMethods, error) {
	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return fieldsOrMethods{}, err
	}
	var result fieldsOrMethods
	for i := uint16(0); i < count; i++ {
		var accessFlags, nameIdx, descIdx uint16
		if err := binary.Read(r, binary.BigEndian, &accessFlags); err != nil {
			return result, err
		}
		if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
			return result, err
		}
		if err := binary.Read(r, binary.BigEndian, &descIdx); err != nil {
			return result, err
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return result, err
		}
		name := cp.Utf8(nameIdx)
		desc := cp.Utf8(descIdx)
		var signature string
		var annotations []Annotation
		var paramAnnotations [][]Annotation
		var code *Code
		for _, a := range attrs {
			switch a.name {
			case "Signature":
				signature = readSignatureAttr(a.data, cp)
			case "RuntimeVisibleAnnotations":
				annotations, _ = parseAnnotations(a.data, cp)
			case "RuntimeVisibleParameterAnnotations":
				paramAnnotations, _ = parseParameterAnnotations(a.data, cp)
			case "Code":
				code, _ = parseCode(a.data, cp)
			}
		}
		if isField {
			result.fields = append(result.fields, FieldInfo{
				AccessFlags: accessFlags, Name: name, Descriptor: desc,
				Signature: signature, Annotations: annotations,
			})
		} else {
			result.methods = append(result.methods, MethodInfo{
				AccessFlags: accessFlags, Name: name, Descriptor: desc,
				Signature: signature, Annotations: annotations,
				ParameterAnnotations: paramAnnotations, Code: code,
			})
		}
	}
	return result, nil
}

func parseCode(data []byte, cp ConstantPool) (*Code, error) {
	r := bytes.NewReader(data)
	var maxStack, maxLocals uint16
	if err := binary.Read(r, binary.BigEndian, &maxStack); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &maxLocals); err != nil {
		return nil, err
	}
	var codeLen uint32
	if err := binary.Read(r, binary.BigEndian, &codeLen); err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, err
	}
	// Exception table and remaining attributes (LineNumberTable etc.) are
	// intentionally not parsed: spec.md §4.3 flattens them away.
	return &Code{MaxStack: maxStack, MaxLocals: maxLocals, Bytes: code}, nil
}
