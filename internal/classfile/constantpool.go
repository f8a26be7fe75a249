// Package classfile implements the Class Resolver (spec.md §4.1): parsing
// raw JVM .class records out of directories and jar archives, and a
// fully-qualified-name lookup over the resulting search path.
package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Constant pool tag bytes, JVM spec §4.4.
const (
	tagUtf8               = 1
	tagInteger             = 3
	tagFloat               = 4
	tagLong                = 5
	tagDouble              = 6
	tagClass               = 7
	tagString              = 8
	tagFieldref            = 9
	tagMethodref           = 10
	tagInterfaceMethodref  = 11
	tagNameAndType         = 12
	tagMethodHandle        = 15
	tagMethodType          = 16
	tagDynamic             = 17
	tagInvokeDynamic       = 18
	tagModule              = 19
	tagPackage             = 20
)

// cpEntry is one raw constant-pool slot before symbolic resolution.
type cpEntry struct {
	tag               byte
	utf8              string
	intVal            int32
	floatVal          float32
	longVal           int64
	doubleVal         float64
	classNameIdx      uint16
	stringIdx         uint16
	classIdx          uint16
	nameAndTypeIdx    uint16
	nameIdx           uint16
	descriptorIdx     uint16
	refKind           byte
	refIdx            uint16
	bootstrapMethAttr uint16
}

// ConstantPool is the parsed, 1-indexed constant pool (slot 0 unused, and
// Long/Double entries occupy two slots per the JVM spec's historical quirk).
type ConstantPool struct {
	entries []cpEntry
}

func readConstantPool(r io.Reader) (ConstantPool, error) {
	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return ConstantPool{}, fmt.Errorf("reading constant pool count: %w", err)
	}
	cp := ConstantPool{entries: make([]cpEntry, count)}
	for i := uint16(1); i < count; i++ {
		var tag byte
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return cp, fmt.Errorf("reading constant pool tag %d: %w", i, err)
		}
		e := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			var length uint16
			if err := binary.Read(r, binary.BigEndian, &length); err != nil {
				return cp, err
			}
			buf := make([]byte, length)
			if _, err := io.ReadFull(r, buf); err != nil {
				return cp, err
			}
			e.utf8 = decodeModifiedUTF8(buf)
		case tagInteger:
			var v int32
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return cp, err
			}
			e.intVal = v
		case tagFloat:
			var v float32
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return cp, err
			}
			e.floatVal = v
		case tagLong:
			var v int64
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return cp, err
			}
			e.longVal = v
		case tagDouble:
			var v float64
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return cp, err
			}
			e.doubleVal = v
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			if err := binary.Read(r, binary.BigEndian, &e.classNameIdx); err != nil {
				return cp, err
			}
		case tagFieldref, tagMethodref, tagInterfaceMethodref:
			if err := binary.Read(r, binary.BigEndian, &e.classIdx); err != nil {
				return cp, err
			}
			if err := binary.Read(r, binary.BigEndian, &e.nameAndTypeIdx); err != nil {
				return cp, err
			}
		case tagNameAndType:
			if err := binary.Read(r, binary.BigEndian, &e.nameIdx); err != nil {
				return cp, err
			}
			if err := binary.Read(r, binary.BigEndian, &e.descriptorIdx); err != nil {
				return cp, err
			}
		case tagMethodHandle:
			if err := binary.Read(r, binary.BigEndian, &e.refKind); err != nil {
				return cp, err
			}
			if err := binary.Read(r, binary.BigEndian, &e.refIdx); err != nil {
				return cp, err
			}
		case tagDynamic, tagInvokeDynamic:
			if err := binary.Read(r, binary.BigEndian, &e.bootstrapMethAttr); err != nil {
				return cp, err
			}
			if err := binary.Read(r, binary.BigEndian, &e.nameAndTypeIdx); err != nil {
				return cp, err
			}
		default:
			return cp, fmt.Errorf("unrecognized constant pool tag %d at index %d", tag, i)
		}
		cp.entries[i] = e
		if tag == tagLong || tag == tagDouble {
			// Long and Double entries occupy two constant-pool slots.
			i++
		}
	}
	return cp, nil
}

func (cp ConstantPool) at(idx uint16) (cpEntry, bool) {
	if int(idx) >= len(cp.entries) {
		return cpEntry{}, false
	}
	return cp.entries[idx], true
}

// Utf8 resolves a constant-pool index to its UTF-8 string, or "" if absent.
func (cp ConstantPool) Utf8(idx uint16) string {
	e, ok := cp.at(idx)
	if !ok || e.tag != tagUtf8 {
		return ""
	}
	return e.utf8
}

// ClassName resolves a Class constant-pool entry to its internal name
// (slash-separated, e.g. "java/util/List").
func (cp ConstantPool) ClassName(idx uint16) string {
	e, ok := cp.at(idx)
	if !ok || e.tag != tagClass {
		return ""
	}
	return cp.Utf8(e.classNameIdx)
}

// NameAndType resolves a NameAndType constant-pool entry to its name and
// descriptor strings.
func (cp ConstantPool) NameAndType(idx uint16) (name, descriptor string) {
	e, ok := cp.at(idx)
	if !ok || e.tag != tagNameAndType {
		return "", ""
	}
	return cp.Utf8(e.nameIdx), cp.Utf8(e.descriptorIdx)
}

// FieldOrMethodRef resolves a Fieldref/Methodref/InterfaceMethodref entry to
// the owning class's canonical name, the member name, and its descriptor.
// isInterface reports whether the entry was an InterfaceMethodref (the
// interfaceFlag carried alongside INVOKE in spec.md §3).
func (cp ConstantPool) FieldOrMethodRef(idx uint16) (owner, name, descriptor string, isInterface bool, ok bool) {
	e, found := cp.at(idx)
	if !found || (e.tag != tagFieldref && e.tag != tagMethodref && e.tag != tagInterfaceMethodref) {
		return "", "", "", false, false
	}
	owner = CanonicalName(cp.ClassName(e.classIdx))
	name, descriptor = cp.NameAndType(e.nameAndTypeIdx)
	return owner, name, descriptor, e.tag == tagInterfaceMethodref, true
}

// Const resolves an Integer/Float/Long/Double/String/Class constant to a Go
// value suitable for an Element's concrete-value set, along with the JVM
// runtime type name it carries.
func (cp ConstantPool) Const(idx uint16) (value any, typeName string, ok bool) {
	e, found := cp.at(idx)
	if !found {
		return nil, "", false
	}
	switch e.tag {
	case tagInteger:
		return int64(e.intVal), "int", true
	case tagFloat:
		return float64(e.floatVal), "float", true
	case tagLong:
		return e.longVal, "long", true
	case tagDouble:
		return e.doubleVal, "double", true
	case tagString:
		return cp.Utf8(e.classNameIdx), "java.lang.String", true
	case tagClass:
		return CanonicalName(cp.Utf8(e.classNameIdx)), "java.lang.Class", true
	default:
		return nil, "", false
	}
}

// InvokeDynamicRef resolves an InvokeDynamic constant to its bootstrap
// method attribute index and the dynamic call site's name/descriptor.
func (cp ConstantPool) InvokeDynamicRef(idx uint16) (bootstrapIdx uint16, name, descriptor string, ok bool) {
	e, found := cp.at(idx)
	if !found || e.tag != tagInvokeDynamic {
		return 0, "", "", false
	}
	name, descriptor = cp.NameAndType(e.nameAndTypeIdx)
	return e.bootstrapMethAttr, name, descriptor, true
}

// decodeModifiedUTF8 treats the JVM's "modified UTF-8" as plain UTF-8; the
// two encodings differ only for NUL bytes and supplementary characters,
// which do not occur in the identifiers and literals this analyzer reads
// (class/field/method names, annotation string arguments).
func decodeModifiedUTF8(b []byte) string {
	return string(b)
}
