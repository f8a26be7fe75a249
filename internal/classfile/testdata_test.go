package classfile

import (
	"bytes"
	"encoding/binary"
)

// buildMinimalClass constructs the smallest well-formed .class byte stream
// for a public class named thisName extending superName with no fields,
// methods, or interfaces. It exists purely to drive this package's tests
// without depending on an external javac toolchain.
func buildMinimalClass(thisName, superName string) []byte {
	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.BigEndian, v) }

	w(uint32(magic))
	w(uint16(0)) // minor
	w(uint16(52)) // major (Java 8)

	// Constant pool: #1 Utf8 thisName, #2 Class #1, #3 Utf8 superName, #4 Class #3
	w(uint16(5)) // count = max index + 1
	w(byte(tagUtf8))
	w(uint16(len(thisName)))
	buf.WriteString(thisName)
	w(byte(tagClass))
	w(uint16(1))
	w(byte(tagUtf8))
	w(uint16(len(superName)))
	buf.WriteString(superName)
	w(byte(tagClass))
	w(uint16(3))

	w(uint16(AccPublic)) // access_flags
	w(uint16(2))         // this_class
	w(uint16(4))         // super_class
	w(uint16(0))         // interfaces_count
	w(uint16(0))         // fields_count
	w(uint16(0))         // methods_count
	w(uint16(0))         // attributes_count

	return buf.Bytes()
}
