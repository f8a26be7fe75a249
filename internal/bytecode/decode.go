// Package bytecode implements the Instruction Decoder (C3, spec.md §4.3):
// turning a method's raw Code bytes into a normalized, stack-effect-tagged
// instruction stream in program order. Jumps, exception tables and line
// numbers are intentionally flattened away — this package performs a linear
// sweep, not a basic-block worklist.
package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/apisurface/apisurface/internal/classfile"
	"github.com/apisurface/apisurface/internal/model"
)

// DecodeError reports a single instruction that failed to decode. Per
// spec.md §4.3/§7, a decode failure degrades that one instruction to OTHER
// with inferred pops/pushes if available; it does not abort the method.
type DecodeError struct {
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at offset %d: %s", e.Offset, e.Msg)
}

// Decode turns raw method bytecode into a normalized instruction list.
// Decode never fails outright: unparseable bytes at an offset degrade that
// single instruction to OpOther and decoding continues, matching spec.md
// §4.3/§7's "this instruction degrades... the simulation continues." An
// unknown opcode resumes at the next byte; an instruction whose operands
// fail to decode resumes past its operand bytes. degraded reports every
// offset that needed degrading, for the caller to log.
func Decode(code []byte, cp classfile.ConstantPool) (instrs []model.Instruction, degraded []int) {
	pos := 0
	for pos < len(code) {
		start := pos
		op := code[pos]
		pos++
		info := opcodes[op]
		if info.name == "" && info.cat != catSpecial {
			// Unknown opcode: degrade to OTHER and advance by one byte so
			// forward progress is guaranteed even on corrupt input.
			instrs = append(instrs, model.Instruction{Tag: model.OpOther, Pops: 0, Pushes: 0})
			degraded = append(degraded, start)
			continue
		}
		instr, newPos, err := decodeOne(op, info, code, pos, cp)
		if err != nil {
			instrs = append(instrs, model.Instruction{Tag: model.OpOther, Pops: info.pops, Pushes: info.pushes})
			degraded = append(degraded, start)
			if newPos <= pos {
				newPos = pos + maxInt(info.operandLen, 0)
			}
			pos = newPos
			continue
		}
		instrs = append(instrs, instr)
		pos = newPos
	}
	return instrs, degraded
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func decodeOne(op byte, info opcodeInfo, code []byte, pos int, cp classfile.ConstantPool) (model.Instruction, int, error) {
	switch info.cat {
	case catPush:
		return decodePush(op, info, code, pos, cp)
	case catLoad:
		return decodeLoadStore(op, info, code, pos, true)
	case catStore:
		return decodeLoadStore(op, info, code, pos, false)
	case catGetStatic, catGetField:
		return decodeFieldAccess(info, code, pos, cp)
	case catNew:
		return decodeNew(code, pos, cp)
	case catDup:
		return model.Instruction{Tag: model.OpDup, Pops: info.pops, Pushes: info.pushes}, pos, nil
	case catInvokeVirtual:
		return decodeInvoke(code, pos, cp, 2, false, op == 0xb8)
	case catInvokeInterface:
		return decodeInvoke(code, pos, cp, 4, true, false)
	case catInvokeDynamic:
		return decodeInvokeDynamic(code, pos, cp)
	case catReturn:
		return model.Instruction{Tag: model.OpReturn, Pops: info.pops, Pushes: info.pushes}, pos, nil
	case catThrow:
		return model.Instruction{Tag: model.OpThrow, Pops: info.pops, Pushes: info.pushes}, pos, nil
	case catSizeChange:
		if pos+info.operandLen > len(code) {
			return model.Instruction{}, pos, fmt.Errorf("truncated operand for %s", info.name)
		}
		return model.Instruction{Tag: model.OpSizeChange, Pops: info.pops, Pushes: info.pushes}, pos + info.operandLen, nil
	case catSpecial:
		return decodeSpecial(op, code, pos)
	default: // catOther
		if pos+info.operandLen > len(code) {
			return model.Instruction{}, pos, fmt.Errorf("truncated operand for %s", info.name)
		}
		return model.Instruction{Tag: model.OpOther, Pops: info.pops, Pushes: info.pushes}, pos + info.operandLen, nil
	}
}

func need(code []byte, pos, n int) error {
	if pos+n > len(code) {
		return fmt.Errorf("truncated operand: need %d bytes at %d, have %d", n, pos, len(code)-pos)
	}
	return nil
}

func decodePush(op byte, info opcodeInfo, code []byte, pos int, cp classfile.ConstantPool) (model.Instruction, int, error) {
	switch op {
	case 0x01: // aconst_null
		return model.Instruction{Tag: model.OpPush, Constant: nil, ConstType: model.TypeRef{Name: "null"}}, pos, nil
	case 0x10: // bipush
		if err := need(code, pos, 1); err != nil {
			return model.Instruction{}, pos, err
		}
		v := int64(int8(code[pos]))
		return model.Instruction{Tag: model.OpPush, Constant: v, ConstType: model.TypeRef{Name: "int"}}, pos + 1, nil
	case 0x11: // sipush
		if err := need(code, pos, 2); err != nil {
			return model.Instruction{}, pos, err
		}
		v := int64(int16(binary.BigEndian.Uint16(code[pos:])))
		return model.Instruction{Tag: model.OpPush, Constant: v, ConstType: model.TypeRef{Name: "int"}}, pos + 2, nil
	case 0x12: // ldc
		if err := need(code, pos, 1); err != nil {
			return model.Instruction{}, pos, err
		}
		idx := uint16(code[pos])
		return pushConst(cp, idx, pos+1)
	case 0x13, 0x14: // ldc_w, ldc2_w
		if err := need(code, pos, 2); err != nil {
			return model.Instruction{}, pos, err
		}
		idx := binary.BigEndian.Uint16(code[pos:])
		return pushConst(cp, idx, pos+2)
	default: // iconst_*, lconst_*, fconst_*, dconst_*
		v, t := constForOpcode(op)
		return model.Instruction{Tag: model.OpPush, Constant: v, ConstType: t}, pos, nil
	}
}

func pushConst(cp classfile.ConstantPool, idx uint16, newPos int) (model.Instruction, int, error) {
	v, typeName, ok := cp.Const(idx)
	if !ok {
		return model.Instruction{}, newPos, fmt.Errorf("ldc: constant pool index %d is not a loadable constant", idx)
	}
	return model.Instruction{Tag: model.OpPush, Constant: v, ConstType: model.TypeRef{Name: typeName}}, newPos, nil
}

func constForOpcode(op byte) (any, model.TypeRef) {
	switch {
	case op >= 0x02 && op <= 0x08: // iconst_m1 .. iconst_5
		return int64(op) - 0x03, model.TypeRef{Name: "int"}
	case op == 0x09:
		return int64(0), model.TypeRef{Name: "long"}
	case op == 0x0a:
		return int64(1), model.TypeRef{Name: "long"}
	case op == 0x0b:
		return float64(0), model.TypeRef{Name: "float"}
	case op == 0x0c:
		return float64(1), model.TypeRef{Name: "float"}
	case op == 0x0d:
		return float64(2), model.TypeRef{Name: "float"}
	case op == 0x0e:
		return float64(0), model.TypeRef{Name: "double"}
	case op == 0x0f:
		return float64(1), model.TypeRef{Name: "double"}
	default:
		return nil, model.TypeRef{}
	}
}

func decodeLoadStore(op byte, info opcodeInfo, code []byte, pos int, isLoad bool) (model.Instruction, int, error) {
	tag := model.OpStore
	if isLoad {
		tag = model.OpLoad
	}
	declared := declaredLocalType(op)
	if info.operandLen == 0 {
		// One of the *_0.._3 shorthand forms: slot is implicit in the name's
		// trailing digit, which we recover from the opcode's position in its
		// 4-wide block (iload_0 starts the block).
		return model.Instruction{Tag: tag, Slot: implicitSlot(op, isLoad), DeclaredType: declared}, pos, nil
	}
	if err := need(code, pos, 1); err != nil {
		return model.Instruction{}, pos, err
	}
	return model.Instruction{Tag: tag, Slot: int(code[pos]), DeclaredType: declared}, pos + 1, nil
}

// declaredLocalType infers a LOAD/STORE instruction's declared local-slot
// type from the opcode itself: the JVM encodes the slot's primitive
// category (int/long/float/double/reference) directly in which of the
// iload/lload/fload/dload/aload families was used, covering both the
// explicit-index and _0.._3 shorthand forms.
func declaredLocalType(op byte) model.TypeRef {
	switch {
	case op == 0x15 || inRange(op, 0x1a, 0x1d) || op == 0x36 || inRange(op, 0x3b, 0x3e):
		return model.TypeRef{Name: "int"}
	case op == 0x16 || inRange(op, 0x1e, 0x21) || op == 0x37 || inRange(op, 0x3f, 0x42):
		return model.TypeRef{Name: "long"}
	case op == 0x17 || inRange(op, 0x22, 0x25) || op == 0x38 || inRange(op, 0x43, 0x46):
		return model.TypeRef{Name: "float"}
	case op == 0x18 || inRange(op, 0x26, 0x29) || op == 0x39 || inRange(op, 0x47, 0x4a):
		return model.TypeRef{Name: "double"}
	default: // aload/astore family: reference type, concrete class unknown here
		return model.Object
	}
}

func inRange(op, lo, hi byte) bool { return op >= lo && op <= hi }

func implicitSlot(op byte, isLoad bool) int {
	var bases []byte
	if isLoad {
		bases = []byte{0x1a, 0x1e, 0x22, 0x26, 0x2a}
	} else {
		bases = []byte{0x3b, 0x3f, 0x43, 0x47, 0x4b}
	}
	for _, b := range bases {
		if op >= b && op < b+4 {
			return int(op - b)
		}
	}
	return 0
}

func decodeFieldAccess(info opcodeInfo, code []byte, pos int, cp classfile.ConstantPool) (model.Instruction, int, error) {
	if err := need(code, pos, 2); err != nil {
		return model.Instruction{}, pos, err
	}
	idx := binary.BigEndian.Uint16(code[pos:])
	owner, name, descriptor, _, ok := cp.FieldOrMethodRef(idx)
	if !ok {
		return model.Instruction{}, pos, fmt.Errorf("field reference at constant pool index %d not found", idx)
	}
	tag := model.OpGetField
	if info.cat == catGetStatic {
		tag = model.OpGetStatic
	}
	instr := model.Instruction{Tag: tag, Owner: owner, FieldName: name, FieldType: fieldTypeFromDescriptor(descriptor)}
	if tag == model.OpGetStatic {
		if v, _, ok := cp.Const(idx); ok {
			instr.StaticValue, instr.HasStaticValue = v, true
		}
	}
	return instr, pos + 2, nil
}

func decodeNew(code []byte, pos int, cp classfile.ConstantPool) (model.Instruction, int, error) {
	if err := need(code, pos, 2); err != nil {
		return model.Instruction{}, pos, err
	}
	idx := binary.BigEndian.Uint16(code[pos:])
	name := cp.ClassName(idx)
	if name == "" {
		return model.Instruction{}, pos, fmt.Errorf("new: class constant at index %d not found", idx)
	}
	return model.Instruction{Tag: model.OpNew, NewType: model.TypeRef{Name: classfile.CanonicalName(name)}}, pos + 2, nil
}

func decodeInvoke(code []byte, pos int, cp classfile.ConstantPool, operandLen int, isInterface, isStatic bool) (model.Instruction, int, error) {
	if err := need(code, pos, operandLen); err != nil {
		return model.Instruction{}, pos, err
	}
	idx := binary.BigEndian.Uint16(code[pos:])
	owner, name, descriptor, ifaceFlag, ok := cp.FieldOrMethodRef(idx)
	if !ok {
		return model.Instruction{}, pos, fmt.Errorf("method reference at constant pool index %d not found", idx)
	}
	params, ret, err := decodeMethodDescriptorSimple(descriptor)
	if err != nil {
		return model.Instruction{}, pos, err
	}
	id := model.MethodIdentifier{Owner: owner, Name: name, Params: params, Return: ret, IsStatic: isStatic}
	return model.Instruction{Tag: model.OpInvoke, Method: id, InterfaceCall: isInterface || ifaceFlag}, pos + operandLen, nil
}

func decodeInvokeDynamic(code []byte, pos int, cp classfile.ConstantPool) (model.Instruction, int, error) {
	if err := need(code, pos, 4); err != nil {
		return model.Instruction{}, pos, err
	}
	idx := binary.BigEndian.Uint16(code[pos:])
	bootstrapIdx, name, descriptor, ok := cp.InvokeDynamicRef(idx)
	if !ok {
		return model.Instruction{}, pos, fmt.Errorf("invokedynamic: constant pool index %d not found", idx)
	}
	params, ret, err := decodeMethodDescriptorSimple(descriptor)
	if err != nil {
		return model.Instruction{}, pos, err
	}
	id := model.MethodIdentifier{Name: name, Params: params, Return: ret}
	return model.Instruction{
		Tag: model.OpInvokeDynamic, Bootstrap: fmt.Sprintf("bootstrap#%d", bootstrapIdx), Dynamic: id,
	}, pos + 4, nil
}

func decodeSpecial(op byte, code []byte, pos int) (model.Instruction, int, error) {
	switch op {
	case 0x84: // iinc
		if err := need(code, pos, 2); err != nil {
			return model.Instruction{}, pos, err
		}
		return model.Instruction{Tag: model.OpOther, Slot: int(code[pos]), Pops: 0, Pushes: 0}, pos + 2, nil
	case 0xaa: // tableswitch
		return decodeTableSwitch(code, pos)
	case 0xab: // lookupswitch
		return decodeLookupSwitch(code, pos)
	case 0xc4: // wide
		return decodeWide(code, pos)
	case 0xc5: // multianewarray
		if err := need(code, pos, 3); err != nil {
			return model.Instruction{}, pos, err
		}
		dims := int(code[pos+2])
		return model.Instruction{Tag: model.OpSizeChange, Pops: dims, Pushes: 1}, pos + 3, nil
	default:
		return model.Instruction{}, pos, fmt.Errorf("unhandled special opcode 0x%02x", op)
	}
}

func alignedPadding(instrStart int) int {
	// tableswitch/lookupswitch pad to the next 4-byte boundary measured from
	// the start of the method's bytecode (i.e. from the opcode byte itself).
	return (4 - (instrStart+1)%4) % 4
}

func decodeTableSwitch(code []byte, pos int) (model.Instruction, int, error) {
	opcodePos := pos - 1
	pad := alignedPadding(opcodePos)
	pos += pad
	if err := need(code, pos, 12); err != nil {
		return model.Instruction{}, pos, err
	}
	low := int32(binary.BigEndian.Uint32(code[pos+4:]))
	high := int32(binary.BigEndian.Uint32(code[pos+8:]))
	pos += 12
	count := int(high-low) + 1
	if count < 0 {
		return model.Instruction{}, pos, fmt.Errorf("tableswitch: invalid range [%d,%d]", low, high)
	}
	if err := need(code, pos, count*4); err != nil {
		return model.Instruction{}, pos, err
	}
	pos += count * 4
	return model.Instruction{Tag: model.OpOther, Pops: 1, Pushes: 0}, pos, nil
}

func decodeLookupSwitch(code []byte, pos int) (model.Instruction, int, error) {
	opcodePos := pos - 1
	pad := alignedPadding(opcodePos)
	pos += pad
	if err := need(code, pos, 8); err != nil {
		return model.Instruction{}, pos, err
	}
	npairs := int(binary.BigEndian.Uint32(code[pos+4:]))
	pos += 8
	if npairs < 0 {
		return model.Instruction{}, pos, fmt.Errorf("lookupswitch: invalid npairs %d", npairs)
	}
	if err := need(code, pos, npairs*8); err != nil {
		return model.Instruction{}, pos, err
	}
	pos += npairs * 8
	return model.Instruction{Tag: model.OpOther, Pops: 1, Pushes: 0}, pos, nil
}

func decodeWide(code []byte, pos int) (model.Instruction, int, error) {
	if err := need(code, pos, 1); err != nil {
		return model.Instruction{}, pos, err
	}
	modified := code[pos]
	pos++
	if modified == 0x84 { // wide iinc
		if err := need(code, pos, 4); err != nil {
			return model.Instruction{}, pos, err
		}
		slot := int(binary.BigEndian.Uint16(code[pos:]))
		return model.Instruction{Tag: model.OpOther, Slot: slot}, pos + 4, nil
	}
	if err := need(code, pos, 2); err != nil {
		return model.Instruction{}, pos, err
	}
	slot := int(binary.BigEndian.Uint16(code[pos:]))
	info := opcodes[modified]
	tag := model.OpLoad
	if info.cat == catStore {
		tag = model.OpStore
	}
	return model.Instruction{Tag: tag, Slot: slot}, pos + 2, nil
}

// decodeMethodDescriptorSimple decodes a bare method descriptor without
// generics, used for INVOKE/INVOKE_DYNAMIC operands (the Signature
// Decoder's generic-signature path is reserved for declared field/method
// types, not call-site descriptors). Field and method descriptor grammar is
// identical in shape, so this reimplements just enough of it locally rather
// than calling into the signature package.
func decodeMethodDescriptorSimple(desc string) (params []model.TypeRef, ret model.TypeRef, err error) {
	i := 0
	if i >= len(desc) || desc[i] != '(' {
		return nil, model.TypeRef{}, fmt.Errorf("malformed method descriptor %q", desc)
	}
	i++
	for i < len(desc) && desc[i] != ')' {
		t, next, err := parseFieldType(desc, i)
		if err != nil {
			return nil, model.TypeRef{}, err
		}
		params = append(params, t)
		i = next
	}
	if i >= len(desc) {
		return nil, model.TypeRef{}, fmt.Errorf("malformed method descriptor %q: unterminated parameter list", desc)
	}
	i++ // consume ')'
	if i < len(desc) && desc[i] == 'V' {
		return params, model.Void, nil
	}
	ret, _, err = parseFieldType(desc, i)
	return params, ret, err
}

func fieldTypeFromDescriptor(desc string) model.TypeRef {
	t, _, err := parseFieldType(desc, 0)
	if err != nil {
		return model.Object
	}
	return t
}

var primitiveDescriptors = map[byte]string{
	'B': "byte", 'C': "char", 'D': "double", 'F': "float",
	'I': "int", 'J': "long", 'S': "short", 'Z': "boolean",
}

func parseFieldType(desc string, i int) (model.TypeRef, int, error) {
	if i >= len(desc) {
		return model.TypeRef{}, i, fmt.Errorf("malformed descriptor %q: expected a type at %d", desc, i)
	}
	switch desc[i] {
	case 'L':
		end := i + 1
		for end < len(desc) && desc[end] != ';' {
			end++
		}
		if end >= len(desc) {
			return model.TypeRef{}, end, fmt.Errorf("malformed descriptor %q: unterminated class type", desc)
		}
		return model.TypeRef{Name: classfile.CanonicalName(desc[i+1 : end])}, end + 1, nil
	case '[':
		inner, next, err := parseFieldType(desc, i+1)
		if err != nil {
			return model.TypeRef{}, next, err
		}
		return model.TypeRef{Name: "[" + inner.Name, Args: inner.Args}, next, nil
	default:
		if name, ok := primitiveDescriptors[desc[i]]; ok {
			return model.TypeRef{Name: name}, i + 1, nil
		}
		return model.TypeRef{}, i, fmt.Errorf("malformed descriptor %q: unrecognized tag %q", desc, desc[i])
	}
}
