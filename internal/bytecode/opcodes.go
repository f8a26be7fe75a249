package bytecode

// category classifies an opcode by which model.OpTag it produces and how
// its operand bytes (if any) must be interpreted.
type category int

const (
	catPush category = iota
	catLoad
	catStore
	catGetStatic
	catGetField
	catNew
	catDup
	catInvokeVirtual // invokevirtual/invokespecial/invokestatic
	catInvokeInterface
	catInvokeDynamic
	catReturn
	catThrow
	catSizeChange // data-stack effect only, value identity not tracked
	catOther      // branches, control flow, misc — stack effect only
	catSpecial    // tableswitch/lookupswitch/wide/iinc/multianewarray
)

// opcodeInfo is one row of the fixed JVM opcode table (JVM spec chapter 6).
// operandLen is the number of bytes following the opcode for fixed-length
// instructions; catSpecial opcodes compute their own length.
type opcodeInfo struct {
	name       string
	operandLen int
	cat        category
	pops       int
	pushes     int
}

var opcodes [256]opcodeInfo

func reg(op byte, name string, operandLen int, cat category, pops, pushes int) {
	opcodes[op] = opcodeInfo{name: name, operandLen: operandLen, cat: cat, pops: pops, pushes: pushes}
}

func init() {
	reg(0x00, "nop", 0, catOther, 0, 0)
	reg(0x01, "aconst_null", 0, catPush, 0, 1)
	for i, name := range []string{"iconst_m1", "iconst_0", "iconst_1", "iconst_2", "iconst_3", "iconst_4", "iconst_5"} {
		reg(byte(0x02+i), name, 0, catPush, 0, 1)
	}
	reg(0x09, "lconst_0", 0, catPush, 0, 1)
	reg(0x0a, "lconst_1", 0, catPush, 0, 1)
	reg(0x0b, "fconst_0", 0, catPush, 0, 1)
	reg(0x0c, "fconst_1", 0, catPush, 0, 1)
	reg(0x0d, "fconst_2", 0, catPush, 0, 1)
	reg(0x0e, "dconst_0", 0, catPush, 0, 1)
	reg(0x0f, "dconst_1", 0, catPush, 0, 1)
	reg(0x10, "bipush", 1, catPush, 0, 1)
	reg(0x11, "sipush", 2, catPush, 0, 1)
	reg(0x12, "ldc", 1, catPush, 0, 1)
	reg(0x13, "ldc_w", 2, catPush, 0, 1)
	reg(0x14, "ldc2_w", 2, catPush, 0, 1)

	loadOps := []string{"iload", "lload", "fload", "dload", "aload"}
	for i, name := range loadOps {
		reg(byte(0x15+i), name, 1, catLoad, 0, 1)
	}
	// iload_0..iload_3, lload_0..lload_3, ... aload_0..aload_3
	for group, base := range []byte{0x1a, 0x1e, 0x22, 0x26, 0x2a} {
		for slot := 0; slot < 4; slot++ {
			reg(base+byte(slot), loadOps[group]+"_"+itoa(slot), 0, catLoad, 0, 1)
		}
	}
	for i, name := range []string{"iaload", "laload", "faload", "daload", "aaload", "baload", "caload", "saload"} {
		reg(byte(0x2e+i), name, 0, catSizeChange, 2, 1)
	}
	storeOps := []string{"istore", "lstore", "fstore", "dstore", "astore"}
	for i, name := range storeOps {
		reg(byte(0x36+i), name, 1, catStore, 1, 0)
	}
	for group, base := range []byte{0x3b, 0x3f, 0x43, 0x47, 0x4b} {
		for slot := 0; slot < 4; slot++ {
			reg(base+byte(slot), storeOps[group]+"_"+itoa(slot), 0, catStore, 1, 0)
		}
	}
	for i, name := range []string{"iastore", "lastore", "fastore", "dastore", "aastore", "bastore", "castore", "sastore"} {
		reg(byte(0x4f+i), name, 0, catSizeChange, 3, 0)
	}
	reg(0x57, "pop", 0, catSizeChange, 1, 0)
	reg(0x58, "pop2", 0, catSizeChange, 2, 0)
	reg(0x59, "dup", 0, catDup, 1, 2)
	reg(0x5a, "dup_x1", 0, catSizeChange, 2, 3)
	reg(0x5b, "dup_x2", 0, catSizeChange, 3, 4)
	reg(0x5c, "dup2", 0, catSizeChange, 2, 4)
	reg(0x5d, "dup2_x1", 0, catSizeChange, 3, 5)
	reg(0x5e, "dup2_x2", 0, catSizeChange, 4, 6)
	reg(0x5f, "swap", 0, catSizeChange, 2, 2)

	arith := []string{"iadd", "ladd", "fadd", "dadd", "isub", "lsub", "fsub", "dsub",
		"imul", "lmul", "fmul", "dmul", "idiv", "ldiv", "fdiv", "ddiv",
		"irem", "lrem", "frem", "drem"}
	for i, name := range arith {
		reg(byte(0x60+i), name, 0, catSizeChange, 2, 1)
	}
	for i, name := range []string{"ineg", "lneg", "fneg", "dneg"} {
		reg(byte(0x74+i), name, 0, catSizeChange, 1, 1)
	}
	for i, name := range []string{"ishl", "lshl", "ishr", "lshr", "iushr", "lushr"} {
		reg(byte(0x78+i), name, 0, catSizeChange, 2, 1)
	}
	for i, name := range []string{"iand", "land", "ior", "lor", "ixor", "lxor"} {
		reg(byte(0x7e+i), name, 0, catSizeChange, 2, 1)
	}
	reg(0x84, "iinc", 2, catSpecial, 0, 0)
	for i, name := range []string{"i2l", "i2f", "i2d", "l2i", "l2f", "l2d", "f2i", "f2l", "f2d", "d2i", "d2l", "d2f", "i2b", "i2c", "i2s"} {
		reg(byte(0x85+i), name, 0, catSizeChange, 1, 1)
	}
	reg(0x94, "lcmp", 0, catSizeChange, 2, 1)
	for i, name := range []string{"fcmpl", "fcmpg", "dcmpl", "dcmpg"} {
		reg(byte(0x95+i), name, 0, catSizeChange, 2, 1)
	}
	ifOps := []string{"ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle"}
	for i, name := range ifOps {
		reg(byte(0x99+i), name, 2, catOther, 1, 0)
	}
	cmpOps := []string{"if_icmpeq", "if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt", "if_icmple", "if_acmpeq", "if_acmpne"}
	for i, name := range cmpOps {
		reg(byte(0x9f+i), name, 2, catOther, 2, 0)
	}
	reg(0xa7, "goto", 2, catOther, 0, 0)
	reg(0xa8, "jsr", 2, catOther, 0, 1)
	reg(0xa9, "ret", 1, catOther, 0, 0)
	reg(0xaa, "tableswitch", -1, catSpecial, 1, 0)
	reg(0xab, "lookupswitch", -1, catSpecial, 1, 0)
	for i, name := range []string{"ireturn", "lreturn", "freturn", "dreturn", "areturn"} {
		reg(byte(0xac+i), name, 0, catReturn, 1, 0)
	}
	reg(0xb1, "return", 0, catReturn, 0, 0)
	reg(0xb2, "getstatic", 2, catGetStatic, 0, 1)
	reg(0xb3, "putstatic", 2, catSizeChange, 1, 0)
	reg(0xb4, "getfield", 2, catGetField, 1, 1)
	reg(0xb5, "putfield", 2, catSizeChange, 2, 0)
	reg(0xb6, "invokevirtual", 2, catInvokeVirtual, 0, 0)
	reg(0xb7, "invokespecial", 2, catInvokeVirtual, 0, 0)
	reg(0xb8, "invokestatic", 2, catInvokeVirtual, 0, 0)
	reg(0xb9, "invokeinterface", 4, catInvokeInterface, 0, 0)
	reg(0xba, "invokedynamic", 4, catInvokeDynamic, 0, 0)
	reg(0xbb, "new", 2, catNew, 0, 1)
	reg(0xbc, "newarray", 1, catSizeChange, 1, 1)
	reg(0xbd, "anewarray", 2, catSizeChange, 1, 1)
	reg(0xbe, "arraylength", 0, catSizeChange, 1, 1)
	reg(0xbf, "athrow", 0, catThrow, 1, 0)
	reg(0xc0, "checkcast", 2, catSizeChange, 1, 1)
	reg(0xc1, "instanceof", 2, catSizeChange, 1, 1)
	reg(0xc2, "monitorenter", 0, catOther, 1, 0)
	reg(0xc3, "monitorexit", 0, catOther, 1, 0)
	reg(0xc4, "wide", -1, catSpecial, 0, 0)
	reg(0xc5, "multianewarray", 3, catSpecial, 0, 1)
	reg(0xc6, "ifnull", 2, catOther, 1, 0)
	reg(0xc7, "ifnonnull", 2, catOther, 1, 0)
	reg(0xc8, "goto_w", 4, catOther, 0, 0)
	reg(0xc9, "jsr_w", 4, catOther, 0, 1)
}

func itoa(i int) string {
	return string(rune('0' + i))
}
