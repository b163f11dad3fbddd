// Package vm implements the word-stream stack machine.
package vm

// Opcode is a program word interpreted as an instruction. Opcode values are
// part of the bytecode format and must never be renumbered.
type Opcode int64

const (
	OP_PUSH   Opcode = 1  // Push immediate operand
	OP_HALT   Opcode = 3  // Stop execution
	OP_ADD    Opcode = 4  // left + right
	OP_SUB    Opcode = 5  // left - right
	OP_MUL    Opcode = 6  // left * right
	OP_DIV    Opcode = 7  // left / right (integer division)
	OP_NOT    Opcode = 8  // Logical negation of top of stack
	OP_AND    Opcode = 9  // Logical and (nonzero is true)
	OP_OR     Opcode = 10 // Logical or
	OP_POP    Opcode = 11 // Discard top of stack
	OP_DUP    Opcode = 12 // Duplicate top of stack
	OP_ISEQ   Opcode = 13 // left == right
	OP_ISGT   Opcode = 14 // left > right
	OP_ISGE   Opcode = 15 // left >= right
	OP_JMP    Opcode = 16 // Unconditional jump to absolute address
	OP_JIF    Opcode = 17 // Pop condition, jump if nonzero
	OP_LOAD   Opcode = 18 // Push frame variable (0 if never stored)
	OP_STORE  Opcode = 19 // Pop into frame variable
	OP_CALL   Opcode = 20 // Push frame, jump to absolute address
	OP_RET    Opcode = 21 // Pop frame, resume at its return address
	OP_PRNSTK Opcode = 22 // Print current frame and stack (diagnostic)
)

// Truth values pushed by comparison and logic opcodes.
const (
	valTrue  int64 = 1
	valFalse int64 = 0
)

// HasOperand reports whether the opcode consumes one immediate operand word.
func (op Opcode) HasOperand() bool {
	switch op {
	case OP_PUSH, OP_JMP, OP_JIF, OP_LOAD, OP_STORE, OP_CALL:
		return true
	}
	return false
}

// Name returns the assembler mnemonic for the opcode, or "???" for an
// unknown value.
func (op Opcode) Name() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "???"
}

var opcodeNames = map[Opcode]string{
	OP_PUSH:   "push",
	OP_HALT:   "halt",
	OP_ADD:    "add",
	OP_SUB:    "sub",
	OP_MUL:    "mul",
	OP_DIV:    "div",
	OP_NOT:    "not",
	OP_AND:    "and",
	OP_OR:     "or",
	OP_POP:    "pop",
	OP_DUP:    "dup",
	OP_ISEQ:   "iseq",
	OP_ISGT:   "isgt",
	OP_ISGE:   "isge",
	OP_JMP:    "jmp",
	OP_JIF:    "jif",
	OP_LOAD:   "load",
	OP_STORE:  "store",
	OP_CALL:   "call",
	OP_RET:    "ret",
	OP_PRNSTK: "prnstk",
}
