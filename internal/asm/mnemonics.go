package asm

import "github.com/funvibe/stackvm/internal/vm"

// mnemonics maps lower-cased instruction names to opcodes. Matching is
// case-insensitive; whether a mnemonic takes an operand comes from the
// opcode itself.
var mnemonics = map[string]vm.Opcode{
	"push":   vm.OP_PUSH,
	"halt":   vm.OP_HALT,
	"add":    vm.OP_ADD,
	"sub":    vm.OP_SUB,
	"mul":    vm.OP_MUL,
	"div":    vm.OP_DIV,
	"not":    vm.OP_NOT,
	"and":    vm.OP_AND,
	"or":     vm.OP_OR,
	"pop":    vm.OP_POP,
	"dup":    vm.OP_DUP,
	"iseq":   vm.OP_ISEQ,
	"isgt":   vm.OP_ISGT,
	"isge":   vm.OP_ISGE,
	"jmp":    vm.OP_JMP,
	"jif":    vm.OP_JIF,
	"load":   vm.OP_LOAD,
	"store":  vm.OP_STORE,
	"call":   vm.OP_CALL,
	"ret":    vm.OP_RET,
	"prnstk": vm.OP_PRNSTK,
}
