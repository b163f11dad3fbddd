package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a word stream. Words that
// follow an operand-taking opcode are printed as that opcode's operand;
// everything else is decoded as an instruction. An unknown opcode value is
// listed as data so a listing is produced for any input.
func Disassemble(program []int64, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	offset := 0
	for offset < len(program) {
		offset = disassembleInstruction(&sb, program, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, program []int64, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))

	op := Opcode(program[offset])
	if _, known := opcodeNames[op]; !known {
		sb.WriteString(fmt.Sprintf("DATA %d\n", program[offset]))
		return offset + 1
	}

	if op.HasOperand() {
		if offset+1 >= len(program) {
			// Truncated stream: opcode with its operand cut off.
			sb.WriteString(fmt.Sprintf("%-6s <truncated>\n", strings.ToUpper(op.Name())))
			return offset + 1
		}
		sb.WriteString(fmt.Sprintf("%-6s %d\n", strings.ToUpper(op.Name()), program[offset+1]))
		return offset + 2
	}

	sb.WriteString(strings.ToUpper(op.Name()))
	sb.WriteString("\n")
	return offset + 1
}
