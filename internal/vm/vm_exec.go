package vm

import (
	"fmt"
	"math"
)

// step dispatches a single fetched word as an instruction. The instruction
// pointer already points past the opcode; opcodes with an immediate operand
// advance it one more word.
func (m *VM) step(instruction int64) error {
	if m.halted {
		return ErrHalted
	}

	switch Opcode(instruction) {
	case OP_HALT:
		m.halted = true

	case OP_PUSH:
		operand, err := m.fetch()
		if err != nil {
			return err
		}
		m.push(operand)

	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_AND, OP_OR, OP_ISEQ, OP_ISGT, OP_ISGE:
		val, err := m.binaryOp(Opcode(instruction))
		if err != nil {
			return err
		}
		m.push(val)

	case OP_NOT:
		val, err := m.pop()
		if err != nil {
			return err
		}
		if val != 0 {
			m.push(valFalse)
		} else {
			m.push(valTrue)
		}

	case OP_POP:
		if _, err := m.pop(); err != nil {
			return err
		}

	case OP_DUP:
		val, err := m.pop()
		if err != nil {
			return err
		}
		m.push(val)
		m.push(val)

	case OP_JMP:
		target, err := m.fetch()
		if err != nil {
			return err
		}
		m.ip = target

	case OP_JIF:
		cond, err := m.pop()
		if err != nil {
			return err
		}
		target, err := m.fetch()
		if err != nil {
			return err
		}
		if cond != 0 {
			m.ip = target
		}

	case OP_LOAD:
		id, err := m.fetch()
		if err != nil {
			return err
		}
		m.push(m.currentFrame().Get(id))

	case OP_STORE:
		id, err := m.fetch()
		if err != nil {
			return err
		}
		val, err := m.pop()
		if err != nil {
			return err
		}
		m.currentFrame().Set(id, val)

	case OP_CALL:
		target, err := m.fetch()
		if err != nil {
			return err
		}
		// Return address is the word after the call and its operand.
		m.frames = append(m.frames, NewFrame(m.ip))
		m.ip = target

	case OP_RET:
		if len(m.frames) <= 1 {
			return ErrFrameUnderflow
		}
		frame := m.frames[len(m.frames)-1]
		m.frames = m.frames[:len(m.frames)-1]
		m.ip = frame.ReturnAddr()

	case OP_PRNSTK:
		fmt.Fprintln(m.out, m.currentFrame().String())
		fmt.Fprintln(m.out, m.stack)

	default:
		return fmt.Errorf("%w: %d", ErrInvalidInstruction, instruction)
	}

	return nil
}

// binaryOp pops right then left and applies the operation. Wrapping on
// overflow is the machine's documented arithmetic behavior.
func (m *VM) binaryOp(op Opcode) (int64, error) {
	right, err := m.pop()
	if err != nil {
		return 0, err
	}
	left, err := m.pop()
	if err != nil {
		return 0, err
	}

	switch op {
	case OP_ADD:
		return left + right, nil
	case OP_SUB:
		return left - right, nil
	case OP_MUL:
		return left * right, nil
	case OP_DIV:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		if left == math.MinInt64 && right == -1 {
			// Quotient overflows; wraps like the other arithmetic ops.
			return math.MinInt64, nil
		}
		return left / right, nil
	case OP_ISEQ:
		return boolWord(left == right), nil
	case OP_ISGT:
		return boolWord(left > right), nil
	case OP_ISGE:
		return boolWord(left >= right), nil
	case OP_AND:
		return boolWord(left != 0 && right != 0), nil
	case OP_OR:
		return boolWord(left != 0 || right != 0), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidInstruction, int64(op))
}

func boolWord(b bool) int64 {
	if b {
		return valTrue
	}
	return valFalse
}
