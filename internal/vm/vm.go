package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrStackUnderflow     = errors.New("pop from empty operand stack")
	ErrFrameUnderflow     = errors.New("ret with no caller frame")
	ErrOutOfBounds        = errors.New("out of bounds word")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrHalted             = errors.New("instruction executed while halted")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrEmptyProgram       = errors.New("empty program")
)

// VM executes a flat word stream. One instance owns one program run; the
// operand stack, frame stack and instruction pointer are never shared.
// Arithmetic wraps two's-complement at 64 bits. A jump or call to a
// negative or past-end address is not trapped at the jump itself; the next
// fetch fails with ErrOutOfBounds.
type VM struct {
	program []int64
	stack   []int64
	frames  []*Frame
	ip      int64
	halted  bool

	trace bool
	out   io.Writer
}

// New creates a machine with an empty stack and the implicit top-level
// frame. The top-level frame's return address is 0 and is never returned to
// by a balanced program.
func New() *VM {
	return &VM{
		stack:  make([]int64, 0, 64),
		frames: []*Frame{NewFrame(0)},
		out:    os.Stdout,
	}
}

// Load replaces the program. The word stream is not copied; callers must
// not mutate it once Run has been called.
func (m *VM) Load(program []int64) {
	m.program = program
}

// SetOutput redirects prnstk and trace output. Defaults to os.Stdout.
func (m *VM) SetOutput(w io.Writer) {
	m.out = w
}

// SetTrace enables disassembly of each instruction to the output writer
// before it executes.
func (m *VM) SetTrace(on bool) {
	m.trace = on
}

// Halted reports whether the machine has executed halt.
func (m *VM) Halted() bool {
	return m.halted
}

// Run executes the loaded program until halt or the first fatal error.
// A program with no halt and no fault runs forever.
func (m *VM) Run() error {
	if len(m.program) == 0 {
		m.halted = true
		return ErrEmptyProgram
	}

	for !m.halted {
		at := m.ip
		instruction, err := m.fetch()
		if err != nil {
			return err
		}
		if m.trace {
			m.traceInstruction(at, Opcode(instruction))
		}
		if err := m.step(instruction); err != nil {
			return fmt.Errorf("at address %d: %w", at, err)
		}
	}
	return nil
}

// PopResult pops the top of the operand stack, typically the program's
// return value after Run completes.
func (m *VM) PopResult() (int64, error) {
	return m.pop()
}

// StackDepth returns the number of words on the operand stack.
func (m *VM) StackDepth() int {
	return len(m.stack)
}

// Var reads a variable from the current frame, 0 if never stored.
func (m *VM) Var(id int64) int64 {
	return m.currentFrame().Get(id)
}

func (m *VM) currentFrame() *Frame {
	// The frame stack is never empty: ret refuses to pop the last frame.
	return m.frames[len(m.frames)-1]
}

func (m *VM) push(val int64) {
	m.stack = append(m.stack, val)
}

func (m *VM) pop() (int64, error) {
	if len(m.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	val := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return val, nil
}

// fetch reads the word at the instruction pointer and advances it.
func (m *VM) fetch() (int64, error) {
	if m.ip < 0 || m.ip >= int64(len(m.program)) {
		return 0, fmt.Errorf("%w: address %d, program length %d", ErrOutOfBounds, m.ip, len(m.program))
	}
	word := m.program[m.ip]
	m.ip++
	return word, nil
}

func (m *VM) traceInstruction(at int64, op Opcode) {
	if op.HasOperand() && at+1 < int64(len(m.program)) {
		fmt.Fprintf(m.out, "%04d %s %d\n", at, op.Name(), m.program[at+1])
		return
	}
	fmt.Fprintf(m.out, "%04d %s\n", at, op.Name())
}
