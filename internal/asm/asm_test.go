package asm

import (
	"errors"
	"reflect"
	"testing"

	"github.com/funvibe/stackvm/internal/diagnostics"
	"github.com/funvibe/stackvm/internal/vm"
)

func assemble(t *testing.T, source string) []int64 {
	t.Helper()
	words, err := Assemble(source)
	if err != nil {
		t.Fatalf("assemble error: %s", err)
	}
	return words
}

func diagnosticCode(t *testing.T, err error) string {
	t.Helper()
	var diag *diagnostics.Error
	if !errors.As(err, &diag) {
		t.Fatalf("expected diagnostic error, got %v", err)
	}
	return diag.Code
}

func TestAssembleSimpleProgram(t *testing.T) {
	words := assemble(t, "push 6\npush 4\nadd\nhalt\n")
	expected := []int64{1, 6, 1, 4, 4, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestAllMnemonics(t *testing.T) {
	tests := []struct {
		source   string
		expected []int64
	}{
		{"push 1", []int64{1, 1}},
		{"halt", []int64{3}},
		{"add", []int64{4}},
		{"sub", []int64{5}},
		{"mul", []int64{6}},
		{"div", []int64{7}},
		{"not", []int64{8}},
		{"and", []int64{9}},
		{"or", []int64{10}},
		{"pop", []int64{11}},
		{"dup", []int64{12}},
		{"iseq", []int64{13}},
		{"isgt", []int64{14}},
		{"isge", []int64{15}},
		{"jmp 0", []int64{16, 0}},
		{"jif 0", []int64{17, 0}},
		{"load 2", []int64{18, 2}},
		{"store 2", []int64{19, 2}},
		{"call 0", []int64{20, 0}},
		{"ret", []int64{21}},
		{"prnstk", []int64{22}},
	}
	for _, tt := range tests {
		words := assemble(t, tt.source)
		if !reflect.DeepEqual(words, tt.expected) {
			t.Fatalf("%q: expected %v, got %v", tt.source, tt.expected, words)
		}
	}
}

func TestMnemonicsAreCaseInsensitive(t *testing.T) {
	words := assemble(t, "PUSH 1\nPush 2\nAdd\nHALT\n")
	expected := []int64{1, 1, 1, 2, 4, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestCommentsAndBlankLines(t *testing.T) {
	source := `
;; a whole comment line
push 1

;;another comment, no space after marker
halt
`
	words := assemble(t, source)
	expected := []int64{1, 1, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestWhitespaceTolerance(t *testing.T) {
	words := assemble(t, "   push    7   \n\thalt\t\n")
	expected := []int64{1, 7, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestConstants(t *testing.T) {
	source := `:ANSWER 42
push :ANSWER
halt
`
	words := assemble(t, source)
	expected := []int64{1, 42, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestConstantUsedBeforeDefinition(t *testing.T) {
	// Constant extraction runs over the whole stream before references are
	// substituted, so definition order does not matter.
	source := `push :ANSWER
halt
:ANSWER 42
`
	words := assemble(t, source)
	expected := []int64{1, 42, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestForwardLabelReference(t *testing.T) {
	source := `jmp :end
push 420
:end
halt
`
	words := assemble(t, source)
	// The label binds to the address after jmp+operand+push+operand.
	expected := []int64{16, 4, 1, 420, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestLabelsAreZeroWidth(t *testing.T) {
	source := `:a
:b
push 1
:c
halt
`
	words := assemble(t, source)
	expected := []int64{1, 1, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestDuplicateSymbolLastWins(t *testing.T) {
	source := `:X 1
:X 2
push :X
halt
`
	words := assemble(t, source)
	if words[1] != 2 {
		t.Fatalf("expected last binding to win, got %d", words[1])
	}
}

func TestLabelOverridesConstant(t *testing.T) {
	// Constants and labels share one namespace; the label pass runs after
	// constant extraction, so a label rebinds the name.
	source := `:HERE 99
push :HERE
:HERE
halt
`
	words := assemble(t, source)
	// The label binds to address 2 (after push and its operand).
	if words[1] != 2 {
		t.Fatalf("expected label address 2, got %d", words[1])
	}
}

func TestSymbolNamesAreCaseSensitive(t *testing.T) {
	_, err := Assemble(":x 1\npush :X\nhalt\n")
	if err == nil {
		t.Fatal("expected undeclared symbol error")
	}
	if code := diagnosticCode(t, err); code != "A004" {
		t.Fatalf("expected A004, got %s", code)
	}
}

func TestTrailingTokensAreIgnored(t *testing.T) {
	words := assemble(t, "push 1 the rest is commentary\nhalt\n")
	expected := []int64{1, 1, 3}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
}

func TestNegativeLiterals(t *testing.T) {
	words := assemble(t, "push -42\nhalt\n")
	if words[1] != -42 {
		t.Fatalf("expected -42, got %d", words[1])
	}
}

func TestInvalidMnemonic(t *testing.T) {
	_, err := Assemble("fadd\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := diagnosticCode(t, err); code != "A001" {
		t.Fatalf("expected A001, got %s", code)
	}
}

func TestMissingOperand(t *testing.T) {
	_, err := Assemble("push\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := diagnosticCode(t, err); code != "A002" {
		t.Fatalf("expected A002, got %s", code)
	}
}

func TestNonIntegerConstant(t *testing.T) {
	_, err := Assemble(":NAME oops\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := diagnosticCode(t, err); code != "A003" {
		t.Fatalf("expected A003, got %s", code)
	}
}

func TestNonIntegerOperand(t *testing.T) {
	_, err := Assemble("push oops\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := diagnosticCode(t, err); code != "A003" {
		t.Fatalf("expected A003, got %s", code)
	}
}

func TestUndeclaredSymbol(t *testing.T) {
	_, err := Assemble("jmp :nowhere\nhalt\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := diagnosticCode(t, err); code != "A004" {
		t.Fatalf("expected A004, got %s", code)
	}
}

func TestErrorReportsLine(t *testing.T) {
	_, err := Assemble("push 1\nhalt\nfadd\n")
	var diag *diagnostics.Error
	if !errors.As(err, &diag) {
		t.Fatalf("expected diagnostic error, got %v", err)
	}
	if diag.Line != 3 {
		t.Fatalf("expected line 3, got %d", diag.Line)
	}
}

func TestAssembleFileAttachesName(t *testing.T) {
	_, err := AssembleFile("prog.svm", "fadd\n")
	var diag *diagnostics.Error
	if !errors.As(err, &diag) {
		t.Fatalf("expected diagnostic error, got %v", err)
	}
	if diag.File != "prog.svm" {
		t.Fatalf("expected file name on diagnostic, got %q", diag.File)
	}
}

func TestMaxProgramEndToEnd(t *testing.T) {
	source := `;; max(6, 4) via a two-argument routine
push 6
push 4
call :max
halt

:max
store 1
store 0
load 0
load 1
isge
jif :pick_a
load 1
ret
:pick_a
load 0
ret
`
	words := assemble(t, source)

	m := vm.New()
	m.Load(words)
	if err := m.Run(); err != nil {
		t.Fatalf("run error: %s", err)
	}
	result, err := m.PopResult()
	if err != nil {
		t.Fatalf("pop result: %s", err)
	}
	if result != 6 {
		t.Fatalf("expected 6, got %d", result)
	}
	if m.StackDepth() != 0 {
		t.Fatalf("expected sole stack value consumed, depth %d", m.StackDepth())
	}
}

func TestMultiplyProgramEndToEnd(t *testing.T) {
	source := `;; total = a * b by repeated addition
:a 0
:b 1
:total 2

push 6
store :a
push 4
store :b
push 0
store :total

:loop
load :b
push 1
isge
not
jif :done

load :a
load :total
add
store :total
load :b
push 1
sub
store :b
jmp :loop

:done
halt
`
	words := assemble(t, source)

	m := vm.New()
	m.Load(words)
	if err := m.Run(); err != nil {
		t.Fatalf("run error: %s", err)
	}
	if got := m.Var(2); got != 24 {
		t.Fatalf("expected 24 in the accumulator, got %d", got)
	}
}
