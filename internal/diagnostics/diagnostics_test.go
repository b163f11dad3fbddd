package diagnostics

import "testing"

func TestErrorFormat(t *testing.T) {
	err := NewError("A001", 3, "fadd", "invalid instruction")
	expected := `[A001] line 3: invalid instruction: "fadd"`
	if err.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, err.Error())
	}
}

func TestErrorFormatWithFile(t *testing.T) {
	err := NewError("A004", 7, "end", "reference to undeclared symbol")
	err.File = "prog.svm"
	expected := `[A004] prog.svm:7: reference to undeclared symbol: "end"`
	if err.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, err.Error())
	}
}

func TestErrorFormatWithoutToken(t *testing.T) {
	err := NewError("A005", 1, "", "internal: label definition survived resolution")
	expected := "[A005] line 1: internal: label definition survived resolution"
	if err.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, err.Error())
	}
}
