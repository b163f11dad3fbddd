package asm

import (
	"strconv"
	"strings"

	"github.com/funvibe/stackvm/internal/diagnostics"
)

// Source syntax markers.
const (
	labelMarker   = ":"
	commentMarker = ";;"
)

// Scanner turns line-oriented assembly source into the intermediate item
// stream. It is purely lexical: symbols are recognized but not resolved.
type Scanner struct {
	input string
	line  int // current line number, 1-based
}

// NewScanner creates a scanner over source text.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Scan processes every line in order. Blank and comment lines produce no
// items; the first malformed line aborts the scan.
func (s *Scanner) Scan() ([]Item, error) {
	var items []Item
	for _, line := range strings.Split(s.input, "\n") {
		s.line++
		lineItems, err := s.scanLine(line)
		if err != nil {
			return nil, err
		}
		items = append(items, lineItems...)
	}
	return items, nil
}

// scanLine classifies one source line. Tokens beyond what the line's form
// consumes are ignored, which permits trailing commentary after an operand.
func (s *Scanner) scanLine(line string) ([]Item, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	first := fields[0]
	if strings.HasPrefix(first, commentMarker) {
		return nil, nil
	}

	if strings.HasPrefix(first, labelMarker) {
		name := strings.TrimPrefix(first, labelMarker)
		if len(fields) > 1 {
			value, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, diagnostics.NewError("A003", s.line, fields[1], "constant value is not an integer")
			}
			return []Item{{Kind: ItemConstDef, Name: name, Word: value, Line: s.line}}, nil
		}
		// A label with no value marks the next instruction address.
		return []Item{{Kind: ItemLabelDef, Name: name, Line: s.line}}, nil
	}

	op, ok := mnemonics[strings.ToLower(first)]
	if !ok {
		return nil, diagnostics.NewError("A001", s.line, first, "invalid instruction")
	}

	items := []Item{{Kind: ItemOpcode, Word: int64(op), Line: s.line}}
	if !op.HasOperand() {
		return items, nil
	}

	if len(fields) < 2 {
		return nil, diagnostics.NewError("A002", s.line, first, "instruction requires an operand")
	}
	operand, err := s.scanOperand(fields[1])
	if err != nil {
		return nil, err
	}
	return append(items, operand), nil
}

// scanOperand reads an operand token: a label reference or a bare integer.
func (s *Scanner) scanOperand(tok string) (Item, error) {
	if strings.HasPrefix(tok, labelMarker) {
		return Item{Kind: ItemLabelRef, Name: strings.TrimPrefix(tok, labelMarker), Line: s.line}, nil
	}
	value, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Item{}, diagnostics.NewError("A003", s.line, tok, "operand is not an integer")
	}
	return Item{Kind: ItemValue, Word: value, Line: s.line}, nil
}
