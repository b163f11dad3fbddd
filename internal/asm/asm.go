// Package asm compiles the line-oriented assembly language into the flat
// word stream the machine executes. Assembly is two-pass: all constant and
// label bindings are collected before references are substituted, so
// forward references are allowed.
package asm

import (
	"errors"

	"github.com/funvibe/stackvm/internal/diagnostics"
)

// SymbolTable maps symbol names to resolved integer values. Constants and
// code labels share one namespace; defining a name twice rebinds it, last
// definition wins.
type SymbolTable map[string]int64

// Define binds name to value, replacing any earlier binding.
func (st SymbolTable) Define(name string, value int64) {
	st[name] = value
}

// Lookup returns the binding for name.
func (st SymbolTable) Lookup(name string) (int64, bool) {
	value, ok := st[name]
	return value, ok
}

// Assemble compiles source text to an executable word stream. Any error is
// fatal: there is no partial output and no recovery mode.
func Assemble(source string) ([]int64, error) {
	items, err := NewScanner(source).Scan()
	if err != nil {
		return nil, err
	}

	symbols := make(SymbolTable)
	items = extractConstants(items, symbols)
	items = resolveLabelAddresses(items, symbols)
	items, err = substituteReferences(items, symbols)
	if err != nil {
		return nil, err
	}
	return flatten(items)
}

// AssembleFile is Assemble with the file name attached to diagnostics.
func AssembleFile(name, source string) ([]int64, error) {
	words, err := Assemble(source)
	if err != nil {
		var diag *diagnostics.Error
		if errors.As(err, &diag) && diag.File == "" {
			diag.File = name
		}
		return nil, err
	}
	return words, nil
}

// extractConstants removes every constant definition from the stream and
// records its binding. All other items pass through in order.
func extractConstants(items []Item, symbols SymbolTable) []Item {
	rest := items[:0]
	for _, item := range items {
		if item.Kind == ItemConstDef {
			symbols.Define(item.Name, item.Word)
			continue
		}
		rest = append(rest, item)
	}
	return rest
}

// resolveLabelAddresses removes code-label definitions, binding each to the
// address of the next emitted word. Labels are zero-width: only opcode and
// value items advance the address counter.
func resolveLabelAddresses(items []Item, symbols SymbolTable) []Item {
	rest := items[:0]
	var address int64
	for _, item := range items {
		if item.Kind == ItemLabelDef {
			symbols.Define(item.Name, address)
			continue
		}
		address++
		rest = append(rest, item)
	}
	return rest
}

// substituteReferences replaces every label reference with its binding.
// A name with no binding at this point is undeclared and fatal.
func substituteReferences(items []Item, symbols SymbolTable) ([]Item, error) {
	for i, item := range items {
		if item.Kind != ItemLabelRef {
			continue
		}
		value, ok := symbols.Lookup(item.Name)
		if !ok {
			return nil, diagnostics.NewError("A004", item.Line, item.Name, "reference to undeclared symbol")
		}
		items[i] = Item{Kind: ItemValue, Word: value, Line: item.Line}
	}
	return items, nil
}

// flatten emits the final word stream. By now only opcode and value items
// may remain; anything else leaked from an earlier stage and is a defect.
func flatten(items []Item) ([]int64, error) {
	words := make([]int64, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case ItemOpcode, ItemValue:
			words = append(words, item.Word)
		default:
			return nil, diagnostics.NewError("A005", item.Line, item.Name, "internal: %s survived resolution", item.Kind)
		}
	}
	return words, nil
}
