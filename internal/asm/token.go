package asm

// ItemKind classifies one element of the scanned token stream.
type ItemKind int

const (
	ItemOpcode   ItemKind = iota // resolved instruction word
	ItemValue                    // integer literal, emitted as one word
	ItemConstDef                 // :NAME <int> definition line
	ItemLabelDef                 // :NAME code label line
	ItemLabelRef                 // :NAME used as an operand
)

// Item is one element of the intermediate stream between scanning and the
// final flat word stream. Definition and label items are zero-width: they
// never survive to the emitted program.
type Item struct {
	Kind ItemKind
	Word int64  // opcode or literal value
	Name string // symbol name for ItemConstDef, ItemLabelDef, ItemLabelRef
	Line int    // source line, 1-based
}

func (k ItemKind) String() string {
	switch k {
	case ItemOpcode:
		return "opcode"
	case ItemValue:
		return "value"
	case ItemConstDef:
		return "constant definition"
	case ItemLabelDef:
		return "label definition"
	case ItemLabelRef:
		return "label reference"
	}
	return "unknown"
}
