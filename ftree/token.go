// Package ftree reconstructs hierarchical expression trees from flat,
// already-tokenized spreadsheet formulas and renders each tree node into one
// of several canonical textual forms used for corpus-wide structural
// analysis (finding formulas with identical shape despite different literal
// values or cell addresses).
package ftree

// TokenKind classifies one element of a flat formula token sequence.
type TokenKind int

const (
	// TokenUnknown covers tokens the producing grammar recognized but this
	// package has no dedicated category for. They still become leaves.
	TokenUnknown TokenKind = iota
	TokenNumber
	TokenString
	TokenBool
	TokenError
	TokenRef
	TokenRange
	TokenName
	TokenFunc
	TokenParen
	TokenAttrSum
	TokenMem
)

var tokenKindNames = map[TokenKind]string{
	TokenUnknown: "Unknown",
	TokenNumber:  "Number",
	TokenString:  "String",
	TokenBool:    "Bool",
	TokenError:   "Error",
	TokenRef:     "Ref",
	TokenRange:   "Range",
	TokenName:    "Name",
	TokenFunc:    "Func",
	TokenParen:   "Paren",
	TokenAttrSum: "AttrSum",
	TokenMem:     "Mem",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Fixity controls how an operation token places itself around its arguments
// when the tree is rendered back to text.
type Fixity int

const (
	FixCall    Fixity = iota // NAME(a,b,c)
	FixInfix                 // a+b
	FixPrefix                // -a
	FixPostfix               // a%
)

// Axis is one coordinate of a cell address together with its source-level
// relative/absolute declaration. N is 0-based.
type Axis struct {
	N   int
	Rel bool
}

// CellAddr is a full cell address, one Axis per dimension.
type CellAddr struct {
	Row Axis
	Col Axis
}

// Cell is the absolute (row, column) position of the cell a formula
// originates from. 0-based, used only by relative-addressing rendering.
type Cell struct {
	Row int
	Col int
}

// Token is one element of the ordered token sequence produced by a
// Tokenizer. Operand tokens carry their surface text exactly as the grammar
// would print it; operation tokens carry their identity, declared arity and
// fixity; reference and range tokens additionally carry structured address
// data for relative-addressing rendering.
type Token struct {
	Kind   TokenKind
	Text   string
	Name   string
	Arity  int
	Fixity Fixity
	First  CellAddr
	Last   CellAddr
}

// NumberToken returns a numeric literal operand.
func NumberToken(text string) Token {
	return Token{Kind: TokenNumber, Text: text}
}

// StringToken returns a text literal operand. The text is expected to
// include the surrounding quotes, as the grammar prints them.
func StringToken(text string) Token {
	return Token{Kind: TokenString, Text: text}
}

// BoolToken returns a boolean literal operand ("TRUE" or "FALSE").
func BoolToken(text string) Token {
	return Token{Kind: TokenBool, Text: text}
}

// ErrorToken returns an error literal operand such as "#REF!".
func ErrorToken(text string) Token {
	return Token{Kind: TokenError, Text: text}
}

// RefToken returns a single-cell reference operand. text may carry a sheet
// prefix ("Sheet1!B2"); addr holds the structured coordinates.
func RefToken(text string, addr CellAddr) Token {
	return Token{Kind: TokenRef, Text: text, First: addr}
}

// RangeToken returns a contiguous-area reference operand spanning first to
// last.
func RangeToken(text string, first, last CellAddr) Token {
	return Token{Kind: TokenRange, Text: text, First: first, Last: last}
}

// NameToken returns a named-range reference. The builder inlines the name's
// own definition rather than keeping the name as a leaf.
func NameToken(name string) Token {
	return Token{Kind: TokenName, Text: name, Name: name}
}

// FuncToken returns a function application with the given argument count.
func FuncToken(name string, arity int) Token {
	return Token{Kind: TokenFunc, Name: name, Arity: arity, Fixity: FixCall}
}

// OpToken returns an operator application: infix for arity 2, prefix or
// postfix for arity 1, per fix.
func OpToken(sym string, arity int, fix Fixity) Token {
	return Token{Kind: TokenFunc, Name: sym, Arity: arity, Fixity: fix}
}

// ParenToken returns the marker for explicit source parentheses. It creates
// no node of its own; the builder folds it into the preceding node.
func ParenToken() Token {
	return Token{Kind: TokenParen}
}

// SumAttrToken returns the attribute-encoded shorthand for a SUM over a
// single contiguous area.
func SumAttrToken() Token {
	return Token{Kind: TokenAttrSum, Name: "SUM", Arity: 1}
}

// MemToken returns a structural bookkeeping marker. These are emitted by
// the grammar as artifacts with no syntactic representation and must be
// skipped, or they misalign the stack by one position.
func MemToken() Token {
	return Token{Kind: TokenMem}
}

// UnknownToken returns an operand of unrecognized category.
func UnknownToken(text string) Token {
	return Token{Kind: TokenUnknown, Text: text}
}
