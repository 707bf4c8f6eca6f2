package ftree

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Mode selects the canonical text a node produces at construction time.
// The mode is threaded explicitly through every construction call; nodes
// built earlier are unaffected by builds in a different mode.
type Mode int

const (
	// ModeVerbatim reproduces the operator's own surface syntax with its
	// arguments substituted in, leaves rendered exactly as the grammar
	// would print them.
	ModeVerbatim Mode = iota

	// ModeGeneralized replaces every leaf with a fixed per-category marker
	// so formulas differing only in literals or addresses collapse to the
	// same canonical text.
	ModeGeneralized

	// ModeRelative renders each reference axis as a signed offset from the
	// originating cell when the axis was declared relative, mirroring how
	// a spreadsheet treats a formula copied between cells.
	ModeRelative
)

var modeNames = map[Mode]string{
	ModeVerbatim:    "verbatim",
	ModeGeneralized: "generalized",
	ModeRelative:    "relative",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name from configuration to its Mode value.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeVerbatim, fmt.Errorf("unknown rendering mode %q", s)
}

// NodeKind distinguishes the two node variants.
type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindOperation
)

// Category classifies a leaf. Operations have CatNone.
type Category int

const (
	CatNone Category = iota
	CatRef
	CatRange
	CatNumber
	CatString
	CatBool
	CatError
	CatOther
)

// Generalized-mode markers, one per leaf category.
const (
	MarkRef   = "~REF~"
	MarkRange = "~RANGE~"
	MarkNum   = "~NUM~"
	MarkStr   = "~STR~"
	MarkBool  = "~BOOL~"
	MarkError = "~ERROR~"
	MarkOther = "~OTHER~"
)

var categoryMarks = map[Category]string{
	CatRef:    MarkRef,
	CatRange:  MarkRange,
	CatNumber: MarkNum,
	CatString: MarkStr,
	CatBool:   MarkBool,
	CatError:  MarkError,
	CatOther:  MarkOther,
}

// Node is one element of a built formula tree: either a Leaf wrapping a
// single irreducible token, or an Operation owning its argument subtrees.
// A tree is built once per formula and not mutated afterwards, except for
// the one-time original-length propagation and the in-place
// re-stringification performed by Wrap during the same construction pass.
type Node struct {
	kind     NodeKind
	category Category
	text     string
	simple   string
	raw      string
	children []*Node
	origin   Cell
	origLen  int
	wrapped  bool
}

func newLeaf(tok Token, origin Cell, mode Mode, log *zap.Logger) (*Node, error) {
	n := &Node{
		kind:     KindLeaf,
		category: leafCategory(tok.Kind),
		raw:      tok.Text,
		origin:   origin,
		origLen:  math.MaxInt,
	}

	switch mode {
	case ModeGeneralized:
		n.text = categoryMarks[n.category]
		if n.category == CatOther {
			// Kept permissive: unknown categories are worth a look but
			// must not sink a whole corpus batch.
			log.Warn("unrecognized leaf category",
				zap.String("text", tok.Text),
				zap.String("kind", tok.Kind.String()))
		}
	case ModeRelative:
		text, err := relativeLeafText(tok, origin)
		if err != nil {
			return nil, err
		}
		n.text = text
	default:
		n.text = tok.Text
	}

	n.simple = n.text
	return n, nil
}

func leafCategory(k TokenKind) Category {
	switch k {
	case TokenRef:
		return CatRef
	case TokenRange:
		return CatRange
	case TokenNumber:
		return CatNumber
	case TokenString:
		return CatString
	case TokenBool:
		return CatBool
	case TokenError:
		return CatError
	default:
		return CatOther
	}
}

func newOperation(tok Token, args []*Node) (*Node, error) {
	if tok.Arity != len(args) {
		return nil, &ArityMismatchError{Op: tok.Name, Want: tok.Arity, Have: len(args)}
	}

	texts := make([]string, len(args))
	for i, a := range args {
		texts[i] = a.text
	}

	return &Node{
		kind:     KindOperation,
		text:     renderOperation(tok, texts),
		simple:   simpleOperation(tok),
		children: args,
		origLen:  math.MaxInt,
	}, nil
}

// newSumOperation builds the attribute-encoded single-area SUM. Its
// canonical identity is hard-coded rather than derived from argument
// placeholders.
func newSumOperation(arg *Node) *Node {
	return &Node{
		kind:     KindOperation,
		text:     "SUM(" + arg.text + ")",
		simple:   "SUM()",
		children: []*Node{arg},
		origLen:  math.MaxInt,
	}
}

func renderOperation(tok Token, args []string) string {
	switch tok.Fixity {
	case FixInfix:
		return args[0] + tok.Name + args[1]
	case FixPrefix:
		return tok.Name + args[0]
	case FixPostfix:
		return args[0] + tok.Name
	default:
		return tok.Name + "(" + strings.Join(args, ",") + ")"
	}
}

// simpleOperation is the operation's identity with all argument information
// elided: "IF()" for functions, the bare symbol for operators.
func simpleOperation(tok Token) string {
	if tok.Fixity == FixCall {
		return tok.Name + "()"
	}
	return tok.Name
}

// Kind reports the node variant.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Category reports a leaf's category, CatNone for operations.
func (n *Node) Category() Category {
	if n.kind != KindLeaf {
		return CatNone
	}
	return n.category
}

// Text returns the node's full canonical text in the mode it was built
// under, including arguments.
func (n *Node) Text() string {
	return n.text
}

// Simple returns the node's canonical text with all argument information
// elided. For leaves this equals Text.
func (n *Node) Simple() string {
	return n.simple
}

// Raw returns a leaf's original surface text regardless of rendering mode.
func (n *Node) Raw() string {
	return n.raw
}

// Children returns the node's owned argument subtrees in first-to-last
// order. Leaves have none.
func (n *Node) Children() []*Node {
	return n.children
}

// Origin returns the originating cell carried by a leaf.
func (n *Node) Origin() Cell {
	return n.origin
}

// Wrap folds one layer of explicit source parentheses into the node's own
// rendering instead of adding tree depth. Each call appends exactly one
// layer. A bare leaf is not re-parenthesized in generalized mode; the
// marker already stands for the whole operand.
func (n *Node) Wrap(mode Mode) string {
	if n.kind == KindOperation || mode != ModeGeneralized {
		n.text = "(" + n.text + ")"
		n.wrapped = true
	}
	return n.text
}

// Wrapped reports whether Wrap has re-parenthesized this node.
func (n *Node) Wrapped() bool {
	return n.wrapped
}

// SetOrigLen records the character length of the original formula text on
// this node and every node below it. The length describes the formula that
// produced the whole tree, not the node's own subtree; it exists so a
// caller can later pick the shortest example formula exhibiting a given
// canonical shape.
func (n *Node) SetOrigLen(origLen int) {
	n.origLen = origLen
	for _, c := range n.children {
		c.SetOrigLen(origLen)
	}
}

// OrigLen returns the propagated original formula length, or math.MaxInt
// if it was never set.
func (n *Node) OrigLen() int {
	return n.origLen
}

// TreeString renders the hierarchy as an indented list, one line per node
// in pre-order. Each line carries its depth and a depth-proportional
// indent; operations print their simple form.
func (n *Node) TreeString() string {
	var sb strings.Builder
	n.treeString(&sb, 0)
	return sb.String()
}

func (n *Node) treeString(sb *strings.Builder, depth int) {
	fmt.Fprintf(sb, "%d.", depth)
	sb.WriteString(strings.Repeat("....", depth))
	if n.kind == KindOperation {
		sb.WriteString(n.simple)
	} else {
		sb.WriteString(n.text)
	}
	sb.WriteByte('\n')

	for _, c := range n.children {
		c.treeString(sb, depth+1)
	}
}

// SameOperator reports whether two nodes have the same shape identity:
// equal simple forms, arguments ignored. This is the equality used for
// corpus grouping.
func SameOperator(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.simple == b.simple
}
