package ftree

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Tokenizer is the token stream adapter boundary: formula text plus a
// sheet index and originating cell in, ordered token sequence or grammar
// error out. The grammar engine itself lives outside this package.
type Tokenizer interface {
	Tokenize(formula string, sheet int, origin Cell) ([]Token, error)
}

// NameResolver supplies the token sequence of a defined name's own
// definition, as produced by the same grammar against the stored text.
type NameResolver interface {
	ResolveName(name string, sheet int) ([]Token, error)
}

// Builder turns token sequences into trees. The rendering mode is fixed
// per Builder, so concurrent builds in different modes use separate
// Builders instead of racing on shared state.
type Builder struct {
	mode  Mode
	tok   Tokenizer
	names NameResolver
	log   *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithTokenizer supplies the token stream adapter used by Build.
func WithTokenizer(t Tokenizer) Option {
	return func(b *Builder) { b.tok = t }
}

// WithNameResolver supplies the resolver consulted for named-range tokens.
func WithNameResolver(r NameResolver) Option {
	return func(b *Builder) { b.names = r }
}

// WithLogger supplies the logger for non-fatal diagnostics such as
// unrecognized leaf categories.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// NewBuilder returns a Builder rendering in the given mode.
func NewBuilder(mode Mode, opts ...Option) *Builder {
	b := &Builder{mode: mode, log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mode returns the rendering mode this Builder constructs nodes in.
func (b *Builder) Mode() Mode {
	return b.mode
}

// ValidateFormulaText applies the pre-tokenization checks: empty formulas
// and quotes directly after a sheet separator are rejected before the
// grammar ever sees them.
func ValidateFormulaText(formula string) error {
	if formula == "" {
		return &EmptyFormulaError{}
	}
	if strings.Contains(formula, "!'") {
		return &IllegalQuotingError{Formula: formula}
	}
	return nil
}

// Build tokenizes formula text and reduces it to a single root node. The
// original text length is propagated through the finished tree.
func (b *Builder) Build(formula string, sheet int, origin Cell) (*Node, error) {
	if err := ValidateFormulaText(formula); err != nil {
		return nil, err
	}
	if b.tok == nil {
		return nil, &GrammarParseError{Formula: formula, Err: errors.New("no tokenizer configured")}
	}

	tokens, err := b.tok.Tokenize(formula, sheet, origin)
	if err != nil {
		return nil, &GrammarParseError{Formula: formula, Err: err}
	}

	root, err := b.BuildTokens(tokens, sheet, origin)
	if err != nil {
		return nil, err
	}
	root.SetOrigLen(len(formula))
	return root, nil
}

// BuildTokens reduces an already-tokenized formula to a single root node
// using an explicit stack: operands push, an operation pops its declared
// arity, parentheses fold into the most recent node, names are inlined by
// recursing over their own token sequence.
func (b *Builder) BuildTokens(tokens []Token, sheet int, origin Cell) (*Node, error) {
	return b.buildTokens(tokens, sheet, origin, map[string]bool{})
}

func (b *Builder) buildTokens(tokens []Token, sheet int, origin Cell, expanding map[string]bool) (*Node, error) {
	stack := make([]*Node, 0, len(tokens))

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenMem:
			// Structural grammar artifacts; consuming them would push the
			// stack off by one.
			continue

		case TokenFunc:
			if tok.Arity < 0 || tok.Arity > len(stack) {
				return nil, &ArityMismatchError{Op: tok.Name, Want: tok.Arity, Have: len(stack)}
			}
			// The stack yields arguments in reverse order.
			args := make([]*Node, tok.Arity)
			for i := tok.Arity - 1; i >= 0; i-- {
				args[i] = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
			node, err := newOperation(tok, args)
			if err != nil {
				return nil, err
			}
			stack = append(stack, node)

		case TokenAttrSum:
			if len(stack) < 1 {
				return nil, &ArityMismatchError{Op: "SUM", Want: 1, Have: 0}
			}
			arg := stack[len(stack)-1]
			stack[len(stack)-1] = newSumOperation(arg)

		case TokenParen:
			if len(stack) < 1 {
				return nil, &UnbalancedFormulaError{Nodes: 0}
			}
			stack[len(stack)-1].Wrap(b.mode)

		case TokenName:
			sub, err := b.expandName(tok, sheet, origin, expanding)
			if err != nil {
				return nil, err
			}
			stack = append(stack, sub)

		default:
			leaf, err := newLeaf(tok, origin, b.mode, b.log)
			if err != nil {
				return nil, err
			}
			stack = append(stack, leaf)
		}
	}

	if len(stack) != 1 {
		return nil, &UnbalancedFormulaError{Nodes: len(stack)}
	}
	return stack[0], nil
}

// expandName inlines a defined name by building a subtree from the name's
// own token sequence. A name re-entered while its expansion is still in
// flight is cyclic and fails instead of recursing forever.
func (b *Builder) expandName(tok Token, sheet int, origin Cell, expanding map[string]bool) (*Node, error) {
	if b.names == nil {
		return nil, &GrammarParseError{Formula: tok.Name, Err: errors.New("no name resolver configured")}
	}
	if expanding[tok.Name] {
		return nil, &CyclicNameError{Name: tok.Name}
	}

	tokens, err := b.names.ResolveName(tok.Name, sheet)
	if err != nil {
		return nil, &GrammarParseError{Formula: tok.Name, Err: err}
	}

	expanding[tok.Name] = true
	defer delete(expanding, tok.Name)
	return b.buildTokens(tokens, sheet, origin, expanding)
}
