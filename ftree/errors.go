package ftree

import "fmt"

// EmptyFormulaError reports a formula that is an empty string. Detected
// before tokenization.
type EmptyFormulaError struct{}

func (e *EmptyFormulaError) Error() string {
	return "formula is an empty string"
}

// IllegalQuotingError reports a formula containing a single quote directly
// after a sheet-reference separator ( !' ), a pattern the grammar is known
// not to parse reliably. Detected before tokenization.
type IllegalQuotingError struct {
	Formula string
}

func (e *IllegalQuotingError) Error() string {
	return fmt.Sprintf("formula contains illegal single quotes: %s", e.Formula)
}

// GrammarParseError wraps a failure reported by the external tokenizer or
// name resolver, including unresolved names.
type GrammarParseError struct {
	Formula string
	Err     error
}

func (e *GrammarParseError) Error() string {
	return fmt.Sprintf("cannot tokenize %q: %v", e.Formula, e.Err)
}

func (e *GrammarParseError) Unwrap() error {
	return e.Err
}

// ArityMismatchError reports that an operation token's declared arity does
// not match the arguments actually available. This signals an internal
// inconsistency in the token stream, not bad user input.
type ArityMismatchError struct {
	Op   string
	Want int
	Have int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("operation %s declares %d arguments, %d available", e.Op, e.Want, e.Have)
}

// UnbalancedFormulaError reports a token sequence that did not reduce to
// exactly one node.
type UnbalancedFormulaError struct {
	Nodes int
}

func (e *UnbalancedFormulaError) Error() string {
	return fmt.Sprintf("token sequence reduced to %d nodes, want 1", e.Nodes)
}

// MalformedRangeError reports a range whose text cannot be split into
// exactly two halves.
type MalformedRangeError struct {
	Text string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("unexpected range construction: %s", e.Text)
}

// CyclicNameError reports a defined name whose definition references
// itself, directly or transitively.
type CyclicNameError struct {
	Name string
}

func (e *CyclicNameError) Error() string {
	return fmt.Sprintf("name %s is defined in terms of itself", e.Name)
}
