package netlist

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned when a mutation targets a scope loaded from a
// library file. Library definitions are shared; edit an instance through
// its hierarchical reference instead so a private copy is made.
var ErrReadOnly = errors.New("netlist is read-only")

// ErrAmbiguousInstruction is returned when a .PARAM line is pushed through
// the generic instruction API. Parameters are unique per name per scope,
// which only SetParameter can guarantee.
var ErrAmbiguousInstruction = errors.New(".PARAM instructions must be added through SetParameter")

// StructuralError reports a malformed netlist tree: a subcircuit without
// its .ENDS terminator, a continuation line with nothing to continue, or
// a scope missing its defining clause.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return "netlist structure: " + e.Msg }

// UnknownPrefixError reports a line whose first character starts no known
// component family, directive, comment or continuation.
type UnknownPrefixError struct {
	Line string
}

func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("component must start with one of %q, got: %q",
		string(knownPrefixes()), e.Line)
}

// GrammarError reports a line that starts with a known prefix but does
// not match that family's pattern. It carries the pattern so a dialect
// mismatch can be diagnosed from the error alone.
type GrammarError struct {
	Line    string
	Pattern string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("line %q does not match the grammar %q", e.Line, e.Pattern)
}

// NotFoundError reports a component or subcircuit reference that resolved
// nowhere: not in the scope, its ancestors, or any included library.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reference %q not found in netlist", e.Ref)
}

// ParamNotFoundError reports a missing .PARAM name.
type ParamNotFoundError struct {
	Name string
}

func (e *ParamNotFoundError) Error() string {
	return fmt.Sprintf("parameter %q not found in netlist", e.Name)
}

// MalformedParamError reports a token in a parameter span that is not a
// key=value pair.
type MalformedParamError struct {
	Token string
	Line  string
}

func (e *MalformedParamError) Error() string {
	return fmt.Sprintf("malformed parameter token %q in line %q", e.Token, e.Line)
}
