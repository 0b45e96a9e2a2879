package mip

import "errors"

// Sentinel errors for structural modeling mistakes. These surface at
// declaration, lookup or compile time and are matched with errors.Is;
// callers should treat them as programming errors, not runtime conditions.
var (
	// ErrDuplicateVariable is returned when a variable family is declared
	// under a name that is already taken in the same model.
	ErrDuplicateVariable = errors.New("mip: variable family already declared")

	// ErrUnknownVariable is returned by slot and value lookups when the
	// name was never declared or the tuple lies outside the family's
	// index set.
	ErrUnknownVariable = errors.New("mip: unknown variable")

	// ErrUnresolvedReference is returned by Compile when an expression
	// term references a (name, tuple) pair that was never declared.
	ErrUnresolvedReference = errors.New("mip: expression references undeclared variable")

	// ErrEmptyObjective is returned by Compile when no objective was set.
	ErrEmptyObjective = errors.New("mip: model has no objective")

	// ErrNoSolution is returned by Decode and by Result queries when the
	// solver did not report an optimal solution.
	ErrNoSolution = errors.New("mip: no solution available")
)
