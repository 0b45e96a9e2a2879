// Package mip is a modeling layer for mixed-integer linear programs.
//
// Callers declare named variable families indexed over cartesian-product
// index sets, build linear expressions and quantified constraint families
// over them, and compile the whole model into a canonical sparse problem
// (objective vector, constraint rows, bounds, integrality mask) that any
// Solver implementation can consume. The flat solution vector coming back
// from the solver is decoded into a queryable mapping from (variable name,
// index tuple) to value.
//
// The ilp subpackage ships a pure-Go branch-and-bound solver implementing
// the Solver contract, but the modeling layer works with any backend
// honoring it.
package mip
