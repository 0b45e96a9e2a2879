package mip

import "fmt"

// IndexedValue pairs one tuple of a variable family with its solved value.
type IndexedValue struct {
	Tuple Tuple
	Value float64
}

// Result is the queryable view over a solved problem, mapping (name,
// tuple) pairs back onto the flat solution vector. It never mutates the
// underlying Solution.
type Result struct {
	problem *Problem
	sol     Solution
}

// Decode builds the queryable view for a solution of p. It fails with
// ErrNoSolution unless the status is optimal, so stale or zero-filled
// vectors are never readable.
func Decode(p *Problem, s Solution) (*Result, error) {
	if !s.IsOptimal() {
		return nil, fmt.Errorf("%w: solver status is %v", ErrNoSolution, s.Status)
	}
	if len(s.X) != p.NumSlots() {
		return nil, fmt.Errorf("mip: solution vector has %d values, problem has %d slots", len(s.X), p.NumSlots())
	}
	return &Result{problem: p, sol: s}, nil
}

// Objective returns the solved objective value.
func (r *Result) Objective() float64 { return r.sol.Objective }

// Value returns the solved value of name[t].
func (r *Result) Value(name string, t Tuple) (float64, error) {
	slot, err := r.problem.Slot(name, t)
	if err != nil {
		return 0, err
	}
	return r.sol.X[slot], nil
}

// Filter returns the (tuple, value) pairs of the named family whose value
// satisfies keep, in the family's enumeration order. Typical use is
// recovering the active arcs of a 0/1 assignment with a threshold
// predicate.
func (r *Result) Filter(name string, keep func(float64) bool) ([]IndexedValue, error) {
	f, ok := r.problem.families[name]
	if !ok {
		return nil, fmt.Errorf("%w: no family named %q", ErrUnknownVariable, name)
	}

	var out []IndexedValue
	for off, t := range f.tuples {
		v := r.sol.X[f.base+off]
		if keep(v) {
			out = append(out, IndexedValue{Tuple: t, Value: v})
		}
	}
	return out, nil
}
