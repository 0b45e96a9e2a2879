package mip

import "fmt"

// SparseRow is one compiled constraint: nonzero coefficients keyed by
// ascending slot, a relation and a right-hand side.
type SparseRow struct {
	Cols []int
	Vals []float64
	Rel  Relation
	RHS  float64
}

type slotRef struct {
	name  string
	tuple Tuple
}

// Problem is the compiled canonical form handed to a Solver: objective
// vector, ordered constraint rows, per-slot bounds and integrality mask,
// plus the reverse slot mapping needed to decode a solution. A Problem is
// immutable once produced; callers must not modify the returned slices.
type Problem struct {
	obj      []float64
	offset   float64
	maximize bool
	rows     []SparseRow
	lower    []float64
	upper    []float64
	integer  []bool

	refs     []slotRef
	families map[string]*Family
	order    []*Family
}

// NumSlots returns the number of variable slots.
func (p *Problem) NumSlots() int { return len(p.obj) }

// NumRows returns the number of constraint rows.
func (p *Problem) NumRows() int { return len(p.rows) }

// Objective returns the objective coefficient vector, one entry per slot.
func (p *Problem) Objective() []float64 { return p.obj }

// Offset is the constant term of the objective. Solvers report objective
// values including the offset.
func (p *Problem) Offset() float64 { return p.offset }

// IsMaximize reports the objective sense.
func (p *Problem) IsMaximize() bool { return p.maximize }

// Rows returns the constraint rows in declaration order.
func (p *Problem) Rows() []SparseRow { return p.rows }

// LowerBounds returns the per-slot lower bounds.
func (p *Problem) LowerBounds() []float64 { return p.lower }

// UpperBounds returns the per-slot upper bounds.
func (p *Problem) UpperBounds() []float64 { return p.upper }

// Integrality returns the per-slot integrality mask.
func (p *Problem) Integrality() []bool { return p.integer }

// Slot resolves (name, tuple) to its slot in the compiled problem.
func (p *Problem) Slot(name string, t Tuple) (int, error) {
	f, ok := p.families[name]
	if !ok {
		return 0, fmt.Errorf("%w: no family named %q", ErrUnknownVariable, name)
	}
	return f.Slot(t)
}

// SlotRef returns the (name, tuple) pair a slot was allocated for.
func (p *Problem) SlotRef(slot int) (string, Tuple, error) {
	if slot < 0 || slot >= len(p.refs) {
		return "", nil, fmt.Errorf("%w: slot %d out of range", ErrUnknownVariable, slot)
	}
	r := p.refs[slot]
	return r.name, r.tuple, nil
}
