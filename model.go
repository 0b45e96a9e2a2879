package mip

import (
	"fmt"
	"sort"

	"github.com/milplab/mip/logger"
)

// Model accumulates variable families, constraints and an objective during
// the modeling phase, then compiles them into an immutable Problem. A
// model is not safe for concurrent mutation; distinct models are fully
// independent.
type Model struct {
	reg  *registry
	cons []Constraint
	obj  *objective
}

type objective struct {
	expr     Expr
	maximize bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{reg: newRegistry()}
}

// Declare registers a variable family over the given index set, allocating
// one slot per tuple in enumeration order. The name must be unique within
// the model. Nil bound functions default to [0, +inf); Binary families
// ignore the supplied bounds and are fixed to [0, 1].
func (m *Model) Declare(name string, set Set, typ VarType, lb, ub BoundFunc) (*Family, error) {
	return m.reg.declare(name, set, typ, lb, ub)
}

// Binary declares a binary family over the set.
func (m *Model) Binary(name string, set Set) (*Family, error) {
	return m.reg.declare(name, set, Binary, nil, nil)
}

// Integer declares an integer family with the given bounds.
func (m *Model) Integer(name string, set Set, lb, ub BoundFunc) (*Family, error) {
	return m.reg.declare(name, set, Integer, lb, ub)
}

// Continuous declares a continuous family with the given bounds.
func (m *Model) Continuous(name string, set Set, lb, ub BoundFunc) (*Family, error) {
	return m.reg.declare(name, set, Continuous, lb, ub)
}

// Slot resolves (name, tuple) to its global slot.
func (m *Model) Slot(name string, t Tuple) (int, error) {
	return m.reg.slot(name, t)
}

// NumSlots returns the number of slots allocated so far.
func (m *Model) NumSlots() int { return m.reg.nslots }

// Subject appends all rows of the given constraint sets, preserving the
// order of the sets and, within each, the enumeration order of its index
// set.
func (m *Model) Subject(sets ...ConstraintSet) {
	for _, cs := range sets {
		m.cons = append(m.cons, cs.rows...)
	}
}

// SubjectTo appends individual constraints.
func (m *Model) SubjectTo(cons ...Constraint) {
	m.cons = append(m.cons, cons...)
}

// Minimize sets the objective to minimize e, replacing any previous
// objective.
func (m *Model) Minimize(e Expr) {
	m.obj = &objective{expr: e}
}

// Maximize sets the objective to maximize e, replacing any previous
// objective.
func (m *Model) Maximize(e Expr) {
	m.obj = &objective{expr: e, maximize: true}
}

// Compile resolves every expression term to a global slot and emits the
// canonical problem. Compilation is all-or-nothing: on error no Problem is
// produced. A model without an objective fails with ErrEmptyObjective; a
// term referencing an undeclared (name, tuple) pair fails with
// ErrUnresolvedReference.
func (m *Model) Compile() (*Problem, error) {
	if m.obj == nil {
		return nil, ErrEmptyObjective
	}

	n := m.reg.nslots

	c := make([]float64, n)
	for r, t := range m.obj.expr.terms {
		slot, err := m.reg.slot(r.name, t.tuple)
		if err != nil {
			return nil, fmt.Errorf("objective: %s%s: %w", r.name, t.tuple, ErrUnresolvedReference)
		}
		c[slot] += t.coef
	}

	rows := make([]SparseRow, 0, len(m.cons))
	for i, con := range m.cons {
		row, err := m.compileRow(con)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	// per-slot bounds, integrality and reverse references, in slot order
	lower := make([]float64, 0, n)
	upper := make([]float64, 0, n)
	integer := make([]bool, 0, n)
	refs := make([]slotRef, 0, n)
	families := make(map[string]*Family, len(m.reg.families))
	order := make([]*Family, len(m.reg.order))
	copy(order, m.reg.order)
	for _, f := range order {
		families[f.name] = f
		isInt := f.typ != Continuous
		for off, t := range f.tuples {
			lower = append(lower, f.lower[off])
			upper = append(upper, f.upper[off])
			integer = append(integer, isInt)
			refs = append(refs, slotRef{name: f.name, tuple: t})
		}
	}

	p := &Problem{
		obj:      c,
		offset:   m.obj.expr.constant,
		maximize: m.obj.maximize,
		rows:     rows,
		lower:    lower,
		upper:    upper,
		integer:  integer,
		refs:     refs,
		families: families,
		order:    order,
	}

	lg := logger.With("mip")
	lg.Debug().
		Int("slots", p.NumSlots()).
		Int("rows", p.NumRows()).
		Bool("maximize", p.IsMaximize()).
		Msg("compiled model")

	return p, nil
}

// compileRow resolves one constraint to a sparse row with ascending column
// order. A constant on the left-hand side folds into the right-hand side.
func (m *Model) compileRow(con Constraint) (SparseRow, error) {
	coefs := make(map[int]float64, len(con.Expr.terms))
	for r, t := range con.Expr.terms {
		slot, err := m.reg.slot(r.name, t.tuple)
		if err != nil {
			return SparseRow{}, fmt.Errorf("%s%s: %w", r.name, t.tuple, ErrUnresolvedReference)
		}
		coefs[slot] += t.coef
	}

	cols := make([]int, 0, len(coefs))
	for slot, v := range coefs {
		if v != 0 {
			cols = append(cols, slot)
		}
	}
	sort.Ints(cols)

	vals := make([]float64, len(cols))
	for i, slot := range cols {
		vals[i] = coefs[slot]
	}

	return SparseRow{
		Cols: cols,
		Vals: vals,
		Rel:  con.Rel,
		RHS:  con.RHS - con.Expr.constant,
	}, nil
}
