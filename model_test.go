package mip

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a simple minimization with one inequality and no integrality constraints
func TestCompile_Canonical(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 4)), nil, nil)
	require.NoError(t, err)

	m.SubjectTo(
		C(Term(1, "x", T(1)), Equal, 5),
		C(Term(3, "x", T(2)), Equal, 2),
		C(Term(1, "x", T(3)), Equal, 2),
		C(Term(1, "x", T(4)), LessEq, 2),
	)
	m.Minimize(Sum(
		Term(-1, "x", T(1)),
		Term(-2, "x", T(2)),
		Term(1, "x", T(3)),
		Term(3, "x", T(4)),
	))

	p, err := m.Compile()
	require.NoError(t, err)

	assert.Equal(t, []float64{-1, -2, 1, 3}, p.Objective())
	assert.False(t, p.IsMaximize())

	wantRows := []SparseRow{
		{Cols: []int{0}, Vals: []float64{1}, Rel: Equal, RHS: 5},
		{Cols: []int{1}, Vals: []float64{3}, Rel: Equal, RHS: 2},
		{Cols: []int{2}, Vals: []float64{1}, Rel: Equal, RHS: 2},
		{Cols: []int{3}, Vals: []float64{1}, Rel: LessEq, RHS: 2},
	}
	if diff := cmp.Diff(wantRows, p.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []float64{0, 0, 0, 0}, p.LowerBounds())
	for _, ub := range p.UpperBounds() {
		assert.True(t, math.IsInf(ub, 1))
	}
	assert.Equal(t, []bool{false, false, false, false}, p.Integrality())
}

func TestCompile_MultiTermRowsAreSortedByColumn(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 3)), nil, nil)
	require.NoError(t, err)

	// terms deliberately added in reverse column order
	m.SubjectTo(C(Sum(
		Term(2, "x", T(3)),
		Term(1, "x", T(1)),
	), GreaterEq, 4))
	m.Minimize(Term(1, "x", T(1)))

	p, err := m.Compile()
	require.NoError(t, err)

	want := []SparseRow{
		{Cols: []int{0, 2}, Vals: []float64{1, 2}, Rel: GreaterEq, RHS: 4},
	}
	if diff := cmp.Diff(want, p.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_ConstantFoldsIntoRHS(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 1)), nil, nil)
	require.NoError(t, err)

	m.SubjectTo(C(Term(1, "x", T(1)).Plus(Constant(3)), LessEq, 10))
	m.Minimize(Term(1, "x", T(1)).Plus(Constant(2)))

	p, err := m.Compile()
	require.NoError(t, err)

	assert.Equal(t, 7.0, p.Rows()[0].RHS)
	assert.Equal(t, 2.0, p.Offset())
}

func TestCompile_ZeroCoefficientsDropped(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 2)), nil, nil)
	require.NoError(t, err)

	// x1 cancels out entirely
	lhs := Term(1, "x", T(1)).Plus(Term(-1, "x", T(1))).Plus(Term(2, "x", T(2)))
	m.SubjectTo(C(lhs, LessEq, 1))
	m.Minimize(Term(1, "x", T(2)))

	p, err := m.Compile()
	require.NoError(t, err)

	assert.Equal(t, []int{1}, p.Rows()[0].Cols)
	assert.Equal(t, []float64{2}, p.Rows()[0].Vals)
}

func TestCompile_EmptyObjective(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 2)), nil, nil)
	require.NoError(t, err)

	_, err = m.Compile()
	assert.ErrorIs(t, err, ErrEmptyObjective)
}

func TestCompile_UnresolvedReferenceInConstraint(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 2)), nil, nil)
	require.NoError(t, err)

	m.SubjectTo(C(Term(1, "y", T(1)), Equal, 1))
	m.Minimize(Term(1, "x", T(1)))

	p, err := m.Compile()
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Nil(t, p)
}

func TestCompile_UnresolvedReferenceInObjective(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 2)), nil, nil)
	require.NoError(t, err)

	// tuple outside the declared index set
	m.Minimize(Term(1, "x", T(7)))

	p, err := m.Compile()
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Nil(t, p)
}

func TestCompile_EmptyConstraintSetYieldsNoRows(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 2)), nil, nil)
	require.NoError(t, err)

	empty := ForEach(Product(Range(1, 2)).Filter(func(Tuple) bool { return false }),
		func(tup Tuple) Constraint {
			return C(Term(1, "x", tup), Equal, 1)
		})
	m.Subject(empty)
	m.Minimize(Term(1, "x", T(1)))

	p, err := m.Compile()
	require.NoError(t, err)
	assert.Equal(t, 0, p.NumRows())
}

func TestDeclare_DuplicateName(t *testing.T) {
	m := NewModel()
	_, err := m.Binary("x", Product(Range(1, 2)))
	require.NoError(t, err)

	_, err = m.Binary("x", Product(Range(1, 3)))
	assert.ErrorIs(t, err, ErrDuplicateVariable)
}

func TestDeclare_BinaryForcesUnitBounds(t *testing.T) {
	m := NewModel()
	// caller-supplied bounds are ignored for binary families
	_, err := m.Declare("x", Product(Range(1, 2)), Binary, Const(-5), Const(5))
	require.NoError(t, err)
	m.Minimize(Term(1, "x", T(1)))

	p, err := m.Compile()
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, p.LowerBounds())
	assert.Equal(t, []float64{1, 1}, p.UpperBounds())
	assert.Equal(t, []bool{true, true}, p.Integrality())
}

func TestDeclare_IndexDependentBounds(t *testing.T) {
	m := NewModel()
	_, err := m.Integer("u", Product(Range(1, 3)),
		func(tup Tuple) float64 { return float64(tup.At(0)) },
		func(tup Tuple) float64 { return float64(tup.At(0) * 10) },
	)
	require.NoError(t, err)
	m.Minimize(Term(1, "u", T(1)))

	p, err := m.Compile()
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, p.LowerBounds())
	assert.Equal(t, []float64{10, 20, 30}, p.UpperBounds())
}

func TestSlot_UnknownVariable(t *testing.T) {
	m := NewModel()
	_, err := m.Binary("x", Product(Range(1, 2), Range(1, 2)))
	require.NoError(t, err)

	_, err = m.Slot("nope", T(1, 1))
	assert.ErrorIs(t, err, ErrUnknownVariable)

	_, err = m.Slot("x", T(9, 9))
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestSlotAssignment_Bijection(t *testing.T) {
	m := NewModel()
	offDiagonal := func(tup Tuple) bool { return tup.At(0) != tup.At(1) }
	_, err := m.Binary("x", Product(Range(1, 4), Range(1, 4)).Filter(offDiagonal))
	require.NoError(t, err)
	_, err = m.Integer("u", Product(Range(2, 4)), Const(2), Const(4))
	require.NoError(t, err)
	m.Minimize(Term(1, "x", T(1, 2)))

	p, err := m.Compile()
	require.NoError(t, err)
	require.Equal(t, 15, p.NumSlots())

	// every slot decodes to a distinct pair, and the pair maps back to
	// the same slot
	seen := make(map[string]bool)
	for slot := 0; slot < p.NumSlots(); slot++ {
		name, tup, err := p.SlotRef(slot)
		require.NoError(t, err)

		id := name + tup.String()
		assert.False(t, seen[id], "slot %d decodes to already-seen %s", slot, id)
		seen[id] = true

		back, err := p.Slot(name, tup)
		require.NoError(t, err)
		assert.Equal(t, slot, back)
	}

	_, _, err = p.SlotRef(15)
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestSlotAllocation_ContiguousBlocksInDeclarationOrder(t *testing.T) {
	m := NewModel()
	_, err := m.Binary("a", Product(Range(1, 3)))
	require.NoError(t, err)
	_, err = m.Binary("b", Product(Range(1, 2)))
	require.NoError(t, err)

	for i, want := range []struct {
		name string
		tup  Tuple
	}{
		{"a", T(1)}, {"a", T(2)}, {"a", T(3)},
		{"b", T(1)}, {"b", T(2)},
	} {
		slot, err := m.Slot(want.name, want.tup)
		require.NoError(t, err)
		assert.Equal(t, i, slot)
	}
}

func TestModel_MaximizeSense(t *testing.T) {
	m := NewModel()
	_, err := m.Continuous("x", Product(Range(1, 1)), nil, Const(1))
	require.NoError(t, err)
	m.Maximize(Term(1, "x", T(1)))

	p, err := m.Compile()
	require.NoError(t, err)
	assert.True(t, p.IsMaximize())
}
