package ilp

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func Test_subProblem_combineInequalities(t *testing.T) {
	type fields struct {
		c        []float64
		A        *mat.Dense
		b        []float64
		G        *mat.Dense
		h        []float64
		branches []branchConstraint
	}
	tests := []struct {
		name   string
		fields fields
		wantG  *mat.Dense
		wantH  []float64
	}{
		{
			name: "no branch constraints",
			fields: fields{
				c: []float64{-1, -2, 0, 0},
				A: mat.NewDense(2, 4, []float64{
					-1, 2, 1, 0,
					3, 1, 0, 1,
				}),
				b: []float64{4, 9},
			},
			wantG: nil,
			wantH: nil,
		},
		{
			name: "one branch constraint",
			fields: fields{
				c: []float64{-1, -2, 0, 0},
				A: mat.NewDense(2, 4, []float64{
					-1, 2, 1, 0,
					3, 1, 0, 1,
				}),
				b: []float64{4, 9},
				branches: []branchConstraint{
					{
						variable: 0,
						hsharp:   1,
						gsharp:   []float64{1, 0, 0, 0},
					},
				},
			},
			wantG: mat.NewDense(1, 4, []float64{1, 0, 0, 0}),
			wantH: []float64{1},
		},
		{
			name: "two branch constraints",
			fields: fields{
				c: []float64{-1, -2, 0, 0},
				A: mat.NewDense(2, 4, []float64{
					-1, 2, 1, 0,
					3, 1, 0, 1,
				}),
				b: []float64{4, 9},
				branches: []branchConstraint{
					{
						variable: 3,
						hsharp:   1,
						gsharp:   []float64{0, 0, 0, 1},
					},
					{
						variable: 1,
						hsharp:   3,
						gsharp:   []float64{0, 1, 0, 0},
					},
				},
			},
			wantG: mat.NewDense(2, 4, []float64{
				0, 0, 0, 1,
				0, 1, 0, 0,
			}),
			wantH: []float64{1, 3},
		},
		{
			name: "branch constraints stacked below original inequalities",
			fields: fields{
				c: []float64{-1, -2},
				A: mat.NewDense(1, 2, []float64{1, 1}),
				b: []float64{4},
				G: mat.NewDense(1, 2, []float64{1, 0}),
				h: []float64{2},
				branches: []branchConstraint{
					{
						variable: 1,
						hsharp:   1,
						gsharp:   []float64{0, 1},
					},
				},
			},
			wantG: mat.NewDense(2, 2, []float64{
				1, 0,
				0, 1,
			}),
			wantH: []float64{2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := subProblem{
				c:        tt.fields.c,
				A:        tt.fields.A,
				b:        tt.fields.b,
				G:        tt.fields.G,
				h:        tt.fields.h,
				branches: tt.fields.branches,
			}
			gotG, gotH := p.combineInequalities()
			if !reflect.DeepEqual(gotG, tt.wantG) {
				t.Errorf("combineInequalities() G = %v, want %v", gotG, tt.wantG)
			}
			if !reflect.DeepEqual(gotH, tt.wantH) {
				t.Errorf("combineInequalities() h = %v, want %v", gotH, tt.wantH)
			}
		})
	}
}

func Test_convertToEqualities(t *testing.T) {
	c := []float64{-1, -2}
	A := mat.NewDense(1, 2, []float64{1, 1})
	b := []float64{4}
	G := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	h := []float64{2, 3}

	cNew, aNew, bNew := convertToEqualities(c, A, b, G, h)

	assert.Equal(t, []float64{-1, -2, 0, 0}, cNew)
	assert.Equal(t, mat.NewDense(3, 4, []float64{
		1, 1, 0, 0,
		1, 0, 1, 0,
		0, 1, 0, 1,
	}), aNew)
	assert.Equal(t, []float64{4, 2, 3}, bNew)
}

func Test_convertToEqualities_NoEqualityRows(t *testing.T) {
	c := []float64{1, 1}
	G := mat.NewDense(1, 2, []float64{1, 1})
	h := []float64{5}

	cNew, aNew, bNew := convertToEqualities(c, nil, nil, G, h)

	assert.Equal(t, []float64{1, 1, 0}, cNew)
	assert.Equal(t, mat.NewDense(1, 3, []float64{1, 1, 1}), aNew)
	assert.Equal(t, []float64{5}, bNew)
}

func Test_solution_branch(t *testing.T) {
	base := subProblem{
		c: []float64{-1, -2, 0, 0},
		A: mat.NewDense(2, 4, []float64{
			-1, 2, 1, 0,
			3, 1, 0, 1,
		}),
		b:           []float64{4, 9},
		integrality: []bool{true, true, false, false},
		heuristic:   BranchNaive,
		branches:    []branchConstraint{},
	}

	// a fabricated fractional solution; it does not have to be feasible
	s := solution{
		problem: &base,
		x:       []float64{1.2, 3, 0, 0},
		z:       -8,
	}

	p1, p2 := s.branch()

	assert.Equal(t, []branchConstraint{
		{
			variable: 0,
			hsharp:   1,
			gsharp:   []float64{1, 0, 0, 0},
		},
	}, p1.branches)

	assert.Equal(t, []branchConstraint{
		{
			variable: 0,
			hsharp:   -2,
			gsharp:   []float64{-1, 0, 0, 0},
		},
	}, p2.branches)

	// the matrices are shared with the parent, not copied
	assert.Equal(t, base.A, p1.A)
	assert.Equal(t, base.A, p2.A)

	// branching must not grow the parent's constraint list
	assert.Empty(t, base.branches)
}

func Test_subProblem_copyIsolatesBranches(t *testing.T) {
	p := subProblem{
		c: []float64{1},
		A: mat.NewDense(1, 1, []float64{1}),
		b: []float64{1},
		branches: []branchConstraint{
			{variable: 0, hsharp: 1, gsharp: []float64{1}},
		},
	}

	child := p.copy()
	child.branches = append(child.branches, branchConstraint{variable: 0, hsharp: 2, gsharp: []float64{1}})

	assert.Len(t, p.branches, 1)
	assert.Len(t, child.branches, 2)
	assert.Equal(t, p.id, child.parent)
}
