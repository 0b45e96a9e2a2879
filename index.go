package mip

import (
	"strconv"
	"strings"
)

// Tuple is an ordered sequence of index values identifying one member of an
// indexed family, e.g. (i, j) for an arc variable x[i,j]. Tuples are
// compared component-wise.
type Tuple []int

// T builds a Tuple from its components.
func T(vs ...int) Tuple {
	t := make(Tuple, len(vs))
	copy(t, vs)
	return t
}

// At returns the i-th component.
func (t Tuple) At(i int) int { return t[i] }

// Equal reports component-wise equality.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

// key encodes the tuple as a map key. Components are delimited so that
// e.g. (1,23) and (12,3) never collide.
func (t Tuple) key() string {
	var sb strings.Builder
	for i, v := range t {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Dim is one finite dimension of an index set.
type Dim struct {
	values []int
}

// Range returns the dimension spanning lo..hi inclusive. An inverted range
// is empty.
func Range(lo, hi int) Dim {
	if hi < lo {
		return Dim{}
	}
	vs := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		vs = append(vs, v)
	}
	return Dim{values: vs}
}

// Values returns a dimension over an explicit list of index values. The
// given order is the enumeration order.
func Values(vs ...int) Dim {
	d := Dim{values: make([]int, len(vs))}
	copy(d.values, vs)
	return d
}

// Len returns the number of values in the dimension.
func (d Dim) Len() int { return len(d.values) }

// Set is the cartesian product of one or more dimensions, optionally
// narrowed by predicate filters. Enumeration is lazy, restartable and
// row-major: the last dimension varies fastest. Filters run during
// expansion so excluded tuples are never handed out.
type Set struct {
	dims    []Dim
	filters []func(Tuple) bool
}

// Product returns the cartesian product of the given dimensions. With no
// dimensions the product contains the single empty tuple, which is how
// scalar (unindexed) variables are declared.
func Product(dims ...Dim) Set {
	s := Set{dims: make([]Dim, len(dims))}
	copy(s.dims, dims)
	return s
}

// Filter returns a copy of the set narrowed by pred. Multiple filters
// conjoin.
func (s Set) Filter(pred func(Tuple) bool) Set {
	out := Set{dims: s.dims, filters: make([]func(Tuple) bool, len(s.filters), len(s.filters)+1)}
	copy(out.filters, s.filters)
	out.filters = append(out.filters, pred)
	return out
}

// Arity returns the number of dimensions, i.e. the length of every tuple
// the set produces.
func (s Set) Arity() int { return len(s.dims) }

// Each enumerates the set in row-major order, calling fn for every
// surviving tuple until fn returns false or the set is exhausted. The
// tuple passed to fn is a fresh copy and may be retained.
func (s Set) Each(fn func(Tuple) bool) {
	for _, d := range s.dims {
		if len(d.values) == 0 {
			return
		}
	}

	// odometer over the dimensions, last digit spinning fastest
	idx := make([]int, len(s.dims))
	scratch := make(Tuple, len(s.dims))
	for {
		for i, d := range s.dims {
			scratch[i] = d.values[idx[i]]
		}

		if s.admits(scratch) {
			t := make(Tuple, len(scratch))
			copy(t, scratch)
			if !fn(t) {
				return
			}
		}

		// advance, carrying leftward
		pos := len(idx) - 1
		for {
			if pos < 0 {
				return
			}
			idx[pos]++
			if idx[pos] < len(s.dims[pos].values) {
				break
			}
			idx[pos] = 0
			pos--
		}
	}
}

func (s Set) admits(t Tuple) bool {
	for _, pred := range s.filters {
		if !pred(t) {
			return false
		}
	}
	return true
}

// Tuples materializes the full enumeration.
func (s Set) Tuples() []Tuple {
	var out []Tuple
	s.Each(func(t Tuple) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Size counts the surviving tuples.
func (s Set) Size() int {
	n := 0
	s.Each(func(Tuple) bool {
		n++
		return true
	})
	return n
}
