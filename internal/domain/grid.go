package domain

import "math"

// Grid is a 2-D numeric array stored row-major: NX rows (transverse) by
// NZ columns (longitudinal). Values holds exactly NX*NZ elements.
type Grid struct {
	NX     int
	NZ     int
	Values []float64
}

// NewGrid allocates a zero-filled grid with the given dimensions.
func NewGrid(nx, nz int) Grid {
	return Grid{NX: nx, NZ: nz, Values: make([]float64, nx*nz)}
}

// At returns the value at transverse row i, longitudinal column j.
func (g Grid) At(i, j int) float64 {
	return g.Values[i*g.NZ+j]
}

// Set stores v at transverse row i, longitudinal column j.
func (g Grid) Set(i, j int, v float64) {
	g.Values[i*g.NZ+j] = v
}

// Len returns the number of elements.
func (g Grid) Len() int {
	return len(g.Values)
}

// AbsMax returns the maximum absolute value over all elements, 0 for an
// empty grid. NaN elements are ignored.
func (g Grid) AbsMax() float64 {
	m := 0.0
	for _, v := range g.Values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Abs returns a copy of the grid with the absolute value of every element.
func (g Grid) Abs() Grid {
	out := Grid{NX: g.NX, NZ: g.NZ, Values: make([]float64, len(g.Values))}
	for i, v := range g.Values {
		out.Values[i] = math.Abs(v)
	}
	return out
}

// Scaled returns a copy of the grid with every element multiplied by f.
func (g Grid) Scaled(f float64) Grid {
	if f == 1 {
		return g
	}
	out := Grid{NX: g.NX, NZ: g.NZ, Values: make([]float64, len(g.Values))}
	for i, v := range g.Values {
		out.Values[i] = v * f
	}
	return out
}
