// SPDX-License-Identifier: MIT

package eigs

import (
	"math"

	lu "github.com/edp1096/sparse"
)

// entryVisitor is implemented by operators that can list their stored entries.
type entryVisitor interface {
	Do(f func(i, j int, v float64) bool)
}

// shiftInvert applies (A−σI)⁻¹ through a sparse LU factorisation of A−σI.
type shiftInvert struct {
	n     int
	sigma float64
	mat   *lu.Matrix
	rhs   []float64 // 1-based, slot 0 unused
}

// newShiftInvert stamps A−σI into a sparse LU matrix and factors it.
// Operators without Do are probed column by column.
func newShiftInvert(a Operator, sigma float64) (*shiftInvert, error) {
	n := a.Rows()
	mat, err := lu.Create(int64(n), &lu.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	})
	if err != nil {
		return nil, failuref(CodeSingularShift, "create LU matrix: %v", err)
	}
	mat.Clear()

	stamp := func(i, j int, v float64) bool {
		mat.GetElement(int64(i+1), int64(j+1)).Real += v
		return true
	}
	if ev, ok := a.(entryVisitor); ok {
		ev.Do(stamp)
	} else {
		e := make([]float64, n)
		col := make([]float64, n)
		for j := 0; j < n; j++ {
			e[j] = 1
			if err = a.MulVecTo(col, e); err != nil {
				mat.Destroy()
				return nil, err
			}
			e[j] = 0
			for i, v := range col {
				if v != 0 {
					stamp(i, j, v)
				}
			}
		}
	}
	for d := 0; d < n; d++ {
		mat.GetElement(int64(d+1), int64(d+1)).Real -= sigma
	}

	if err = mat.Factor(); err != nil {
		mat.Destroy()
		return nil, failuref(CodeSingularShift, "factor A-%gI: %v", sigma, err)
	}

	return &shiftInvert{n: n, sigma: sigma, mat: mat, rhs: make([]float64, n+1)}, nil
}

// apply computes y = (A−σI)⁻¹·x.
func (s *shiftInvert) apply(y, x []float64) error {
	s.rhs[0] = 0
	copy(s.rhs[1:], x)
	sol, err := s.mat.Solve(s.rhs)
	if err != nil {
		return failuref(CodeSingularShift, "solve: %v", err)
	}
	for i := 0; i < s.n; i++ {
		v := sol[i+1]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return failuref(CodeSingularShift, "A-%gI is numerically singular", s.sigma)
		}
		y[i] = v
	}

	return nil
}

// unshift maps a Ritz value of (A−σI)⁻¹ back to an eigenvalue of A.
func (s *shiftInvert) unshift(theta complex128) complex128 {
	return complex(s.sigma, 0) + 1/theta
}

func (s *shiftInvert) close() { s.mat.Destroy() }
