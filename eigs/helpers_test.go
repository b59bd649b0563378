// SPDX-License-Identifier: MIT

package eigs_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/stretchr/testify/require"
)

// diagCSC returns diag(vals).
func diagCSC(t *testing.T, vals []float64) *sparse.CSC {
	t.Helper()
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	m, err := sparse.FromTriplets(len(vals), len(vals), sparse.Triplets{Rows: idx, Cols: idx, Vals: vals})
	require.NoError(t, err)

	return m
}

// ramp returns lo, lo+1, ..., hi.
func ramp(lo, hi int) []float64 {
	out := make([]float64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, float64(v))
	}

	return out
}

// laplacian1D returns tridiag(-1, 2, -1) of order n.
func laplacian1D(t *testing.T, n int) *sparse.CSC {
	t.Helper()
	var tr sparse.Triplets
	for i := 0; i < n; i++ {
		tr.Rows = append(tr.Rows, i)
		tr.Cols = append(tr.Cols, i)
		tr.Vals = append(tr.Vals, 2)
		if i+1 < n {
			tr.Rows = append(tr.Rows, i+1)
			tr.Cols = append(tr.Cols, i)
			tr.Vals = append(tr.Vals, -1)
		}
	}
	m, err := sparse.FromTriplets(n, n, tr, sparse.WithMirror())
	require.NoError(t, err)

	return m
}

// laplacianEigen is the j-th eigenvalue (1-based) of laplacian1D(n).
func laplacianEigen(n, j int) float64 {
	return 2 - 2*math.Cos(float64(j)*math.Pi/float64(n+1))
}

// requireSymResidual checks ‖A·x − λ·x‖ <= tol·max(1, |λ|).
func requireSymResidual(t *testing.T, a *sparse.CSC, lambda float64, x []float64, tol float64) {
	t.Helper()
	ax, err := a.MulVec(x)
	require.NoError(t, err)
	r := 0.0
	for i := range ax {
		d := ax[i] - lambda*x[i]
		r += d * d
	}
	require.LessOrEqual(t, math.Sqrt(r), tol*math.Max(1, math.Abs(lambda)))
}

// requireGenResidual is requireSymResidual for complex pairs.
func requireGenResidual(t *testing.T, a *sparse.CSC, lambda complex128, x []complex128, tol float64) {
	t.Helper()
	n := len(x)
	re := make([]float64, n)
	im := make([]float64, n)
	for i, v := range x {
		re[i], im[i] = real(v), imag(v)
	}
	are, err := a.MulVec(re)
	require.NoError(t, err)
	aim, err := a.MulVec(im)
	require.NoError(t, err)
	r := 0.0
	for i := range x {
		d := complex(are[i], aim[i]) - lambda*x[i]
		r += real(d)*real(d) + imag(d)*imag(d)
	}
	require.LessOrEqual(t, math.Sqrt(r), tol*math.Max(1, cmplx.Abs(lambda)))
}
