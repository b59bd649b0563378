// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/stretchr/testify/require"
)

func TestAddInPlaceOverlapCancels(t *testing.T) {
	t.Parallel()
	a := fromRows(t, [][]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 0}})
	b := fromRows(t, [][]float64{{-1, 0, 0}, {0, 0, 0}, {0, 0, 3}})
	require.Equal(t, 2, a.NNZ())
	require.Equal(t, 2, b.NNZ())

	require.NoError(t, a.AddInPlace(b))
	require.Equal(t, 2, a.NNZ())
	require.Equal(t, [][]float64{{0, 0, 0}, {0, 2, 0}, {0, 0, 3}}, toRows(t, a))
	requireInvariants(t, a)
}

func TestCompoundAgainstDense(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		op   func(a, b *sparse.CSC) error
		f    func(x, y float64) float64
	}{
		{"add", (*sparse.CSC).AddInPlace, func(x, y float64) float64 { return x + y }},
		{"sub", (*sparse.CSC).SubInPlace, func(x, y float64) float64 { return x - y }},
		{"mul", (*sparse.CSC).MulElemInPlace, func(x, y float64) float64 { return x * y }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for seed := int64(10); seed < 15; seed++ {
				a := randomCSC(t, seed, 8, 6, 0.4)
				b := randomCSC(t, seed+100, 8, 6, 0.4)
				da, db := toRows(t, a), toRows(t, b)
				require.NoError(t, tc.op(a, b))
				requireInvariants(t, a)
				for i := range da {
					for j := range da[i] {
						require.Equal(t, tc.f(da[i][j], db[i][j]), mustAt(t, a, i, j))
					}
				}
			}
		})
	}
}

func TestSelfOperand(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{{1, 0}, {0, -2}})
	require.NoError(t, m.AddInPlace(m))
	require.Equal(t, [][]float64{{2, 0}, {0, -4}}, toRows(t, m))
	require.NoError(t, m.SubInPlace(m))
	require.Equal(t, 0, m.NNZ())
	requireInvariants(t, m)
}

func TestDivElemInPlace(t *testing.T) {
	t.Parallel()
	a := fromRows(t, [][]float64{{6, 1, 0}, {0, 0, 0}})
	b := fromRows(t, [][]float64{{3, 0, 2}, {0, 0, 0}})
	require.NoError(t, a.DivElemInPlace(b))
	requireInvariants(t, a)

	require.Equal(t, 2.0, mustAt(t, a, 0, 0))
	require.True(t, math.IsInf(mustAt(t, a, 0, 1), 1)) // 1/0
	require.Equal(t, 0.0, mustAt(t, a, 0, 2))          // 0/2
	require.Equal(t, 0.0, mustAt(t, a, 1, 1))          // absent in both stays 0
	require.Equal(t, 2, a.NNZ())

	strict := fromRows(t, [][]float64{{1}})
	strictStore, err := sparse.FromDense(strict, sparse.WithValidateNaNInf())
	require.NoError(t, err)
	require.ErrorIs(t, strictStore.DivElemInPlace(mustNew(t, 1, 1)), sparse.ErrNaNInf)
	require.Equal(t, 1.0, mustAt(t, strictStore, 0, 0)) // untouched on failure
}

func TestCompoundShapeMismatch(t *testing.T) {
	t.Parallel()
	a := mustNew(t, 2, 2)
	require.ErrorIs(t, a.AddInPlace(mustNew(t, 2, 3)), sparse.ErrDimensionMismatch)
	require.ErrorIs(t, a.MulElemInPlace(nil), sparse.ErrNilMatrix)
}

func TestScalarOps(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{{2, 0}, {0, 1e-300}})
	require.NoError(t, m.ScaleInPlace(1e-300)) // second entry underflows to 0
	require.Equal(t, 1, m.NNZ())
	requireInvariants(t, m)

	require.NoError(t, m.DivScalarInPlace(2e-300))
	require.InDelta(t, 1.0, mustAt(t, m, 0, 0), 1e-12)

	require.NoError(t, m.ScaleInPlace(0))
	require.Equal(t, 0, m.NNZ())
	require.Equal(t, 2, m.Rows())
	requireInvariants(t, m)

	strict := mustNew(t, 1, 1, sparse.WithValidateNaNInf())
	mustSet(t, strict, 0, 0, 1)
	require.ErrorIs(t, strict.DivScalarInPlace(0), sparse.ErrNaNInf)
	require.ErrorIs(t, strict.ScaleInPlace(math.Inf(-1)), sparse.ErrNaNInf)
}

func TestCleanAndPrune(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{{1e-9, 2}, {-3, 1e-12}})
	require.Equal(t, 0, m.Prune())
	require.Equal(t, 2, m.Clean(1e-8))
	require.Equal(t, [][]float64{{0, 2}, {-3, 0}}, toRows(t, m))
	requireInvariants(t, m)
}

func TestTransposeAndProducts(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{
		{1, 0, 2},
		{0, 3, 0},
	})
	tr := m.Transpose()
	requireInvariants(t, tr)
	require.Equal(t, [][]float64{{1, 0}, {0, 3}, {2, 0}}, toRows(t, tr))

	y, err := m.MulVec([]float64{1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, []float64{3, 3}, y)

	z := make([]float64, 3)
	require.NoError(t, m.MulTransVecTo(z, []float64{1, 2}))
	require.Equal(t, []float64{1, 6, 2}, z)

	_, err = m.MulVec([]float64{1})
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
	require.ErrorIs(t, m.MulTransVecTo(z, []float64{1}), sparse.ErrDimensionMismatch)
}
