// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvsparse/matrix"
	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/stretchr/testify/require"
)

// requireInvariants checks every compressed-storage invariant of m.
func requireInvariants(t *testing.T, m *sparse.CSC) {
	t.Helper()
	vals, rows, ptr := m.Raw()
	require.Len(t, ptr, m.Cols()+1, "colPtr length")
	require.Equal(t, m.Cols()+2, m.ColPtrLenForTest(), "colPtr with sentinel")
	require.Equal(t, math.MaxInt, m.SentinelForTest(), "sentinel")
	require.Equal(t, 0, ptr[0], "colPtr[0]")
	require.Equal(t, m.NNZ(), ptr[m.Cols()], "colPtr[cols] == nnz")
	require.Len(t, vals, m.NNZ())
	require.Len(t, rows, m.NNZ())
	for c := 0; c < m.Cols(); c++ {
		require.LessOrEqual(t, ptr[c], ptr[c+1], "colPtr non-decreasing at %d", c)
		for p := ptr[c]; p < ptr[c+1]; p++ {
			require.GreaterOrEqual(t, rows[p], 0)
			require.Less(t, rows[p], m.Rows())
			require.NotZero(t, vals[p], "stored zero at slot %d", p)
			if p > ptr[c] {
				require.Less(t, rows[p-1], rows[p], "rows strictly increasing in column %d", c)
			}
		}
	}
}

func mustNew(t *testing.T, r, c int, opts ...sparse.Option) *sparse.CSC {
	t.Helper()
	m, err := sparse.New(r, c, opts...)
	require.NoError(t, err)

	return m
}

func mustSet(t *testing.T, m matrix.Matrix, i, j int, v float64) {
	t.Helper()
	require.NoError(t, m.Set(i, j, v))
}

func mustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// fromRows builds a CSC from a row-major literal.
func fromRows(t *testing.T, data [][]float64) *sparse.CSC {
	t.Helper()
	r := len(data)
	c := 0
	if r > 0 {
		c = len(data[0])
	}
	m := mustNew(t, r, c)
	for i := range data {
		for j, v := range data[i] {
			mustSet(t, m, i, j, v)
		}
	}
	requireInvariants(t, m)

	return m
}

// toRows extracts any matrix as a row-major literal.
func toRows(t *testing.T, m matrix.Matrix) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
		for j := range out[i] {
			out[i][j] = mustAt(t, m, i, j)
		}
	}

	return out
}

// randomCSC fills about density*r*c random cells with integers in [-4,4]
// (zeros included, which must not be stored).
func randomCSC(t *testing.T, seed int64, r, c int, density float64) *sparse.CSC {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := mustNew(t, r, c)
	n := int(density * float64(r*c))
	for k := 0; k < n; k++ {
		mustSet(t, m, rng.Intn(r), rng.Intn(c), float64(rng.Intn(9)-4))
	}
	requireInvariants(t, m)

	return m
}

// nnzOf counts nonzero cells of a dense literal.
func nnzOf(rows [][]float64) int {
	n := 0
	for i := range rows {
		for _, v := range rows[i] {
			if v != 0 {
				n++
			}
		}
	}

	return n
}
