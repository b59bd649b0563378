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

func TestNewShapes(t *testing.T) {
	t.Parallel()
	empty := mustNew(t, 0, 0)
	require.Equal(t, 0, empty.NNZ())
	requireInvariants(t, empty)

	_, err := sparse.New(-1, 2)
	require.ErrorIs(t, err, sparse.ErrInvalidDimensions)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = sparse.New(math.MaxInt/2, 3)
	require.ErrorIs(t, err, sparse.ErrCapacityOverflow)
}

func TestSetCases(t *testing.T) {
	t.Parallel()
	m := mustNew(t, 3, 3)

	mustSet(t, m, 1, 1, 0) // zero + absent
	require.Equal(t, 0, m.NNZ())

	mustSet(t, m, 2, 1, 7) // nonzero + absent
	mustSet(t, m, 0, 1, 3) // insert before it in the same column
	require.Equal(t, 2, m.NNZ())
	requireInvariants(t, m)

	mustSet(t, m, 2, 1, 8) // nonzero + present
	require.Equal(t, 8.0, mustAt(t, m, 2, 1))
	require.Equal(t, 2, m.NNZ())

	mustSet(t, m, 0, 1, 0) // zero + present
	require.Equal(t, 1, m.NNZ())
	require.Equal(t, 0.0, mustAt(t, m, 0, 1))
	requireInvariants(t, m)

	v, err := m.Get(2, 1)
	require.NoError(t, err)
	require.Equal(t, 8.0, v)
}

func TestOutOfBounds(t *testing.T) {
	t.Parallel()
	m := mustNew(t, 2, 3)
	_, err := m.At(2, 0)
	require.ErrorIs(t, err, sparse.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.Set(0, 3, 1), sparse.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.Set(-1, 0, 1), matrix.ErrOutOfRange)
	_, err = m.Elem(0, -1)
	require.ErrorIs(t, err, sparse.ErrIndexOutOfBounds)
}

func TestNaNPolicy(t *testing.T) {
	t.Parallel()
	loose := mustNew(t, 1, 1)
	require.NoError(t, loose.Set(0, 0, math.Inf(1)))

	strict := mustNew(t, 1, 1, sparse.WithValidateNaNInf())
	require.ErrorIs(t, strict.Set(0, 0, math.NaN()), sparse.ErrNaNInf)
	require.Equal(t, 0, strict.NNZ())
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	m := randomCSC(t, 1, 6, 5, 0.4)
	before := m.Copy()
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if mustAt(t, m, i, j) == 0 {
				mustSet(t, m, i, j, 0)
			}
		}
	}
	require.True(t, m.Equal(before))
}

func TestInsertDeleteInverse(t *testing.T) {
	t.Parallel()
	m := randomCSC(t, 2, 7, 7, 0.3)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if mustAt(t, m, i, j) != 0 {
				continue
			}
			before := m.Copy()
			mustSet(t, m, i, j, 2.5)
			requireInvariants(t, m)
			mustSet(t, m, i, j, 0)
			requireInvariants(t, m)
			require.True(t, m.Equal(before), "cell (%d,%d)", i, j)
		}
	}
}

func TestDeleteSingleEntry4x4(t *testing.T) {
	t.Parallel()
	m := mustNew(t, 4, 4)
	mustSet(t, m, 3, 0, 5)
	require.Equal(t, 1, m.NNZ())

	mustSet(t, m, 3, 0, 0)
	require.Equal(t, 0, m.NNZ())
	requireInvariants(t, m)
	require.Equal(t, nnzOf(toRows(t, m)), 0)
}

func TestRandomMutationsAgainstDense(t *testing.T) {
	t.Parallel()
	const r, c = 9, 8
	rng := rand.New(rand.NewSource(42))
	m := mustNew(t, r, c)
	ref := make([][]float64, r)
	for i := range ref {
		ref[i] = make([]float64, c)
	}
	for step := 0; step < 600; step++ {
		i, j := rng.Intn(r), rng.Intn(c)
		v := float64(rng.Intn(5) - 2)
		mustSet(t, m, i, j, v)
		ref[i][j] = v
		requireInvariants(t, m)
	}
	require.Equal(t, ref, toRows(t, m))
	require.Equal(t, nnzOf(ref), m.NNZ())
}

func TestStructuralRebuilds(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{{1, 2}, {3, 4}})

	require.NoError(t, m.Identity(3))
	require.Equal(t, 3, m.NNZ())
	require.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, toRows(t, m))
	requireInvariants(t, m)

	require.NoError(t, m.SetSize(2, 5))
	require.Equal(t, 0, m.NNZ())
	require.Equal(t, 5, m.Cols())
	requireInvariants(t, m)

	require.NoError(t, m.Zeros(1, 1))
	m.Reset()
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 0, m.Cols())
	requireInvariants(t, m)

	id, err := sparse.NewIdentity(4)
	require.NoError(t, err)
	require.Equal(t, 4.0, id.Trace())
	require.ErrorIs(t, m.SetSize(-2, 1), sparse.ErrInvalidDimensions)
}

func TestReshapeKeepsColumnMajorOrder(t *testing.T) {
	t.Parallel()
	// column-major linear order: 1,4,2,5,3,6
	m := fromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	require.NoError(t, m.Reshape(3, 2))
	require.Equal(t, [][]float64{{1, 5}, {4, 3}, {2, 6}}, toRows(t, m))
	requireInvariants(t, m)

	require.NoError(t, m.Reshape(2, 2)) // surplus dropped
	require.Equal(t, [][]float64{{1, 2}, {4, 5}}, toRows(t, m))
	requireInvariants(t, m)

	require.NoError(t, m.Reshape(1, 6)) // missing cells are zero
	require.Equal(t, [][]float64{{1, 4, 2, 5, 0, 0}}, toRows(t, m))
	requireInvariants(t, m)
}

func TestResizeKeepsPositions(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	require.NoError(t, m.Resize(3, 2))
	require.Equal(t, [][]float64{{1, 2}, {4, 5}, {0, 0}}, toRows(t, m))
	requireInvariants(t, m)

	require.NoError(t, m.Resize(1, 4))
	require.Equal(t, [][]float64{{1, 2, 0, 0}}, toRows(t, m))
	requireInvariants(t, m)
}

func TestSwapRowsCols(t *testing.T) {
	t.Parallel()
	data := [][]float64{
		{1, 0, 0, 2},
		{0, 3, 0, 0},
		{4, 0, 5, 0},
		{0, 0, 0, 6},
	}
	m := fromRows(t, data)

	require.NoError(t, m.SwapRows(0, 2))
	require.Equal(t, [][]float64{
		{4, 0, 5, 0},
		{0, 3, 0, 0},
		{1, 0, 0, 2},
		{0, 0, 0, 6},
	}, toRows(t, m))
	requireInvariants(t, m)

	require.NoError(t, m.SwapRows(3, 1))
	require.NoError(t, m.SwapCols(0, 3))
	require.Equal(t, [][]float64{
		{0, 0, 5, 4},
		{6, 0, 0, 0},
		{2, 0, 0, 1},
		{0, 3, 0, 0},
	}, toRows(t, m))
	requireInvariants(t, m)

	require.ErrorIs(t, m.SwapRows(0, 4), sparse.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.SwapCols(-1, 0), sparse.ErrIndexOutOfBounds)
}

func TestDiagonalTraceStringRaw(t *testing.T) {
	t.Parallel()
	m := fromRows(t, [][]float64{{2, 0, 1}, {0, 3, 0}})
	require.Equal(t, []float64{2, 3}, m.Diagonal())
	require.Equal(t, 5.0, m.Trace())
	require.Equal(t, "CSC 2x3 nnz=3\n(0, 0) 2\n(1, 1) 3\n(0, 2) 1\n", m.String())

	vals, rows, ptr := m.Raw()
	require.Equal(t, []float64{2, 3, 1}, vals)
	require.Equal(t, []int{0, 1, 0}, rows)
	require.Equal(t, []int{0, 1, 2, 3}, ptr)
	vals[0] = 99 // copies
	require.Equal(t, 2.0, mustAt(t, m, 0, 0))
}

func TestCloneAndEqual(t *testing.T) {
	t.Parallel()
	m := randomCSC(t, 3, 5, 5, 0.5)
	cl, ok := m.Clone().(*sparse.CSC)
	require.True(t, ok)
	require.True(t, cl.Equal(m))
	mustSet(t, cl, 0, 0, 123)
	require.False(t, cl.Equal(m))
	require.False(t, m.Equal(nil))
}

func TestResizeCapacityPrimitive(t *testing.T) {
	t.Parallel()
	m := mustNew(t, 3, 2)
	m.ResizeCapacityForTest(2)
	m.SetSlotForTest(0, 2, 1.5)
	m.SetSlotForTest(1, 0, -1)
	m.SetColPtrForTest(1, 1)
	m.SetColPtrForTest(2, 2)
	requireInvariants(t, m)
	require.Equal(t, [][]float64{{0, -1}, {0, 0}, {1.5, 0}}, toRows(t, m))
}

func TestDenseKernelsAcceptCSC(t *testing.T) {
	t.Parallel()
	a := fromRows(t, [][]float64{{1, 0}, {0, 2}})
	b := fromRows(t, [][]float64{{0, 3}, {4, 0}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 3}, {4, 2}}, toRows(t, sum))

	y, err := matrix.MatVec(a, []float64{1, 1})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, y)

	require.NoError(t, matrix.ValidateSymmetric(a, 0))
}
