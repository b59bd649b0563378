// SPDX-License-Identifier: MIT

// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvsparse/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	t.Parallel()
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestNewDenseZeroOK(t *testing.T) {
	t.Parallel()
	m, err := matrix.NewDenseZeroOK(0, 3)
	require.NoError(t, err)
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, "", m.String())

	_, err = matrix.NewDenseZeroOK(-1, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrIndexOutOfBounds on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrIndexOutOfBounds)
}

func TestSetNaNPolicy(t *testing.T) {
	t.Parallel()
	strict := MustDense(t, 1, 1)
	require.ErrorIs(t, strict.Set(0, 0, math.NaN()), matrix.ErrNaNInf)

	loose, err := matrix.NewDense(1, 1, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, loose.Set(0, 0, math.Inf(1)))
	require.True(t, math.IsInf(MustAt(t, loose, 0, 0), 1))
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 2, 2, []float64{1, 0, 0, 2})
	clone := m.Clone()
	MustSet(t, clone, 0, 0, 3)

	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
	require.Equal(t, 3.0, MustAt(t, clone, 0, 0))
}

func TestViewWriteThroughAndClone(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	v, err := m.View(1, 1, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 5.0, MustAt(t, v, 0, 0))

	MustSet(t, v, 1, 1, 99)
	require.Equal(t, 99.0, MustAt(t, m, 2, 2))

	cp := v.Clone()
	CompareExact(t, [][]float64{{5, 6}, {8, 99}}, cp)

	_, err = m.View(2, 2, 2, 2)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestDoAndString(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	sum := 0.0
	m.Do(func(_, _ int, v float64) bool { sum += v; return true })
	require.Equal(t, 10.0, sum)

	visited := 0
	m.Do(func(_, _ int, _ float64) bool { visited++; return visited < 3 })
	require.Equal(t, 3, visited)
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}
