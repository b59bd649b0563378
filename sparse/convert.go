// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"

	"github.com/katalvlaran/lvsparse/matrix"
)

const (
	ctxFromDense = "FromDense"
	ctxToDense   = "CSC.ToDense"
)

// FromDense converts any matrix.Matrix to CSC: a counting pass sizes every
// column, then a row-major scatter fills them. Rows arrive in ascending order
// per column, so no sort is needed. Exact zeros are not stored.
//
// Errors:
//   - ErrNilMatrix; errors from d.At; ErrNaNInf when the store validates.
//
// Complexity:
//   - Time O(r*c), Space O(nnz + c).
func FromDense(d matrix.Matrix, opts ...Option) (*CSC, error) {
	if d == nil {
		return nil, opErrorf(ctxFromDense, ErrNilMatrix)
	}
	rows, cols := d.Rows(), d.Cols()
	m, err := New(rows, cols, opts...)
	if err != nil {
		return nil, opErrorf(ctxFromDense, err)
	}

	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = d.At(i, j); err != nil {
				return nil, opErrorf(ctxFromDense, err)
			}
			if v == 0 {
				continue
			}
			if m.validateNaNInf && isNonFinite(v) {
				return nil, fmt.Errorf("%s: (%d,%d): %w", ctxFromDense, i, j, ErrNaNInf)
			}
			m.colPtr[j+1]++
		}
	}
	for j := 0; j < cols; j++ {
		m.colPtr[j+1] += m.colPtr[j]
	}
	m.resizeCapacity(m.colPtr[cols])

	cursor := make([]int, cols)
	copy(cursor, m.colPtr[:cols])
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, _ = d.At(i, j)
			if v == 0 {
				continue
			}
			m.rowIdx[cursor[j]] = i
			m.values[cursor[j]] = v
			cursor[j]++
		}
	}

	return m, nil
}

// ToDense extracts a zero-filled Dense and scatters the stored entries.
// The result does not validate NaN/Inf so every stored value round-trips.
// Complexity: O(r*c + nnz).
func (m *CSC) ToDense() (*matrix.Dense, error) {
	d, err := matrix.NewDenseZeroOK(m.rows, m.cols, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, opErrorf(ctxToDense, err)
	}
	for c := 0; c < m.cols; c++ {
		for p := m.colPtr[c]; p < m.colPtr[c+1]; p++ {
			if err = d.Set(m.rowIdx[p], c, m.values[p]); err != nil {
				return nil, opErrorf(ctxToDense, err)
			}
		}
	}

	return d, nil
}

// ToDense materializes the window as a Dense.
func (v *Subview) ToDense() (*matrix.Dense, error) { return v.ToCSC().ToDense() }
