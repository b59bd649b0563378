// SPDX-License-Identifier: MIT

// Package sparse - in-place arithmetic and products.
//
// Compound assignment against another CSC is a two-pointer merge over the
// sorted row lists of each column, written into fresh arrays and installed
// only on success, so a failed kernel leaves the receiver untouched.
// The receiver may be its own operand (m.AddInPlace(m)).
package sparse

import (
	"fmt"
)

const (
	ctxAdd       = "CSC.AddInPlace"
	ctxSub       = "CSC.SubInPlace"
	ctxMulElem   = "CSC.MulElemInPlace"
	ctxDivElem   = "CSC.DivElemInPlace"
	ctxScale     = "CSC.ScaleInPlace"
	ctxDivScalar = "CSC.DivScalarInPlace"
	ctxMulVec    = "CSC.MulVecTo"
	ctxMulTVec   = "CSC.MulTransVecTo"
)

// mergeMode selects which cells a merge visits.
type mergeMode uint8

const (
	mergeUnion     mergeMode = iota // cells stored in either operand
	mergeIntersect                  // cells stored in both operands
)

// mergeInPlace computes m[i,j] = f(m[i,j], b[i,j]) over the visited cells.
// MAIN DESCRIPTION:
//   - Per column, walk both sorted row lists with two pointers; absent
//     operands read as 0. A result of exactly 0 is not stored.
//
// Implementation:
//   - Stage 1: shape and policy checks.
//   - Stage 2: merge into fresh arrays while counting Δ: +1 for every cell
//     stored only in b that yields a nonzero, −1 for every cell stored in m
//     that yields zero (or is not visited).
//   - Stage 3: verify old+Δ equals the merged length, then install.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf (policy on and a
//     non-finite result), ErrStructuralAssertion (count mismatch).
//
// Complexity:
//   - Time O(nnz(m) + nnz(b) + cols), Space O(nnz(m) + nnz(b)).
func (m *CSC) mergeInPlace(tag string, b *CSC, mode mergeMode, f func(x, y float64) float64) error {
	if b == nil {
		return opErrorf(tag, ErrNilMatrix)
	}
	if m.rows != b.rows || m.cols != b.cols {
		return fmt.Errorf("%s: %dx%d vs %dx%d: %w", tag, m.rows, m.cols, b.rows, b.cols, ErrDimensionMismatch)
	}

	capHint := m.nnz + b.nnz
	if mode == mergeIntersect {
		capHint = min(m.nnz, b.nnz)
	}
	vals := make([]float64, 0, capHint)
	idx := make([]int, 0, capHint)
	ptr := make([]int, m.cols+2)
	delta := 0

	emit := func(row int, v float64) error {
		if m.validateNaNInf && isNonFinite(v) {
			return fmt.Errorf("%s: row %d: %w", tag, row, ErrNaNInf)
		}
		vals = append(vals, v)
		idx = append(idx, row)

		return nil
	}

	var pa, ea, pb, eb int
	var v float64
	for c := 0; c < m.cols; c++ {
		pa, ea = m.colPtr[c], m.colPtr[c+1]
		pb, eb = b.colPtr[c], b.colPtr[c+1]
		for pa < ea || pb < eb {
			switch {
			case pb >= eb || (pa < ea && m.rowIdx[pa] < b.rowIdx[pb]):
				// stored in m only
				if mode == mergeIntersect {
					delta--
				} else if v = f(m.values[pa], 0); v != 0 {
					if err := emit(m.rowIdx[pa], v); err != nil {
						return err
					}
				} else {
					delta--
				}
				pa++
			case pa >= ea || b.rowIdx[pb] < m.rowIdx[pa]:
				// stored in b only
				if mode == mergeUnion {
					if v = f(0, b.values[pb]); v != 0 {
						if err := emit(b.rowIdx[pb], v); err != nil {
							return err
						}
						delta++
					}
				}
				pb++
			default:
				if v = f(m.values[pa], b.values[pb]); v != 0 {
					if err := emit(m.rowIdx[pa], v); err != nil {
						return err
					}
				} else {
					delta--
				}
				pa++
				pb++
			}
		}
		ptr[c+1] = len(vals)
	}
	ptr[m.cols+1] = sentinel

	if m.nnz+delta != len(vals) {
		return fmt.Errorf("%s: nnz %d%+d != %d: %w", tag, m.nnz, delta, len(vals), ErrStructuralAssertion)
	}
	m.install(m.rows, m.cols, vals, idx, ptr)

	return nil
}

// AddInPlace performs m += b. Cells whose sum is exactly 0 are removed.
func (m *CSC) AddInPlace(b *CSC) error {
	return m.mergeInPlace(ctxAdd, b, mergeUnion, func(x, y float64) float64 { return x + y })
}

// SubInPlace performs m -= b.
func (m *CSC) SubInPlace(b *CSC) error {
	return m.mergeInPlace(ctxSub, b, mergeUnion, func(x, y float64) float64 { return x - y })
}

// MulElemInPlace performs the element-wise m *= b. Absent cells are exact
// zeros, so only cells stored in both operands can survive.
func (m *CSC) MulElemInPlace(b *CSC) error {
	return m.mergeInPlace(ctxMulElem, b, mergeIntersect, func(x, y float64) float64 { return x * y })
}

// DivElemInPlace performs the element-wise m /= b over cells stored in
// either operand: m-only cells become ±Inf (NaN for NaN), b-only cells
// become 0/b. Cells absent in both stay zero; 0/0 is not materialised.
func (m *CSC) DivElemInPlace(b *CSC) error {
	return m.mergeInPlace(ctxDivElem, b, mergeUnion, func(x, y float64) float64 { return x / y })
}

// ScaleInPlace multiplies every stored value by alpha. alpha == 0 clears
// all slots; products that underflow to exactly 0 are pruned.
func (m *CSC) ScaleInPlace(alpha float64) error {
	if m.validateNaNInf && isNonFinite(alpha) {
		return opErrorf(ctxScale, ErrNaNInf)
	}
	if alpha == 0 {
		m.reinit(m.rows, m.cols)
		return nil
	}
	for k := range m.values {
		m.values[k] *= alpha
	}
	m.Prune()

	return nil
}

// DivScalarInPlace divides every stored value by alpha. Quotients that
// underflow to exactly 0 are pruned. alpha == 0 yields ±Inf values, which
// a validating store rejects with ErrNaNInf before touching anything.
func (m *CSC) DivScalarInPlace(alpha float64) error {
	if m.validateNaNInf && (isNonFinite(alpha) || (alpha == 0 && m.nnz > 0)) {
		return opErrorf(ctxDivScalar, ErrNaNInf)
	}
	for k := range m.values {
		m.values[k] /= alpha
	}
	m.Prune()

	return nil
}

// Prune removes stored entries equal to exactly 0 and returns how many were removed.
func (m *CSC) Prune() int { return m.Clean(0) }

// Clean removes stored entries with |v| <= tol and returns how many were removed.
// Complexity: O(nnz + cols), in place.
func (m *CSC) Clean(tol float64) int {
	w := 0
	lo := 0
	for c := 0; c < m.cols; c++ {
		hi := m.colPtr[c+1]
		for p := lo; p < hi; p++ {
			if v := m.values[p]; v > tol || v < -tol || v != v {
				m.values[w] = v
				m.rowIdx[w] = m.rowIdx[p]
				w++
			}
		}
		lo = hi
		m.colPtr[c+1] = w
	}
	removed := m.nnz - w
	if removed > 0 {
		m.resizeCapacity(w)
	}

	return removed
}

// Transpose returns mᵀ built with a counting sort over row indices.
// Rows of the result come out ascending per column without a sort pass.
// Complexity: O(nnz + rows + cols).
func (m *CSC) Transpose() *CSC {
	t := &CSC{validateNaNInf: m.validateNaNInf}
	t.reinit(m.cols, m.rows)
	t.resizeCapacity(m.nnz)
	ptr := t.colPtr
	for k := 0; k < m.nnz; k++ {
		ptr[m.rowIdx[k]+1]++
	}
	for r := 0; r < m.rows; r++ {
		ptr[r+1] += ptr[r]
	}
	cursor := make([]int, m.rows)
	copy(cursor, ptr[:m.rows])
	for c := 0; c < m.cols; c++ {
		for p := m.colPtr[c]; p < m.colPtr[c+1]; p++ {
			r := m.rowIdx[p]
			q := cursor[r]
			t.rowIdx[q] = c
			t.values[q] = m.values[p]
			cursor[r]++
		}
	}

	return t
}

// MulVec returns y = m·x.
func (m *CSC) MulVec(x []float64) ([]float64, error) {
	y := make([]float64, m.rows)
	if err := m.MulVecTo(y, x); err != nil {
		return nil, err
	}

	return y, nil
}

// MulVecTo computes y = m·x by walking stored entries column-major:
// y[row] += value * x[col]. len(x) == Cols, len(y) == Rows; y is overwritten.
// Complexity: O(nnz + cols).
func (m *CSC) MulVecTo(y, x []float64) error {
	if len(x) != m.cols || len(y) != m.rows {
		return fmt.Errorf("%s: len(x)=%d len(y)=%d for %dx%d: %w", ctxMulVec, len(x), len(y), m.rows, m.cols, ErrDimensionMismatch)
	}
	clear(y)
	for c := 0; c < m.cols; c++ {
		xc := x[c]
		if xc == 0 {
			continue
		}
		for p := m.colPtr[c]; p < m.colPtr[c+1]; p++ {
			y[m.rowIdx[p]] += m.values[p] * xc
		}
	}

	return nil
}

// MulTransVecTo computes y = mᵀ·x. len(x) == Rows, len(y) == Cols.
func (m *CSC) MulTransVecTo(y, x []float64) error {
	if len(x) != m.rows || len(y) != m.cols {
		return fmt.Errorf("%s: len(x)=%d len(y)=%d for %dx%d: %w", ctxMulTVec, len(x), len(y), m.rows, m.cols, ErrDimensionMismatch)
	}
	var acc float64
	for c := 0; c < m.cols; c++ {
		acc = 0
		for p := m.colPtr[c]; p < m.colPtr[c+1]; p++ {
			acc += m.values[p] * x[m.rowIdx[p]]
		}
		y[c] = acc
	}

	return nil
}
