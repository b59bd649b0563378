// SPDX-License-Identifier: MIT

// Package matrix - dense linear-algebra kernels.
//
// Kernels accept any Matrix. When the operands are concrete *Dense they take a
// flat-slice fast path; otherwise they fall back to At/Set with a fixed i→j
// order. Results are always freshly allocated Dense values; inputs are never
// mutated. Sparse storage reaches these kernels through the generic path.
package matrix

import (
	"fmt"
	"math"
)

// Operation tags used in error wrapping (grep-friendly, stable).
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opEigen     = "Eigen"
)

// Numeric literals shared by the kernels.
const (
	ZeroSum  = 0.0 // accumulator seed
	NormZero = 0.0 // running-max seed for norms
)

// matrixErrorf attaches an operation tag: "<tag>: %w". Only call with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes out = a + sign*b for sign ∈ {+1, -1}; shared by Add/Sub.
func addSub(a, b Matrix, sign float64, opTag string) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := NewDenseZeroOK(rows, cols, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	// Fast path: *Dense with *Dense → single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range res.data {
				res.data[idx] = da.data[idx] + sign*db.data[idx]
			}

			return res, nil
		}
	}

	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[i*cols+j] = av + sign*bv
		}
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (Matrix, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
func Sub(a, b Matrix) (Matrix, error) { return addSub(a, b, -1, opSub) }

// Transpose returns a fresh Dense Aᵀ.
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDenseZeroOK(cols, rows, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	if d, ok := m.(*Dense); ok {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				res.data[j*rows+i] = d.data[i*cols+j]
			}
		}

		return res, nil
	}

	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// MatVec computes y = M·x.
// MAIN DESCRIPTION:
//   - Dense fast path does flat row-major dot products, skipping zero x[j].
//
// Errors:
//   - ErrNilMatrix (nil m or x), ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var acc float64
		for i = 0; i < d.r; i++ {
			acc = ZeroSum
			base = i * d.c
			for j = 0; j < d.c; j++ {
				if x[j] != 0 {
					acc += d.data[base+j] * x[j]
				}
			}
			y[i] = acc
		}

		return y, nil
	}

	var mv float64
	var err error
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
// MAIN DESCRIPTION:
//   - Classical Jacobi: repeatedly pick (p,q) with the largest |A[p,q]| (i→j scan
//     order, first maximum wins) and annihilate it with a plane rotation.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol).
//   - Stage 2: copy m into a working Dense A; Q = I.
//   - Stage 3: rotate until max|A[p,q]| < tol or maxIter rotations were applied.
//
// Inputs:
//   - m: symmetric Matrix (within tol).
//   - tol: convergence threshold on the largest off-diagonal magnitude.
//   - maxIter: cap on rotations.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix, unordered).
//   - Matrix: *Dense Q whose column k is the eigenvector of eigenvalue k.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square), ErrAsymmetry,
//     ErrNaNInf (non-finite tol), ErrMatrixEigenFailed (not converged).
//
// Determinism:
//   - Fixed pivot search and update order.
//
// Complexity:
//   - Time O(maxIter * n), plus O(n^2) per pivot search; Space O(n^2).
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.Rows()

	a, err := NewDenseZeroOK(n, n, WithNoValidateNaNInf())
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	q, _ := NewDenseZeroOK(n, n, WithNoValidateNaNInf())

	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		q.data[i*n+i] = 1
		for j = 0; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, nil, matrixErrorf(opEigen, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			a.data[i*n+j] = v
		}
	}

	var (
		p, r           int     // pivot (row p, col r), p < r
		maxOff         float64 // largest |A[p,r]|
		app, arr, apr  float64
		aip, air       float64
		theta, t, c, s float64
	)
	for iter := 0; ; iter++ {
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if v = math.Abs(a.data[i*n+j]); v > maxOff {
					maxOff, p, r = v, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}
		if iter >= maxIter {
			return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
		}

		app, arr, apr = a.data[p*n+p], a.data[r*n+r], a.data[p*n+r]
		theta = (arr - app) / (2 * apr)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == r {
				continue
			}
			aip, air = a.data[i*n+p], a.data[i*n+r]
			a.data[i*n+p] = c*aip - s*air
			a.data[p*n+i] = a.data[i*n+p]
			a.data[i*n+r] = s*aip + c*air
			a.data[r*n+i] = a.data[i*n+r]
		}
		a.data[p*n+p] = app - t*apr
		a.data[r*n+r] = arr + t*apr
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		for i = 0; i < n; i++ {
			aip, air = q.data[i*n+p], q.data[i*n+r]
			q.data[i*n+p] = c*aip - s*air
			q.data[i*n+r] = s*aip + c*air
		}
	}

	vals := make([]float64, n)
	for i = 0; i < n; i++ {
		vals[i] = a.data[i*n+i]
	}

	return vals, q, nil
}

