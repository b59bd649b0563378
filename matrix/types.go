// SPDX-License-Identifier: MIT

// Package matrix: the Matrix contract shared by dense and sparse storage.
// Dense (this package) and sparse.CSC both satisfy it, so the generic kernels
// here accept either through their interface path.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: Rows/Cols are O(1) everywhere; At/Set are O(1) for Dense
// and O(log nnz_col) (+ O(nnz) on structural change) for compressed storage.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	// The returned Matrix is independent of the original.
	Clone() Matrix
}
