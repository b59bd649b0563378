// SPDX-License-Identifier: MIT

// Package sparse: sentinel error set.
//
// Shape, index and numeric-policy sentinels are aliases of the matrix
// package sentinels, so errors.Is works across the dense/sparse boundary:
// errors.Is(err, matrix.ErrDimensionMismatch) holds for every sparse shape
// mismatch and vice versa. Context is attached at the detection site with
// cscErrorf / viewErrorf / opErrorf.

package sparse

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvsparse/matrix"
)

var (
	// ErrDimensionMismatch reports a binary-operation shape disagreement.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrIndexOutOfBounds reports a read or write outside [0,rows)×[0,cols).
	ErrIndexOutOfBounds = matrix.ErrOutOfRange

	// ErrInvalidDimensions reports negative dimensions passed to a constructor.
	ErrInvalidDimensions = matrix.ErrInvalidDimensions

	// ErrBadShape reports a subview window that does not fit its parent.
	ErrBadShape = matrix.ErrBadShape

	// ErrNaNInf reports a non-finite value rejected by the numeric policy.
	ErrNaNInf = matrix.ErrNaNInf

	// ErrNilMatrix reports a nil receiver or operand.
	ErrNilMatrix = matrix.ErrNilMatrix
)

var (
	// ErrUnsupportedFormat reports an unrecognized interchange tag on import.
	// Import fails before anything is built.
	ErrUnsupportedFormat = errors.New("sparse: unsupported interchange format")

	// ErrStructuralAssertion reports a violated structural precondition:
	// inconsistent interchange slots, a non-square eigen operator, an
	// out-of-range eigenpair count, or a broken internal invariant.
	ErrStructuralAssertion = errors.New("sparse: structural assertion failed")

	// ErrNumericFailure reports solver non-convergence or a singular/ill-posed request.
	ErrNumericFailure = errors.New("sparse: numeric failure")

	// ErrCapacityOverflow reports dimensions whose product exceeds the index
	// range of the int type or of a backend (32-bit pattern bitmaps).
	ErrCapacityOverflow = errors.New("sparse: capacity overflow")
)

// cscErrorf wraps err as "CSC.<method>(row,col): %w".
func cscErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("CSC.%s(%d,%d): %w", method, row, col, err)
}

// viewErrorf wraps err as "Subview.<method>(row,col): %w".
func viewErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Subview.%s(%d,%d): %w", method, row, col, err)
}

// opErrorf wraps err as "<tag>: %w".
func opErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
