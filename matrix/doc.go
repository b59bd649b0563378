// SPDX-License-Identifier: MIT

// Package matrix provides the dense collaborator of lvsparse.
//
// The matrix package provides:
//
//   - Matrix, the minimal two-dimensional contract (Rows, Cols, At, Set, Clone)
//     implemented by Dense, MatrixView and sparse.CSC.
//   - Dense, a row-major buffer with safe accessors, no-copy views and a
//     per-instance NaN/Inf policy configured with functional options.
//   - Kernels that accept any Matrix: Add, Sub, Transpose, MatVec and the
//     Jacobi eigen-solver Eigen.
//   - Validators shared by the sibling packages (ValidateSameShape,
//     ValidateSymmetric, ...).
//
// Errors are package sentinels matched with errors.Is; kernels never panic on
// user input.
package matrix
