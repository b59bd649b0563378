// SPDX-License-Identifier: MIT

// Package lvsparse is an in-memory toolkit for compressed sparse column
// matrices: building them, viewing them, doing arithmetic on them and
// pulling a handful of eigenpairs out of them.
//
// Everything lives in four subpackages:
//
//	sparse/     — the CSC store: Set/At, column and row iterators, column
//	              subviews, triplet and compressed builders, in-place
//	              arithmetic, products and roaring sparsity patterns
//	converters/ — importing Matrix-style class records (dgCMatrix,
//	              dsTMatrix, ddiMatrix, pMatrix, …) and exporting back
//	eigs/       — restarted Arnoldi/Lanczos for k eigenpairs of symmetric
//	              and general operators, with shift-invert mode
//	matrix/     — the dense row-major Matrix used for small projected problems
//
// Quick start:
//
//	src := sparse.Triplets{Rows: []int{0, 2}, Cols: []int{0, 1}, Vals: []float64{2, -1}}
//	m, _ := sparse.Build(3, 3, src)
//	y, _ := m.MulVec([]float64{1, 1, 1})
//	res, _ := eigs.Sym(laplacian, 4, eigs.WithWhich(eigs.SmallestReal))
//
// Runnable programs live under examples/.
package lvsparse
