// SPDX-License-Identifier: MIT

// Package sparse implements a compressed-sparse-column (CSC) matrix engine.
//
// What is here:
//
//   - CSC: three parallel arrays (values, row indices, column pointers) kept
//     valid under point mutation (Set inserts, overwrites or deletes), bulk
//     rebuilds (SetSize, Identity, Reshape, Resize), in-place arithmetic
//     (AddInPlace, ..., ScaleInPlace) and products (MulVecTo, Transpose).
//   - Element: a cell accessor that is either bound to an existing slot or
//     pending insertion; writes of 0 delete, nonzero writes insert.
//   - ColIter / RowIter: column-major and row-major traversal of stored
//     entries. Row-major traversal re-scans every column per step.
//   - Subview: a window sharing the parent's arrays with an exact cached
//     nonzero count and alias-safe compound assignment.
//   - Build: the counting-sort builder shared by every import path
//     (Triplets, CSRSource, CSCSource), with duplicate, mirror and unit
//     diagonal handling.
//   - FromDense / ToDense and roaring-bitmap sparsity patterns.
//
// Example:
//
//	m, _ := sparse.FromTriplets(3, 3, sparse.Triplets{
//		Rows: []int{0, 1, 2}, Cols: []int{0, 1, 2}, Vals: []float64{1, 1, 1},
//	})
//	d, _ := m.ToDense() // 3×3 identity
//
// Concurrency: a CSC and everything derived from it (elements, iterators,
// subviews) must be used from one goroutine at a time.
package sparse
