// SPDX-License-Identifier: MIT

// Package converters imports sparse interchange records into *sparse.CSC.
//
// A Record carries the slots of a tagged sparse object: a class name such as
// "dgCMatrix" or "ltTMatrix", the dimensions and the index/value arrays that
// the class implies. Import classifies the class name, validates the slots
// against it and hands a coordinate source to sparse.Build.
//
// Accepted classes:
//
//	[dlni][gts]CMatrix   column-compressed (P, I, X)
//	[dlni][gts]RMatrix   row-compressed    (P, J, X)
//	[dlni][gts]TMatrix   triplets          (I, J, X), duplicates summed
//	[dln]diMatrix        diagonal          (X, or Diag "U")
//	indMatrix, pMatrix   index/permutation (Perm, Margin)
//
// The first letter is the value kind: d double, l logical (stored as 0/1),
// n pattern (no X; every stored value is 1), i integer. The second letter is
// the structure: g general, t triangular (Uplo, Diag), s symmetric (Uplo,
// the other triangle is mirrored). Indices in I, J, P are 0-based; Perm is
// 1-based.
//
// Unknown classes fail with sparse.ErrUnsupportedFormat before any work is
// done; slot arrays that disagree with the class or the dimensions fail with
// sparse.ErrStructuralAssertion.
package converters
