// SPDX-License-Identifier: MIT

// Package sparse - iterators over stored entries.
//
// ColIter walks the compressed arrays directly (column-major, O(1) per step).
// RowIter yields entries in row-major order; CSC has no row index, so every
// step re-scans all columns with a binary search for the next smallest
// (row, col) pair: O(cols·log nnz_col) per step. This cost is inherent to
// row-major traversal of column storage.
//
// Invalidation: Set, Element writes that insert or delete, structural
// rebuilds and the in-place kernels bump the store generation. An iterator
// created before such a change reports Stale() and must be re-derived; its
// accessors must not be used.
package sparse

import "sort"

// ---------- column-major ----------

// ColIter is a bidirectional column-major cursor over stored entries.
type ColIter struct {
	m   *CSC
	pos int // slot index in [−1, nnz]; nnz is the end position
	col int // column owning pos (cols at the end position)
	gen uint64
}

// ColBegin returns an iterator at the first stored entry (or at the end
// position when the matrix has none).
func (m *CSC) ColBegin() *ColIter {
	it := &ColIter{m: m, gen: m.gen}
	it.advanceCol()

	return it
}

// ColEnd returns the end position (one past the last stored entry).
func (m *CSC) ColEnd() *ColIter {
	return &ColIter{m: m, pos: m.nnz, col: m.cols, gen: m.gen}
}

// advanceCol moves col forward until colPtr[col+1] > pos; the sentinel
// colPtr[cols+1] bounds the loop at col == cols.
func (it *ColIter) advanceCol() {
	for it.m.colPtr[it.col+1] <= it.pos {
		it.col++
	}
}

// Valid reports whether the iterator addresses a stored entry.
func (it *ColIter) Valid() bool { return it.pos >= 0 && it.pos < it.m.nnz }

// Stale reports whether the store changed structurally since creation.
func (it *ColIter) Stale() bool { return it.gen != it.m.gen }

// Next advances one entry; a no-op at the end position.
func (it *ColIter) Next() {
	if it.pos >= it.m.nnz {
		return
	}
	it.pos++
	it.advanceCol()
}

// Prev steps back one entry; stepping back from the first entry leaves the
// iterator before the beginning (Valid() == false).
func (it *ColIter) Prev() {
	if it.pos < 0 {
		return
	}
	it.pos--
	for it.col > 0 && it.m.colPtr[it.col] > it.pos {
		it.col--
	}
}

// Row returns the row of the current entry.
func (it *ColIter) Row() int { return it.m.rowIdx[it.pos] }

// Col returns the column of the current entry.
func (it *ColIter) Col() int { return it.col }

// Value returns the current value.
func (it *ColIter) Value() float64 { return it.m.values[it.pos] }

// Pos returns the backing slot index.
func (it *ColIter) Pos() int { return it.pos }

// SetValue overwrites the current entry in place. Writing 0 deletes the
// entry, which invalidates this and every other iterator of the store.
func (it *ColIter) SetValue(v float64) error {
	if !it.Valid() {
		return opErrorf("ColIter.SetValue", ErrIndexOutOfBounds)
	}

	return it.m.Set(it.m.rowIdx[it.pos], it.col, v)
}

// ---------- row-major ----------

// RowIter is a bidirectional row-major cursor over stored entries.
type RowIter struct {
	m     *CSC
	row   int
	col   int
	pos   int // backing slot of (row, col)
	count int // ordinal in row-major order; −1 before begin, nnz at end
	gen   uint64
}

// RowBegin returns a row-major iterator at the smallest (row, col) entry.
func (m *CSC) RowBegin() *RowIter {
	it := &RowIter{m: m, count: -1, gen: m.gen}
	it.Next()

	return it
}

// RowEnd returns the row-major end position.
func (m *CSC) RowEnd() *RowIter {
	return &RowIter{m: m, row: m.rows, col: m.cols, pos: -1, count: m.nnz, gen: m.gen}
}

// Valid reports whether the iterator addresses a stored entry.
func (it *RowIter) Valid() bool { return it.count >= 0 && it.count < it.m.nnz }

// Stale reports whether the store changed structurally since creation.
func (it *RowIter) Stale() bool { return it.gen != it.m.gen }

// Next advances to the next entry in row-major order.
// Candidates: in columns j > col the first entry with row >= current row;
// in columns j <= col the first entry with row > current row. The
// lexicographically smallest candidate wins. Before the beginning every
// column's first entry is a candidate.
func (it *RowIter) Next() {
	m := it.m
	if it.count >= m.nnz {
		return
	}
	bestRow, bestCol, bestPos := -1, -1, -1
	for j := 0; j < m.cols; j++ {
		lo, hi := m.colPtr[j], m.colPtr[j+1]
		if lo == hi {
			continue
		}
		var p int
		switch {
		case it.count < 0:
			p = lo
		case j > it.col:
			p = lo + sort.SearchInts(m.rowIdx[lo:hi], it.row)
		default:
			p = lo + sort.SearchInts(m.rowIdx[lo:hi], it.row+1)
		}
		if p >= hi {
			continue
		}
		if r := m.rowIdx[p]; bestPos < 0 || r < bestRow {
			bestRow, bestCol, bestPos = r, j, p
		}
	}
	it.count++
	if bestPos < 0 {
		it.row, it.col, it.pos, it.count = m.rows, m.cols, -1, m.nnz
		return
	}
	it.row, it.col, it.pos = bestRow, bestCol, bestPos
}

// Prev steps back to the previous entry in row-major order (mirror of Next:
// in columns j < col the last entry with row <= current row, in columns
// j >= col the last entry with row < current row, lexicographic maximum).
func (it *RowIter) Prev() {
	m := it.m
	if it.count < 0 {
		return
	}
	atEnd := it.count >= m.nnz
	bestRow, bestCol, bestPos := -1, -1, -1
	for j := 0; j < m.cols; j++ {
		lo, hi := m.colPtr[j], m.colPtr[j+1]
		if lo == hi {
			continue
		}
		var p int
		switch {
		case atEnd:
			p = hi - 1
		case j < it.col:
			p = lo + sort.SearchInts(m.rowIdx[lo:hi], it.row+1) - 1
		default:
			p = lo + sort.SearchInts(m.rowIdx[lo:hi], it.row) - 1
		}
		if p < lo {
			continue
		}
		// Ties on row resolve to the larger column: later j wins with >=.
		if r := m.rowIdx[p]; bestPos < 0 || r >= bestRow {
			bestRow, bestCol, bestPos = r, j, p
		}
	}
	if atEnd {
		it.count = m.nnz
	}
	it.count--
	if bestPos < 0 {
		it.row, it.col, it.pos, it.count = -1, -1, -1, -1
		return
	}
	it.row, it.col, it.pos = bestRow, bestCol, bestPos
}

// Row returns the current row.
func (it *RowIter) Row() int { return it.row }

// Col returns the current column.
func (it *RowIter) Col() int { return it.col }

// Pos returns the backing slot index of the current entry.
func (it *RowIter) Pos() int { return it.pos }

// Value returns the current value.
func (it *RowIter) Value() float64 { return it.m.values[it.pos] }
