// SPDX-License-Identifier: MIT

// Package sparse - rectangular windows sharing a parent's storage.
//
// A Subview never owns storage. Every write is routed through the parent's
// Set and the cached count is reconciled from the parent's count before and
// after the write, so the window's NNZ always equals a re-scan of the
// covered cells. A Subview must not outlive structural rebuilds of its
// parent that change the parent's shape (SetSize, Reshape, Resize, ...).
package sparse

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvsparse/matrix"
)

const (
	ctxView     = "View"
	ctxAssign   = "Subview.Assign"
	ctxVAdd     = "Subview.AddInPlace"
	ctxVSub     = "Subview.SubInPlace"
	ctxVMulElem = "Subview.MulElemInPlace"
	ctxVDivElem = "Subview.DivElemInPlace"
	ctxVScale   = "Subview.ScaleInPlace"
	ctxVFill    = "Subview.Fill"
	ctxVMulVec  = "Subview.MulVecTo"
)

// Subview is a window [r0, r0+rows) × [c0, c0+cols) of a parent CSC.
type Subview struct {
	parent     *CSC
	r0, c0     int
	rows, cols int
	nnz        int // cached stored-entry count inside the window
}

var _ matrix.Matrix = (*Subview)(nil)

// View returns the window [r0, r0+rows) × [c0, c0+cols). Zero-area windows
// are legal. The cached count is computed by scanning the covered columns.
//
// Errors:
//   - ErrBadShape when the window does not fit.
//
// Complexity:
//   - O(cols·log nnz_col) with binary-searched row bounds per column.
func (m *CSC) View(r0, c0, rows, cols int) (*Subview, error) {
	if r0 < 0 || c0 < 0 || rows < 0 || cols < 0 || r0+rows > m.rows || c0+cols > m.cols {
		return nil, fmt.Errorf("CSC.%s(%d,%d,%d,%d): %w", ctxView, r0, c0, rows, cols, ErrBadShape)
	}
	v := &Subview{parent: m, r0: r0, c0: c0, rows: rows, cols: cols}
	v.nnz = v.recount()

	return v, nil
}

// colRange returns the parent slot range of local column j clipped to the row window.
func (v *Subview) colRange(j int) (lo, hi int) {
	p := v.parent
	c := v.c0 + j
	lo, hi = p.colPtr[c], p.colPtr[c+1]
	col := p.rowIdx[lo:hi]
	start := sort.SearchInts(col, v.r0)
	end := sort.SearchInts(col, v.r0+v.rows)

	return lo + start, lo + end
}

func (v *Subview) recount() int {
	n := 0
	for j := 0; j < v.cols; j++ {
		lo, hi := v.colRange(j)
		n += hi - lo
	}

	return n
}

// Rows returns the window height.
func (v *Subview) Rows() int { return v.rows }

// Cols returns the window width.
func (v *Subview) Cols() int { return v.cols }

// NNZ returns the cached number of stored entries inside the window.
func (v *Subview) NNZ() int { return v.nnz }

// Parent returns the backing store.
func (v *Subview) Parent() *CSC { return v.parent }

// Offset returns the window's top-left corner in parent coordinates.
func (v *Subview) Offset() (r0, c0 int) { return v.r0, v.c0 }

func (v *Subview) inBounds(i, j int) bool {
	return i >= 0 && i < v.rows && j >= 0 && j < v.cols
}

// At reads local cell (i, j).
func (v *Subview) At(i, j int) (float64, error) {
	if !v.inBounds(i, j) {
		return 0, viewErrorf(ctxAt, i, j, ErrIndexOutOfBounds)
	}

	return v.parent.At(v.r0+i, v.c0+j)
}

// Set writes local cell (i, j) through the parent and reconciles NNZ.
func (v *Subview) Set(i, j int, val float64) error {
	if !v.inBounds(i, j) {
		return viewErrorf(ctxSet, i, j, ErrIndexOutOfBounds)
	}
	before := v.parent.nnz
	if err := v.parent.Set(v.r0+i, v.c0+j, val); err != nil {
		return err
	}
	v.nnz += v.parent.nnz - before

	return nil
}

// Elem returns an accessor for local cell (i, j).
func (v *Subview) Elem(i, j int) (*Element, error) {
	if !v.inBounds(i, j) {
		return nil, viewErrorf(ctxElem, i, j, ErrIndexOutOfBounds)
	}
	e := &Element{store: v.parent, view: v, row: v.r0 + i, col: v.c0 + j}
	e.bind()

	return e, nil
}

// Do visits the window's stored entries column-major in local coordinates.
func (v *Subview) Do(f func(i, j int, val float64) bool) {
	p := v.parent
	for j := 0; j < v.cols; j++ {
		lo, hi := v.colRange(j)
		for k := lo; k < hi; k++ {
			if !f(p.rowIdx[k]-v.r0, j, p.values[k]) {
				return
			}
		}
	}
}

// ToCSC materializes the window into an independent CSC.
func (v *Subview) ToCSC() *CSC {
	p := v.parent
	out := &CSC{validateNaNInf: p.validateNaNInf}
	out.reinit(v.rows, v.cols)
	out.resizeCapacity(v.recount())
	k := 0
	for j := 0; j < v.cols; j++ {
		lo, hi := v.colRange(j)
		for s := lo; s < hi; s++ {
			out.values[k] = p.values[s]
			out.rowIdx[k] = p.rowIdx[s] - v.r0
			k++
		}
		out.colPtr[j+1] = k
	}

	return out
}

// Clone materializes the window (dynamic type *CSC).
func (v *Subview) Clone() matrix.Matrix { return v.ToCSC() }

// MulVecTo computes y = W·x for the window W. len(x) == Cols, len(y) == Rows.
func (v *Subview) MulVecTo(y, x []float64) error {
	if len(x) != v.cols || len(y) != v.rows {
		return opErrorf(ctxVMulVec, ErrDimensionMismatch)
	}
	clear(y)
	p := v.parent
	for j := 0; j < v.cols; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		lo, hi := v.colRange(j)
		for k := lo; k < hi; k++ {
			y[p.rowIdx[k]-v.r0] += p.values[k] * xj
		}
	}

	return nil
}

// ---------- compound assignment ----------

// columnar is implemented by sources that can enumerate one column's stored
// entries without a dense scan.
type columnar interface {
	colEntries(j int, f func(i int, v float64))
}

func (m *CSC) colEntries(j int, f func(i int, v float64)) {
	for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
		f(m.rowIdx[p], m.values[p])
	}
}

func (v *Subview) colEntries(j int, f func(i int, val float64)) {
	lo, hi := v.colRange(j)
	for k := lo; k < hi; k++ {
		f(v.parent.rowIdx[k]-v.r0, v.parent.values[k])
	}
}

// aliases reports whether src reads the parent's storage inside the window:
// src is the parent itself, or a subview of the same parent whose row range
// and column range both intersect this window.
func (v *Subview) aliases(src matrix.Matrix) bool {
	switch s := src.(type) {
	case *CSC:
		return s == v.parent
	case *Subview:
		if s.parent != v.parent {
			return false
		}
		rows := s.r0 < v.r0+v.rows && v.r0 < s.r0+s.rows
		cols := s.c0 < v.c0+v.cols && v.c0 < s.c0+s.cols

		return rows && cols
	}

	return false
}

// combine applies cell = f(cell, src) over the touched cells of the window.
// touchSelf visits the window's stored cells, touchSrc the source's nonzero
// cells; every write goes through the parent's Set and NNZ is reconciled
// from the parent's count at the end.
func (v *Subview) combine(tag string, src matrix.Matrix, f func(a, b float64) float64, touchSelf, touchSrc bool) error {
	if src == nil {
		return opErrorf(tag, ErrNilMatrix)
	}
	if src.Rows() != v.rows || src.Cols() != v.cols {
		return opErrorf(tag, ErrDimensionMismatch)
	}
	if v.aliases(src) {
		src = src.Clone()
	}
	cs, sparseSrc := src.(columnar)

	before := v.parent.nnz
	defer func() { v.nnz += v.parent.nnz - before }()

	var rows []int
	var srcVals map[int]float64
	for j := 0; j < v.cols; j++ {
		rows = rows[:0]
		srcVals = make(map[int]float64)
		if touchSelf {
			lo, hi := v.colRange(j)
			for k := lo; k < hi; k++ {
				rows = append(rows, v.parent.rowIdx[k]-v.r0)
			}
		}
		if sparseSrc {
			cs.colEntries(j, func(i int, val float64) { srcVals[i] = val })
		} else {
			for i := 0; i < v.rows; i++ {
				val, err := src.At(i, j)
				if err != nil {
					return opErrorf(tag, err)
				}
				if val != 0 {
					srcVals[i] = val
				}
			}
		}
		if touchSrc {
			for i := range srcVals {
				rows = append(rows, i)
			}
		}
		sort.Ints(rows)
		for k, i := range rows {
			if k > 0 && rows[k-1] == i {
				continue
			}
			cur, _ := v.parent.At(v.r0+i, v.c0+j)
			if err := v.parent.Set(v.r0+i, v.c0+j, f(cur, srcVals[i])); err != nil {
				return opErrorf(tag, err)
			}
		}
	}

	return nil
}

// Assign copies src (same shape) into the window.
func (v *Subview) Assign(src matrix.Matrix) error {
	return v.combine(ctxAssign, src, func(_, b float64) float64 { return b }, true, true)
}

// AddInPlace performs W += src.
func (v *Subview) AddInPlace(src matrix.Matrix) error {
	return v.combine(ctxVAdd, src, func(a, b float64) float64 { return a + b }, false, true)
}

// SubInPlace performs W -= src.
func (v *Subview) SubInPlace(src matrix.Matrix) error {
	return v.combine(ctxVSub, src, func(a, b float64) float64 { return a - b }, false, true)
}

// MulElemInPlace performs the element-wise W *= src; cells absent in W stay zero.
func (v *Subview) MulElemInPlace(src matrix.Matrix) error {
	return v.combine(ctxVMulElem, src, func(a, b float64) float64 { return a * b }, true, false)
}

// DivElemInPlace performs the element-wise W /= src over cells stored in
// either operand; cells absent in both stay zero.
func (v *Subview) DivElemInPlace(src matrix.Matrix) error {
	return v.combine(ctxVDivElem, src, func(a, b float64) float64 { return a / b }, true, true)
}

// ScaleInPlace multiplies the window's stored values by alpha; alpha == 0
// deletes them.
func (v *Subview) ScaleInPlace(alpha float64) error {
	if v.parent.validateNaNInf && isNonFinite(alpha) {
		return opErrorf(ctxVScale, ErrNaNInf)
	}
	type cell struct {
		i, j int
		val  float64
	}
	cells := make([]cell, 0, v.nnz)
	v.Do(func(i, j int, val float64) bool {
		cells = append(cells, cell{i, j, val})
		return true
	})
	for _, c := range cells {
		if err := v.Set(c.i, c.j, c.val*alpha); err != nil {
			return opErrorf(ctxVScale, err)
		}
	}

	return nil
}

// Fill sets every cell of the window to val (0 clears the window).
func (v *Subview) Fill(val float64) error {
	if v.parent.validateNaNInf && isNonFinite(val) {
		return opErrorf(ctxVFill, ErrNaNInf)
	}
	before := v.parent.nnz
	defer func() { v.nnz += v.parent.nnz - before }()
	for j := 0; j < v.cols; j++ {
		for i := 0; i < v.rows; i++ {
			if err := v.parent.Set(v.r0+i, v.c0+j, val); err != nil {
				return opErrorf(ctxVFill, err)
			}
		}
	}

	return nil
}

// Zeros clears the window.
func (v *Subview) Zeros() error { return v.Fill(0) }

// SwapRows exchanges local rows a and b with paired get/set across the window.
func (v *Subview) SwapRows(a, b int) error {
	if a < 0 || a >= v.rows || b < 0 || b >= v.rows {
		return viewErrorf(ctxSwapRows, a, b, ErrIndexOutOfBounds)
	}
	for j := 0; j < v.cols; j++ {
		x, _ := v.At(a, j)
		y, _ := v.At(b, j)
		if err := v.Set(a, j, y); err != nil {
			return err
		}
		if err := v.Set(b, j, x); err != nil {
			return err
		}
	}

	return nil
}

// SwapCols exchanges local columns a and b with paired get/set across the window.
func (v *Subview) SwapCols(a, b int) error {
	if a < 0 || a >= v.cols || b < 0 || b >= v.cols {
		return viewErrorf(ctxSwapCols, a, b, ErrIndexOutOfBounds)
	}
	for i := 0; i < v.rows; i++ {
		x, _ := v.At(i, a)
		y, _ := v.At(i, b)
		if err := v.Set(i, a, y); err != nil {
			return err
		}
		if err := v.Set(i, b, x); err != nil {
			return err
		}
	}

	return nil
}
