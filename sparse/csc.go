// SPDX-License-Identifier: MIT

// Package sparse - compressed sparse column storage.
//
// Layout:
//   - values[k], rowIdx[k] for k in [0,nnz): stored entries grouped by column.
//   - colPtr[c]..colPtr[c+1]: the slot range of column c; colPtr has cols+2
//     slots and colPtr[cols+1] is a math.MaxInt sentinel consumed by the
//     column iterator's boundary advance.
//
// Invariants after every exported operation:
//   - colPtr[0] == 0, non-decreasing, colPtr[cols] == nnz.
//   - rowIdx is strictly increasing inside every column.
//   - len(values) == len(rowIdx) == nnz.
//   - no stored value is an exact zero.
//
// Complexity quicksheet:
//   - At: O(log nnz_col); Set overwrite: O(log nnz_col);
//     Set insert/delete: O(nnz + cols) (tail shift + pointer fix-up).

package sparse

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/lvsparse/matrix"
)

const (
	ctxAt       = "At"
	ctxSet      = "Set"
	ctxElem     = "Elem"
	ctxSwapRows = "SwapRows"
	ctxSwapCols = "SwapCols"
)

const sentinel = math.MaxInt

// CSC is a compressed-sparse-column matrix of float64.
// The zero value is not usable; construct with New or Build.
// A CSC is not safe for concurrent mutation.
type CSC struct {
	rows, cols     int
	nnz            int       // cached number of stored entries
	values         []float64 // len == nnz
	rowIdx         []int     // len == nnz
	colPtr         []int     // len == cols+2
	gen            uint64    // bumped on every structural change
	validateNaNInf bool
}

var (
	_ matrix.Matrix = (*CSC)(nil)
	_ fmt.Stringer  = (*CSC)(nil)
)

// checkDims rejects negative dimensions and rows*cols overflowing int.
func checkDims(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return ErrInvalidDimensions
	}
	if rows > 0 && cols > math.MaxInt/rows {
		return ErrCapacityOverflow
	}

	return nil
}

// New returns an empty rows×cols matrix. New(0, 0) is the empty matrix.
//
// Errors:
//   - ErrInvalidDimensions for negative dimensions.
//   - ErrCapacityOverflow when rows*cols does not fit in int.
func New(rows, cols int, opts ...Option) (*CSC, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, fmt.Errorf("New(%d,%d): %w", rows, cols, err)
	}
	o := gatherOptions(opts...)
	m := &CSC{validateNaNInf: o.validateNaNInf}
	m.reinit(rows, cols)

	return m, nil
}

// NewIdentity returns the n×n identity.
func NewIdentity(n int, opts ...Option) (*CSC, error) {
	m, err := New(n, n, opts...)
	if err != nil {
		return nil, err
	}
	m.fillIdentity(n)

	return m, nil
}

// reinit discards all entries and resets the shape.
func (m *CSC) reinit(rows, cols int) {
	m.rows, m.cols = rows, cols
	m.nnz = 0
	m.values = m.values[:0]
	m.rowIdx = m.rowIdx[:0]
	m.colPtr = make([]int, cols+2)
	m.colPtr[cols+1] = sentinel
	m.gen++
}

// resizeCapacity sets the slot count to n, preserving the first min(n, nnz)
// slots. colPtr is left untouched: the caller populates the new slots and
// rewrites colPtr before the structure is valid again.
func (m *CSC) resizeCapacity(n int) {
	if n <= cap(m.values) {
		m.values = m.values[:n]
		m.rowIdx = m.rowIdx[:n]
	} else {
		vals := make([]float64, n)
		rows := make([]int, n)
		copy(vals, m.values)
		copy(rows, m.rowIdx)
		m.values, m.rowIdx = vals, rows
	}
	m.nnz = n
	m.gen++
}

// Rows returns the number of rows.
func (m *CSC) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *CSC) Cols() int { return m.cols }

// Shape returns (Rows, Cols).
func (m *CSC) Shape() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *CSC) NNZ() int { return m.nnz }

// inBounds reports 0<=i<rows and 0<=j<cols.
func (m *CSC) inBounds(i, j int) bool {
	return i >= 0 && i < m.rows && j >= 0 && j < m.cols
}

// find binary-searches row i inside column j. It returns the slot position
// when found, otherwise the insertion position that keeps the column sorted.
func (m *CSC) find(i, j int) (pos int, found bool) {
	lo, hi := m.colPtr[j], m.colPtr[j+1]
	pos = lo + sort.SearchInts(m.rowIdx[lo:hi], i)

	return pos, pos < hi && m.rowIdx[pos] == i
}

// At returns the value at (i, j); absent cells read as 0.
// Returns ErrIndexOutOfBounds outside the declared extent.
func (m *CSC) At(i, j int) (float64, error) {
	if !m.inBounds(i, j) {
		return 0, cscErrorf(ctxAt, i, j, ErrIndexOutOfBounds)
	}
	if pos, ok := m.find(i, j); ok {
		return m.values[pos], nil
	}

	return 0, nil
}

// Get is an alias of At.
func (m *CSC) Get(i, j int) (float64, error) { return m.At(i, j) }

// Set stores v at (i, j) keeping the compressed invariants.
// MAIN DESCRIPTION:
//   - zero + absent:   no-op (the matrix is left bit-for-bit unchanged).
//   - zero + present:  the slot is deleted.
//   - nonzero + present: overwrite in place.
//   - nonzero + absent:  insert at the binary-searched position.
//
// Implementation:
//   - Insert shifts the tail of values/rowIdx right by one and increments
//     colPtr[j+1..cols]; delete mirrors this.
//
// Errors:
//   - ErrIndexOutOfBounds; ErrNaNInf when the store validates NaN/Inf.
//
// Complexity:
//   - Overwrite O(log nnz_col); insert/delete O(nnz + cols).
func (m *CSC) Set(i, j int, v float64) error {
	if !m.inBounds(i, j) {
		return cscErrorf(ctxSet, i, j, ErrIndexOutOfBounds)
	}
	if m.validateNaNInf && isNonFinite(v) {
		return cscErrorf(ctxSet, i, j, ErrNaNInf)
	}
	pos, found := m.find(i, j)
	switch {
	case found && v == 0:
		m.deleteAt(pos, j)
	case found:
		m.values[pos] = v
	case v != 0:
		m.insertAt(pos, i, j, v)
	}

	return nil
}

// insertAt places (i, v) at slot pos of column j.
func (m *CSC) insertAt(pos, i, j int, v float64) {
	m.values = append(m.values, 0)
	m.rowIdx = append(m.rowIdx, 0)
	copy(m.values[pos+1:], m.values[pos:m.nnz])
	copy(m.rowIdx[pos+1:], m.rowIdx[pos:m.nnz])
	m.values[pos] = v
	m.rowIdx[pos] = i
	m.nnz++
	for c := j + 1; c <= m.cols; c++ {
		m.colPtr[c]++
	}
	m.gen++
}

// deleteAt removes slot pos of column j.
func (m *CSC) deleteAt(pos, j int) {
	copy(m.values[pos:], m.values[pos+1:m.nnz])
	copy(m.rowIdx[pos:], m.rowIdx[pos+1:m.nnz])
	m.nnz--
	m.values = m.values[:m.nnz]
	m.rowIdx = m.rowIdx[:m.nnz]
	for c := j + 1; c <= m.cols; c++ {
		m.colPtr[c]--
	}
	m.gen++
}

// Clone returns an independent deep copy as a matrix.Matrix (dynamic type *CSC).
func (m *CSC) Clone() matrix.Matrix { return m.Copy() }

// Copy returns an independent deep copy.
func (m *CSC) Copy() *CSC {
	out := &CSC{
		rows:           m.rows,
		cols:           m.cols,
		nnz:            m.nnz,
		values:         append([]float64(nil), m.values...),
		rowIdx:         append([]int(nil), m.rowIdx...),
		colPtr:         append([]int(nil), m.colPtr...),
		validateNaNInf: m.validateNaNInf,
	}

	return out
}

// Equal reports identical shape and identical stored entries.
func (m *CSC) Equal(b *CSC) bool {
	if b == nil || m.rows != b.rows || m.cols != b.cols || m.nnz != b.nnz {
		return false
	}
	for c := 0; c <= m.cols; c++ {
		if m.colPtr[c] != b.colPtr[c] {
			return false
		}
	}
	for k := 0; k < m.nnz; k++ {
		if m.rowIdx[k] != b.rowIdx[k] || m.values[k] != b.values[k] {
			return false
		}
	}

	return true
}

// Raw returns copies of the three compressed arrays; colPtr has cols+1
// entries (the sentinel is not exposed).
func (m *CSC) Raw() (values []float64, rowIdx, colPtr []int) {
	values = append([]float64(nil), m.values...)
	rowIdx = append([]int(nil), m.rowIdx...)
	colPtr = append([]int(nil), m.colPtr[:m.cols+1]...)

	return values, rowIdx, colPtr
}

// ---------- structural rebuilds ----------

// SetSize resets the shape to rows×cols and discards all entries.
func (m *CSC) SetSize(rows, cols int) error {
	if err := checkDims(rows, cols); err != nil {
		return fmt.Errorf("CSC.SetSize(%d,%d): %w", rows, cols, err)
	}
	m.reinit(rows, cols)

	return nil
}

// Reset turns m into the empty 0×0 matrix.
func (m *CSC) Reset() { m.reinit(0, 0) }

// Zeros resets m to an all-zero rows×cols matrix.
func (m *CSC) Zeros(rows, cols int) error { return m.SetSize(rows, cols) }

// Identity rebuilds m as the n×n identity: n entries, one per column.
func (m *CSC) Identity(n int) error {
	if err := m.SetSize(n, n); err != nil {
		return err
	}
	m.fillIdentity(n)

	return nil
}

func (m *CSC) fillIdentity(n int) {
	m.resizeCapacity(n)
	for c := 0; c < n; c++ {
		m.values[c] = 1
		m.rowIdx[c] = c
		m.colPtr[c+1] = c + 1
	}
}

// Reshape changes the shape to rows×cols preserving column-major linear order:
// the entry with linear index k = j*oldRows + i moves to (k%rows, k/rows).
// Entries whose linear index does not fit the new shape are dropped; new
// cells are zero.
// Complexity: O(nnz + cols).
func (m *CSC) Reshape(rows, cols int) error {
	if err := checkDims(rows, cols); err != nil {
		return fmt.Errorf("CSC.Reshape(%d,%d): %w", rows, cols, err)
	}
	limit := rows * cols
	vals := make([]float64, 0, m.nnz)
	idx := make([]int, 0, m.nnz)
	ptr := make([]int, cols+2)

	var k, nr, nc int
	for c := 0; c < m.cols; c++ {
		for p := m.colPtr[c]; p < m.colPtr[c+1]; p++ {
			k = c*m.rows + m.rowIdx[p]
			if k >= limit {
				break
			}
			nr, nc = k%rows, k/rows
			vals = append(vals, m.values[p])
			idx = append(idx, nr)
			ptr[nc+1]++
		}
	}
	for c := 0; c < cols; c++ {
		ptr[c+1] += ptr[c]
	}
	ptr[cols+1] = sentinel
	m.install(rows, cols, vals, idx, ptr)

	return nil
}

// Resize changes the shape to rows×cols keeping every entry whose (i,j)
// still fits; new cells are zero.
// Complexity: O(nnz + cols).
func (m *CSC) Resize(rows, cols int) error {
	if err := checkDims(rows, cols); err != nil {
		return fmt.Errorf("CSC.Resize(%d,%d): %w", rows, cols, err)
	}
	vals := make([]float64, 0, m.nnz)
	idx := make([]int, 0, m.nnz)
	ptr := make([]int, cols+2)
	keep := min(cols, m.cols)
	for c := 0; c < keep; c++ {
		for p := m.colPtr[c]; p < m.colPtr[c+1] && m.rowIdx[p] < rows; p++ {
			vals = append(vals, m.values[p])
			idx = append(idx, m.rowIdx[p])
		}
		ptr[c+1] = len(vals)
	}
	for c := keep; c < cols; c++ {
		ptr[c+1] = len(vals)
	}
	ptr[cols+1] = sentinel
	m.install(rows, cols, vals, idx, ptr)

	return nil
}

// install swaps in freshly built arrays.
func (m *CSC) install(rows, cols int, vals []float64, idx, ptr []int) {
	m.rows, m.cols = rows, cols
	m.values, m.rowIdx, m.colPtr = vals, idx, ptr
	m.nnz = len(vals)
	m.gen++
}

// ---------- swaps ----------

// SwapRows exchanges rows a and b. Entries move inside their column, so
// colPtr and nnz are unchanged.
// Complexity: O(cols·log nnz_col + moved slots).
func (m *CSC) SwapRows(a, b int) error {
	if a < 0 || a >= m.rows || b < 0 || b >= m.rows {
		return cscErrorf(ctxSwapRows, a, b, ErrIndexOutOfBounds)
	}
	if a == b {
		return nil
	}
	for c := 0; c < m.cols; c++ {
		pa, fa := m.find(a, c)
		pb, fb := m.find(b, c)
		switch {
		case fa && fb:
			m.values[pa], m.values[pb] = m.values[pb], m.values[pa]
		case fa:
			m.moveInColumn(pa, pb, b)
		case fb:
			m.moveInColumn(pb, pa, a)
		}
	}
	m.gen++

	return nil
}

// moveInColumn relocates the slot at from so that it holds row newRow,
// where to is the insertion position of newRow computed before the move.
func (m *CSC) moveInColumn(from, to, newRow int) {
	v := m.values[from]
	if to > from {
		copy(m.values[from:to-1], m.values[from+1:to])
		copy(m.rowIdx[from:to-1], m.rowIdx[from+1:to])
		to--
	} else {
		copy(m.values[to+1:from+1], m.values[to:from])
		copy(m.rowIdx[to+1:from+1], m.rowIdx[to:from])
	}
	m.values[to] = v
	m.rowIdx[to] = newRow
}

// SwapCols exchanges columns a and b by rebuilding the compressed arrays.
// Complexity: O(nnz + cols).
func (m *CSC) SwapCols(a, b int) error {
	if a < 0 || a >= m.cols || b < 0 || b >= m.cols {
		return cscErrorf(ctxSwapCols, a, b, ErrIndexOutOfBounds)
	}
	if a == b {
		return nil
	}
	vals := make([]float64, 0, m.nnz)
	idx := make([]int, 0, m.nnz)
	ptr := make([]int, m.cols+2)
	for c := 0; c < m.cols; c++ {
		src := c
		switch c {
		case a:
			src = b
		case b:
			src = a
		}
		lo, hi := m.colPtr[src], m.colPtr[src+1]
		vals = append(vals, m.values[lo:hi]...)
		idx = append(idx, m.rowIdx[lo:hi]...)
		ptr[c+1] = len(vals)
	}
	ptr[m.cols+1] = sentinel
	m.install(m.rows, m.cols, vals, idx, ptr)

	return nil
}

// ---------- visitors & formatting ----------

// Do visits stored entries in column-major order; stops when f returns false.
func (m *CSC) Do(f func(i, j int, v float64) bool) {
	for c := 0; c < m.cols; c++ {
		for p := m.colPtr[c]; p < m.colPtr[c+1]; p++ {
			if !f(m.rowIdx[p], c, m.values[p]) {
				return
			}
		}
	}
}

// Diagonal returns the main diagonal (length min(rows, cols)).
func (m *CSC) Diagonal() []float64 {
	n := min(m.rows, m.cols)
	d := make([]float64, n)
	for c := 0; c < n; c++ {
		if p, ok := m.find(c, c); ok {
			d[c] = m.values[p]
		}
	}

	return d
}

// Trace returns the sum of the main diagonal.
func (m *CSC) Trace() float64 {
	var s float64
	for _, v := range m.Diagonal() {
		s += v
	}

	return s
}

// String lists the shape and the stored entries as "(i, j) v" lines.
func (m *CSC) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CSC %dx%d nnz=%d\n", m.rows, m.cols, m.nnz)
	m.Do(func(i, j int, v float64) bool {
		fmt.Fprintf(&b, "(%d, %d) %g\n", i, j, v)
		return true
	})

	return b.String()
}
