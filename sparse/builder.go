// SPDX-License-Identifier: MIT

// Package sparse - the shared counting-sort builder.
//
// Every triplet-like or compressed import goes through Build:
//  1. count entries per destination column;
//  2. prefix-sum the counts into colPtr;
//  3. scatter each entry at a per-column write cursor, so entries land
//     partitioned by column (ascending rows are preserved when the source
//     emits them in ascending row order, as a row-compressed source does);
//  4. stable-sort only the columns whose scatter order was not ascending;
//  5. compact: resolve duplicate coordinates and drop exact zeros.
//
// Symmetrization (WithMirror) and unit diagonals (WithUnitDiagonal) are
// folded into the same passes.
package sparse

import (
	"fmt"
	"math"
	"sort"
)

// DupPolicy selects how repeated coordinates are resolved.
type DupPolicy uint8

const (
	// DupSum adds repeated coordinates (COO convention).
	DupSum DupPolicy = iota
	// DupLast keeps the value emitted last by the source.
	DupLast
	// DupOr resolves repeated coordinates as a logical OR: 1 when any entry
	// is a nonzero number, NaN when none is but one is NaN, else 0. A cell
	// with a single entry keeps its value.
	DupOr
)

// DefaultDupPolicy is the duplicate policy of Build.
const DefaultDupPolicy = DupSum

const ctxBuild = "Build"

// CoordSource yields coordinates by index. At(k) for k in [0, Len()) returns
// the k-th (row, col, value) entry; Build reads each index twice.
type CoordSource interface {
	Len() int
	At(k int) (row, col int, v float64)
}

// checker is implemented by sources that validate their own slot layout.
type checker interface {
	check(rows, cols int) error
}

// BuildStats reports what compaction did; filled when WithStats is given.
type BuildStats struct {
	Input      int // entries read from the source (mirrors included)
	Duplicates int // entries merged into an earlier entry at the same cell
	Zeros      int // cells dropped because their resolved value was exactly 0
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	dup       DupPolicy
	mirror    bool
	unitDiag  bool
	triangle  byte // 'U' or 'L'; 0 accepts every cell
	storeOpts []Option
	stats     *BuildStats
}

// WithDuplicates selects the duplicate policy (DupSum by default).
// Panics on an unknown policy.
func WithDuplicates(p DupPolicy) BuildOption {
	if p != DupSum && p != DupLast && p != DupOr {
		panic("sparse: WithDuplicates: unknown policy")
	}

	return func(o *buildOptions) { o.dup = p }
}

// WithMirror adds (col, row, v) for every source entry with row != col.
func WithMirror() BuildOption {
	return func(o *buildOptions) { o.mirror = true }
}

// WithUnitDiagonal forces 1 on every diagonal cell; diagonal source entries are ignored.
func WithUnitDiagonal() BuildOption {
	return func(o *buildOptions) { o.unitDiag = true }
}

// WithTriangle rejects source entries outside the upper (upper == true) or
// lower triangle with ErrStructuralAssertion. Mirrored entries are not checked.
func WithTriangle(upper bool) BuildOption {
	return func(o *buildOptions) {
		o.triangle = 'L'
		if upper {
			o.triangle = 'U'
		}
	}
}

// WithBuildPolicy passes store options (numeric policy) to the built CSC.
func WithBuildPolicy(opts ...Option) BuildOption {
	return func(o *buildOptions) { o.storeOpts = append(o.storeOpts, opts...) }
}

// WithStats records compaction statistics into s.
func WithStats(s *BuildStats) BuildOption {
	return func(o *buildOptions) { o.stats = s }
}

// Build assembles a rows×cols CSC from src with a counting sort.
// MAIN DESCRIPTION:
//   - The one bulk-construction path shared by triplet, CSR, CSC and the
//     converters package.
//
// Errors:
//   - ErrInvalidDimensions / ErrCapacityOverflow for the shape.
//   - ErrStructuralAssertion for a malformed compressed source, or an entry
//     outside the triangle named by WithTriangle.
//   - ErrIndexOutOfBounds for a coordinate outside the shape (wrapped with its index).
//   - ErrNaNInf when the store policy validates and a value is not finite.
//
// Complexity:
//   - Time O(n + cols + Σ s_c·log s_c) over the unsorted columns; Space O(n + cols).
func Build(rows, cols int, src CoordSource, opts ...BuildOption) (*CSC, error) {
	bo := buildOptions{dup: DefaultDupPolicy}
	for _, set := range opts {
		if set != nil {
			set(&bo)
		}
	}
	m, err := New(rows, cols, bo.storeOpts...)
	if err != nil {
		return nil, opErrorf(ctxBuild, err)
	}
	if src == nil {
		return nil, opErrorf(ctxBuild, ErrNilMatrix)
	}
	if c, ok := src.(checker); ok {
		if err = c.check(rows, cols); err != nil {
			return nil, opErrorf(ctxBuild, err)
		}
	}

	n := src.Len()
	diag := min(rows, cols)
	ptr := m.colPtr

	// Pass 1: count per destination column.
	var r, c int
	var v float64
	for k := 0; k < n; k++ {
		r, c, v = src.At(k)
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return nil, fmt.Errorf("%s: entry %d at (%d,%d): %w", ctxBuild, k, r, c, ErrIndexOutOfBounds)
		}
		if (bo.triangle == 'U' && r > c) || (bo.triangle == 'L' && r < c) {
			return nil, fmt.Errorf("%s: entry %d at (%d,%d) outside triangle %c: %w", ctxBuild, k, r, c, bo.triangle, ErrStructuralAssertion)
		}
		if m.validateNaNInf && isNonFinite(v) {
			return nil, fmt.Errorf("%s: entry %d at (%d,%d): %w", ctxBuild, k, r, c, ErrNaNInf)
		}
		if bo.unitDiag && r == c {
			continue
		}
		ptr[c+1]++
		if bo.mirror && r != c {
			if c >= rows || r >= cols {
				return nil, fmt.Errorf("%s: mirror of entry %d at (%d,%d): %w", ctxBuild, k, r, c, ErrIndexOutOfBounds)
			}
			ptr[r+1]++
		}
	}
	if bo.unitDiag {
		for d := 0; d < diag; d++ {
			ptr[d+1]++
		}
	}

	// Pass 2: prefix sum.
	for j := 0; j < cols; j++ {
		ptr[j+1] += ptr[j]
	}
	total := ptr[cols]
	m.resizeCapacity(total)

	// Pass 3: scatter at per-column cursors; track ascending order per column.
	cursor := make([]int, cols)
	copy(cursor, ptr[:cols])
	unsorted := make([]bool, cols)
	put := func(r, c int, v float64) {
		p := cursor[c]
		if p > ptr[c] && m.rowIdx[p-1] > r {
			unsorted[c] = true
		}
		m.rowIdx[p] = r
		m.values[p] = v
		cursor[c]++
	}
	if bo.unitDiag {
		// Diagonal first: a later off-diagonal row above it marks the column unsorted.
		for d := 0; d < diag; d++ {
			put(d, d, 1)
		}
	}
	for k := 0; k < n; k++ {
		r, c, v = src.At(k)
		if bo.unitDiag && r == c {
			continue
		}
		put(r, c, v)
		if bo.mirror && r != c {
			put(c, r, v)
		}
	}

	// Pass 4: stable sort of unsorted columns only.
	for j := 0; j < cols; j++ {
		if unsorted[j] {
			sort.Stable(colSorter{rows: m.rowIdx[ptr[j]:ptr[j+1]], vals: m.values[ptr[j]:ptr[j+1]]})
		}
	}

	// Pass 5: compact in place.
	stats := BuildStats{Input: total}
	w := 0
	for j := 0; j < cols; j++ {
		lo, hi := ptr[j], ptr[j+1]
		ptr[j] = w
		for p := lo; p < hi; {
			row, acc := m.rowIdx[p], m.values[p]
			q := p + 1
			for ; q < hi && m.rowIdx[q] == row; q++ {
				switch bo.dup {
				case DupLast:
					acc = m.values[q]
				case DupOr:
					acc = logicalOr(acc, m.values[q])
				default:
					acc += m.values[q]
				}
				stats.Duplicates++
			}
			if bo.unitDiag && row == j {
				acc = 1
			}
			if acc == 0 {
				stats.Zeros++
			} else {
				m.rowIdx[w] = row
				m.values[w] = acc
				w++
			}
			p = q
		}
	}
	ptr[cols] = w
	m.resizeCapacity(w)
	if bo.stats != nil {
		*bo.stats = stats
	}

	return m, nil
}

// logicalOr combines two logical values; NaN is the unknown value.
func logicalOr(a, b float64) float64 {
	switch {
	case (a != 0 && a == a) || (b != 0 && b == b):
		return 1
	case a != a || b != b:
		return math.NaN()
	}

	return 0
}

// colSorter sorts one column's rows with its values attached.
type colSorter struct {
	rows []int
	vals []float64
}

func (s colSorter) Len() int           { return len(s.rows) }
func (s colSorter) Less(a, b int) bool { return s.rows[a] < s.rows[b] }
func (s colSorter) Swap(a, b int) {
	s.rows[a], s.rows[b] = s.rows[b], s.rows[a]
	s.vals[a], s.vals[b] = s.vals[b], s.vals[a]
}

// ---------- coordinate sources ----------

// Triplets is a COO source: parallel Rows/Cols/Vals slices in any order.
// A nil Vals means every entry has value 1 (pattern input).
type Triplets struct {
	Rows []int
	Cols []int
	Vals []float64
}

// Len returns the number of triplets.
func (t Triplets) Len() int { return len(t.Rows) }

// At returns the k-th triplet.
func (t Triplets) At(k int) (row, col int, v float64) {
	if t.Vals == nil {
		return t.Rows[k], t.Cols[k], 1
	}

	return t.Rows[k], t.Cols[k], t.Vals[k]
}

func (t Triplets) check(_, _ int) error {
	if len(t.Cols) != len(t.Rows) || (t.Vals != nil && len(t.Vals) != len(t.Rows)) {
		return fmt.Errorf("Triplets: %d rows, %d cols, %d values: %w",
			len(t.Rows), len(t.Cols), len(t.Vals), ErrStructuralAssertion)
	}

	return nil
}

// CompressedSource adapts a compressed layout (pointer, index, value arrays).
// For a column-compressed source Ptr has cols+1 entries and Idx holds rows;
// for a row-compressed source Ptr has rows+1 entries and Idx holds columns.
// A nil Vals means every entry has value 1.
type CompressedSource struct {
	Ptr  []int
	Idx  []int
	Vals []float64

	byRow bool
	outer []int // outer index of every slot, expanded from Ptr by check
}

// CSCSource returns a column-compressed source.
func CSCSource(colPtr, rowIdx []int, vals []float64) *CompressedSource {
	return &CompressedSource{Ptr: colPtr, Idx: rowIdx, Vals: vals}
}

// CSRSource returns a row-compressed source. Scattering it by column in slot
// order is the CSR→CSC transpose skeleton: rows arrive ascending per column.
func CSRSource(rowPtr, colIdx []int, vals []float64) *CompressedSource {
	return &CompressedSource{Ptr: rowPtr, Idx: colIdx, Vals: vals, byRow: true}
}

// Len returns the number of stored slots.
func (s *CompressedSource) Len() int { return len(s.Idx) }

// At returns slot k as (row, col, value).
func (s *CompressedSource) At(k int) (row, col int, v float64) {
	v = 1
	if s.Vals != nil {
		v = s.Vals[k]
	}
	if s.byRow {
		return s.outer[k], s.Idx[k], v
	}

	return s.Idx[k], s.outer[k], v
}

// check validates Ptr (length, start at 0, non-decreasing, end at len(Idx))
// and expands the outer index of every slot.
func (s *CompressedSource) check(rows, cols int) error {
	outerN := cols
	if s.byRow {
		outerN = rows
	}
	switch {
	case len(s.Ptr) != outerN+1:
		return fmt.Errorf("compressed source: pointer length %d, want %d: %w", len(s.Ptr), outerN+1, ErrStructuralAssertion)
	case s.Ptr[0] != 0 || s.Ptr[outerN] != len(s.Idx):
		return fmt.Errorf("compressed source: pointer bounds [%d,%d], want [0,%d]: %w", s.Ptr[0], s.Ptr[outerN], len(s.Idx), ErrStructuralAssertion)
	case s.Vals != nil && len(s.Vals) != len(s.Idx):
		return fmt.Errorf("compressed source: %d values for %d indices: %w", len(s.Vals), len(s.Idx), ErrStructuralAssertion)
	}
	for o := 0; o < outerN; o++ {
		if s.Ptr[o+1] < s.Ptr[o] {
			return fmt.Errorf("compressed source: pointer decreases at %d: %w", o, ErrStructuralAssertion)
		}
	}
	s.outer = make([]int, len(s.Idx))
	for o := 0; o < outerN; o++ {
		for k := s.Ptr[o]; k < s.Ptr[o+1]; k++ {
			s.outer[k] = o
		}
	}

	return nil
}

// FromTriplets is Build over a Triplets source.
func FromTriplets(rows, cols int, t Triplets, opts ...BuildOption) (*CSC, error) {
	return Build(rows, cols, t, opts...)
}

// FromCSR builds a CSC from row-compressed arrays.
func FromCSR(rows, cols int, rowPtr, colIdx []int, vals []float64, opts ...BuildOption) (*CSC, error) {
	return Build(rows, cols, CSRSource(rowPtr, colIdx, vals), opts...)
}

// FromCSCArrays builds a CSC from column-compressed arrays that may be
// unsorted or contain duplicates.
func FromCSCArrays(rows, cols int, colPtr, rowIdx []int, vals []float64, opts ...BuildOption) (*CSC, error) {
	return Build(rows, cols, CSCSource(colPtr, rowIdx, vals), opts...)
}
