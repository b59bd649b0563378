// SPDX-License-Identifier: MIT

// Package sparse - sparsity patterns as roaring bitmaps.
//
// The pattern of a rows×cols matrix is the set of column-major linear indices
// j*rows + i of its stored entries. Roaring bitmaps hold 32-bit keys, so
// shapes with rows*cols > 2^32 report ErrCapacityOverflow.
package sparse

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

const maxPatternCells = 1 << 32

func patternCheck(tag string, rows, cols int) error {
	if uint64(rows)*uint64(cols) > maxPatternCells {
		return fmt.Errorf("%s: %dx%d: %w", tag, rows, cols, ErrCapacityOverflow)
	}

	return nil
}

// Pattern returns the bitmap of stored linear indices.
// Complexity: O(nnz) appends in ascending order.
func (m *CSC) Pattern() (*roaring.Bitmap, error) {
	if err := patternCheck("CSC.Pattern", m.rows, m.cols); err != nil {
		return nil, err
	}
	bm := roaring.New()
	m.Do(func(i, j int, _ float64) bool {
		bm.Add(uint32(j*m.rows + i))
		return true
	})

	return bm, nil
}

// PatternEqual reports whether m and b store entries at exactly the same cells.
func (m *CSC) PatternEqual(b *CSC) (bool, error) {
	if b == nil {
		return false, opErrorf("CSC.PatternEqual", ErrNilMatrix)
	}
	if m.rows != b.rows || m.cols != b.cols {
		return false, nil
	}
	pa, err := m.Pattern()
	if err != nil {
		return false, err
	}
	pb, err := b.Pattern()
	if err != nil {
		return false, err
	}

	return pa.Equals(pb), nil
}

// Pattern returns the window's pattern in local linear indices j*Rows + i.
func (v *Subview) Pattern() (*roaring.Bitmap, error) {
	if err := patternCheck("Subview.Pattern", v.rows, v.cols); err != nil {
		return nil, err
	}
	bm := roaring.New()
	v.Do(func(i, j int, _ float64) bool {
		bm.Add(uint32(j*v.rows + i))
		return true
	})

	return bm, nil
}

// FromPattern builds a rows×cols CSC holding val at every linear index in bm.
// Ascending bitmap order is column-major order, so no sort is needed.
// val == 0 yields an empty matrix.
func FromPattern(rows, cols int, bm *roaring.Bitmap, val float64, opts ...Option) (*CSC, error) {
	if bm == nil {
		return nil, opErrorf("FromPattern", ErrNilMatrix)
	}
	m, err := New(rows, cols, opts...)
	if err != nil {
		return nil, opErrorf("FromPattern", err)
	}
	if err = patternCheck("FromPattern", rows, cols); err != nil {
		return nil, err
	}
	if m.validateNaNInf && isNonFinite(val) {
		return nil, opErrorf("FromPattern", ErrNaNInf)
	}
	if val == 0 || bm.IsEmpty() {
		return m, nil
	}
	if last := uint64(bm.Maximum()); last >= uint64(rows)*uint64(cols) {
		return nil, fmt.Errorf("FromPattern: linear index %d: %w", last, ErrIndexOutOfBounds)
	}

	keys := bm.ToArray()
	m.resizeCapacity(len(keys))
	for k, key := range keys {
		lin := int(key)
		c := lin / rows
		m.rowIdx[k] = lin % rows
		m.values[k] = val
		m.colPtr[c+1]++
	}
	for c := 0; c < cols; c++ {
		m.colPtr[c+1] += m.colPtr[c]
	}

	return m, nil
}
