// SPDX-License-Identifier: MIT

package sparse

// Test-only accessors for unexported state.

// SentinelForTest returns the guard slot past colPtr[cols].
func (m *CSC) SentinelForTest() int { return m.colPtr[m.cols+1] }

// ColPtrLenForTest returns len(colPtr) including the sentinel.
func (m *CSC) ColPtrLenForTest() int { return len(m.colPtr) }

// ResizeCapacityForTest exposes the bulk slot primitive.
func (m *CSC) ResizeCapacityForTest(n int) { m.resizeCapacity(n) }

// SetColPtrForTest overwrites colPtr[c].
func (m *CSC) SetColPtrForTest(c, v int) { m.colPtr[c] = v }

// SetSlotForTest writes slot k directly.
func (m *CSC) SetSlotForTest(k, row int, v float64) {
	m.rowIdx[k] = row
	m.values[k] = v
}
