// SPDX-License-Identifier: MIT

package sparse

// slotKind tags the two states of a cell accessor.
type slotKind uint8

const (
	slotPending  slotKind = iota // no stored entry; a nonzero write inserts one
	slotExisting                 // pos addresses the stored entry
)

type slot struct {
	kind slotKind
	pos  int
}

// Element is a read/maybe-write handle on one cell of a CSC, optionally
// reached through a Subview. It hides create-on-write and delete-on-zero:
//   - existing slot + nonzero write: overwrite in place;
//   - existing slot + zero write: delete the slot;
//   - pending + nonzero write: insert through CSC.Set;
//   - pending + zero write: no-op.
//
// After a structural write the handle re-binds to the new slot. A handle
// that observes a structural change made elsewhere re-derives its slot on
// the next access, so it never reads a stale position.
type Element struct {
	store    *CSC
	view     *Subview // non-nil when obtained through a subview
	row, col int      // parent coordinates
	slot     slot
	gen      uint64
}

// Elem returns an accessor for cell (i, j).
// Returns ErrIndexOutOfBounds outside the declared extent.
func (m *CSC) Elem(i, j int) (*Element, error) {
	if !m.inBounds(i, j) {
		return nil, cscErrorf(ctxElem, i, j, ErrIndexOutOfBounds)
	}
	e := &Element{store: m, row: i, col: j}
	e.bind()

	return e, nil
}

// bind resolves the slot tag against the current structure.
func (e *Element) bind() {
	pos, found := e.store.find(e.row, e.col)
	if found {
		e.slot = slot{kind: slotExisting, pos: pos}
	} else {
		e.slot = slot{kind: slotPending}
	}
	e.gen = e.store.gen
}

func (e *Element) fresh() {
	if e.gen != e.store.gen {
		e.bind()
	}
}

// Row returns the cell row in the coordinates it was obtained with.
func (e *Element) Row() int {
	if e.view != nil {
		return e.row - e.view.r0
	}

	return e.row
}

// Col returns the cell column in the coordinates it was obtained with.
func (e *Element) Col() int {
	if e.view != nil {
		return e.col - e.view.c0
	}

	return e.col
}

// Exists reports whether the cell has a stored entry.
func (e *Element) Exists() bool {
	e.fresh()

	return e.slot.kind == slotExisting
}

// Value returns the cell value (0 when absent).
func (e *Element) Value() float64 {
	e.fresh()
	if e.slot.kind == slotExisting {
		return e.store.values[e.slot.pos]
	}

	return 0
}

// Set writes v, dispatching on the slot tag. Through a subview both the
// parent's and the subview's cached counts are updated.
func (e *Element) Set(v float64) error {
	e.fresh()
	if e.store.validateNaNInf && isNonFinite(v) {
		return cscErrorf(ctxSet, e.row, e.col, ErrNaNInf)
	}
	before := e.store.nnz
	switch e.slot.kind {
	case slotExisting:
		if v == 0 {
			e.store.deleteAt(e.slot.pos, e.col)
		} else {
			e.store.values[e.slot.pos] = v
		}
	case slotPending:
		if v == 0 {
			return nil
		}
		if err := e.store.Set(e.row, e.col, v); err != nil {
			return err
		}
	}
	if e.view != nil {
		e.view.nnz += e.store.nnz - before
	}
	e.bind()

	return nil
}

// Add writes Value()+v.
func (e *Element) Add(v float64) error { return e.Set(e.Value() + v) }

// Sub writes Value()-v.
func (e *Element) Sub(v float64) error { return e.Set(e.Value() - v) }

// Mul writes Value()*v.
func (e *Element) Mul(v float64) error { return e.Set(e.Value() * v) }

// Div writes Value()/v.
func (e *Element) Div(v float64) error { return e.Set(e.Value() / v) }
