// SPDX-License-Identifier: MIT

package converters

import (
	"fmt"
	"math"

	"github.com/coregx/coregex"
	"github.com/katalvlaran/lvsparse/matrix"
	"github.com/katalvlaran/lvsparse/sparse"
)

// Record is a tagged sparse interchange object. Which slots are read depends
// on Class; unused slots are ignored.
type Record struct {
	Class  string
	Dim    [2]int    // rows, cols
	I      []int     // 0-based row indices (C, T)
	J      []int     // 0-based column indices (R, T)
	P      []int     // compressed pointers (C: cols+1, R: rows+1)
	X      []float64 // values; empty for pattern classes
	Diag   string    // "N" or "U" (unit diagonal, not stored)
	Uplo   string    // "U" or "L"
	Perm   []int     // 1-based targets (indMatrix, pMatrix)
	Margin int       // 1: Perm indexed by row, 2: by column
}

var (
	generalClass  = coregex.MustCompile(`^([dlni])([gts])([CTR])Matrix$`)
	diagonalClass = coregex.MustCompile(`^([dln])diMatrix$`)
	indexClass    = coregex.MustCompile(`^(ind|p)Matrix$`)
)

type family uint8

const (
	familyGeneral family = iota
	familyDiagonal
	familyIndex
)

// classInfo is a parsed class name.
type classInfo struct {
	family family
	kind   byte // d, l, n, i
	shape  byte // g, t, s
	layout byte // C, R, T
	perm   bool // pMatrix rather than indMatrix
}

// classify parses a class name. Unknown names yield ErrUnsupportedFormat.
func classify(class string) (classInfo, error) {
	if sm := generalClass.FindStringSubmatch(class); sm != nil {
		return classInfo{family: familyGeneral, kind: sm[1][0], shape: sm[2][0], layout: sm[3][0]}, nil
	}
	if sm := diagonalClass.FindStringSubmatch(class); sm != nil {
		return classInfo{family: familyDiagonal, kind: sm[1][0]}, nil
	}
	if sm := indexClass.FindStringSubmatch(class); sm != nil {
		return classInfo{family: familyIndex, perm: sm[1] == "p"}, nil
	}

	return classInfo{}, importErrorf(class, ErrUnsupportedFormat)
}

// Supported reports whether Import accepts the class name.
func Supported(class string) bool {
	return generalClass.MatchString(class) || diagonalClass.MatchString(class) || indexClass.MatchString(class)
}

// Import converts rec into a CSC.
// MAIN DESCRIPTION:
//   - Classify rec.Class, validate the slots the class uses, then assemble
//     through sparse.Build (duplicates resolved by the configured policy,
//     exact zeros dropped). Logical and pattern kinds always resolve
//     duplicates with sparse.DupOr so every stored value stays 0/1.
//
// Errors:
//   - ErrUnsupportedFormat for an unknown class.
//   - ErrStructuralAssertion for slots inconsistent with the class
//     (lengths, pointer shape, entries in the wrong triangle, bad Uplo/Diag).
//   - ErrIndexOutOfBounds for coordinates outside Dim.
//   - sparse.ErrNaNInf when WithValidateNaNInf is set and X is not finite.
func Import(rec Record, opts ...Option) (*sparse.CSC, error) {
	ci, err := classify(rec.Class)
	if err != nil {
		return nil, err
	}
	if rec.Dim[0] < 0 || rec.Dim[1] < 0 {
		return nil, importErrorf(rec.Class, fmt.Errorf("dim %v: %w", rec.Dim, sparse.ErrInvalidDimensions))
	}
	o := gatherOptions(opts...)

	var (
		src   sparse.CoordSource
		bopts []sparse.BuildOption
	)
	switch ci.family {
	case familyGeneral:
		src, bopts, err = generalSource(rec, ci)
	case familyDiagonal:
		src, bopts, err = diagonalSource(rec, ci)
	default:
		src, err = indexSource(rec, ci)
	}
	if err != nil {
		return nil, err
	}

	dup := o.dup
	if ci.kind == 'l' || ci.kind == 'n' {
		dup = sparse.DupOr
	}
	var stats sparse.BuildStats
	bopts = append(bopts,
		sparse.WithDuplicates(dup),
		sparse.WithBuildPolicy(o.storeOptions()...),
		sparse.WithStats(&stats),
	)
	m, err := sparse.Build(rec.Dim[0], rec.Dim[1], src, bopts...)
	if err != nil {
		return nil, importErrorf(rec.Class, err)
	}
	logImport(o.logger, rec.Class, m, stats)

	return m, nil
}

// generalSource handles the C, R and T layouts of every kind and shape.
// Slot layout and triangle membership are checked by sparse.Build.
func generalSource(rec Record, ci classInfo) (sparse.CoordSource, []sparse.BuildOption, error) {
	n := len(rec.I)
	if ci.layout == 'R' {
		n = len(rec.J)
	}
	vals, err := kindValues(rec, ci.kind, n)
	if err != nil {
		return nil, nil, err
	}
	var src sparse.CoordSource
	switch ci.layout {
	case 'C':
		src = sparse.CSCSource(rec.P, rec.I, vals)
	case 'R':
		src = sparse.CSRSource(rec.P, rec.J, vals)
	default:
		src = sparse.Triplets{Rows: rec.I, Cols: rec.J, Vals: vals}
	}

	if ci.shape == 'g' {
		return src, nil, nil
	}
	if rows, cols := rec.Dim[0], rec.Dim[1]; rows != cols {
		return nil, nil, slotErrorf(rec.Class, "%dx%d is not square", rows, cols)
	}
	upper, err := uploUpper(rec)
	if err != nil {
		return nil, nil, err
	}
	bopts := []sparse.BuildOption{sparse.WithTriangle(upper)}
	if ci.shape == 's' {
		return src, append(bopts, sparse.WithMirror()), nil
	}
	unit, err := unitDiag(rec)
	if err != nil {
		return nil, nil, err
	}
	if unit {
		bopts = append(bopts, sparse.WithUnitDiagonal())
	}

	return src, bopts, nil
}

// kindValues returns the value slice Build should see for n stored slots.
func kindValues(rec Record, kind byte, n int) ([]float64, error) {
	if kind == 'n' {
		if len(rec.X) != 0 {
			return nil, slotErrorf(rec.Class, "pattern class carries %d values", len(rec.X))
		}
		return nil, nil
	}
	if len(rec.X) != n {
		return nil, slotErrorf(rec.Class, "%d values for %d slots", len(rec.X), n)
	}
	switch kind {
	case 'l':
		out := make([]float64, n)
		for k, v := range rec.X {
			switch {
			case v != v:
				out[k] = v
			case v != 0:
				out[k] = 1
			}
		}
		return out, nil
	case 'i':
		for k, v := range rec.X {
			if v == v && v != math.Trunc(v) {
				return nil, slotErrorf(rec.Class, "value %d is not integral: %g", k, v)
			}
		}
	}

	return rec.X, nil
}

func uploUpper(rec Record) (bool, error) {
	switch rec.Uplo {
	case "U":
		return true, nil
	case "L":
		return false, nil
	}

	return false, slotErrorf(rec.Class, "uplo %q, want \"U\" or \"L\"", rec.Uplo)
}

func unitDiag(rec Record) (bool, error) {
	switch rec.Diag {
	case "", "N":
		return false, nil
	case "U":
		return true, nil
	}

	return false, slotErrorf(rec.Class, "diag %q, want \"N\" or \"U\"", rec.Diag)
}

// diagonalSource handles [dln]diMatrix.
func diagonalSource(rec Record, ci classInfo) (sparse.CoordSource, []sparse.BuildOption, error) {
	n := rec.Dim[0]
	if n != rec.Dim[1] {
		return nil, nil, slotErrorf(rec.Class, "%dx%d is not square", n, rec.Dim[1])
	}
	unit, err := unitDiag(rec)
	if err != nil {
		return nil, nil, err
	}
	if unit {
		if len(rec.X) != 0 {
			return nil, nil, slotErrorf(rec.Class, "unit diagonal carries %d values", len(rec.X))
		}
		return sparse.Triplets{}, []sparse.BuildOption{sparse.WithUnitDiagonal()}, nil
	}

	kind := ci.kind
	if kind == 'n' {
		// a pattern diagonal still lists which cells are set
		kind = 'l'
	}
	vals, err := kindValues(rec, kind, n)
	if err != nil {
		return nil, nil, err
	}
	idx := make([]int, n)
	for d := range idx {
		idx[d] = d
	}

	return sparse.Triplets{Rows: idx, Cols: idx, Vals: vals}, nil, nil
}

// indexSource handles indMatrix and pMatrix.
func indexSource(rec Record, ci classInfo) (sparse.CoordSource, error) {
	rows, cols := rec.Dim[0], rec.Dim[1]
	byRow := true
	switch rec.Margin {
	case 0, 1:
	case 2:
		byRow = false
	default:
		return nil, slotErrorf(rec.Class, "margin %d, want 1 or 2", rec.Margin)
	}
	if ci.perm && rows != cols {
		return nil, slotErrorf(rec.Class, "%dx%d is not square", rows, cols)
	}
	outer, inner := rows, cols
	if !byRow {
		outer, inner = cols, rows
	}
	if len(rec.Perm) != outer {
		return nil, slotErrorf(rec.Class, "perm length %d, want %d", len(rec.Perm), outer)
	}

	t := sparse.Triplets{Rows: make([]int, outer), Cols: make([]int, outer)}
	var seen []bool
	if ci.perm {
		seen = make([]bool, inner)
	}
	for k, p := range rec.Perm {
		if p < 1 || p > inner {
			return nil, importErrorf(rec.Class, fmt.Errorf("perm[%d]=%d outside [1,%d]: %w", k, p, inner, ErrIndexOutOfBounds))
		}
		if seen != nil {
			if seen[p-1] {
				return nil, slotErrorf(rec.Class, "perm repeats target %d", p)
			}
			seen[p-1] = true
		}
		if byRow {
			t.Rows[k], t.Cols[k] = k, p-1
		} else {
			t.Rows[k], t.Cols[k] = p-1, k
		}
	}

	return t, nil
}

// Export returns m as a dgCMatrix record with copied slots.
func Export(m *sparse.CSC) Record {
	vals, rowIdx, colPtr := m.Raw()

	return Record{
		Class: "dgCMatrix",
		Dim:   [2]int{m.Rows(), m.Cols()},
		I:     rowIdx,
		P:     colPtr,
		X:     vals,
	}
}

// FromDense converts a dense collaborator into a CSC.
func FromDense(d matrix.Matrix, opts ...Option) (*sparse.CSC, error) {
	o := gatherOptions(opts...)
	m, err := sparse.FromDense(d, o.storeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("converters: FromDense: %w", err)
	}
	o.logger.Debug("dense import completed",
		"rows", m.Rows(),
		"cols", m.Cols(),
		"nnz", m.NNZ(),
	)

	return m, nil
}
