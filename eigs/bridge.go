// SPDX-License-Identifier: MIT

package eigs

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvsparse/sparse"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Operator is a square linear map given by its product. *sparse.CSC and
// *sparse.Subview satisfy it.
type Operator interface {
	Rows() int
	Cols() int
	MulVecTo(y, x []float64) error
}

// SymResult holds the eigenpairs of a symmetric problem, most wanted first.
type SymResult struct {
	Values     []float64
	Vectors    [][]float64 // Vectors[i] belongs to Values[i]; nil when disabled
	Iterations int
	MatVecs    int
}

// GenResult holds the eigenpairs of a general problem, most wanted first.
// A conjugate pair is reported as two entries with conjugate vectors.
type GenResult struct {
	Values     []complex128
	Vectors    [][]complex128
	Iterations int
	MatVecs    int
}

const (
	opSym = "Sym"
	opGen = "Gen"
)

// checkProblem validates the operator shape and k. n == 0 is valid.
func checkProblem(op string, a Operator, k int) (int, error) {
	if a == nil {
		return 0, eigsErrorf(op, sparse.ErrNilMatrix)
	}
	n := a.Rows()
	if a.Cols() != n {
		return 0, eigsErrorf(op, fmt.Errorf("operator %dx%d is not square: %w", n, a.Cols(), ErrStructuralAssertion))
	}
	if n == 0 {
		return 0, nil
	}
	if k < 1 || k+1 >= n {
		return 0, eigsErrorf(op, fmt.Errorf("k=%d for n=%d, want 1 <= k < n-1: %w", k, n, ErrStructuralAssertion))
	}

	return n, nil
}

// Sym computes k eigenpairs of a symmetric operator.
// MAIN DESCRIPTION:
//   - Drives a symmetric Solver against a (or (A−σI)⁻¹ with WithShift),
//     then assembles Ritz vectors in parallel.
//
// Errors:
//   - ErrStructuralAssertion for a non-square operator, k outside [1, n-2]
//     or a rule that needs complex eigenvalues (LargestImag, SmallestImag).
//   - *Failure (matches sparse.ErrNumericFailure) on non-convergence or a
//     singular shift.
//   - errors returned by a.MulVecTo.
//
// Notes:
//   - a *sparse.CSC that is not symmetric within the tolerance is logged
//     at Warn and solved on its symmetric part's Krylov projection.
//   - n == 0 returns an empty result.
func Sym(a Operator, k int, opts ...Option) (*SymResult, error) {
	n, err := checkProblem(opSym, a, k)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &SymResult{}, nil
	}
	cfg := gatherOptions(opts...)
	if c, ok := a.(*sparse.CSC); ok {
		warnAsymmetric(cfg.logger, c, cfg.tol)
	}

	s, shift, err := run(opSym, a, n, k, true, cfg)
	if shift != nil {
		defer shift.close()
	}
	if err != nil {
		return nil, err
	}

	res := &SymResult{
		Values:     make([]float64, k),
		Iterations: s.Iterations(),
		MatVecs:    s.MatVecs(),
	}
	for i, p := range s.ritz {
		theta := p.theta
		if shift != nil {
			theta = shift.unshift(theta)
		}
		res.Values[i] = real(theta)
	}
	if cfg.vectors {
		vecs, err := s.vectors(cfg.workers)
		if err != nil {
			return nil, eigsErrorf(opSym, err)
		}
		res.Vectors = make([][]float64, k)
		for i, v := range vecs {
			res.Vectors[i] = v.re
		}
	}

	return res, nil
}

// Gen computes k eigenpairs of a general (non-symmetric) operator.
// Errors are those of Sym, without the symmetric-only rule restriction.
func Gen(a Operator, k int, opts ...Option) (*GenResult, error) {
	n, err := checkProblem(opGen, a, k)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &GenResult{}, nil
	}
	cfg := gatherOptions(opts...)

	s, shift, err := run(opGen, a, n, k, false, cfg)
	if shift != nil {
		defer shift.close()
	}
	if err != nil {
		return nil, err
	}

	res := &GenResult{
		Values:     make([]complex128, k),
		Iterations: s.Iterations(),
		MatVecs:    s.MatVecs(),
	}
	for i, p := range s.ritz {
		theta := p.theta
		if shift != nil {
			theta = shift.unshift(theta)
		}
		res.Values[i] = theta
	}
	if cfg.vectors {
		vecs, err := s.vectors(cfg.workers)
		if err != nil {
			return nil, eigsErrorf(opGen, err)
		}
		res.Vectors = make([][]complex128, k)
		for i, v := range vecs {
			out := make([]complex128, n)
			for r := range out {
				if v.im != nil {
					out[r] = complex(v.re[r], v.im[r])
				} else {
					out[r] = complex(v.re[r], 0)
				}
			}
			res.Vectors[i] = out
		}
	}

	return res, nil
}

// run drives the reverse-communication loop to completion.
func run(op string, a Operator, n, k int, symmetric bool, cfg config) (*Solver, *shiftInvert, error) {
	s, err := newSolver(n, k, symmetric, cfg)
	if err != nil {
		return nil, nil, eigsErrorf(op, err)
	}

	apply := a.MulVecTo
	var shift *shiftInvert
	if cfg.shifted {
		if shift, err = newShiftInvert(a, cfg.sigma); err != nil {
			cfg.logger.Error("eigs shift factorisation failed", "sigma", cfg.sigma, "error", err)
			return nil, nil, eigsErrorf(op, err)
		}
		apply = shift.apply
	}

	for {
		switch s.Step() {
		case RequestMatVec:
			if err = apply(s.Y(), s.X()); err != nil {
				return nil, shift, eigsErrorf(op, err)
			}
		case RequestDone:
			return s, shift, nil
		default:
			return nil, shift, eigsErrorf(op, s.Err())
		}
	}
}

// ritzVector is V·y for one converged pair, scaled to unit norm.
type ritzVector struct {
	re, im []float64
}

// vectors assembles the converged Ritz vectors, one goroutine per vector.
func (s *Solver) vectors(workers int) ([]ritzVector, error) {
	if s.state != StateConverged {
		return nil, fmt.Errorf("solver state %d has no converged pairs", s.state)
	}
	out := make([]ritzVector, len(s.ritz))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range s.ritz {
		g.Go(func() error {
			p := s.ritz[i]
			rv := ritzVector{re: s.combine(p.re)}
			if p.complex() {
				rv.im = s.combine(p.im)
			}
			nrm := math.Hypot(floats.Norm(rv.re, 2), floats.Norm(rv.im, 2))
			if nrm == 0 || math.IsNaN(nrm) {
				return failuref(CodeProjection, "Ritz vector %d has norm %g", i, nrm)
			}
			floats.Scale(1/nrm, rv.re)
			floats.Scale(1/nrm, rv.im)
			out[i] = rv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// combine returns Σ_c V[c]·y[c] over the first m basis vectors.
func (s *Solver) combine(y []float64) []float64 {
	out := make([]float64, s.n)
	for c := 0; c < s.m; c++ {
		if yc := y[c]; yc != 0 {
			floats.AddScaled(out, yc, s.v[c])
		}
	}

	return out
}

// warnAsymmetric logs when c differs from its transpose by more than
// tol·max|c|.
func warnAsymmetric(l *slog.Logger, c *sparse.CSC, tol float64) {
	if c.Rows() != c.Cols() || c.NNZ() == 0 {
		return
	}
	diff := c.Transpose()
	if err := diff.SubInPlace(c); err != nil {
		return
	}
	maxAbs, defect := 0.0, 0.0
	c.Do(func(_, _ int, v float64) bool {
		maxAbs = math.Max(maxAbs, math.Abs(v))
		return true
	})
	diff.Do(func(_, _ int, v float64) bool {
		defect = math.Max(defect, math.Abs(v))
		return true
	})
	if defect > tol*maxAbs || math.IsNaN(defect) {
		l.Warn("operator is not symmetric",
			"rows", c.Rows(),
			"defect", defect,
			"max_abs", maxAbs,
		)
	}
}
