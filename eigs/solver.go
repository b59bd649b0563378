// SPDX-License-Identifier: MIT

package eigs

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"

	"github.com/katalvlaran/lvsparse/matrix"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// State is the position of a Solver in its protocol.
type State uint8

const (
	StateInit      State = iota // nothing requested yet
	StateMatVec                 // waiting for Y = A·X
	StateConverged              // k wanted pairs converged
	StateFailed                 // see Err
)

// Request tells the caller what to do after Step.
type Request uint8

const (
	RequestMatVec Request = iota // fill Y() with A·X(), then Step again
	RequestDone                  // results are available
	RequestFailed                // Err() holds a *Failure
)

const (
	// dgksEta triggers a second Gram-Schmidt pass when a pass shrinks the
	// vector below this fraction of its norm.
	dgksEta = 0.7071067811865476
	// breakdownRel: ‖w‖ after orthogonalisation below this fraction of ‖A·v‖
	// is an invariant subspace.
	breakdownRel = 1e-12
	// epsilon is the float64 unit roundoff.
	epsilon = 0x1p-52
)

// eps23 is ε^(2/3), the absolute floor of the convergence test.
var eps23 = math.Pow(epsilon, 2.0/3.0)

// ritzPair is an eigenpair of the projected matrix. For a complex θ the
// coordinate vector is re + i·im; conjugate pairs are adjacent, positive
// imaginary part first.
type ritzPair struct {
	theta  complex128
	re, im []float64 // length m, unit norm jointly; im nil for real θ
	resid  float64
}

func (p ritzPair) complex() bool { return p.im != nil }

// Solver is the reverse-communication Krylov-Schur eigensolver.
// A Solver is not safe for concurrent use.
type Solver struct {
	n, k, m int
	sym     bool
	cfg     config
	rng     *rand.Rand
	log     *slog.Logger

	state State
	err   error

	v    [][]float64 // m+1 orthonormal basis vectors
	h    []float64   // (m+1)×m projected matrix, row-major
	j    int         // index of the basis vector whose product is pending
	x, y []float64
	w    []float64 // scratch

	iter    int
	matvecs int
	ritz    []ritzPair // converged wanted pairs, most wanted first
}

// NewSolver prepares a solver for k eigenpairs of an n×n operator.
// symmetric selects the Jacobi projection and real Ritz values.
// Errors:
//   - ErrStructuralAssertion when k < 1, k+1 >= n, the NCV does not satisfy
//     k < ncv <= n, or the selection rule is not defined for a symmetric problem.
func NewSolver(n, k int, symmetric bool, opts ...Option) (*Solver, error) {
	return newSolver(n, k, symmetric, gatherOptions(opts...))
}

func newSolver(n, k int, symmetric bool, cfg config) (*Solver, error) {
	if k < 1 || k+1 >= n {
		return nil, fmt.Errorf("eigs: NewSolver: k=%d for n=%d, want 1 <= k < n-1: %w", k, n, ErrStructuralAssertion)
	}
	m := cfg.ncv
	if m == 0 {
		m = min(n, max(2*k+1, MinNCV))
	}
	if m <= k || m > n {
		return nil, fmt.Errorf("eigs: NewSolver: ncv=%d for k=%d n=%d: %w", m, k, n, ErrStructuralAssertion)
	}
	if symmetric && !cfg.which.symmetric() {
		return nil, fmt.Errorf("eigs: NewSolver: rule %s on a symmetric problem: %w", cfg.which, ErrStructuralAssertion)
	}

	s := &Solver{
		n: n, k: k, m: m,
		sym: symmetric,
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.seed)),
		log: cfg.logger,
		v:   make([][]float64, m+1),
		h:   make([]float64, (m+1)*m),
		x:   make([]float64, n),
		y:   make([]float64, n),
		w:   make([]float64, n),
	}
	for i := range s.v {
		s.v[i] = make([]float64, n)
	}

	return s, nil
}

// State returns the protocol state.
func (s *Solver) State() State { return s.state }

// Err returns the failure after RequestFailed.
func (s *Solver) Err() error { return s.err }

// X is the vector to multiply. Valid after RequestMatVec until the next Step.
func (s *Solver) X() []float64 { return s.x }

// Y is the buffer the caller fills with A·X().
func (s *Solver) Y() []float64 { return s.y }

// Iterations returns the number of projection/restart cycles run so far.
func (s *Solver) Iterations() int { return s.iter }

// MatVecs returns the number of products consumed so far.
func (s *Solver) MatVecs() int { return s.matvecs }

// NCV returns the Krylov basis size.
func (s *Solver) NCV() int { return s.m }

// Values returns the converged Ritz values, most wanted first.
// Empty unless the state is StateConverged.
func (s *Solver) Values() []complex128 {
	out := make([]complex128, len(s.ritz))
	for i, p := range s.ritz {
		out[i] = p.theta
	}

	return out
}

// Step advances the protocol.
func (s *Solver) Step() Request {
	switch s.state {
	case StateInit:
		s.start()
		s.state = StateMatVec
		return s.request()
	case StateMatVec:
		s.matvecs++
		if !s.extend() {
			return s.request()
		}
		return s.cycle()
	case StateConverged:
		return RequestDone
	default:
		return RequestFailed
	}
}

func (s *Solver) request() Request {
	copy(s.x, s.v[s.j])

	return RequestMatVec
}

func (s *Solver) fail(code Code, format string, args ...any) Request {
	s.state = StateFailed
	s.err = failuref(code, format, args...)
	s.log.Error("eigs failed",
		"code", code.String(),
		"iterations", s.iter,
		"matvecs", s.matvecs,
		"error", s.err,
	)

	return RequestFailed
}

// start draws a random unit start vector.
func (s *Solver) start() {
	v0 := s.v[0]
	for {
		for i := range v0 {
			v0[i] = s.rng.NormFloat64()
		}
		if nrm := floats.Norm(v0, 2); nrm > 0 {
			floats.Scale(1/nrm, v0)
			break
		}
	}
	s.j = 0
}

// extend consumes Y = A·v[j]: orthogonalises it against v[0..j] (classical
// Gram-Schmidt with one DGKS correction pass), stores the coefficients in
// column j of H and appends v[j+1]. Reports whether the basis is full.
func (s *Solver) extend() bool {
	col := s.j
	w := s.w
	copy(w, s.y)
	wnorm := floats.Norm(w, 2)

	before := wnorm
	for pass := 0; pass < 2; pass++ {
		for i := 0; i <= col; i++ {
			c := floats.Dot(s.v[i], w)
			s.h[i*s.m+col] += c
			floats.AddScaled(w, -c, s.v[i])
		}
		after := floats.Norm(w, 2)
		if after > dgksEta*before {
			break
		}
		before = after
	}

	beta := floats.Norm(w, 2)
	next := s.v[col+1]
	if beta <= breakdownRel*wnorm || beta == 0 {
		s.h[(col+1)*s.m+col] = 0
		if !s.randomOrthogonal(next, s.v[:col+1]) {
			clear(next)
		}
		s.log.Debug("arnoldi breakdown", "step", col, "beta", beta)
	} else {
		s.h[(col+1)*s.m+col] = beta
		for i := range next {
			next[i] = w[i] / beta
		}
	}
	s.j = col + 1

	return s.j == s.m
}

// randomOrthogonal fills dst with a random unit vector orthogonal to basis.
// Reports false when basis already spans the whole space.
func (s *Solver) randomOrthogonal(dst []float64, basis [][]float64) bool {
	if len(basis) >= s.n {
		return false
	}
	for attempt := 0; attempt < 3; attempt++ {
		for i := range dst {
			dst[i] = s.rng.NormFloat64()
		}
		before := floats.Norm(dst, 2)
		for pass := 0; pass < 2; pass++ {
			for _, b := range basis {
				floats.AddScaled(dst, -floats.Dot(b, dst), b)
			}
		}
		if nrm := floats.Norm(dst, 2); nrm > 1e-8*before {
			floats.Scale(1/nrm, dst)
			return true
		}
	}

	return false
}

// cycle runs once per full basis: project, test convergence, restart.
func (s *Solver) cycle() Request {
	s.iter++
	pairs, err := s.project()
	if err != nil {
		return s.fail(CodeProjection, "%v", err)
	}

	done := 0
	for _, p := range pairs[:s.k] {
		if p.resid <= s.cfg.tol*math.Max(eps23, cmplx.Abs(p.theta)) {
			done++
		}
	}
	if done == s.k {
		s.ritz = pairs[:s.k]
		s.state = StateConverged
		s.log.Info("eigs converged",
			"k", s.k,
			"ncv", s.m,
			"iterations", s.iter,
			"matvecs", s.matvecs,
		)
		return RequestDone
	}
	if s.iter >= s.cfg.maxIter {
		return s.fail(CodeNoConvergence, "%d of %d pairs converged after %d iterations", done, s.k, s.iter)
	}

	kept := s.restart(pairs)
	s.log.Debug("eigs restart",
		"iteration", s.iter,
		"converged", done,
		"kept", kept,
	)

	return s.request()
}

// beta is the norm of the Arnoldi residual f = β·v[m].
func (s *Solver) beta() float64 { return s.h[s.m*s.m+s.m-1] }

// project solves the m×m projected problem and returns its eigenpairs
// ordered most wanted first, each with its residual estimate.
func (s *Solver) project() ([]ritzPair, error) {
	var (
		pairs []ritzPair
		err   error
	)
	if s.sym {
		pairs, err = s.projectSym()
	} else {
		pairs, err = s.projectGen()
	}
	if err != nil {
		return nil, err
	}

	beta := math.Abs(s.beta())
	last := s.m - 1
	for i := range pairs {
		p := &pairs[i]
		nrm := floats.Norm(p.re, 2)
		e := complex(p.re[last], 0)
		if p.complex() {
			nrm = math.Hypot(nrm, floats.Norm(p.im, 2))
			e = complex(p.re[last], p.im[last])
		}
		if nrm > 0 {
			floats.Scale(1/nrm, p.re)
			if p.complex() {
				floats.Scale(1/nrm, p.im)
			}
			e /= complex(nrm, 0)
		}
		p.resid = beta * cmplx.Abs(e)
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return s.cfg.which.score(pairs[a].theta) > s.cfg.which.score(pairs[b].theta)
	})

	return pairs, nil
}

// projectSym runs Jacobi on the symmetrised leading m×m block of H.
func (s *Solver) projectSym() ([]ritzPair, error) {
	m := s.m
	a, err := matrix.NewDense(m, m, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}
	frob := 0.0
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			v := 0.5 * (s.h[i*m+j] + s.h[j*m+i])
			if err = a.Set(i, j, v); err != nil {
				return nil, err
			}
			frob += v * v
		}
	}
	if math.IsNaN(frob) || math.IsInf(frob, 0) {
		return nil, fmt.Errorf("projected matrix is not finite")
	}
	tol := 1e-14 * math.Max(math.Sqrt(frob), math.SmallestNonzeroFloat64)
	vals, q, err := matrix.Eigen(a, tol, 100*m*m+100)
	if err != nil {
		return nil, err
	}

	pairs := make([]ritzPair, m)
	for c := 0; c < m; c++ {
		re := make([]float64, m)
		for i := 0; i < m; i++ {
			if re[i], err = q.At(i, c); err != nil {
				return nil, err
			}
		}
		pairs[c] = ritzPair{theta: complex(vals[c], 0), re: re}
	}

	return pairs, nil
}

// projectGen runs LAPACK Geev on the leading m×m block of H.
func (s *Solver) projectGen() ([]ritzPair, error) {
	m := s.m
	a := blas64.General{Rows: m, Cols: m, Stride: m, Data: make([]float64, m*m)}
	copy(a.Data, s.h[:m*m])
	vr := blas64.General{Rows: m, Cols: m, Stride: m, Data: make([]float64, m*m)}
	vl := blas64.General{Rows: 1, Cols: 1, Stride: 1, Data: make([]float64, 1)}
	wr := make([]float64, m)
	wi := make([]float64, m)

	work := []float64{0}
	lapack64.Geev(lapack.LeftEVNone, lapack.RightEVCompute, a, wr, wi, vl, vr, work, -1)
	work = make([]float64, max(int(work[0]), 4*m))
	if first := lapack64.Geev(lapack.LeftEVNone, lapack.RightEVCompute, a, wr, wi, vl, vr, work, len(work)); first != 0 {
		return nil, fmt.Errorf("Geev: only eigenvalues %d..%d converged", first, m-1)
	}

	column := func(c int) []float64 {
		out := make([]float64, m)
		for i := 0; i < m; i++ {
			out[i] = vr.Data[i*m+c]
		}
		return out
	}
	pairs := make([]ritzPair, 0, m)
	for c := 0; c < m; {
		if wi[c] == 0 {
			pairs = append(pairs, ritzPair{theta: complex(wr[c], 0), re: column(c)})
			c++
			continue
		}
		re, im := column(c), column(c+1)
		neg := make([]float64, m)
		for i := range im {
			neg[i] = -im[i]
		}
		pairs = append(pairs,
			ritzPair{theta: complex(wr[c], wi[c]), re: re, im: im},
			ritzPair{theta: complex(wr[c+1], wi[c+1]), re: append([]float64(nil), re...), im: neg},
		)
		c += 2
	}

	return pairs, nil
}

// restart compresses the basis onto the span of the most wanted Ritz
// vectors and returns how many basis vectors were kept.
// MAIN DESCRIPTION:
//   - keep p = k + (m−k)/2 pairs, moved by one when the cut would split a
//     conjugate pair;
//   - Q: orthonormal m×q basis of the kept (real and imaginary) coordinate
//     vectors; span(Q) is H-invariant, so A·V·Q = V·Q·T + f·(Qᵀe_m)ᵀ with
//     T = QᵀHQ;
//   - V ← V·Q, v[q] ← v[m], H ← [T; β·(Qᵀe_m)ᵀ], and Arnoldi resumes at q.
func (s *Solver) restart(pairs []ritzPair) int {
	m := s.m
	p := s.k + (m-s.k)/2
	if p < m && pairs[p-1].complex() && imag(pairs[p-1].theta) > 0 {
		if p+1 < m {
			p++
		} else {
			p--
		}
	}

	q := make([][]float64, 0, p+1) // columns of Q
	add := func(c []float64) {
		c = append([]float64(nil), c...)
		before := floats.Norm(c, 2)
		for pass := 0; pass < 2; pass++ {
			for _, b := range q {
				floats.AddScaled(c, -floats.Dot(b, c), b)
			}
		}
		if nrm := floats.Norm(c, 2); nrm > 1e-10*before && nrm > 0 {
			floats.Scale(1/nrm, c)
			q = append(q, c)
		}
	}
	for _, pr := range pairs[:p] {
		switch {
		case !pr.complex():
			add(pr.re)
		case imag(pr.theta) > 0:
			add(pr.re)
			add(pr.im)
		}
	}
	nq := min(len(q), m-1)
	q = q[:nq]

	// V ← V·Q
	nv := make([][]float64, nq)
	for c := range q {
		col := make([]float64, s.n)
		for i := 0; i < m; i++ {
			if qi := q[c][i]; qi != 0 {
				floats.AddScaled(col, qi, s.v[i])
			}
		}
		nv[c] = col
	}

	// T = Qᵀ·H·Q
	hq := make([]float64, m*nq)
	for i := 0; i < m; i++ {
		for c := 0; c < nq; c++ {
			acc := 0.0
			for l := 0; l < m; l++ {
				acc += s.h[i*m+l] * q[c][l]
			}
			hq[i*nq+c] = acc
		}
	}
	beta := s.beta()
	clear(s.h)
	for r := 0; r < nq; r++ {
		for c := 0; c < nq; c++ {
			acc := 0.0
			for i := 0; i < m; i++ {
				acc += q[r][i] * hq[i*nq+c]
			}
			s.h[r*m+c] = acc
		}
	}
	for c := 0; c < nq; c++ {
		s.h[nq*m+c] = beta * q[c][m-1]
	}

	copy(s.v[nq], s.v[m])
	for c := 0; c < nq; c++ {
		copy(s.v[c], nv[c])
	}
	for i := nq + 1; i <= m; i++ {
		clear(s.v[i])
	}
	s.j = nq
	if nq == 0 && floats.Norm(s.v[0], 2) == 0 {
		s.start()
	}

	return nq
}
