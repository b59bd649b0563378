// SPDX-License-Identifier: MIT

package eigs

import (
	"log/slog"
	"math"
)

// Defaults.
const (
	DefaultTol     = 1e-10
	DefaultMaxIter = 1000
	DefaultWorkers = 4
	DefaultSeed    = 1
	// MinNCV is the smallest default basis size; the default NCV is
	// min(n, max(2k+1, MinNCV)).
	MinNCV = 20
)

// Option configures a Solver or a driver.
type Option func(*config)

type config struct {
	which   Which
	tol     float64
	maxIter int
	ncv     int // 0: default
	sigma   float64
	shifted bool
	vectors bool
	seed    int64
	workers int
	logger  *slog.Logger
}

func gatherOptions(opts ...Option) config {
	c := config{
		which:   LargestMagnitude,
		tol:     DefaultTol,
		maxIter: DefaultMaxIter,
		vectors: true,
		seed:    DefaultSeed,
		workers: DefaultWorkers,
	}
	for _, set := range opts {
		if set != nil {
			set(&c)
		}
	}
	if c.logger == nil {
		c.logger = Logger
	}

	return c
}

// WithWhich selects the wanted eigenvalues (LargestMagnitude by default).
// In shift-invert mode the rule applies to the transformed values 1/(λ−σ).
// Panics on an unknown rule.
func WithWhich(w Which) Option {
	if !w.valid() {
		panic("eigs: WithWhich: unknown rule")
	}

	return func(c *config) { c.which = w }
}

// WithTol sets the relative convergence tolerance. Panics unless tol is finite and > 0.
func WithTol(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 1) {
		panic("eigs: WithTol: tol must be finite and > 0")
	}

	return func(c *config) { c.tol = tol }
}

// WithMaxIter caps the number of restart cycles. Panics when n < 1.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic("eigs: WithMaxIter: n must be >= 1")
	}

	return func(c *config) { c.maxIter = n }
}

// WithNCV sets the Krylov basis size; it must satisfy k < ncv <= n.
func WithNCV(ncv int) Option {
	return func(c *config) { c.ncv = ncv }
}

// WithShift enables shift-invert mode around sigma. Panics on a non-finite sigma.
func WithShift(sigma float64) Option {
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		panic("eigs: WithShift: sigma must be finite")
	}

	return func(c *config) { c.sigma, c.shifted = sigma, true }
}

// WithVectors toggles eigenvector computation (on by default).
func WithVectors(on bool) Option {
	return func(c *config) { c.vectors = on }
}

// WithSeed seeds the start and breakdown vectors.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithWorkers bounds the goroutines assembling eigenvectors. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("eigs: WithWorkers: n must be >= 1")
	}

	return func(c *config) { c.workers = n }
}

// WithLogger routes solver logging to l. A nil l keeps the package Logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}
