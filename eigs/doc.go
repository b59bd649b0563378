// SPDX-License-Identifier: MIT

// Package eigs computes a few eigenpairs of a large sparse operator.
//
// The core is Solver, a reverse-communication state machine: it never
// touches the matrix. Each Step either asks the caller for one product
// y = A·x (RequestMatVec; read X(), fill Y()) or reports the outcome
// (RequestDone, RequestFailed).
//
//	s, _ := eigs.NewSolver(n, k, true)
//	for {
//		switch s.Step() {
//		case eigs.RequestMatVec:
//			_ = a.MulVecTo(s.Y(), s.X())
//			continue
//		case eigs.RequestFailed:
//			return s.Err()
//		}
//		break
//	}
//
// Algorithm: Arnoldi with DGKS re-orthogonalisation builds an m-step Krylov
// basis (m = NCV). The projected m×m problem is solved densely (Jacobi for
// symmetric problems, LAPACK Geev otherwise), Ritz pairs are ordered by the
// selection rule and tested with the residual estimate ‖f‖·|e_mᵀy|. When
// fewer than k wanted pairs have converged the basis is thick-restarted on
// the span of the best k+(m−k)/2 Ritz vectors, with complex conjugate pairs
// kept together, and Arnoldi resumes from the residual.
//
// Sym and Gen drive the loop over an Operator (*sparse.CSC and
// *sparse.Subview both qualify), optionally in shift-invert mode, where the
// operator (A−σI)⁻¹ is factored once with a sparse LU.
//
// Numeric failures are returned as *Failure and match
// sparse.ErrNumericFailure with errors.Is.
package eigs
