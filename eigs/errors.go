// SPDX-License-Identifier: MIT

package eigs

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvsparse/sparse"
)

var (
	// ErrStructuralAssertion reports an ill-posed request: a non-square
	// operator, k outside [1, n-2], an NCV that does not fit, or a selection
	// rule the problem type does not define.
	ErrStructuralAssertion = sparse.ErrStructuralAssertion

	// ErrUnknownWhich reports a selection name ParseWhich does not know.
	ErrUnknownWhich = errors.New("eigs: unknown selection rule")
)

// Code classifies a numeric failure.
type Code uint8

const (
	// CodeNoConvergence: the wanted pairs did not converge within MaxIter restarts.
	CodeNoConvergence Code = iota + 1
	// CodeSingularShift: A−σI could not be factored or produced non-finite solves.
	CodeSingularShift
	// CodeProjection: the dense projected eigenproblem failed.
	CodeProjection
)

func (c Code) String() string {
	switch c {
	case CodeNoConvergence:
		return "no convergence"
	case CodeSingularShift:
		return "singular shift"
	case CodeProjection:
		return "projection failed"
	}

	return fmt.Sprintf("code(%d)", uint8(c))
}

// Failure is a numeric failure of the solver.
type Failure struct {
	Code Code
	Msg  string
}

func (f *Failure) Error() string { return fmt.Sprintf("eigs: %s: %s", f.Code, f.Msg) }

// Is matches sparse.ErrNumericFailure.
func (f *Failure) Is(target error) bool { return target == sparse.ErrNumericFailure }

func failuref(code Code, format string, args ...any) *Failure {
	return &Failure{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// eigsErrorf tags err with the driver name.
func eigsErrorf(op string, err error) error {
	return fmt.Errorf("eigs: %s: %w", op, err)
}
