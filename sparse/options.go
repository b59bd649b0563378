// SPDX-License-Identifier: MIT

// Package sparse: functional configuration of a store's numeric policy.
package sparse

import "math"

// DefaultValidateNaNInf is off for sparse storage: element-wise division
// legitimately produces ±Inf for cells present only in the numerator.
const DefaultValidateNaNInf = false

// Option configures a CSC at construction time.
type Option func(*Options)

// Options stores the effective store configuration.
type Options struct {
	validateNaNInf bool
}

// WithValidateNaNInf makes Set, Build and the in-place kernels reject NaN/±Inf with ErrNaNInf.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf stores non-finite values as given (default).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// ValidateNaNInf exposes the resolved policy.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

func gatherOptions(user ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

func isNonFinite(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }
