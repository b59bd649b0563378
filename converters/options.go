// SPDX-License-Identifier: MIT

package converters

import (
	"log/slog"

	"github.com/katalvlaran/lvsparse/sparse"
)

// DefaultDuplicatePolicy resolves repeated triplets by summation.
const DefaultDuplicatePolicy = sparse.DupSum

// Option configures Import and FromDense.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	dup      sparse.DupPolicy
	validate bool
}

func gatherOptions(opts ...Option) options {
	o := options{dup: DefaultDuplicatePolicy}
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}
	if o.logger == nil {
		o.logger = Logger
	}

	return o
}

// WithLogger routes import logging to l. A nil l keeps the package Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDuplicatePolicy selects how repeated coordinates of d and i kinds are
// resolved. Panics on an unknown policy.
func WithDuplicatePolicy(p sparse.DupPolicy) Option {
	if p != sparse.DupSum && p != sparse.DupLast && p != sparse.DupOr {
		panic("converters: WithDuplicatePolicy: unknown policy")
	}

	return func(o *options) { o.dup = p }
}

// WithValidateNaNInf makes the imported store reject NaN/±Inf values.
func WithValidateNaNInf() Option {
	return func(o *options) { o.validate = true }
}

func (o options) storeOptions() []sparse.Option {
	if o.validate {
		return []sparse.Option{sparse.WithValidateNaNInf()}
	}

	return []sparse.Option{sparse.WithNoValidateNaNInf()}
}
