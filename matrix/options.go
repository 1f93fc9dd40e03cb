// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for Dense construction and numeric policy.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Options fields are unexported; public constructors consume ...Option.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the pivot/determinant magnitude at or below which a
	// matrix is treated as singular by the inversion kernels.
	DefaultEpsilon = 1e-12

	// DefaultValidateNaNInf toggles strict finite-value validation in Set.
	DefaultValidateNaNInf = true

	// DefaultRowCapacity is the number of rows preallocated by NewDense when no
	// capacity hint is given (0 means exactly the requested rows).
	DefaultRowCapacity = 0
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid  = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicCapacityInvalid = "matrix: WithRowCapacity: capacity must be >= 0"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps            float64 // >= 0; DefaultEpsilon
	validateNaNInf bool    // DefaultValidateNaNInf
	rowCapacity    int     // >= 0; DefaultRowCapacity
}

// WithEpsilon sets the singularity tolerance used by Invert2x2 and Inverse.
//
// Errors:
//   - Panics with a stable message when eps is negative or non-finite.
//
// Complexity:
//   - Time O(1), Space O(1).
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithValidateNaNInf enables strict finite-value validation in Set (default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf relaxes the finite-value policy; Set accepts NaN and ±Inf.
// Useful for log-domain buffers where -Inf is a legal value.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithRowCapacity reserves room for n rows so PushBack/PushBackRow can grow
// without reallocating until the capacity is exhausted.
//
// Errors:
//   - Panics when n < 0.
func WithRowCapacity(n int) Option {
	if n < 0 {
		panic(panicCapacityInvalid)
	}

	return func(o *Options) { o.rowCapacity = n }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		eps:            DefaultEpsilon,
		validateNaNInf: DefaultValidateNaNInf,
		rowCapacity:    DefaultRowCapacity,
	}
}

// gatherOptions applies opts over the defaults in order (last write wins).
// Complexity: O(len(opts)).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
