// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Elementwise transcendental and rounding maps in two forms: pure (fresh
//     result) and in-place (XInPlace, no allocation).
//   - A generic Map/Apply pair so callers can supply their own kernel.
//
// Determinism & Performance:
//   - Flat loops 0..n-1 over the row-major buffer; one allocation for pure forms.
//   - Out-of-domain inputs (Log of a negative, Sqrt of a negative) follow math's
//     IEEE-754 results and are not errors; use IsNaN/SetNaNsTo to sanitize.

package matrix

import "math"

const opMap = "Map"

// Map returns a fresh matrix with f applied to every element.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity: O(r*c).
func Map(m *Dense, f func(float64) float64) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opMap, ErrNilMatrix)
	}

	return scalarKernel(m, f)
}

// Apply replaces every element x with f(x) in place.
func (m *Dense) Apply(f func(float64) float64) {
	n := m.r * m.c
	for idx := 0; idx < n; idx++ {
		m.data[idx] = f(m.data[idx])
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func sqr(x float64) float64 { return x * x }

// Sqrt returns √m elementwise.
func Sqrt(m *Dense) (*Dense, error) { return Map(m, math.Sqrt) }

// Log returns the natural logarithm elementwise.
func Log(m *Dense) (*Dense, error) { return Map(m, math.Log) }

// Log10 returns the base-10 logarithm elementwise.
func Log10(m *Dense) (*Dense, error) { return Map(m, math.Log10) }

// Exp returns e^m elementwise.
func Exp(m *Dense) (*Dense, error) { return Map(m, math.Exp) }

// Sin returns sin(m) elementwise.
func Sin(m *Dense) (*Dense, error) { return Map(m, math.Sin) }

// Cos returns cos(m) elementwise.
func Cos(m *Dense) (*Dense, error) { return Map(m, math.Cos) }

// Pow returns m^p elementwise.
func Pow(m *Dense, p float64) (*Dense, error) {
	return Map(m, func(x float64) float64 { return math.Pow(x, p) })
}

// Floor rounds every element down.
func Floor(m *Dense) (*Dense, error) { return Map(m, math.Floor) }

// Ceil rounds every element up.
func Ceil(m *Dense) (*Dense, error) { return Map(m, math.Ceil) }

// Sign maps every element to -1, 0 or 1.
func Sign(m *Dense) (*Dense, error) { return Map(m, sign) }

// Abs returns |m| elementwise.
func Abs(m *Dense) (*Dense, error) { return Map(m, math.Abs) }

// Sqr returns m² elementwise.
func Sqr(m *Dense) (*Dense, error) { return Map(m, sqr) }

// SqrtInPlace applies √x to every element.
func (m *Dense) SqrtInPlace() { m.Apply(math.Sqrt) }

// LogInPlace applies ln x to every element.
func (m *Dense) LogInPlace() { m.Apply(math.Log) }

// Log10InPlace applies log10 x to every element.
func (m *Dense) Log10InPlace() { m.Apply(math.Log10) }

// ExpInPlace applies e^x to every element.
func (m *Dense) ExpInPlace() { m.Apply(math.Exp) }

// SinInPlace applies sin x to every element.
func (m *Dense) SinInPlace() { m.Apply(math.Sin) }

// CosInPlace applies cos x to every element.
func (m *Dense) CosInPlace() { m.Apply(math.Cos) }

// PowInPlace raises every element to p.
func (m *Dense) PowInPlace(p float64) {
	m.Apply(func(x float64) float64 { return math.Pow(x, p) })
}

// FloorInPlace rounds every element down.
func (m *Dense) FloorInPlace() { m.Apply(math.Floor) }

// CeilInPlace rounds every element up.
func (m *Dense) CeilInPlace() { m.Apply(math.Ceil) }

// SignInPlace maps every element to -1, 0 or 1.
func (m *Dense) SignInPlace() { m.Apply(sign) }

// AbsInPlace applies |x| to every element.
func (m *Dense) AbsInPlace() { m.Apply(math.Abs) }

// SqrInPlace squares every element.
func (m *Dense) SqrInPlace() { m.Apply(sqr) }

// AllClose reports whether a and b have the same shape and
// |a−b| <= atol + rtol·|b| holds elementwise. NaNs never compare close.
//
// Complexity: O(r*c).
func AllClose(a, b *Dense, rtol, atol float64) bool {
	if ValidateSameShape(a, b) != nil {
		return false
	}
	n := a.r * a.c
	for idx := 0; idx < n; idx++ {
		x, y := a.data[idx], b.data[idx]
		if math.IsNaN(x) || math.IsNaN(y) {
			return false
		}
		if math.Abs(x-y) > atol+rtol*math.Abs(y) {
			return false
		}
	}

	return true
}

// Clip limits every element to [lo, hi] in place.
func (m *Dense) Clip(lo, hi float64) {
	m.Apply(func(x float64) float64 { return math.Min(math.Max(x, lo), hi) })
}
