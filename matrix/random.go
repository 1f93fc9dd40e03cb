// SPDX-License-Identifier: MIT

package matrix

import "math/rand/v2"

// Rand returns an r×c matrix of uniform values in [lo, hi) drawn from rng.
// A fixed-seed rng (rand.New(rand.NewPCG(s1, s2))) makes the result reproducible.
//
// Errors:
//   - ErrInvalidDimensions for a non-positive shape.
func Rand(rows, cols int, lo, hi float64, rng *rand.Rand) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	m.SetRand(lo, hi, rng)

	return m, nil
}

// SetRand overwrites every element with a uniform value in [lo, hi).
// A nil rng uses the process-wide source (non-deterministic).
func (m *Dense) SetRand(lo, hi float64, rng *rand.Rand) {
	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}
	span := hi - lo
	n := m.r * m.c
	for idx := 0; idx < n; idx++ {
		m.data[idx] = lo + span*draw()
	}
}
