// SPDX-License-Identifier: MIT

package matrix

// Test bridge: exposes a read-only snapshot of the internal Options to
// matrix_test without widening the production API.

// OptionsSnapshot mirrors the unexported Options fields.
type OptionsSnapshot struct {
	Eps            float64
	ValidateNaNInf bool
	RowCapacity    int
}

func snapshotOf(o Options) OptionsSnapshot {
	return OptionsSnapshot{Eps: o.eps, ValidateNaNInf: o.validateNaNInf, RowCapacity: o.rowCapacity}
}

// DefaultOptionsSnapshot returns the documented defaults.
func DefaultOptionsSnapshot() OptionsSnapshot { return snapshotOf(defaultOptions()) }

// GatherOptionsSnapshot applies opts over the defaults.
func GatherOptionsSnapshot(opts ...Option) OptionsSnapshot { return snapshotOf(gatherOptions(opts...)) }

// Capacity exposes cap(data) in rows for growth tests.
func (m *Dense) Capacity() int {
	if m.c == 0 {
		return 0
	}

	return cap(m.data) / m.c
}
