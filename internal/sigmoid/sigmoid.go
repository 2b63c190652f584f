// Package sigmoid precomputes a piecewise lookup table for the logistic
// function over [-6, 6], the domain where the training engine's dot
// products are expected to fall; values outside that range are handled by
// the caller via saturation, not by this table.
package sigmoid

import "math"

// MaxExp bounds the domain of the table: entries cover [-MaxExp, MaxExp].
const MaxExp = 6.0

// TableSize is the number of precomputed entries.
const TableSize = 1000

// Table is a precomputed sigmoid lookup over [-MaxExp, MaxExp].
type Table struct {
	entries [TableSize]float32
}

// Build precomputes the table: entries[k] = σ(2·MaxExp·k/TableSize - MaxExp).
func Build() *Table {
	var t Table
	for k := 0; k < TableSize; k++ {
		x := (float64(k)/TableSize)*(2*MaxExp) - MaxExp
		t.entries[k] = float32(1.0 / (1.0 + math.Exp(-x)))
	}
	return &t
}

// Lookup returns σ(x) for x already known to lie in (-MaxExp, MaxExp).
// Callers at the training engine's hot path are responsible for the
// MAX_EXP saturation clamps described in the component design (HS skips
// the update when |x| >= MaxExp; NS treats σ as 1 or 0 at the bounds) —
// this table only ever serves the interior.
func (t *Table) Lookup(x float64) float32 {
	idx := int((x + MaxExp) * (TableSize / (2 * MaxExp)))
	if idx < 0 {
		idx = 0
	} else if idx >= TableSize {
		idx = TableSize - 1
	}
	return t.entries[idx]
}
