// Package unigram builds and samples from the power-law unigram table used
// by negative sampling: a precomputed array of vocabulary ids whose slot
// frequencies approximate count_i^0.75 / Σ count_j^0.75, enabling O(1)
// sampling at training time.
package unigram

import "math"

// Size is the default number of slots in the table.
const Size = 100_000_000

// Power is the smoothing exponent applied to raw counts before
// normalizing, flattening the distribution toward rarer tokens.
const Power = 0.75

// Table is a precomputed categorical sampler over vocabulary ids.
type Table struct {
	slots []int32
	v     int
}

// Build constructs a Table of the given size over the frequency vector
// count (indexed by vocabulary id, count[0] is the boundary token). size
// is normally unigram.Size; tests use a smaller value to keep fixtures
// cheap.
func Build(count []uint64, size int) *Table {
	v := len(count)
	slots := make([]int32, size)

	var total float64
	for _, c := range count {
		total += math.Pow(float64(c), Power)
	}

	i := 0
	cumulative := math.Pow(float64(count[0]), Power) / total
	for a := 0; a < size; a++ {
		slots[a] = int32(i)
		if float64(a)/float64(size) > cumulative {
			i++
			if i >= v {
				i = v - 1
			}
			cumulative += math.Pow(float64(count[i]), Power) / total
		}
	}

	return &Table{slots: slots, v: v}
}

// Sample draws a vocabulary id from the distribution using the high bits
// of r, a 64-bit LCG state already advanced by the caller (see rng.Next).
// If the draw lands on the reserved boundary id 0, it is remapped
// uniformly into [1, v).
func (t *Table) Sample(r uint64) int32 {
	id := t.slots[(r>>16)%uint64(len(t.slots))]
	if id == 0 {
		return int32(r%uint64(t.v-1)) + 1
	}
	return id
}
