package unigram

import (
	"math"
	"testing"
)

// TestBuildDistribution: counts {0:1, 1:9, 2:90} with power=0.75 and
// T=10000 should place each id's raw slot count within rounding of its
// expected power-law share. The fill loop assigns a slot
// before checking the cumulative boundary, so each id can overshoot its
// exact share by one slot on top of the 1/T rounding — hence the 2-slot
// tolerance. This is a white-box test (same package) because Sample()'s
// id-0 boundary remap is a separate, downstream concern from the table's
// own slot layout — see TestSampleNeverReturnsBoundary.
func TestBuildDistribution(t *testing.T) {
	counts := []uint64{1, 9, 90}
	const size = 10000
	tbl := Build(counts, size)

	var total float64
	expected := make([]float64, len(counts))
	for i, c := range counts {
		expected[i] = math.Pow(float64(c), Power)
		total += expected[i]
	}

	got := make([]int, len(counts))
	for _, id := range tbl.slots {
		got[id]++
	}

	for i := range counts {
		want := expected[i] / total * size
		diff := math.Abs(float64(got[i]) - want)
		if diff > 2 {
			t.Errorf("id %d: got %d slots, want %.1f (+/-2)", i, got[i], want)
		}
	}
}

func TestSampleNeverReturnsBoundary(t *testing.T) {
	counts := []uint64{1000, 1, 1}
	tbl := Build(counts, 1000)
	for r := uint64(0); r < 5000; r++ {
		if tbl.Sample(r) == 0 {
			t.Fatalf("Sample(%d) returned reserved boundary id 0", r)
		}
	}
}

func TestSampleWithinRange(t *testing.T) {
	counts := []uint64{5, 3, 2, 1}
	tbl := Build(counts, 500)
	for r := uint64(0); r < 2000; r++ {
		id := tbl.Sample(r * 104729)
		if int(id) < 0 || int(id) >= len(counts) {
			t.Fatalf("Sample returned out-of-range id %d", id)
		}
	}
}
