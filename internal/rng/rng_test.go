package rng_test

import (
	"testing"

	"github.com/screenager/wordvec/internal/rng"
)

func TestDeterministicStream(t *testing.T) {
	a := rng.New(1)
	b := rng.New(1)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("streams seeded identically diverged at step %d", i)
		}
	}
}

func TestDistinctSeedsDiverge(t *testing.T) {
	a := rng.New(1)
	b := rng.New(2)
	if a.Next() == b.Next() {
		t.Fatal("streams seeded differently produced the same first value")
	}
}

func TestFloat01InRange(t *testing.T) {
	s := rng.New(12345)
	for i := 0; i < 10000; i++ {
		f := s.Float01()
		if f < 0 || f >= 1 {
			t.Fatalf("Float01() = %v, want [0, 1)", f)
		}
	}
}

func TestRecurrence(t *testing.T) {
	s := rng.New(7)
	want := uint64(7)*rng.Multiplier + rng.Increment
	got := s.Next()
	if got != want {
		t.Fatalf("Next() = %d, want %d", got, want)
	}
}
