package vocab_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/screenager/wordvec/internal/vocab"
)

// TestSortAndPrune: counting "a a a a b b c" then pruning with min_count=2
// survives with V=3: {0:</s>, 1:a(4), 2:b(2)}; c is pruned.
func TestSortAndPrune(t *testing.T) {
	vc := vocab.New(1024, 0, 100, 16)
	vc.Add(vocab.BoundaryToken)

	for _, w := range strings.Fields("a a a a b b c") {
		vc.AddOrIncr(w)
	}

	if err := vc.SortAndPrune(2); err != nil {
		t.Fatalf("SortAndPrune: %v", err)
	}

	if vc.Len() != 3 {
		t.Fatalf("got V=%d, want 3", vc.Len())
	}
	if vc.Word(0) != vocab.BoundaryToken {
		t.Fatalf("id 0 is %q, want boundary token", vc.Word(0))
	}

	aID, ok := vc.Lookup("a")
	if !ok || vc.Count(aID) != 4 {
		t.Fatalf("lookup(a) = (%d, %v), want count 4", aID, ok)
	}
	bID, ok := vc.Lookup("b")
	if !ok || vc.Count(bID) != 2 {
		t.Fatalf("lookup(b) = (%d, %v), want count 2", bID, ok)
	}
	if _, ok := vc.Lookup("c"); ok {
		t.Fatalf("lookup(c) should be NONE after prune")
	}

	// ids [1, V) sorted by count descending.
	if aID >= bID {
		t.Fatalf("expected a (count 4) sorted before b (count 2), got ids %d, %d", aID, bID)
	}
}

func TestSortAndPruneEmptyIsError(t *testing.T) {
	vc := vocab.New(1024, 0, 100, 16)
	vc.Add(vocab.BoundaryToken)
	vc.AddOrIncr("rare")

	if err := vc.SortAndPrune(5); err == nil {
		t.Fatal("expected error pruning an all-rare vocabulary to empty")
	}
}

func TestReduceAsymmetricThreshold(t *testing.T) {
	vc := vocab.New(64, 0, 100, 8)
	vc.Add(vocab.BoundaryToken)
	vc.AddOrIncr("keep")
	vc.AddOrIncr("keep")
	vc.AddOrIncr("keep")
	vc.AddOrIncr("drop")

	vc.Reduce() // minReduce starts at 1: count>1 survives, count==1 is evicted

	if _, ok := vc.Lookup("keep"); !ok {
		t.Fatal("keep should survive a minReduce=1 reduction (count=3>1)")
	}
	if _, ok := vc.Lookup("drop"); ok {
		t.Fatal("drop should be evicted by a minReduce=1 reduction (count=1, not >1)")
	}
}

// TestReduceThenSortAndPrune drives a table through a mid-pass reduction
// followed by the final sort, checking the two asymmetric thresholds
// directly: Reduce keeps count > minReduce, SortAndPrune drops count <
// minCount.
func TestReduceThenSortAndPrune(t *testing.T) {
	vc := vocab.New(1024, 0, 100, 16)
	vc.Add(vocab.BoundaryToken)
	for i := 0; i < 3; i++ {
		vc.AddOrIncr(vocab.BoundaryToken)
	}
	for _, w := range strings.Fields("a a a b b c d") {
		vc.AddOrIncr(w)
	}

	vc.Reduce() // minReduce=1: c and d (count 1, not >1) are evicted

	if _, ok := vc.Lookup("c"); ok {
		t.Fatal("c should be evicted by the mid-pass reduction")
	}
	if _, ok := vc.Lookup("d"); ok {
		t.Fatal("d should be evicted by the mid-pass reduction")
	}

	// c reappears later in the stream with a fresh count of 1.
	vc.AddOrIncr("c")

	if err := vc.SortAndPrune(2); err != nil {
		t.Fatalf("SortAndPrune: %v", err)
	}

	if _, ok := vc.Lookup("a"); !ok {
		t.Fatal("a (count 3) should survive the final prune")
	}
	if _, ok := vc.Lookup("b"); !ok {
		t.Fatal("b (count 2, not <2) should survive the final prune")
	}
	if _, ok := vc.Lookup("c"); ok {
		t.Fatal("c (count 1 < 2) should be dropped by the final prune")
	}
	if vc.Word(0) != vocab.BoundaryToken {
		t.Fatalf("id 0 is %q, want boundary token", vc.Word(0))
	}
	if vc.NTotal() != 3+3+2 {
		t.Fatalf("NTotal = %d, want %d", vc.NTotal(), 3+3+2)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	vc := vocab.New(1024, 0, 100, 16)
	vc.Add(vocab.BoundaryToken)
	for _, w := range strings.Fields("a a a b b c") {
		vc.AddOrIncr(w)
	}
	if err := vc.SortAndPrune(1); err != nil {
		t.Fatalf("SortAndPrune: %v", err)
	}

	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := vc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := vocab.Load(path, 1024, 0, 100, 16)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Len() != vc.Len() {
		t.Fatalf("loaded V=%d, want %d", loaded.Len(), vc.Len())
	}
	for i := 0; i < vc.Len(); i++ {
		if loaded.Word(int32(i)) != vc.Word(int32(i)) || loaded.Count(int32(i)) != vc.Count(int32(i)) {
			t.Fatalf("entry %d mismatch: got (%q,%d), want (%q,%d)",
				i, loaded.Word(int32(i)), loaded.Count(int32(i)), vc.Word(int32(i)), vc.Count(int32(i)))
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := vocab.Load(filepath.Join(t.TempDir(), "missing.txt"), 64, 0, 100, 8); err == nil {
		t.Fatal("expected error loading a missing vocabulary file")
	}
}

func TestBothHashSeedsLookUp(t *testing.T) {
	// Same token set under seeds 0 and 1. This is a smoke check that both
	// tables function, not an assertion on any particular slot layout (see
	// TestHashSeedShiftsSlots for that).
	a := vocab.New(1024, 0, 100, 16)
	b := vocab.New(1024, 1, 100, 16)
	for _, vc := range []*vocab.Table{a, b} {
		vc.Add(vocab.BoundaryToken)
		vc.AddOrIncr("new")
		vc.AddOrIncr("york")
	}
	if _, ok := a.Lookup("new"); !ok {
		t.Fatal("seed-0 table should find 'new'")
	}
	if _, ok := b.Lookup("new"); !ok {
		t.Fatal("seed-1 table should find 'new'")
	}
}

