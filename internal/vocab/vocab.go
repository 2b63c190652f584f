// Package vocab implements the open-address, linear-probe vocabulary hash
// table shared by the training engine and the phrase pass. It tracks token
// frequencies during a streaming first pass, evicts low-count entries when
// the table grows too full, and produces the frequency-sorted, pruned index
// space the rest of the pipeline builds on.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Boundary is the reserved id of the synthetic sentence-boundary token.
// It must be the first token Add'ed to a fresh Table.
const Boundary int32 = 0

// BoundaryToken is the literal sentence-boundary token string.
const BoundaryToken = "</s>"

// entry is a single vocabulary record: the token bytes and its running count.
type entry struct {
	word  string
	count uint64
}

// Table is an open-address hash table over vocabulary entries, backed by a
// contiguous entry slice indexed by vocabulary id. The hash table itself is
// fixed-size: a resizable map would change the observable eviction
// behaviour, so capacity is never grown beyond the configured hashSize.
type Table struct {
	entries     []entry
	hash        []int32 // slot -> vocab id, or -1 for empty
	hashSeed    uint64
	maxTokenLen int
	growChunk   int
	minReduce   int
	nTotal      uint64
}

const empty int32 = -1

// New creates an empty vocabulary table with a hash index of hashSize slots.
// hashSeed parameterizes the polynomial-hash accumulator's initial value —
// the trainer and the phrase pass deliberately use different seeds (0 and 1
// respectively), so this is a constructor argument, never a package
// constant.
func New(hashSize int, hashSeed uint64, maxTokenLen, growChunk int) *Table {
	h := make([]int32, hashSize)
	for i := range h {
		h[i] = empty
	}
	return &Table{
		hash:        h,
		hashSeed:    hashSeed,
		maxTokenLen: maxTokenLen,
		growChunk:   growChunk,
		minReduce:   1,
	}
}

// wordHash computes h = fold(h*257 + b) over the token's bytes, seeded with
// hashSeed, reduced mod len(hash).
func (t *Table) wordHash(word string) uint64 {
	h := t.hashSeed
	for i := 0; i < len(word); i++ {
		h = h*257 + uint64(word[i])
	}
	return h % uint64(len(t.hash))
}

// truncate clips word to maxTokenLen bytes. The tokenizer already
// truncates file input; this guards programmatic callers, e.g. the phrase
// pass's synthesized bigram keys.
func (t *Table) truncate(word string) string {
	if len(word) > t.maxTokenLen {
		return word[:t.maxTokenLen]
	}
	return word
}

// Lookup returns the id of word, or (0, false) if it is not present.
func (t *Table) Lookup(word string) (int32, bool) {
	word = t.truncate(word)
	slot := t.wordHash(word)
	for {
		id := t.hash[slot]
		if id == empty {
			return 0, false
		}
		if t.entries[id].word == word {
			return id, true
		}
		slot = (slot + 1) % uint64(len(t.hash))
	}
}

// grow extends the backing entry slice by a fixed chunk when it is within
// two entries of capacity. Append would grow the slice on its own;
// fixed-chunk sizing keeps reallocation at a predictable cadence.
func (t *Table) grow() {
	if len(t.entries)+2 < cap(t.entries) {
		return
	}
	next := make([]entry, len(t.entries), cap(t.entries)+t.growChunk)
	copy(next, t.entries)
	t.entries = next
}

// Add appends a new zero-count record for word and inserts it at the first
// empty slot on its probe sequence. It does not check for an existing entry
// — callers must Lookup first if they want add-or-increment semantics (see
// AddOrIncr).
func (t *Table) Add(word string) int32 {
	word = t.truncate(word)
	t.grow()
	id := int32(len(t.entries))
	t.entries = append(t.entries, entry{word: word, count: 0})

	slot := t.wordHash(word)
	for t.hash[slot] != empty {
		slot = (slot + 1) % uint64(len(t.hash))
	}
	t.hash[slot] = id
	return id
}

// AddOrIncr looks up word, incrementing its count if present or adding it
// with count 1 otherwise. It returns the word's id.
func (t *Table) AddOrIncr(word string) int32 {
	if id, ok := t.Lookup(word); ok {
		t.entries[id].count++
		return id
	}
	id := t.Add(word)
	t.entries[id].count = 1
	return id
}

// Incr increments the count of id by one.
func (t *Table) Incr(id int32) {
	t.entries[id].count++
}

// Count returns the current count of id.
func (t *Table) Count(id int32) uint64 {
	return t.entries[id].count
}

// Word returns the token string of id.
func (t *Table) Word(id int32) string {
	return t.entries[id].word
}

// Len returns the number of entries currently in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// NTotal returns the total token count recomputed by SortAndPrune (the sum
// of surviving counts). It is zero until SortAndPrune has run.
func (t *Table) NTotal() uint64 {
	return t.nTotal
}

// LoadFactor returns the current fraction of occupied hash slots.
func (t *Table) LoadFactor() float64 {
	return float64(len(t.entries)) / float64(len(t.hash))
}

// rebuildHash clears and repopulates the hash index from the current
// entries slice, in entry order.
func (t *Table) rebuildHash() {
	for i := range t.hash {
		t.hash[i] = empty
	}
	for id := range t.entries {
		slot := t.wordHash(t.entries[id].word)
		for t.hash[slot] != empty {
			slot = (slot + 1) % uint64(len(t.hash))
		}
		t.hash[slot] = int32(id)
	}
}

// Reduce evicts every entry with count <= minReduce (strict greater-than
// survives), compacts the surviving entries preserving relative order,
// rebuilds the hash index, and bumps minReduce for next time. It is the
// trainer/phrase-pass response to the hash table filling past 70% load.
//
// Deliberately asymmetric with SortAndPrune: eviction keeps count >
// minReduce while the final prune drops count < minCount, and Reduce does
// not special-case id 0 — a sentence-boundary token that hasn't
// accumulated enough count by the time a mid-pass reduction fires is
// evicted like any other entry.
func (t *Table) Reduce() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.count > uint64(t.minReduce) {
			kept = append(kept, e)
		}
	}
	t.entries = kept
	t.rebuildHash()
	t.minReduce++
}

// SortAndPrune sorts ids [1, V) by count descending (id 0, the sentence
// boundary, stays pinned in place regardless of its count), discards every
// entry with count < minCount (id 0 excepted), compacts, rebuilds the hash
// index, and recomputes NTotal as the sum of surviving counts. It returns
// an error if no tokens survive — an empty vocabulary is a fatal
// configuration error.
func (t *Table) SortAndPrune(minCount int) error {
	if len(t.entries) == 0 {
		return fmt.Errorf("vocab: empty vocabulary before prune")
	}

	rest := t.entries[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].count > rest[j].count
	})

	kept := make([]entry, 0, len(t.entries))
	kept = append(kept, t.entries[0])
	var total uint64
	total += t.entries[0].count
	for _, e := range rest {
		if uint64(e.count) < uint64(minCount) {
			continue
		}
		kept = append(kept, e)
		total += e.count
	}

	if len(kept) <= 1 {
		return fmt.Errorf("vocab: empty vocabulary after min-count prune (min-count=%d)", minCount)
	}

	t.entries = kept
	t.nTotal = total
	t.rebuildHash()
	return nil
}

// Save writes the vocabulary in current order to path as lines of
// "<token> <count>\n".
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vocab: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(w, "%s %d\n", e.word, e.count); err != nil {
			return fmt.Errorf("vocab: write %s: %w", path, err)
		}
	}
	return w.Flush()
}

// Load reads a vocabulary previously written by Save, rebuilding a fresh
// Table with the given hash parameters. Counts are taken verbatim from the
// file — the caller is responsible for invoking SortAndPrune afterward if
// it needs NTotal populated.
func Load(path string, hashSize int, hashSeed uint64, maxTokenLen, growChunk int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open %s: %w", path, err)
	}
	defer f.Close()

	t := New(hashSize, hashSeed, maxTokenLen, growChunk)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		i := strings.LastIndexByte(line, ' ')
		if i < 0 {
			return nil, fmt.Errorf("vocab: malformed line %q in %s", line, path)
		}
		word, countStr := line[:i], line[i+1:]
		count, err := strconv.ParseUint(countStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("vocab: malformed count in %q: %w", line, err)
		}
		id := t.Add(word)
		t.entries[id].count = count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	return t, nil
}
