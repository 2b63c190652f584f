// Package engine implements the multi-worker SGD training loop: CBOW and
// skip-gram architectures, each with hierarchical-softmax and/or negative-
// sampling objectives, frequency subsampling, per-position window jitter,
// and a globally decayed learning rate. Workers run as plain goroutines
// over disjoint byte shards of the corpus and mutate shared model tensors
// with no synchronization — a deliberate Hogwild scheme (see Tensors).
package engine

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/screenager/wordvec/internal/huffman"
	"github.com/screenager/wordvec/internal/rng"
	"github.com/screenager/wordvec/internal/sigmoid"
	"github.com/screenager/wordvec/internal/unigram"
	"github.com/screenager/wordvec/internal/vocab"
)

// Architecture selects the model's input/output framing.
type Architecture int

const (
	SkipGram Architecture = iota
	CBOW
)

// MaxSentenceLen bounds how many tokens a worker assembles into a sentence
// before forcing a boundary, independent of the input's own newlines.
const MaxSentenceLen = 1000

// Config holds every tunable the training engine reads at startup. Field
// names and defaults mirror the option table in the external interface.
type Config struct {
	Architecture Architecture
	HS           bool
	NS           bool
	Window       int
	Sample       float64
	Negative     int
	Iter         int
	Alpha        float64
	Workers      int
	Dim          int
	Debug        int

	// UnigramSize overrides the negative-sampling table's slot count.
	// Zero means unigram.Size; tests shrink it to keep fixtures cheap.
	UnigramSize int
}

// DefaultConfig returns the skip-gram defaults; callers that want CBOW
// should also set Alpha to 0.05.
func DefaultConfig() Config {
	return Config{
		Architecture: SkipGram,
		HS:           false,
		NS:           true,
		Window:       5,
		Sample:       1e-3,
		Negative:     5,
		Iter:         5,
		Alpha:        0.025,
		Workers:      12,
		Dim:          100,
		Debug:        0,
	}
}

// Tensors holds the model's flat, row-major parameter arrays. Every row
// is D floats wide. All three slices are mutated in place by every worker
// goroutine with no locking: this is Hogwild SGD — correctness in
// expectation relies on row collisions being rare, not on any ordering
// guarantee. Do not add a mutex here; doing so would silently change the
// algorithm's statistical behavior under concurrency, not just its
// performance.
type Tensors struct {
	Dim int
	In  []float32 // V*Dim, input embeddings
	Hs  []float32 // V*Dim, hierarchical-softmax output weights (nil if !HS)
	Neg []float32 // V*Dim, negative-sampling output weights (nil if !NS)
}

// cacheLine is the alignment boundary for tensor allocations.
const cacheLine = 128

// alignedFloats returns a zeroed float32 slice of length n whose backing
// array starts on a cacheLine boundary.
func alignedFloats(n int) []float32 {
	buf := make([]float32, n+cacheLine/4)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	off := 0
	if rem := addr % cacheLine; rem != 0 {
		off = int((cacheLine - rem) / 4)
	}
	return buf[off : off+n : off+n]
}

// NewTensors allocates zeroed output tensors and a uniform-randomly
// initialized input tensor, using seed to drive the same LCG the rest of
// the engine uses.
func NewTensors(v, dim int, hs, ns bool, seed uint64) *Tensors {
	t := &Tensors{Dim: dim, In: alignedFloats(v * dim)}
	r := rng.New(seed)
	for i := range t.In {
		u := r.Float01()
		t.In[i] = float32((u - 0.5) / float64(dim))
	}
	if hs {
		t.Hs = alignedFloats(v * dim)
	}
	if ns {
		t.Neg = alignedFloats(v * dim)
	}
	return t
}

func (t *Tensors) row(tensor []float32, id int32) []float32 {
	off := int(id) * t.Dim
	return tensor[off : off+t.Dim]
}

// State is the shared, racily-accessed training context threaded through
// every worker: the global learning rate and consumed-word counter. α
// tolerates torn reads, and the counter is an approximate progress signal,
// not an exact one.
type State struct {
	alpha   atomic.Uint64 // bits of a float64, via math.Float64bits
	nDone   atomic.Uint64
	alpha0  float64
	eTimesN float64 // E * N_total, precomputed once
	debug   int
}

func newState(alpha0 float64, epochs int, nTotal uint64, debug int) *State {
	s := &State{alpha0: alpha0, eTimesN: float64(epochs) * float64(nTotal), debug: debug}
	s.alpha.Store(math.Float64bits(alpha0))
	return s
}

func (s *State) Alpha() float64 {
	return math.Float64frombits(s.alpha.Load())
}

// reportProgress folds delta words into the global counter and republishes
// a decayed α, floored at a ten-thousandth of its starting value.
func (s *State) reportProgress(delta uint64) {
	nDone := s.nDone.Add(delta)
	alpha := s.alpha0 * (1 - float64(nDone)/(s.eTimesN+1))
	if alpha < s.alpha0*1e-4 {
		alpha = s.alpha0 * 1e-4
	}
	s.alpha.Store(math.Float64bits(alpha))

	if s.debug >= 2 {
		fmt.Fprintf(os.Stderr, "\ralpha: %f  progress: %.2f%%  ",
			alpha, float64(nDone)/(s.eTimesN+1)*100)
	}
}

// NDone returns the current global consumed-word counter.
func (s *State) NDone() uint64 {
	return s.nDone.Load()
}

// Model bundles everything the training loop needs that is frozen before
// any worker starts: the vocabulary, optional Huffman codes, optional
// unigram table, and the shared sigmoid lookup.
type Model struct {
	Vocab   *vocab.Table
	Codes   *huffman.Codes // nil unless Config.HS
	Unigram *unigram.Table // nil unless Config.NS
	Sigmoid *sigmoid.Table
	Tensors *Tensors
	State   *State
	Config  Config
}

// ShardOpener returns a fresh read-only handle seeked to byte offset, for
// a worker to (re-)open its shard at epoch boundaries.
type ShardOpener func(offset int64) (io.ReadCloser, error)

// Build assembles a Model from a frozen vocabulary: Huffman codes (if HS),
// the unigram table (if NS), the sigmoid lookup, and freshly initialized
// tensors. cfg must already reflect the caller's architecture/objective
// choices.
func Build(vc *vocab.Table, cfg Config, seed uint64) (*Model, error) {
	if vc.Len() == 0 {
		return nil, fmt.Errorf("engine: empty vocabulary")
	}

	counts := make([]uint64, vc.Len())
	for i := 0; i < vc.Len(); i++ {
		counts[i] = vc.Count(int32(i))
	}

	var codes *huffman.Codes
	if cfg.HS {
		var err error
		codes, err = huffman.Build(counts)
		if err != nil {
			return nil, fmt.Errorf("engine: build huffman codes: %w", err)
		}
	}

	var uni *unigram.Table
	if cfg.NS {
		size := cfg.UnigramSize
		if size <= 0 {
			size = unigram.Size
		}
		uni = unigram.Build(counts, size)
	}

	tensors := NewTensors(vc.Len(), cfg.Dim, cfg.HS, cfg.NS, seed)

	return &Model{
		Vocab:   vc,
		Codes:   codes,
		Unigram: uni,
		Sigmoid: sigmoid.Build(),
		Tensors: tensors,
		State:   newState(cfg.Alpha, cfg.Iter, vc.NTotal(), cfg.Debug),
		Config:  cfg,
	}, nil
}

// Train splits the corpus (of total byte length fileSize) into
// Config.Workers shards, runs one goroutine per shard for Config.Iter
// epochs each, and returns once every worker has exhausted its epochs.
// Model tensors are mutated in place; there is nothing further to return.
func (m *Model) Train(open ShardOpener, fileSize int64) error {
	n := m.Config.Workers
	if n < 1 {
		n = 1
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	shardLen := fileSize / int64(n)

	for w := 0; w < n; w++ {
		wg.Add(1)
		start := int64(w) * shardLen
		end := start + shardLen
		if w == n-1 {
			end = fileSize
		}
		go func(workerID int, start, end int64) {
			defer wg.Done()
			wk := &worker{
				id:    workerID,
				model: m,
				open:  open,
				start: start,
				end:   end,
				rng:   rng.New(uint64(workerID) + 1),
			}
			errs[workerID] = wk.run()
		}(w, start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	if m.Config.Debug >= 2 {
		fmt.Fprintln(os.Stderr) // terminate the \r-rewritten progress line
	}
	if m.Config.Debug >= 1 {
		fmt.Fprintf(os.Stderr, "[debug] training done: vocab=%d words_done=%d\n", m.Vocab.Len(), m.State.NDone())
	}
	return nil
}
