package engine

import (
	"fmt"
	"io"
	"math"

	"github.com/screenager/wordvec/internal/rng"
	"github.com/screenager/wordvec/internal/tokenize"
)

// progressFlushThreshold is how many locally-consumed words accumulate
// before a worker folds them into the global counter and republishes α.
const progressFlushThreshold = 10000

// worker runs the training loop over one byte-offset shard of the corpus,
// for Config.Iter epochs, independently of every other worker.
type worker struct {
	id    int
	model *Model
	open  ShardOpener
	start int64
	end   int64
	rng   rng.State

	wordCount    uint64
	lastReported uint64
	alpha        float64
	e            []float32 // gradient accumulator, length Dim
}

func (w *worker) run() error {
	m := w.model
	w.alpha = m.State.Alpha()
	w.e = make([]float32, m.Config.Dim)

	remaining := m.Config.Iter
	for remaining > 0 {
		if err := w.runEpoch(); err != nil {
			return fmt.Errorf("engine: worker %d: %w", w.id, err)
		}
		// Fold the residual below-threshold delta into the global counter
		// before the word count resets for the next epoch.
		if delta := w.wordCount - w.lastReported; delta > 0 {
			m.State.reportProgress(delta)
			w.alpha = m.State.Alpha()
		}
		w.wordCount = 0
		w.lastReported = 0
		remaining--
	}
	return nil
}

// runEpoch streams the worker's shard once, training on each assembled
// sentence as it goes. The epoch ends at shard end or once the worker has
// consumed its per-worker share of the corpus, whichever comes first.
func (w *worker) runEpoch() error {
	f, err := w.open(w.start)
	if err != nil {
		return fmt.Errorf("open shard: %w", err)
	}
	defer f.Close()

	limited := io.LimitReader(f, w.end-w.start)
	tr := tokenize.New(limited, 100)

	workers := w.model.Config.Workers
	if workers < 1 {
		workers = 1
	}
	wordLimit := w.model.Vocab.NTotal() / uint64(workers)

	for {
		sentence, eof, err := w.assembleSentence(tr)
		if err != nil {
			return fmt.Errorf("assemble sentence: %w", err)
		}
		if len(sentence) > 0 {
			w.trainSentence(sentence)
		}
		if eof || w.wordCount > wordLimit {
			return nil
		}
	}
}

// assembleSentence reads vocabulary ids until a boundary token, until
// MaxSentenceLen ids have accumulated, or until the shard is exhausted.
// Out-of-vocabulary tokens are dropped; kept tokens are subject to
// frequency subsampling.
func (w *worker) assembleSentence(tr *tokenize.Reader) (sentence []int32, eof bool, err error) {
	m := w.model
	nTotal := m.Vocab.NTotal()

	for len(sentence) < MaxSentenceLen {
		tok, terr := tr.Next()
		if terr == io.EOF {
			return sentence, true, nil
		}
		if terr != nil {
			return nil, false, terr
		}

		w.wordCount++
		if w.wordCount-w.lastReported > progressFlushThreshold {
			delta := w.wordCount - w.lastReported
			m.State.reportProgress(delta)
			w.alpha = m.State.Alpha()
			w.lastReported = w.wordCount
		}

		if tok == tokenize.Boundary {
			if len(sentence) == 0 {
				continue
			}
			return sentence, false, nil
		}

		id, ok := m.Vocab.Lookup(tok)
		if !ok {
			continue
		}

		if m.Config.Sample > 0 {
			count := m.Vocab.Count(id)
			threshold := m.Config.Sample * float64(nTotal)
			pKeep := (math.Sqrt(float64(count)/threshold) + 1) * threshold / float64(count)
			if w.rng.Float01() > pKeep {
				continue
			}
		}

		sentence = append(sentence, id)
	}
	return sentence, false, nil
}
