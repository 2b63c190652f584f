// Package phrase implements the two-scan bigram-detection pre-pass: a
// first scan builds a combined unigram+bigram vocabulary, then a second
// scan rewrites the corpus, joining statistically significant adjacent
// token pairs with an underscore.
package phrase

import (
	"bufio"
	"fmt"
	"io"

	"github.com/screenager/wordvec/internal/tokenize"
	"github.com/screenager/wordvec/internal/vocab"
)

// HashSeed is the polynomial-hash accumulator seed this pass uses — 1,
// deliberately distinct from the trainer's 0.
const HashSeed uint64 = 1

// MaxTokenLen bounds tokens (and joined bigram keys) in this pass.
const MaxTokenLen = 60

// Options configures a phrase-detection run.
type Options struct {
	HashSize  int     // open-address table slot count
	GrowChunk int     // entry-slice growth chunk
	MinCount  int     // prune/score threshold
	Threshold float64 // join decision threshold
}

// DefaultOptions returns the standard sizing for a full-corpus run.
func DefaultOptions() Options {
	return Options{
		HashSize:  int(5e8),
		GrowChunk: 10000,
		MinCount:  5,
		Threshold: 100,
	}
}

// joinKey builds the "A_B" bigram key, truncated to MaxTokenLen-1 so the
// joined form still fits alongside a terminator wherever plain tokens do.
func joinKey(a, b string) string {
	key := a + "_" + b
	if len(key) > MaxTokenLen-1 {
		key = key[:MaxTokenLen-1]
	}
	return key
}

// learn performs the first scan, building the combined unigram+bigram
// vocabulary. It returns the frozen table (after sort_and_prune) and the
// total surviving token count used by the scoring formula.
func learn(src io.Reader, opt Options) (*vocab.Table, error) {
	vc := vocab.New(opt.HashSize, HashSeed, MaxTokenLen, opt.GrowChunk)
	vc.Add(vocab.BoundaryToken)

	tr := tokenize.New(src, MaxTokenLen)
	prevWord := ""
	haveSentence := false

	for {
		tok, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("phrase: read corpus: %w", err)
		}

		if tok == tokenize.Boundary {
			vc.AddOrIncr(vocab.BoundaryToken)
			prevWord = ""
			haveSentence = false
		} else {
			vc.AddOrIncr(tok)
			if haveSentence {
				vc.AddOrIncr(joinKey(prevWord, tok))
			}
			prevWord = tok
			haveSentence = true
		}

		if vc.LoadFactor() > 0.7 {
			vc.Reduce()
		}
	}

	if err := vc.SortAndPrune(opt.MinCount); err != nil {
		return nil, fmt.Errorf("phrase: %w", err)
	}
	return vc, nil
}

// score computes the bigram significance score for the pair (A, B), or 0
// if either unigram is below min_count or the pair was never observed as
// a vocabulary entry.
func score(vc *vocab.Table, nTotal uint64, minCount int, pA, pB uint64, bigram string) float64 {
	if pA < uint64(minCount) || pB < uint64(minCount) {
		return 0
	}
	id, ok := vc.Lookup(bigram)
	if !ok {
		return 0
	}
	pAB := vc.Count(id)
	return (float64(pAB) - float64(minCount)) / float64(pA) / float64(pB) * float64(nTotal)
}

// countOf returns vc's count for word, or 0 if absent.
func countOf(vc *vocab.Table, word string) uint64 {
	id, ok := vc.Lookup(word)
	if !ok {
		return 0
	}
	return vc.Count(id)
}

// rewrite performs the second scan, emitting src to dst with significant
// adjacent pairs joined by underscore.
func rewrite(src io.Reader, dst io.Writer, vc *vocab.Table, opt Options) error {
	nTotal := vc.NTotal()
	tr := tokenize.New(src, MaxTokenLen)
	w := bufio.NewWriter(dst)

	havePrev := false
	prevWord := ""
	var pA uint64

	for {
		tok, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("phrase: read corpus: %w", err)
		}

		if tok == tokenize.Boundary {
			if _, err := w.WriteString("\n"); err != nil {
				return fmt.Errorf("phrase: write: %w", err)
			}
			havePrev = false
			continue
		}

		if !havePrev {
			if _, err := w.WriteString(tok); err != nil {
				return fmt.Errorf("phrase: write: %w", err)
			}
			prevWord = tok
			pA = countOf(vc, tok)
			havePrev = true
			continue
		}

		pB := countOf(vc, tok)
		bigram := joinKey(prevWord, tok)
		s := score(vc, nTotal, opt.MinCount, pA, pB, bigram)

		if s > opt.Threshold {
			if _, err := w.WriteString("_" + tok); err != nil {
				return fmt.Errorf("phrase: write: %w", err)
			}
			// Forbid chaining: a just-joined B cannot become the A side of
			// a further join in this same pass — its p_a is zeroed, so
			// triples only form over repeated runs.
			pA = 0
		} else {
			if _, err := w.WriteString(" " + tok); err != nil {
				return fmt.Errorf("phrase: write: %w", err)
			}
			pA = pB
		}
		prevWord = tok
	}

	return w.Flush()
}

// Run executes the full two-scan pass: learn reads a first reader from
// reopen to build the vocabulary, then rewrite reads a second, fresh reader
// from reopen over the same bytes to produce the joined corpus written to
// dst.
func Run(reopen func() (io.ReadCloser, error), dst io.Writer, opt Options) error {
	first, err := reopen()
	if err != nil {
		return fmt.Errorf("phrase: open corpus for first scan: %w", err)
	}
	vc, err := learn(first, opt)
	first.Close()
	if err != nil {
		return err
	}

	second, err := reopen()
	if err != nil {
		return fmt.Errorf("phrase: open corpus for second scan: %w", err)
	}
	defer second.Close()

	return rewrite(second, dst, vc, opt)
}
