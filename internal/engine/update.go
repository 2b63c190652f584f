package engine

import "github.com/screenager/wordvec/internal/sigmoid"

// trainSentence runs one SGD pass over every position of an assembled
// sentence of vocabulary ids, using the worker's current window and
// architecture/objective configuration.
func (w *worker) trainSentence(sentence []int32) {
	m := w.model
	window := m.Config.Window

	for p := range sentence {
		b := int(w.rng.Next() % uint64(window))
		lo := p - window + b
		hi := p + window - b
		if lo < 0 {
			lo = 0
		}
		if hi >= len(sentence) {
			hi = len(sentence) - 1
		}

		switch m.Config.Architecture {
		case CBOW:
			w.trainCBOW(sentence, p, lo, hi)
		default:
			w.trainSkipGram(sentence, p, lo, hi)
		}
	}
}

// trainCBOW trains the CBOW update at center position p: the hidden
// vector is the mean of the context rows, and the output branches update
// all context rows uniformly via the shared gradient accumulator e.
func (w *worker) trainCBOW(sentence []int32, p, lo, hi int) {
	m := w.model
	dim := m.Config.Dim
	target := sentence[p]

	h := make([]float32, dim)
	var ctxCount int
	for c := lo; c <= hi; c++ {
		if c == p {
			continue
		}
		ctxCount++
		row := m.Tensors.row(m.Tensors.In, sentence[c])
		for j := 0; j < dim; j++ {
			h[j] += row[j]
		}
	}
	if ctxCount == 0 {
		return
	}
	for j := 0; j < dim; j++ {
		h[j] /= float32(ctxCount)
	}

	for j := range w.e {
		w.e[j] = 0
	}

	if m.Config.HS {
		w.applyHS(h, target, w.e)
	}
	if m.Config.NS {
		w.applyNS(h, target, w.e)
	}

	for c := lo; c <= hi; c++ {
		if c == p {
			continue
		}
		row := m.Tensors.row(m.Tensors.In, sentence[c])
		for j := 0; j < dim; j++ {
			row[j] += w.e[j]
		}
	}
}

// trainSkipGram trains the skip-gram update at center position p: each
// context word's input row is, in turn, used to predict the center word as
// output, with its own fresh gradient accumulator applied to that row.
func (w *worker) trainSkipGram(sentence []int32, p, lo, hi int) {
	m := w.model
	dim := m.Config.Dim
	center := sentence[p]

	for c := lo; c <= hi; c++ {
		if c == p {
			continue
		}
		contextWord := sentence[c]
		h := m.Tensors.row(m.Tensors.In, contextWord)

		for j := range w.e {
			w.e[j] = 0
		}

		if m.Config.HS {
			w.applyHS(h, center, w.e)
		}
		if m.Config.NS {
			w.applyNS(h, center, w.e)
		}

		for j := 0; j < dim; j++ {
			h[j] += w.e[j]
		}
	}
}

// applyHS runs the hierarchical-softmax output branch: one binary
// decision per internal node on target's Huffman path, accumulating the
// gradient contribution into e and updating the HS output rows in place.
func (w *worker) applyHS(h []float32, target int32, e []float32) {
	m := w.model
	dim := m.Config.Dim
	codes := m.Codes

	code := codes.Code[target]
	point := codes.Point[target]

	for d := 0; d < codes.CodeLen[target]; d++ {
		n := point[d]
		row := m.Tensors.row(m.Tensors.Hs, n)

		var f float32
		for j := 0; j < dim; j++ {
			f += h[j] * row[j]
		}
		if f <= -sigmoid.MaxExp || f >= sigmoid.MaxExp {
			continue
		}
		sig := m.Sigmoid.Lookup(float64(f))
		g := (1 - float32(code[d]) - sig) * float32(w.alpha)

		for j := 0; j < dim; j++ {
			e[j] += g * row[j]
		}
		for j := 0; j < dim; j++ {
			row[j] += g * h[j]
		}
	}
}

// applyNS runs the negative-sampling output branch: one positive example
// (target, label=1) followed by Negative draws from the unigram table
// (label=0), skipping any draw that happens to equal target.
func (w *worker) applyNS(h []float32, target int32, e []float32) {
	m := w.model
	dim := m.Config.Dim

	for d := 0; d <= m.Config.Negative; d++ {
		var sampleID int32
		var label float32
		if d == 0 {
			sampleID = target
			label = 1
		} else {
			sampleID = m.Unigram.Sample(w.rng.Next())
			if sampleID == target {
				continue
			}
			label = 0
		}

		row := m.Tensors.row(m.Tensors.Neg, sampleID)

		var f float32
		for j := 0; j < dim; j++ {
			f += h[j] * row[j]
		}

		var sig float32
		switch {
		case f > sigmoid.MaxExp:
			sig = 1
		case f < -sigmoid.MaxExp:
			sig = 0
		default:
			sig = m.Sigmoid.Lookup(float64(f))
		}
		g := (label - sig) * float32(w.alpha)

		for j := 0; j < dim; j++ {
			e[j] += g * row[j]
		}
		for j := 0; j < dim; j++ {
			row[j] += g * h[j]
		}
	}
}
