// Package tokenize implements the byte-level streaming tokenizer shared by
// the training engine and the phrase pass: tokens are maximal runs of bytes
// outside {space, tab, LF}, carriage returns are dropped silently, and every
// newline synthesizes a sentence-boundary token after the token it
// terminates.
package tokenize

import (
	"bufio"
	"io"
)

// Boundary is the synthetic sentence-boundary token emitted for every LF.
const Boundary = "</s>"

const (
	space = 0x20
	tab   = 0x09
	lf    = 0x0A
	cr    = 0x0D
)

// Reader yields whitespace-delimited tokens from an underlying byte stream,
// truncating overlong tokens and synthesizing Boundary on every newline.
// It is not safe for concurrent use; each training worker owns its own
// Reader over its own file handle and shard offset.
type Reader struct {
	br              *bufio.Reader
	maxTokenLen     int
	pendingBoundary bool
}

// New wraps r in a tokenizing Reader. maxTokenLen bounds the byte length of
// emitted tokens (excess bytes up to the next boundary are discarded); the
// trainer uses 100, the phrase pass uses 60.
func New(r io.Reader, maxTokenLen int) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024), maxTokenLen: maxTokenLen}
}

// Next returns the next token, or io.EOF when the stream is exhausted. A
// pending synthetic Boundary from a just-consumed newline is returned
// before any further bytes are read.
func (t *Reader) Next() (string, error) {
	if t.pendingBoundary {
		t.pendingBoundary = false
		return Boundary, nil
	}

	var buf []byte
	truncated := false

	for {
		b, err := t.br.ReadByte()
		if err != nil {
			if err == io.EOF {
				if len(buf) > 0 {
					return string(buf), nil
				}
				return "", io.EOF
			}
			return "", err
		}

		switch b {
		case cr:
			continue
		case lf:
			if len(buf) > 0 {
				t.pendingBoundary = true
				return string(buf), nil
			}
			return Boundary, nil
		case space, tab:
			if len(buf) > 0 {
				return string(buf), nil
			}
			continue
		default:
			if truncated {
				continue
			}
			if len(buf) >= t.maxTokenLen {
				truncated = true
				continue
			}
			buf = append(buf, b)
		}
	}
}
