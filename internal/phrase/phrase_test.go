package phrase_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/screenager/wordvec/internal/phrase"
)

type closingReader struct {
	io.Reader
}

func (closingReader) Close() error { return nil }

// TestNewYorkJoins: "new york new york new york" with threshold=1 and
// min_count=1 rewrites to "new_york new_york new_york".
func TestNewYorkJoins(t *testing.T) {
	corpus := "new york new york new york"

	opt := phrase.Options{
		HashSize:  4096,
		GrowChunk: 64,
		MinCount:  1,
		Threshold: 1,
	}

	reopen := func() (io.ReadCloser, error) {
		return closingReader{strings.NewReader(corpus)}, nil
	}

	var out bytes.Buffer
	if err := phrase.Run(reopen, &out, opt); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := strings.TrimRight(out.String(), "\n")
	want := "new_york new_york new_york"
	if got != want {
		t.Fatalf("rewritten corpus = %q, want %q", got, want)
	}
}

func TestNoChainedTriples(t *testing.T) {
	// "a b c" with a very low threshold should join (a,b) but never chain
	// into a triple "a_b_c" — the next pair's p_a is reset to 0 after a join.
	corpus := "a b c\na b c\na b c\n"

	opt := phrase.Options{
		HashSize:  4096,
		GrowChunk: 64,
		MinCount:  1,
		Threshold: 0,
	}

	reopen := func() (io.ReadCloser, error) {
		return closingReader{strings.NewReader(corpus)}, nil
	}

	var out bytes.Buffer
	if err := phrase.Run(reopen, &out, opt); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if strings.Contains(out.String(), "a_b_c") {
		t.Fatalf("output should never contain a chained triple: %q", out.String())
	}
}

func TestBoundaryResetsPreviousWord(t *testing.T) {
	corpus := "a\nb"

	opt := phrase.Options{
		HashSize:  4096,
		GrowChunk: 64,
		MinCount:  1,
		Threshold: -1000,
	}

	reopen := func() (io.ReadCloser, error) {
		return closingReader{strings.NewReader(corpus)}, nil
	}

	var out bytes.Buffer
	if err := phrase.Run(reopen, &out, opt); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if strings.Contains(out.String(), "a_b") {
		t.Fatalf("a boundary-separated pair must never join: %q", out.String())
	}
}
