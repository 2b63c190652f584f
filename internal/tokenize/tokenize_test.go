package tokenize_test

import (
	"io"
	"strings"
	"testing"

	"github.com/screenager/wordvec/internal/tokenize"
)

// TestBasicSplit: "a\tb  c\n\nd " tokenizes to
// [a, b, c, </s>, </s>, d, EOF].
func TestBasicSplit(t *testing.T) {
	r := tokenize.New(strings.NewReader("a\tb  c\n\nd "), 100)

	want := []string{"a", "b", "c", tokenize.Boundary, tokenize.Boundary, "d"}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if got != w {
			t.Fatalf("token %d: got %q, want %q", i, got, w)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected EOF after stream exhausted, got %v", err)
	}
}

func TestCarriageReturnDropped(t *testing.T) {
	r := tokenize.New(strings.NewReader("a\r\nb"), 100)

	want := []string{"a", tokenize.Boundary, "b"}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if got != w {
			t.Fatalf("token %d: got %q, want %q", i, got, w)
		}
	}
}

func TestOverlongTokenTruncated(t *testing.T) {
	r := tokenize.New(strings.NewReader("aaaaaaaaaa bbb"), 5)

	got, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "aaaaa" {
		t.Fatalf("got %q, want truncated %q", got, "aaaaa")
	}
	got, err = r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "bbb" {
		t.Fatalf("got %q, want %q", got, "bbb")
	}
}

func TestEmptyStreamIsEOF(t *testing.T) {
	r := tokenize.New(strings.NewReader(""), 100)
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected EOF on empty stream, got %v", err)
	}
}
