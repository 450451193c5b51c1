package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewChunkerRejectsBadOverlap(t *testing.T) {
	if _, err := NewChunker(1000, 1000); err == nil {
		t.Fatalf("expected error for overlap == size")
	}
	if _, err := NewChunker(1000, 1200); err == nil {
		t.Fatalf("expected error for overlap > size")
	}
	if _, err := NewChunker(0, 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, err := NewChunker(1000, 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSplitEmptyTextYieldsNoChunks(t *testing.T) {
	chunks := DefaultChunker().Split("", "docs/empty.pdf")
	if len(chunks) != 0 {
		t.Fatalf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	text := "Page one content. More text here.\nPage two content."
	chunks := DefaultChunker().Split(text, "uploads/deck.pdf")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SourceRef != "uploads/deck.pdf#chunk_0" {
		t.Fatalf("unexpected source ref %q", chunks[0].SourceRef)
	}
	if chunks[0].Content != text {
		t.Fatalf("content mutated: %q", chunks[0].Content)
	}
}

// With no sentence boundaries in the input, every cut is a hard cut at
// exactly size, and consecutive chunks share an exact overlap-sized
// tail/head.
func TestSplitOverlapInvariant(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250) // 2500 chars, no whitespace
	chunks := DefaultChunker().Split(text, "x")

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i := 0; i < len(chunks)-1; i++ {
		if len(chunks[i].Content) != 1000 {
			t.Fatalf("chunk %d: expected hard cut at 1000, got %d", i, len(chunks[i].Content))
		}
		tail := chunks[i].Content[len(chunks[i].Content)-200:]
		head := chunks[i+1].Content[:200]
		if tail != head {
			t.Fatalf("chunk %d/%d overlap mismatch", i, i+1)
		}
	}
}

// Concatenating each chunk minus its overlap head reconstructs the
// original text: no characters are skipped.
func TestSplitCoverage(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250)
	chunks := DefaultChunker().Split(text, "x")

	var rebuilt strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			rebuilt.WriteString(ch.Content)
			continue
		}
		rebuilt.WriteString(ch.Content[200:])
	}
	if rebuilt.String() != text {
		t.Fatalf("reconstruction mismatch: got %d chars, want %d", rebuilt.Len(), len(text))
	}
}

func TestSplitSourceRefIndexing(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250)
	chunks := DefaultChunker().Split(text, "files/report.docx")
	want := []string{
		"files/report.docx#chunk_0",
		"files/report.docx#chunk_1",
		"files/report.docx#chunk_2",
	}
	for i, w := range want {
		if chunks[i].SourceRef != w {
			t.Fatalf("chunk %d: got ref %q, want %q", i, chunks[i].SourceRef, w)
		}
	}
}

// A period past the window midpoint pulls the boundary back to the
// sentence end instead of the hard 1000-char cut.
func TestSplitSnapsToSentencePastMidpoint(t *testing.T) {
	text := strings.Repeat("a", 699) + "." + strings.Repeat("b", 600)
	chunks := DefaultChunker().Split(text, "x")

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := len(chunks[0].Content); got != 700 {
		t.Fatalf("expected snap at 700, got chunk length %d", got)
	}
	if !strings.HasSuffix(chunks[0].Content, ".") {
		t.Fatalf("first chunk should end at the sentence boundary")
	}
}

// A period before the midpoint is ignored; the hard cut stands.
func TestSplitKeepsHardCutWhenSentenceTooEarly(t *testing.T) {
	text := strings.Repeat("a", 100) + "." + strings.Repeat("c", 1400)
	chunks := DefaultChunker().Split(text, "x")

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := len(chunks[0].Content); got != 1000 {
		t.Fatalf("expected hard cut at 1000, got %d", got)
	}
}

func TestSplitNeverEmitsEmptyChunks(t *testing.T) {
	// Whitespace-heavy tail would trim to nothing; it must be dropped,
	// not emitted as an empty chunk.
	text := strings.Repeat("abcdefghij", 100) + strings.Repeat(" ", 50)
	for _, ch := range DefaultChunker().Split(text, "x") {
		if len(ch.Content) == 0 {
			t.Fatalf("empty chunk emitted")
		}
	}
}

func TestSplitKeepsRuneBoundaries(t *testing.T) {
	// 1500 two-byte runes offset by one ASCII byte, so a byte-indexed
	// hard cut at 1000 would land inside a rune.
	text := "a" + strings.Repeat("é", 1500)
	chunks := DefaultChunker().Split(text, "docs/accents.txt")
	if len(chunks) == 0 {
		t.Fatalf("expected chunks")
	}
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Content) {
			t.Fatalf("chunk %d content is invalid UTF-8 (len %d bytes)", i, len(ch.Content))
		}
	}
	joined := chunks[len(chunks)-1].Content
	if !strings.HasSuffix(text, joined) {
		t.Fatalf("final chunk is not a suffix of the input")
	}
}

func TestSplitMultibyteOverlapStartsOnRune(t *testing.T) {
	text := strings.Repeat("é", 2000)
	for i, ch := range DefaultChunker().Split(text, "x") {
		if !utf8.ValidString(ch.Content) {
			t.Fatalf("chunk %d invalid UTF-8", i)
		}
		r, _ := utf8.DecodeRuneInString(ch.Content)
		if r == utf8.RuneError {
			t.Fatalf("chunk %d starts mid-rune", i)
		}
	}
}
