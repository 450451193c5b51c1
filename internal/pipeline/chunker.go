package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// Chunk is a bounded text segment with a source reference of the form
// "<label>#chunk_<index>".
type Chunk struct {
	Content   string
	SourceRef string
}

// Chunker splits raw text into overlapping, sentence-aware segments.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker rejects overlap >= size up front; the split loop only makes
// forward progress when the overlap is strictly smaller than the window.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// DefaultChunker uses the 1000/200 window every component assumes.
func DefaultChunker() *Chunker {
	c, _ := NewChunker(defaultChunkSize, defaultChunkOverlap)
	return c
}

// Split produces the chunk sequence for one source document. Boundaries
// snap backward to the nearest sentence-ending period or newline, but
// only when the break point lands at or past the midpoint of the target
// window; otherwise the hard cut stands. Empty text yields no chunks.
func (c *Chunker) Split(text, sourceLabel string) []Chunk {
	var chunks []Chunk

	start := 0
	index := 0
	for start < len(text) {
		end := start + c.size
		if end >= len(text) {
			end = len(text)
		} else {
			if snap := snapToSentence(text, start, end); snap >= start+c.size/2 {
				end = snap
			} else {
				// Hard cuts are byte positions; never split a rune.
				end = runeStart(text, end, start)
			}
		}

		content := strings.TrimSpace(text[start:end])
		if content != "" {
			chunks = append(chunks, Chunk{
				Content:   content,
				SourceRef: fmt.Sprintf("%s#chunk_%d", sourceLabel, index),
			})
			index++
		}

		if end >= len(text) {
			break
		}
		start = runeStart(text, end-c.overlap, 0)
	}

	return chunks
}

// runeStart walks pos backward to the nearest rune boundary, never
// crossing floor. A pos already on a boundary is returned unchanged.
func runeStart(text string, pos, floor int) int {
	for pos > floor && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

// snapToSentence searches backward from end for a period or newline and
// returns the position just past it, or -1 when none exists in range.
func snapToSentence(text string, start, end int) int {
	for i := end - 1; i > start; i-- {
		if text[i] == '.' || text[i] == '\n' {
			return i + 1
		}
	}
	return -1
}
