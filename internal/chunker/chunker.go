// Package chunker splits document text into overlapping windows for
// embedding. Cuts prefer paragraph breaks, then line breaks, then
// sentence ends, then word boundaries, and only then a hard cut.
package chunker

import "strings"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

type Chunk struct {
	Text  string
	Index int
}

type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 5
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split is deterministic: identical text always yields identical chunk
// boundaries. Whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var pieces []string

	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			pieces = append(pieces, string(runes[start:]))
			break
		}

		cut := c.findCut(runes, start, end)
		pieces = append(pieces, string(runes[start:cut]))

		next := cut - c.overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	chunks := make([]Chunk, 0, len(pieces))
	for _, p := range pieces {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, Chunk{Text: trimmed, Index: len(chunks)})
	}
	return chunks
}

// findCut returns the end of the window starting at start. Boundaries are
// searched backwards from the size limit, but only in the second half of
// the window so no chunk degenerates below half the target size.
func (c *Chunker) findCut(runes []rune, start, limit int) int {
	floor := start + c.size/2

	if cut := lastBoundary(runes, floor, limit, isParagraphBreak); cut > 0 {
		return cut
	}
	if cut := lastBoundary(runes, floor, limit, isLineBreak); cut > 0 {
		return cut
	}
	if cut := lastBoundary(runes, floor, limit, isSentenceEnd); cut > 0 {
		return cut
	}
	if cut := lastBoundary(runes, floor, limit, isWordBreak); cut > 0 {
		return cut
	}
	return limit
}

// lastBoundary scans [floor, limit) backwards for the latest boundary and
// returns the cut position just after it, or 0 if none exists.
func lastBoundary(runes []rune, floor, limit int, boundary func([]rune, int) int) int {
	for i := limit - 1; i >= floor; i-- {
		if width := boundary(runes, i); width > 0 {
			return i + width
		}
	}
	return 0
}

// Each boundary function reports the boundary width at position i, or 0.

func isParagraphBreak(runes []rune, i int) int {
	if runes[i] == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
		return 2
	}
	return 0
}

func isLineBreak(runes []rune, i int) int {
	if runes[i] == '\n' {
		return 1
	}
	return 0
}

func isSentenceEnd(runes []rune, i int) int {
	if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
		return 0
	}
	if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
		return 2
	}
	return 0
}

func isWordBreak(runes []rune, i int) int {
	if runes[i] == ' ' || runes[i] == '\t' {
		return 1
	}
	return 0
}
