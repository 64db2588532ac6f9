// File: internal/services/ingest/chunker.go
package ingest

// Chunk is a contiguous slice of extracted text. Offset is the rune index
// of the chunk's first character in the source text; consecutive chunks
// overlap by a fixed number of runes.
type Chunk struct {
	Text   string
	Offset int
}

// Chunker splits text into fixed-size rune windows with a fixed overlap.
// Chunks are exact slices of the input: no trimming, so concatenating the
// chunks with the overlap de-duplicated reconstructs the source exactly.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split produces the chunk sequence for text. Trailing text shorter than
// the chunk size is emitted as a final shorter chunk, never dropped. Empty
// input yields an empty sequence, not an error.
func (c *Chunker) Split(text string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Text:   string(runes[start:end]),
			Offset: start,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Size returns the configured chunk size in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }
