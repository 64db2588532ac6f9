// File: internal/services/ingest/chunker_test.go
package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerSplitEmpty(t *testing.T) {
	c := NewChunker(500, 100)
	assert.Nil(t, c.Split(""))
}

func TestChunkerShortInputSingleChunk(t *testing.T) {
	c := NewChunker(500, 100)
	chunks := c.Split("hello world")

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Offset)
}

func TestChunkerWindowsAndOverlap(t *testing.T) {
	c := NewChunker(10, 3)
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Split(text)

	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0].Text)
	assert.Equal(t, "hijklmnopq", chunks[1].Text)
	assert.Equal(t, "opqrstuvwx", chunks[2].Text)
	assert.Equal(t, "vwxyz", chunks[3].Text)

	// Consecutive chunks share exactly the overlap.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		assert.Equal(t, string(prev[len(prev)-3:]), string(cur[:3]))
	}
}

func TestChunkerTrailingChunkNeverDropped(t *testing.T) {
	c := NewChunker(10, 3)
	// 12 runes: second window covers runes 7..11, shorter than the size.
	chunks := c.Split("abcdefghijkl")

	require.Len(t, chunks, 2)
	assert.Equal(t, "hijkl", chunks[1].Text)
	// The final chunk always extends past the shared prefix.
	assert.Greater(t, len([]rune(chunks[1].Text)), c.Overlap())
}

func TestChunkerRoundTripReconstruction(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	var b strings.Builder
	for i, chunk := range chunks {
		runes := []rune(chunk.Text)
		if i == 0 {
			b.WriteString(chunk.Text)
			continue
		}
		b.WriteString(string(runes[c.Overlap():]))
	}
	assert.Equal(t, text, b.String())
}

func TestChunkerMultibyteRuneBoundaries(t *testing.T) {
	c := NewChunker(4, 1)
	text := "日本語のテキストです"
	chunks := c.Split(text)

	for _, chunk := range chunks {
		assert.True(t, strings.Contains(text, chunk.Text),
			"chunk %q must be an exact slice of the input", chunk.Text)
	}
	last := chunks[len(chunks)-1].Text
	assert.True(t, strings.HasSuffix(text, last))
}

func TestNewChunkerClampsBadParameters(t *testing.T) {
	c := NewChunker(0, -5)
	assert.Equal(t, 500, c.Size())
	assert.Equal(t, 0, c.Overlap())

	c = NewChunker(10, 50)
	assert.Equal(t, 9, c.Overlap())
}
