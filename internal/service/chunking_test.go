package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker(t *testing.T) {
	t.Run("accepts valid configuration", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 100, Overlap: 20})
		require.NoError(t, err)
		assert.NotNil(t, chunker)
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := NewChunker(ChunkConfig{Size: 0, Overlap: 0})
		require.Error(t, err)
	})

	t.Run("rejects overlap equal to size", func(t *testing.T) {
		_, err := NewChunker(ChunkConfig{Size: 100, Overlap: 100})
		require.Error(t, err)
	})

	t.Run("rejects overlap above size", func(t *testing.T) {
		_, err := NewChunker(ChunkConfig{Size: 100, Overlap: 150})
		require.Error(t, err)
	})

	t.Run("rejects negative overlap", func(t *testing.T) {
		_, err := NewChunker(ChunkConfig{Size: 100, Overlap: -1})
		require.Error(t, err)
	})
}

func TestChunker_Chunk(t *testing.T) {
	t.Run("returns no chunks for empty input", func(t *testing.T) {
		chunker, err := NewChunker(DefaultChunkConfig())
		require.NoError(t, err)

		assert.Empty(t, chunker.Chunk(""))
		assert.Empty(t, chunker.Chunk("   \n\t  "))
	})

	t.Run("returns single chunk for short input", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 100, Overlap: 20})
		require.NoError(t, err)

		chunks := chunker.Chunk("hello world")
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("windows advance by size minus overlap", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 10, Overlap: 4})
		require.NoError(t, err)

		// 26 characters, step 6: windows start at 0, 6, 12, 18, 24
		chunks := chunker.Chunk("abcdefghijklmnopqrstuvwxyz")
		require.Len(t, chunks, 5)
		assert.Equal(t, "abcdefghij", chunks[0])
		assert.Equal(t, "ghijklmnop", chunks[1])
		assert.Equal(t, "mnopqrstuv", chunks[2])
		assert.Equal(t, "stuvwxyz", chunks[3])
		assert.Equal(t, "yz", chunks[4])
	})

	t.Run("consecutive chunks share overlapping content", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 10, Overlap: 4})
		require.NoError(t, err)

		chunks := chunker.Chunk("abcdefghijklmnopqrstuvwxyz")
		require.GreaterOrEqual(t, len(chunks), 2)
		overlap := chunks[0][len(chunks[0])-4:]
		assert.True(t, strings.HasPrefix(chunks[1], overlap))
	})

	t.Run("no chunk exceeds the configured size", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 40, Overlap: 10})
		require.NoError(t, err)

		text := strings.Repeat("Helperly chunks text into windows. ", 20)
		for _, chunk := range chunker.Chunk(text) {
			assert.LessOrEqual(t, len([]rune(chunk)), 40)
			assert.NotEmpty(t, strings.TrimSpace(chunk))
		}
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 4, Overlap: 0})
		require.NoError(t, err)

		chunks := chunker.Chunk("日本語のテキスト")
		require.Len(t, chunks, 2)
		assert.Equal(t, "日本語の", chunks[0])
		assert.Equal(t, "テキスト", chunks[1])
	})

	t.Run("skips all-whitespace windows", func(t *testing.T) {
		chunker, err := NewChunker(ChunkConfig{Size: 4, Overlap: 0})
		require.NoError(t, err)

		chunks := chunker.Chunk("abcd        wxyz")
		require.Len(t, chunks, 2)
		assert.Equal(t, "abcd", chunks[0])
		assert.Equal(t, "wxyz", chunks[1])
	})
}
