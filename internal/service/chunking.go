package service

import (
	"strings"

	"github.com/helperly/helperly/internal/domain"
)

// ChunkConfig controls how document text is split for embedding.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    1000,
		Overlap: 200,
	}
}

// Chunker splits raw text into overlapping fixed-size segments.
type Chunker struct {
	cfg ChunkConfig
}

// NewChunker validates the configuration up front: an overlap at or above
// the chunk size would make the window advance non-positive and never
// terminate, so it is rejected here rather than at chunk time.
func NewChunker(cfg ChunkConfig) (*Chunker, error) {
	if cfg.Size <= 0 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "chunk size must be positive")
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "chunk overlap must be in [0, chunk size)")
	}
	return &Chunker{cfg: cfg}, nil
}

// Chunk splits text into trimmed, non-empty segments of at most Size
// characters, each window starting Size-Overlap characters after the
// previous one. Empty or all-whitespace input yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := c.cfg.Size - c.cfg.Overlap

	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + c.cfg.Size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}
