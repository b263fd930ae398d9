package domain

import "time"

// Chunk is one retrievable unit of a document: a bounded slice of its text
// paired with an embedding. Ordinals are contiguous within a document and
// chunks are never mutated after the ingestion batch that creates them.
type Chunk struct {
	ID         string
	DocumentID string
	// ChatboxID is denormalized so similarity search can scope to a
	// chatbox without joining through documents.
	ChatboxID  string
	Content    string
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
}

// RetrievedChunk is a chunk paired with its similarity score for one
// query. It is never persisted.
type RetrievedChunk struct {
	ChunkID    string
	DocumentID string
	Content    string
	ChunkIndex int
	Score      float64
	SourceName string
}
