package repository

import (
	"context"
	"log"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/telemetry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ChunkRepository persists chunk embeddings and answers scoped
// nearest-neighbor queries over them.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// CreateMany bulk-inserts one document's chunk set in a single batch.
func (r *ChunkRepository) CreateMany(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(
			`INSERT INTO chunks (id, document_id, chatbox_id, content, chunk_index, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.DocumentID, c.ChatboxID, c.Content, c.ChunkIndex, pgvector.NewVector(c.Embedding), c.CreatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SimilaritySearch returns the chatbox's chunks nearest to the query
// vector, ordered by descending cosine similarity, truncated to topK and
// filtered to score >= minScore. A non-empty documentID restricts results
// to that document. When the search backend is unavailable the result is
// empty rather than an error: "no knowledge found" is a valid state the
// answer pipeline must survive.
func (r *ChunkRepository) SimilaritySearch(ctx context.Context, chatboxID string, embedding []float32, topK int, minScore float64, documentID string) ([]*domain.RetrievedChunk, error) {
	vec := pgvector.NewVector(embedding)

	query := `
		SELECT id, document_id, content, chunk_index,
		       1 - (embedding <=> $1) AS score
		FROM chunks
		WHERE chatbox_id = $2 AND embedding IS NOT NULL`
	args := []any{vec, chatboxID}

	if documentID != "" {
		query += ` AND document_id = $3
		AND 1 - (embedding <=> $1) >= $4
		ORDER BY embedding <=> $1
		LIMIT $5`
		args = append(args, documentID, minScore, topK)
	} else {
		query += `
		AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4`
		args = append(args, minScore, topK)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("vector search failed (pgvector may not be enabled): %v", err)
		telemetry.CaptureError(ctx, err)
		return []*domain.RetrievedChunk{}, nil
	}
	defer rows.Close()

	results := make([]*domain.RetrievedChunk, 0)
	for rows.Next() {
		var rc domain.RetrievedChunk
		if err := rows.Scan(&rc.ChunkID, &rc.DocumentID, &rc.Content, &rc.ChunkIndex, &rc.Score); err != nil {
			log.Printf("vector search scan failed: %v", err)
			telemetry.CaptureError(ctx, err)
			return []*domain.RetrievedChunk{}, nil
		}
		results = append(results, &rc)
	}
	if err := rows.Err(); err != nil {
		log.Printf("vector search failed: %v", err)
		telemetry.CaptureError(ctx, err)
		return []*domain.RetrievedChunk{}, nil
	}

	return results, nil
}

func (r *ChunkRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM chunks WHERE document_id = $1`,
		documentID,
	)
	return err
}

func (r *ChunkRepository) DeleteByChatbox(ctx context.Context, chatboxID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM chunks WHERE chatbox_id = $1`,
		chatboxID,
	)
	return err
}

// CountByDocument reports how many chunks a document has.
func (r *ChunkRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document_id = $1`,
		documentID,
	).Scan(&count)
	return count, err
}
