package repository

import (
	"context"
	"errors"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/pagination"
	"github.com/helperly/helperly/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	var fileSize *int64
	if d.FileSizeBytes > 0 {
		fileSize = &d.FileSizeBytes
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, chatbox_id, source_type, source_name, source_url, raw_content, file_size_bytes, mime_type, storage_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.ChatboxID, string(d.SourceType), nullableString(d.SourceName), nullableString(d.SourceURL),
		d.RawContent, fileSize, nullableString(d.MimeType), nullableString(d.StorageKey), d.CreatedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, chatbox_id, source_type, source_name, source_url, raw_content, file_size_bytes, mime_type, storage_key, created_at
		 FROM documents WHERE id = $1`,
		id,
	)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return d, nil
}

// GetByIDOptional returns nil without error when the document is missing.
// Source attribution uses it so a deleted document never fails a query.
func (r *DocumentRepository) GetByIDOptional(ctx context.Context, id string) (*domain.Document, error) {
	d, err := r.GetByID(ctx, id)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, nil
	}
	return d, err
}

func (r *DocumentRepository) ListByChatboxWithCursor(ctx context.Context, chatboxID string, cursor *pagination.Cursor, limit int) (*service.DocumentPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, chatbox_id, source_type, source_name, source_url, raw_content, file_size_bytes, mime_type, storage_key, created_at
			 FROM documents
			 WHERE chatbox_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			chatboxID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, chatbox_id, source_type, source_name, source_url, raw_content, file_size_bytes, mime_type, storage_key, created_at
			 FROM documents
			 WHERE chatbox_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			chatboxID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.DocumentPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM documents WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) DeleteByChatbox(ctx context.Context, chatboxID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM documents WHERE chatbox_id = $1`,
		chatboxID,
	)
	return err
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	var sourceType string
	var sourceName, sourceURL, mimeType, storageKey *string
	var fileSize *int64
	if err := row.Scan(&d.ID, &d.ChatboxID, &sourceType, &sourceName, &sourceURL, &d.RawContent, &fileSize, &mimeType, &storageKey, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.SourceType = domain.SourceType(sourceType)
	if sourceName != nil {
		d.SourceName = *sourceName
	}
	if sourceURL != nil {
		d.SourceURL = *sourceURL
	}
	if mimeType != nil {
		d.MimeType = *mimeType
	}
	if storageKey != nil {
		d.StorageKey = *storageKey
	}
	if fileSize != nil {
		d.FileSizeBytes = *fileSize
	}
	return &d, nil
}
