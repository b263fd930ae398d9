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

type ChatboxRepository struct {
	db dbtx
}

func NewChatboxRepository(pool *pgxpool.Pool) *ChatboxRepository {
	return &ChatboxRepository{db: pool}
}

func NewChatboxRepositoryWithTx(tx pgx.Tx) *ChatboxRepository {
	return &ChatboxRepository{db: tx}
}

func (r *ChatboxRepository) Create(ctx context.Context, c *domain.Chatbox) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chatboxes (id, org_id, name, description, allowed_origins, enforce_allowed_origins, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.OrgID, c.Name, nullableString(c.Description), c.AllowedOrigins, c.EnforceAllowedOrigins, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *ChatboxRepository) GetByID(ctx context.Context, id string) (*domain.Chatbox, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, org_id, name, description, allowed_origins, enforce_allowed_origins, created_at, updated_at
		 FROM chatboxes WHERE id = $1`,
		id,
	)
	c, err := scanChatbox(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatboxNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ChatboxRepository) ListByOrgWithCursor(ctx context.Context, orgID string, cursor *pagination.Cursor, limit int) (*service.ChatboxPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, org_id, name, description, allowed_origins, enforce_allowed_origins, created_at, updated_at
			 FROM chatboxes
			 WHERE org_id = $1 AND (updated_at, id) < ($2, $3)
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $4`,
			orgID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, org_id, name, description, allowed_origins, enforce_allowed_origins, created_at, updated_at
			 FROM chatboxes
			 WHERE org_id = $1
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $2`,
			orgID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Chatbox
	for rows.Next() {
		c, err := scanChatbox(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
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
		nextCursor = pagination.EncodeCursor(last.ID, last.UpdatedAt)
	}

	return &service.ChatboxPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *ChatboxRepository) Update(ctx context.Context, c *domain.Chatbox) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE chatboxes SET name = $1, description = $2, allowed_origins = $3, enforce_allowed_origins = $4, updated_at = $5
		 WHERE id = $6`,
		c.Name, nullableString(c.Description), c.AllowedOrigins, c.EnforceAllowedOrigins, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrChatboxNotFound
	}
	return nil
}

func (r *ChatboxRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM chatboxes WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrChatboxNotFound
	}
	return nil
}

func scanChatbox(row pgx.Row) (*domain.Chatbox, error) {
	var c domain.Chatbox
	var description *string
	if err := row.Scan(&c.ID, &c.OrgID, &c.Name, &description, &c.AllowedOrigins, &c.EnforceAllowedOrigins, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if description != nil {
		c.Description = *description
	}
	return &c, nil
}
