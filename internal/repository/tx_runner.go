package repository

import (
	"context"
	"fmt"

	"github.com/helperly/helperly/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTxRunner runs a function against transaction-scoped repositories.
// Cascade deletes use it so a chatbox and its documents and chunks go away
// atomically.
type PgxTxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *PgxTxRunner {
	return &PgxTxRunner{pool: pool}
}

func (r *PgxTxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txRepos{tx: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) Chatboxes() service.ChatboxTxRepository {
	return NewChatboxRepositoryWithTx(r.tx)
}

func (r *txRepos) Documents() service.DocumentTxRepository {
	return NewDocumentRepositoryWithTx(r.tx)
}

func (r *txRepos) Chunks() service.ChunkTxRepository {
	return NewChunkRepositoryWithTx(r.tx)
}
