//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/service"
	"github.com/helperly/helperly/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunner_Commit(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	orgRepo := NewOrgRepository(pool)
	chatboxRepo := NewChatboxRepository(pool)
	docRepo := NewDocumentRepository(pool)
	chunkRepo := NewChunkRepository(pool)
	txRunner := NewTxRunner(pool)

	cb := createTestChatbox(ctx, t, orgRepo, chatboxRepo)
	doc := createTestDocument(ctx, t, docRepo, cb.ID)

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, chunkRepo.CreateMany(ctx, []*domain.Chunk{
		{ID: uuid.NewString(), DocumentID: doc.ID, ChatboxID: cb.ID, Content: "c", ChunkIndex: 0, Embedding: axisVector(0), CreatedAt: now},
	}))

	err := txRunner.WithTx(ctx, func(repos service.TxRepositories) error {
		if err := repos.Chunks().DeleteByChatbox(ctx, cb.ID); err != nil {
			return err
		}
		if err := repos.Documents().DeleteByChatbox(ctx, cb.ID); err != nil {
			return err
		}
		return repos.Chatboxes().Delete(ctx, cb.ID)
	})
	require.NoError(t, err)

	_, err = chatboxRepo.GetByID(ctx, cb.ID)
	assert.ErrorIs(t, err, domain.ErrChatboxNotFound)

	_, err = docRepo.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	orgRepo := NewOrgRepository(pool)
	chatboxRepo := NewChatboxRepository(pool)
	docRepo := NewDocumentRepository(pool)
	txRunner := NewTxRunner(pool)

	cb := createTestChatbox(ctx, t, orgRepo, chatboxRepo)
	doc := createTestDocument(ctx, t, docRepo, cb.ID)

	boom := errors.New("boom")
	err := txRunner.WithTx(ctx, func(repos service.TxRepositories) error {
		if err := repos.Documents().DeleteByChatbox(ctx, cb.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The delete inside the failed transaction must not stick.
	retrieved, err := docRepo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, retrieved.ID)
}
