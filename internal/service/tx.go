package service

import "context"

// ChatboxTxRepository is the chatbox surface available inside a transaction
type ChatboxTxRepository interface {
	Delete(ctx context.Context, id string) error
}

// DocumentTxRepository is the document surface available inside a transaction
type DocumentTxRepository interface {
	DeleteByChatbox(ctx context.Context, chatboxID string) error
}

// ChunkTxRepository is the chunk surface available inside a transaction
type ChunkTxRepository interface {
	DeleteByChatbox(ctx context.Context, chatboxID string) error
}

// TxRepositories provides transactional repository access
type TxRepositories interface {
	Chatboxes() ChatboxTxRepository
	Documents() DocumentTxRepository
	Chunks() ChunkTxRepository
}

// TxRunner runs a function within a database transaction
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
