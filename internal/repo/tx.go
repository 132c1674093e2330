package repo

import (
	"context"

	"gorm.io/gorm"
)

// StoreProvider выдаёт репозитории, привязанные к одной транзакции.
type StoreProvider interface {
	Items() ItemRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
}

// TxRunner выполняет функцию в одной транзакции БД: либо применяются все изменения, либо ни одного.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type txRunner struct {
	db *gorm.DB
}

// NewTxRunner создаёт TxRunner поверх gorm.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txStores{tx: tx})
	})
}

type txStores struct {
	tx *gorm.DB
}

func (s txStores) Items() ItemRepository                 { return NewItemRepository(s.tx) }
func (s txStores) Conversations() ConversationRepository { return NewConversationRepository(s.tx) }
func (s txStores) Messages() MessageRepository           { return NewMessageRepository(s.tx) }
