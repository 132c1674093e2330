package repo

import (
	"LostFound/internal/model"
	"context"

	"gorm.io/gorm"
)

// MessageRepository определяет контракт доступа к сообщениям. Сообщения только добавляются;
// единственное допустимое изменение — отметка о прочтении.
type MessageRepository interface {
	Append(ctx context.Context, m *model.Message) error

	// ListByConversation возвращает сообщения переписки по возрастанию sent_at.
	ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error)

	// CountBySender считает сообщения отправителя в переписке.
	CountBySender(ctx context.Context, conversationID string, senderID int64) (int64, error)

	// MarkReadFrom отмечает прочитанными сообщения указанного отправителя. Возвращает число обновлённых строк.
	MarkReadFrom(ctx context.Context, conversationID string, senderID int64) (int64, error)
}

type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepository создаёт реализацию репозитория сообщений.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Append(ctx context.Context, m *model.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepo) ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at").Order("id").
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepo) CountBySender(ctx context.Context, conversationID string, senderID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id = ?", conversationID, senderID).
		Count(&n).Error
	return n, err
}

func (r *messageRepo) MarkReadFrom(ctx context.Context, conversationID string, senderID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id = ? AND is_read = ?", conversationID, senderID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}
