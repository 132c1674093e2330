package repo

import (
	"LostFound/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository определяет контракт доступа к перепискам.
type ConversationRepository interface {
	// GetByID ищет переписку. Если не найдена — gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.Conversation, error)

	// GetForUpdate читает переписку с блокировкой строки до конца транзакции.
	// Имеет смысл только внутри TxRunner.WithTx; SQLite блокировку строк не поддерживает
	// и сериализует запись на уровне всей БД.
	GetForUpdate(ctx context.Context, id string) (*model.Conversation, error)

	// FindForItemAndPair ищет переписку по заявке между двумя пользователями в любом порядке.
	// Если не найдена — gorm.ErrRecordNotFound.
	FindForItemAndPair(ctx context.Context, itemID string, userID, otherID int64) (*model.Conversation, error)

	// ListForUser возвращает переписки, где пользователь — один из участников, новые первыми.
	ListForUser(ctx context.Context, userID int64) ([]model.Conversation, error)

	Create(ctx context.Context, c *model.Conversation) error

	// SaveFlags сохраняет только approved и флаги блокировки; участники и заявка не меняются.
	SaveFlags(ctx context.Context, c *model.Conversation) error
}

type conversationRepo struct {
	db *gorm.DB
}

// NewConversationRepository создаёт реализацию репозитория переписок.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	var c model.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) GetForUpdate(ctx context.Context, id string) (*model.Conversation, error) {
	var c model.Conversation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) FindForItemAndPair(ctx context.Context, itemID string, userID, otherID int64) (*model.Conversation, error) {
	var c model.Conversation
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)", userID, otherID, otherID, userID).
		Order("created_at").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID int64) ([]model.Conversation, error) {
	var list []model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *conversationRepo) Create(ctx context.Context, c *model.Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conversationRepo) SaveFlags(ctx context.Context, c *model.Conversation) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"approved":     c.Approved,
			"blocked_by_a": c.BlockedByA,
			"blocked_by_b": c.BlockedByB,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
