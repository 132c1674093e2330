package repo

import (
	"LostFound/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter — необязательные фильтры списка заявок. Пустое поле не фильтрует.
type ItemFilter struct {
	Type     model.ItemType
	Category string
	Location string
}

// ItemRepository определяет контракт доступа к заявкам для слоя сервиса.
type ItemRepository interface {
	// ListByType возвращает все заявки указанного вида в стабильном порядке (date_reported, id).
	ListByType(ctx context.Context, t model.ItemType) ([]model.Item, error)

	// List возвращает заявки по фильтру, новые первыми. Сравнение строк без учёта регистра.
	List(ctx context.Context, f ItemFilter) ([]model.Item, error)

	// ListFlagged возвращает заявки, отмеченные для модерации.
	ListFlagged(ctx context.Context) ([]model.Item, error)

	// ListByPoster возвращает заявки пользователя.
	ListByPoster(ctx context.Context, userID int64) ([]model.Item, error)

	// GetByID ищет заявку. Если не найдена — gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.Item, error)

	// GetForUpdate читает заявку с блокировкой строки до конца транзакции.
	GetForUpdate(ctx context.Context, id string) (*model.Item, error)

	Create(ctx context.Context, it *model.Item) error
	Save(ctx context.Context, it *model.Item) error

	// Delete удаляет заявку. Если её нет — gorm.ErrRecordNotFound.
	Delete(ctx context.Context, id string) error
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) ListByType(ctx context.Context, t model.ItemType) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("type = ?", t).
		Order("date_reported").Order("id").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) List(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Model(&model.Item{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) = LOWER(?)", f.Location)
	}
	var items []model.Item
	err := q.Order("date_reported DESC").Order("id").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListFlagged(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Where("flagged = ?", true).Order("date_reported DESC").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListByPoster(ctx context.Context, userID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Where("posted_by_id = ?", userID).Order("date_reported DESC").Find(&items).Error
	return items, err
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) Save(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Omit("PostedBy").Save(it).Error
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Item{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
