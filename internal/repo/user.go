package repo

import (
	"LostFound/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository определяет контракт доступа к пользователям.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его с присвоенным ID.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)

	// GetUserByEmail ищет пользователя по email. Если не найден — gorm.ErrRecordNotFound.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID ищет пользователя по ID. Если не найден — gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// List возвращает всех пользователей.
	List(ctx context.Context) ([]model.User, error)

	// ListPending возвращает неподтверждённых и не скрытых администратором пользователей.
	ListPending(ctx context.Context) ([]model.User, error)

	// Save обновляет все поля пользователя.
	Save(ctx context.Context, user *model.User) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория пользователей.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *userRepo) ListPending(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("approved = ? AND ignored = ?", false, false).
		Order("created_at").
		Find(&users).Error
	return users, err
}

func (r *userRepo) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
