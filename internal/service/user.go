package service

import (
	"LostFound/internal/config"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService — регистрация, вход и модерация учётных записей.
type UserService struct {
	repo repo.UserRepository
	cfg  *config.Config
}

func NewUserService(r repo.UserRepository, cfg *config.Config) *UserService {
	return &UserService{repo: r, cfg: cfg}
}

// RegisterInput — данные формы регистрации.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Department    string
	ContactNo     string
	TermsAccepted bool
}

// Register создаёт пользователя. Адреса домена кампуса подтверждаются сразу,
// остальные ждут администратора.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("a valid email is required")
	}
	if !strongPassword(in.Password) {
		return nil, invalid("Password must include uppercase, lowercase, number and a special character and be at least 6 characters long")
	}
	if !in.TermsAccepted {
		return nil, invalid("You must accept the terms and policy to register")
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	verified := strings.HasSuffix(email, strings.ToLower(s.cfg.CampusDomain))
	user := &model.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		Password:      string(hash),
		Role:          model.RoleStudent,
		Verified:      verified,
		Approved:      verified,
		Department:    in.Department,
		ContactNo:     in.ContactNo,
		TermsAccepted: in.TermsAccepted,
		CreatedAt:     time.Now().UTC(),
	}
	if s.cfg.IsAdminEmail(email) {
		user.Role = model.RoleAdmin
		user.Approved = true
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login проверяет пароль и состояние учётной записи.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, forbiddenf("You are blocked")
	}
	if !user.Approved {
		return nil, forbiddenf("Pending admin approval")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", email)
		}
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", email)
	}
	return u, nil
}

// RequireAdmin возвращает пользователя, если он администратор, иначе ErrForbidden.
func (s *UserService) RequireAdmin(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, forbiddenf("Admin only")
		}
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, forbiddenf("Admin only")
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) ListPending(ctx context.Context) ([]model.User, error) {
	return s.repo.ListPending(ctx)
}

func (s *UserService) SetApproved(ctx context.Context, id int64, v bool) (*model.User, error) {
	return s.update(ctx, id, func(u *model.User) { u.Approved = v })
}

func (s *UserService) SetIgnored(ctx context.Context, id int64, v bool) (*model.User, error) {
	return s.update(ctx, id, func(u *model.User) { u.Ignored = v })
}

func (s *UserService) SetBlocked(ctx context.Context, id int64, v bool) (*model.User, error) {
	return s.update(ctx, id, func(u *model.User) { u.Blocked = v })
}

func (s *UserService) update(ctx context.Context, id int64, fn func(u *model.User)) (*model.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(u)
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

func strongPassword(p string) bool {
	if len(p) < 6 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(`!@#$%^&*()_+-=[]{};':"\|,.<>/?`, r):
			special = true
		}
	}
	return upper && lower && digit && special
}
