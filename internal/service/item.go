package service

import (
	"LostFound/internal/cache"
	"LostFound/internal/matching"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemService инкапсулирует бизнес-логику работы с заявками и подбор совпадений.
type ItemService struct {
	items  repo.ItemRepository
	users  repo.UserRepository
	cache  cache.MatchCache
	logger *zap.SugaredLogger
}

func NewItemService(items repo.ItemRepository, users repo.UserRepository, c cache.MatchCache, logger *zap.SugaredLogger) *ItemService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ItemService{items: items, users: users, cache: c, logger: logger}
}

// ItemInput — поля новой заявки.
type ItemInput struct {
	Title       string
	Description string
	Type        model.ItemType
	Category    string
	Tags        string
	Location    string
	Color       string
	ImageURL    string
}

// ItemPatch — частичное обновление. nil означает «не менять».
// Status, Matched и Flagged применяются только для администратора.
type ItemPatch struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *string
	Location    *string
	Color       *string
	ImageURL    *string
	Status      *model.ItemStatus
	Matched     *bool
	Flagged     *bool
}

// Summary — общая статистика по заявкам.
type Summary struct {
	Total   int64 `json:"total"`
	Open    int64 `json:"open"`
	Matched int64 `json:"matched"`
	Closed  int64 `json:"closed"`
}

// UserSummary — статистика по заявкам одного пользователя.
type UserSummary struct {
	Reported     int64 `json:"reported"`
	Recovered    int64 `json:"recovered"`
	NotRecovered int64 `json:"not_recovered"`
}

// Create публикует новую заявку от имени callerID.
func (s *ItemService) Create(ctx context.Context, callerID int64, in ItemInput) (*model.Item, error) {
	in.Type = model.ItemType(strings.ToUpper(strings.TrimSpace(string(in.Type))))
	if !in.Type.Valid() {
		return nil, invalid("type must be LOST or FOUND")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, invalid("location is required")
	}
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", callerID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	it := &model.Item{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Type:         in.Type,
		Category:     optional(in.Category),
		Tags:         optional(in.Tags),
		Location:     strings.TrimSpace(in.Location),
		Color:        in.Color,
		ImageURL:     in.ImageURL,
		DateReported: &now,
		Status:       model.StatusOpen,
		PostedByID:   &callerID,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.invalidate(ctx, it.ID)
	s.logger.Infow("item created", "item_id", it.ID, "type", it.Type, "user_id", callerID)
	return it, nil
}

func (s *ItemService) List(ctx context.Context, f repo.ItemFilter) ([]model.Item, error) {
	f.Type = model.ItemType(strings.ToUpper(string(f.Type)))
	return s.items.List(ctx, f)
}

func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("item", id)
		}
		return nil, err
	}
	return it, nil
}

// Update применяет patch. Владелец меняет основные поля, администратор — ещё и статус/флаги.
func (s *ItemService) Update(ctx context.Context, id string, callerID int64, p ItemPatch) (*model.Item, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	admin := s.isAdmin(ctx, callerID)
	if !admin && !it.PostedByUser(callerID) {
		return nil, forbiddenf("Unauthorized")
	}

	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Category != nil {
		it.Category = optional(*p.Category)
	}
	if p.Tags != nil {
		it.Tags = optional(*p.Tags)
	}
	if p.Location != nil {
		if strings.TrimSpace(*p.Location) == "" {
			return nil, invalid("location is required")
		}
		it.Location = strings.TrimSpace(*p.Location)
	}
	if p.Color != nil {
		it.Color = *p.Color
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if admin {
		if p.Status != nil {
			if !p.Status.Valid() {
				return nil, invalid("status must be OPEN, MATCHED or CLOSED")
			}
			it.Status = *p.Status
		}
		if p.Matched != nil {
			it.Matched = *p.Matched
		}
		if p.Flagged != nil {
			it.Flagged = *p.Flagged
		}
	}

	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.invalidate(ctx, it.ID)
	return it, nil
}

// Delete удаляет заявку. Разрешено владельцу и администратору.
func (s *ItemService) Delete(ctx context.Context, id string, callerID int64) error {
	it, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !it.PostedByUser(callerID) && !s.isAdmin(ctx, callerID) {
		return forbiddenf("Unauthorized")
	}
	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("item", id)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Flag отмечает заявку для модерации. Доступно любому авторизованному пользователю.
func (s *ItemService) Flag(ctx context.Context, id string, callerID int64) (*model.Item, error) {
	return s.setFlagged(ctx, id, true)
}

// Unflag снимает отметку. Только для администратора.
func (s *ItemService) Unflag(ctx context.Context, id string, callerID int64) (*model.Item, error) {
	if !s.isAdmin(ctx, callerID) {
		return nil, forbiddenf("Admin only")
	}
	return s.setFlagged(ctx, id, false)
}

func (s *ItemService) ListFlagged(ctx context.Context, callerID int64) ([]model.Item, error) {
	if !s.isAdmin(ctx, callerID) {
		return nil, forbiddenf("Admin only")
	}
	return s.items.ListFlagged(ctx)
}

func (s *ItemService) setFlagged(ctx context.Context, id string, v bool) (*model.Item, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Flagged = v
	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.invalidate(ctx, it.ID)
	return it, nil
}

// FindMatches возвращает кандидатов противоположного вида, лучшие первыми.
// Пустой пул даёт пустой список, а не ошибку.
func (s *ItemService) FindMatches(ctx context.Context, id string) ([]model.Item, error) {
	// поколение читается до выборки кандидатов: результат, посчитанный по
	// данным до изменения, не попадёт в поколение после него
	gen, err := s.cache.Generation(ctx)
	useCache := err == nil
	if err != nil {
		s.logger.Warnw("FindMatches: cache generation failed", "item_id", id, "error", err)
	} else if cached, ok, err := s.cache.Get(ctx, gen, id); err != nil {
		s.logger.Warnw("FindMatches: cache read failed", "item_id", id, "error", err)
	} else if ok {
		return cached, nil
	}

	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pool, err := s.items.ListByType(ctx, matching.OppositeType(it.Type))
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	matches := matching.Rank(*it, pool)

	if useCache {
		if err := s.cache.Set(ctx, gen, id, matches); err != nil {
			s.logger.Warnw("FindMatches: cache write failed", "item_id", id, "error", err)
		}
	}
	return matches, nil
}

func (s *ItemService) Summary(ctx context.Context) (Summary, error) {
	items, err := s.items.List(ctx, repo.ItemFilter{})
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Total: int64(len(items))}
	for _, it := range items {
		switch {
		case it.Status == model.StatusOpen:
			sum.Open++
		case it.Status == model.StatusClosed:
			sum.Closed++
		}
		if it.Status == model.StatusMatched || it.Matched {
			sum.Matched++
		}
	}
	return sum, nil
}

func (s *ItemService) UserSummary(ctx context.Context, userID int64) (UserSummary, error) {
	items, err := s.items.ListByPoster(ctx, userID)
	if err != nil {
		return UserSummary{}, err
	}
	sum := UserSummary{Reported: int64(len(items))}
	for _, it := range items {
		if it.Status == model.StatusMatched || it.Matched || it.Status == model.StatusClosed {
			sum.Recovered++
		}
		if it.Status == model.StatusOpen {
			sum.NotRecovered++
		}
	}
	return sum, nil
}

func (s *ItemService) isAdmin(ctx context.Context, userID int64) bool {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return u.IsAdmin()
}

// invalidate сбрасывает все ранжирования: изменённая заявка может быть
// кандидатом в любом из них.
func (s *ItemService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warnw("match cache invalidation failed", "item_id", id, "error", err)
	}
}

// optional превращает пустую строку в отсутствующее значение.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
