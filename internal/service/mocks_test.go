package service

import (
	"LostFound/internal/cache"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListPending(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.ItemRepository
type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) items(args mock.Arguments) ([]model.Item, error) {
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) item(args mock.Arguments) (*model.Item, error) {
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByType(ctx context.Context, t model.ItemType) ([]model.Item, error) {
	return m.items(m.Called(ctx, t))
}
func (m *mockItemRepo) List(ctx context.Context, f repo.ItemFilter) ([]model.Item, error) {
	return m.items(m.Called(ctx, f))
}
func (m *mockItemRepo) ListFlagged(ctx context.Context) ([]model.Item, error) {
	return m.items(m.Called(ctx))
}
func (m *mockItemRepo) ListByPoster(ctx context.Context, userID int64) ([]model.Item, error) {
	return m.items(m.Called(ctx, userID))
}
func (m *mockItemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	return m.item(m.Called(ctx, id))
}
func (m *mockItemRepo) GetForUpdate(ctx context.Context, id string) (*model.Item, error) {
	return m.item(m.Called(ctx, id))
}
func (m *mockItemRepo) Create(ctx context.Context, it *model.Item) error {
	return m.Called(ctx, it).Error(0)
}
func (m *mockItemRepo) Save(ctx context.Context, it *model.Item) error {
	return m.Called(ctx, it).Error(0)
}
func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)

// memCache — кэш совпадений в памяти, чтобы проверять попадания без Redis.
type memCache struct {
	gen   int64
	data  map[string][]model.Item
	bumps int
}

func newMemCache() *memCache { return &memCache{data: map[string][]model.Item{}} }

func (c *memCache) Generation(context.Context) (int64, error) { return c.gen, nil }

func (c *memCache) Get(_ context.Context, gen int64, id string) ([]model.Item, bool, error) {
	v, ok := c.data[cache.Key(gen, id)]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, gen int64, id string, items []model.Item) error {
	c.data[cache.Key(gen, id)] = items
	return nil
}

func (c *memCache) Bump(context.Context) error {
	c.gen++
	c.bumps++
	return nil
}

// cached reports whether matches of id are stored for the current generation.
func (c *memCache) cached(id string) bool {
	_, ok := c.data[cache.Key(c.gen, id)]
	return ok
}

var _ cache.MatchCache = (*memCache)(nil)

func ptr[T any](v T) *T { return &v }
