// Package cache keeps short-lived copies of match results.
package cache

import (
	"LostFound/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// MatchCache хранит ранжированные совпадения по ID исходной заявки.
//
// Записи привязаны к поколению: любое изменение заявок увеличивает поколение
// через Bump, и все ранее сохранённые ранжирования перестают находиться.
type MatchCache interface {
	// Generation возвращает текущее поколение.
	Generation(ctx context.Context) (int64, error)
	// Get возвращает сохранённый результат; ok=false, если записи нет.
	Get(ctx context.Context, gen int64, itemID string) (items []model.Item, ok bool, err error)
	Set(ctx context.Context, gen int64, itemID string, items []model.Item) error
	Bump(ctx context.Context) error
}

// Nop — кэш, который ничего не хранит. Используется, когда Redis не настроен.
type Nop struct{}

func (Nop) Generation(context.Context) (int64, error)                      { return 0, nil }
func (Nop) Get(context.Context, int64, string) ([]model.Item, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, int64, string, []model.Item) error         { return nil }
func (Nop) Bump(context.Context) error                                     { return nil }

const (
	keyPrefix = "lostfound:matches:"
	genKey    = keyPrefix + "gen"
)

// Key returns the Redis key holding the matches of itemID in generation gen.
func Key(gen int64, itemID string) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + itemID
}

// RedisMatchCache хранит результаты в Redis как JSON с TTL.
type RedisMatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMatchCache создаёт кэш поверх готового клиента.
func NewRedisMatchCache(client *redis.Client, ttl time.Duration) *RedisMatchCache {
	return &RedisMatchCache{client: client, ttl: ttl}
}

// Connect разбирает REDIS_URL и проверяет доступность сервера.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisMatchCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisMatchCache) Get(ctx context.Context, gen int64, itemID string) ([]model.Item, bool, error) {
	data, err := c.client.Get(ctx, Key(gen, itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached matches: %w", err)
	}
	return items, true, nil
}

func (c *RedisMatchCache) Set(ctx context.Context, gen int64, itemID string, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(gen, itemID), data, c.ttl).Err()
}

// Bump увеличивает поколение. Записи старых поколений доживают до истечения TTL.
func (c *RedisMatchCache) Bump(ctx context.Context) error {
	return c.client.Incr(ctx, genKey).Err()
}
