package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Размер порции ключей при SCAN и при пакетном DEL.
const scanBatchSize = 128

// RedisCacheAdapter - реализация CachePort поверх Redis.
//
// DeleteByPrefix реализован через SCAN + пакетные DEL. Передавать
// шаблон "prefix*" в обычный DEL нельзя: DEL трактует аргумент как
// буквальный ключ, молча ничего не удаляет и оставляет весь списочный
// кэш устаревшим до истечения TTL.
type RedisCacheAdapter struct {
	client *redis.Client
}

// NewRedisCacheAdapter - конструктор.
func NewRedisCacheAdapter(client *redis.Client) (*RedisCacheAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &RedisCacheAdapter{client: client}, nil
}

// Get возвращает значение и признак попадания.
func (a *RedisCacheAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := a.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set кладет значение. TTL обязателен: он ограничивает окно устаревания,
// когда инвалидация по какой-то причине не накрыла запись.
func (a *RedisCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis set %q: ttl is required", key)
	}
	if err := a.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete удаляет точные ключи.
func (a *RedisCacheAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := a.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteByPrefix удаляет все ключи с данным префиксом одной логической
// операцией: курсорный SCAN собирает ключи порциями, каждая порция
// удаляется пакетным DEL.
func (a *RedisCacheAdapter) DeleteByPrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("redis delete by prefix: empty prefix is not allowed")
	}

	iter := a.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := a.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del batch: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %q: %w", prefix, err)
	}
	if len(batch) > 0 {
		if err := a.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del batch: %w", err)
		}
	}
	return nil
}

// Close закрывает соединение с Redis.
func (a *RedisCacheAdapter) Close() error {
	return a.client.Close()
}
