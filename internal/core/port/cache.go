package port

import (
	"context"
	"time"
)

// CachePort - контракт кэша перед хранилищем (read-through / invalidate-on-write).
//
// Значения хранятся как сериализованный JSON. TTL обязателен для каждой
// записи: он ограничивает окно устаревания, если инвалидация по префиксу
// по какой-то причине не накрыла запись.
type CachePort interface {
	// Get возвращает значение и признак попадания.
	// Ошибка означает проблему бэкенда, а не промах.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set кладет значение с обязательным TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет точные ключи.
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPrefix удаляет все ключи с данным префиксом.
	// Именно этим обязаны пользоваться мутации объявлений: перечислить все
	// комбинации фильтров списочных ключей невозможно.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Close освобождает соединения бэкенда.
	Close() error
}
