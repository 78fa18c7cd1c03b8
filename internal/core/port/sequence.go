package port

import "context"

// SequenceAllocatorPort выдает внешние коды новых объявлений ("PROP<n>").
//
// Контракт: никакие два вызова Next, как бы они ни пересекались во времени,
// не возвращают одинаковое значение, и значения строго возрастают.
// Пропуски в нумерации допустимы, дубликаты - нет. Схема "прочитать
// максимум, прибавить единицу" этот контракт не выполняет: между чтением
// и записью два конкурентных вызова видят один и тот же максимум.
// Реализация обязана использовать атомарный инкремент единственного счетчика.
type SequenceAllocatorPort interface {
	Next(ctx context.Context) (string, error)
}
