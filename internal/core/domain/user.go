package domain

import "github.com/google/uuid"

// UserInfo - отображаемые данные пользователя (для карточек и деталей).
// Управление учетными записями лежит на сервисе аутентификации,
// здесь мы только читаем эти поля.
type UserInfo struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Caller - идентичность вызывающего, восстановленная api-gateway
// из его учетных данных. Ядро ее только потребляет.
type Caller struct {
	ID   uuid.UUID
	Role string
}
