// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
// Хеш пароля никогда не сериализуется в ответы.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity — личность вызывающего, полученная из bearer-токена.
// Ровно то, что кладётся в JWT при логине.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
