package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Review представляет модель отзыва в системе,
// соответствует таблице reviews в бд.
// Пара (book_id, user_id) уникальна: один пользователь — один отзыв на книгу.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"book_id" db:"book_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Content   *string   `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReviewPatch — типизированное частичное обновление отзыва.
// nil-поле означает "не трогать", поэтому отсутствующие поля
// не затираются в бд.
type ReviewPatch struct {
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

// IsEmpty сообщает, что патч не содержит ни одного поля.
// Такой патч отклоняется до обращения к хранилищу.
func (p ReviewPatch) IsEmpty() bool {
	return p.Rating == nil && p.Content == nil
}

// ReviewOwnershipError возвращается при попытке удалить чужой отзыв.
// OwnerID — настоящий владелец; он намеренно раскрывается в ответе
// на удаление (поле deleteRequestBy).
type ReviewOwnershipError struct {
	OwnerID uuid.UUID
}

func (e *ReviewOwnershipError) Error() string {
	return fmt.Sprintf("отзыв принадлежит пользователю %s", e.OwnerID)
}

// ReviewEvent — запись аудита жизненного цикла отзыва,
// соответствует таблице review_events в бд.
// Таблица без внешних ключей: история должна переживать каскадные удаления.
type ReviewEvent struct {
	ID         int64     `json:"id" db:"id"`
	Event      string    `json:"event" db:"event"`
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	BookID     uuid.UUID `json:"book_id" db:"book_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Rating     *int      `json:"rating" db:"rating"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}
