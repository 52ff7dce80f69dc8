package payloads

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий жизненного цикла отзыва.
const (
	ReviewCreated = "review_created"
	ReviewUpdated = "review_updated"
	ReviewDeleted = "review_deleted"
)

// ReviewEventPayload представляет данные события отзыва,
// передаваемые через RabbitMQ в воркер аудита.
type ReviewEventPayload struct {
	Event      string    `json:"event"`
	ReviewID   uuid.UUID `json:"review_id"`
	BookID     uuid.UUID `json:"book_id"`
	UserID     uuid.UUID `json:"user_id"`
	Rating     *int      `json:"rating,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
