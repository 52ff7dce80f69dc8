package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/jmoiron/sqlx"
)

// EventStorage пишет аудит отзывов; единственный его клиент — воркер.
type EventStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewEventStorage(db *sqlx.DB, logger *slog.Logger) *EventStorage {
	return &EventStorage{db: db, logger: logger}
}

// AppendReviewEvent дописывает событие в журнал review_events.
func (s *EventStorage) AppendReviewEvent(ctx context.Context, event *domain.ReviewEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	_, err := s.db.NamedExecContext(ctx, `
	INSERT INTO review_events (event, review_id, book_id, user_id, rating, occurred_at)
	VALUES (:event, :review_id, :book_id, :user_id, :rating, :occurred_at)
	`, event)
	if err != nil {
		s.logger.Error("failed to append review event", "event", event.Event, "review_id", event.ReviewID, "error", err)
		return fmt.Errorf("ошибка при записи события отзыва: %w", err)
	}

	s.logger.Info("review event appended",
		"event", event.Event,
		"review_id", event.ReviewID,
	)
	return nil
}
