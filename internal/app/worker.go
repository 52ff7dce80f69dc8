package app

import (
	"context"
	"fmt"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/GoArmGo/BookCatalog/internal/messaging/payloads"
)

// runWorker потребляет события отзывов из RabbitMQ и записывает
// их в журнал аудита. Блокируется до отмены контекста.
func (a *App) runWorker(ctx context.Context) error {
	a.logger.Info("worker started, waiting for review events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	messageHandler := func(ctx context.Context, payload payloads.ReviewEventPayload) error {
		a.logger.Info("processing review event",
			"event", payload.Event,
			"review_id", payload.ReviewID,
			"book_id", payload.BookID,
		)

		event := domain.ReviewEvent{
			Event:      payload.Event,
			ReviewID:   payload.ReviewID,
			BookID:     payload.BookID,
			UserID:     payload.UserID,
			Rating:     payload.Rating,
			OccurredAt: payload.OccurredAt,
		}

		if err := a.eventStorage.AppendReviewEvent(ctx, &event); err != nil {
			a.logger.Error("failed to append review event",
				"error", err, "event", payload.Event, "review_id", payload.ReviewID)
			return err
		}
		return nil
	}

	if err := a.eventConsumer.StartConsumingReviewEvents(workerCtx, messageHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()

	a.logger.Info("worker received shutdown signal")
	cancelWorker()

	// Даём потребителю время подтвердить сообщения в полёте.
	time.Sleep(2 * time.Second)
	a.logger.Info("worker stopped")

	return nil
}
