package ports

import (
	"context"

	"github.com/GoArmGo/BookCatalog/internal/messaging/payloads"
)

// ReviewEventPublisher публикует события жизненного цикла отзывов
// в очередь. Публикация — best effort: её сбой не должен валить запрос.
type ReviewEventPublisher interface {
	PublishReviewEvent(ctx context.Context, payload payloads.ReviewEventPayload) error
}

// ReviewEventConsumer потребляет события отзывов из очереди
// (воркер-режим приложения).
type ReviewEventConsumer interface {
	StartConsumingReviewEvents(ctx context.Context, handler func(context.Context, payloads.ReviewEventPayload) error) error
}
