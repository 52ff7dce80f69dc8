package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/core/ports"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/GoArmGo/BookCatalog/internal/messaging/payloads"
	"github.com/google/uuid"
)

// reviewUseCase implements ReviewUseCase
type reviewUseCase struct {
	reviewStorage ports.ReviewStorage
	publisher     ports.ReviewEventPublisher
	logger        *slog.Logger
}

// NewReviewUseCase создает новый экземпляр ReviewUseCase.
func NewReviewUseCase(
	reviewStorage ports.ReviewStorage,
	publisher ports.ReviewEventPublisher,
	logger *slog.Logger,
) ReviewUseCase {
	return &reviewUseCase{
		reviewStorage: reviewStorage,
		publisher:     publisher,
		logger:        logger,
	}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// publishEvent отправляет событие отзыва в очередь аудита.
// Публикация не участвует в судьбе запроса: сбой только логируется.
func (uc *reviewUseCase) publishEvent(ctx context.Context, event string, review *domain.Review, rating *int) {
	payload := payloads.ReviewEventPayload{
		Event:      event,
		ReviewID:   review.ID,
		BookID:     review.BookID,
		UserID:     review.UserID,
		Rating:     rating,
		OccurredAt: time.Now(),
	}
	if err := uc.publisher.PublishReviewEvent(ctx, payload); err != nil {
		uc.logger.Error("failed to publish review event",
			"event", event,
			"review_id", review.ID,
			"error", err,
		)
	}
}

// CreateReview создаёт отзыв от имени вызывающего. Диапазон рейтинга
// проверяется до хранилища; дубликат отзыва отклоняет само хранилище
// и он приходит сюда уже как Conflict.
func (uc *reviewUseCase) CreateReview(ctx context.Context, bookID uuid.UUID, caller domain.Identity, rating int, content *string) (*domain.Review, error) {
	if !validRating(rating) {
		return nil, apperr.New(apperr.KindInvalidArgument, "rating must be an integer between 1 and 5")
	}

	review := &domain.Review{
		BookID:  bookID,
		UserID:  caller.ID,
		Rating:  rating,
		Content: content,
	}
	if err := uc.reviewStorage.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании отзыва: %w", err)
	}

	uc.publishEvent(ctx, payloads.ReviewCreated, review, &review.Rating)

	uc.logger.Info("review created", "review_id", review.ID, "book_id", bookID, "user_id", caller.ID)
	return review, nil
}

// UpdateReview применяет частичное обновление собственного отзыва.
// Пустой патч и рейтинг вне диапазона отклоняются до хранилища;
// чужой отзыв приходит из хранилища как NotFound.
func (uc *reviewUseCase) UpdateReview(ctx context.Context, reviewID uuid.UUID, caller domain.Identity, patch domain.ReviewPatch) (*domain.Review, error) {
	if patch.IsEmpty() {
		return nil, apperr.New(apperr.KindInvalidArgument, "at least one field must be provided for update")
	}
	if patch.Rating != nil && !validRating(*patch.Rating) {
		return nil, apperr.New(apperr.KindInvalidArgument, "rating must be an integer between 1 and 5")
	}

	review, err := uc.reviewStorage.UpdateReview(ctx, reviewID, caller.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении отзыва %s: %w", reviewID, err)
	}

	uc.publishEvent(ctx, payloads.ReviewUpdated, review, patch.Rating)

	uc.logger.Info("review updated", "review_id", reviewID, "user_id", caller.ID)
	return review, nil
}

// DeleteReview удаляет собственный отзыв. Удаление физическое
// и окончательное, мягкого удаления нет.
func (uc *reviewUseCase) DeleteReview(ctx context.Context, reviewID uuid.UUID, caller domain.Identity) error {
	if err := uc.reviewStorage.DeleteReview(ctx, reviewID, caller.ID); err != nil {
		return fmt.Errorf("usecase: ошибка при удалении отзыва %s: %w", reviewID, err)
	}

	uc.publishEvent(ctx, payloads.ReviewDeleted, &domain.Review{ID: reviewID, UserID: caller.ID}, nil)

	uc.logger.Info("review deleted", "review_id", reviewID, "user_id", caller.ID)
	return nil
}
