package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/GoArmGo/BookCatalog/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestCreateReview(t *testing.T) {
	caller := domain.Identity{ID: uuid.New(), Email: "reader@example.com"}
	bookID := uuid.New()

	storage := &fakeReviewStorage{
		createReviewFn: func(_ context.Context, review *domain.Review) error {
			review.ID = uuid.New()
			return nil
		},
	}
	publisher := &fakePublisher{}
	uc := NewReviewUseCase(storage, publisher, testLogger())

	review, err := uc.CreateReview(context.Background(), bookID, caller, 4, strPtr("отличная книга"))
	require.NoError(t, err)
	assert.Equal(t, bookID, review.BookID)
	assert.Equal(t, caller.ID, review.UserID)
	assert.Equal(t, 4, review.Rating)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, payloads.ReviewCreated, publisher.published[0].Event)
	assert.Equal(t, review.ID, publisher.published[0].ReviewID)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	uc := NewReviewUseCase(&fakeReviewStorage{}, &fakePublisher{}, testLogger())

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := uc.CreateReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()}, rating, nil)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	}
}

func TestCreateReviewDuplicate(t *testing.T) {
	storage := &fakeReviewStorage{
		createReviewFn: func(_ context.Context, _ *domain.Review) error {
			return apperr.New(apperr.KindConflict, "this record already exists - unique constraint violated")
		},
	}
	publisher := &fakePublisher{}
	uc := NewReviewUseCase(storage, publisher, testLogger())

	_, err := uc.CreateReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()}, 5, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Empty(t, publisher.published, "событие не публикуется при ошибке")
}

func TestCreateReviewPublishFailureDoesNotFailRequest(t *testing.T) {
	storage := &fakeReviewStorage{}
	publisher := &fakePublisher{err: errors.New("amqp: channel closed")}
	uc := NewReviewUseCase(storage, publisher, testLogger())

	_, err := uc.CreateReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()}, 3, nil)
	assert.NoError(t, err, "сбой публикации не валит запрос")
}

func TestUpdateReviewEmptyPatch(t *testing.T) {
	uc := NewReviewUseCase(&fakeReviewStorage{}, &fakePublisher{}, testLogger())

	_, err := uc.UpdateReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()}, domain.ReviewPatch{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	assert.Equal(t, "at least one field must be provided for update", apperr.PublicMessage(err))
}

func TestUpdateReviewRatingOutOfRange(t *testing.T) {
	uc := NewReviewUseCase(&fakeReviewStorage{}, &fakePublisher{}, testLogger())

	_, err := uc.UpdateReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()},
		domain.ReviewPatch{Rating: intPtr(7)})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestUpdateReviewNotOwned(t *testing.T) {
	// Предикат (id AND user_id) не совпал: чужой отзыв выглядит
	// как отсутствующий, владелец не раскрывается.
	storage := &fakeReviewStorage{
		updateReviewFn: func(_ context.Context, _, _ uuid.UUID, _ domain.ReviewPatch) (*domain.Review, error) {
			return nil, apperr.New(apperr.KindNotFound, "review not found")
		},
	}
	uc := NewReviewUseCase(storage, &fakePublisher{}, testLogger())

	_, err := uc.UpdateReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()},
		domain.ReviewPatch{Content: strPtr("новый текст")})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateReviewPublishesEvent(t *testing.T) {
	reviewID := uuid.New()
	caller := domain.Identity{ID: uuid.New()}

	storage := &fakeReviewStorage{
		updateReviewFn: func(_ context.Context, id, callerID uuid.UUID, patch domain.ReviewPatch) (*domain.Review, error) {
			return &domain.Review{ID: id, UserID: callerID, Rating: *patch.Rating}, nil
		},
	}
	publisher := &fakePublisher{}
	uc := NewReviewUseCase(storage, publisher, testLogger())

	_, err := uc.UpdateReview(context.Background(), reviewID, caller, domain.ReviewPatch{Rating: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, payloads.ReviewUpdated, publisher.published[0].Event)
	assert.Equal(t, 2, *publisher.published[0].Rating)
}

func TestDeleteReviewForbidden(t *testing.T) {
	ownerID := uuid.New()
	storage := &fakeReviewStorage{
		deleteReviewFn: func(_ context.Context, _, _ uuid.UUID) error {
			return apperr.Wrap(apperr.KindForbidden,
				"you are not allowed to delete this review",
				&domain.ReviewOwnershipError{OwnerID: ownerID})
		},
	}
	publisher := &fakePublisher{}
	uc := NewReviewUseCase(storage, publisher, testLogger())

	err := uc.DeleteReview(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Владелец доступен выше по стеку через errors.As.
	var ownership *domain.ReviewOwnershipError
	require.True(t, errors.As(err, &ownership))
	assert.Equal(t, ownerID, ownership.OwnerID)
	assert.Empty(t, publisher.published)
}

func TestDeleteReviewPublishesEvent(t *testing.T) {
	reviewID := uuid.New()
	publisher := &fakePublisher{}
	uc := NewReviewUseCase(&fakeReviewStorage{}, publisher, testLogger())

	err := uc.DeleteReview(context.Background(), reviewID, domain.Identity{ID: uuid.New()})
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, payloads.ReviewDeleted, publisher.published[0].Event)
	assert.Equal(t, reviewID, publisher.published[0].ReviewID)
	assert.Nil(t, publisher.published[0].Rating)
}
