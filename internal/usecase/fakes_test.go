package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/GoArmGo/BookCatalog/internal/messaging/payloads"
	"github.com/google/uuid"
)

// Фейки портов для тестов бизнес-логики. Методы переопределяются
// через поля-функции, неназначенный метод возвращает нулевые значения.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeBookStorage struct {
	createBookFn    func(ctx context.Context, book *domain.Book) error
	listBooksFn     func(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)
	getBookDetailFn func(ctx context.Context, id uuid.UUID) (*domain.BookDetail, error)
	searchBooksFn   func(ctx context.Context, author, title string) ([]domain.Book, error)
	setBookCoverFn  func(ctx context.Context, id uuid.UUID, coverURL string) error
}

func (f *fakeBookStorage) CreateBook(ctx context.Context, book *domain.Book) error {
	if f.createBookFn != nil {
		return f.createBookFn(ctx, book)
	}
	return nil
}

func (f *fakeBookStorage) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	if f.listBooksFn != nil {
		return f.listBooksFn(ctx, filter)
	}
	return []domain.Book{}, nil
}

func (f *fakeBookStorage) GetBookDetail(ctx context.Context, id uuid.UUID) (*domain.BookDetail, error) {
	if f.getBookDetailFn != nil {
		return f.getBookDetailFn(ctx, id)
	}
	return &domain.BookDetail{}, nil
}

func (f *fakeBookStorage) SearchBooks(ctx context.Context, author, title string) ([]domain.Book, error) {
	if f.searchBooksFn != nil {
		return f.searchBooksFn(ctx, author, title)
	}
	return []domain.Book{}, nil
}

func (f *fakeBookStorage) SetBookCover(ctx context.Context, id uuid.UUID, coverURL string) error {
	if f.setBookCoverFn != nil {
		return f.setBookCoverFn(ctx, id, coverURL)
	}
	return nil
}

type fakeReviewStorage struct {
	createReviewFn      func(ctx context.Context, review *domain.Review) error
	updateReviewFn      func(ctx context.Context, reviewID, callerID uuid.UUID, patch domain.ReviewPatch) (*domain.Review, error)
	deleteReviewFn      func(ctx context.Context, reviewID, callerID uuid.UUID) error
	listReviewsByBookFn func(ctx context.Context, bookID uuid.UUID, page, limit int) ([]domain.Review, error)
}

func (f *fakeReviewStorage) CreateReview(ctx context.Context, review *domain.Review) error {
	if f.createReviewFn != nil {
		return f.createReviewFn(ctx, review)
	}
	return nil
}

func (f *fakeReviewStorage) UpdateReview(ctx context.Context, reviewID, callerID uuid.UUID, patch domain.ReviewPatch) (*domain.Review, error) {
	if f.updateReviewFn != nil {
		return f.updateReviewFn(ctx, reviewID, callerID, patch)
	}
	return &domain.Review{ID: reviewID, UserID: callerID}, nil
}

func (f *fakeReviewStorage) DeleteReview(ctx context.Context, reviewID, callerID uuid.UUID) error {
	if f.deleteReviewFn != nil {
		return f.deleteReviewFn(ctx, reviewID, callerID)
	}
	return nil
}

func (f *fakeReviewStorage) ListReviewsByBook(ctx context.Context, bookID uuid.UUID, page, limit int) ([]domain.Review, error) {
	if f.listReviewsByBookFn != nil {
		return f.listReviewsByBookFn(ctx, bookID, page, limit)
	}
	return []domain.Review{}, nil
}

type fakePublisher struct {
	published []payloads.ReviewEventPayload
	err       error
}

func (f *fakePublisher) PublishReviewEvent(_ context.Context, payload payloads.ReviewEventPayload) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload)
	return nil
}

type fakeFileStorage struct {
	uploadFn func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	deleted  []string
}

func (f *fakeFileStorage) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, key, reader, contentType)
	}
	return "http://localhost:9000/covers/" + key, nil
}

func (f *fakeFileStorage) DeleteFile(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeUserStorage struct {
	createUserFn     func(ctx context.Context, user *domain.User) error
	getUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (f *fakeUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, user)
	}
	return nil
}

func (f *fakeUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getUserByEmailFn != nil {
		return f.getUserByEmailFn(ctx, email)
	}
	return nil, nil
}
