package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейк каталога: методы переопределяются через поля-функции.
type fakeCatalogUseCase struct {
	createBookFn    func(ctx context.Context, title, author string, genres []domain.Genre) (*domain.Book, error)
	listBooksFn     func(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)
	getBookDetailFn func(ctx context.Context, id uuid.UUID, page, limit int) (*domain.BookDetail, error)
	searchBooksFn   func(ctx context.Context, author, title string) ([]domain.Book, error)
}

func (f *fakeCatalogUseCase) CreateBook(ctx context.Context, title, author string, genres []domain.Genre) (*domain.Book, error) {
	if f.createBookFn != nil {
		return f.createBookFn(ctx, title, author, genres)
	}
	return &domain.Book{ID: uuid.New(), Title: title, Author: author, Genres: genres}, nil
}

func (f *fakeCatalogUseCase) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	if f.listBooksFn != nil {
		return f.listBooksFn(ctx, filter)
	}
	return []domain.Book{}, nil
}

func (f *fakeCatalogUseCase) GetBookDetail(ctx context.Context, id uuid.UUID, page, limit int) (*domain.BookDetail, error) {
	if f.getBookDetailFn != nil {
		return f.getBookDetailFn(ctx, id, page, limit)
	}
	return &domain.BookDetail{Book: domain.Book{ID: id}}, nil
}

func (f *fakeCatalogUseCase) SearchBooks(ctx context.Context, author, title string) ([]domain.Book, error) {
	if f.searchBooksFn != nil {
		return f.searchBooksFn(ctx, author, title)
	}
	return []domain.Book{}, nil
}

func (f *fakeCatalogUseCase) UploadBookCover(_ context.Context, id uuid.UUID, _ io.Reader, _ string) (string, error) {
	return "http://localhost:9000/covers/book-covers/" + id.String(), nil
}

type fakeReviewUseCase struct {
	createReviewFn func(ctx context.Context, bookID uuid.UUID, caller domain.Identity, rating int, content *string) (*domain.Review, error)
	updateReviewFn func(ctx context.Context, reviewID uuid.UUID, caller domain.Identity, patch domain.ReviewPatch) (*domain.Review, error)
	deleteReviewFn func(ctx context.Context, reviewID uuid.UUID, caller domain.Identity) error
}

func (f *fakeReviewUseCase) CreateReview(ctx context.Context, bookID uuid.UUID, caller domain.Identity, rating int, content *string) (*domain.Review, error) {
	if f.createReviewFn != nil {
		return f.createReviewFn(ctx, bookID, caller, rating, content)
	}
	return &domain.Review{ID: uuid.New(), BookID: bookID, UserID: caller.ID, Rating: rating, Content: content}, nil
}

func (f *fakeReviewUseCase) UpdateReview(ctx context.Context, reviewID uuid.UUID, caller domain.Identity, patch domain.ReviewPatch) (*domain.Review, error) {
	if f.updateReviewFn != nil {
		return f.updateReviewFn(ctx, reviewID, caller, patch)
	}
	return &domain.Review{ID: reviewID, UserID: caller.ID}, nil
}

func (f *fakeReviewUseCase) DeleteReview(ctx context.Context, reviewID uuid.UUID, caller domain.Identity) error {
	if f.deleteReviewFn != nil {
		return f.deleteReviewFn(ctx, reviewID, caller)
	}
	return nil
}

func newBookRouter(catalog *fakeCatalogUseCase, reviews *fakeReviewUseCase) *chi.Mux {
	h := NewBookHandler(catalog, reviews, make(chan struct{}, 5), validator.New(), testLogger())
	r := chi.NewRouter()
	r.Get("/books", h.ListBooks)
	r.Get("/books/{id}", h.GetBookByID)
	r.Get("/search", h.SearchBooks)
	r.Post("/books", h.CreateBook)
	return r
}

func TestListBooksFilterValidation(t *testing.T) {
	router := newBookRouter(&fakeCatalogUseCase{}, &fakeReviewUseCase{})

	cases := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"zero page", "?page=0", "Page must be >= 1"},
		{"garbage page", "?page=abc", "Page must be >= 1"},
		{"zero limit", "?limit=0", "Limit must be 1-100"},
		{"limit over cap", "?limit=101", "Limit must be 1-100"},
		{"unknown genre", "?genre=WESTERN", "Invalid genre(s) provided"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books"+tc.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantMsg, decodeEnvelope(t, rec).Message)
		})
	}
}

func TestListBooksPassesFilter(t *testing.T) {
	var got domain.BookFilter
	catalog := &fakeCatalogUseCase{
		listBooksFn: func(_ context.Context, filter domain.BookFilter) ([]domain.Book, error) {
			got = filter
			return []domain.Book{}, nil
		},
	}
	router := newBookRouter(catalog, &fakeReviewUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/books?author=Stephen+King&genre=HORROR&genre=FICTION&page=2&limit=20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Stephen King", got.Author)
	assert.Equal(t, []domain.Genre{domain.GenreHorror, domain.GenreFiction}, got.Genres)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 20, got.Limit)
}

func TestGetBookByIDInvalidUUID(t *testing.T) {
	router := newBookRouter(&fakeCatalogUseCase{}, &fakeReviewUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID format", decodeEnvelope(t, rec).Message)
}

func TestGetBookByIDNotFound(t *testing.T) {
	catalog := &fakeCatalogUseCase{
		getBookDetailFn: func(_ context.Context, _ uuid.UUID, _, _ int) (*domain.BookDetail, error) {
			return nil, apperr.New(apperr.KindNotFound, "book not found")
		},
	}
	router := newBookRouter(catalog, &fakeReviewUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "book not found", decodeEnvelope(t, rec).Message)
}

func TestGetBookByIDLenientPagination(t *testing.T) {
	// Мусорная пагинация в карточке книги не ошибка:
	// подставляются значения по умолчанию.
	var gotPage, gotLimit int
	catalog := &fakeCatalogUseCase{
		getBookDetailFn: func(_ context.Context, id uuid.UUID, page, limit int) (*domain.BookDetail, error) {
			gotPage, gotLimit = page, limit
			return &domain.BookDetail{Book: domain.Book{ID: id}}, nil
		},
	}
	router := newBookRouter(catalog, &fakeReviewUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/books/"+uuid.NewString()+"?page=abc&limit=-5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 10, gotLimit)
}

func TestSearchBooksNoPredicates(t *testing.T) {
	catalog := &fakeCatalogUseCase{
		searchBooksFn: func(_ context.Context, author, title string) ([]domain.Book, error) {
			return nil, apperr.New(apperr.KindInvalidArgument, "use 'author' or 'title' as search params")
		},
	}
	router := newBookRouter(catalog, &fakeReviewUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "use 'author' or 'title' as search params", decodeEnvelope(t, rec).Message)
}

func TestCreateBookEnvelope(t *testing.T) {
	router := newBookRouter(&fakeCatalogUseCase{}, &fakeReviewUseCase{})

	body := `{"title":"Сияние","author":"Stephen King","genres":["HORROR"]}`
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Book created successfully", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestCreateBookRejectsUnknownGenre(t *testing.T) {
	router := newBookRouter(&fakeCatalogUseCase{}, &fakeReviewUseCase{})

	body := `{"title":"x","author":"y","genres":["WESTERN"]}`
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
