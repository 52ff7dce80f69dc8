package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/GoArmGo/BookCatalog/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Максимальный размер тела при загрузке обложки.
const maxCoverUploadBytes = 10 << 20

// BookHandler — обработчик HTTP-запросов каталога книг.
type BookHandler struct {
	catalogUseCase usecase.CatalogUseCase
	reviewUseCase  usecase.ReviewUseCase
	uploadLimiter  chan struct{}
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewBookHandler создаёт новый экземпляр BookHandler.
func NewBookHandler(
	catalogUseCase usecase.CatalogUseCase,
	reviewUseCase usecase.ReviewUseCase,
	uploadLimiter chan struct{},
	validate *validator.Validate,
	logger *slog.Logger,
) *BookHandler {
	return &BookHandler{
		catalogUseCase: catalogUseCase,
		reviewUseCase:  reviewUseCase,
		uploadLimiter:  uploadLimiter,
		validate:       validate,
		logger:         logger,
	}
}

type createBookRequest struct {
	Title  string         `json:"title" validate:"required,min=1"`
	Author string         `json:"author" validate:"required,min=1"`
	Genres []domain.Genre `json:"genres" validate:"required,min=1,dive,oneof=FICTION NON_FICTION HORROR ROMANCE MYSTERY FANTASY"`
}

type createReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Content *string `json:"content"`
}

// CreateBook — создаёт книгу вместе с её жанрами.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeAndValidate(r, &req, h.validate); err != nil {
		respondError(w, err, h.logger)
		return
	}

	book, err := h.catalogUseCase.CreateBook(r.Context(), req.Title, req.Author, req.Genres)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	h.logger.Info("book created via API", "book_id", book.ID)
	respondSuccess(w, http.StatusCreated, "Book created successfully", book, h.logger)
}

// parseListFilter разбирает и проверяет параметры фильтра каталога.
// В отличие от карточки книги фильтр строгий: мусор в page/limit/genre —
// это ошибка запроса, а не значение по умолчанию.
func parseListFilter(r *http.Request) (domain.BookFilter, error) {
	filter := domain.BookFilter{Author: r.URL.Query().Get("author")}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, apperr.New(apperr.KindInvalidArgument, "Page must be >= 1")
		}
		filter.Page = page
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return filter, apperr.New(apperr.KindInvalidArgument, "Limit must be 1-100")
		}
		filter.Limit = limit
	}

	for _, raw := range r.URL.Query()["genre"] {
		genre := domain.Genre(raw)
		if !genre.Valid() {
			return filter, apperr.New(apperr.KindInvalidArgument, "Invalid genre(s) provided")
		}
		filter.Genres = append(filter.Genres, genre)
	}

	return filter, nil
}

// ListBooks — возвращает страницу каталога с опциональными фильтрами
// по автору и жанрам.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	books, err := h.catalogUseCase.ListBooks(r.Context(), filter)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, "", books, h.logger)
}

// pageFromQuery — мягкий разбор пагинации карточки книги:
// некорректные значения заменяются значениями по умолчанию.
func pageFromQuery(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// GetBookByID — карточка книги: жанры, средний рейтинг
// и страница отзывов.
func (h *BookHandler) GetBookByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, apperr.KindInvalidArgument, "Invalid ID format", h.logger)
		return
	}

	page, limit := pageFromQuery(r)

	detail, err := h.catalogUseCase.GetBookDetail(r.Context(), id, page, limit)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, "", detail, h.logger)
}

// SearchBooks — поиск по подстроке названия и/или автора
// без учёта регистра.
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	author := r.URL.Query().Get("author")
	title := r.URL.Query().Get("title")

	books, err := h.catalogUseCase.SearchBooks(r.Context(), author, title)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, "", books, h.logger)
}

// CreateReview — создаёт отзыв вызывающего на книгу.
func (h *BookHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, apperr.KindInvalidArgument, "Invalid UUID", h.logger)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondErrorMessage(w, apperr.KindUnauthorized, "no user id found", h.logger)
		return
	}

	var req createReviewRequest
	if err := decodeAndValidate(r, &req, h.validate); err != nil {
		respondError(w, err, h.logger)
		return
	}

	review, err := h.reviewUseCase.CreateReview(r.Context(), bookID, identity, req.Rating, req.Content)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	h.logger.Info("review created via API", "review_id", review.ID, "book_id", bookID)
	respondSuccess(w, http.StatusCreated, "Review created successfully", review, h.logger)
}

// UploadCover — загружает обложку книги в файловое хранилище.
// Количество одновременных загрузок ограничено лимитером.
func (h *BookHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, apperr.KindInvalidArgument, "Invalid ID format", h.logger)
		return
	}

	select {
	case h.uploadLimiter <- struct{}{}:
		defer func() { <-h.uploadLimiter }()
	default:
		h.logger.Warn("cover upload rejected: limiter is full", "book_id", bookID)
		respondWithJSON(w, http.StatusTooManyRequests,
			errorResponse{Status: "error", Message: "too many concurrent uploads, try again later"}, h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverUploadBytes)
	file, header, err := r.FormFile("cover")
	if err != nil {
		respondErrorMessage(w, apperr.KindInvalidArgument, "form file 'cover' is required", h.logger)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	coverURL, err := h.catalogUseCase.UploadBookCover(r.Context(), bookID, file, contentType)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	h.logger.Info("book cover uploaded via API", "book_id", bookID)
	respondSuccess(w, http.StatusOK, fmt.Sprintf("Cover for book %s uploaded successfully", bookID),
		map[string]string{"cover_url": coverURL}, h.logger)
}
