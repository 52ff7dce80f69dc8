package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/core/ports"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// catalogUseCase implements CatalogUseCase
type catalogUseCase struct {
	bookStorage   ports.BookStorage
	reviewStorage ports.ReviewStorage
	fileStorage   ports.FileStorage
	logger        *slog.Logger
}

// NewCatalogUseCase создает новый экземпляр CatalogUseCase,
// принимает реализации портов хранилищ.
func NewCatalogUseCase(
	bookStorage ports.BookStorage,
	reviewStorage ports.ReviewStorage,
	fileStorage ports.FileStorage,
	logger *slog.Logger,
) CatalogUseCase {
	return &catalogUseCase{
		bookStorage:   bookStorage,
		reviewStorage: reviewStorage,
		fileStorage:   fileStorage,
		logger:        logger,
	}
}

// normalizePage приводит пагинацию к допустимым значениям.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// CreateBook создаёт книгу с жанрами. Набор жанров обязан быть
// непустым и состоять из значений закрытого перечисления —
// это проверяется до обращения к хранилищу.
func (uc *catalogUseCase) CreateBook(ctx context.Context, title, author string, genres []domain.Genre) (*domain.Book, error) {
	if title == "" || author == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "title and author are required")
	}
	if len(genres) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "at least one genre is required")
	}
	for _, g := range genres {
		if !g.Valid() {
			return nil, apperr.New(apperr.KindInvalidArgument, fmt.Sprintf("invalid genre: %s", g))
		}
	}

	book := &domain.Book{
		Title:  title,
		Author: author,
		Genres: genres,
	}
	if err := uc.bookStorage.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании книги: %w", err)
	}

	uc.logger.Info("book created", "book_id", book.ID, "title", title)
	return book, nil
}

// ListBooks возвращает страницу каталога. Отсутствующие предикаты
// фильтра не накладывают ограничений; пустая страница — успех.
func (uc *catalogUseCase) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	books, err := uc.bookStorage.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка книг: %w", err)
	}
	return books, nil
}

// GetBookDetail возвращает карточку книги и страницу её отзывов.
// Отзывы запрашиваются отдельным кругом со своей пагинацией.
func (uc *catalogUseCase) GetBookDetail(ctx context.Context, id uuid.UUID, page, limit int) (*domain.BookDetail, error) {
	page, limit = normalizePage(page, limit)

	detail, err := uc.bookStorage.GetBookDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении карточки книги %s: %w", id, err)
	}

	reviews, err := uc.reviewStorage.ListReviewsByBook(ctx, id, page, limit)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении отзывов книги %s: %w", id, err)
	}
	detail.Reviews = reviews

	return detail, nil
}

// SearchBooks ищет книги по подстрокам. Без единого предиката поиск
// не выполняется: это ошибка запроса, а не пустой результат.
func (uc *catalogUseCase) SearchBooks(ctx context.Context, author, title string) ([]domain.Book, error) {
	if author == "" && title == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "use 'author' or 'title' as search params")
	}

	books, err := uc.bookStorage.SearchBooks(ctx, author, title)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при поиске книг: %w", err)
	}
	return books, nil
}

// UploadBookCover загружает обложку в S3-совместимое хранилище и
// сохраняет её URL у книги. Если книги нет, загруженный файл убирается.
func (uc *catalogUseCase) UploadBookCover(ctx context.Context, id uuid.UUID, reader io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("book-covers/%s", id)

	coverURL, err := uc.fileStorage.UploadFile(ctx, key, reader, contentType)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка загрузки обложки книги %s: %w", id, err)
	}

	if err := uc.bookStorage.SetBookCover(ctx, id, coverURL); err != nil {
		if delErr := uc.fileStorage.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Error("failed to clean up orphan cover", "key", key, "error", delErr)
		}
		return "", fmt.Errorf("usecase: ошибка привязки обложки к книге %s: %w", id, err)
	}

	uc.logger.Info("book cover uploaded", "book_id", id, "cover_url", coverURL)
	return coverURL, nil
}
