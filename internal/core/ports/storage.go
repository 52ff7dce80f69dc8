package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/google/uuid"
)

// BookStorage — порт каталога: выборки с фильтрами, агрегация жанров,
// поиск и создание книги вместе с её жанрами.
type BookStorage interface {
	// CreateBook сохраняет книгу и все её жанры одной транзакцией:
	// книга без жанров в бд остаться не может.
	CreateBook(ctx context.Context, book *domain.Book) error

	// ListBooks возвращает страницу каталога по фильтру.
	// Пустой результат — это успех, а не ошибка.
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)

	// GetBookDetail возвращает карточку книги: жанры и средний рейтинг.
	// Отзывы подгружаются отдельно через ReviewStorage.
	GetBookDetail(ctx context.Context, id uuid.UUID) (*domain.BookDetail, error)

	// SearchBooks ищет книги по подстроке названия и/или автора
	// без учёта регистра. Оба предиката опциональны.
	SearchBooks(ctx context.Context, author, title string) ([]domain.Book, error)

	// SetBookCover сохраняет URL обложки книги.
	SetBookCover(ctx context.Context, id uuid.UUID, coverURL string) error
}

// ReviewStorage — порт жизненного цикла отзывов. Правила владения
// зашиты в предикаты запросов, а не в проверки после чтения.
type ReviewStorage interface {
	// CreateReview вставляет отзыв; дубликат пары (book_id, user_id)
	// отклоняется ограничением уникальности и приходит как Conflict.
	CreateReview(ctx context.Context, review *domain.Review) error

	// UpdateReview применяет патч по предикату (id AND user_id).
	// Ноль затронутых строк — NotFound, без раскрытия владельца.
	UpdateReview(ctx context.Context, reviewID, callerID uuid.UUID, patch domain.ReviewPatch) (*domain.Review, error)

	// DeleteReview удаляет отзыв в одной транзакции с проверкой
	// владельца. Чужой отзыв — Forbidden с указанием владельца.
	DeleteReview(ctx context.Context, reviewID, callerID uuid.UUID) error

	// ListReviewsByBook возвращает страницу отзывов книги.
	ListReviewsByBook(ctx context.Context, bookID uuid.UUID, page, limit int) ([]domain.Review, error)
}

// UserStorage — порт аккаунтов.
type UserStorage interface {
	// CreateUser сохраняет нового пользователя;
	// дубликат email приходит как Conflict.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByEmail возвращает пользователя для проверки пароля.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// EventStorage — порт аудита отзывов, пишется только воркером.
type EventStorage interface {
	AppendReviewEvent(ctx context.Context, event *domain.ReviewEvent) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем
// обложек (S3-совместимое, MinIO).
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	// `key` — уникальное имя файла в хранилище.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error
}
