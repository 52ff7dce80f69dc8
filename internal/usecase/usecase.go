package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/google/uuid"
)

// CatalogUseCase определяет интерфейс бизнес-логики каталога книг.
type CatalogUseCase interface {
	// CreateBook создаёт книгу с непустым набором жанров.
	CreateBook(ctx context.Context, title, author string, genres []domain.Genre) (*domain.Book, error)

	// ListBooks возвращает страницу каталога по фильтру;
	// пагинация нормализуется здесь (page ≥ 1, limit 1..100, по умолчанию 10).
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)

	// GetBookDetail возвращает карточку книги со страницей её отзывов.
	GetBookDetail(ctx context.Context, id uuid.UUID, page, limit int) (*domain.BookDetail, error)

	// SearchBooks ищет книги по подстроке названия и/или автора.
	// Хотя бы один предикат обязателен.
	SearchBooks(ctx context.Context, author, title string) ([]domain.Book, error)

	// UploadBookCover загружает обложку в файловое хранилище
	// и привязывает её URL к книге.
	UploadBookCover(ctx context.Context, id uuid.UUID, reader io.Reader, contentType string) (string, error)
}

// ReviewUseCase определяет интерфейс жизненного цикла отзывов.
// Каждая мутация выполняется от имени проверенной личности вызывающего.
type ReviewUseCase interface {
	CreateReview(ctx context.Context, bookID uuid.UUID, caller domain.Identity, rating int, content *string) (*domain.Review, error)
	UpdateReview(ctx context.Context, reviewID uuid.UUID, caller domain.Identity, patch domain.ReviewPatch) (*domain.Review, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID, caller domain.Identity) error
}

// AuthUseCase определяет интерфейс аккаунтов: регистрация и логин.
type AuthUseCase interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	// Login возвращает пользователя и подписанный bearer-токен.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// TokenIssuer выпускает bearer-токен для личности вызывающего.
// Отделён от проверки токена: она нужна только HTTP-слою.
type TokenIssuer interface {
	IssueToken(identity domain.Identity) (string, error)
}
