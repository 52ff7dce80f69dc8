package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// BookStorage — Postgres-реализация порта каталога.
type BookStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewBookStorage(db *sqlx.DB, logger *slog.Logger) *BookStorage {
	return &BookStorage{db: db, logger: logger}
}

// CreateBook сохраняет книгу вместе с жанрами одной транзакцией.
// Если вставка жанра не удалась, откатывается и строка книги:
// книга без жанров в каталоге остаться не может.
func (s *BookStorage) CreateBook(ctx context.Context, book *domain.Book) error {
	start := time.Now()

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", "error", err)
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO books (id, title, author, created_at) VALUES ($1, $2, $3, $4)`,
		book.ID, book.Title, book.Author, book.CreatedAt,
	)
	if err != nil {
		if cerr := translateConstraint(err); cerr != nil {
			return cerr
		}
		s.logger.Error("failed to insert book", "book_id", book.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении книги: %w", err)
	}

	for _, genre := range book.Genres {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO book_genres (book_id, genre) VALUES ($1, $2)`,
			book.ID, genre,
		)
		if err != nil {
			if cerr := translateConstraint(err); cerr != nil {
				return cerr
			}
			s.logger.Error("failed to insert book genre", "book_id", book.ID, "genre", genre, "error", err)
			return fmt.Errorf("ошибка при сохранении жанра книги: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit book creation", "book_id", book.ID, "error", err)
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	s.logger.Info("book created successfully",
		"book_id", book.ID,
		"genres", len(book.Genres),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// bookWithGenresRow — строка агрегирующего запроса:
// книга плюс полный список её жанров из array_agg.
type bookWithGenresRow struct {
	domain.Book
	GenreList pq.StringArray `db:"genres"`
}

func (r bookWithGenresRow) toDomain() domain.Book {
	b := r.Book
	b.Genres = make([]domain.Genre, 0, len(r.GenreList))
	for _, g := range r.GenreList {
		b.Genres = append(b.Genres, domain.Genre(g))
	}
	return b
}

// buildListIDsQuery собирает запрос первого круга: отбор id книг
// по предикатам фильтра с пагинацией. Жанровый предикат — membership
// (достаточно одного совпадения), поэтому ANY, а не пересечение.
// created_at в выборке нужен для DISTINCT со стабильной сортировкой.
func buildListIDsQuery(filter domain.BookFilter) (string, []interface{}) {
	var (
		sb    strings.Builder
		args  []interface{}
		conds []string
	)

	sb.WriteString(`SELECT DISTINCT b.id, b.created_at FROM books b`)
	if len(filter.Genres) > 0 {
		sb.WriteString(` JOIN book_genres g ON g.book_id = b.id`)
	}

	if filter.Author != "" {
		args = append(args, filter.Author)
		conds = append(conds, fmt.Sprintf("b.author = $%d", len(args)))
	}
	if len(filter.Genres) > 0 {
		genres := make([]string, len(filter.Genres))
		for i, g := range filter.Genres {
			genres[i] = string(g)
		}
		args = append(args, pq.Array(genres))
		conds = append(conds, fmt.Sprintf("g.genre = ANY($%d)", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY b.created_at DESC, b.id")

	args = append(args, filter.Limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, (filter.Page-1)*filter.Limit)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}

// ListBooks возвращает страницу каталога в два круга: сначала id книг
// под фильтром, затем полные строки с агрегацией всех жанров страницы.
// Агрегация не перефильтровывается, поэтому жанровый набор у каждой
// книги полный независимо от фильтра.
func (s *BookStorage) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	start := time.Now()

	idQuery, args := buildListIDsQuery(filter)

	var idRows []struct {
		ID        uuid.UUID `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := s.db.SelectContext(ctx, &idRows, idQuery, args...); err != nil {
		s.logger.Error("failed to resolve book ids", "error", err)
		return nil, fmt.Errorf("ошибка при отборе книг по фильтру: %w", err)
	}

	if len(idRows) == 0 {
		return []domain.Book{}, nil
	}

	ids := make([]uuid.UUID, len(idRows))
	for i, r := range idRows {
		ids[i] = r.ID
	}

	const aggQuery = `
	SELECT b.id, b.title, b.author, b.cover_url, b.created_at,
	       array_remove(array_agg(g.genre ORDER BY g.genre), NULL) AS genres
	FROM books b
	LEFT JOIN book_genres g ON g.book_id = b.id
	WHERE b.id = ANY($1)
	GROUP BY b.id
	ORDER BY b.created_at DESC, b.id
	`

	var rows []bookWithGenresRow
	if err := s.db.SelectContext(ctx, &rows, aggQuery, pq.Array(ids)); err != nil {
		s.logger.Error("failed to aggregate book genres", "error", err)
		return nil, fmt.Errorf("ошибка при агрегации жанров: %w", err)
	}

	books := make([]domain.Book, len(rows))
	for i, r := range rows {
		books[i] = r.toDomain()
	}

	s.logger.Info("books listed successfully",
		"page", filter.Page,
		"limit", filter.Limit,
		"count", len(books),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return books, nil
}

// GetBookDetail возвращает карточку книги: дедуплицированный набор
// жанров и средний рейтинг, округлённый до двух знаков.
// При нуле отзывов рейтинг остаётся nil, а не нулём.
func (s *BookStorage) GetBookDetail(ctx context.Context, id uuid.UUID) (*domain.BookDetail, error) {
	start := time.Now()

	const query = `
	SELECT b.id, b.title, b.author, b.cover_url, b.created_at,
	       array_remove(array_agg(DISTINCT g.genre ORDER BY g.genre), NULL) AS genres,
	       (SELECT ROUND(AVG(r.rating)::numeric, 2) FROM reviews r WHERE r.book_id = b.id) AS average_rating
	FROM books b
	LEFT JOIN book_genres g ON g.book_id = b.id
	WHERE b.id = $1
	GROUP BY b.id
	`

	var row struct {
		bookWithGenresRow
		AverageRating sql.NullFloat64 `db:"average_rating"`
	}
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("book not found by id", "book_id", id)
			return nil, apperr.New(apperr.KindNotFound, "book not found")
		}
		s.logger.Error("failed to get book detail", "book_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении карточки книги: %w", err)
	}

	detail := &domain.BookDetail{Book: row.toDomain()}
	if row.AverageRating.Valid {
		avg := row.AverageRating.Float64
		detail.AverageRating = &avg
	}

	s.logger.Info("book detail retrieved",
		"book_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return detail, nil
}

// SearchBooks ищет книги по подстроке автора и/или названия без учёта
// регистра. Заданные предикаты объединяются через AND; пагинации нет —
// контракт поиска её не определяет.
func (s *BookStorage) SearchBooks(ctx context.Context, author, title string) ([]domain.Book, error) {
	start := time.Now()

	var (
		sb    strings.Builder
		args  []interface{}
		conds []string
	)
	sb.WriteString(`SELECT id, title, author, cover_url, created_at FROM books`)

	if author != "" {
		args = append(args, "%"+author+"%")
		conds = append(conds, fmt.Sprintf("author ILIKE $%d", len(args)))
	}
	if title != "" {
		args = append(args, "%"+title+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id")

	var books []domain.Book
	if err := s.db.SelectContext(ctx, &books, sb.String(), args...); err != nil {
		s.logger.Error("failed to search books", "author", author, "title", title, "error", err)
		return nil, fmt.Errorf("ошибка при поиске книг: %w", err)
	}

	s.logger.Info("books search completed",
		"author", author,
		"title", title,
		"found", len(books),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// SetBookCover сохраняет публичный URL обложки.
func (s *BookStorage) SetBookCover(ctx context.Context, id uuid.UUID, coverURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET cover_url = $1 WHERE id = $2`, coverURL, id)
	if err != nil {
		s.logger.Error("failed to set book cover", "book_id", id, "error", err)
		return fmt.Errorf("ошибка при сохранении обложки: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при чтении результата обновления: %w", err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "book not found")
	}

	s.logger.Info("book cover updated", "book_id", id, "cover_url", coverURL)
	return nil
}
