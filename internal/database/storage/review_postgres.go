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
)

// ReviewStorage — Postgres-реализация порта отзывов.
// Право владения выражено предикатами запросов: проверка и действие —
// одно атомарное выражение, а не чтение с последующим сравнением.
type ReviewStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewReviewStorage(db *sqlx.DB, logger *slog.Logger) *ReviewStorage {
	return &ReviewStorage{db: db, logger: logger}
}

// CreateReview вставляет отзыв. Повторный отзыв того же пользователя
// на ту же книгу отклоняет ограничение уникальности (book_id, user_id);
// предварительного SELECT нет — бд сама является арбитром гонки.
func (s *ReviewStorage) CreateReview(ctx context.Context, review *domain.Review) error {
	start := time.Now()

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	_, err := s.db.NamedExecContext(ctx, `
	INSERT INTO reviews (id, book_id, user_id, rating, content, created_at)
	VALUES (:id, :book_id, :user_id, :rating, :content, :created_at)
	`, review)
	if err != nil {
		if cerr := translateConstraint(err); cerr != nil {
			return cerr
		}
		s.logger.Error("failed to insert review", "review_id", review.ID, "book_id", review.BookID, "error", err)
		return fmt.Errorf("ошибка при сохранении отзыва: %w", err)
	}

	s.logger.Info("review created successfully",
		"review_id", review.ID,
		"book_id", review.BookID,
		"user_id", review.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateReview применяет типизированный патч одним атомарным UPDATE,
// ограниченным предикатом (id AND user_id). Чужой отзыв не совпадает
// с предикатом и приходит как NotFound: ни существование отзыва,
// ни его владелец не раскрываются.
func (s *ReviewStorage) UpdateReview(ctx context.Context, reviewID, callerID uuid.UUID, patch domain.ReviewPatch) (*domain.Review, error) {
	start := time.Now()

	var (
		set  []string
		args []interface{}
	)
	if patch.Rating != nil {
		args = append(args, *patch.Rating)
		set = append(set, fmt.Sprintf("rating = $%d", len(args)))
	}
	if patch.Content != nil {
		args = append(args, *patch.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}
	if len(set) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "at least one field must be provided for update")
	}

	args = append(args, reviewID)
	idPos := len(args)
	args = append(args, callerID)
	userPos := len(args)

	query := fmt.Sprintf(`
	UPDATE reviews SET %s
	WHERE id = $%d AND user_id = $%d
	RETURNING id, book_id, user_id, rating, content, created_at
	`, strings.Join(set, ", "), idPos, userPos)

	var updated domain.Review
	err := s.db.GetContext(ctx, &updated, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("review update matched no rows", "review_id", reviewID, "user_id", callerID)
			return nil, apperr.New(apperr.KindNotFound, "review not found")
		}
		if cerr := translateConstraint(err); cerr != nil {
			return nil, cerr
		}
		s.logger.Error("failed to update review", "review_id", reviewID, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении отзыва: %w", err)
	}

	s.logger.Info("review updated successfully",
		"review_id", reviewID,
		"user_id", callerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &updated, nil
}

// DeleteReview выполняет проверку владельца и удаление в одной
// транзакции. SELECT ... FOR UPDATE держит строку до конца транзакции,
// поэтому окна между проверкой и удалением нет. Для чужого отзыва
// возвращается Forbidden с настоящим владельцем — это осознанное
// раскрытие, зафиксированное контрактом ответа удаления.
func (s *ReviewStorage) DeleteReview(ctx context.Context, reviewID, callerID uuid.UUID) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", "error", err)
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	var ownerID uuid.UUID
	err = tx.GetContext(ctx, &ownerID,
		`SELECT user_id FROM reviews WHERE id = $1 FOR UPDATE`, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("review not found for delete", "review_id", reviewID)
			return apperr.New(apperr.KindNotFound, "review not found")
		}
		s.logger.Error("failed to check review owner", "review_id", reviewID, "error", err)
		return fmt.Errorf("ошибка при проверке владельца отзыва: %w", err)
	}

	if ownerID != callerID {
		s.logger.Warn("review delete forbidden",
			"review_id", reviewID,
			"caller_id", callerID,
			"owner_id", ownerID,
		)
		return apperr.Wrap(apperr.KindForbidden,
			"you are not allowed to delete this review",
			&domain.ReviewOwnershipError{OwnerID: ownerID})
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, callerID)
	if err != nil {
		s.logger.Error("failed to delete review", "review_id", reviewID, "error", err)
		return fmt.Errorf("ошибка при удалении отзыва: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при чтении результата удаления: %w", err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "review not found")
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit review deletion", "review_id", reviewID, "error", err)
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	s.logger.Info("review deleted successfully",
		"review_id", reviewID,
		"user_id", callerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListReviewsByBook возвращает страницу отзывов книги
// в том же стабильном порядке, что и листинги каталога.
func (s *ReviewStorage) ListReviewsByBook(ctx context.Context, bookID uuid.UUID, page, limit int) ([]domain.Review, error) {
	start := time.Now()

	offset := (page - 1) * limit

	const query = `
	SELECT id, book_id, user_id, rating, content, created_at
	FROM reviews
	WHERE book_id = $1
	ORDER BY created_at DESC, id
	LIMIT $2 OFFSET $3
	`

	var reviews []domain.Review
	if err := s.db.SelectContext(ctx, &reviews, query, bookID, limit, offset); err != nil {
		s.logger.Error("failed to list reviews", "book_id", bookID, "error", err)
		return nil, fmt.Errorf("ошибка при получении отзывов книги: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	s.logger.Info("reviews listed successfully",
		"book_id", bookID,
		"page", page,
		"limit", limit,
		"count", len(reviews),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reviews, nil
}
