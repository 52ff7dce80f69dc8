package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserStorage — Postgres-реализация порта аккаунтов.
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя. Уникальность email
// обеспечивает ограничение в бд, предварительной проверки нет.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := s.db.NamedExecContext(ctx, `
	INSERT INTO users (id, email, password_hash, created_at)
	VALUES (:id, :email, :password_hash, :created_at)
	`, user)
	if err != nil {
		if cerr := translateConstraint(err); cerr != nil {
			return cerr
		}
		s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByEmail возвращает пользователя для проверки пароля при логине.
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by email", "email", email)
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		s.logger.Error("failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return &user, nil
}
