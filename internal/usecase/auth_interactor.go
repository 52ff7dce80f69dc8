package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/auth"
	"github.com/GoArmGo/BookCatalog/internal/core/ports"
	"github.com/GoArmGo/BookCatalog/internal/domain"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	userStorage ports.UserStorage
	tokens      TokenIssuer
	logger      *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase.
func NewAuthUseCase(userStorage ports.UserStorage, tokens TokenIssuer, logger *slog.Logger) AuthUseCase {
	return &authUseCase{
		userStorage: userStorage,
		tokens:      tokens,
		logger:      logger,
	}
}

// Signup регистрирует пользователя. Дубликат email отклоняет
// ограничение уникальности в бд, предварительной проверки нет.
func (uc *authUseCase) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка хеширования пароля: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при регистрации пользователя: %w", err)
	}

	uc.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login проверяет учётные данные и выпускает bearer-токен.
// Неизвестный email и неверный пароль неразличимы для клиента:
// в обоих случаях возвращается Unauthorized "invalid credentials".
func (uc *authUseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := uc.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, "", apperr.New(apperr.KindUnauthorized, "invalid credentials")
		}
		return nil, "", fmt.Errorf("usecase: ошибка при поиске пользователя: %w", err)
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		uc.logger.Warn("login failed: wrong password", "user_id", user.ID)
		return nil, "", apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	token, err := uc.tokens.IssueToken(domain.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, "", fmt.Errorf("usecase: ошибка выпуска токена: %w", err)
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}
