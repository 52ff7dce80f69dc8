package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager выпускает и проверяет bearer-токены.
// HS256 с общим секретом; в claims лежит ровно личность
// вызывающего: id и email.
type TokenManager struct {
	secret   string
	tokenTTL time.Duration
}

func NewTokenManager(secret string, tokenTTL time.Duration) *TokenManager {
	return &TokenManager{secret: secret, tokenTTL: tokenTTL}
}

// Claims — полезная нагрузка токена поверх стандартных полей.
type Claims struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken подписывает токен для пользователя.
func (m *TokenManager) IssueToken(identity domain.Identity) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "bookcatalog",
			Subject:   identity.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// VerifyToken проверяет подпись и сроки токена и возвращает личность
// вызывающего. Любой дефект токена — просрочка, чужая подпись,
// неожиданный алгоритм — приходит как Unauthorized.
func (m *TokenManager) VerifyToken(tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный алгоритм подписи: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindUnauthorized, "token expired", err)
		}
		return nil, apperr.Wrap(apperr.KindUnauthorized, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid token")
	}

	return &domain.Identity{ID: claims.UserID, Email: claims.Email}, nil
}
