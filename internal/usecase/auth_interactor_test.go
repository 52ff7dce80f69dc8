package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/auth"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokenIssuer struct{ token string }

func (s staticTokenIssuer) IssueToken(_ domain.Identity) (string, error) {
	return s.token, nil
}

func TestSignup(t *testing.T) {
	var created *domain.User
	storage := &fakeUserStorage{
		createUserFn: func(_ context.Context, user *domain.User) error {
			user.ID = uuid.New()
			created = user
			return nil
		},
	}
	uc := NewAuthUseCase(storage, staticTokenIssuer{}, testLogger())

	user, err := uc.Signup(context.Background(), "reader@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	require.NotNil(t, created)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash, "пароль хранится только в виде хеша")
	assert.True(t, auth.ComparePassword(created.PasswordHash, "s3cret-pass"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	storage := &fakeUserStorage{
		createUserFn: func(_ context.Context, _ *domain.User) error {
			return apperr.New(apperr.KindConflict, "this record already exists - unique constraint violated")
		},
	}
	uc := NewAuthUseCase(storage, staticTokenIssuer{}, testLogger())

	_, err := uc.Signup(context.Background(), "reader@example.com", "s3cret-pass")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	userID := uuid.New()
	storage := &fakeUserStorage{
		getUserByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: email, PasswordHash: hash}, nil
		},
	}
	uc := NewAuthUseCase(storage, staticTokenIssuer{token: "signed-token"}, testLogger())

	user, token, err := uc.Login(context.Background(), "reader@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "signed-token", token)
}

func TestLoginUnknownEmail(t *testing.T) {
	storage := &fakeUserStorage{
		getUserByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		},
	}
	uc := NewAuthUseCase(storage, staticTokenIssuer{}, testLogger())

	_, _, err := uc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "invalid credentials", apperr.PublicMessage(err))
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	storage := &fakeUserStorage{
		getUserByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Email: email, PasswordHash: hash}, nil
		},
	}
	uc := NewAuthUseCase(storage, staticTokenIssuer{}, testLogger())

	_, _, err = uc.Login(context.Background(), "reader@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// Неизвестный email и неверный пароль неразличимы для клиента.
	assert.Equal(t, "invalid credentials", apperr.PublicMessage(err))
}
