package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/BookCatalog/internal/usecase"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AuthHandler — обработчик регистрации и входа пользователей.
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(authUseCase usecase.AuthUseCase, validate *validator.Validate, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		validate:    validate,
		logger:      logger,
	}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Signup — регистрирует нового пользователя.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeAndValidate(r, &req, h.validate); err != nil {
		respondError(w, err, h.logger)
		return
	}

	user, err := h.authUseCase.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusCreated, "User created successfully",
		userResponse{ID: user.ID, Email: user.Email}, h.logger)
}

// Login — проверяет учётные данные и выдаёт JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req, h.validate); err != nil {
		respondError(w, err, h.logger)
		return
	}

	user, token, err := h.authUseCase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, "Login successful", loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email},
	}, h.logger)
}
