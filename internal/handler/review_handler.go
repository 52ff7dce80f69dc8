package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/GoArmGo/BookCatalog/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ReviewHandler — обработчик HTTP-запросов изменения и удаления отзывов.
type ReviewHandler struct {
	reviewUseCase usecase.ReviewUseCase
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewReviewHandler создаёт новый экземпляр ReviewHandler.
func NewReviewHandler(reviewUseCase usecase.ReviewUseCase, validate *validator.Validate, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
		validate:      validate,
		logger:        logger,
	}
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Content *string `json:"content"`
}

// UpdateReview — частичное обновление отзыва. Обновить можно
// только собственный отзыв.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, apperr.KindInvalidArgument, "Invalid ID format", h.logger)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondErrorMessage(w, apperr.KindUnauthorized, "no user id found", h.logger)
		return
	}

	var req updateReviewRequest
	if err := decodeAndValidate(r, &req, h.validate); err != nil {
		respondError(w, err, h.logger)
		return
	}

	patch := domain.ReviewPatch{Rating: req.Rating, Content: req.Content}

	review, err := h.reviewUseCase.UpdateReview(r.Context(), reviewID, identity, patch)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	h.logger.Info("review updated via API", "review_id", reviewID, "user_id", identity.ID)
	respondSuccess(w, http.StatusOK,
		fmt.Sprintf("your review with ID: %s has been updated", reviewID), review, h.logger)
}

// DeleteReview — удаляет отзыв. Чужой отзыв удалить нельзя:
// в ответе при этом сообщается владелец.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, apperr.KindInvalidArgument, "Invalid ID format", h.logger)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondErrorMessage(w, apperr.KindUnauthorized, "no user id found", h.logger)
		return
	}

	if err := h.reviewUseCase.DeleteReview(r.Context(), reviewID, identity); err != nil {
		respondError(w, err, h.logger)
		return
	}

	h.logger.Info("review deleted via API", "review_id", reviewID, "user_id", identity.ID)
	respondSuccess(w, http.StatusOK,
		fmt.Sprintf("your review with ID: %s has been deleted", reviewID), nil, h.logger)
}
