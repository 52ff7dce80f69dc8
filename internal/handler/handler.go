package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// response — единый конверт ответа API: {status, message, data?}.
type response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// errorResponse — конверт ошибки. DeleteRequestBy заполняется только
// при отказе в удалении чужого отзыва: там владелец раскрывается
// намеренно, это часть контракта.
type errorResponse struct {
	Status          string     `json:"status"`
	Message         string     `json:"message"`
	DeleteRequestBy *uuid.UUID `json:"deleteRequestBy,omitempty"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(body); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondSuccess — отправляет успешный ответ в общем конверте.
func respondSuccess(w http.ResponseWriter, code int, message string, data interface{}, logger *slog.Logger) {
	respondWithJSON(w, code, response{Status: "success", Message: message, Data: data}, logger)
}

// respondError классифицирует ошибку один раз на границе и отправляет
// конверт ошибки. Внутренние сбои логируются целиком, но клиенту
// уходит только общее сообщение.
func respondError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := apperr.HTTPStatus(err)
	resp := errorResponse{Status: "error", Message: apperr.PublicMessage(err)}

	var ownerErr *domain.ReviewOwnershipError
	if errors.As(err, &ownerErr) {
		owner := ownerErr.OwnerID
		resp.DeleteRequestBy = &owner
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}

	respondWithJSON(w, status, resp, logger)
}

// respondErrorMessage — короткая форма для ошибок, возникших
// прямо в обработчике.
func respondErrorMessage(w http.ResponseWriter, kind apperr.Kind, message string, logger *slog.Logger) {
	respondError(w, apperr.New(kind, message), logger)
}

// decodeAndValidate разбирает JSON-тело и прогоняет его через
// валидатор. Любой дефект тела — InvalidArgument с текстом проверки:
// запрос отклоняется до того, как дойдёт до бизнес-логики.
func decodeAndValidate(r *http.Request, dst interface{}, validate *validator.Validate) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.KindInvalidArgument, "request body is required")
		}
		return apperr.Wrap(apperr.KindInvalidArgument, "malformed JSON body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.Wrap(apperr.KindInvalidArgument, err.Error(), err)
	}
	return nil
}

// parseUUIDParam разбирает идентификатор из пути. Некорректный UUID —
// это InvalidArgument, а не NotFound: до хранилища такой запрос не доходит.
func parseUUIDParam(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid UUID", err)
	}
	return id, nil
}
