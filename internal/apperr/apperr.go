package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind — категория ошибки, присваиваемая на границе адаптера хранилища
// или слоя валидации. Классификация по явному тегу, а не по имени типа
// из рантайма: выше по стеку никто не разбирает ошибки драйвера.
type Kind int

const (
	// KindInternal — неклассифицированный сбой хранилища или рантайма.
	// Наружу уходит только общее сообщение, без деталей.
	KindInternal Kind = iota
	// KindInvalidArgument — некорректный идентификатор, рейтинг вне
	// диапазона, пустой фильтр/патч или нарушение внешнего ключа.
	KindInvalidArgument
	// KindUnauthorized — отсутствующий, искажённый или просроченный
	// bearer-токен, неверные учётные данные.
	KindUnauthorized
	// KindForbidden — попытка удалить чужой отзыв.
	KindForbidden
	// KindNotFound — книга или отзыв не найдены, либо предикат
	// обновления с проверкой владельца не совпал ни с одной строкой.
	KindNotFound
	// KindConflict — нарушение уникальности: дубликат аккаунта,
	// жанра книги или отзыва.
	KindConflict
)

// String возвращает имя категории для логов.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error — классифицированная ошибка приложения.
// Message безопасно показывать клиенту; Err хранит причину для логов.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт классифицированную ошибку без причины.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap создаёт классифицированную ошибку поверх исходной.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf извлекает категорию из цепочки ошибок.
// Всё неклассифицированное считается KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus отображает категорию в HTTP-статус ответа.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage возвращает сообщение, пригодное для клиента.
// Для внутренних сбоев сообщение всегда общее: сырые диагностики
// хранилища наружу не утекают.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}
