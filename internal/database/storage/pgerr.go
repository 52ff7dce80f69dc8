package storage

import (
	"errors"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые ядро трактует как сигнал,
// а не как аварию: ограничения в бд — часть контракта.
const (
	pgUniqueViolation     = pq.ErrorCode("23505")
	pgForeignKeyViolation = pq.ErrorCode("23503")
	pgCheckViolation      = pq.ErrorCode("23514")
)

// translateConstraint — единственное место, где ошибки драйвера
// превращаются в категории приложения. Выше по стеку коды Postgres
// никто не разбирает. Возвращает nil, если ошибка не про ограничения.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case pgUniqueViolation:
		return apperr.Wrap(apperr.KindConflict,
			"this record already exists - unique constraint violated", err)
	case pgForeignKeyViolation:
		return apperr.Wrap(apperr.KindInvalidArgument,
			"referenced record does not exist", err)
	case pgCheckViolation:
		return apperr.Wrap(apperr.KindInvalidArgument,
			"value violates a database constraint", err)
	}
	return nil
}
