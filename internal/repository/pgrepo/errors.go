package pgrepo

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// convertErr приводит ошибки postgres к доменным. Ошибки сериализации (40001/40P01)
// не оборачиваются в domain.ErrUnknown, а пробрасываются как есть: на них ориентируется
// retry-логика uow.Do.
func convertErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[pgrepo/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("[pgrepo/%s]: %w", msg, err)
		case uniqueViolationCode:
			return fmt.Errorf("[pgrepo/%s] %w: %s", msg, domain.ErrDuplicateKey, pgErr.Message)
		case foreignKeyViolationCode:
			return fmt.Errorf("[pgrepo/%s] %w: %s", msg, domain.ErrRecordNotFound, pgErr.Message)
		}
		return fmt.Errorf("[pgrepo/%s] %w: %s", msg, domain.ErrUnknown, pgErr.Message)
	}

	return fmt.Errorf("[pgrepo/%s] %w: %s", msg, domain.ErrUnknown, err.Error())
}
