package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

// Коды ошибок postgres, при которых имеет смысл повторить транзакцию целиком.
const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

const defaultMaxAttempts = 5

type UnitOfWork struct {
	conn         *pgxpool.Pool
	repositories map[RepositoryName]RepositoryFactory
	maxAttempts  uint
}

func NewUnitOfWork(conn *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		repositories: make(map[RepositoryName]RepositoryFactory),
		maxAttempts:  defaultMaxAttempts,
	}
}

// Register регистрирует репозиторий у себя в мапе. Если репозиторий уже зарегистрирован, возвращает
// ошибку ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// SetMaxAttempts устанавливает максимальное число попыток выполнения транзакции в Do.
func (u *UnitOfWork) SetMaxAttempts(attempts uint) *UnitOfWork {
	if attempts > 0 {
		u.maxAttempts = attempts
	}
	return u
}

// Do выполняет функцию fn внутри транзакции с уровнем изоляции SERIALIZABLE.
//
// Все денежные операции проходят через этот метод: последовательность
// "прочитал-проверил-записал" внутри fn атомарна. При конфликте сериализации или
// дедлоке (параллельная запись тех же строк) транзакция откатывается и fn выполняется
// заново, поэтому fn не должна иметь побочных эффектов кроме записей в БД.
// Если лимит попыток исчерпан, вернется последняя ошибка, объединенная с ErrRetriesExhausted.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) error {
	var lastErr error
	for range u.maxAttempts {
		lastErr = u.doAttempt(ctx, fn)
		if lastErr == nil || !isRetryableErr(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err() //nolint:wrapcheck
		}
	}
	return errors.Join(ErrRetriesExhausted, lastErr)
}

func (u *UnitOfWork) doAttempt(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			if err == nil {
				err = rollbackErr
			} else {
				err = errors.Join(err, rollbackErr)
			}
		}
	}()

	if transErr := fn(ctx, NewTransaction(tx, u.repositories)); transErr != nil {
		return transErr
	}
	err = tx.Commit(ctx)
	return
}

func isRetryableErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
}

// GetRepository возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий по имени name и приводит его к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)

	if !ok {
		return res, ErrInvalidRepositoryType
	}

	return r, nil
}
