package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const depositColumns = `id, created_at, updated_at, user_id, amount, payment_method, details, status`

type DepositRepository struct {
	conn uow.DBTX
}

func NewDepositRepository(conn uow.DBTX) *DepositRepository {
	return &DepositRepository{conn: conn}
}

func (d *DepositRepository) Create(ctx context.Context, args repoargs.DepositCreate) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `
		INSERT INTO deposits (user_id, amount, payment_method, details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+depositColumns,
		args.UserID, args.Amount, args.PaymentMethod, args.Details, domain.DepositStatusPending,
	)
	deposit, err := scanDeposit(row)
	if err != nil {
		return nil, convertErr(err, "creating deposit for user %d", args.UserID)
	}
	return deposit, nil
}

func (d *DepositRepository) FindByID(ctx context.Context, id int64) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
	deposit, err := scanDeposit(row)
	if err != nil {
		return nil, convertErr(err, "finding deposit by id %d", id)
	}
	return deposit, nil
}

func (d *DepositRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Deposit, error) {
	rows, err := d.conn.Query(ctx, `
		SELECT `+depositColumns+` FROM deposits WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting deposits by userID `%d`", userID)
	}
	defer rows.Close()
	return collectDeposits(rows)
}

func (d *DepositRepository) GetByStatus(
	ctx context.Context,
	status domain.DepositStatusType,
	limit uint,
) ([]domain.Deposit, error) {
	safeLimit, limitErr := safeConvertUintToInt32(limit)
	if limitErr != nil {
		return nil, convertErr(limitErr, "converting limit to int32")
	}
	rows, err := d.conn.Query(ctx, `
		SELECT `+depositColumns+` FROM deposits WHERE status = $1 ORDER BY created_at ASC LIMIT $2`,
		status, safeLimit)
	if err != nil {
		return nil, convertErr(err, "getting deposits by status %s", status)
	}
	defer rows.Close()
	return collectDeposits(rows)
}

// FinishReview переводит депозит из pending в терминальный статус. Условие
// status = 'pending' в WHERE единственная защита от повторного зачисления:
// если депозит уже рассмотрен, строка не вернется и придет domain.ErrRecordNotFound.
func (d *DepositRepository) FinishReview(
	ctx context.Context,
	id int64,
	status domain.DepositStatusType,
) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `
		UPDATE deposits SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING `+depositColumns,
		id, status, domain.DepositStatusPending,
	)
	deposit, err := scanDeposit(row)
	if err != nil {
		return nil, convertErr(err, "finishing review for deposit %d", id)
	}
	return deposit, nil
}

func collectDeposits(rows pgx.Rows) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	for rows.Next() {
		deposit, scanErr := scanDeposit(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning deposit row")
		}
		deposits = append(deposits, *deposit)
	}
	return deposits, convertErr(rows.Err(), "collecting deposits")
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var deposit domain.Deposit
	err := row.Scan(
		&deposit.ID, &deposit.CreatedAt, &deposit.UpdatedAt, &deposit.UserID,
		&deposit.Amount, &deposit.PaymentMethod, &deposit.Details, &deposit.Status,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &deposit, nil
}
