package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
)

// AffiliateTxRepository журнал партнерских начислений. Таблица append-only:
// ни UPDATE, ни DELETE здесь не бывает.
type AffiliateTxRepository struct {
	conn uow.DBTX
}

func NewAffiliateTxRepository(conn uow.DBTX) *AffiliateTxRepository {
	return &AffiliateTxRepository{conn: conn}
}

func (a *AffiliateTxRepository) Create(
	ctx context.Context,
	args repoargs.AffiliateTransactionCreate,
) (*domain.AffiliateTransaction, error) {
	var t domain.AffiliateTransaction
	err := a.conn.QueryRow(ctx, `
		INSERT INTO affiliate_transactions (referrer_id, referred_id, order_id, amount, level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, referrer_id, referred_id, order_id, amount, level`,
		args.ReferrerID, args.ReferredID, args.OrderID, args.Amount, args.Level,
	).Scan(&t.ID, &t.CreatedAt, &t.ReferrerID, &t.ReferredID, &t.OrderID, &t.Amount, &t.Level)
	if err != nil {
		return nil, convertErr(err, "creating affiliate transaction for referrer %d", args.ReferrerID)
	}
	return &t, nil
}

func (a *AffiliateTxRepository) GetByReferrerID(
	ctx context.Context,
	referrerID int64,
) ([]domain.AffiliateTransaction, error) {
	rows, err := a.conn.Query(ctx, `
		SELECT id, created_at, referrer_id, referred_id, order_id, amount, level
		FROM affiliate_transactions
		WHERE referrer_id = $1
		ORDER BY created_at DESC`,
		referrerID)
	if err != nil {
		return nil, convertErr(err, "getting affiliate transactions for referrer %d", referrerID)
	}
	defer rows.Close()

	var transactions []domain.AffiliateTransaction
	for rows.Next() {
		var t domain.AffiliateTransaction
		if scanErr := rows.Scan(
			&t.ID, &t.CreatedAt, &t.ReferrerID, &t.ReferredID, &t.OrderID, &t.Amount, &t.Level,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning affiliate transaction row")
		}
		transactions = append(transactions, t)
	}
	return transactions, convertErr(rows.Err(), "getting affiliate transactions for referrer %d", referrerID)
}
