package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/shopspring/decimal"
)

type PriceOverrideRepository struct {
	conn uow.DBTX
}

func NewPriceOverrideRepository(conn uow.DBTX) *PriceOverrideRepository {
	return &PriceOverrideRepository{conn: conn}
}

func (p *PriceOverrideRepository) GetAll(ctx context.Context) ([]domain.PriceOverride, error) {
	rows, err := p.conn.Query(ctx, `SELECT service_id, price FROM price_overrides`)
	if err != nil {
		return nil, convertErr(err, "getting price overrides")
	}
	defer rows.Close()

	var overrides []domain.PriceOverride
	for rows.Next() {
		var o domain.PriceOverride
		if scanErr := rows.Scan(&o.ServiceID, &o.Price); scanErr != nil {
			return nil, convertErr(scanErr, "scanning price override row")
		}
		overrides = append(overrides, o)
	}
	return overrides, convertErr(rows.Err(), "getting price overrides")
}

func (p *PriceOverrideRepository) Upsert(ctx context.Context, serviceID int64, price decimal.Decimal) error {
	_, err := p.conn.Exec(ctx, `
		INSERT INTO price_overrides (service_id, price)
		VALUES ($1, $2)
		ON CONFLICT (service_id) DO UPDATE SET price = EXCLUDED.price`,
		serviceID, price,
	)
	return convertErr(err, "upserting price override for service %d", serviceID)
}

func (p *PriceOverrideRepository) Delete(ctx context.Context, serviceID int64) error {
	_, err := p.conn.Exec(ctx, `DELETE FROM price_overrides WHERE service_id = $1`, serviceID)
	return convertErr(err, "deleting price override for service %d", serviceID)
}
