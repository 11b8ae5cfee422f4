package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, created_at, updated_at, user_id, service_id, service_name,
	link, quantity, charge, start_count, remains, status`

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// Create создает заказ. Заказы создаются только внутри транзакции размещения,
// вместе со списанием баланса.
func (o *OrderRepository) Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		INSERT INTO orders (user_id, service_id, service_name, link, quantity, charge, remains, status)
		VALUES ($1, $2, $3, $4, $5, $6, $5, $7)
		RETURNING `+orderColumns,
		args.UserID, args.ServiceID, args.ServiceName, args.Link, args.Quantity, args.Charge,
		domain.OrderStatusPending,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for user %d", args.UserID)
	}
	return order, nil
}

func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return order, nil
}

// GetByUserID Возвращает список заказов по id юзера, отсортированный по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID `%d`", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order row")
		}
		orders = append(orders, *order)
	}
	return orders, convertErr(rows.Err(), "getting orders by userID `%d`", userID)
}

// UpdateStatus меняет статус заказа (админская операция). Количество и сумма заказа
// после создания не меняются никогда.
func (o *OrderRepository) UpdateStatus(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, start_count = $3, remains = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns,
		args.OrderID, args.Status, args.StartCount, args.Remains,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating status for order %d", args.OrderID)
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID, &order.ServiceID,
		&order.ServiceName, &order.Link, &order.Quantity, &order.Charge,
		&order.StartCount, &order.Remains, &order.Status,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &order, nil
}
