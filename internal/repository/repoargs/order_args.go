package repoargs

import (
	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderCreate struct {
	UserID      int64
	ServiceID   int64
	ServiceName string
	Link        string
	Quantity    int64
	Charge      decimal.Decimal
}

type OrderStatusUpdate struct {
	OrderID    int64
	Status     domain.OrderStatusType
	StartCount int64
	Remains    int64
}
