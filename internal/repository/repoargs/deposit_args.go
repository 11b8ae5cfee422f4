package repoargs

import "github.com/shopspring/decimal"

type DepositCreate struct {
	UserID        int64
	Amount        decimal.Decimal
	PaymentMethod string
	Details       string
}
