package repoargs

import "github.com/shopspring/decimal"

type AffiliateTransactionCreate struct {
	ReferrerID int64
	ReferredID int64
	OrderID    int64
	Amount     decimal.Decimal
	Level      string
}
