package repoargs

import "github.com/shopspring/decimal"

type CreateUser struct {
	Username       string
	Password       string
	ReferralCode   string
	APIKey         string
	ReferrerID     *int64
	Rank           string
	AffiliateLevel string
}

// UserSpendingUpdate абсолютные значения денежных полей юзера после размещения заказа.
// Значения вычисляются сервисом внутри той же транзакции, в которой была прочитана
// строка юзера.
type UserSpendingUpdate struct {
	UserID     int64
	Balance    decimal.Decimal
	AdBalance  decimal.Decimal
	TotalSpent decimal.Decimal
	Rank       string
}
