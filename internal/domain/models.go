package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Password  string
	Admin     bool

	// Balance и AdBalance это два независимых кошелька. Деньги между ними перетекают
	// только через явный перевод (UserService.TransferToAdBalance).
	Balance   decimal.Decimal
	AdBalance decimal.Decimal

	TotalSpent decimal.Decimal
	Rank       string

	ReferralCode      string
	ReferrerID        *int64
	ReferralsCount    int64
	AffiliateEarnings decimal.Decimal
	AffiliateLevel    string

	// APIKey ключ интеграционного API (/api/v2).
	APIKey string
}

type Order struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      int64
	ServiceID   int64
	ServiceName string
	Link        string
	Quantity    int64
	Charge      decimal.Decimal
	StartCount  int64
	Remains     int64
	Status      OrderStatusType
}

type Campaign struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      int64
	Platform    string
	Goal        string
	Budget      decimal.Decimal
	Spend       decimal.Decimal
	Impressions int64
	Clicks      int64
	Results     int64
	Status      CampaignStatusType
	StartedAt   *time.Time
}

// CTR производная метрика, не хранится в БД.
func (c *Campaign) CTR() decimal.Decimal {
	if c.Impressions == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(c.Clicks).Div(decimal.NewFromInt(c.Impressions))
}

// CPC производная метрика, не хранится в БД.
func (c *Campaign) CPC() decimal.Decimal {
	if c.Clicks == 0 {
		return decimal.Zero
	}
	return c.Spend.Div(decimal.NewFromInt(c.Clicks))
}

type Deposit struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        int64
	Amount        decimal.Decimal
	PaymentMethod string
	Details       string
	Status        DepositStatusType
}

// AffiliateTransaction запись журнала партнерских начислений. Только добавление,
// записи никогда не изменяются и не удаляются.
type AffiliateTransaction struct {
	ID         int64
	CreatedAt  time.Time
	ReferrerID int64
	ReferredID int64
	OrderID    int64
	Amount     decimal.Decimal
	Level      string
}

type Notification struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	Kind      NotificationKind
	Message   string
}

type PriceOverride struct {
	ServiceID int64
	Price     decimal.Decimal
}
