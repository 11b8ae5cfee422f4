package service

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.User, error)
	FindByAPIKey(ctx context.Context, key string) (*domain.User, error)
	UpdateSpending(ctx context.Context, args repoargs.UserSpendingUpdate) error
	UpdateWallets(ctx context.Context, userID int64, balance, adBalance decimal.Decimal) error
	CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) error
	CreditAdBalance(ctx context.Context, userID int64, amount decimal.Decimal) error
	CreditAffiliateEarnings(ctx context.Context, userID int64, amount decimal.Decimal) error
	IncrementReferralsCount(ctx context.Context, userID int64) (int64, error)
	SetAffiliateLevel(ctx context.Context, userID int64, level string) error
	List(ctx context.Context, limit uint) ([]domain.User, error)
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error)
}

type CampaignRepository interface {
	Create(ctx context.Context, args repoargs.CampaignCreate) (*domain.Campaign, error)
	FindByID(ctx context.Context, id int64) (*domain.Campaign, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Campaign, error)
	GetByStatus(ctx context.Context, status domain.CampaignStatusType, limit uint) ([]domain.Campaign, error)
	UpdateState(ctx context.Context, args repoargs.CampaignStateUpdate) error
	UpdateMetrics(ctx context.Context, args repoargs.CampaignMetricsUpdate) error
	Delete(ctx context.Context, id int64) error
}

type DepositRepository interface {
	Create(ctx context.Context, args repoargs.DepositCreate) (*domain.Deposit, error)
	FindByID(ctx context.Context, id int64) (*domain.Deposit, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Deposit, error)
	GetByStatus(ctx context.Context, status domain.DepositStatusType, limit uint) ([]domain.Deposit, error)
	FinishReview(ctx context.Context, id int64, status domain.DepositStatusType) (*domain.Deposit, error)
}

type AffiliateTxRepository interface {
	Create(ctx context.Context, args repoargs.AffiliateTransactionCreate) (*domain.AffiliateTransaction, error)
	GetByReferrerID(ctx context.Context, referrerID int64) ([]domain.AffiliateTransaction, error)
}

type PriceOverrideRepository interface {
	GetAll(ctx context.Context) ([]domain.PriceOverride, error)
	Upsert(ctx context.Context, serviceID int64, price decimal.Decimal) error
	Delete(ctx context.Context, serviceID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, args repoargs.NotificationCreate) (*domain.Notification, error)
	GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.Notification, error)
}
