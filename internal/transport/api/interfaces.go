package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByAPIKey(ctx context.Context, key string) (*domain.User, error)
	TransferToAdBalance(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error)
	List(ctx context.Context, limit uint) ([]domain.User, error)
}

type OrderServicer interface {
	Place(ctx context.Context, args service.PlaceOrderArgs) (*domain.Order, *service.Promotion, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	FindForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error)
}

type CampaignServicer interface {
	Create(ctx context.Context, args service.CreateCampaignArgs) (*domain.Campaign, error)
	Approve(ctx context.Context, campaignID int64) (*domain.Campaign, error)
	Reject(ctx context.Context, campaignID int64) error
	Pause(ctx context.Context, userID, campaignID int64) (*domain.Campaign, error)
	Resume(ctx context.Context, userID, campaignID int64) (*domain.Campaign, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Campaign, error)
	PendingCampaigns(ctx context.Context, limit uint) ([]domain.Campaign, error)
}

type DepositServicer interface {
	Create(ctx context.Context, args repoargs.DepositCreate) (*domain.Deposit, error)
	Accept(ctx context.Context, depositID int64) (*domain.Deposit, error)
	Reject(ctx context.Context, depositID int64) (*domain.Deposit, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Deposit, error)
	PendingDeposits(ctx context.Context, limit uint) ([]domain.Deposit, error)
}

type CatalogServicer interface {
	Merged(ctx context.Context) ([]domain.Service, error)
	SetOverride(ctx context.Context, serviceID int64, price decimal.Decimal) error
	RemoveOverride(ctx context.Context, serviceID int64) error
}

type AffiliateServicer interface {
	Summary(ctx context.Context, userID int64) (*service.AffiliateSummary, error)
	Transactions(ctx context.Context, userID int64) ([]domain.AffiliateTransaction, error)
}

type NotificationServicer interface {
	GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.Notification, error)
}
