package spendsim

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/service"
)

type Servicer interface {
	ActiveCampaigns(ctx context.Context, limit uint) ([]domain.Campaign, error)
	AccrueSpend(ctx context.Context, campaignID int64, delta service.SpendDelta) (*domain.Campaign, error)
}
