package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/shopspring/decimal"
)

type CatalogService struct {
	overrideRepo PriceOverrideRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	overrideRepo, err :=
		uow.GetRepositoryAs[PriceOverrideRepository](u, uow.RepositoryName(repoargs.PriceOverrideRepoName))
	if err != nil {
		return nil, err
	}
	return &CatalogService{overrideRepo: overrideRepo}, nil
}

// Merged возвращает каталог услуг с наложенными ценовыми оверрайдами.
// Базовый каталог статичен, меняться могут только цены.
func (s *CatalogService) Merged(ctx context.Context) ([]domain.Service, error) {
	overrides, err := s.overrideRepo.GetAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	prices := make(map[int64]decimal.Decimal, len(overrides))
	for _, override := range overrides {
		prices[override.ServiceID] = override.Price
	}

	merged := make([]domain.Service, len(domain.Catalog))
	copy(merged, domain.Catalog)
	for i := range merged {
		if price, ok := prices[merged[i].ID]; ok {
			merged[i].Price = price
		}
	}
	return merged, nil
}

// SetOverride устанавливает цену услуги. Применяется только к будущим заказам,
// суммы уже размещенных заказов не пересчитываются.
func (s *CatalogService) SetOverride(ctx context.Context, serviceID int64, price decimal.Decimal) error {
	if _, svcErr := domain.ServiceByID(serviceID); svcErr != nil {
		return svcErr //nolint:wrapcheck
	}
	price = price.Round(moneyScale)
	if !price.IsPositive() {
		return fmt.Errorf("override price must be positive: %w", domain.ErrUnknown)
	}
	return s.overrideRepo.Upsert(ctx, serviceID, price) //nolint:wrapcheck
}

// RemoveOverride убирает оверрайд, возвращая услугу к цене каталога.
func (s *CatalogService) RemoveOverride(ctx context.Context, serviceID int64) error {
	if _, svcErr := domain.ServiceByID(serviceID); svcErr != nil {
		return svcErr //nolint:wrapcheck
	}
	return s.overrideRepo.Delete(ctx, serviceID) //nolint:wrapcheck
}
