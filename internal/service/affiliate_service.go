package service

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/shopspring/decimal"
)

type AffiliateService struct {
	userRepo UserRepository
	affRepo  AffiliateTxRepository
}

func NewAffiliateService(u uow.UOW) (*AffiliateService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	affRepo, affRepoErr :=
		uow.GetRepositoryAs[AffiliateTxRepository](u, uow.RepositoryName(repoargs.AffiliateTxRepoName))
	if affRepoErr != nil {
		return nil, affRepoErr
	}
	return &AffiliateService{
		userRepo: userRepo,
		affRepo:  affRepo,
	}, nil
}

// AffiliateSummary сводка партнерской программы юзера.
type AffiliateSummary struct {
	ReferralCode      string
	ReferralsCount    int64
	Level             string
	CommissionPercent decimal.Decimal
	Earnings          decimal.Decimal
}

// Summary собирает сводку по юзеру: код, число приглашенных, уровень с процентом
// и накопленный заработок.
func (s *AffiliateService) Summary(ctx context.Context, userID int64) (*AffiliateSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	level := domain.AffiliateLevelByName(user.AffiliateLevel)
	return &AffiliateSummary{
		ReferralCode:      user.ReferralCode,
		ReferralsCount:    user.ReferralsCount,
		Level:             level.Name,
		CommissionPercent: level.CommissionPercent,
		Earnings:          user.AffiliateEarnings,
	}, nil
}

// Transactions возвращает журнал начислений юзера как реферера, новые первыми.
func (s *AffiliateService) Transactions(ctx context.Context, userID int64) ([]domain.AffiliateTransaction, error) {
	txs, err := s.affRepo.GetByReferrerID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return txs, nil
}
