package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/shopspring/decimal"
)

type CampaignService struct {
	uow          uow.UOW
	campaignRepo CampaignRepository
}

func NewCampaignService(u uow.UOW) (*CampaignService, error) {
	campaignRepo, err := uow.GetRepositoryAs[CampaignRepository](u, uow.RepositoryName(repoargs.CampaignRepoName))
	if err != nil {
		return nil, err
	}
	return &CampaignService{
		uow:          u,
		campaignRepo: campaignRepo,
	}, nil
}

type CreateCampaignArgs struct {
	UserID   int64
	Platform string
	Goal     string
	Budget   decimal.Decimal
}

// Create создает кампанию в статусе pending_review. Бюджет на этом шаге не
// резервируется: деньги списываются только при одобрении админом.
func (s *CampaignService) Create(ctx context.Context, args CreateCampaignArgs) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.Create(ctx, repoargs.CampaignCreate{
		UserID:   args.UserID,
		Platform: args.Platform,
		Goal:     args.Goal,
		Budget:   args.Budget.Round(moneyScale),
	})
	if err != nil {
		return nil, fmt.Errorf("creating campaign: %w", err)
	}
	return campaign, nil
}

// Approve одобряет кампанию: pending_review -> active. Атомарно с этим переходом
// бюджет резервируется (списывается с AdBalance владельца) и фиксируется дата старта.
// Если на AdBalance меньше бюджета, одобрение отклоняется с domain.ErrNotEnoughAdBalance
// и кампания остается в очереди.
func (s *CampaignService) Approve(ctx context.Context, campaignID int64) (*domain.Campaign, error) {
	var approved *domain.Campaign

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		approved = nil

		campaignRepo, userRepo, reposErr := s.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		campaign, campaignErr := campaignRepo.FindByID(c, campaignID)
		if campaignErr != nil {
			return campaignErr //nolint:wrapcheck
		}
		if campaign.Status != domain.CampaignStatusPendingReview {
			return domain.NewCampaignStateError(campaign.ID, campaign.Status, domain.CampaignStatusActive)
		}

		owner, ownerErr := userRepo.FindByID(c, campaign.UserID)
		if ownerErr != nil {
			return ownerErr //nolint:wrapcheck
		}
		if owner.AdBalance.LessThan(campaign.Budget) {
			return domain.ErrNotEnoughAdBalance
		}

		if walletErr := userRepo.UpdateWallets(
			c, owner.ID, owner.Balance, owner.AdBalance.Sub(campaign.Budget),
		); walletErr != nil {
			return walletErr //nolint:wrapcheck
		}

		startedAt := time.Now()
		if stateErr := campaignRepo.UpdateState(c, repoargs.CampaignStateUpdate{
			CampaignID: campaign.ID,
			Status:     domain.CampaignStatusActive,
			StartedAt:  &startedAt,
		}); stateErr != nil {
			return stateErr //nolint:wrapcheck
		}

		campaign.Status = domain.CampaignStatusActive
		campaign.StartedAt = &startedAt
		approved = campaign
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("approving campaign: %w", txErr)
	}
	return approved, nil
}

// Reject отклоняет кампанию в pending_review и удаляет её. Возврата денег нет:
// бюджет резервируется только при одобрении, на этом этапе ничего не списано.
func (s *CampaignService) Reject(ctx context.Context, campaignID int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		campaignRepo, _, reposErr := s.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		campaign, campaignErr := campaignRepo.FindByID(c, campaignID)
		if campaignErr != nil {
			return campaignErr //nolint:wrapcheck
		}
		if campaign.Status != domain.CampaignStatusPendingReview {
			return domain.NewCampaignStateError(campaign.ID, campaign.Status, domain.CampaignStatusPendingReview)
		}
		return campaignRepo.Delete(c, campaign.ID) //nolint:wrapcheck
	})

	if txErr != nil {
		return fmt.Errorf("rejecting campaign: %w", txErr)
	}
	return nil
}

// Pause останавливает активную кампанию владельцем. Неоткрученный остаток
// budget - spend возвращается на AdBalance атомарно со сменой статуса.
func (s *CampaignService) Pause(ctx context.Context, userID, campaignID int64) (*domain.Campaign, error) {
	var paused *domain.Campaign

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		paused = nil

		campaignRepo, userRepo, reposErr := s.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		campaign, campaignErr := campaignRepo.FindByID(c, campaignID)
		if campaignErr != nil {
			return campaignErr //nolint:wrapcheck
		}
		if campaign.UserID != userID {
			return domain.ErrRecordNotFound
		}
		if campaign.Status != domain.CampaignStatusActive {
			return domain.NewCampaignStateError(campaign.ID, campaign.Status, domain.CampaignStatusPaused)
		}

		refund := campaign.Budget.Sub(campaign.Spend)
		if refund.IsPositive() {
			if creditErr := userRepo.CreditAdBalance(c, campaign.UserID, refund); creditErr != nil {
				return creditErr //nolint:wrapcheck
			}
		}

		if stateErr := campaignRepo.UpdateState(c, repoargs.CampaignStateUpdate{
			CampaignID: campaign.ID,
			Status:     domain.CampaignStatusPaused,
		}); stateErr != nil {
			return stateErr //nolint:wrapcheck
		}

		campaign.Status = domain.CampaignStatusPaused
		paused = campaign
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("pausing campaign: %w", txErr)
	}
	return paused, nil
}

// Resume возобновляет приостановленную кампанию: остаток бюджета резервируется заново.
func (s *CampaignService) Resume(ctx context.Context, userID, campaignID int64) (*domain.Campaign, error) {
	var resumed *domain.Campaign

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		resumed = nil

		campaignRepo, userRepo, reposErr := s.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		campaign, campaignErr := campaignRepo.FindByID(c, campaignID)
		if campaignErr != nil {
			return campaignErr //nolint:wrapcheck
		}
		if campaign.UserID != userID {
			return domain.ErrRecordNotFound
		}
		if campaign.Status != domain.CampaignStatusPaused {
			return domain.NewCampaignStateError(campaign.ID, campaign.Status, domain.CampaignStatusActive)
		}

		remaining := campaign.Budget.Sub(campaign.Spend)

		owner, ownerErr := userRepo.FindByID(c, campaign.UserID)
		if ownerErr != nil {
			return ownerErr //nolint:wrapcheck
		}
		if owner.AdBalance.LessThan(remaining) {
			return domain.ErrNotEnoughAdBalance
		}

		if walletErr := userRepo.UpdateWallets(
			c, owner.ID, owner.Balance, owner.AdBalance.Sub(remaining),
		); walletErr != nil {
			return walletErr //nolint:wrapcheck
		}

		if stateErr := campaignRepo.UpdateState(c, repoargs.CampaignStateUpdate{
			CampaignID: campaign.ID,
			Status:     domain.CampaignStatusActive,
		}); stateErr != nil {
			return stateErr //nolint:wrapcheck
		}

		campaign.Status = domain.CampaignStatusActive
		resumed = campaign
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("resuming campaign: %w", txErr)
	}
	return resumed, nil
}

// SpendDelta прирост счетчиков открутки за одну итерацию симуляции.
type SpendDelta struct {
	Spend       decimal.Decimal
	Impressions int64
	Clicks      int64
	Results     int64
}

// AccrueSpend применяет прирост открутки к активной кампании. Прирост трат
// обрезается по остатку бюджета; достижение spend >= budget атомарно переводит
// кампанию в completed. ctr/cpc не хранятся и пересчитываются при чтении.
func (s *CampaignService) AccrueSpend(
	ctx context.Context,
	campaignID int64,
	delta SpendDelta,
) (*domain.Campaign, error) {
	var updated *domain.Campaign

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		updated = nil

		campaignRepo, _, reposErr := s.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		campaign, campaignErr := campaignRepo.FindByID(c, campaignID)
		if campaignErr != nil {
			return campaignErr //nolint:wrapcheck
		}
		if campaign.Status != domain.CampaignStatusActive {
			return domain.NewCampaignStateError(campaign.ID, campaign.Status, domain.CampaignStatusActive)
		}

		remaining := campaign.Budget.Sub(campaign.Spend)
		increment := delta.Spend.Round(moneyScale)
		if increment.GreaterThan(remaining) {
			increment = remaining
		}

		campaign.Spend = campaign.Spend.Add(increment)
		campaign.Impressions += delta.Impressions
		campaign.Clicks += delta.Clicks
		campaign.Results += delta.Results
		if campaign.Spend.GreaterThanOrEqual(campaign.Budget) {
			campaign.Status = domain.CampaignStatusCompleted
		}

		if metricsErr := campaignRepo.UpdateMetrics(c, repoargs.CampaignMetricsUpdate{
			CampaignID:  campaign.ID,
			Spend:       campaign.Spend,
			Impressions: campaign.Impressions,
			Clicks:      campaign.Clicks,
			Results:     campaign.Results,
			Status:      campaign.Status,
		}); metricsErr != nil {
			return metricsErr //nolint:wrapcheck
		}

		updated = campaign
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("accruing spend: %w", txErr)
	}
	return updated, nil
}

// ActiveCampaigns возвращает кампании для открутки.
func (s *CampaignService) ActiveCampaigns(ctx context.Context, limit uint) ([]domain.Campaign, error) {
	campaigns, err := s.campaignRepo.GetByStatus(ctx, domain.CampaignStatusActive, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return campaigns, nil
}

// PendingCampaigns возвращает очередь модерации.
func (s *CampaignService) PendingCampaigns(ctx context.Context, limit uint) ([]domain.Campaign, error) {
	campaigns, err := s.campaignRepo.GetByStatus(ctx, domain.CampaignStatusPendingReview, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return campaigns, nil
}

// GetByUserID возвращает кампании юзера по дате создания по убыванию.
func (s *CampaignService) GetByUserID(ctx context.Context, userID int64) ([]domain.Campaign, error) {
	campaigns, err := s.campaignRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return campaigns, nil
}

func (s *CampaignService) txRepos(tx uow.TX) (CampaignRepository, UserRepository, error) {
	campaignRepo, campaignRepoErr :=
		uow.GetAs[CampaignRepository](tx, uow.RepositoryName(repoargs.CampaignRepoName))
	if campaignRepoErr != nil {
		return nil, nil, campaignRepoErr //nolint:wrapcheck
	}
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, nil, userRepoErr //nolint:wrapcheck
	}
	return campaignRepo, userRepo, nil
}
