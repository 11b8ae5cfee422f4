package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/internal/service/mocks"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-smm/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CampaignServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockCampaignRepo *mocks.MockCampaignRepository
	campaignService  *CampaignService
}

func TestCampaignServiceSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}

func (s *CampaignServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockCampaignRepo = mocks.NewMockCampaignRepository(s.mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.CampaignRepoName)).
		Return(s.mockCampaignRepo, nil).AnyTimes()

	campaignService, servErr := NewCampaignService(s.mockUOW)
	s.Require().NoError(servErr)
	s.campaignService = campaignService
}

func (s *CampaignServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *CampaignServiceTestSuite) expectTxRepos() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CampaignRepoName)).
		Return(s.mockCampaignRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
}

func (s *CampaignServiceTestSuite) expectUOWDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)
}

func (s *CampaignServiceTestSuite) TestApprove() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:     10,
		UserID: 1,
		Budget: decimal.NewFromInt(100),
		Status: domain.CampaignStatusPendingReview,
	}
	owner := &domain.User{
		ID:        1,
		Balance:   decimal.NewFromInt(15),
		AdBalance: decimal.NewFromInt(100),
	}

	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(owner, nil)
	// Бюджет резервируется целиком, рекламный кошелек уходит в ноль.
	s.mockUserRepo.EXPECT().UpdateWallets(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, balance, adBalance decimal.Decimal) error {
			s.True(balance.Equal(decimal.NewFromInt(15)), "balance: %s", balance)
			s.True(adBalance.Equal(decimal.Zero), "adBalance: %s", adBalance)
			return nil
		},
	)
	s.mockCampaignRepo.EXPECT().UpdateState(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.CampaignStateUpdate) error {
			s.EqualValues(10, args.CampaignID)
			s.Equal(domain.CampaignStatusActive, args.Status)
			s.Require().NotNil(args.StartedAt)
			return nil
		},
	)

	approved, err := s.campaignService.Approve(s.T().Context(), 10)
	s.Require().NoError(err)
	s.Equal(domain.CampaignStatusActive, approved.Status)
	s.NotNil(approved.StartedAt)
}

func (s *CampaignServiceTestSuite) TestApproveNotEnoughAdBalance() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:     10,
		UserID: 1,
		Budget: decimal.NewFromInt(100),
		Status: domain.CampaignStatusPendingReview,
	}
	owner := &domain.User{ID: 1, AdBalance: decimal.NewFromFloat(99.99)}

	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(owner, nil)
	// Кампания остается в очереди, денег не трогаем.
	s.mockUserRepo.EXPECT().UpdateWallets(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.mockCampaignRepo.EXPECT().UpdateState(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.campaignService.Approve(s.T().Context(), 10)
	s.Require().ErrorIs(err, domain.ErrNotEnoughAdBalance)
}

func (s *CampaignServiceTestSuite) TestApproveWrongState() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{ID: 10, UserID: 1, Status: domain.CampaignStatusActive}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)

	_, err := s.campaignService.Approve(s.T().Context(), 10)

	var stateErr *domain.CampaignStateError
	s.Require().ErrorAs(err, &stateErr)
}

func (s *CampaignServiceTestSuite) TestReject() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{ID: 10, UserID: 1, Status: domain.CampaignStatusPendingReview}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockCampaignRepo.EXPECT().Delete(gomock.Any(), int64(10)).Return(nil)

	s.Require().NoError(s.campaignService.Reject(s.T().Context(), 10))
}

func (s *CampaignServiceTestSuite) TestRejectActiveCampaign() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{ID: 10, UserID: 1, Status: domain.CampaignStatusActive}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockCampaignRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	var stateErr *domain.CampaignStateError
	s.Require().ErrorAs(s.campaignService.Reject(s.T().Context(), 10), &stateErr)
}

func (s *CampaignServiceTestSuite) TestPauseRefundsRemainder() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:     10,
		UserID: 1,
		Budget: decimal.NewFromInt(100),
		Spend:  decimal.NewFromInt(40),
		Status: domain.CampaignStatusActive,
	}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	// Возврат неоткрученного остатка: 100 - 40 = 60.
	s.mockUserRepo.EXPECT().CreditAdBalance(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, refund decimal.Decimal) error {
			s.True(refund.Equal(decimal.NewFromInt(60)), "refund: %s", refund)
			return nil
		},
	)
	s.mockCampaignRepo.EXPECT().UpdateState(gomock.Any(), repoargs.CampaignStateUpdate{
		CampaignID: 10,
		Status:     domain.CampaignStatusPaused,
	}).Return(nil)

	paused, err := s.campaignService.Pause(s.T().Context(), 1, 10)
	s.Require().NoError(err)
	s.Equal(domain.CampaignStatusPaused, paused.Status)
}

func (s *CampaignServiceTestSuite) TestPauseForeignCampaign() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{ID: 10, UserID: 2, Status: domain.CampaignStatusActive}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)

	// Чужая кампания неотличима от несуществующей.
	_, err := s.campaignService.Pause(s.T().Context(), 1, 10)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *CampaignServiceTestSuite) TestResumeReservesRemainder() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:     10,
		UserID: 1,
		Budget: decimal.NewFromInt(100),
		Spend:  decimal.NewFromInt(40),
		Status: domain.CampaignStatusPaused,
	}
	owner := &domain.User{
		ID:        1,
		Balance:   decimal.NewFromInt(5),
		AdBalance: decimal.NewFromInt(75),
	}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(owner, nil)
	// Повторный резерв остатка: 75 - 60 = 15.
	s.mockUserRepo.EXPECT().UpdateWallets(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, balance, adBalance decimal.Decimal) error {
			s.True(balance.Equal(decimal.NewFromInt(5)))
			s.True(adBalance.Equal(decimal.NewFromInt(15)), "adBalance: %s", adBalance)
			return nil
		},
	)
	s.mockCampaignRepo.EXPECT().UpdateState(gomock.Any(), repoargs.CampaignStateUpdate{
		CampaignID: 10,
		Status:     domain.CampaignStatusActive,
	}).Return(nil)

	resumed, err := s.campaignService.Resume(s.T().Context(), 1, 10)
	s.Require().NoError(err)
	s.Equal(domain.CampaignStatusActive, resumed.Status)
}

func (s *CampaignServiceTestSuite) TestResumeNotEnoughAdBalance() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:     10,
		UserID: 1,
		Budget: decimal.NewFromInt(100),
		Spend:  decimal.NewFromInt(40),
		Status: domain.CampaignStatusPaused,
	}
	owner := &domain.User{ID: 1, AdBalance: decimal.NewFromInt(59)}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(owner, nil)

	_, err := s.campaignService.Resume(s.T().Context(), 1, 10)
	s.Require().ErrorIs(err, domain.ErrNotEnoughAdBalance)
}

func (s *CampaignServiceTestSuite) TestAccrueSpend() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:          10,
		UserID:      1,
		Budget:      decimal.NewFromInt(100),
		Spend:       decimal.NewFromInt(10),
		Impressions: 1000,
		Clicks:      20,
		Status:      domain.CampaignStatusActive,
	}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockCampaignRepo.EXPECT().UpdateMetrics(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.CampaignMetricsUpdate) error {
			s.True(args.Spend.Equal(decimal.NewFromFloat(12.5)), "spend: %s", args.Spend)
			s.EqualValues(1500, args.Impressions)
			s.EqualValues(30, args.Clicks)
			s.Equal(domain.CampaignStatusActive, args.Status)
			return nil
		},
	)

	updated, err := s.campaignService.AccrueSpend(s.T().Context(), 10, SpendDelta{
		Spend:       decimal.NewFromFloat(2.5),
		Impressions: 500,
		Clicks:      10,
	})
	s.Require().NoError(err)
	s.Equal(domain.CampaignStatusActive, updated.Status)
}

func (s *CampaignServiceTestSuite) TestAccrueSpendCapsAtBudgetAndCompletes() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{
		ID:     10,
		UserID: 1,
		Budget: decimal.NewFromInt(100),
		Spend:  decimal.NewFromInt(99),
		Status: domain.CampaignStatusActive,
	}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	// Прирост 5.00 обрезается по остатку 1.00, кампания завершается.
	s.mockCampaignRepo.EXPECT().UpdateMetrics(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.CampaignMetricsUpdate) error {
			s.True(args.Spend.Equal(decimal.NewFromInt(100)), "spend: %s", args.Spend)
			s.Equal(domain.CampaignStatusCompleted, args.Status)
			return nil
		},
	)

	updated, err := s.campaignService.AccrueSpend(s.T().Context(), 10, SpendDelta{
		Spend: decimal.NewFromInt(5),
	})
	s.Require().NoError(err)
	s.Equal(domain.CampaignStatusCompleted, updated.Status)
	s.True(updated.Spend.Equal(updated.Budget))
}

func (s *CampaignServiceTestSuite) TestAccrueSpendInactiveCampaign() {
	s.expectUOWDo()
	s.expectTxRepos()

	campaign := &domain.Campaign{ID: 10, UserID: 1, Status: domain.CampaignStatusPaused}
	s.mockCampaignRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(campaign, nil)
	s.mockCampaignRepo.EXPECT().UpdateMetrics(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.campaignService.AccrueSpend(s.T().Context(), 10, SpendDelta{
		Spend: decimal.NewFromInt(1),
	})

	var stateErr *domain.CampaignStateError
	s.Require().ErrorAs(err, &stateErr)
}
