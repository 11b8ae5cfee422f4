package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/internal/service/mocks"

	"github.com/fsdevblog/groph-smm/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-smm/pkg/uow/mocks"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockOrderRepo    *mocks.MockOrderRepository
	mockOverrideRepo *mocks.MockPriceOverrideRepository
	mockAffRepo      *mocks.MockAffiliateTxRepository
	orderService     *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockOverrideRepo = mocks.NewMockPriceOverrideRepository(s.mockCtrl)
	s.mockAffRepo = mocks.NewMockAffiliateTxRepository(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	// Инициализация сервиса.
	orderService, servErr := NewOrderService(s.mockUOW)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTxRepos настраивает выдачу репозиториев из транзакции.
func (s *OrderServiceTestSuite) expectTxRepos() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.PriceOverrideRepoName)).
		Return(s.mockOverrideRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.AffiliateTxRepoName)).
		Return(s.mockAffRepo, nil).AnyTimes()
}

// expectUOWDo прокидывает колбэк Do в мок-транзакцию.
func (s *OrderServiceTestSuite) expectUOWDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)
}

func (s *OrderServiceTestSuite) TestPlaceQuantityOutOfRange() {
	// услуга 102: min 50, max 20000. Do вызываться не должен.
	_, _, err := s.orderService.Place(s.T().Context(), PlaceOrderArgs{
		UserID:    1,
		ServiceID: 102,
		Link:      "https://instagram.com/p/abc",
		Quantity:  10,
	})

	var quantityErr *domain.QuantityRangeError
	s.Require().ErrorAs(err, &quantityErr)
	s.EqualValues(50, quantityErr.Min)
	s.EqualValues(20000, quantityErr.Max)
}

func (s *OrderServiceTestSuite) TestPlaceUnknownService() {
	_, _, err := s.orderService.Place(s.T().Context(), PlaceOrderArgs{
		UserID:    1,
		ServiceID: 999999,
		Link:      "https://instagram.com/p/abc",
		Quantity:  100,
	})
	s.Require().ErrorIs(err, domain.ErrServiceNotFound)
}

func (s *OrderServiceTestSuite) TestPlaceNotEnoughBalance() {
	s.expectUOWDo()
	s.expectTxRepos()

	user := &domain.User{
		ID:      1,
		Rank:    "Newbie",
		Balance: decimal.NewFromInt(1),
	}
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)
	s.mockOverrideRepo.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
	// Ничего не записывается.
	s.mockUserRepo.EXPECT().UpdateSpending(gomock.Any(), gomock.Any()).Times(0)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, _, err := s.orderService.Place(s.T().Context(), PlaceOrderArgs{
		UserID:    1,
		ServiceID: 102,
		Link:      "https://instagram.com/p/abc",
		Quantity:  20000, // 20000/1000 * 1.20 = 24.00 > 1.00
	})
	s.Require().ErrorIs(err, domain.ErrNotEnoughBalance)
}

func (s *OrderServiceTestSuite) TestPlaceWithPriceOverride() {
	s.expectUOWDo()
	s.expectTxRepos()

	user := &domain.User{
		ID:      1,
		Rank:    "Newbie",
		Balance: decimal.NewFromInt(100),
	}
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)
	// Оверрайд цены услуги 102: 2.00 вместо каталожных 1.20.
	s.mockOverrideRepo.EXPECT().GetAll(gomock.Any()).Return([]domain.PriceOverride{
		{ServiceID: 102, Price: decimal.NewFromInt(2)},
	}, nil)

	s.mockUserRepo.EXPECT().UpdateSpending(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.UserSpendingUpdate) error {
			s.True(args.Balance.Equal(decimal.NewFromInt(98)), "balance: %s", args.Balance)
			s.True(args.TotalSpent.Equal(decimal.NewFromInt(2)), "totalSpent: %s", args.TotalSpent)
			s.Equal("Newbie", args.Rank)
			return nil
		},
	)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
			s.True(args.Charge.Equal(decimal.NewFromInt(2)), "charge: %s", args.Charge)
			s.EqualValues(102, args.ServiceID)
			return &domain.Order{
				ID:       42,
				UserID:   args.UserID,
				Quantity: args.Quantity,
				Charge:   args.Charge,
				Status:   domain.OrderStatusPending,
			}, nil
		},
	)

	order, promotion, err := s.orderService.Place(s.T().Context(), PlaceOrderArgs{
		UserID:    1,
		ServiceID: 102,
		Link:      "https://instagram.com/p/abc",
		Quantity:  1000, // 1000/1000 * 2.00 = 2.00
	})
	s.Require().NoError(err)
	s.Require().NotNil(order)
	s.Nil(promotion, "no rank crossed, no promotion expected")
	s.EqualValues(42, order.ID)
}

func (s *OrderServiceTestSuite) TestPlaceRankUpBonusAndCommission() {
	s.expectUOWDo()
	s.expectTxRepos()

	var referrerID int64 = 9
	buyer := &domain.User{
		ID:         1,
		Rank:       "Newbie",
		Balance:    decimal.NewFromInt(100),
		TotalSpent: decimal.NewFromInt(480),
		ReferrerID: &referrerID,
	}
	referrer := &domain.User{
		ID:             referrerID,
		AffiliateLevel: "Partner", // 10%
	}

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(buyer, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), referrerID).Return(referrer, nil)
	s.mockOverrideRepo.EXPECT().GetAll(gomock.Any()).Return(nil, nil)

	// 25000/1000 * 1.20 = 30.00, пожизненные траты 480 + 30 = 510 => Silver, бонус 5.
	s.mockUserRepo.EXPECT().UpdateSpending(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.UserSpendingUpdate) error {
			s.True(args.TotalSpent.Equal(decimal.NewFromInt(510)), "totalSpent: %s", args.TotalSpent)
			s.Equal("Silver", args.Rank)
			s.True(args.AdBalance.Equal(decimal.NewFromInt(5)), "adBalance: %s", args.AdBalance)
			return nil
		},
	)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
			return &domain.Order{ID: 7, UserID: args.UserID, Charge: args.Charge}, nil
		},
	)
	// Комиссия реферера: 30.00 * 10% = 3.00.
	s.mockAffRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.AffiliateTransactionCreate) (*domain.AffiliateTransaction, error) {
			s.Equal(referrerID, args.ReferrerID)
			s.EqualValues(1, args.ReferredID)
			s.EqualValues(7, args.OrderID)
			s.Equal("Partner", args.Level)
			s.True(args.Amount.Equal(decimal.NewFromInt(3)), "commission: %s", args.Amount)
			return &domain.AffiliateTransaction{ID: 1}, nil
		},
	)
	s.mockUserRepo.EXPECT().CreditAffiliateEarnings(gomock.Any(), referrerID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, amount decimal.Decimal) error {
			s.True(amount.Equal(decimal.NewFromInt(3)))
			return nil
		},
	)

	order, promotion, err := s.orderService.Place(s.T().Context(), PlaceOrderArgs{
		UserID:    1,
		ServiceID: 102,
		Link:      "https://instagram.com/p/abc",
		Quantity:  25000,
	})
	s.Require().NoError(err)
	s.Require().NotNil(order)
	s.Require().NotNil(promotion)
	s.Equal("Silver", promotion.Rank)
	s.True(promotion.Bonus.Equal(decimal.NewFromInt(5)))
}
