package service

import (
	"context"
	"io"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/internal/service/mocks"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-smm/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

var testJWTSecret = []byte("test-secret")

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	mockHasher   *mocks.MockPasswordHasher
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockHasher = mocks.NewMockPasswordHasher(s.mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	userService, servErr := NewUserService(s.mockUOW, testJWTSecret, s.mockHasher, l)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) expectUOWDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)
}

func (s *UserServiceTestSuite) expectTxUserRepo() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
}

func (s *UserServiceTestSuite) TestRegister() {
	s.expectUOWDo()
	s.expectTxUserRepo()

	username := gofakeit.Username()
	password := gofakeit.Password(true, true, true, false, false, 12)

	s.mockHasher.EXPECT().HashPassword(password).Return("hashed", nil)
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Equal(username, args.Username)
			s.Equal("hashed", args.Password)
			s.NotEmpty(args.ReferralCode)
			s.NotEmpty(args.APIKey)
			s.Equal(domain.Ranks[0].Name, args.Rank)
			s.Equal(domain.AffiliateLevels[0].Name, args.AffiliateLevel)
			s.Nil(args.ReferrerID)
			return &domain.User{ID: 1, Username: args.Username}, nil
		},
	)

	user, token, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username: username,
		Password: password,
	})
	s.Require().NoError(err)
	s.EqualValues(1, user.ID)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestRegisterWithReferralCode() {
	s.expectUOWDo()
	s.expectTxUserRepo()

	referrer := &domain.User{ID: 9, ReferralCode: "ref123"}

	s.mockHasher.EXPECT().HashPassword(gomock.Any()).Return("hashed", nil)
	s.mockUserRepo.EXPECT().FindByReferralCode(gomock.Any(), "ref123").Return(referrer, nil)
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Require().NotNil(args.ReferrerID)
			s.EqualValues(9, *args.ReferrerID)
			return &domain.User{ID: 2, ReferrerID: args.ReferrerID}, nil
		},
	)
	// Инкремент счетчика после коммита: 25-й реферал двигает уровень до Partner.
	s.mockUserRepo.EXPECT().IncrementReferralsCount(gomock.Any(), int64(9)).Return(int64(25), nil)
	s.mockUserRepo.EXPECT().SetAffiliateLevel(gomock.Any(), int64(9), "Partner").Return(nil)

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username:     gofakeit.Username(),
		Password:     gofakeit.Password(true, true, true, false, false, 12),
		ReferralCode: "ref123",
	})
	s.Require().NoError(err)
}

func (s *UserServiceTestSuite) TestRegisterUnknownReferralCode() {
	s.expectUOWDo()
	s.expectTxUserRepo()

	s.mockHasher.EXPECT().HashPassword(gomock.Any()).Return("hashed", nil)
	// Неизвестный код не валит регистрацию, юзер создается без реферера.
	s.mockUserRepo.EXPECT().FindByReferralCode(gomock.Any(), "nosuchcode").
		Return(nil, domain.ErrRecordNotFound)
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Nil(args.ReferrerID)
			return &domain.User{ID: 3}, nil
		},
	)

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username:     gofakeit.Username(),
		Password:     gofakeit.Password(true, true, true, false, false, 12),
		ReferralCode: "nosuchcode",
	})
	s.Require().NoError(err)
}

func (s *UserServiceTestSuite) TestRegisterDuplicateUsername() {
	s.expectUOWDo()
	s.expectTxUserRepo()

	s.mockHasher.EXPECT().HashPassword(gomock.Any()).Return("hashed", nil)
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username: "taken",
		Password: gofakeit.Password(true, true, true, false, false, 12),
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestLogin() {
	user := &domain.User{ID: 1, Username: "bob", Password: "hashed"}
	s.mockUserRepo.EXPECT().FindByUsername(gomock.Any(), "bob").Return(user, nil)
	s.mockHasher.EXPECT().ComparePassword("secret", "hashed").Return(true)

	got, token, err := s.userService.Login(s.T().Context(), LoginUserArgs{
		Username: "bob",
		Password: "secret",
	})
	s.Require().NoError(err)
	s.EqualValues(1, got.ID)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestLoginWrongPassword() {
	user := &domain.User{ID: 1, Username: "bob", Password: "hashed"}
	s.mockUserRepo.EXPECT().FindByUsername(gomock.Any(), "bob").Return(user, nil)
	s.mockHasher.EXPECT().ComparePassword("wrong", "hashed").Return(false)

	_, _, err := s.userService.Login(s.T().Context(), LoginUserArgs{
		Username: "bob",
		Password: "wrong",
	})
	s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
}

func (s *UserServiceTestSuite) TestTransferToAdBalance() {
	s.expectUOWDo()
	s.expectTxUserRepo()

	user := &domain.User{
		ID:        1,
		Balance:   decimal.NewFromInt(50),
		AdBalance: decimal.NewFromInt(10),
	}
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)
	s.mockUserRepo.EXPECT().UpdateWallets(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, balance, adBalance decimal.Decimal) error {
			s.True(balance.Equal(decimal.NewFromInt(30)), "balance: %s", balance)
			s.True(adBalance.Equal(decimal.NewFromInt(30)), "adBalance: %s", adBalance)
			return nil
		},
	)

	updated, err := s.userService.TransferToAdBalance(s.T().Context(), 1, decimal.NewFromInt(20))
	s.Require().NoError(err)
	s.True(updated.Balance.Equal(decimal.NewFromInt(30)))
	s.True(updated.AdBalance.Equal(decimal.NewFromInt(30)))
}

func (s *UserServiceTestSuite) TestTransferToAdBalanceInsufficient() {
	s.expectUOWDo()
	s.expectTxUserRepo()

	user := &domain.User{ID: 1, Balance: decimal.NewFromInt(5)}
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)
	s.mockUserRepo.EXPECT().UpdateWallets(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.userService.TransferToAdBalance(s.T().Context(), 1, decimal.NewFromInt(20))
	s.Require().ErrorIs(err, domain.ErrNotEnoughBalance)
}

func (s *UserServiceTestSuite) TestTransferToAdBalanceNonPositive() {
	_, err := s.userService.TransferToAdBalance(s.T().Context(), 1, decimal.Zero)
	s.Require().ErrorIs(err, domain.ErrUnknown)
}
