package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/internal/service/tokens"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	psswd          PasswordHasher
	l              *logrus.Logger
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, hasher PasswordHasher, l *logrus.Logger) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		psswd:          hasher,
		l:              l,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username     string
	Password     string
	ReferralCode string
}

// Register создает юзера и генерирует jwt token. Возвращает созданного юзера, токен и ошибку.
//
// Если передан реферальный код и он резолвится в существующего юзера, новый юзер
// привязывается к рефереру (referrer_id неизменяем после создания), а счетчик
// рефералов реферера увеличивается после коммита, best-effort: ошибка инкремента
// логируется и не валит регистрацию.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.psswd.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	referrer := s.resolveReferrer(ctx, args.ReferralCode)

	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		createArgs := repoargs.CreateUser{
			Username:       args.Username,
			Password:       password,
			ReferralCode:   newReferralCode(),
			APIKey:         newAPIKey(),
			Rank:           domain.Ranks[0].Name,
			AffiliateLevel: domain.AffiliateLevels[0].Name,
		}
		if referrer != nil {
			createArgs.ReferrerID = &referrer.ID
		}

		var userErr error
		user, userErr = userRepo.CreateUser(c, createArgs)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		var tokenErr error
		token, tokenErr = tokens.GenerateUserJWT(user.ID, user.Admin, JWTTokenExpire, s.jwtTokenSecret)
		if tokenErr != nil {
			return tokenErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}

	if referrer != nil {
		s.creditReferrer(ctx, referrer.ID)
	}
	return user, token, nil
}

// resolveReferrer ищет реферера по коду. Любая ошибка (включая неизвестный код)
// трактуется как отсутствие реферера: регистрация важнее реферальной связки.
func (s *UserService) resolveReferrer(ctx context.Context, code string) *domain.User {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	referrer, err := s.userRepo.FindByReferralCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			s.l.WithError(err).Warn("resolving referral code")
		}
		return nil
	}
	return referrer
}

// creditReferrer увеличивает счетчик рефералов и при пересечении порога двигает
// партнерский уровень. Best-effort: ошибки только логируются.
func (s *UserService) creditReferrer(ctx context.Context, referrerID int64) {
	count, incErr := s.userRepo.IncrementReferralsCount(ctx, referrerID)
	if incErr != nil {
		s.l.WithError(incErr).WithField("referrerID", referrerID).Warn("incrementing referrals count")
		return
	}

	level := domain.AffiliateLevelForReferrals(count)
	if setErr := s.userRepo.SetAffiliateLevel(ctx, referrerID, level.Name); setErr != nil {
		s.l.WithError(setErr).WithField("referrerID", referrerID).Warn("updating affiliate level")
	}
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login аутентификация по паре логин/пароль. Возвращает юзера, jwt token и ошибку.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByUsername(ctx, args.Username)
	if findErr != nil {
		return nil, "", findErr //nolint:wrapcheck
	}

	if !s.psswd.ComparePassword(args.Password, user.Password) {
		return nil, "", domain.ErrPasswordMissMatch
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Admin, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in user: %s", tokenErr.Error())
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) GetByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	user, err := s.userRepo.FindByAPIKey(ctx, key)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

// List возвращает юзеров для админского листинга.
func (s *UserService) List(ctx context.Context, limit uint) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return users, nil
}

// TransferToAdBalance переводит amount с основного баланса на рекламный.
// Единственная операция, через которую деньги перетекают между кошельками.
func (s *UserService) TransferToAdBalance(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error) {
	amount = amount.Round(moneyScale)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer amount must be positive: %w", domain.ErrUnknown)
	}

	var updated *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		updated = nil

		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindByID(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if user.Balance.LessThan(amount) {
			return domain.ErrNotEnoughBalance
		}

		user.Balance = user.Balance.Sub(amount)
		user.AdBalance = user.AdBalance.Add(amount)
		if walletErr := userRepo.UpdateWallets(c, user.ID, user.Balance, user.AdBalance); walletErr != nil {
			return walletErr //nolint:wrapcheck
		}

		updated = user
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("transferring to ad balance: %w", txErr)
	}
	return updated, nil
}

func newReferralCode() string {
	// короткий код для реферальных ссылок, человекочитаемость не требуется.
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func newAPIKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
