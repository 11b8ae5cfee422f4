package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
)

type DepositService struct {
	uow         uow.UOW
	depositRepo DepositRepository
}

func NewDepositService(u uow.UOW) (*DepositService, error) {
	depositRepo, err := uow.GetRepositoryAs[DepositRepository](u, uow.RepositoryName(repoargs.DepositRepoName))
	if err != nil {
		return nil, err
	}
	return &DepositService{
		uow:         u,
		depositRepo: depositRepo,
	}, nil
}

// Create создает заявку на пополнение в статусе pending.
func (s *DepositService) Create(ctx context.Context, args repoargs.DepositCreate) (*domain.Deposit, error) {
	deposit, err := s.depositRepo.Create(ctx, repoargs.DepositCreate{
		UserID:        args.UserID,
		Amount:        args.Amount.Round(moneyScale),
		PaymentMethod: args.PaymentMethod,
		Details:       args.Details,
	})
	if err != nil {
		return nil, fmt.Errorf("creating deposit: %w", err)
	}
	return deposit, nil
}

// Accept принимает заявку: pending -> accepted, терминально. Атомарно со сменой
// статуса баланс юзера увеличивается ровно на сумму заявки и пишется уведомление.
// Повторный вызов не зачислит деньги второй раз: переход охраняется условием
// status = pending и вернет domain.ErrDepositReviewed.
func (s *DepositService) Accept(ctx context.Context, depositID int64) (*domain.Deposit, error) {
	var accepted *domain.Deposit

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accepted = nil

		depositRepo, depositRepoErr :=
			uow.GetAs[DepositRepository](tx, uow.RepositoryName(repoargs.DepositRepoName))
		if depositRepoErr != nil {
			return depositRepoErr //nolint:wrapcheck
		}
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		notificationRepo, notificationRepoErr :=
			uow.GetAs[NotificationRepository](tx, uow.RepositoryName(repoargs.NotificationRepoName))
		if notificationRepoErr != nil {
			return notificationRepoErr //nolint:wrapcheck
		}

		deposit, reviewErr := s.finishReview(c, depositRepo, depositID, domain.DepositStatusAccepted)
		if reviewErr != nil {
			return reviewErr
		}

		if creditErr := userRepo.CreditBalance(c, deposit.UserID, deposit.Amount); creditErr != nil {
			return creditErr //nolint:wrapcheck
		}

		if _, notifErr := notificationRepo.Create(c, repoargs.NotificationCreate{
			UserID: deposit.UserID,
			Kind:   domain.NotificationDepositAccepted,
			Message: fmt.Sprintf(
				"Your %s deposit of %s has been accepted.",
				deposit.PaymentMethod, deposit.Amount.StringFixed(moneyScale),
			),
		}); notifErr != nil {
			return notifErr //nolint:wrapcheck
		}

		accepted = deposit
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("accepting deposit: %w", txErr)
	}
	return accepted, nil
}

// Reject отклоняет заявку: pending -> rejected, терминально. Меняется только статус.
func (s *DepositService) Reject(ctx context.Context, depositID int64) (*domain.Deposit, error) {
	var rejected *domain.Deposit

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		rejected = nil

		depositRepo, depositRepoErr :=
			uow.GetAs[DepositRepository](tx, uow.RepositoryName(repoargs.DepositRepoName))
		if depositRepoErr != nil {
			return depositRepoErr //nolint:wrapcheck
		}

		deposit, reviewErr := s.finishReview(c, depositRepo, depositID, domain.DepositStatusRejected)
		if reviewErr != nil {
			return reviewErr
		}
		rejected = deposit
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("rejecting deposit: %w", txErr)
	}
	return rejected, nil
}

// finishReview выполняет охраняемый переход из pending. Если строка не обновилась,
// различает "заявки нет" и "заявка уже рассмотрена".
func (s *DepositService) finishReview(
	ctx context.Context,
	depositRepo DepositRepository,
	depositID int64,
	status domain.DepositStatusType,
) (*domain.Deposit, error) {
	deposit, err := depositRepo.FinishReview(ctx, depositID, status)
	if err == nil {
		return deposit, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err //nolint:wrapcheck
	}
	if _, findErr := depositRepo.FindByID(ctx, depositID); findErr != nil {
		return nil, findErr //nolint:wrapcheck
	}
	return nil, domain.ErrDepositReviewed
}

// GetByUserID возвращает заявки юзера по дате создания по убыванию.
func (s *DepositService) GetByUserID(ctx context.Context, userID int64) ([]domain.Deposit, error) {
	deposits, err := s.depositRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return deposits, nil
}

// PendingDeposits возвращает очередь заявок на рассмотрение.
func (s *DepositService) PendingDeposits(ctx context.Context, limit uint) ([]domain.Deposit, error) {
	deposits, err := s.depositRepo.GetByStatus(ctx, domain.DepositStatusPending, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return deposits, nil
}
