package service

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
)

type NotificationService struct {
	notificationRepo NotificationRepository
}

func NewNotificationService(u uow.UOW) (*NotificationService, error) {
	notificationRepo, err :=
		uow.GetRepositoryAs[NotificationRepository](u, uow.RepositoryName(repoargs.NotificationRepoName))
	if err != nil {
		return nil, err
	}
	return &NotificationService{notificationRepo: notificationRepo}, nil
}

// GetByUserID возвращает уведомления юзера, новые первыми.
func (s *NotificationService) GetByUserID(
	ctx context.Context,
	userID int64,
	limit uint,
) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return notifications, nil
}
