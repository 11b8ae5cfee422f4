package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
)

type NotificationRepository struct {
	conn uow.DBTX
}

func NewNotificationRepository(conn uow.DBTX) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

func (n *NotificationRepository) Create(
	ctx context.Context,
	args repoargs.NotificationCreate,
) (*domain.Notification, error) {
	var notification domain.Notification
	err := n.conn.QueryRow(ctx, `
		INSERT INTO notifications (user_id, kind, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, user_id, kind, message`,
		args.UserID, args.Kind, args.Message,
	).Scan(
		&notification.ID, &notification.CreatedAt, &notification.UserID,
		&notification.Kind, &notification.Message,
	)
	if err != nil {
		return nil, convertErr(err, "creating notification for user %d", args.UserID)
	}
	return &notification, nil
}

func (n *NotificationRepository) GetByUserID(
	ctx context.Context,
	userID int64,
	limit uint,
) ([]domain.Notification, error) {
	safeLimit, limitErr := safeConvertUintToInt32(limit)
	if limitErr != nil {
		return nil, convertErr(limitErr, "converting limit to int32")
	}
	rows, err := n.conn.Query(ctx, `
		SELECT id, created_at, user_id, kind, message
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, safeLimit)
	if err != nil {
		return nil, convertErr(err, "getting notifications for user %d", userID)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if scanErr := rows.Scan(
			&notification.ID, &notification.CreatedAt, &notification.UserID,
			&notification.Kind, &notification.Message,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning notification row")
		}
		notifications = append(notifications, notification)
	}
	return notifications, convertErr(rows.Err(), "getting notifications for user %d", userID)
}
