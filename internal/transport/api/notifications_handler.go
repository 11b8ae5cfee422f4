package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct {
	notificationSvs NotificationServicer
}

func NewNotificationsHandler(notificationSvs NotificationServicer) *NotificationsHandler {
	return &NotificationsHandler{
		notificationSvs: notificationSvs,
	}
}

type NotificationResponse struct {
	ID        int64                   `json:"id"`
	Kind      domain.NotificationKind `json:"kind"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"created_at"`
}

// Index GET RouteGroup + NotificationsRoute. Уведомления юзера, новые первыми.
func (h *NotificationsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	notifications, err := h.notificationSvs.GetByUserID(reqCtx, currentUserID, defaultListLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(notifications) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]NotificationResponse, len(notifications))
	for i, notification := range notifications {
		response[i] = NotificationResponse{
			ID:        notification.ID,
			Kind:      notification.Kind,
			Message:   notification.Message,
			CreatedAt: notification.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
