package repoargs

import "github.com/fsdevblog/groph-smm/internal/domain"

type NotificationCreate struct {
	UserID  int64
	Kind    domain.NotificationKind
	Message string
}
