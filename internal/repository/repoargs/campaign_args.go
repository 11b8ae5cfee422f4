package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/shopspring/decimal"
)

type CampaignCreate struct {
	UserID   int64
	Platform string
	Goal     string
	Budget   decimal.Decimal
}

// CampaignStateUpdate смена статуса кампании. StartedAt выставляется только
// при переходе в active.
type CampaignStateUpdate struct {
	CampaignID int64
	Status     domain.CampaignStatusType
	StartedAt  *time.Time
}

// CampaignMetricsUpdate абсолютные значения счетчиков открутки. Статус передается
// вместе с метриками, чтобы достижение бюджета и completed записывались одной командой.
type CampaignMetricsUpdate struct {
	CampaignID  int64
	Spend       decimal.Decimal
	Impressions int64
	Clicks      int64
	Results     int64
	Status      domain.CampaignStatusType
}
