package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CampaignsHandler struct {
	campaignSvs CampaignServicer
}

func NewCampaignsHandler(campaignSvs CampaignServicer) *CampaignsHandler {
	return &CampaignsHandler{
		campaignSvs: campaignSvs,
	}
}

type CreateCampaignParams struct {
	Platform string          `binding:"required,max=50"  json:"platform"`
	Goal     string          `binding:"required,max=100" json:"goal"`
	Budget   decimal.Decimal `json:"budget"`
}

type CampaignResponse struct {
	ID          int64                     `json:"id"`
	Platform    string                    `json:"platform"`
	Goal        string                    `json:"goal"`
	Budget      float64                   `json:"budget"`
	Spend       float64                   `json:"spend"`
	Impressions int64                     `json:"impressions"`
	Clicks      int64                     `json:"clicks"`
	Results     int64                     `json:"results"`
	CTR         float64                   `json:"ctr"`
	CPC         float64                   `json:"cpc"`
	Status      domain.CampaignStatusType `json:"status"`
	StartedAt   *time.Time                `json:"started_at,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func campaignResponseFrom(campaign *domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:          campaign.ID,
		Platform:    campaign.Platform,
		Goal:        campaign.Goal,
		Budget:      campaign.Budget.InexactFloat64(),
		Spend:       campaign.Spend.InexactFloat64(),
		Impressions: campaign.Impressions,
		Clicks:      campaign.Clicks,
		Results:     campaign.Results,
		CTR:         campaign.CTR().InexactFloat64(),
		CPC:         campaign.CPC().InexactFloat64(),
		Status:      campaign.Status,
		StartedAt:   campaign.StartedAt,
		CreatedAt:   campaign.CreatedAt,
	}
}

// Create POST RouteGroup + CampaignsRoute. Создает кампанию в очереди модерации.
func (h *CampaignsHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CreateCampaignParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if !params.Budget.IsPositive() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	campaign, err := h.campaignSvs.Create(reqCtx, service.CreateCampaignArgs{
		UserID:   currentUserID,
		Platform: params.Platform,
		Goal:     params.Goal,
		Budget:   params.Budget,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, campaignResponseFrom(campaign))
}

// Index GET RouteGroup + CampaignsRoute.
func (h *CampaignsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	campaigns, err := h.campaignSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(campaigns) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		response[i] = campaignResponseFrom(&campaign)
	}
	c.JSON(http.StatusOK, response)
}

// Pause POST RouteGroup + CampaignPauseRoute. Остаток бюджета возвращается на рекламный баланс.
func (h *CampaignsHandler) Pause(c *gin.Context) {
	h.changeState(c, h.campaignSvs.Pause)
}

// Resume POST RouteGroup + CampaignResumeRoute. Остаток бюджета резервируется заново.
func (h *CampaignsHandler) Resume(c *gin.Context) {
	h.changeState(c, h.campaignSvs.Resume)
}

func (h *CampaignsHandler) changeState(
	c *gin.Context,
	op func(ctx context.Context, userID, campaignID int64) (*domain.Campaign, error),
) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	campaign, err := op(reqCtx, currentUserID, getIDParam(c))
	if err != nil {
		var stateErr *domain.CampaignStateError
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.As(err, &stateErr):
			_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrNotEnoughAdBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, campaignResponseFrom(campaign))
}
