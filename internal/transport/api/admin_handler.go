package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler объединяет операции модерации: заявки на пополнение, кампании,
// статусы заказов и ценовые оверрайды.
type AdminHandler struct {
	userSvs     UserServicer
	orderSvs    OrderServicer
	campaignSvs CampaignServicer
	depositSvs  DepositServicer
	catalogSvs  CatalogServicer
}

func NewAdminHandler(
	userSvs UserServicer,
	orderSvs OrderServicer,
	campaignSvs CampaignServicer,
	depositSvs DepositServicer,
	catalogSvs CatalogServicer,
) *AdminHandler {
	return &AdminHandler{
		userSvs:     userSvs,
		orderSvs:    orderSvs,
		campaignSvs: campaignSvs,
		depositSvs:  depositSvs,
		catalogSvs:  catalogSvs,
	}
}

type AdminUserResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"login"`
	Balance        float64   `json:"balance"`
	AdBalance      float64   `json:"ad_balance"`
	TotalSpent     float64   `json:"total_spent"`
	Rank           string    `json:"rank"`
	ReferralsCount int64     `json:"referrals_count"`
	AffiliateLevel string    `json:"affiliate_level"`
	CreatedAt      time.Time `json:"created_at"`
}

// Users GET RouteGroup + AdminUsersRoute.
func (h *AdminHandler) Users(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, err := h.userSvs.List(reqCtx, defaultListLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	var response = make([]AdminUserResponse, len(users))
	for i, user := range users {
		response[i] = AdminUserResponse{
			ID:             user.ID,
			Username:       user.Username,
			Balance:        user.Balance.InexactFloat64(),
			AdBalance:      user.AdBalance.InexactFloat64(),
			TotalSpent:     user.TotalSpent.InexactFloat64(),
			Rank:           user.Rank,
			ReferralsCount: user.ReferralsCount,
			AffiliateLevel: user.AffiliateLevel,
			CreatedAt:      user.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}

// PendingDeposits GET RouteGroup + AdminDepositsRoute. Очередь заявок на рассмотрение.
func (h *AdminHandler) PendingDeposits(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deposits, err := h.depositSvs.PendingDeposits(reqCtx, defaultListLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	var response = make([]DepositResponse, len(deposits))
	for i, deposit := range deposits {
		response[i] = depositResponseFrom(&deposit)
	}
	c.JSON(http.StatusOK, response)
}

// AcceptDeposit POST RouteGroup + AdminDepositAcceptRoute. Повторное рассмотрение
// уже рассмотренной заявки вернет 409.
func (h *AdminHandler) AcceptDeposit(c *gin.Context) {
	h.reviewDeposit(c, h.depositSvs.Accept)
}

// RejectDeposit POST RouteGroup + AdminDepositRejectRoute.
func (h *AdminHandler) RejectDeposit(c *gin.Context) {
	h.reviewDeposit(c, h.depositSvs.Reject)
}

func (h *AdminHandler) reviewDeposit(
	c *gin.Context,
	op func(ctx context.Context, depositID int64) (*domain.Deposit, error),
) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deposit, err := op(reqCtx, getIDParam(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrDepositReviewed):
			_ = c.AbortWithError(http.StatusConflict, errors.New("deposit already reviewed")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, depositResponseFrom(deposit))
}

// PendingCampaigns GET RouteGroup + AdminCampaignsRoute. Очередь модерации кампаний.
func (h *AdminHandler) PendingCampaigns(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	campaigns, err := h.campaignSvs.PendingCampaigns(reqCtx, defaultListLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	var response = make([]CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		response[i] = campaignResponseFrom(&campaign)
	}
	c.JSON(http.StatusOK, response)
}

// ApproveCampaign POST RouteGroup + AdminCampaignApproveRoute. При нехватке рекламного
// баланса владельца вернет 402, кампания останется в очереди.
func (h *AdminHandler) ApproveCampaign(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	campaign, err := h.campaignSvs.Approve(reqCtx, getIDParam(c))
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

// RejectCampaign POST RouteGroup + AdminCampaignRejectRoute. Кампания удаляется,
// возврата денег нет, так как на модерации бюджет еще не списан.
func (h *AdminHandler) RejectCampaign(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.campaignSvs.Reject(reqCtx, getIDParam(c)); err != nil {
		var stateErr *domain.CampaignStateError
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.As(err, &stateErr):
			_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.AbortWithStatus(http.StatusOK)
}

type OrderStatusParams struct {
	Status     domain.OrderStatusType `binding:"required" json:"status"`
	StartCount int64                  `json:"start_count"`
	Remains    int64                  `json:"remains"`
}

// UpdateOrderStatus POST RouteGroup + AdminOrderStatusRoute. Меняет статус заказа и
// счетчики выполнения. Сумма списания при этом не пересчитывается.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var params OrderStatusParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if !params.Status.Valid() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderSvs.UpdateStatus(reqCtx, repoargs.OrderStatusUpdate{
		OrderID:    getIDParam(c),
		Status:     params.Status,
		StartCount: params.StartCount,
		Remains:    params.Remains,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, orderResponseFrom(order))
}

type ServicePriceParams struct {
	Price decimal.Decimal `json:"price"`
}

// SetServicePrice PUT RouteGroup + AdminServicePriceRoute. Оверрайд применяется
// только к будущим заказам.
func (h *AdminHandler) SetServicePrice(c *gin.Context) {
	var params ServicePriceParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if !params.Price.IsPositive() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogSvs.SetOverride(reqCtx, getIDParam(c), params.Price); err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.AbortWithStatus(http.StatusOK)
}

// RemoveServicePrice DELETE RouteGroup + AdminServicePriceRoute. Услуга возвращается
// к цене каталога.
func (h *AdminHandler) RemoveServicePrice(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogSvs.RemoveOverride(reqCtx, getIDParam(c)); err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.AbortWithStatus(http.StatusOK)
}
