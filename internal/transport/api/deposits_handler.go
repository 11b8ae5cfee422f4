package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DepositsHandler struct {
	depositSvs DepositServicer
}

func NewDepositsHandler(depositSvs DepositServicer) *DepositsHandler {
	return &DepositsHandler{
		depositSvs: depositSvs,
	}
}

type CreateDepositParams struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `binding:"required,max=50"  json:"payment_method"`
	Details       string          `binding:"omitempty,max=500" json:"details"`
}

type DepositResponse struct {
	ID            int64                    `json:"id"`
	Amount        float64                  `json:"amount"`
	PaymentMethod string                   `json:"payment_method"`
	Details       string                   `json:"details,omitempty"`
	Status        domain.DepositStatusType `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
}

func depositResponseFrom(deposit *domain.Deposit) DepositResponse {
	return DepositResponse{
		ID:            deposit.ID,
		Amount:        deposit.Amount.InexactFloat64(),
		PaymentMethod: deposit.PaymentMethod,
		Details:       deposit.Details,
		Status:        deposit.Status,
		CreatedAt:     deposit.CreatedAt,
	}
}

// Create POST RouteGroup + DepositsRoute. Создает заявку на пополнение. Баланс
// изменится только после одобрения заявки админом.
func (h *DepositsHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CreateDepositParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if !params.Amount.IsPositive() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deposit, err := h.depositSvs.Create(reqCtx, repoargs.DepositCreate{
		UserID:        currentUserID,
		Amount:        params.Amount,
		PaymentMethod: params.PaymentMethod,
		Details:       params.Details,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, depositResponseFrom(deposit))
}

// Index GET RouteGroup + DepositsRoute.
func (h *DepositsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deposits, err := h.depositSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(deposits) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]DepositResponse, len(deposits))
	for i, deposit := range deposits {
		response[i] = depositResponseFrom(&deposit)
	}
	c.JSON(http.StatusOK, response)
}
