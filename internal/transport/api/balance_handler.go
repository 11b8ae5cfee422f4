package api

import (
	"context"
	"errors"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"net/http"
)

type BalanceHandler struct {
	svs UserServicer
}

func NewBalanceHandler(svs UserServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	Balance    float64 `json:"balance"`
	AdBalance  float64 `json:"ad_balance"`
	TotalSpent float64 `json:"total_spent"`
	Rank       string  `json:"rank"`
}

func balanceResponseFrom(user *domain.User) *BalanceResponse {
	return &BalanceResponse{
		Balance:    user.Balance.InexactFloat64(),
		AdBalance:  user.AdBalance.InexactFloat64(),
		TotalSpent: user.TotalSpent.InexactFloat64(),
		Rank:       user.Rank,
	}
}

// Index GET RouteGroup + BalanceRoute. Оба кошелька, пожизненные траты и ранг.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := b.svs.GetByID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, balanceResponseFrom(user))
}

type TransferParams struct {
	Amount decimal.Decimal `json:"amount"`
}

// Transfer POST RouteGroup + BalanceTransferRoute. Перевод с основного баланса на рекламный.
func (b *BalanceHandler) Transfer(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TransferParams
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

	user, err := b.svs.TransferToAdBalance(reqCtx, currentUserID, params.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, balanceResponseFrom(user))
}
