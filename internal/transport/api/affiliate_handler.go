package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AffiliateHandler struct {
	affiliateSvs AffiliateServicer
}

func NewAffiliateHandler(affiliateSvs AffiliateServicer) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateSvs: affiliateSvs,
	}
}

type AffiliateSummaryResponse struct {
	ReferralCode      string  `json:"referral_code"`
	ReferralsCount    int64   `json:"referrals_count"`
	Level             string  `json:"level"`
	CommissionPercent float64 `json:"commission_percent"`
	Earnings          float64 `json:"earnings"`
}

// Summary GET RouteGroup + AffiliateRoute. Сводка партнерской программы.
func (h *AffiliateHandler) Summary(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	summary, err := h.affiliateSvs.Summary(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, AffiliateSummaryResponse{
		ReferralCode:      summary.ReferralCode,
		ReferralsCount:    summary.ReferralsCount,
		Level:             summary.Level,
		CommissionPercent: summary.CommissionPercent.InexactFloat64(),
		Earnings:          summary.Earnings.InexactFloat64(),
	})
}

type AffiliateTransactionResponse struct {
	ID         int64   `json:"id"`
	ReferredID int64   `json:"referred_id"`
	OrderID    int64   `json:"order_id"`
	Amount     float64 `json:"amount"`
	Level      string  `json:"level"`
	CreatedAt  string  `json:"created_at"`
}

// Transactions GET RouteGroup + AffiliateTxsRoute. Журнал начислений, новые первыми.
func (h *AffiliateHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.affiliateSvs.Transactions(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]AffiliateTransactionResponse, len(transactions))
	for i, transaction := range transactions {
		response[i] = AffiliateTransactionResponse{
			ID:         transaction.ID,
			ReferredID: transaction.ReferredID,
			OrderID:    transaction.OrderID,
			Amount:     transaction.Amount.InexactFloat64(),
			Level:      transaction.Level,
			CreatedAt:  transaction.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, response)
}
