package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/service"
	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type PlaceOrderParams struct {
	ServiceID int64  `binding:"required"         json:"service_id"`
	Link      string `binding:"required,max=500" json:"link"`
	Quantity  int64  `binding:"required,min=1"   json:"quantity"`
}

type OrderResponse struct {
	ID          int64                  `json:"id"`
	ServiceID   int64                  `json:"service_id"`
	ServiceName string                 `json:"service_name"`
	Link        string                 `json:"link"`
	Quantity    int64                  `json:"quantity"`
	Charge      float64                `json:"charge"`
	StartCount  int64                  `json:"start_count"`
	Remains     int64                  `json:"remains"`
	Status      domain.OrderStatusType `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
}

type PromotionResponse struct {
	Rank  string  `json:"rank"`
	Bonus float64 `json:"bonus"`
}

func orderResponseFrom(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		ServiceID:   order.ServiceID,
		ServiceName: order.ServiceName,
		Link:        order.Link,
		Quantity:    order.Quantity,
		Charge:      order.Charge.InexactFloat64(),
		StartCount:  order.StartCount,
		Remains:     order.Remains,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}
}

// Create POST RouteGroup + OrdersRoute. Размещает заказ. Если заказ поднял ранг юзера,
// в ответе дополнительно вернется поле promotion.
func (o *OrdersHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params PlaceOrderParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, promotion, placeErr := o.orderSvs.Place(reqCtx, service.PlaceOrderArgs{
		UserID:    currentUserID,
		ServiceID: params.ServiceID,
		Link:      params.Link,
		Quantity:  params.Quantity,
	})
	if placeErr != nil {
		var quantityErr *domain.QuantityRangeError
		switch {
		case errors.Is(placeErr, domain.ErrServiceNotFound):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, placeErr).SetType(gin.ErrorTypePublic)
		case errors.As(placeErr, &quantityErr):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, placeErr).SetType(gin.ErrorTypePublic)
		case errors.Is(placeErr, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, placeErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	response := gin.H{"order": orderResponseFrom(order)}
	if promotion != nil {
		response["promotion"] = PromotionResponse{
			Rank:  promotion.Rank,
			Bonus: promotion.Bonus.InexactFloat64(),
		}
	}
	c.JSON(http.StatusCreated, response)
}

// Index GET RouteGroup + OrdersRoute.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()
	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = orderResponseFrom(&order)
	}

	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + OrderRoute. Возвращает заказ, только если он принадлежит
// текущему юзеру.
func (o *OrdersHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.FindForUser(reqCtx, currentUserID, getIDParam(c))
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
