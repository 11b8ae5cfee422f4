package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/service"
	"github.com/gin-gonic/gin"
)

// IntegrationHandler обслуживает машинный API (POST RouteGroup + IntegrationRoute)
// для внешних реселлеров. Авторизация по api-ключу в параметрах запроса, формат
// ответов повторяет де-факто стандарт SMM-панелей: ошибки всегда приходят телом
// {"error": reason}.
type IntegrationHandler struct {
	userSvs    UserServicer
	orderSvs   OrderServicer
	catalogSvs CatalogServicer
}

func NewIntegrationHandler(userSvs UserServicer, orderSvs OrderServicer, catalogSvs CatalogServicer) *IntegrationHandler {
	return &IntegrationHandler{
		userSvs:    userSvs,
		orderSvs:   orderSvs,
		catalogSvs: catalogSvs,
	}
}

type IntegrationParams struct {
	Key      string `form:"key"      json:"key"`
	Action   string `form:"action"   json:"action"`
	Service  int64  `form:"service"  json:"service"`
	Link     string `form:"link"     json:"link"`
	Quantity int64  `form:"quantity" json:"quantity"`
	Order    int64  `form:"order"    json:"order"`
}

const integrationCurrency = "USD"

// Handle единая точка входа интеграционного API. Действие выбирается параметром action.
func (h *IntegrationHandler) Handle(c *gin.Context) {
	var params IntegrationParams
	if bindErr := c.ShouldBind(&params); bindErr != nil {
		integrationError(c, "Invalid request")
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, userErr := h.userSvs.GetByAPIKey(reqCtx, params.Key)
	if userErr != nil {
		integrationError(c, "Invalid API key")
		return
	}

	switch params.Action {
	case "services":
		h.services(c, reqCtx)
	case "add":
		h.add(c, reqCtx, user, params)
	case "status":
		h.status(c, reqCtx, user, params)
	case "balance":
		c.JSON(http.StatusOK, gin.H{
			"balance":  user.Balance.StringFixed(2),
			"currency": integrationCurrency,
		})
	default:
		integrationError(c, "Incorrect action")
	}
}

func (h *IntegrationHandler) services(c *gin.Context, ctx context.Context) {
	services, err := h.catalogSvs.Merged(ctx)
	if err != nil {
		integrationError(c, "Internal error")
		return
	}

	var response = make([]ServiceResponse, len(services))
	for i, svc := range services {
		response[i] = serviceResponseFrom(&svc)
	}
	c.JSON(http.StatusOK, response)
}

func (h *IntegrationHandler) add(c *gin.Context, ctx context.Context, user *domain.User, params IntegrationParams) {
	order, _, err := h.orderSvs.Place(ctx, service.PlaceOrderArgs{
		UserID:    user.ID,
		ServiceID: params.Service,
		Link:      params.Link,
		Quantity:  params.Quantity,
	})
	if err != nil {
		var quantityErr *domain.QuantityRangeError
		switch {
		case errors.Is(err, domain.ErrServiceNotFound):
			integrationError(c, "Incorrect service ID")
		case errors.As(err, &quantityErr):
			integrationError(c, "Incorrect quantity")
		case errors.Is(err, domain.ErrNotEnoughBalance):
			integrationError(c, "Not enough funds")
		default:
			integrationError(c, "Internal error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order.ID})
}

func (h *IntegrationHandler) status(c *gin.Context, ctx context.Context, user *domain.User, params IntegrationParams) {
	order, err := h.orderSvs.FindForUser(ctx, user.ID, params.Order)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			integrationError(c, "Incorrect order ID")
			return
		}
		integrationError(c, "Internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"charge":      order.Charge.StringFixed(2),
		"start_count": strconv.FormatInt(order.StartCount, 10),
		"status":      order.Status,
		"remains":     strconv.FormatInt(order.Remains, 10),
		"currency":    integrationCurrency,
	})
}

// integrationError ответ с ошибкой в формате интеграционного API. Статус всегда 200,
// клиенты этого протокола различают успех по наличию поля error.
func integrationError(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"error": reason})
}
