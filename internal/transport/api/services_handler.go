package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/gin-gonic/gin"
)

type ServicesHandler struct {
	catalogSvs CatalogServicer
}

func NewServicesHandler(catalogSvs CatalogServicer) *ServicesHandler {
	return &ServicesHandler{
		catalogSvs: catalogSvs,
	}
}

type ServiceResponse struct {
	ID       int64   `json:"service"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Platform string  `json:"platform"`
	Price    float64 `json:"rate"`
	Min      int64   `json:"min"`
	Max      int64   `json:"max"`
}

func serviceResponseFrom(svc *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:       svc.ID,
		Name:     svc.Name,
		Category: svc.Category,
		Platform: svc.Platform,
		Price:    svc.Price.InexactFloat64(),
		Min:      svc.Min,
		Max:      svc.Max,
	}
}

// Index GET RouteGroup + ServicesRoute. Каталог услуг с актуальными ценами.
func (h *ServicesHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	services, err := h.catalogSvs.Merged(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	var response = make([]ServiceResponse, len(services))
	for i, svc := range services {
		response[i] = serviceResponseFrom(&svc)
	}
	c.JSON(http.StatusOK, response)
}
