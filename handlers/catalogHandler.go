package handlers

import (
	"net/http"

	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var body struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	if !bindJSON(c, &body) {
		return
	}

	service, err := h.service.Create(c.Request.Context(), doctor, body.Name, body.Price)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, service, http.StatusCreated)
}

func (h *CatalogHandler) GetServices(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), doctor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, list, http.StatusOK)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), doctor, c.Param("service_id")); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
