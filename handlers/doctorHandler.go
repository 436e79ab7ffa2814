package handlers

import (
	"net/http"

	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/services"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) GetProfile(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), doctor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, profile, http.StatusOK)
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), doctor, in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, profile, http.StatusOK)
}
