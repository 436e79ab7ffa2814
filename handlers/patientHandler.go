package handlers

import (
	"net/http"
	"strconv"

	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/services"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
	charts  *services.ChartService
}

func NewPatientHandler(service *services.PatientService, charts *services.ChartService) *PatientHandler {
	return &PatientHandler{service: service, charts: charts}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.PatientInput
	if !bindJSON(c, &in) {
		return
	}
	in.DoctorID = doctor

	patient, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusCreated)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patient, err := h.service.Get(c.Request.Context(), doctor, c.Param("patient_id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patients, err := h.service.List(c.Request.Context(), doctor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patients, http.StatusOK)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.PatientInput
	if !bindJSON(c, &in) {
		return
	}

	patient, err := h.service.Update(c.Request.Context(), doctor, c.Param("patient_id"), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

// DeletePatient removes the patient and all related records.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), doctor, c.Param("patient_id")); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PatientHandler) GetPatientHistory(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	history, err := h.service.History(c.Request.Context(), doctor, c.Param("patient_id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, history, http.StatusOK)
}

func (h *PatientHandler) GetPatientChart(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	chart, err := h.charts.PatientChart(c.Request.Context(), doctor, c.Param("patient_id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, chart, http.StatusOK)
}

func (h *PatientHandler) GetToothHistory(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	tooth, err := strconv.Atoi(c.Param("tooth"))
	if err != nil {
		middlewares.HttpError(c, "Invalid tooth number", http.StatusBadRequest, err)
		return
	}
	history, err := h.charts.ToothHistory(c.Request.Context(), doctor, c.Param("patient_id"), tooth)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, history, http.StatusOK)
}
