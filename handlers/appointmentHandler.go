package handlers

import (
	"net/http"
	"time"

	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/services"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.AppointmentInput
	if !bindJSON(c, &in) {
		return
	}
	in.DoctorID = doctor
	in.PatientID = c.Param("patient_id")

	appointment, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusCreated)
}

func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	appointments, err := h.service.ListForPatient(c.Request.Context(), doctor, c.Param("patient_id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusOK)
}

// GetAppointmentsForDay lists ?date=YYYY-MM-DD, today when absent.
func (h *AppointmentHandler) GetAppointmentsForDay(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}

	var (
		appointments interface{}
		err          error
	)
	if raw := c.Query("date"); raw != "" {
		day, perr := time.Parse(time.DateOnly, raw)
		if perr != nil {
			middlewares.HttpError(c, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest, perr)
			return
		}
		appointments, err = h.service.ListForDay(c.Request.Context(), doctor, day)
	} else {
		appointments, err = h.service.Today(c.Request.Context(), doctor)
	}
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusOK)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), doctor, c.Param("appointment_id"), body.Status)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), doctor, c.Param("appointment_id")); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
