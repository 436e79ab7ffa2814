package handlers

import (
	"net/http"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/services"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service *services.LedgerService
}

func NewLedgerHandler(service *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

type ledgerResponse struct {
	Entry   interface{} `json:"entry"`
	Balance int64       `json:"balance"`
}

func (h *LedgerHandler) ChargeTreatment(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.ChargeInput
	if !bindJSON(c, &in) {
		return
	}
	in.DoctorID = doctor
	in.PatientID = c.Param("patient_id")

	treatment, balance, err := h.service.ChargeTreatment(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, ledgerResponse{Entry: treatment, Balance: balance}, http.StatusCreated)
}

func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	in.DoctorID = doctor
	in.PatientID = c.Param("patient_id")

	payment, balance, err := h.service.RecordPayment(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, ledgerResponse{Entry: payment, Balance: balance}, http.StatusCreated)
}

func (h *LedgerHandler) RecordExpense(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var in services.ExpenseInput
	if !bindJSON(c, &in) {
		return
	}
	in.DoctorID = doctor

	expense, err := h.service.RecordExpense(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, expense, http.StatusCreated)
}

// Reconcile answers 200 with the comparison either way; drift is reported
// in the body rather than as an error status.
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	rec, err := h.service.Reconcile(c.Request.Context(), doctor, c.Param("patient_id"))
	if err != nil && (rec == nil || !apperrors.IsConflict(err)) {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, rec, http.StatusOK)
}
