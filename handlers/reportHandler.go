package handlers

import (
	"net/http"
	"time"

	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func period(c *gin.Context) (services.Period, bool) {
	p, err := services.ParsePeriod(c.DefaultQuery("period", string(services.PeriodMonth)))
	if err != nil {
		middlewares.RespondError(c, err)
		return "", false
	}
	return p, true
}

// GetSummary takes either ?period= or an explicit ?from=&to= pair in RFC 3339.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}

	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			middlewares.HttpError(c, "Invalid from timestamp", http.StatusBadRequest, err)
			return
		}
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			middlewares.HttpError(c, "Invalid to timestamp", http.StatusBadRequest, err)
			return
		}
		summary, err := h.service.SummaryFor(c.Request.Context(), doctor, services.Interval{Start: start, End: end})
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		middlewares.RespondJSON(c, summary, http.StatusOK)
		return
	}

	p, ok := period(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), doctor, p)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, summary, http.StatusOK)
}

func (h *ReportHandler) GetDaily(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	p, ok := period(c)
	if !ok {
		return
	}
	days, err := h.service.Daily(c.Request.Context(), doctor, p)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, days, http.StatusOK)
}

func (h *ReportHandler) GetTransactions(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	p, ok := period(c)
	if !ok {
		return
	}
	var typ models.TransactionType
	if raw := c.Query("type"); raw != "" {
		t, err := models.ParseTransactionType(raw)
		if err != nil {
			middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
			return
		}
		typ = t
	}
	txs, err := h.service.Transactions(c.Request.Context(), doctor, p, typ)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, txs, http.StatusOK)
}
