package controllers

import (
	"github.com/diyorbekkd/thDent/handlers"

	"github.com/gin-gonic/gin"
)

// ClinicHandlers groups the handlers mounted under the clinician group.
type ClinicHandlers struct {
	Patients     *handlers.PatientHandler
	Ledger       *handlers.LedgerHandler
	Reports      *handlers.ReportHandler
	Appointments *handlers.AppointmentHandler
	Catalog      *handlers.CatalogHandler
	Doctors      *handlers.DoctorHandler
}

func SetupClinicRoutes(router gin.IRoutes, h ClinicHandlers) {
	router.GET("/profile", h.Doctors.GetProfile)
	router.PUT("/profile", h.Doctors.UpdateProfile)

	router.POST("/patients", h.Patients.CreatePatient)
	router.GET("/patients", h.Patients.GetAllPatients)
	router.GET("/patients/:patient_id", h.Patients.GetPatientByID)
	router.PUT("/patients/:patient_id", h.Patients.UpdatePatient)
	router.DELETE("/patients/:patient_id", h.Patients.DeletePatient)
	router.GET("/patients/:patient_id/history", h.Patients.GetPatientHistory)
	router.GET("/patients/:patient_id/chart", h.Patients.GetPatientChart)
	router.GET("/patients/:patient_id/chart/:tooth", h.Patients.GetToothHistory)

	router.POST("/patients/:patient_id/treatments", h.Ledger.ChargeTreatment)
	router.POST("/patients/:patient_id/payments", h.Ledger.RecordPayment)
	router.GET("/patients/:patient_id/reconcile", h.Ledger.Reconcile)
	router.POST("/expenses", h.Ledger.RecordExpense)

	router.POST("/patients/:patient_id/appointments", h.Appointments.CreateAppointment)
	router.GET("/patients/:patient_id/appointments", h.Appointments.GetPatientAppointments)
	router.GET("/appointments", h.Appointments.GetAppointmentsForDay)
	router.PUT("/appointments/:appointment_id/status", h.Appointments.UpdateAppointmentStatus)
	router.DELETE("/appointments/:appointment_id", h.Appointments.DeleteAppointment)

	router.GET("/reports/summary", h.Reports.GetSummary)
	router.GET("/reports/daily", h.Reports.GetDaily)
	router.GET("/reports/transactions", h.Reports.GetTransactions)

	router.POST("/services", h.Catalog.CreateService)
	router.GET("/services", h.Catalog.GetServices)
	router.DELETE("/services/:service_id", h.Catalog.DeleteService)
}
