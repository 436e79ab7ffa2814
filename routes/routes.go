package routes

import (
	"net/http"
	"time"

	"github.com/diyorbekkd/thDent/cache"
	"github.com/diyorbekkd/thDent/config"
	"github.com/diyorbekkd/thDent/controllers"
	"github.com/diyorbekkd/thDent/handlers"
	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/notifications"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/services"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the infrastructure pieces chosen at startup. Cache may be
// nil; Locker, Notifier and Clock fall back to in-process defaults.
type Dependencies struct {
	Store    repositories.Store
	Cache    *cache.Cache
	Locker   services.Locker
	Notifier notifications.Notifier
	Clock    utils.Clock
}

// Services is the business layer built over Dependencies.
type Services struct {
	Patients     *services.PatientService
	Ledger       *services.LedgerService
	Charts       *services.ChartService
	Reports      *services.ReportService
	Appointments *services.AppointmentService
	Catalog      *services.CatalogService
	Doctors      *services.DoctorService
}

func NewServices(cfg *config.AppConfig, deps Dependencies) *Services {
	clock := deps.Clock
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Services{
		Patients: services.NewPatientService(deps.Store, clock, deps.Cache),
		Ledger:   services.NewLedgerService(deps.Store, deps.Locker, clock, deps.Notifier, deps.Cache),
		Charts:   services.NewChartService(deps.Store),
		Reports: services.NewReportService(deps.Store, clock, services.SummaryOptions{
			TopN:         cfg.Report.TopN,
			EndExclusive: cfg.Report.EndExclusive,
		}),
		Appointments: services.NewAppointmentService(deps.Store, clock),
		Catalog:      services.NewCatalogService(deps.Store, clock),
		Doctors:      services.NewDoctorService(deps.Store, clock),
	}
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cfg *config.AppConfig, deps Dependencies, svc *Services) http.Handler {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	clock := deps.Clock
	if clock == nil {
		clock = utils.SystemClock
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(cfg.CorsOrigins)))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
		IdleTTL:           10 * time.Minute,
	}))

	// Apply Bearer token validation to everything but the health check
	router.Use(middlewares.ValidateBearerToken(cfg.GetBearerToken(), controllers.HealthPath))

	controllers.SetupRootRoute(router, deps.Store)

	symmetricKey := []byte(cfg.SymmetricKey)
	authController := controllers.NewAuthController(handlers.NewAuthHandler(symmetricKey, clock))
	authController.RegisterRoutes(router)

	clinic := router.Group("/api")
	clinic.Use(middlewares.ClinicianAuth(symmetricKey, clock))
	controllers.SetupClinicRoutes(clinic, controllers.ClinicHandlers{
		Patients:     handlers.NewPatientHandler(svc.Patients, svc.Charts),
		Ledger:       handlers.NewLedgerHandler(svc.Ledger),
		Reports:      handlers.NewReportHandler(svc.Reports),
		Appointments: handlers.NewAppointmentHandler(svc.Appointments),
		Catalog:      handlers.NewCatalogHandler(svc.Catalog),
		Doctors:      handlers.NewDoctorHandler(svc.Doctors),
	})

	return router
}
