package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/config"
	domainConsultation "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/handlers"
	infraRepo "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/infra/repository"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/middleware"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/timezone"
	ucCity "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/city"
	ucConsultation "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/consultation"
	ucPatient "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/patient"
)

// Deps are the singletons built once in main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Notes  domainConsultation.NotesStore
	Cache  ucConsultation.DayCache
	Photos ucPatient.PhotoStore
	Audit  *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	consultationRepo := infraRepo.NewConsultationGormRepository(deps.DB)
	patientRepo := infraRepo.NewPatientGormRepository(deps.DB)
	cityRepo := infraRepo.NewCityGormRepository(deps.DB)

	clock := timezone.NewClock(deps.Config.ClinicTimezone)

	// ======================================================
	// HANDLERS
	// ======================================================
	consultationHandler := handlers.NewConsultationHandler(
		ucConsultation.NewInsertConsultation(consultationRepo, deps.Notes, deps.Cache, deps.Audit),
		ucConsultation.NewUpdateConsultation(consultationRepo, deps.Cache, deps.Audit),
		ucConsultation.NewDeleteConsultation(consultationRepo, deps.Notes, deps.Cache, deps.Audit),
		ucConsultation.NewGetConsultation(consultationRepo),
		ucConsultation.NewListConsultationsByDate(consultationRepo, deps.Cache),
		ucConsultation.NewOpenNotes(consultationRepo, deps.Notes),
	)

	patientHandler := handlers.NewPatientHandler(
		ucPatient.NewCreatePatient(patientRepo, clock, deps.Audit),
		ucPatient.NewUpdatePatient(patientRepo, clock, deps.Audit),
		ucPatient.NewDeletePatient(patientRepo, deps.Cache, deps.Audit),
		ucPatient.NewGetPatient(patientRepo),
		ucPatient.NewListPatients(patientRepo),
		ucPatient.NewSetPatientPhoto(patientRepo, deps.Photos, deps.Audit),
		ucPatient.NewRemovePatientPhoto(patientRepo, deps.Photos, deps.Audit),
	)

	cityHandler := handlers.NewCityHandler(
		ucCity.NewCreateCity(cityRepo, deps.Audit),
		ucCity.NewUpdateCity(cityRepo, deps.Audit),
		ucCity.NewDeleteCity(cityRepo, deps.Audit),
		ucCity.NewGetCity(cityRepo),
		ucCity.NewListCities(cityRepo),
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

	// ======================================================
	// HEALTH
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// CONSULTATIONS
		// ------------------------------
		api.POST("/consultations", consultationHandler.Create)
		api.GET("/consultations", consultationHandler.ListByDate)
		api.GET("/consultations/:id", consultationHandler.Get)
		api.PUT("/consultations/:id", consultationHandler.Update)
		api.DELETE("/consultations/:id", consultationHandler.Delete)
		api.GET("/consultations/:id/notes", consultationHandler.OpenNotes)

		// ------------------------------
		// PATIENTS
		// ------------------------------
		api.POST("/patients", patientHandler.Create)
		api.GET("/patients", patientHandler.List)
		api.GET("/patients/:id", patientHandler.Get)
		api.PUT("/patients/:id", patientHandler.Update)
		api.DELETE("/patients/:id", patientHandler.Delete)
		api.PUT("/patients/:id/photo", patientHandler.SetPhoto)
		api.DELETE("/patients/:id/photo", patientHandler.RemovePhoto)

		// ------------------------------
		// CITIES
		// ------------------------------
		api.POST("/cities", cityHandler.Create)
		api.GET("/cities", cityHandler.List)
		api.GET("/cities/:id", cityHandler.Get)
		api.PUT("/cities/:id", cityHandler.Update)
		api.DELETE("/cities/:id", cityHandler.Delete)

		api.GET("/audit-logs", auditLogsHandler.List)
	}
}
