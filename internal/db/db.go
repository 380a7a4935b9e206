package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/config"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Log.Info("connected to postgres")
	return db, nil
}

// Migrate creates or updates the schema, including the partial unique
// indexes declared on the models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.City{},
		&models.Patient{},
		&models.Consultation{},
		&models.ConsultationPatient{},
		&models.AuditLog{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
