package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/config"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

// Connect opens the Postgres connection and runs migrations. Unlike a
// hard-fail connect, the error is returned so the caller can degrade to
// the in-memory fallback store instead of exiting.
func Connect(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Application{},
		&models.SubmissionRecord{},
		&models.UserData{},
		&models.PlatformCredential{},
	); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Probe returns a connectivity check over the underlying sql.DB. The
// record-store router consults it per call, so a store that comes back
// mid-flight is picked up without a restart.
func Probe(db *gorm.DB) func() bool {
	if db == nil {
		return func() bool { return false }
	}
	sqlDB, err := db.DB()
	if err != nil {
		return func() bool { return false }
	}
	return func() bool {
		return sqlDB.Ping() == nil
	}
}
