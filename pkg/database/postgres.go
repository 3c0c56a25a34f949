package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
)

// New connects to Postgres and migrates the registry schema.
func New(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	// TranslateError maps driver errors (e.g. Postgres 23505) onto
	// gorm.ErrDuplicatedKey so handlers can classify conflicts.
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema for all registry collections.
// SystemLimits is intentionally not seeded here: the limits service
// creates the singleton lazily from live counts on the first check.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Member{},
		&models.Certificate{},
		&models.Payment{},
		&models.SystemLimits{},
	)
}
