package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	actionplanadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/adapters"
	assessmentadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/adapters"
	multiplesadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/adapters"
	valuationadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/adapters"
)

// Config holds database connection settings. When InstanceName is set the
// connection goes through the Cloud SQL unix socket and Host/Port are ignored.
type Config struct {
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string
}

// LoadConfigFromEnv reads database settings from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN builds a PostgreSQL DSN from the config.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// Opener opens a gorm connection for a DSN. Injected so tests can stub the
// actual driver.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry keeps retrying the connection until it succeeds or the
// timeout elapses. Cloud SQL sidecars come up after the app container, so the
// first attempts routinely fail.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

func gormOpen(dsn string) (*gorm.DB, error) {
	return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
}

// OpenDB connects to PostgreSQL using environment configuration and runs
// migrations when RUN_MIGRATIONS=true.
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, gormOpen)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

// Migrate applies the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	return db.AutoMigrate(
		&multiplesadapters.IndustryMultipleModel{},
		&assessmentadapters.QuestionModel{},
		&assessmentadapters.OptionModel{},
		&assessmentadapters.ResponseModel{},
		&valuationadapters.CompanyModel{},
		&valuationadapters.CoreFactorsModel{},
		&valuationadapters.CategoryAdjustmentModel{},
		&valuationadapters.SnapshotModel{},
		&valuationadapters.LedgerEntryModel{},
		&actionplanadapters.TaskModel{},
	)
}
