package database

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	db          *gorm.DB
	sessionRepo *SessionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		sessionRepo: NewSessionRepo(db),
	}
}

// Connect opens the Postgres database described by settings and checks it answers.
func Connect(settings config.DatabaseSettings) (*gorm.DB, error) {
	if settings.Host == "" || settings.Name == "" {
		return nil, errs.NewBadRequestError("database host and name are required when SESSION_STORE=postgres")
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  settings.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "database", err)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("ping", "database", fmt.Errorf("testing database connection: %w", err))
	}
	return db, nil
}

// Migrate creates or updates the tables the repositories rely on.
func (d Database) Migrate() error {
	if err := d.db.AutoMigrate(&models.SessionEntry{}); err != nil {
		return errs.NewDatabaseError("migrate", "session_entries", err)
	}
	return nil
}

func (d Database) SessionRepo() *SessionRepo {
	return d.sessionRepo
}
