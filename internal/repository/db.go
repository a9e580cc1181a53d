package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/pkg/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and locates the database.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
}

type GormDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(opts Options, logger *logger.Logger) (*GormDB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			opts.PostgresHost, opts.PostgresUser, opts.PostgresPassword, opts.PostgresDB, opts.PostgresPort)
		dialector = postgres.Open(dsn)
	case DriverSQLite, "":
		dialector = sqlite.Open(opts.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	return NewFromDialector(dialector, logger)
}

// NewFromDialector opens a database through an already built GORM dialector.
func NewFromDialector(dialector gorm.Dialector, logger *logger.Logger) (*GormDB, error) {
	// Skip "record not found" noise.
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialector.Name(), err)
	}

	if dialector.Name() == DriverSQLite {
		// SQLite allows one writer; a single connection serializes transactions instead of
		// failing them with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Payment{}, &models.Admin{}, &models.Setting{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	logger.Info("Connected to database", "driver", dialector.Name())
	return &GormDB{Conn: db, logger: logger}, nil
}

func (db *GormDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (db *GormDB) Transaction(ctx context.Context, fn func(repo models.Repository) error) error {
	return db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormDB{Conn: tx, logger: db.logger})
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
