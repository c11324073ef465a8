package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Database struct {
	DB     *gorm.DB
	Driver string
}

// Options tweaks how the connection is opened.
type Options struct {
	LogLevel logger.LogLevel
}

// NewDatabase opens the configured store and migrates the book, auther and notes tables.
func NewDatabase(cfg config.Database) (*Database, error) {
	return NewDatabaseWithOptions(cfg, Options{LogLevel: logger.Warn})
}

func NewDatabaseWithOptions(cfg config.Database, opts Options) (*Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Book{},
		&entities.Note{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", dialector.Name())

	return &Database{DB: db, Driver: dialector.Name()}, nil
}

// Dialector picks the gorm dialector for the configured driver.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverSQLite, "sqlite3":
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is required for sqlite")
		}
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	case DriverPostgres, "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database DSN is required for postgres")
		}
		return postgres.Open(cfg.DSN), nil
	case DriverMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database DSN is required for mysql")
		}
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN turns on foreign key enforcement for every pooled connection.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the store is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
