package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"artshare/internal/config"
	"artshare/internal/database/migrations"
)

type MethodsDB interface {
	CloseDB() error
	RunMigrations(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	GetDB() *DB
}

type DB struct {
	*sqlx.DB
	dialect string
}

// gooseUpContext is swapped in tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// driverFor maps a session store kind to the sqlx driver name and the goose
// dialect.
func driverFor(store string) (driver, dialect string, err error) {
	switch store {
	case config.SessionStorePostgres:
		return "postgres", "postgres", nil
	case config.SessionStoreSQLite:
		return "sqlite", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("session store %q has no database", store)
	}
}

func dataSource(cfg *config.Config) string {
	if cfg.Session.Store == config.SessionStoreSQLite {
		return cfg.Session.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.DbHOST,
		cfg.DB.DbPORT,
		cfg.DB.DbUSER,
		cfg.DB.DbPASSWORD,
		cfg.DB.DbNAME,
		cfg.DB.DbSSLMODE,
	)
}

// ConnectDB opens the session database for the configured store and applies
// the embedded migrations.
func ConnectDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*DB, error) {
	driver, dialect, err := driverFor(cfg.Session.Store)
	if err != nil {
		return nil, err
	}

	if driver == "postgres" {
		logger.Info("connecting to session database",
			zap.String("driver", driver),
			zap.String("host", cfg.DB.DbHOST),
			zap.String("dbname", cfg.DB.DbNAME))
	} else {
		logger.Info("opening session database",
			zap.String("driver", driver),
			zap.String("path", cfg.Session.SQLitePath))
	}

	db, err := sqlx.ConnectContext(ctx, driver, dataSource(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}

	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	dbStruct := &DB{DB: db, dialect: dialect}

	if err := dbStruct.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("session database health check failed: %w", err)
	}

	logger.Info("session database ready", zap.String("driver", driver))
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(db.dialect); err != nil {
		return fmt.Errorf("unsupported migration dialect %q: %w", db.dialect, err)
	}
	goose.SetLogger(goose.NopLogger())

	if err := gooseUpContext(ctx, db.DB.DB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.PingContext(ctx)
}

func (db *DB) GetDB() *DB {
	return db
}
