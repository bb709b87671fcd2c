package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	ErrAttemptNotFound = errors.New("checkout attempt not found")
	ErrDuplicateKey    = errors.New("idempotency key already used")
)

// Repository stores checkout attempts and their outbox events. Driver is
// "postgres" in production and "sqlite" in tests; the SQL is written to
// work on both.
type Repository struct {
	db     *sql.DB
	driver string
}

func New(driver, dsn string) (*Repository, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "postgres" {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
	}

	return &Repository{db: db, driver: driver}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	var (
		m   *migrate.Migrate
		err error
	)

	switch r.driver {
	case "postgres":
		driver, errDriver := migratepg.WithInstance(r.db, &migratepg.Config{})
		if errDriver != nil {
			return fmt.Errorf("could not create migration driver: %w", errDriver)
		}
		m, err = migrate.NewWithDatabaseInstance(
			fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	case "sqlite":
		driver, errDriver := migratesqlite.WithInstance(r.db, &migratesqlite.Config{})
		if errDriver != nil {
			return fmt.Errorf("could not create migration driver: %w", errDriver)
		}
		m, err = migrate.NewWithDatabaseInstance(
			fmt.Sprintf("file://%s", migrationsPath), "sqlite", driver)
	default:
		return fmt.Errorf("unsupported database driver %q", r.driver)
	}
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if errUp := m.Up(); errUp != nil && !errors.Is(errUp, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", errUp)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
