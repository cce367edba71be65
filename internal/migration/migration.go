// Package migration brings the schema up to date on startup so the
// service is usable out of the box for local and self-hosted installs.
// Postgres applies the embedded SQL migrations; the other dialects fall
// back to AutoMigrate, which is what sqlite development uses.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	companydomain "github.com/saralbooks/saralbooks/internal/company/domain"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"gorm.io/gorm"
)

//go:embed sql
var embeddedMigrations embed.FS

const migrationsDir = "sql"

// RunMigrations applies the embedded SQL migrations against postgres.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate creates the schema through gorm for the non-postgres dialects.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&companydomain.Company{},
		&partydomain.Party{},
		&stockdomain.StockItem{},
		&dutydomain.DutyLedger{},
		&documentdomain.Document{},
	)
}
