package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	applog "expenses/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema reports a database left behind by a migration that failed
// halfway. It needs manual repair before the ledger can use it again.
var ErrDirtySchema = errors.New("sqlite schema is dirty")

// schemaMigrator applies the embedded migrations to one database file. The
// migrate driver closes the *sql.DB it is given, so it works on its own
// connection and leaves the persister's pool alone.
type schemaMigrator struct {
	dbPath string
	logger *applog.Logger
}

// upgrade brings the schema to the latest embedded version and returns it.
func (s schemaMigrator) upgrade() (version uint, err error) {
	m, err := s.open()
	if err != nil {
		return 0, err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if cerr := errors.Join(srcErr, dbErr); cerr != nil && err == nil {
			err = fmt.Errorf("close migrator: %w", cerr)
		}
	}()

	from, dirty, err := currentVersion(m)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%w: %s stuck at version %d", ErrDirtySchema, s.dbPath, from)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	to, _, err := currentVersion(m)
	if err != nil {
		return 0, err
	}
	if to != from {
		s.logger.Info("Migrated ledger schema",
			applog.FieldOperation, applog.OpMigrate,
			applog.FieldPath, s.dbPath,
			applog.FieldVersion, to)
	}
	return to, nil
}

func (s schemaMigrator) open() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	driver, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		src.Close()
		db.Close()
		return nil, fmt.Errorf("create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// currentVersion reports version 0 for a database that was never migrated.
func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}
