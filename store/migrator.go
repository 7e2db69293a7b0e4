package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"log/slog"

	"github.com/memorykeeper/memorykeeper/internal/version"
)

// Migration System Overview:
//
// Schema version is stored in the system_setting table.
//
// Migration Flow:
// 1. preMigrate: Check if DB is initialized. If not, apply LATEST.sql
// 2. Migrate (prod mode): Refuse schema downgrades, record the current version
// 3. Migrate (demo mode): Seed the database with demo data
//
// Migration Files:
// - Location: store/migration/{driver}/LATEST.sql (full schema for new installations)
// - Seeds: store/seed/{driver}/NN__description.sql, applied in lexicographic order

//go:embed migration
var migrationFS embed.FS

//go:embed seed
var seedFS embed.FS

const (
	// LatestSchemaFileName is the name of the latest schema file.
	// This file is used to initialize fresh installations with the current schema.
	LatestSchemaFileName = "LATEST.sql"

	schemaVersionSettingKey = "schema_version"

	// Mode constants for profile mode.
	modeProd = "prod"
	modeDemo = "demo"
)

// Migrate initializes the database schema and records the schema version.
// It also seeds the database with demo data if in demo mode.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.preMigrate(ctx); err != nil {
		return errors.Wrap(err, "failed to pre-migrate")
	}

	switch s.profile.Mode {
	case modeProd:
		currentSchemaVersion := version.GetCurrentVersion(s.profile.Mode)
		storedSchemaVersion, err := s.getStoredSchemaVersion(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get stored schema version")
		}
		if storedSchemaVersion != "" && version.IsVersionGreaterThan(storedSchemaVersion, currentSchemaVersion) {
			slog.Error("cannot downgrade schema version",
				slog.String("databaseVersion", storedSchemaVersion),
				slog.String("currentVersion", currentSchemaVersion),
			)
			return errors.Errorf("cannot downgrade schema version from %s to %s", storedSchemaVersion, currentSchemaVersion)
		}
		if storedSchemaVersion == "" || version.IsVersionGreaterThan(currentSchemaVersion, storedSchemaVersion) {
			if err := s.setStoredSchemaVersion(ctx, currentSchemaVersion); err != nil {
				return errors.Wrap(err, "failed to update schema version")
			}
		}
	case modeDemo:
		// In demo mode, we should seed the database.
		if err := s.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed")
		}
	default:
		// For other modes (like dev), no special migration handling needed
	}
	return nil
}

// preMigrate checks if the database is initialized and applies the latest schema if not.
func (s *Store) preMigrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Errorf("failed to read latest schema file: %s", err)
	}
	// Start a transaction to apply the latest schema.
	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()
	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(bytes)); err != nil {
		return errors.Errorf("failed to execute SQL file %s, err %s", filePath, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	schemaVersion := version.GetCurrentVersion(s.profile.Mode)
	slog.Info("database initialized successfully", slog.String("schemaVersion", schemaVersion))
	return s.setStoredSchemaVersion(ctx, schemaVersion)
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

func (s *Store) getSeedBasePath() string {
	return fmt.Sprintf("seed/%s/", s.profile.Driver)
}

// seed seeds the database with initial data.
// It reads all seed files from the embedded filesystem and executes them in order.
// This is only supported for SQLite databases and is used in demo mode.
func (s *Store) seed(ctx context.Context) error {
	// Only seed for SQLite - other databases should use production data
	if s.profile.Driver != "sqlite" {
		slog.Warn("seed is only supported for SQLite, skipping for other databases")
		return nil
	}

	filenames, err := fs.Glob(seedFS, fmt.Sprintf("%s*.sql", s.getSeedBasePath()))
	if err != nil {
		return errors.Wrap(err, "failed to read seed files")
	}

	// Sort seed files by name. This is important to ensure that seed files are applied in order.
	sort.Strings(filenames)
	// Start a transaction to apply the seed files.
	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()
	// Loop over all seed files and execute them in order.
	for _, filename := range filenames {
		bytes, err := seedFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "failed to read seed file, filename=%s", filename)
		}
		if err := s.execute(ctx, tx, string(bytes)); err != nil {
			return errors.Wrapf(err, "seed error: %s", filename)
		}
	}
	return tx.Commit()
}

func (s *Store) getStoredSchemaVersion(ctx context.Context) (string, error) {
	var value string
	err := s.driver.GetDB().QueryRowContext(ctx,
		"SELECT value FROM system_setting WHERE name = "+s.placeholder(1),
		schemaVersionSettingKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) setStoredSchemaVersion(ctx context.Context, schemaVersion string) error {
	var stmt string
	if s.profile.Driver == "postgres" {
		stmt = `INSERT INTO system_setting (name, value) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
	} else {
		stmt = `INSERT INTO system_setting (name, value) VALUES (?, ?)
			ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
	}
	_, err := s.driver.GetDB().ExecContext(ctx, stmt, schemaVersionSettingKey, schemaVersion)
	return err
}

func (s *Store) placeholder(n int) string {
	if s.profile.Driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// execute executes a SQL statement within a transaction context.
// For PostgreSQL, it splits multi-statement SQL and executes each separately.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, stmt string) error {
	// PostgreSQL doesn't support multiple statements in a single ExecContext call.
	if s.profile.Driver == "postgres" {
		return s.executeMultiStmt(ctx, tx, stmt)
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return nil
}

// executeMultiStmt splits SQL into individual statements and executes them.
func (s *Store) executeMultiStmt(ctx context.Context, tx *sql.Tx, script string) error {
	for i, stmt := range splitSQL(script) {
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, stmt)
		}
	}
	return nil
}

// splitSQL splits a multi-statement SQL string into individual statements,
// respecting single-quoted strings and line comments. The schema files here
// contain no function bodies, so dollar quoting is not handled.
func splitSQL(script string) []string {
	var statements []string
	var current strings.Builder

	inSingleQuote := false
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inSingleQuote && strings.HasPrefix(trimmed, "--") {
			continue
		}
		for i := 0; i < len(line); i++ {
			ch := line[i]
			if ch == '\'' {
				inSingleQuote = !inSingleQuote
				current.WriteByte(ch)
				continue
			}
			if !inSingleQuote && ch == '-' && i+1 < len(line) && line[i+1] == '-' {
				break
			}
			if !inSingleQuote && ch == ';' {
				stmt := strings.TrimSpace(current.String())
				if stmt != "" {
					statements = append(statements, stmt+";")
				}
				current.Reset()
				continue
			}
			current.WriteByte(ch)
		}
		current.WriteString("\n")
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
