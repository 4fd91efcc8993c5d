package db

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	embeddedmigrations "github.com/terraincognita07/gymcal/migrations"
	"gorm.io/gorm"
)

var (
	migrationFilePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+"?(\w+)"?\s+ADD\s+COLUMN\s+"?(\w+)"?`)
)

// schemaMigration is one row of the schema_migrations ledger.
type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationFile struct {
	version string
	order   int
	name    string
	body    string
}

// migrateSchema applies every embedded migration not yet in the ledger, in
// version order. ADD COLUMN statements are skipped when the column exists so
// databases created before the ledger existed are adopted in place.
func migrateSchema(database *gorm.DB) error {
	if err := database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := readMigrationFiles(embeddedmigrations.Files)
	if err != nil {
		return err
	}

	var ledger []schemaMigration
	if err := database.Find(&ledger).Error; err != nil {
		return fmt.Errorf("load schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(ledger))
	for _, row := range ledger {
		applied[row.Version] = true
	}

	for _, file := range files {
		if applied[file.version] {
			continue
		}
		if err := database.Transaction(func(tx *gorm.DB) error {
			return runMigration(tx, file)
		}); err != nil {
			return err
		}
		logrus.Infof("db: applied migration %s", file.name)
	}
	return nil
}

func readMigrationFiles(source fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(entries))
	owners := make(map[string]string, len(entries))
	for _, entry := range entries {
		version, ok := migrationVersion(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		if owner, dup := owners[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, owner, entry.Name())
		}
		owners[version] = entry.Name()

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		files = append(files, migrationFile{version: version, order: order, name: entry.Name(), body: string(body)})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].order != files[j].order {
			return files[i].order < files[j].order
		}
		return files[i].name < files[j].name
	})
	return files, nil
}

func migrationVersion(fileName string) (string, bool) {
	matches := migrationFilePattern.FindStringSubmatch(strings.TrimSpace(fileName))
	if len(matches) != 2 {
		return "", false
	}
	return matches[1], true
}

func runMigration(tx *gorm.DB, file migrationFile) error {
	statements := sqlStatements(file.body)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s has no SQL statements", file.name)
	}

	for _, statement := range statements {
		if columnAlreadyAdded(tx, statement) {
			logrus.Debugf("db: migration %s skips existing column: %s", file.name, statement)
			continue
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("execute migration %s statement %q: %w", file.name, statement, err)
		}
	}

	record := schemaMigration{Version: file.version, Name: file.name, AppliedAt: time.Now().UTC()}
	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", file.name, err)
	}
	return nil
}

func columnAlreadyAdded(tx *gorm.DB, statement string) bool {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if len(matches) != 3 {
		return false
	}
	return tx.Migrator().HasColumn(matches[1], matches[2])
}

func sqlStatements(body string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(body, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
