package db

import (
	"cmp"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	schemaFilePattern  = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.sql$`)
	addColumnPattern   = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
	sqlLineCommentExpr = regexp.MustCompile(`(?m)^\s*--.*$`)
)

// schemaStep is one forward-only SQL file, e.g. 001_init.sql.
type schemaStep struct {
	Version int
	Label   string
	File    string
	Body    string
}

func (step schemaStep) versionKey() string {
	return fmt.Sprintf("%03d", step.Version)
}

type schemaMigrator struct {
	database *gorm.DB
	source   fs.FS
	logger   zerolog.Logger
}

func newSchemaMigrator(database *gorm.DB, source fs.FS, logger zerolog.Logger) *schemaMigrator {
	return &schemaMigrator{
		database: database,
		source:   source,
		logger:   logger.With().Str("component", "migrations").Logger(),
	}
}

// Run applies every pending step and returns how many were applied.
func (migrator *schemaMigrator) Run() (int, error) {
	if err := migrator.database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return 0, fmt.Errorf("create schema_migrations table: %w", err)
	}

	steps, err := readSchemaSteps(migrator.source)
	if err != nil {
		return 0, err
	}

	var recorded []string
	if err := migrator.database.Table("schema_migrations").Pluck("version", &recorded).Error; err != nil {
		return 0, fmt.Errorf("load applied migration versions: %w", err)
	}

	applied := 0
	for _, step := range steps {
		if slices.Contains(recorded, step.versionKey()) {
			continue
		}
		if err := migrator.apply(step); err != nil {
			return applied, err
		}
		migrator.logger.Info().
			Str("version", step.versionKey()).
			Str("file", step.File).
			Msg("schema migration applied")
		applied++
	}
	return applied, nil
}

func (migrator *schemaMigrator) apply(step schemaStep) error {
	statements := splitSQLStatements(step.Body)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s has no SQL statements", step.File)
	}

	return migrator.database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			present, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", step.File, err)
			}
			if present {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", step.File, statement, err)
			}
		}
		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			step.versionKey(),
			step.File,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", step.File, err)
		}
		return nil
	})
}

// readSchemaSteps lists the top-level *.sql files of source ordered by their
// numeric prefix. Files without a numeric prefix are ignored.
func readSchemaSteps(source fs.FS) ([]schemaStep, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	steps := make([]schemaStep, 0, len(entries))
	byVersion := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := path.Base(entry.Name())
		parts := schemaFilePattern.FindStringSubmatch(name)
		if parts == nil {
			continue
		}

		version, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		if previous, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, previous, name)
		}
		byVersion[version] = name

		body, err := fs.ReadFile(source, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		steps = append(steps, schemaStep{
			Version: version,
			Label:   parts[2],
			File:    name,
			Body:    string(body),
		})
	}

	slices.SortFunc(steps, func(left, right schemaStep) int {
		return cmp.Compare(left.Version, right.Version)
	})
	return steps, nil
}

// splitSQLStatements drops "--" line comments and splits on semicolons.
// Migration files must not put semicolons inside string literals.
func splitSQLStatements(body string) []string {
	body = sqlLineCommentExpr.ReplaceAllString(body, "")
	statements := make([]string, 0)
	for _, part := range strings.Split(body, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded lets ALTER TABLE ... ADD COLUMN rerun against a database
// that already carries the column.
func columnAlreadyAdded(tx *gorm.DB, statement string) (bool, error) {
	parts := addColumnPattern.FindStringSubmatch(statement)
	if parts == nil {
		return false, nil
	}
	table := unquoteIdentifier(parts[1])
	column := unquoteIdentifier(parts[2])

	var columns []tableColumn
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := tx.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	return slices.ContainsFunc(columns, func(existing tableColumn) bool {
		return strings.EqualFold(strings.TrimSpace(existing.Name), column)
	}), nil
}

type tableColumn struct {
	Name string `gorm:"column:name"`
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
