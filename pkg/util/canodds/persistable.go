package canodds

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strings"

	_ "github.com/lib/pq"
	"github.com/richard-senior/canodds/internal/logger"
	_ "modernc.org/sqlite"
)

// Persistable is implemented by structs stored through their column/dbtype tags
type Persistable interface {
	GetTableName() string
}

// OpenStatsDB opens and pings a sqlite or postgres database
func OpenStatsDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case StatsSourceSQLite, StatsSourcePostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database opened", driver)
	return db, nil
}

// blankCell marks a numeric cell that was present but held no number
const blankCell = "NaN"

// persistedField is one tagged struct field
type persistedField struct {
	index   int
	column  string
	dbType  string
	primary bool
	indexed bool
}

func persistedFields(obj any) []persistedField {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}
	var fields []persistedField
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("db") == "-" {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		column := field.Tag.Get("column")
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		fields = append(fields, persistedField{
			index:   i,
			column:  column,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			indexed: field.Tag.Get("index") == "true",
		})
	}
	return fields
}

// generateCreateTableSQL generates CREATE TABLE SQL from struct tags
func generateCreateTableSQL(obj Persistable) string {
	var columns, primaryKeys []string
	for _, f := range persistedFields(obj) {
		columns = append(columns, fmt.Sprintf("%s %s", f.column, f.dbType))
		if f.primary {
			primaryKeys = append(primaryKeys, f.column)
		}
	}
	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", obj.GetTableName(), strings.Join(columns, ", "))
}

// generateIndexSQL generates index creation SQL from struct tags
func generateIndexSQL(obj Persistable) []string {
	var queries []string
	for _, f := range persistedFields(obj) {
		if !f.indexed {
			continue
		}
		name := fmt.Sprintf("idx_%s_%s", obj.GetTableName(), f.column)
		queries = append(queries, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", name, obj.GetTableName(), f.column))
	}
	return queries
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// CreateTable creates the table and indexes for obj if they do not exist
func CreateTable(db execer, obj Persistable) error {
	createSQL := generateCreateTableSQL(obj)
	logger.Debug("Creating table with SQL", createSQL)
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", obj.GetTableName(), err)
	}
	for _, q := range generateIndexSQL(obj) {
		if _, err := db.Exec(q); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// placeholders returns n bind markers in the driver's dialect
func placeholders(driver string, n int) string {
	marks := make([]string, n)
	for i := range marks {
		if driver == StatsSourcePostgres {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

// ImportStats replaces the contents of the team_stats table with rows in one transaction
func ImportStats(db *sql.DB, driver string, rows []StatsRow) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	proto := &StatsRow{}
	if err := CreateTable(tx, proto); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM " + proto.GetTableName()); err != nil {
		return fmt.Errorf("clearing %s: %w", proto.GetTableName(), err)
	}

	fields := persistedFields(proto)
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.column
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		proto.GetTableName(), strings.Join(columns, ", "), placeholders(driver, len(fields)))

	for i := range rows {
		row := rows[i]
		row.Position = i
		v := reflect.ValueOf(row)
		args := make([]any, len(fields))
		for j, f := range fields {
			args[j] = bindValue(v.Field(f.index).Interface())
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("inserting team %q: %w", row.Team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	logger.Info("Imported team statistics rows:", len(rows))
	return nil
}

// bindValue stores a blank cell as the text 'NaN'. A NaN parameter binds as NULL in
// sqlite, which would read back as an absent column. database/sql parses the text
// back into a float64 NaN on scan.
func bindValue(v any) any {
	if f, ok := v.(*float64); ok && f != nil && math.IsNaN(*f) {
		return blankCell
	}
	return v
}

// LoadStatsDB reads the team_stats table in insertion order
func LoadStatsDB(db *sql.DB) (*StatsTable, error) {
	proto := &StatsRow{}
	fields := persistedFields(proto)
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.column
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY position", strings.Join(columns, ", "), proto.GetTableName())

	rs, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying team statistics: %v", ErrMissingResource, err)
	}
	defer rs.Close()

	var rows []StatsRow
	for rs.Next() {
		var row StatsRow
		v := reflect.ValueOf(&row).Elem()
		dest := make([]any, len(fields))
		for j, f := range fields {
			dest[j] = v.Field(f.index).Addr().Interface()
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning team statistics row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterating team statistics rows: %w", err)
	}
	return NewStatsTable(rows), nil
}
