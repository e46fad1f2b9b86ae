package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"logparse/domain"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ClickHouseRecordRepository stores matched records in a ClickHouse table,
// one row per record with the source file as the first column.
type ClickHouseRecordRepository struct {
	db    *sql.DB
	table string
}

// NewClickHouseRecordRepository validates the table name, which may be
// qualified with a database.
func NewClickHouseRecordRepository(db *sql.DB, table string) (*ClickHouseRecordRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}
	return &ClickHouseRecordRepository{db: db, table: table}, nil
}

func (r *ClickHouseRecordRepository) columns() []string {
	return append([]string{"source"}, domain.FieldNames...)
}

func (r *ClickHouseRecordRepository) createTableQuery() string {
	cols := r.columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("    %s String", c)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n) ENGINE = MergeTree ORDER BY source",
		r.table, strings.Join(defs, ",\n"))
}

func (r *ClickHouseRecordRepository) insertQuery() string {
	return fmt.Sprintf("INSERT INTO %s (%s)", r.table, strings.Join(r.columns(), ", "))
}

// EnsureTable creates the destination table when it does not exist yet.
func (r *ClickHouseRecordRepository) EnsureTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.createTableQuery()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table, err)
	}
	return nil
}

// Emit inserts the records as one batch.
func (r *ClickHouseRecordRepository) Emit(ctx context.Context, source string, records []domain.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin clickhouse batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.insertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", r.table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			source, rec.IPAddr, rec.Timestamp, rec.Method, rec.Path,
			rec.Protocol, rec.Status, rec.Bytes, rec.Referrer, rec.UserAgent,
		)
		if err != nil {
			return fmt.Errorf("failed to append row to batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to send batch to %s: %w", r.table, err)
	}
	return nil
}
