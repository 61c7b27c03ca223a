package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// ANALYSIS STORE — Dataset → embedded DuckDB
// ============================================================================
// Mirrors the in-memory Dataset into a local DuckDB file so follow-up
// analysis can happen in plain SQL outside this tool. Every column is TEXT,
// matching the Dataset's text-first data model; DuckDB casts on demand.
// The store is a sink only — the query engine never reads from it.
// ============================================================================

// Store wraps an embedded DuckDB database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a DuckDB database at path.
// An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Persist writes every dataset table into the store, replacing any prior
// copy of the same table.
func (s *Store) Persist(ds *dataset.Dataset) error {
	for _, name := range ds.TableNames() {
		table, _ := ds.Table(name)
		if len(table.Records) == 0 {
			continue
		}
		if err := s.persistTable(table); err != nil {
			return fmt.Errorf("persist table %s: %w", name, err)
		}
		logrus.WithFields(logrus.Fields{
			"table":   name,
			"records": len(table.Records),
		}).Debug("table persisted")
	}
	return nil
}

func (s *Store) persistTable(table dataset.Table) error {
	columns := table.Columns()
	if len(columns) == 0 {
		return nil
	}

	if _, err := s.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table.Name))); err != nil {
		return err
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(defs, ", "))
	if _, err := s.db.Exec(create); err != nil {
		return err
	}

	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table.Name), strings.Join(quoted, ", "), strings.Join(marks, ", "))

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range table.Records {
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = rec.Get(col)
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Count returns the row count of a persisted table.
func (s *Store) Count(table string) (int, error) {
	var n int
	err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))).Scan(&n)
	return n, err
}

// quoteIdent quotes an identifier for DuckDB, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
