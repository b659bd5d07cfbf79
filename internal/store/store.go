// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps export runs in a SQLite database so results of
// several models or revisions can be queried side by side.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// Store manages the export database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and creates the schema if
// it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			ifc_schema TEXT,
			created_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS elements (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
			guid TEXT NOT NULL,
			ifc_class TEXT NOT NULL,
			material TEXT,
			type_name TEXT,
			building_storey TEXT,
			classification_code TEXT,
			classification_name TEXT,
			quantities TEXT,
			menge REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_export_id ON elements(export_id)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_storey ON elements(building_storey)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_class ON elements(ifc_class)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run describes one stored export.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	Schema    string    `json:"schema" yaml:"schema"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Rows      int       `json:"rows" yaml:"rows"`
}

// Save stores records as a new run read from source and returns it.
func (s *Store) Save(ctx context.Context, source, schema string, records []types.Record) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Source:    source,
		Schema:    schema,
		CreatedAt: s.now().UTC(),
		Rows:      len(records),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exports (id, source, ifc_schema, created_at, row_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Schema, run.CreatedAt.Format(time.RFC3339Nano), run.Rows,
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting export: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO elements (export_id, guid, ifc_class, material, type_name, building_storey,
			classification_code, classification_name, quantities, menge)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return Run{}, ctx.Err()
		default:
		}

		qtyJSON, err := json.Marshal(rec.Quantities)
		if err != nil {
			return Run{}, fmt.Errorf("encoding quantities of %s: %w", rec.GUID, err)
		}
		_, err = stmt.ExecContext(ctx,
			run.ID, rec.GUID, rec.IFCClass, rec.Material, rec.TypeName, rec.BuildingStorey,
			rec.ClassificationCode, rec.ClassificationName, string(qtyJSON), rec.Menge,
		)
		if err != nil {
			return Run{}, fmt.Errorf("inserting element %s: %w", rec.GUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing export: %w", err)
	}
	return run, nil
}

// Runs lists stored exports, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, ifc_schema, created_at, row_count FROM exports ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			schema  sql.NullString
			created string
		)
		if err := rows.Scan(&r.ID, &r.Source, &schema, &created, &r.Rows); err != nil {
			return nil, fmt.Errorf("scanning export: %w", err)
		}
		r.Schema = schema.String
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp of export %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
