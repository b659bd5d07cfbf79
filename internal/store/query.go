// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// QueryOptions holds the filters of a stored-element query. Empty fields
// do not filter.
type QueryOptions struct {
	// RunID limits results to one export. A unique prefix is enough.
	RunID string

	Storey string
	Class  string
	Code   string

	// MaxResults limits result count. Zero returns every row.
	MaxResults int
}

// Row is a stored record with the export it belongs to.
type Row struct {
	RunID        string `json:"run_id" yaml:"run_id"`
	types.Record `yaml:",inline"`
}

// Query returns stored records matching opts in insertion order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Row, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT export_id, guid, ifc_class, material, type_name, building_storey,
			classification_code, classification_name, quantities, menge
		FROM elements
		WHERE 1=1`)

	if opts.RunID != "" {
		qb.WriteString(` AND export_id LIKE ? || '%'`)
		args = append(args, opts.RunID)
	}
	if opts.Storey != "" {
		qb.WriteString(` AND building_storey = ?`)
		args = append(args, opts.Storey)
	}
	if opts.Class != "" {
		qb.WriteString(` AND ifc_class = ? COLLATE NOCASE`)
		args = append(args, opts.Class)
	}
	if opts.Code != "" {
		qb.WriteString(` AND classification_code = ?`)
		args = append(args, opts.Code)
	}

	qb.WriteString(` ORDER BY rowid`)
	if opts.MaxResults > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, opts.MaxResults)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var (
			r         Row
			material  sql.NullString
			typeName  sql.NullString
			storey    sql.NullString
			code      sql.NullString
			className sql.NullString
			qtyJSON   sql.NullString
		)
		if err := rows.Scan(
			&r.RunID, &r.GUID, &r.IFCClass, &material, &typeName, &storey,
			&code, &className, &qtyJSON, &r.Menge,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Material = material.String
		r.TypeName = typeName.String
		r.BuildingStorey = storey.String
		r.ClassificationCode = code.String
		r.ClassificationName = className.String

		r.Quantities = make(types.QuantitySet)
		if qtyJSON.Valid {
			if err := json.Unmarshal([]byte(qtyJSON.String), &r.Quantities); err != nil {
				return nil, fmt.Errorf("decoding quantities of %s: %w", r.GUID, err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
