// Package schema provisions the bracket-state schema inside a new save file.
//
// A save carries one 150-row state table and a Config table of key/value
// pairs. The state table is either GameBoard or MatchResults; the two are
// structurally identical, so a single parameterized script builds either.
//
// Provisioning runs once, when a save is created. Existing saves are never
// migrated.
//
// Example usage:
//
//	if err := schema.Provision(ctx, db, schema.VariantGameBoard); err != nil {
//	    return err // treat as creation failure
//	}
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/0xmhha/gala/pkg/saveerr"
)

// TileCount is the fixed number of rows in a state table.
const TileCount = 150

// ConfigTable is the key/value metadata table.
const ConfigTable = "Config"

// Well-known Config keys.
const (
	KeyGameName       = "gameName"
	KeyCreateTime     = "CreateTime"
	KeyLastUpdateTime = "LastUpdateTime"
)

// Variant selects which state table a save carries.
type Variant string

// State table variants. The value is the table name.
const (
	VariantGameBoard    Variant = "GameBoard"
	VariantMatchResults Variant = "MatchResults"
)

// Flag columns shared by both variants, in storage order.
var FlagColumns = []string{
	"isEliminatedInWinners",
	"isEliminatedInLosers",
	"isWinnerInWinners",
	"isWinnerInLosers",
}

// Table returns the state table name for the variant.
func (v Variant) Table() string {
	return string(v)
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantGameBoard || v == VariantMatchResults
}

// ParseVariant converts a configuration string into a Variant.
//
// Matching ignores case and accepts the short forms "board" and "results".
// An empty string selects VariantGameBoard.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gameboard", "board":
		return VariantGameBoard, nil
	case "matchresults", "results":
		return VariantMatchResults, nil
	default:
		return "", fmt.Errorf("unknown schema variant %q: must be GameBoard or MatchResults", s)
	}
}

// Script returns the DDL and seed statements for a new save.
//
// Seeding walks a recursive CTE over 1..150 rather than issuing one insert
// per row. Config has no key constraint, so duplicate keys are legal.
func Script(v Variant) string {
	table := v.Table()

	columns := make([]string, 0, len(FlagColumns))
	zeros := make([]string, 0, len(FlagColumns))
	for _, col := range FlagColumns {
		columns = append(columns, fmt.Sprintf("    %s BOOLEAN NOT NULL", col))
		zeros = append(zeros, "0")
	}

	return fmt.Sprintf(`
CREATE TABLE %[1]s (
    id INT PRIMARY KEY CHECK (id BETWEEN 1 AND %[2]d),
%[3]s
);

WITH RECURSIVE nums(id) AS (
    SELECT 1
    UNION ALL
    SELECT id + 1 FROM nums WHERE id < %[2]d
)
INSERT INTO %[1]s (id, %[4]s)
SELECT id, %[5]s
FROM nums;

CREATE TABLE %[6]s (
    key TEXT NOT NULL,
    value TEXT NOT NULL
);
`,
		table,
		TileCount,
		strings.Join(columns, ",\n"),
		strings.Join(FlagColumns, ", "),
		strings.Join(zeros, ", "),
		ConfigTable,
	)
}

// Provision creates and seeds the schema for variant v in one transaction.
//
// Returns a DbFailure if the variant is unknown or any statement fails; the
// transaction is rolled back so the store holds no partial schema.
func Provision(ctx context.Context, db *sql.DB, v Variant) error {
	if !v.Valid() {
		return saveerr.DB("failed to provision schema",
			fmt.Errorf("unknown schema variant %q", v))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return saveerr.DB("failed to begin schema transaction", err)
	}

	if _, err := tx.ExecContext(ctx, Script(v)); err != nil {
		_ = tx.Rollback()
		return saveerr.DB("failed to provision schema", err)
	}

	if err := tx.Commit(); err != nil {
		return saveerr.DB("failed to commit schema", err)
	}
	return nil
}

// DetectVariant reports which state table an existing save carries.
//
// Returns a DbFailure if neither table exists.
func DetectVariant(ctx context.Context, db *sql.DB) (Variant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN (?, ?)`,
		VariantGameBoard.Table(), VariantMatchResults.Table())
	if err != nil {
		return "", saveerr.DB("failed to inspect schema", err)
	}
	defer rows.Close()

	var found []Variant
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", saveerr.DB("failed to inspect schema", err)
		}
		found = append(found, Variant(name))
	}
	if err := rows.Err(); err != nil {
		return "", saveerr.DB("failed to inspect schema", err)
	}

	switch {
	case len(found) == 0:
		return "", saveerr.DB("failed to inspect schema",
			fmt.Errorf("no %s or %s table", VariantGameBoard, VariantMatchResults))
	case len(found) > 1:
		// Both tables is not something we create; prefer the board.
		return VariantGameBoard, nil
	default:
		return found[0], nil
	}
}

// IsMissingTable reports whether err is SQLite's "no such table" error.
func IsMissingTable(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such table")
}
