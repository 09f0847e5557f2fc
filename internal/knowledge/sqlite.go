// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stavtech/marker-engine/pkg/types"
)

// SQLiteSnapshot is a read-only Snapshot backed by a snapshot database
// produced by the knowledge-base population job. Exact and norm lookups go
// to SQLite; the canonical value lists are loaded once at open time so
// fuzzy matching never holds a database connection per candidate.
type SQLiteSnapshot struct {
	db     *sql.DB
	values map[types.MarkerCategory][]string
}

// OpenSQLiteSnapshot opens an existing snapshot database read-only. The
// engine never creates or migrates the schema; a missing file is an error,
// not an empty snapshot.
func OpenSQLiteSnapshot(path string) (*SQLiteSnapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot database %s: %w", path, err)
	}

	// The driver forwards URI parameters only for file: names; a plain
	// path would silently drop mode=ro and open read-write.
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	s := &SQLiteSnapshot{db: db}
	if err := s.loadValues(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteSnapshot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSnapshot) loadValues() error {
	rows, err := s.db.Query(`SELECT category, value FROM canonical_values`)
	if err != nil {
		return fmt.Errorf("reading canonical values: %w", err)
	}
	defer rows.Close()

	s.values = make(map[types.MarkerCategory][]string)
	for rows.Next() {
		var cat, val string
		if err := rows.Scan(&cat, &val); err != nil {
			return fmt.Errorf("scanning canonical value: %w", err)
		}
		category := types.MarkerCategory(cat)
		s.values[category] = append(s.values[category], val)
	}
	return rows.Err()
}

// Lookup resolves a value against the category's canonical set.
func (s *SQLiteSnapshot) Lookup(category types.MarkerCategory, value string, threshold float64) (Match, bool) {
	var canonical string
	err := s.db.QueryRow(
		`SELECT value FROM canonical_values
		 WHERE category = ? AND value_norm = ? LIMIT 1`,
		string(category), normalizeValue(value),
	).Scan(&canonical)
	if err == nil {
		return Match{Canonical: canonical, Similarity: 1.0}, true
	}
	if err != sql.ErrNoRows {
		return Match{}, false
	}
	return fuzzyLookup(s.values[category], normalizeValue(value), threshold)
}

// LookupNorm resolves a norm designation, optionally scoped to a section.
func (s *SQLiteSnapshot) LookupNorm(designation, section string) (NormMatch, bool) {
	if section != "" {
		if nm, ok := s.queryNorm(designation, section); ok {
			return nm, true
		}
	}
	return s.queryNorm(designation, "")
}

func (s *SQLiteSnapshot) queryNorm(designation, section string) (NormMatch, bool) {
	var nm NormMatch
	var fullDesignation, fullName, country, field sql.NullString
	err := s.db.QueryRow(
		`SELECT designation, section, full_designation, full_name, country, field
		 FROM norms WHERE designation_norm = ? AND section = ? LIMIT 1`,
		normalizeValue(designation), section,
	).Scan(&nm.Designation, &nm.Section, &fullDesignation, &fullName, &country, &field)
	if err != nil {
		return NormMatch{}, false
	}
	nm.FullDesignation = fullDesignation.String
	nm.FullName = fullName.String
	nm.Country = country.String
	nm.Field = field.String
	return nm, true
}
