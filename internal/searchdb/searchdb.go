// Package searchdb maintains a SQLite full-text index over the
// transformed bibliography, backing the lw search command. The database
// is a derived artifact: it is rebuilt wholesale from the items of the
// latest build, never edited in place.
package searchdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/litweb/internal/bib"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectItemFields is the standard field list for SELECT queries.
const selectItemFields = `id, title, item_type, pub_year, venue,
	abstract, doi, url, authors_json, keywords_json`

// Open opens or creates the search database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			item_type TEXT NOT NULL,
			pub_year INTEGER,
			venue TEXT,
			abstract TEXT,
			doi TEXT,
			url TEXT,
			authors_json TEXT NOT NULL,
			keywords_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_items_year ON items(pub_year) WHERE pub_year IS NOT NULL;

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			id,
			title,
			authors,
			venue,
			abstract,
			keywords
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild replaces the entire index with the given items. The swap runs
// in one transaction so concurrent readers never see a half-built index.
func (d *DB) Rebuild(items []*bib.Item) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return 0, fmt.Errorf("clearing items table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM items_fts"); err != nil {
		return 0, fmt.Errorf("clearing items_fts table: %w", err)
	}

	itemStmt, err := tx.Prepare(`
		INSERT INTO items (
			id, title, item_type, pub_year, venue,
			abstract, doi, url, authors_json, keywords_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing items insert: %w", err)
	}
	defer itemStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO items_fts (id, title, authors, venue, abstract, keywords)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, item := range items {
		authorsJSON, err := json.Marshal(item.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", item.ID, err)
		}
		var keywordsJSON []byte
		if len(item.Keywords) > 0 {
			keywordsJSON, err = json.Marshal(item.Keywords)
			if err != nil {
				return 0, fmt.Errorf("marshaling keywords for %s: %w", item.ID, err)
			}
		}

		_, err = itemStmt.Exec(
			item.ID, item.Title, string(item.Type), nullableYear(item.Year),
			nullableString(item.Venue), nullableString(item.Abstract),
			nullableString(item.DOI), nullableString(item.URL),
			string(authorsJSON), nullableString(string(keywordsJSON)),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting item %s: %w", item.ID, err)
		}

		_, err = ftsStmt.Exec(
			item.ID, item.Title, formatAuthorsText(item.Authors),
			item.Venue, item.Abstract, strings.Join(item.Keywords, " "),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(items), nil
}

// formatAuthorsText creates a searchable text representation of authors.
func formatAuthorsText(authors []bib.Author) string {
	var names []string
	for _, a := range authors {
		if name := a.Name(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// GetByID retrieves an item by its ID, or nil when absent.
func (d *DB) GetByID(id string) (*bib.Item, error) {
	row := d.db.QueryRow(`SELECT `+selectItemFields+` FROM items WHERE id = ?`, id)
	return scanItem(row)
}

// Search performs a full-text search across all indexed fields.
func (d *DB) Search(query string, limit int) ([]bib.Item, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectItemFields+`
		FROM items
		WHERE id IN (SELECT id FROM items_fts WHERE items_fts MATCH ?)
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchFilters contains optional filters for SearchWithFilters. All
// specified criteria must match (AND logic).
type SearchFilters struct {
	Keyword  string   // general keyword search across all fields
	Authors  []string // author names, fuzzy prefix matching
	Title    string   // search in title only
	YearFrom int      // minimum publication year (0 = no minimum)
	YearTo   int      // maximum publication year (0 = no maximum)
	Type     string   // exact item type match
	Venue    string   // venue substring, case-insensitive
}

// SearchWithFilters performs a search with multiple optional filters.
// Text criteria go through FTS5; exact and range criteria use SQL WHERE.
func (d *DB) SearchWithFilters(filters SearchFilters, limit int) ([]bib.Item, error) {
	var ftsTerms []string
	var args []interface{}

	if filters.Keyword != "" {
		ftsTerms = append(ftsTerms, prepareFTSQuery(filters.Keyword))
	}
	if filters.Title != "" {
		ftsTerms = append(ftsTerms, "title:"+prepareFTSQuery(filters.Title))
	}
	for _, author := range filters.Authors {
		if author != "" {
			ftsTerms = append(ftsTerms, "authors:"+prepareAuthorQuery(author))
		}
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT ` + selectItemFields + `
			FROM items
			WHERE id IN (SELECT id FROM items_fts WHERE items_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT ` + selectItemFields + ` FROM items WHERE 1=1`
	}

	if filters.YearFrom > 0 {
		query += " AND pub_year >= ?"
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		query += " AND pub_year <= ?"
		args = append(args, filters.YearTo)
	}
	if filters.Type != "" {
		query += " AND item_type = ?"
		args = append(args, filters.Type)
	}
	if filters.Venue != "" {
		query += " AND venue LIKE ?"
		args = append(args, "%"+filters.Venue+"%")
	}

	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching with filters: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Count returns the number of indexed items.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	return count, err
}

// YearRange returns the minimum and maximum publication years present,
// or (0, 0) when no item carries a year.
func (d *DB) YearRange() (min, max int, err error) {
	var lo, hi sql.NullInt64
	err = d.db.QueryRow("SELECT MIN(pub_year), MAX(pub_year) FROM items").Scan(&lo, &hi)
	if err != nil {
		return 0, 0, err
	}
	return int(lo.Int64), int(hi.Int64), nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(s scanner) (*bib.Item, error) {
	var item bib.Item
	var itemType string
	var year sql.NullInt64
	var venue, abstract, doi, url, keywordsJSON sql.NullString
	var authorsJSON string

	err := s.Scan(
		&item.ID, &item.Title, &itemType, &year, &venue,
		&abstract, &doi, &url, &authorsJSON, &keywordsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	item.Type = bib.ItemType(itemType)
	item.Venue = venue.String
	item.Abstract = abstract.String
	item.DOI = doi.String
	item.URL = url.String
	if year.Valid {
		y := int(year.Int64)
		item.Year = &y
	}

	if err := json.Unmarshal([]byte(authorsJSON), &item.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", item.ID, err)
	}
	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &item.Keywords); err != nil {
			return nil, fmt.Errorf("parsing keywords JSON for %s: %w", item.ID, err)
		}
	}

	return &item, nil
}

func scanItems(rows *sql.Rows) ([]bib.Item, error) {
	var items []bib.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, rows.Err()
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableYear(year *int) sql.NullInt64 {
	if year == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*year), Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}

// prepareAuthorQuery prepares an author name for FTS5 search with prefix
// matching, so "Tim" matches "Timothy".
func prepareAuthorQuery(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return author
	}

	var terms []string
	for _, part := range strings.Fields(author) {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}

	return "(" + strings.Join(terms, " OR ") + ")"
}
