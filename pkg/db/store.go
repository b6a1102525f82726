package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrEmptyInput is returned by Insert when there are no values to insert.
var ErrEmptyInput = errors.New("no values to insert")

// Store provides generic typed access to named tables, independent of what
// the tables mean to the rest of the program. Values are always bound as
// parameters; only identifiers taken from the schema are interpolated.
type Store struct {
	conn *Connection
}

// NewStore creates a Store on an open connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// Conn returns the underlying connection.
func (s *Store) Conn() *Connection {
	return s.conn
}

// Insert appends one row to a table and returns the generated row id.
// When cols is empty the values are positional against the table's natural
// column order. An empty values slice is logged and rejected with
// ErrEmptyInput.
func (s *Store) Insert(table string, cols []string, values []interface{}) (int64, error) {
	if len(values) == 0 {
		slog.Error("no values to insert", "table", table)
		return 0, ErrEmptyInput
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")

	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders)
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
	}

	result, err := s.conn.Exec(query, values...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	// Last-insert-id is only meaningful straight off the insert's own result.
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve inserted row id: %w", err)
	}

	return id, nil
}

// Search returns a columnar view of a table. An empty where clause returns
// the whole table.
func (s *Store) Search(table string, where string, args ...interface{}) (*Columnar, error) {
	query := "SELECT * FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", table, err)
	}

	return Collect(rows)
}

// RawQuery executes an arbitrary read statement. A malformed statement is
// logged and yields an empty result rather than an error; this is the
// escape hatch behind the menu's free-form query option.
func (s *Store) RawQuery(statement string) *Columnar {
	rows, err := s.conn.Query(statement)
	if err != nil {
		slog.Error("invalid SQL statement", "error", err)
		return NewColumnar(nil)
	}

	result, err := Collect(rows)
	if err != nil {
		slog.Error("failed to read query result", "error", err)
		return NewColumnar(nil)
	}

	return result
}

// DeleteRow removes exactly one row by primary key. Deleting an id that does
// not exist is a no-op, not an error.
func (s *Store) DeleteRow(table string, id int64) error {
	if _, err := s.conn.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// ListTables returns all user tables, filtering out SQLite's internal
// bookkeeping tables.
func (s *Store) ListTables() ([]string, error) {
	rows, err := s.conn.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}

	return tables, nil
}
