// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rowstore keeps exported table rows in a SQLite database, one SQL
// table per table definition.
package rowstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/tables"
	_ "modernc.org/sqlite"
)

type Store struct {
	conn *sql.DB
	path string
}

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open row store %s: %w", path, err)
	}

	// one writer, and pragmas are per connection
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	return &Store{conn: conn, path: path}, nil
}

func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func sqlType(t tables.ColumnType) string {
	switch t {
	case tables.ColumnTypeNumber:
		return "INTEGER"
	case tables.ColumnTypeObject:
		return "BLOB"
	default:
		return "TEXT"
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureTable creates the SQL table of def unless it exists.
func (s *Store) EnsureTable(ctx context.Context, def *tables.TableDefinition) error {
	return ensureTable(ctx, s.conn, def)
}

func ensureTable(ctx context.Context, ex execer, def *tables.TableDefinition) error {
	columns := lo.Map(def.Columns, func(c tables.ColumnDefinition, _ int) string {
		col := quote(c.Name) + " " + sqlType(c.Type)
		if !c.Nullable {
			col += " NOT NULL"
		}
		return col
	})
	if keys := def.PrimaryKeys(); len(keys) > 0 {
		columns = append(columns, "PRIMARY KEY ("+strings.Join(lo.Map(keys, func(k string, _ int) string { return quote(k) }), ", ")+")")
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(def.Name), strings.Join(columns, ", "))
	if _, err := ex.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", def.Name, err)
	}
	return nil
}

// InsertRows writes rows in one transaction, creating their tables first.
// Either every row is stored or none is.
func (s *Store) InsertRows(ctx context.Context, rows []*tables.Row) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created := map[*tables.TableDefinition]bool{}
	statements := map[*tables.TableDefinition]*sql.Stmt{}
	for _, row := range rows {
		if !created[row.Table] {
			if err := ensureTable(ctx, tx, row.Table); err != nil {
				return err
			}
			created[row.Table] = true
		}

		stmt, ok := statements[row.Table]
		if !ok {
			stmt, err = tx.PrepareContext(ctx, insertStatement(row.Table))
			if err != nil {
				return fmt.Errorf("preparing insert into %s: %w", row.Table.Name, err)
			}
			defer stmt.Close()
			statements[row.Table] = stmt
		}

		if _, err := stmt.ExecContext(ctx, row.Values...); err != nil {
			return fmt.Errorf("inserting row of %s from %s: %w", row.Table.Name, row.SourceLineNumbers, err)
		}
	}
	return tx.Commit()
}

func insertStatement(def *tables.TableDefinition) string {
	names := lo.Map(def.Columns, func(c tables.ColumnDefinition, _ int) string { return quote(c.Name) })
	placeholders := lo.Times(len(def.Columns), func(int) string { return "?" })
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(def.Name), strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

// Rows reads back every row of table in insertion order.
func (s *Store) Rows(ctx context.Context, table string) ([][]any, error) {
	result, err := s.conn.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quote(table)))
	if err != nil {
		return nil, err
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return nil, err
	}
	var rows [][]any
	for result.Next() {
		values := make([]any, len(columns))
		pointers := lo.Map(values, func(_ any, i int) any { return &values[i] })
		if err := result.Scan(pointers...); err != nil {
			return nil, err
		}
		rows = append(rows, values)
	}
	return rows, result.Err()
}

// Tables lists the tables in the store.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	result, err := s.conn.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var names []string
	for result.Next() {
		var name string
		if err := result.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, result.Err()
}
