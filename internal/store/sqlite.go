package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/item"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// SQLiteStore keeps the document in an SQLite database. Each item is one row
// holding its parent and its position among its siblings.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and migrates it to
// CurrentSchemaVersion.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, sqliteErr(path, "failed to create data directory", err)
		}
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, sqliteErr(path, "failed to open database", err)
	}
	if path == ":memory:" {
		// Every new connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, sqliteErr(path, "failed to migrate database", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func sqliteErr(path, msg string, err error) error {
	se := errors.NewStoreError(msg, err).WithBackend(BackendSQLite).WithPath(path)
	if err != nil && strings.Contains(err.Error(), "database is locked") {
		se = se.WithRetryable(true)
	}
	return se
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}
	if version > CurrentSchemaVersion {
		return fmt.Errorf("%w: version %d", errors.ErrSchemaTooNew, version)
	}

	// Migration 0 -> 1: Initial schema
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS items (
		  id           TEXT PRIMARY KEY,
		  parent_id    TEXT,
		  position     INTEGER NOT NULL,
		  kind         TEXT NOT NULL,
		  name         TEXT NOT NULL,
		  created_at   TEXT NOT NULL,
		  x            INTEGER,
		  y            INTEGER,
		  x1           INTEGER,
		  y1           INTEGER,
		  x2           INTEGER,
		  y2           INTEGER,
		  distance     REAL,
		  auto_aligned INTEGER,
		  expanded     INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_items_parent_position
		ON items(parent_id, position);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// SchemaVersion returns the database's user_version.
func (s *SQLiteStore) SchemaVersion() (int, error) {
	return userVersion(s.db)
}

// Backend implements Store.
func (s *SQLiteStore) Backend() string { return BackendSQLite }

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

const selectItems = `
SELECT id, parent_id, kind, name, created_at, x, y, x1, y1, x2, y2, distance, auto_aligned, expanded
FROM items
ORDER BY position`

// Load implements Store. Rows whose parent no longer exists are returned at
// the root.
func (s *SQLiteStore) Load(ctx context.Context) ([]*item.Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItems)
	if err != nil {
		return nil, sqliteErr(s.path, "failed to query items", err)
	}
	defer func() { _ = rows.Close() }()

	type loaded struct {
		it     *item.Item
		parent string
	}
	var all []loaded
	byID := make(map[item.ID]*item.Item)

	for rows.Next() {
		var (
			id, kind, name, created string
			parent                  sql.NullString
			x, y, x1, y1, x2, y2    sql.NullInt64
			distance                sql.NullFloat64
			aligned, expanded       sql.NullBool
		)
		if err := rows.Scan(&id, &parent, &kind, &name, &created, &x, &y, &x1, &y1, &x2, &y2, &distance, &aligned, &expanded); err != nil {
			return nil, sqliteErr(s.path, "failed to scan item", err)
		}

		k, err := item.ParseKind(kind)
		if err != nil {
			return nil, sqliteErr(s.path, "failed to decode item", errors.Join(errors.ErrStoreCorrupted, err))
		}
		ts, err := item.ParseTimestamp(created)
		if err != nil {
			return nil, sqliteErr(s.path, "failed to decode item", errors.Join(errors.ErrStoreCorrupted, err))
		}

		it := &item.Item{ID: item.ID(id), Kind: k, Name: name, Timestamp: ts}
		switch k {
		case item.KindCoordinate:
			it.X, it.Y = int(x.Int64), int(y.Int64)
		case item.KindMeasurement:
			it.X1, it.Y1 = int(x1.Int64), int(y1.Int64)
			it.X2, it.Y2 = int(x2.Int64), int(y2.Int64)
			it.Distance = distance.Float64
			it.AutoAligned = aligned.Bool
		case item.KindFolder:
			it.Expanded = !expanded.Valid || expanded.Bool
		}

		all = append(all, loaded{it: it, parent: parent.String})
		byID[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteErr(s.path, "failed to read items", err)
	}

	root := []*item.Item{}
	for _, l := range all {
		if p, ok := byID[item.ID(l.parent)]; ok && l.parent != "" {
			p.Items = append(p.Items, l.it)
			continue
		}
		root = append(root, l.it)
	}
	return root, nil
}

const insertItem = `
INSERT INTO items (id, parent_id, position, kind, name, created_at, x, y, x1, y1, x2, y2, distance, auto_aligned, expanded)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Save implements Store. The whole table is replaced in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, items []*item.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sqliteErr(s.path, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return sqliteErr(s.path, "failed to clear items", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertItem)
	if err != nil {
		return sqliteErr(s.path, "failed to prepare insert", err)
	}
	defer func() { _ = stmt.Close() }()

	// position is global walk order so one ORDER BY restores every sibling list.
	pos := 0
	var insertErr error
	item.Walk(items, func(it, parent *item.Item, _ int) bool {
		if insertErr != nil {
			return false
		}
		var parentID any
		if parent != nil {
			parentID = string(parent.ID)
		}
		args := []any{string(it.ID), parentID, pos, it.Kind.String(), it.Name, item.FormatTimestamp(it.Timestamp)}
		switch it.Kind {
		case item.KindCoordinate:
			args = append(args, it.X, it.Y, nil, nil, nil, nil, nil, nil, nil)
		case item.KindMeasurement:
			args = append(args, nil, nil, it.X1, it.Y1, it.X2, it.Y2, it.Distance, it.AutoAligned, nil)
		default:
			args = append(args, nil, nil, nil, nil, nil, nil, nil, nil, it.Expanded)
		}
		pos++
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			insertErr = err
			return false
		}
		return true
	})
	if insertErr != nil {
		return sqliteErr(s.path, "failed to insert item", insertErr)
	}

	if err := tx.Commit(); err != nil {
		return sqliteErr(s.path, "failed to commit", err)
	}
	return nil
}
