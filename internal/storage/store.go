package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	tableName  = "scenarios"

	pragmaBusyTimeout = `PRAGMA busy_timeout=5000`
)

var scenarioColumns = []string{"id", "scenario", "description", "owner", "created_at"}

// Store is the record access layer. It keeps no connection between calls:
// each operation opens the file, runs one statement and closes it again.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Insert validates in, writes one row inside a transaction and returns the
// id assigned by the store.
func (s *Store) Insert(ctx context.Context, in NewScenario) (int64, error) {
	if err := Validate(in); err != nil {
		return 0, err
	}

	var id int64
	err := s.withConn(ctx, "insert scenario", func(db *sqlx.DB) error {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto(tableName)
		ib.Cols("scenario", "description", "owner")
		ib.Values(in.Scenario, in.Description, nullableOwner(in.Owner))
		query, args := ib.Build()

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		id, err = result.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("last insert id: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

type scenarioRow struct {
	ID          int64          `db:"id"`
	Scenario    string         `db:"scenario"`
	Description string         `db:"description"`
	Owner       sql.NullString `db:"owner"`
	CreatedAt   dbTime         `db:"created_at"`
}

// List returns every record, most recently inserted first. On failure no
// partial result is returned.
func (s *Store) List(ctx context.Context) ([]Scenario, error) {
	var rows []scenarioRow
	err := s.withConn(ctx, "list scenarios", func(db *sqlx.DB) error {
		sb := sqlbuilder.SQLite.NewSelectBuilder()
		sb.Select(scenarioColumns...)
		sb.From(tableName)
		sb.OrderBy("id").Desc()
		query, args := sb.Build()
		return db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, err
	}

	items := make([]Scenario, 0, len(rows))
	for _, row := range rows {
		items = append(items, Scenario{
			ID:          row.ID,
			Scenario:    row.Scenario,
			Description: row.Description,
			Owner:       ownerPtr(row.Owner),
			CreatedAt:   row.CreatedAt.t,
		})
	}
	return items, nil
}

func (s *Store) withConn(ctx context.Context, op string, fn func(db *sqlx.DB) error) error {
	if s == nil || s.path == "" || s.path == "." {
		return storageErr(op, fmt.Errorf("empty store path"))
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storageErr(op, fmt.Errorf("%w: %s", ErrNotProvisioned, s.path))
		}
		return storageErr(op, err)
	}
	if info.IsDir() {
		return storageErr(op, fmt.Errorf("store path %q is a directory", s.path))
	}

	db, err := openDB(ctx, s.path)
	if err != nil {
		return storageErr(op, err)
	}
	if err := fn(db); err != nil {
		_ = db.Close()
		return storageErr(op, err)
	}
	if err := db.Close(); err != nil {
		return storageErr(op, fmt.Errorf("close: %w", err))
	}
	return nil
}

func openDB(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, pragmaBusyTimeout); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite %q: %w", pragmaBusyTimeout, err)
	}
	return db, nil
}
