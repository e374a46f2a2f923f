package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const scenarioTableDDL = `CREATE TABLE %s` + tableName + ` (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario    VARCHAR(50)  NOT NULL CHECK (length(trim(scenario)) > 0 AND length(scenario) <= 50),
	description VARCHAR(100) NOT NULL CHECK (length(trim(description)) > 0 AND length(description) <= 100),
	owner       VARCHAR(30)  CHECK (owner IS NULL OR length(owner) <= 30),
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
)`

var sidecarSuffixes = []string{"-journal", "-wal", "-shm"}

// Reset destroys any store at path and provisions a fresh one holding only
// the scenarios table. The new file is built next to path and renamed into
// place, so a failed reset never leaves a usable half-created store.
//
// Reset must not run while other callers are using the store.
func Reset(ctx context.Context, path string) error {
	return resetWithDDL(ctx, path, fmt.Sprintf(scenarioTableDDL, ""))
}

func resetWithDDL(ctx context.Context, path, ddl string) error {
	path, err := cleanStorePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return provisioningErr(path, "create parent dir: %w", err)
	}

	if err := removeStoreFiles(path); err != nil {
		return provisioningErr(path, "remove existing store: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := createStore(ctx, tmp, ddl); err != nil {
		_ = removeStoreFiles(tmp)
		return &ProvisioningError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = removeStoreFiles(tmp)
		return provisioningErr(path, "move new store into place: %w", err)
	}
	return nil
}

// Ensure creates the store and its table when missing and leaves existing
// data untouched.
func Ensure(ctx context.Context, path string) error {
	path, err := cleanStorePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return provisioningErr(path, "create parent dir: %w", err)
	}
	if err := createStore(ctx, path, fmt.Sprintf(scenarioTableDDL, "IF NOT EXISTS ")); err != nil {
		return &ProvisioningError{Path: path, Err: err}
	}
	return nil
}

// Describe reports the column layout of the scenarios table.
func Describe(ctx context.Context, path string) ([]Column, error) {
	var columns []Column
	err := NewStore(path).withConn(ctx, "describe store", func(db *sqlx.DB) error {
		ok, err := tableExists(ctx, db, tableName)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: table %s missing", ErrNotProvisioned, tableName)
		}
		columns, err = tableInfo(ctx, db, tableName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}

func createStore(ctx context.Context, path, ddl string) error {
	db, err := openDB(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create table %s: %w", tableName, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}

	ok, err := tableExists(ctx, db, tableName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("verify schema: table %s not found after create", tableName)
	}
	return db.Close()
}

func tableExists(ctx context.Context, db *sqlx.DB, table string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return true, nil
}

func tableInfo(ctx context.Context, db *sqlx.DB, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(`+table+`)`)
	if err != nil {
		return nil, fmt.Errorf("query table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := []Column{}
	for rows.Next() {
		var (
			c       Column
			notNull int
			dfltVal sql.NullString
			pk      int
		)
		if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notNull, &dfltVal, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk != 0
		if dfltVal.Valid {
			v := dfltVal.String
			c.Default = &v
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info %s: %w", table, err)
	}
	return columns, nil
}

func removeStoreFiles(path string) error {
	for _, p := range append([]string{path}, sidecarPaths(path)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func sidecarPaths(path string) []string {
	out := make([]string, 0, len(sidecarSuffixes))
	for _, suffix := range sidecarSuffixes {
		out = append(out, path+suffix)
	}
	return out
}

func cleanStorePath(path string) (string, error) {
	if path == "" {
		return "", &ProvisioningError{Path: path, Err: errors.New("empty store path")}
	}
	path = filepath.Clean(path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", provisioningErr(path, "store path is a directory")
	}
	return path, nil
}
