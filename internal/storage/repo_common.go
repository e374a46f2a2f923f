package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// sqliteTimeLayouts covers CURRENT_TIMESTAMP output and the RFC3339 variants
// a driver may hand back for DATETIME columns.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05 -0700 MST",
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognized layout", raw)
}

// dbTime scans a DATETIME column whether the driver returns text or an
// already decoded time.Time.
type dbTime struct {
	t time.Time
}

func (d *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.t = time.Time{}
		return nil
	case time.Time:
		d.t = v.UTC()
		return nil
	case string:
		t, err := parseTime(v)
		if err != nil {
			return err
		}
		d.t = t
		return nil
	case []byte:
		t, err := parseTime(string(v))
		if err != nil {
			return err
		}
		d.t = t
		return nil
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func nullableOwner(owner string) sql.NullString {
	if isBlank(owner) {
		return sql.NullString{}
	}
	return sql.NullString{String: owner, Valid: true}
}

func ownerPtr(raw sql.NullString) *string {
	if !raw.Valid {
		return nil
	}
	owner := raw.String
	return &owner
}
