package storage

import "time"

const (
	MaxScenarioLen    = 50
	MaxDescriptionLen = 100
	MaxOwnerLen       = 30
)

// Scenario is a stored record. Owner is nil when no owner was recorded.
type Scenario struct {
	ID          int64     `json:"id" yaml:"id"`
	Scenario    string    `json:"scenario" yaml:"scenario"`
	Description string    `json:"description" yaml:"description"`
	Owner       *string   `json:"owner" yaml:"owner"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewScenario is the insert payload. A blank Owner is stored as NULL.
type NewScenario struct {
	Scenario    string `db:"scenario" validate:"notblank,max=50"`
	Description string `db:"description" validate:"notblank,max=100"`
	Owner       string `db:"owner" validate:"omitempty,max=30"`
}

// Column mirrors one row of PRAGMA table_info.
type Column struct {
	CID        int     `json:"cid" yaml:"cid"`
	Name       string  `json:"name" yaml:"name"`
	Type       string  `json:"type" yaml:"type"`
	NotNull    bool    `json:"not_null" yaml:"not_null"`
	Default    *string `json:"default" yaml:"default"`
	PrimaryKey bool    `json:"primary_key" yaml:"primary_key"`
}

// ColumnNames lists the scenarios table columns in declaration order.
func ColumnNames() []string {
	return append([]string(nil), scenarioColumns...)
}
