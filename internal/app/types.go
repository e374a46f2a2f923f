package app

import (
	"context"

	"github.com/PyramidAGI/scenariodb/internal/storage"
)

// CreateScenarioRequest carries raw form or flag input. Values are trimmed
// before validation; an empty owner means no owner.
type CreateScenarioRequest struct {
	Scenario    string
	Description string
	Owner       string
}

type ScenarioRepository interface {
	Insert(ctx context.Context, in storage.NewScenario) (int64, error)
	List(ctx context.Context) ([]storage.Scenario, error)
}

// ScenarioClient is what the CLI and the terminal form need from the app
// layer.
type ScenarioClient interface {
	Create(ctx context.Context, req CreateScenarioRequest) (int64, error)
	List(ctx context.Context) ([]storage.Scenario, error)
}

var _ ScenarioClient = (*ScenarioService)(nil)
