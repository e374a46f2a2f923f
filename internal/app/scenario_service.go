package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/PyramidAGI/scenariodb/internal/storage"
)

type ScenarioService struct {
	scenarios ScenarioRepository
	logger    *slog.Logger
}

func NewScenarioService(scenarios ScenarioRepository, logger *slog.Logger) *ScenarioService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ScenarioService{scenarios: scenarios, logger: logger}
}

// Create trims the request, validates it and stores it. Validation failures
// come back as *storage.ValidationError without touching the store.
func (s *ScenarioService) Create(ctx context.Context, req CreateScenarioRequest) (int64, error) {
	in := NormalizeRequest(req)
	if err := storage.Validate(in); err != nil {
		s.logger.Debug("scenario rejected", "err", err)
		return 0, err
	}

	id, err := s.scenarios.Insert(ctx, in)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, storage.ErrValidation) || errors.Is(err, storage.ErrNotProvisioned) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "insert scenario failed", "err", err)
		return 0, err
	}
	s.logger.Info("scenario saved", "id", id, "scenario", in.Scenario, "owner", in.Owner)
	return id, nil
}

func (s *ScenarioService) List(ctx context.Context) ([]storage.Scenario, error) {
	items, err := s.scenarios.List(ctx)
	if err != nil {
		s.logger.Warn("list scenarios failed", "err", err)
		return nil, err
	}
	s.logger.Debug("scenarios listed", "count", len(items))
	return items, nil
}

func NormalizeRequest(req CreateScenarioRequest) storage.NewScenario {
	return storage.NewScenario{
		Scenario:    strings.TrimSpace(req.Scenario),
		Description: strings.TrimSpace(req.Description),
		Owner:       strings.TrimSpace(req.Owner),
	}
}
