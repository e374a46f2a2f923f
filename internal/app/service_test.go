package app

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/PyramidAGI/scenariodb/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestScenarioServiceCreateTrimsInput(t *testing.T) {
	t.Parallel()

	store := newAppTestStore(t)
	svc := NewScenarioService(store, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateScenarioRequest{
		Scenario:    "  Load test ",
		Description: "\tSimulate 10k users\n",
		Owner:       " alice ",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Load test", items[0].Scenario)
	require.Equal(t, "Simulate 10k users", items[0].Description)
	require.NotNil(t, items[0].Owner)
	require.Equal(t, "alice", *items[0].Owner)
}

func TestScenarioServiceCreateBlankOwnerIsAbsent(t *testing.T) {
	t.Parallel()

	store := newAppTestStore(t)
	svc := NewScenarioService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateScenarioRequest{Scenario: "Smoke test", Description: "Basic check", Owner: "   "})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Nil(t, items[0].Owner)
}

func TestScenarioServiceCreateValidatesBeforeInsert(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	svc := NewScenarioService(repo, nil)

	tests := []struct {
		name  string
		req   CreateScenarioRequest
		field string
	}{
		{name: "missing scenario", req: CreateScenarioRequest{Description: "d"}, field: "scenario"},
		{name: "whitespace description", req: CreateScenarioRequest{Scenario: "s", Description: "   "}, field: "description"},
		{name: "long owner", req: CreateScenarioRequest{Scenario: "s", Description: "d", Owner: "0123456789012345678901234567890"}, field: "owner"},
	}
	for _, tt := range tests {
		_, err := svc.Create(context.Background(), tt.req)
		var verr *storage.ValidationError
		require.ErrorAsf(t, err, &verr, tt.name)
		require.Equal(t, tt.field, verr.Field, tt.name)
	}
	require.Zero(t, repo.inserts)
}

func TestScenarioServiceTrimmedLengthIsValidated(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	svc := NewScenarioService(repo, nil)

	padded := "   " + string(bytes.Repeat([]byte("s"), storage.MaxScenarioLen)) + "   "
	_, err := svc.Create(context.Background(), CreateScenarioRequest{Scenario: padded, Description: "d"})
	require.NoError(t, err)
	require.Equal(t, storage.MaxScenarioLen, len(repo.last.Scenario))
}

func TestScenarioServicePropagatesStorageErrors(t *testing.T) {
	t.Parallel()

	store := storage.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	svc := NewScenarioService(store, nil)

	_, err := svc.Create(context.Background(), CreateScenarioRequest{Scenario: "s", Description: "d"})
	require.ErrorIs(t, err, storage.ErrStorage)
	require.ErrorIs(t, err, storage.ErrNotProvisioned)

	items, err := svc.List(context.Background())
	require.Nil(t, items)
	require.ErrorIs(t, err, storage.ErrStorage)
}

func TestScenarioServiceReturnsRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{err: &storage.StorageError{Op: "insert scenario", Err: context.DeadlineExceeded}}
	svc := NewScenarioService(repo, nil)

	_, err := svc.Create(context.Background(), CreateScenarioRequest{Scenario: "s", Description: "d"})
	require.ErrorIs(t, err, storage.ErrStorage)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScenarioServiceLogsSave(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := &recordingRepo{}
	svc := NewScenarioService(repo, logger)

	_, err := svc.Create(context.Background(), CreateScenarioRequest{Scenario: "s", Description: "d", Owner: "erin"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "scenario saved")
	require.Contains(t, buf.String(), `"id":1`)
}

func TestProvisionStoreRefusesOverwriteWithoutConfirmation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.db")

	replaced, err := ProvisionStore(ctx, path, ProvisionOptions{})
	require.NoError(t, err)
	require.False(t, replaced)

	svc := NewScenarioService(storage.NewStore(path), nil)
	_, err = svc.Create(ctx, CreateScenarioRequest{Scenario: "keep", Description: "me"})
	require.NoError(t, err)

	_, err = ProvisionStore(ctx, path, ProvisionOptions{})
	require.ErrorIs(t, err, ErrStoreExists)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	replaced, err = ProvisionStore(ctx, path, ProvisionOptions{Overwrite: true})
	require.NoError(t, err)
	require.True(t, replaced)
	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestProvisionStoreRejectsDirectory(t *testing.T) {
	t.Parallel()

	_, err := ProvisionStore(context.Background(), t.TempDir(), ProvisionOptions{Overwrite: true})
	require.ErrorIs(t, err, storage.ErrProvisioning)
}

func TestEnsureStoreReportsCreation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "database.db")

	created, err := EnsureStore(ctx, path, nil)
	require.NoError(t, err)
	require.True(t, created)

	created, err = EnsureStore(ctx, path, nil)
	require.NoError(t, err)
	require.False(t, created)
}

func newAppTestStore(t *testing.T) *storage.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "database.db")
	require.NoError(t, storage.Reset(context.Background(), path))
	return storage.NewStore(path)
}

type recordingRepo struct {
	inserts int
	last    storage.NewScenario
	err     error
}

var _ ScenarioRepository = (*recordingRepo)(nil)

func (r *recordingRepo) Insert(_ context.Context, in storage.NewScenario) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.inserts++
	r.last = in
	return int64(r.inserts), nil
}

func (r *recordingRepo) List(context.Context) ([]storage.Scenario, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []storage.Scenario{}, nil
}
