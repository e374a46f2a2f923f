package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileSignalsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "database.db")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := File(ctx, path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	}

	select {
	case _, ok := <-changes:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}
}

func TestFileIgnoresSiblings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "database.db")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := File(ctx, path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	select {
	case <-changes:
		t.Fatal("unexpected signal for sibling file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileSignalsOnRenameIntoPlace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "database.db")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := File(ctx, path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	tmp := filepath.Join(dir, ".database.db.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("fresh"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled after rename")
	}
}

func TestFileClosesChannelOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := File(ctx, filepath.Join(t.TempDir(), "database.db"), 0, nil)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-changes:
		require.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestFileRejectsMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := File(context.Background(), filepath.Join(t.TempDir(), "missing", "database.db"), 0, nil)
	require.Error(t, err)

	_, err = File(context.Background(), "", 0, nil)
	require.Error(t, err)
}
