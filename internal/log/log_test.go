package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactionOwnerField(t *testing.T) {
	t.Parallel()
	out := logSingleField(t, "owner", "alice")
	require.Equal(t, "[REDACTED]", out["owner"])
}

func TestRedactionCredentialFields(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"password", "secret", "token", "api_key", "dsn", "Owner"} {
		out := logSingleField(t, key, "value-"+key)
		require.Equalf(t, "[REDACTED]", out[key], "key %q", key)
	}
}

func TestRedactionExtraKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil), " Address "))
	logger.Info("labels loaded", "address", "1 Main St", "orgname", "Acme")

	out := decodeLine(t, buf.Bytes())
	require.Equal(t, "[REDACTED]", out["address"])
	require.Equal(t, "Acme", out["orgname"])
}

func TestRedactionNestedGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))
	logger.Info("scenario saved", slog.Group("scenario", slog.Int64("id", 7), slog.String("owner", "bob")))

	out := decodeLine(t, buf.Bytes())
	group, ok := out["scenario"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "[REDACTED]", group["owner"])
	require.EqualValues(t, 7, group["id"])
}

func TestRedactionWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil))).With("owner", "carol")
	logger.Info("scenario saved")

	out := decodeLine(t, buf.Bytes())
	require.Equal(t, "[REDACTED]", out["owner"])
}

func TestNonSensitiveFieldsPassThrough(t *testing.T) {
	t.Parallel()
	out := logSingleField(t, "scenario", "Load test")
	require.Equal(t, "Load test", out["scenario"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"":        slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		require.NoErrorf(t, err, "level %q", raw)
		require.Equal(t, want, got)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewWritesTextToStderr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Stderr: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	logger.Debug("hidden")
	logger.Info("store reset", "owner", "dave")

	text := buf.String()
	require.NotContains(t, text, "hidden")
	require.Contains(t, text, "store reset")
	require.Contains(t, text, "owner=[REDACTED]")
	require.NotContains(t, text, "dave")
}

func TestNewWritesJSONToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "scenariodb.log")
	logger, closer, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("scenario listed", "count", 3)
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := decodeLine(t, raw)
	require.Equal(t, "scenario listed", out["msg"])
	require.EqualValues(t, 3, out["count"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, _, err := New(Options{Level: "verbose"})
	require.Error(t, err)
}

func TestDiscardDropsEverything(t *testing.T) {
	t.Parallel()

	logger := Discard()
	require.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestLogRotationCreatesNewFileAfterLimit(t *testing.T) {
	logDir := t.TempDir()
	logPath := filepath.Join(logDir, "scenariodb.log")

	writer, err := NewRotatingWriter(RotationConfig{
		File:      logPath,
		MaxSizeMB: 1,
		MaxFiles:  3,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	chunk := bytes.Repeat([]byte("a"), 512*1024)
	for i := 0; i < 5; i++ {
		_, err = writer.Write(chunk)
		require.NoError(t, err)
	}

	files, err := filepath.Glob(filepath.Join(logDir, "scenariodb*"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(files), 2)
}

func TestLogRotationRequiresFile(t *testing.T) {
	t.Parallel()

	_, err := NewRotatingWriter(RotationConfig{})
	require.Error(t, err)
}

func logSingleField(t *testing.T, key, value string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewRedactingHandler(base))
	logger.Info("test", key, value)
	return decodeLine(t, buf.Bytes())
}

func decodeLine(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	line := strings.TrimSpace(strings.SplitN(string(raw), "\n", 2)[0])
	out := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	return out
}
