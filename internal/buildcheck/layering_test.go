package buildcheck

import (
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/PyramidAGI/scenariodb"

func TestGoVetProducesNoWarnings(t *testing.T) {
	t.Parallel()
	root := repoRoot(t)

	cmd := exec.Command("go", "vet", "./...")
	cmd.Dir = root
	output, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "go vet failed:\n%s", string(output))
}

func TestStorageImportsNoInternalPackages(t *testing.T) {
	t.Parallel()
	root := repoRoot(t)

	for pkg, imports := range listDirectImports(t, root, "./internal/storage") {
		for _, imp := range imports {
			require.Falsef(t, strings.HasPrefix(imp, modulePath+"/"),
				"package %s imports %q; storage sits at the bottom of the graph", pkg, imp)
		}
	}
}

func TestLabelsUsesStdlibOnly(t *testing.T) {
	t.Parallel()
	root := repoRoot(t)

	for pkg, imports := range listDirectImports(t, root, "./internal/labels") {
		for _, imp := range imports {
			require.Truef(t, isStdlib(imp), "package %s imported %q", pkg, imp)
		}
	}
}

func TestServicesDoNotImportFrontends(t *testing.T) {
	t.Parallel()
	root := repoRoot(t)

	frontends := []string{modulePath + "/internal/cli", modulePath + "/internal/tui"}
	for _, target := range []string{"./internal/app", "./internal/storage", "./internal/config", "./internal/watch"} {
		deps := listDependencies(t, root, target)
		for _, dep := range deps {
			require.NotContainsf(t, frontends, dep, "%s depends on %s", target, dep)
		}
	}
}

func TestTUIDoesNotImportCLI(t *testing.T) {
	t.Parallel()
	root := repoRoot(t)

	for _, dep := range listDependencies(t, root, "./internal/tui") {
		require.NotEqual(t, modulePath+"/internal/cli", dep)
	}
}

func TestVersionEmbedding(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	root := repoRoot(t)
	binaryPath := filepath.Join(t.TempDir(), "scenariodb-test")

	version := "v0.1.0-test"
	commit := "abc123def456"
	buildTime := "2026-10-16T00:00:00Z"

	build := exec.Command(
		"go",
		"build",
		"-trimpath",
		"-ldflags",
		"-X "+modulePath+"/internal/version.Version="+version+
			" -X "+modulePath+"/internal/version.Commit="+commit+
			" -X "+modulePath+"/internal/version.BuildTime="+buildTime,
		"-o",
		binaryPath,
		"./cmd/scenariodb",
	)
	build.Dir = root
	buildOutput, err := build.CombinedOutput()
	require.NoErrorf(t, err, "build failed:\n%s", string(buildOutput))

	run := exec.Command(binaryPath, "--json", "version")
	run.Dir = root
	stdout, err := run.Output()
	require.NoError(t, err)

	var got struct {
		Version   string `json:"version"`
		Commit    string `json:"commit"`
		BuildTime string `json:"build_time"`
	}
	require.NoError(t, json.Unmarshal(stdout, &got))
	require.Equal(t, version, got.Version)
	require.Equal(t, commit, got.Commit)
	require.Equal(t, buildTime, got.BuildTime)
}

func listDependencies(t *testing.T, root string, target string) []string {
	t.Helper()
	cmd := exec.Command("go", "list", "-deps", target)
	cmd.Dir = root
	output, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "go list failed:\n%s", string(output))

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	deps := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		deps = append(deps, line)
	}
	return deps
}

func listDirectImports(t *testing.T, root, pattern string) map[string][]string {
	t.Helper()
	cmd := exec.Command("go", "list", "-json", pattern)
	cmd.Dir = root
	output, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "go list -json failed:\n%s", string(output))

	dec := json.NewDecoder(strings.NewReader(string(output)))
	importsByPkg := map[string][]string{}
	for {
		var p struct {
			ImportPath string
			Imports    []string
		}
		err := dec.Decode(&p)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		importsByPkg[p.ImportPath] = append([]string(nil), p.Imports...)
	}
	return importsByPkg
}

func isStdlib(importPath string) bool {
	first := importPath
	if idx := strings.Index(importPath, "/"); idx > -1 {
		first = importPath[:idx]
	}
	return !strings.Contains(first, ".")
}

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	return root
}
