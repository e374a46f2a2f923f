package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra/doc"
)

const manSection = "1"

// GenerateManPages writes one page per command into outDir and returns the
// written paths, sorted. The page date is the build time when it parses.
func GenerateManPages(outDir string, build BuildInfo) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create man output directory: %w", err)
	}

	root := NewRootCommand(io.Discard, build)
	root.DisableAutoGenTag = true
	header := &doc.GenManHeader{
		Title:   "SCENARIODB",
		Section: manSection,
		Source:  "ScenarioDB " + build.Version,
		Manual:  "ScenarioDB Manual",
	}
	if built, err := time.Parse(time.RFC3339, build.BuildTime); err == nil {
		header.Date = &built
	}

	if err := doc.GenManTree(root, header, outDir); err != nil {
		return nil, fmt.Errorf("generate man pages: %w", err)
	}

	pages, err := filepath.Glob(filepath.Join(outDir, "*."+manSection))
	if err != nil {
		return nil, fmt.Errorf("list man pages: %w", err)
	}
	sort.Strings(pages)
	return pages, nil
}
