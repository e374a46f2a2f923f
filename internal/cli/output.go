package cli

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PyramidAGI/scenariodb/internal/storage"
	"github.com/PyramidAGI/scenariodb/internal/tui"
)

type outputFormat string

const (
	formatLines outputFormat = "lines"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func resolveFormat(globals *GlobalOptions, yamlOut bool) (outputFormat, error) {
	asJSON := globals != nil && globals.JSON
	switch {
	case asJSON && yamlOut:
		return "", usageErrorf("--json and --yaml are mutually exclusive")
	case asJSON:
		return formatJSON, nil
	case yamlOut:
		return formatYAML, nil
	default:
		return formatLines, nil
	}
}

func writeScenarios(w io.Writer, items []storage.Scenario, format outputFormat) error {
	switch format {
	case formatJSON:
		return printJSON(w, items)
	case formatYAML:
		return printYAML(w, items)
	default:
		return writeScenarioLines(w, items)
	}
}

// writeScenarioLines prints one record per line, newest first, with the same
// cells the terminal form shows.
func writeScenarioLines(w io.Writer, items []storage.Scenario) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no scenarios")
		return err
	}
	for _, item := range items {
		if _, err := fmt.Fprintln(w, strings.Join(tui.RenderRow(item), " | ")); err != nil {
			return err
		}
	}
	return nil
}

func writeColumnLines(w io.Writer, columns []storage.Column) error {
	for _, c := range columns {
		def := "-"
		if c.Default != nil {
			def = *c.Default
		}
		if _, err := fmt.Fprintf(
			w,
			"%d %s %s not_null=%t pk=%t default=%s\n",
			c.CID,
			c.Name,
			c.Type,
			c.NotNull,
			c.PrimaryKey,
			def,
		); err != nil {
			return err
		}
	}
	return nil
}

func printYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
