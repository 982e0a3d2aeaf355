package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// tabular is the table rendering of a result.
type tabular struct {
	headers []string
	rows    [][]string
}

// fields renders key/value pairs as a two-column table.
func fields(pairs ...string) tabular {
	t := tabular{headers: []string{"Field", "Value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.rows = append(t.rows, []string{pairs[i], pairs[i+1]})
	}
	return t
}

// render writes value in the configured format. tbl is used for table output.
func render(w io.Writer, format string, value interface{}, tbl tabular) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()

	default:
		_, err := fmt.Fprintln(w, renderTable(tbl))
		return err
	}
}

func renderTable(tbl tabular) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(tbl.headers...)
	for _, r := range tbl.rows {
		t.Row(r...)
	}
	return t.String()
}

// done prints a one-line confirmation for mutating commands.
func done(w io.Writer, format, message string) error {
	if format != formatTable {
		return render(w, format, map[string]string{"result": "ok", "message": message}, tabular{})
	}
	_, err := fmt.Fprintln(w, successStyle.Render("✓")+" "+message)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
