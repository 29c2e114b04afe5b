package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// NotAvailable fills table cells that have no value.
const NotAvailable = "N/A"

func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// render writes data in the selected output format. fill populates the
// table used by the table format.
func render(w io.Writer, data any, fill func(table *tablewriter.Table)) error {
	switch outputFormat() {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding data to JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(constants.JSONIndentSize)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding data to YAML: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable:
		table := tablewriter.NewWriter(w)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnsupportedOutput, outputFormat())
	}
}

func orNotAvailable(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

func valueOf(value *string) string {
	if value == nil {
		return NotAvailable
	}

	return orNotAvailable(*value)
}

func pageHint(w io.Writer, allPages bool, totalPages int) {
	if !allPages && totalPages > 1 {
		_, _ = fmt.Fprintf(w, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", totalPages)
	}
}
