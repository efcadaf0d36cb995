package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/soql/query"
)

// CSVFormatter outputs rows as CSV with a header row
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes rows as CSV. The header is written even without rows
// when columns are known.
func (c *CSVFormatter) Format(columns []string, rows []query.Row) error {
	csvWriter := csv.NewWriter(c.writer)

	columns = columnsOf(columns, rows)
	if len(columns) > 0 {
		if err := csvWriter.Write(columns); err != nil {
			return err
		}
	}

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = csvValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// csvValue renders a cell, neutralising text a spreadsheet would run
// as a formula
func csvValue(v interface{}) string {
	s := formatValue(v)
	if _, isString := v.(string); isString && s != "" {
		switch s[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(s, "'", "''")
		}
	}
	return s
}
