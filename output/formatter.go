package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vegasq/soql/query"
)

// Formatter writes query results in one output format.
type Formatter interface {
	// Format writes rows. columns gives the column order; when nil the
	// union of the row keys is used, sorted.
	Format(columns []string, rows []query.Row) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Formats lists the names accepted by New
var Formats = []string{"table", "json", "jsonl", "csv"}

// New returns the formatter for a format name
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "jsonl":
		return NewJSONLinesFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	}
	return nil, fmt.Errorf("unsupported output format %q (supported: %v)", format, Formats)
}

// columnsOf returns columns, or the sorted union of the row keys
func columnsOf(columns []string, rows []query.Row) []string {
	if columns != nil {
		return columns
	}
	return query.GetColumnNames(rows)
}

// formatValue renders a value as a single text cell
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	case map[string]interface{}, []interface{}:
		// nested groups and lists as JSON
		b, err := json.Marshal(val)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}
