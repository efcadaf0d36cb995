package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/soql/query"
)

// TableFormatter outputs rows as an ASCII table for terminals
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders rows under a header of column names. Null cells are
// shown as NULL.
func (t *TableFormatter) Format(columns []string, rows []query.Row) error {
	columns = columnsOf(columns, rows)

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if v := row[col]; v == nil {
				record[i] = "NULL"
			} else {
				record[i] = formatValue(v)
			}
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
