// Package output writes query results in text formats.
//
// All formatters take the column order next to the rows, so output
// follows the select list or the file schema instead of map order.
//
// # Supported Formats
//
//   - table: ASCII table for terminals (github.com/olekukonko/tablewriter)
//   - json: one JSON array holding every row
//   - jsonl: one JSON object per line (suitable for streaming)
//   - csv: comma-separated values with a header row
//
// # Basic Usage
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(res.Columns, res.Rows); err != nil {
//	    log.Fatal(err)
//	}
//
// Passing nil columns uses the sorted union of the row keys.
//
// # Type Handling
//
//   - strings, numbers and booleans are written directly
//   - times use RFC 3339 and decimals their exact text
//   - JSON output keeps nested groups as objects; CSV and table cells
//     hold them as JSON text
//   - nil is null in JSON, an empty CSV cell and NULL in tables
//   - CSV cells starting with a formula character are prefixed with '
package output
