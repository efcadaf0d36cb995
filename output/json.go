package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vegasq/soql/query"
)

// JSONLinesFormatter outputs one JSON object per row and line
type JSONLinesFormatter struct {
	writer io.Writer
}

// NewJSONLinesFormatter creates a new JSON Lines formatter
func NewJSONLinesFormatter(w io.Writer) *JSONLinesFormatter {
	return &JSONLinesFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLinesFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines with keys in column order
func (j *JSONLinesFormatter) Format(columns []string, rows []query.Row) error {
	columns = columnsOf(columns, rows)
	for _, row := range rows {
		b, err := encodeRow(columns, row)
		if err != nil {
			return err
		}
		b = append(b, '\n')
		if _, err := j.writer.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter outputs all rows as one JSON array
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON array formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as a JSON array with keys in column order
func (j *JSONFormatter) Format(columns []string, rows []query.Row) error {
	columns = columnsOf(columns, rows)

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := encodeRow(columns, row)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	buf.WriteString("]\n")

	_, err := j.writer.Write(buf.Bytes())
	return err
}

// encodeRow marshals row as an object whose keys follow columns.
// encoding/json would sort map keys.
func encodeRow(columns []string, row query.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(row[col])
		if err != nil {
			return nil, fmt.Errorf("failed to encode column %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
