package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/soql/query"
)

// FileColumn is the column added to rows read through a glob pattern
const FileColumn = "_file"

// maxFiles bounds the number of files a glob may expand to
const maxFiles = 1000

// Reader reads the rows of one parquet file.
//
// It keeps the OS file handle next to the parquet handle so that Close
// releases both.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens the parquet file at path.
//
//	r, err := NewReader("contacts.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads every row into memory. Nested groups become nested
// maps, which query paths such as address.city resolve.
func (r *Reader) ReadAll() ([]query.Row, error) {
	rows := make([]query.Row, 0, r.pqFile.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(query.Row)
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Columns returns the top-level column names in schema order
func (r *Reader) Columns() []string {
	fields := r.pqFile.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

// Schema returns the parquet schema of the file
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Table is the content of one or more parquet files
type Table struct {
	Columns []string
	Rows    []query.Row
	Files   []string
}

// ReadTable reads a single file, or every file matching a glob pattern.
//
// Patterns use filepath.Match syntax: *, ? and [range]. Rows read
// through a pattern carry the source path in the _file column, which is
// appended to Columns. The files of a pattern must share their columns.
func ReadTable(pattern string) (*Table, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		rows, columns, err := readFile(pattern)
		if err != nil {
			return nil, err
		}
		return &Table{Columns: columns, Rows: rows, Files: []string{pattern}}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	table := &Table{Files: matches}
	for _, path := range matches {
		rows, columns, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if table.Columns == nil {
			table.Columns = append(columns, FileColumn)
		} else if !slices.Equal(table.Columns[:len(table.Columns)-1], columns) {
			return nil, fmt.Errorf("%s: columns %v differ from %v", path, columns, table.Columns[:len(table.Columns)-1])
		}

		for _, row := range rows {
			row[FileColumn] = path
		}
		table.Rows = append(table.Rows, rows...)
	}

	return table, nil
}

func readFile(path string) ([]query.Row, []string, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, nil, err
	}

	rows, readErr := r.ReadAll()
	columns := r.Columns()
	closeErr := r.Close()

	if readErr != nil {
		return nil, nil, readErr
	}
	if closeErr != nil {
		return nil, nil, fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return rows, columns, nil
}
