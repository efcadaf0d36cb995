package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// contactRow is a flat record with common scalar types
type contactRow struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Age    int32   `parquet:"age"`
	Active bool    `parquet:"active"`
	Score  float64 `parquet:"score"`
}

type addressGroup struct {
	City string `parquet:"city"`
	Zip  string `parquet:"zip"`
}

// nestedRow has an optional column, a group and a repeated column
type nestedRow struct {
	ID      int64        `parquet:"id"`
	Email   *string      `parquet:"email,optional"`
	Address addressGroup `parquet:"address"`
	Tags    []string     `parquet:"tags"`
}

// writeParquet writes rows to dir/name and returns the path
func writeParquet[T any](t *testing.T, dir, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file %s: %v", name, err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data to %s: %v", name, err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer for %s: %v", name, err)
	}

	return path
}

func testContacts() []contactRow {
	return []contactRow{
		{ID: 1, Name: "alice", Age: 30, Active: true, Score: 95.5},
		{ID: 2, Name: "bob", Age: 25, Active: false, Score: 82.25},
		{ID: 3, Name: "charlie", Age: 35, Active: true, Score: 88.75},
	}
}

func strPtr(v string) *string {
	return &v
}
