// Generates the sample files used in the soql usage examples:
//
//	go run ./testdata/generate.go
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/vegasq/soql/internal/log"
)

type Address struct {
	City    string `parquet:"city"`
	Country string `parquet:"country"`
}

type Contact struct {
	ID       int64     `parquet:"id"`
	Name     string    `parquet:"name"`
	Age      int32     `parquet:"age"`
	Active   bool      `parquet:"active"`
	Score    float64   `parquet:"score"`
	Email    *string   `parquet:"email,optional"`
	Created  time.Time `parquet:"created,timestamp(millisecond)"`
	Address  Address   `parquet:"address"`
	Tags     []string  `parquet:"tags"`
	Category string    `parquet:"category,enum"`
}

func email(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 9, 30, 0, 0, time.UTC)
}

func main() {
	logger, err := log.NewLogger(log.Config{Level: "info", Encoding: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	batches := map[string][]Contact{
		"contacts_1.parquet": {
			{ID: 1, Name: "alice", Age: 30, Active: true, Score: 95.5, Email: email("alice@example.com"),
				Created: day(3), Address: Address{"NYC", "US"}, Tags: []string{"vip"}, Category: "customer"},
			{ID: 2, Name: "bob", Age: 25, Score: 82.3,
				Created: day(5), Address: Address{"Oslo", "NO"}, Category: "lead"},
			{ID: 3, Name: "charlie", Age: 35, Active: true, Score: 88.7, Email: email("charlie@example.com"),
				Created: day(8), Address: Address{"NYC", "US"}, Tags: []string{"vip", "beta"}, Category: "customer"},
		},
		"contacts_2.parquet": {
			{ID: 4, Name: "diana", Age: 28, Active: true, Score: 91.2, Email: email("diana@example.com"),
				Created: day(13), Address: Address{"Berlin", "DE"}, Category: "partner"},
			{ID: 5, Name: "eve", Age: 42, Score: 76.8,
				Created: day(21), Address: Address{"Oslo", "NO"}, Tags: []string{"beta"}, Category: "lead"},
		},
	}

	dir := "testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	for name, contacts := range batches {
		path := filepath.Join(dir, name)
		if err := parquet.WriteFile(path, contacts); err != nil {
			logger.Fatal("failed to write sample file", log.Source(path), log.Err(err))
		}
		logger.Info("generated sample file", log.Source(path), log.Rows(len(contacts)), zap.String("schema", "contact"))
	}
}
