package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vegasq/soql/query"
)

func TestTableFormatter_Format(t *testing.T) {
	rows := []query.Row{
		{"id": int64(1), "name": "alice", "city": nil},
		{"id": int64(2), "name": "bob", "city": "Oslo"},
	}

	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format([]string{"name", "id", "city"}, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// border, header, border, two rows, border
	if len(lines) != 6 {
		t.Fatalf("Format() produced %d lines, want 6:\n%s", len(lines), out)
	}

	header := lines[1]
	if !(strings.Index(header, "name") < strings.Index(header, "id") &&
		strings.Index(header, "id") < strings.Index(header, "city")) {
		t.Errorf("header %q does not follow column order", header)
	}
	for _, want := range []string{"alice", "bob", "Oslo", "NULL"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_HeaderCase(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format([]string{"first_name"}, []query.Row{{"first_name": "x"}}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "first_name") {
		t.Errorf("header should be printed as given:\n%s", buf.String())
	}
}
