package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vegasq/soql/query"
)

func TestJSONLinesFormatter_Format(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    []query.Row
		want    string
	}{
		{
			name: "empty rows",
			rows: []query.Row{},
			want: "",
		},
		{
			name:    "keys follow column order",
			columns: []string{"name", "id"},
			rows: []query.Row{
				{"id": int64(1), "name": "alice"},
				{"id": int64(2), "name": "bob"},
			},
			want: `{"name":"alice","id":1}` + "\n" + `{"name":"bob","id":2}` + "\n",
		},
		{
			name: "no columns sorts keys",
			rows: []query.Row{{"b": true, "a": nil}},
			want: `{"a":null,"b":true}` + "\n",
		},
		{
			name:    "missing column is null",
			columns: []string{"id", "city"},
			rows:    []query.Row{{"id": int32(3)}},
			want:    `{"id":3,"city":null}` + "\n",
		},
		{
			name:    "nested groups",
			columns: []string{"address"},
			rows:    []query.Row{{"address": map[string]interface{}{"city": "Paris"}}},
			want:    `{"address":{"city":"Paris"}}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewJSONLinesFormatter(&buf).Format(tt.columns, tt.rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONLinesFormatter_Types(t *testing.T) {
	rows := []query.Row{{
		"when":  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"price": decimal.RequireFromString("12.50"),
		"score": 95.5,
	}}

	var buf bytes.Buffer
	if err := NewJSONLinesFormatter(&buf).Format(nil, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if obj["when"] != "2024-01-02T03:04:05Z" {
		t.Errorf("when = %v", obj["when"])
	}
	if obj["price"] != "12.5" {
		t.Errorf("price = %v", obj["price"])
	}
	if obj["score"] != 95.5 {
		t.Errorf("score = %v", obj["score"])
	}
}

func TestJSONLinesFormatter_UnsupportedValue(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONLinesFormatter(&buf).Format([]string{"f"}, []query.Row{{"f": func() {}}})
	if err == nil {
		t.Fatal("Format() should fail on a value JSON cannot encode")
	}
	if !strings.Contains(err.Error(), "column f") {
		t.Errorf("error %q should name the column", err)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	rows := []query.Row{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": "bob"},
	}

	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format([]string{"id", "name"}, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := `[{"id":1,"name":"alice"},{"id":2,"name":"bob"}]` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := NewJSONFormatter(&buf).Format(nil, nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("Format() of no rows = %q, want []", got)
	}
}

func TestFormatter_SetOutput(t *testing.T) {
	rows := []query.Row{{"id": int64(1)}}

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf1, buf2 bytes.Buffer
			formatter, err := New(format, &buf1)
			if err != nil {
				t.Fatalf("New(%q) error = %v", format, err)
			}
			if err := formatter.Format(nil, rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			formatter.SetOutput(&buf2)
			if err := formatter.Format(nil, rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			if buf1.Len() == 0 || buf1.String() != buf2.String() {
				t.Errorf("outputs differ: %q and %q", buf1.String(), buf2.String())
			}
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New() should reject an unknown format")
	}
}
