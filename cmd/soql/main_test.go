package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactRow struct {
	ID   int64  `parquet:"id"`
	Name string `parquet:"name"`
	Age  int32  `parquet:"age"`
	City string `parquet:"city"`
}

// createTestParquetFile writes rows to dir/filename
func createTestParquetFile(t *testing.T, dir, filename string, rows []contactRow) string {
	t.Helper()
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	require.NoError(t, err)
	writer := parquet.NewGenericWriter[contactRow](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())
	return path
}

func contactsFile(t *testing.T) string {
	return createTestParquetFile(t, t.TempDir(), "contacts.parquet", []contactRow{
		{ID: 1, Name: "alice", Age: 30, City: "NYC"},
		{ID: 2, Name: "bob", Age: 25, City: "LA"},
		{ID: 3, Name: "charlie", Age: 35, City: "NYC"},
	})
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Tree(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "query as written",
			args: []string{"-q", "select name from Contact where age > 30 and 1 = 1"},
			want: "select name from Contact where ((age > 30) and (1 = 1))\n",
		},
		{
			name: "simplified where",
			args: []string{"-simplify", "-mode", "where", "-q", "1 = 1 and age > {0}"},
			want: "(age > {0})\n",
		},
		{
			name: "expression",
			args: []string{"-mode", "expr", "-q", "1 + 2 * 3"},
			want: "(1 + (2 * 3))\n",
		},
		{
			name: "folded expression",
			args: []string{"-simplify", "-mode", "expr", "-q", "1 + 2 * 3"},
			want: "7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRun_SQL(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-sql", "-simplify", "-mode", "where", "-q", "age > {0} and true")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "(`age` > ?)\n-- params: [0]\n", stdout)

	code, stdout, stderr = runCLI(t, "-sql", "-q", "select top 2 name from Contact order by age desc")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "SELECT `name` FROM `Contact` ORDER BY `age` DESC LIMIT 2\n", stdout)

	code, _, stderr = runCLI(t, "-sql", "-mode", "where", "-q", "Items.count > 1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}

func TestRun_Tokens(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-mode", "tokens", "-f", "jsonl", "-q", "a = 'b'")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"pos":0`)
	assert.Contains(t, stdout, `"value":"a"`)
	assert.Contains(t, stdout, `"value":"b"`)
}

func TestRun_Execute(t *testing.T) {
	file := contactsFile(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "query",
			args: []string{"-f", "jsonl", "-q", "select name from Contact where city = 'nyc' order by age desc", file},
			want: `{"name":"charlie"}` + "\n" + `{"name":"alice"}` + "\n",
		},
		{
			name: "where with parameter",
			args: []string{"-f", "jsonl", "-mode", "where", "-q", "age >= {0}", "-p", "31", file},
			want: `{"id":3,"name":"charlie","age":35,"city":"NYC"}` + "\n",
		},
		{
			name: "expression per row",
			args: []string{"-f", "jsonl", "-mode", "expr", "-q", "age + 1", file},
			want: `{"(age + 1)":31}` + "\n" + `{"(age + 1)":26}` + "\n" + `{"(age + 1)":36}` + "\n",
		},
		{
			name: "csv",
			args: []string{"-f", "csv", "-q", "select top 1 id, name from Contact order by id", file},
			want: "id,name\n1,alice\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRun_Glob(t *testing.T) {
	dir := t.TempDir()
	createTestParquetFile(t, dir, "a.parquet", []contactRow{{ID: 1, Name: "alice", Age: 30, City: "NYC"}})
	createTestParquetFile(t, dir, "b.parquet", []contactRow{{ID: 2, Name: "bob", Age: 25, City: "LA"}})

	code, stdout, stderr := runCLI(t, "-f", "csv", "-q", "select name, _file from Contact order by name",
		filepath.Join(dir, "*.parquet"))
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,_file", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "alice,"))
	assert.True(t, strings.HasSuffix(lines[2], "b.parquet"))
}

func TestRun_Schema(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-schema", "-f", "jsonl", contactsFile(t))
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"name":"id"`)
	assert.Contains(t, stdout, `"name":"age"`)
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "soql.log")
	cfgFile := filepath.Join(dir, "soql.yaml")
	cfg := "output:\n  format: csv\nlog:\n  level: info\n  output_paths: [" + logFile + "]\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o644))

	code, stdout, stderr := runCLI(t, "-config", cfgFile, "-metrics", "-q", "select name from Contact where id = 2", contactsFile(t))
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "name\nbob\n", stdout)

	logs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "run_id")
	assert.Contains(t, string(logs), "soql_parse_cache_misses_total")
}

func TestRun_Errors(t *testing.T) {
	file := contactsFile(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"unknown flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"missing query", []string{}, 1, "missing -q"},
		{"bad mode", []string{"-mode", "sql", "-q", "a"}, 1, "unknown parse mode"},
		{"syntax error", []string{"-q", "select from"}, 1, "Error:"},
		{"schema and query", []string{"-schema", "-q", "a", file}, 1, "cannot be used together"},
		{"schema without file", []string{"-schema"}, 1, "missing parquet file"},
		{"too many files", []string{"-q", "select * from T", file, file}, 1, "at most one file"},
		{"missing file", []string{"-q", "select * from T", filepath.Join(t.TempDir(), "x.parquet")}, 1, "Error:"},
		{"unbound parameter", []string{"-mode", "where", "-q", "age > {1}", "-p", "1", file}, 1, "Error:"},
		{"bad format", []string{"-f", "xml", "-q", "select * from T", file}, 1, "Error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"null", nil},
		{"TRUE", true},
		{"false", false},
		{"42", int32(42)},
		{"4294967296", int64(4294967296)},
		{"2.5", 2.5},
		{"Oslo", "Oslo"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseParam(tt.in))
		})
	}
}
