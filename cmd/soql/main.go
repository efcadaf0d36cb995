package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vegasq/soql/cache"
	"github.com/vegasq/soql/internal/config"
	"github.com/vegasq/soql/internal/log"
	"github.com/vegasq/soql/output"
	"github.com/vegasq/soql/query"
	"github.com/vegasq/soql/reader"
	"github.com/vegasq/soql/sqlgen"
)

const modeTokens = "tokens"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	query      string
	mode       string
	format     string
	configPath string
	simplify   bool
	sql        bool
	schema     bool
	metrics    bool
	params     paramList
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("soql", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.query, "q", "", "SOQL text (e.g., \"select Name from Contact where Age > 30\")")
	fs.StringVar(&opts.mode, "mode", "", "Parse mode: query, expr, where, tokens (default from config)")
	fs.StringVar(&opts.format, "f", "", "Output format: table, json, jsonl, csv (default from config)")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&opts.simplify, "simplify", false, "Print the simplified tree instead of the tree as written")
	fs.BoolVar(&opts.sql, "sql", false, "Print the SQL generated for the text")
	fs.BoolVar(&opts.schema, "schema", false, "Show schema information instead of data")
	fs.BoolVar(&opts.metrics, "metrics", false, "Log parse cache metrics on exit")
	fs.Var(&opts.params, "p", "Positional parameter value for {n}, repeatable")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: soql [options] [file.parquet]\n\n")
		fmt.Fprintf(stderr, "Parse SOQL text, or run it against Parquet files.\n\n")
		fmt.Fprintf(stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  soql -q \"select Name from Contact where Age > 30\"\n")
		fmt.Fprintf(stderr, "  soql -mode where -simplify -q \"1 = 1 and Age > {0}\" -p 30\n")
		fmt.Fprintf(stderr, "  soql -sql -q \"select top 5 Name from Contact order by Age desc\"\n")
		fmt.Fprintf(stderr, "  soql -q \"select Name, Age from Contact where City = 'NYC'\" contacts.parquet\n")
		fmt.Fprintf(stderr, "  soql -f csv -q \"select * from Contact\" 'data/*.parquet'\n")
		fmt.Fprintf(stderr, "  soql -schema contacts.parquet\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.mode == "" {
		opts.mode = cfg.Query.Mode
	}
	if opts.format == "" {
		opts.format = cfg.Output.Format
	}
	opts.simplify = opts.simplify || cfg.Query.Simplify

	logger, err := log.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(log.RunID(uuid.NewString()))

	registry := prometheus.NewRegistry()
	parsed, err := cache.New(cfg.Cache.Size, registry)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a := &app{opts: opts, logger: logger, cache: parsed, stdout: stdout}
	err = a.dispatch(fs.Args())
	if opts.metrics {
		logMetrics(logger, registry)
	}
	if err != nil {
		logger.Debug("command failed", log.Err(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type app struct {
	opts   options
	logger *zap.Logger
	cache  *cache.Cache
	stdout io.Writer
}

func (a *app) dispatch(files []string) error {
	if len(files) > 1 {
		return fmt.Errorf("expected at most one file or pattern, got %d", len(files))
	}
	var source string
	if len(files) == 1 {
		source = files[0]
	}

	if a.opts.schema {
		if a.opts.query != "" {
			return errors.New("-schema and -q cannot be used together")
		}
		if source == "" {
			return errors.New("missing parquet file argument")
		}
		return a.showSchema(source)
	}

	if a.opts.query == "" {
		return errors.New("missing -q")
	}

	if a.opts.mode == modeTokens {
		return a.showTokens()
	}
	mode, err := cache.ParseMode(a.opts.mode)
	if err != nil {
		return err
	}

	if a.opts.sql {
		return a.showSQL(mode)
	}
	if source == "" {
		return a.showTree(mode)
	}
	return a.execute(mode, source)
}

// parse returns the cached simplified tree, or a fresh tree as written
func (a *app) parse(mode cache.Mode, simplified bool) (query.Expression, error) {
	start := time.Now()
	defer func() {
		a.logger.Debug("parsed", log.Mode(mode.String()), log.Query(a.opts.query), log.Elapsed(time.Since(start)))
	}()

	if simplified {
		return a.cache.Get(mode, a.opts.query)
	}
	switch mode {
	case cache.ModeExpression:
		return query.ParseExpression(a.opts.query)
	case cache.ModeWhere:
		return query.ParseWhereClause(a.opts.query)
	default:
		return query.ParseQuery(a.opts.query)
	}
}

func (a *app) showTokens() error {
	tokens, err := query.Tokenize(a.opts.query)
	if err != nil {
		return err
	}
	rows := make([]query.Row, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, query.Row{"pos": int64(tok.Pos), "type": tok.Type.String(), "value": tok.Value})
	}
	return a.write([]string{"pos", "type", "value"}, rows)
}

func (a *app) showTree(mode cache.Mode) error {
	expr, err := a.parse(mode, a.opts.simplify)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, expr.String())
	return err
}

func (a *app) showSQL(mode cache.Mode) error {
	expr, err := a.parse(mode, a.opts.simplify)
	if err != nil {
		return err
	}
	stmt, err := sqlgen.Generate(expr)
	if err != nil {
		return err
	}
	if err := sqlgen.NewValidator().Validate(stmt); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(a.stdout, stmt.SQL); err != nil {
		return err
	}
	if len(stmt.Params) > 0 {
		_, err = fmt.Fprintf(a.stdout, "-- params: %v\n", stmt.Params)
	}
	return err
}

func (a *app) execute(mode cache.Mode, source string) error {
	start := time.Now()
	table, err := reader.ReadTable(source)
	if err != nil {
		return err
	}
	a.logger.Info("read table", log.Source(source), log.Rows(len(table.Rows)),
		zap.Int("files", len(table.Files)), log.Elapsed(time.Since(start)))

	expr, err := a.parse(mode, true)
	if err != nil {
		return err
	}
	params := []interface{}(a.opts.params)

	var res *query.Result
	switch e := expr.(type) {
	case *query.QueryExpression:
		res, err = query.ExecuteQuery(e, table.Rows, table.Columns, params...)
	case query.BooleanExpression:
		if mode == cache.ModeWhere {
			var rows []query.Row
			rows, err = query.ApplyFilter(table.Rows, e, params...)
			res = &query.Result{Columns: table.Columns, Rows: rows}
			break
		}
		res, err = evaluateRows(expr, table.Rows, params)
	default:
		res, err = evaluateRows(expr, table.Rows, params)
	}
	if err != nil {
		return err
	}

	a.logger.Info("executed", log.Mode(mode.String()), log.Rows(len(res.Rows)), log.Elapsed(time.Since(start)))
	return a.write(res.Columns, res.Rows)
}

// evaluateRows computes a scalar expression for every row
func evaluateRows(expr query.Expression, rows []query.Row, params []interface{}) (*query.Result, error) {
	name := expr.String()
	ev := query.NewEvaluator(params...)
	out := make([]query.Row, 0, len(rows))
	for i, row := range rows {
		v, err := ev.Eval(expr, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, query.Row{name: v})
	}
	return &query.Result{Columns: []string{name}, Rows: out}, nil
}

func (a *app) showSchema(source string) error {
	path := source
	if strings.ContainsAny(source, "*?[") {
		matches, err := filepath.Glob(source)
		if err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files match pattern: %s", source)
		}
		path = matches[0]
		if len(matches) > 1 {
			a.logger.Info("showing schema of first match", log.Source(path), zap.Int("matched", len(matches)))
		}
	}

	infos, err := reader.Describe(path)
	if err != nil {
		return err
	}
	rows := make([]query.Row, len(infos))
	for i, info := range infos {
		rows[i] = query.Row{
			"name":          info.Name,
			"type":          info.Type,
			"physical_type": info.PhysicalType,
			"logical_type":  info.LogicalType,
			"optional":      info.Optional,
			"repeated":      info.Repeated,
		}
	}
	return a.write([]string{"name", "type", "physical_type", "logical_type", "optional", "repeated"}, rows)
}

func (a *app) write(columns []string, rows []query.Row) error {
	formatter, err := output.New(a.opts.format, a.stdout)
	if err != nil {
		return err
	}
	return formatter.Format(columns, rows)
}

// logMetrics writes every sample of the registry at info level
func logMetrics(logger *zap.Logger, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", log.Err(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			logger.Info("metric", zap.String("name", mf.GetName()), zap.Float64("value", value))
		}
	}
}

// paramList collects -p values in order; they bind {0}, {1}, ...
type paramList []interface{}

func (p *paramList) String() string {
	if p == nil {
		return ""
	}
	return fmt.Sprint([]interface{}(*p))
}

func (p *paramList) Set(s string) error {
	*p = append(*p, parseParam(s))
	return nil
}

// parseParam types a parameter the way the same text would lex as a literal
func parseParam(s string) interface{} {
	switch strings.ToLower(s) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(n)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
