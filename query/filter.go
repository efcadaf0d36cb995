package query

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnboundParameter is returned when a {N} placeholder has no value
var ErrUnboundParameter = errors.New("parameter not bound")

// Row is a single record keyed by column name. Nested groups are
// nested maps.
type Row = map[string]interface{}

// Evaluator computes the value of an expression against one row.
// Relations go through Compare, so they share its null and type rules.
//
// Nodes that need the storage engine (sub-queries, exists, contains,
// count, soodaclass and rawquery) fail with ErrNotSupported.
type Evaluator struct {
	row      Row
	params   []interface{}
	registry *FunctionRegistry
	value    interface{}
}

// NewEvaluator creates an evaluator bound to positional parameters
func NewEvaluator(params ...interface{}) *Evaluator {
	return &Evaluator{params: params, registry: globalRegistry}
}

// Evaluate computes the value of e for row
func Evaluate(e Expression, row Row, params ...interface{}) (interface{}, error) {
	return NewEvaluator(params...).Eval(e, row)
}

// Eval computes the value of e for row
func (ev *Evaluator) Eval(e Expression, row Row) (interface{}, error) {
	ev.row = row
	return ev.eval(e)
}

// Match reports whether the boolean expression b holds for row.
// A null result does not match.
func (ev *Evaluator) Match(b BooleanExpression, row Row) (bool, error) {
	ev.row = row
	return ev.evalBool(b)
}

func (ev *Evaluator) eval(e Expression) (interface{}, error) {
	if err := e.Accept(ev); err != nil {
		return nil, err
	}
	return ev.value, nil
}

func (ev *Evaluator) evalBool(e Expression) (bool, error) {
	v, err := ev.eval(e)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	}
	return false, fmt.Errorf("%w: %s evaluated to %T", ErrNotBoolean, e, v)
}

func (ev *Evaluator) set(v interface{}) error {
	ev.value = v
	return nil
}

func notSupported(e Expression) error {
	return fmt.Errorf("%w: cannot evaluate %s against a row", ErrNotSupported, e)
}

func (ev *Evaluator) VisitLiteral(e *Literal) error               { return ev.set(e.Value) }
func (ev *Evaluator) VisitBooleanLiteral(e *BooleanLiteral) error { return ev.set(e.Value) }
func (ev *Evaluator) VisitNullLiteral(e *NullLiteral) error       { return ev.set(nil) }

func (ev *Evaluator) VisitParameterLiteral(e *ParameterLiteral) error {
	if e.Position < 0 || e.Position >= len(ev.params) {
		return fmt.Errorf("%w: {%d} (%d given)", ErrUnboundParameter, e.Position, len(ev.params))
	}
	return ev.set(ev.params[e.Position])
}

func (ev *Evaluator) VisitPath(e *PathExpression) error {
	return ev.set(lookupPath(ev.row, e.Segments()))
}

// lookupPath resolves a path against a row: first as a flattened
// "a.b" column, then through nested maps. Missing values are null.
func lookupPath(row Row, segments []string) interface{} {
	if v, ok := row[strings.Join(segments, ".")]; ok {
		return v
	}
	var cur interface{} = row
	for _, seg := range segments {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		if cur, ok = m[seg]; !ok {
			return nil
		}
	}
	return cur
}

func (ev *Evaluator) VisitAsterisk(e *Asterisk) error           { return notSupported(e) }
func (ev *Evaluator) VisitClass(e *ClassExpression) error       { return notSupported(e) }
func (ev *Evaluator) VisitExists(e *ExistsExpression) error     { return notSupported(e) }
func (ev *Evaluator) VisitContains(e *ContainsExpression) error { return notSupported(e) }
func (ev *Evaluator) VisitCount(e *CountExpression) error       { return notSupported(e) }
func (ev *Evaluator) VisitRaw(e *RawExpression) error           { return notSupported(e) }
func (ev *Evaluator) VisitQuery(e *QueryExpression) error       { return notSupported(e) }

func (ev *Evaluator) VisitUnaryNegation(e *UnaryNegation) error {
	v, err := ev.eval(e.Expr)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		return ev.set(nil)
	case int32:
		return ev.set(-x)
	case int64:
		return ev.set(-x)
	case int:
		return ev.set(-x)
	case float64:
		return ev.set(-x)
	case float32:
		return ev.set(-x)
	case decimal.Decimal:
		return ev.set(x.Neg())
	}
	return fmt.Errorf("%w: negation of %T", ErrUnsupportedTypes, v)
}

// VisitArithmetic computes integers in int64, other numbers in float64,
// and concatenates strings with +
func (ev *Evaluator) VisitArithmetic(e *ArithmeticExpression) error {
	l, err := ev.eval(e.Left)
	if err != nil {
		return err
	}
	r, err := ev.eval(e.Right)
	if err != nil {
		return err
	}
	if l == nil || r == nil {
		return ev.set(nil)
	}

	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			if e.Op != Add {
				return fmt.Errorf("%w: operator %s on strings", ErrNotSupported, e.Op)
			}
			return ev.set(ls + rs)
		}
	}

	li, lok := asInt64(l)
	ri, rok := asInt64(r)
	if lok && rok {
		v, err := arithInt64(e.Op, li, ri)
		if err != nil {
			return err
		}
		return ev.set(v)
	}

	lf, lerr := toFloat(l)
	rf, rerr := toFloat(r)
	if lerr != nil || rerr != nil {
		return fmt.Errorf("%w: %T %s %T", ErrUnsupportedTypes, l, e.Op, r)
	}
	return ev.set(arithFloat64(e.Op, lf, rf))
}

func arithInt64(op ArithmeticOperator, a, b int64) (int64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div, Mod:
		if b == 0 {
			return 0, fmt.Errorf("%w: %d %s 0", ErrDivideByZero, a, op)
		}
		if op == Div {
			return a / b, nil
		}
		return a % b, nil
	}
	return 0, fmt.Errorf("%w: operator %s", ErrNotImplemented, op)
}

func arithFloat64(op ArithmeticOperator, a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b
	default:
		return math.Mod(a, b)
	}
}

func (ev *Evaluator) VisitAnd(e *AndExpression) error {
	l, err := ev.evalBool(e.Left)
	if err != nil || !l {
		ev.value = false
		return err
	}
	r, err := ev.evalBool(e.Right)
	if err != nil {
		return err
	}
	return ev.set(r)
}

func (ev *Evaluator) VisitOr(e *OrExpression) error {
	l, err := ev.evalBool(e.Left)
	if err != nil {
		return err
	}
	if l {
		return ev.set(true)
	}
	r, err := ev.evalBool(e.Right)
	if err != nil {
		return err
	}
	return ev.set(r)
}

func (ev *Evaluator) VisitNot(e *NotExpression) error {
	v, err := ev.evalBool(e.Expr)
	if err != nil {
		return err
	}
	return ev.set(!v)
}

func (ev *Evaluator) VisitRelational(e *RelationalExpression) error {
	l, err := ev.eval(e.Left)
	if err != nil {
		return err
	}
	r, err := ev.eval(e.Right)
	if err != nil {
		return err
	}
	ok, err := Compare(l, r, e.Op)
	if err != nil {
		return err
	}
	return ev.set(ok)
}

func (ev *Evaluator) VisitIsNull(e *IsNullExpression) error {
	v, err := ev.eval(e.Expr)
	if err != nil {
		return err
	}
	return ev.set((v == nil) != e.Not)
}

func (ev *Evaluator) VisitIn(e *InExpression) error {
	l, err := ev.eval(e.Left)
	if err != nil {
		return err
	}
	for _, item := range e.Values.slice() {
		v, err := ev.eval(item)
		if err != nil {
			return err
		}
		ok, err := Compare(l, v, Equal)
		if err != nil {
			return err
		}
		if ok {
			return ev.set(true)
		}
	}
	return ev.set(false)
}

func (ev *Evaluator) VisitFunctionCall(e *FunctionCall) error {
	args := make([]interface{}, 0, e.Args.Len())
	for _, a := range e.Args.slice() {
		v, err := ev.eval(a)
		if err != nil {
			return err
		}
		args = append(args, v)
	}
	v, err := ev.registry.Call(e.Name, args)
	if err != nil {
		return err
	}
	return ev.set(v)
}

var _ Visitor = (*Evaluator)(nil)

// ApplyFilter keeps the rows for which where holds
func ApplyFilter(rows []Row, where BooleanExpression, params ...interface{}) ([]Row, error) {
	if where == nil {
		return rows, nil
	}

	ev := NewEvaluator(params...)
	filtered := make([]Row, 0)
	for _, row := range rows {
		match, err := ev.Match(where, row)
		if err != nil {
			return nil, err
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

// ApplyOrderBy sorts rows by the order-by clause of q. Nulls sort first
// in ascending order. The input slice is not modified.
func ApplyOrderBy(rows []Row, q *QueryExpression, params ...interface{}) ([]Row, error) {
	if len(rows) == 0 || q.OrderBy.Len() == 0 {
		return rows, nil
	}

	// Evaluate the sort keys once per row
	ev := NewEvaluator(params...)
	keys := make([][]interface{}, len(rows))
	for i, row := range rows {
		keys[i] = make([]interface{}, q.OrderBy.Len())
		for j, e := range q.OrderBy.slice() {
			v, err := ev.Eval(e, row)
			if err != nil {
				return nil, err
			}
			keys[i][j] = v
		}
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}

	var sortErr error
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		for j := range ka {
			c, err := compareValues(ka[j], kb[j])
			if err != nil {
				if sortErr == nil {
					sortErr = err
				}
				return false
			}
			if c == 0 {
				continue
			}
			if j < len(q.OrderByOrder) && q.OrderByOrder[j] == "desc" {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}

	sorted := make([]Row, len(rows))
	for i, k := range idx {
		sorted[i] = rows[k]
	}
	return sorted, nil
}

// compareValues orders two values with Compare, nulls first
func compareValues(a, b interface{}) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}
	less, err := Compare(a, b, Less)
	if err != nil {
		return 0, err
	}
	if less {
		return -1, nil
	}
	greater, err := Compare(a, b, Greater)
	if err != nil {
		return 0, err
	}
	if greater {
		return 1, nil
	}
	return 0, nil
}

// ApplyTop keeps the first n rows; a negative n keeps all
func ApplyTop(rows []Row, n int) []Row {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// ApplySelectList projects rows onto the select list of q and returns
// the output column names. A bare * keeps every column of columns.
// An item without alias is named by its query text.
func ApplySelectList(rows []Row, columns []string, q *QueryExpression, params ...interface{}) ([]Row, []string, error) {
	var names []string
	for i, e := range q.SelectExpressions.slice() {
		if a, ok := e.(*Asterisk); ok && a.Left == nil {
			names = append(names, columns...)
			continue
		}
		name := e.String()
		if i < len(q.SelectAliases) && q.SelectAliases[i] != "" {
			name = q.SelectAliases[i]
		}
		names = append(names, name)
	}

	ev := NewEvaluator(params...)
	projected := make([]Row, 0, len(rows))
	for _, row := range rows {
		out := make(Row, len(names))
		for _, e := range q.SelectExpressions.slice() {
			if a, ok := e.(*Asterisk); ok && a.Left == nil {
				for _, c := range columns {
					out[c] = row[c]
				}
			}
		}
		k := 0
		for i, e := range q.SelectExpressions.slice() {
			if a, ok := e.(*Asterisk); ok && a.Left == nil {
				k += len(columns)
				continue
			}
			v, err := ev.Eval(e, row)
			if err != nil {
				return nil, nil, fmt.Errorf("select item %d: %w", i+1, err)
			}
			out[names[k]] = v
			k++
		}
		projected = append(projected, out)
	}

	return projected, names, nil
}

// ApplyDistinct removes duplicate rows
func ApplyDistinct(rows []Row) []Row {
	if len(rows) == 0 {
		return rows
	}

	seen := make(map[string]bool)
	distinct := make([]Row, 0)

	for _, row := range rows {
		key := rowToKey(row)
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, row)
		}
	}

	return distinct
}

// rowToKey creates a unique string key from a row for deduplication
func rowToKey(row Row) string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var key strings.Builder
	for i, col := range columns {
		if i > 0 {
			key.WriteString("\x00||\x00")
		}
		key.WriteString(col)
		key.WriteString("\x00:\x00")
		key.WriteString(fmt.Sprintf("%#v", row[col]))
	}

	return key.String()
}

// GetColumnNames returns all unique column names from rows, sorted
func GetColumnNames(rows []Row) []string {
	seen := make(map[string]bool)
	columns := make([]string, 0)

	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	sort.Strings(columns)
	return columns
}
