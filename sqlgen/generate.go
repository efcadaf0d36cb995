// Package sqlgen renders SOQL expression trees as MySQL-dialect SQL.
//
// Positional parameters become ? placeholders; Statement.Params lists the
// parameter index bound to each placeholder in text order. Nodes that
// need an object mapping (contains, count and soodaclass) are rejected
// with query.ErrNotSupported.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/soql/query"
)

// Statement is the SQL text generated for an expression
type Statement struct {
	SQL    string
	Params []int // SOQL parameter position of each ? in order
	Query  bool  // SQL is a complete SELECT statement
}

// Generate renders e as SQL
func Generate(e query.Expression) (*Statement, error) {
	g := &generator{}
	if err := e.Accept(g); err != nil {
		return nil, err
	}
	_, isQuery := e.(*query.QueryExpression)
	return &Statement{SQL: g.sb.String(), Params: g.params, Query: isQuery}, nil
}

type generator struct {
	sb     strings.Builder
	params []int
}

func (g *generator) write(parts ...string) {
	for _, p := range parts {
		g.sb.WriteString(p)
	}
}

// expr writes a nested expression. A query below the root is a
// sub-query and needs its own parentheses.
func (g *generator) expr(e query.Expression) error {
	if q, ok := e.(*query.QueryExpression); ok {
		g.write("(")
		if err := g.VisitQuery(q); err != nil {
			return err
		}
		g.write(")")
		return nil
	}
	return e.Accept(g)
}

// binary writes (l op r)
func (g *generator) binary(l query.Expression, op string, r query.Expression) error {
	g.write("(")
	if err := g.expr(l); err != nil {
		return err
	}
	g.write(" ", op, " ")
	if err := g.expr(r); err != nil {
		return err
	}
	g.write(")")
	return nil
}

func (g *generator) list(c *query.ExpressionCollection) error {
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			g.write(", ")
		}
		if err := g.expr(c.At(i)); err != nil {
			return err
		}
	}
	return nil
}

func unsupported(e query.Expression) error {
	return fmt.Errorf("%w: %s has no SQL form", query.ErrNotSupported, e)
}

// quoteIdent quotes a MySQL identifier with backticks
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteString quotes a MySQL string literal
func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (g *generator) VisitLiteral(e *query.Literal) error {
	switch v := e.Value.(type) {
	case int32:
		g.write(strconv.FormatInt(int64(v), 10))
	case int64:
		g.write(strconv.FormatInt(v, 10))
	case float64:
		g.write(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		g.write(quoteString(v))
	default:
		return fmt.Errorf("%w: literal of type %T", query.ErrNotSupported, e.Value)
	}
	return nil
}

func (g *generator) VisitBooleanLiteral(e *query.BooleanLiteral) error {
	if e.Value {
		g.write("TRUE")
	} else {
		g.write("FALSE")
	}
	return nil
}

func (g *generator) VisitNullLiteral(*query.NullLiteral) error {
	g.write("NULL")
	return nil
}

func (g *generator) VisitParameterLiteral(e *query.ParameterLiteral) error {
	g.write("?")
	g.params = append(g.params, e.Position)
	return nil
}

func (g *generator) VisitPath(e *query.PathExpression) error {
	segments := e.Segments()
	for i, s := range segments {
		segments[i] = quoteIdent(s)
	}
	g.write(strings.Join(segments, "."))
	return nil
}

func (g *generator) VisitAsterisk(e *query.Asterisk) error {
	if e.Left != nil {
		if err := g.VisitPath(e.Left); err != nil {
			return err
		}
		g.write(".")
	}
	g.write("*")
	return nil
}

func (g *generator) VisitClass(e *query.ClassExpression) error { return unsupported(e) }

func (g *generator) VisitUnaryNegation(e *query.UnaryNegation) error {
	g.write("(-")
	if err := g.expr(e.Expr); err != nil {
		return err
	}
	g.write(")")
	return nil
}

func (g *generator) VisitArithmetic(e *query.ArithmeticExpression) error {
	return g.binary(e.Left, e.Op.String(), e.Right)
}

func (g *generator) VisitAnd(e *query.AndExpression) error {
	return g.binary(e.Left, "AND", e.Right)
}

func (g *generator) VisitOr(e *query.OrExpression) error {
	return g.binary(e.Left, "OR", e.Right)
}

func (g *generator) VisitNot(e *query.NotExpression) error {
	g.write("(NOT ")
	if err := g.expr(e.Expr); err != nil {
		return err
	}
	g.write(")")
	return nil
}

func (g *generator) VisitRelational(e *query.RelationalExpression) error {
	return g.binary(e.Left, strings.ToUpper(e.Op.String()), e.Right)
}

func (g *generator) VisitIsNull(e *query.IsNullExpression) error {
	g.write("(")
	if err := g.expr(e.Expr); err != nil {
		return err
	}
	if e.Not {
		g.write(" IS NOT NULL)")
	} else {
		g.write(" IS NULL)")
	}
	return nil
}

func (g *generator) VisitIn(e *query.InExpression) error {
	g.write("(")
	if err := g.expr(e.Left); err != nil {
		return err
	}
	g.write(" IN (")
	if q, ok := sole(e.Values); ok {
		if err := g.VisitQuery(q); err != nil {
			return err
		}
	} else if err := g.list(e.Values); err != nil {
		return err
	}
	g.write("))")
	return nil
}

// sole returns the query of a list holding a single sub-query
func sole(c *query.ExpressionCollection) (*query.QueryExpression, bool) {
	if c.Len() != 1 {
		return nil, false
	}
	q, ok := c.At(0).(*query.QueryExpression)
	return q, ok
}

func (g *generator) VisitExists(e *query.ExistsExpression) error {
	g.write("EXISTS (")
	if err := g.VisitQuery(e.Query); err != nil {
		return err
	}
	g.write(")")
	return nil
}

func (g *generator) VisitContains(e *query.ContainsExpression) error { return unsupported(e) }
func (g *generator) VisitCount(e *query.CountExpression) error       { return unsupported(e) }

func (g *generator) VisitFunctionCall(e *query.FunctionCall) error {
	g.write(strings.ToUpper(e.Name), "(")
	if err := g.list(e.Args); err != nil {
		return err
	}
	g.write(")")
	return nil
}

// VisitRaw passes the text through untouched
func (g *generator) VisitRaw(e *query.RawExpression) error {
	g.write(e.Text)
	return nil
}

// VisitQuery writes a SELECT statement. TOP becomes LIMIT.
func (g *generator) VisitQuery(q *query.QueryExpression) error {
	g.write("SELECT ")
	if q.Distinct {
		g.write("DISTINCT ")
	}
	for i := 0; i < q.SelectExpressions.Len(); i++ {
		if i > 0 {
			g.write(", ")
		}
		if err := g.expr(q.SelectExpressions.At(i)); err != nil {
			return err
		}
		if i < len(q.SelectAliases) && q.SelectAliases[i] != "" {
			g.write(" AS ", quoteIdent(q.SelectAliases[i]))
		}
	}

	g.write(" FROM ")
	for i, table := range q.From {
		if i > 0 {
			g.write(", ")
		}
		g.write(quoteIdent(table))
		if i < len(q.FromAliases) && q.FromAliases[i] != "" {
			g.write(" AS ", quoteIdent(q.FromAliases[i]))
		}
	}

	if q.Where != nil {
		g.write(" WHERE ")
		if err := g.expr(q.Where); err != nil {
			return err
		}
	}
	if q.GroupBy.Len() > 0 {
		g.write(" GROUP BY ")
		if err := g.list(q.GroupBy); err != nil {
			return err
		}
	}
	if q.Having != nil {
		g.write(" HAVING ")
		if err := g.expr(q.Having); err != nil {
			return err
		}
	}
	if q.OrderBy.Len() > 0 {
		g.write(" ORDER BY ")
		for i := 0; i < q.OrderBy.Len(); i++ {
			if i > 0 {
				g.write(", ")
			}
			if err := g.expr(q.OrderBy.At(i)); err != nil {
				return err
			}
			if i < len(q.OrderByOrder) && q.OrderByOrder[i] == "desc" {
				g.write(" DESC")
			} else {
				g.write(" ASC")
			}
		}
	}
	if q.TopCount >= 0 {
		g.write(" LIMIT ", strconv.Itoa(q.TopCount))
	}
	return nil
}

var _ query.Visitor = (*generator)(nil)
