package query

import (
	"strconv"
	"strings"
)

// String methods render nodes back as query text. Binary operators are
// always parenthesized, so the output shows the shape of the tree:
// "1+2*3" renders as "(1 + (2 * 3))".

func (e *Literal) String() string {
	switch v := e.Value.(type) {
	case string:
		return quoteString(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return "?"
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (e *BooleanLiteral) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}

func (e *NullLiteral) String() string { return "null" }

func (e *ParameterLiteral) String() string {
	return "{" + strconv.Itoa(e.Position) + "}"
}

func (e *PathExpression) String() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.Segments(), ".")
}

func (e *Asterisk) String() string {
	if e.Left == nil {
		return "*"
	}
	return e.Left.String() + ".*"
}

func (e *ClassExpression) String() string {
	if e.Path == nil {
		return "soodaclass"
	}
	return e.Path.String() + ".soodaclass"
}

func (e *UnaryNegation) String() string {
	return "-" + e.Expr.String()
}

func (e *ArithmeticExpression) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

func (e *AndExpression) String() string {
	return "(" + e.Left.String() + " and " + e.Right.String() + ")"
}

func (e *OrExpression) String() string {
	return "(" + e.Left.String() + " or " + e.Right.String() + ")"
}

func (e *NotExpression) String() string {
	return "not " + e.Expr.String()
}

func (e *RelationalExpression) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

func (e *IsNullExpression) String() string {
	if e.Not {
		return "(" + e.Expr.String() + " is not null)"
	}
	return "(" + e.Expr.String() + " is null)"
}

func (e *InExpression) String() string {
	return "(" + e.Left.String() + " in (" + e.Values.String() + "))"
}

func (e *ExistsExpression) String() string {
	return "exists (" + e.Query.String() + ")"
}

func (e *ContainsExpression) String() string {
	return collectionPath(e.Path, e.Collection) + ".contains(" + e.Expr.String() + ")"
}

func (e *CountExpression) String() string {
	return collectionPath(e.Path, e.Collection) + ".count"
}

func collectionPath(p *PathExpression, collection string) string {
	if p == nil {
		return collection
	}
	return p.String() + "." + collection
}

func (e *FunctionCall) String() string {
	return e.Name + "(" + e.Args.String() + ")"
}

func (e *RawExpression) String() string {
	return "rawquery(" + e.Text + ")"
}

func (e *QueryExpression) String() string {
	var sb strings.Builder
	sb.WriteString("select ")
	if e.TopCount >= 0 {
		sb.WriteString("top " + strconv.Itoa(e.TopCount) + " ")
	}
	if e.Distinct {
		sb.WriteString("distinct ")
	}
	for i, s := range e.SelectExpressions.slice() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.String())
		if i < len(e.SelectAliases) && e.SelectAliases[i] != "" {
			sb.WriteString(" as " + e.SelectAliases[i])
		}
	}
	sb.WriteString(" from ")
	for i, t := range e.From {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t)
		if i < len(e.FromAliases) && e.FromAliases[i] != "" {
			sb.WriteString(" as " + e.FromAliases[i])
		}
	}
	if e.Where != nil {
		sb.WriteString(" where " + e.Where.String())
	}
	if e.GroupBy.Len() > 0 {
		sb.WriteString(" group by " + e.GroupBy.String())
	}
	if e.Having != nil {
		sb.WriteString(" having " + e.Having.String())
	}
	for i, o := range e.OrderBy.slice() {
		if i == 0 {
			sb.WriteString(" order by ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(o.String())
		if i < len(e.OrderByOrder) {
			sb.WriteString(" " + e.OrderByOrder[i])
		}
	}
	return sb.String()
}
