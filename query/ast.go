package query

import "fmt"

// Expression is a node of a parsed query.
//
// The set of implementations is closed: every node type has a matching
// method in Visitor.
type Expression interface {
	// Accept calls the visitor method matching the node type
	Accept(v Visitor) error

	// Simplify simplifies the children of the node, then applies the
	// node's algebraic identities. The receiver may be modified and
	// reused; callers must continue with the returned expression.
	Simplify() (Expression, error)

	// ExpressionType returns the kind of value the node produces.
	// Only boolean-producing nodes implement it; the others return
	// an error wrapping ErrNotImplemented.
	ExpressionType() (Kind, error)

	// String renders the node as query text
	String() string
}

// BooleanExpression is an Expression that produces a boolean
type BooleanExpression interface {
	Expression
	boolean()
}

// AsBoolean checks that e produces a boolean
func AsBoolean(e Expression) (BooleanExpression, error) {
	if b, ok := e.(BooleanExpression); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotBoolean, e)
}

func typeNotImplemented(e Expression) (Kind, error) {
	return KindInvalid, fmt.Errorf("%w: type of %T", ErrNotImplemented, e)
}

// Literal is a numeric or string constant.
// Value is an int32, int64, float64 or string.
type Literal struct {
	Value interface{}
}

// BooleanLiteral is true or false
type BooleanLiteral struct {
	Value bool
}

// NullLiteral is the null constant
type NullLiteral struct{}

// ParameterLiteral is a positional placeholder, {0}, {1}, ...
type ParameterLiteral struct {
	Position int
}

// PathExpression is a dotted property chain. Left is nil for
// the first segment.
type PathExpression struct {
	Left *PathExpression
	Name string
}

// Asterisk is *, or path.* when Left is set
type Asterisk struct {
	Left *PathExpression
}

// ClassExpression reads the type discriminator (soodaclass) of the
// object at Path, or of the root object when Path is nil
type ClassExpression struct {
	Path *PathExpression
}

// UnaryNegation is -Expr
type UnaryNegation struct {
	Expr Expression
}

// ArithmeticExpression is Left Op Right
type ArithmeticExpression struct {
	Op    ArithmeticOperator
	Left  Expression
	Right Expression
}

// AndExpression is Left and Right
type AndExpression struct {
	Left  BooleanExpression
	Right BooleanExpression
}

// OrExpression is Left or Right
type OrExpression struct {
	Left  BooleanExpression
	Right BooleanExpression
}

// NotExpression is not Expr
type NotExpression struct {
	Expr BooleanExpression
}

// RelationalExpression is Left Op Right
type RelationalExpression struct {
	Op    RelationalOperator
	Left  Expression
	Right Expression
}

// IsNullExpression is Expr is null, or Expr is not null when Not is set
type IsNullExpression struct {
	Expr Expression
	Not  bool
}

// InExpression is Left in (Values...)
type InExpression struct {
	Left   Expression
	Values *ExpressionCollection
}

// ExistsExpression is exists (Query)
type ExistsExpression struct {
	Query *QueryExpression
}

// ContainsExpression is Path.Collection.contains(Expr)
type ContainsExpression struct {
	Path       *PathExpression
	Collection string
	Expr       Expression
}

// CountExpression is Path.Collection.count
type CountExpression struct {
	Path       *PathExpression
	Collection string
}

// FunctionCall is Name(Args...)
type FunctionCall struct {
	Name string
	Args *ExpressionCollection
}

// RawExpression is rawquery(Text); Text is passed through verbatim
type RawExpression struct {
	Text string
}

// QueryExpression is a select statement.
//
// SelectExpressions/SelectAliases, From/FromAliases and
// OrderBy/OrderByOrder are parallel sequences of equal length;
// a missing alias is the empty string and OrderByOrder holds
// "asc" or "desc".
type QueryExpression struct {
	TopCount          int // -1 when absent
	Distinct          bool
	SelectExpressions *ExpressionCollection
	SelectAliases     []string
	From              []string
	FromAliases       []string
	Where             BooleanExpression
	GroupBy           *ExpressionCollection
	Having            BooleanExpression
	OrderBy           *ExpressionCollection
	OrderByOrder      []string
}

// NewQueryExpression returns an empty query with no top count
func NewQueryExpression() *QueryExpression {
	return &QueryExpression{
		TopCount:          -1,
		SelectExpressions: NewExpressionCollection(),
		GroupBy:           NewExpressionCollection(),
		OrderBy:           NewExpressionCollection(),
	}
}

// NewPath builds a path expression from its segments
func NewPath(segments ...string) *PathExpression {
	var p *PathExpression
	for _, s := range segments {
		p = &PathExpression{Left: p, Name: s}
	}
	return p
}

// Segments returns the names of the path from the root
func (p *PathExpression) Segments() []string {
	var n int
	for q := p; q != nil; q = q.Left {
		n++
	}
	segs := make([]string, n)
	for q := p; q != nil; q = q.Left {
		n--
		segs[n] = q.Name
	}
	return segs
}

func (e *BooleanLiteral) boolean()       {}
func (e *AndExpression) boolean()        {}
func (e *OrExpression) boolean()         {}
func (e *NotExpression) boolean()        {}
func (e *RelationalExpression) boolean() {}
func (e *IsNullExpression) boolean()     {}
func (e *InExpression) boolean()         {}
func (e *ExistsExpression) boolean()     {}
func (e *ContainsExpression) boolean()   {}

func (e *Literal) ExpressionType() (Kind, error)              { return typeNotImplemented(e) }
func (e *NullLiteral) ExpressionType() (Kind, error)          { return typeNotImplemented(e) }
func (e *ParameterLiteral) ExpressionType() (Kind, error)     { return typeNotImplemented(e) }
func (e *PathExpression) ExpressionType() (Kind, error)       { return typeNotImplemented(e) }
func (e *Asterisk) ExpressionType() (Kind, error)             { return typeNotImplemented(e) }
func (e *ClassExpression) ExpressionType() (Kind, error)      { return typeNotImplemented(e) }
func (e *UnaryNegation) ExpressionType() (Kind, error)        { return typeNotImplemented(e) }
func (e *ArithmeticExpression) ExpressionType() (Kind, error) { return typeNotImplemented(e) }
func (e *CountExpression) ExpressionType() (Kind, error)      { return typeNotImplemented(e) }
func (e *FunctionCall) ExpressionType() (Kind, error)         { return typeNotImplemented(e) }
func (e *RawExpression) ExpressionType() (Kind, error)        { return typeNotImplemented(e) }
func (e *QueryExpression) ExpressionType() (Kind, error)      { return typeNotImplemented(e) }

func (e *BooleanLiteral) ExpressionType() (Kind, error)       { return KindBool, nil }
func (e *AndExpression) ExpressionType() (Kind, error)        { return KindBool, nil }
func (e *OrExpression) ExpressionType() (Kind, error)         { return KindBool, nil }
func (e *NotExpression) ExpressionType() (Kind, error)        { return KindBool, nil }
func (e *RelationalExpression) ExpressionType() (Kind, error) { return KindBool, nil }
func (e *IsNullExpression) ExpressionType() (Kind, error)     { return KindBool, nil }
func (e *InExpression) ExpressionType() (Kind, error)         { return KindBool, nil }
func (e *ExistsExpression) ExpressionType() (Kind, error)     { return KindBool, nil }
func (e *ContainsExpression) ExpressionType() (Kind, error)   { return KindBool, nil }
