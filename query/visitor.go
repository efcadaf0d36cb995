package query

// Visitor is implemented by consumers of the expression tree, one method
// per node type. Accept dispatches to the method matching the node;
// visitors recurse into children themselves.
type Visitor interface {
	VisitLiteral(*Literal) error
	VisitBooleanLiteral(*BooleanLiteral) error
	VisitNullLiteral(*NullLiteral) error
	VisitParameterLiteral(*ParameterLiteral) error
	VisitPath(*PathExpression) error
	VisitAsterisk(*Asterisk) error
	VisitClass(*ClassExpression) error
	VisitUnaryNegation(*UnaryNegation) error
	VisitArithmetic(*ArithmeticExpression) error
	VisitAnd(*AndExpression) error
	VisitOr(*OrExpression) error
	VisitNot(*NotExpression) error
	VisitRelational(*RelationalExpression) error
	VisitIsNull(*IsNullExpression) error
	VisitIn(*InExpression) error
	VisitExists(*ExistsExpression) error
	VisitContains(*ContainsExpression) error
	VisitCount(*CountExpression) error
	VisitFunctionCall(*FunctionCall) error
	VisitRaw(*RawExpression) error
	VisitQuery(*QueryExpression) error
}

func (e *Literal) Accept(v Visitor) error              { return v.VisitLiteral(e) }
func (e *BooleanLiteral) Accept(v Visitor) error       { return v.VisitBooleanLiteral(e) }
func (e *NullLiteral) Accept(v Visitor) error          { return v.VisitNullLiteral(e) }
func (e *ParameterLiteral) Accept(v Visitor) error     { return v.VisitParameterLiteral(e) }
func (e *PathExpression) Accept(v Visitor) error       { return v.VisitPath(e) }
func (e *Asterisk) Accept(v Visitor) error             { return v.VisitAsterisk(e) }
func (e *ClassExpression) Accept(v Visitor) error      { return v.VisitClass(e) }
func (e *UnaryNegation) Accept(v Visitor) error        { return v.VisitUnaryNegation(e) }
func (e *ArithmeticExpression) Accept(v Visitor) error { return v.VisitArithmetic(e) }
func (e *AndExpression) Accept(v Visitor) error        { return v.VisitAnd(e) }
func (e *OrExpression) Accept(v Visitor) error         { return v.VisitOr(e) }
func (e *NotExpression) Accept(v Visitor) error        { return v.VisitNot(e) }
func (e *RelationalExpression) Accept(v Visitor) error { return v.VisitRelational(e) }
func (e *IsNullExpression) Accept(v Visitor) error     { return v.VisitIsNull(e) }
func (e *InExpression) Accept(v Visitor) error         { return v.VisitIn(e) }
func (e *ExistsExpression) Accept(v Visitor) error     { return v.VisitExists(e) }
func (e *ContainsExpression) Accept(v Visitor) error   { return v.VisitContains(e) }
func (e *CountExpression) Accept(v Visitor) error      { return v.VisitCount(e) }
func (e *FunctionCall) Accept(v Visitor) error         { return v.VisitFunctionCall(e) }
func (e *RawExpression) Accept(v Visitor) error        { return v.VisitRaw(e) }
func (e *QueryExpression) Accept(v Visitor) error      { return v.VisitQuery(e) }

// Walk calls fn for e and then, if fn returns true, for each child of e
// in source order. Nil children are skipped.
func Walk(e Expression, fn func(Expression) bool) {
	if isNil(e) || !fn(e) {
		return
	}
	for _, c := range children(e) {
		Walk(c, fn)
	}
}

func children(e Expression) []Expression {
	switch n := e.(type) {
	case *PathExpression:
		if n.Left != nil {
			return []Expression{n.Left}
		}
	case *Asterisk:
		if n.Left != nil {
			return []Expression{n.Left}
		}
	case *ClassExpression:
		if n.Path != nil {
			return []Expression{n.Path}
		}
	case *UnaryNegation:
		return []Expression{n.Expr}
	case *ArithmeticExpression:
		return []Expression{n.Left, n.Right}
	case *AndExpression:
		return []Expression{n.Left, n.Right}
	case *OrExpression:
		return []Expression{n.Left, n.Right}
	case *NotExpression:
		return []Expression{n.Expr}
	case *RelationalExpression:
		return []Expression{n.Left, n.Right}
	case *IsNullExpression:
		return []Expression{n.Expr}
	case *InExpression:
		return append([]Expression{n.Left}, n.Values.slice()...)
	case *ExistsExpression:
		return []Expression{n.Query}
	case *ContainsExpression:
		if n.Path != nil {
			return []Expression{n.Path, n.Expr}
		}
		return []Expression{n.Expr}
	case *CountExpression:
		if n.Path != nil {
			return []Expression{n.Path}
		}
	case *FunctionCall:
		return n.Args.slice()
	case *QueryExpression:
		var out []Expression
		out = append(out, n.SelectExpressions.slice()...)
		if n.Where != nil {
			out = append(out, n.Where)
		}
		out = append(out, n.GroupBy.slice()...)
		if n.Having != nil {
			out = append(out, n.Having)
		}
		return append(out, n.OrderBy.slice()...)
	}
	return nil
}

// isNil catches typed nil pointers stored in an Expression
func isNil(e Expression) bool {
	if e == nil {
		return true
	}
	switch n := e.(type) {
	case *PathExpression:
		return n == nil
	case *QueryExpression:
		return n == nil
	}
	return false
}
