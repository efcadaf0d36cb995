package query

// EqualExpressions reports whether two expressions have the same structure and values.
// Literal values are compared by type and value, so int32(1) and
// int64(1) differ.
func EqualExpressions(a, b Expression) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Value == y.Value
	case *BooleanLiteral:
		y, ok := b.(*BooleanLiteral)
		return ok && x.Value == y.Value
	case *NullLiteral:
		_, ok := b.(*NullLiteral)
		return ok
	case *ParameterLiteral:
		y, ok := b.(*ParameterLiteral)
		return ok && x.Position == y.Position
	case *PathExpression:
		y, ok := b.(*PathExpression)
		return ok && equalPath(x, y)
	case *Asterisk:
		y, ok := b.(*Asterisk)
		return ok && equalPath(x.Left, y.Left)
	case *ClassExpression:
		y, ok := b.(*ClassExpression)
		return ok && equalPath(x.Path, y.Path)
	case *UnaryNegation:
		y, ok := b.(*UnaryNegation)
		return ok && EqualExpressions(x.Expr, y.Expr)
	case *ArithmeticExpression:
		y, ok := b.(*ArithmeticExpression)
		return ok && x.Op == y.Op && EqualExpressions(x.Left, y.Left) && EqualExpressions(x.Right, y.Right)
	case *AndExpression:
		y, ok := b.(*AndExpression)
		return ok && EqualExpressions(x.Left, y.Left) && EqualExpressions(x.Right, y.Right)
	case *OrExpression:
		y, ok := b.(*OrExpression)
		return ok && EqualExpressions(x.Left, y.Left) && EqualExpressions(x.Right, y.Right)
	case *NotExpression:
		y, ok := b.(*NotExpression)
		return ok && EqualExpressions(x.Expr, y.Expr)
	case *RelationalExpression:
		y, ok := b.(*RelationalExpression)
		return ok && x.Op == y.Op && EqualExpressions(x.Left, y.Left) && EqualExpressions(x.Right, y.Right)
	case *IsNullExpression:
		y, ok := b.(*IsNullExpression)
		return ok && x.Not == y.Not && EqualExpressions(x.Expr, y.Expr)
	case *InExpression:
		y, ok := b.(*InExpression)
		return ok && EqualExpressions(x.Left, y.Left) && equalList(x.Values, y.Values)
	case *ExistsExpression:
		y, ok := b.(*ExistsExpression)
		return ok && EqualExpressions(x.Query, y.Query)
	case *ContainsExpression:
		y, ok := b.(*ContainsExpression)
		return ok && x.Collection == y.Collection && equalPath(x.Path, y.Path) && EqualExpressions(x.Expr, y.Expr)
	case *CountExpression:
		y, ok := b.(*CountExpression)
		return ok && x.Collection == y.Collection && equalPath(x.Path, y.Path)
	case *FunctionCall:
		y, ok := b.(*FunctionCall)
		return ok && x.Name == y.Name && equalList(x.Args, y.Args)
	case *RawExpression:
		y, ok := b.(*RawExpression)
		return ok && x.Text == y.Text
	case *QueryExpression:
		y, ok := b.(*QueryExpression)
		return ok && equalQuery(x, y)
	}
	return false
}

func equalPath(a, b *PathExpression) bool {
	for a != nil && b != nil {
		if a.Name != b.Name {
			return false
		}
		a, b = a.Left, b.Left
	}
	return a == nil && b == nil
}

func equalList(a, b *ExpressionCollection) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, e := range a.slice() {
		if !EqualExpressions(e, b.items[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalQuery(a, b *QueryExpression) bool {
	return a.TopCount == b.TopCount &&
		a.Distinct == b.Distinct &&
		equalList(a.SelectExpressions, b.SelectExpressions) &&
		equalStrings(a.SelectAliases, b.SelectAliases) &&
		equalStrings(a.From, b.From) &&
		equalStrings(a.FromAliases, b.FromAliases) &&
		EqualExpressions(a.Where, b.Where) &&
		equalList(a.GroupBy, b.GroupBy) &&
		EqualExpressions(a.Having, b.Having) &&
		equalList(a.OrderBy, b.OrderBy) &&
		equalStrings(a.OrderByOrder, b.OrderByOrder)
}
