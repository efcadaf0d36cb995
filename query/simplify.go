package query

import "fmt"

// Simplify methods fold constants bottom-up. Only int32 and string
// literals are folded; operands of other or mixed types are left as
// they are.

func (e *Literal) Simplify() (Expression, error)          { return e, nil }
func (e *BooleanLiteral) Simplify() (Expression, error)   { return e, nil }
func (e *NullLiteral) Simplify() (Expression, error)      { return e, nil }
func (e *ParameterLiteral) Simplify() (Expression, error) { return e, nil }
func (e *PathExpression) Simplify() (Expression, error)   { return e, nil }
func (e *Asterisk) Simplify() (Expression, error)         { return e, nil }
func (e *ClassExpression) Simplify() (Expression, error)  { return e, nil }
func (e *CountExpression) Simplify() (Expression, error)  { return e, nil }
func (e *RawExpression) Simplify() (Expression, error)    { return e, nil }

func (e *UnaryNegation) Simplify() (Expression, error) {
	expr, err := e.Expr.Simplify()
	if err != nil {
		return nil, err
	}
	e.Expr = expr
	return e, nil
}

func (e *ArithmeticExpression) Simplify() (Expression, error) {
	left, err := e.Left.Simplify()
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Simplify()
	if err != nil {
		return nil, err
	}
	e.Left, e.Right = left, right

	l, ok := left.(*Literal)
	if !ok {
		return e, nil
	}
	r, ok := right.(*Literal)
	if !ok {
		return e, nil
	}

	switch lv := l.Value.(type) {
	case int32:
		rv, ok := r.Value.(int32)
		if !ok {
			return e, nil
		}
		v, err := foldInt32(e.Op, lv, rv)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: v}, nil
	case string:
		rv, ok := r.Value.(string)
		if !ok {
			return e, nil
		}
		if e.Op != Add {
			return nil, fmt.Errorf("%w: operator %s on strings", ErrNotSupported, e.Op)
		}
		return &Literal{Value: lv + rv}, nil
	}
	return e, nil
}

func foldInt32(op ArithmeticOperator, a, b int32) (int32, error) {
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, fmt.Errorf("%w: %d / 0", ErrDivideByZero, a)
		}
		return a / b, nil
	case Mod:
		if b == 0 {
			return 0, fmt.Errorf("%w: %d %% 0", ErrDivideByZero, a)
		}
		return a % b, nil
	}
	return 0, fmt.Errorf("%w: fold of %s", ErrNotImplemented, op)
}

// simplifyBoolean simplifies a boolean operand. Boolean nodes always
// simplify to boolean nodes; the check guards that.
func simplifyBoolean(b BooleanExpression) (BooleanExpression, error) {
	e, err := b.Simplify()
	if err != nil {
		return nil, err
	}
	return AsBoolean(e)
}

func (e *AndExpression) Simplify() (Expression, error) {
	left, err := simplifyBoolean(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := simplifyBoolean(e.Right)
	if err != nil {
		return nil, err
	}
	e.Left, e.Right = left, right

	lc, lok := left.(*BooleanLiteral)
	rc, rok := right.(*BooleanLiteral)
	switch {
	case lok && !lc.Value:
		return lc, nil
	case rok && !rc.Value:
		return rc, nil
	case lok && rok:
		return &BooleanLiteral{Value: true}, nil
	case lok:
		return right, nil
	case rok:
		return left, nil
	}
	return e, nil
}

func (e *OrExpression) Simplify() (Expression, error) {
	left, err := simplifyBoolean(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := simplifyBoolean(e.Right)
	if err != nil {
		return nil, err
	}
	e.Left, e.Right = left, right

	lc, lok := left.(*BooleanLiteral)
	rc, rok := right.(*BooleanLiteral)
	switch {
	case lok && lc.Value:
		return lc, nil
	case rok && rc.Value:
		return rc, nil
	case lok && rok:
		return &BooleanLiteral{Value: false}, nil
	case lok:
		return right, nil
	case rok:
		return left, nil
	}
	return e, nil
}

func (e *NotExpression) Simplify() (Expression, error) {
	expr, err := simplifyBoolean(e.Expr)
	if err != nil {
		return nil, err
	}
	if c, ok := expr.(*BooleanLiteral); ok {
		return &BooleanLiteral{Value: !c.Value}, nil
	}
	e.Expr = expr
	return e, nil
}

// Simplify folds a comparison of two int32 or two string literals.
// String comparison here is ordinal and case-sensitive, unlike Compare.
func (e *RelationalExpression) Simplify() (Expression, error) {
	left, err := e.Left.Simplify()
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Simplify()
	if err != nil {
		return nil, err
	}
	e.Left, e.Right = left, right

	l, ok := left.(*Literal)
	if !ok {
		return e, nil
	}
	r, ok := right.(*Literal)
	if !ok {
		return e, nil
	}
	if e.Op == Like {
		return e, nil
	}

	var c int
	switch lv := l.Value.(type) {
	case int32:
		rv, ok := r.Value.(int32)
		if !ok {
			return e, nil
		}
		c = cmpInt32(lv, rv)
	case string:
		rv, ok := r.Value.(string)
		if !ok {
			return e, nil
		}
		c = cmpString(lv, rv)
	default:
		return e, nil
	}

	v, err := applyOrdering(e.Op, c)
	if err != nil {
		return nil, err
	}
	return &BooleanLiteral{Value: v}, nil
}

func cmpInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// applyOrdering turns the result of a three-way comparison into the
// outcome of op. Like has no ordering and is reported as not implemented.
func applyOrdering(op RelationalOperator, c int) (bool, error) {
	switch op {
	case Equal:
		return c == 0, nil
	case NotEqual:
		return c != 0, nil
	case Less:
		return c < 0, nil
	case Greater:
		return c > 0, nil
	case LessEqual:
		return c <= 0, nil
	case GreaterEqual:
		return c >= 0, nil
	}
	return false, fmt.Errorf("%w: ordering for %s", ErrNotImplemented, op)
}

func (e *IsNullExpression) Simplify() (Expression, error) {
	expr, err := e.Expr.Simplify()
	if err != nil {
		return nil, err
	}
	e.Expr = expr
	return e, nil
}

func (e *InExpression) Simplify() (Expression, error) {
	left, err := e.Left.Simplify()
	if err != nil {
		return nil, err
	}
	e.Left = left
	if err := simplifyList(e.Values); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ExistsExpression) Simplify() (Expression, error) {
	if _, err := e.Query.Simplify(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ContainsExpression) Simplify() (Expression, error) {
	expr, err := e.Expr.Simplify()
	if err != nil {
		return nil, err
	}
	e.Expr = expr
	return e, nil
}

func (e *FunctionCall) Simplify() (Expression, error) {
	if err := simplifyList(e.Args); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *QueryExpression) Simplify() (Expression, error) {
	if err := simplifyList(e.SelectExpressions); err != nil {
		return nil, err
	}
	if e.Where != nil {
		where, err := simplifyBoolean(e.Where)
		if err != nil {
			return nil, err
		}
		e.Where = where
	}
	if err := simplifyList(e.GroupBy); err != nil {
		return nil, err
	}
	if e.Having != nil {
		having, err := simplifyBoolean(e.Having)
		if err != nil {
			return nil, err
		}
		e.Having = having
	}
	if err := simplifyList(e.OrderBy); err != nil {
		return nil, err
	}
	return e, nil
}

// simplifyList replaces each element with its simplified form
func simplifyList(c *ExpressionCollection) error {
	for i, item := range c.slice() {
		s, err := item.Simplify()
		if err != nil {
			return err
		}
		c.Set(i, s)
	}
	return nil
}
