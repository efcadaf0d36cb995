package query

import (
	"fmt"
	"strconv"
	"strings"
)

// enter counts one nesting level. Productions that recurse enter once
// per step; the or/and loops do not.
func (p *Parser) enter() error {
	return p.depthCounter.Enter(p.t.Token())
}

// parseOr parses OR expressions (lowest precedence)
func (p *Parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.t.IsKeyword("or") {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l, r, err := booleanOperands(left, right)
		if err != nil {
			return nil, err
		}
		left = &OrExpression{Left: l, Right: r}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}

	for p.t.IsKeyword("and") {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		l, r, err := booleanOperands(left, right)
		if err != nil {
			return nil, err
		}
		left = &AndExpression{Left: l, Right: r}
	}

	return left, nil
}

func booleanOperands(left, right Expression) (BooleanExpression, BooleanExpression, error) {
	l, err := AsBoolean(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := AsBoolean(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// parsePredicate parses NOT and EXISTS, or falls through to a relation
func (p *Parser) parsePredicate() (Expression, error) {
	switch {
	case p.t.IsKeyword("not"):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.depthCounter.Exit()
		if err := p.next(); err != nil {
			return nil, err
		}
		e, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		b, err := AsBoolean(e)
		if err != nil {
			return nil, err
		}
		return &NotExpression{Expr: b}, nil
	case p.t.IsKeyword("exists"):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.depthCounter.Exit()
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.parseExists()
	}
	return p.parseRelation()
}

// parseExists parses the parenthesized body of EXISTS: either a full
// SELECT or the shorthand "Class WHERE cond"
func (p *Parser) parseExists() (Expression, error) {
	if err := p.t.Expect(TokenLeftParen); err != nil {
		return nil, fmt.Errorf("expected '(' after EXISTS: %w", err)
	}

	var q *QueryExpression
	if p.t.IsKeyword("select") {
		sub, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		q = sub
	} else {
		table, err := p.t.EatKeyword()
		if err != nil {
			return nil, fmt.Errorf("expected SELECT or class name in EXISTS: %w", err)
		}
		if err := p.t.ExpectKeyword("where"); err != nil {
			return nil, err
		}
		q, err = p.parseImplicitQuery(table)
		if err != nil {
			return nil, err
		}
	}

	if err := p.t.Expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ')' after EXISTS subquery: %w", err)
	}
	return &ExistsExpression{Query: q}, nil
}

// parseImplicitQuery parses the condition of "Class WHERE cond" into
// SELECT * FROM Class WHERE cond. The WHERE keyword is already consumed.
func (p *Parser) parseImplicitQuery(table string) (*QueryExpression, error) {
	where, err := p.parseBoolean()
	if err != nil {
		return nil, err
	}
	q := NewQueryExpression()
	q.SelectExpressions.Add(&Asterisk{})
	q.SelectAliases = []string{""}
	q.From = []string{table}
	q.FromAliases = []string{""}
	q.Where = where
	return q, nil
}

// parseRelation parses comparison, LIKE, IS [NOT] NULL and IN
func (p *Parser) parseRelation() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if op, ok := relationalTokens[p.t.Token().Type]; ok {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &RelationalExpression{Op: op, Left: left, Right: right}, nil
	}

	switch {
	case p.t.IsKeyword("like"):
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &RelationalExpression{Op: Like, Left: left, Right: right}, nil
	case p.t.IsKeyword("is"):
		if err := p.next(); err != nil {
			return nil, err
		}
		not := false
		if p.t.IsKeyword("not") {
			not = true
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		if err := p.t.ExpectKeyword("null"); err != nil {
			return nil, err
		}
		return &IsNullExpression{Expr: left, Not: not}, nil
	case p.t.IsKeyword("in"):
		if err := p.next(); err != nil {
			return nil, err
		}
		values, err := p.parseInList()
		if err != nil {
			return nil, err
		}
		return &InExpression{Left: left, Values: values}, nil
	}

	return left, nil
}

// parseInList parses (v1, v2, ...) or (SELECT ...)
func (p *Parser) parseInList() (*ExpressionCollection, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()

	if err := p.t.Expect(TokenLeftParen); err != nil {
		return nil, fmt.Errorf("expected '(' after IN: %w", err)
	}

	values := NewExpressionCollection()
	if p.t.IsKeyword("select") {
		sub, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		values.Add(sub)
	} else {
		for {
			v, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			values.Add(v)

			if !p.t.IsToken(TokenComma) {
				break
			}
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.t.Expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ')' after IN list: %w", err)
	}
	return values, nil
}

// parseAdditive parses + and -. The right operand recurses into
// parseAdditive, so "1 - 2 - 3" is 1 - (2 - 3).
func (p *Parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	var op ArithmeticOperator
	switch p.t.Token().Type {
	case TokenAdd:
		op = Add
	case TokenSub:
		op = Sub
	default:
		return left, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	right, err := p.parseAdditive()
	p.depthCounter.Exit()
	if err != nil {
		return nil, err
	}
	return &ArithmeticExpression{Op: op, Left: left, Right: right}, nil
}

// parseMultiplicative parses *, / and %, right-recursive like parseAdditive
func (p *Parser) parseMultiplicative() (Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	var op ArithmeticOperator
	switch p.t.Token().Type {
	case TokenMul:
		op = Mul
	case TokenDiv:
		op = Div
	case TokenMod:
		op = Mod
	default:
		return left, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	right, err := p.parseMultiplicative()
	p.depthCounter.Exit()
	if err != nil {
		return nil, err
	}
	return &ArithmeticExpression{Op: op, Left: left, Right: right}, nil
}

// parsePrimary parses literals, parameters, parenthesized expressions,
// sub-queries, function calls and paths
func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.t.Token()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()

	switch tok.Type {
	case TokenLeftParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		var e Expression
		var err error
		if p.t.IsKeyword("select") {
			e, err = p.parseQuery()
		} else {
			e, err = p.parseOr()
		}
		if err != nil {
			return nil, err
		}
		if err := p.t.Expect(TokenRightParen); err != nil {
			return nil, err
		}
		return e, nil

	case TokenNumber:
		lit, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		return lit, p.next()

	case TokenString:
		return &Literal{Value: tok.Value}, p.next()

	case TokenLeftCurly:
		if err := p.next(); err != nil {
			return nil, err
		}
		n, err := p.parseCount()
		if err != nil {
			return nil, fmt.Errorf("invalid parameter: %w", err)
		}
		if err := p.t.Expect(TokenRightCurly); err != nil {
			return nil, err
		}
		return &ParameterLiteral{Position: n}, nil

	case TokenMul:
		return &Asterisk{}, p.next()

	case TokenSub:
		if err := p.next(); err != nil {
			return nil, err
		}
		e, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryNegation{Expr: e}, nil

	case TokenKeyword:
		switch strings.ToLower(tok.Value) {
		case "null":
			return &NullLiteral{}, p.next()
		case "true":
			return &BooleanLiteral{Value: true}, p.next()
		case "false":
			return &BooleanLiteral{Value: false}, p.next()
		}

		name, err := p.t.EatKeyword()
		if err != nil {
			return nil, err
		}
		switch {
		case p.t.IsToken(TokenLeftParen):
			if strings.EqualFold(name, "rawquery") {
				return p.parseRaw()
			}
			return p.parseFunctionCall(name)
		case p.t.IsKeyword("where"):
			if err := p.next(); err != nil {
				return nil, err
			}
			return p.parseImplicitQuery(name)
		}
		return p.parsePath(name)
	}

	return nil, syntaxError(tok, ErrUnexpectedToken, "unexpected %v", tok.Type)
}

// parseNumber converts a number token to an int32, int64 or float64 literal
func parseNumber(tok Token) (*Literal, error) {
	if strings.Contains(tok.Value, ".") {
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, syntaxError(tok, ErrUnexpectedToken, "invalid number %s", tok.Value)
		}
		return &Literal{Value: f}, nil
	}
	if i, err := strconv.ParseInt(tok.Value, 10, 32); err == nil {
		return &Literal{Value: int32(i)}, nil
	}
	i, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return nil, syntaxError(tok, ErrUnexpectedToken, "number %s out of range", tok.Value)
	}
	return &Literal{Value: i}, nil
}
