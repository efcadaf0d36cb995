package query

import (
	"fmt"
	"strconv"
)

// Parser builds expression trees from query text. It owns one Tokenizer
// and is used for a single parse call.
type Parser struct {
	t            *Tokenizer
	depthCounter *ExpressionDepthCounter
}

// NewParser creates a parser positioned on the first token of text
func NewParser(text string) (*Parser, error) {
	if err := ValidateQuery(text); err != nil {
		return nil, err
	}
	t, err := NewTokenizer(text)
	if err != nil {
		return nil, err
	}
	return &Parser{t: t, depthCounter: NewExpressionDepthCounter()}, nil
}

// ParseExpression parses a scalar or boolean expression
func ParseExpression(text string) (Expression, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseBooleanExpression parses an expression that must produce a boolean
func ParseBooleanExpression(text string) (BooleanExpression, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	b, err := p.parseBoolean()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return b, nil
}

// ParseWhereClause parses the condition of a where clause
func ParseWhereClause(text string) (BooleanExpression, error) {
	return ParseBooleanExpression(text)
}

// ParseQuery parses a complete select statement
func ParseQuery(text string) (*QueryExpression, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return q, nil
}

// ParseOrderBy parses an order-by list ("a desc, b") and replaces the
// order-by clause of q with it. q is left untouched on error.
func ParseOrderBy(q *QueryExpression, text string) error {
	p, err := NewParser(text)
	if err != nil {
		return err
	}
	exprs, order, err := p.parseOrderByList()
	if err != nil {
		return err
	}
	if err := p.finish(); err != nil {
		return err
	}
	q.OrderBy = exprs
	q.OrderByOrder = order
	return nil
}

// finish fails unless the whole input was consumed
func (p *Parser) finish() error {
	if !p.t.IsEOF() {
		tok := p.t.Token()
		return syntaxError(tok, ErrTrailingInput, "unexpected %v after end of expression", tok.Type)
	}
	return nil
}

// next advances to the next token
func (p *Parser) next() error {
	return p.t.GetNextToken()
}

// parseBoolean parses an expression and checks that it is boolean
func (p *Parser) parseBoolean() (BooleanExpression, error) {
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	return AsBoolean(e)
}

// parseQuery parses: SELECT [TOP n] [DISTINCT] list FROM tables
// [WHERE cond] [GROUP BY list] [HAVING cond] [ORDER BY list]
func (p *Parser) parseQuery() (*QueryExpression, error) {
	if err := p.t.ExpectKeyword("select"); err != nil {
		return nil, fmt.Errorf("query must start with SELECT: %w", err)
	}

	q := NewQueryExpression()

	if p.t.IsKeyword("top") {
		if err := p.next(); err != nil {
			return nil, err
		}
		n, err := p.parseCount()
		if err != nil {
			return nil, fmt.Errorf("invalid TOP count: %w", err)
		}
		q.TopCount = n
	}

	if p.t.IsKeyword("distinct") {
		q.Distinct = true
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	// Parse SELECT list
	for {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		alias, err := p.parseAlias()
		if err != nil {
			return nil, err
		}
		q.SelectExpressions.Add(e)
		q.SelectAliases = append(q.SelectAliases, alias)

		if !p.t.IsToken(TokenComma) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if err := p.t.ExpectKeyword("from"); err != nil {
		return nil, fmt.Errorf("expected FROM after SELECT list: %w", err)
	}

	// Parse FROM list
	for {
		table, err := p.t.EatKeyword()
		if err != nil {
			return nil, fmt.Errorf("expected table name: %w", err)
		}
		alias, err := p.parseAlias()
		if err != nil {
			return nil, err
		}
		if alias == "" && p.t.IsToken(TokenKeyword) && !IsReservedWord(p.t.Token().Value) {
			if alias, err = p.t.EatKeyword(); err != nil {
				return nil, err
			}
		}
		q.From = append(q.From, table)
		q.FromAliases = append(q.FromAliases, alias)

		if !p.t.IsToken(TokenComma) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if p.t.IsKeyword("where") {
		if err := p.next(); err != nil {
			return nil, err
		}
		where, err := p.parseBoolean()
		if err != nil {
			return nil, fmt.Errorf("failed to parse WHERE clause: %w", err)
		}
		q.Where = where
	}

	if p.t.IsKeyword("group") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.t.ExpectKeyword("by"); err != nil {
			return nil, err
		}
		list, err := p.parseExpressionList()
		if err != nil {
			return nil, fmt.Errorf("failed to parse GROUP BY: %w", err)
		}
		q.GroupBy = list
	}

	if p.t.IsKeyword("having") {
		if err := p.next(); err != nil {
			return nil, err
		}
		having, err := p.parseBoolean()
		if err != nil {
			return nil, fmt.Errorf("failed to parse HAVING clause: %w", err)
		}
		q.Having = having
	}

	if p.t.IsKeyword("order") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.t.ExpectKeyword("by"); err != nil {
			return nil, err
		}
		exprs, order, err := p.parseOrderByList()
		if err != nil {
			return nil, fmt.Errorf("failed to parse ORDER BY: %w", err)
		}
		q.OrderBy = exprs
		q.OrderByOrder = order
	}

	return q, nil
}

// parseAlias parses an optional "AS name"
func (p *Parser) parseAlias() (string, error) {
	if !p.t.IsKeyword("as") {
		return "", nil
	}
	if err := p.next(); err != nil {
		return "", err
	}
	alias, err := p.t.EatKeyword()
	if err != nil {
		return "", fmt.Errorf("expected alias after AS: %w", err)
	}
	return alias, nil
}

// parseCount parses a non-negative integer token
func (p *Parser) parseCount() (int, error) {
	tok := p.t.Token()
	if tok.Type != TokenNumber {
		return 0, syntaxError(tok, ErrUnexpectedToken, "expected number, got %v", tok.Type)
	}
	n, err := strconv.Atoi(tok.Value)
	if err != nil {
		return 0, syntaxError(tok, ErrUnexpectedToken, "invalid integer %s", tok.Value)
	}
	if err := p.next(); err != nil {
		return 0, err
	}
	return n, nil
}

// parseExpressionList parses comma-separated expressions
func (p *Parser) parseExpressionList() (*ExpressionCollection, error) {
	list := NewExpressionCollection()
	for {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		list.Add(e)

		if !p.t.IsToken(TokenComma) {
			return list, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
}

// parseOrderByList parses: expr [ASC|DESC], ...
func (p *Parser) parseOrderByList() (*ExpressionCollection, []string, error) {
	exprs := NewExpressionCollection()
	var order []string
	for {
		e, err := p.parseOr()
		if err != nil {
			return nil, nil, err
		}

		direction := "asc"
		switch {
		case p.t.IsKeyword("asc"):
			if err := p.next(); err != nil {
				return nil, nil, err
			}
		case p.t.IsKeyword("desc"):
			direction = "desc"
			if err := p.next(); err != nil {
				return nil, nil, err
			}
		}
		exprs.Add(e)
		order = append(order, direction)

		if !p.t.IsToken(TokenComma) {
			return exprs, order, nil
		}
		if err := p.next(); err != nil {
			return nil, nil, err
		}
	}
}
