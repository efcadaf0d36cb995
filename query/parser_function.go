package query

import (
	"fmt"
	"strings"
)

// parseFunctionCall parses the argument list of name(...)
func (p *Parser) parseFunctionCall(name string) (Expression, error) {
	if err := p.t.Expect(TokenLeftParen); err != nil {
		return nil, fmt.Errorf("expected '(' after function name: %w", err)
	}

	args := NewExpressionCollection()

	// Check for empty argument list
	if p.t.IsToken(TokenRightParen) {
		if err := p.next(); err != nil {
			return nil, err
		}
		return &FunctionCall{Name: name, Args: args}, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args.Add(arg)

		if !p.t.IsToken(TokenComma) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if err := p.t.Expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ')' after arguments of %s: %w", name, err)
	}
	return &FunctionCall{Name: name, Args: args}, nil
}

// parseRaw reads the text between the parentheses of rawquery(...)
// verbatim, up to the matching ')'. Nested parentheses are kept.
func (p *Parser) parseRaw() (Expression, error) {
	p.t.IgnoreWhiteSpace = false
	defer func() { p.t.IgnoreWhiteSpace = true }()

	open := p.t.Token()
	if err := p.t.Expect(TokenLeftParen); err != nil {
		return nil, err
	}

	start := p.t.Token().Pos
	depth := 0
	for {
		tok := p.t.Token()
		switch tok.Type {
		case TokenEOF:
			return nil, syntaxError(open, ErrUnexpectedToken, "rawquery is missing its closing ')'")
		case TokenLeftParen:
			depth++
		case TokenRightParen:
			if depth == 0 {
				text := p.t.Input()[start:tok.Pos]
				p.t.IgnoreWhiteSpace = true
				if err := p.next(); err != nil {
					return nil, err
				}
				return &RawExpression{Text: text}, nil
			}
			depth--
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
}

// parsePath extends name into a dotted path. The chain ends at
// .*, .contains(expr), .count or .soodaclass.
func (p *Parser) parsePath(name string) (Expression, error) {
	if strings.EqualFold(name, "soodaclass") && !p.t.IsToken(TokenDot) {
		return &ClassExpression{}, nil
	}

	path := &PathExpression{Name: name}
	for p.t.IsToken(TokenDot) {
		if err := p.next(); err != nil {
			return nil, err
		}

		if p.t.IsToken(TokenMul) {
			if err := p.next(); err != nil {
				return nil, err
			}
			return &Asterisk{Left: path}, nil
		}

		segment, err := p.t.EatKeyword()
		if err != nil {
			return nil, fmt.Errorf("expected name after '.': %w", err)
		}

		switch strings.ToLower(segment) {
		case "contains":
			if err := p.t.Expect(TokenLeftParen); err != nil {
				return nil, err
			}
			e, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if err := p.t.Expect(TokenRightParen); err != nil {
				return nil, err
			}
			return &ContainsExpression{Path: path.Left, Collection: path.Name, Expr: e}, nil
		case "count":
			return &CountExpression{Path: path.Left, Collection: path.Name}, nil
		case "soodaclass":
			return &ClassExpression{Path: path}, nil
		}

		path = &PathExpression{Left: path, Name: segment}
	}
	return path, nil
}
