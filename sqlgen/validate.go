package sqlgen

import (
	"errors"
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/test_driver"
)

var (
	// ErrInvalidSQL is returned when generated text is not valid MySQL
	ErrInvalidSQL = errors.New("invalid SQL")

	// ErrPlaceholderMismatch is returned when the parsed placeholders
	// do not match the recorded parameters
	ErrPlaceholderMismatch = errors.New("placeholder count mismatch")
)

// Validator checks generated statements with the TiDB MySQL parser.
// A Validator is not safe for concurrent use.
type Validator struct {
	parser *parser.Parser
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		parser: parser.New(),
	}
}

// Validate parses s and checks its placeholders against s.Params.
// An expression fragment is checked as the field of a SELECT.
func (v *Validator) Validate(s *Statement) error {
	text := s.SQL
	if !s.Query {
		text = "SELECT " + text
	}

	stmts, _, err := v.parser.Parse(text, "", "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSQL, err)
	}
	if len(stmts) != 1 {
		return fmt.Errorf("%w: expected one statement, got %d", ErrInvalidSQL, len(stmts))
	}
	if _, ok := stmts[0].(*ast.SelectStmt); !ok {
		return fmt.Errorf("%w: unexpected statement type %T", ErrInvalidSQL, stmts[0])
	}

	markers := &markerCounter{}
	stmts[0].Accept(markers)
	if markers.count != len(s.Params) {
		return fmt.Errorf("%w: %d placeholders, %d parameters", ErrPlaceholderMismatch, markers.count, len(s.Params))
	}
	return nil
}

// markerCounter counts ? placeholders in a parsed statement
type markerCounter struct {
	count int
}

func (m *markerCounter) Enter(n ast.Node) (ast.Node, bool) {
	if _, ok := n.(*test_driver.ParamMarkerExpr); ok {
		m.count++
	}
	return n, false
}

func (m *markerCounter) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}
