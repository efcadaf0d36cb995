package query

import (
	"errors"
	"fmt"
)

// Validation constants to prevent DoS and resource exhaustion
const (
	// MaxQueryLength is the maximum allowed query string length (1MB)
	MaxQueryLength = 1024 * 1024

	// MaxExpressionDepth is the maximum nesting depth for expressions
	MaxExpressionDepth = 100
)

var (
	// ErrQueryTooLong is returned when query exceeds MaxQueryLength
	ErrQueryTooLong = errors.New("query too long")

	// ErrExpressionTooDeep is returned when expression nesting exceeds limit
	ErrExpressionTooDeep = errors.New("expression nesting too deep")
)

// ValidateQuery performs security validation on query input
func ValidateQuery(text string) error {
	if len(text) > MaxQueryLength {
		return &ParseError{
			Kind:    SyntaxError,
			Message: fmt.Sprintf("%d bytes (max %d)", len(text), MaxQueryLength),
			Err:     ErrQueryTooLong,
		}
	}
	return nil
}

// ExpressionDepthCounter tracks expression nesting depth
type ExpressionDepthCounter struct {
	depth    int
	maxDepth int
}

// NewExpressionDepthCounter creates a new depth counter
func NewExpressionDepthCounter() *ExpressionDepthCounter {
	return &ExpressionDepthCounter{depth: 0, maxDepth: MaxExpressionDepth}
}

// Enter increments depth and returns error if limit exceeded
func (c *ExpressionDepthCounter) Enter(tok Token) error {
	c.depth++
	if c.depth > c.maxDepth {
		return syntaxError(tok, ErrExpressionTooDeep, "depth %d (max %d)", c.depth, c.maxDepth)
	}
	return nil
}

// Exit decrements depth
func (c *ExpressionDepthCounter) Exit() {
	c.depth--
}
