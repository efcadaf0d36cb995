package query

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedCharacter is returned when the tokenizer meets a character
	// that starts no token
	ErrUnexpectedCharacter = errors.New("unexpected character")

	// ErrUnterminatedString is returned when a quoted literal has no closing quote
	ErrUnterminatedString = errors.New("unterminated string literal")

	// ErrUnexpectedToken is returned when the current token does not match the grammar
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrTrailingInput is returned when an entry point did not consume the whole input
	ErrTrailingInput = errors.New("unexpected trailing input")

	// ErrNotBoolean is returned when a boolean context receives a non-boolean expression
	ErrNotBoolean = errors.New("expression is not boolean")

	// ErrNotSupported is returned for operator and type combinations that have no meaning
	ErrNotSupported = errors.New("not supported")

	// ErrNotImplemented is returned by operations left to the consuming layer
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedTypes is returned when Compare cannot relate two values
	ErrUnsupportedTypes = errors.New("unsupported type pair")

	// ErrConversion is returned when a value cannot be converted to a comparison bucket
	ErrConversion = errors.New("cannot convert value")

	// ErrDivideByZero is returned when constant folding divides an integer by zero
	ErrDivideByZero = errors.New("integer divide by zero")

	// ErrIndexOutOfRange is carried by the panic of an out-of-range collection index
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrElementNotFound is returned when removing an element that is not in a collection
	ErrElementNotFound = errors.New("element not found")

	// ErrReadOnly is carried by the panic of a mutation through a read-only collection
	ErrReadOnly = errors.New("collection is read-only")

	// ErrConcurrentModification is returned by an iterator whose collection changed
	ErrConcurrentModification = errors.New("collection was modified during iteration")
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	LexicalError ErrorKind = iota // unrecognised character or unterminated literal
	SyntaxError                   // token mismatch or trailing input
)

func (k ErrorKind) String() string {
	if k == LexicalError {
		return "lexical error"
	}
	return "syntax error"
}

// ParseError describes a failure of the tokenizer or the parser.
// It carries the byte offset of the offending input.
type ParseError struct {
	Kind    ErrorKind
	Pos     int    // offset in the input string
	Token   string // text of the offending token, if any
	Message string // textual description of the error
	Err     error  // sentinel cause, for errors.Is
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s at position %d near %q: %s", e.Kind, e.Pos, e.Token, e.Message)
	}
	return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func lexError(pos int, token string, cause error, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    LexicalError,
		Pos:     pos,
		Token:   token,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

func syntaxError(tok Token, cause error, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    SyntaxError,
		Pos:     tok.Pos,
		Token:   tok.Value,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// IndexError is the panic value of an out-of-range collection access
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d, length %d", ErrIndexOutOfRange, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
