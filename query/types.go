package query

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota

	// Words and literals
	TokenKeyword    // any identifier; reserved words are matched case-insensitively
	TokenString     // 'text'
	TokenNumber     // 12, 3.5
	TokenWhitespace // only produced when IgnoreWhiteSpace is off

	// Arithmetic
	TokenAdd // +
	TokenSub // -
	TokenMul // *
	TokenDiv // /
	TokenMod // %

	// Relational
	TokenEQ // = or ==
	TokenNE // <> or !=
	TokenLT // <
	TokenGT // >
	TokenLE // <=
	TokenGE // >=

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftCurly  // {
	TokenRightCurly // }
	TokenComma      // ,
	TokenDot        // .
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "end of input",
	TokenKeyword:    "keyword",
	TokenString:     "string",
	TokenNumber:     "number",
	TokenWhitespace: "whitespace",
	TokenAdd:        "'+'",
	TokenSub:        "'-'",
	TokenMul:        "'*'",
	TokenDiv:        "'/'",
	TokenMod:        "'%'",
	TokenEQ:         "'='",
	TokenNE:         "'<>'",
	TokenLT:         "'<'",
	TokenGT:         "'>'",
	TokenLE:         "'<='",
	TokenGE:         "'>='",
	TokenLeftParen:  "'('",
	TokenRightParen: "')'",
	TokenLeftCurly:  "'{'",
	TokenRightCurly: "'}'",
	TokenComma:      "','",
	TokenDot:        "'.'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset of the first character
}

// reservedWords are the words with a grammatical meaning.
// Any of them may still be used as a property or table name
// where the grammar expects a name.
var reservedWords = map[string]bool{
	"select":     true,
	"from":       true,
	"where":      true,
	"group":      true,
	"by":         true,
	"having":     true,
	"order":      true,
	"asc":        true,
	"desc":       true,
	"and":        true,
	"or":         true,
	"not":        true,
	"like":       true,
	"is":         true,
	"null":       true,
	"in":         true,
	"exists":     true,
	"distinct":   true,
	"top":        true,
	"true":       true,
	"false":      true,
	"as":         true,
	"contains":   true,
	"count":      true,
	"soodaclass": true,
	"rawquery":   true,
}

// IsReservedWord reports whether word (in any case) is a reserved word
func IsReservedWord(word string) bool {
	return reservedWords[strings.ToLower(word)]
}

// ArithmeticOperator is the operator of an ArithmeticExpression
type ArithmeticOperator int

const (
	Add ArithmeticOperator = iota
	Sub
	Mul
	Div
	Mod
)

func (op ArithmeticOperator) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	default:
		return fmt.Sprintf("ArithmeticOperator(%d)", int(op))
	}
}

// RelationalOperator is the operator of a RelationalExpression
// and of Compare
type RelationalOperator int

const (
	Equal RelationalOperator = iota
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	Like
)

func (op RelationalOperator) String() string {
	switch op {
	case Equal:
		return "="
	case NotEqual:
		return "<>"
	case Less:
		return "<"
	case Greater:
		return ">"
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Like:
		return "like"
	default:
		return fmt.Sprintf("RelationalOperator(%d)", int(op))
	}
}

// relationalTokens maps operator tokens to the relation they introduce
var relationalTokens = map[TokenType]RelationalOperator{
	TokenEQ: Equal,
	TokenNE: NotEqual,
	TokenLT: Less,
	TokenGT: Greater,
	TokenLE: LessEqual,
	TokenGE: GreaterEqual,
}
