package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits query text into tokens.
//
// Only the current token is materialized; GetNextToken replaces it with
// the following one. A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	// IgnoreWhiteSpace controls whether whitespace between tokens is
	// skipped. When false, each run of whitespace is returned as a
	// TokenWhitespace token, so raw text can be reproduced exactly.
	IgnoreWhiteSpace bool

	input string
	pos   int
	tok   Token
}

// NewTokenizer creates a tokenizer positioned on the first token of input
func NewTokenizer(input string) (*Tokenizer, error) {
	t := &Tokenizer{}
	if err := t.Init(input); err != nil {
		return nil, err
	}
	return t, nil
}

// Init resets the tokenizer to the start of input and reads the first token
func (t *Tokenizer) Init(input string) error {
	t.IgnoreWhiteSpace = true
	t.input = input
	t.pos = 0
	t.tok = Token{}
	return t.GetNextToken()
}

// Token returns the current token
func (t *Tokenizer) Token() Token {
	return t.tok
}

// Input returns the text being tokenized
func (t *Tokenizer) Input() string {
	return t.input
}

// IsEOF reports whether the input is exhausted
func (t *Tokenizer) IsEOF() bool {
	return t.tok.Type == TokenEOF
}

// IsToken reports whether the current token has type tt
func (t *Tokenizer) IsToken(tt TokenType) bool {
	return t.tok.Type == tt
}

// IsKeyword reports whether the current token is the word w, ignoring case
func (t *Tokenizer) IsKeyword(w string) bool {
	return t.tok.Type == TokenKeyword && strings.EqualFold(t.tok.Value, w)
}

// Expect consumes the current token if it has type tt
func (t *Tokenizer) Expect(tt TokenType) error {
	if t.tok.Type != tt {
		return syntaxError(t.tok, ErrUnexpectedToken, "expected %v, got %v", tt, t.tok.Type)
	}
	return t.GetNextToken()
}

// ExpectKeyword consumes the current token if it is the word w
func (t *Tokenizer) ExpectKeyword(w string) error {
	if !t.IsKeyword(w) {
		return syntaxError(t.tok, ErrUnexpectedToken, "expected %q, got %v", w, t.tok.Type)
	}
	return t.GetNextToken()
}

// EatKeyword consumes the current token, which may be any word,
// and returns its text
func (t *Tokenizer) EatKeyword() (string, error) {
	if t.tok.Type != TokenKeyword {
		return "", syntaxError(t.tok, ErrUnexpectedToken, "expected name, got %v", t.tok.Type)
	}
	word := t.tok.Value
	if err := t.GetNextToken(); err != nil {
		return "", err
	}
	return word, nil
}

// GetNextToken advances past the current token and recognizes the next one
func (t *Tokenizer) GetNextToken() error {
	if t.IgnoreWhiteSpace {
		t.skipWhitespace()
	}

	start := t.pos
	if start >= len(t.input) {
		t.tok = Token{Type: TokenEOF, Pos: start}
		return nil
	}

	ch, size := utf8.DecodeRuneInString(t.input[start:])
	switch {
	case unicode.IsSpace(ch):
		for t.pos < len(t.input) {
			r, n := utf8.DecodeRuneInString(t.input[t.pos:])
			if !unicode.IsSpace(r) {
				break
			}
			t.pos += n
		}
		t.tok = Token{Type: TokenWhitespace, Value: t.input[start:t.pos], Pos: start}
		return nil
	case ch == '\'' || ch == '"':
		return t.readString(byte(ch))
	case isDigit(ch):
		t.readNumber()
		return nil
	case unicode.IsLetter(ch) || ch == '_':
		t.readIdentifier()
		return nil
	}

	t.pos += size
	tt := TokenEOF
	switch ch {
	case '+':
		tt = TokenAdd
	case '-':
		tt = TokenSub
	case '*':
		tt = TokenMul
	case '/':
		tt = TokenDiv
	case '%':
		tt = TokenMod
	case '(':
		tt = TokenLeftParen
	case ')':
		tt = TokenRightParen
	case '{':
		tt = TokenLeftCurly
	case '}':
		tt = TokenRightCurly
	case ',':
		tt = TokenComma
	case '.':
		tt = TokenDot
	case '=':
		tt = TokenEQ
		t.consume('=')
	case '<':
		switch {
		case t.consume('='):
			tt = TokenLE
		case t.consume('>'):
			tt = TokenNE
		default:
			tt = TokenLT
		}
	case '>':
		tt = TokenGT
		if t.consume('=') {
			tt = TokenGE
		}
	case '!':
		if !t.consume('=') {
			return lexError(start, "!", ErrUnexpectedCharacter, "expected '=' after '!'")
		}
		tt = TokenNE
	default:
		return lexError(start, string(ch), ErrUnexpectedCharacter, "unexpected character %q", ch)
	}

	t.tok = Token{Type: tt, Value: t.input[start:t.pos], Pos: start}
	return nil
}

// consume advances past the next byte if it equals c
func (t *Tokenizer) consume(c byte) bool {
	if t.pos < len(t.input) && t.input[t.pos] == c {
		t.pos++
		return true
	}
	return false
}

// skipWhitespace skips whitespace characters
func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) {
		r, n := utf8.DecodeRuneInString(t.input[t.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		t.pos += n
	}
}

// readString reads a quoted literal; a doubled quote stands for one quote
func (t *Tokenizer) readString(quote byte) error {
	start := t.pos
	t.pos++ // skip opening quote

	var result strings.Builder
	for {
		if t.pos >= len(t.input) {
			return lexError(start, t.input[start:], ErrUnterminatedString, "missing closing %c", quote)
		}
		c := t.input[t.pos]
		if c == quote {
			if t.pos+1 < len(t.input) && t.input[t.pos+1] == quote {
				result.WriteByte(quote)
				t.pos += 2
				continue
			}
			t.pos++ // skip closing quote
			break
		}
		result.WriteByte(c)
		t.pos++
	}

	t.tok = Token{Type: TokenString, Value: result.String(), Pos: start}
	return nil
}

// readNumber reads digits with an optional fractional part
func (t *Tokenizer) readNumber() {
	start := t.pos
	for t.pos < len(t.input) && isDigit(rune(t.input[t.pos])) {
		t.pos++
	}
	// a dot only belongs to the number when a digit follows it
	if t.pos+1 < len(t.input) && t.input[t.pos] == '.' && isDigit(rune(t.input[t.pos+1])) {
		t.pos++
		for t.pos < len(t.input) && isDigit(rune(t.input[t.pos])) {
			t.pos++
		}
	}
	t.tok = Token{Type: TokenNumber, Value: t.input[start:t.pos], Pos: start}
}

// readIdentifier reads a word made of letters, digits and underscores
func (t *Tokenizer) readIdentifier() {
	start := t.pos
	for t.pos < len(t.input) {
		r, n := utf8.DecodeRuneInString(t.input[t.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		t.pos += n
	}
	t.tok = Token{Type: TokenKeyword, Value: t.input[start:t.pos], Pos: start}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Tokenize returns all tokens of input, ending with TokenEOF
func Tokenize(input string) ([]Token, error) {
	t, err := NewTokenizer(input)
	if err != nil {
		return nil, err
	}

	var tokens []Token
	for {
		tokens = append(tokens, t.Token())
		if t.IsEOF() {
			return tokens, nil
		}
		if err := t.GetNextToken(); err != nil {
			return nil, err
		}
	}
}
