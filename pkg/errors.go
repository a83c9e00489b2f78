package greenlox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")

	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrInvalidAssignTarget = errors.New("invalid assignment target")

	ErrUndefinedVariable = errors.New("undefined variable")
	ErrOperandType       = errors.New("invalid operand type")
	ErrInvalidNumber     = errors.New("invalid number literal")
)

// LexError aborts a scan. Text holds the offending character, or the partial
// string literal when the input ends inside one.
type LexError struct {
	Pos  Position
	Text string
	Err  error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Pos, e.Err, e.Text)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// ParseError is the first and only error of a parse. Found is nil when the
// token stream ended where a token was required.
type ParseError struct {
	Pos      Position
	Expected []SyntaxKind
	Found    *Token
	Context  string
	Err      error
}

func (e *ParseError) Error() string {
	var str strings.Builder
	str.WriteString(e.Pos.String())
	str.WriteString(": ")

	if e.Context != "" {
		str.WriteString(e.Context)
	} else {
		str.WriteString("expected ")
		str.WriteString(describeKinds(e.Expected))
	}

	if e.Found == nil {
		str.WriteString(", found end of input")
	} else {
		str.WriteString(", found ")
		str.WriteString(e.Found.String())
	}

	return str.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func describeKinds(kinds []SyntaxKind) string {
	if len(kinds) == 1 {
		return "'" + kinds[0].String() + "'"
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = "'" + k.String() + "'"
	}

	return "one of " + strings.Join(names, ", ")
}

// RuntimeError aborts evaluation. Token is the token the failing construct is
// anchored on: the operator, the identifier or the literal.
type RuntimeError struct {
	Token  Token
	Detail string
	Err    error
}

func (e *RuntimeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s: %s", e.Token.Pos, e.Err, e.Token.Text)
	}

	return fmt.Sprintf("%s: %s: %s", e.Token.Pos, e.Err, e.Detail)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func runtimeErrorf(tok Token, err error, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Token:  tok,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
