package greenlox

import (
	"unicode"
	"unicode/utf8"
)

const EOF rune = -1

type stateFunc func(l *Lexer) stateFunc

// Lexer turns source text into tokens. A Lexer is single use: Run scans the
// whole source once.
type Lexer struct {
	src string

	start    int
	startPos Position
	pos      int
	line     int
	col      int

	tokens []Token
	err    error
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		src:  source,
		line: 1,
		col:  1,
	}
}

// Scan tokenizes source. Whitespace and comments produce no tokens.
func Scan(source string) ([]Token, error) {
	return NewLexer(source).Run()
}

func (l *Lexer) Run() ([]Token, error) {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.mark()

		switch r := l.peek(); {
		case r == EOF:
			return nil
		case r == ' ' || r == '\r' || r == '\t' || r == '\n':
			l.next()
			continue
		case r == '"':
			return stringState
		case isDigit(r):
			return numberState
		case isLetter(r) || r == '_':
			return identifierState
		default:
			return operatorState
		}
	}
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()

	if tok, ok := operatorTable[r]; ok {
		return l.emit(tok)
	}

	if pair, ok := compoundTable[r]; ok {
		if l.peek() == '=' {
			l.next()
			return l.emit(pair[1])
		}

		return l.emit(pair[0])
	}

	if r == '/' {
		if l.peek() == '/' {
			return lineCommentState
		}

		return l.emit(TokenSlash)
	}

	return l.fail(ErrUnexpectedChar)
}

func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func stringState(l *Lexer) stateFunc {
	l.next() // Opening quote

	for r := l.next(); r != '"'; r = l.next() {
		if r == EOF {
			return l.fail(ErrUnterminatedString)
		}
	}

	return l.emit(TokenString)
}

// numberState does not check how many dots it consumes; "1.2.3" is a single
// number token.
func numberState(l *Lexer) stateFunc {
	for r := l.peek(); isDigit(r) || r == '.'; r = l.peek() {
		l.next()
	}

	return l.emit(TokenNumber)
}

func identifierState(l *Lexer) stateFunc {
	l.next()
	for r := l.peek(); isLetter(r); r = l.peek() {
		l.next()
	}

	if kind, ok := keywordTable[l.text()]; ok {
		return l.emit(kind)
	}

	return l.emit(TokenIdentifier)
}

func (l *Lexer) mark() {
	l.start = l.pos
	l.startPos = Position{Line: l.line, Column: l.col}
}

func (l *Lexer) text() string {
	return l.src[l.start:l.pos]
}

func (l *Lexer) emit(kind SyntaxKind) stateFunc {
	l.tokens = append(l.tokens, Token{
		Kind: kind,
		Text: l.text(),
		Pos:  l.startPos,
	})

	return defaultState
}

func (l *Lexer) fail(err error) stateFunc {
	l.err = &LexError{
		Pos:  l.startPos,
		Text: l.text(),
		Err:  err,
	}

	return nil
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return EOF
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.src) {
		return EOF
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
