package greenlox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.greenlox.dev/internal/test"
)

func tok(kind SyntaxKind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// withoutPos drops positions so cases can be written as kind/text pairs.
func withoutPos(toks []Token) []Token {
	if toks == nil {
		return nil
	}

	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = tok(t.Kind, t.Text)
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		err    error
		expect []Token
	}{
		{
			"1+2",
			nil,
			[]Token{
				tok(TokenNumber, "1"),
				tok(TokenPlus, "+"),
				tok(TokenNumber, "2"),
			},
		},
		{
			"(){},.-+;*/",
			nil,
			[]Token{
				tok(TokenLeftParen, "("),
				tok(TokenRightParen, ")"),
				tok(TokenLeftBrace, "{"),
				tok(TokenRightBrace, "}"),
				tok(TokenComma, ","),
				tok(TokenDot, "."),
				tok(TokenMinus, "-"),
				tok(TokenPlus, "+"),
				tok(TokenSemicolon, ";"),
				tok(TokenStar, "*"),
				tok(TokenSlash, "/"),
			},
		},
		{
			"! != = == < <= > >=",
			nil,
			[]Token{
				tok(TokenBang, "!"),
				tok(TokenBangEqual, "!="),
				tok(TokenEqual, "="),
				tok(TokenEqualEqual, "=="),
				tok(TokenLess, "<"),
				tok(TokenLessEqual, "<="),
				tok(TokenGreater, ">"),
				tok(TokenGreaterEqual, ">="),
			},
		},
		{
			"!==",
			nil,
			[]Token{
				tok(TokenBangEqual, "!="),
				tok(TokenEqual, "="),
			},
		},
		{
			"// a\n  ",
			nil,
			nil,
		},
		{
			"print 1; // trailing comment\nprint 2;",
			nil,
			[]Token{
				tok(TokenPrint, "print"),
				tok(TokenNumber, "1"),
				tok(TokenSemicolon, ";"),
				tok(TokenPrint, "print"),
				tok(TokenNumber, "2"),
				tok(TokenSemicolon, ";"),
			},
		},
		{
			"\"hello world\"",
			nil,
			[]Token{
				tok(TokenString, "\"hello world\""),
			},
		},
		{
			"\"\"",
			nil,
			[]Token{
				tok(TokenString, "\"\""),
			},
		},
		{
			"\"multi\nline\"",
			nil,
			[]Token{
				tok(TokenString, "\"multi\nline\""),
			},
		},
		{
			"1.5 1.2.3 42.",
			nil,
			[]Token{
				tok(TokenNumber, "1.5"),
				tok(TokenNumber, "1.2.3"),
				tok(TokenNumber, "42."),
			},
		},
		{
			"and class else false for fun if nil or print return super this true var while",
			nil,
			[]Token{
				tok(TokenAnd, "and"),
				tok(TokenClass, "class"),
				tok(TokenElse, "else"),
				tok(TokenFalse, "false"),
				tok(TokenFor, "for"),
				tok(TokenFun, "fun"),
				tok(TokenIf, "if"),
				tok(TokenNil, "nil"),
				tok(TokenOr, "or"),
				tok(TokenPrint, "print"),
				tok(TokenReturn, "return"),
				tok(TokenSuper, "super"),
				tok(TokenThis, "this"),
				tok(TokenTrue, "true"),
				tok(TokenVar, "var"),
				tok(TokenWhile, "while"),
			},
		},
		{
			"orchid _private x1",
			nil,
			[]Token{
				tok(TokenIdentifier, "orchid"),
				tok(TokenIdentifier, "_private"),
				tok(TokenIdentifier, "x"),
				tok(TokenNumber, "1"),
			},
		},
		{
			"únicódeShouldBeVàlid = 1",
			nil,
			[]Token{
				tok(TokenIdentifier, "únicódeShouldBeVàlid"),
				tok(TokenEqual, "="),
				tok(TokenNumber, "1"),
			},
		},
		{
			"\"unclosed string",
			ErrUnterminatedString,
			nil,
		},
		{
			"print 1 @",
			ErrUnexpectedChar,
			nil,
		},
		{
			"#",
			ErrUnexpectedChar,
			nil,
		},
	}

	for _, c := range cases {
		toks, err := Scan(c.data)
		if c.err != nil {
			assert.ErrorIs(t, err, c.err, c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, withoutPos(toks), c.data)
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := Scan("var x\n  = \"é\";")
	assert.NoError(t, err)

	expect := []Position{{1, 1}, {1, 5}, {2, 3}, {2, 5}, {2, 8}}
	var got []Position
	for _, tok := range toks {
		got = append(got, tok.Pos)
	}

	assert.Equal(t, expect, got)
}

func TestLexerErrorDetails(t *testing.T) {
	_, err := Scan("var a = 1;\n  a @ 2;")

	var lexErr *LexError
	if assert.ErrorAs(t, err, &lexErr) {
		assert.Equal(t, Position{Line: 2, Column: 5}, lexErr.Pos)
		assert.Equal(t, "@", lexErr.Text)
	}

	_, err = Scan("print \"abc")
	if assert.ErrorAs(t, err, &lexErr) {
		assert.Equal(t, Position{Line: 1, Column: 7}, lexErr.Pos)
		assert.Equal(t, "\"abc", lexErr.Text)
	}
}

func TestLexerDeterministic(t *testing.T) {
	src := test.GetRandomTokens(500)

	first, err := Scan(src)
	assert.NoError(t, err)

	second, err := Scan(src)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLexerTextCoversSource(t *testing.T) {
	src := test.GetRandomTokensWithSep(300, "\n")

	toks, err := Scan(src)
	assert.NoError(t, err)

	var got strings.Builder
	for _, tok := range toks {
		got.WriteString(tok.Text)
	}

	assert.Equal(t, stripTrivia(src), got.String())
}

// stripTrivia removes whitespace and line comments outside of string
// literals.
func stripTrivia(src string) string {
	var out strings.Builder
	inString := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString:
			out.WriteByte(c)
			inString = c != '"'
		case c == '"':
			out.WriteByte(c)
			inString = true
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)

		var err error
		b.StartTimer()

		benchResult, err = Scan(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
