package greenlox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.greenlox.dev/internal/test"
)

// sexpr renders a tree compactly: nodes as (Kind children...), tokens as
// their text.
func sexpr(e Element) string {
	n, ok := e.Node()
	if !ok {
		t, _ := e.Token()
		return t.Text
	}

	var str strings.Builder
	str.WriteString("(")
	str.WriteString(n.Kind().String())
	for _, child := range n.Children() {
		str.WriteString(" ")
		str.WriteString(sexpr(child))
	}
	str.WriteString(")")

	return str.String()
}

func mustScan(t *testing.T, src string) []Token {
	t.Helper()

	toks, err := Scan(src)
	if err != nil {
		t.Fatalf("scan %q: %v", src, err)
	}

	return toks
}

func TestParseExpression(t *testing.T) {
	cases := []struct {
		data   string
		expect string
	}{
		{"1 + 2", "(BinExpr (Literal 1) + (Literal 2))"},
		{"1 + 2 * 3", "(BinExpr (Literal 1) + (BinExpr (Literal 2) * (Literal 3)))"},
		{"1 * 2 + 3", "(BinExpr (BinExpr (Literal 1) * (Literal 2)) + (Literal 3))"},
		{"1 - 2 - 3", "(BinExpr (BinExpr (Literal 1) - (Literal 2)) - (Literal 3))"},
		{"8 / 4 / 2", "(BinExpr (BinExpr (Literal 8) / (Literal 4)) / (Literal 2))"},
		{"(1 + 2) * 3", "(BinExpr (Group ( (BinExpr (Literal 1) + (Literal 2)) )) * (Literal 3))"},
		{"-!x", "(UnaryExpr - (UnaryExpr ! (Identifier x)))"},
		{"- -1", "(UnaryExpr - (UnaryExpr - (Literal 1)))"},
		{"1 < 2 == true", "(BinExpr (BinExpr (Literal 1) < (Literal 2)) == (Literal true))"},
		{"a >= b != c <= d", "(BinExpr (BinExpr (Identifier a) >= (Identifier b)) != (BinExpr (Identifier c) <= (Identifier d)))"},
		{"a or b and c", "(Or (Identifier a) or (And (Identifier b) and (Identifier c)))"},
		{"a and b or c", "(Or (And (Identifier a) and (Identifier b)) or (Identifier c))"},
		{"a or b or c", "(Or (Or (Identifier a) or (Identifier b)) or (Identifier c))"},
		{"a = b = 1", "(Assign (Identifier a) = (Assign (Identifier b) = (Literal 1)))"},
		{"a = 1 + 2", "(Assign (Identifier a) = (BinExpr (Literal 1) + (Literal 2)))"},
		{"\"s\" == nil", "(BinExpr (Literal \"s\") == (Literal nil))"},
	}

	for _, c := range cases {
		node, err := ParseExpression(mustScan(t, c.data))
		if assert.NoError(t, err, c.data) {
			assert.Equal(t, c.expect, sexpr(NodeElement(node)), c.data)
		}
	}
}

func TestParseProgram(t *testing.T) {
	cases := []struct {
		data   string
		expect string
	}{
		{"", "(Program)"},
		{"print 1;", "(Program (Print print (Literal 1) ;))"},
		{"1 + 2;", "(Program (ExprStmt (BinExpr (Literal 1) + (Literal 2)) ;))"},
		{"var x;", "(Program (Var var x ;))"},
		{"var x = 1;", "(Program (Var var x = (Literal 1) ;))"},
		{"{ print x; }", "(Program (Block { (Print print (Identifier x) ;) }))"},
		{"{}", "(Program (Block { }))"},
		{
			"if (a) print 1; else print 2;",
			"(Program (If if ( (Identifier a) ) (Print print (Literal 1) ;) else (Print print (Literal 2) ;)))",
		},
		{
			"if (a) if (b) print 1; else print 2;",
			"(Program (If if ( (Identifier a) ) (If if ( (Identifier b) ) (Print print (Literal 1) ;) else (Print print (Literal 2) ;))))",
		},
		{
			"while (x) x = x;",
			"(Program (While while ( (Identifier x) ) (ExprStmt (Assign (Identifier x) = (Identifier x)) ;)))",
		},
		{
			"var a = 1; print a;",
			"(Program (Var var a = (Literal 1) ;) (Print print (Identifier a) ;))",
		},
	}

	for _, c := range cases {
		root, err := Parse(mustScan(t, c.data))
		if assert.NoError(t, err, c.data) {
			assert.Equal(t, c.expect, sexpr(NodeElement(root)), c.data)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		data     string
		err      error
		expected []SyntaxKind
		found    string
	}{
		{"print 1", ErrUnexpectedEOF, []SyntaxKind{TokenSemicolon}, ""},
		{"var 1;", ErrUnexpectedToken, []SyntaxKind{TokenIdentifier}, "1"},
		{"var x = 1", ErrUnexpectedEOF, []SyntaxKind{TokenSemicolon}, ""},
		{"{ print 1;", ErrUnexpectedEOF, []SyntaxKind{TokenRightBrace}, ""},
		{"if x) print 1;", ErrUnexpectedToken, []SyntaxKind{TokenLeftParen}, "x"},
		{"while (x print 1;", ErrUnexpectedToken, []SyntaxKind{TokenRightParen}, "print"},
		{"print ;", ErrUnexpectedToken, primaryKinds, ";"},
		{"print 1; }", ErrUnexpectedToken, primaryKinds, "}"},
		{"(1 + 2", ErrUnexpectedEOF, []SyntaxKind{TokenRightParen}, ""},
		{"fun f() {}", ErrUnexpectedToken, primaryKinds, "fun"},
		{"1 = 2;", ErrInvalidAssignTarget, []SyntaxKind{TokenIdentifier}, "="},
		{"a + b = 2;", ErrInvalidAssignTarget, []SyntaxKind{TokenIdentifier}, "="},
		{"print -", ErrUnexpectedEOF, primaryKinds, ""},
	}

	for _, c := range cases {
		_, err := Parse(mustScan(t, c.data))
		assert.ErrorIs(t, err, c.err, c.data)

		var parseErr *ParseError
		if !assert.ErrorAs(t, err, &parseErr, c.data) {
			continue
		}

		assert.Equal(t, c.expected, parseErr.Expected, c.data)
		if c.found == "" {
			assert.Nil(t, parseErr.Found, c.data)
		} else if assert.NotNil(t, parseErr.Found, c.data) {
			assert.Equal(t, c.found, parseErr.Found.Text, c.data)
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseSource("print 1")
	assert.EqualError(t, err, "1:8: expected ';' after value, found end of input")

	_, err = ParseSource("var x = 1;\nvar 2;")
	assert.EqualError(t, err, "2:5: expected variable name, found number(2)")
}

func TestParseExpressionTrailingTokens(t *testing.T) {
	_, err := ParseExpression(mustScan(t, "1 2"))
	assert.ErrorIs(t, err, ErrUnexpectedToken)

	_, err = ParseExpression(mustScan(t, "1;"))
	assert.ErrorIs(t, err, ErrUnexpectedToken)

	_, err = ParseExpression(nil)
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		"print 1 + 2 * 3;",
		"var greeting = \"hello \" + \"world\";\nprint greeting; // shout it\n",
		"var x;\n{\n  var x = 2;\n  print x;\n}\n",
		"if (a <= 1) { print a; } else if (a != 2) print -a; else print !a;",
		"var i = 0;\nwhile (i < 10) i = i + 1;",
		"print (1 + (2 - 3)) / 4 >= 5 or nil and false;",
		"\t\r\n// only a comment\n",
	}

	for _, src := range sources {
		root, err := ParseSource(src)
		if assert.NoError(t, err, src) {
			assert.Equal(t, stripTrivia(src), root.Text(), src)
		}
	}

	src := test.GetRandomProgram(200)
	root, err := ParseSource(src)
	if assert.NoError(t, err) {
		assert.Equal(t, stripTrivia(src), root.Text())
	}
}

func TestParseDeterministic(t *testing.T) {
	src := test.GetRandomProgram(100)

	first, err := ParseSource(src)
	assert.NoError(t, err)

	second, err := ParseSource(src)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

var benchTree *Node

func benchmarkParser(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		toks, err := Scan(test.GetRandomProgram(size))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		benchTree, err = Parse(toks)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParser100(b *testing.B) {
	benchmarkParser(100, b)
}

func BenchmarkParser10000(b *testing.B) {
	benchmarkParser(10000, b)
}
