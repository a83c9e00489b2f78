package greenlox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func analyze(t *testing.T, src string) (*Node, *Analysis) {
	t.Helper()

	root, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return root, NewAnalyzer().Analyze(root)
}

func TestContextAnalyzer(t *testing.T) {
	cases := []struct {
		data   string
		expect []string
	}{
		{"var x = 1 + 2; print x;", nil},
		{"var s = \"a\" + \"b\"; print s;", nil},
		{"print true == 1;", nil},
		{"print true and 1;", nil},
		{"var x; { var y = x; print y; }", nil},
		{"var x = 1; x = \"s\"; print x * 1;", nil},
		{"print y;", []string{"1:7 undefined: y"}},
		{"x = 1;", []string{"1:1 undefined: x"}},
		{"{ var x = 1; } print x;", []string{"1:22 undefined: x"}},
		{"print 1 + \"a\";", []string{"1:9 incompatible types for '+': 'number' and 'string'"}},
		{"print nil < 1;", []string{"1:11 incompatible types for '<': 'nil' and 'number'"}},
		{"print \"a\" - \"b\";", []string{"1:11 undefined operation: 'string' has no operator '-'"}},
		{"print true * false;", []string{"1:12 undefined operation: 'bool' has no operator '*'"}},
		{"print -true;", []string{"1:7 undefined operation: 'bool' has no unary operator '-'"}},
		{"print a;\nprint b;", []string{"1:7 undefined: a", "2:7 undefined: b"}},
		{"print -a + 1;", []string{"1:8 undefined: a"}},
	}

	for _, c := range cases {
		_, analysis := analyze(t, c.data)

		var got []string
		for _, err := range analysis.Errors {
			got = append(got, err.String())
		}

		assert.Equal(t, c.expect, got, c.data)
	}
}

func TestAnalysisTypes(t *testing.T) {
	cases := []struct {
		data   string
		expect Type
	}{
		{"1 + 2;", TypeNumber},
		{"\"a\" + \"b\";", TypeString},
		{"1 < 2;", TypeBool},
		{"!1;", TypeBool},
		{"nil;", TypeNil},
		{"(1);", TypeNumber},
		{"var x = 1; x;", TypeNumber},
		{"var x; x;", TypeNil},
		{"var x = 1; x = 2;", TypeNumber},
		{"print 1;", TypeNil},
		{"true or false;", TypeBool},
	}

	for _, c := range cases {
		root, analysis := analyze(t, c.data)
		assert.Empty(t, analysis.Errors, c.data)
		assert.Equal(t, c.expect, analysis.TypeOf(root), c.data)
	}
}

func TestAnalysisWidening(t *testing.T) {
	root, analysis := analyze(t, "var x = 1; x = \"s\"; x;")
	assert.Empty(t, analysis.Errors)
	assert.IsType(t, &AnyType{}, analysis.TypeOf(root))

	root, analysis = analyze(t, "1 or \"s\";")
	assert.Empty(t, analysis.Errors)
	assert.IsType(t, &AnyType{}, analysis.TypeOf(root))
}

func TestAnalysisNodeTypes(t *testing.T) {
	root, analysis := analyze(t, "var x = 1 < 2;")

	decl, ok := AsVarDecl(root.Nodes()[0])
	assert.True(t, ok)

	init, ok := decl.Initializer()
	if assert.True(t, ok) {
		assert.Equal(t, TypeBool, analysis.TypeOf(init))
	}

	assert.Nil(t, analysis.TypeOf(NewNode(NodeLiteral)))
}

func TestAnalysisErrorTypes(t *testing.T) {
	root, analysis := analyze(t, "print 1 + \"a\";")
	assert.Len(t, analysis.Errors, 1)
	assert.Equal(t, Position{Line: 1, Column: 9}, analysis.Errors[0].Position())

	stmt, _ := AsPrint(root.Nodes()[0])
	assert.Equal(t, &TypeErr{TypeErrIncompatible}, analysis.TypeOf(stmt.Expr()))
}

func TestSymbolTable(t *testing.T) {
	global := NewSymbolTable(nil)
	global.Add("x", TypeNumber)

	inner := NewSymbolTable(global)
	inner.Add("y", TypeString)

	assert.Equal(t, TypeNumber, inner.Get("x"))
	assert.Equal(t, TypeString, inner.Get("y"))
	assert.Nil(t, global.Get("y"))
	assert.Same(t, global, inner.Lookup("x"))
	assert.Same(t, global, inner.Parent())
	assert.Nil(t, inner.Lookup("z"))

	inner.Add("x", TypeBool)
	assert.Equal(t, TypeBool, inner.Get("x"))
	assert.Equal(t, TypeNumber, global.Get("x"))
}
