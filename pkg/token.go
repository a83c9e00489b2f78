package greenlox

import "fmt"

type SyntaxKind uint16

const (
	TokenError SyntaxKind = iota

	// Single-character tokens
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenDot
	TokenMinus
	TokenPlus
	TokenSemicolon
	TokenSlash
	TokenStar

	// One or two character tokens
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	tokenEnd

	NodeProgram
	NodeLiteral
	NodeUnaryExpr
	NodeBinExpr
	NodeGroup
	NodePrint
	NodeVar
	NodeIdentifier
	NodeBlock
	NodeIf
	NodeWhile
	NodeExprStmt
	NodeAssign
	NodeOr
	NodeAnd

	nodeEnd
)

var keywordTable = map[string]SyntaxKind{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

var operatorTable = map[rune]SyntaxKind{
	'(': TokenLeftParen,
	')': TokenRightParen,
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
	',': TokenComma,
	'.': TokenDot,
	'-': TokenMinus,
	'+': TokenPlus,
	';': TokenSemicolon,
	'*': TokenStar,
}

// compoundTable maps the first rune of a two-rune operator to its single and
// its '='-suffixed kind.
var compoundTable = map[rune][2]SyntaxKind{
	'!': {TokenBang, TokenBangEqual},
	'=': {TokenEqual, TokenEqualEqual},
	'<': {TokenLess, TokenLessEqual},
	'>': {TokenGreater, TokenGreaterEqual},
}

var kindNames = map[SyntaxKind]string{
	TokenError:        "error",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenMinus:        "-",
	TokenPlus:         "+",
	TokenSemicolon:    ";",
	TokenSlash:        "/",
	TokenStar:         "*",
	TokenBang:         "!",
	TokenBangEqual:    "!=",
	TokenEqual:        "=",
	TokenEqualEqual:   "==",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenIdentifier:   "identifier",
	TokenString:       "string",
	TokenNumber:       "number",
	NodeProgram:       "Program",
	NodeLiteral:       "Literal",
	NodeUnaryExpr:     "UnaryExpr",
	NodeBinExpr:       "BinExpr",
	NodeGroup:         "Group",
	NodePrint:         "Print",
	NodeVar:           "Var",
	NodeIdentifier:    "Identifier",
	NodeBlock:         "Block",
	NodeIf:            "If",
	NodeWhile:         "While",
	NodeExprStmt:      "ExprStmt",
	NodeAssign:        "Assign",
	NodeOr:            "Or",
	NodeAnd:           "And",
}

func init() {
	for word, kind := range keywordTable {
		kindNames[kind] = word
	}
}

func (k SyntaxKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("SyntaxKind(%d)", uint16(k))
}

// IsToken reports whether k is a terminal kind.
func (k SyntaxKind) IsToken() bool {
	return k > TokenError && k < tokenEnd
}

// IsNode reports whether k is a nonterminal kind.
func (k SyntaxKind) IsNode() bool {
	return k > tokenEnd && k < nodeEnd
}

// IsKeyword reports whether k is one of the reserved words.
func (k SyntaxKind) IsKeyword() bool {
	return k >= TokenAnd && k <= TokenWhile
}

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical unit. Text is the exact source slice the token was
// scanned from, so that the tree built from tokens can reproduce the source.
type Token struct {
	Kind SyntaxKind
	Text string
	Pos  Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokenIdentifier, TokenString, TokenNumber:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	default:
		return fmt.Sprintf("'%s'", t.Text)
	}
}
