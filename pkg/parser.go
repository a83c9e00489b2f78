package greenlox

import "unicode/utf8"

// Parser builds a green tree from a token slice by recursive descent. Every
// token it consumes ends up as a leaf so the tree reproduces its input. The
// first error stops the parse.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a whole program and returns its NodeProgram root.
func Parse(tokens []Token) (*Node, error) {
	return NewParser(tokens).Parse()
}

// ParseExpression parses tokens as a single expression with nothing after it.
func ParseExpression(tokens []Token) (*Node, error) {
	return NewParser(tokens).ParseExpression()
}

// ParseSource scans and parses source as a program.
func ParseSource(source string) (*Node, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}

	return Parse(tokens)
}

func (p *Parser) Parse() (*Node, error) {
	var stmts []Element
	for !p.done() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, NodeElement(stmt))
	}

	return NewNode(NodeProgram, stmts...), nil
}

func (p *Parser) ParseExpression() (*Node, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		return nil, &ParseError{
			Pos:     tok.Pos,
			Found:   &tok,
			Context: "expected end of expression",
			Err:     ErrUnexpectedToken,
		}
	}

	return expr, nil
}

func (p *Parser) statement() (*Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errorf(nil, "expected statement")
	}

	switch tok.Kind {
	case TokenPrint:
		return p.printStmt()
	case TokenVar:
		return p.varDecl()
	case TokenLeftBrace:
		return p.block()
	case TokenIf:
		return p.ifStmt()
	case TokenWhile:
		return p.whileStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() (*Node, error) {
	keyword := p.next()

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(TokenSemicolon, "expected ';' after value")
	if err != nil {
		return nil, err
	}

	return NewNode(NodePrint, TokenElement(keyword), NodeElement(expr), TokenElement(semi)), nil
}

func (p *Parser) varDecl() (*Node, error) {
	children := []Element{TokenElement(p.next())}

	name, err := p.expect(TokenIdentifier, "expected variable name")
	if err != nil {
		return nil, err
	}
	children = append(children, TokenElement(name))

	if p.check(TokenEqual) {
		children = append(children, TokenElement(p.next()))

		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		children = append(children, NodeElement(init))
	}

	semi, err := p.expect(TokenSemicolon, "expected ';' after variable declaration")
	if err != nil {
		return nil, err
	}
	children = append(children, TokenElement(semi))

	return NewNode(NodeVar, children...), nil
}

func (p *Parser) block() (*Node, error) {
	children := []Element{TokenElement(p.next())}

	for tok, ok := p.peek(); ok && tok.Kind != TokenRightBrace; tok, ok = p.peek() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		children = append(children, NodeElement(stmt))
	}

	closer, err := p.expect(TokenRightBrace, "expected '}' after block")
	if err != nil {
		return nil, err
	}
	children = append(children, TokenElement(closer))

	return NewNode(NodeBlock, children...), nil
}

// condition parses `"(" expression ")"` after if/while and appends the three
// elements to children.
func (p *Parser) condition(children []Element, keyword string) ([]Element, error) {
	open, err := p.expect(TokenLeftParen, "expected '(' after '"+keyword+"'")
	if err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	closer, err := p.expect(TokenRightParen, "expected ')' after condition")
	if err != nil {
		return nil, err
	}

	return append(children, TokenElement(open), NodeElement(cond), TokenElement(closer)), nil
}

func (p *Parser) ifStmt() (*Node, error) {
	children, err := p.condition([]Element{TokenElement(p.next())}, "if")
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	children = append(children, NodeElement(then))

	if p.check(TokenElse) {
		children = append(children, TokenElement(p.next()))

		otherwise, err := p.statement()
		if err != nil {
			return nil, err
		}
		children = append(children, NodeElement(otherwise))
	}

	return NewNode(NodeIf, children...), nil
}

func (p *Parser) whileStmt() (*Node, error) {
	children, err := p.condition([]Element{TokenElement(p.next())}, "while")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return NewNode(NodeWhile, append(children, NodeElement(body))...), nil
}

func (p *Parser) exprStmt() (*Node, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(TokenSemicolon, "expected ';' after expression")
	if err != nil {
		return nil, err
	}

	return NewNode(NodeExprStmt, NodeElement(expr), TokenElement(semi)), nil
}

func (p *Parser) expression() (*Node, error) {
	return p.assignment()
}

func (p *Parser) assignment() (*Node, error) {
	target, err := p.or()
	if err != nil {
		return nil, err
	}

	if !p.check(TokenEqual) {
		return target, nil
	}

	equal := p.next()
	if target.Kind() != NodeIdentifier {
		return nil, &ParseError{
			Pos:      equal.Pos,
			Expected: []SyntaxKind{TokenIdentifier},
			Found:    &equal,
			Context:  "invalid assignment target",
			Err:      ErrInvalidAssignTarget,
		}
	}

	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	return NewNode(NodeAssign, NodeElement(target), TokenElement(equal), NodeElement(value)), nil
}

// binary parses one left-associative precedence level: operand (op operand)*.
func (p *Parser) binary(kind SyntaxKind, operand func() (*Node, error), ops ...SyntaxKind) (*Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.check(ops...) {
		op := p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = NewNode(kind, NodeElement(left), TokenElement(op), NodeElement(right))
	}

	return left, nil
}

func (p *Parser) or() (*Node, error) {
	return p.binary(NodeOr, p.and, TokenOr)
}

func (p *Parser) and() (*Node, error) {
	return p.binary(NodeAnd, p.equality, TokenAnd)
}

func (p *Parser) equality() (*Node, error) {
	return p.binary(NodeBinExpr, p.comparison, TokenEqualEqual, TokenBangEqual)
}

func (p *Parser) comparison() (*Node, error) {
	return p.binary(NodeBinExpr, p.term, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual)
}

func (p *Parser) term() (*Node, error) {
	return p.binary(NodeBinExpr, p.factor, TokenPlus, TokenMinus)
}

func (p *Parser) factor() (*Node, error) {
	return p.binary(NodeBinExpr, p.unary, TokenStar, TokenSlash)
}

func (p *Parser) unary() (*Node, error) {
	if !p.check(TokenBang, TokenMinus) {
		return p.primary()
	}

	op := p.next()

	operand, err := p.unary()
	if err != nil {
		return nil, err
	}

	return NewNode(NodeUnaryExpr, TokenElement(op), NodeElement(operand)), nil
}

var primaryKinds = []SyntaxKind{
	TokenNumber, TokenString, TokenTrue, TokenFalse, TokenNil, TokenIdentifier, TokenLeftParen,
}

func (p *Parser) primary() (*Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errorf(nil, "expected expression", primaryKinds...)
	}

	switch tok.Kind {
	case TokenNumber, TokenString, TokenTrue, TokenFalse, TokenNil:
		return NewNode(NodeLiteral, TokenElement(p.next())), nil
	case TokenIdentifier:
		return NewNode(NodeIdentifier, TokenElement(p.next())), nil
	case TokenLeftParen:
		return p.group()
	default:
		return nil, p.errorf(&tok, "expected expression", primaryKinds...)
	}
}

func (p *Parser) group() (*Node, error) {
	open := p.next()

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	closer, err := p.expect(TokenRightParen, "expected ')' after expression")
	if err != nil {
		return nil, err
	}

	return NewNode(NodeGroup, TokenElement(open), NodeElement(expr), TokenElement(closer)), nil
}

func (p *Parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() (Token, bool) {
	if p.done() {
		return Token{}, false
	}

	return p.tokens[p.pos], true
}

// next consumes the current token. Callers check for one first.
func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	p.pos++

	return tok
}

func (p *Parser) check(kinds ...SyntaxKind) bool {
	tok, ok := p.peek()
	if !ok {
		return false
	}

	for _, k := range kinds {
		if tok.Kind == k {
			return true
		}
	}

	return false
}

func (p *Parser) expect(kind SyntaxKind, context string) (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, p.errorf(nil, context, kind)
	}

	if tok.Kind != kind {
		return Token{}, p.errorf(&tok, context, kind)
	}

	return p.next(), nil
}

func (p *Parser) errorf(found *Token, context string, expected ...SyntaxKind) *ParseError {
	err := &ParseError{
		Expected: expected,
		Found:    found,
		Context:  context,
		Err:      ErrUnexpectedToken,
	}

	if found != nil {
		err.Pos = found.Pos
		return err
	}

	err.Err = ErrUnexpectedEOF
	if len(p.tokens) != 0 {
		last := p.tokens[len(p.tokens)-1]
		err.Pos = Position{Line: last.Pos.Line, Column: last.Pos.Column + utf8.RuneCountInString(last.Text)}
	}

	return err
}
