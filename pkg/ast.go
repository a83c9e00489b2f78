package greenlox

import "fmt"

// AstNode is a typed, read-only view over a green node of one kind. Views are
// created with the AsXxx functions, which only check the node kind; the
// accessors trust the parser to have built the expected shape.
type AstNode interface {
	Syntax() *Node
}

func cast(n *Node, kind SyntaxKind) (*Node, bool) {
	if n == nil || n.kind != kind {
		return nil, false
	}

	return n, true
}

func tokenOf(n *Node, kinds ...SyntaxKind) Token {
	for _, child := range n.children {
		if child.node != nil {
			continue
		}

		if len(kinds) == 0 {
			return child.token
		}

		for _, k := range kinds {
			if child.token.Kind == k {
				return child.token
			}
		}
	}

	panic(fmt.Sprintf("malformed %s node: no %v token", n.kind, kinds))
}

func nodeAt(n *Node, i int) *Node {
	nodes := n.Nodes()
	if i >= len(nodes) {
		panic(fmt.Sprintf("malformed %s node: no child node %d", n.kind, i))
	}

	return nodes[i]
}

type Program struct{ node *Node }

func AsProgram(n *Node) (Program, bool) {
	n, ok := cast(n, NodeProgram)
	return Program{n}, ok
}

func (p Program) Syntax() *Node       { return p.node }
func (p Program) Statements() []*Node { return p.node.Nodes() }

type Literal struct{ node *Node }

func AsLiteral(n *Node) (Literal, bool) {
	n, ok := cast(n, NodeLiteral)
	return Literal{n}, ok
}

func (l Literal) Syntax() *Node { return l.node }
func (l Literal) Token() Token  { return tokenOf(l.node) }

type UnaryExpr struct{ node *Node }

func AsUnaryExpr(n *Node) (UnaryExpr, bool) {
	n, ok := cast(n, NodeUnaryExpr)
	return UnaryExpr{n}, ok
}

func (u UnaryExpr) Syntax() *Node  { return u.node }
func (u UnaryExpr) Op() Token      { return tokenOf(u.node) }
func (u UnaryExpr) Operand() *Node { return nodeAt(u.node, 0) }

type BinExpr struct{ node *Node }

func AsBinExpr(n *Node) (BinExpr, bool) {
	n, ok := cast(n, NodeBinExpr)
	return BinExpr{n}, ok
}

func (b BinExpr) Syntax() *Node { return b.node }
func (b BinExpr) Left() *Node   { return nodeAt(b.node, 0) }
func (b BinExpr) Op() Token     { return tokenOf(b.node) }
func (b BinExpr) Right() *Node  { return nodeAt(b.node, 1) }

// Logical is the view shared by the short-circuit Or and And nodes.
type Logical struct{ node *Node }

func AsLogical(n *Node) (Logical, bool) {
	if n != nil && (n.kind == NodeOr || n.kind == NodeAnd) {
		return Logical{n}, true
	}

	return Logical{}, false
}

func (l Logical) Syntax() *Node { return l.node }
func (l Logical) Left() *Node   { return nodeAt(l.node, 0) }
func (l Logical) Op() Token     { return tokenOf(l.node) }
func (l Logical) Right() *Node  { return nodeAt(l.node, 1) }

type Group struct{ node *Node }

func AsGroup(n *Node) (Group, bool) {
	n, ok := cast(n, NodeGroup)
	return Group{n}, ok
}

func (g Group) Syntax() *Node { return g.node }
func (g Group) Expr() *Node   { return nodeAt(g.node, 0) }

type Print struct{ node *Node }

func AsPrint(n *Node) (Print, bool) {
	n, ok := cast(n, NodePrint)
	return Print{n}, ok
}

func (p Print) Syntax() *Node  { return p.node }
func (p Print) Keyword() Token { return tokenOf(p.node, TokenPrint) }
func (p Print) Expr() *Node    { return nodeAt(p.node, 0) }

type VarDecl struct{ node *Node }

func AsVarDecl(n *Node) (VarDecl, bool) {
	n, ok := cast(n, NodeVar)
	return VarDecl{n}, ok
}

func (v VarDecl) Syntax() *Node { return v.node }
func (v VarDecl) Name() Token   { return tokenOf(v.node, TokenIdentifier) }

// Initializer returns false when the declaration has no "= expr" part.
func (v VarDecl) Initializer() (*Node, bool) {
	nodes := v.node.Nodes()
	if len(nodes) == 0 {
		return nil, false
	}

	return nodes[0], true
}

type Identifier struct{ node *Node }

func AsIdentifier(n *Node) (Identifier, bool) {
	n, ok := cast(n, NodeIdentifier)
	return Identifier{n}, ok
}

func (i Identifier) Syntax() *Node { return i.node }
func (i Identifier) Name() Token   { return tokenOf(i.node, TokenIdentifier) }

type Block struct{ node *Node }

func AsBlock(n *Node) (Block, bool) {
	n, ok := cast(n, NodeBlock)
	return Block{n}, ok
}

func (b Block) Syntax() *Node       { return b.node }
func (b Block) Statements() []*Node { return b.node.Nodes() }

type If struct{ node *Node }

func AsIf(n *Node) (If, bool) {
	n, ok := cast(n, NodeIf)
	return If{n}, ok
}

func (i If) Syntax() *Node    { return i.node }
func (i If) Keyword() Token   { return tokenOf(i.node, TokenIf) }
func (i If) Condition() *Node { return nodeAt(i.node, 0) }
func (i If) Then() *Node      { return nodeAt(i.node, 1) }

func (i If) Else() (*Node, bool) {
	nodes := i.node.Nodes()
	if len(nodes) < 3 {
		return nil, false
	}

	return nodes[2], true
}

type While struct{ node *Node }

func AsWhile(n *Node) (While, bool) {
	n, ok := cast(n, NodeWhile)
	return While{n}, ok
}

func (w While) Syntax() *Node    { return w.node }
func (w While) Keyword() Token   { return tokenOf(w.node, TokenWhile) }
func (w While) Condition() *Node { return nodeAt(w.node, 0) }
func (w While) Body() *Node      { return nodeAt(w.node, 1) }

type ExprStmt struct{ node *Node }

func AsExprStmt(n *Node) (ExprStmt, bool) {
	n, ok := cast(n, NodeExprStmt)
	return ExprStmt{n}, ok
}

func (e ExprStmt) Syntax() *Node { return e.node }
func (e ExprStmt) Expr() *Node   { return nodeAt(e.node, 0) }

type Assign struct{ node *Node }

func AsAssign(n *Node) (Assign, bool) {
	n, ok := cast(n, NodeAssign)
	return Assign{n}, ok
}

func (a Assign) Syntax() *Node { return a.node }
func (a Assign) Op() Token     { return tokenOf(a.node, TokenEqual) }
func (a Assign) Value() *Node  { return nodeAt(a.node, 1) }

func (a Assign) Target() Identifier {
	id, ok := AsIdentifier(nodeAt(a.node, 0))
	if !ok {
		panic("malformed Assign node: target is not an identifier")
	}

	return id
}

// firstToken returns the leftmost token below n, used to anchor diagnostics
// on nodes that have no token of their own.
func firstToken(n *Node) Token {
	var tok Token
	found := false
	n.Walk(func(e Element) bool {
		if found {
			return false
		}

		if t, ok := e.Token(); ok {
			tok, found = t, true
		}

		return true
	})

	return tok
}
