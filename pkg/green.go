package greenlox

import (
	"fmt"
	"io"
	"strings"
)

// Element is either a node or a token of the syntax tree.
type Element struct {
	node  *Node
	token Token
}

func NodeElement(n *Node) Element {
	return Element{node: n}
}

func TokenElement(t Token) Element {
	return Element{token: t}
}

func (e Element) Kind() SyntaxKind {
	if e.node != nil {
		return e.node.kind
	}

	return e.token.Kind
}

func (e Element) Node() (*Node, bool) {
	return e.node, e.node != nil
}

func (e Element) Token() (Token, bool) {
	return e.token, e.node == nil
}

func (e Element) writeText(str *strings.Builder) {
	if e.node != nil {
		e.node.writeText(str)
		return
	}

	str.WriteString(e.token.Text)
}

// Node is an untyped interior node. Its kind says what the children should
// look like, but nothing here enforces it; the typed views in ast.go do.
type Node struct {
	kind     SyntaxKind
	children []Element
}

func NewNode(kind SyntaxKind, children ...Element) *Node {
	n := &Node{kind: kind}
	if len(children) != 0 {
		n.children = make([]Element, len(children))
		copy(n.children, children)
	}

	return n
}

func (n *Node) Kind() SyntaxKind {
	return n.kind
}

func (n *Node) Len() int {
	return len(n.children)
}

func (n *Node) Child(i int) Element {
	return n.children[i]
}

// Children returns a copy of the child list.
func (n *Node) Children() []Element {
	children := make([]Element, len(n.children))
	copy(children, n.children)

	return children
}

// Nodes returns the direct node children in order.
func (n *Node) Nodes() []*Node {
	var nodes []*Node
	for _, child := range n.children {
		if child.node != nil {
			nodes = append(nodes, child.node)
		}
	}

	return nodes
}

// Tokens returns the direct token children in order.
func (n *Node) Tokens() []Token {
	var toks []Token
	for _, child := range n.children {
		if child.node == nil {
			toks = append(toks, child.token)
		}
	}

	return toks
}

// Walk visits n and its descendants depth first, left to right. Returning
// false from fn skips the children of the element just visited.
func (n *Node) Walk(fn func(Element) bool) {
	if !fn(NodeElement(n)) {
		return
	}

	for _, child := range n.children {
		if child.node != nil {
			child.node.Walk(fn)
			continue
		}

		fn(child)
	}
}

// Text concatenates the text of every token below n. For a parsed tree this
// is the source without its whitespace and comments.
func (n *Node) Text() string {
	var str strings.Builder
	n.writeText(&str)

	return str.String()
}

func (n *Node) writeText(str *strings.Builder) {
	for _, child := range n.children {
		child.writeText(str)
	}
}

func (n *Node) String() string {
	return n.Text()
}

// Dump writes an indented rendering of the tree, one element per line.
func (n *Node) Dump(w io.Writer) error {
	return n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, n.kind); err != nil {
		return err
	}

	for _, child := range n.children {
		if child.node != nil {
			if err := child.node.dump(w, depth+1); err != nil {
				return err
			}

			continue
		}

		if _, err := fmt.Fprintf(w, "%s  %s %q\n", indent, child.token.Kind, child.token.Text); err != nil {
			return err
		}
	}

	return nil
}
