package greenlox

import "fmt"

// Analyzer infers static types over a parsed program and collects every
// diagnostic it finds instead of stopping at the first one. It never runs
// the program, so it cannot see which branch of an if is taken; a name
// declared in either branch counts as declared afterwards.
type Analyzer struct {
	scope    *SymbolTable
	analysis *Analysis
}

type Analysis struct {
	Types  map[*Node]Type
	Errors []CompileError
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze checks root, which is usually a NodeProgram but may be any
// statement or expression node.
func (a *Analyzer) Analyze(root *Node) *Analysis {
	a.scope = NewSymbolTable(nil)
	a.analysis = &Analysis{
		Types: make(map[*Node]Type),
	}

	a.resolve(root)

	return a.analysis
}

// TypeOf returns the type inferred for n, or nil when n was not visited.
func (r *Analysis) TypeOf(n *Node) Type {
	return r.Types[n]
}

func (r *Analysis) addError(err CompileError) {
	r.Errors = append(r.Errors, err)
}

func (a *Analyzer) resolve(n *Node) Type {
	t := a.resolveNode(n)
	a.analysis.Types[n] = t

	return t
}

func (a *Analyzer) resolveNode(n *Node) Type {
	switch n.Kind() {
	case NodeProgram:
		prog, _ := AsProgram(n)
		return a.statements(prog.Statements())
	case NodeBlock:
		block, _ := AsBlock(n)

		a.scope = NewSymbolTable(a.scope)
		defer func() { a.scope = a.scope.Parent() }()

		a.statements(block.Statements())
		return TypeNil
	case NodeExprStmt:
		stmt, _ := AsExprStmt(n)
		return a.resolve(stmt.Expr())
	case NodePrint:
		stmt, _ := AsPrint(n)
		a.resolve(stmt.Expr())
		return TypeNil
	case NodeVar:
		decl, _ := AsVarDecl(n)

		var t Type = TypeNil
		if init, ok := decl.Initializer(); ok {
			t = a.resolve(init)
		}

		a.scope.Add(decl.Name().Text, t)
		return TypeNil
	case NodeIf:
		stmt, _ := AsIf(n)
		a.resolve(stmt.Condition())
		a.resolve(stmt.Then())
		if otherwise, ok := stmt.Else(); ok {
			a.resolve(otherwise)
		}

		return TypeNil
	case NodeWhile:
		stmt, _ := AsWhile(n)
		a.resolve(stmt.Condition())
		a.resolve(stmt.Body())
		return TypeNil
	case NodeGroup:
		g, _ := AsGroup(n)
		return a.resolve(g.Expr())
	case NodeLiteral:
		lit, _ := AsLiteral(n)
		return literalType(lit.Token())
	case NodeIdentifier:
		id, _ := AsIdentifier(n)
		name := id.Name()

		if t := a.scope.Get(name.Text); t != nil {
			return t
		}

		a.analysis.addError(&UndefinedError{Loc: name.Pos, Name: name.Text})
		return &TypeErr{TypeErrUndefined}
	case NodeAssign:
		return a.assign(n)
	case NodeUnaryExpr:
		return a.unary(n)
	case NodeBinExpr:
		return a.binary(n)
	case NodeOr, NodeAnd:
		expr, _ := AsLogical(n)

		t1 := a.resolve(expr.Left())
		t2 := a.resolve(expr.Right())
		if isErrorType(t1) {
			return t1
		}

		if isErrorType(t2) {
			return t2
		}

		if t1.Equals(t2) {
			return t1
		}

		return &AnyType{}
	default:
		return &TypeErr{"unknown"}
	}
}

func (a *Analyzer) statements(stmts []*Node) Type {
	var last Type = TypeNil
	for _, stmt := range stmts {
		last = a.resolve(stmt)
	}

	return last
}

func (a *Analyzer) assign(n *Node) Type {
	expr, _ := AsAssign(n)
	name := expr.Target().Name()

	t := a.resolve(expr.Value())
	a.analysis.Types[expr.Target().Syntax()] = t

	scope := a.scope.Lookup(name.Text)
	if scope == nil {
		a.analysis.addError(&UndefinedError{Loc: name.Pos, Name: name.Text})
		return &TypeErr{TypeErrUndefined}
	}

	if prev := scope.Get(name.Text); !isErrorType(t) && !prev.Equals(t) {
		// Once a variable holds values of two types nothing more can be
		// said about it statically.
		scope.Add(name.Text, &AnyType{})
	}

	return t
}

func (a *Analyzer) unary(n *Node) Type {
	expr, _ := AsUnaryExpr(n)
	op := expr.Op()

	t := a.resolve(expr.Operand())
	if isErrorType(t) {
		return t
	}

	if op.Kind == TokenBang {
		return TypeBool
	}

	if !isNumeric(t) {
		a.analysis.addError(&UndefinedUnaryError{Loc: op.Pos, Type: t, Op: op.Text})
		return &TypeErr{TypeErrBadOp}
	}

	return TypeNumber
}

func (a *Analyzer) binary(n *Node) Type {
	expr, _ := AsBinExpr(n)
	op := expr.Op()

	t1 := a.resolve(expr.Left())
	t2 := a.resolve(expr.Right())

	if isErrorType(t1) {
		// Error already logged by the type resolution
		return t1
	}

	if isErrorType(t2) {
		return t2
	}

	switch op.Kind {
	case TokenEqualEqual, TokenBangEqual:
		return TypeBool
	}

	_, any1 := t1.(*AnyType)
	_, any2 := t2.(*AnyType)
	if any1 || any2 {
		if op.Kind == TokenPlus {
			return &AnyType{}
		}

		if !isNumeric(t1) || !isNumeric(t2) {
			a.analysis.addError(&UndefinedOperationError{Loc: op.Pos, Type: t1, Op: op.Text})
			return &TypeErr{TypeErrBadOp}
		}

		return resultType(op.Kind)
	}

	if !t1.Equals(t2) {
		a.analysis.addError(&IncompatibleTypesError{
			Loc:   op.Pos,
			Op:    op.Text,
			Type1: t1,
			Type2: t2,
		})

		return &TypeErr{TypeErrIncompatible}
	}

	if !isOpDefined(t1, op.Kind) {
		a.analysis.addError(&UndefinedOperationError{Loc: op.Pos, Type: t1, Op: op.Text})
		return &TypeErr{TypeErrBadOp}
	}

	if op.Kind == TokenPlus {
		return t1
	}

	return resultType(op.Kind)
}

func literalType(tok Token) Type {
	switch tok.Kind {
	case TokenNumber:
		return TypeNumber
	case TokenString:
		return TypeString
	case TokenTrue, TokenFalse:
		return TypeBool
	case TokenNil:
		return TypeNil
	default:
		return &TypeErr{"unimplemented"}
	}
}

func resultType(op SyntaxKind) Type {
	switch op {
	case TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		return TypeBool
	default:
		return TypeNumber
	}
}

func isOpDefined(t Type, op SyntaxKind) bool {
	basic, ok := t.(*BasicType)
	if !ok {
		return false
	}

	switch basic.Typ {
	case "number":
		return true
	case "string":
		return op == TokenPlus
	default:
		return false
	}
}

func isNumeric(t Type) bool {
	switch typ := t.(type) {
	case *AnyType:
		return true
	case *BasicType:
		return typ.Typ == "number"
	default:
		return false
	}
}

func isErrorType(t Type) bool {
	_, isErr := t.(*TypeErr)
	return isErr
}

type Type interface {
	String() string
	Equals(t2 Type) bool
}

type TypeErr struct {
	Reason string
}

const (
	TypeErrUndefined    = "undefined"
	TypeErrIncompatible = "incompatible"
	TypeErrBadOp        = "bad op"
)

func (t *TypeErr) String() string {
	return "~error:" + t.Reason
}

func (t *TypeErr) Equals(_ Type) bool {
	return false
}

type AnyType struct{}

func (t *AnyType) String() string {
	return "~any"
}

func (t *AnyType) Equals(t2 Type) bool {
	_, ok := t2.(*AnyType)
	return ok
}

type BasicType struct {
	Typ string
}

var (
	TypeNumber = &BasicType{"number"}
	TypeString = &BasicType{"string"}
	TypeBool   = &BasicType{"bool"}
	TypeNil    = &BasicType{"nil"}
)

func (t *BasicType) String() string {
	return t.Typ
}

func (t *BasicType) Equals(t2 Type) bool {
	if typ, ok := t2.(*BasicType); ok {
		return t.Typ == typ.Typ
	}

	return false
}

type CompileError interface {
	fmt.Stringer
	Position() Position
}

type UndefinedError struct {
	Loc  Position
	Name string
}

func (e *UndefinedError) Position() Position { return e.Loc }

func (e *UndefinedError) String() string {
	return fmt.Sprintf("%s undefined: %s", e.Loc, e.Name)
}

type IncompatibleTypesError struct {
	Loc   Position
	Op    string
	Type1 Type
	Type2 Type
}

func (e *IncompatibleTypesError) Position() Position { return e.Loc }

func (e *IncompatibleTypesError) String() string {
	return fmt.Sprintf("%s incompatible types for '%s': '%s' and '%s'", e.Loc, e.Op, e.Type1, e.Type2)
}

type UndefinedOperationError struct {
	Loc  Position
	Type Type
	Op   string
}

func (e *UndefinedOperationError) Position() Position { return e.Loc }

func (e *UndefinedOperationError) String() string {
	return fmt.Sprintf("%s undefined operation: '%s' has no operator '%s'", e.Loc, e.Type, e.Op)
}

type UndefinedUnaryError struct {
	Loc  Position
	Type Type
	Op   string
}

func (e *UndefinedUnaryError) Position() Position { return e.Loc }

func (e *UndefinedUnaryError) String() string {
	return fmt.Sprintf("%s undefined operation: '%s' has no unary operator '%s'", e.Loc, e.Type, e.Op)
}

// SymbolTable is the analyzer's counterpart of Environment: a scope of
// static types linked to its enclosing scope.
type SymbolTable struct {
	parent  *SymbolTable
	Entries map[string]Type
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		parent:  parent,
		Entries: make(map[string]Type),
	}
}

func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

func (t *SymbolTable) Add(name string, typ Type) {
	t.Entries[name] = typ
}

// Get resolves name through the enclosing scopes, nil if undeclared.
func (t *SymbolTable) Get(name string) Type {
	if scope := t.Lookup(name); scope != nil {
		return scope.Entries[name]
	}

	return nil
}

// Lookup returns the innermost scope declaring name.
func (t *SymbolTable) Lookup(name string) *SymbolTable {
	for scope := t; scope != nil; scope = scope.parent {
		if _, ok := scope.Entries[name]; ok {
			return scope
		}
	}

	return nil
}
