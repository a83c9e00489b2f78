package greenlox

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// UnsupportedError reports a construct the IR backend cannot lower. Only
// numbers and booleans have a machine representation.
type UnsupportedError struct {
	Token  Token
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: not supported by the IR backend: %s", e.Token.Pos, e.Reason)
}

// AnalysisError carries the diagnostics that stopped lowering.
type AnalysisError struct {
	Errors []CompileError
}

func (e *AnalysisError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.String()
	}

	return strings.Join(msgs, "\n")
}

// ValueLookup maps variable names to their stack slots. A block scope gets a
// fresh lookup that inherits the enclosing one; the slots are shared, so a
// store through an inherited name is seen outside the block.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

type LLVMIRBuilder struct {
	mod      *ir.Module
	main     *ir.Func
	entry    *ir.Block
	block    *ir.Block
	values   *ValueLookup
	builtins map[string]*ir.Func
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:      ir.NewModule(),
		values:   NewValueLookup(),
		builtins: make(map[string]*ir.Func),
	}

	defineBuiltins(builder)

	builder.main = builder.mod.NewFunc("main", types.I32)
	builder.entry = builder.main.NewBlock("")
	builder.block = builder.entry

	return builder
}

func (b *LLVMIRBuilder) finish() *ir.Module {
	if b.block.Term == nil {
		b.block.NewRet(constant.NewInt(types.I32, 0))
	}

	return b.mod
}

func (b *LLVMIRBuilder) statement(n *Node) error {
	switch n.Kind() {
	case NodeProgram, NodeBlock:
		return b.blockStmt(n)
	case NodeExprStmt:
		stmt, _ := AsExprStmt(n)
		_, err := b.expression(stmt.Expr())
		return err
	case NodePrint:
		return b.print(n)
	case NodeVar:
		return b.variableDecl(n)
	case NodeIf:
		return b.ifStmt(n)
	case NodeWhile:
		return b.whileStmt(n)
	default:
		return &UnsupportedError{Token: firstToken(n), Reason: n.Kind().String()}
	}
}

func (b *LLVMIRBuilder) blockStmt(n *Node) error {
	if n.Kind() == NodeBlock {
		prevVals := b.values
		b.values = NewValueLookup()
		b.values.Inherit(prevVals)

		defer func() {
			b.values = prevVals
		}()
	}

	for _, stmt := range n.Nodes() {
		if err := b.statement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (b *LLVMIRBuilder) print(n *Node) error {
	stmt, _ := AsPrint(n)

	v, err := b.expression(stmt.Expr())
	if err != nil {
		return err
	}

	switch {
	case v.Type().Equal(types.Double):
		b.block.NewCall(b.builtins[builtinPrintNumber], v)
	case v.Type().Equal(types.I1):
		b.block.NewCall(b.builtins[builtinPrintBool], v)
	default:
		return &UnsupportedError{Token: stmt.Keyword(), Reason: "print of " + v.Type().String()}
	}

	return nil
}

func (b *LLVMIRBuilder) variableDecl(n *Node) error {
	decl, _ := AsVarDecl(n)
	name := decl.Name()

	init, ok := decl.Initializer()
	if !ok {
		return &UnsupportedError{Token: name, Reason: "variable without initializer"}
	}

	v, err := b.expression(init)
	if err != nil {
		return err
	}

	// Slots live in the entry block so a declaration inside a loop does not
	// grow the stack on every iteration.
	slot := b.entry.NewAlloca(v.Type())
	b.block.NewStore(v, slot)
	b.values.Set(name.Text, slot)

	return nil
}

// branch lowers a statement condition. Conditions select a branch only when
// they are the boolean true, so they must be booleans.
func (b *LLVMIRBuilder) branch(n *Node, keyword Token) (value.Value, error) {
	cond, err := b.expression(n)
	if err != nil {
		return nil, err
	}

	if !cond.Type().Equal(types.I1) {
		return nil, &UnsupportedError{Token: keyword, Reason: "non-boolean condition"}
	}

	return cond, nil
}

func (b *LLVMIRBuilder) ifStmt(n *Node) error {
	stmt, _ := AsIf(n)

	cond, err := b.branch(stmt.Condition(), stmt.Keyword())
	if err != nil {
		return err
	}

	then := b.main.NewBlock("")
	merge := b.main.NewBlock("")
	otherwise := merge

	elseStmt, hasElse := stmt.Else()
	if hasElse {
		otherwise = b.main.NewBlock("")
	}

	b.block.NewCondBr(cond, then, otherwise)

	b.block = then
	if err := b.statement(stmt.Then()); err != nil {
		return err
	}
	b.block.NewBr(merge)

	if hasElse {
		b.block = otherwise
		if err := b.statement(elseStmt); err != nil {
			return err
		}
		b.block.NewBr(merge)
	}

	b.block = merge
	return nil
}

func (b *LLVMIRBuilder) whileStmt(n *Node) error {
	stmt, _ := AsWhile(n)

	head := b.main.NewBlock("")
	body := b.main.NewBlock("")
	exit := b.main.NewBlock("")

	b.block.NewBr(head)

	b.block = head
	cond, err := b.branch(stmt.Condition(), stmt.Keyword())
	if err != nil {
		return err
	}
	b.block.NewCondBr(cond, body, exit)

	b.block = body
	if err := b.statement(stmt.Body()); err != nil {
		return err
	}
	b.block.NewBr(head)

	b.block = exit
	return nil
}

func (b *LLVMIRBuilder) expression(n *Node) (value.Value, error) {
	switch n.Kind() {
	case NodeLiteral:
		lit, _ := AsLiteral(n)
		return b.loadLiteral(lit.Token())
	case NodeGroup:
		g, _ := AsGroup(n)
		return b.expression(g.Expr())
	case NodeIdentifier:
		id, _ := AsIdentifier(n)
		slot, err := b.lookup(id.Name())
		if err != nil {
			return nil, err
		}

		return b.block.NewLoad(slot.ElemType, slot), nil
	case NodeAssign:
		return b.assign(n)
	case NodeUnaryExpr:
		return b.unaryExpression(n)
	case NodeBinExpr:
		return b.binaryExpression(n)
	default:
		return nil, &UnsupportedError{Token: firstToken(n), Reason: n.Kind().String()}
	}
}

func (b *LLVMIRBuilder) lookup(name Token) (*ir.InstAlloca, error) {
	v, ok := b.values.Get(name.Text)
	if !ok {
		return nil, &RuntimeError{Token: name, Err: ErrUndefinedVariable}
	}

	return v.(*ir.InstAlloca), nil
}

func (b *LLVMIRBuilder) assign(n *Node) (value.Value, error) {
	expr, _ := AsAssign(n)
	name := expr.Target().Name()

	slot, err := b.lookup(name)
	if err != nil {
		return nil, err
	}

	v, err := b.expression(expr.Value())
	if err != nil {
		return nil, err
	}

	if !v.Type().Equal(slot.ElemType) {
		return nil, &UnsupportedError{Token: name, Reason: "assignment changes the type of " + name.Text}
	}

	b.block.NewStore(v, slot)
	return v, nil
}

func (b *LLVMIRBuilder) loadLiteral(tok Token) (value.Value, error) {
	switch tok.Kind {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &RuntimeError{Token: tok, Err: ErrInvalidNumber}
		}

		return constant.NewFloat(types.Double, f), nil
	case TokenTrue:
		return constant.True, nil
	case TokenFalse:
		return constant.False, nil
	default:
		return nil, &UnsupportedError{Token: tok, Reason: tok.Kind.String() + " literal"}
	}
}

func (b *LLVMIRBuilder) unaryExpression(n *Node) (value.Value, error) {
	expr, _ := AsUnaryExpr(n)
	op := expr.Op()

	v, err := b.expression(expr.Operand())
	if err != nil {
		return nil, err
	}

	switch {
	case op.Kind == TokenMinus && v.Type().Equal(types.Double):
		return b.block.NewFNeg(v), nil
	case op.Kind == TokenBang && v.Type().Equal(types.I1):
		return b.block.NewXor(v, constant.True), nil
	default:
		return nil, &UnsupportedError{Token: op, Reason: fmt.Sprintf("'%s' on %s", op.Text, v.Type())}
	}
}

var floatPredicates = map[SyntaxKind]enum.FPred{
	TokenEqualEqual:   enum.FPredOEQ,
	TokenBangEqual:    enum.FPredUNE,
	TokenLess:         enum.FPredOLT,
	TokenLessEqual:    enum.FPredOLE,
	TokenGreater:      enum.FPredOGT,
	TokenGreaterEqual: enum.FPredOGE,
}

func (b *LLVMIRBuilder) binaryExpression(n *Node) (value.Value, error) {
	expr, _ := AsBinExpr(n)
	op := expr.Op()

	v1, err := b.expression(expr.Left())
	if err != nil {
		return nil, err
	}

	v2, err := b.expression(expr.Right())
	if err != nil {
		return nil, err
	}

	if !v1.Type().Equal(v2.Type()) {
		// Values of different types are never equal.
		switch op.Kind {
		case TokenEqualEqual:
			return constant.False, nil
		case TokenBangEqual:
			return constant.True, nil
		}

		return nil, &UnsupportedError{Token: op, Reason: fmt.Sprintf("'%s' on %s and %s", op.Text, v1.Type(), v2.Type())}
	}

	if v1.Type().Equal(types.I1) {
		switch op.Kind {
		case TokenEqualEqual:
			return b.block.NewICmp(enum.IPredEQ, v1, v2), nil
		case TokenBangEqual:
			return b.block.NewICmp(enum.IPredNE, v1, v2), nil
		default:
			return nil, &UnsupportedError{Token: op, Reason: fmt.Sprintf("'%s' on booleans", op.Text)}
		}
	}

	switch op.Kind {
	case TokenPlus:
		return b.block.NewFAdd(v1, v2), nil
	case TokenMinus:
		return b.block.NewFSub(v1, v2), nil
	case TokenStar:
		return b.block.NewFMul(v1, v2), nil
	case TokenSlash:
		return b.block.NewFDiv(v1, v2), nil
	}

	pred, ok := floatPredicates[op.Kind]
	if !ok {
		return nil, &UnsupportedError{Token: op, Reason: "operator " + op.Text}
	}

	return b.block.NewFCmp(pred, v1, v2), nil
}

// LLVMGenerator lowers a parsed program into an LLVM module whose main
// function runs the program.
type LLVMGenerator struct {
	root *Node
}

func NewLLVMGenerator(root *Node) *LLVMGenerator {
	return &LLVMGenerator{
		root: root,
	}
}

func (g LLVMGenerator) Generate() (*ir.Module, error) {
	if analysis := NewAnalyzer().Analyze(g.root); len(analysis.Errors) != 0 {
		return nil, &AnalysisError{Errors: analysis.Errors}
	}

	builder := NewLLVMIRBuilder()
	if err := builder.statement(g.root); err != nil {
		return nil, err
	}

	return builder.finish(), nil
}
