package greenlox

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Interpreter struct {
	env    *Environment
	out    io.Writer
	logger *slog.Logger
}

type Option func(*Interpreter)

// WithOutput sets where print statements write. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithEnvironment makes env the global frame instead of a fresh one.
func WithEnvironment(env *Environment) Option {
	return func(in *Interpreter) {
		in.env = env
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		env:    NewEnvironment(),
		out:    os.Stdout,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Env returns the current frame. Outside of a running Evaluate call this is
// the global frame.
func (in *Interpreter) Env() *Environment {
	return in.env
}

// Run scans, parses and evaluates source against the interpreter's globals,
// which persist between calls.
func (in *Interpreter) Run(source string) (Value, error) {
	root, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	return in.Evaluate(root)
}

// Evaluate executes node in the current environment.
func (in *Interpreter) Evaluate(node *Node) (Value, error) {
	switch node.Kind() {
	case NodeProgram:
		return in.evalProgram(node)
	case NodeLiteral:
		return in.evalLiteral(node)
	case NodeUnaryExpr:
		return in.evalUnary(node)
	case NodeBinExpr:
		return in.evalBinary(node)
	case NodeGroup:
		g, _ := AsGroup(node)
		return in.Evaluate(g.Expr())
	case NodePrint:
		return in.evalPrint(node)
	case NodeVar:
		return in.evalVar(node)
	case NodeIdentifier:
		return in.evalIdentifier(node)
	case NodeBlock:
		return in.evalBlock(node)
	case NodeIf:
		return in.evalIf(node)
	case NodeWhile:
		return in.evalWhile(node)
	case NodeExprStmt:
		s, _ := AsExprStmt(node)
		return in.Evaluate(s.Expr())
	case NodeAssign:
		return in.evalAssign(node)
	case NodeOr, NodeAnd:
		return in.evalLogical(node)
	default:
		return nil, fmt.Errorf("%s can not be evaluated", node.Kind())
	}
}

func (in *Interpreter) evalProgram(node *Node) (Value, error) {
	prog, _ := AsProgram(node)

	var last Value = Nil{}
	for _, stmt := range prog.Statements() {
		v, err := in.Evaluate(stmt)
		if err != nil {
			return nil, err
		}

		last = v
	}

	return last, nil
}

func (in *Interpreter) evalLiteral(node *Node) (Value, error) {
	lit, _ := AsLiteral(node)
	tok := lit.Token()

	switch tok.Kind {
	case TokenFalse:
		return Bool(false), nil
	case TokenTrue:
		return Bool(true), nil
	case TokenNil:
		return Nil{}, nil
	case TokenString:
		return String(strings.ReplaceAll(tok.Text, `"`, "")), nil
	case TokenNumber:
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &RuntimeError{Token: tok, Err: ErrInvalidNumber}
		}

		return Number(n), nil
	default:
		return nil, fmt.Errorf("unexpected token in literal: %s", tok)
	}
}

func (in *Interpreter) evalUnary(node *Node) (Value, error) {
	expr, _ := AsUnaryExpr(node)
	op := expr.Op()

	operand, err := in.Evaluate(expr.Operand())
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case TokenMinus:
		n, ok := operand.(Number)
		if !ok {
			return nil, runtimeErrorf(op, ErrOperandType, "operand of '-' must be a number, got %s", operand.TypeName())
		}

		return -n, nil
	case TokenBang:
		return Bool(!Truthy(operand)), nil
	default:
		return nil, fmt.Errorf("unexpected unary operator %s", op)
	}
}

func (in *Interpreter) evalBinary(node *Node) (Value, error) {
	expr, _ := AsBinExpr(node)
	op := expr.Op()

	left, err := in.Evaluate(expr.Left())
	if err != nil {
		return nil, err
	}

	right, err := in.Evaluate(expr.Right())
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case TokenEqualEqual:
		return Bool(Equal(left, right)), nil
	case TokenBangEqual:
		return Bool(!Equal(left, right)), nil
	case TokenPlus:
		if l, ok := left.(String); ok {
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		if op.Kind == TokenPlus {
			return nil, runtimeErrorf(op, ErrOperandType, "operands of '+' must be two numbers or two strings, got %s and %s", left.TypeName(), right.TypeName())
		}

		return nil, runtimeErrorf(op, ErrOperandType, "operands of '%s' must be numbers, got %s and %s", op.Text, left.TypeName(), right.TypeName())
	}

	switch op.Kind {
	case TokenPlus:
		return l + r, nil
	case TokenMinus:
		return l - r, nil
	case TokenStar:
		return l * r, nil
	case TokenSlash:
		return l / r, nil
	case TokenGreater:
		return Bool(l > r), nil
	case TokenGreaterEqual:
		return Bool(l >= r), nil
	case TokenLess:
		return Bool(l < r), nil
	case TokenLessEqual:
		return Bool(l <= r), nil
	default:
		return nil, fmt.Errorf("unexpected binary operator %s", op)
	}
}

func (in *Interpreter) evalLogical(node *Node) (Value, error) {
	expr, _ := AsLogical(node)

	left, err := in.Evaluate(expr.Left())
	if err != nil {
		return nil, err
	}

	if node.Kind() == NodeOr && Truthy(left) {
		return left, nil
	}

	if node.Kind() == NodeAnd && !Truthy(left) {
		return left, nil
	}

	return in.Evaluate(expr.Right())
}

func (in *Interpreter) evalPrint(node *Node) (Value, error) {
	stmt, _ := AsPrint(node)

	v, err := in.Evaluate(stmt.Expr())
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintln(in.out, v.String()); err != nil {
		return nil, err
	}

	return Nil{}, nil
}

func (in *Interpreter) evalVar(node *Node) (Value, error) {
	decl, _ := AsVarDecl(node)

	var v Value = Nil{}
	if init, ok := decl.Initializer(); ok {
		var err error
		if v, err = in.Evaluate(init); err != nil {
			return nil, err
		}
	}

	in.env.Define(decl.Name().Text, v)
	return Nil{}, nil
}

func (in *Interpreter) evalIdentifier(node *Node) (Value, error) {
	id, _ := AsIdentifier(node)
	name := id.Name()

	v, ok := in.env.Get(name.Text)
	if !ok {
		return nil, &RuntimeError{Token: name, Err: ErrUndefinedVariable}
	}

	return v, nil
}

func (in *Interpreter) evalAssign(node *Node) (Value, error) {
	expr, _ := AsAssign(node)
	name := expr.Target().Name()

	v, err := in.Evaluate(expr.Value())
	if err != nil {
		return nil, err
	}

	if !in.env.Assign(name.Text, v) {
		return nil, &RuntimeError{Token: name, Err: ErrUndefinedVariable}
	}

	return v, nil
}

func (in *Interpreter) evalBlock(node *Node) (Value, error) {
	block, _ := AsBlock(node)

	in.push()
	defer in.pop()

	for _, stmt := range block.Statements() {
		if _, err := in.Evaluate(stmt); err != nil {
			return nil, err
		}
	}

	return Nil{}, nil
}

func (in *Interpreter) evalIf(node *Node) (Value, error) {
	stmt, _ := AsIf(node)

	cond, err := in.Evaluate(stmt.Condition())
	if err != nil {
		return nil, err
	}

	if isTrue(cond) {
		if _, err := in.Evaluate(stmt.Then()); err != nil {
			return nil, err
		}

		return Nil{}, nil
	}

	if otherwise, ok := stmt.Else(); ok {
		if _, err := in.Evaluate(otherwise); err != nil {
			return nil, err
		}
	}

	return Nil{}, nil
}

func (in *Interpreter) evalWhile(node *Node) (Value, error) {
	stmt, _ := AsWhile(node)

	for {
		cond, err := in.Evaluate(stmt.Condition())
		if err != nil {
			return nil, err
		}

		if !isTrue(cond) {
			return Nil{}, nil
		}

		if _, err := in.Evaluate(stmt.Body()); err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) push() {
	in.env = NewEnclosedEnvironment(in.env)
	in.logger.Debug("push stack frame",
		slog.Int("depth", in.env.Depth()))
}

func (in *Interpreter) pop() {
	in.env = in.env.Parent()
	in.logger.Debug("pop stack frame",
		slog.Int("depth", in.env.Depth()))
}
