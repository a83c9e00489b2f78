package greenlox

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

const (
	builtinPrintNumber = "print_number"
	builtinPrintBool   = "print_bool"
)

func defineBuiltins(b *LLVMIRBuilder) {
	printf := b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	defineBuiltinFunc(b, builtinPrintNumber, builtinPrintNumberFunc(printf))
	defineBuiltinFunc(b, builtinPrintBool, builtinPrintBoolFunc(printf))
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.builtins[name] = f
}

// cString defines a NUL terminated global and returns an i8* to its first
// byte.
func cString(mod *ir.Module, name, s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")
	glob := mod.NewGlobalDef(name, data)
	glob.Immutable = true

	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(data.Typ, glob, zero, zero)
}

func builtinPrintNumberFunc(printf *ir.Func) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		f := mod.NewFunc("", types.Void, ir.NewParam("v", types.Double))
		b := f.NewBlock("")

		format := cString(mod, ".fmt.number", "%g\n")
		b.NewCall(printf, format, f.Params[0])

		b.NewRet(nil)
		return f
	}
}

func builtinPrintBoolFunc(printf *ir.Func) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		f := mod.NewFunc("", types.Void, ir.NewParam("v", types.I1))
		b := f.NewBlock("")

		format := cString(mod, ".fmt.bool", "%s\n")
		text := b.NewSelect(f.Params[0], cString(mod, ".str.true", "true"), cString(mod, ".str.false", "false"))
		b.NewCall(printf, format, text)

		b.NewRet(nil)
		return f
	}
}
