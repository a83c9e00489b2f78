package greenlox

import (
	"io"
	"os"

	"github.com/llir/llvm/ir"
)

// Compiler runs the front end and the IR backend over a whole source file.
type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

func (c *Compiler) Compile(filename string) (*ir.Module, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return c.CompileFromReader(f)
}

func (c *Compiler) CompileFromReader(reader io.Reader) (*ir.Module, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	return c.CompileSource(string(src))
}

func (c *Compiler) CompileSource(source string) (*ir.Module, error) {
	root, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	return NewLLVMGenerator(root).Generate()
}
