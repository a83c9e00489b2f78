package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"go.greenlox.dev/pkg"
)

const banner = "greenlox REPL. Ctrl+C cancels input, Ctrl+D exits."

func runREPL(cfg Config, logger *slog.Logger) int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	in := greenlox.NewInterpreter(greenlox.WithLogger(logger))

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Println()
			break
		}

		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, show, err := evalInteractive(in, code)
		if err != nil {
			printError(os.Stderr, err)
			continue
		}

		if show {
			fmt.Println(v)
		}
	}

	return 0
}

// readByParseProbe keeps prompting until the accumulated input is no longer
// cut short by the end of the line.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}

		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}

		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); !incomplete(src) {
			return src, true
		}
	}
}

func incomplete(src string) bool {
	tokens, err := greenlox.Scan(src)
	if err != nil {
		return errors.Is(err, greenlox.ErrUnterminatedString)
	}

	if _, err := greenlox.ParseExpression(tokens); err == nil {
		return false
	}

	_, err = greenlox.Parse(tokens)
	return errors.Is(err, greenlox.ErrUnexpectedEOF)
}

// evalInteractive runs src as a program, or as a bare expression when it is
// one. show tells whether the result is worth echoing: it is for expressions
// and expression statements, not for declarations or prints.
func evalInteractive(in *greenlox.Interpreter, src string) (v greenlox.Value, show bool, err error) {
	tokens, err := greenlox.Scan(src)
	if err != nil {
		return nil, false, err
	}

	if expr, perr := greenlox.ParseExpression(tokens); perr == nil {
		v, err := in.Evaluate(expr)
		return v, err == nil, err
	}

	root, err := greenlox.Parse(tokens)
	if err != nil {
		return nil, false, err
	}

	v, err = in.Evaluate(root)
	if err != nil {
		return nil, false, err
	}

	stmts := root.Nodes()
	show = len(stmts) != 0 && stmts[len(stmts)-1].Kind() == greenlox.NodeExprStmt

	return v, show, nil
}
