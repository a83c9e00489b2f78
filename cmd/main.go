package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.greenlox.dev/pkg"
)

func main() {
	scan := flag.Bool("s", false, "print the tokens and exit")
	parse := flag.Bool("p", false, "print the syntax tree and exit")
	check := flag.Bool("check", false, "report static diagnostics and exit")
	emitIR := flag.Bool("ir", false, "print LLVM IR and exit")
	evalStr := flag.String("e", "", "evaluate the given snippet and exit")
	configPath := flag.String("config", "", "configuration file (default $HOME/"+configFile+")")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var src string
	switch {
	case *evalStr != "":
		src = *evalStr
	case flag.NArg() > 0:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		src = string(data)
	default:
		os.Exit(runREPL(cfg, logger))
	}

	switch {
	case *scan:
		err = scanSource(os.Stdout, src)
	case *parse:
		err = parseSource(os.Stdout, src)
	case *check:
		err = checkSource(os.Stdout, src)
	case *emitIR:
		err = compileSource(os.Stdout, src)
	default:
		in := greenlox.NewInterpreter(greenlox.WithOutput(os.Stdout), greenlox.WithLogger(logger))
		_, err = in.Run(src)
	}

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func scanSource(w io.Writer, src string) error {
	tokens, err := greenlox.Scan(src)
	if err != nil {
		return err
	}

	for _, tok := range tokens {
		fmt.Fprintf(w, "%s\t%s\n", tok.Pos, tok)
	}

	return nil
}

func parseSource(w io.Writer, src string) error {
	root, err := greenlox.ParseSource(src)
	if err != nil {
		return err
	}

	return root.Dump(w)
}

var errDiagnostics = errors.New("static analysis failed")

func checkSource(w io.Writer, src string) error {
	root, err := greenlox.ParseSource(src)
	if err != nil {
		return err
	}

	analysis := greenlox.NewAnalyzer().Analyze(root)
	for _, diag := range analysis.Errors {
		fmt.Fprintln(w, diag)
	}

	if len(analysis.Errors) != 0 {
		return errDiagnostics
	}

	return nil
}

func compileSource(w io.Writer, src string) error {
	mod, err := greenlox.NewCompiler().CompileSource(src)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, mod)
	return err
}

func printError(w io.Writer, err error) {
	var (
		lexErr         *greenlox.LexError
		parseErr       *greenlox.ParseError
		runtimeErr     *greenlox.RuntimeError
		analysisErr    *greenlox.AnalysisError
		unsupportedErr *greenlox.UnsupportedError
	)

	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintln(w, "Lex error:", lexErr)
	case errors.As(err, &parseErr):
		fmt.Fprintln(w, "Parse error:", parseErr)
	case errors.As(err, &runtimeErr):
		fmt.Fprintln(w, "Runtime error:", runtimeErr)
	case errors.As(err, &analysisErr):
		for _, diag := range analysisErr.Errors {
			fmt.Fprintln(w, "Check error:", diag)
		}
	case errors.As(err, &unsupportedErr):
		fmt.Fprintln(w, "Compile error:", unsupportedErr)
	default:
		fmt.Fprintln(w, err)
	}
}
