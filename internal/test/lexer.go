package test

import (
	"math/rand"
	"strings"
)

const validTokens = "print;var;while;if;else;and;or;nil;true;false;x;counter;(;);{;};,;.;-;+;*;/;!;!=;=;==;<;<=;>;>=;\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";\"\";123;3.25;//comment\n;\n"

const validStatements = "var x = 1 + 2 * 3|print x|x = x - 1|{ var y = x; print y / 2; }|if (x > 2) print x; else print -x|while (x < 0) x = x + 1|print \"a\" + \"b\"|print !nil == true|print (1 + 2) * 3 >= 4 and x != 0"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomProgram returns size statements that scan, parse and run. The
// first statement declares x so every later one can use it.
func GetRandomProgram(size int) string {
	valid := strings.Split(validStatements, "|")

	stmts := []string{valid[0]}
	for len(stmts) < size {
		stmts = append(stmts, valid[rand.Intn(len(valid))])
	}

	for i, stmt := range stmts {
		if !strings.HasSuffix(stmt, "}") {
			stmts[i] = stmt + ";"
		}
	}

	return strings.Join(stmts, "\n")
}
