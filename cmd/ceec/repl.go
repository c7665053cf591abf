package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"

	"github.com/mewspring/cee/ast"
	"github.com/mewspring/cee/lower"
	"github.com/mewspring/cee/parser"
)

var history = filepath.Join(xdg.DataHome, "ceec", "history")

// repl reads declarations a line at a time, lowers the accumulated
// program and prints the IR of each accepted definition. The full
// module is printed on exit.
func repl() error {
	line := liner.NewLiner()
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fmt.Println("ceec", version, "- interactive mode")
	fmt.Println("Enter function or extern declarations; type exit to quit.")

	// Declarations accepted so far. Each input line extends the program
	// and the whole program is lowered afresh, so a rejected line never
	// leaves partial state behind.
	prog := &ast.Program{}
	for {
		input, err := line.Prompt(">> ")
		if err != nil {
			break // EOF
		}
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		line.AppendHistory(input)
		next, err := parser.Parse(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		candidate := &ast.Program{
			Externs: append(append([]*ast.ExternDecl{}, prog.Externs...), next.Externs...),
			Funcs:   append(append([]*ast.FuncDecl{}, prog.Funcs...), next.Funcs...),
		}
		var errs []error
		eh := func(err error) {
			errs = append(errs, err)
		}
		gen := lower.NewGenerator(eh, candidate)
		m := gen.Lower()
		if len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			continue
		}
		prog = candidate
		for _, f := range m.Funcs {
			for _, decl := range next.Funcs {
				if f.Name() == decl.Name {
					fmt.Println(f.LLString())
				}
			}
		}
	}

	if len(prog.Externs) > 0 || len(prog.Funcs) > 0 {
		var errs []error
		eh := func(err error) {
			errs = append(errs, err)
		}
		m := lower.NewGenerator(eh, prog).Lower()
		if len(errs) == 0 {
			fmt.Println("\nFull module:")
			fmt.Print(m.String())
		}
	}
	return nil
}
