// ceec is a compiler for the Cee language, a minimal C-like imperative
// language. It emits LLVM IR assembly for consumption by an external
// backend.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mewspring/cee/lower"
	"github.com/mewspring/cee/parser"
)

const version = "0.2.0"

func usage() {
	const use = `
Usage: ceec [OPTION]... FILE.cee
`
	fmt.Fprintln(os.Stderr, use[1:])
	flag.PrintDefaults()
}

func main() {
	var (
		// output path of the emitted module.
		output string
		// print the parsed syntax tree and exit.
		printAST bool
		// run backend optimization passes on the emitted module.
		optimize bool
		// interactive mode.
		interactive bool
		// print version and exit.
		showVersion bool
	)
	flag.StringVar(&output, "o", "", "output path (default: standard output)")
	flag.BoolVar(&printAST, "ast", false, "print the parsed syntax tree and exit")
	flag.BoolVar(&optimize, "O", false, "run backend optimization passes on the emitted module")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()
	if showVersion {
		fmt.Println("ceec", version)
		return
	}
	if interactive {
		if err := repl(); err != nil {
			fmt.Fprintln(os.Stderr, "ceec:", err)
			os.Exit(1)
		}
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := compileFile(flag.Arg(0), output, printAST, optimize); err != nil {
		fmt.Fprintln(os.Stderr, "ceec:", err)
		os.Exit(1)
	}
}

// compileFile compiles the Cee source file at path and writes the
// emitted module to the output path, or to standard output if the
// output path is empty. No artifact is written when any phase fails.
func compileFile(path, output string, printAST, optimize bool) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	prog, err := parser.Parse(string(buf))
	if err != nil {
		return err
	}
	if printAST {
		fmt.Print(prog)
		return nil
	}
	// Error handler to track errors during lowering.
	var errs []error
	eh := func(err error) {
		errs = append(errs, err)
	}
	gen := lower.NewGenerator(eh, prog)
	m := gen.Lower()
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "ceec:", err)
		}
		return fmt.Errorf("%d error(s) lowering %s", len(errs), path)
	}
	out := m.String()
	if optimize {
		out, err = backendOptimize(out)
		if err != nil {
			return err
		}
	}
	if output == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(output, []byte(out), 0o644)
}
