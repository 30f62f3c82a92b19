// Command eightebed compiles an Eightebed source program to C,
// optionally driving a host C compiler to build and run it. Flag
// layout follows the teacher's cmd/langlang/main.go: a struct of
// flag.* pointers filled by a single readArgs, then a linear main
// that bails out via log.Fatal on setup trouble and os.Exit with the
// spec-mandated exit codes on pipeline failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/catseye/eightebed"
	"github.com/catseye/eightebed/internal/toolchain"
)

type args struct {
	run         *bool
	compileOnly *bool
	output      *string
	cc          *string
	test        *bool

	inputPath *string
}

func readArgs() *args {
	a := &args{
		run:         flag.Bool("run", false, "Build and run the compiled program"),
		compileOnly: flag.Bool("compile-only", false, "Build the host binary but do not run it"),
		output:      flag.String("output", "", "Path to write generated C (default: stdout)"),
		cc:          flag.String("cc", "cc", "Host C compiler command"),
		test:        flag.Bool("test", false, "Run the built-in scenario suite and exit"),
	}
	flag.Parse()
	a.inputPath = new(string)
	if flag.NArg() > 0 {
		*a.inputPath = flag.Arg(0)
	}
	return a
}

func main() {
	a := readArgs()

	cfg := eightebed.DefaultConfig()
	cfg.Output = *a.output
	cfg.CC = *a.cc
	cfg.Run = *a.run
	cfg.CompileOnly = *a.compileOnly
	cfg.Test = *a.test

	if cfg.Test {
		failed := false
		err := eightebed.RunSelfTest(cfg, func(line string) {
			fmt.Println(line)
			if len(line) >= 4 && line[:4] == "FAIL" {
				failed = true
			}
		})
		if err != nil || failed {
			os.Exit(1)
		}
		return
	}

	if *a.inputPath == "" {
		log.Fatal("no input file given (and --test was not requested)")
	}

	src, err := readSource(*a.inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, eightebed.NewIOError("reading %s: %v", *a.inputPath, err))
		os.Exit(2)
	}

	// Exit code 1: the input itself is rejected by the compiler (parse,
	// type, or safety error) per spec section 6's exit code table.
	cSource, err := eightebed.Compile(*a.inputPath, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeOutput(cfg.Output, cSource); err != nil {
		fmt.Fprintln(os.Stderr, eightebed.NewIOError("writing output: %v", err))
		os.Exit(2)
	}

	if !cfg.Run && !cfg.CompileOnly {
		os.Exit(0)
	}

	// Exit code 2 from here down: the input compiled fine, so any
	// further failure is in the host toolchain or subprocess, not in
	// the Eightebed program itself.
	binPath := *a.inputPath + ".out"
	ctx := context.Background()
	if err := toolchain.Build(ctx, cfg.CC, cSource, binPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Run {
		code, err := toolchain.Run(ctx, binPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		os.Exit(code)
	}
}

// readSource reads the named file, or stdin when path is "-", per
// spec section 6's external interface description.
func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, cSource string) error {
	if path == "" {
		_, err := fmt.Print(cSource)
		return err
	}
	return os.WriteFile(path, []byte(cSource), 0644)
}
