// Command barriergen generates the typed barrier entry points of package
// itm.
//
// Usage (from the itm directory, via go generate):
//
//	go run ../tools/barriergen -o barriers_gen.go
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kolkov/stminst/internal/log"
)

func main() {
	fs := pflag.NewFlagSet("barriergen", pflag.ExitOnError)
	out := fs.StringP("output", "o", "barriers_gen.go", "output file")
	pkg := fs.String("package", "itm", "package name of the generated file")
	verify := fs.Bool("verify", false, "check the output file is up to date instead of writing it")
	log.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if err := log.Init(fs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(*out, *pkg, *verify); err != nil {
		log.ErrorS("barriergen failed", "err", err)
		log.Flush()
		os.Exit(1)
	}
	log.Flush()
}

func run(out, pkg string, verify bool) error {
	f := Generate(pkg)

	if !verify {
		if err := f.Save(out); err != nil {
			return fmt.Errorf("saving %s: %w", out, err)
		}
		log.InfoS("generated barriers", "file", out, "families", len(families))
		return nil
	}

	var want bytes.Buffer
	if err := f.Render(&want); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		return fmt.Errorf("reading %s: %w", out, err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		return fmt.Errorf("%s is out of date; run go generate", out)
	}
	log.InfoS("barriers up to date", "file", out)
	return nil
}
