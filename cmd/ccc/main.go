package main

import (
	"flag"
	"fmt"
	"os"

	cc11 "github.com/relang/cc11"
)

// repeatedFlag collects every occurrence of a repeatable flag (-I, -D,
// -U) in the order given, the way flag.Value is meant to be used for
// "can appear more than once" options the standard flag package has no
// builtin slice type for.
type repeatedFlag []string

func (r *repeatedFlag) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprint([]string(*r))
}

func (r *repeatedFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func main() {
	var (
		includeDirs repeatedFlag
		defines     repeatedFlag
		undefines   repeatedFlag
		output      = flag.String("o", "", "output path for the emitted IR")
		projectPath = flag.String("project", "", "path to a YAML batch-compile project file")
	)
	flag.Var(&includeDirs, "I", "prepend an include search path (repeatable)")
	flag.Var(&defines, "D", "predefine a macro, name or name=value (repeatable)")
	flag.Var(&undefines, "U", "undefine a predefined macro (repeatable)")
	flag.Parse()

	diags := cc11.NewDefaultDiagLogger()
	mgr := cc11.NewManager(diags)

	if *projectPath != "" {
		pf, err := cc11.LoadProjectFile(*projectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ccc: %v\n", err)
			os.Exit(1)
		}
		if _, err := pf.CompileAll(mgr); err != nil {
			fmt.Fprintf(os.Stderr, "ccc: %v\n", err)
			os.Exit(diags.ExitCode())
		}
		os.Exit(diags.ExitCode())
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ccc [-I dir]... [-D name[=value]]... [-U name]... [-o out] source.c")
		os.Exit(1)
	}

	opts := cc11.CompileOptions{
		IncludeDirs: includeDirs,
		Defines:     defines,
		Undefines:   undefines,
		Output:      *output,
		Source:      flag.Arg(0),
	}
	res := mgr.CompileFile(opts)
	if res.OK && opts.Output == "" {
		fmt.Println(res.IR)
	}
	os.Exit(diags.ExitCode())
}
