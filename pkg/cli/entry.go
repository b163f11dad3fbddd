// Package cli implements the stackvm command-line toolchain: assembling
// source to bytecode, executing bytecode, disassembly, and the program
// registry.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/stackvm/internal/asm"
	"github.com/funvibe/stackvm/internal/bytecode"
	"github.com/funvibe/stackvm/internal/config"
	"github.com/funvibe/stackvm/internal/registry"
	"github.com/funvibe/stackvm/internal/vm"
)

const usage = `usage: stackvm [-config file] [-trace] <command> [arguments]

commands:
  build [-o file] <src>   assemble source and emit bytecode
  run <file>              execute a bytecode file and print the result
  exec <src>              assemble and execute in one step
  disasm <file>           print a bytecode listing
  save -name <n> <src>    assemble and store in the program registry
  list                    list stored programs
  launch <name>           execute a stored program
  rm <name>               remove a stored program
`

// App holds the toolchain's output streams so tests can capture them.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	cfg   *config.Config
	trace bool
}

// NewApp creates an App writing to the process streams.
func NewApp() *App {
	return &App{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes one toolchain command and returns the process exit code.
func (a *App) Run(args []string) int {
	global := flag.NewFlagSet("stackvm", flag.ContinueOnError)
	global.SetOutput(a.Stderr)
	configPath := global.String("config", config.ConfigFileName, "project configuration file")
	trace := global.Bool("trace", false, "trace each instruction during execution")
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(a.Stderr, usage)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return a.fail(err)
	}
	a.cfg = cfg
	a.trace = *trace || cfg.Trace

	command, rest := rest[0], rest[1:]
	switch command {
	case "build":
		err = a.build(rest)
	case "run":
		err = a.runBytecode(rest)
	case "exec":
		err = a.execSource(rest)
	case "disasm":
		err = a.disasm(rest)
	case "save":
		err = a.save(rest)
	case "list":
		err = a.list(rest)
	case "launch":
		err = a.launch(rest)
	case "rm":
		err = a.remove(rest)
	default:
		fmt.Fprintf(a.Stderr, "unknown command %q\n\n%s", command, usage)
		return 2
	}

	if err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *App) build(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	output := fs.String("o", "", "bytecode output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("build: expected one source file")
	}
	src := fs.Arg(0)

	words, err := a.assembleFile(src)
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = a.cfg.Output
	}
	if path == "" {
		path = config.TrimSourceExt(src) + config.BytecodeFileExt
	}
	if err := bytecode.WriteFile(path, words); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "wrote %s (%d words)\n", path, len(words))
	return nil
}

func (a *App) runBytecode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("run: expected one bytecode file")
	}
	words, err := bytecode.ReadFile(args[0])
	if err != nil {
		return err
	}
	return a.execute(words)
}

func (a *App) execSource(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exec: expected one source file")
	}
	words, err := a.assembleFile(args[0])
	if err != nil {
		return err
	}

	// Round-trip through the codec so exec exercises exactly what build
	// followed by run would execute.
	words, err = bytecode.Decode(bytecode.Encode(words))
	if err != nil {
		return err
	}
	return a.execute(words)
}

func (a *App) disasm(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("disasm: expected one bytecode file")
	}
	words, err := bytecode.ReadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(a.Stdout, vm.Disassemble(words, args[0]))
	return nil
}

func (a *App) save(args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	name := fs.String("name", "", "registry name for the program")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *name == "" {
		return fmt.Errorf("save: expected a source file and -name")
	}
	src := fs.Arg(0)

	source, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	words, err := asm.AssembleFile(src, string(source))
	if err != nil {
		return err
	}

	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	prog, err := reg.Save(context.Background(), *name, string(source), words)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "saved %s (%s)\n", prog.Name, prog.ID)
	return nil
}

func (a *App) list(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("list: unexpected arguments")
	}
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	progs, err := reg.List(context.Background())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWORDS\tCREATED\tID")
	for _, prog := range progs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			prog.Name, len(prog.Words), prog.CreatedAt.Format("2006-01-02 15:04:05"), prog.ID)
	}
	return tw.Flush()
}

func (a *App) launch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("launch: expected a program name")
	}
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	prog, err := reg.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	return a.execute(prog.Words)
}

func (a *App) remove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("rm: expected a program name")
	}
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	if err := reg.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "removed %s\n", args[0])
	return nil
}

func (a *App) assembleFile(path string) ([]int64, error) {
	if !config.IsSourceFile(path) {
		fmt.Fprintf(a.Stderr, "warning: %s has no recognized source extension\n", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return asm.AssembleFile(path, string(source))
}

// execute runs a word stream and prints the value left on top of the stack,
// when there is one.
func (a *App) execute(words []int64) error {
	m := vm.New()
	m.SetOutput(a.Stdout)
	m.SetTrace(a.trace)
	m.Load(words)

	if err := m.Run(); err != nil {
		return err
	}
	result, err := m.PopResult()
	if err != nil {
		// A program that leaves nothing on the stack is not a failure.
		fmt.Fprintln(a.Stdout, "halted with empty stack")
		return nil
	}
	fmt.Fprintf(a.Stdout, "result: %d\n", result)
	return nil
}

func (a *App) openRegistry() (*registry.Registry, error) {
	return registry.Open(context.Background(), a.cfg.Registry)
}

// fail prints err to stderr, in red when stderr is a terminal.
func (a *App) fail(err error) int {
	msg := err.Error()
	if a.Stderr == os.Stderr && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintf(a.Stderr, "stackvm: %s\n", msg)
	return 1
}
