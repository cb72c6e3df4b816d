// Arith CLI - runs bytecode programs on the arithmetic stack machine
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/kaskamal/arithmetic-machine/config"
	"github.com/kaskamal/arithmetic-machine/vm"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("arith")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	disasm := flag.Bool("d", false, "Disassemble programs instead of executing them")
	configDir := flag.String("c", "", "Directory containing arith.toml (default: walk up from cwd)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: arith [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Executes raw bytecode files on the arithmetic stack machine.\n")
		fmt.Fprintf(os.Stderr, "With no files, runs the built-in demo programs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  arith                  # Run the demo programs\n")
		fmt.Fprintf(os.Stderr, "  arith prog.bc          # Execute prog.bc\n")
		fmt.Fprintf(os.Stderr, "  arith -d prog.bc       # Show a disassembly listing\n")
		fmt.Fprintf(os.Stderr, "  arith -c ./conf -v ... # Load ./conf/arith.toml, be verbose\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	cfg, err := loadConfig(*configDir)
	if err != nil {
		log.Errorf("configuration: %s", err.Error())
		os.Exit(1)
	}
	if *verbose {
		log.Infof("stack capacity %d", cfg.Machine.StackSize)
	}

	programs, err := gatherPrograms(flag.Args())
	if err != nil {
		log.Errorf("%s", err.Error())
		os.Exit(1)
	}

	for _, p := range programs {
		if *disasm {
			fmt.Printf("; %s\n%s\n", p.name, vm.Disassemble(p.code))
			continue
		}
		if err := runProgram(p, cfg, *verbose); err != nil {
			os.Exit(1)
		}
	}
}

func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.FindAndLoad(cwd)
}

// program is one named byte sequence to execute.
type program struct {
	name string
	code []byte
}

func gatherPrograms(paths []string) ([]program, error) {
	if len(paths) == 0 {
		return demoPrograms(), nil
	}
	programs := make([]program, 0, len(paths))
	for _, path := range paths {
		// The file is the raw byte sequence; there is no framing.
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		programs = append(programs, program{name: path, code: code})
	}
	return programs, nil
}

func runProgram(p program, cfg *config.Config, verbose bool) error {
	if cfg.Output.Listing {
		fmt.Printf("; %s\n%s\n", p.name, vm.Disassemble(p.code))
	}

	m := vm.NewMachineSize(p.code, cfg.Machine.StackSize)
	if cfg.Output.Trace {
		m.SetTrace(os.Stderr)
	}

	if err := m.Run(); err != nil {
		log.Errorf("%s: %s", p.name, err.Error())
		return err
	}

	if verbose {
		r1, r2 := m.Registers()
		log.Infof("%s: halted, stack depth %d, r1=%s r2=%s",
			p.name, m.StackDepth(), vm.FormatValue(r1), vm.FormatValue(r2))
	}
	return nil
}
