package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/errors"
	"github.com/bloch-lang/bloch/internal/interp"
	"github.com/bloch-lang/bloch/internal/loader"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/bloch-lang/bloch/internal/simulator"
	"github.com/spf13/cobra"
)

var (
	emitQASM  bool
	shotsFlag int
	echoMode  string
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Run a Bloch source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerRunFlags(runCmd)
}

// registerRunFlags wires --emit-qasm/--shots/--echo onto cmd, so both the
// root command (bare "bloch <path>") and the explicit "bloch run" verb
// accept the same option set (spec.md §6).
func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&emitQASM, "emit-qasm", false, "duplicate the QASM log to standard output")
	cmd.Flags().IntVar(&shotsFlag, "shots", 0, "shot count when the program has no @shots annotation (deprecated)")
	cmd.Flags().StringVar(&echoMode, "echo", "", "echo behaviour: auto|all|none (default auto, or $BLOCH_ECHO)")
}

func runScript(_ *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load bloch.yaml: %w", err)
	}

	searchPaths := append([]string{}, blochPathDirs()...)
	searchPaths = append(searchPaths, cfg.ImportPaths...)
	if verbose && len(searchPaths) > 0 {
		fmt.Fprintf(os.Stderr, "import search path: %v\n", searchPaths)
	}

	ld := loader.New(searchPaths)
	prog, err := ld.Load(path)
	if err != nil {
		return reportAndFail(err)
	}

	reg, err := semantic.Analyze(prog)
	if err != nil {
		return reportAndFail(err)
	}

	echo := resolveEchoMode(cfg)
	annotatedShots, hasAnnotatedShots := mainShots(prog)
	shots := 1
	if hasAnnotatedShots {
		shots = annotatedShots
	} else if shotsFlag > 0 {
		fmt.Fprintln(os.Stderr, "warning: --shots is deprecated; prefer @shots(N) on main()")
		shots = shotsFlag
	}

	if shots <= 1 {
		sim := simulator.New(emitQASM, rand.New(rand.NewSource(time.Now().UnixNano())))
		it := interp.New(prog, reg, sim)
		if echo != "none" {
			it.Echo = func(line string) { fmt.Println(line) }
		}
		if err := it.Run(prog); err != nil {
			return reportAndFail(err)
		}
		if emitQASM {
			fmt.Print(sim.QASM())
		}
		return writeQASM(path, sim.QASM())
	}

	forceEcho := echo == "all"
	var echoFn func(string)
	if echo != "none" {
		echoFn = func(line string) { fmt.Println(line) }
	}
	result, err := interp.RunShots(prog, reg, shots, emitQASM, echoFn, forceEcho)
	if err != nil {
		return reportAndFail(err)
	}
	if emitQASM {
		fmt.Print(result.QASM)
	}
	if err := writeQASM(path, result.QASM); err != nil {
		return err
	}
	fmt.Print(interp.FormatAggregate(result))
	return nil
}

// mainShots returns the program's main()'s @shots(N) annotation, if any.
func mainShots(prog *ast.Program) (int, bool) {
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			return fn.Shots()
		}
	}
	return 0, false
}

// resolveEchoMode applies the precedence: --echo flag, then $BLOCH_ECHO
// (itself possibly set by .env via godotenv.Load in root.go's init),
// then bloch.yaml's defaultEcho, then "auto".
func resolveEchoMode(cfg *config.Config) string {
	if echoMode != "" {
		return echoMode
	}
	if v := os.Getenv("BLOCH_ECHO"); v != "" {
		return v
	}
	if cfg.DefaultEcho != "" {
		return cfg.DefaultEcho
	}
	return "auto"
}

// blochPathDirs splits $BLOCH_PATH on the OS path separator.
func blochPathDirs() []string {
	v := os.Getenv("BLOCH_PATH")
	if v == "" {
		return nil
	}
	return strings.Split(v, string(os.PathListSeparator))
}

func writeQASM(sourcePath, qasm string) error {
	stem := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	return os.WriteFile(stem+".qasm", []byte(qasm), 0o644)
}

// reportAndFail prints spec.md §6's exact two-line failure banner to
// stderr and returns a silent error so main's exit code is non-zero
// without cobra printing a second, differently-formatted message.
func reportAndFail(err error) error {
	if ce, ok := errors.As(err); ok {
		fmt.Fprintln(os.Stderr, ce.Banner())
	} else {
		fmt.Fprintln(os.Stderr, "[ERROR]: Stopping program execution...")
		fmt.Fprintln(os.Stderr, err.Error())
	}
	return errSilent
}

var errSilent = fmt.Errorf("")
