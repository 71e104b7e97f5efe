package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "bloch [path]",
	Short: "Bloch language interpreter",
	Long: `bloch is the reference implementation of the Bloch language: a small
classical/quantum hybrid scripting language with reference-counted objects,
virtual dispatch, and a built-in ideal quantum simulator.

Running bloch with a bare source path behaves like "bloch run <path>".`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return c.Help()
		}
		return runScript(c, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A missing .env is not an error (SPEC_FULL.md §2.1); it only ever
	// supplies defaults, never overrides an already-set variable.
	_ = godotenv.Load()

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	registerRunFlags(rootCmd)
}
