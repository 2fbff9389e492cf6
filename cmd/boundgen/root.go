package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// newRootCmd builds the command tree. Output goes to out, logs and errors
// to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "boundgen",
		Short: "Infer trait bounds of generic implementations",
		Long: `boundgen infers the where clause a generic implementation must declare,
from how the implementation's own type parameters flow into the parameters
of the functions it calls.

Implementations, callee signatures and call sites are read from YAML
fixtures. Settings can also come from a config file (--config) or from
BOUNDGEN_* environment variables.

Examples:
  boundgen infer impls.yaml           Print the where clause of each impl
  boundgen infer --dump impls.yaml    Also print the equality sets
  boundgen check impls.yaml           Validate fixtures without inferring`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("strict", false, "exit non-zero when any error is reported")

	rootCmd.AddCommand(newInferCmd(&cfgFile))
	rootCmd.AddCommand(newCheckCmd(&cfgFile))

	return rootCmd
}

// newLogger creates the CLI logger.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "boundgen"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

// Execute runs the root command and exits on failure.
func Execute() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		os.Exit(1)
	}
}
