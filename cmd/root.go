package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"update-appcast/internal/appcast"
	"update-appcast/internal/logger"
)

// Exit codes returned by Run.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks failures of the argument layer (bad or missing flags),
// which are reported together with the usage text.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// newRootCmd builds the `update-appcast` command with a fresh set of options,
// so every invocation (and every test) starts from defaults.
func newRootCmd() *cobra.Command {
	opts := &insertOptions{}

	rootCmd := &cobra.Command{
		Use:   "update-appcast",
		Short: "Insert a Sparkle <item> into appcast.xml",
		Long: "update-appcast adds one release record to a Sparkle appcast feed.\n" +
			"The new <item> is placed before the first existing <item> of the channel\n" +
			"(or appended when there is none) and the file is rewritten in place.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,

		// PersistentPreRun is a hook that runs before the command.
		// Here, we initialize the logger based on the debug flag.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(cmd, opts)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	opts.bindFlags(rootCmd)

	return rootCmd
}

// Run executes the command line args and returns the process exit code.
// Diagnostics go to stderr; --dry-run output goes to stdout.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	logger.SetOutput(stdout, stderr)

	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	var uerr *usageError
	var perr *appcast.ParseError
	switch {
	case errors.As(err, &uerr):
		logger.Error("[ERROR] %v\n", err)
		fmt.Fprintln(stderr, rootCmd.UsageString())
		return exitUsage
	case errors.As(err, &perr):
		logger.Error("[ERROR] Failed to parse appcast: %v\n", perr.Err)
	default:
		// Includes appcast.ErrMissingChannel, which carries its own message.
		logger.Error("[ERROR] %v\n", err)
	}
	return exitError
}

// Execute is the entry point used by main. It exits the process with the
// code computed by Run.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
