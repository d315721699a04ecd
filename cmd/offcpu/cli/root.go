// Package cli implements the offcpu command-line interface using Cobra.
// The root command renders an off-CPU sampling script for SystemTap and
// runs it against a live process; doctor and version are helpers.
package cli

import (
	"errors"
	"fmt"

	"github.com/majorcontext/offcpu/internal/config"
	"github.com/majorcontext/offcpu/internal/log"
	"github.com/majorcontext/offcpu/internal/stap"
	"github.com/majorcontext/offcpu/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool

	// globalCfg is loaded before any command runs.
	globalCfg = config.DefaultGlobalConfig()
)

var rootCmd = newRootCmd()

// Execute runs the root command and reports any error to stderr.
func Execute() error {
	defer log.Close()

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		report(cmd, err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit status.
// A tracer that exited non-zero passes its own status through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *stap.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

// usageError marks errors that should be followed by the usage text.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func report(cmd *cobra.Command, err error) {
	log.Error("command failed", "error", err)
	ui.Error(err.Error())

	var ue *usageError
	if errors.As(err, &ue) && cmd != nil {
		fmt.Fprint(cmd.ErrOrStderr(), "\n"+cmd.UsageString())
	}
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := config.LoadGlobal()
	globalCfg = cfg

	if err := log.Init(log.Options{
		Verbose:       verbose,
		JSONFormat:    jsonOut,
		DebugDir:      config.DebugDir(),
		RetentionDays: cfg.Debug.RetentionDays,
		Stderr:        cmd.ErrOrStderr(),
	}); err != nil {
		// Logging still reaches stderr; only the debug file is missing.
		ui.Warnf("failed to initialize debug logging: %v", err)
	}
	if cfgErr != nil {
		log.Warn("ignoring invalid configuration", "error", cfgErr)
	}
	return nil
}

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "log in JSON format")
}
