package cli

import (
	"context"
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"github.com/majorcontext/offcpu/internal/id"
	"github.com/majorcontext/offcpu/internal/log"
	"github.com/majorcontext/offcpu/internal/probe"
	"github.com/majorcontext/offcpu/internal/stap"
	"github.com/majorcontext/offcpu/internal/stapargs"
	"github.com/majorcontext/offcpu/internal/target"
	"github.com/spf13/cobra"
)

// traceOptions holds the root command's flags.
type traceOptions struct {
	pid        int
	seconds    int
	minElapsed int
	limit      int
	extraArgs  string
	dump       bool
	distr      bool
}

// system is the environment the trace command runs against.
type system struct {
	supported    func() error
	resolveExe   func(pid int) (string, error)
	locate       func(bin string) (string, error)
	checkVersion func(ctx context.Context, bin string) (*goversion.Version, error)
	runner       stap.Runner
}

var hostSystem = system{
	supported:    target.Supported,
	resolveExe:   target.ResolveExe,
	locate:       stap.Locate,
	checkVersion: stap.CheckVersion,
	runner:       stap.ExecRunner{},
}

func newRootCmd() *cobra.Command {
	return newTraceCmd(hostSystem)
}

func newTraceCmd(sys system) *cobra.Command {
	var opts traceOptions

	cmd := &cobra.Command{
		Use:   "offcpu -p <pid> -t <seconds> [flags]",
		Short: "Sample off-CPU time of a process with SystemTap",
		Long: `offcpu measures how long the threads of a running process spend off the CPU
(blocked on I/O, locks, sleeps) and where in the code they were when it happened.

It generates a SystemTap script and feeds it to stap attached to the target
process. By default the script reports the user-space backtraces with the most
accumulated off-CPU time. With --distr it reports a histogram of off-CPU
interval lengths instead.`,
		Example: `  offcpu -p 12345 -t 10                 # top off-CPU backtraces over 10 seconds
  offcpu -p 12345 -t 10 --distr --min=1 # histogram of intervals of at least 1us
  offcpu -p 12345 -t 5 -d               # print the generated script only
  offcpu -p 12345 -t 5 -a '-DMAXACTION=200000'`,
		Args:              noPositionalArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: persistentPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, sys, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.IntVarP(&opts.pid, "pid", "p", 0, "target process id (required)")
	f.IntVarP(&opts.seconds, "time", "t", 0, "sampling window in seconds (required)")
	f.StringVarP(&opts.extraArgs, "args", "a", "", "extra arguments passed to stap")
	f.BoolVarP(&opts.dump, "dump", "d", false, "print the generated script instead of running it")
	f.BoolVar(&opts.distr, "distr", false, "report a distribution of off-CPU times instead of backtraces")
	f.IntVarP(&opts.limit, "limit", "l", probe.DefaultLimit, "maximum number of backtraces reported")
	f.IntVar(&opts.minElapsed, "min", probe.DefaultMinElapsedUS, "minimum off-CPU time in microseconds to record")
	addGlobalFlags(cmd)

	return cmd
}

// noPositionalArgs rejects stray arguments, which are usually a subcommand
// typo or a value missing its flag.
func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

// resolveOptions fills unset flags from the global config and validates
// the result. Only usage errors are returned.
func resolveOptions(cmd *cobra.Command, opts traceOptions) (traceOptions, error) {
	f := cmd.Flags()
	if !f.Changed("pid") {
		return opts, usageErrorf("no process pid specified by the -p option")
	}
	if !f.Changed("time") {
		return opts, usageErrorf("no -t <seconds> option specified")
	}
	if !f.Changed("min") {
		opts.minElapsed = globalCfg.Sampling.MinElapsedUS
	}
	if !f.Changed("limit") {
		opts.limit = globalCfg.Sampling.Limit
	}
	if !f.Changed("args") {
		opts.extraArgs = globalCfg.Tracer.Args
	}

	switch {
	case opts.pid <= 0:
		return opts, usageErrorf("invalid pid %d: must be a positive integer", opts.pid)
	case opts.seconds <= 0:
		return opts, usageErrorf("invalid -t %d: must be a positive number of seconds", opts.seconds)
	case opts.limit <= 0:
		return opts, usageErrorf("invalid -l %d: must be a positive integer", opts.limit)
	case opts.minElapsed < 0:
		return opts, usageErrorf("invalid --min %d: must not be negative", opts.minElapsed)
	}
	return opts, nil
}

func runTrace(cmd *cobra.Command, sys system, opts traceOptions) error {
	opts, err := resolveOptions(cmd, opts)
	if err != nil {
		return err
	}

	if err := sys.supported(); err != nil {
		return err
	}

	exePath, err := sys.resolveExe(opts.pid)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	bin, err := sys.locate(globalCfg.Tracer.Path)
	if err != nil {
		return err
	}
	v, err := sys.checkVersion(ctx, bin)
	if err != nil {
		return err
	}

	args, err := stapargs.WithDefaults(opts.extraArgs)
	if err != nil {
		return &usageError{err: err}
	}

	mode := probe.ModeSampling
	if opts.distr {
		mode = probe.ModeDistribution
	}
	script, err := probe.Render(mode, probe.Params{
		PID:          opts.pid,
		Seconds:      opts.seconds,
		MinElapsedUS: opts.minElapsed,
		Limit:        opts.limit,
		ExePath:      exePath,
	})
	if err != nil {
		return err
	}

	stapCmd := stap.Command{
		Bin:     bin,
		PID:     opts.pid,
		ExePath: exePath,
		Args:    args,
	}

	log.Debug("trace configured",
		"pid", opts.pid,
		"exe", exePath,
		"mode", mode.String(),
		"seconds", opts.seconds,
		"min_elapsed_us", opts.minElapsed,
		"limit", opts.limit,
		"stap", bin,
		"stap_version", v.Original(),
		"stap_args", stapargs.Join(args))

	if opts.dump {
		_, err := fmt.Fprint(cmd.OutOrStdout(), script)
		return err
	}

	session := id.Session()
	log.SetSessionID(session)
	defer log.ClearSessionID()

	log.Info("starting trace", "cmd", stapCmd.String())
	err = sys.runner.Run(ctx, stapCmd, script, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log.Info("trace finished")
	return nil
}
