package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/majorcontext/offcpu/internal/config"
	"github.com/majorcontext/offcpu/internal/doctor"
	"github.com/majorcontext/offcpu/internal/log"
	"github.com/majorcontext/offcpu/internal/stap"
	"github.com/majorcontext/offcpu/internal/stapargs"
	"github.com/majorcontext/offcpu/internal/target"
	"github.com/majorcontext/offcpu/internal/ui"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this host can run off-CPU traces",
	Long: `Checks the pieces offcpu depends on and prints what it finds:

- operating system, kernel release and privileges
- the stap driver and its version
- kernel debug info needed by the scheduler probes
- effective configuration

A failed check is reported but does not make the command fail.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, ui.Bold("offcpu doctor"))
	fmt.Fprintln(w)

	reg := doctor.NewRegistry()
	reg.Register(&platformSection{})
	reg.Register(&stapSection{bin: globalCfg.Tracer.Path})
	reg.Register(&debugInfoSection{})
	reg.Register(&configSection{cfg: globalCfg})
	reg.Print(w)
	return nil
}

// platformSection shows OS, kernel and privilege information.
type platformSection struct{}

func (s *platformSection) Name() string { return "Platform" }

func (s *platformSection) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Platform:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(tw, "Kernel:\t%s\n", kernelRelease())
	fmt.Fprintf(tw, "offcpu:\t%s\n", Version())
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := target.Supported(); err != nil {
		doctor.Check(w, false, "Supported", err.Error())
	} else {
		doctor.Check(w, true, "Supported", runtime.GOOS)
	}

	if uid := os.Geteuid(); uid == 0 {
		doctor.Check(w, true, "Privileges", "running as root")
	} else {
		fmt.Fprintf(w, "%s Privileges: uid %d; stap usually needs root or the stapdev group\n", ui.WarnTag(), uid)
	}
	return nil
}

// stapSection locates stap and checks its version.
type stapSection struct {
	bin string
}

func (s *stapSection) Name() string { return "SystemTap" }

func (s *stapSection) Print(w io.Writer) error {
	path, err := stap.Locate(s.bin)
	if err != nil {
		doctor.Check(w, false, "Driver", err.Error())
		return nil
	}
	doctor.Check(w, true, "Driver", path)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	v, err := stap.CheckVersion(ctx, path)
	if err != nil {
		doctor.Check(w, false, "Version", err.Error())
		return nil
	}
	doctor.Check(w, true, "Version", fmt.Sprintf("%s (minimum %s)", v.Original(), stap.MinVersion))
	return nil
}

// debugInfoSection looks for kernel debug info used by scheduler.* probes.
type debugInfoSection struct{}

func (s *debugInfoSection) Name() string { return "Kernel Debug Info" }

func (s *debugInfoSection) Print(w io.Writer) error {
	release := kernelRelease()
	candidates := []string{
		filepath.Join("/usr/lib/debug/lib/modules", release, "vmlinux"),
		filepath.Join("/usr/lib/debug/boot", "vmlinux-"+release),
		filepath.Join("/boot", "vmlinux-"+release),
		filepath.Join("/lib/modules", release, "build"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			doctor.Check(w, true, "Found", p)
			return nil
		}
	}
	doctor.Check(w, false, "Found", "none; install the kernel debuginfo/dbgsym and headers packages for "+release)
	return nil
}

// configSection shows the effective configuration.
type configSection struct {
	cfg *config.GlobalConfig
}

func (s *configSection) Name() string { return "Configuration" }

func (s *configSection) Print(w io.Writer) error {
	args, err := stapargs.WithDefaults(s.cfg.Tracer.Args)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	path := config.GlobalConfigPath()
	if _, err := os.Stat(path); err != nil {
		path += " (not present, using defaults)"
	}
	fmt.Fprintf(tw, "Config file:\t%s\n", path)
	fmt.Fprintf(tw, "Tracer:\t%s\n", s.cfg.Tracer.Path)
	fmt.Fprintf(tw, "Tracer args:\t%s\n", stapargs.Join(args))
	fmt.Fprintf(tw, "Min elapsed:\t%dus\n", s.cfg.Sampling.MinElapsedUS)
	fmt.Fprintf(tw, "Limit:\t%d\n", s.cfg.Sampling.Limit)
	if p := log.FilePath(); p != "" {
		fmt.Fprintf(tw, "Debug log:\t%s\n", p)
	}
	return tw.Flush()
}
