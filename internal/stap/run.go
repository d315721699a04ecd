package stap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/majorcontext/offcpu/internal/log"
)

// ErrSpawn is returned when the tracer process could not be started.
var ErrSpawn = errors.New("failed to spawn systemtap")

// Command describes one tracer invocation.
type Command struct {
	Bin     string
	PID     int
	ExePath string
	Args    []string // extra arguments, tuning defaults included
}

// Argv returns the arguments passed to the tracer. The script is read
// from stdin ("-").
func (c Command) Argv() []string {
	argv := []string{
		"--skip-badvars",
		"--all-modules",
		"-x", strconv.Itoa(c.PID),
		"-d", c.ExePath,
		"--ldd",
	}
	argv = append(argv, c.Args...)
	return append(argv, "-")
}

// String renders the command line for display.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Bin}, c.Argv()...))
}

// ExitError reports a tracer that ran but exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("systemtap exited with status %d", e.Code)
}

// Runner runs a tracer command with a script on its stdin.
type Runner interface {
	Run(ctx context.Context, cmd Command, script string, stdout, stderr io.Writer) error
}

// ExecRunner runs the tracer as a child process.
type ExecRunner struct{}

// Run starts the tracer, writes script to its stdin, closes it, and waits.
// While the child runs the parent swallows SIGINT: the terminal delivers it
// to stap too, which runs its end probes and exits on its own.
func (ExecRunner) Run(ctx context.Context, c Command, script string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, c.Bin, c.Argv()...)
	cmd.Stdin = strings.NewReader(script)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// An ignored disposition would survive exec into the child.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	log.Debug("starting tracer", "cmd", c.String(), "script_bytes", len(script))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		log.Debug("tracer exited", "code", code)
		if code < 0 {
			// killed by a signal
			code = 1
		}
		return &ExitError{Code: code}
	}
	if err != nil {
		return fmt.Errorf("waiting for systemtap: %w", err)
	}
	log.Debug("tracer exited", "code", 0)
	return nil
}
