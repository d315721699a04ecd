// Package stap locates the SystemTap driver and runs generated scripts with it.
package stap

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"
)

// DefaultBin is the driver looked up on PATH when no path is configured.
const DefaultBin = "stap"

// MinVersion is the oldest SystemTap release the generated scripts run on.
const MinVersion = "2.1"

var (
	// ErrNotInstalled is returned when the stap binary cannot be found.
	ErrNotInstalled = errors.New("systemtap not installed")

	// ErrUnrecognizedVersion is returned when `stap -V` output has no version.
	ErrUnrecognizedVersion = errors.New("unrecognized systemtap version")

	// ErrTooOld is returned when the installed stap is older than MinVersion.
	ErrTooOld = errors.New("systemtap too old")
)

var minVersion = version.Must(version.NewVersion(MinVersion))

// Locate resolves bin to an executable path.
func Locate(bin string) (string, error) {
	if bin == "" {
		bin = DefaultBin
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not visible on PATH: %v", ErrNotInstalled, bin, err)
	}
	return path, nil
}

// "Systemtap translator/driver (version 4.4/0.183, rpm 4.4-1.fc33)"
var versionPattern = regexp.MustCompile(`(?i)version\s+(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the release number from `stap -V` output.
func ParseVersion(out string) (*version.Version, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedVersion, firstLine(out))
	}
	v, err := version.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedVersion, err)
	}
	return v, nil
}

// Supported returns ErrTooOld if v predates MinVersion.
func Supported(v *version.Version) error {
	if v.LessThan(minVersion) {
		return fmt.Errorf("%w: at least systemtap %s is required but found %s", ErrTooOld, MinVersion, v.Original())
	}
	return nil
}

// CheckVersion runs `bin -V` and verifies the reported release.
func CheckVersion(ctx context.Context, bin string) (*version.Version, error) {
	out, err := exec.CommandContext(ctx, bin, "-V").CombinedOutput()
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("running %s -V: %w", bin, err)
	}
	v, perr := ParseVersion(string(out))
	if perr != nil {
		return nil, perr
	}
	if err := Supported(v); err != nil {
		return v, err
	}
	return v, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
