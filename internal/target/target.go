// Package target resolves the executable of a running process.
//
// The tracer needs the on-disk executable of the target so it can load its
// symbols for user-space backtraces. On Linux that path is the target of
// the /proc/<pid>/exe symlink. Other platforms are not supported.
package target

import "errors"

var (
	// ErrUnsupportedOS is returned on platforms the tracer does not run on.
	ErrUnsupportedOS = errors.New("unsupported operating system")

	// ErrProcessNotFound is returned when the process does not exist or its
	// executable is gone.
	ErrProcessNotFound = errors.New("process not found")

	// ErrPermission is returned when the executable cannot be inspected or read.
	ErrPermission = errors.New("permission denied")
)

// ProcRoot is the mount point of procfs.
var ProcRoot = "/proc"

// ResolveExe returns the absolute path of the executable running as pid.
// The returned path exists, is a regular file, and is readable.
func ResolveExe(pid int) (string, error) {
	return resolveExe(pid)
}

// Supported returns ErrUnsupportedOS unless the current platform can be traced.
func Supported() error {
	return supported()
}
