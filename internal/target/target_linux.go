//go:build linux

package target

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

func supported() error {
	return nil
}

func resolveExe(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("%w: invalid pid %d", ErrProcessNotFound, pid)
	}

	link := filepath.Join(ProcRoot, strconv.Itoa(pid), "exe")
	path, err := os.Readlink(link)
	if err != nil {
		return "", classify(pid, link, err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(link), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", classify(pid, path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: process %d executable %s is not a regular file", ErrProcessNotFound, pid, path)
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return "", fmt.Errorf("%w: process %d executable %s is not readable", ErrPermission, pid, path)
	}
	return path, nil
}

func classify(pid int, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: process %d is not running (%s)", ErrProcessNotFound, pid, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: cannot inspect process %d (%s); try running as root", ErrPermission, pid, path)
	default:
		return fmt.Errorf("resolving executable of process %d: %w", pid, err)
	}
}
