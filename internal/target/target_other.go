//go:build !linux

package target

import (
	"fmt"
	"runtime"
)

func supported() error {
	return fmt.Errorf("%w: only linux is supported, running on %s", ErrUnsupportedOS, runtime.GOOS)
}

func resolveExe(pid int) (string, error) {
	return "", supported()
}
