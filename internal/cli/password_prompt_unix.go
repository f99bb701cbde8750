//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// disableEcho turns off terminal echo on in and returns the function that
// puts the previous mode back.
func disableEcho(in *os.File) (func(), error) {
	fd := int(in.Fd())
	saved, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
		return nil, fmt.Errorf("%w: %v", errNotTerminal, err)
	}
	if err != nil {
		return nil, err
	}

	silent := *saved
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &silent); err != nil {
		return nil, err
	}
	return func() {
		_ = unix.IoctlSetTermios(fd, ioctlSetTermios, saved)
	}, nil
}
