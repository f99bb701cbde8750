//go:build windows

package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func disableEcho(in *os.File) (func(), error) {
	handle := windows.Handle(in.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotTerminal, err)
	}
	if err := windows.SetConsoleMode(handle, mode&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, err
	}
	return func() {
		_ = windows.SetConsoleMode(handle, mode)
	}, nil
}
