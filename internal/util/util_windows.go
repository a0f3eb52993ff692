//go:build windows

package util

import (
	"log/slog"
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// EnableColor reports whether ANSI colour sequences can be written to f.
// Windows consoles interpret them only once virtual terminal processing is
// switched on, so it is enabled here.
func EnableColor(f *os.File) bool {
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}

	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		slog.Debug("EnableColor: no console mode", "error", err)
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	if err := windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		slog.Debug("EnableColor: virtual terminal processing unavailable", "error", err)
		return false
	}
	return true
}
