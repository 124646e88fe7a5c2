package inline

import (
	"io"

	"golang.org/x/term"
)

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TerminalSize returns the column and row count of the terminal behind w.
func TerminalSize(w io.Writer) (width, height int, err error) {
	f, ok := w.(fder)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, ErrNotTerminal
	}
	return terminalSize(f.Fd())
}
