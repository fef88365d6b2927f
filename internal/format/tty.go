package format

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorCapable reports whether w is a terminal that can render ANSI colors.
func ColorCapable(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
