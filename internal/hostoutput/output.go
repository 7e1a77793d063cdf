// Package hostoutput provides consistent CLI output formatting for the
// sorex binary: status lines, colorized when the output stream is a
// terminal, plain otherwise.
package hostoutput

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Writer formats status and result output for the CLI.
type Writer struct {
	out      io.Writer
	useColor bool
}

// New creates a Writer that auto-detects color support from out (color is
// enabled only when out is *os.File and that file is a terminal).
func New(out io.Writer) *Writer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, useColor: useColor}
}

// Status prints a status line with a leading icon.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		fmt.Fprintf(w.out, "  %s\n", msg)
	}
}

// Statusf formats and prints a status line.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success line.
func (w *Writer) Success(msg string) { w.Status(w.colorize("32", "✓"), msg) }

// Warning prints a warning line.
func (w *Writer) Warning(msg string) { w.Status(w.colorize("33", "!"), msg) }

// Error prints an error line.
func (w *Writer) Error(msg string) { w.Status(w.colorize("31", "✗"), msg) }

// Errorf formats and prints an error line.
func (w *Writer) Errorf(format string, args ...any) { w.Error(fmt.Sprintf(format, args...)) }

func (w *Writer) colorize(code, s string) string {
	if !w.useColor {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// ResultLine prints one ranked search result, indenting the matched
// snippet under the document title.
func (w *Writer) ResultLine(rank int, href, title, snippet string) {
	fmt.Fprintf(w.out, "%2d. %s\n    %s\n", rank, w.bold(title), href)
	if snippet != "" {
		for _, line := range strings.Split(snippet, "\n") {
			fmt.Fprintf(w.out, "    %s\n", line)
		}
	}
}

func (w *Writer) bold(s string) string {
	if !w.useColor {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}
