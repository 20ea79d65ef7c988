// Package util holds small helpers shared by the CLI and the library packages.
package util

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"github.com/vbuild-dev/vbuild/filesystem"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify formats count with the matching noun, e.g. "1 file" or "3 files".
func Quantify(count int, singular, plural string) string {
	noun := plural
	if count == 1 {
		noun = singular
	}
	return fmt.Sprintf("%d %s", count, noun)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Wrap word-wraps s to the terminal width, or to fallback columns when
// stdout is not a terminal.
func Wrap(s string, fallback int) string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = fallback
	}
	return wordwrap.String(s, Max(width-2, 20))
}

// PrintErasable writes msg on the current line. The returned func blanks it again.
func PrintErasable(msg string) (erase func()) {
	_, _ = fmt.Fprint(os.Stdout, "\r"+msg)
	return func() {
		_, _ = fmt.Fprint(os.Stdout, "\r"+strings.Repeat(" ", utf8.RuneCountInString(msg))+"\r")
	}
}

// Ignore calls f and drops its error. Meant for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

// Max returns the largest of items, or the zero value for none.
func Max[T constraints.Ordered](items ...T) T {
	var max T
	for i, item := range items {
		if i == 0 || item > max {
			max = item
		}
	}
	return max
}

// Delete removes a host file or a whole host directory.
func Delete(path string) error {
	fs := filesystem.API()
	if _, err := fs.Stat(path); err != nil {
		return err
	}
	return fs.RemoveAll(path)
}
