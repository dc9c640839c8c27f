// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available, such
// as on a headless Linux host without xclip, xsel or wl-copy.
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// write is swapped out in tests.
var write = clipboard.WriteAll

// Supported reports whether Copy can reach a system clipboard.
func Supported() bool {
	return !clipboard.Unsupported
}

// Copy places value on the system clipboard.
func Copy(value string) error {
	if !Supported() {
		return ErrUnsupported
	}
	if err := write(value); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
