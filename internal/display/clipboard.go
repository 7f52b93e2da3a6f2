package display

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard means the system has no clipboard utility.
var ErrNoClipboard = errors.New("display: no clipboard available")

// CopyToClipboard puts text on the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}
