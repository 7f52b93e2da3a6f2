package conversation

import (
	"context"
	"strings"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

// Compile-time interface check.
var _ domain.Confirmer = (*LineConfirmer)(nil)

// LineConfirmer asks a yes/no question and takes the next input line as
// the answer. Only "y" and "yes" confirm.
type LineConfirmer struct {
	printFn PrintFunc
	lines   <-chan string
}

// NewLineConfirmer prints prompts with printFn and reads answers from lines.
func NewLineConfirmer(printFn PrintFunc, lines <-chan string) *LineConfirmer {
	return &LineConfirmer{printFn: printFn, lines: lines}
}

// Confirm blocks until an answer arrives, the input closes or ctx ends.
func (c *LineConfirmer) Confirm(ctx context.Context, prompt string) bool {
	c.printFn("%s [y/N]", prompt)
	select {
	case line, ok := <-c.lines:
		if !ok {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	case <-ctx.Done():
		return false
	}
}
