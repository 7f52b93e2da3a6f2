package conversation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	cyan  = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications as single lines. Colors are only
// used when the output is a terminal.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	color   bool
}

// NewCLINotifier creates a notifier printing through printFn. If printFn
// is nil, lines go to stdout, colored when stdout is a terminal.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		return NewWriterNotifier(log, os.Stdout)
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// NewWriterNotifier prints to w, coloring only when w is a terminal.
func NewWriterNotifier(log *logger.Logger, w io.Writer) *CLINotifier {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &CLINotifier{
		log: log,
		printFn: func(format string, a ...interface{}) {
			fmt.Fprintf(w, format+"\n", a...)
		},
		color: color,
	}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.print(cyan, "✔ "+message)
	return nil
}

// NotifyUrgent prints an error notification, in bold red on terminals.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.print(red, "✖ "+message)
	return nil
}

func (n *CLINotifier) print(color, text string) {
	if !n.color {
		n.printFn("%s", text)
		return
	}
	n.printFn("%s%s%s%s", color, bold, text, reset)
}
