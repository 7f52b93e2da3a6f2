package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hammamikhairi/pocketchef/internal/engine"
	"github.com/hammamikhairi/pocketchef/internal/view"
)

// Compile-time interface check.
var _ engine.Renderer = (*Plain)(nil)

// Plain writes pages as text, for pipes and one-shot commands.
type Plain struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewPlain renders to w at the given width (0 uses the terminal width).
func NewPlain(w io.Writer, width int) *Plain {
	if width <= 0 {
		width = termWidth()
	}
	return &Plain{w: w, width: width}
}

// Render writes p followed by a blank line.
func (p *Plain) Render(page view.Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, strings.TrimRight(view.Text(page, p.width), "\n"))
	fmt.Fprintln(p.w)
}
