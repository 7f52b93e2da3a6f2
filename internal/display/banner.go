package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

const tagline = "share recipes from your terminal"

// RenderBanner draws the startup logo and tagline, each centred in the
// terminal.
func RenderBanner() string {
	return renderBanner(termWidth())
}

func renderBanner(width int) string {
	art := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	// The art is centred as a block so its columns stay aligned.
	block := 0
	for _, l := range art {
		block = max(block, len(l))
	}
	indent := centre(width, block)

	var b strings.Builder
	for _, l := range art {
		b.WriteString(indent)
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	b.WriteString(centre(width, len(tagline)))
	b.WriteString(secondaryStyle.Render(tagline))
	b.WriteByte('\n')
	return b.String()
}

// centre returns the left padding that centres n columns in width.
func centre(width, n int) string {
	if width <= n {
		return ""
	}
	return strings.Repeat(" ", (width-n)/2)
}

// Falls back to 80 columns when stdout is not a terminal.
func termWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
