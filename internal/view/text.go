package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Soft palette shared with the terminal UI.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	heroStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#94a3b8")).
		Width(5)
)

// Text renders p as terminal lines no wider than width (0 means 80).
func Text(p Page, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteByte('\n')
	if p.Filter != "" {
		b.WriteString(secondaryStyle.Render("filters: " + p.Filter))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if p.Detail != nil {
		writeDetail(&b, *p.Detail, width)
		return b.String()
	}

	if p.Hero != nil {
		hero := titleStyle.Render("Featured: "+p.Hero.Title) + "\n" + cardMeta(*p.Hero)
		b.WriteString(heroStyle.MaxWidth(width).Render(hero))
		b.WriteString("\n\n")
	}
	for _, s := range p.Sections {
		b.WriteString(sectionStyle.Render(s.Title))
		b.WriteByte('\n')
		for _, c := range s.Cards {
			b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(CardLine(c)))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	if p.Empty != "" {
		b.WriteString(secondaryStyle.Render(p.Empty))
		b.WriteByte('\n')
	}
	for _, l := range p.Lines {
		b.WriteString(primaryStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// CardLine is the one-line form of a card used in lists.
func CardLine(c Card) string {
	return idStyle.Render(fmt.Sprintf("#%d", c.ID)) + primaryStyle.Render(c.Title) + "  " + cardMeta(c)
}

func cardMeta(c Card) string {
	meta := secondaryStyle.Render(fmt.Sprintf("%s · %d min · by %s · ♥ %d · ", c.Category, c.PrepTime, c.Author, c.Likes)) +
		starStyle.Render(c.Stars) + secondaryStyle.Render(fmt.Sprintf(" %.1f", c.Rating))
	if m := marks(c); m != "" {
		meta += "  " + markStyle.Render(m)
	}
	return meta
}

func marks(c Card) string {
	var m []string
	if c.Liked {
		m = append(m, "liked")
	}
	if c.Favorited {
		m = append(m, "saved")
	}
	if c.Mine {
		m = append(m, "yours")
	}
	if len(m) == 0 {
		return ""
	}
	return "[" + strings.Join(m, "] [") + "]"
}

func writeDetail(b *strings.Builder, d Detail, width int) {
	wrap := lipgloss.NewStyle().Width(width - 4)

	b.WriteString(cardMeta(d.Card))
	b.WriteByte('\n')
	if d.Image != "" {
		b.WriteString(secondaryStyle.Render("image: " + d.Image))
		b.WriteByte('\n')
	}

	b.WriteString("\n" + sectionStyle.Render("Ingredients") + "\n")
	for _, ing := range d.Ingredients {
		b.WriteString(primaryStyle.Render("  • " + ing))
		b.WriteByte('\n')
	}

	b.WriteString("\n" + sectionStyle.Render("Steps") + "\n")
	for i, s := range d.Steps {
		b.WriteString(wrap.Render(primaryStyle.Render(fmt.Sprintf("  %d. %s", i+1, s))))
		b.WriteByte('\n')
	}

	if d.CanRate {
		b.WriteByte('\n')
		if d.UserRating > 0 {
			b.WriteString(secondaryStyle.Render("your rating: ") + starStyle.Render(Stars(float64(d.UserRating))))
		} else {
			b.WriteString(secondaryStyle.Render(fmt.Sprintf("not rated yet, try: rate %d 5", d.ID)))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Comments (%d)", len(d.Comments))) + "\n")
	if len(d.Comments) == 0 {
		b.WriteString(secondaryStyle.Render("  No comments yet."))
		b.WriteByte('\n')
	}
	for _, c := range d.Comments {
		b.WriteString(wrap.Render(secondaryStyle.Render("  "+c.User+": ") + primaryStyle.Render(c.Content)))
		b.WriteByte('\n')
	}
}
