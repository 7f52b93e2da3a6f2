package recipe

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

// QuickLimit is the prep-time ceiling, in minutes, of the "quick" filter.
const QuickLimit = 30

// Quick filter names besides the category names.
const (
	FilterAll   = "all"
	FilterQuick = "quick"
)

// QuickFilter is a named predicate: "all", "quick", or a category.
type QuickFilter string

// ParseQuickFilter accepts "all", "quick" or any category name.
func ParseQuickFilter(name string) (QuickFilter, bool) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", FilterAll:
		return FilterAll, true
	case FilterQuick:
		return FilterQuick, true
	}
	if c, ok := domain.ParseCategory(name); ok {
		return QuickFilter(c), true
	}
	return "", false
}

// Match reports whether r passes the filter. The zero value matches all.
func (f QuickFilter) Match(r domain.Recipe) bool {
	switch f {
	case "", FilterAll:
		return true
	case FilterQuick:
		return r.PrepTime <= QuickLimit
	}
	return r.Category == domain.Category(f)
}

// MatchesSearch reports whether text appears, case-insensitively, in the
// title, author, category or any ingredient. Empty text matches everything.
func MatchesSearch(r domain.Recipe, text string) bool {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Author), q) ||
		strings.Contains(strings.ToLower(string(r.Category)), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

// Criteria is every active filter. Zero fields are inactive; active ones
// combine with AND.
type Criteria struct {
	Search   string
	Category domain.Category
	MaxPrep  int
	Quick    QuickFilter
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Search) != "" || c.Category != "" || c.MaxPrep > 0 ||
		(c.Quick != "" && c.Quick != FilterAll)
}

// Match reports whether r passes every active filter.
func (c Criteria) Match(r domain.Recipe) bool {
	if c.Category != "" && r.Category != c.Category {
		return false
	}
	if c.MaxPrep > 0 && r.PrepTime > c.MaxPrep {
		return false
	}
	return c.Quick.Match(r) && MatchesSearch(r, c.Search)
}

// Apply returns the recipes in list that match, preserving order.
func (c Criteria) Apply(list []domain.Recipe) []domain.Recipe {
	var out []domain.Recipe
	for _, r := range list {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// String summarizes the active filters for the status bar.
func (c Criteria) String() string {
	var parts []string
	if s := strings.TrimSpace(c.Search); s != "" {
		parts = append(parts, fmt.Sprintf("search %q", s))
	}
	if c.Category != "" {
		parts = append(parts, string(c.Category))
	}
	if c.MaxPrep > 0 {
		parts = append(parts, fmt.Sprintf("<= %d min", c.MaxPrep))
	}
	if c.Quick != "" && c.Quick != FilterAll {
		parts = append(parts, "filter "+string(c.Quick))
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, ", ")
}
