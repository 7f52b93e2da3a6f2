// Package conversation turns typed commands into intents and prints
// notifications for line-oriented output.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Capture groups become positional Args, except the group
// marked as payload which carries free text. Keyword alternations use
// non-capturing groups.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	intent  domain.IntentType
	payload int // capture group used as Payload, 0 for none
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(?:home|discover)$`), domain.IntentHome, 0},
		{regexp.MustCompile(`(?i)^(?:categories|cats|browse)$`), domain.IntentCategories, 0},
		{regexp.MustCompile(`(?i)^(?:favorites|favourites|favs|saved)$`), domain.IntentFavorites, 0},
		{regexp.MustCompile(`(?i)^(?:mine|my|my recipes|my-recipes)$`), domain.IntentMyRecipes, 0},
		{regexp.MustCompile(`(?i)^about$`), domain.IntentAbout, 0},
		{regexp.MustCompile(`(?i)^(?:show|open|view)\s+#?(\d+)$`), domain.IntentShowRecipe, 0},
		{regexp.MustCompile(`(?i)^(?:back|close|b)$`), domain.IntentBack, 0},
		{regexp.MustCompile(`(?i)^(?:search|find)(?:\s+(.*))?$`), domain.IntentSearch, 1},
		{regexp.MustCompile(`(?i)^category\s+(.+)$`), domain.IntentCategory, 1},
		{regexp.MustCompile(`(?i)^(?:maxtime|max)\s+(\S+)$`), domain.IntentMaxTime, 0},
		{regexp.MustCompile(`(?i)^filter\s+(.+)$`), domain.IntentQuickFilter, 1},
		{regexp.MustCompile(`(?i)^like\s+#?(\d+)$`), domain.IntentLike, 0},
		{regexp.MustCompile(`(?i)^(?:fav|favorite|favourite|save)\s+#?(\d+)$`), domain.IntentFavorite, 0},
		{regexp.MustCompile(`(?i)^rate\s+#?(\d+)\s+(\d+)$`), domain.IntentRate, 0},
		{regexp.MustCompile(`(?i)^comment\s+#?(\d+)\s+(.+)$`), domain.IntentComment, 2},
		{regexp.MustCompile(`(?i)^(?:add|new)\s+(\S+)$`), domain.IntentAdd, 1},
		{regexp.MustCompile(`(?i)^edit\s+#?(\d+)(?:\s+(\S+))?$`), domain.IntentEdit, 2},
		{regexp.MustCompile(`(?i)^(?:delete|remove|rm)\s+#?(\d+)$`), domain.IntentDelete, 0},
		{regexp.MustCompile(`(?i)^login\s+(\S+)\s+(\S+)$`), domain.IntentLogin, 0},
		{regexp.MustCompile(`(?i)^(?:register|signup)\s+(\S+)\s+(\S+)\s+(\S+)$`), domain.IntentRegister, 0},
		{regexp.MustCompile(`(?i)^(?:logout|signout)$`), domain.IntentLogout, 0},
		{regexp.MustCompile(`(?i)^(?:share|link)\s+#?(\d+)$`), domain.IntentShare, 0},
		{regexp.MustCompile(`(?i)^(?:clear|reset)$`), domain.IntentClear, 0},
		{regexp.MustCompile(`(?i)^(?:reload|refresh|r)$`), domain.IntentReload, 0},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.IntentHelp, 0},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), domain.IntentQuit, 0},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number opens that recipe.
	if isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentShowRecipe, Args: []string{trimmed}}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		for i, group := range m[1:] {
			if i+1 == rule.payload {
				intent.Payload = strings.TrimSpace(group)
				continue
			}
			if group != "" {
				intent.Args = append(intent.Args, group)
			}
		}
		return intent, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
