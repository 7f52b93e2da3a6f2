package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHome
	IntentCategories
	IntentFavorites
	IntentMyRecipes
	IntentAbout
	IntentShowRecipe
	IntentBack
	IntentSearch
	IntentCategory
	IntentMaxTime
	IntentQuickFilter
	IntentLike
	IntentFavorite
	IntentRate
	IntentComment
	IntentAdd
	IntentEdit
	IntentDelete
	IntentLogin
	IntentRegister
	IntentLogout
	IntentShare
	IntentClear
	IntentReload
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	if name, ok := intentLabels[i]; ok {
		return name
	}
	return "unknown"
}

// Intent represents a parsed user command. Args holds positional
// arguments; Payload holds free text such as a search string or comment.
type Intent struct {
	Type    IntentType
	Args    []string
	Payload string
}

var intentLabels = map[IntentType]string{
	IntentHome:        "home",
	IntentCategories:  "categories",
	IntentFavorites:   "favorites",
	IntentMyRecipes:   "my_recipes",
	IntentAbout:       "about",
	IntentShowRecipe:  "show_recipe",
	IntentBack:        "back",
	IntentSearch:      "search",
	IntentCategory:    "category",
	IntentMaxTime:     "max_time",
	IntentQuickFilter: "quick_filter",
	IntentLike:        "like",
	IntentFavorite:    "favorite",
	IntentRate:        "rate",
	IntentComment:     "comment",
	IntentAdd:         "add",
	IntentEdit:        "edit",
	IntentDelete:      "delete",
	IntentLogin:       "login",
	IntentRegister:    "register",
	IntentLogout:      "logout",
	IntentShare:       "share",
	IntentClear:       "clear",
	IntentReload:      "reload",
	IntentHelp:        "help",
	IntentQuit:        "quit",
}
