package domain

// View is one of the mutually exclusive top-level display modes.
type View int

const (
	ViewHome View = iota
	ViewCategories
	ViewFavorites
	ViewMyRecipes
	ViewAbout
)

// Views lists every view in navigation order.
var Views = []View{ViewHome, ViewCategories, ViewFavorites, ViewMyRecipes, ViewAbout}

// String returns the view's navigation name.
func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewCategories:
		return "categories"
	case ViewFavorites:
		return "favorites"
	case ViewMyRecipes:
		return "my-recipes"
	case ViewAbout:
		return "about"
	default:
		return "unknown"
	}
}

// RequiresLogin reports whether entering the view needs a session.
func (v View) RequiresLogin() bool {
	return v == ViewFavorites || v == ViewMyRecipes
}
