// Package domain defines the core types and interfaces for the recipe client.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// Category is one of the fixed recipe categories the backend accepts.
type Category string

const (
	CategoryVegetarian Category = "Vegetarian"
	CategoryDessert    Category = "Dessert"
	CategoryQuick      Category = "Quick"
	CategoryMainCourse Category = "Main Course"
	CategoryBreakfast  Category = "Breakfast"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryVegetarian,
	CategoryDessert,
	CategoryQuick,
	CategoryMainCourse,
	CategoryBreakfast,
}

// ParseCategory matches a category name case-insensitively. Dashes and
// underscores are accepted in place of spaces ("main-course").
func ParseCategory(name string) (Category, bool) {
	n := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name))
	for _, c := range Categories {
		if strings.EqualFold(string(c), n) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is exactly one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Recipe is the canonical server-held representation of a recipe. The
// User* fields are only populated when the list was requested on behalf
// of a viewer.
type Recipe struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Category      Category `json:"category"`
	PrepTime      int      `json:"prepTime"`
	Image         string   `json:"image"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	Author        string   `json:"author"`
	Likes         int      `json:"likes"`
	Rating        float64  `json:"rating"`
	UserLiked     bool     `json:"userLiked,omitempty"`
	UserFavorited bool     `json:"userFavorited,omitempty"`
	UserRating    int      `json:"userRating,omitempty"`
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]string(nil), r.Ingredients...)
	out.Steps = append([]string(nil), r.Steps...)
	return out
}

// RecipeForm is the user-supplied input for creating or editing a recipe.
// ImageFile, when set, is a local path uploaded alongside the form.
type RecipeForm struct {
	Title       string   `yaml:"title" validate:"required"`
	Category    Category `yaml:"category" validate:"required,category"`
	PrepTime    int      `yaml:"prepTime" validate:"gt=0"`
	Image       string   `yaml:"image,omitempty"`
	ImageFile   string   `yaml:"imageFile,omitempty"`
	Ingredients []string `yaml:"ingredients" validate:"min=1,dive,required"`
	Steps       []string `yaml:"steps" validate:"min=1,dive,required"`
}

// FormFromRecipe pre-fills an edit form from a stored recipe.
func FormFromRecipe(r Recipe) RecipeForm {
	return RecipeForm{
		Title:       r.Title,
		Category:    r.Category,
		PrepTime:    r.PrepTime,
		Image:       r.Image,
		Ingredients: append([]string(nil), r.Ingredients...),
		Steps:       append([]string(nil), r.Steps...),
	}
}

// Comment is an append-only note left on a recipe.
type Comment struct {
	RecipeID int    `json:"-"`
	User     string `json:"user"`
	Content  string `json:"content"`
}

// LikeResult is the backend's answer to a like toggle.
type LikeResult struct {
	Status string `json:"status"` // "liked" or "unliked"
	Likes  int    `json:"likes"`
}

// Liked reports whether the toggle left the recipe liked.
func (l LikeResult) Liked() bool { return l.Status == "liked" }

// FavoriteResult is the backend's answer to a favorite toggle.
type FavoriteResult struct {
	Status string `json:"status"` // "added" or "removed"
}

// Added reports whether the toggle left the recipe favorited.
func (f FavoriteResult) Added() bool { return f.Status == "added" }

// RatingResult carries the new average and the viewer's own stars.
type RatingResult struct {
	AvgRating  float64 `json:"avgRating"`
	UserRating int     `json:"userRating"`
}
