// Package view turns application state into view models. Every function
// here is pure: the same recipes, viewer and filters always produce the
// same Page, and nothing is mutated.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/recipe"
)

// Card is one recipe as shown in a list.
type Card struct {
	ID         int
	Title      string
	Category   domain.Category
	PrepTime   int
	Author     string
	Likes      int
	Rating     float64
	Stars      string
	Liked      bool
	Favorited  bool
	Mine       bool
	UserRating int
}

// Section is a titled group of cards.
type Section struct {
	Title string
	Cards []Card
}

// Detail is the expanded view of a single recipe.
type Detail struct {
	Card
	Image       string
	Ingredients []string
	Steps       []string
	Comments    []domain.Comment
	CanRate     bool
}

// Page is everything needed to draw one screen.
type Page struct {
	View     domain.View
	Title    string
	Filter   string
	Hero     *Card
	Sections []Section
	Empty    string
	Detail   *Detail
	Lines    []string
	Login    bool
}

// Input is the state a list page is rendered from.
type Input struct {
	Recipes  []domain.Recipe
	Viewer   domain.Viewer
	Criteria recipe.Criteria
}

// Render dispatches to the page function for v.
func Render(v domain.View, in Input) Page {
	switch v {
	case domain.ViewCategories:
		return Categories(in)
	case domain.ViewFavorites:
		return Favorites(in)
	case domain.ViewMyRecipes:
		return MyRecipes(in)
	case domain.ViewAbout:
		return About()
	default:
		return Home(in)
	}
}

// Home shows the most-liked recipe as a hero above every recipe that
// passes the filters.
func Home(in Input) Page {
	p := Page{View: domain.ViewHome, Title: "Discover recipes", Filter: filterLabel(in.Criteria)}
	if hero, ok := recipe.Featured(in.Recipes); ok {
		c := NewCard(hero, in.Viewer)
		p.Hero = &c
	}
	cards := cardsFor(in.Criteria.Apply(in.Recipes), in.Viewer)
	if len(cards) == 0 {
		p.Empty = emptyList(in)
		return p
	}
	p.Sections = []Section{{Title: "All recipes", Cards: cards}}
	return p
}

// Categories groups the filtered recipes under each category, in the
// fixed category order. Categories with nothing to show are left out.
func Categories(in Input) Page {
	p := Page{View: domain.ViewCategories, Title: "Browse by category", Filter: filterLabel(in.Criteria)}
	groups := recipe.ByCategory(in.Criteria.Apply(in.Recipes))
	for _, c := range domain.Categories {
		group := groups[c]
		if len(group) == 0 {
			continue
		}
		p.Sections = append(p.Sections, Section{
			Title: fmt.Sprintf("%s (%d)", c, len(group)),
			Cards: cardsFor(group, in.Viewer),
		})
	}
	if len(p.Sections) == 0 {
		p.Empty = emptyList(in)
	}
	return p
}

// Favorites lists the recipes the viewer saved.
func Favorites(in Input) Page {
	p := Page{View: domain.ViewFavorites, Title: "Your favorites", Filter: filterLabel(in.Criteria)}
	var favs []domain.Recipe
	for _, r := range in.Recipes {
		if in.Viewer.Favorited[r.ID] {
			favs = append(favs, r)
		}
	}
	cards := cardsFor(in.Criteria.Apply(favs), in.Viewer)
	switch {
	case len(favs) == 0:
		p.Empty = "No favorites yet. Use fav N to save a recipe."
	case len(cards) == 0:
		p.Empty = "No favorites match your filters."
	default:
		p.Sections = []Section{{Title: fmt.Sprintf("Saved (%d)", len(cards)), Cards: cards}}
	}
	return p
}

// MyRecipes lists the recipes the viewer wrote.
func MyRecipes(in Input) Page {
	p := Page{View: domain.ViewMyRecipes, Title: "My recipes", Filter: filterLabel(in.Criteria)}
	mine := recipe.ByAuthor(in.Recipes, in.Viewer.Username())
	cards := cardsFor(in.Criteria.Apply(mine), in.Viewer)
	switch {
	case len(mine) == 0:
		p.Empty = "You have not shared any recipes yet. Use add FILE.yaml to post one."
	case len(cards) == 0:
		p.Empty = "None of your recipes match your filters."
	default:
		p.Sections = []Section{{Title: fmt.Sprintf("Shared by you (%d)", len(cards)), Cards: cards}}
	}
	return p
}

// About describes the app.
func About() Page {
	return Page{
		View:  domain.ViewAbout,
		Title: "About Pocket Chef",
		Lines: []string{
			"Pocket Chef is a place to share the recipes you love.",
			"Browse by category, save favorites, rate and comment on dishes,",
			"and post your own creations for everyone to cook.",
			"",
			"Type help for the list of commands.",
		},
	}
}

// LoginPrompt asks an anonymous viewer to sign in before reason.
func LoginPrompt(reason string) Page {
	return Page{
		Title: "Login required",
		Lines: []string{
			"Please log in to " + reason + ".",
			"",
			"  login USERNAME PASSWORD",
			"  register USERNAME PASSWORD PASSWORD",
		},
		Login: true,
	}
}

// DetailPage shows one recipe with its comments.
func DetailPage(r domain.Recipe, comments []domain.Comment, v domain.Viewer) Page {
	d := Detail{
		Card:        NewCard(r, v),
		Image:       r.Image,
		Ingredients: append([]string(nil), r.Ingredients...),
		Steps:       append([]string(nil), r.Steps...),
		Comments:    append([]domain.Comment(nil), comments...),
		CanRate:     v.LoggedIn(),
	}
	return Page{Title: r.Title, Detail: &d}
}

// NewCard builds the list card for r as seen by v.
func NewCard(r domain.Recipe, v domain.Viewer) Card {
	return Card{
		ID:         r.ID,
		Title:      r.Title,
		Category:   r.Category,
		PrepTime:   r.PrepTime,
		Author:     r.Author,
		Likes:      r.Likes,
		Rating:     r.Rating,
		Stars:      Stars(r.Rating),
		Liked:      v.Liked[r.ID],
		Favorited:  v.Favorited[r.ID],
		Mine:       v.LoggedIn() && r.Author == v.Username(),
		UserRating: v.Ratings[r.ID],
	}
}

// Stars renders a 0-5 rating as five glyphs. Star i is filled when
// i < rating, so partial ratings round up.
func Stars(rating float64) string {
	filled := int(math.Ceil(rating))
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

func cardsFor(list []domain.Recipe, v domain.Viewer) []Card {
	out := make([]Card, 0, len(list))
	for _, r := range list {
		out = append(out, NewCard(r, v))
	}
	return out
}

func filterLabel(c recipe.Criteria) string {
	if !c.Active() {
		return ""
	}
	return c.String()
}

func emptyList(in Input) string {
	if len(in.Recipes) == 0 {
		return "No recipes yet."
	}
	return "No recipes match your filters."
}
