package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/recipe"
	"github.com/hammamikhairi/pocketchef/internal/view"
)

// ShowHome switches to the home view.
func (e *Engine) ShowHome() error { return e.show(domain.ViewHome) }

// ShowCategories switches to the category browser.
func (e *Engine) ShowCategories() error { return e.show(domain.ViewCategories) }

// ShowFavorites switches to the viewer's favorites, or shows the login
// prompt and keeps the current view when nobody is logged in.
func (e *Engine) ShowFavorites() error { return e.show(domain.ViewFavorites) }

// ShowMyRecipes switches to the viewer's own recipes. Guarded like
// ShowFavorites.
func (e *Engine) ShowMyRecipes() error { return e.show(domain.ViewMyRecipes) }

// ShowAbout switches to the about page.
func (e *Engine) ShowAbout() error { return e.show(domain.ViewAbout) }

func (e *Engine) show(v domain.View) error {
	if v.RequiresLogin() {
		if _, err := e.requireLogin(guardReason(v)); err != nil {
			return err
		}
	}
	e.mu.Lock()
	e.state.View = v
	e.state.Detail = 0
	e.comments = nil
	e.mu.Unlock()

	e.log.Debug("view -> %s", v)
	e.RerenderCurrentView()
	return nil
}

func guardReason(v domain.View) string {
	if v == domain.ViewFavorites {
		return "see your favorites"
	}
	return "see your recipes"
}

// ShowRecipe opens a recipe in full and loads its comments. If the
// comments cannot be fetched the recipe is still shown.
func (e *Engine) ShowRecipe(ctx context.Context, id int) error {
	r, err := e.recipes.Get(id)
	if err != nil {
		return e.fail(ctx, fmt.Errorf("recipe %d: %w", id, err))
	}

	comments, cerr := e.api.ListComments(ctx, id)

	e.mu.Lock()
	e.state.Detail = id
	e.comments = comments
	e.mu.Unlock()

	e.renderer.Render(view.DetailPage(r, comments, e.session.Viewer()))
	if cerr != nil {
		return e.fail(ctx, fmt.Errorf("comments for %d: %w", id, cerr))
	}
	return nil
}

// CloseRecipe returns from a recipe to the list it was opened from.
func (e *Engine) CloseRecipe() {
	e.mu.Lock()
	e.state.Detail = 0
	e.comments = nil
	e.mu.Unlock()
	e.RerenderCurrentView()
}

// SetSearch filters lists by free text. Empty text clears the search.
func (e *Engine) SetSearch(text string) {
	e.updateCriteria(func(c *recipe.Criteria) { c.Search = strings.TrimSpace(text) })
}

// SetCategory restricts lists to one category; "" shows all.
func (e *Engine) SetCategory(c domain.Category) {
	e.updateCriteria(func(cr *recipe.Criteria) { cr.Category = c })
}

// SetMaxPrep hides recipes that take longer than minutes; 0 disables it.
func (e *Engine) SetMaxPrep(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	e.updateCriteria(func(c *recipe.Criteria) { c.MaxPrep = minutes })
}

// SetQuickFilter selects the single active quick filter.
func (e *Engine) SetQuickFilter(f recipe.QuickFilter) {
	e.updateCriteria(func(c *recipe.Criteria) { c.Quick = f })
}

// ClearFilters drops every filter.
func (e *Engine) ClearFilters() {
	e.updateCriteria(func(c *recipe.Criteria) { *c = recipe.Criteria{} })
}

func (e *Engine) updateCriteria(fn func(*recipe.Criteria)) {
	e.mu.Lock()
	fn(&e.state.Criteria)
	e.state.Detail = 0
	e.comments = nil
	e.mu.Unlock()
	e.RerenderCurrentView()
}
