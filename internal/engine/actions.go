package engine

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/form"
)

// flight runs fn once per key among concurrent callers; everyone gets
// the leader's result. Keys must identify the whole request, payload
// included, so only identical actions are merged.
func flight[T any](e *Engine, key string, fn func() (T, error)) (T, error) {
	e.joinFlight(key)
	defer e.leaveFlight(key)

	v, err, shared := e.flights.Do(key, func() (any, error) { return fn() })
	if shared {
		e.log.Debug("%s shared with an in-flight request", key)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (e *Engine) joinFlight(key string) {
	e.flightMu.Lock()
	defer e.flightMu.Unlock()
	e.callers[key]++
}

func (e *Engine) leaveFlight(key string) {
	e.flightMu.Lock()
	defer e.flightMu.Unlock()
	if e.callers[key]--; e.callers[key] <= 0 {
		delete(e.callers, key)
	}
}

// callersFor reports how many calls are waiting on key.
func (e *Engine) callersFor(key string) int {
	e.flightMu.Lock()
	defer e.flightMu.Unlock()
	return e.callers[key]
}

// formKey fingerprints a normalized recipe form.
func formKey(f domain.RecipeForm) string {
	sum := sha256.New()
	if err := form.Encode(sum, f); err != nil {
		fmt.Fprintf(sum, "%#v", f)
	}
	return fmt.Sprintf("%x", sum.Sum(nil)[:12])
}

// Login signs in, reloads recipes with the user's flags and re-renders.
func (e *Engine) Login(ctx context.Context, username, password string) error {
	u, err := e.session.Login(ctx, username, password)
	if err != nil {
		return e.fail(ctx, err)
	}
	e.reloadAfter(ctx)
	e.notify(ctx, "Welcome back, %s!", u.Username)
	return nil
}

// Register creates an account, signs it in and re-renders.
func (e *Engine) Register(ctx context.Context, username, password, confirm string) error {
	u, err := e.session.Register(ctx, username, password, confirm)
	if err != nil {
		return e.fail(ctx, err)
	}
	e.reloadAfter(ctx)
	e.notify(ctx, "Account created! Welcome, %s!", u.Username)
	return nil
}

// Logout signs out. A guarded view falls back to home.
func (e *Engine) Logout(ctx context.Context) error {
	if err := e.session.Logout(); err != nil {
		e.fail(ctx, err)
	}
	e.mu.Lock()
	if e.state.View.RequiresLogin() {
		e.state.View = domain.ViewHome
	}
	e.mu.Unlock()

	if err := e.reload(ctx); err != nil {
		e.log.Warn("reload after logout: %v", err)
	}
	e.RerenderCurrentView()
	e.notify(ctx, "Logged out successfully")
	return nil
}

// ToggleLike likes or unlikes a recipe. Nothing changes locally until
// the server answers; then the like count and liked set take its values.
func (e *Engine) ToggleLike(ctx context.Context, id int) error {
	u, err := e.requireLogin("like recipes")
	if err != nil {
		return err
	}
	if _, err := e.recipes.Get(id); err != nil {
		return e.fail(ctx, fmt.Errorf("like %d: %w", id, err))
	}

	res, err := flight(e, fmt.Sprintf("like:%d", id), func() (domain.LikeResult, error) {
		return e.api.ToggleLike(ctx, id, u.Username)
	})
	if err != nil {
		return e.fail(ctx, err)
	}

	e.recipes.SetLikes(id, res.Likes)
	e.session.SetLiked(id, res.Liked())
	e.RerenderCurrentView()
	return nil
}

// ToggleFavorite flips favorite membership right away, then confirms
// with the server. A failed call puts the membership back. With local
// favorites no request is made.
func (e *Engine) ToggleFavorite(ctx context.Context, id int) error {
	u, err := e.requireLogin("save favorites")
	if err != nil {
		return err
	}
	if _, err := e.recipes.Get(id); err != nil {
		return e.fail(ctx, fmt.Errorf("favorite %d: %w", id, err))
	}

	if e.session.LocalFavorites() {
		added := !e.session.IsFavorited(id)
		if err := e.session.SetFavorited(id, added); err != nil {
			return e.fail(ctx, err)
		}
		e.RerenderCurrentView()
		e.notifyFavorite(ctx, added)
		return nil
	}

	res, err := flight(e, fmt.Sprintf("favorite:%d", id), func() (domain.FavoriteResult, error) {
		prev := e.session.IsFavorited(id)
		e.session.SetFavorited(id, !prev)
		e.RerenderCurrentView()

		res, err := e.api.ToggleFavorite(ctx, id, u.Username)
		if err != nil {
			e.session.SetFavorited(id, prev)
			e.RerenderCurrentView()
			return res, err
		}
		e.session.SetFavorited(id, res.Added())
		return res, nil
	})
	if err != nil {
		return e.fail(ctx, err)
	}
	e.RerenderCurrentView()
	e.notifyFavorite(ctx, res.Added())
	return nil
}

func (e *Engine) notifyFavorite(ctx context.Context, added bool) {
	if added {
		e.notify(ctx, "Added to favorites")
		return
	}
	e.notify(ctx, "Removed from favorites")
}

// Rate sets the viewer's stars. The server's new average is applied to
// the recipe directly, without a reload.
func (e *Engine) Rate(ctx context.Context, id, stars int) error {
	u, err := e.requireLogin("rate recipes")
	if err != nil {
		return err
	}
	if err := form.Rating(stars); err != nil {
		return e.fail(ctx, err)
	}
	if _, err := e.recipes.Get(id); err != nil {
		return e.fail(ctx, fmt.Errorf("rate %d: %w", id, err))
	}

	res, err := flight(e, fmt.Sprintf("rate:%d:%d", id, stars), func() (domain.RatingResult, error) {
		return e.api.Rate(ctx, id, u.Username, stars)
	})
	if err != nil {
		return e.fail(ctx, err)
	}

	e.recipes.SetRating(id, res.AvgRating)
	e.session.SetRating(id, res.UserRating)
	e.RerenderCurrentView()
	e.notify(ctx, "Rated %d stars", res.UserRating)
	return nil
}

// Comment posts a comment and refreshes the recipe's comment list.
func (e *Engine) Comment(ctx context.Context, id int, content string) error {
	u, err := e.requireLogin("comment")
	if err != nil {
		return err
	}
	if err := form.Comment(content); err != nil {
		return e.fail(ctx, err)
	}
	if _, err := e.recipes.Get(id); err != nil {
		return e.fail(ctx, fmt.Errorf("comment on %d: %w", id, err))
	}

	_, err = flight(e, fmt.Sprintf("comment:%d:%s", id, content), func() (domain.Comment, error) {
		return e.api.AddComment(ctx, id, u.ID, content)
	})
	if err != nil {
		return e.fail(ctx, err)
	}

	comments, err := e.api.ListComments(ctx, id)
	if err != nil {
		return e.fail(ctx, fmt.Errorf("comments for %d: %w", id, err))
	}
	e.mu.Lock()
	if e.state.Detail == id {
		e.comments = comments
	}
	e.mu.Unlock()
	e.RerenderCurrentView()
	e.notify(ctx, "Comment posted")
	return nil
}

// CreateRecipe validates and posts a new recipe, then reloads. On any
// failure the form is left for the caller to fix and retry.
func (e *Engine) CreateRecipe(ctx context.Context, f domain.RecipeForm) (domain.Recipe, error) {
	u, err := e.requireLogin("share a recipe")
	if err != nil {
		return domain.Recipe{}, err
	}
	f = form.Normalize(f)
	if err := form.Recipe(f); err != nil {
		return domain.Recipe{}, e.fail(ctx, err)
	}

	created, err := flight(e, fmt.Sprintf("create:%s:%s", u.Username, formKey(f)), func() (domain.Recipe, error) {
		return e.api.CreateRecipe(ctx, f, u.Username)
	})
	if err != nil {
		return domain.Recipe{}, e.fail(ctx, err)
	}
	e.reloadAfter(ctx)
	e.notify(ctx, "Recipe added successfully!")
	return created, nil
}

// EditForm returns a recipe form prefilled from one of the viewer's own
// recipes.
func (e *Engine) EditForm(ctx context.Context, id int) (domain.RecipeForm, error) {
	r, err := e.owned(ctx, id, "edit recipes")
	if err != nil {
		return domain.RecipeForm{}, err
	}
	return domain.FormFromRecipe(r), nil
}

// UpdateRecipe validates and saves changes to one of the viewer's recipes.
func (e *Engine) UpdateRecipe(ctx context.Context, id int, f domain.RecipeForm) error {
	r, err := e.owned(ctx, id, "edit recipes")
	if err != nil {
		return err
	}
	f = form.Normalize(f)
	if err := form.Recipe(f); err != nil {
		return e.fail(ctx, err)
	}

	_, err = flight(e, fmt.Sprintf("edit:%d:%s", id, formKey(f)), func() (domain.Recipe, error) {
		return e.api.UpdateRecipe(ctx, id, f, r.Author)
	})
	if err != nil {
		return e.fail(ctx, err)
	}
	e.reloadAfter(ctx)
	e.notify(ctx, "Recipe updated successfully!")
	return nil
}

// DeleteRecipe removes one of the viewer's recipes after confirmation.
// Declining returns domain.ErrCancelled and changes nothing.
func (e *Engine) DeleteRecipe(ctx context.Context, id int, confirm domain.Confirmer) error {
	r, err := e.owned(ctx, id, "delete recipes")
	if err != nil {
		return err
	}
	if !confirm.Confirm(ctx, fmt.Sprintf("Delete %q? This cannot be undone.", r.Title)) {
		e.notify(ctx, "Delete cancelled")
		return domain.ErrCancelled
	}

	_, err = flight(e, fmt.Sprintf("delete:%d", id), func() (struct{}, error) {
		return struct{}{}, e.api.DeleteRecipe(ctx, id, r.Author)
	})
	if err != nil {
		return e.fail(ctx, err)
	}

	e.recipes.Remove(id)
	if err := e.session.Forget(id); err != nil {
		e.log.Warn("forget %d: %v", id, err)
	}
	e.closeDetail(id)
	e.reloadAfter(ctx)
	e.notify(ctx, "Recipe deleted")
	return nil
}

// owned fetches a recipe the current user wrote.
func (e *Engine) owned(ctx context.Context, id int, reason string) (domain.Recipe, error) {
	u, err := e.requireLogin(reason)
	if err != nil {
		return domain.Recipe{}, err
	}
	r, err := e.recipes.Get(id)
	if err != nil {
		return domain.Recipe{}, e.fail(ctx, fmt.Errorf("recipe %d: %w", id, err))
	}
	if r.Author != u.Username {
		return domain.Recipe{}, e.fail(ctx, fmt.Errorf("recipe %d: %w", id, ErrNotOwner))
	}
	return r, nil
}

// ShareLink returns the link that points at recipe id.
func (e *Engine) ShareLink(id int) string {
	return fmt.Sprintf("%s/#recipe-%d", e.shareBase, id)
}

// Share copies a link to recipe id to the clipboard. When no clipboard is
// available the link is shown instead. No login is needed.
func (e *Engine) Share(ctx context.Context, id int) (string, error) {
	if _, err := e.recipes.Get(id); err != nil {
		return "", e.fail(ctx, fmt.Errorf("recipe %d: %w", id, err))
	}
	link := e.ShareLink(id)
	if e.copyLink != nil {
		err := e.copyLink(link)
		if err == nil {
			e.notify(ctx, "Recipe link copied to clipboard!")
			return link, nil
		}
		e.log.Warn("copy link: %v", err)
	}
	e.notify(ctx, "Recipe link: %s", link)
	return link, nil
}
