// Package recipe holds the client's copy of the recipe list and the
// predicates used to filter it.
package recipe

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

// Lister fetches the full recipe list, optionally on behalf of a viewer.
type Lister interface {
	ListRecipes(ctx context.Context, username string) ([]domain.Recipe, error)
}

// Store is the ordered list of recipes as last returned by the server,
// plus optimistic counter patches. Safe for concurrent access.
type Store struct {
	src Lister
	log *logger.Logger

	mu      sync.RWMutex
	recipes []domain.Recipe
}

// NewStore creates an empty store backed by src.
func NewStore(src Lister, log *logger.Logger) *Store {
	return &Store{src: src, log: log}
}

// Reload fetches the full list and replaces the store wholesale, keeping
// the server's order. On error the store is left untouched.
func (s *Store) Reload(ctx context.Context, username string) ([]domain.Recipe, error) {
	list, err := s.src.ListRecipes(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("recipe: reload: %w", err)
	}

	fresh := make([]domain.Recipe, len(list))
	for i, r := range list {
		fresh[i] = r.Clone()
	}

	s.mu.Lock()
	s.recipes = fresh
	s.mu.Unlock()

	s.log.Debug("reloaded %d recipes (viewer=%q)", len(fresh), username)
	return s.Snapshot(), nil
}

// Snapshot returns a deep copy of every recipe in order.
func (s *Store) Snapshot() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.recipes)
}

// Len returns the number of recipes held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

// Get returns a copy of the recipe with the given id.
func (s *Store) Get(id int) (domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Recipe{}, domain.ErrNotFound
	}
	return s.recipes[i].Clone(), nil
}

// ByCategory groups list by category. Categories without recipes are
// absent from the map.
func ByCategory(list []domain.Recipe) map[domain.Category][]domain.Recipe {
	out := make(map[domain.Category][]domain.Recipe)
	for _, r := range list {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}

// ByAuthor returns the recipes in list written by name, keeping order.
// An empty name matches nothing.
func ByAuthor(list []domain.Recipe, name string) []domain.Recipe {
	if name == "" {
		return nil
	}
	var out []domain.Recipe
	for _, r := range list {
		if r.Author == name {
			out = append(out, r)
		}
	}
	return out
}

// SetLikes patches a recipe's like counter. Negative counts clamp to 0.
func (s *Store) SetLikes(id, likes int) error {
	if likes < 0 {
		likes = 0
	}
	return s.patch(id, func(r *domain.Recipe) { r.Likes = likes })
}

// SetRating patches a recipe's average rating.
func (s *Store) SetRating(id int, avg float64) error {
	return s.patch(id, func(r *domain.Recipe) { r.Rating = avg })
}

// Remove drops a recipe locally, ahead of the next reload.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
	return nil
}

func (s *Store) patch(id int, fn func(*domain.Recipe)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	fn(&s.recipes[i])
	return nil
}

func (s *Store) indexLocked(id int) int {
	for i, r := range s.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Featured picks the most-liked recipe from list; the earliest wins ties.
func Featured(list []domain.Recipe) (domain.Recipe, bool) {
	if len(list) == 0 {
		return domain.Recipe{}, false
	}
	best := 0
	for i, r := range list[1:] {
		if r.Likes > list[best].Likes {
			best = i + 1
		}
	}
	return list[best].Clone(), true
}

func cloneAll(list []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}
