// Package apitest runs an in-memory recipe backend over HTTP for tests.
// It follows the production server's routes, status codes and error
// bodies, and records every request so tests can assert on traffic.
package apitest

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

type pair struct{ user, recipe int }

type account struct {
	domain.User
	password string
}

type comment struct {
	userID  int
	content string
}

type failure struct {
	status  int
	message string
}

// Backend is the fake server state. Safe for concurrent access.
type Backend struct {
	mu        sync.Mutex
	users     []account
	recipes   []domain.Recipe
	likes     map[pair]bool
	favorites map[pair]bool
	ratings   map[pair]int
	comments  map[int][]comment
	nextUser  int
	nextID    int

	requests []string
	failures map[string]failure
	hook     func(r *http.Request)
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		likes:     make(map[pair]bool),
		favorites: make(map[pair]bool),
		ratings:   make(map[pair]int),
		comments:  make(map[int][]comment),
		failures:  make(map[string]failure),
		nextUser:  1,
		nextID:    1,
	}
}

// Server couples a Backend with the httptest server exposing it.
type Server struct {
	*Backend
	HTTP *httptest.Server
}

// URL is the server's base URL.
func (s *Server) URL() string { return s.HTTP.URL }

// NewServer starts a seeded backend that is shut down with the test.
func NewServer(t testing.TB) *Server {
	t.Helper()
	b := NewBackend()
	b.Seed()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return &Server{Backend: b, HTTP: srv}
}

// AddUser creates an account directly, bypassing the HTTP surface.
func (b *Backend) AddUser(username, password string) domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, password, domain.DefaultRole)
}

func (b *Backend) addUserLocked(username, password, role string) domain.User {
	u := domain.User{ID: b.nextUser, Username: username, Role: role}
	b.nextUser++
	b.users = append(b.users, account{User: u, password: password})
	return u
}

// AddRecipe stores r with a fresh id and returns it.
func (b *Backend) AddRecipe(r domain.Recipe) domain.Recipe {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addRecipeLocked(r)
}

func (b *Backend) addRecipeLocked(r domain.Recipe) domain.Recipe {
	r.ID = b.nextID
	b.nextID++
	r.Likes, r.Rating = 0, 0
	r.UserLiked, r.UserFavorited, r.UserRating = false, false, 0
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	b.recipes = append(b.recipes, r)
	return r
}

// SetLikes attaches n likes from synthetic users to a recipe.
func (b *Backend) SetLikes(recipeID, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		u := b.addUserLocked(fmt.Sprintf("fan%d", b.nextUser), "x", domain.DefaultRole)
		b.likes[pair{u.ID, recipeID}] = true
	}
}

// Recipe returns the stored recipe as an anonymous viewer would see it.
func (b *Backend) Recipe(id int) (domain.Recipe, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return domain.Recipe{}, false
	}
	return b.viewLocked(b.recipes[i], nil), true
}

// Comments returns the content of every comment on a recipe.
func (b *Backend) Comments(recipeID int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.comments[recipeID] {
		out = append(out, c.content)
	}
	return out
}

// Fail makes every later request to method+path answer with status and,
// when message is non-empty, a {"error": message} body.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover removes an injected failure.
func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+path)
}

// SetHook installs a function run at the start of every request, before
// the backend lock is taken. Tests use it to hold requests in flight.
func (b *Backend) SetHook(fn func(r *http.Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = fn
}

// Requests returns "METHOD /path" for every request served so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Count returns how many requests matched method and path exactly.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == method+" "+path {
			n++
		}
	}
	return n
}

// ResetRequests clears the request log.
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *Backend) indexLocked(id int) int {
	for i, r := range b.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) userLocked(username string) *account {
	for i := range b.users {
		if b.users[i].Username == username {
			return &b.users[i]
		}
	}
	return nil
}

func (b *Backend) userByIDLocked(id int) *account {
	for i := range b.users {
		if b.users[i].ID == id {
			return &b.users[i]
		}
	}
	return nil
}

func (b *Backend) likeCountLocked(recipeID int) int {
	n := 0
	for p := range b.likes {
		if p.recipe == recipeID {
			n++
		}
	}
	return n
}

// avgRatingLocked averages every rating on a recipe, rounded to one
// decimal place. Unrated recipes average 0.
func (b *Backend) avgRatingLocked(recipeID int) float64 {
	sum, n := 0, 0
	for p, stars := range b.ratings {
		if p.recipe == recipeID {
			sum += stars
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// viewLocked decorates r with aggregates and, for a known viewer, their
// flags.
func (b *Backend) viewLocked(r domain.Recipe, viewer *account) domain.Recipe {
	out := r.Clone()
	out.Likes = b.likeCountLocked(r.ID)
	out.Rating = b.avgRatingLocked(r.ID)
	if viewer != nil {
		k := pair{viewer.ID, r.ID}
		out.UserLiked = b.likes[k]
		out.UserFavorited = b.favorites[k]
		out.UserRating = b.ratings[k]
	}
	return out
}
