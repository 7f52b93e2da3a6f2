// Package session holds the signed-in identity and the state derived from
// it: which recipes the user liked, favorited, and rated. The identity is
// persisted so it survives restarts; the derived sets are rebuilt from the
// server on every reload.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/form"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

// Storage keys.
const (
	KeyCurrentUser = "currentUser"
	KeyFavorites   = "favorites"
)

// Authenticator is the part of the backend the session talks to.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
	Register(ctx context.Context, username, password, role string) (domain.User, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLocalFavorites keeps favorites in the local store instead of on the
// server. The favorites list is never sent to the backend in this mode.
func WithLocalFavorites() Option {
	return func(s *Session) { s.localFavorites = true }
}

// Session is the process-wide viewer state. Safe for concurrent access.
type Session struct {
	auth           Authenticator
	kv             domain.KeyValueStore
	log            *logger.Logger
	localFavorites bool

	mu        sync.RWMutex
	user      *domain.User
	liked     map[int]bool
	favorited map[int]bool
	ratings   map[int]int
}

// New creates an anonymous session.
func New(auth Authenticator, kv domain.KeyValueStore, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		auth:      auth,
		kv:        kv,
		log:       log,
		liked:     make(map[int]bool),
		favorited: make(map[int]bool),
		ratings:   make(map[int]int),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// LocalFavorites reports whether favorites live only in local storage.
func (s *Session) LocalFavorites() bool { return s.localFavorites }

// Restore loads the persisted identity. A corrupt entry is discarded and
// the session starts anonymous.
func (s *Session) Restore() error {
	data, err := s.kv.Get(KeyCurrentUser)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Debug("no persisted user")
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: restore: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil || u.Username == "" {
		s.log.Warn("discarding unreadable persisted user: %v", err)
		if err := s.kv.Delete(KeyCurrentUser); err != nil {
			return fmt.Errorf("session: discard user: %w", err)
		}
		return nil
	}

	favs := s.loadLocalFavorites()

	s.mu.Lock()
	s.user = &u
	s.clearLocked()
	for _, id := range favs {
		s.favorited[id] = true
	}
	s.mu.Unlock()

	s.log.Info("restored session for %s", u.Username)
	return nil
}

// Login checks credentials with the backend and makes that user current.
// Both fields are trimmed before use. On failure the previous identity is
// kept.
func (s *Session) Login(ctx context.Context, username, password string) (domain.User, error) {
	c := form.Credentials(username, password)
	username, password = c[0], c[1]
	if err := form.Login(username, password); err != nil {
		return domain.User{}, err
	}
	u, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("session: login: %w", err)
	}
	if err := s.setUser(u); err != nil {
		return domain.User{}, err
	}
	s.log.Info("logged in as %s", u.Username)
	return u, nil
}

// Register creates an account and makes it current. A taken username
// leaves the session as it was.
func (s *Session) Register(ctx context.Context, username, password, confirm string) (domain.User, error) {
	c := form.Credentials(username, password, confirm)
	username, password, confirm = c[0], c[1], c[2]
	if err := form.Registration(username, password, confirm); err != nil {
		return domain.User{}, err
	}
	u, err := s.auth.Register(ctx, username, password, domain.DefaultRole)
	if err != nil {
		return domain.User{}, fmt.Errorf("session: register: %w", err)
	}
	if u.Role == "" {
		u.Role = domain.DefaultRole
	}
	if err := s.setUser(u); err != nil {
		return domain.User{}, err
	}
	s.log.Info("registered %s", u.Username)
	return u, nil
}

// setUser persists u, then swaps it in. Persisting first means a storage
// failure leaves both memory and disk on the old identity.
func (s *Session) setUser(u domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := s.kv.Put(KeyCurrentUser, data); err != nil {
		return fmt.Errorf("session: persist user: %w", err)
	}

	favs := s.loadLocalFavorites()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.clearLocked()
	for _, id := range favs {
		s.favorited[id] = true
	}
	return nil
}

// Logout clears the identity, every derived set, and the persisted keys.
// The in-memory state is cleared even when storage fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	name := ""
	if s.user != nil {
		name = s.user.Username
	}
	s.user = nil
	s.clearLocked()
	s.mu.Unlock()

	var errs []error
	if err := s.kv.Delete(KeyCurrentUser); err != nil {
		errs = append(errs, err)
	}
	if s.localFavorites {
		if err := s.kv.Delete(KeyFavorites); err != nil {
			errs = append(errs, err)
		}
	}
	if name != "" {
		s.log.Info("logged out %s", name)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}

// SyncDerivedState rebuilds the liked, favorited and rating sets from the
// viewer flags of a freshly loaded recipe list. The previous sets are
// replaced, never merged. Anonymous sessions end up with empty sets.
func (s *Session) SyncDerivedState(recipes []domain.Recipe) {
	var favs []int
	if s.localFavorites {
		favs = s.loadLocalFavorites()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	if s.user == nil {
		return
	}
	for _, r := range recipes {
		if r.UserLiked {
			s.liked[r.ID] = true
		}
		if r.UserRating > 0 {
			s.ratings[r.ID] = r.UserRating
		}
		if !s.localFavorites && r.UserFavorited {
			s.favorited[r.ID] = true
		}
	}
	for _, id := range favs {
		s.favorited[id] = true
	}
}

func (s *Session) clearLocked() {
	s.liked = make(map[int]bool)
	s.favorited = make(map[int]bool)
	s.ratings = make(map[int]int)
}

// User returns the current identity.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a user is signed in.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Username returns the current username, or "" when anonymous.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

func (s *Session) IsLiked(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liked[id]
}

func (s *Session) IsFavorited(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorited[id]
}

// RatingFor returns the user's stars for a recipe, 0 when unrated.
func (s *Session) RatingFor(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratings[id]
}

// Viewer returns a copy of the session for rendering.
func (s *Session) Viewer() domain.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := domain.Viewer{
		Liked:     make(map[int]bool, len(s.liked)),
		Favorited: make(map[int]bool, len(s.favorited)),
		Ratings:   make(map[int]int, len(s.ratings)),
	}
	if s.user != nil {
		u := *s.user
		v.User = &u
	}
	for id := range s.liked {
		v.Liked[id] = true
	}
	for id := range s.favorited {
		v.Favorited[id] = true
	}
	for id, stars := range s.ratings {
		v.Ratings[id] = stars
	}
	return v
}

// SetLiked records the server-confirmed like state for a recipe.
func (s *Session) SetLiked(id int, liked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setFlag(s.liked, id, liked)
}

// SetFavorited updates favorite membership. With local favorites the
// list is persisted, and on a storage failure the change is undone.
func (s *Session) SetFavorited(id int, favorited bool) error {
	s.mu.Lock()
	prev := s.favorited[id]
	setFlag(s.favorited, id, favorited)
	ids := sortedIDs(s.favorited)
	s.mu.Unlock()

	if !s.localFavorites {
		return nil
	}
	if err := s.storeLocalFavorites(ids); err != nil {
		s.mu.Lock()
		setFlag(s.favorited, id, prev)
		s.mu.Unlock()
		return err
	}
	return nil
}

// SetRating records the user's stars for a recipe; 0 clears it.
func (s *Session) SetRating(id, stars int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stars <= 0 {
		delete(s.ratings, id)
		return
	}
	s.ratings[id] = stars
}

// Forget drops a recipe from every derived set, used after a delete.
func (s *Session) Forget(id int) error {
	s.mu.Lock()
	_, wasFav := s.favorited[id]
	delete(s.liked, id)
	delete(s.favorited, id)
	delete(s.ratings, id)
	ids := sortedIDs(s.favorited)
	s.mu.Unlock()

	if s.localFavorites && wasFav {
		return s.storeLocalFavorites(ids)
	}
	return nil
}

func (s *Session) loadLocalFavorites() []int {
	if !s.localFavorites {
		return nil
	}
	data, err := s.kv.Get(KeyFavorites)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("reading local favorites: %v", err)
		}
		return nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		s.log.Warn("discarding unreadable local favorites: %v", err)
		return nil
	}
	return ids
}

func (s *Session) storeLocalFavorites(ids []int) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("session: encode favorites: %w", err)
	}
	if err := s.kv.Put(KeyFavorites, data); err != nil {
		return fmt.Errorf("session: persist favorites: %w", err)
	}
	return nil
}

func setFlag(m map[int]bool, id int, on bool) {
	if on {
		m[id] = true
		return
	}
	delete(m, id)
}

func sortedIDs(m map[int]bool) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
