package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
	"github.com/hammamikhairi/pocketchef/internal/storage"
)

// fakeAuth accepts alice/secret1 and treats "taken" as an existing user.
type fakeAuth struct {
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (domain.User, error) {
	f.calls++
	if username == "alice" && password == "secret1" {
		return domain.User{ID: 1, Username: "alice"}, nil
	}
	return domain.User{}, &domain.RemoteError{Status: 401, Message: "Invalid credentials"}
}

func (f *fakeAuth) Register(ctx context.Context, username, password, role string) (domain.User, error) {
	f.calls++
	if username == "taken" {
		return domain.User{}, &domain.RemoteError{Status: 400, Message: "User exists"}
	}
	return domain.User{ID: 9, Username: username}, nil
}

// failingStore rejects every write.
type failingStore struct{ *storage.MemoryStore }

func (failingStore) Put(string, []byte) error { return errors.New("disk full") }

func newTestSession(t *testing.T, opts ...Option) (*Session, *storage.MemoryStore, *fakeAuth) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	auth := &fakeAuth{}
	return New(auth, kv, log, opts...), kv, auth
}

func flagged() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, UserLiked: true, UserRating: 4},
		{ID: 2, UserFavorited: true},
		{ID: 3, UserLiked: true, UserFavorited: true, UserRating: 2},
	}
}

func TestLoginPersistsAndRestores(t *testing.T) {
	s, kv, _ := newTestSession(t)
	ctx := context.Background()

	u, err := s.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, s.LoggedIn())

	data, err := kv.Get(KeyCurrentUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"username":"alice"}`, string(data))

	// A fresh session over the same store picks the user back up.
	restored := New(&fakeAuth{}, kv, logger.New(logger.LevelOff, nil))
	require.NoError(t, restored.Restore())
	got, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, u, got)
}

func TestLoginFailureKeepsIdentity(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "wrong")
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Invalid credentials", re.Message)
	assert.False(t, s.LoggedIn())
}

func TestLoginTrimsCredentials(t *testing.T) {
	s, _, _ := newTestSession(t)

	u, err := s.Login(context.Background(), "  alice ", " secret1  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u, err = s.Register(context.Background(), " chef ", " secret9 ", "secret9")
	require.NoError(t, err)
	assert.Equal(t, "chef", u.Username)
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	s, _, auth := newTestSession(t)
	_, err := s.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Zero(t, auth.calls)
}

func TestRegisterTakenUsernameLeavesUserUnset(t *testing.T) {
	s, kv, _ := newTestSession(t)

	_, err := s.Register(context.Background(), "taken", "secret1", "secret1")
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.EqualError(t, errors.Unwrap(err), "User exists")
	assert.False(t, s.LoggedIn())

	_, err = kv.Get(KeyCurrentUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	s, _, auth := newTestSession(t)
	_, err := s.Register(context.Background(), "bob", "secret1", "secret2")
	assert.EqualError(t, err, "passwords do not match")
	assert.Zero(t, auth.calls)

	u, err := s.Register(context.Background(), "bob", "secret1", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRole, u.Role)
}

func TestRestoreDiscardsCorruptEntry(t *testing.T) {
	s, kv, _ := newTestSession(t)
	require.NoError(t, kv.Put(KeyCurrentUser, []byte("{not json")))

	require.NoError(t, s.Restore())
	assert.False(t, s.LoggedIn())
	_, err := kv.Get(KeyCurrentUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncDerivedStateReplaces(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	s.SetLiked(99, true)
	s.SyncDerivedState(flagged())
	s.SyncDerivedState(flagged())

	v := s.Viewer()
	assert.Equal(t, map[int]bool{1: true, 3: true}, v.Liked)
	assert.Equal(t, []int{2, 3}, v.FavoriteIDs())
	assert.Equal(t, map[int]int{1: 4, 3: 2}, v.Ratings)
	assert.False(t, s.IsLiked(99), "sync replaces rather than merges")
}

func TestSyncDerivedStateAnonymousClears(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.SyncDerivedState(flagged())
	assert.Empty(t, s.Viewer().FavoriteIDs())
	assert.Zero(t, s.RatingFor(1))
}

func TestLogoutClearsEverything(t *testing.T) {
	tests := []struct {
		name string
		prep func(*Session)
	}{
		{"empty", func(*Session) {}},
		{"synced", func(s *Session) { s.SyncDerivedState(flagged()) }},
		{"manual", func(s *Session) {
			s.SetLiked(4, true)
			s.SetFavorited(5, true)
			s.SetRating(6, 5)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv, _ := newTestSession(t)
			_, err := s.Login(context.Background(), "alice", "secret1")
			require.NoError(t, err)
			tt.prep(s)

			require.NoError(t, s.Logout())
			v := s.Viewer()
			assert.False(t, v.LoggedIn())
			assert.Empty(t, v.Liked)
			assert.Empty(t, v.Favorited)
			assert.Empty(t, v.Ratings)
			_, err = kv.Get(KeyCurrentUser)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestForget(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	s.SyncDerivedState(flagged())

	require.NoError(t, s.Forget(3))
	assert.False(t, s.IsLiked(3))
	assert.False(t, s.IsFavorited(3))
	assert.Zero(t, s.RatingFor(3))
	assert.True(t, s.IsLiked(1))
}

func TestLocalFavorites(t *testing.T) {
	s, kv, _ := newTestSession(t, WithLocalFavorites())
	_, err := s.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.SetFavorited(7, true))
	require.NoError(t, s.SetFavorited(2, true))
	data, err := kv.Get(KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, "[2,7]", string(data))

	// Server flags are ignored; the local list wins.
	s.SyncDerivedState(flagged())
	assert.Equal(t, []int{2, 7}, s.Viewer().FavoriteIDs())

	require.NoError(t, s.Forget(7))
	data, _ = kv.Get(KeyFavorites)
	assert.Equal(t, "[2]", string(data))

	require.NoError(t, s.Logout())
	_, err = kv.Get(KeyFavorites)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalFavoritesRevertOnStorageFailure(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	kv := failingStore{storage.NewMemoryStore(log)}
	s := New(&fakeAuth{}, kv, log, WithLocalFavorites())

	err := s.SetFavorited(3, true)
	assert.Error(t, err)
	assert.False(t, s.IsFavorited(3))
}

func TestFavoriteToggleTwiceRestores(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	s.SyncDerivedState(flagged())

	for _, id := range []int{1, 2} {
		before := s.IsFavorited(id)
		require.NoError(t, s.SetFavorited(id, !s.IsFavorited(id)))
		require.NoError(t, s.SetFavorited(id, !s.IsFavorited(id)))
		assert.Equal(t, before, s.IsFavorited(id), "recipe %d", id)
	}
}
