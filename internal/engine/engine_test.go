package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pocketchef/internal/api"
	"github.com/hammamikhairi/pocketchef/internal/apitest"
	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/form"
	"github.com/hammamikhairi/pocketchef/internal/logger"
	"github.com/hammamikhairi/pocketchef/internal/recipe"
	"github.com/hammamikhairi/pocketchef/internal/session"
	"github.com/hammamikhairi/pocketchef/internal/storage"
	"github.com/hammamikhairi/pocketchef/internal/view"
)

// pageLog records every rendered page.
type pageLog struct {
	mu    sync.Mutex
	pages []view.Page
}

func (l *pageLog) Render(p view.Page) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages = append(l.pages, p)
}

func (l *pageLog) last() view.Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pages) == 0 {
		return view.Page{}
	}
	return l.pages[len(l.pages)-1]
}

func (l *pageLog) all() []view.Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]view.Page(nil), l.pages...)
}

// noteLog records notifications.
type noteLog struct {
	mu     sync.Mutex
	info   []string
	urgent []string
}

func (n *noteLog) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.info = append(n.info, msg)
	return nil
}

func (n *noteLog) NotifyUrgent(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urgent = append(n.urgent, msg)
	return nil
}

func (n *noteLog) lastUrgent() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.urgent) == 0 {
		return ""
	}
	return n.urgent[len(n.urgent)-1]
}

type confirmFunc func() bool

func (f confirmFunc) Confirm(context.Context, string) bool { return f() }

var (
	yes = confirmFunc(func() bool { return true })
	no  = confirmFunc(func() bool { return false })
)

type harness struct {
	eng   *Engine
	srv   *apitest.Server
	pages *pageLog
	notes *noteLog
	kv    *storage.MemoryStore
}

func newHarness(t *testing.T, opts ...session.Option) *harness {
	t.Helper()
	srv := apitest.NewServer(t)
	return newHarnessAt(t, srv, srv.URL(), opts...)
}

func newHarnessAt(t *testing.T, srv *apitest.Server, url string, opts ...session.Option) *harness {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	client := api.New(url, log, api.WithTimeout(2*time.Second))
	kv := storage.NewMemoryStore(log)
	h := &harness{srv: srv, pages: &pageLog{}, notes: &noteLog{}, kv: kv}
	h.eng = New(client, session.New(client, kv, log, opts...), recipe.NewStore(client, log), log,
		WithRenderer(h.pages), WithNotifier(h.notes))
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.eng.Start(context.Background()))
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.eng.Login(context.Background(), apitest.Alice, apitest.AlicePW))
}

func pageIDs(p view.Page) []int {
	var ids []int
	for _, s := range p.Sections {
		for _, c := range s.Cards {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestStartShowsHome(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	p := h.pages.last()
	assert.Equal(t, domain.ViewHome, p.View)
	assert.Len(t, pageIDs(p), 8)
	require.NotNil(t, p.Hero)
	assert.Equal(t, apitest.CakeID, p.Hero.ID)
}

func TestStartRestoresSession(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)

	// A second engine sharing the store comes up logged in.
	log := logger.New(logger.LevelOff, nil)
	client := api.New(h.srv.URL(), log)
	eng := New(client, session.New(client, h.kv, log), recipe.NewStore(client, log), log)
	require.NoError(t, eng.Start(context.Background()))
	assert.Equal(t, apitest.Alice, eng.Status().User)
}

func TestStartUnreachable(t *testing.T) {
	srv := apitest.NewServer(t)
	url := srv.URL()
	srv.HTTP.Close()

	h := newHarnessAt(t, srv, url)
	err := h.eng.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnreachable)
	assert.Equal(t, "Cannot connect to the recipe server. Make sure the backend is running.", h.notes.lastUrgent())
	assert.Equal(t, domain.ViewHome, h.pages.last().View)
	assert.Equal(t, "No recipes yet.", h.pages.last().Empty)
}

func TestGuardedViews(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	require.NoError(t, h.eng.ShowCategories())

	for _, show := range []func() error{h.eng.ShowFavorites, h.eng.ShowMyRecipes} {
		err := show()
		assert.ErrorIs(t, err, domain.ErrLoginRequired)
		assert.True(t, h.pages.last().Login, "login prompt rendered")
		assert.Equal(t, domain.ViewCategories, h.eng.State().View, "view unchanged")
	}
	assert.Empty(t, h.notes.urgent, "login prompt is not an error toast")

	h.login(t)
	require.NoError(t, h.eng.ShowMyRecipes())
	p := h.pages.last()
	assert.Equal(t, domain.ViewMyRecipes, p.View)
	assert.Equal(t, []int{apitest.PastaID, apitest.PancakesID, apitest.ToastID}, pageIDs(p))

	require.NoError(t, h.eng.ShowAbout())
	assert.Equal(t, domain.ViewAbout, h.pages.last().View)
}

func TestUnauthenticatedLike(t *testing.T) {
	h := newHarness(t)
	h.srv.SetLikes(apitest.BowlID, 2)
	h.start(t)

	before, err := h.eng.Recipes().Get(apitest.BowlID)
	require.NoError(t, err)
	require.Equal(t, 5, before.Likes)
	h.srv.ResetRequests()

	err = h.eng.ToggleLike(context.Background(), apitest.BowlID)
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	assert.True(t, h.pages.last().Login)
	assert.Empty(t, h.srv.Requests(), "no network call")

	after, _ := h.eng.Recipes().Get(apitest.BowlID)
	assert.Equal(t, before, after)
}

func TestLikeCommitsServerValues(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.eng.ToggleLike(ctx, apitest.PastaID))
	r, _ := h.eng.Recipes().Get(apitest.PastaID)
	assert.Equal(t, 1, r.Likes)
	assert.True(t, h.eng.Session().IsLiked(apitest.PastaID))

	require.NoError(t, h.eng.ToggleLike(ctx, apitest.PastaID))
	r, _ = h.eng.Recipes().Get(apitest.PastaID)
	assert.Equal(t, 0, r.Likes)
	assert.False(t, h.eng.Session().IsLiked(apitest.PastaID))
}

func TestLikesNeverNegative(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	seq := []int{apitest.PastaID, apitest.PastaID, apitest.PastaID, apitest.BowlID, apitest.BowlID, apitest.ToastID}
	for _, id := range seq {
		require.NoError(t, h.eng.ToggleLike(ctx, id))
		for _, r := range h.eng.Recipes().Snapshot() {
			require.GreaterOrEqual(t, r.Likes, 0, "recipe %d", r.ID)
		}
	}
}

func TestLikeFailureLeavesState(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	before := h.eng.Recipes().Snapshot()

	h.srv.Fail(http.MethodPost, "/recipes/3/like", http.StatusInternalServerError, "database locked")
	err := h.eng.ToggleLike(context.Background(), apitest.PastaID)
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "database locked", h.notes.lastUrgent())
	assert.Equal(t, before, h.eng.Recipes().Snapshot())
	assert.False(t, h.eng.Session().IsLiked(apitest.PastaID))
}

func TestFavoriteTwiceRestores(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	for _, id := range []int{apitest.CakeID, apitest.StewID} {
		before := h.eng.Session().IsFavorited(id)
		require.NoError(t, h.eng.ToggleFavorite(ctx, id))
		assert.NotEqual(t, before, h.eng.Session().IsFavorited(id))
		require.NoError(t, h.eng.ToggleFavorite(ctx, id))
		assert.Equal(t, before, h.eng.Session().IsFavorited(id))
	}
	assert.Equal(t, 2, h.srv.Count(http.MethodPost, "/recipes/2/favorite"))
}

func TestFavoriteRevertsOnFailure(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()
	require.NoError(t, h.eng.ShowRecipe(ctx, apitest.CakeID))

	h.srv.Fail(http.MethodPost, "/recipes/2/favorite", http.StatusServiceUnavailable, "try again later")
	err := h.eng.ToggleFavorite(ctx, apitest.CakeID)
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "try again later", h.notes.lastUrgent())
	assert.False(t, h.eng.Session().IsFavorited(apitest.CakeID))

	// The tentative flip was drawn before the revert.
	var sawTentative bool
	for _, p := range h.pages.all() {
		if p.Detail != nil && p.Detail.ID == apitest.CakeID && p.Detail.Favorited {
			sawTentative = true
		}
	}
	assert.True(t, sawTentative)
	last := h.pages.last()
	require.NotNil(t, last.Detail)
	assert.False(t, last.Detail.Favorited)
}

func TestFavoriteLocalMode(t *testing.T) {
	h := newHarness(t, session.WithLocalFavorites())
	h.start(t)
	h.login(t)
	h.srv.ResetRequests()

	require.NoError(t, h.eng.ToggleFavorite(context.Background(), apitest.StewID))
	assert.True(t, h.eng.Session().IsFavorited(apitest.StewID))
	assert.Empty(t, h.srv.Requests())

	data, err := h.kv.Get(session.KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, "[7]", string(data))
	assert.Contains(t, h.notes.info, "Added to favorites")
}

func TestRateWithoutReload(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	h.srv.ResetRequests()
	ctx := context.Background()

	require.NoError(t, h.eng.Rate(ctx, apitest.StewID, 4))
	assert.Equal(t, 4, h.eng.Session().RatingFor(apitest.StewID))
	r, _ := h.eng.Recipes().Get(apitest.StewID)
	assert.Equal(t, 4.0, r.Rating)
	assert.Zero(t, h.srv.Count(http.MethodGet, "/recipes"), "no full reload")
	assert.Equal(t, []string{"POST /recipes/7/rate"}, h.srv.Requests())

	err := h.eng.Rate(ctx, apitest.StewID, 6)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Equal(t, "Rating must be between 1 and 5 stars.", h.notes.lastUrgent())
	assert.Len(t, h.srv.Requests(), 1)
}

func TestRegisterTakenUsername(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	err := h.eng.Register(context.Background(), apitest.Alice, "secret1", "secret1")
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.False(t, h.eng.Session().LoggedIn())
	assert.Equal(t, "User exists", h.notes.lastUrgent())
	_, err = h.kv.Get(session.KeyCurrentUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	ctx := context.Background()

	require.NoError(t, h.eng.Register(ctx, "carol", "secret9", "secret9"))
	assert.Equal(t, "carol", h.eng.Status().User)
	assert.Contains(t, h.notes.info, "Account created! Welcome, carol!")

	require.NoError(t, h.eng.Logout(ctx))
	err := h.eng.Login(ctx, "carol", "wrong")
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "Invalid credentials", h.notes.lastUrgent())
}

func TestLogoutClearsDerivedState(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.eng.ToggleLike(ctx, apitest.CakeID))
	require.NoError(t, h.eng.ToggleFavorite(ctx, apitest.CakeID))
	require.NoError(t, h.eng.Rate(ctx, apitest.CakeID, 5))
	require.NoError(t, h.eng.ShowFavorites())

	require.NoError(t, h.eng.Logout(ctx))
	v := h.eng.Session().Viewer()
	assert.False(t, v.LoggedIn())
	assert.Empty(t, v.Liked)
	assert.Empty(t, v.Favorited)
	assert.Empty(t, v.Ratings)
	assert.Equal(t, domain.ViewHome, h.eng.State().View)
}

func TestLoginRebuildsFromServerFlags(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()
	require.NoError(t, h.eng.ToggleLike(ctx, apitest.CakeID))
	require.NoError(t, h.eng.Rate(ctx, apitest.StewID, 3))
	require.NoError(t, h.eng.Logout(ctx))

	h.login(t)
	assert.True(t, h.eng.Session().IsLiked(apitest.CakeID))
	assert.Equal(t, 3, h.eng.Session().RatingFor(apitest.StewID))
}

func TestDeleteRecipe(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.eng.ToggleLike(ctx, apitest.PastaID))
	require.NoError(t, h.eng.ToggleFavorite(ctx, apitest.PastaID))
	require.NoError(t, h.eng.Rate(ctx, apitest.PastaID, 5))

	// Declined: nothing changes.
	err := h.eng.DeleteRecipe(ctx, apitest.PastaID, no)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Zero(t, h.srv.Count(http.MethodDelete, "/recipes/3"))
	_, err = h.eng.Recipes().Get(apitest.PastaID)
	require.NoError(t, err)

	require.NoError(t, h.eng.DeleteRecipe(ctx, apitest.PastaID, yes))
	_, err = h.eng.Recipes().Get(apitest.PastaID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	s := h.eng.Session()
	assert.False(t, s.IsLiked(apitest.PastaID))
	assert.False(t, s.IsFavorited(apitest.PastaID))
	assert.Zero(t, s.RatingFor(apitest.PastaID))
	assert.Contains(t, h.notes.info, "Recipe deleted")
}

func TestDeleteSomeoneElsesRecipe(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)

	err := h.eng.DeleteRecipe(context.Background(), apitest.CakeID, yes)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Zero(t, h.srv.Count(http.MethodDelete, "/recipes/2"))
	assert.Equal(t, "You can only change your own recipes.", h.notes.lastUrgent())
}

func TestCreateAndEditRecipe(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	bad := domain.RecipeForm{Title: "Soup", Category: "Soups", PrepTime: 10, Ingredients: []string{"water"}, Steps: []string{"boil"}}
	_, err := h.eng.CreateRecipe(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Zero(t, h.srv.Count(http.MethodPost, "/recipes"))

	good := domain.RecipeForm{Title: "Tomato Soup", Category: "main course", PrepTime: 30, Ingredients: []string{"tomatoes"}, Steps: []string{"simmer"}}
	created, err := h.eng.CreateRecipe(ctx, good)
	require.NoError(t, err)
	assert.Equal(t, 9, h.eng.Recipes().Len())
	stored, err := h.eng.Recipes().Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMainCourse, stored.Category)
	assert.Equal(t, apitest.Alice, stored.Author)

	f, err := h.eng.EditForm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", f.Title)

	f.Title = "Roast Tomato Soup"
	require.NoError(t, h.eng.UpdateRecipe(ctx, created.ID, f))
	stored, _ = h.eng.Recipes().Get(created.ID)
	assert.Equal(t, "Roast Tomato Soup", stored.Title)

	_, err = h.eng.EditForm(ctx, apitest.CakeID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCommentRefreshesDetail(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.eng.ShowRecipe(ctx, apitest.CakeID))
	require.NoError(t, h.eng.Comment(ctx, apitest.CakeID, "Rich and gooey"))

	p := h.pages.last()
	require.NotNil(t, p.Detail)
	require.Len(t, p.Detail.Comments, 1)
	assert.Equal(t, domain.Comment{RecipeID: apitest.CakeID, User: apitest.Alice, Content: "Rich and gooey"}, p.Detail.Comments[0])

	err := h.eng.Comment(ctx, apitest.CakeID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Equal(t, []string{"Rich and gooey"}, h.srv.Comments(apitest.CakeID))
}

func TestShowRecipeUnknown(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	err := h.eng.ShowRecipe(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Recipe not found.", h.notes.lastUrgent())
}

func TestFilters(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.eng.SetSearch("veg")
	assert.Equal(t, []int{apitest.BowlID, apitest.StirFryID, apitest.StewID}, pageIDs(h.pages.last()))
	assert.Equal(t, `search "veg"`, h.eng.Status().Filter)

	h.eng.SetMaxPrep(20)
	assert.Equal(t, []int{apitest.StirFryID}, pageIDs(h.pages.last()))

	h.eng.ClearFilters()
	h.eng.SetQuickFilter(recipe.FilterQuick)
	assert.Equal(t, []int{apitest.BowlID, apitest.PastaID, apitest.PancakesID, apitest.StirFryID, apitest.ToastID}, pageIDs(h.pages.last()))

	h.eng.SetQuickFilter(recipe.FilterAll)
	h.eng.SetCategory(domain.CategoryBreakfast)
	assert.Equal(t, []int{apitest.PancakesID, apitest.ToastID}, pageIDs(h.pages.last()))

	// Filters carry across views.
	require.NoError(t, h.eng.ShowCategories())
	assert.Equal(t, []int{apitest.PancakesID, apitest.ToastID}, pageIDs(h.pages.last()))
}

// holdRequests blocks matching requests until release is closed and
// reports each arrival.
func holdRequests(h *harness, method, path string) (arrived chan struct{}, release chan struct{}) {
	arrived = make(chan struct{}, 4)
	release = make(chan struct{})
	h.srv.SetHook(func(r *http.Request) {
		if r.Method == method && r.URL.Path == path {
			arrived <- struct{}{}
			<-release
		}
	})
	return arrived, release
}

func TestConcurrentLikesShareOneRequest(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	arrived, release := holdRequests(h, http.MethodPost, "/recipes/3/like")

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.eng.ToggleLike(ctx, apitest.PastaID)
		}(i)
	}
	<-arrived
	require.Eventually(t, func() bool { return h.eng.callersFor("like:3") == 2 },
		2*time.Second, 5*time.Millisecond, "second like never joined")
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, h.srv.Count(http.MethodPost, "/recipes/3/like"))
	assert.True(t, h.eng.Session().IsLiked(apitest.PastaID), "shared result, not two toggles")
}

func pastaForm(title string, prep int) domain.RecipeForm {
	return domain.RecipeForm{
		Title:       title,
		Category:    domain.CategoryQuick,
		PrepTime:    prep,
		Ingredients: []string{"200g spaghetti", "4 cloves garlic"},
		Steps:       []string{"Boil the pasta.", "Toss with garlic."},
	}
}

func TestConcurrentDifferentEditsAreBothSent(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	arrived, release := holdRequests(h, http.MethodPut, "/recipes/3")

	ctx := context.Background()
	forms := []domain.RecipeForm{pastaForm("First edit", 15), pastaForm("Second edit", 22)}
	errs := make([]error, len(forms))
	var wg sync.WaitGroup
	for i := range forms {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.eng.UpdateRecipe(ctx, apitest.PastaID, forms[i])
		}(i)
	}
	<-arrived
	<-arrived
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 2, h.srv.Count(http.MethodPut, "/recipes/3"))
	stored, ok := h.srv.Recipe(apitest.PastaID)
	require.True(t, ok)
	assert.Contains(t, []string{"First edit", "Second edit"}, stored.Title)
}

func TestConcurrentIdenticalEditsShareOneRequest(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.login(t)
	arrived, release := holdRequests(h, http.MethodPut, "/recipes/3")

	ctx := context.Background()
	f := pastaForm("Same edit", 18)
	key := fmt.Sprintf("edit:%d:%s", apitest.PastaID, formKey(form.Normalize(f)))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.eng.UpdateRecipe(ctx, apitest.PastaID, f)
		}(i)
	}
	<-arrived
	require.Eventually(t, func() bool { return h.eng.callersFor(key) == 2 },
		2*time.Second, 5*time.Millisecond, "second edit never joined")
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, h.srv.Count(http.MethodPut, "/recipes/3"))
	assert.Zero(t, h.eng.callersFor(key))
}

func TestFormKeyDependsOnContent(t *testing.T) {
	a := formKey(pastaForm("Soup", 10))
	assert.Equal(t, a, formKey(pastaForm("Soup", 10)))
	assert.NotEqual(t, a, formKey(pastaForm("Soup", 11)))
	assert.NotEqual(t, a, formKey(pastaForm("Stew", 10)))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&domain.RemoteError{Status: 400, Message: "User exists"}, "User exists"},
		{errors.Join(errors.New("ctx"), domain.ErrUnreachable), "Cannot connect to the recipe server. Make sure the backend is running."},
		{context.DeadlineExceeded, "The recipe server took too long to answer."},
		{domain.ErrCancelled, "Cancelled."},
		{domain.ErrLoginRequired, "Please log in first."},
		{domain.ErrNotFound, "Recipe not found."},
		{errors.New("boom"), "Something went wrong: boom"},
	}
	for _, tt := range tests {
		if got := Describe(tt.err); got != tt.want {
			t.Fatalf("Describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestShareCopiesLink(t *testing.T) {
	var copied []string
	srv := apitest.NewServer(t)
	h := newHarnessAt(t, srv, srv.URL())
	h.eng = New(h.eng.api, h.eng.session, h.eng.recipes, h.eng.log,
		WithRenderer(h.pages), WithNotifier(h.notes),
		WithShare("http://chef.local/", func(s string) error {
			copied = append(copied, s)
			return nil
		}))
	h.start(t)

	link, err := h.eng.Share(context.Background(), apitest.StewID)
	require.NoError(t, err)
	assert.Equal(t, "http://chef.local/#recipe-7", link)
	assert.Equal(t, []string{link}, copied)
	assert.Contains(t, h.notes.info, "Recipe link copied to clipboard!")
}

func TestShareWithoutClipboardShowsLink(t *testing.T) {
	srv := apitest.NewServer(t)
	h := newHarnessAt(t, srv, srv.URL())
	h.eng = New(h.eng.api, h.eng.session, h.eng.recipes, h.eng.log,
		WithRenderer(h.pages), WithNotifier(h.notes),
		WithShare("http://chef.local", func(string) error { return errors.New("no clipboard") }))
	h.start(t)

	_, err := h.eng.Share(context.Background(), apitest.CakeID)
	require.NoError(t, err)
	assert.Contains(t, h.notes.info, "Recipe link: http://chef.local/#recipe-2")

	_, err = h.eng.Share(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Recipe not found.", h.notes.lastUrgent())
}
