// Package engine owns the application state: the active view, the
// filters, the session and the recipe store. Every user action goes
// through it, and every state change ends with a re-render of the
// current view so all screens stay consistent.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
	"github.com/hammamikhairi/pocketchef/internal/recipe"
	"github.com/hammamikhairi/pocketchef/internal/session"
	"github.com/hammamikhairi/pocketchef/internal/view"
)

// Renderer draws a page.
type Renderer interface {
	Render(p view.Page)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(p view.Page)

// Render calls f(p).
func (f RenderFunc) Render(p view.Page) { f(p) }

// AppState is the engine's view of the screen.
type AppState struct {
	View     domain.View
	Criteria recipe.Criteria
	// Detail is the id of the recipe being shown in full, 0 for none.
	Detail int
}

// Status is the summary shown in the status bar.
type Status struct {
	User   string
	View   domain.View
	Filter string
}

// Option configures the engine.
type Option func(*Engine)

// WithRenderer sets where pages are drawn.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// CopyFunc puts text on the system clipboard.
type CopyFunc func(text string) error

// WithShare sets the base of recipe links and how they are copied. A nil
// copy function means links are only shown.
func WithShare(base string, copyFn CopyFunc) Option {
	return func(e *Engine) {
		e.shareBase = strings.TrimRight(base, "/")
		e.copyLink = copyFn
	}
}

// WithNotifier sets where success and failure messages go.
func WithNotifier(n domain.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// Engine is the single owner of application state. Safe for concurrent
// use; identical in-flight actions share one backend call.
type Engine struct {
	api      domain.RecipeAPI
	session  *session.Session
	recipes  *recipe.Store
	renderer Renderer
	notifier domain.Notifier
	log      *logger.Logger
	flights  singleflight.Group

	shareBase string
	copyLink  CopyFunc

	flightMu sync.Mutex
	callers  map[string]int

	mu       sync.Mutex
	state    AppState
	comments []domain.Comment
}

// New creates an engine on the home view.
func New(api domain.RecipeAPI, sess *session.Session, store *recipe.Store, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		api:      api,
		session:  sess,
		recipes:  store,
		renderer: RenderFunc(func(view.Page) {}),
		notifier: nopNotifier{},
		log:      log,
		callers:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session exposes the session for read-only callers such as the CLI.
func (e *Engine) Session() *session.Session { return e.session }

// Recipes exposes the recipe store.
func (e *Engine) Recipes() *recipe.Store { return e.recipes }

// State returns a copy of the current app state.
func (e *Engine) State() AppState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Status summarizes who is logged in, where they are and what filters apply.
func (e *Engine) Status() Status {
	st := e.State()
	s := Status{User: e.session.Username(), View: st.View}
	if st.Criteria.Active() {
		s.Filter = st.Criteria.String()
	}
	return s
}

// Start restores the persisted session, loads recipes and shows home.
// A failed load still shows the (empty) home view.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.session.Restore(); err != nil {
		e.log.Warn("restore session: %v", err)
	}
	err := e.reload(ctx)
	e.ShowHome()
	if err != nil {
		return e.fail(ctx, err)
	}
	return nil
}

// Reload refetches every recipe, rebuilds the derived session state and
// re-renders. Concurrent reloads share one request.
func (e *Engine) Reload(ctx context.Context) error {
	if err := e.reload(ctx); err != nil {
		return e.fail(ctx, err)
	}
	e.RerenderCurrentView()
	return nil
}

func (e *Engine) reload(ctx context.Context) error {
	user := e.session.Username()
	_, err, shared := e.flights.Do("reload:"+user, func() (any, error) {
		list, err := e.recipes.Reload(ctx, user)
		if err != nil {
			return nil, err
		}
		e.session.SyncDerivedState(list)
		e.log.Debug("loaded %d recipes, favorites %v", e.recipes.Len(), e.session.Viewer().FavoriteIDs())
		return nil, nil
	})
	if shared {
		e.log.Debug("reload shared with an in-flight request")
	}
	return err
}

// reloadAfter refreshes after a successful mutation. A failure here is
// reported but does not undo the mutation.
func (e *Engine) reloadAfter(ctx context.Context) {
	if err := e.reload(ctx); err != nil {
		e.fail(ctx, err)
	}
	e.RerenderCurrentView()
}

// input collects everything a list page renders from.
func (e *Engine) input(st AppState) view.Input {
	return view.Input{
		Recipes:  e.recipes.Snapshot(),
		Viewer:   e.session.Viewer(),
		Criteria: st.Criteria,
	}
}

// RerenderCurrentView draws whatever the active view is. When a recipe
// is open in full it is redrawn instead, with its cached comments.
func (e *Engine) RerenderCurrentView() {
	e.mu.Lock()
	st := e.state
	comments := append([]domain.Comment(nil), e.comments...)
	e.mu.Unlock()

	if st.Detail != 0 {
		r, err := e.recipes.Get(st.Detail)
		if err == nil {
			e.renderer.Render(view.DetailPage(r, comments, e.session.Viewer()))
			return
		}
		e.closeDetail(st.Detail)
	}
	e.renderer.Render(view.Render(st.View, e.input(st)))
}

func (e *Engine) closeDetail(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Detail == id {
		e.state.Detail = 0
		e.comments = nil
	}
}

// requireLogin returns the current user, or shows the login prompt and
// returns ErrLoginRequired.
func (e *Engine) requireLogin(reason string) (domain.User, error) {
	u, ok := e.session.User()
	if !ok {
		e.renderer.Render(view.LoginPrompt(reason))
		return domain.User{}, domain.ErrLoginRequired
	}
	return u, nil
}

// fail logs err and shows it to the user. It returns err so handlers can
// end with `return e.fail(ctx, err)`.
func (e *Engine) fail(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrLoginRequired) {
		return err
	}
	e.log.Warn("%v", err)
	if nerr := e.notifier.NotifyUrgent(ctx, Describe(err)); nerr != nil {
		e.log.Error("notify: %v", nerr)
	}
	return err
}

func (e *Engine) notify(ctx context.Context, format string, args ...any) {
	if err := e.notifier.Notify(ctx, fmt.Sprintf(format, args...)); err != nil {
		e.log.Error("notify: %v", err)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) error       { return nil }
func (nopNotifier) NotifyUrgent(context.Context, string) error { return nil }
