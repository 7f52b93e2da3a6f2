package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/pocketchef/internal/api"
	"github.com/hammamikhairi/pocketchef/internal/apitest"
	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

func newTestStore(t *testing.T) (*Store, *apitest.Server) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	srv := apitest.NewServer(t)
	store := NewStore(api.New(srv.URL(), log), log)
	if _, err := store.Reload(context.Background(), ""); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return store, srv
}

func TestReloadIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Reload(ctx, apitest.Alice)
	if err != nil {
		t.Fatalf("first reload: %v", err)
	}
	second, err := store.Reload(ctx, apitest.Alice)
	if err != nil {
		t.Fatalf("second reload: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reload not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(second, store.Snapshot()); diff != "" {
		t.Fatalf("snapshot differs from reload result:\n%s", diff)
	}
}

func TestReloadKeepsServerOrder(t *testing.T) {
	store, _ := newTestStore(t)
	var ids []int
	for _, r := range store.Snapshot() {
		ids = append(ids, r.ID)
	}
	want := []int{1, 2, 3, 4, 5, 6, 7, 8}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReloadFailureLeavesStore(t *testing.T) {
	store, srv := newTestStore(t)
	before := store.Snapshot()

	srv.Fail("GET", "/recipes", 500, "boom")
	if _, err := store.Reload(context.Background(), ""); err == nil {
		t.Fatal("expected reload error")
	}
	if diff := cmp.Diff(before, store.Snapshot()); diff != "" {
		t.Fatalf("store changed on failed reload:\n%s", diff)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	store, _ := newTestStore(t)
	snap := store.Snapshot()
	snap[0].Title = "changed"
	snap[0].Ingredients[0] = "changed"

	r, err := store.Get(snap[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.Title == "changed" || r.Ingredients[0] == "changed" {
		t.Fatal("snapshot aliases store memory")
	}
}

func TestGet(t *testing.T) {
	store, _ := newTestStore(t)
	tests := []struct {
		id      int
		title   string
		wantErr error
	}{
		{apitest.PastaID, "Garlic Butter Pasta", nil},
		{apitest.StewID, "Beef Stew", nil},
		{99, "", domain.ErrNotFound},
	}
	for _, tt := range tests {
		r, err := store.Get(tt.id)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("Get(%d): expected %v, got %v", tt.id, tt.wantErr, err)
		}
		if r.Title != tt.title {
			t.Fatalf("Get(%d): expected %q, got %q", tt.id, tt.title, r.Title)
		}
	}
}

func TestFeaturedFirstWinsTies(t *testing.T) {
	store, _ := newTestStore(t)
	r, ok := Featured(store.Snapshot())
	if !ok {
		t.Fatal("expected a featured recipe")
	}
	// Cake and alfredo both have 5 likes; cake comes first.
	if r.ID != apitest.CakeID {
		t.Fatalf("expected cake, got %d (%s)", r.ID, r.Title)
	}

	if _, ok := Featured(nil); ok {
		t.Fatal("empty list has no featured recipe")
	}
}

func TestByCategoryAndAuthor(t *testing.T) {
	store, _ := newTestStore(t)

	groups := ByCategory(store.Snapshot())
	if n := len(groups[domain.CategoryVegetarian]); n != 2 {
		t.Fatalf("expected 2 vegetarian recipes, got %d", n)
	}
	if n := len(groups[domain.CategoryQuick]); n != 1 {
		t.Fatalf("expected 1 quick recipe, got %d", n)
	}

	var ids []int
	for _, r := range ByAuthor(store.Snapshot(), apitest.Alice) {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]int{apitest.PastaID, apitest.PancakesID, apitest.ToastID}, ids); diff != "" {
		t.Fatalf("ByAuthor mismatch:\n%s", diff)
	}
	if got := ByAuthor(store.Snapshot(), ""); got != nil {
		t.Fatalf("anonymous author should match nothing, got %d", len(got))
	}
}

func TestPatches(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetLikes(apitest.BowlID, -4); err != nil {
		t.Fatalf("set likes: %v", err)
	}
	r, _ := store.Get(apitest.BowlID)
	if r.Likes != 0 {
		t.Fatalf("likes must clamp at 0, got %d", r.Likes)
	}

	if err := store.SetRating(apitest.StewID, 4.5); err != nil {
		t.Fatalf("set rating: %v", err)
	}
	r, _ = store.Get(apitest.StewID)
	if r.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", r.Rating)
	}

	if err := store.Remove(apitest.PastaID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(apitest.PastaID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected removed recipe to be gone, got %v", err)
	}
	if store.Len() != 7 {
		t.Fatalf("expected 7 recipes, got %d", store.Len())
	}

	if err := store.SetLikes(99, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
