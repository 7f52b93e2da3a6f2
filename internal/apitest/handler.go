package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

const maxUploadBytes = 16 << 20

var allowedImageExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".avif": true,
}

// Handler returns the backend's HTTP routes.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, b.record)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Pocket Chef API running"))
	})
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", b.listRecipes)
		r.Post("/", b.createRecipe)
		r.Route("/{recipeID}", func(r chi.Router) {
			r.Put("/", b.updateRecipe)
			r.Delete("/", b.deleteRecipe)
			r.Post("/like", b.toggleLike)
			r.Post("/favorite", b.toggleFavorite)
			r.Post("/rate", b.rate)
		})
	})
	r.Get("/comments/{recipeID}", b.listComments)
	r.Post("/comments/{recipeID}", b.addComment)
	r.Post("/register", b.register)
	r.Post("/login", b.login)
	return r
}

// record logs the request, runs the hook, and applies injected failures.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		hook := b.hook
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if hook != nil {
			hook(r)
		}
		if failing {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func recipeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "recipeID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return 0, false
	}
	return id, true
}

func (b *Backend) listRecipes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var viewer *account
	if name := r.URL.Query().Get("username"); name != "" {
		viewer = b.userLocked(name)
	}
	out := make([]domain.Recipe, 0, len(b.recipes))
	for _, rec := range b.recipes {
		out = append(out, b.viewLocked(rec, viewer))
	}
	writeJSON(w, http.StatusOK, out)
}

// recipeInput is the create/update body in either encoding.
type recipeInput struct {
	Title       string          `json:"title"`
	Category    domain.Category `json:"category"`
	PrepTime    int             `json:"prepTime"`
	Image       string          `json:"image"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Author      string          `json:"author"`
}

func (b *Backend) createRecipe(w http.ResponseWriter, r *http.Request) {
	var in recipeInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var status int
		var msg string
		in, status, msg = parseMultipart(r)
		if status != 0 {
			writeError(w, status, msg)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rec := b.addRecipeLocked(domain.Recipe{
		Title:       in.Title,
		Category:    in.Category,
		PrepTime:    in.PrepTime,
		Image:       in.Image,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		Author:      in.Author,
	})
	writeJSON(w, http.StatusCreated, b.viewLocked(rec, nil))
}

func parseMultipart(r *http.Request) (recipeInput, int, string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return recipeInput{}, http.StatusBadRequest, "Invalid form"
	}
	prep, _ := strconv.Atoi(r.FormValue("prepTime"))
	in := recipeInput{
		Title:       r.FormValue("title"),
		Category:    domain.Category(r.FormValue("category")),
		PrepTime:    prep,
		Image:       r.FormValue("image"),
		Ingredients: parseListField(r.FormValue("ingredients")),
		Steps:       parseListField(r.FormValue("steps")),
		Author:      r.FormValue("author"),
	}
	if _, hdr, err := r.FormFile("image"); err == nil && hdr.Filename != "" {
		if !allowedImageExt[strings.ToLower(filepath.Ext(hdr.Filename))] {
			return recipeInput{}, http.StatusBadRequest, "Invalid file type"
		}
		in.Image = fmt.Sprintf("/uploads/%s_%s", strings.ReplaceAll(uuid.NewString(), "-", ""), filepath.Base(hdr.Filename))
	}
	return in, 0, ""
}

// parseListField accepts a JSON array or a newline/comma separated list.
func parseListField(v string) []string {
	if v == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(v), &list); err == nil {
		return list
	}
	out := []string{}
	for _, part := range strings.Split(strings.ReplaceAll(v, ",", "\n"), "\n") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ownedLocked finds the recipe and checks the caller wrote it.
func (b *Backend) ownedLocked(w http.ResponseWriter, r *http.Request, id int) (int, bool) {
	i := b.indexLocked(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return 0, false
	}
	if b.recipes[i].Author != r.URL.Query().Get("username") {
		writeError(w, http.StatusForbidden, "You can only modify your own recipes")
		return 0, false
	}
	return i, true
}

func (b *Backend) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	var in recipeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.ownedLocked(w, r, id)
	if !ok {
		return
	}
	rec := &b.recipes[i]
	rec.Title = in.Title
	rec.Category = in.Category
	rec.PrepTime = in.PrepTime
	rec.Image = in.Image
	rec.Ingredients = append([]string{}, in.Ingredients...)
	rec.Steps = append([]string{}, in.Steps...)
	writeJSON(w, http.StatusOK, b.viewLocked(*rec, b.userLocked(rec.Author)))
}

func (b *Backend) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.ownedLocked(w, r, id)
	if !ok {
		return
	}
	b.recipes = append(b.recipes[:i], b.recipes[i+1:]...)
	for _, m := range []map[pair]bool{b.likes, b.favorites} {
		for p := range m {
			if p.recipe == id {
				delete(m, p)
			}
		}
	}
	for p := range b.ratings {
		if p.recipe == id {
			delete(b.ratings, p)
		}
	}
	delete(b.comments, id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// viewerAction resolves the recipe id and the {username} body shared by
// the like, favorite and rate endpoints.
func (b *Backend) viewerAction(w http.ResponseWriter, r *http.Request, body any) (int, bool) {
	id, ok := recipeID(w, r)
	if !ok {
		return 0, false
	}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return 0, false
	}
	return id, true
}

func (b *Backend) toggleLike(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	id, ok := b.viewerAction(w, r, &body)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userLocked(body.Username)
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if b.indexLocked(id) < 0 {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	k := pair{u.ID, id}
	status := "liked"
	if b.likes[k] {
		delete(b.likes, k)
		status = "unliked"
	} else {
		b.likes[k] = true
	}
	writeJSON(w, http.StatusOK, domain.LikeResult{Status: status, Likes: b.likeCountLocked(id)})
}

func (b *Backend) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	id, ok := b.viewerAction(w, r, &body)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userLocked(body.Username)
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if b.indexLocked(id) < 0 {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	k := pair{u.ID, id}
	status := "added"
	if b.favorites[k] {
		delete(b.favorites, k)
		status = "removed"
	} else {
		b.favorites[k] = true
	}
	writeJSON(w, http.StatusOK, domain.FavoriteResult{Status: status})
}

func (b *Backend) rate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Stars    int    `json:"stars"`
	}
	id, ok := b.viewerAction(w, r, &body)
	if !ok {
		return
	}
	if body.Stars < 1 || body.Stars > 5 {
		writeError(w, http.StatusBadRequest, "Rating must be 1-5")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userLocked(body.Username)
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if b.indexLocked(id) < 0 {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	b.ratings[pair{u.ID, id}] = body.Stars
	writeJSON(w, http.StatusOK, domain.RatingResult{AvgRating: b.avgRatingLocked(id), UserRating: body.Stars})
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range b.comments[id] {
		name := ""
		if u := b.userByIDLocked(c.userID); u != nil {
			name = u.Username
		}
		out = append(out, domain.Comment{User: name, Content: c.content})
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) addComment(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	var body struct {
		UserID  int    `json:"user_id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		writeError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userByIDLocked(body.UserID)
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if b.indexLocked(id) < 0 {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	b.comments[id] = append(b.comments[id], comment{userID: u.ID, content: body.Content})
	writeJSON(w, http.StatusCreated, domain.Comment{User: u.Username, Content: body.Content})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.userLocked(in.Username) != nil {
		writeError(w, http.StatusBadRequest, "User exists")
		return
	}
	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}
	u := b.addUserLocked(in.Username, in.Password, role)
	writeJSON(w, http.StatusOK, map[string]domain.User{"user": u})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userLocked(in.Username)
	if u == nil || u.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.User{"user": u.User})
}
