package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

// recipeBody is the JSON shape sent on create and update.
type recipeBody struct {
	Title       string          `json:"title"`
	Category    domain.Category `json:"category"`
	PrepTime    int             `json:"prepTime"`
	Image       string          `json:"image"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Author      string          `json:"author,omitempty"`
	Likes       *int            `json:"likes,omitempty"`
	Rating      *float64        `json:"rating,omitempty"`
}

func bodyFromForm(f domain.RecipeForm) recipeBody {
	return recipeBody{
		Title:       f.Title,
		Category:    f.Category,
		PrepTime:    f.PrepTime,
		Image:       f.Image,
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
	}
}

// ListRecipes fetches every recipe. A non-empty username asks the backend
// to attach that viewer's like/favorite/rating flags.
func (c *Client) ListRecipes(ctx context.Context, username string) ([]domain.Recipe, error) {
	var out []domain.Recipe
	req := request{method: http.MethodGet, path: "/recipes", query: viewerQuery(username)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRecipe posts a new recipe. Forms with a local image file are sent
// as multipart so the file can ride along; everything else is JSON.
func (c *Client) CreateRecipe(ctx context.Context, form domain.RecipeForm, author string) (domain.Recipe, error) {
	var req request
	var err error
	if form.ImageFile != "" {
		req, err = multipartRequest(form, author)
	} else {
		body := bodyFromForm(form)
		body.Author = author
		zero, none := 0, 0.0
		body.Likes, body.Rating = &zero, &none
		req, err = jsonRequest(http.MethodPost, "/recipes", nil, body)
	}
	if err != nil {
		return domain.Recipe{}, err
	}

	var out domain.Recipe
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Recipe{}, err
	}
	return out, nil
}

// UpdateRecipe replaces a recipe's editable fields. The backend checks
// that username is the author.
func (c *Client) UpdateRecipe(ctx context.Context, id int, form domain.RecipeForm, username string) (domain.Recipe, error) {
	req, err := jsonRequest(http.MethodPut, recipePath(id, ""), viewerQuery(username), bodyFromForm(form))
	if err != nil {
		return domain.Recipe{}, err
	}
	var out domain.Recipe
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Recipe{}, err
	}
	return out, nil
}

// DeleteRecipe removes a recipe. The acknowledgment body is discarded.
func (c *Client) DeleteRecipe(ctx context.Context, id int, username string) error {
	req := request{method: http.MethodDelete, path: recipePath(id, ""), query: viewerQuery(username)}
	return c.do(ctx, req, nil)
}

// ToggleLike flips the viewer's like on a recipe.
func (c *Client) ToggleLike(ctx context.Context, id int, username string) (domain.LikeResult, error) {
	var out domain.LikeResult
	req, err := jsonRequest(http.MethodPost, recipePath(id, "/like"), nil, map[string]string{"username": username})
	if err != nil {
		return out, err
	}
	err = c.do(ctx, req, &out)
	return out, err
}

// ToggleFavorite flips the viewer's favorite on a recipe.
func (c *Client) ToggleFavorite(ctx context.Context, id int, username string) (domain.FavoriteResult, error) {
	var out domain.FavoriteResult
	req, err := jsonRequest(http.MethodPost, recipePath(id, "/favorite"), nil, map[string]string{"username": username})
	if err != nil {
		return out, err
	}
	err = c.do(ctx, req, &out)
	return out, err
}

// Rate sets the viewer's star rating (1-5) for a recipe.
func (c *Client) Rate(ctx context.Context, id int, username string, stars int) (domain.RatingResult, error) {
	var out domain.RatingResult
	body := struct {
		Username string `json:"username"`
		Stars    int    `json:"stars"`
	}{username, stars}
	req, err := jsonRequest(http.MethodPost, recipePath(id, "/rate"), nil, body)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, req, &out)
	return out, err
}

// ListComments fetches the comments left on a recipe.
func (c *Client) ListComments(ctx context.Context, recipeID int) ([]domain.Comment, error) {
	var out []domain.Comment
	req := request{method: http.MethodGet, path: fmt.Sprintf("/comments/%d", recipeID)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].RecipeID = recipeID
	}
	return out, nil
}

// AddComment appends a comment to a recipe.
func (c *Client) AddComment(ctx context.Context, recipeID, userID int, content string) (domain.Comment, error) {
	body := struct {
		UserID  int    `json:"user_id"`
		Content string `json:"content"`
	}{userID, content}
	req, err := jsonRequest(http.MethodPost, fmt.Sprintf("/comments/%d", recipeID), nil, body)
	if err != nil {
		return domain.Comment{}, err
	}
	var out domain.Comment
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Comment{}, err
	}
	out.RecipeID = recipeID
	return out, nil
}

// multipartRequest encodes a create form with its image file attached.
// List fields are sent as JSON arrays, which the backend parses.
func multipartRequest(form domain.RecipeForm, author string) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ingredients, err := json.Marshal(form.Ingredients)
	if err != nil {
		return request{}, fmt.Errorf("api: encode ingredients: %w", err)
	}
	steps, err := json.Marshal(form.Steps)
	if err != nil {
		return request{}, fmt.Errorf("api: encode steps: %w", err)
	}

	fields := []struct{ name, value string }{
		{"title", form.Title},
		{"category", string(form.Category)},
		{"prepTime", strconv.Itoa(form.PrepTime)},
		{"image", form.Image},
		{"ingredients", string(ingredients)},
		{"steps", string(steps)},
		{"author", author},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return request{}, fmt.Errorf("api: write field %s: %w", f.name, err)
		}
	}

	f, err := os.Open(form.ImageFile)
	if err != nil {
		return request{}, fmt.Errorf("api: open image: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("image", filepath.Base(form.ImageFile))
	if err != nil {
		return request{}, fmt.Errorf("api: create image part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return request{}, fmt.Errorf("api: copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("api: close multipart: %w", err)
	}

	return request{
		method:      http.MethodPost,
		path:        "/recipes",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, nil
}
